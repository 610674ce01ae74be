package hashutil

import (
	"crypto/sha256"
	"fmt"

	"github.com/arthur-debert/ccstart/pkg/types"
)

// HashBytes returns the SHA256 checksum of data in the same format as
// CalculateFileChecksum.
func HashBytes(data []byte) string {
	return fmt.Sprintf("sha256:%x", sha256.Sum256(data))
}

// CalculateFileChecksum calculates the SHA256 checksum of a file
func CalculateFileChecksum(fsys types.FS, path string) (string, error) {
	data, err := fsys.ReadFile(path)
	if err != nil {
		return "", err
	}
	return HashBytes(data), nil
}
