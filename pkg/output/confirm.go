package output

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/arthur-debert/ccstart/pkg/errors"
)

// Confirm asks a yes/no question on out and reads the answer from in.
// Anything other than "y" or "yes" (case-insensitive) is a no, including
// an empty line and end of input.
func Confirm(in io.Reader, out io.Writer, prompt string) (bool, error) {
	if _, err := fmt.Fprintf(out, "%s (y/N): ", prompt); err != nil {
		return false, errors.Wrap(err, errors.ErrInternal, "failed to write prompt")
	}

	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && err != io.EOF {
		return false, errors.Wrap(err, errors.ErrInvalidInput, "failed to read user input")
	}

	response := strings.ToLower(strings.TrimSpace(line))
	return response == "y" || response == "yes", nil
}
