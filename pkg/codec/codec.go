// Package codec maps provider display names to filesystem-safe tokens and
// back.
//
// Tokens are the percent-encoding of the name's UTF-8 bytes. Control bytes,
// every non-ASCII byte, '%' and the characters / : * ? " < > | \ are escaped;
// everything else, including space, is kept as is. The mapping is exact in
// both directions, so Decode(Encode(name)) == name for any valid UTF-8 name.
package codec

import (
	"strings"
	"unicode/utf8"

	"github.com/arthur-debert/ccstart/pkg/errors"
)

const (
	// FilePrefix and FileSuffix wrap a token to form an on-disk file name.
	FilePrefix = "config-"
	FileSuffix = ".json"

	upperHex = "0123456789ABCDEF"
)

func shouldEscape(b byte) bool {
	if b < 0x20 || b >= 0x7F {
		return true
	}
	switch b {
	case '%', '/', ':', '*', '?', '"', '<', '>', '|', '\\':
		return true
	}
	return false
}

// Encode returns the filesystem-safe token for name.
func Encode(name string) string {
	var sb strings.Builder
	sb.Grow(len(name))
	for i := 0; i < len(name); i++ {
		b := name[i]
		if shouldEscape(b) {
			sb.WriteByte('%')
			sb.WriteByte(upperHex[b>>4])
			sb.WriteByte(upperHex[b&0x0F])
			continue
		}
		sb.WriteByte(b)
	}
	return sb.String()
}

// Decode reverses Encode. It fails with ErrDecode on a truncated or
// non-hex escape, or when the decoded bytes are not valid UTF-8.
// Lower-case hex digits are accepted.
func Decode(token string) (string, error) {
	if !strings.Contains(token, "%") {
		if !utf8.ValidString(token) {
			return "", errors.Newf(errors.ErrDecode, "token %q is not valid UTF-8", token)
		}
		return token, nil
	}

	buf := make([]byte, 0, len(token))
	for i := 0; i < len(token); i++ {
		b := token[i]
		if b != '%' {
			buf = append(buf, b)
			continue
		}
		if i+2 >= len(token) {
			return "", errors.Newf(errors.ErrDecode, "truncated escape at offset %d in %q", i, token)
		}
		hi, okHi := unhex(token[i+1])
		lo, okLo := unhex(token[i+2])
		if !okHi || !okLo {
			return "", errors.Newf(errors.ErrDecode, "invalid escape %q at offset %d", token[i:i+3], i)
		}
		buf = append(buf, hi<<4|lo)
		i += 2
	}

	if !utf8.Valid(buf) {
		return "", errors.Newf(errors.ErrDecode, "decoded token %q is not valid UTF-8", token)
	}
	return string(buf), nil
}

func unhex(c byte) (byte, bool) {
	switch {
	case '0' <= c && c <= '9':
		return c - '0', true
	case 'a' <= c && c <= 'f':
		return c - 'a' + 10, true
	case 'A' <= c && c <= 'F':
		return c - 'A' + 10, true
	}
	return 0, false
}

// FileName returns the on-disk file name for a provider name.
func FileName(name string) string {
	return FilePrefix + Encode(name) + FileSuffix
}

// ParseFileName recovers the provider name from a managed file name.
// ok is false for anything that is not a managed file, including names
// whose token does not decode and tokens that are not in the exact form
// Encode produces (lower-case hex, raw non-ASCII bytes, needless escapes).
// Every managed file therefore maps back to itself through FileName.
func ParseFileName(fileName string) (name string, ok bool) {
	rest, found := strings.CutPrefix(fileName, FilePrefix)
	if !found {
		return "", false
	}
	token, found := strings.CutSuffix(rest, FileSuffix)
	if !found {
		return "", false
	}
	decoded, err := Decode(token)
	if err != nil || Encode(decoded) != token {
		return "", false
	}
	return decoded, true
}
