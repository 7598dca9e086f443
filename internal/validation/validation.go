// Package validation holds checks on user-supplied settings that are shared
// by the configuration layer and the commands.
package validation

import (
	"fmt"
	"os"
	"path/filepath"
	"unicode"
	"unicode/utf8"
)

// IsValidDelimiter checks that a CSV delimiter is a single character that
// encoding/csv accepts.
func IsValidDelimiter(delimiter string) error {
	if utf8.RuneCountInString(delimiter) != 1 {
		return fmt.Errorf("delimiter must be a single character, got: %q", delimiter)
	}
	r, _ := utf8.DecodeRuneInString(delimiter)
	if r == '"' || r == '\r' || r == '\n' || r == utf8.RuneError {
		return fmt.Errorf("delimiter %q cannot be used in CSV", delimiter)
	}
	return nil
}

// IsValidMask checks an account mask: the last one to four letters or
// digits of an account number.
func IsValidMask(mask string) error {
	n := utf8.RuneCountInString(mask)
	if n == 0 || n > 4 {
		return fmt.Errorf("account mask must be 1 to 4 characters, got: %q", mask)
	}
	for _, r := range mask {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			return fmt.Errorf("account mask must be alphanumeric, got: %q", mask)
		}
	}
	return nil
}

// IsValidOutputPath checks that path can be created or replaced as a file:
// it is not a directory and its parent, if present, is a directory.
func IsValidOutputPath(path string) error {
	if path == "" {
		return fmt.Errorf("output path is empty")
	}
	if info, err := os.Stat(path); err == nil && info.IsDir() {
		return fmt.Errorf("output path %s is a directory", path)
	}
	if info, err := os.Stat(filepath.Dir(path)); err == nil && !info.IsDir() {
		return fmt.Errorf("output path %s: parent is not a directory", path)
	}
	return nil
}
