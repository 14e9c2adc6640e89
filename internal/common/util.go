package common

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"path"
	"strings"
)

// MakeRandHexString generates a random hexadecimal string of the given size.
// The result is twice as long as size since every byte expands to two hex
// characters.
func MakeRandHexString(size int) (string, error) {
	b := make([]byte, size)
	_, err := rand.Read(b)
	if err != nil {
		return "", err
	}

	return hex.EncodeToString(b), nil
}

// WipeByteArray overwrites the contents of the provided byte slice with zeros.
// Used for passwords read from the terminal.
func WipeByteArray(b []byte) {
	for i := range b {
		b[i] = 0
	}
}

// FileExtension returns the text after the last "." of name. A name without
// a dot is returned unchanged, so "README" yields "README".
func FileExtension(name string) string {
	name = path.Base(strings.ReplaceAll(name, "\\", "/"))
	if i := strings.LastIndex(name, "."); i >= 0 {
		return name[i+1:]
	}
	return name
}

// Reason strips the sentinel prefix from a wrapped validation error so the
// message can be shown to end users.
//
//	Reason(fmt.Errorf("%w: no file provided", ErrValidation)) == "no file provided"
func Reason(err error, sentinel error) string {
	msg := err.Error()
	if errors.Is(err, sentinel) {
		if rest, ok := strings.CutPrefix(msg, sentinel.Error()+": "); ok {
			return rest
		}
	}
	return msg
}
