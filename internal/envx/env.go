// Package envx overlays configuration with environment variables, optionally
// seeded from a dotenv file.
package envx

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Load reads the dotenv file into the process environment. Variables that
// are already set win over the file. A missing file is not an error.
func Load(file string) error {
	if file == "" {
		return nil
	}
	if err := godotenv.Load(file); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("dotenv %s: %w", file, err)
	}
	return nil
}

// Source looks variables up under a common prefix, e.g. "CCAT_".
type Source struct {
	Prefix string
	lookup func(string) (string, bool)
}

func NewSource(prefix string) *Source {
	return &Source{Prefix: prefix, lookup: os.LookupEnv}
}

func (s *Source) get(key string) (string, bool) {
	v, ok := s.lookup(s.Prefix + key)
	if !ok || v == "" {
		return "", false
	}
	return v, true
}

func (s *Source) String(key string, dst *string) {
	if v, ok := s.get(key); ok {
		*dst = v
	}
}

func (s *Source) Duration(key string, dst *time.Duration) error {
	v, ok := s.get(key)
	if !ok {
		return nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fmt.Errorf("%s%s: %w", s.Prefix, key, err)
	}
	*dst = d
	return nil
}

func (s *Source) Int64(key string, dst *int64) error {
	v, ok := s.get(key)
	if !ok {
		return nil
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return fmt.Errorf("%s%s: %w", s.Prefix, key, err)
	}
	*dst = n
	return nil
}
