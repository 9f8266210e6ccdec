// Package confkit carries the small pieces shared by every config loader in
// the repo: dotenv bootstrapping, repository-root discovery, and sections
// that hydrate from sibling files.
package confkit

import (
	"os"
	"path/filepath"
)

// ResolvePath expands environment variables in file and, unless the result is
// already absolute, anchors it at base.
func ResolvePath(base, file string) string {
	expanded := os.ExpandEnv(file)
	if filepath.IsAbs(expanded) {
		return expanded
	}
	return filepath.Join(base, expanded)
}

// BaseDir returns the directory of the main config file path. Section files
// resolve relative to it.
func BaseDir(mainPath string) string {
	return filepath.Dir(mainPath)
}

// Section is a configuration section that may live in a separate file next to
// the main config. T is the section's own config type.
type Section[T any] struct {
	File  string `json:",optional"`
	Value *T     `json:"-"`
}

// Hydrate resolves File against base and runs it through loader, leaving the
// resolved path and the parsed value on the section. Sections with no File
// stay empty; callers decide whether that is an error.
func (s *Section[T]) Hydrate(base string, loader func(string) (*T, error)) error {
	if s.File == "" {
		return nil
	}
	resolved := ResolvePath(base, s.File)
	value, err := loader(resolved)
	if err != nil {
		return err
	}
	s.File = resolved
	s.Value = value
	return nil
}
