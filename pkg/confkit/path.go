package confkit

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
)

// rootSearchDepth caps the upward walk when locating the repository root.
const rootSearchDepth = 8

// ProjectRoot locates the repository root by walking upwards from this
// package until a directory holds go.mod or .git. Falls back to the current
// working directory when the walk comes up empty.
func ProjectRoot() (string, error) {
	if dir, ok := packageDir(); ok {
		if root, found := climbToRoot(dir, nil); found {
			return root, nil
		}
	}
	wd, err := os.Getwd()
	if err != nil {
		return ".", fmt.Errorf("getwd: %w", err)
	}
	return wd, nil
}

// MustProjectRoot returns the repository root path or panics on failure.
func MustProjectRoot() string {
	root, err := ProjectRoot()
	if err != nil {
		panic(err)
	}
	return root
}

// ProjectPath joins the repository root with the provided relative path.
func ProjectPath(rel string) (string, error) {
	root, err := ProjectRoot()
	if err != nil {
		return "", err
	}
	return filepath.Join(root, rel), nil
}

// MustProjectPath returns ProjectPath(rel) and panics on failure.
func MustProjectPath(rel string) string {
	p, err := ProjectPath(rel)
	if err != nil {
		panic(err)
	}
	return p
}

// packageDir returns the directory holding this source file.
func packageDir() (string, bool) {
	_, file, _, ok := runtime.Caller(0)
	if !ok {
		return "", false
	}
	return filepath.Dir(file), true
}

// climbToRoot walks from dir toward the filesystem root, calling visit at
// every level, and stops at the repository root or after rootSearchDepth
// levels.
func climbToRoot(dir string, visit func(dir string)) (string, bool) {
	for i := 0; i < rootSearchDepth; i++ {
		if visit != nil {
			visit(dir)
		}
		if isRepoRoot(dir) {
			return dir, true
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", false
}

func isRepoRoot(dir string) bool {
	for _, marker := range []string{"go.mod", ".git"} {
		if _, err := os.Stat(filepath.Join(dir, marker)); err == nil {
			return true
		}
	}
	return false
}
