// Package runtime locates, invokes and updates the external pohlang runtime
// binary. plhub never interprets PohLang itself; every run/compile operation
// is a blocking subprocess call into this binary.
package runtime

import (
	"os"
	"os/exec"
	"path/filepath"
	goruntime "runtime"
)

// BinaryName returns the platform-specific runtime executable name.
func BinaryName() string {
	if goruntime.GOOS == "windows" {
		return "pohlang.exe"
	}

	return "pohlang"
}

// Locate finds the runtime binary. Search order: Runtime/bin under the plhub
// root, the legacy bin/ directory, then PATH. Returns "" when not found.
func Locate(plhubRoot string) string {
	name := BinaryName()

	candidates := []string{
		filepath.Join(plhubRoot, "Runtime", "bin", name),
		filepath.Join(plhubRoot, "bin", name),
	}

	for _, c := range candidates {
		if info, err := os.Stat(c); err == nil && !info.IsDir() {
			return c
		}
	}

	if path, err := exec.LookPath(name); err == nil {
		return path
	}

	return ""
}
