package runtime

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

// SyncLocal copies a locally built runtime from the PohLang repo's cargo
// target directory into <root>/Runtime/bin. Used during development when
// releases are unavailable.
func SyncLocal(plhubRoot, pohlangRepo, profile string) error {
	if pohlangRepo == "" {
		pohlangRepo = filepath.Join(filepath.Dir(plhubRoot), "PohLang")
	}

	name := BinaryName()
	src := filepath.Join(pohlangRepo, "runtime", "target", profile, name)
	if _, err := os.Stat(src); err != nil {
		return fmt.Errorf("%s not found; build it first with cargo build --manifest-path %s",
			src, filepath.Join(pohlangRepo, "runtime", "Cargo.toml"))
	}

	dstDir := filepath.Join(plhubRoot, "Runtime", "bin")
	if err := os.MkdirAll(dstDir, 0o755); err != nil {
		return fmt.Errorf("failed to create runtime bin directory: %w", err)
	}

	dst := filepath.Join(dstDir, name)
	if err := copyFile(src, dst); err != nil {
		return fmt.Errorf("failed to copy runtime: %w", err)
	}

	meta := Metadata{
		Version:         cargoVersion(pohlangRepo),
		SourceRepo:      "https://github.com/" + sourceRepo,
		BuildProfile:    profile,
		InstalledBinary: filepath.Join("Runtime", "bin", name),
		InstalledAt:     time.Now().UTC(),
		Source:          "local_build",
	}
	if err := SaveMetadata(plhubRoot, meta); err != nil {
		log.Warn().Err(err).Msg("failed to write runtime metadata")
	}

	log.Info().Str("src", src).Str("dst", dst).Msg("runtime synced from local build")

	return nil
}

// cargoVersion reads the version field from the runtime's Cargo.toml,
// falling back to "unknown".
func cargoVersion(pohlangRepo string) string {
	data, err := os.ReadFile(filepath.Join(pohlangRepo, "runtime", "Cargo.toml"))
	if err != nil {
		return "unknown"
	}

	for _, line := range strings.Split(string(data), "\n") {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "version") {
			if _, value, ok := strings.Cut(trimmed, "="); ok {
				return strings.Trim(strings.TrimSpace(value), `"'`)
			}
		}
	}

	return "unknown"
}

// copyFile copies src to dst, preserving the source's permission bits.
func copyFile(src, dst string) error {
	srcFile, err := os.Open(src)
	if err != nil {
		return err
	}
	defer srcFile.Close()

	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return err
	}

	dstFile, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer dstFile.Close()

	if _, err := io.Copy(dstFile, srcFile); err != nil {
		return err
	}

	info, err := os.Stat(src)
	if err != nil {
		return err
	}

	return os.Chmod(dst, info.Mode())
}
