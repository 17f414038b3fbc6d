package runtime

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"
)

// MetadataFile records the provenance of the installed runtime binary.
const MetadataFile = "pohlang_metadata.json"

// Metadata describes where the installed runtime came from.
type Metadata struct {
	Version         string    `json:"pohlang_version"`
	SourceRepo      string    `json:"source_repo"`
	SourceTag       string    `json:"source_tag,omitempty"`
	DownloadURL     string    `json:"download_url,omitempty"`
	SDKZipSHA256    string    `json:"sdk_zip_sha256,omitempty"`
	InstalledBinary string    `json:"installed_binary"`
	InstalledAt     time.Time `json:"installed_at"`
	Source          string    `json:"source,omitempty"` // "release" or "local_build"
	BuildProfile    string    `json:"build_profile,omitempty"`
}

func metadataPath(plhubRoot string) string {
	return filepath.Join(plhubRoot, "Runtime", MetadataFile)
}

// LoadMetadata reads the provenance file. A missing file is not an error; it
// returns a zero Metadata and ok=false.
func LoadMetadata(plhubRoot string) (Metadata, bool) {
	data, err := os.ReadFile(metadataPath(plhubRoot))
	if err != nil {
		return Metadata{}, false
	}

	var meta Metadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return Metadata{}, false
	}

	return meta, true
}

// SaveMetadata writes the provenance file, creating Runtime/ if needed.
func SaveMetadata(plhubRoot string, meta Metadata) error {
	dir := filepath.Join(plhubRoot, "Runtime")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(meta, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(metadataPath(plhubRoot), data, 0o644)
}
