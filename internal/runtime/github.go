package runtime

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const (
	defaultAPIBase = "https://api.github.com"
	sourceRepo     = "AlhaqGH/PohLang"
	userAgent      = "plhub-update-runtime"
)

// Release is the subset of the GitHub releases API plhub consumes.
type Release struct {
	TagName string         `json:"tag_name"`
	Name    string         `json:"name"`
	Assets  []ReleaseAsset `json:"assets"`
}

// ReleaseAsset is one downloadable file attached to a release.
type ReleaseAsset struct {
	Name               string `json:"name"`
	BrowserDownloadURL string `json:"browser_download_url"`
	Size               int64  `json:"size"`
}

// GitHubClient fetches release metadata and assets. BaseURL and HTTPClient
// are overridable so tests can point at an httptest server.
type GitHubClient struct {
	BaseURL    string
	HTTPClient *http.Client
}

// NewGitHubClient creates a client against the public GitHub API.
func NewGitHubClient() *GitHubClient {
	return &GitHubClient{
		BaseURL:    defaultAPIBase,
		HTTPClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// LatestRelease fetches the latest release of the runtime repository.
func (c *GitHubClient) LatestRelease() (*Release, error) {
	return c.fetchRelease(fmt.Sprintf("%s/repos/%s/releases/latest", c.BaseURL, sourceRepo))
}

// ReleaseByTag fetches a release by its tag name.
func (c *GitHubClient) ReleaseByTag(tag string) (*Release, error) {
	return c.fetchRelease(fmt.Sprintf("%s/repos/%s/releases/tags/%s", c.BaseURL, sourceRepo, tag))
}

func (c *GitHubClient) fetchRelease(url string) (*Release, error) {
	req, err := http.NewRequest(http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching release info: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("release lookup failed: %s", resp.Status)
	}

	var release Release
	if err := json.NewDecoder(resp.Body).Decode(&release); err != nil {
		return nil, fmt.Errorf("decoding release info: %w", err)
	}

	return &release, nil
}

// Download fetches an asset into memory. Runtime SDK zips are small enough
// that buffering beats partial-file cleanup on failure.
func (c *GitHubClient) Download(url string) ([]byte, error) {
	req, err := http.NewRequest(http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("downloading asset: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("asset download failed: %s", resp.Status)
	}

	return io.ReadAll(resp.Body)
}
