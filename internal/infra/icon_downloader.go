package infra

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/disintegration/imaging"
)

// IconDownloader downloads and caches token logos for the chart UI.
type IconDownloader struct {
	basePath string
	client   *http.Client
}

// NewIconDownloader creates a downloader caching icons under iconDir.
func NewIconDownloader(iconDir string) (*IconDownloader, error) {
	if err := os.MkdirAll(iconDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create icon directory: %w", err)
	}

	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.MaxIdleConns = 100
	transport.MaxConnsPerHost = 10
	transport.IdleConnTimeout = 30 * time.Second

	return &IconDownloader{
		basePath: iconDir,
		client: &http.Client{
			Timeout:   10 * time.Second,
			Transport: transport,
		},
	}, nil
}

// DownloadIcon fetches the logo at logoURL for a mint if not already cached
// and returns the local file path. Images are resized to 64x64 for
// consistent chart display.
func (d *IconDownloader) DownloadIcon(mint, logoURL string) (string, error) {
	safeMint := sanitizeMint(mint)
	if safeMint == "" {
		return "", fmt.Errorf("invalid mint: %s", mint)
	}
	if logoURL == "" {
		return "", fmt.Errorf("no logo URL for mint %s", mint)
	}

	filePath := filepath.Join(d.basePath, safeMint+".png")
	if _, err := os.Stat(filePath); err == nil {
		return filePath, nil // Cache hit
	}

	resp, err := d.client.Get(logoURL)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("bad status: %s", resp.Status)
	}

	srcImg, err := imaging.Decode(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to decode image: %w", err)
	}

	resizedImg := imaging.Resize(srcImg, 64, 64, imaging.Lanczos)
	if err := imaging.Save(resizedImg, filePath); err != nil {
		return "", fmt.Errorf("failed to save resized image: %w", err)
	}

	return filePath, nil
}

// IconPath returns the local path for a mint's cached icon.
func (d *IconDownloader) IconPath(mint string) string {
	return filepath.Join(d.basePath, sanitizeMint(mint)+".png")
}

// sanitizeMint strips anything that could escape the icon directory.
func sanitizeMint(mint string) string {
	var b strings.Builder
	for _, r := range mint {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
		}
	}
	return b.String()
}
