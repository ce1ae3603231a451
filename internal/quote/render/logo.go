package render

import (
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/pdv88/quoteDrop-webapp/internal/cache"
)

const (
	maxLogoBytes = 5 << 20
	logoCacheTTL = 15 * time.Minute
)

// Logo is a fetched, decoded company logo ready to embed.
type Logo struct {
	Data   []byte
	Format string
	Width  int
	Height int
}

// LogoLoader fetches remote logo images over HTTP with a bounded timeout.
// Fetches are cached by URL so repeated renders for the same account do
// not refetch.
type LogoLoader struct {
	client  *http.Client
	timeout time.Duration
	cache   cache.Cache[string, Logo]
	log     *zap.Logger
}

// NewLogoLoader constructs a loader. A nil client falls back to
// http.DefaultClient, a nil cache disables caching.
func NewLogoLoader(client *http.Client, timeout time.Duration, c cache.Cache[string, Logo], log *zap.Logger) *LogoLoader {
	if client == nil {
		client = http.DefaultClient
	}
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	if c == nil {
		c = cache.NoopCache[string, Logo]{}
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &LogoLoader{client: client, timeout: timeout, cache: c, log: log}
}

// Fetch downloads and decodes the logo at url. Any failure returns an
// error; the caller decides how the document degrades.
func (l *LogoLoader) Fetch(ctx context.Context, url string) (Logo, error) {
	if logo, ok := l.cache.Get(url); ok {
		return logo, nil
	}

	ctx, cancel := context.WithTimeout(ctx, l.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return Logo{}, fmt.Errorf("logo request: %w", err)
	}
	resp, err := l.client.Do(req)
	if err != nil {
		return Logo{}, fmt.Errorf("logo fetch: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return Logo{}, fmt.Errorf("logo fetch: unexpected status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxLogoBytes+1))
	if err != nil {
		return Logo{}, fmt.Errorf("logo read: %w", err)
	}
	if len(data) > maxLogoBytes {
		return Logo{}, fmt.Errorf("logo read: image exceeds %d bytes", maxLogoBytes)
	}

	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return Logo{}, fmt.Errorf("logo decode: %w", err)
	}
	var imageType string
	switch format {
	case "png":
		imageType = "PNG"
	case "jpeg":
		imageType = "JPG"
	default:
		return Logo{}, fmt.Errorf("logo decode: unsupported format %q", format)
	}

	logo := Logo{Data: data, Format: imageType, Width: cfg.Width, Height: cfg.Height}
	l.cache.Set(url, logo, logoCacheTTL)
	return logo, nil
}
