// internal/tts/tts.go
//
// Text-to-speech pronunciation audio for phrases.
// Responsibilities:
//   - Build the public translation-API speech URL for a phrase.
//   - Batch-download one MP3 per phrase into a directory, strictly one at a
//     time with a short pause between requests.
//
// Environment variables:
//
//	TTS_BASE_URL=https://fanyi.baidu.com/gettts   (default)

package tts

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

const (
	DefaultBaseURL = "https://fanyi.baidu.com/gettts"
	defaultPause   = 100 * time.Millisecond
)

// BaseURL returns TTS_BASE_URL or the default endpoint.
func BaseURL() string {
	if v := os.Getenv("TTS_BASE_URL"); v != "" {
		return v
	}
	return DefaultBaseURL
}

// URL returns the speech URL for text (Mandarin, speed 5).
func URL(base, text string) string {
	q := url.Values{}
	q.Set("lan", "zh")
	q.Set("spd", "5")
	q.Set("text", text)
	return base + "?" + q.Encode()
}

// Fetcher downloads speech files.
type Fetcher struct {
	Client  *http.Client
	BaseURL string
	Pause   time.Duration // delay between downloads; zero means the 100ms default
}

// NewFetcher returns a Fetcher using BaseURL() and a 30s client timeout.
func NewFetcher() *Fetcher {
	return &Fetcher{
		Client:  &http.Client{Timeout: 30 * time.Second},
		BaseURL: BaseURL(),
	}
}

// FetchAll saves "<text>.mp3" under dir for every non-blank text, in order.
// It stops at the first failure. The returned slice lists the files written.
func (f *Fetcher) FetchAll(ctx context.Context, texts []string, dir string) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("tts: mkdir %s: %w", dir, err)
	}
	pause := f.Pause
	if pause <= 0 {
		pause = defaultPause
	}

	var written []string
	for _, text := range texts {
		text = strings.TrimSpace(text)
		if text == "" {
			continue
		}
		if len(written) > 0 {
			select {
			case <-ctx.Done():
				return written, ctx.Err()
			case <-time.After(pause):
			}
		}
		path := filepath.Join(dir, FileName(text))
		if err := f.fetch(ctx, text, path); err != nil {
			return written, fmt.Errorf("tts: %q: %w", text, err)
		}
		log.Info().Str("text", text).Str("file", path).Msg("downloaded audio")
		written = append(written, path)
	}
	return written, nil
}

func (f *Fetcher) fetch(ctx context.Context, text, path string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, URL(f.BaseURL, text), nil)
	if err != nil {
		return err
	}
	client := f.Client
	if client == nil {
		client = http.DefaultClient
	}
	res, err := client.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()
	if res.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %s", res.Status)
	}

	out, err := os.Create(path)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, res.Body); err != nil {
		_ = out.Close()
		_ = os.Remove(path)
		return err
	}
	if err := out.Close(); err != nil {
		_ = os.Remove(path)
		return err
	}
	return nil
}

// FileName maps a phrase to its audio file name. Path separators are
// replaced so a sentence can never escape the target directory.
func FileName(text string) string {
	r := strings.NewReplacer("/", "_", `\`, "_", "\x00", "")
	return r.Replace(text) + ".mp3"
}
