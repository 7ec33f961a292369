package dataset

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"github.com/manabi-ml/manabi/pkg/errors"
	"github.com/manabi-ml/manabi/pkg/log"
)

// fetchTimeout bounds a single download when the caller's context has no
// deadline of its own.
const fetchTimeout = 60 * time.Second

var fetchClient = &http.Client{}

// cachePath derives a stable local filename for a URL: the hash keeps
// distinct URLs apart, the base name keeps the file recognizable.
func cachePath(cacheDir, rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", errors.Wrapf(err, "invalid URL %s", rawURL)
	}

	base := filepath.Base(u.Path)
	if base == "." || base == "/" || base == "" {
		base = "dataset"
	}

	sum := sha256.Sum256([]byte(rawURL))
	return filepath.Join(cacheDir, hex.EncodeToString(sum[:8])+"_"+base), nil
}

// Fetch downloads a dataset file over HTTP GET and returns the local path.
// A previously downloaded copy in cacheDir is reused without touching the
// network. The download goes through a temporary file, so an interrupted
// transfer never poisons the cache.
func Fetch(ctx context.Context, rawURL, cacheDir string) (string, error) {
	path, err := cachePath(cacheDir, rawURL)
	if err != nil {
		return "", err
	}

	logger := log.GetLogger().With(
		log.ComponentKey, "dataset",
		log.URLKey, rawURL,
	)

	if _, err := os.Stat(path); err == nil {
		logger.Debug("cache hit", log.DatasetKey, filepath.Base(path))
		return path, nil
	}

	if err := os.MkdirAll(cacheDir, 0o755); err != nil {
		return "", errors.Wrapf(err, "creating cache directory %s", cacheDir)
	}

	if _, hasDeadline := ctx.Deadline(); !hasDeadline {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, fetchTimeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return "", errors.Wrapf(err, "building request for %s", rawURL)
	}

	start := time.Now()
	resp, err := fetchClient.Do(req)
	if err != nil {
		return "", errors.Wrapf(err, "fetching %s", rawURL)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", errors.Newf("fetching %s: unexpected status %s", rawURL, resp.Status)
	}

	tmp, err := os.CreateTemp(cacheDir, ".download-*")
	if err != nil {
		return "", errors.Wrap(err, "creating temporary file")
	}
	defer os.Remove(tmp.Name())

	n, err := io.Copy(tmp, resp.Body)
	if closeErr := tmp.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		return "", errors.Wrapf(err, "downloading %s", rawURL)
	}
	if resp.ContentLength >= 0 && n != resp.ContentLength {
		return "", errors.Newf("fetching %s: truncated download, got %d of %d bytes",
			rawURL, n, resp.ContentLength)
	}

	if err := os.Rename(tmp.Name(), path); err != nil {
		return "", errors.Wrap(err, "moving download into cache")
	}

	logger.Info("dataset downloaded",
		log.DatasetKey, filepath.Base(path),
		"bytes", n,
		log.DurationMsKey, time.Since(start).Milliseconds(),
	)

	return path, nil
}

// FetchCSV downloads a CSV dataset and loads it in one step.
func FetchCSV(ctx context.Context, rawURL, cacheDir string) (*Dataset, error) {
	path, err := Fetch(ctx, rawURL, cacheDir)
	if err != nil {
		return nil, err
	}
	return LoadCSV(path)
}
