package onnx

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"
	"github.com/krau/floravision/classifier"
)

// EnsureModel downloads url to path unless path already exists. A lock file
// next to path keeps concurrent processes from downloading twice.
func EnsureModel(ctx context.Context, url, path string) error {
	if _, err := os.Stat(path); err == nil {
		return nil
	}
	if url == "" {
		return fmt.Errorf("%w: %s does not exist and no model_url is configured", classifier.ErrModelLoad, path)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("%w: failed to create model directory: %w", classifier.ErrModelLoad, err)
	}

	lock := flock.New(path + ".lock")
	locked, err := lock.TryLockContext(ctx, 500*time.Millisecond)
	if err != nil {
		return fmt.Errorf("%w: failed to lock %s: %w", classifier.ErrModelLoad, path, err)
	}
	if !locked {
		return fmt.Errorf("%w: could not lock %s", classifier.ErrModelLoad, path)
	}
	defer lock.Unlock()

	// Another process may have finished the download while we waited.
	if _, err := os.Stat(path); err == nil {
		return nil
	}

	slog.Info("Downloading model", slog.String("url", url), slog.String("path", path))
	if err := download(ctx, url, path); err != nil {
		return fmt.Errorf("%w: %w", classifier.ErrModelLoad, err)
	}
	slog.Info("Model downloaded", slog.String("path", path))
	return nil
}

func download(ctx context.Context, url, path string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to download model: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("failed to download model: %s", resp.Status)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".*.part")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := io.Copy(tmp, resp.Body); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write model: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}
