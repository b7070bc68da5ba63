package storage

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path"
	"path/filepath"

	"github.com/JaimeStill/campus/pkg/lifecycle"
)

// localDisk stores uploads flat beneath dir using the key's base name.
type localDisk struct {
	dir    string
	logger *slog.Logger
}

func newLocalDisk(dir string, logger *slog.Logger) *localDisk {
	return &localDisk{dir: dir, logger: logger}
}

func (d *localDisk) Start(lc *lifecycle.Coordinator) error {
	lc.OnStartup(func() error {
		if err := os.MkdirAll(d.dir, 0o755); err != nil {
			d.logger.Error("uploads directory initialization failed", "dir", d.dir, "error", err)
			return fmt.Errorf("create uploads dir: %w", err)
		}
		d.logger.Info("uploads directory ready", "dir", d.dir)
		return nil
	})
	return nil
}

func (d *localDisk) Put(ctx context.Context, key string, body io.Reader, _ int64, _ string) error {
	if err := os.MkdirAll(d.dir, 0o755); err != nil {
		return fmt.Errorf("create uploads dir: %w", err)
	}

	dst := filepath.Join(d.dir, path.Base(key))
	f, err := os.Create(dst)
	if err != nil {
		return fmt.Errorf("create %s: %w", dst, err)
	}

	if _, err := io.Copy(f, readerWithContext(ctx, body)); err != nil {
		f.Close()
		os.Remove(dst)
		return fmt.Errorf("write %s: %w", dst, err)
	}

	return f.Close()
}

type ctxReader struct {
	ctx context.Context
	r   io.Reader
}

func (c *ctxReader) Read(p []byte) (int, error) {
	if err := c.ctx.Err(); err != nil {
		return 0, err
	}
	return c.r.Read(p)
}

func readerWithContext(ctx context.Context, r io.Reader) io.Reader {
	return &ctxReader{ctx: ctx, r: r}
}
