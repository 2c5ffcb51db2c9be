package export

import (
	"bytes"
	"context"
	"os"
	"path/filepath"

	"github.com/natefinch/atomic"
)

// DirPublisher writes documents below a local directory. Files are
// replaced atomically so a concurrently served directory never exposes a
// half-written page.
type DirPublisher struct {
	Dir string
}

// NewDirPublisher returns a publisher rooted at dir.
func NewDirPublisher(dir string) *DirPublisher {
	return &DirPublisher{Dir: dir}
}

// Publish implements Publisher.
func (d *DirPublisher) Publish(ctx context.Context, name string, body []byte) error {
	target := filepath.Join(d.Dir, filepath.FromSlash(name))
	if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
		return err
	}
	return atomic.WriteFile(target, bytes.NewReader(body))
}
