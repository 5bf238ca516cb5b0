package upload

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/nkravets/eshop/internal/infrastructure/observability"
)

var ErrStorageWrite = errors.New("storage write failed")

// FileStore persists accepted upload bodies under a derived filename.
type FileStore interface {
	Save(ctx context.Context, filename string, body io.Reader) error
	Remove(ctx context.Context, filename string) error
}

// Candidate is an incoming file part, not yet validated or persisted.
type Candidate struct {
	ContentType string
	Filename    string
	Body        io.Reader
}

// StoredFile describes an accepted, persisted upload.
type StoredFile struct {
	Extension string
	Filename  string
	URL       string
}

// Pipeline classifies a candidate and, if accepted, writes it to the store.
// No bytes reach storage for a rejected candidate.
type Pipeline struct {
	store   FileStore
	baseURL string
	now     func() time.Time
}

func NewPipeline(store FileStore, baseURL string) *Pipeline {
	return &Pipeline{store: store, baseURL: baseURL, now: time.Now}
}

func (p *Pipeline) Accept(ctx context.Context, c Candidate) (*StoredFile, error) {
	ext, err := Classify(c.ContentType)
	if err != nil {
		slog.Warn("upload rejected", "content_type", c.ContentType, "filename", c.Filename)
		observability.UploadsTotal.WithLabelValues("rejected").Inc()
		return nil, err
	}

	filename := DeriveName(c.Filename, ext, p.now())
	if err := p.store.Save(ctx, filename, c.Body); err != nil {
		slog.Error("failed to persist upload", "filename", filename, "error", err)
		observability.UploadsTotal.WithLabelValues("failed").Inc()
		return nil, fmt.Errorf("%w: %v", ErrStorageWrite, err)
	}

	observability.UploadsTotal.WithLabelValues("accepted").Inc()
	return &StoredFile{
		Extension: ext,
		Filename:  filename,
		URL:       StorageURL(p.baseURL, filename),
	}, nil
}

// Discard removes a previously accepted file, for callers whose follow-up
// work failed after the upload was persisted. Best effort.
func (p *Pipeline) Discard(ctx context.Context, filename string) {
	if err := p.store.Remove(ctx, filename); err != nil {
		slog.Warn("failed to discard stored upload", "filename", filename, "error", err)
	}
}
