package entity

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"bizdash/internal/model"
)

// BannerTimeout is how long an import result stays on screen.
const BannerTimeout = 5 * time.Second

// Uploader posts a CSV file to a collection's import endpoint.
type Uploader interface {
	Import(ctx context.Context, filename string, r io.Reader) (model.ImportResult, error)
}

// ImportState is an immutable view of an Importer.
type ImportState struct {
	Busy   bool
	Result *model.ImportResult
	Err    error
	// Seq identifies the current banner; pass it to Dismiss.
	Seq int
}

// Importer uploads CSV files and holds the outcome until it is dismissed.
type Importer struct {
	Notifier

	up          Uploader
	afterImport func(ctx context.Context) error

	mu     sync.Mutex
	busy   bool
	result *model.ImportResult
	err    error
	seq    int
}

func NewImporter(up Uploader, afterImport func(ctx context.Context) error) *Importer {
	return &Importer{up: up, afterImport: afterImport}
}

// ImportFile uploads the file at path. It returns ErrBusy without touching the
// file while another import is in flight.
func (i *Importer) ImportFile(ctx context.Context, path string) error {
	if err := i.begin(); err != nil {
		return err
	}
	f, err := os.Open(path)
	if err != nil {
		err = fmt.Errorf("open import file: %w", err)
		i.finish(nil, err)
		return err
	}
	defer f.Close()
	return i.upload(ctx, filepath.Base(path), f)
}

// Import uploads r under filename and refreshes the collection on success.
func (i *Importer) Import(ctx context.Context, filename string, r io.Reader) error {
	if err := i.begin(); err != nil {
		return err
	}
	return i.upload(ctx, filename, r)
}

func (i *Importer) begin() error {
	i.mu.Lock()
	if i.busy {
		i.mu.Unlock()
		return ErrBusy
	}
	i.busy = true
	i.result = nil
	i.err = nil
	i.mu.Unlock()
	i.notify()
	return nil
}

func (i *Importer) upload(ctx context.Context, filename string, r io.Reader) error {
	res, err := i.up.Import(ctx, filename, r)
	if err != nil {
		i.finish(nil, err)
		return err
	}
	if i.afterImport != nil {
		_ = i.afterImport(ctx)
	}
	i.finish(&res, nil)
	return nil
}

func (i *Importer) finish(res *model.ImportResult, err error) {
	i.mu.Lock()
	i.busy = false
	i.result = res
	i.err = err
	i.seq++
	i.mu.Unlock()
	i.notify()
}

// Dismiss clears the banner if seq still identifies it.
func (i *Importer) Dismiss(seq int) {
	i.mu.Lock()
	if seq != i.seq || (i.result == nil && i.err == nil) {
		i.mu.Unlock()
		return
	}
	i.result = nil
	i.err = nil
	i.mu.Unlock()
	i.notify()
}

// Snapshot returns the current state.
func (i *Importer) Snapshot() ImportState {
	i.mu.Lock()
	defer i.mu.Unlock()
	return ImportState{Busy: i.busy, Result: i.result, Err: i.err, Seq: i.seq}
}
