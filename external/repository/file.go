package repository

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/gangstaai/scanclient/internal/repository"
)

const maxHistoryLineSize = 16 << 20

// FileRepository appends every saved scan as one JSON line and replays the
// file on open, so later CLI runs see earlier scans. The last line for an id
// wins.
type FileRepository struct {
	*MemoryRepository

	path    string
	writeMu sync.Mutex
}

func OpenFileRepository(path string) (*FileRepository, error) {
	if path == "" {
		return nil, errors.New("scan history path is empty")
	}
	r := &FileRepository{
		MemoryRepository: NewMemoryRepository(),
		path:             path,
	}
	if err := r.load(); err != nil {
		return nil, fmt.Errorf("failed to load scan history %s: %w", path, err)
	}
	return r, nil
}

func (r *FileRepository) Path() string {
	return r.path
}

func (r *FileRepository) load() error {
	f, err := os.Open(r.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return err
	}
	defer func() {
		_ = f.Close()
	}()

	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 64<<10), maxHistoryLineSize)
	line := 0
	for sc.Scan() {
		line++
		b := bytes.TrimSpace(sc.Bytes())
		if len(b) == 0 {
			continue
		}
		var rec repository.ScanRecord
		if err := json.Unmarshal(b, &rec); err != nil || rec.ID == "" {
			slog.Warn("skipping unreadable scan history line", "path", r.path, "line", line, "error", err)
			continue
		}
		r.restore(rec)
	}
	return sc.Err()
}

func (r *FileRepository) SaveScan(ctx context.Context, input repository.SaveScanInput) error {
	r.writeMu.Lock()
	defer r.writeMu.Unlock()

	if err := r.MemoryRepository.SaveScan(ctx, input); err != nil {
		return err
	}
	rec, err := r.GetScan(ctx, input.ID)
	if err != nil {
		return err
	}
	b, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("encode scan %s: %w", input.ID, err)
	}
	if err := os.MkdirAll(filepath.Dir(r.path), 0o755); err != nil {
		return fmt.Errorf("create scan history dir: %w", err)
	}
	f, err := os.OpenFile(r.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o600)
	if err != nil {
		return fmt.Errorf("open scan history: %w", err)
	}
	if _, err := f.Write(append(b, '\n')); err != nil {
		_ = f.Close()
		return fmt.Errorf("append scan history: %w", err)
	}
	return f.Close()
}
