package handler

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/klauspost/compress/gzip"

	"github.com/j-raghavan/goguru/core"
	"github.com/j-raghavan/goguru/formatter"
)

// FileHandler appends formatted records to a file, with optional
// size-based rotation. Rotated files are renamed path.1 .. path.N, oldest
// last; with Compress they are gzipped as path.N.gz instead.
type FileHandler struct {
	base
	mu     sync.Mutex
	path   string
	file   *os.File
	size   int64
	closed bool

	maxSize    int64
	maxBackups int
	compress   bool
}

// FileConfig holds configuration for the file handler
type FileConfig struct {
	// Path of the log file (required)
	Path string
	// Level is the handler's threshold (default: InfoLevel)
	Level core.Level
	// Formatter to use (default: TextFormatter without colors)
	Formatter formatter.Formatter
	// MaxSize triggers rotation once the file exceeds this many bytes.
	// Zero disables rotation.
	MaxSize int64
	// MaxBackups bounds the number of rotated files kept. Zero keeps none.
	MaxBackups int
	// Compress gzips rotated files
	Compress bool
}

// NewFileHandler opens (or creates) the log file in append mode.
func NewFileHandler(cfg FileConfig) (*FileHandler, error) {
	if cfg.Path == "" {
		return nil, fmt.Errorf("file handler: path required")
	}
	if cfg.Level == 0 {
		cfg.Level = core.InfoLevel
	}
	if cfg.Formatter == nil {
		cfg.Formatter = formatter.NewTextFormatter(formatter.Config{})
	}

	file, err := os.OpenFile(cfg.Path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("file handler: open %s: %w", cfg.Path, err)
	}
	info, err := file.Stat()
	if err != nil {
		file.Close()
		return nil, fmt.Errorf("file handler: stat %s: %w", cfg.Path, err)
	}

	return &FileHandler{
		base:       newBase(cfg.Level, cfg.Formatter),
		path:       cfg.Path,
		file:       file,
		size:       info.Size(),
		maxSize:    cfg.MaxSize,
		maxBackups: cfg.MaxBackups,
		compress:   cfg.Compress,
	}, nil
}

// Handle formats and appends one record, rotating first if needed.
func (h *FileHandler) Handle(rec *core.Record) error {
	data, err := h.fmtr.Format(rec)
	if err != nil {
		return err
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.write(data)
}

// HandleBatch appends the whole batch under one lock acquisition.
func (h *FileHandler) HandleBatch(recs []*core.Record) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, rec := range recs {
		data, err := h.fmtr.Format(rec)
		if err != nil {
			return err
		}
		if err := h.write(data); err != nil {
			return err
		}
	}
	return nil
}

func (h *FileHandler) write(data []byte) error {
	if h.closed {
		return fmt.Errorf("file handler: closed")
	}
	if h.maxSize > 0 && h.size+int64(len(data)) > h.maxSize && h.size > 0 {
		if err := h.rotate(); err != nil {
			return err
		}
	}
	n, err := h.file.Write(data)
	h.size += int64(n)
	return err
}

// rotate shifts existing backups up one slot and moves the live file into
// the first slot, gzipping it when compression is on.
func (h *FileHandler) rotate() error {
	if err := h.file.Close(); err != nil {
		return fmt.Errorf("file handler: close for rotation: %w", err)
	}

	ext := ""
	if h.compress {
		ext = ".gz"
	}

	if h.maxBackups > 0 {
		os.Remove(h.backupPath(h.maxBackups, ext))
		for i := h.maxBackups - 1; i >= 1; i-- {
			os.Rename(h.backupPath(i, ext), h.backupPath(i+1, ext))
		}
		if h.compress {
			if err := gzipFile(h.path, h.backupPath(1, ext)); err != nil {
				return err
			}
			os.Remove(h.path)
		} else if err := os.Rename(h.path, h.backupPath(1, "")); err != nil {
			return fmt.Errorf("file handler: rotate %s: %w", h.path, err)
		}
	} else {
		// No backups kept; drop the current contents.
		os.Remove(h.path)
	}

	file, err := os.OpenFile(h.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("file handler: reopen %s: %w", h.path, err)
	}
	h.file = file
	h.size = 0
	return nil
}

func (h *FileHandler) backupPath(n int, ext string) string {
	return fmt.Sprintf("%s.%d%s", h.path, n, ext)
}

// gzipFile compresses src into dst.
func gzipFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("file handler: compress open %s: %w", src, err)
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return fmt.Errorf("file handler: compress create %s: %w", dst, err)
	}
	defer out.Close()

	gz := gzip.NewWriter(out)
	if _, err := io.Copy(gz, in); err != nil {
		gz.Close()
		return fmt.Errorf("file handler: compress %s: %w", src, err)
	}
	return gz.Close()
}

// Flush syncs file contents to stable storage.
func (h *FileHandler) Flush() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return nil
	}
	return h.file.Sync()
}

// Close closes the underlying file. Safe to call multiple times.
func (h *FileHandler) Close() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return nil
	}
	h.closed = true
	return h.file.Close()
}
