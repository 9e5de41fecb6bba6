package util

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sync"

	"github.com/edsrzf/mmap-go"
)

// FileCache serves source files for the duration of one repository parse.
//
// Files are memory-mapped on first access and stay mapped until Close. A
// component file, its stylesheet and its stories are each read by several
// phases of a parse (discovery, prop extraction, style import resolution),
// so mapping once avoids re-reading them. Files that cannot be mapped fall
// back to os.ReadFile.
//
// Contents returned by ReadString are copies, so they remain valid after
// Close and after the file is rewritten on disk.
type FileCache interface {
	// Get returns the mapped file, loading it on first access.
	Get(filePath string) (*MappedFile, error)

	// ReadString returns the whole file as a string.
	ReadString(filePath string) (string, error)

	// Size returns the number of cached files.
	Size() int

	// Stats returns cache counters.
	Stats() FileCacheStats

	// Close unmaps all files. The cache must not be used afterwards.
	Close() error
}

// FileCacheConfig controls FileCache behavior.
type FileCacheConfig struct {
	// MaxFiles caps the number of cached files. Zero means unlimited.
	MaxFiles int

	// Logger receives mmap fallback warnings. Nil uses slog.Default().
	Logger *slog.Logger
}

// DefaultFileCacheConfig returns limits suited to a component library.
func DefaultFileCacheConfig() *FileCacheConfig {
	return &FileCacheConfig{MaxFiles: 10000}
}

// MappedFile is a cached file.
type MappedFile struct {
	Path string
	// Data is the mapped region, or the file contents when mapping failed.
	// Nil for empty files.
	Data mmap.MMap
	File *os.File
	Size int64

	mapped bool
}

// FileCacheStats tracks cache counters.
type FileCacheStats struct {
	FilesLoaded  int64
	FilesCached  int
	CacheHits    int64
	CacheMisses  int64
	MmapFailures int64
}

// NewFileCache creates a FileCache. A nil config uses DefaultFileCacheConfig.
func NewFileCache(config *FileCacheConfig) FileCache {
	if config == nil {
		config = DefaultFileCacheConfig()
	}
	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &fileCache{
		config: config,
		logger: logger,
		files:  make(map[string]*MappedFile),
	}
}

type fileCache struct {
	config *FileCacheConfig
	logger *slog.Logger

	mu    sync.RWMutex
	files map[string]*MappedFile

	statsMu sync.Mutex
	stats   FileCacheStats
}

func (fc *fileCache) Get(filePath string) (*MappedFile, error) {
	fc.mu.RLock()
	mf, ok := fc.files[filePath]
	fc.mu.RUnlock()
	if ok {
		fc.record(func(s *FileCacheStats) { s.CacheHits++ })
		return mf, nil
	}

	fc.mu.Lock()
	defer fc.mu.Unlock()

	if mf, ok := fc.files[filePath]; ok {
		fc.record(func(s *FileCacheStats) { s.CacheHits++ })
		return mf, nil
	}
	fc.record(func(s *FileCacheStats) { s.CacheMisses++ })

	if fc.config.MaxFiles > 0 && len(fc.files) >= fc.config.MaxFiles {
		return nil, fmt.Errorf("file cache limit reached: %d files", fc.config.MaxFiles)
	}

	mf, err := fc.load(filePath)
	if err != nil {
		return nil, err
	}
	fc.files[filePath] = mf
	fc.record(func(s *FileCacheStats) { s.FilesLoaded++ })
	return mf, nil
}

func (fc *fileCache) ReadString(filePath string) (string, error) {
	mf, err := fc.Get(filePath)
	if err != nil {
		return "", err
	}
	return string(mf.Data), nil
}

// load maps a file, falling back to a plain read. Must hold mu.
func (fc *fileCache) load(filePath string) (*MappedFile, error) {
	f, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("open %q: %w", filePath, err)
	}
	stat, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("stat %q: %w", filePath, err)
	}
	if stat.IsDir() {
		f.Close()
		return nil, fmt.Errorf("%q is a directory", filePath)
	}
	if stat.Size() == 0 {
		f.Close()
		return &MappedFile{Path: filePath}, nil
	}

	data, err := mmap.Map(f, mmap.RDONLY, 0)
	if err != nil {
		f.Close()
		fc.logger.Warn("mmap failed, using fallback", "file", filePath, "error", err)
		fc.record(func(s *FileCacheStats) { s.MmapFailures++ })
		raw, readErr := os.ReadFile(filePath)
		if readErr != nil {
			return nil, fmt.Errorf("read %q: %w", filePath, readErr)
		}
		return &MappedFile{Path: filePath, Data: mmap.MMap(raw), Size: int64(len(raw))}, nil
	}

	return &MappedFile{Path: filePath, Data: data, File: f, Size: stat.Size(), mapped: true}, nil
}

func (fc *fileCache) Size() int {
	fc.mu.RLock()
	defer fc.mu.RUnlock()
	return len(fc.files)
}

func (fc *fileCache) Stats() FileCacheStats {
	n := fc.Size()
	fc.statsMu.Lock()
	defer fc.statsMu.Unlock()
	s := fc.stats
	s.FilesCached = n
	return s
}

func (fc *fileCache) Close() error {
	fc.mu.Lock()
	defer fc.mu.Unlock()

	var errs []error
	for path, mf := range fc.files {
		if mf.mapped {
			if err := mf.Data.Unmap(); err != nil {
				errs = append(errs, fmt.Errorf("unmap %q: %w", path, err))
			}
		}
		if mf.File != nil {
			if err := mf.File.Close(); err != nil {
				errs = append(errs, fmt.Errorf("close %q: %w", path, err))
			}
		}
	}
	fc.files = make(map[string]*MappedFile)
	return errors.Join(errs...)
}

func (fc *fileCache) record(fn func(*FileCacheStats)) {
	fc.statsMu.Lock()
	fn(&fc.stats)
	fc.statsMu.Unlock()
}
