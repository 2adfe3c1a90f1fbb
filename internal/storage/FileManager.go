package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"treats/internal/models"
	"treats/internal/providers"
	"treats/internal/storage/interfaces"

	json "github.com/goccy/go-json"
)

// FileManager keeps the snapshot in a single JSON file. Writes go to a
// temporary file that is synced and renamed over the target.
type FileManager struct {
	path       string
	compress   bool
	compressor interfaces.CompressorInterface
	logger     providers.Logger

	mu      sync.Mutex
	written os.FileInfo
}

func NewFileManager(path string, compress bool, compressor interfaces.CompressorInterface, logger providers.Logger) *FileManager {
	return &FileManager{
		path:       path,
		compress:   compress,
		compressor: compressor,
		logger:     logger,
	}
}

func (f *FileManager) Path() string {
	return f.path
}

// Load returns an empty snapshot when the file does not exist yet. Both plain
// and zstd-compressed files are accepted regardless of the compress setting.
func (f *FileManager) Load() (*models.Snapshot, error) {
	data, err := os.ReadFile(f.path)
	if err != nil {
		if os.IsNotExist(err) {
			return models.NewSnapshot(), nil
		}
		return nil, fmt.Errorf("read snapshot %s: %w", f.path, err)
	}
	if len(data) == 0 {
		f.logger.Warnf(providers.TypeApp, "Snapshot file %s is empty, starting from a blank workspace", f.path)
		return models.NewSnapshot(), nil
	}

	if IsCompressed(data) {
		data, err = f.compressor.Decompress(data)
		if err != nil {
			return nil, fmt.Errorf("decompress snapshot %s: %w", f.path, err)
		}
	}

	snapshot := models.NewSnapshot()
	if err := json.Unmarshal(data, snapshot); err != nil {
		return nil, fmt.Errorf("decode snapshot %s: %w", f.path, err)
	}
	return snapshot.Normalize(), nil
}

// Save remembers the file it produced so IsOwnWrite can tell it apart from
// changes made by other processes.
func (f *FileManager) Save(snapshot *models.Snapshot) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := f.SaveTo(f.path, snapshot, f.compress); err != nil {
		return err
	}
	info, err := os.Stat(f.path)
	if err != nil {
		f.written = nil
		return nil
	}
	f.written = info
	return nil
}

// IsOwnWrite reports whether the file on disk is still the one written by the
// last Save. It waits for a Save in progress.
func (f *FileManager) IsOwnWrite() bool {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.written == nil {
		return false
	}
	info, err := os.Stat(f.path)
	if err != nil {
		return false
	}
	return os.SameFile(f.written, info) &&
		info.Size() == f.written.Size() &&
		info.ModTime().Equal(f.written.ModTime())
}

// SaveTo writes the snapshot to an arbitrary path; backups use it with
// compression forced on.
func (f *FileManager) SaveTo(fileName string, snapshot *models.Snapshot, compress bool) error {
	data, err := json.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	if compress {
		data, err = f.compressor.Compress(data)
		if err != nil {
			return fmt.Errorf("compress snapshot: %w", err)
		}
	}
	return writeAtomic(fileName, data)
}

func (f *FileManager) Close() error {
	f.compressor.Close()
	return nil
}

func writeAtomic(fileName string, data []byte) error {
	if dir := filepath.Dir(fileName); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}

	tmpFile := fileName + ".tmp"
	file, err := os.Create(tmpFile)
	if err != nil {
		return err
	}

	_, err = file.Write(data)
	if err != nil {
		file.Close()
		os.Remove(tmpFile)
		return err
	}

	if err = file.Sync(); err != nil {
		file.Close()
		os.Remove(tmpFile)
		return err
	}

	if err = file.Close(); err != nil {
		os.Remove(tmpFile)
		return err
	}

	return os.Rename(tmpFile, fileName)
}
