package models

import (
	"crypto/md5"
	"fmt"
	"io"
	"os"
	"time"
)

// ScannedFile holds the export names found in one source file.
type ScannedFile struct {
	Path    string
	Exports []string
}

type CacheEntry struct {
	FilePath  string       `json:"file_path"`
	ModTime   time.Time    `json:"mod_time"`
	FileHash  string       `json:"file_hash"`
	Scanned   *ScannedFile `json:"scanned"`
	CreatedAt time.Time    `json:"created_at"`
}

func NewCacheEntry(filePath string, scanned *ScannedFile) (*CacheEntry, error) {
	stat, err := os.Stat(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat file %s: %w", filePath, err)
	}

	hash, err := calculateFileHash(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to calculate hash for file %s: %w", filePath, err)
	}

	return &CacheEntry{
		FilePath:  filePath,
		ModTime:   stat.ModTime(),
		FileHash:  hash,
		Scanned:   scanned,
		CreatedAt: time.Now(),
	}, nil
}

// Check reports whether the file still matches the entry. The mtime is
// checked first; on mismatch the content hash decides, and touched is set
// when the content is unchanged under a new mtime. The entry is never modified.
func (ce *CacheEntry) Check() (valid, touched bool, err error) {
	stat, err := os.Stat(ce.FilePath)
	if err != nil {
		if os.IsNotExist(err) {
			return false, false, nil
		}
		return false, false, fmt.Errorf("failed to stat file %s: %w", ce.FilePath, err)
	}

	if stat.ModTime().Equal(ce.ModTime) {
		return true, false, nil
	}

	currentHash, err := calculateFileHash(ce.FilePath)
	if err != nil {
		return false, false, fmt.Errorf("failed to calculate current hash for file %s: %w", ce.FilePath, err)
	}

	if currentHash == ce.FileHash {
		return true, true, nil
	}

	return false, false, nil
}

func calculateFileHash(filePath string) (string, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return "", err
	}
	defer file.Close()

	hash := md5.New()
	if _, err := io.Copy(hash, file); err != nil {
		return "", err
	}

	return fmt.Sprintf("%x", hash.Sum(nil)), nil
}
