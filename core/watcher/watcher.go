package watcher

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/tristendillon/exvite/core/logger"
	"github.com/tristendillon/exvite/core/models"
)

type FileWatcher interface {
	Watch(ctx context.Context) error
	Close() error
}

type FileWatcherImpl struct {
	FileWatcher *models.FileWatcher
}

// NewFileWatcher watches rootDir recursively. excludePaths may be absolute or relative to rootDir.
func NewFileWatcher(rootDir string, excludePaths []string) (*FileWatcherImpl, error) {
	fw, err := models.NewFileWatcher(rootDir, excludePaths)
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}
	return &FileWatcherImpl{
		FileWatcher: fw,
	}, nil
}

// Watch blocks until ctx is cancelled or the underlying watcher is closed.
func (fw *FileWatcherImpl) Watch(ctx context.Context) error {
	if err := fw.addWatchersRecursively(fw.FileWatcher.RootDir); err != nil {
		return fmt.Errorf("failed to add watchers: %w", err)
	}

	fw.FileWatcher.RunMutex.Lock()
	if err := fw.FileWatcher.OnStart(); err != nil {
		logger.Error("Watcher.OnStart failed: %v", err)
	}
	fw.FileWatcher.RunMutex.Unlock()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-fw.FileWatcher.Watcher.Events:
			if !ok {
				return fmt.Errorf("watcher events channel closed")
			}
			fw.handleEvent(event)

		case err, ok := <-fw.FileWatcher.Watcher.Errors:
			if !ok {
				return fmt.Errorf("watcher errors channel closed")
			}
			logger.Error("Watcher error: %v", err)
		}
	}
}

func (fw *FileWatcherImpl) handleEvent(event fsnotify.Event) {
	if fw.shouldExcludePath(event.Name) || (event.Has(fsnotify.Chmod) && !event.Has(fsnotify.Write)) {
		return
	}

	logger.Debug("File event: %s %s", event.Op, event.Name)

	if event.Has(fsnotify.Write) || event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename) {
		fw.FileWatcher.OnInvalidate(event.Name)
	}

	if event.Has(fsnotify.Create) {
		if stat, err := os.Stat(event.Name); err == nil && stat.IsDir() {
			logger.Debug("Adding watcher for new directory: %s", event.Name)
			if err := fw.addWatchersRecursively(event.Name); err != nil {
				logger.Error("Failed to watch %s: %v", event.Name, err)
			}
		}
	}

	fw.debounceGenerate()
}

func (fw *FileWatcherImpl) debounceGenerate() {
	fw.FileWatcher.Mutex.Lock()
	defer fw.FileWatcher.Mutex.Unlock()

	if fw.FileWatcher.DebounceTimer != nil {
		fw.FileWatcher.DebounceTimer.Stop()
	}

	fw.FileWatcher.DebounceTimer = time.AfterFunc(fw.FileWatcher.Debounce, func() {
		fw.FileWatcher.RunMutex.Lock()
		defer fw.FileWatcher.RunMutex.Unlock()

		logger.Debug("File changes detected, regenerating...")
		if err := fw.FileWatcher.OnChange(); err != nil {
			logger.Error("Watcher.OnChange failed: %v", err)
		}
	})
}

func (fw *FileWatcherImpl) Close() error {
	fw.FileWatcher.Mutex.Lock()
	defer fw.FileWatcher.Mutex.Unlock()

	if fw.FileWatcher.DebounceTimer != nil {
		fw.FileWatcher.DebounceTimer.Stop()
	}

	if err := fw.FileWatcher.OnClose(); err != nil {
		logger.Error("Watcher.OnClose failed: %v", err)
	}

	return fw.FileWatcher.Watcher.Close()
}

func (fw *FileWatcherImpl) shouldExcludePath(path string) bool {
	relPath, err := filepath.Rel(fw.FileWatcher.RootDir, path)
	if err != nil {
		return false
	}
	relPath = filepath.Clean(relPath)

	for _, excludePath := range fw.FileWatcher.ExcludePaths {
		if filepath.IsAbs(excludePath) {
			rel, err := filepath.Rel(fw.FileWatcher.RootDir, excludePath)
			if err != nil {
				continue
			}
			excludePath = rel
		}
		excludePath = filepath.Clean(excludePath)

		if relPath == excludePath {
			return true
		}
		if strings.HasPrefix(relPath, excludePath+string(filepath.Separator)) {
			return true
		}
	}

	return false
}

func (fw *FileWatcherImpl) addWatchersRecursively(root string) error {
	return filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}

		if !info.IsDir() {
			return nil
		}

		if fw.shouldExcludePath(path) {
			logger.Debug("Excluding directory: %s", path)
			return filepath.SkipDir
		}

		logger.Debug("Adding watcher for: %s", path)
		if err := fw.FileWatcher.Watcher.Add(path); err != nil {
			return fmt.Errorf("failed to add watcher for %s: %w", path, err)
		}

		return nil
	})
}
