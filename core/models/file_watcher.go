package models

import (
	"fmt"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

const DefaultDebounce = 500 * time.Millisecond

type FileWatcher struct {
	Watcher       *fsnotify.Watcher
	RootDir       string
	ExcludePaths  []string
	Debounce      time.Duration
	DebounceTimer *time.Timer
	Mutex         sync.Mutex
	RunMutex      sync.Mutex // held while OnStart or OnChange runs
	OnStart       func() error
	OnChange      func() error
	OnInvalidate  func(path string)
	OnClose       func() error
}

func NewFileWatcher(rootDir string, excludePaths []string) (*FileWatcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}

	return &FileWatcher{
		Watcher:      watcher,
		RootDir:      rootDir,
		ExcludePaths: append([]string{".git", "node_modules"}, excludePaths...),
		Debounce:     DefaultDebounce,
		OnStart:      func() error { return nil },
		OnChange:     func() error { return fmt.Errorf("OnChange not set") },
		OnInvalidate: func(string) {},
		OnClose:      func() error { return nil },
	}, nil
}

func (fw *FileWatcher) AddOnStartFunc(onStart func() error) {
	fw.OnStart = onStart
}

func (fw *FileWatcher) AddOnChangeFunc(onChange func() error) {
	fw.OnChange = onChange
}

func (fw *FileWatcher) AddOnInvalidateFunc(onInvalidate func(path string)) {
	fw.OnInvalidate = onInvalidate
}

func (fw *FileWatcher) AddOnCloseFunc(onClose func() error) {
	fw.OnClose = onClose
}
