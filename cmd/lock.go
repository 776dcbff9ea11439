package cmd

import (
	"path/filepath"
	"sync"

	"github.com/gofrs/flock"

	"github.com/clf-downloader/clf/internal/config"
)

var (
	instanceLock   *flock.Flock
	instanceLockMu sync.Mutex
)

func lockPath() string {
	return filepath.Join(config.GetRuntimeDir(), "watch.lock")
}

// AcquireLock takes the per-user watcher lock. It returns false when another
// clf process is already watching.
func AcquireLock() (bool, error) {
	instanceLockMu.Lock()
	defer instanceLockMu.Unlock()

	if instanceLock != nil {
		return true, nil
	}
	if err := config.EnsureDirs(); err != nil {
		return false, err
	}

	l := flock.New(lockPath())
	ok, err := l.TryLock()
	if err != nil || !ok {
		return false, err
	}
	instanceLock = l
	return true, nil
}

// ReleaseLock releases the watcher lock if this process holds it.
func ReleaseLock() {
	instanceLockMu.Lock()
	defer instanceLockMu.Unlock()

	if instanceLock == nil {
		return
	}
	_ = instanceLock.Unlock()
	instanceLock = nil
}
