//go:build unix

package wordlist

import (
	"fmt"
	"os"

	"golang.org/x/sys/unix"
)

// openShared opens path read-only and takes a non-blocking shared flock so a
// writer holding (or asking for) an exclusive lock cannot rewrite the list
// mid-scan. The lock is released when the file is closed.
func openShared(path string) (*os.File, error) {
	f, err := os.OpenFile(path, os.O_RDONLY, 0)
	if err != nil {
		return nil, err
	}
	if err := unix.Flock(int(f.Fd()), unix.LOCK_SH|unix.LOCK_NB); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("shared lock: %w", err)
	}
	return f, nil
}
