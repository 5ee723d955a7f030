//go:build !unix && !windows

package wordlist

import "os"

func openShared(path string) (*os.File, error) {
	return os.Open(path)
}
