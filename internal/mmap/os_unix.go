//go:build unix

package mmap

import (
	"errors"

	"golang.org/x/sys/unix"
)

func mapAnon(n int) ([]byte, error) {
	return unix.Mmap(-1, 0, n, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_ANON|unix.MAP_PRIVATE)
}

func unmap(b []byte) error {
	return unix.Munmap(b)
}

func madvise(b []byte, advice Advice) error {
	if len(b) == 0 {
		return nil
	}

	flag := unix.MADV_NORMAL
	switch advice {
	case WillNeed:
		flag = unix.MADV_WILLNEED
	case DontNeed:
		flag = unix.MADV_DONTNEED
	}

	// Advice is a hint; kernels that reject the flag leave the pages as they are.
	if err := unix.Madvise(b, flag); err != nil && !errors.Is(err, unix.EINVAL) {
		return err
	}
	return nil
}
