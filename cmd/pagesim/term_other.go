//go:build !linux && !darwin && !freebsd

package main

func terminalWidth(fd int) (int, bool) {
	return 0, false
}
