//go:build unix

package sockopt

import (
	"fmt"
	"syscall"

	"golang.org/x/sys/unix"
)

// ReuseAddrControl sets SO_REUSEADDR on the socket before bind so a restarted
// server can take the port back while old connections sit in TIME_WAIT.
func ReuseAddrControl(network, address string, c syscall.RawConn) error {
	var sockErr error
	err := c.Control(func(fd uintptr) {
		sockErr = setReuseAddr(fd)
	})
	if err != nil {
		return err
	}
	return sockErr
}

func setReuseAddr(fd uintptr) error {
	if err := unix.SetsockoptInt(int(fd), unix.SOL_SOCKET, unix.SO_REUSEADDR, 1); err != nil {
		return fmt.Errorf("failed to set SO_REUSEADDR: %w", err)
	}
	return nil
}

// ReuseAddrEnabled reports whether SO_REUSEADDR is set on the socket.
func ReuseAddrEnabled(c syscall.RawConn) (bool, error) {
	var (
		v      int
		optErr error
	)
	err := c.Control(func(fd uintptr) {
		v, optErr = unix.GetsockoptInt(int(fd), unix.SOL_SOCKET, unix.SO_REUSEADDR)
	})
	if err != nil {
		return false, err
	}
	return v != 0, optErr
}
