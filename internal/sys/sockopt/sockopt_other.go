//go:build !unix

package sockopt

import (
	"fmt"
	"syscall"
)

// ReuseAddrControl is a no-op where SO_REUSEADDR does not mean "reclaim a
// TIME_WAIT port" (on Windows it allows port hijacking instead).
func ReuseAddrControl(network, address string, c syscall.RawConn) error {
	return nil
}

// ReuseAddrEnabled is not supported on this platform.
func ReuseAddrEnabled(c syscall.RawConn) (bool, error) {
	return false, fmt.Errorf("SO_REUSEADDR inspection is not supported on this platform")
}
