//go:build unix

package sockopt

import (
	"context"
	"net"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReuseAddrControl_SetsOption(t *testing.T) {
	lc := net.ListenConfig{Control: ReuseAddrControl}
	ln, err := lc.Listen(context.Background(), "tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()

	raw, err := ln.(*net.TCPListener).SyscallConn()
	require.NoError(t, err)

	on, err := ReuseAddrEnabled(raw)
	require.NoError(t, err)
	assert.True(t, on)
}
