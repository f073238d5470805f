package shared

import (
	"net"
	"sync/atomic"
)

// CountedConn wraps a net.Conn and counts outbound bytes and write calls.
// Inbound bytes are counted too although the publisher never reads.
type CountedConn struct {
	net.Conn
	written atomic.Uint64
	read    atomic.Uint64
	writes  atomic.Int64
}

// NewCountedConn creates a new CountedConn instance.
func NewCountedConn(conn net.Conn) *CountedConn {
	return &CountedConn{Conn: conn}
}

// Read reads from the underlying connection and counts inbound bytes.
func (c *CountedConn) Read(b []byte) (int, error) {
	n, err := c.Conn.Read(b)
	if n > 0 {
		c.read.Add(uint64(n))
	}
	return n, err
}

// Write writes to the underlying connection and counts outbound bytes.
func (c *CountedConn) Write(b []byte) (int, error) {
	n, err := c.Conn.Write(b)
	if n > 0 {
		c.written.Add(uint64(n))
	}
	if err == nil {
		c.writes.Add(1)
	}
	return n, err
}

func (c *CountedConn) BytesWritten() uint64 { return c.written.Load() }
func (c *CountedConn) BytesRead() uint64    { return c.read.Load() }
func (c *CountedConn) Writes() int64        { return c.writes.Load() }
