package types

// ListenerInfo holds the runtime listening info of the server.
type ListenerInfo struct {
	Address string
	Port    int
}

// SessionStats summarises one delivery session.
type SessionStats struct {
	BytesWritten uint64
	Writes       int64
	Rounds       int64 // completed passes over the payload
}
