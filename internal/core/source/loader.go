// Package source loads the replay file and cuts it into messages.
package source

import (
	"bytes"
	"os"

	"tcppub/internal/shared/errors"
)

// Payload is the content delivered on one connection. Single-message mode
// holds exactly one segment.
type Payload struct {
	Segments [][]byte
	Multi    bool
}

// Len returns the number of segments.
func (p *Payload) Len() int {
	return len(p.Segments)
}

// Size returns the total number of bytes across segments.
func (p *Payload) Size() int {
	n := 0
	for _, s := range p.Segments {
		n += len(s)
	}
	return n
}

// Loader reads the source file on every call. Nothing is cached, so edits to
// the file or its removal are seen by the next connection.
type Loader struct {
	Path         string
	MultiMessage bool
	Delimiter    string
}

// NewLoader creates a Loader.
func NewLoader(path string, multiMessage bool, delimiter string) *Loader {
	return &Loader{
		Path:         path,
		MultiMessage: multiMessage,
		Delimiter:    delimiter,
	}
}

// Load reads the file and builds a Payload. Read failures are reported as
// KindSourceUnavailable.
func (l *Loader) Load() (*Payload, error) {
	data, err := os.ReadFile(l.Path)
	if err != nil {
		return nil, errors.NewError(errors.KindSourceUnavailable, "failed to read source file", l.Path).Base(err)
	}
	if !l.MultiMessage {
		return &Payload{Segments: [][]byte{data}}, nil
	}
	return &Payload{Segments: Split(data, l.Delimiter), Multi: true}, nil
}

// Split cuts data on every literal occurrence of delim. Order is kept and
// empty segments, including a trailing one, are preserved.
func Split(data []byte, delim string) [][]byte {
	return bytes.Split(data, []byte(delim))
}
