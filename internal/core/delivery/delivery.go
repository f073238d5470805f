// Package delivery writes a loaded payload to one client connection, pacing
// and repeating it as configured.
package delivery

import (
	"context"
	"net"
	"time"

	"github.com/rs/zerolog"

	"tcppub/internal/core/source"
	"tcppub/internal/shared"
	"tcppub/internal/shared/errors"
	"tcppub/internal/shared/types"
)

// State of the delivery state machine.
type State int

const (
	StateSendingSingle State = iota
	StateSendingSequence
	StateDone
)

func (s State) String() string {
	switch s {
	case StateSendingSingle:
		return "SENDING_SINGLE"
	case StateSendingSequence:
		return "SENDING_SEQUENCE"
	case StateDone:
		return "DONE"
	default:
		return "UNKNOWN"
	}
}

// Options controls pacing and repetition.
type Options struct {
	Interval     time.Duration
	Loop         bool
	WriteTimeout time.Duration // 0 disables the per-write deadline
}

// Deliverer runs the delivery loop. The interval wait is a blocking sleep.
type Deliverer struct {
	opts  Options
	sleep func(time.Duration)
	now   func() time.Time
}

// New creates a Deliverer using the wall clock.
func New(opts Options) *Deliverer {
	return &Deliverer{
		opts:  opts,
		sleep: time.Sleep,
		now:   time.Now,
	}
}

// Options returns the options the Deliverer was built with.
func (d *Deliverer) Options() Options {
	return d.opts
}

// Run streams p to conn until the payload is exhausted or, when looping,
// until a write fails. A failed write is returned as KindConnectionFault.
// ctx only carries the session logger; delivery is never cancelled by it.
func (d *Deliverer) Run(ctx context.Context, conn net.Conn, p *source.Payload) (types.SessionStats, error) {
	l := zerolog.Ctx(ctx)
	cc := shared.NewCountedConn(conn)

	var stats types.SessionStats
	collect := func() types.SessionStats {
		stats.BytesWritten = cc.BytesWritten()
		stats.Writes = cc.Writes()
		return stats
	}

	state := initialState(p)
	for state != StateDone {
		switch state {
		case StateSendingSingle:
			if err := d.write(cc, p.Segments[0]); err != nil {
				return collect(), err
			}
			stats.Rounds++
			if !d.opts.Loop {
				state = StateDone
				continue
			}
			d.sleep(d.opts.Interval)

		case StateSendingSequence:
			for i, seg := range p.Segments {
				if err := d.write(cc, seg); err != nil {
					return collect(), err
				}
				l.Trace().Int("segment", i).Int("bytes", len(seg)).Msg("segment written")
				d.sleep(d.opts.Interval)
			}
			stats.Rounds++
			if !d.opts.Loop {
				state = StateDone
			}
		}
	}
	return collect(), nil
}

func initialState(p *source.Payload) State {
	switch {
	case p == nil || p.Len() == 0:
		return StateDone
	case p.Multi:
		return StateSendingSequence
	default:
		return StateSendingSingle
	}
}

func (d *Deliverer) write(conn net.Conn, b []byte) error {
	if d.opts.WriteTimeout > 0 {
		if err := conn.SetWriteDeadline(d.now().Add(d.opts.WriteTimeout)); err != nil {
			return errors.NewError(errors.KindConnectionFault, "failed to set write deadline").Base(err)
		}
	}
	if _, err := conn.Write(b); err != nil {
		return errors.NewError(errors.KindConnectionFault, "write failed").Base(err)
	}
	return nil
}
