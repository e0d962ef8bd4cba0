// Package replay records match snapshots as length-delimited msgpack frames.
package replay

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/Garsondee/Lane-Clash/internal/game"
)

// maxFrameBytes bounds a single decoded record.
const maxFrameBytes = 8 << 20

// ErrFrameTooLarge is returned for a length prefix above maxFrameBytes.
var ErrFrameTooLarge = errors.New("replay frame too large")

// Header opens every replay stream.
type Header struct {
	MatchID string  `msgpack:"id"`
	Lanes   int     `msgpack:"ln"`
	ArenaW  float64 `msgpack:"w"`
	ArenaH  float64 `msgpack:"h"`
	Seed    int64   `msgpack:"sd"`
	MaxSec  float64 `msgpack:"mx"`
}

// UnitState is the wire form of a unit. Positions are rounded to 0.1px.
type UnitState struct {
	ID     int     `msgpack:"i"`
	Side   int     `msgpack:"s"`
	Lane   int     `msgpack:"l"`
	Tier   int     `msgpack:"t"`
	X      float64 `msgpack:"x"`
	Y      float64 `msgpack:"y"`
	HP     float64 `msgpack:"hp"`
	MaxHP  float64 `msgpack:"mhp"`
	Target int     `msgpack:"tg,omitempty"`
	Siege  bool    `msgpack:"sg,omitempty"`
}

// ProjectileState is the wire form of an arrow.
type ProjectileState struct {
	ID   int     `msgpack:"i"`
	Side int     `msgpack:"s"`
	X    float64 `msgpack:"x"`
	Y    float64 `msgpack:"y"`
}

// Frame is one recorded tick.
type Frame struct {
	Tick        int               `msgpack:"k"`
	TimeSec     float64           `msgpack:"t"`
	BaseAlly    float64           `msgpack:"ba"`
	BaseEnemy   float64           `msgpack:"be"`
	ScoreAlly   float64           `msgpack:"sa"`
	ScoreEnemy  float64           `msgpack:"se"`
	Ended       bool              `msgpack:"e,omitempty"`
	Winner      string            `msgpack:"w,omitempty"`
	Units       []UnitState       `msgpack:"u"`
	Projectiles []ProjectileState `msgpack:"p"`
}

func round1(v float64) float64 { return math.Round(v*10) / 10 }

// FromState snapshots a match state at the given tick.
func FromState(tick int, s game.MatchState) Frame {
	f := Frame{
		Tick:        tick,
		TimeSec:     s.TimeSec,
		BaseAlly:    s.BaseAlly,
		BaseEnemy:   s.BaseEnemy,
		ScoreAlly:   s.ScoreAlly,
		ScoreEnemy:  s.ScoreEnemy,
		Ended:       s.Ended,
		Units:       make([]UnitState, 0, len(s.Units)),
		Projectiles: make([]ProjectileState, 0, len(s.Projectiles)),
	}
	if s.Winner != game.WinnerNone {
		f.Winner = s.Winner.String()
	}
	for _, u := range s.Units {
		f.Units = append(f.Units, UnitState{
			ID:     int(u.ID),
			Side:   int(u.Side),
			Lane:   u.Lane,
			Tier:   u.Tier,
			X:      round1(u.X),
			Y:      round1(u.Y),
			HP:     round1(u.HP),
			MaxHP:  u.MaxHP,
			Target: int(u.TargetID),
			Siege:  u.AttackingBase,
		})
	}
	for _, p := range s.Projectiles {
		f.Projectiles = append(f.Projectiles, ProjectileState{
			ID: p.ID, Side: int(p.Side), X: round1(p.X), Y: round1(p.Y),
		})
	}
	return f
}

// Recorder writes a header followed by frames.
type Recorder struct {
	w      *bufio.Writer
	lenBuf [binary.MaxVarintLen64]byte
	frames int
}

// NewRecorder writes h to w and returns a recorder for the frames that follow.
func NewRecorder(w io.Writer, h Header) (*Recorder, error) {
	r := &Recorder{w: bufio.NewWriter(w)}
	if err := r.write(&h); err != nil {
		return nil, fmt.Errorf("write replay header: %w", err)
	}
	return r, nil
}

// Record appends one frame.
func (r *Recorder) Record(f Frame) error {
	if err := r.write(&f); err != nil {
		return fmt.Errorf("write frame %d: %w", f.Tick, err)
	}
	r.frames++
	return nil
}

// Frames returns how many frames were recorded.
func (r *Recorder) Frames() int { return r.frames }

// Flush pushes buffered frames to the underlying writer.
func (r *Recorder) Flush() error {
	return r.w.Flush()
}

func (r *Recorder) write(v any) error {
	data, err := msgpack.Marshal(v)
	if err != nil {
		return err
	}
	n := binary.PutUvarint(r.lenBuf[:], uint64(len(data)))
	if _, err := r.w.Write(r.lenBuf[:n]); err != nil {
		return err
	}
	_, err = r.w.Write(data)
	return err
}

// Reader decodes a stream written by Recorder.
type Reader struct {
	r      *bufio.Reader
	header Header
}

// NewReader reads the stream header.
func NewReader(r io.Reader) (*Reader, error) {
	rd := &Reader{r: bufio.NewReader(r)}
	if err := rd.read(&rd.header); err != nil {
		return nil, fmt.Errorf("read replay header: %w", err)
	}
	return rd, nil
}

// Header returns the stream header.
func (rd *Reader) Header() Header { return rd.header }

// Next decodes the next frame. It returns io.EOF after the last one.
func (rd *Reader) Next() (Frame, error) {
	var f Frame
	if err := rd.read(&f); err != nil {
		if errors.Is(err, io.EOF) {
			return Frame{}, io.EOF
		}
		return Frame{}, fmt.Errorf("read frame: %w", err)
	}
	return f, nil
}

// All decodes every remaining frame.
func (rd *Reader) All() ([]Frame, error) {
	var out []Frame
	for {
		f, err := rd.Next()
		if errors.Is(err, io.EOF) {
			return out, nil
		}
		if err != nil {
			return out, err
		}
		out = append(out, f)
	}
}

func (rd *Reader) read(v any) error {
	n, err := binary.ReadUvarint(rd.r)
	if err != nil {
		return err
	}
	if n > maxFrameBytes {
		return fmt.Errorf("%w: %d bytes", ErrFrameTooLarge, n)
	}
	data := make([]byte, n)
	if _, err := io.ReadFull(rd.r, data); err != nil {
		if errors.Is(err, io.EOF) {
			return io.ErrUnexpectedEOF
		}
		return err
	}
	return msgpack.Unmarshal(data, v)
}
