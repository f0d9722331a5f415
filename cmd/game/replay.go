package main

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/younwookim/mg/internal/application/replay"
	"github.com/younwookim/mg/internal/application/system"
)

// Recorder turns per-frame system.InputState snapshots into the sparse
// SLC3 action stream, recording only the frames where Left/Right/Jump
// change. Mouse aim, dash and attack aren't part of the wire format
// and are not recorded.
type Recorder struct {
	atom      *replay.ActionAtom
	seed      int64
	stage     string
	recording bool
	frame     uint64

	heldLeft  bool
	heldRight bool
	heldJump  bool
}

// NewRecorder creates a new recorder
func NewRecorder(seed int64, stage string) *Recorder {
	return &Recorder{
		atom:      replay.NewActionAtom(),
		seed:      seed,
		stage:     stage,
		recording: true,
	}
}

// RecordFrame records a single frame's input
func (r *Recorder) RecordFrame(input system.InputState) {
	if !r.recording {
		return
	}

	if input.Left != r.heldLeft {
		if err := r.atom.AppendPlayer(r.frame, replay.ActionLeft, input.Left, false); err != nil {
			log.Printf("recorder: append left at frame %d: %v", r.frame, err)
		}
		r.heldLeft = input.Left
	}
	if input.Right != r.heldRight {
		if err := r.atom.AppendPlayer(r.frame, replay.ActionRight, input.Right, false); err != nil {
			log.Printf("recorder: append right at frame %d: %v", r.frame, err)
		}
		r.heldRight = input.Right
	}
	if input.Jump != r.heldJump {
		if err := r.atom.AppendPlayer(r.frame, replay.ActionJump, input.Jump, false); err != nil {
			log.Printf("recorder: append jump at frame %d: %v", r.frame, err)
		}
		r.heldJump = input.Jump
	}

	r.frame++
}

// Save writes the replay to filename as an SLC3 container.
func (r *Recorder) Save(filename string) error {
	if r.atom.Len() == 0 {
		return fmt.Errorf("no frames to save")
	}

	file, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer func() { _ = file.Close() }()

	rp := replay.NewReplay(replay.Metadata{TPS: 60, Seed: uint64(r.seed)})
	rp.Registry.Add(r.atom)

	if err := rp.Encode(file); err != nil {
		return fmt.Errorf("failed to encode replay: %w", err)
	}
	return nil
}

// Stop stops recording
func (r *Recorder) Stop() {
	r.recording = false
}

// IsRecording returns whether recording is active
func (r *Recorder) IsRecording() bool {
	return r.recording
}

// FrameCount returns the number of recorded button-edge events.
func (r *Recorder) FrameCount() int {
	return r.atom.Len()
}

// Actions returns the recorded action sequence.
func (r *Recorder) Actions() []replay.Action {
	return r.atom.Actions()
}

// Seed returns the seed this recording started from.
func (r *Recorder) Seed() int64 {
	return r.seed
}

// GenerateFilename creates a filename based on current time
func GenerateFilename() string {
	return fmt.Sprintf("replay_%s.slc3", time.Now().Format("20060102_150405"))
}

// Replayer drives system.InputState from a decoded Action sequence, one
// game frame at a time.
type Replayer struct {
	inner *replay.Replayer
	seed  int64
}

// NewReplayer creates a new replayer from a decoded action sequence.
func NewReplayer(actions []replay.Action, seed int64) *Replayer {
	return &Replayer{inner: replay.NewReplayer(actions), seed: seed}
}

// LoadReplay loads an SLC3 replay from filename.
func LoadReplay(filename string) (*Replayer, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}

	rp, err := replay.DecodeBytes(data)
	if err != nil {
		return nil, fmt.Errorf("failed to decode replay: %w", err)
	}

	var actions []replay.Action
	for _, a := range rp.Registry.Atoms {
		if atom, ok := a.(*replay.ActionAtom); ok {
			actions = atom.Actions()
			break
		}
	}

	return &Replayer{inner: replay.NewReplayer(actions), seed: int64(rp.Metadata.Seed)}, nil
}

// GetInput returns the input state for the current frame and advances
// to the next one. Fields the Action model can't express (mouse aim,
// dash, attack) are always zero.
func (r *Replayer) GetInput() (system.InputState, bool) {
	in, ok := r.inner.GetInput()
	if !ok {
		return system.InputState{}, false
	}
	return system.InputState{
		Left:         in.Left,
		Right:        in.Right,
		Jump:         in.Jump,
		JumpPressed:  in.JumpPressed,
		JumpReleased: in.JumpReleased,
	}, true
}

// CurrentFrame returns the current frame number
func (r *Replayer) CurrentFrame() int {
	return r.inner.CurrentFrame()
}

// TotalFrames returns the total number of frames
func (r *Replayer) TotalFrames() int {
	return r.inner.TotalFrames()
}

// Seed returns the seed used for the replay
func (r *Replayer) Seed() int64 {
	return r.seed
}

// Reset resets the replayer to the beginning
func (r *Replayer) Reset() {
	r.inner.Reset()
}
