package playing

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/younwookim/mg/internal/application/replay"
)

// RecordableInput is the input interface for recording
type RecordableInput struct {
	Left, Right, Up, Down bool
	Jump                  bool
	JumpPressed           bool
	JumpReleased          bool
	Dash                  bool
	MouseX, MouseY        int
	MouseClick            bool
	RightClickPressed     bool
	RightClickReleased    bool
}

// Recorder turns per-frame RecordableInput snapshots into the sparse,
// edge-triggered event stream an ActionAtom holds. Mouse aim, dash and
// attack aren't representable on the wire (see ReplayInput) and are not
// recorded; replays reproduce movement and jumping only.
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

// NewRecorder creates a new recorder with seed for deterministic replay
func NewRecorder(seed int64, stage string) *Recorder {
	return &Recorder{
		atom:      replay.NewActionAtom(),
		seed:      seed,
		stage:     stage,
		recording: true,
	}
}

// RecordFrame records the buttons that changed state this frame.
func (r *Recorder) RecordFrame(input RecordableInput) {
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

// Save writes the recorded replay to filename as an SLC3 container.
func (r *Recorder) Save(filename string) error {
	if r.atom.Len() == 0 {
		return fmt.Errorf("no frames to save")
	}

	file, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer func() { _ = file.Close() }()

	rp := replay.NewReplay(replay.Metadata{
		TPS:  60,
		Seed: uint64(r.seed),
	})
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

// Actions returns the recorded action sequence (for testing).
func (r *Recorder) Actions() []replay.Action {
	return r.atom.Actions()
}

// GenerateFilename creates a filename based on current time
func GenerateFilename() string {
	return fmt.Sprintf("replay_%s.slc3", time.Now().Format("20060102_150405"))
}
