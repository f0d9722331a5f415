package replay

// ReplayInput is the dense per-frame button state a Replayer derives
// from a sparse Action stream. It only carries the fields the Action
// model can express (Left/Right/Jump hold state and the press/release
// edges of Jump); mouse aim, dash and attack are outside the wire
// format and are the caller's concern to default or drive some other
// way.
type ReplayInput struct {
	Left         bool
	Right        bool
	Jump         bool
	JumpPressed  bool
	JumpReleased bool
}

// Replayer steps a decoded Action sequence forward one frame at a
// time, expanding the sparse press/release events back into the dense
// per-frame button state a game loop expects.
type Replayer struct {
	actions     []Action
	idx         int
	frame       uint64
	totalFrames uint64

	holdLeft  bool
	holdRight bool
	holdJump  bool
}

// NewReplayer builds a Replayer over actions, which must be ordered by
// Frame (as every decoded ActionAtom is). TotalFrames is derived from
// the last action's frame.
func NewReplayer(actions []Action) *Replayer {
	var total uint64
	if len(actions) > 0 {
		total = actions[len(actions)-1].Frame + 1
	}
	return &Replayer{actions: actions, totalFrames: total}
}

// GetInput returns the input state for the current frame and advances
// to the next one. ok is false once every recorded frame has been
// consumed.
func (r *Replayer) GetInput() (ReplayInput, bool) {
	if r.frame >= r.totalFrames {
		return ReplayInput{}, false
	}

	out := ReplayInput{Left: r.holdLeft, Right: r.holdRight, Jump: r.holdJump}

	for r.idx < len(r.actions) && r.actions[r.idx].Frame == r.frame {
		a := r.actions[r.idx]
		r.idx++

		if !a.IsPlayer() {
			continue
		}

		switch a.Type {
		case ActionLeft:
			r.holdLeft = a.Holding
			out.Left = a.Holding
		case ActionRight:
			r.holdRight = a.Holding
			out.Right = a.Holding
		case ActionJump:
			if a.Holding && !r.holdJump {
				out.JumpPressed = true
			}
			if !a.Holding && r.holdJump {
				out.JumpReleased = true
			}
			r.holdJump = a.Holding
			out.Jump = a.Holding
		}
	}

	r.frame++
	return out, true
}

// CurrentFrame returns the number of frames already consumed.
func (r *Replayer) CurrentFrame() int {
	return int(r.frame)
}

// TotalFrames returns the number of frames this replay covers.
func (r *Replayer) TotalFrames() int {
	return int(r.totalFrames)
}

// Reset rewinds the replayer to the first frame.
func (r *Replayer) Reset() {
	r.idx = 0
	r.frame = 0
	r.holdLeft = false
	r.holdRight = false
	r.holdJump = false
}
