package replay

import (
	"fmt"
	"io"
)

// ActionAtom groups an ordered sequence of Actions into the section
// stream described in §4.3 of the format spec. It is the only Atom
// kind NewDefaultRegistry decodes (anything else becomes a NullAtom);
// callers build one up with the Append*
// helpers, attach it to a Replay, and never touch sections directly.
type ActionAtom struct {
	actions []Action
}

// NewActionAtom returns an empty ActionAtom.
func NewActionAtom() *ActionAtom {
	return &ActionAtom{}
}

// Actions returns the atom's action sequence. The returned slice is
// shared with the atom; callers must not mutate it.
func (a *ActionAtom) Actions() []Action {
	return a.actions
}

// Len returns the number of actions currently held.
func (a *ActionAtom) Len() int {
	return len(a.actions)
}

func (a *ActionAtom) previousFrame() uint64 {
	if len(a.actions) == 0 {
		return 0
	}
	return a.actions[len(a.actions)-1].Frame
}

// AppendPlayer appends a Jump/Left/Right event at frame. frame must be
// >= the previous action's frame.
func (a *ActionAtom) AppendPlayer(frame uint64, buttonType ActionType, holding, player2 bool) error {
	if buttonType < ActionJump || buttonType > ActionRight {
		return fmt.Errorf("slc3: action type %d is not a player button: %w", buttonType, ErrInvalidArgument)
	}
	prev := a.previousFrame()
	if frame < prev {
		return fmt.Errorf("slc3: frame %d precedes previous action's frame %d: %w", frame, prev, ErrInvalidArgument)
	}

	a.actions = append(a.actions, NewPlayerAction(prev, frame-prev, buttonType, holding, player2))
	return nil
}

// AppendDeath appends a Restart/RestartFull/Death event at frame.
func (a *ActionAtom) AppendDeath(frame uint64, kind ActionType, seed uint64) error {
	if kind != ActionRestart && kind != ActionRestartFull && kind != ActionDeath {
		return fmt.Errorf("slc3: action type %d is not a death event: %w", kind, ErrInvalidArgument)
	}
	prev := a.previousFrame()
	if frame < prev {
		return fmt.Errorf("slc3: frame %d precedes previous action's frame %d: %w", frame, prev, ErrInvalidArgument)
	}

	a.actions = append(a.actions, NewDeathAction(prev, frame-prev, kind, seed))
	return nil
}

// AppendTPS appends a playback-rate change at frame. tps must be positive.
func (a *ActionAtom) AppendTPS(frame uint64, tps float64) error {
	if tps <= 0 {
		return fmt.Errorf("slc3: tps must be positive, got %v: %w", tps, ErrInvalidArgument)
	}
	prev := a.previousFrame()
	if frame < prev {
		return fmt.Errorf("slc3: frame %d precedes previous action's frame %d: %w", frame, prev, ErrInvalidArgument)
	}

	a.actions = append(a.actions, NewTPSAction(prev, frame-prev, tps))
	return nil
}

// Clip removes every action with Frame >= frame.
func (a *ActionAtom) Clip(frame uint64) {
	cut := len(a.actions)
	for i, act := range a.actions {
		if act.Frame >= frame {
			cut = i
			break
		}
	}
	a.actions = a.actions[:cut]
}

// AtomID implements Atom.
func (a *ActionAtom) AtomID() AtomID { return AtomAction }

// writeBody implements Atom: it writes the action count followed by
// the packed section stream for a.actions.
func (a *ActionAtom) writeBody(w io.Writer) error {
	if err := writeUintLE(w, uint64(len(a.actions)), 8); err != nil {
		return formatErrf("write action count", -1, ErrStreamIO)
	}

	sections, err := packSections(a.actions)
	if err != nil {
		return err
	}

	for _, s := range sections {
		if err := s.write(w); err != nil {
			return err
		}
	}
	return nil
}

// readActionAtom decodes an ActionAtom from r: it reads the declared
// action count, then sections until that many actions exist. size is
// not checked against the number of bytes the sections consume.
func readActionAtom(r io.Reader, size uint64) (Atom, error) {
	declaredCount, err := readUintLE(r, 8)
	if err != nil {
		return nil, ioReadErr("read action count", err)
	}

	actions := make([]Action, 0, declaredCount)
	for uint64(len(actions)) < declaredCount {
		if err := decodeSection(r, &actions); err != nil {
			return nil, err
		}
	}

	return &ActionAtom{actions: actions}, nil
}
