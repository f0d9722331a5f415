package replay

// ActionType identifies the kind of input event an Action carries. Zero is
// reserved; values 1-3 are player buttons, 4-6 change the replay seed, and
// 7 adjusts playback speed.
type ActionType uint8

const (
	actionReserved ActionType = 0

	// ActionJump, ActionLeft and ActionRight are player button events.
	ActionJump  ActionType = 1
	ActionLeft  ActionType = 2
	ActionRight ActionType = 3

	// ActionRestart, ActionRestartFull and ActionDeath all carry a new seed.
	ActionRestart     ActionType = 4
	ActionRestartFull ActionType = 5
	ActionDeath       ActionType = 6

	// ActionTPS adjusts the replay's playback rate.
	ActionTPS ActionType = 7
)

// Action is the public-facing input event. Use this to drive replay
// playback; callers never construct a PlayerInput or section directly.
type Action struct {
	// Frame is the absolute, monotonically non-decreasing frame this
	// action executes on.
	Frame uint64
	// Delta is Frame minus the previous action's frame (0 for the first
	// action, and 0 is otherwise allowed for same-frame events).
	Delta uint64
	// Type is the kind of event this is.
	Type ActionType

	// Holding and Player2 are meaningful only when Type is one of
	// ActionJump, ActionLeft, ActionRight.
	Holding bool
	Player2 bool

	// Seed is meaningful only when Type is ActionRestart,
	// ActionRestartFull, or ActionDeath.
	Seed uint64

	// TPS is meaningful only when Type is ActionTPS, and must be positive.
	TPS float64

	// Swift is set by the encoder/decoder as an internal optimization
	// marker for press/release pairs collapsed onto the wire as a single
	// record. Callers must never set this themselves.
	Swift bool
}

// NewPlayerAction builds a Jump/Left/Right action executing at
// previousFrame+delta.
func NewPlayerAction(previousFrame, delta uint64, button ActionType, holding, player2 bool) Action {
	return Action{
		Frame:   previousFrame + delta,
		Delta:   delta,
		Type:    button,
		Holding: holding,
		Player2: player2,
	}
}

// NewDeathAction builds a Restart/RestartFull/Death action executing at
// previousFrame+delta.
func NewDeathAction(previousFrame, delta uint64, kind ActionType, seed uint64) Action {
	return Action{
		Frame: previousFrame + delta,
		Delta: delta,
		Type:  kind,
		Seed:  seed,
	}
}

// NewTPSAction builds a TPS action executing at previousFrame+delta. tps
// must be positive; this constructor does not itself validate that —
// callers going through ActionAtom.AppendTPS get that check.
func NewTPSAction(previousFrame, delta uint64, tps float64) Action {
	return Action{
		Frame: previousFrame + delta,
		Delta: delta,
		Type:  ActionTPS,
		TPS:   tps,
	}
}

// IsPlayer reports whether this action is a Jump/Left/Right button event.
func (a Action) IsPlayer() bool {
	return a.Type >= ActionJump && a.Type <= ActionRight
}

// minimumSizeCode returns the smallest delta_size_code (0..3, meaning
// byte widths 1/2/4/8) that can hold this action's packed delta. Player
// events pack 4 overhead bits alongside the delta (2-bit button, 1-bit
// player2, 1-bit holding); special events pack a full overhead byte.
func (a Action) minimumSizeCode() uint8 {
	overhead := uint(4)
	if !a.IsPlayer() {
		overhead = 8
	}

	oneByte := uint64(1) << overhead
	twoBytes := uint64(1) << (overhead + 8)
	fourBytes := uint64(1) << (overhead + 24)

	switch {
	case a.Delta < oneByte:
		return 0
	case a.Delta < twoBytes:
		return 1
	case a.Delta < fourBytes:
		return 2
	default:
		return 3
	}
}
