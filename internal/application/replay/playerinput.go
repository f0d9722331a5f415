package replay

// button is the packed 2-bit button field of a PlayerInput. It adds a
// synthetic Swift value (0) to the three player buttons for swift-pair
// elision (see §4.3.1 of the format spec / SPEC_FULL.md).
type button uint8

const (
	buttonSwift button = 0
	buttonJump  button = 1
	buttonLeft  button = 2
	buttonRight button = 3
)

// playerInput is the internal, on-wire packed form of a player-action
// event. It exists only between section construction and serialization
// and is never exposed to callers.
type playerInput struct {
	frame   uint64
	delta   uint64
	button  button
	holding bool
	player2 bool
}

// playerInputFromAction converts a player Action into its packed form.
// Swift-marked actions pack as buttonSwift regardless of their original
// button; the decoder expands buttonSwift back into a Jump press/release
// pair.
func playerInputFromAction(a Action) playerInput {
	b := button(a.Type)
	if a.Swift {
		b = buttonSwift
	}

	return playerInput{
		frame:   a.Frame,
		delta:   a.Delta,
		button:  b,
		holding: a.Holding,
		player2: a.Player2,
	}
}

// prepareState packs (delta, button, player2, holding) into the low
// widthBytes*8 bits of a uint64, masking off anything that doesn't fit.
func (p playerInput) prepareState(widthBytes int) uint64 {
	state := (p.delta << 4) | (uint64(p.button) << 2) | (boolBit(p.player2) << 1) | boolBit(p.holding)

	bits := uint(widthBytes) * 8
	if bits >= 64 {
		return state
	}
	mask := (uint64(1) << bits) - 1
	return state & mask
}

// playerInputFromState is the inverse of prepareState.
func playerInputFromState(previousFrame, state uint64) playerInput {
	delta := state >> 4
	return playerInput{
		frame:   previousFrame + delta,
		delta:   delta,
		button:  button((state >> 2) & 0b11),
		player2: (state>>1)&1 == 1,
		holding: state&1 == 1,
	}
}

// weakEq compares the fields that matter for run-length detection,
// ignoring the absolute frame.
func (p playerInput) weakEq(other playerInput) bool {
	return p.delta == other.delta &&
		p.button == other.button &&
		p.holding == other.holding &&
		p.player2 == other.player2
}

func boolBit(b bool) uint64 {
	if b {
		return 1
	}
	return 0
}
