package replay

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestActionIsPlayer(t *testing.T) {
	assert.True(t, NewPlayerAction(0, 5, ActionJump, true, false).IsPlayer())
	assert.True(t, NewPlayerAction(0, 5, ActionLeft, false, false).IsPlayer())
	assert.True(t, NewPlayerAction(0, 5, ActionRight, false, false).IsPlayer())
	assert.False(t, NewDeathAction(0, 5, ActionRestart, 1).IsPlayer())
	assert.False(t, NewTPSAction(0, 5, 60).IsPlayer())
}

func TestActionFrameIsPreviousPlusDelta(t *testing.T) {
	a := NewPlayerAction(100, 7, ActionJump, true, false)
	assert.Equal(t, uint64(107), a.Frame)
	assert.Equal(t, uint64(7), a.Delta)
}

func TestMinimumSizeCodePlayerBoundaries(t *testing.T) {
	// Player overhead is 4 bits: boundaries at 2^4, 2^12, 2^28.
	cases := []struct {
		delta uint64
		want  uint8
	}{
		{0, 0},
		{1<<4 - 1, 0},
		{1 << 4, 1},
		{1<<12 - 1, 1},
		{1 << 12, 2},
		{1<<28 - 1, 2},
		{1 << 28, 3},
	}
	for _, c := range cases {
		a := NewPlayerAction(0, c.delta, ActionJump, false, false)
		assert.Equal(t, c.want, a.minimumSizeCode(), "delta=%d", c.delta)
	}
}

func TestMinimumSizeCodeSpecialBoundaries(t *testing.T) {
	// Special overhead is 8 bits: boundaries at 2^8, 2^16, 2^32.
	cases := []struct {
		delta uint64
		want  uint8
	}{
		{0, 0},
		{1<<8 - 1, 0},
		{1 << 8, 1},
		{1<<16 - 1, 1},
		{1 << 16, 2},
		{1<<32 - 1, 2},
		{1 << 32, 3},
	}
	for _, c := range cases {
		a := NewDeathAction(0, c.delta, ActionRestart, 0)
		assert.Equal(t, c.want, a.minimumSizeCode(), "delta=%d", c.delta)
	}
}
