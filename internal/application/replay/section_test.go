package replay

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// encodeActions packs actions into sections and serializes them, returning
// the raw bytes (no atom/replay framing).
func encodeActions(t *testing.T, actions []Action) []byte {
	t.Helper()
	sections, err := packSections(actions)
	require.NoError(t, err)

	var buf bytes.Buffer
	for _, s := range sections {
		require.NoError(t, s.write(&buf))
	}
	return buf.Bytes()
}

// decodeActions decodes exactly count actions from data.
func decodeActions(t *testing.T, data []byte, count int) []Action {
	t.Helper()
	r := bytes.NewReader(data)
	var actions []Action
	for len(actions) < count {
		require.NoError(t, decodeSection(r, &actions))
	}
	return actions
}

func TestS2SingleJump(t *testing.T) {
	actions := []Action{NewPlayerAction(0, 5, ActionJump, true, false)}

	data := encodeActions(t, actions)
	require.Len(t, data, 2+1) // header + one 1-byte payload

	assert.Equal(t, byte(0x55), data[2])

	decoded := decodeActions(t, data, 1)
	require.Len(t, decoded, 1)
	assert.Equal(t, uint64(5), decoded[0].Frame)
	assert.Equal(t, ActionJump, decoded[0].Type)
	assert.True(t, decoded[0].Holding)
	assert.False(t, decoded[0].Player2)
}

func TestS3SwiftPair(t *testing.T) {
	press := NewPlayerAction(0, 10, ActionJump, true, false)
	release := NewPlayerAction(10, 0, ActionJump, false, false)
	actions := []Action{press, release}

	data := encodeActions(t, actions)
	require.Len(t, data, 2+1) // one section, one packed byte: the swift pair collapses

	decoded := decodeActions(t, data, 2)
	require.Len(t, decoded, 2)

	assert.Equal(t, uint64(10), decoded[0].Frame)
	assert.True(t, decoded[0].Holding)
	assert.True(t, decoded[0].Swift)

	assert.Equal(t, uint64(10), decoded[1].Frame)
	assert.False(t, decoded[1].Holding)
	assert.True(t, decoded[1].Swift)
}

func TestS4RepeatDetection(t *testing.T) {
	var actions []Action
	prev := uint64(0)
	for i := 0; i < 16; i++ {
		a := NewPlayerAction(prev, 1, ActionJump, true, false)
		actions = append(actions, a)
		prev = a.Frame
	}

	sections, err := packSections(actions)
	require.NoError(t, err)
	require.Len(t, sections, 1)
	require.Equal(t, idRepeat, sections[0].id)
	assert.Equal(t, uint8(0), sections[0].countExp)
	assert.Equal(t, uint8(4), sections[0].repeatsExp)

	var buf bytes.Buffer
	require.NoError(t, sections[0].write(&buf))
	assert.Equal(t, 2+1, buf.Len()) // header word + 1 data byte

	decoded := decodeActions(t, buf.Bytes(), 16)
	require.Len(t, decoded, 16)
	for i, a := range decoded {
		assert.Equal(t, uint64(i+1), a.Frame)
		assert.True(t, a.Holding)
	}
}

func TestS5MixedWidthSplit(t *testing.T) {
	var actions []Action
	prev := uint64(0)
	for _, d := range []uint64{1, 1, 1000, 1} {
		a := NewPlayerAction(prev, d, ActionJump, true, false)
		actions = append(actions, a)
		prev = a.Frame
	}

	sections, err := packSections(actions)
	require.NoError(t, err)
	require.GreaterOrEqual(t, len(sections), 2, "differing minimum_size_code should force a split")

	for _, s := range sections {
		if s.id == idInput || s.id == idRepeat {
			count := uint64(1) << s.countExp
			assert.Equal(t, count, largestPowerOfTwo(count), "section sizes must be exact powers of two")
		}
	}

	var buf bytes.Buffer
	for _, s := range sections {
		require.NoError(t, s.write(&buf))
	}
	decoded := decodeActions(t, buf.Bytes(), 4)
	require.Len(t, decoded, 4)
	assert.Equal(t, []uint64{1, 2, 1002, 1003}, []uint64{decoded[0].Frame, decoded[1].Frame, decoded[2].Frame, decoded[3].Frame})
}

func TestS6TPSAndDeath(t *testing.T) {
	actions := []Action{
		NewTPSAction(0, 0, 60.0),
		NewDeathAction(0, 120, ActionRestart, 0xDEADBEEF),
	}

	sections, err := packSections(actions)
	require.NoError(t, err)
	require.Len(t, sections, 2)
	assert.Equal(t, idSpecial, sections[0].id)
	assert.Equal(t, idSpecial, sections[1].id)

	data := encodeActions(t, actions)
	decoded := decodeActions(t, data, 2)
	require.Len(t, decoded, 2)

	assert.Equal(t, ActionTPS, decoded[0].Type)
	assert.Equal(t, 60.0, decoded[0].TPS)
	assert.Equal(t, uint64(0), decoded[0].Frame)

	assert.Equal(t, ActionRestart, decoded[1].Type)
	assert.Equal(t, uint64(0xDEADBEEF), decoded[1].Seed)
	assert.Equal(t, uint64(120), decoded[1].Frame)
}

func TestReservedSectionIdentifierRejected(t *testing.T) {
	var buf bytes.Buffer
	header := uint16(idReserved) << 14
	require.NoError(t, writeUintLE(&buf, uint64(header), 2))

	var actions []Action
	err := decodeSection(bytes.NewReader(buf.Bytes()), &actions)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidSection)
}

func TestPackedSectionsAreAllPowerOfTwoSized(t *testing.T) {
	var actions []Action
	prev := uint64(0)
	// A deliberately irregular run: alternating deltas defeat any single
	// repeat/free pattern, exercising the flush-to-power-of-two path.
	deltas := []uint64{1, 2, 1, 3, 1, 2, 1, 5, 1, 2, 1, 3, 1, 1}
	for _, d := range deltas {
		a := NewPlayerAction(prev, d, ActionJump, true, false)
		actions = append(actions, a)
		prev = a.Frame
	}

	sections, err := packSections(actions)
	require.NoError(t, err)

	for _, s := range sections {
		switch s.id {
		case idInput:
			count := uint64(1) << s.countExp
			assert.LessOrEqual(t, s.countExp, uint8(15))
			assert.Equal(t, count, largestPowerOfTwo(count))
		case idRepeat:
			repeats := uint64(1) << s.repeatsExp
			assert.GreaterOrEqual(t, s.repeatsExp, uint8(1))
			assert.Equal(t, repeats, largestPowerOfTwo(repeats))
		}
	}
}

func TestRoundTripPreservesFramesAndTypes(t *testing.T) {
	var actions []Action
	prev := uint64(0)
	for i := 0; i < 40; i++ {
		a := NewPlayerAction(prev, uint64(i%3), ActionLeft, i%2 == 0, false)
		actions = append(actions, a)
		prev = a.Frame
	}
	actions = append(actions, NewDeathAction(prev, 10, ActionDeath, 7))

	data := encodeActions(t, actions)
	decoded := decodeActions(t, data, len(actions))
	require.Len(t, decoded, len(actions))

	for i := range actions {
		assert.Equal(t, actions[i].Frame, decoded[i].Frame, "frame %d", i)
		assert.Equal(t, actions[i].Type, decoded[i].Type, "type %d", i)
	}

	// Monotonic frames.
	for i := 1; i < len(decoded); i++ {
		assert.GreaterOrEqual(t, decoded[i].Frame, decoded[i-1].Frame)
	}
}

// TestRunLengthEncodeClusterSizeTwoDoesNotPanic exercises a cluster size
// of 2: three leading inputs are mutually distinct (forcing idx to reach
// 3 via the free path), then an alternating Left/Right hold pattern
// makes c=2 the score-optimal cluster. Before the idx+c*(j+1)<=m fix,
// extending the match one step further read one playerInput past the
// end of the slice.
func TestRunLengthEncodeClusterSizeTwoDoesNotPanic(t *testing.T) {
	var actions []Action
	prev := uint64(0)
	appendDelta := func(delta uint64, typ ActionType, holding bool) {
		a := NewPlayerAction(prev, delta, typ, holding, false)
		actions = append(actions, a)
		prev = a.Frame
	}

	appendDelta(5, ActionJump, true)  // 0: unique
	appendDelta(7, ActionJump, false) // 1: unique
	appendDelta(9, ActionLeft, true)  // 2: unique
	appendDelta(2, ActionLeft, true)  // 3
	appendDelta(2, ActionRight, true) // 4
	appendDelta(2, ActionLeft, true)  // 5: weakly equals 3
	appendDelta(2, ActionRight, true) // 6: weakly equals 4
	appendDelta(2, ActionLeft, true)  // 7: weakly equals 3 and 5

	var sections []section
	var err error
	assert.NotPanics(t, func() {
		sections, err = packSections(actions)
	})
	require.NoError(t, err)

	var buf bytes.Buffer
	for _, s := range sections {
		require.NoError(t, s.write(&buf))
	}

	decoded := decodeActions(t, buf.Bytes(), len(actions))
	require.Len(t, decoded, len(actions))
	for i := range actions {
		assert.Equal(t, actions[i].Frame, decoded[i].Frame, "frame %d", i)
		assert.Equal(t, actions[i].Type, decoded[i].Type, "type %d", i)
		assert.Equal(t, actions[i].Holding, decoded[i].Holding, "holding %d", i)
	}
}
