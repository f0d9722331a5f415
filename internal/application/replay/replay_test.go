package replay

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReplayEmptyRoundTrip(t *testing.T) {
	rp := NewReplay(Metadata{TPS: 60, Seed: 42, Version: 1, Build: 7})

	data, err := rp.EncodeBytes()
	require.NoError(t, err)
	require.Equal(t, 8+2+metadataSize+1, len(data), "empty replay: magic + meta-size + metadata + footer, no atoms")

	out, err := DecodeBytes(data)
	require.NoError(t, err)
	assert.Equal(t, rp.Metadata, out.Metadata)
	assert.Equal(t, 0, out.Registry.Count())
}

func TestReplayRoundTripWithActionAtom(t *testing.T) {
	rp := NewReplay(Metadata{TPS: 60, Seed: 1})
	atom := NewActionAtom()
	require.NoError(t, atom.AppendPlayer(5, ActionJump, true, false))
	require.NoError(t, atom.AppendPlayer(20, ActionJump, false, false))
	require.NoError(t, atom.AppendDeath(100, ActionRestart, 99))
	rp.Registry.Add(atom)

	data, err := rp.EncodeBytes()
	require.NoError(t, err)

	out, err := DecodeBytes(data)
	require.NoError(t, err)
	require.Equal(t, 1, out.Registry.Count())

	decoded, ok := out.Registry.Atoms[0].(*ActionAtom)
	require.True(t, ok)
	require.Len(t, decoded.Actions(), 3)
	assert.Equal(t, uint64(5), decoded.Actions()[0].Frame)
	assert.Equal(t, uint64(20), decoded.Actions()[1].Frame)
	assert.Equal(t, uint64(100), decoded.Actions()[2].Frame)
	assert.Equal(t, ActionRestart, decoded.Actions()[2].Type)
}

func TestDecodeRejectsBadMagic(t *testing.T) {
	data := []byte("NOTASLC3")
	data = append(data, make([]byte, 2+metadataSize+1)...)

	_, err := DecodeBytes(data)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidHeader)
}

func TestDecodeRejectsBadFooter(t *testing.T) {
	rp := NewReplay(Metadata{TPS: 30})
	data, err := rp.EncodeBytes()
	require.NoError(t, err)

	data[len(data)-1] = 0x00

	_, err = DecodeBytes(data)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidFooter)
}

func TestDecodeRejectsTruncatedStream(t *testing.T) {
	rp := NewReplay(Metadata{TPS: 30})
	atom := NewActionAtom()
	require.NoError(t, atom.AppendPlayer(1, ActionJump, true, false))
	rp.Registry.Add(atom)

	data, err := rp.EncodeBytes()
	require.NoError(t, err)

	_, err = DecodeBytes(data[:len(data)-3])
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrTruncated)
}

func TestDecodeRejectsWrongMetaSize(t *testing.T) {
	rp := NewReplay(Metadata{TPS: 30})
	data, err := rp.EncodeBytes()
	require.NoError(t, err)

	data[8] = 0x00
	data[9] = 0x00

	_, err = DecodeBytes(data)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidHeader)
}
