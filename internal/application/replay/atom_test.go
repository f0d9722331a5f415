package replay

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// seekableBuffer is a minimal io.ReadWriteSeeker over an in-memory slice,
// used to exercise the length-backfill and end-of-stream-bounded reads that
// Registry.WriteAll/ReadAll depend on.
type seekableBuffer struct {
	data []byte
	pos  int64
}

func (s *seekableBuffer) Write(p []byte) (int, error) {
	end := s.pos + int64(len(p))
	if end > int64(len(s.data)) {
		grown := make([]byte, end)
		copy(grown, s.data)
		s.data = grown
	}
	n := copy(s.data[s.pos:end], p)
	s.pos = end
	return n, nil
}

func (s *seekableBuffer) Read(p []byte) (int, error) {
	if s.pos >= int64(len(s.data)) {
		return 0, errEOF
	}
	n := copy(p, s.data[s.pos:])
	s.pos += int64(n)
	return n, nil
}

func (s *seekableBuffer) Seek(offset int64, whence int) (int64, error) {
	var base int64
	switch whence {
	case 0:
		base = 0
	case 1:
		base = s.pos
	case 2:
		base = int64(len(s.data))
	}
	s.pos = base + offset
	return s.pos, nil
}

func TestAtomLengthPrefixMatchesBodySize(t *testing.T) {
	reg := &Registry{}
	atom := NewActionAtom()
	require.NoError(t, atom.AppendPlayer(5, ActionJump, true, false))
	require.NoError(t, atom.AppendPlayer(20, ActionJump, false, false))
	reg.Add(atom)

	var buf seekableBuffer
	require.NoError(t, WriteAll(&buf, reg))

	rawSize := uint64(buf.data[4]) | uint64(buf.data[5])<<8 | uint64(buf.data[6])<<16 | uint64(buf.data[7])<<24 |
		uint64(buf.data[8])<<32 | uint64(buf.data[9])<<40 | uint64(buf.data[10])<<48 | uint64(buf.data[11])<<56
	size := rawSize &^ atomSizeFlagsMask

	bodyStart := 12
	bytesBetweenLengthAndNextAtom := len(buf.data) - bodyStart
	assert.Equal(t, int(size), bytesBetweenLengthAndNextAtom)
}

func TestUnknownAtomSkipsToNullAtom(t *testing.T) {
	var buf seekableBuffer
	// id=0xFFFF (unregistered), size=4, 4 arbitrary bytes.
	require.NoError(t, writeUintLE(&buf, 0xFFFF, 4))
	require.NoError(t, writeUintLE(&buf, 4, 8))
	_, err := buf.Write([]byte{1, 2, 3, 4})
	require.NoError(t, err)
	require.NoError(t, buf.Write1Footer())

	buf.pos = 0
	reg := &Registry{}
	require.NoError(t, reg.ReadAll(&buf))

	require.Len(t, reg.Atoms, 1)
	null, ok := reg.Atoms[0].(NullAtom)
	require.True(t, ok)
	assert.Equal(t, uint64(4), null.Size)
}

// Write1Footer appends the single footer byte ReadAll expects to stop before.
func (s *seekableBuffer) Write1Footer() error {
	_, err := s.Write([]byte{footerByte})
	return err
}

func TestRegistryRoundTripsActionAtom(t *testing.T) {
	reg := NewDefaultRegistry()
	atom := NewActionAtom()
	require.NoError(t, atom.AppendPlayer(1, ActionJump, true, false))
	require.NoError(t, atom.AppendPlayer(1, ActionJump, false, false))
	reg.Add(atom)

	var buf seekableBuffer
	require.NoError(t, WriteAll(&buf, reg))
	require.NoError(t, buf.Write1Footer())

	buf.pos = 0
	out := NewDefaultRegistry()
	require.NoError(t, out.ReadAll(&buf))

	require.Equal(t, 1, out.Count())
	decoded, ok := out.Atoms[0].(*ActionAtom)
	require.True(t, ok)
	require.Len(t, decoded.Actions(), 2)
	assert.Equal(t, uint64(1), decoded.Actions()[0].Frame)
}

var errEOF = bytesErrEOF()

func bytesErrEOF() error {
	var b bytes.Buffer
	_, err := b.Read(make([]byte, 1))
	return err
}
