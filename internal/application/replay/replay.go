package replay

import (
	"bytes"
	"io"
)

// magic is the Replay container's fixed 8-byte header.
var magic = [8]byte{'S', 'L', 'C', '3', 'R', 'P', 'L', 'Y'}

// footerByte is the single trailing byte every well-formed container ends with.
const footerByte = 0xCC

// Replay is the top-level SLC3 container: an 8-byte magic, a 64-byte
// Metadata block, zero or more atoms, and a 1-byte footer.
type Replay struct {
	Metadata Metadata
	Registry *Registry
}

// NewReplay returns an empty Replay with a fresh Registry wired with
// the built-in ActionAtom decoder.
func NewReplay(meta Metadata) *Replay {
	return &Replay{
		Metadata: meta,
		Registry: NewDefaultRegistry(),
	}
}

// Encode writes the full container to w, which must support io.Seeker
// so atom lengths can be backfilled (see Registry.WriteAll). Callers
// whose sink doesn't support seeking should buffer through an
// in-memory bytes.Buffer (see EncodeBytes) and flush in one shot.
func (rp *Replay) Encode(w io.WriteSeeker) error {
	if _, err := w.Write(magic[:]); err != nil {
		return formatErrf("write magic", -1, ErrStreamIO)
	}
	if err := writeUintLE(w, metadataSize, 2); err != nil {
		return formatErrf("write meta size", -1, ErrStreamIO)
	}
	if err := rp.Metadata.write(w); err != nil {
		return err
	}

	if rp.Registry != nil {
		if err := WriteAll(w, rp.Registry); err != nil {
			return err
		}
	}

	if _, err := w.Write([]byte{footerByte}); err != nil {
		return formatErrf("write footer", -1, ErrStreamIO)
	}
	return nil
}

// EncodeBytes encodes the container into an in-memory buffer and
// returns its bytes. Use this when the caller's sink doesn't support
// io.Seeker.
func (rp *Replay) EncodeBytes() ([]byte, error) {
	var buf seekBuffer
	if err := rp.Encode(&buf); err != nil {
		return nil, err
	}
	return buf.buf.Bytes(), nil
}

// Decode reads a full container from r, which must support io.Seeker
// so the atom region can be bounded against the stream's end.
func Decode(r io.ReadSeeker) (*Replay, error) {
	var gotMagic [8]byte
	if _, err := io.ReadFull(r, gotMagic[:]); err != nil {
		return nil, ioReadErr("read magic", err)
	}
	if gotMagic != magic {
		return nil, formatErrf("read magic", 0, ErrInvalidHeader)
	}

	metaSize, err := readUint16LE(r)
	if err != nil {
		return nil, ioReadErr("read meta size", err)
	}
	if metaSize != metadataSize {
		return nil, formatErrf("read meta size", -1, ErrInvalidHeader)
	}

	meta, err := readMetadata(r)
	if err != nil {
		return nil, err
	}

	reg := NewDefaultRegistry()
	if err := reg.ReadAll(r); err != nil {
		return nil, err
	}

	var footer [1]byte
	if _, err := io.ReadFull(r, footer[:]); err != nil {
		return nil, ioReadErr("read footer", err)
	}
	if footer[0] != footerByte {
		return nil, formatErrf("read footer", -1, ErrInvalidFooter)
	}

	return &Replay{Metadata: meta, Registry: reg}, nil
}

// DecodeBytes decodes a full container held in memory.
func DecodeBytes(data []byte) (*Replay, error) {
	return Decode(bytes.NewReader(data))
}

// seekBuffer adapts a bytes.Buffer into an io.WriteSeeker backed by a
// growable byte slice, for callers whose real sink can't seek.
type seekBuffer struct {
	buf bytes.Buffer
	pos int64
}

func (b *seekBuffer) Write(p []byte) (int, error) {
	data := b.buf.Bytes()
	if b.pos < int64(len(data)) {
		n := copy(data[b.pos:], p)
		b.pos += int64(n)
		if n < len(p) {
			extra := p[n:]
			b.buf.Write(extra)
			b.pos += int64(len(extra))
		}
		return len(p), nil
	}

	if gap := b.pos - int64(len(data)); gap > 0 {
		b.buf.Write(make([]byte, gap))
	}
	n, err := b.buf.Write(p)
	b.pos += int64(n)
	return n, err
}

func (b *seekBuffer) Seek(offset int64, whence int) (int64, error) {
	var base int64
	switch whence {
	case io.SeekStart:
		base = 0
	case io.SeekCurrent:
		base = b.pos
	case io.SeekEnd:
		base = int64(b.buf.Len())
	}

	newPos := base + offset
	if newPos < 0 {
		return 0, formatErrf("seek", -1, ErrStreamIO)
	}
	b.pos = newPos
	return b.pos, nil
}
