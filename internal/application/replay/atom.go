package replay

import (
	"io"
)

// AtomID identifies the kind of an atom on the wire.
type AtomID uint32

const (
	// AtomNull is the placeholder produced for any atom id the reader
	// doesn't recognize.
	AtomNull AtomID = 0
	// AtomAction holds an ActionAtom.
	AtomAction AtomID = 1
	// AtomMarker is reserved for a future marker atom; no concrete type
	// implements it yet (see DESIGN.md).
	AtomMarker AtomID = 2
)

const atomSizeFlagsMask = uint64(0xFF) << 56

// Atom is anything that can live inside a Replay's atom list: a typed,
// length-prefixed chunk with forward-compatible unknown-id skipping.
type Atom interface {
	// AtomID returns the wire id for this atom's concrete type.
	AtomID() AtomID
	// writeBody writes this atom's payload (not the id/size header) to w.
	writeBody(w io.Writer) error
}

// NullAtom is the placeholder produced when the registry encounters an
// id it has no decoder for. It preserves only the byte length of the
// atom it replaced; the payload bytes themselves are not retained.
type NullAtom struct {
	Size uint64
}

// AtomID implements Atom.
func (NullAtom) AtomID() AtomID { return AtomNull }

func (NullAtom) writeBody(w io.Writer) error { return nil }

// AtomDecoder reads size bytes of an atom's payload from r and produces
// the decoded Atom.
type AtomDecoder func(r io.Reader, size uint64) (Atom, error)

// Registry holds an ordered sequence of atoms and a lookup table of
// decoders, keyed by AtomID. The zero value is usable; register decoders
// with RegisterDecoder before calling ReadAll, or use NewDefaultRegistry
// for the built-in ActionAtom decoder.
type Registry struct {
	Atoms    []Atom
	decoders map[AtomID]AtomDecoder
}

// NewDefaultRegistry returns a Registry that knows how to decode
// ActionAtom; any other id falls back to NullAtom.
func NewDefaultRegistry() *Registry {
	reg := &Registry{}
	reg.RegisterDecoder(AtomAction, func(r io.Reader, size uint64) (Atom, error) {
		return readActionAtom(r, size)
	})
	return reg
}

// RegisterDecoder adds (or replaces) the decoder used for id.
func (reg *Registry) RegisterDecoder(id AtomID, dec AtomDecoder) {
	if reg.decoders == nil {
		reg.decoders = make(map[AtomID]AtomDecoder)
	}
	reg.decoders[id] = dec
}

// Add appends an atom to the registry in insertion order.
func (reg *Registry) Add(a Atom) {
	reg.Atoms = append(reg.Atoms, a)
}

// Count returns the number of atoms currently held.
func (reg *Registry) Count() int {
	return len(reg.Atoms)
}

// WriteAll writes every atom in the registry to w, which must support
// io.Seeker so each atom's length field can be backfilled after writing
// its body.
func WriteAll(w io.WriteSeeker, reg *Registry) error {
	for _, a := range reg.Atoms {
		if err := writeAtom(w, a); err != nil {
			return err
		}
	}
	return nil
}

// writeAtom writes one atom's id, a zeroed length placeholder, its body,
// then backfills the length from the cursor delta.
func writeAtom(w io.WriteSeeker, a Atom) error {
	if err := writeUintLE(w, uint64(a.AtomID()), 4); err != nil {
		return formatErrf("write atom id", -1, ErrStreamIO)
	}

	before, err := w.Seek(0, io.SeekCurrent)
	if err != nil {
		return formatErrf("query atom length offset", -1, ErrStreamIO)
	}

	if err := writeUintLE(w, 0, 8); err != nil {
		return formatErrf("write atom length placeholder", -1, ErrStreamIO)
	}

	start, err := w.Seek(0, io.SeekCurrent)
	if err != nil {
		return formatErrf("query atom body start", -1, ErrStreamIO)
	}

	if err := a.writeBody(w); err != nil {
		return err
	}

	end, err := w.Seek(0, io.SeekCurrent)
	if err != nil {
		return formatErrf("query atom body end", -1, ErrStreamIO)
	}

	size := uint64(end - start)

	if _, err := w.Seek(before, io.SeekStart); err != nil {
		return formatErrf("seek to atom length field", -1, ErrStreamIO)
	}
	if err := writeUintLE(w, size, 8); err != nil {
		return formatErrf("backfill atom length", -1, ErrStreamIO)
	}
	if _, err := w.Seek(end, io.SeekStart); err != nil {
		return formatErrf("restore cursor after atom", -1, ErrStreamIO)
	}

	return nil
}

// ReadAll reads atoms from r until the stream has one byte left (the
// Replay footer), dispatching each by id and falling back to NullAtom
// for unrecognized ids.
func (reg *Registry) ReadAll(r io.ReadSeeker) error {
	pos, err := r.Seek(0, io.SeekCurrent)
	if err != nil {
		return formatErrf("query atom region start", -1, ErrStreamIO)
	}
	end, err := r.Seek(0, io.SeekEnd)
	if err != nil {
		return formatErrf("query stream end", -1, ErrStreamIO)
	}
	if _, err := r.Seek(pos, io.SeekStart); err != nil {
		return formatErrf("restore atom region cursor", -1, ErrStreamIO)
	}
	end-- // footer byte lives outside the atom region

	for {
		cur, err := r.Seek(0, io.SeekCurrent)
		if err != nil {
			return formatErrf("query atom cursor", -1, ErrStreamIO)
		}
		if cur >= end {
			break
		}

		a, err := reg.readAtom(r, end-cur)
		if err != nil {
			return err
		}
		reg.Add(a)
	}

	return nil
}

func (reg *Registry) readAtom(r io.ReadSeeker, remaining int64) (Atom, error) {
	rawID, err := readUintLE(r, 4)
	if err != nil {
		return nil, ioReadErr("read atom id", err)
	}
	rawSize, err := readUintLE(r, 8)
	if err != nil {
		return nil, ioReadErr("read atom size", err)
	}
	size := rawSize &^ atomSizeFlagsMask

	if int64(size) > remaining-12 {
		return nil, formatErrf("read atom body", -1, ErrTruncated)
	}

	id := AtomID(rawID)
	if dec, ok := reg.decoders[id]; ok {
		return dec(r, size)
	}
	return readNullAtom(r, size)
}

func readNullAtom(r io.ReadSeeker, size uint64) (Atom, error) {
	if _, err := r.Seek(int64(size), io.SeekCurrent); err != nil {
		return nil, formatErrf("skip unknown atom", -1, ErrStreamIO)
	}
	return NullAtom{Size: size}, nil
}
