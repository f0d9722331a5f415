package replay

import "io"

// metadataSize is the fixed on-wire size of Metadata, reserved bytes
// included. Replay.Decode rejects any header whose meta_size field
// doesn't match this.
const metadataSize = 64

const metadataReservedBytes = 40

// Metadata is the Replay container's fixed 64-byte header block: a
// playback speed, the RNG seed the recording started from, two opaque
// version/build fields, and zero-padded reserved space for future use.
type Metadata struct {
	TPS     float64
	Seed    uint64
	Version uint32
	Build   uint32
}

func (m Metadata) write(w io.Writer) error {
	if err := writeFloat64LE(w, m.TPS); err != nil {
		return formatErrf("write metadata tps", -1, ErrStreamIO)
	}
	if err := writeUintLE(w, m.Seed, 8); err != nil {
		return formatErrf("write metadata seed", -1, ErrStreamIO)
	}
	if err := writeUintLE(w, uint64(m.Version), 4); err != nil {
		return formatErrf("write metadata version", -1, ErrStreamIO)
	}
	if err := writeUintLE(w, uint64(m.Build), 4); err != nil {
		return formatErrf("write metadata build", -1, ErrStreamIO)
	}

	var reserved [metadataReservedBytes]byte
	if _, err := w.Write(reserved[:]); err != nil {
		return formatErrf("write metadata reserved", -1, ErrStreamIO)
	}
	return nil
}

func readMetadata(r io.Reader) (Metadata, error) {
	var m Metadata

	tps, err := readFloat64LE(r)
	if err != nil {
		return Metadata{}, ioReadErr("read metadata tps", err)
	}
	m.TPS = tps

	seed, err := readUintLE(r, 8)
	if err != nil {
		return Metadata{}, ioReadErr("read metadata seed", err)
	}
	m.Seed = seed

	version, err := readUintLE(r, 4)
	if err != nil {
		return Metadata{}, ioReadErr("read metadata version", err)
	}
	m.Version = uint32(version)

	build, err := readUintLE(r, 4)
	if err != nil {
		return Metadata{}, ioReadErr("read metadata build", err)
	}
	m.Build = uint32(build)

	var reserved [metadataReservedBytes]byte
	if _, err := io.ReadFull(r, reserved[:]); err != nil {
		return Metadata{}, ioReadErr("read metadata reserved", err)
	}

	return m, nil
}
