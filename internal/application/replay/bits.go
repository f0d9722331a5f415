package replay

import (
	"encoding/binary"
	"io"
	"math"
	"math/bits"
)

// exponentOfTwo returns the floor of log2(n), clamped to [0, 15]. It
// returns 0 for n == 0 by convention (mirrors util::exponentOfTwo in the
// reference implementation, which treats the zero case the same way).
func exponentOfTwo(n uint64) int {
	if n == 0 {
		return 0
	}
	e := 63 - bits.LeadingZeros64(n)
	if e > 15 {
		e = 15
	}
	return e
}

// largestPowerOfTwo returns the largest power of two <= n, or 0 if n == 0.
func largestPowerOfTwo(n uint64) uint64 {
	if n == 0 {
		return 0
	}
	return 1 << uint(exponentOfTwo(n))
}

// widthForSizeCode converts a 2-bit delta_size_code into its byte width.
func widthForSizeCode(code uint8) int {
	return 1 << uint(code)
}

// readUintLE reads a little-endian unsigned integer of the given byte
// width (1, 2, 4, or 8) from r.
func readUintLE(r io.Reader, width int) (uint64, error) {
	var buf [8]byte
	if _, err := io.ReadFull(r, buf[:width]); err != nil {
		return 0, err
	}
	switch width {
	case 1:
		return uint64(buf[0]), nil
	case 2:
		return uint64(binary.LittleEndian.Uint16(buf[:2])), nil
	case 4:
		return uint64(binary.LittleEndian.Uint32(buf[:4])), nil
	case 8:
		return binary.LittleEndian.Uint64(buf[:8]), nil
	default:
		panic("replay: invalid width")
	}
}

// writeUintLE writes the low `width` bytes of v, little-endian.
func writeUintLE(w io.Writer, v uint64, width int) error {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], v)
	_, err := w.Write(buf[:width])
	return err
}

func readUint16LE(r io.Reader) (uint16, error) {
	v, err := readUintLE(r, 2)
	return uint16(v), err
}

func readUint64LE(r io.Reader) (uint64, error) {
	return readUintLE(r, 8)
}

func readFloat64LE(r io.Reader) (float64, error) {
	v, err := readUintLE(r, 8)
	if err != nil {
		return 0, err
	}
	return math.Float64frombits(v), nil
}

func writeFloat64LE(w io.Writer, v float64) error {
	return writeUintLE(w, math.Float64bits(v), 8)
}
