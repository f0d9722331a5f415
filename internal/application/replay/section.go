package replay

import (
	"fmt"
	"io"
)

// sectionID is the 2-bit tag at the top of every section header.
type sectionID uint8

const (
	idInput   sectionID = 0
	idRepeat  sectionID = 1
	idSpecial sectionID = 2
	// idReserved (0b11) is not a valid section on the wire; decoding one
	// is a format error.
	idReserved sectionID = 3
)

// specialKind is the 4-bit payload discriminator carried by a Special
// section header.
type specialKind uint8

const (
	specialRestart     specialKind = 0
	specialRestartFull specialKind = 1
	specialDeath       specialKind = 2
	specialTPS         specialKind = 3
)

// section is the internal, on-wire tagged union produced by the packer
// and consumed by the decoder. Callers never see this type.
type section struct {
	id        sectionID
	deltaSize uint8 // 0..3, meaning byte widths 1/2/4/8
	countExp  uint8 // Input/Repeat: log2(count), count <= 2^15
	repeatsExp uint8 // Repeat only: log2(repeats), repeats >= 2

	inputs []playerInput // Input/Repeat payload

	specialType  specialKind // Special only
	specialDelta uint64      // Special only: the frame delta, pre-width-selection
	seed         uint64      // Special: Restart/RestartFull/Death payload
	tps          float64     // Special: TPS payload
}

var clusterSizes = [...]int{1, 2, 4, 8, 16, 32, 64}

// newSpecialSection builds the Special section for a single non-player
// Action.
func newSpecialSection(a Action) (section, error) {
	s := section{
		id:           idSpecial,
		deltaSize:    a.minimumSizeCode(),
		specialDelta: a.Delta,
	}

	switch a.Type {
	case ActionTPS:
		if a.TPS <= 0 {
			return section{}, fmt.Errorf("slc3: TPS action must have positive tps: %w", ErrInvalidArgument)
		}
		s.specialType = specialTPS
		s.tps = a.TPS
	case ActionRestart, ActionRestartFull, ActionDeath:
		s.specialType = specialKind(a.Type - ActionRestart)
		s.seed = a.Seed
	default:
		return section{}, fmt.Errorf("slc3: action type %d cannot form a special section: %w", a.Type, ErrInvalidArgument)
	}

	return s, nil
}

// swiftCompatible reports whether actions[i] is the release half of a
// swift pair whose press half is actions[i-1].
func swiftCompatible(actions []Action, i int) bool {
	return actions[i].Delta == 0 &&
		!actions[i].Holding &&
		actions[i-1].Holding != actions[i].Holding &&
		actions[i-1].Player2 == actions[i].Player2 &&
		actions[i-1].Type == actions[i].Type &&
		actions[i].Type == ActionJump
}

// packSections walks an ordered action slice and produces the section
// sequence describing it, per §4.3.1 of the format spec. It mutates
// actions in place to mark swift-pair members.
func packSections(actions []Action) ([]section, error) {
	var out []section

	n := len(actions)
	i := 0
	for i < n {
		if !actions[i].IsPlayer() {
			s, err := newSpecialSection(actions[i])
			if err != nil {
				return nil, err
			}
			out = append(out, s)
			i++
			continue
		}

		start := i
		minSize := actions[i].minimumSizeCode()

		pureCount := uint32(1)
		swifts := uint32(0)
		pureSwifts := uint32(0)

		for i+1 < n && pureCount < (1<<16) &&
			actions[i+1].IsPlayer() && actions[i+1].minimumSizeCode() == minSize {
			i++

			if swiftCompatible(actions, i) {
				actions[i-1].Swift = true
				actions[i].Swift = true
				swifts++
			} else {
				pureCount++
			}

			if largestPowerOfTwo(uint64(pureCount)) == uint64(pureCount) {
				pureSwifts = swifts
			}
		}

		runCount := largestPowerOfTwo(uint64(pureCount))
		end := start + int(runCount) + int(pureSwifts)

		candidate := buildInputCandidate(actions[start:end], minSize)
		out = append(out, runLengthEncode(candidate)...)

		i = end
	}

	return out, nil
}

// buildInputCandidate turns a raw action run into a single (pre-RLE)
// Input section: one PlayerInput per pure action, one PlayerInput (tagged
// buttonSwift) per swift pair, skipping the release half of each pair.
func buildInputCandidate(run []Action, deltaSize uint8) section {
	s := section{id: idInput, deltaSize: deltaSize}

	for _, a := range run {
		if a.Swift && !a.Holding {
			continue
		}
		s.inputs = append(s.inputs, playerInputFromAction(a))
	}

	s.countExp = uint8(exponentOfTwo(uint64(len(s.inputs))))
	return s
}

func weakEqRun(inputs []playerInput, base, other, c int) bool {
	for k := 0; k < c; k++ {
		if !inputs[base+k].weakEq(inputs[other+k]) {
			return false
		}
	}
	return true
}

// runLengthEncode splits a candidate Input section into a mixture of
// Input and Repeat sections, per §4.3.2/4.3.3.
func runLengthEncode(candidate section) []section {
	m := len(candidate.inputs)

	var out []section
	var free []playerInput

	idx := 0
	for idx < m {
		bestScore := 0
		bestCluster := 0
		bestRepeats := 0

		for _, c := range clusterSizes {
			// Room for at least two full clusters must remain, or this
			// and every larger cluster size is a non-starter.
			if idx+2*c-1 >= m {
				break
			}

			j := 1
			for idx+c*(j+1) <= m && j < (1<<16) {
				if !weakEqRun(candidate.inputs, idx, idx+c*j, c) {
					break
				}
				j++
			}

			repeats := int(largestPowerOfTwo(uint64(j)))
			if repeats <= 1 {
				continue
			}

			score := c * (repeats - 1)
			if score > bestScore {
				bestScore = score
				bestCluster = c
				bestRepeats = repeats
			}
		}

		if bestScore > 0 {
			out = append(out, flushFree(free, candidate.deltaSize)...)
			free = nil

			block := make([]playerInput, bestCluster)
			copy(block, candidate.inputs[idx:idx+bestCluster])

			out = append(out, section{
				id:         idRepeat,
				deltaSize:  candidate.deltaSize,
				countExp:   uint8(exponentOfTwo(uint64(bestCluster))),
				repeatsExp: uint8(exponentOfTwo(uint64(bestRepeats))),
				inputs:     block,
			})

			idx += bestCluster * bestRepeats
		} else {
			free = append(free, candidate.inputs[idx])
			idx++
		}
	}

	out = append(out, flushFree(free, candidate.deltaSize)...)
	return out
}

// flushFree splits a buffer of unrepeated inputs into power-of-two-sized
// Input sections, per §4.3.3.
func flushFree(free []playerInput, deltaSize uint8) []section {
	var out []section

	off := 0
	for off < len(free) {
		p := int(largestPowerOfTwo(uint64(len(free) - off)))

		block := make([]playerInput, p)
		copy(block, free[off:off+p])

		out = append(out, section{
			id:        idInput,
			deltaSize: deltaSize,
			countExp:  uint8(exponentOfTwo(uint64(p))),
			inputs:    block,
		})

		off += p
	}

	return out
}

// write serializes one section to w.
func (s section) write(w io.Writer) error {
	width := widthForSizeCode(s.deltaSize)

	switch s.id {
	case idInput:
		header := uint16(s.countExp)<<8 | uint16(s.deltaSize)<<12
		if err := writeUintLE(w, uint64(header), 2); err != nil {
			return formatErrf("write input section header", -1, ErrStreamIO)
		}
		for _, p := range s.inputs {
			if err := writeUintLE(w, p.prepareState(width), width); err != nil {
				return formatErrf("write input section payload", -1, ErrStreamIO)
			}
		}

	case idRepeat:
		header := uint16(idRepeat)<<14 | uint16(s.deltaSize)<<12 | uint16(s.countExp)<<8 | uint16(s.repeatsExp)<<3
		if err := writeUintLE(w, uint64(header), 2); err != nil {
			return formatErrf("write repeat section header", -1, ErrStreamIO)
		}
		for _, p := range s.inputs {
			if err := writeUintLE(w, p.prepareState(width), width); err != nil {
				return formatErrf("write repeat section payload", -1, ErrStreamIO)
			}
		}

	case idSpecial:
		header := uint16(idSpecial)<<14 | uint16(s.specialType)<<10 | uint16(s.deltaSize)<<8
		if err := writeUintLE(w, uint64(header), 2); err != nil {
			return formatErrf("write special section header", -1, ErrStreamIO)
		}
		if err := writeUintLE(w, s.specialDelta, width); err != nil {
			return formatErrf("write special section delta", -1, ErrStreamIO)
		}

		switch s.specialType {
		case specialRestart, specialRestartFull, specialDeath:
			if err := writeUintLE(w, s.seed, 8); err != nil {
				return formatErrf("write special section seed", -1, ErrStreamIO)
			}
		case specialTPS:
			if err := writeFloat64LE(w, s.tps); err != nil {
				return formatErrf("write special section tps", -1, ErrStreamIO)
			}
		}
	}

	return nil
}

// decodeSection reads one section from r and appends the actions it
// represents to *actions.
func decodeSection(r io.Reader, actions *[]Action) error {
	header, err := readUint16LE(r)
	if err != nil {
		return ioReadErr("read section header", err)
	}

	switch sectionID(header >> 14) {
	case idInput:
		deltaSize := uint8((header >> 12) & 0b11)
		countExp := uint8((header >> 8) & 0b1111)
		return decodeInput(r, actions, deltaSize, countExp)

	case idRepeat:
		deltaSize := uint8((header >> 12) & 0b11)
		countExp := uint8((header >> 8) & 0b1111)
		repeatsExp := uint8((header >> 3) & 0b11111)
		return decodeRepeat(r, actions, deltaSize, countExp, repeatsExp)

	case idSpecial:
		specialType := specialKind((header >> 10) & 0b1111)
		deltaSize := uint8((header >> 8) & 0b11)
		return decodeSpecial(r, actions, deltaSize, specialType)

	default:
		return formatErrf("decode section header", -1, ErrInvalidSection)
	}
}

func lastFrame(actions []Action) uint64 {
	if len(actions) == 0 {
		return 0
	}
	return actions[len(actions)-1].Frame
}

// appendPlayerInput appends the action(s) a single decoded PlayerInput
// represents, expanding a buttonSwift record into its press/release pair.
func appendPlayerInput(actions *[]Action, p playerInput, previousFrame uint64) {
	if p.button == buttonSwift {
		press := NewPlayerAction(previousFrame, p.delta, ActionJump, true, p.player2)
		press.Swift = true
		*actions = append(*actions, press)

		release := NewPlayerAction(press.Frame, 0, ActionJump, false, p.player2)
		release.Swift = true
		*actions = append(*actions, release)
		return
	}

	*actions = append(*actions, NewPlayerAction(previousFrame, p.delta, ActionType(p.button), p.holding, p.player2))
}

func decodeInput(r io.Reader, actions *[]Action, deltaSize, countExp uint8) error {
	width := widthForSizeCode(deltaSize)
	count := uint64(1) << countExp

	for k := uint64(0); k < count; k++ {
		state, err := readUintLE(r, width)
		if err != nil {
			return ioReadErr("read input section payload", err)
		}
		p := playerInputFromState(lastFrame(*actions), state)
		appendPlayerInput(actions, p, lastFrame(*actions))
	}
	return nil
}

func decodeRepeat(r io.Reader, actions *[]Action, deltaSize, countExp, repeatsExp uint8) error {
	width := widthForSizeCode(deltaSize)
	count := uint64(1) << countExp
	repeats := uint64(1) << repeatsExp

	block := make([]playerInput, 0, count)
	for k := uint64(0); k < count; k++ {
		state, err := readUintLE(r, width)
		if err != nil {
			return ioReadErr("read repeat section payload", err)
		}
		blockPrev := uint64(0)
		if len(block) > 0 {
			blockPrev = block[len(block)-1].frame
		}
		block = append(block, playerInputFromState(blockPrev, state))
	}

	for rep := uint64(0); rep < repeats; rep++ {
		for _, p := range block {
			appendPlayerInput(actions, p, lastFrame(*actions))
		}
	}
	return nil
}

func decodeSpecial(r io.Reader, actions *[]Action, deltaSize uint8, kind specialKind) error {
	width := widthForSizeCode(deltaSize)
	frameDelta, err := readUintLE(r, width)
	if err != nil {
		return ioReadErr("read special section delta", err)
	}

	previousFrame := lastFrame(*actions)

	switch kind {
	case specialRestart, specialRestartFull, specialDeath:
		seed, err := readUint64LE(r)
		if err != nil {
			return ioReadErr("read special section seed", err)
		}
		*actions = append(*actions, NewDeathAction(previousFrame, frameDelta, ActionRestart+ActionType(kind), seed))

	case specialTPS:
		tps, err := readFloat64LE(r)
		if err != nil {
			return ioReadErr("read special section tps", err)
		}
		*actions = append(*actions, NewTPSAction(previousFrame, frameDelta, tps))

	default:
		return formatErrf("decode special section", -1, ErrInvalidSection)
	}

	return nil
}
