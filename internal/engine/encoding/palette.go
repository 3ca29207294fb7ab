package encoding

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"sort"
)

// bitsFor is the index width for a palette of k entries. A single-entry
// palette needs no index stream at all.
func bitsFor(k int) uint {
	if k <= 1 {
		return 0
	}
	bits := uint(1)
	for 1<<bits < k {
		bits++
	}
	return bits
}

// EncodePalette builds a dictionary of the distinct ids present (ascending)
// and re-encodes the array as bit-packed indices into it. Lossless; per-cell
// width shrinks to ceil(log2(k)) bits for k distinct ids.
func EncodePalette(ids []uint16) []byte {
	present := make(map[uint16]struct{})
	for _, id := range ids {
		present[id] = struct{}{}
	}
	palette := make([]uint16, 0, len(present))
	for id := range present {
		palette = append(palette, id)
	}
	sort.Slice(palette, func(i, j int) bool { return palette[i] < palette[j] })

	index := make(map[uint16]uint64, len(palette))
	for i, id := range palette {
		index[id] = uint64(i)
	}

	var buf bytes.Buffer
	var tmp [binary.MaxVarintLen64]byte
	n := binary.PutUvarint(tmp[:], uint64(len(ids)))
	buf.Write(tmp[:n])
	n = binary.PutUvarint(tmp[:], uint64(len(palette)))
	buf.Write(tmp[:n])
	for _, id := range palette {
		n = binary.PutUvarint(tmp[:], uint64(id))
		buf.Write(tmp[:n])
	}

	width := bitsFor(len(palette))
	if width == 0 {
		return buf.Bytes()
	}

	var acc uint64
	var nbits uint
	for _, id := range ids {
		acc |= index[id] << nbits
		nbits += width
		for nbits >= 8 {
			buf.WriteByte(byte(acc))
			acc >>= 8
			nbits -= 8
		}
	}
	if nbits > 0 {
		buf.WriteByte(byte(acc))
	}
	return buf.Bytes()
}

// DecodePalette inverts EncodePalette.
func DecodePalette(raw []byte) ([]uint16, error) {
	count, off := binary.Uvarint(raw)
	if off <= 0 {
		return nil, fmt.Errorf("bad varint at 0")
	}
	k, n := binary.Uvarint(raw[off:])
	if n <= 0 {
		return nil, fmt.Errorf("bad varint at %d", off)
	}
	off += n

	palette := make([]uint16, 0, k)
	for i := uint64(0); i < k; i++ {
		id, n := binary.Uvarint(raw[off:])
		if n <= 0 {
			return nil, fmt.Errorf("bad varint at %d", off)
		}
		if id > 0xFFFF {
			return nil, fmt.Errorf("block id too large: %d", id)
		}
		off += n
		palette = append(palette, uint16(id))
	}

	if count == 0 {
		return []uint16{}, nil
	}
	if k == 0 {
		return nil, fmt.Errorf("empty palette for %d cells", count)
	}

	out := make([]uint16, 0, count)
	width := bitsFor(int(k))
	if width == 0 {
		for i := uint64(0); i < count; i++ {
			out = append(out, palette[0])
		}
		return out, nil
	}

	var acc uint64
	var nbits uint
	mask := uint64(1)<<width - 1
	for uint64(len(out)) < count {
		for nbits < width {
			if off >= len(raw) {
				return nil, fmt.Errorf("truncated index stream at %d", off)
			}
			acc |= uint64(raw[off]) << nbits
			nbits += 8
			off++
		}
		idx := acc & mask
		acc >>= width
		nbits -= width
		if idx >= k {
			return nil, fmt.Errorf("palette index out of range: %d", idx)
		}
		out = append(out, palette[idx])
	}
	return out, nil
}
