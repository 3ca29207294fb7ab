package encoding

import (
	"bytes"
	"encoding/binary"
	"fmt"
)

// EncodeDelta stores the cell count, the first id verbatim, then the signed
// difference of each cell from its predecessor. Lossless; compact when
// neighboring ids cluster numerically.
func EncodeDelta(ids []uint16) []byte {
	var buf bytes.Buffer
	var tmp [binary.MaxVarintLen64]byte

	n := binary.PutUvarint(tmp[:], uint64(len(ids)))
	buf.Write(tmp[:n])
	if len(ids) == 0 {
		return buf.Bytes()
	}

	n = binary.PutUvarint(tmp[:], uint64(ids[0]))
	buf.Write(tmp[:n])
	prev := int64(ids[0])
	for _, id := range ids[1:] {
		n = binary.PutVarint(tmp[:], int64(id)-prev)
		buf.Write(tmp[:n])
		prev = int64(id)
	}
	return buf.Bytes()
}

// DecodeDelta inverts EncodeDelta.
func DecodeDelta(raw []byte) ([]uint16, error) {
	count, off := binary.Uvarint(raw)
	if off <= 0 {
		return nil, fmt.Errorf("bad varint at 0")
	}
	if count == 0 {
		return []uint16{}, nil
	}

	first, n := binary.Uvarint(raw[off:])
	if n <= 0 {
		return nil, fmt.Errorf("bad varint at %d", off)
	}
	if first > 0xFFFF {
		return nil, fmt.Errorf("block id too large: %d", first)
	}
	off += n

	out := make([]uint16, 0, count)
	out = append(out, uint16(first))
	prev := int64(first)
	for uint64(len(out)) < count {
		d, n := binary.Varint(raw[off:])
		if n <= 0 {
			return nil, fmt.Errorf("bad varint at %d", off)
		}
		off += n
		prev += d
		if prev < 0 || prev > 0xFFFF {
			return nil, fmt.Errorf("delta leaves id range at %d: %d", off, prev)
		}
		out = append(out, uint16(prev))
	}
	return out, nil
}
