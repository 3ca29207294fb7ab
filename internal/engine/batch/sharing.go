package batch

import "chunkforge.dev/internal/engine/chunk"

func sameU16(a, b []uint16) bool {
	if len(a) != len(b) {
		return false
	}
	return len(a) == 0 || &a[0] == &b[0]
}

func sameI32(a, b []int32) bool {
	if len(a) != len(b) {
		return false
	}
	return len(a) == 0 || &a[0] == &b[0]
}

// SharesStorage reports whether two chunk values alias the same block and
// height buffers.
func SharesStorage(a, b chunk.Data) bool {
	return sameU16(a.Blocks, b.Blocks) && sameI32(a.Meta.HeightMap, b.Meta.HeightMap)
}

// CopyOnWrite runs f and returns the input by reference when f produced a
// value that still aliases the input's storage with unchanged bookkeeping,
// collapsing update chains that turned out to be no-ops.
func CopyOnWrite(d chunk.Data, f func(chunk.Data) chunk.Data) chunk.Data {
	out := f(d)
	if SharesStorage(out, d) && out.Dirty == d.Dirty && out.Meta.LastUpdate == d.Meta.LastUpdate {
		return d
	}
	return out
}

// Patch is a targeted partial update; nil fields are left alone.
type Patch struct {
	Biome      *string
	LightLevel *int
	Blocks     []uint16
	HeightMap  []int32
}

func (p Patch) Empty() bool {
	return p.Biome == nil && p.LightLevel == nil && p.Blocks == nil && p.HeightMap == nil
}

// Merge applies a patch, allocating a new chunk value only when the patch is
// non-empty.
func Merge(d chunk.Data, p Patch) chunk.Data {
	if p.Empty() {
		return d
	}
	meta := d.Meta
	if p.Biome != nil {
		meta.Biome = *p.Biome
	}
	if p.LightLevel != nil {
		meta.LightLevel = *p.LightLevel
	}
	if p.HeightMap != nil {
		meta.HeightMap = p.HeightMap
	}
	d.Meta = meta
	if p.Blocks != nil {
		d.Blocks = p.Blocks
	}
	return chunk.Touch(d)
}
