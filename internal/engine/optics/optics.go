package optics

import "chunkforge.dev/internal/engine/chunk"

// Lens pairs a read with an immutable replace over a chunk value. Get never
// fails: out-of-range indexed lenses read the zero value. Replace allocates
// only along the touched path and shares every untouched buffer with its
// input; indexed lenses treat out-of-range and same-value writes as no-ops
// and return the input value as-is.
//
// Content lenses (blocks, height map, metadata fields) also run the dirty
// bookkeeping of chunk.Touch, so a chunk can never hold changed content with
// a clean flag.
type Lens[A any] struct {
	Get     func(chunk.Data) A
	Replace func(A, chunk.Data) chunk.Data
}

// Modify reads through l, applies f, and writes the result back.
func Modify[A any](l Lens[A], f func(A) A, d chunk.Data) chunk.Data {
	return l.Replace(f(l.Get(d)), d)
}

// MetaLens focuses a field inside Metadata. ThroughMetadata lifts it to a
// chunk lens, so nested access composes without materializing anything
// beyond the one rebuilt metadata value.
type MetaLens[A any] struct {
	Get     func(chunk.Metadata) A
	Replace func(A, chunk.Metadata) chunk.Metadata
}

// ThroughMetadata composes the metadata lens with an inner field lens.
func ThroughMetadata[A any](l MetaLens[A]) Lens[A] {
	return Lens[A]{
		Get: func(d chunk.Data) A { return l.Get(d.Meta) },
		Replace: func(a A, d chunk.Data) chunk.Data {
			d.Meta = l.Replace(a, d.Meta)
			return chunk.Touch(d)
		},
	}
}

// Blocks addresses the whole block array. The caller owns the slice it
// passes in; Replace stores it without copying.
func Blocks() Lens[[]uint16] {
	return Lens[[]uint16]{
		Get: func(d chunk.Data) []uint16 { return d.Blocks },
		Replace: func(v []uint16, d chunk.Data) chunk.Data {
			d.Blocks = v
			return chunk.Touch(d)
		},
	}
}

// Metadata addresses the whole metadata value.
func Metadata() Lens[chunk.Metadata] {
	return Lens[chunk.Metadata]{
		Get: func(d chunk.Data) chunk.Metadata { return d.Meta },
		Replace: func(m chunk.Metadata, d chunk.Data) chunk.Data {
			d.Meta = m
			return chunk.Touch(d)
		},
	}
}

// Dirty addresses the dirty flag itself; it is bookkeeping, not content, so
// Replace does not re-touch.
func Dirty() Lens[bool] {
	return Lens[bool]{
		Get: func(d chunk.Data) bool { return d.Dirty },
		Replace: func(v bool, d chunk.Data) chunk.Data {
			d.Dirty = v
			return d
		},
	}
}

func Biome() Lens[string] {
	return ThroughMetadata(MetaLens[string]{
		Get: func(m chunk.Metadata) string { return m.Biome },
		Replace: func(v string, m chunk.Metadata) chunk.Metadata {
			m.Biome = v
			return m
		},
	})
}

func LightLevel() Lens[int] {
	return ThroughMetadata(MetaLens[int]{
		Get: func(m chunk.Metadata) int { return m.LightLevel },
		Replace: func(v int, m chunk.Metadata) chunk.Metadata {
			m.LightLevel = v
			return m
		},
	})
}

func HeightMap() Lens[[]int32] {
	return ThroughMetadata(MetaLens[[]int32]{
		Get: func(m chunk.Metadata) []int32 { return m.HeightMap },
		Replace: func(v []int32, m chunk.Metadata) chunk.Metadata {
			m.HeightMap = v
			return m
		},
	})
}

// BlockAt addresses one cell of the block array. Get returns Air out of
// range; Replace treats out-of-range and same-value writes as no-ops.
func BlockAt(i int) Lens[uint16] {
	return Lens[uint16]{
		Get: func(d chunk.Data) uint16 { return d.BlockAt(i) },
		Replace: func(id uint16, d chunk.Data) chunk.Data {
			if i < 0 || i >= len(d.Blocks) || d.Blocks[i] == id {
				return d
			}
			blocks := make([]uint16, len(d.Blocks))
			copy(blocks, d.Blocks)
			blocks[i] = id
			d.Blocks = blocks
			return chunk.Touch(d)
		},
	}
}

// HeightAt addresses one height-map column by flat column index.
func HeightAt(i int) Lens[int32] {
	return Lens[int32]{
		Get: func(d chunk.Data) int32 {
			if i < 0 || i >= len(d.Meta.HeightMap) {
				return 0
			}
			return d.Meta.HeightMap[i]
		},
		Replace: func(h int32, d chunk.Data) chunk.Data {
			if i < 0 || i >= len(d.Meta.HeightMap) || d.Meta.HeightMap[i] == h {
				return d
			}
			hm := make([]int32, len(d.Meta.HeightMap))
			copy(hm, d.Meta.HeightMap)
			hm[i] = h
			d.Meta.HeightMap = hm
			return chunk.Touch(d)
		},
	}
}
