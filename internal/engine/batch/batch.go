package batch

import (
	"chunkforge.dev/internal/engine/chunk"
	"chunkforge.dev/internal/engine/optics"
	"chunkforge.dev/internal/engine/tuning"
)

// Update is one logical block edit addressed by flat index.
type Update struct {
	Index int
	ID    uint16
}

// batchSize scales with the update count so a huge edit set folds through a
// bounded number of full-array copies.
func batchSize(n int, cfg tuning.Batch) int {
	lo, hi := cfg.MinBatch, cfg.MaxBatch
	if lo <= 0 {
		lo = 64
	}
	if hi < lo {
		hi = lo
	}
	s := n / 8
	if s < lo {
		return lo
	}
	if s > hi {
		return hi
	}
	return s
}

// applyBatch writes one slice of updates through a single block-array copy.
// Out-of-range indices are skipped; a batch that changes nothing returns the
// input unchanged.
func applyBatch(d chunk.Data, updates []Update) chunk.Data {
	var blocks []uint16
	for _, u := range updates {
		if u.Index < 0 || u.Index >= len(d.Blocks) {
			continue
		}
		cur := d.Blocks[u.Index]
		if blocks == nil {
			if cur == u.ID {
				continue
			}
			blocks = make([]uint16, len(d.Blocks))
			copy(blocks, d.Blocks)
		}
		blocks[u.Index] = u.ID
	}
	if blocks == nil {
		return d
	}
	return optics.Blocks().Replace(blocks, d)
}

// LazyBlockUpdate partitions updates into batches and folds each batch
// through the accessor layer, so at most len(updates)/batchSize full copies
// occur instead of one per update.
func LazyBlockUpdate(d chunk.Data, updates []Update, cfg tuning.Batch) chunk.Data {
	if len(updates) == 0 {
		return d
	}
	size := batchSize(len(updates), cfg)
	for start := 0; start < len(updates); start += size {
		end := start + size
		if end > len(updates) {
			end = len(updates)
		}
		d = applyBatch(d, updates[start:end])
	}
	return d
}

// BatchBlockUpdate deduplicates by index (last write wins) and applies the
// surviving edits through a single copy. Work is O(len(updates)), never
// O(chunk.Volume).
func BatchBlockUpdate(d chunk.Data, updates []Update) chunk.Data {
	if len(updates) == 0 {
		return d
	}
	last := make(map[int]uint16, len(updates))
	order := make([]int, 0, len(updates))
	for _, u := range updates {
		if _, seen := last[u.Index]; !seen {
			order = append(order, u.Index)
		}
		last[u.Index] = u.ID
	}
	dedup := make([]Update, 0, len(order))
	for _, i := range order {
		dedup = append(dedup, Update{Index: i, ID: last[i]})
	}
	return applyBatch(d, dedup)
}

// ConditionalUpdate scans every block once and rewrites the cells where pred
// holds and transform changes the value. An empty change set returns the
// input chunk by reference with no allocation.
func ConditionalUpdate(d chunk.Data, pred func(index int, id uint16) bool, transform func(uint16) uint16) chunk.Data {
	var blocks []uint16
	for i, id := range d.Blocks {
		if !pred(i, id) {
			continue
		}
		nv := transform(id)
		if nv == id {
			continue
		}
		if blocks == nil {
			blocks = make([]uint16, len(d.Blocks))
			copy(blocks, d.Blocks)
		}
		blocks[i] = nv
	}
	if blocks == nil {
		return d
	}
	return optics.Blocks().Replace(blocks, d)
}

// Region is an axis-aligned cuboid in local chunk coordinates: origin plus
// extent.
type Region struct {
	X, Y, Z int
	W, H, D int
}

// RegionCopy copies the region from src into dst, placing the region origin
// at (dstX,dstY,dstZ). Destination cells outside dst's bounds are clipped,
// never an error. Source cells outside src are read as air via the safe
// accessor.
func RegionCopy(src, dst chunk.Data, r Region, dstX, dstY, dstZ int) chunk.Data {
	var blocks []uint16
	for dx := 0; dx < r.W; dx++ {
		for dz := 0; dz < r.D; dz++ {
			for dy := 0; dy < r.H; dy++ {
				si, err := chunk.BlockIndex(r.X+dx, r.Y+dy, r.Z+dz)
				if err != nil {
					continue
				}
				ti, err := chunk.BlockIndex(dstX+dx, dstY+dy, dstZ+dz)
				if err != nil {
					continue // clipped
				}
				v := src.BlockAt(si)
				if blocks == nil {
					if dst.Blocks[ti] == v {
						continue
					}
					blocks = make([]uint16, len(dst.Blocks))
					copy(blocks, dst.Blocks)
				}
				blocks[ti] = v
			}
		}
	}
	if blocks == nil {
		return dst
	}
	return optics.Blocks().Replace(blocks, dst)
}
