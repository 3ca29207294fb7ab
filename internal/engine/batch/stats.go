package batch

import (
	"runtime"
	"sync"

	"chunkforge.dev/internal/engine/chunk"
)

// BlockStats summarizes the block-id histogram of one chunk value.
type BlockStats struct {
	Total           int
	Empty           int
	Distinct        int
	MostCommon      uint16
	MostCommonCount int
	// Diversity is distinct ids over total cells, in [0,1].
	Diversity float64
	Histogram map[uint16]int
}

// HeightStats aggregates the height map.
type HeightStats struct {
	Min      int32
	Max      int32
	Mean     float64
	Variance float64
}

func statsFromHistogram(hist map[uint16]int, total int) BlockStats {
	st := BlockStats{
		Total:     total,
		Empty:     hist[chunk.Air],
		Distinct:  len(hist),
		Histogram: hist,
	}
	for id, n := range hist {
		// Ties break toward the smaller id so the result is deterministic.
		if n > st.MostCommonCount || (n == st.MostCommonCount && id < st.MostCommon) {
			st.MostCommon = id
			st.MostCommonCount = n
		}
	}
	if total > 0 {
		st.Diversity = float64(st.Distinct) / float64(total)
	}
	return st
}

// ComputeBlockStats scans the whole block array once.
func ComputeBlockStats(d chunk.Data) BlockStats {
	hist := make(map[uint16]int)
	for _, id := range d.Blocks {
		hist[id]++
	}
	return statsFromHistogram(hist, len(d.Blocks))
}

// ComputeBlockStatsParallel shards the array across workers and merges the
// partial histograms in shard order. Bucket addition commutes, so the result
// is identical to the serial scan regardless of completion order.
func ComputeBlockStatsParallel(d chunk.Data, workers int) BlockStats {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if workers <= 1 || len(d.Blocks) < workers*1024 {
		return ComputeBlockStats(d)
	}

	parts := make([]map[uint16]int, workers)
	shard := (len(d.Blocks) + workers - 1) / workers
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		lo := w * shard
		hi := lo + shard
		if hi > len(d.Blocks) {
			hi = len(d.Blocks)
		}
		if lo >= hi {
			parts[w] = map[uint16]int{}
			continue
		}
		wg.Add(1)
		go func(w, lo, hi int) {
			defer wg.Done()
			hist := make(map[uint16]int)
			for _, id := range d.Blocks[lo:hi] {
				hist[id]++
			}
			parts[w] = hist
		}(w, lo, hi)
	}
	wg.Wait()

	merged := make(map[uint16]int)
	for _, p := range parts {
		for id, n := range p {
			merged[id] += n
		}
	}
	return statsFromHistogram(merged, len(d.Blocks))
}

// ComputeHeightStats aggregates min/max/mean/variance over the height map.
func ComputeHeightStats(d chunk.Data) HeightStats {
	hm := d.Meta.HeightMap
	if len(hm) == 0 {
		return HeightStats{}
	}
	st := HeightStats{Min: hm[0], Max: hm[0]}
	var sum float64
	for _, h := range hm {
		if h < st.Min {
			st.Min = h
		}
		if h > st.Max {
			st.Max = h
		}
		sum += float64(h)
	}
	st.Mean = sum / float64(len(hm))
	var ss float64
	for _, h := range hm {
		dev := float64(h) - st.Mean
		ss += dev * dev
	}
	st.Variance = ss / float64(len(hm))
	return st
}
