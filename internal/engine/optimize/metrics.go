package optimize

import (
	"sort"

	"chunkforge.dev/internal/engine/batch"
	"chunkforge.dev/internal/engine/chunk"
)

// metadataOverheadBytes is a fixed estimate for everything outside the two
// big arrays.
const metadataOverheadBytes = 512

// AccessPattern is one distinct block id with its observed frequency.
type AccessPattern struct {
	ID        uint16
	Count     int
	Frequency float64
}

// Metrics quantifies a chunk's storage efficiency.
type Metrics struct {
	// MemoryUsage is the byte size of blocks + height map + a fixed
	// metadata overhead estimate.
	MemoryUsage int
	// Redundancy is 1 - distinct/total, in [0,1]. A single-id chunk is ~1.
	Redundancy float64
	// CompressionRatio is the estimated compressibility, >= 1.
	CompressionRatio float64
	// OptimizationPotential is a combined priority score in [0,1].
	OptimizationPotential float64
	// AccessPatterns lists every distinct id, ascending by id.
	AccessPatterns []AccessPattern
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// AnalyzeEfficiency scans the chunk once and derives the metrics the
// suggestion mapping and the telemetry collaborator consume.
func AnalyzeEfficiency(d chunk.Data) Metrics {
	st := batch.ComputeBlockStats(d)

	m := Metrics{
		MemoryUsage: len(d.Blocks)*2 + len(d.Meta.HeightMap)*4 + metadataOverheadBytes,
	}
	if st.Total == 0 {
		m.CompressionRatio = 1
		return m
	}

	m.Redundancy = 1 - float64(st.Distinct)/float64(st.Total)

	// Higher redundancy and fewer distinct ids both raise the estimate.
	// 1 (incompressible) up to 9 (one id everywhere).
	distinctPenalty := float64(st.Distinct) / float64(st.Total)
	m.CompressionRatio = 1 + m.Redundancy*8*(1-distinctPenalty)

	m.OptimizationPotential = clamp01(0.6*m.Redundancy + 0.4*(m.CompressionRatio-1)/8)

	m.AccessPatterns = make([]AccessPattern, 0, st.Distinct)
	for id, n := range st.Histogram {
		m.AccessPatterns = append(m.AccessPatterns, AccessPattern{
			ID:        id,
			Count:     n,
			Frequency: float64(n) / float64(st.Total),
		})
	}
	sort.Slice(m.AccessPatterns, func(i, j int) bool {
		return m.AccessPatterns[i].ID < m.AccessPatterns[j].ID
	})
	return m
}
