package optimize

import "chunkforge.dev/internal/engine/tuning"

// Suggest maps metrics to strategies. Pure: same metrics and thresholds,
// same suggestions. High redundancy always surfaces both the memory and the
// redundancy-elimination strategies.
func Suggest(m Metrics, cfg tuning.Optimizer) []Strategy {
	var out []Strategy

	if m.Redundancy >= cfg.HighRedundancy {
		out = append(out, Memory(), RedundancyElimination(cfg.DefaultElimination))
	}

	if m.CompressionRatio >= cfg.GoodCompression {
		algo := AlgoRLE
		if len(m.AccessPatterns) > 0 && len(m.AccessPatterns) <= cfg.PaletteMaxDistinct {
			algo = AlgoPalette
		}
		out = append(out, Compression(algo))
	}

	if len(m.AccessPatterns) >= cfg.AccessMinDistinct {
		out = append(out, Access(m.AccessPatterns))
	}

	if m.OptimizationPotential >= cfg.DefragPotential {
		out = append(out, Defragmentation())
	}

	return out
}
