package tuning

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Tuning collects the heuristic constants of the engine. They are
// configuration, not law: defaults below preserve the qualitative ordering
// the optimizer tests rely on.
type Tuning struct {
	Optimizer  Optimizer  `yaml:"optimizer"`
	StatsCache StatsCache `yaml:"stats_cache"`
	Batch      Batch      `yaml:"batch"`
}

type Optimizer struct {
	// HighRedundancy is the redundancy fraction above which memory and
	// redundancy-elimination strategies are suggested.
	HighRedundancy float64 `yaml:"high_redundancy"`
	// GoodCompression is the estimated ratio above which a compression
	// strategy is suggested.
	GoodCompression float64 `yaml:"good_compression"`
	// PaletteMaxDistinct switches the suggested codec from RLE to palette
	// when the distinct-id count is at most this.
	PaletteMaxDistinct int `yaml:"palette_max_distinct"`
	// DefragPotential is the optimization-potential score above which
	// defragmentation is suggested.
	DefragPotential float64 `yaml:"defrag_potential"`
	// DefaultElimination is the dominance threshold attached to suggested
	// redundancy-elimination strategies.
	DefaultElimination float64 `yaml:"default_elimination"`
	// AccessMinDistinct is the distinct-id count above which an access
	// optimization is suggested.
	AccessMinDistinct int `yaml:"access_min_distinct"`
}

type StatsCache struct {
	TTLMs    int `yaml:"ttl_ms"`
	Capacity int `yaml:"capacity"`
}

type Batch struct {
	MinBatch int `yaml:"min_batch"`
	MaxBatch int `yaml:"max_batch"`
}

func Default() Tuning {
	return Tuning{
		Optimizer: Optimizer{
			HighRedundancy:     0.5,
			GoodCompression:    3.0,
			PaletteMaxDistinct: 256,
			DefragPotential:    0.3,
			DefaultElimination: 0.8,
			AccessMinDistinct:  16,
		},
		StatsCache: StatsCache{
			TTLMs:    30_000,
			Capacity: 128,
		},
		Batch: Batch{
			MinBatch: 64,
			MaxBatch: 512,
		},
	}
}

// Load reads a tuning file over the defaults, so a partial file only
// overrides what it names.
func Load(path string) (Tuning, error) {
	t := Default()
	raw, err := os.ReadFile(path)
	if err != nil {
		return t, err
	}
	if err := yaml.Unmarshal(raw, &t); err != nil {
		return t, fmt.Errorf("tuning.yaml: %w", err)
	}
	return t, nil
}
