package optimize

// Kind discriminates the closed set of strategy variants.
type Kind string

const (
	KindMemory      Kind = "MEMORY"
	KindCompression Kind = "COMPRESSION"
	KindAccess      Kind = "ACCESS"
	KindRedundancy  Kind = "REDUNDANCY_ELIMINATION"
	KindDefrag      Kind = "DEFRAGMENTATION"
)

// Algorithm selects the codec of a compression strategy.
type Algorithm string

const (
	AlgoRLE     Algorithm = "RLE"
	AlgoDelta   Algorithm = "DELTA"
	AlgoPalette Algorithm = "PALETTE"
)

// Strategy is a tagged union: Kind selects which payload field applies.
type Strategy struct {
	Kind Kind
	// Algorithm applies to KindCompression.
	Algorithm Algorithm
	// Patterns applies to KindAccess.
	Patterns []AccessPattern
	// Threshold applies to KindRedundancy: the dominance fraction in (0,1].
	Threshold float64
}

func Memory() Strategy                        { return Strategy{Kind: KindMemory} }
func Compression(a Algorithm) Strategy        { return Strategy{Kind: KindCompression, Algorithm: a} }
func Access(p []AccessPattern) Strategy       { return Strategy{Kind: KindAccess, Patterns: p} }
func RedundancyElimination(t float64) Strategy { return Strategy{Kind: KindRedundancy, Threshold: t} }
func Defragmentation() Strategy               { return Strategy{Kind: KindDefrag} }
