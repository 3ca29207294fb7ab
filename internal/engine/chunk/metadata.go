package chunk

const (
	MinLight = 0
	MaxLight = 15
)

// Metadata carries the per-chunk bookkeeping that travels with the block
// array. HeightMap always holds exactly Area entries; the validate package
// rejects anything else at the boundary.
type Metadata struct {
	Biome      string
	LightLevel int
	IsModified bool
	// LastUpdate is a per-chunk monotonic logical clock, not wall time.
	LastUpdate uint64
	HeightMap  []int32

	GenerationVersion int
	Features          []string
	StructureRefs     map[string][]string

	// Optimizations is an append-only audit log; applying a strategy always
	// appends, even when the content was already in optimal form.
	Optimizations []Record
}

// Record is one entry of the optimization audit log.
type Record struct {
	ID   string
	Kind string
	Tick uint64
	// Remap holds the defragmentation id table so the block-type registry
	// can reverse the mapping.
	Remap []IDRemap
	Note  string
}

// IDRemap maps one original block id to its defragmented id.
type IDRemap struct {
	From uint16
	To   uint16
}

// DefaultMetadata is the state of a freshly constructed chunk.
func DefaultMetadata() Metadata {
	return Metadata{
		Biome:             "PLAINS",
		LightLevel:        MaxLight,
		HeightMap:         make([]int32, Area),
		GenerationVersion: 1,
	}
}

// AppendRecord returns m with r appended, without aliasing the input log
// slice (the log of an older chunk value must never grow under its owner).
func AppendRecord(m Metadata, r Record) Metadata {
	log := make([]Record, len(m.Optimizations)+1)
	copy(log, m.Optimizations)
	log[len(log)-1] = r
	m.Optimizations = log
	return m
}
