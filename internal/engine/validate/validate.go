package validate

import (
	"math"

	"chunkforge.dev/internal/engine/chunk"
)

// Position rejects chunk-grid coordinates outside the 32-bit signed range.
// Raw int64 input so the boundary can check values before narrowing.
func Position(x, z int64) error {
	if x < math.MinInt32 || x > math.MaxInt32 {
		return errf(ErrBadPosition, "x", "outside int32 range: %d", x)
	}
	if z < math.MinInt32 || z > math.MaxInt32 {
		return errf(ErrBadPosition, "z", "outside int32 range: %d", z)
	}
	return nil
}

// Blocks rejects a block array that is missing or not exactly chunk.Volume
// cells. Never truncates.
func Blocks(blocks []uint16) error {
	if blocks == nil {
		return errf(ErrBadData, "blocks", "missing block array")
	}
	if len(blocks) != chunk.Volume {
		return errf(ErrBadData, "blocks", "length %d, want %d", len(blocks), chunk.Volume)
	}
	return nil
}

// Metadata enforces the chunk.Metadata invariants.
func Metadata(m chunk.Metadata) error {
	if m.Biome == "" {
		return errf(ErrBadMetadata, "biome", "empty biome tag")
	}
	if m.LightLevel < chunk.MinLight || m.LightLevel > chunk.MaxLight {
		return errf(ErrBadMetadata, "light_level", "%d outside [%d,%d]", m.LightLevel, chunk.MinLight, chunk.MaxLight)
	}
	if len(m.HeightMap) != chunk.Area {
		return errf(ErrBadMetadata, "height_map", "length %d, want %d", len(m.HeightMap), chunk.Area)
	}
	for i, h := range m.HeightMap {
		if h < chunk.MinY || h > chunk.MaxY {
			return errf(ErrBadMetadata, "height_map", "entry %d = %d outside [%d,%d]", i, h, chunk.MinY, chunk.MaxY)
		}
	}
	if m.GenerationVersion < 0 {
		return errf(ErrBadMetadata, "generation_version", "negative: %d", m.GenerationVersion)
	}
	return nil
}

// Integrity accepts a chunk only when its shape, position, block array, and
// metadata are all individually valid.
func Integrity(d chunk.Data) error {
	if d.ID != chunk.IDFor(d.Pos) {
		return errf(ErrBadShape, "id", "%q does not match position (%d,%d)", d.ID, d.Pos.X, d.Pos.Z)
	}
	if err := Position(int64(d.Pos.X), int64(d.Pos.Z)); err != nil {
		return err
	}
	if err := Blocks(d.Blocks); err != nil {
		return err
	}
	if err := Metadata(d.Meta); err != nil {
		return err
	}
	return nil
}

// Checksum verifies the sha256 digest of the raw block bytes against the
// digest an untrusted source claimed.
func Checksum(blocks []uint16, want [32]byte) error {
	if got := chunk.BlocksDigest(blocks); got != want {
		return errf(ErrBadChecksum, "blocks", "digest mismatch")
	}
	return nil
}

// ChunkBounds rejects a local coordinate triple outside the chunk.
func ChunkBounds(x, y, z int) error {
	if x < 0 || x >= chunk.Size {
		return errf(ErrBadBounds, "x", "%d outside [0,%d)", x, chunk.Size)
	}
	if y < chunk.MinY || y > chunk.MaxY {
		return errf(ErrBadBounds, "y", "%d outside [%d,%d]", y, chunk.MinY, chunk.MaxY)
	}
	if z < 0 || z >= chunk.Size {
		return errf(ErrBadBounds, "z", "%d outside [0,%d)", z, chunk.Size)
	}
	return nil
}
