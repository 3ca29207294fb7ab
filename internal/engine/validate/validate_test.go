package validate

import (
	"fmt"
	"math"
	"strings"
	"testing"

	"chunkforge.dev/internal/engine/chunk"
)

func TestPosition(t *testing.T) {
	if err := Position(0, 0); err != nil {
		t.Fatalf("origin: %v", err)
	}
	if err := Position(math.MinInt32, math.MaxInt32); err != nil {
		t.Fatalf("int32 extremes must pass: %v", err)
	}
	if err := Position(math.MaxInt32+1, 0); err == nil {
		t.Fatalf("x overflow must fail")
	} else if CodeOf(err) != ErrBadPosition {
		t.Fatalf("code: %q", CodeOf(err))
	}
	if err := Position(0, math.MinInt32-1); err == nil {
		t.Fatalf("z underflow must fail")
	}
}

func TestBlocks(t *testing.T) {
	if err := Blocks(nil); err == nil || CodeOf(err) != ErrBadData {
		t.Fatalf("nil blocks: %v", err)
	}
	if err := Blocks(make([]uint16, chunk.Volume-1)); err == nil {
		t.Fatalf("short array must fail, never truncate")
	}
	if err := Blocks(make([]uint16, chunk.Volume)); err != nil {
		t.Fatalf("exact volume: %v", err)
	}
}

func TestMetadata(t *testing.T) {
	good := chunk.DefaultMetadata()
	if err := Metadata(good); err != nil {
		t.Fatalf("default metadata: %v", err)
	}

	m := good
	m.Biome = ""
	if err := Metadata(m); err == nil || CodeOf(err) != ErrBadMetadata {
		t.Fatalf("empty biome: %v", err)
	}

	m = good
	m.LightLevel = 16
	if err := Metadata(m); err == nil {
		t.Fatalf("light 16 must fail")
	}

	m = good
	m.HeightMap = make([]int32, chunk.Area-1)
	if err := Metadata(m); err == nil {
		t.Fatalf("255-entry height map must be rejected")
	}

	m = good
	m.HeightMap = make([]int32, chunk.Area)
	m.HeightMap[7] = chunk.MaxY + 1
	if err := Metadata(m); err == nil {
		t.Fatalf("out-of-range height must fail")
	}
}

func TestIntegrity(t *testing.T) {
	c := chunk.NewEmpty(chunk.Position{X: 2, Z: -3})
	if err := Integrity(c); err != nil {
		t.Fatalf("fresh chunk: %v", err)
	}

	bad := c
	bad.ID = "chunk_data_0_0"
	if err := Integrity(bad); err == nil || CodeOf(err) != ErrBadShape {
		t.Fatalf("id mismatch: %v", err)
	}

	bad = c
	bad.Blocks = bad.Blocks[:100]
	if err := Integrity(bad); err == nil {
		t.Fatalf("short blocks must fail integrity")
	}

	bad = c
	bad.Meta.Biome = ""
	if err := Integrity(bad); err == nil {
		t.Fatalf("bad metadata must fail integrity")
	}
}

func TestChecksum(t *testing.T) {
	c := chunk.NewEmpty(chunk.Position{})
	c = chunk.SetBlock(c, 44, 3)

	if err := Checksum(c.Blocks, c.Digest()); err != nil {
		t.Fatalf("matching digest: %v", err)
	}

	tampered := chunk.SetBlock(c, 44, 4)
	if err := Checksum(tampered.Blocks, c.Digest()); err == nil || CodeOf(err) != ErrBadChecksum {
		t.Fatalf("tampered blocks: %v", err)
	}
}

func TestChunkBounds(t *testing.T) {
	ok := [][3]int{{0, -64, 0}, {15, 319, 15}, {8, 0, 8}}
	for _, c := range ok {
		if err := ChunkBounds(c[0], c[1], c[2]); err != nil {
			t.Fatalf("ChunkBounds(%v): %v", c, err)
		}
	}
	bad := [][3]int{{-1, 0, 0}, {16, 0, 0}, {0, -65, 0}, {0, 320, 0}, {0, 0, 16}}
	for _, c := range bad {
		err := ChunkBounds(c[0], c[1], c[2])
		if err == nil {
			t.Fatalf("ChunkBounds(%v): expected error", c)
		}
		if CodeOf(err) != ErrBadBounds {
			t.Fatalf("ChunkBounds(%v): code %q", c, CodeOf(err))
		}
	}
}

func validHeightMapJSON() string {
	entries := make([]string, chunk.Area)
	for i := range entries {
		entries[i] = "0"
	}
	return "[" + strings.Join(entries, ",") + "]"
}

func TestMetadataDocument(t *testing.T) {
	good := fmt.Sprintf(`{
	  "biome": "PLAINS",
	  "light_level": 15,
	  "is_modified": false,
	  "last_update": 0,
	  "height_map": %s,
	  "generation_version": 1,
	  "features": ["village"],
	  "structure_references": {"village": ["ref_1"]}
	}`, validHeightMapJSON())
	if err := MetadataDocument([]byte(good)); err != nil {
		t.Fatalf("valid document: %v", err)
	}

	if err := MetadataDocument([]byte(`{"biome":""}`)); err == nil {
		t.Fatalf("document missing height_map must fail")
	}
	if err := MetadataDocument([]byte(`not json`)); err == nil {
		t.Fatalf("malformed json must fail")
	}
	short := fmt.Sprintf(`{"biome":"PLAINS","light_level":3,"height_map":%s}`,
		"["+strings.Repeat("0,", 10)+"0]")
	if err := MetadataDocument([]byte(short)); err == nil || CodeOf(err) != ErrBadMetadata {
		t.Fatalf("short height map document: %v", err)
	}
}
