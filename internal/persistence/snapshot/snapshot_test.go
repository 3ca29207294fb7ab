package snapshot

import (
	"path/filepath"
	"testing"

	"chunkforge.dev/internal/engine/chunk"
	"chunkforge.dev/internal/engine/validate"
)

func TestWriteRead_RoundTrip(t *testing.T) {
	a := chunk.NewEmpty(chunk.Position{X: -4, Z: 12})
	a = chunk.SetBlock(a, 100, 7)
	a = chunk.SetBlock(a, 5000, 9)
	a.Meta = chunk.AppendRecord(a.Meta, chunk.Record{
		ID:    "rec-1",
		Kind:  "DEFRAGMENTATION",
		Tick:  42,
		Remap: []chunk.IDRemap{{From: 9, To: 1}},
	})

	b := chunk.NewEmpty(chunk.Position{X: 0, Z: 0})

	path := filepath.Join(t.TempDir(), "world", "chunks.snap.zst")
	if err := Write(path, []chunk.Data{a, b}); err != nil {
		t.Fatalf("Write: %v", err)
	}

	got, err := Read(path)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("chunk count: %d", len(got))
	}

	ra := got[0]
	if ra.ID != "chunk_data_-4_12" || ra.Pos != a.Pos {
		t.Fatalf("identity: %q %+v", ra.ID, ra.Pos)
	}
	if ra.Digest() != a.Digest() {
		t.Fatalf("block content changed across round trip")
	}
	if ra.Dirty {
		t.Fatalf("decoded chunk must start clean")
	}
	if len(ra.Meta.Optimizations) != 1 || ra.Meta.Optimizations[0].Tick != 42 {
		t.Fatalf("audit log lost: %+v", ra.Meta.Optimizations)
	}
	if ra.Meta.Optimizations[0].Remap[0] != (chunk.IDRemap{From: 9, To: 1}) {
		t.Fatalf("remap lost: %+v", ra.Meta.Optimizations[0].Remap)
	}
}

func TestDecode_RejectsInvalid(t *testing.T) {
	good := Encode(chunk.NewEmpty(chunk.Position{X: 1, Z: 1}))
	if _, err := Decode(good); err != nil {
		t.Fatalf("valid record: %v", err)
	}

	bad := good
	bad.Blocks = bad.Blocks[:10]
	if _, err := Decode(bad); err == nil {
		t.Fatalf("short block array must be rejected")
	} else if validate.CodeOf(err) != validate.ErrBadData {
		t.Fatalf("code: %q", validate.CodeOf(err))
	}

	bad = good
	bad.Biome = ""
	if _, err := Decode(bad); err == nil || validate.CodeOf(err) != validate.ErrBadMetadata {
		t.Fatalf("empty biome must be rejected")
	}

	bad = good
	bad.HeightMap = make([]int32, 10)
	if _, err := Decode(bad); err == nil {
		t.Fatalf("short height map must be rejected, never truncated")
	}
}

func TestRead_FailsOnBadRecord(t *testing.T) {
	path := filepath.Join(t.TempDir(), "chunks.snap.zst")

	a := chunk.NewEmpty(chunk.Position{})
	a.Meta.Biome = "" // invalid on the way back in
	if err := Write(path, []chunk.Data{a}); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if _, err := Read(path); err == nil {
		t.Fatalf("invalid record must fail the read")
	}
}

func TestRead_MissingFile(t *testing.T) {
	if _, err := Read(filepath.Join(t.TempDir(), "absent.snap.zst")); err == nil {
		t.Fatalf("missing file must fail")
	}
}
