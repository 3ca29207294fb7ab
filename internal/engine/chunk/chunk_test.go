package chunk

import "testing"

func TestBlockIndex_Vectors(t *testing.T) {
	cases := []struct {
		x, y, z int
		want    int
	}{
		{0, -64, 0, 0},
		{0, 319, 0, 383},
		{1, 0, 0, 64 + 384},
		{0, 0, 1, 64 + 384*16},
		{15, 319, 15, Volume - 1},
	}
	for _, c := range cases {
		got, err := BlockIndex(c.x, c.y, c.z)
		if err != nil {
			t.Fatalf("BlockIndex(%d,%d,%d): %v", c.x, c.y, c.z, err)
		}
		if got != c.want {
			t.Fatalf("BlockIndex(%d,%d,%d) = %d, want %d", c.x, c.y, c.z, got, c.want)
		}
	}
}

func TestBlockIndex_OutOfRange(t *testing.T) {
	bad := [][3]int{
		{-1, 0, 0}, {16, 0, 0},
		{0, -65, 0}, {0, 320, 0},
		{0, 0, -1}, {0, 0, 16},
	}
	for _, c := range bad {
		if _, err := BlockIndex(c[0], c[1], c[2]); err == nil {
			t.Fatalf("BlockIndex(%d,%d,%d): expected error", c[0], c[1], c[2])
		}
	}
}

func TestBlockIndex_Bijection(t *testing.T) {
	seen := make([]bool, Volume)
	for x := 0; x < Size; x++ {
		for z := 0; z < Size; z++ {
			for y := MinY; y <= MaxY; y++ {
				i, err := BlockIndex(x, y, z)
				if err != nil {
					t.Fatalf("BlockIndex(%d,%d,%d): %v", x, y, z, err)
				}
				if i < 0 || i >= Volume {
					t.Fatalf("index %d outside [0,%d)", i, Volume)
				}
				if seen[i] {
					t.Fatalf("index %d produced twice", i)
				}
				seen[i] = true

				gx, gy, gz, err := BlockCoords(i)
				if err != nil {
					t.Fatalf("BlockCoords(%d): %v", i, err)
				}
				if gx != x || gy != y || gz != z {
					t.Fatalf("round trip (%d,%d,%d) -> %d -> (%d,%d,%d)", x, y, z, i, gx, gy, gz)
				}
			}
		}
	}
}

func TestBlockCoords_OutOfRange(t *testing.T) {
	if _, _, _, err := BlockCoords(-1); err == nil {
		t.Fatalf("BlockCoords(-1): expected error")
	}
	if _, _, _, err := BlockCoords(Volume); err == nil {
		t.Fatalf("BlockCoords(Volume): expected error")
	}
}

func TestSetBlock_GetBlock(t *testing.T) {
	c := NewEmpty(Position{X: 3, Z: -7})
	if c.ID != "chunk_data_3_-7" {
		t.Fatalf("id: %q", c.ID)
	}

	idx, _ := BlockIndex(5, 100, 9)
	out := SetBlock(c, idx, 42)

	if got := out.BlockAt(idx); got != 42 {
		t.Fatalf("BlockAt after set: got %d want 42", got)
	}
	if !out.Dirty || !out.Meta.IsModified {
		t.Fatalf("set must mark dirty and modified: dirty=%v modified=%v", out.Dirty, out.Meta.IsModified)
	}
	if out.Meta.LastUpdate != c.Meta.LastUpdate+1 {
		t.Fatalf("logical clock did not advance")
	}

	// The input value is untouched.
	if c.BlockAt(idx) != Air || c.Dirty {
		t.Fatalf("input chunk mutated")
	}
}

func TestSetBlock_NoopReturnsInput(t *testing.T) {
	c := NewEmpty(Position{})
	out := SetBlock(c, 10, Air)
	if &out.Blocks[0] != &c.Blocks[0] {
		t.Fatalf("no-op set must share the block buffer")
	}
	out = SetBlock(c, -1, 5)
	if &out.Blocks[0] != &c.Blocks[0] {
		t.Fatalf("out-of-range set must return the input unchanged")
	}
}

func TestReset_ReusesBuffer(t *testing.T) {
	c := NewEmpty(Position{X: 1, Z: 1})
	c = SetBlock(c, 0, 9)

	out := Reset(c, Position{X: 2, Z: 2})
	if &out.Blocks[0] != &c.Blocks[0] {
		t.Fatalf("reset must reuse the block buffer")
	}
	if out.BlockAt(0) != Air {
		t.Fatalf("reset must clear blocks")
	}
	if out.ID != "chunk_data_2_2" || out.Dirty {
		t.Fatalf("reset result: id=%q dirty=%v", out.ID, out.Dirty)
	}
}

func TestDigest_TracksContent(t *testing.T) {
	a := NewEmpty(Position{})
	b := SetBlock(a, 123, 7)
	if a.Digest() == b.Digest() {
		t.Fatalf("digest must change with content")
	}
	if a.Digest() != NewEmpty(Position{X: 9, Z: 9}).Digest() {
		t.Fatalf("digest must depend on blocks only")
	}
}

func TestAppendRecord_DoesNotAliasInput(t *testing.T) {
	m := DefaultMetadata()
	m = AppendRecord(m, Record{ID: "a", Kind: "DEFRAGMENTATION"})
	m2 := AppendRecord(m, Record{ID: "b", Kind: "MEMORY"})
	if len(m.Optimizations) != 1 || len(m2.Optimizations) != 2 {
		t.Fatalf("append-only log lengths: %d, %d", len(m.Optimizations), len(m2.Optimizations))
	}
	m2.Optimizations[0].ID = "mutated"
	if m.Optimizations[0].ID != "a" {
		t.Fatalf("older log aliased by newer value")
	}
}
