package snapshot

import (
	"bufio"
	"encoding/gob"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/klauspost/compress/zstd"

	"chunkforge.dev/internal/engine/chunk"
	"chunkforge.dev/internal/engine/validate"
)

// Header is the first line of a snapshot file.
type Header struct {
	Version int `json:"version"`
	Count   int `json:"count"`
}

const version = 1

// ChunkV1 is the persisted shape of one chunk. The storage collaborator owns
// the file lifecycle; this package owns the record layout and the validation
// gate on the way back in.
type ChunkV1 struct {
	CX     int32    `json:"cx"`
	CZ     int32    `json:"cz"`
	Blocks []uint16 `json:"blocks"`

	Biome      string  `json:"biome"`
	LightLevel int     `json:"light_level"`
	IsModified bool    `json:"is_modified"`
	LastUpdate uint64  `json:"last_update"`
	HeightMap  []int32 `json:"height_map"`

	GenerationVersion int                 `json:"generation_version,omitempty"`
	Features          []string            `json:"features,omitempty"`
	StructureRefs     map[string][]string `json:"structure_references,omitempty"`
	Optimizations     []RecordV1          `json:"optimizations,omitempty"`
}

type RecordV1 struct {
	ID    string    `json:"id"`
	Kind  string    `json:"kind"`
	Tick  uint64    `json:"tick"`
	Remap []RemapV1 `json:"remap,omitempty"`
	Note  string    `json:"note,omitempty"`
}

type RemapV1 struct {
	From uint16 `json:"from"`
	To   uint16 `json:"to"`
}

// Encode flattens a chunk value into its persisted record.
func Encode(d chunk.Data) ChunkV1 {
	recs := make([]RecordV1, 0, len(d.Meta.Optimizations))
	for _, r := range d.Meta.Optimizations {
		remap := make([]RemapV1, 0, len(r.Remap))
		for _, m := range r.Remap {
			remap = append(remap, RemapV1{From: m.From, To: m.To})
		}
		recs = append(recs, RecordV1{ID: r.ID, Kind: r.Kind, Tick: r.Tick, Remap: remap, Note: r.Note})
	}
	return ChunkV1{
		CX:                d.Pos.X,
		CZ:                d.Pos.Z,
		Blocks:            d.Blocks,
		Biome:             d.Meta.Biome,
		LightLevel:        d.Meta.LightLevel,
		IsModified:        d.Meta.IsModified,
		LastUpdate:        d.Meta.LastUpdate,
		HeightMap:         d.Meta.HeightMap,
		GenerationVersion: d.Meta.GenerationVersion,
		Features:          d.Meta.Features,
		StructureRefs:     d.Meta.StructureRefs,
		Optimizations:     recs,
	}
}

// Decode validates a persisted record and rebuilds the chunk value, marked
// clean. An invalid record is rejected whole, never partially accepted.
func Decode(c ChunkV1) (chunk.Data, error) {
	if err := validate.Position(int64(c.CX), int64(c.CZ)); err != nil {
		return chunk.Data{}, err
	}
	if err := validate.Blocks(c.Blocks); err != nil {
		return chunk.Data{}, err
	}

	recs := make([]chunk.Record, 0, len(c.Optimizations))
	for _, r := range c.Optimizations {
		remap := make([]chunk.IDRemap, 0, len(r.Remap))
		for _, m := range r.Remap {
			remap = append(remap, chunk.IDRemap{From: m.From, To: m.To})
		}
		recs = append(recs, chunk.Record{ID: r.ID, Kind: r.Kind, Tick: r.Tick, Remap: remap, Note: r.Note})
	}

	pos := chunk.Position{X: c.CX, Z: c.CZ}
	d := chunk.Data{
		ID:     chunk.IDFor(pos),
		Pos:    pos,
		Blocks: c.Blocks,
		Meta: chunk.Metadata{
			Biome:             c.Biome,
			LightLevel:        c.LightLevel,
			IsModified:        c.IsModified,
			LastUpdate:        c.LastUpdate,
			HeightMap:         c.HeightMap,
			GenerationVersion: c.GenerationVersion,
			Features:          c.Features,
			StructureRefs:     c.StructureRefs,
			Optimizations:     recs,
		},
	}
	if err := validate.Integrity(d); err != nil {
		return chunk.Data{}, err
	}
	return d, nil
}

// Write persists a batch of chunks: a zstd stream holding a JSON header line
// followed by a gob body.
func Write(path string, chunks []chunk.Data) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}
	defer f.Close()

	enc, err := zstd.NewWriter(f, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return err
	}
	defer enc.Close()

	bw := bufio.NewWriterSize(enc, 256*1024)
	defer bw.Flush()

	hb, _ := json.Marshal(Header{Version: version, Count: len(chunks)})
	if _, err := bw.Write(hb); err != nil {
		return err
	}
	if err := bw.WriteByte('\n'); err != nil {
		return err
	}

	records := make([]ChunkV1, 0, len(chunks))
	for _, d := range chunks {
		records = append(records, Encode(d))
	}
	if err := gob.NewEncoder(bw).Encode(records); err != nil {
		return fmt.Errorf("gob encode: %w", err)
	}
	return nil
}

// Read loads a snapshot and decodes every record through the validation
// gate. One invalid record fails the whole read; the caller keeps whatever
// chunk values it already owns.
func Read(path string) ([]chunk.Data, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	dec, err := zstd.NewReader(f)
	if err != nil {
		return nil, err
	}
	defer dec.Close()

	br := bufio.NewReaderSize(dec, 256*1024)

	line, err := br.ReadBytes('\n')
	if err != nil {
		return nil, fmt.Errorf("snapshot header: %w", err)
	}
	var hdr Header
	if err := json.Unmarshal(line, &hdr); err != nil {
		return nil, fmt.Errorf("snapshot header: %w", err)
	}
	if hdr.Version != version {
		return nil, fmt.Errorf("unsupported snapshot version %d", hdr.Version)
	}

	var records []ChunkV1
	if err := gob.NewDecoder(br).Decode(&records); err != nil {
		return nil, fmt.Errorf("gob decode: %w", err)
	}

	out := make([]chunk.Data, 0, len(records))
	for i, r := range records {
		d, err := Decode(r)
		if err != nil {
			return nil, fmt.Errorf("record %d: %w", i, err)
		}
		out = append(out, d)
	}
	return out, nil
}
