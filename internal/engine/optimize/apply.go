package optimize

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"chunkforge.dev/internal/engine/batch"
	"chunkforge.dev/internal/engine/chunk"
	"chunkforge.dev/internal/engine/encoding"
	"chunkforge.dev/internal/engine/optics"
)

var (
	ErrUnknownStrategy = errors.New("unknown strategy")
	ErrBadThreshold    = errors.New("elimination threshold outside (0,1]")
	ErrCodecVerify     = errors.New("codec verification failed")
)

// Result is the quantitative report of one strategy application.
type Result struct {
	OriginalSize     int
	OptimizedSize    int
	CompressionRatio float64
	Strategy         Strategy
	TimeSpent        time.Duration
	// QualityLoss is the fraction of cells altered, in [0,1]. Zero for every
	// lossless strategy.
	QualityLoss float64
}

// Apply dispatches on the strategy variant, returning the updated chunk and
// a report. On any failure the input chunk is returned untouched. Every
// successful application appends an audit record, even when the content was
// already optimal.
func Apply(d chunk.Data, s Strategy, tick uint64) (chunk.Data, Result, error) {
	start := time.Now()

	var (
		out   chunk.Data
		res   Result
		remap []chunk.IDRemap
		note  string
		err   error
	)
	switch s.Kind {
	case KindCompression:
		out, res, note, err = applyCompression(d, s.Algorithm)
	case KindMemory:
		out, res, note, err = applyMemory(d)
	case KindAccess:
		out, res, note = applyAccess(d, s.Patterns)
	case KindRedundancy:
		out, res, note, err = applyRedundancy(d, s.Threshold)
	case KindDefrag:
		out, res, remap, note = applyDefrag(d)
	default:
		return d, Result{}, fmt.Errorf("%w: %q", ErrUnknownStrategy, s.Kind)
	}
	if err != nil {
		return d, Result{}, err
	}

	res.Strategy = s
	res.TimeSpent = time.Since(start)
	if res.TimeSpent <= 0 {
		res.TimeSpent = time.Nanosecond
	}
	if res.OptimizedSize > 0 {
		res.CompressionRatio = float64(res.OriginalSize) / float64(res.OptimizedSize)
	} else {
		res.CompressionRatio = 1
	}

	out.Meta = chunk.AppendRecord(out.Meta, chunk.Record{
		ID:    uuid.NewString(),
		Kind:  string(s.Kind),
		Tick:  tick,
		Remap: remap,
		Note:  note,
	})
	out = chunk.Touch(out)
	return out, res, nil
}

func rawSize(d chunk.Data) int {
	return len(d.Blocks) * 2
}

func encodeWith(a Algorithm, blocks []uint16) (enc []byte, dec []uint16, err error) {
	switch a {
	case AlgoRLE:
		enc = encoding.EncodeRLE(blocks)
		dec, err = encoding.DecodeRLE(enc)
	case AlgoDelta:
		enc = encoding.EncodeDelta(blocks)
		dec, err = encoding.DecodeDelta(enc)
	case AlgoPalette:
		enc = encoding.EncodePalette(blocks)
		dec, err = encoding.DecodePalette(enc)
	default:
		return nil, nil, fmt.Errorf("%w: algorithm %q", ErrUnknownStrategy, a)
	}
	return enc, dec, err
}

// applyCompression encodes, verifies the round trip, and reports the
// compressed size. Content is left as-is: the codec output is what the
// storage collaborator would persist.
func applyCompression(d chunk.Data, a Algorithm) (chunk.Data, Result, string, error) {
	enc, dec, err := encodeWith(a, d.Blocks)
	if err != nil {
		return d, Result{}, "", err
	}
	if len(dec) != len(d.Blocks) {
		return d, Result{}, "", fmt.Errorf("%w: %s length %d != %d", ErrCodecVerify, a, len(dec), len(d.Blocks))
	}
	for i := range dec {
		if dec[i] != d.Blocks[i] {
			return d, Result{}, "", fmt.Errorf("%w: %s mismatch at %d", ErrCodecVerify, a, i)
		}
	}
	res := Result{OriginalSize: rawSize(d), OptimizedSize: len(enc)}
	return d, res, fmt.Sprintf("algorithm=%s", a), nil
}

// applyMemory picks whichever lossless codec shrinks this content most.
func applyMemory(d chunk.Data) (chunk.Data, Result, string, error) {
	best := AlgoRLE
	bestSize := -1
	for _, a := range []Algorithm{AlgoRLE, AlgoPalette} {
		enc, dec, err := encodeWith(a, d.Blocks)
		if err != nil || len(dec) != len(d.Blocks) {
			continue
		}
		if bestSize < 0 || len(enc) < bestSize {
			best = a
			bestSize = len(enc)
		}
	}
	if bestSize < 0 {
		return d, Result{}, "", fmt.Errorf("%w: no codec applicable", ErrCodecVerify)
	}
	res := Result{OriginalSize: rawSize(d), OptimizedSize: bestSize}
	return d, res, fmt.Sprintf("codec=%s", best), nil
}

// applyAccess records the hot ids for the audit log; the layout itself is
// fixed by the index formula, so there is nothing to rearrange.
func applyAccess(d chunk.Data, patterns []AccessPattern) (chunk.Data, Result, string) {
	hot := AccessPattern{}
	for _, p := range patterns {
		if p.Count > hot.Count || (p.Count == hot.Count && p.ID < hot.ID) {
			hot = p
		}
	}
	res := Result{OriginalSize: rawSize(d), OptimizedSize: rawSize(d)}
	return d, res, fmt.Sprintf("patterns=%d hot_id=%d hot_count=%d", len(patterns), hot.ID, hot.Count)
}

// applyRedundancy coalesces minority ids toward the dominant id once the
// dominant occupies at least the threshold fraction. Air cells stay empty
// unless air itself is dominant; the reserved empty id is geometry, not a
// block type. The one lossy strategy: QualityLoss is the altered fraction.
func applyRedundancy(d chunk.Data, threshold float64) (chunk.Data, Result, string, error) {
	if threshold <= 0 || threshold > 1 {
		return d, Result{}, "", fmt.Errorf("%w: %v", ErrBadThreshold, threshold)
	}
	st := batch.ComputeBlockStats(d)
	res := Result{OriginalSize: rawSize(d), OptimizedSize: rawSize(d)}
	if st.Total == 0 {
		return d, res, "dominant=none", nil
	}

	dominant := st.MostCommon
	domFreq := float64(st.MostCommonCount) / float64(st.Total)
	if domFreq < threshold {
		return d, res, "dominant=none", nil
	}

	altered := 0
	out := batch.ConditionalUpdate(d,
		func(_ int, id uint16) bool { return id != dominant && id != chunk.Air },
		func(uint16) uint16 { altered++; return dominant })

	res.QualityLoss = float64(altered) / float64(st.Total)
	note := fmt.Sprintf("dominant=%d altered=%d", dominant, altered)
	return out, res, note, nil
}

// applyDefrag remaps the distinct ids present onto the dense range [0,k),
// ascending by original id. The table goes into the audit record so the
// block-type registry can reverse it.
func applyDefrag(d chunk.Data) (chunk.Data, Result, []chunk.IDRemap, string) {
	present := make(map[uint16]struct{})
	for _, id := range d.Blocks {
		present[id] = struct{}{}
	}
	ids := make([]uint16, 0, len(present))
	for id := range present {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	remap := make([]chunk.IDRemap, len(ids))
	table := make(map[uint16]uint16, len(ids))
	for i, id := range ids {
		remap[i] = chunk.IDRemap{From: id, To: uint16(i)}
		table[id] = uint16(i)
	}

	out := d
	if len(ids) > 0 {
		blocks := make([]uint16, len(d.Blocks))
		changed := false
		for i, id := range d.Blocks {
			blocks[i] = table[id]
			if blocks[i] != id {
				changed = true
			}
		}
		if changed {
			out = optics.Blocks().Replace(blocks, d)
		}
	}

	res := Result{OriginalSize: rawSize(d), OptimizedSize: rawSize(d)}
	return out, res, remap, fmt.Sprintf("distinct=%d", len(ids))
}
