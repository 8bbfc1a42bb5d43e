// Package refindex provides the Reference Index: an immutable
// transcript_id -> protein-sequence mapping loaded once from a FASTA
// stream yielded by an upstream reader.
package refindex

import (
	"fmt"

	"github.com/inodb/vcf2prot/internal/errs"
)

// Index is the read-only, shared reference protein lookup (component A).
// The zero value is not usable; construct with New or Build.
type Index struct {
	sequences map[string]string
	// order preserves the order transcripts were added, so the
	// reference stream (internal/lower) can be built by concatenating
	// sequences in a single deterministic pass.
	order []string
}

// New creates an empty Index. Use Add to populate it, then freeze by
// simply no longer calling Add — the Index has no separate "build"
// step, matching the teacher's FASTALoader which is ready to query
// incrementally as records are parsed.
func New() *Index {
	return &Index{sequences: make(map[string]string)}
}

// Add registers the protein sequence for a transcript id. Re-adding an
// id that already exists is rejected: construction fails with
// DuplicateTranscript (spec.md §4.A — last-wins is explicitly not the
// contract here).
func (idx *Index) Add(transcriptID, sequence string) error {
	if _, exists := idx.sequences[transcriptID]; exists {
		return &errs.FatalInput{Reason: fmt.Sprintf("duplicate transcript id %q", transcriptID)}
	}
	idx.sequences[transcriptID] = sequence
	idx.order = append(idx.order, transcriptID)
	return nil
}

// Sequence returns the protein sequence for a transcript id and
// whether it was found.
func (idx *Index) Sequence(transcriptID string) (string, bool) {
	s, ok := idx.sequences[transcriptID]
	return s, ok
}

// MustSequence returns the protein sequence or a FatalInput error if
// the transcript is unknown — the contract the Instruction Compiler
// relies on (spec.md §4.A: "Unknown id on lookup is a hard error
// surfaced by E").
func (idx *Index) MustSequence(transcriptID string) (string, error) {
	s, ok := idx.sequences[transcriptID]
	if !ok {
		return "", &errs.FatalInput{Reason: fmt.Sprintf("unknown transcript id %q referenced by a consequence annotation", transcriptID)}
	}
	return s, nil
}

// Len returns the protein length for a transcript, or -1 if unknown.
func (idx *Index) Len(transcriptID string) int {
	s, ok := idx.sequences[transcriptID]
	if !ok {
		return -1
	}
	return len(s)
}

// Count returns the number of transcripts held by the index.
func (idx *Index) Count() int {
	return len(idx.sequences)
}

// Order returns transcript ids in the order they were added. Task
// Lowering uses this to build a reference stream with memoized offsets
// when the caller has not already arranged the sequences contiguously.
func (idx *Index) Order() []string {
	return idx.order
}

// Source is the minimal interface the upstream FASTA reader yields:
// one (id, sequence) pair at a time, id exactly as specified in
// spec.md §6 (every byte after '>' up to the first newline, sequence
// the concatenation of subsequent non-header lines with trailing
// whitespace on each line stripped).
type Source interface {
	Next() (id string, sequence string, ok bool, err error)
}

// Build drains a Source into a new Index.
func Build(src Source) (*Index, error) {
	idx := New()
	for {
		id, seq, ok, err := src.Next()
		if err != nil {
			return nil, &errs.FatalInput{Reason: "reading reference FASTA", Err: err}
		}
		if !ok {
			break
		}
		if err := idx.Add(id, seq); err != nil {
			return nil, err
		}
	}
	return idx, nil
}
