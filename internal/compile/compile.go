// Package compile implements the Instruction Compiler (spec.md §4.E):
// sort, semantically dedup, detect conflicts, and lower one transcript's
// mutation list into an ordered Instruction program.
package compile

import (
	"sort"

	"github.com/inodb/vcf2prot/internal/errs"
	"github.com/inodb/vcf2prot/internal/mutation"
)

// Op tags an Instruction's write source.
type Op int

const (
	// CopyRef copies bytes from the reference protein.
	CopyRef Op = iota
	// WriteAlt copies literal bytes carried on the instruction.
	WriteAlt
)

// Instruction describes one contiguous write into the output protein.
// For CopyRef, RefStart indexes the reference; for WriteAlt, Alt holds
// the literal bytes to write (Task Lowering later moves these into the
// shared alternate stream).
type Instruction struct {
	Op       Op
	RefStart int
	Alt      []byte
	Length   int
	OutStart int
}

// Program is the compiled, ordered instruction list for one
// (patient, haplotype, transcript) triple.
type Program struct {
	Patient      string
	Haplotype    int
	TranscriptID string
	Instructions []Instruction
	OutLength    int
}

// Compile sorts, dedups, conflict-checks, then lowers muts against ref
// into a Program. Three outcomes:
//   - (prog, nil): compiled cleanly, emit a record.
//   - (nil, drop): logically conflicted or StartLost — counted, logged,
//     no record emitted.
//   - (nil, nil): no mutation survives filtering (the list was empty,
//     or every mutation was synonymous) — no record emitted, and this
//     is not a counted drop since nothing was actually rejected.
func Compile(patient string, hap int, transcriptID string, ref string, muts []mutation.Mutation) (*Program, *errs.TranscriptDropped) {
	sorted := make([]mutation.Mutation, 0, len(muts))
	for _, m := range muts {
		if m.Kind != mutation.KindSynonymous {
			sorted = append(sorted, m)
		}
	}
	if len(sorted) == 0 {
		return nil, nil
	}
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].ProteinPos != sorted[j].ProteinPos {
			return sorted[i].ProteinPos < sorted[j].ProteinPos
		}
		return sorted[i].RefLen < sorted[j].RefLen
	})

	deduped := dedup(sorted)

	if reason := detectConflict(deduped); reason != 0 {
		return nil, &errs.TranscriptDropped{Patient: patient, Haplotype: hap, TranscriptID: transcriptID, Reason: reason}
	}

	for _, m := range deduped {
		if m.Kind == mutation.KindStartLost {
			return nil, &errs.TranscriptDropped{Patient: patient, Haplotype: hap, TranscriptID: transcriptID, Reason: errs.DropStartLost}
		}
	}

	prog := lower(patient, hap, transcriptID, ref, deduped)
	return prog, nil
}

// dedup collapses consecutive (post-sort) mutations at the same
// position whose effects are byte-identical (spec.md §4.E step 2).
func dedup(sorted []mutation.Mutation) []mutation.Mutation {
	out := sorted[:0:0]
	for _, m := range sorted {
		if n := len(out); n > 0 && out[n-1].ProteinPos == m.ProteinPos && out[n-1].SameEffect(m) {
			continue
		}
		out = append(out, m)
	}
	return out
}

// detectConflict implements spec.md §4.E step 3. Conflicts are judged
// on the *declared* span every annotation named (DeclaredPos,
// DeclaredRefLen) — the residues the caller's annotation concerns —
// not the minimal anchor-stripped span used for lowering, so that e.g.
// a missense at position 3 and a deletion reported as "3TA>T" (whose
// minimal form only touches position 4) are still recognized as
// overlapping annotations of the same underlying call.
func detectConflict(muts []mutation.Mutation) errs.DropReason {
	ordered := make([]mutation.Mutation, len(muts))
	copy(ordered, muts)
	sort.SliceStable(ordered, func(i, j int) bool {
		if ordered[i].DeclaredPos != ordered[j].DeclaredPos {
			return ordered[i].DeclaredPos < ordered[j].DeclaredPos
		}
		return ordered[i].DeclaredRefLen < ordered[j].DeclaredRefLen
	})

	truncatedAt := -1
	for i, m := range ordered {
		if i > 0 && ordered[i-1].DeclaredPos == m.DeclaredPos {
			return errs.DropMultiAnnotation
		}
		if i > 0 && m.DeclaredPos < ordered[i-1].DeclaredSpanEnd() {
			return errs.DropOverlap
		}
		if truncatedAt >= 0 && m.DeclaredPos >= truncatedAt {
			return errs.DropPostTerminal
		}
		if m.Kind == mutation.KindStopGained || m.Kind == mutation.KindFrameShift {
			if truncatedAt < 0 || m.DeclaredPos < truncatedAt {
				truncatedAt = m.DeclaredPos
			}
		}
	}
	return 0
}

// lower walks the reference with cursor c and output cursor o, applying
// each mutation in order (spec.md §4.E step 4-5).
func lower(patient string, hap int, transcriptID string, ref string, muts []mutation.Mutation) *Program {
	prog := &Program{Patient: patient, Haplotype: hap, TranscriptID: transcriptID}
	c, o := 0, 0

	emitCopy := func(refStart, length int) {
		if length <= 0 {
			return
		}
		prog.Instructions = append(prog.Instructions, Instruction{Op: CopyRef, RefStart: refStart, Length: length, OutStart: o})
		o += length
	}
	emitAlt := func(alt string) {
		if len(alt) == 0 {
			return
		}
		prog.Instructions = append(prog.Instructions, Instruction{Op: WriteAlt, Alt: []byte(alt), Length: len(alt), OutStart: o})
		o += len(alt)
	}

	terminated := false
	for _, m := range muts {
		if m.ProteinPos > c {
			emitCopy(c, m.ProteinPos-c)
			c = m.ProteinPos
		}

		switch m.Kind {
		case mutation.KindMissense:
			emitAlt(string(m.AltAA))
			c++
		case mutation.KindInframeInsertion:
			emitAlt(m.Inserted)
		case mutation.KindInframeDeletion:
			c += m.RefLen
		case mutation.KindInframeDelins:
			emitAlt(m.Inserted)
			c += m.RefLen
		case mutation.KindStopGained:
			terminated = true
		case mutation.KindStopLost:
			emitAlt(m.Inserted)
			c = len(ref)
		case mutation.KindFrameShift:
			emitAlt(m.Inserted)
			terminated = true
		}

		if terminated {
			break
		}
	}

	if !terminated && c < len(ref) {
		emitCopy(c, len(ref)-c)
		c = len(ref)
	}

	prog.OutLength = o
	return prog
}
