// Package mutation defines the core's typed, protein-level Mutation
// variant (spec.md §3) and the Consequence Parser that produces it
// from a BCSQ-style annotation string (spec.md §4.B).
package mutation

import "fmt"

// Kind tags which protein-level effect a Mutation carries.
type Kind int

const (
	KindMissense Kind = iota + 1
	KindInframeInsertion
	KindInframeDeletion
	KindInframeDelins
	KindStopGained
	KindStopLost
	KindStartLost
	KindFrameShift
	KindSynonymous
)

func (k Kind) String() string {
	switch k {
	case KindMissense:
		return "missense_variant"
	case KindInframeInsertion:
		return "inframe_insertion"
	case KindInframeDeletion:
		return "inframe_deletion"
	case KindInframeDelins:
		return "protein_altering_variant"
	case KindStopGained:
		return "stop_gained"
	case KindStopLost:
		return "stop_lost"
	case KindStartLost:
		return "start_lost"
	case KindFrameShift:
		return "frameshift_variant"
	case KindSynonymous:
		return "synonymous_variant"
	default:
		return "unknown"
	}
}

// supportedKinds is the set of consequence terms the parser will
// ever translate into a Mutation (spec.md §6).
var supportedKinds = map[string]Kind{
	"missense_variant":         KindMissense,
	"inframe_insertion":        KindInframeInsertion,
	"inframe_deletion":         KindInframeDeletion,
	"protein_altering_variant": KindInframeDelins,
	"stop_gained":              KindStopGained,
	"stop_lost":                KindStopLost,
	"start_lost":               KindStartLost,
	"frameshift_variant":       KindFrameShift,
	"synonymous_variant":       KindSynonymous,
}

// Mutation is the core's typed, protein-level form of one consequence
// (spec.md §3). Fields not meaningful to a given Kind are left zero.
type Mutation struct {
	TranscriptID   string
	Kind           Kind
	ProteinPos     int // 0-based start position in the reference protein
	RefAA          string
	AltAA          byte   // Missense only
	Inserted       string // Inframe_Insertion / Inframe_Delins / StopLost(extension) / FrameShift(new_tail)
	RefLen         int    // Inframe_Deletion / Inframe_Delins span length
	AtPos          int    // StopGained truncation point (== ProteinPos, kept for clarity of intent)
	FromPos        int    // FrameShift replacement start (== ProteinPos, kept for clarity of intent)

	// DeclaredPos/DeclaredRefLen are the position and REF-run length as
	// reported by the caller, before the anchor-stripping that produces
	// the minimal (ProteinPos, RefLen) used for lowering. Conflict
	// detection (spec.md §4.E step 3) compares declared spans: the
	// caller's annotation concerns every residue it names, even the
	// anchor residues a minimal representation later discards.
	DeclaredPos    int
	DeclaredRefLen int
}

// DeclaredSpanEnd returns the exclusive end of the reference span this
// mutation's raw annotation named, before anchor stripping.
func (m Mutation) DeclaredSpanEnd() int {
	return m.DeclaredPos + m.DeclaredRefLen
}

// SameEffect reports whether two mutations at the same protein
// position have byte-identical effects on the protein (spec.md §4.E
// step 2, semantic deduplication): same RefLen and same resulting
// Inserted/AltAA.
func (m Mutation) SameEffect(o Mutation) bool {
	if m.Kind != o.Kind || m.ProteinPos != o.ProteinPos {
		return false
	}
	switch m.Kind {
	case KindMissense:
		return m.AltAA == o.AltAA
	case KindInframeInsertion, KindInframeDelins, KindStopLost, KindFrameShift:
		return m.RefLen == o.RefLen && m.Inserted == o.Inserted
	case KindInframeDeletion:
		return m.RefLen == o.RefLen
	case KindStopGained, KindStartLost, KindSynonymous:
		return true
	default:
		return false
	}
}

func (m Mutation) String() string {
	return fmt.Sprintf("%s@%d:%s", m.Kind, m.ProteinPos, m.TranscriptID)
}
