package mutation

import (
	"strconv"
	"strings"

	"github.com/inodb/vcf2prot/internal/errs"
)

// ParseResult is the per-alt-allele outcome of parsing one record's
// consequence annotation INFO value. ByAllele is 1-indexed to match
// the bitmask decoder's allele indices (index 0, the reference
// allele, is always empty).
type ParseResult struct {
	ByAllele [][]Mutation
	Skipped  []errs.AnnotationSkipped
}

// Parse parses a BCSQ-style consequence annotation string (spec.md
// §4.B). The grammar:
//
//	raw        := altGroup (',' altGroup)*
//	altGroup   := entry ('+' entry)*
//	entry      := kinds '|' transcript_id '|' biotype '|' aaChange ('|' dnaChange)?
//	kinds      := kind ('&' kind)*
//	aaChange   := POS REF ('>' ALT)?
//
// altGroup i (1-based) corresponds to ALT allele i. Each entry yields
// at most one Mutation: the first supported kind found in kinds wins;
// if none are supported, the entry is skipped (counted, not fatal).
// A malformed aaChange is likewise skipped, not fatal.
func Parse(raw string) ParseResult {
	altGroups := strings.Split(raw, ",")
	result := ParseResult{ByAllele: make([][]Mutation, len(altGroups)+1)}

	for i, group := range altGroups {
		alleleIdx := i + 1
		if group == "" {
			continue
		}
		for _, entry := range strings.Split(group, "+") {
			if entry == "" {
				continue
			}
			m, skip, ok := parseEntry(entry)
			if !ok {
				result.Skipped = append(result.Skipped, skip)
				continue
			}
			result.ByAllele[alleleIdx] = append(result.ByAllele[alleleIdx], m)
		}
	}

	return result
}

// parseEntry parses one '|'-separated annotation tuple.
func parseEntry(entry string) (Mutation, errs.AnnotationSkipped, bool) {
	fields := strings.Split(entry, "|")
	if len(fields) < 4 {
		return Mutation{}, errs.AnnotationSkipped{Raw: entry, Reason: errs.SkipMalformed}, false
	}

	kindsRaw, transcriptID, aaChange := fields[0], fields[1], fields[3]

	var chosen Kind
	found := false
	for _, k := range strings.Split(kindsRaw, "&") {
		if kk, ok := supportedKinds[strings.TrimSpace(k)]; ok {
			chosen, found = kk, true
			break
		}
	}
	if !found {
		return Mutation{}, errs.AnnotationSkipped{Raw: entry, Reason: errs.SkipUnsupportedKind}, false
	}

	m, err := buildMutation(chosen, transcriptID, aaChange)
	if err != nil {
		return Mutation{}, errs.AnnotationSkipped{Raw: entry, Reason: errs.SkipMalformed}, false
	}
	return m, errs.AnnotationSkipped{}, true
}

// descriptor is the parsed form of a protein change string: POS REF ('>' ALT)?
type descriptor struct {
	pos0   int // 0-based
	ref    string
	alt    string
	hasAlt bool
}

func parseDescriptor(s string) (descriptor, error) {
	i := 0
	for i < len(s) && s[i] >= '0' && s[i] <= '9' {
		i++
	}
	if i == 0 {
		return descriptor{}, errs.AnnotationSkipped{Raw: s, Reason: errs.SkipMalformed}
	}
	pos, err := strconv.Atoi(s[:i])
	if err != nil || pos < 1 {
		return descriptor{}, errs.AnnotationSkipped{Raw: s, Reason: errs.SkipMalformed}
	}

	rest := s[i:]
	refEnd := 0
	for refEnd < len(rest) && isAAByte(rest[refEnd]) {
		refEnd++
	}
	ref := rest[:refEnd]
	rest = rest[refEnd:]

	d := descriptor{pos0: pos - 1, ref: ref}
	if ref == "" {
		// frameshift/start-lost style descriptors may carry no REF run
	}

	if strings.HasPrefix(rest, ">") {
		rest = rest[1:]
		altEnd := 0
		for altEnd < len(rest) && isAAByte(rest[altEnd]) {
			altEnd++
		}
		if altEnd == 0 {
			return descriptor{}, errs.AnnotationSkipped{Raw: s, Reason: errs.SkipMalformed}
		}
		d.alt = rest[:altEnd]
		d.hasAlt = true
	}

	return d, nil
}

func isAAByte(b byte) bool {
	return b == '*' || (b >= 'A' && b <= 'Z')
}

// minimalRepr strips the common prefix and then common suffix from
// ref/alt, shifting pos by the prefix length, to produce the minimal
// anchor-free representation spec.md §4.B step 2 calls for.
func minimalRepr(pos0 int, ref, alt string) (newPos0 int, refLen int, inserted string) {
	i := 0
	for i < len(ref) && i < len(alt) && ref[i] == alt[i] {
		i++
	}
	ref, alt = ref[i:], alt[i:]
	newPos0 = pos0 + i

	j := 0
	for j < len(ref) && j < len(alt) && ref[len(ref)-1-j] == alt[len(alt)-1-j] {
		j++
	}
	ref = ref[:len(ref)-j]
	alt = alt[:len(alt)-j]

	return newPos0, len(ref), alt
}

func buildMutation(kind Kind, transcriptID, aaChange string) (Mutation, error) {
	d, err := parseDescriptor(aaChange)
	if err != nil {
		return Mutation{}, err
	}

	m := Mutation{
		TranscriptID:   transcriptID,
		Kind:           kind,
		ProteinPos:     d.pos0,
		DeclaredPos:    d.pos0,
		DeclaredRefLen: len(d.ref),
	}

	switch kind {
	case KindSynonymous:
		return m, nil

	case KindStartLost:
		return m, nil

	case KindMissense:
		if !d.hasAlt || len(d.ref) != 1 || len(d.alt) != 1 {
			return Mutation{}, errs.AnnotationSkipped{Raw: aaChange, Reason: errs.SkipMalformed}
		}
		m.RefAA = d.ref
		m.AltAA = d.alt[0]
		return m, nil

	case KindStopGained:
		if !d.hasAlt {
			return Mutation{}, errs.AnnotationSkipped{Raw: aaChange, Reason: errs.SkipMalformed}
		}
		m.RefAA = d.ref
		m.AtPos = d.pos0
		return m, nil

	case KindStopLost:
		if !d.hasAlt {
			return Mutation{}, errs.AnnotationSkipped{Raw: aaChange, Reason: errs.SkipMalformed}
		}
		m.Inserted = d.alt
		return m, nil

	case KindFrameShift:
		m.FromPos = d.pos0
		if d.hasAlt {
			m.Inserted = d.alt
		}
		return m, nil

	case KindInframeInsertion, KindInframeDeletion, KindInframeDelins:
		if !d.hasAlt {
			return Mutation{}, errs.AnnotationSkipped{Raw: aaChange, Reason: errs.SkipMalformed}
		}
		pos0, refLen, inserted := minimalRepr(d.pos0, d.ref, d.alt)
		m.ProteinPos = pos0
		m.RefLen = refLen
		m.Inserted = inserted
		// Reconcile the reported kind with the minimal representation's
		// shape: a caller-reported inframe_insertion/deletion must match
		// refLen==0 / inserted=="" respectively; otherwise widen to delins,
		// which can represent both.
		if kind == KindInframeInsertion && refLen != 0 {
			m.Kind = KindInframeDelins
		}
		if kind == KindInframeDeletion && inserted != "" {
			m.Kind = KindInframeDelins
		}
		return m, nil

	default:
		return Mutation{}, errs.AnnotationSkipped{Raw: aaChange, Reason: errs.SkipUnsupportedKind}
	}
}
