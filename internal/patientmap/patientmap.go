// Package patientmap implements the Patient Map Builder (spec.md
// §4.D): it runs the Consequence Parser and Bitmask Decoder over each
// VCF record and assembles the results into
// patient_id -> haplotype_idx -> transcript_id -> []Mutation.
package patientmap

import (
	"github.com/inodb/vcf2prot/internal/bitmask"
	"github.com/inodb/vcf2prot/internal/errs"
	"github.com/inodb/vcf2prot/internal/mutation"
	"github.com/inodb/vcf2prot/internal/vcf"
)

// Map is the per-patient, per-haplotype, per-transcript mutation index.
// Patient indices are defined by header column order, per spec.md §5.
type Map struct {
	patients []string
	data     [][2]map[string][]mutation.Mutation
}

// New creates an empty Map for the given patients, in header order.
func New(patients []string) *Map {
	data := make([][2]map[string][]mutation.Mutation, len(patients))
	for i := range data {
		data[i][0] = make(map[string][]mutation.Mutation)
		data[i][1] = make(map[string][]mutation.Mutation)
	}
	return &Map{patients: append([]string(nil), patients...), data: data}
}

// NumPatients returns the number of patients the map was built for.
func (m *Map) NumPatients() int { return len(m.patients) }

// PatientID returns the patient id at the given header-order index.
func (m *Map) PatientID(idx int) string { return m.patients[idx] }

// Mutations returns the mutation list accumulated for one
// (patient, haplotype, transcript) triple, in VCF record order.
func (m *Map) Mutations(patientIdx, hap int, transcriptID string) []mutation.Mutation {
	if patientIdx < 0 || patientIdx >= len(m.data) {
		return nil
	}
	return m.data[patientIdx][hap][transcriptID]
}

func (m *Map) add(patientIdx, hap int, transcriptID string, mut mutation.Mutation) {
	m.data[patientIdx][hap][transcriptID] = append(m.data[patientIdx][hap][transcriptID], mut)
}

// Ingest runs the Consequence Parser (B) and Bitmask Decoder (C) over
// one VCF record and folds the resulting Mutations into the map,
// preserving VCF record order within each transcript's list. Returns
// the annotation-level parse skips for the caller to count and log;
// these are never fatal.
func (m *Map) Ingest(rec *vcf.Record) []errs.AnnotationSkipped {
	raw, ok := rec.Consequence()
	if !ok || raw == "" {
		return nil
	}
	parsed := mutation.Parse(raw)

	for sampleIdx := range m.patients {
		geno := bitmask.Decode(rec.Genotype(sampleIdx))
		for hap := 0; hap < 2; hap++ {
			for _, alleleIdx := range geno.AltIndices(hap) {
				if alleleIdx < 0 || alleleIdx >= len(parsed.ByAllele) {
					continue
				}
				for _, mut := range parsed.ByAllele[alleleIdx] {
					m.add(sampleIdx, hap, mut.TranscriptID, mut)
				}
			}
		}
	}

	return parsed.Skipped
}
