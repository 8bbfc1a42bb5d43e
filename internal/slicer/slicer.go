// Package slicer implements the Result Slicer (spec.md §4.H): given
// the descriptor list and the assembled result buffer, it yields
// (fasta_id, sequence) pairs for the downstream writer.
package slicer

import (
	"fmt"

	"github.com/inodb/vcf2prot/internal/lower"
)

// Record is one output FASTA record: a header id and its sequence
// bytes, ready for the external writer.
type Record struct {
	ID       string
	Sequence []byte
}

// FastaID builds the canonical record header id (spec.md §6):
// "{patient_id}_{haplotype_idx}_{transcript_id}".
func FastaID(patient string, haplotype int, transcriptID string) string {
	return fmt.Sprintf("%s_%d_%s", patient, haplotype, transcriptID)
}

// Slice splits result by descriptors into Records in descriptor order.
// Descriptors with OutLength 0 are skipped: a transcript that compiled
// to an empty program (no record should have been descriptor-emitted
// for it in the first place by the caller, but zero-length is treated
// defensively as "nothing to emit").
func Slice(descriptors []lower.Descriptor, result []byte) []Record {
	records := make([]Record, 0, len(descriptors))
	for _, d := range descriptors {
		if d.OutLength == 0 {
			continue
		}
		seq := make([]byte, d.OutLength)
		copy(seq, result[d.OutStart:d.OutStart+d.OutLength])
		records = append(records, Record{ID: FastaID(d.Patient, d.Haplotype, d.TranscriptID), Sequence: seq})
	}
	return records
}
