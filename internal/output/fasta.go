// Package output writes the engine's final product to disk: one FASTA
// record per (patient, haplotype, transcript) sequence the Result
// Slicer produced.
package output

import (
	"bufio"
	"fmt"
	"io"

	"github.com/inodb/vcf2prot/internal/slicer"
)

// lineWidth is the FASTA sequence line wrap width.
const lineWidth = 60

// FastaWriter writes slicer.Record values as wrapped FASTA.
type FastaWriter struct {
	w *bufio.Writer
}

// NewFastaWriter wraps w in a buffered FASTA writer.
func NewFastaWriter(w io.Writer) *FastaWriter {
	return &FastaWriter{w: bufio.NewWriter(w)}
}

// Write emits one FASTA record, wrapping the sequence at lineWidth.
func (fw *FastaWriter) Write(rec slicer.Record) error {
	if _, err := fmt.Fprintf(fw.w, ">%s\n", rec.ID); err != nil {
		return err
	}
	for i := 0; i < len(rec.Sequence); i += lineWidth {
		end := i + lineWidth
		if end > len(rec.Sequence) {
			end = len(rec.Sequence)
		}
		if _, err := fw.w.Write(rec.Sequence[i:end]); err != nil {
			return err
		}
		if err := fw.w.WriteByte('\n'); err != nil {
			return err
		}
	}
	return nil
}

// WriteAll writes every record in order.
func (fw *FastaWriter) WriteAll(recs []slicer.Record) error {
	for _, rec := range recs {
		if err := fw.Write(rec); err != nil {
			return err
		}
	}
	return nil
}

// Flush flushes the underlying buffered writer.
func (fw *FastaWriter) Flush() error {
	return fw.w.Flush()
}
