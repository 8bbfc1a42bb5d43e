// Package fasta is the upstream FASTA reader collaborator: it yields
// (id, sequence) pairs to the Reference Index (internal/refindex) and
// does nothing else. Tokenization beyond that id/sequence split is out
// of the core's scope per spec.md §1; this package is the thin driver
// that satisfies refindex.Source against a real file.
package fasta

import (
	"bufio"
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"strings"
)

// Reader reads transcript protein sequences from a FASTA file or
// stream. Supports plain and gzip-compressed input, mirroring the
// teacher's FASTALoader/vcf.Parser transparent-gzip convention.
type Reader struct {
	scanner *bufio.Scanner
	closer  io.Closer

	pendingID  string
	pendingSeq strings.Builder
	started    bool
	done       bool
}

// Open opens a FASTA file for reading. Path "-" reads stdin.
func Open(path string) (*Reader, error) {
	if path == "-" {
		return NewReader(os.Stdin), nil
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open reference fasta: %w", err)
	}

	var r io.Reader = f
	if strings.HasSuffix(path, ".gz") {
		gz, err := gzip.NewReader(f)
		if err != nil {
			f.Close()
			return nil, fmt.Errorf("open gzip reference fasta: %w", err)
		}
		rd := NewReader(gz)
		rd.closer = multiCloser{f, gz}
		return rd, nil
	}

	rd := NewReader(r)
	rd.closer = f
	return rd, nil
}

type multiCloser struct {
	f  io.Closer
	gz io.Closer
}

func (m multiCloser) Close() error {
	gzErr := m.gz.Close()
	fErr := m.f.Close()
	if gzErr != nil {
		return gzErr
	}
	return fErr
}

// NewReader creates a Reader over an arbitrary io.Reader (e.g. stdin).
func NewReader(r io.Reader) *Reader {
	scanner := bufio.NewScanner(r)
	buf := make([]byte, 0, 64*1024)
	scanner.Buffer(buf, 64*1024*1024) // protein sequences can be long; allow up to 64MB per line
	return &Reader{scanner: scanner}
}

// Next returns the next (id, sequence) pair. Returns ok=false, err=nil
// at end of input.
func (r *Reader) Next() (id string, sequence string, ok bool, err error) {
	if r.done {
		return "", "", false, nil
	}

	for r.scanner.Scan() {
		line := r.scanner.Text()

		if strings.HasPrefix(line, ">") {
			var emit bool
			var emitID, emitSeq string
			if r.started {
				emit = true
				emitID = r.pendingID
				emitSeq = r.pendingSeq.String()
			}

			r.pendingID = line[1:]
			r.pendingSeq.Reset()
			r.started = true

			if emit {
				return emitID, emitSeq, true, nil
			}
			continue
		}

		r.pendingSeq.WriteString(strings.TrimRight(line, " \t\r"))
	}

	if err := r.scanner.Err(); err != nil {
		return "", "", false, fmt.Errorf("scan reference fasta: %w", err)
	}

	r.done = true
	if r.started {
		r.started = false
		return r.pendingID, r.pendingSeq.String(), true, nil
	}
	return "", "", false, nil
}

// Close releases the underlying file, if any.
func (r *Reader) Close() error {
	if r.closer != nil {
		return r.closer.Close()
	}
	return nil
}
