// Package lower implements Task Lowering (spec.md §4.F): it walks
// every compiled (patient, haplotype, transcript) Program in a fixed
// order and flattens them into parallel "structure of arrays" Task
// arrays plus the reference and alternate byte streams an Execution
// Backend consumes.
package lower

import (
	"github.com/inodb/vcf2prot/internal/compile"
	"github.com/inodb/vcf2prot/internal/refindex"
)

// Descriptor is the per-record output produced by F and consumed by H
// (spec.md §3): where one (patient, haplotype, transcript) program's
// bytes live in the shared result buffer.
type Descriptor struct {
	Patient      string
	Haplotype    int
	TranscriptID string
	OutStart     int
	OutLength    int
}

// TaskSet is the flat, executor-ready form of every compiled program:
// four parallel integer arrays (ExecCode/SrcStart/Length/OutStart),
// two flat byte buffers (RefStream/AltStream), and the descriptor list.
type TaskSet struct {
	ExecCode []int
	SrcStart []int
	Length   []int
	OutStart []int

	RefStream []byte
	AltStream []byte

	Descriptors  []Descriptor
	ResultLength int
}

// Task exec codes, per spec.md §3.
const (
	ExecCopyRef  = 0
	ExecWriteAlt = 1
)

// Builder accumulates Task arrays across many compiled programs. The
// reference arena is built once from the Reference Index, in its
// transcript order, so that CopyRef tasks index into it directly
// without per-program copying (spec.md §4.F, §9 "sharing the reference").
type Builder struct {
	refArena   []byte
	refOffsets map[string]int

	altStream []byte
	outCursor int

	execCode    []int
	srcStart    []int
	length      []int
	outStart    []int
	descriptors []Descriptor
}

// NewBuilder builds the reference arena from ref, in its stored
// transcript order, and returns an empty Builder ready to accept
// compiled programs.
func NewBuilder(ref *refindex.Index) *Builder {
	b := &Builder{refOffsets: make(map[string]int, ref.Count())}
	for _, id := range ref.Order() {
		seq, _ := ref.Sequence(id)
		b.refOffsets[id] = len(b.refArena)
		b.refArena = append(b.refArena, seq...)
	}
	return b
}

// Append lowers one compiled Program's Instructions into the flat Task
// arrays, shifting every OutStart by the running global output cursor
// and appending WriteAlt bytes to the alternate stream.
func (b *Builder) Append(prog *compile.Program) {
	refOffset := b.refOffsets[prog.TranscriptID]
	gOut := b.outCursor

	for _, ins := range prog.Instructions {
		outStart := gOut + ins.OutStart
		switch ins.Op {
		case compile.CopyRef:
			b.execCode = append(b.execCode, ExecCopyRef)
			b.srcStart = append(b.srcStart, refOffset+ins.RefStart)
		case compile.WriteAlt:
			altOffset := len(b.altStream)
			b.altStream = append(b.altStream, ins.Alt...)
			b.execCode = append(b.execCode, ExecWriteAlt)
			b.srcStart = append(b.srcStart, altOffset)
		}
		b.length = append(b.length, ins.Length)
		b.outStart = append(b.outStart, outStart)
	}

	b.descriptors = append(b.descriptors, Descriptor{
		Patient:      prog.Patient,
		Haplotype:    prog.Haplotype,
		TranscriptID: prog.TranscriptID,
		OutStart:     gOut,
		OutLength:    prog.OutLength,
	})
	b.outCursor += prog.OutLength
}

// Build finalizes the accumulated Task arrays into a TaskSet.
func (b *Builder) Build() *TaskSet {
	return &TaskSet{
		ExecCode:     b.execCode,
		SrcStart:     b.srcStart,
		Length:       b.length,
		OutStart:     b.outStart,
		RefStream:    b.refArena,
		AltStream:    b.altStream,
		Descriptors:  b.descriptors,
		ResultLength: b.outCursor,
	}
}
