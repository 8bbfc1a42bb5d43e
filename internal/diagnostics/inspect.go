package diagnostics

import (
	"fmt"

	"github.com/inodb/vcf2prot/internal/compile"
	"github.com/inodb/vcf2prot/internal/errs"
)

// InspectProgram re-verifies spec.md §8 property 1 (tiling: the
// Instructions' [out_start, out_start+length) intervals partition
// [0, out_length) with no gaps and no overlaps) and, when
// InspectInsGen is set, that OutStart never decreases in emission
// order. Returns nil when the probe that was requested is
// clean, or was not requested at all.
func InspectProgram(s Settings, prog *compile.Program) *errs.InspectFailure {
	if !s.Inspecting() || !s.WantsTranscript(prog.TranscriptID) {
		return nil
	}

	cursor := 0
	for i, ins := range prog.Instructions {
		if s.InspectTxp && ins.OutStart != cursor {
			return &errs.InspectFailure{
				Probe: "tiling",
				Err:   fmt.Errorf("%s/hap%d/%s: instruction %d out_start=%d, want %d", prog.Patient, prog.Haplotype, prog.TranscriptID, i, ins.OutStart, cursor),
			}
		}
		if s.InspectInsGen && i > 0 && ins.OutStart < prog.Instructions[i-1].OutStart {
			return &errs.InspectFailure{
				Probe: "instruction_generation",
				Err:   fmt.Errorf("%s/hap%d/%s: instruction %d out_start=%d regressed", prog.Patient, prog.Haplotype, prog.TranscriptID, i, ins.OutStart),
			}
		}
		cursor += ins.Length
	}

	if s.InspectTxp && cursor != prog.OutLength {
		return &errs.InspectFailure{
			Probe: "tiling",
			Err:   fmt.Errorf("%s/hap%d/%s: instructions cover %d bytes, out_length=%d", prog.Patient, prog.Haplotype, prog.TranscriptID, cursor, prog.OutLength),
		}
	}
	return nil
}
