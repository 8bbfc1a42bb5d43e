// Package pipeline wires components A-H together end to end: load the
// reference and VCF, build the patient map, compile and lower every
// (patient, haplotype, transcript) program, execute the chosen
// backend, and slice the result into output records (spec.md §2
// control flow).
package pipeline

import (
	"runtime"
	"sort"
	"sync"

	"github.com/inodb/vcf2prot/internal/compile"
	"github.com/inodb/vcf2prot/internal/config"
	"github.com/inodb/vcf2prot/internal/diagnostics"
	"github.com/inodb/vcf2prot/internal/errs"
	execpkg "github.com/inodb/vcf2prot/internal/exec"
	"github.com/inodb/vcf2prot/internal/fasta"
	"github.com/inodb/vcf2prot/internal/lower"
	"github.com/inodb/vcf2prot/internal/patientmap"
	"github.com/inodb/vcf2prot/internal/refindex"
	"github.com/inodb/vcf2prot/internal/slicer"
	"github.com/inodb/vcf2prot/internal/vcf"
	"go.uber.org/zap"
)

// Result is everything a caller needs after one run: the output
// records in deterministic order, plus counters for the `-s` stats
// summary.
type Result struct {
	Records            []slicer.Record
	Patients           int
	TranscriptsDropped int
	AnnotationsSkipped int
	DropReasons        map[string]int
	SkipReasons        map[string]int
}

// Run executes the full pipeline for opt.
func Run(opt config.Options, logger *zap.SugaredLogger, diag diagnostics.Settings) (Result, error) {
	ref, err := loadReference(opt.RefPath)
	if err != nil {
		return Result{}, err
	}
	logger.Infow("loaded reference", "transcripts", ref.Count())

	patients, skipped, err := loadPatientMap(opt.VCFPath)
	if err != nil {
		return Result{}, err
	}
	logger.Infow("ingested vcf", "patients", patients.NumPatients(), "annotations_skipped", len(skipped))

	compiled, dropped, err := compileAll(patients, ref, diag, logger)
	if err != nil {
		return Result{}, err
	}
	logger.Infow("compiled programs", "programs", countPrograms(compiled), "dropped", len(dropped))

	builder := lower.NewBuilder(ref)
	for _, progs := range compiled {
		for _, p := range progs {
			builder.Append(p)
		}
	}
	taskSet := builder.Build()

	backend := selectBackend(opt, diag, logger)
	result, err := backend.Execute(taskSet)
	if err != nil {
		return Result{}, err
	}

	records := slicer.Slice(taskSet.Descriptors, result)

	dropReasons := make(map[string]int)
	for _, d := range dropped {
		dropReasons[d.Reason.String()]++
		logger.Warnw("transcript dropped", "patient", d.Patient, "haplotype", d.Haplotype, "transcript_id", d.TranscriptID, "reason", d.Reason.String())
	}
	skipReasons := make(map[string]int)
	for _, s := range skipped {
		skipReasons[s.Reason.String()]++
		logger.Warnw("annotation skipped", "reason", s.Reason.String(), "annotation", s.Raw)
	}

	return Result{
		Records:            records,
		Patients:           patients.NumPatients(),
		TranscriptsDropped: len(dropped),
		AnnotationsSkipped: len(skipped),
		DropReasons:        dropReasons,
		SkipReasons:        skipReasons,
	}, nil
}

func loadReference(path string) (*refindex.Index, error) {
	r, err := fasta.Open(path)
	if err != nil {
		return nil, &errs.FatalInput{Reason: "open reference FASTA", Err: err}
	}
	defer r.Close()

	idx, err := refindex.Build(fastaSource{r})
	if err != nil {
		return nil, err
	}
	return idx, nil
}

// fastaSource adapts *fasta.Reader to refindex.Source.
type fastaSource struct{ r *fasta.Reader }

func (s fastaSource) Next() (id string, sequence string, ok bool, err error) {
	return s.r.Next()
}

func loadPatientMap(path string) (*patientmap.Map, []errs.AnnotationSkipped, error) {
	r, err := vcf.Open(path)
	if err != nil {
		return nil, nil, &errs.FatalInput{Reason: "open VCF", Err: err}
	}
	defer r.Close()

	if err := r.ReadHeader(); err != nil {
		return nil, nil, &errs.FatalInput{Reason: "read VCF header", Err: err}
	}

	m := patientmap.New(r.SampleNames())
	var skipped []errs.AnnotationSkipped
	for {
		rec, ok, err := r.Next()
		if err != nil {
			return nil, nil, &errs.FatalInput{Reason: "read VCF record", Err: err}
		}
		if !ok {
			break
		}
		skipped = append(skipped, m.Ingest(rec)...)
	}

	return m, skipped, nil
}

// compileAll runs the Instruction Compiler across every patient in
// parallel (spec.md §5): each worker owns a contiguous range of patient
// indices and writes only into its own slot of the per-patient result
// slice, so no locking is needed on the hot path. Results are later
// replayed patient-by-patient, in header order, so Task Lowering sees a
// stable order regardless of how the work was scheduled. Only the
// transcripts held by the Reference Index are visited (ref.Order()), so
// mutations whose transcript id is absent from the index are never
// compiled: they produce no record and no error, and the run goes on.
func compileAll(patients *patientmap.Map, ref *refindex.Index, diag diagnostics.Settings, logger *zap.SugaredLogger) ([][]*compile.Program, []errs.TranscriptDropped, error) {
	n := patients.NumPatients()
	compiledByPatient := make([][]*compile.Program, n)
	if n == 0 {
		return compiledByPatient, nil, nil
	}

	workers := runtime.NumCPU()
	if workers > n {
		workers = n
	}
	if workers < 1 {
		workers = 1
	}
	chunk := (n + workers - 1) / workers

	transcriptOrder := ref.Order()

	var wg sync.WaitGroup
	var mu sync.Mutex
	var allDropped []errs.TranscriptDropped
	var firstInspectFailure *errs.InspectFailure
	var firstFatal error

	for w := 0; w < workers; w++ {
		start := w * chunk
		if start >= n {
			break
		}
		end := start + chunk
		if end > n {
			end = n
		}
		wg.Add(1)
		go func(start, end int) {
			defer wg.Done()
			var localDropped []errs.TranscriptDropped
			for patientIdx := start; patientIdx < end; patientIdx++ {
				patientID := patients.PatientID(patientIdx)
				var progs []*compile.Program
				for hap := 0; hap < 2; hap++ {
					for _, transcriptID := range transcriptOrder {
						muts := patients.Mutations(patientIdx, hap, transcriptID)
						if len(muts) == 0 {
							continue
						}
						refSeq, err := ref.MustSequence(transcriptID)
						if err != nil {
							mu.Lock()
							if firstFatal == nil {
								firstFatal = err
							}
							mu.Unlock()
							return
						}
						prog, drop := compile.Compile(patientID, hap, transcriptID, refSeq, muts)
						if drop != nil {
							localDropped = append(localDropped, *drop)
							continue
						}
						if prog == nil {
							continue
						}
						if fail := diagnostics.InspectProgram(diag, prog); fail != nil {
							logger.Warnw("inspect failure", "probe", fail.Probe, "err", fail.Err)
							if diag.PanicInspectErr {
								mu.Lock()
								if firstInspectFailure == nil {
									firstInspectFailure = fail
								}
								mu.Unlock()
							}
						}
						progs = append(progs, prog)
					}
				}
				compiledByPatient[patientIdx] = progs
			}
			mu.Lock()
			allDropped = append(allDropped, localDropped...)
			mu.Unlock()
		}(start, end)
	}
	wg.Wait()

	if firstFatal != nil {
		return nil, nil, firstFatal
	}
	if firstInspectFailure != nil {
		return nil, nil, firstInspectFailure
	}

	sort.Slice(allDropped, func(i, j int) bool {
		if allDropped[i].Patient != allDropped[j].Patient {
			return allDropped[i].Patient < allDropped[j].Patient
		}
		if allDropped[i].Haplotype != allDropped[j].Haplotype {
			return allDropped[i].Haplotype < allDropped[j].Haplotype
		}
		return allDropped[i].TranscriptID < allDropped[j].TranscriptID
	})

	return compiledByPatient, allDropped, nil
}

func countPrograms(compiled [][]*compile.Program) int {
	n := 0
	for _, progs := range compiled {
		n += len(progs)
	}
	return n
}

func selectBackend(opt config.Options, diag diagnostics.Settings, logger *zap.SugaredLogger) execpkg.Backend {
	switch opt.Backend {
	case config.BackendSingleThread:
		return execpkg.CPU{Workers: 1, Debug: diag.DebugCPUExec, Logger: logger}
	case config.BackendGPU:
		return execpkg.GPU{Debug: diag.DebugGPU, Logger: logger}
	default:
		return execpkg.CPU{Workers: opt.Workers, Debug: diag.DebugCPUExec, Logger: logger}
	}
}
