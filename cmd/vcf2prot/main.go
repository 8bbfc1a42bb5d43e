// Command vcf2prot compiles phased variant calls into personalized
// protein sequences: reference FASTA + multi-sample VCF in, one FASTA
// record per (patient, haplotype, transcript) out.
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/inodb/vcf2prot/internal/config"
	"github.com/inodb/vcf2prot/internal/diagnostics"
	"github.com/inodb/vcf2prot/internal/logging"
	"github.com/inodb/vcf2prot/internal/output"
	"github.com/inodb/vcf2prot/internal/pipeline"
	"github.com/inodb/vcf2prot/internal/stats"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	v := viper.New()
	v.SetConfigName(".vcf2prot")
	v.SetConfigType("yaml")
	if home, err := os.UserHomeDir(); err == nil {
		v.AddConfigPath(home)
	}
	_ = v.ReadInConfig()

	cmd := &cobra.Command{
		Use:   "vcf2prot",
		Short: "Compile phased VCF calls into personalized protein sequences",
		Long: `vcf2prot reads a reference protein FASTA and a phased, multi-sample VCF
carrying BCSQ-style consequence annotations and packed genotype fields,
and writes one FASTA sequence per (patient, haplotype, transcript) that
actually carries a non-synonymous mutation.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCompile(v)
		},
	}

	config.BindFlags(cmd, v)
	cmd.AddCommand(newConfigCmd(v))
	return cmd
}

func runCompile(v *viper.Viper) error {
	opt, err := config.Resolve(v)
	if err != nil {
		return err
	}

	logger, err := logging.New(opt.Verbose)
	if err != nil {
		return fmt.Errorf("building logger: %w", err)
	}
	defer logger.Sync() //nolint:errcheck

	diag := diagnostics.Load()
	if opt.Inspect {
		diag.InspectTxp = true
		diag.InspectInsGen = true
	}

	start := time.Now()
	res, err := pipeline.Run(opt, logger, diag)
	if err != nil {
		return fmt.Errorf("running pipeline: %w", err)
	}
	duration := time.Since(start)

	if err := os.MkdirAll(opt.OutDir, 0755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}
	outPath := opt.OutDir + "/sequences.fasta"
	f, err := os.Create(outPath)
	if err != nil {
		return fmt.Errorf("create output FASTA: %w", err)
	}
	writer := output.NewFastaWriter(f)
	if err := writer.WriteAll(res.Records); err != nil {
		f.Close()
		return fmt.Errorf("write output FASTA: %w", err)
	}
	if err := writer.Flush(); err != nil {
		f.Close()
		return fmt.Errorf("flush output FASTA: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close output FASTA: %w", err)
	}

	logger.Infow("run complete",
		"records", len(res.Records),
		"patients", res.Patients,
		"transcripts_dropped", res.TranscriptsDropped,
		"annotations_skipped", res.AnnotationsSkipped,
		"duration", duration,
		"output", outPath,
	)

	if opt.WriteStats {
		if err := writeStats(opt, res, duration); err != nil {
			return fmt.Errorf("writing run stats: %w", err)
		}
	}
	return nil
}

func writeStats(opt config.Options, res pipeline.Result, duration time.Duration) error {
	store, err := stats.Open(opt.StatsPath)
	if err != nil {
		return err
	}
	defer store.Close()

	summary := stats.Summary{
		RunID:              fmt.Sprintf("%d", time.Now().UnixNano()),
		Backend:            string(opt.Backend),
		Patients:           res.Patients,
		RecordsEmitted:     len(res.Records),
		TranscriptsDropped: res.TranscriptsDropped,
		AnnotationsSkipped: res.AnnotationsSkipped,
		DurationSeconds:    duration.Seconds(),
	}
	return store.RecordRun(summary, res.DropReasons, res.SkipReasons)
}
