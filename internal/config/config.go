// Package config resolves the CLI surface spec.md §6 describes
// ("delegated to the external driver") via cobra flags layered over a
// viper-backed config file, the same pattern the teacher stack uses
// for its own (previously unwired) config command.
package config

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// Backend selects the Execution Backend variant.
type Backend string

const (
	BackendSingleThread Backend = "stp"
	BackendMultiThread  Backend = "mtp"
	BackendGPU          Backend = "gpu"
)

// Options is the fully resolved run configuration.
type Options struct {
	VCFPath    string
	RefPath    string
	OutDir     string
	Backend    Backend
	Verbose    bool
	WriteStats bool
	StatsPath  string
	Inspect    bool
	Workers    int
}

// BindFlags registers the persistent flags spec.md §6 names onto cmd
// and binds each to key in v, so a ~/.vcf2prot.yaml value is used
// whenever the flag is left at its default.
func BindFlags(cmd *cobra.Command, v *viper.Viper) {
	flags := cmd.PersistentFlags()
	flags.StringP("vcf", "f", "", "phased, multi-sample VCF input path")
	flags.StringP("ref", "r", "", "reference protein FASTA path")
	flags.StringP("out", "o", "", "output directory")
	flags.StringP("backend", "g", string(BackendMultiThread), "execution backend: stp|mtp|gpu")
	flags.BoolP("verbose", "v", false, "verbose logging")
	flags.BoolP("stats", "s", false, "write a run stats summary")
	flags.String("stats-path", "", "stats database path (default: <out>/run_stats.duckdb)")
	flags.BoolP("inspect", "i", false, "inspect translation (enables INSPECT_TXP-style self-checks)")
	flags.Int("workers", 0, "CPU backend worker count (0 = runtime.NumCPU())")

	for _, name := range []string{"vcf", "ref", "out", "backend", "verbose", "stats", "stats-path", "inspect", "workers"} {
		_ = v.BindPFlag(name, flags.Lookup(name))
	}
}

// Resolve reads the bound flags/config values into Options and
// validates the required ones are present.
func Resolve(v *viper.Viper) (Options, error) {
	opt := Options{
		VCFPath:    v.GetString("vcf"),
		RefPath:    v.GetString("ref"),
		OutDir:     v.GetString("out"),
		Backend:    Backend(v.GetString("backend")),
		Verbose:    v.GetBool("verbose"),
		WriteStats: v.GetBool("stats"),
		StatsPath:  v.GetString("stats-path"),
		Inspect:    v.GetBool("inspect"),
		Workers:    v.GetInt("workers"),
	}

	if opt.VCFPath == "" {
		return opt, fmt.Errorf("missing required flag: -f/--vcf")
	}
	if opt.RefPath == "" {
		return opt, fmt.Errorf("missing required flag: -r/--ref")
	}
	if opt.OutDir == "" {
		return opt, fmt.Errorf("missing required flag: -o/--out")
	}
	switch opt.Backend {
	case BackendSingleThread, BackendMultiThread, BackendGPU:
	default:
		return opt, fmt.Errorf("invalid backend %q: want stp, mtp, or gpu", opt.Backend)
	}
	if opt.StatsPath == "" {
		opt.StatsPath = opt.OutDir + "/run_stats.duckdb"
	}
	return opt, nil
}
