// Package diagnostics centralizes the environment-variable-driven
// debug/inspect switches the core reads directly (spec.md §6). They
// only enable extra logging and self-checks; by contract they never
// alter output.
package diagnostics

import (
	"os"
)

// Settings is the resolved state of every diagnostic env var, read
// once at process startup.
type Settings struct {
	// DebugGPU traces the simulated GPU backend's kernel launch.
	DebugGPU bool
	// DebugCPUExec traces the CPU backend's per-worker task ranges.
	DebugCPUExec bool
	// DebugTxp restricts the INSPECT_* checks to one transcript id;
	// empty means all.
	DebugTxp string
	// InspectTxp re-verifies the tiling invariant on every compiled program.
	InspectTxp bool
	// InspectInsGen re-verifies instruction-generation monotonicity.
	InspectInsGen bool
	// PanicInspectErr promotes an InspectFailure from a logged warning to fatal.
	PanicInspectErr bool
}

// Load reads the diagnostic environment variables once. Each is a
// boolean (presence = true) except DEBUG_TXP, which carries a
// transcript id.
func Load() Settings {
	return Settings{
		DebugGPU:        boolEnv("DEBUG_GPU"),
		DebugCPUExec:    boolEnv("DEBUG_CPU_EXEC"),
		DebugTxp:        os.Getenv("DEBUG_TXP"),
		InspectTxp:      boolEnv("INSPECT_TXP"),
		InspectInsGen:   boolEnv("INSPECT_INS_GEN"),
		PanicInspectErr: boolEnv("PANIC_INSPECT_ERR"),
	}
}

// WantsTranscript reports whether the inspect checks apply to id: either no
// DEBUG_TXP filter was set, or it names this transcript exactly.
func (s Settings) WantsTranscript(id string) bool {
	return s.DebugTxp == "" || s.DebugTxp == id
}

// Inspecting reports whether any INSPECT_* switch is on.
func (s Settings) Inspecting() bool {
	return s.InspectTxp || s.InspectInsGen
}

func boolEnv(key string) bool {
	_, ok := os.LookupEnv(key)
	return ok
}
