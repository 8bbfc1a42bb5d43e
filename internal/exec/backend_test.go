package exec

import (
	"testing"

	"github.com/inodb/vcf2prot/internal/lower"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleTaskSet() *lower.TaskSet {
	// "MK" copied from ref, then "S" from alt, then "AYQ" from ref.
	return &lower.TaskSet{
		ExecCode:     []int{lower.ExecCopyRef, lower.ExecWriteAlt, lower.ExecCopyRef},
		SrcStart:     []int{0, 0, 3},
		Length:       []int{2, 1, 3},
		OutStart:     []int{0, 2, 3},
		RefStream:    []byte("MKTAYQ"),
		AltStream:    []byte("S"),
		ResultLength: 6,
	}
}

func TestCPU_ExecutesTasksIntoResultBuffer(t *testing.T) {
	result, err := CPU{Workers: 2}.Execute(sampleTaskSet())
	require.NoError(t, err)
	assert.Equal(t, "MKSAYQ", string(result))
}

func TestCPU_SingleWorkerMatchesMultiWorker(t *testing.T) {
	single, err := CPU{Workers: 1}.Execute(sampleTaskSet())
	require.NoError(t, err)
	multi, err := CPU{Workers: 8}.Execute(sampleTaskSet())
	require.NoError(t, err)
	assert.Equal(t, single, multi)
}

func TestGPU_MatchesCPUByteForByte(t *testing.T) {
	cpuResult, err := CPU{}.Execute(sampleTaskSet())
	require.NoError(t, err)
	gpuResult, err := GPU{}.Execute(sampleTaskSet())
	require.NoError(t, err)
	assert.Equal(t, cpuResult, gpuResult)
}

func TestGPU_GridSizeDoesNotChangeResult(t *testing.T) {
	small, err := GPU{GridSize: 1}.Execute(sampleTaskSet())
	require.NoError(t, err)
	large, err := GPU{GridSize: 1024}.Execute(sampleTaskSet())
	require.NoError(t, err)
	assert.Equal(t, small, large)
}

func TestCPU_EmptyTaskSetProducesEmptyResult(t *testing.T) {
	result, err := CPU{}.Execute(&lower.TaskSet{ResultLength: 0})
	require.NoError(t, err)
	assert.Empty(t, result)
}

func TestCPU_MismatchedArraysIsFatalAlloc(t *testing.T) {
	bad := &lower.TaskSet{ExecCode: []int{0, 1}, SrcStart: []int{0}, Length: []int{1, 1}, OutStart: []int{0, 1}}
	_, err := CPU{}.Execute(bad)
	require.Error(t, err)
}
