package bitmask

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDecode_MissingIsEmptyBothHaplotypes(t *testing.T) {
	assert.Equal(t, Genotype{}, Decode(nil))
	assert.Equal(t, Genotype{}, Decode([]byte(".")))
}

func TestDecode_PacksTwoBitsPerHaplotype(t *testing.T) {
	// hap0=1 (bits 00 01), hap1=2 (bits 10)
	g := Decode([]byte{0b00001001})
	assert.Equal(t, Genotype{Hap0: 1, Hap1: 2}, g)
}

func TestDecode_BothReference(t *testing.T) {
	g := Decode([]byte{0})
	assert.Equal(t, Genotype{}, g)
}

func TestGenotype_AltIndices(t *testing.T) {
	g := Genotype{Hap0: 0, Hap1: 3}
	assert.Nil(t, g.AltIndices(0))
	assert.Equal(t, []int{3}, g.AltIndices(1))
}

func TestDecode_Deterministic(t *testing.T) {
	raw := []byte{0b00001101}
	g1 := Decode(raw)
	g2 := Decode(raw)
	assert.Equal(t, g1, g2)
}
