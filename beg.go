// Package beg implements the byte-encoded genotype (BEG) codec: dense integer
// codes for per-sample genotype calls, packing of several samples' codes into
// a single byte, and reordering of variant rows ahead of block compression.
//
// All lookup tables are built once and are read-only afterwards, so codecs,
// the transfer utility and group codecs may be shared freely across
// goroutines. Rows, blocks and scratch buffers are owned by one goroutine at
// a time.
package beg

const (
	// MaxAlleleNum is the number of distinct non-missing allele values a
	// site may carry.
	MaxAlleleNum = 15

	// MissingAllele is the reserved allele index for a missing call (".").
	MissingAllele = MaxAlleleNum

	// AlleleAlphabetSize is the number of allele indices, missing included.
	AlleleAlphabetSize = MaxAlleleNum + 1

	MinPloidy = 1
	MaxPloidy = 4
)

const (
	// MissingCode is the BEG code of a call with any missing allele.
	MissingCode byte = 0

	// BEGCodeCount is the size of the diploid BEG code space: every ordered
	// pair of non-missing alleles plus the missing sentinel.
	BEGCodeCount = MaxAlleleNum*MaxAlleleNum + 1
)

// Group codec shapes. The base is the number of single-sample codes a group
// admits; base^arity must fit in a byte.
const (
	PhasedGroupArity   = 3
	PhasedGroupBase    = 5
	UnphasedGroupArity = 4
	UnphasedGroupBase  = 4
)

// Encoder indexes carried by rows and used to select group decoders.
const (
	EncoderUnphased = 0
	EncoderPhased   = 1
)

// MapGenotype returns the BEG code of the ordered diploid call (i, j). Both
// alleles must be non-missing indices in [0, MaxAlleleNum). Codes for calls
// whose larger allele is m occupy [m*m+1, (m+1)*(m+1)], first (0,m)..(m,m)
// and then (m,0)..(m,m-1), so biallelic calls map to 0/0=1, 0/1=2, 1/1=3
// and 1|0=4.
func MapGenotype(i, j int) byte {
	if i <= j {
		return byte(j*j + 1 + i)
	}
	return byte(i*i + 1 + i + 1 + j)
}

// phasedIndex converts a phased flag into a decoder or reverser index.
func phasedIndex(phased bool) int {
	if phased {
		return EncoderPhased
	}
	return EncoderUnphased
}
