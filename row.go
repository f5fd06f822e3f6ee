package beg

import "bytes"

// Allele is the textual allele (REF or one ALT) of a variant.
type Allele string

// Row holds one variant site's per-sample BEG codes together with the order
// metadata the switcher needs. Rows are created by the reader, reordered
// in place by a Switcher, and serialized by a Combiner.
type Row struct {
	Chromosome string
	Position   uint32
	ID         string
	Alleles    []Allele

	// Codes holds one BEG code per sample.
	Codes []byte

	// Index is the position of the row in the input, used to break feature
	// ties and to restore input order after decoding.
	Index int

	// EncoderIndex is 0 for biallelic rows, whose codes are grouped on
	// output, and 1 for multi-allelic rows, whose codes are stored raw.
	EncoderIndex int

	// Feature is the sort key computed by the feature switcher. It is
	// reused across blocks and never persisted.
	Feature []byte
}

// NewRow returns a row sized for nSamples codes with room for a feature of
// featureSize bytes, so that switching does not allocate.
func NewRow(index, nSamples, featureSize int) *Row {
	return &Row{
		Codes:   make([]byte, nSamples),
		Index:   index,
		Feature: make([]byte, 0, featureSize),
	}
}

// Biallelic reports whether the row is stored grouped.
func (r *Row) Biallelic() bool {
	return r.EncoderIndex == 0
}

// Reset clears the row for reuse with the given input index.
func (r *Row) Reset(index int) {
	r.Chromosome = ""
	r.Position = 0
	r.ID = ""
	r.Alleles = r.Alleles[:0]
	r.Index = index
	r.EncoderIndex = 0
	r.Feature = r.Feature[:0]
	for i := range r.Codes {
		r.Codes[i] = MissingCode
	}
}

// setFeature copies feature into the row's own buffer, growing it only when
// its capacity is insufficient.
func (r *Row) setFeature(feature []byte) {
	r.Feature = append(r.Feature[:0], feature...)
}

// compareRows orders rows by feature bytes, then by input index.
func compareRows(a, b *Row) int {
	if c := bytes.Compare(a.Feature, b.Feature); c != 0 {
		return c
	}
	return a.Index - b.Index
}

// fitsBase reports whether every code is admitted by a group codec of the
// given base.
func fitsBase(codes []byte, base int) bool {
	for _, c := range codes {
		if int(c) >= base {
			return false
		}
	}
	return true
}
