package beg

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"strconv"

	"github.com/carbocation/pfx"
)

const (
	vcfChrom = iota
	vcfPos
	vcfID
	vcfRef
	vcfAlt
	vcfQual
	vcfFilter
	vcfInfo
	vcfFormat
	vcfFirstSample
)

// RowReader reads VCF data lines into rows of BEG codes.
type RowReader struct {
	RowsSeen    int
	RowsSkipped int

	// Samples is known once the #CHROM header or the first data line has
	// been read.
	Samples int

	// SampleNames holds the names from the #CHROM header, if any.
	SampleNames []Sample

	phased  bool
	scanner *bufio.Scanner
	err     error

	// pending holds a row read past the end of the previous block.
	pending *Row

	// free holds recycled rows that parseLine reuses.
	free []*Row
}

// NewRowReader returns a reader producing phased or unphased codes.
func NewRowReader(r io.Reader, phased bool) *RowReader {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 1<<20), 1<<30)
	return &RowReader{
		phased:  phased,
		scanner: scanner,
		Samples: -1,
	}
}

func (rr *RowReader) Error() error {
	return rr.err
}

// Read returns the next row, or nil at the end of input or on error.
// Variants with more than MaxAlleleNum alleles are skipped.
func (rr *RowReader) Read() *Row {
	for rr.err == nil && rr.scanner.Scan() {
		line := rr.scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		if line[0] == '#' {
			if bytes.HasPrefix(line, []byte("#CHROM")) {
				rr.SampleNames = parseSamples(line)
				rr.Samples = len(rr.SampleNames)
			}
			continue
		}

		row, err := rr.parseLine(line)
		if err != nil {
			rr.err = pfx.Err(fmt.Errorf("line for variant %d: %w", rr.RowsSeen+rr.RowsSkipped, err))
			return nil
		}
		if row == nil {
			rr.RowsSkipped++
			continue
		}
		rr.RowsSeen++
		return row
	}

	if err := rr.scanner.Err(); err != nil && rr.err == nil {
		rr.err = pfx.Err(err)
	}
	return nil
}

// ReadBlock returns up to max rows from a single chromosome, or nil when
// the input is exhausted.
func (rr *RowReader) ReadBlock(max int) *Block {
	first := rr.pending
	rr.pending = nil
	if first == nil {
		first = rr.Read()
	}
	if first == nil {
		return nil
	}

	b := &Block{
		Chromosome: first.Chromosome,
		Samples:    len(first.Codes),
		Rows:       []*Row{first},
	}
	for len(b.Rows) < max {
		r := rr.Read()
		if r == nil {
			break
		}
		if r.Chromosome != b.Chromosome {
			rr.pending = r
			break
		}
		b.Rows = append(b.Rows, r)
	}
	return b
}

// Recycle hands rows back to the reader once their block has been encoded.
// The reader overwrites them on later reads, so the caller must not keep
// them.
func (rr *RowReader) Recycle(rows []*Row) {
	rr.free = append(rr.free, rows...)
}

// newRow returns a recycled row reset for index, or a new one.
func (rr *RowReader) newRow(index int) *Row {
	for len(rr.free) > 0 {
		r := rr.free[len(rr.free)-1]
		rr.free[len(rr.free)-1] = nil
		rr.free = rr.free[:len(rr.free)-1]
		if len(r.Codes) == rr.Samples {
			r.Reset(index)
			return r
		}
	}
	// Phased groups are the narrower ones, so their feature is the longest.
	return NewRow(index, rr.Samples, GroupCount(rr.Samples, PhasedGroupArity))
}

// parseLine returns nil without error for a variant that must be skipped.
func (rr *RowReader) parseLine(line []byte) (*Row, error) {
	fields := bytes.Split(line, []byte{'\t'})
	if len(fields) < vcfFirstSample-1 {
		return nil, fmt.Errorf("expected at least %d columns, found %d", vcfFirstSample-1, len(fields))
	}
	if rr.Samples < 0 {
		rr.Samples = len(fields) - vcfFirstSample
		if rr.Samples < 0 {
			rr.Samples = 0
		}
	}
	if n := len(fields) - vcfFirstSample; n != rr.Samples && !(n < 0 && rr.Samples == 0) {
		return nil, fmt.Errorf("found %d samples, expected %d", n, rr.Samples)
	}

	alleles := []Allele{Allele(fields[vcfRef])}
	if alt := fields[vcfAlt]; !bytes.Equal(alt, []byte{'.'}) {
		for _, a := range bytes.Split(alt, []byte{','}) {
			alleles = append(alleles, Allele(a))
		}
	}
	if len(alleles) > MaxAlleleNum {
		return nil, nil
	}

	pos, err := strconv.ParseUint(string(fields[vcfPos]), 10, 32)
	if err != nil {
		return nil, err
	}

	row := rr.newRow(rr.RowsSeen)
	row.Chromosome = ChromosomeLabel(string(fields[vcfChrom]))
	row.Position = uint32(pos)
	row.ID = string(fields[vcfID])
	row.Alleles = alleles
	if len(alleles) > 2 {
		row.EncoderIndex = 1
	}
	if rr.Samples == 0 {
		return row, nil
	}

	gtIndex := -1
	for i, key := range bytes.Split(fields[vcfFormat], []byte{':'}) {
		if bytes.Equal(key, []byte("GT")) {
			gtIndex = i
			break
		}
	}

	// Codes stay MissingCode when there is no GT field.
	if gtIndex < 0 {
		return row, nil
	}

	limit := len(alleles)*len(alleles) + 1
	for s, field := range fields[vcfFirstSample:] {
		gt := subfield(field, gtIndex)
		if len(gt) == 0 {
			continue
		}
		code, err := EncodeGenotype(gt, rr.phased)
		if err != nil {
			return nil, err
		}
		if int(code) >= limit {
			return nil, fmt.Errorf("sample %d genotype %q references an allele beyond the %d listed", s, gt, len(alleles))
		}
		row.Codes[s] = code
	}
	return row, nil
}

// subfield returns the i-th ':'-separated value of field, or nil.
func subfield(field []byte, i int) []byte {
	for ; i > 0; i-- {
		j := bytes.IndexByte(field, ':')
		if j < 0 {
			return nil
		}
		field = field[j+1:]
	}
	if j := bytes.IndexByte(field, ':'); j >= 0 {
		return field[:j]
	}
	return field
}
