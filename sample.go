package beg

import (
	"bytes"
	"fmt"

	"github.com/carbocation/pfx"
)

const sampleSchema = `
CREATE TABLE IF NOT EXISTS Sample (
	sample_index INTEGER PRIMARY KEY,
	sample_id TEXT NOT NULL
);
`

type Sample struct {
	SampleIndex int    `db:"sample_index"`
	SampleID    string `db:"sample_id"`
}

// parseSamples reads the sample names from a VCF #CHROM header line.
func parseSamples(header []byte) []Sample {
	fields := bytes.Split(header, []byte{'\t'})
	if len(fields) <= vcfFirstSample {
		return nil
	}

	samples := make([]Sample, 0, len(fields)-vcfFirstSample)
	for i, name := range fields[vcfFirstSample:] {
		// Copy the name out of the scanner's buffer
		samples = append(samples, Sample{SampleIndex: i, SampleID: string(name)})
	}
	return samples
}

// PutSamples records the sample names of the payload, in code order.
func (b *BlockIndex) PutSamples(samples []Sample) error {
	if _, err := b.DB.Exec(sampleSchema); err != nil {
		return pfx.Err(err)
	}

	tx, err := b.DB.Beginx()
	if err != nil {
		return pfx.Err(err)
	}
	defer tx.Rollback()

	for i, s := range samples {
		if s.SampleIndex != i {
			return pfx.Err(fmt.Errorf("sample %q has index %d at position %d", s.SampleID, s.SampleIndex, i))
		}
		if _, err := tx.NamedExec("INSERT INTO Sample (sample_index, sample_id) VALUES (:sample_index, :sample_id)", s); err != nil {
			return pfx.Err(err)
		}
	}

	if err := tx.Commit(); err != nil {
		return pfx.Err(err)
	}
	return nil
}

// Samples returns the sample names recorded with PutSamples. An index
// without sample names yields an error.
func (b *BlockIndex) Samples() ([]Sample, error) {
	var samples []Sample
	if err := b.DB.Select(&samples, "SELECT * FROM Sample ORDER BY sample_index ASC"); err != nil {
		return nil, pfx.Err(err)
	}
	return samples, nil
}
