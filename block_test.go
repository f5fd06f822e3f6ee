package beg

import (
	"math/rand"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// randomBlock returns a block whose rows are mostly biallelic, with every
// fifth row tri-allelic.
func randomBlock(rng *rand.Rand, chrom string, nRows, nSamples int, phased bool) *Block {
	biallelicCodes := 4
	if phased {
		biallelicCodes = 5
	}

	b := &Block{Chromosome: chrom, Samples: nSamples}
	for i := 0; i < nRows; i++ {
		r := NewRow(i, nSamples, 0)
		r.Chromosome = chrom
		r.Position = uint32(1000 + i)
		r.Alleles = []Allele{"A", "G"}
		limit := biallelicCodes
		if i%5 == 4 {
			r.Alleles = append(r.Alleles, "T")
			r.EncoderIndex = 1
			limit = 10
		}
		// Skew towards 0/0 so that rows look alike.
		for s := range r.Codes {
			if rng.Intn(3) == 0 {
				r.Codes[s] = byte(rng.Intn(limit))
			} else {
				r.Codes[s] = 1
			}
		}
		b.Rows = append(b.Rows, r)
	}
	return b
}

func codesByIndex(rows []*Row) map[int][]byte {
	return snapshot(rows)
}

func TestBlockRoundTrip(t *testing.T) {
	rng := rand.New(rand.NewSource(42))

	for _, phased := range []bool{false, true} {
		for _, strategy := range []Strategy{StrategyFeatureSort, StrategyIdentity} {
			for _, c := range []Compression{CompressionDisabled, CompressionZStandard, CompressionLZ4, CompressionSnappy} {
				opts := DefaultOptions()
				opts.Phased = phased
				opts.Strategy = strategy
				opts.Compression = c

				b := randomBlock(rng, "22", 40, 13, phased)
				expected := codesByIndex(b.Rows)

				enc, err := NewBlockEncoder(opts)
				require.NoError(t, err)
				eb, err := enc.Encode(b)
				require.NoError(t, err)

				assert.Equal(t, "22", eb.Chromosome)
				assert.Equal(t, 13, eb.Samples)
				assert.Equal(t, phased, eb.Phased)
				require.Len(t, eb.Order, 40)
				order := append([]int(nil), eb.Order...)
				sort.Ints(order)
				for i, idx := range order {
					require.Equal(t, i, idx)
				}
				if strategy == StrategyIdentity {
					assert.True(t, sort.IntsAreSorted(eb.Order))
				}

				decoded, err := DecodeBlock(eb)
				require.NoError(t, err)
				require.Len(t, decoded.Rows, 40)
				for i, r := range decoded.Rows {
					assert.Equal(t, i, r.Index)
					assert.Equal(t, "22", r.Chromosome)
					assert.Equal(t, expected[i], r.Codes, "phased=%v strategy=%s compression=%s row %d", phased, strategy, c, i)
					assert.Equal(t, i%5 == 4, !r.Biallelic())
				}
			}
		}
	}
}

func TestBlockFeatureSortGroupsLikeRows(t *testing.T) {
	b := &Block{Chromosome: "1", Samples: 4}
	for i, codes := range [][]byte{{3, 3, 3, 3}, {1, 1, 1, 1}, {3, 3, 3, 3}, {1, 1, 1, 1}} {
		r := NewRow(i, 4, 1)
		copy(r.Codes, codes)
		b.Rows = append(b.Rows, r)
	}

	opts := DefaultOptions()
	opts.Compression = CompressionDisabled
	enc, err := NewBlockEncoder(opts)
	require.NoError(t, err)
	eb, err := enc.Encode(b)
	require.NoError(t, err)

	assert.Equal(t, []int{1, 3, 0, 2}, eb.Order)
	assert.Equal(t, []byte{85, 85, 255, 255}, eb.Payload)
	assert.Equal(t, 4, eb.RawSize)
}

func TestBlockChecksumMismatch(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	opts := DefaultOptions()
	opts.Compression = CompressionDisabled

	enc, err := NewBlockEncoder(opts)
	require.NoError(t, err)
	eb, err := enc.Encode(randomBlock(rng, "3", 10, 9, false))
	require.NoError(t, err)

	eb.Payload[0] ^= 0xff
	_, err = DecodeBlock(eb)
	assert.Error(t, err)
	eb.Payload[0] ^= 0xff

	eb.Checksum++
	_, err = DecodeBlock(eb)
	assert.Error(t, err)
	eb.Checksum--

	_, err = DecodeBlock(eb)
	assert.NoError(t, err)

	eb.RawSize = -1
	_, err = DecodeBlock(eb)
	assert.Error(t, err)
	eb.RawSize = len(eb.Payload)

	eb.EncoderIndexes = eb.EncoderIndexes[1:]
	_, err = DecodeBlock(eb)
	assert.Error(t, err)
}

func TestBlockEncoderErrors(t *testing.T) {
	opts := DefaultOptions()
	opts.Threads = 0
	_, err := NewBlockEncoder(opts)
	assert.Error(t, err)

	enc, err := NewBlockEncoder(DefaultOptions())
	require.NoError(t, err)
	b := &Block{Chromosome: "1", Samples: 4, Rows: []*Row{NewRow(0, 3, 0)}}
	_, err = enc.Encode(b)
	assert.Error(t, err)
}

func TestBlockEmpty(t *testing.T) {
	opts := DefaultOptions()
	opts.Compression = CompressionDisabled
	enc, err := NewBlockEncoder(opts)
	require.NoError(t, err)
	eb, err := enc.Encode(&Block{Chromosome: "1", Samples: 5})
	require.NoError(t, err)
	assert.Equal(t, 0, eb.RawSize)

	b, err := DecodeBlock(eb)
	require.NoError(t, err)
	assert.Empty(t, b.Rows)
}
