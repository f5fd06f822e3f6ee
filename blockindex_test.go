package beg

import (
	"math/rand"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBlockIndexRoundTrip(t *testing.T) {
	dir := t.TempDir()
	idxPath := filepath.Join(dir, "test.beg.idx")
	payloadPath := filepath.Join(dir, "test.beg")

	index, err := CreateBlockIndex(idxPath)
	require.NoError(t, err)

	rng := rand.New(rand.NewSource(11))
	opts := DefaultOptions()
	opts.Phased = true
	enc, err := NewBlockEncoder(opts)
	require.NoError(t, err)

	f, err := os.Create(payloadPath)
	require.NoError(t, err)

	var (
		offset    int64
		expected  []map[int][]byte
		checksums []uint64
	)
	for i, chrom := range []string{"1", "1", "X"} {
		b := randomBlock(rng, chrom, 12+i, 6, true)
		expected = append(expected, snapshot(b.Rows))

		eb, err := enc.Encode(b)
		require.NoError(t, err)
		if i == 1 {
			eb.Checksum ^= 1 << 63
		}
		checksums = append(checksums, eb.Checksum)
		_, err = f.Write(eb.Payload)
		require.NoError(t, err)
		require.NoError(t, index.Put(i, offset, eb))
		offset += int64(len(eb.Payload))
	}
	require.NoError(t, f.Close())
	require.NoError(t, index.Close())

	index, err = OpenBlockIndex(idxPath)
	require.NoError(t, err)
	defer index.Close()

	recs, err := index.Blocks()
	require.NoError(t, err)
	require.Len(t, recs, 3)
	assert.Equal(t, "X", recs[2].Chromosome)
	assert.Equal(t, 14, recs[2].NRows)
	assert.Equal(t, 6, recs[0].NSamples)
	assert.True(t, recs[0].Phased)
	assert.Equal(t, CompressionZStandard, recs[0].Compression)
	assert.Equal(t, int64(0), recs[0].FileStartPosition)

	order, err := index.Order(1)
	require.NoError(t, err)
	require.Len(t, order, 13)
	for i, o := range order {
		assert.Equal(t, i, o.StoredPosition)
		assert.Equal(t, o.InputIndex%5 == 4, o.EncoderIndex == 1)
	}

	payload, err := os.Open(payloadPath)
	require.NoError(t, err)
	defer payload.Close()

	for i, rec := range recs {
		assert.Equal(t, checksums[i], uint64(rec.Checksum))

		eb, err := index.Load(payload, rec)
		require.NoError(t, err)

		b, err := DecodeBlock(eb)
		if i == 1 {
			assert.Error(t, err)
			continue
		}
		require.NoError(t, err)
		assert.Equal(t, expected[i], snapshot(b.Rows))
	}
}

func TestBlockIndexSamples(t *testing.T) {
	index, err := CreateBlockIndex(filepath.Join(t.TempDir(), "samples.idx"))
	require.NoError(t, err)
	defer index.Close()

	samples := parseSamples([]byte("#CHROM\tPOS\tID\tREF\tALT\tQUAL\tFILTER\tINFO\tFORMAT\tNA001\tNA002\tNA003"))
	require.Len(t, samples, 3)
	require.NoError(t, index.PutSamples(samples))

	got, err := index.Samples()
	require.NoError(t, err)
	assert.Equal(t, samples, got)

	assert.Error(t, index.PutSamples([]Sample{{SampleIndex: 5, SampleID: "NA005"}}))
}

func TestBlockIndexDuplicateBlock(t *testing.T) {
	index, err := CreateBlockIndex(filepath.Join(t.TempDir(), "dup.idx"))
	require.NoError(t, err)
	defer index.Close()

	eb := &EncodedBlock{
		Chromosome:     "2",
		Samples:        1,
		Order:          []int{0},
		EncoderIndexes: []uint8{0},
		Compression:    CompressionDisabled,
		RawSize:        1,
		Payload:        []byte{1},
	}
	require.NoError(t, index.Put(0, 0, eb))
	assert.Error(t, index.Put(0, 1, eb))

	// The failed insert left no extra row order behind.
	order, err := index.Order(0)
	require.NoError(t, err)
	assert.Len(t, order, 1)
}

func TestWhichSQLiteDriver(t *testing.T) {
	assert.Contains(t, []string{"sqlite", "sqlite3"}, WhichSQLiteDriver())
}
