package beg

import (
	"context"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func randomBlocks(seed int64, n int) []*Block {
	rng := rand.New(rand.NewSource(seed))
	blocks := make([]*Block, n)
	for i := range blocks {
		blocks[i] = randomBlock(rng, "7", 20+i, 11, false)
	}
	return blocks
}

func TestEncodeBlocksMatchesSerial(t *testing.T) {
	opts := DefaultOptions()
	opts.Threads = 4

	parallel, err := EncodeBlocks(context.Background(), randomBlocks(3, 17), opts)
	require.NoError(t, err)
	require.Len(t, parallel, 17)

	enc, err := NewBlockEncoder(opts)
	require.NoError(t, err)
	for i, b := range randomBlocks(3, 17) {
		serial, err := enc.Encode(b)
		require.NoError(t, err)
		assert.Equal(t, serial, parallel[i], "block %d", i)
	}
}

func TestEncodeBlocksSingleThread(t *testing.T) {
	opts := DefaultOptions()
	opts.Threads = 1
	opts.Compression = CompressionLZ4

	blocks := randomBlocks(5, 3)
	expected := make([]map[int][]byte, len(blocks))
	for i, b := range blocks {
		expected[i] = snapshot(b.Rows)
	}

	encoded, err := EncodeBlocks(context.Background(), blocks, opts)
	require.NoError(t, err)
	for i, eb := range encoded {
		b, err := DecodeBlock(eb)
		require.NoError(t, err)
		assert.Equal(t, expected[i], snapshot(b.Rows))
	}
}

func TestEncodeBlocksErrors(t *testing.T) {
	opts := DefaultOptions()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := EncodeBlocks(ctx, randomBlocks(1, 4), opts)
	assert.Error(t, err)

	bad := opts
	bad.BlockSize = 0
	_, err = EncodeBlocks(context.Background(), randomBlocks(1, 4), bad)
	assert.Error(t, err)

	blocks := randomBlocks(1, 4)
	blocks[2].Samples++
	_, err = EncodeBlocks(context.Background(), blocks, opts)
	assert.Error(t, err)

	out, err := EncodeBlocks(context.Background(), nil, opts)
	require.NoError(t, err)
	assert.Empty(t, out)
}
