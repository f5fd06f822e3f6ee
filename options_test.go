package beg

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOptionsValidate(t *testing.T) {
	require.NoError(t, DefaultOptions().Validate())

	bad := []func(o *Options){
		func(o *Options) { o.Strategy = Strategy(7) },
		func(o *Options) { o.Compression = Compression(7) },
		func(o *Options) { o.Level = 23 },
		func(o *Options) { o.Level = -1 },
		func(o *Options) { o.Threads = 0 },
		func(o *Options) { o.BlockSize = 0 },
		func(o *Options) { o.BlockSize = MaxBlockSize + 1 },
	}
	for i, f := range bad {
		o := DefaultOptions()
		f(&o)
		assert.Error(t, o.Validate(), "case %d", i)
	}

	o := DefaultOptions()
	o.Compression = CompressionSnappy
	o.Level = 99
	assert.NoError(t, o.Validate())
}
