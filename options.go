package beg

import (
	"fmt"
	"runtime"
)

const (
	// DefaultBlockSize is the number of rows gathered into one block.
	DefaultBlockSize = 1 << 12

	// MaxBlockSize bounds the rows of a block.
	MaxBlockSize = 1 << 14
)

// Options configures how blocks are switched and compressed. Options are
// fixed for a run; a writer passes the same Options to every block.
type Options struct {
	// Phased selects the phased codes and group codec.
	Phased bool

	// Strategy selects the row switcher.
	Strategy Strategy

	// Scored makes the feature switcher sort on reference allele counts.
	Scored bool

	Compression Compression

	// Level is the compressor level; 0 picks the compressor's default.
	Level int

	// Threads bounds the number of blocks encoded concurrently.
	Threads int

	// BlockSize is the maximum number of rows per block.
	BlockSize int
}

// DefaultOptions returns unphased feature switching with zstd, one worker per
// CPU.
func DefaultOptions() Options {
	return Options{
		Strategy:    StrategyFeatureSort,
		Compression: CompressionZStandard,
		Level:       DefaultZStandardLevel,
		Threads:     runtime.NumCPU(),
		BlockSize:   DefaultBlockSize,
	}
}

// Validate reports the first invalid setting.
func (o Options) Validate() error {
	if o.Strategy != StrategyFeatureSort && o.Strategy != StrategyIdentity {
		return fmt.Errorf("invalid switcher strategy %d", uint32(o.Strategy))
	}
	if o.Compression.String() == "Illegal selection" {
		return fmt.Errorf("invalid compression %d", uint32(o.Compression))
	}
	if o.Compression == CompressionZStandard && (o.Level < 0 || o.Level > 22) {
		return fmt.Errorf("zstd level %d out of range [0, 22]", o.Level)
	}
	if o.Threads < 1 {
		return fmt.Errorf("threads must be positive, got %d", o.Threads)
	}
	if o.BlockSize < 1 || o.BlockSize > MaxBlockSize {
		return fmt.Errorf("block size %d out of range [1, %d]", o.BlockSize, MaxBlockSize)
	}
	return nil
}
