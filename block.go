package beg

import (
	"fmt"
	"sort"

	"blainsmith.com/go/seahash"
	"github.com/carbocation/pfx"
)

// Block is a run of rows from one chromosome that is switched, serialized and
// compressed as a unit. Every row holds Samples codes.
type Block struct {
	Chromosome string
	Samples    int
	Rows       []*Row
}

// EncodedBlock is the compressed form of a Block together with what is needed
// to restore it: the input index and encoder index of every stored row.
type EncodedBlock struct {
	Chromosome     string
	Samples        int
	Phased         bool
	Order          []int
	EncoderIndexes []uint8
	Compression    Compression
	RawSize        int
	Payload        []byte

	// Checksum is the seahash of the uncompressed payload.
	Checksum uint64
}

// BlockEncoder switches, combines and compresses blocks. It owns a scratch
// buffer and so must not be shared between goroutines.
type BlockEncoder struct {
	opts     Options
	switcher Switcher
	scratch  []byte
	raw      []byte
}

// NewBlockEncoder returns an encoder for opts.
func NewBlockEncoder(opts Options) (*BlockEncoder, error) {
	if err := opts.Validate(); err != nil {
		return nil, pfx.Err(err)
	}
	switcher, err := NewSwitcher(opts.Strategy, opts.Scored)
	if err != nil {
		return nil, pfx.Err(err)
	}
	return &BlockEncoder{opts: opts, switcher: switcher}, nil
}

// Encode reorders b.Rows in place and returns the compressed block.
func (e *BlockEncoder) Encode(b *Block) (*EncodedBlock, error) {
	combiner := NewCombiner(e.opts.Phased, b.Samples)
	enc := combiner.Encoder()

	if need := GroupCount(b.Samples, enc.Arity()); cap(e.scratch) < need {
		e.scratch = make([]byte, need)
	}
	if err := e.switcher.Switch(enc, b.Rows, len(b.Rows), e.scratch[:cap(e.scratch)]); err != nil {
		return nil, pfx.Err(err)
	}

	eb := &EncodedBlock{
		Chromosome:     b.Chromosome,
		Samples:        b.Samples,
		Phased:         e.opts.Phased,
		Order:          make([]int, len(b.Rows)),
		EncoderIndexes: make([]uint8, len(b.Rows)),
	}

	e.raw = e.raw[:0]
	var err error
	for i, r := range b.Rows {
		if e.raw, err = combiner.Combine(e.raw, r); err != nil {
			return nil, pfx.Err(err)
		}
		eb.Order[i] = r.Index
		eb.EncoderIndexes[i] = uint8(r.EncoderIndex)
	}

	eb.RawSize = len(e.raw)
	eb.Checksum = seahash.Sum64(e.raw)
	if eb.Payload, eb.Compression, err = Compress(e.opts.Compression, e.opts.Level, e.raw); err != nil {
		return nil, pfx.Err(err)
	}
	return eb, nil
}

// DecodeBlock decompresses eb, verifies its checksum and returns its rows in
// input order.
func DecodeBlock(eb *EncodedBlock) (*Block, error) {
	raw, err := Decompress(eb.Compression, eb.Payload, eb.RawSize)
	if err != nil {
		return nil, pfx.Err(err)
	}
	if sum := seahash.Sum64(raw); sum != eb.Checksum {
		return nil, pfx.Err(fmt.Errorf("block %s checksum mismatch: got %016x, expected %016x", eb.Chromosome, sum, eb.Checksum))
	}
	if len(eb.EncoderIndexes) != len(eb.Order) {
		return nil, pfx.Err(fmt.Errorf("block %s has %d encoder indexes for %d rows", eb.Chromosome, len(eb.EncoderIndexes), len(eb.Order)))
	}

	combiner := NewCombiner(eb.Phased, eb.Samples)
	b := &Block{
		Chromosome: eb.Chromosome,
		Samples:    eb.Samples,
		Rows:       make([]*Row, len(eb.Order)),
	}
	for i, index := range eb.Order {
		encoderIndex := int(eb.EncoderIndexes[i])
		codes, n, err := combiner.Split(make([]byte, 0, combiner.Samples()), raw, encoderIndex)
		if err != nil {
			return nil, pfx.Err(err)
		}
		raw = raw[n:]
		b.Rows[i] = &Row{
			Chromosome:   eb.Chromosome,
			Codes:        codes,
			Index:        index,
			EncoderIndex: encoderIndex,
		}
	}
	if len(raw) != 0 {
		return nil, pfx.Err(fmt.Errorf("block %s has %d trailing bytes", eb.Chromosome, len(raw)))
	}

	sort.Sort(byIndex(b.Rows))
	return b, nil
}
