package beg

import (
	"context"
	"sync"

	"github.com/carbocation/pfx"
	"golang.org/x/sync/errgroup"
)

// EncodeBlocks encodes blocks concurrently, at most opts.Threads at a time,
// and returns the results in input order. Each running block has its own
// encoder and scratch buffer; blocks share no mutable state. After the first
// error or cancellation no further blocks are started.
func EncodeBlocks(ctx context.Context, blocks []*Block, opts Options) ([]*EncodedBlock, error) {
	if err := opts.Validate(); err != nil {
		return nil, pfx.Err(err)
	}

	encoders := sync.Pool{
		New: func() interface{} {
			// opts were validated above, so construction cannot fail.
			enc, _ := NewBlockEncoder(opts)
			return enc
		},
	}

	out := make([]*EncodedBlock, len(blocks))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.Threads)

	for i := range blocks {
		if gctx.Err() != nil {
			break
		}
		i := i
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			enc := encoders.Get().(*BlockEncoder)
			defer encoders.Put(enc)

			eb, err := enc.Encode(blocks[i])
			if err != nil {
				return pfx.Err(err)
			}
			out[i] = eb
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, pfx.Err(err)
	}
	return out, nil
}
