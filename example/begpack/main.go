package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/user"
	"path/filepath"
	"runtime"
	"strings"

	"cloud.google.com/go/storage"
	"github.com/carbocation/beg"
	"github.com/carbocation/pfx"
	"github.com/grailbio/base/grail"
	"github.com/grailbio/base/log"
	"github.com/klauspost/compress/gzip"
)

var (
	vcfPath      = flag.String("vcf", "", "VCF to pack: a local path, a .gz file, or gs://bucket/object")
	outPath      = flag.String("out", "", "Filename of the block payload file to write")
	idxPath      = flag.String("index", "", "Filename of the block index; defaults to <out>.idx")
	phased       = flag.Bool("phased", false, "Keep genotypes phased")
	noReordering = flag.Bool("no-reordering", false, "Keep rows in input order instead of feature sorting them")
	scored       = flag.Bool("scored", false, "Sort rows on reference allele counts rather than genotype codes")
	compressor   = flag.String("compressor", "zstd", "Block compressor: none, zstd, lz4 or snappy")
	level        = flag.Int("level", beg.DefaultZStandardLevel, "Compression level (zstd only)")
	threads      = flag.Int("threads", runtime.NumCPU(), "Number of blocks encoded concurrently")
	blockSize    = flag.Int("block-size", beg.DefaultBlockSize, "Maximum number of variants per block")
)

func main() {
	shutdown := grail.Init()
	defer shutdown()

	if *vcfPath == "" || *outPath == "" {
		flag.PrintDefaults()
		log.Fatalf("both -vcf and -out are required")
	}
	*outPath = expandHome(*outPath)
	if *idxPath == "" {
		*idxPath = *outPath + ".idx"
	}
	*idxPath = expandHome(*idxPath)

	opts := beg.DefaultOptions()
	opts.Phased = *phased
	opts.Scored = *scored
	opts.Level = *level
	opts.Threads = *threads
	opts.BlockSize = *blockSize
	if *noReordering {
		opts.Strategy = beg.StrategyIdentity
	}
	c, err := beg.ParseCompression(*compressor)
	if err != nil {
		log.Fatalf("%v", pfx.Err(err))
	}
	opts.Compression = c
	if err := opts.Validate(); err != nil {
		log.Fatalf("%v", pfx.Err(err))
	}

	if err := pack(context.Background(), *vcfPath, *outPath, *idxPath, opts); err != nil {
		log.Fatalf("%v", err)
	}
}

func pack(ctx context.Context, vcf, out, idx string, opts beg.Options) error {
	in, err := openInput(ctx, vcf)
	if err != nil {
		return pfx.Err(err)
	}
	defer in.Close()

	w, err := os.Create(out)
	if err != nil {
		return pfx.Err(err)
	}
	defer w.Close()

	index, err := beg.CreateBlockIndex(idx)
	if err != nil {
		return pfx.Err(err)
	}
	defer index.Close()

	log.Printf("Packing %s into %s (index %s, sqlite driver %s)", vcf, out, idx, beg.WhichSQLiteDriver())
	log.Printf("Switcher %s, compressor %s, %d threads", opts.Strategy, opts.Compression, opts.Threads)

	reader := beg.NewRowReader(in, opts.Phased)
	var (
		offset   int64
		blockID  int
		rawBytes int64
	)

	// Read one block per worker each round.
	for {
		blocks := make([]*beg.Block, 0, opts.Threads)
		for len(blocks) < cap(blocks) {
			b := reader.ReadBlock(opts.BlockSize)
			if b == nil {
				break
			}
			blocks = append(blocks, b)
		}
		if err := reader.Error(); err != nil {
			return pfx.Err(err)
		}
		if len(blocks) == 0 {
			break
		}
		if blockID == 0 && len(reader.SampleNames) > 0 {
			if err := index.PutSamples(reader.SampleNames); err != nil {
				return pfx.Err(err)
			}
		}

		encoded, err := beg.EncodeBlocks(ctx, blocks, opts)
		if err != nil {
			return pfx.Err(err)
		}

		for _, eb := range encoded {
			if _, err := w.Write(eb.Payload); err != nil {
				return pfx.Err(err)
			}
			if err := index.Put(blockID, offset, eb); err != nil {
				return pfx.Err(err)
			}
			log.Debug.Printf("block %d: %s, %d rows, %d -> %d bytes", blockID, eb.Chromosome, len(eb.Order), eb.RawSize, len(eb.Payload))

			offset += int64(len(eb.Payload))
			rawBytes += int64(eb.RawSize)
			blockID++
		}
		for _, b := range blocks {
			reader.Recycle(b.Rows)
		}
	}

	log.Printf("Packed %d variants (%d skipped) of %d samples into %d blocks: %d grouped bytes, %d compressed",
		reader.RowsSeen, reader.RowsSkipped, reader.Samples, blockID, rawBytes, offset)
	return nil
}

type multiCloser struct {
	io.Reader
	closers []io.Closer
}

func (m *multiCloser) Close() error {
	var first error
	for i := len(m.closers) - 1; i >= 0; i-- {
		if err := m.closers[i].Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// openInput opens a local or Google Storage VCF, decompressing .gz input.
func openInput(ctx context.Context, path string) (io.ReadCloser, error) {
	rc := &multiCloser{}

	if strings.HasPrefix(path, "gs://") {
		bucket, object, ok := strings.Cut(strings.TrimPrefix(path, "gs://"), "/")
		if !ok {
			return nil, pfx.Err(fmt.Errorf("%s does not look like gs://bucket/object", path))
		}
		client, err := storage.NewClient(ctx)
		if err != nil {
			return nil, pfx.Err(err)
		}
		rc.closers = append(rc.closers, client)

		obj, err := client.Bucket(bucket).Object(object).NewReader(ctx)
		if err != nil {
			rc.Close()
			return nil, pfx.Err(err)
		}
		rc.Reader = obj
		rc.closers = append(rc.closers, obj)
	} else {
		f, err := os.Open(expandHome(path))
		if err != nil {
			return nil, pfx.Err(err)
		}
		rc.Reader = f
		rc.closers = append(rc.closers, f)
	}

	if strings.HasSuffix(path, ".gz") || strings.HasSuffix(path, ".bgz") {
		gz, err := gzip.NewReader(rc.Reader)
		if err != nil {
			rc.Close()
			return nil, pfx.Err(err)
		}
		rc.Reader = gz
		rc.closers = append(rc.closers, gz)
	}

	return rc, nil
}

func expandHome(path string) string {
	if !strings.HasPrefix(path, "~/") {
		return path
	}
	usr, err := user.Current()
	if err != nil {
		log.Fatalf("%v", pfx.Err(err))
	}
	return filepath.Join(usr.HomeDir, path[2:])
}
