package main

import (
	"flag"
	"fmt"
	"os"
	"os/user"
	"path/filepath"
	"strings"
	"time"

	"github.com/carbocation/beg"
	"github.com/carbocation/pfx"
	"github.com/grailbio/base/grail"
	"github.com/grailbio/base/log"
)

func main() {
	path := flag.String("out", "", "Filename of the block payload file written by begpack")
	idxPath := flag.String("index", "", "Filename of the block index; defaults to <out>.idx")
	verify := flag.Bool("verify", true, "Decode every block and check its checksum")
	shutdown := grail.Init()
	defer shutdown()

	if *path == "" {
		flag.PrintDefaults()
		log.Fatalf("No payload file given")
	}
	*path = expandHome(*path)
	if *idxPath == "" {
		*idxPath = *path + ".idx"
	}
	*idxPath = expandHome(*idxPath)

	log.Printf("Opening index: %s", *idxPath)
	index, err := beg.OpenBlockIndex(*idxPath)
	if err != nil {
		log.Fatalf("%v", err)
	}
	defer index.Close()

	payload, err := os.Open(*path)
	if err != nil {
		log.Fatalf("%v", pfx.Err(err))
	}
	defer payload.Close()

	recs, err := index.Blocks()
	if err != nil {
		log.Fatalf("%v", err)
	}

	if samples, err := index.Samples(); err != nil {
		log.Printf("No sample names recorded: %v", err)
	} else if len(samples) > 0 {
		log.Printf("%d samples, first is %s", len(samples), samples[0].SampleID)
	}

	var rows, missing, calls int
	for i, rec := range recs {
		if i < 10 {
			fmt.Printf("%d\t%s\t%d rows\t%d samples\t%s\t%d -> %d bytes\t%s\n", rec.BlockID, rec.Chromosome,
				rec.NRows, rec.NSamples, rec.Compression, rec.RawSize, rec.PayloadSize,
				time.Time(rec.CreationTime).Format(time.RFC3339))
		}
		rows += rec.NRows
		if !*verify {
			continue
		}

		eb, err := index.Load(payload, rec)
		if err != nil {
			log.Fatalf("%v", err)
		}
		b, err := beg.DecodeBlock(eb)
		if err != nil {
			log.Fatalf("block %d: %v", rec.BlockID, err)
		}
		for _, r := range b.Rows {
			for _, code := range r.Codes {
				if code == beg.MissingCode {
					missing++
				}
				calls++
			}
		}
	}

	log.Printf("Iterated over %d blocks holding %d variants", len(recs), rows)
	if *verify && calls > 0 {
		log.Printf("Verified %d calls, %.4f missing", calls, float64(missing)/float64(calls))
	}
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
