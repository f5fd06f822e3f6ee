package main

import (
	"flag"
	"os"
	"runtime"
	"sync"

	"github.com/carbocation/beg"
	"github.com/carbocation/pfx"
	"github.com/grailbio/base/grail"
	"github.com/grailbio/base/log"
)

// AlleleCounter tallies reference and alternate allele copies over the
// called genotypes of biallelic variants.
type AlleleCounter struct {
	Ref, Alt, Missing int
}

func (a *AlleleCounter) Add(o AlleleCounter) {
	a.Ref += o.Ref
	a.Alt += o.Alt
	a.Missing += o.Missing
}

func main() {
	path := flag.String("out", "", "Filename of the block payload file written by begpack")
	idxPath := flag.String("index", "", "Filename of the block index; defaults to <out>.idx")
	shutdown := grail.Init()
	defer shutdown()

	if *path == "" {
		flag.PrintDefaults()
		log.Fatalf("No payload file found")
	}
	if *idxPath == "" {
		*idxPath = *path + ".idx"
	}

	index, err := beg.OpenBlockIndex(*idxPath)
	if err != nil {
		log.Fatalf("%v", err)
	}
	defer index.Close()

	recs, err := index.Blocks()
	if err != nil {
		log.Fatalf("%v", err)
	}

	work := make(chan beg.BlockRecord)
	output := make(chan AlleleCounter)
	var wg sync.WaitGroup

	log.Printf("Launching %d workers", runtime.NumCPU())
	for i := 0; i < runtime.NumCPU(); i++ {
		wg.Add(1)
		go func(workerID int) {
			defer wg.Done()
			Worker(workerID, *path, index, work, output)
		}(i)
	}

	go func() {
		for _, rec := range recs {
			work <- rec
		}
		close(work)
		wg.Wait()
		close(output)
	}()

	accumulator := AlleleCounter{}
	for o := range output {
		accumulator.Add(o)
	}
	log.Printf("Final accumulated stats: %+v", accumulator)
}

// Each worker keeps its own payload handle and decodes whole blocks.
func Worker(workerID int, path string, index *beg.BlockIndex, work <-chan beg.BlockRecord, output chan<- AlleleCounter) {
	f, err := os.Open(path)
	if err != nil {
		log.Fatalf("worker %d: %v", workerID, pfx.Err(err))
	}
	defer f.Close()

	transfer := beg.DefaultTransfer()
	for rec := range work {
		eb, err := index.Load(f, rec)
		if err != nil {
			log.Fatalf("worker %d: %v", workerID, err)
		}
		b, err := beg.DecodeBlock(eb)
		if err != nil {
			log.Fatalf("worker %d: %v", workerID, err)
		}

		ac := AlleleCounter{}
		for _, r := range b.Rows {
			// Only biallelic variants
			if !r.Biallelic() {
				continue
			}
			for _, code := range r.Codes {
				if code == beg.MissingCode {
					ac.Missing++
					continue
				}
				ref := int(transfer.ScoreOf(code))
				ac.Ref += ref
				ac.Alt += 2 - ref
			}
		}
		output <- ac
	}
}
