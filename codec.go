package beg

import "sync"

// Codec maps one sample's genotype, a tuple of allele indices in
// [0, AlleleAlphabetSize), to a dense integer code and back. A phased codec
// ranks ordered tuples in base AlleleAlphabetSize; an unphased codec ranks
// the ascending form of the tuple among all multisets of the same size.
type Codec struct {
	phased bool
	counts [MaxPloidy + 1]int

	// decode[p] holds the tuple of every code for ploidy p, laid out
	// back to back so that code c occupies decode[p][c*p : c*p+p].
	decode [MaxPloidy + 1][]uint8
}

var (
	phasedCodec   *Codec
	unphasedCodec *Codec
	phasedOnce    sync.Once
	unphasedOnce  sync.Once
)

// binomials[n][k] is Choose(n, k) for every n and k the unphased rank needs.
var binomials = func() (t [AlleleAlphabetSize + MaxPloidy][MaxPloidy + 1]int) {
	for n := range t {
		for k := range t[n] {
			t[n][k] = Choose(n, k)
		}
	}
	return t
}()

// PhasedCodec returns the shared phased codec, building its decode tables on
// first use.
func PhasedCodec() *Codec {
	phasedOnce.Do(func() { phasedCodec = newCodec(true) })
	return phasedCodec
}

// UnphasedCodec returns the shared unphased codec, building its decode
// tables on first use.
func UnphasedCodec() *Codec {
	unphasedOnce.Do(func() { unphasedCodec = newCodec(false) })
	return unphasedCodec
}

// CodecFor returns the shared codec for the given phasing.
func CodecFor(phased bool) *Codec {
	if phased {
		return PhasedCodec()
	}
	return UnphasedCodec()
}

func newCodec(phased bool) *Codec {
	c := &Codec{phased: phased}
	for p := MinPloidy; p <= MaxPloidy; p++ {
		if phased {
			c.counts[p] = pow(AlleleAlphabetSize, p)
		} else {
			c.counts[p] = Choose(AlleleAlphabetSize+p-1, p)
		}
		c.decode[p] = make([]uint8, c.counts[p]*p)
	}

	var tuple [MaxPloidy]uint8
	for p := MinPloidy; p <= MaxPloidy; p++ {
		table := c.decode[p]
		if phased {
			for code := 0; code < c.counts[p]; code++ {
				rest := code
				for k := p - 1; k >= 0; k-- {
					table[code*p+k] = uint8(rest % AlleleAlphabetSize)
					rest /= AlleleAlphabetSize
				}
			}
			continue
		}
		c.fillUnphased(table, tuple[:p], 0, 0)
	}
	return c
}

// fillUnphased enumerates every ascending tuple, fixing position k onwards
// with values no smaller than from, and records it under its rank.
func (c *Codec) fillUnphased(table, tuple []uint8, k int, from uint8) {
	p := len(tuple)
	if k == p {
		copy(table[rankUnphased(tuple)*p:], tuple)
		return
	}
	for a := from; int(a) < AlleleAlphabetSize; a++ {
		tuple[k] = a
		c.fillUnphased(table, tuple, k+1, a)
	}
}

// Phased reports whether allele order is significant to this codec.
func (c *Codec) Phased() bool {
	return c.phased
}

// CodeCount returns the number of distinct codes for the given ploidy, or 0
// if the ploidy is unsupported.
func (c *Codec) CodeCount(ploidy int) int {
	if ploidy < MinPloidy || ploidy > MaxPloidy {
		return 0
	}
	return c.counts[ploidy]
}

// Encode returns the code of the given allele tuple. The ploidy is the length
// of the tuple. An unphased codec encodes every permutation of the tuple to
// the same code.
func (c *Codec) Encode(alleles []uint8) (int, error) {
	p := len(alleles)
	if p < MinPloidy || p > MaxPloidy {
		return 0, invalid("ploidy", p, MinPloidy, MaxPloidy+1)
	}
	for _, a := range alleles {
		if int(a) >= AlleleAlphabetSize {
			return 0, invalid("allele", int(a), 0, AlleleAlphabetSize)
		}
	}

	if c.phased {
		code := 0
		for _, a := range alleles {
			code = code*AlleleAlphabetSize + int(a)
		}
		return code, nil
	}

	var buf [MaxPloidy]uint8
	sorted := buf[:p]
	copy(sorted, alleles)
	for i := 1; i < p; i++ {
		for j := i; j > 0 && sorted[j] < sorted[j-1]; j-- {
			sorted[j], sorted[j-1] = sorted[j-1], sorted[j]
		}
	}
	return rankUnphased(sorted), nil
}

// Decode returns a fresh copy of the allele tuple for code at the given
// ploidy. Unphased codes decode to the ascending tuple.
func (c *Codec) Decode(ploidy, code int) ([]uint8, error) {
	if ploidy < MinPloidy || ploidy > MaxPloidy {
		return nil, invalid("ploidy", ploidy, MinPloidy, MaxPloidy+1)
	}
	dst := make([]uint8, ploidy)
	if err := c.DecodeInto(dst, ploidy, code); err != nil {
		return nil, err
	}
	return dst, nil
}

// DecodeInto writes the allele tuple for code into dst, which must hold at
// least ploidy bytes.
func (c *Codec) DecodeInto(dst []uint8, ploidy, code int) error {
	if ploidy < MinPloidy || ploidy > MaxPloidy {
		return invalid("ploidy", ploidy, MinPloidy, MaxPloidy+1)
	}
	if code < 0 || code >= c.counts[ploidy] {
		return invalid("code", code, 0, c.counts[ploidy])
	}
	if len(dst) < ploidy {
		return &BufferTooSmallError{Need: ploidy, Have: len(dst)}
	}
	copy(dst, c.decode[ploidy][code*ploidy:code*ploidy+ploidy])
	return nil
}

// rankUnphased ranks an ascending tuple in colexicographic order by mapping
// it to the strictly increasing sequence a[k]+k.
func rankUnphased(sorted []uint8) int {
	rank := 0
	for k, a := range sorted {
		rank += binomials[int(a)+k][k+1]
	}
	return rank
}

func pow(base, exp int) int {
	out := 1
	for i := 0; i < exp; i++ {
		out *= base
	}
	return out
}
