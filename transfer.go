package beg

import "sync"

// Transfer converts between BEG codes without knowing which samples they
// belong to: canonicalisation of phased calls, REF/ALT label flips of
// biallelic calls, and decoding of group bytes. It also maps the diploid
// codes of the phased and unphased codecs onto BEG codes and back.
type Transfer struct {
	unphased [BEGCodeCount]byte
	reverser [2][]byte
	groups   [2]GroupCodec

	// fromCodec[idx][code] is the BEG code of a ploidy 2 codec code;
	// toCodec[idx][beg] is the inverse, with ordered calls sent to their
	// ascending code by the unphased codec.
	fromCodec [2][]byte
	toCodec   [2][]int
}

var (
	defaultTransfer     *Transfer
	defaultTransferOnce sync.Once
)

// begScores[code] is the number of allele-0 copies in the diploid call.
var begScores = func() (scores [BEGCodeCount]byte) {
	for i := 0; i < MaxAlleleNum; i++ {
		for j := 0; j < MaxAlleleNum; j++ {
			var score byte
			if i == 0 {
				score++
			}
			if j == 0 {
				score++
			}
			scores[MapGenotype(i, j)] = score
		}
	}
	return scores
}()

// DefaultTransfer returns the process-wide transfer utility.
func DefaultTransfer() *Transfer {
	defaultTransferOnce.Do(func() { defaultTransfer = NewTransfer() })
	return defaultTransfer
}

// NewTransfer builds the transfer tables.
func NewTransfer() *Transfer {
	t := &Transfer{
		reverser: [2][]byte{
			EncoderUnphased: {0, 3, 2, 1},
			EncoderPhased:   {0, 3, 4, 1, 2},
		},
		groups: GroupCodecs(),
	}

	// The missing sentinel stays at 0.
	for i := 0; i < MaxAlleleNum; i++ {
		for j := i; j < MaxAlleleNum; j++ {
			t.unphased[MapGenotype(i, j)] = MapGenotype(i, j)
		}
	}
	for i := 0; i < MaxAlleleNum; i++ {
		for j := 0; j < i; j++ {
			t.unphased[MapGenotype(i, j)] = MapGenotype(j, i)
		}
	}

	for _, phased := range []bool{false, true} {
		c := CodecFor(phased)
		idx := phasedIndex(phased)
		table := c.decode[2]

		from := make([]byte, c.CodeCount(2))
		for code := range from {
			a, b := table[code*2], table[code*2+1]
			if a == MissingAllele || b == MissingAllele {
				from[code] = MissingCode
				continue
			}
			from[code] = MapGenotype(int(a), int(b))
		}

		to := make([]int, BEGCodeCount)
		to[MissingCode] = codecPair(c, MissingAllele, MissingAllele)
		for i := 0; i < MaxAlleleNum; i++ {
			for j := 0; j < MaxAlleleNum; j++ {
				to[MapGenotype(i, j)] = codecPair(c, uint8(i), uint8(j))
			}
		}

		t.fromCodec[idx] = from
		t.toCodec[idx] = to
	}
	return t
}

// codecPair encodes a diploid call whose alleles are known to be valid.
func codecPair(c *Codec, a, b uint8) int {
	code, _ := c.Encode([]uint8{a, b})
	return code
}

// FromCodec returns the BEG code of a ploidy 2 code produced by the phased
// or unphased codec. Calls with a missing allele map to MissingCode.
func (t *Transfer) FromCodec(phased bool, code int) (byte, error) {
	from := t.fromCodec[phasedIndex(phased)]
	if code < 0 || code >= len(from) {
		return 0, invalid("codec code", code, 0, len(from))
	}
	return from[code], nil
}

// ToCodec returns the ploidy 2 code of the phased or unphased codec for a
// BEG code. MissingCode maps to the fully missing call.
func (t *Transfer) ToCodec(phased bool, code byte) (int, error) {
	if int(code) >= BEGCodeCount {
		return 0, invalid("code", int(code), 0, BEGCodeCount)
	}
	return t.toCodec[phasedIndex(phased)][code], nil
}

// ToUnphased returns the code of the ascending form of the call.
func (t *Transfer) ToUnphased(code byte) (byte, error) {
	if int(code) >= BEGCodeCount {
		return 0, invalid("code", int(code), 0, BEGCodeCount)
	}
	return t.unphased[code], nil
}

// Reverse swaps the REF and ALT labels of a biallelic call. phasedIndex
// selects the unphased (EncoderUnphased) or phased (EncoderPhased) table.
func (t *Transfer) Reverse(phasedIndex int, code byte) (byte, error) {
	if phasedIndex < 0 || phasedIndex >= len(t.reverser) {
		return 0, invalid("phased index", phasedIndex, 0, len(t.reverser))
	}
	table := t.reverser[phasedIndex]
	if int(code) >= len(table) {
		return 0, invalid("code", int(code), 0, len(table))
	}
	return table[code], nil
}

// GroupDecode returns the code at pos within group, using the unphased
// (index 0) or phased (index 1) group decoder.
func (t *Transfer) GroupDecode(groupDecoderIndex int, group byte, pos int) (byte, error) {
	if groupDecoderIndex < 0 || groupDecoderIndex >= len(t.groups) {
		return 0, invalid("group decoder index", groupDecoderIndex, 0, len(t.groups))
	}
	return t.groups[groupDecoderIndex].Decode(group, pos)
}

// ScoreOf returns the number of reference alleles the BEG code carries.
// Codes outside the BEG code space score 0.
func (t *Transfer) ScoreOf(code byte) byte {
	return scoreOf(code)
}

func scoreOf(code byte) byte {
	if int(code) >= BEGCodeCount {
		return 0
	}
	return begScores[code]
}
