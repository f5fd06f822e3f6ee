package beg

// GroupCodec packs up to Arity single-sample BEG codes, each below Base,
// into one byte by mixed-radix positional encoding, and unpacks them again.
type GroupCodec interface {
	// Phased reports which grouping convention the codec implements.
	Phased() bool

	// Arity is the number of codes packed into one group byte.
	Arity() int

	// Base is the number of single-sample codes admitted into a group.
	Base() int

	// Encode packs between 1 and Arity codes. Missing trailing slots repeat
	// the last supplied code.
	Encode(codes ...byte) (byte, error)

	// EncodeRow packs a whole row of codes into dst, Arity codes per byte,
	// and returns the number of bytes written. A short final group is padded
	// the same way Encode pads.
	EncodeRow(dst, codes []byte) (int, error)

	// Decode returns the code stored at pos within group.
	Decode(group byte, pos int) (byte, error)

	// ScoreOf returns the number of reference alleles the BEG code carries.
	ScoreOf(code byte) byte
}

type groupCodec struct {
	phased bool
	arity  int
	base   int
	size   int

	// table[group*arity+pos] is the code at pos of group.
	table []byte
}

var groupCodecs = [2]*groupCodec{
	EncoderUnphased: newGroupCodec(false, UnphasedGroupArity, UnphasedGroupBase),
	EncoderPhased:   newGroupCodec(true, PhasedGroupArity, PhasedGroupBase),
}

// PhasedGroupCodec packs three phased codes in base 5.
func PhasedGroupCodec() GroupCodec {
	return groupCodecs[EncoderPhased]
}

// UnphasedGroupCodec packs four unphased codes in base 4.
func UnphasedGroupCodec() GroupCodec {
	return groupCodecs[EncoderUnphased]
}

// GroupCodecFor returns the group codec for the given phasing.
func GroupCodecFor(phased bool) GroupCodec {
	return groupCodecs[phasedIndex(phased)]
}

// GroupCodecs returns both group codecs, indexed by EncoderUnphased and
// EncoderPhased.
func GroupCodecs() [2]GroupCodec {
	return [2]GroupCodec{groupCodecs[0], groupCodecs[1]}
}

func newGroupCodec(phased bool, arity, base int) *groupCodec {
	g := &groupCodec{
		phased: phased,
		arity:  arity,
		base:   base,
		size:   pow(base, arity),
	}
	g.table = make([]byte, g.size*arity)
	for group := 0; group < g.size; group++ {
		rest := group
		for pos := arity - 1; pos >= 0; pos-- {
			g.table[group*arity+pos] = byte(rest % base)
			rest /= base
		}
	}
	return g
}

func (g *groupCodec) Phased() bool { return g.phased }
func (g *groupCodec) Arity() int   { return g.arity }
func (g *groupCodec) Base() int    { return g.base }

func (g *groupCodec) Encode(codes ...byte) (byte, error) {
	k := len(codes)
	if k == 0 || k > g.arity {
		return 0, &UnsupportedArityError{Arity: k, Native: g.arity}
	}

	group := 0
	for i := 0; i < g.arity; i++ {
		code := codes[k-1]
		if i < k {
			code = codes[i]
		}
		if int(code) >= g.base {
			return 0, invalid("code", int(code), 0, g.base)
		}
		group = group*g.base + int(code)
	}
	return byte(group), nil
}

func (g *groupCodec) EncodeRow(dst, codes []byte) (int, error) {
	n := GroupCount(len(codes), g.arity)
	if len(dst) < n {
		return 0, &BufferTooSmallError{Need: n, Have: len(dst)}
	}
	for j := 0; j < n; j++ {
		end := (j + 1) * g.arity
		if end > len(codes) {
			end = len(codes)
		}
		group, err := g.Encode(codes[j*g.arity : end]...)
		if err != nil {
			return j, err
		}
		dst[j] = group
	}
	return n, nil
}

func (g *groupCodec) Decode(group byte, pos int) (byte, error) {
	if int(group) >= g.size {
		return 0, invalid("group code", int(group), 0, g.size)
	}
	if pos < 0 || pos >= g.arity {
		return 0, invalid("group position", pos, 0, g.arity)
	}
	return g.table[int(group)*g.arity+pos], nil
}

func (g *groupCodec) ScoreOf(code byte) byte {
	return scoreOf(code)
}

// GroupCount returns the number of group bytes needed for n codes packed
// arity at a time.
func GroupCount(n, arity int) int {
	return (n + arity - 1) / arity
}
