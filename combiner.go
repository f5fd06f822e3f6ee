package beg

import "fmt"

// Combiner serializes rows of a fixed sample count. Biallelic rows are packed
// through the group codec, Arity samples per byte, with a short final group
// padded by repeating its last code. Multi-allelic rows are copied raw.
type Combiner struct {
	enc      GroupCodec
	decoder  int
	transfer *Transfer
	nSamples int
}

// NewCombiner returns a combiner for rows of nSamples codes.
func NewCombiner(phased bool, nSamples int) *Combiner {
	return &Combiner{
		enc:      GroupCodecFor(phased),
		decoder:  phasedIndex(phased),
		transfer: DefaultTransfer(),
		nSamples: nSamples,
	}
}

// Samples returns the number of codes per row.
func (c *Combiner) Samples() int {
	return c.nSamples
}

// Encoder returns the group codec used for biallelic rows.
func (c *Combiner) Encoder() GroupCodec {
	return c.enc
}

// RowSize returns the serialized size of a row with the given encoder index.
func (c *Combiner) RowSize(encoderIndex int) int {
	if encoderIndex == 0 {
		return GroupCount(c.nSamples, c.enc.Arity())
	}
	return c.nSamples
}

// Combine appends the serialized form of row to dst.
func (c *Combiner) Combine(dst []byte, row *Row) ([]byte, error) {
	if len(row.Codes) != c.nSamples {
		return dst, fmt.Errorf("row %d has %d codes, expected %d", row.Index, len(row.Codes), c.nSamples)
	}
	if !row.Biallelic() {
		return append(dst, row.Codes...), nil
	}

	start := len(dst)
	dst = append(dst, make([]byte, c.RowSize(0))...)
	if _, err := c.enc.EncodeRow(dst[start:], row.Codes); err != nil {
		return dst[:start], err
	}
	return dst, nil
}

// Split decodes one serialized row from the front of src, appends its codes
// to dst and returns the number of bytes of src consumed.
func (c *Combiner) Split(dst, src []byte, encoderIndex int) ([]byte, int, error) {
	size := c.RowSize(encoderIndex)
	if len(src) < size {
		return dst, 0, &BufferTooSmallError{Need: size, Have: len(src)}
	}
	if encoderIndex != 0 {
		return append(dst, src[:size]...), size, nil
	}

	arity := c.enc.Arity()
	for i := 0; i < c.nSamples; i++ {
		code, err := c.transfer.GroupDecode(c.decoder, src[i/arity], i%arity)
		if err != nil {
			return dst, 0, err
		}
		dst = append(dst, code)
	}
	return dst, size, nil
}
