package beg

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGroupCodecShapes(t *testing.T) {
	p := PhasedGroupCodec()
	assert.True(t, p.Phased())
	assert.Equal(t, 3, p.Arity())
	assert.Equal(t, 5, p.Base())

	u := UnphasedGroupCodec()
	assert.False(t, u.Phased())
	assert.Equal(t, 4, u.Arity())
	assert.Equal(t, 4, u.Base())

	all := GroupCodecs()
	assert.Equal(t, u, all[EncoderUnphased])
	assert.Equal(t, p, all[EncoderPhased])
	assert.Equal(t, p, GroupCodecFor(true))
	assert.Equal(t, u, GroupCodecFor(false))
}

func TestGroupCodecRoundTrip(t *testing.T) {
	for _, enc := range GroupCodecs() {
		codes := make([]byte, enc.Arity())
		total := pow(enc.Base(), enc.Arity())
		for n := 0; n < total; n++ {
			rest := n
			for i := len(codes) - 1; i >= 0; i-- {
				codes[i] = byte(rest % enc.Base())
				rest /= enc.Base()
			}

			group, err := enc.Encode(codes...)
			require.NoError(t, err)
			for pos, code := range codes {
				got, err := enc.Decode(group, pos)
				require.NoError(t, err)
				require.Equal(t, code, got, "phased=%v codes=%v pos=%d", enc.Phased(), codes, pos)
			}
		}
	}
}

func TestGroupCodecPadding(t *testing.T) {
	u := UnphasedGroupCodec()
	short, err := u.Encode(1, 2)
	require.NoError(t, err)
	full, err := u.Encode(1, 2, 2, 2)
	require.NoError(t, err)
	assert.Equal(t, full, short)
	assert.Equal(t, byte(1*64+2*16+2*4+2), short)

	p := PhasedGroupCodec()
	short, err = p.Encode(3)
	require.NoError(t, err)
	full, err = p.Encode(3, 3, 3)
	require.NoError(t, err)
	assert.Equal(t, full, short)

	short, err = p.Encode(1, 2)
	require.NoError(t, err)
	assert.Equal(t, byte(37), short)
}

func TestGroupCodecErrors(t *testing.T) {
	var arity *UnsupportedArityError
	var invalidCode *InvalidCodeError

	for _, enc := range GroupCodecs() {
		_, err := enc.Encode()
		require.True(t, errors.As(err, &arity))
		assert.Equal(t, 0, arity.Arity)

		_, err = enc.Encode(make([]byte, enc.Arity()+1)...)
		require.True(t, errors.As(err, &arity))
		assert.Equal(t, enc.Arity(), arity.Native)

		_, err = enc.Encode(0, byte(enc.Base()))
		require.True(t, errors.As(err, &invalidCode))
		assert.Equal(t, "code", invalidCode.What)

		_, err = enc.Decode(0, -1)
		assert.True(t, errors.As(err, &invalidCode))
		_, err = enc.Decode(0, enc.Arity())
		assert.True(t, errors.As(err, &invalidCode))
	}

	// 5^3 leaves byte values that no phased group uses.
	_, err := PhasedGroupCodec().Decode(125, 0)
	require.True(t, errors.As(err, &invalidCode))
	assert.Equal(t, "group code", invalidCode.What)
}

func TestGroupCodecEncodeRow(t *testing.T) {
	u := UnphasedGroupCodec()
	codes := []byte{1, 2, 3, 1, 2, 3}

	dst := make([]byte, 2)
	n, err := u.EncodeRow(dst, codes)
	require.NoError(t, err)
	require.Equal(t, 2, n)

	first, _ := u.Encode(1, 2, 3, 1)
	last, _ := u.Encode(2, 3)
	assert.Equal(t, []byte{first, last}, dst)

	var tooSmall *BufferTooSmallError
	_, err = u.EncodeRow(make([]byte, 1), codes)
	require.True(t, errors.As(err, &tooSmall))
	assert.Equal(t, 2, tooSmall.Need)

	n, err = u.EncodeRow(nil, nil)
	require.NoError(t, err)
	assert.Equal(t, 0, n)
}

func TestGroupCount(t *testing.T) {
	assert.Equal(t, 0, GroupCount(0, 4))
	assert.Equal(t, 1, GroupCount(1, 4))
	assert.Equal(t, 1, GroupCount(4, 4))
	assert.Equal(t, 2, GroupCount(5, 4))
	assert.Equal(t, 4, GroupCount(10, 3))
}
