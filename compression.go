package beg

import (
	"fmt"
	"strings"
	"sync"

	"github.com/carbocation/pfx"
	"github.com/golang/snappy"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

// Compression indicates how (and whether) a block payload is compressed
type Compression uint32

const (
	CompressionDisabled Compression = iota
	CompressionZStandard
	CompressionLZ4
	CompressionSnappy
)

// DefaultZStandardLevel is the zstd level used when none is requested.
const DefaultZStandardLevel = 3

func (c Compression) String() string {
	switch c {
	case CompressionDisabled:
		return "none"
	case CompressionZStandard:
		return "zstd"
	case CompressionLZ4:
		return "lz4"
	case CompressionSnappy:
		return "snappy"

	default:
		return "Illegal selection"
	}
}

// ParseCompression returns the compression named by s.
func ParseCompression(s string) (Compression, error) {
	switch strings.ToLower(s) {
	case "none", "disabled", "":
		return CompressionDisabled, nil
	case "zstd", "zstandard":
		return CompressionZStandard, nil
	case "lz4":
		return CompressionLZ4, nil
	case "snappy":
		return CompressionSnappy, nil
	}
	return 0, fmt.Errorf("unknown compression %q", s)
}

// One encoder pool per zstd.EncoderLevel (1 to 4).
var (
	zstdEncoderPools [5]sync.Pool
	zstdDecoderPool  sync.Pool
)

func getZstdEncoder(level zstd.EncoderLevel) (*zstd.Encoder, error) {
	if v := zstdEncoderPools[level].Get(); v != nil {
		return v.(*zstd.Encoder), nil
	}
	return zstd.NewWriter(nil, zstd.WithEncoderLevel(level))
}

func getZstdDecoder() (*zstd.Decoder, error) {
	if v := zstdDecoderPool.Get(); v != nil {
		return v.(*zstd.Decoder), nil
	}
	return zstd.NewReader(nil)
}

// Compress compresses src with c and returns the payload together with the
// compression that was actually applied: LZ4 reports incompressible input,
// which is then stored with CompressionDisabled. level is only used by zstd;
// 0 selects DefaultZStandardLevel.
func Compress(c Compression, level int, src []byte) ([]byte, Compression, error) {
	switch c {
	case CompressionDisabled:
		return append([]byte(nil), src...), CompressionDisabled, nil

	case CompressionZStandard:
		if level == 0 {
			level = DefaultZStandardLevel
		}
		zl := zstd.EncoderLevelFromZstd(level)
		enc, err := getZstdEncoder(zl)
		if err != nil {
			return nil, c, pfx.Err(err)
		}
		defer zstdEncoderPools[zl].Put(enc)
		return enc.EncodeAll(src, nil), c, nil

	case CompressionLZ4:
		dst := make([]byte, lz4.CompressBlockBound(len(src)))
		n, err := lz4.CompressBlock(src, dst, nil)
		if err != nil {
			return nil, c, pfx.Err(err)
		}
		if n == 0 {
			return append([]byte(nil), src...), CompressionDisabled, nil
		}
		return dst[:n], c, nil

	case CompressionSnappy:
		return snappy.Encode(nil, src), c, nil
	}

	return nil, c, pfx.Err(fmt.Errorf("compression %s is not supported", c))
}

// Decompress inflates src, which was compressed with c from rawSize bytes.
func Decompress(c Compression, src []byte, rawSize int) ([]byte, error) {
	if rawSize < 0 {
		return nil, pfx.Err(fmt.Errorf("negative raw size %d for %s payload", rawSize, c))
	}

	var (
		out []byte
		err error
	)

	switch c {
	case CompressionDisabled:
		out = src

	case CompressionZStandard:
		out, err = DecompressZStandard(make([]byte, 0, rawSize), src)

	case CompressionLZ4:
		out = make([]byte, rawSize)
		var n int
		n, err = lz4.UncompressBlock(src, out)
		out = out[:n]

	case CompressionSnappy:
		out, err = snappy.Decode(make([]byte, rawSize), src)

	default:
		err = fmt.Errorf("compression %s is not supported", c)
	}

	if err != nil {
		return nil, pfx.Err(err)
	}
	if len(out) != rawSize {
		return nil, pfx.Err(fmt.Errorf("%s payload inflated to %d bytes, expected %d", c, len(out), rawSize))
	}
	return out, nil
}

// DecompressZStandard decompresses Zstd compressed data, appending to dst.
func DecompressZStandard(dst, src []byte) ([]byte, error) {
	dec, err := getZstdDecoder()
	if err != nil {
		return nil, pfx.Err(err)
	}
	defer zstdDecoderPool.Put(dec)
	return dec.DecodeAll(src, dst)
}
