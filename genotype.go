package beg

import "fmt"

// ParseGenotype appends the allele indices of a VCF GT value such as "0|1",
// "1/2", "./." or "0" to dst, with "." mapped to MissingAllele. Every allele
// must be "." or plain decimal digits. The returned flag is true when the
// call has more than one allele and every separator is '|'. ParseGenotype
// does not allocate when dst has room for MaxPloidy alleles.
func ParseGenotype(dst []uint8, gt []byte) ([]uint8, bool, error) {
	if len(gt) == 0 {
		return dst, false, fmt.Errorf("empty genotype")
	}

	phased := true
	n := 0
	for i := 0; ; {
		if n == MaxPloidy {
			return dst, false, invalid("ploidy", n+1, MinPloidy, MaxPloidy+1)
		}
		if i >= len(gt) {
			return dst, false, fmt.Errorf("malformed genotype %q", gt)
		}

		if gt[i] == '.' {
			dst = append(dst, MissingAllele)
			i++
		} else {
			start, v := i, 0
			for ; i < len(gt) && gt[i] >= '0' && gt[i] <= '9'; i++ {
				if v <= MaxAlleleNum {
					v = v*10 + int(gt[i]-'0')
				}
			}
			if i == start {
				return dst, false, fmt.Errorf("malformed genotype %q", gt)
			}
			if v >= MaxAlleleNum {
				return dst, false, invalid("allele", v, 0, MaxAlleleNum)
			}
			dst = append(dst, uint8(v))
		}
		n++

		if i == len(gt) {
			break
		}
		switch gt[i] {
		case '|':
		case '/':
			phased = false
		default:
			return dst, false, fmt.Errorf("malformed genotype %q", gt)
		}
		i++
	}

	return dst, phased && n > 1, nil
}

// EncodeGenotype returns the diploid BEG code of a VCF GT value without
// allocating. The call is parsed with ParseGenotype, encoded by the codec
// for the requested phasing and mapped with Transfer.FromCodec, so a
// haploid call a is coded as a/a, any missing allele yields MissingCode,
// and unphased codes are those of the ascending call.
func EncodeGenotype(gt []byte, phased bool) (byte, error) {
	var buf [MaxPloidy]uint8
	alleles, _, err := ParseGenotype(buf[:0], gt)
	if err != nil {
		return 0, err
	}
	switch len(alleles) {
	case 1:
		alleles = append(alleles, alleles[0])
	case 2:
	default:
		return 0, invalid("ploidy", len(alleles), MinPloidy, 3)
	}

	code, err := CodecFor(phased).Encode(alleles)
	if err != nil {
		return 0, err
	}
	return DefaultTransfer().FromCodec(phased, code)
}
