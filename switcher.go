package beg

import "sort"

// Switcher reorders the first count rows of a block in place before they are
// serialized. scratch is borrowed for the duration of the call only and must
// hold one row's feature. A failed call leaves row order unspecified but
// never touches the rows' codes.
type Switcher interface {
	Switch(enc GroupCodec, rows []*Row, count int, scratch []byte) error
}

// FeatureSwitcher sorts rows by the bytes of their grouped codes so that rows
// with similar calls end up next to each other. Rows with equal features keep
// their input order. Grouped (biallelic) and raw (multi-allelic) rows share
// one ordering: a scored multi-allelic row sorts among the biallelic rows
// whose features compare the same way, not after all of them.
type FeatureSwitcher struct {
	// Scored groups the per-sample reference allele counts instead of the
	// codes themselves. Rows whose codes do not fit the group codec are
	// always scored.
	Scored bool
}

func (s *FeatureSwitcher) Switch(enc GroupCodec, rows []*Row, count int, scratch []byte) error {
	if err := checkCount(rows, count); err != nil {
		return err
	}
	if arity := enc.Arity(); arity > maxArity {
		return &UnsupportedArityError{Arity: arity, Native: maxArity}
	}

	need := FeatureSize(enc, rows[:count])
	if len(scratch) < need {
		return &BufferTooSmallError{Need: need, Have: len(scratch)}
	}

	for _, r := range rows[:count] {
		n, err := s.feature(enc, r, scratch)
		if err != nil {
			return err
		}
		r.setFeature(scratch[:n])
	}

	sort.Stable(byFeature(rows[:count]))
	return nil
}

func (s *FeatureSwitcher) feature(enc GroupCodec, r *Row, dst []byte) (int, error) {
	if !s.Scored && fitsBase(r.Codes, enc.Base()) {
		return enc.EncodeRow(dst, r.Codes)
	}

	var scores [maxArity]byte
	arity := enc.Arity()
	n := GroupCount(len(r.Codes), arity)
	for j := 0; j < n; j++ {
		k := 0
		for i := j * arity; i < len(r.Codes) && k < arity; i++ {
			scores[k] = enc.ScoreOf(r.Codes[i])
			k++
		}
		group, err := enc.Encode(scores[:k]...)
		if err != nil {
			return j, err
		}
		dst[j] = group
	}
	return n, nil
}

// IdentitySwitcher leaves rows in input order. It is used when row order has
// to stay traceable to the source.
type IdentitySwitcher struct{}

func (IdentitySwitcher) Switch(enc GroupCodec, rows []*Row, count int, scratch []byte) error {
	if err := checkCount(rows, count); err != nil {
		return err
	}
	for _, r := range rows[:count] {
		r.Feature = r.Feature[:0]
	}
	sort.Stable(byIndex(rows[:count]))
	return nil
}

// FeatureSize returns the scratch bytes a feature switch over rows needs.
func FeatureSize(enc GroupCodec, rows []*Row) int {
	need := 0
	for _, r := range rows {
		if n := GroupCount(len(r.Codes), enc.Arity()); n > need {
			need = n
		}
	}
	return need
}

// maxArity bounds the group arity the feature switcher can score without
// allocating.
const maxArity = 8

func checkCount(rows []*Row, count int) error {
	if count < 0 || count > len(rows) {
		return &OutOfRangeError{Count: count, Len: len(rows)}
	}
	return nil
}

type byFeature []*Row

func (s byFeature) Len() int           { return len(s) }
func (s byFeature) Less(i, j int) bool { return compareRows(s[i], s[j]) < 0 }
func (s byFeature) Swap(i, j int)      { s[i], s[j] = s[j], s[i] }

type byIndex []*Row

func (s byIndex) Len() int           { return len(s) }
func (s byIndex) Less(i, j int) bool { return s[i].Index < s[j].Index }
func (s byIndex) Swap(i, j int)      { s[i], s[j] = s[j], s[i] }
