package beg

import "strings"

// ChromosomeLabel returns the standard label for a chromosome name as it
// appears in a VCF: a "chr" prefix is dropped and numeric sex and
// mitochondrial codes are translated.
func ChromosomeLabel(name string) string {
	label := name
	if len(label) > 3 && strings.EqualFold(label[:3], "chr") {
		label = label[3:]
	}

	switch strings.ToUpper(label) {
	case "23", "X":
		return "X"
	case "24", "Y":
		return "Y"
	case "25", "XY":
		return "XY"
	case "26", "M", "MT":
		return "MT"
	}
	return label
}
