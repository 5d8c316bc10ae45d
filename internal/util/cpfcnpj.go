package util

import "strings"

// FormatCpfCnpj normalizes a Brazilian tax id to its canonical punctuation:
// 000.000.000-00 for CPF (11 digits) or 00.000.000/0000-00 for CNPJ (14
// digits). Inputs with any other digit count are returned trimmed but
// untouched; this is formatting only, no checksum validation.
func FormatCpfCnpj(s string) string {
	s = strings.TrimSpace(s)
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	d := b.String()
	switch len(d) {
	case 11:
		return d[:3] + "." + d[3:6] + "." + d[6:9] + "-" + d[9:]
	case 14:
		return d[:2] + "." + d[2:5] + "." + d[5:8] + "/" + d[8:12] + "-" + d[12:]
	default:
		return s
	}
}
