package drugs

import "regexp"

var (
	rangeRe  = regexp.MustCompile(`(\d+)\s*-\s*(\d+)`)
	numberRe = regexp.MustCompile(`\d+`)
)

// ParseRange extrae el primer rango entero ("10-15") o el primer entero
// suelto de un texto de guía. Un número solo cuenta como min y max a la vez.
// Devuelve ok=false si el texto no trae ningún número.
func ParseRange(s string) (min, max float64, ok bool) {
	if m := rangeRe.FindStringSubmatch(s); m != nil {
		lo := atoi(m[1])
		hi := atoi(m[2])
		if lo > hi {
			lo, hi = hi, lo
		}
		return float64(lo), float64(hi), true
	}
	if m := numberRe.FindString(s); m != "" {
		n := atoi(m)
		return float64(n), float64(n), true
	}
	return 0, 0, false
}

// atoi sobre dígitos ya validados por la regex.
func atoi(s string) int {
	n := 0
	for _, c := range s {
		n = n*10 + int(c-'0')
	}
	return n
}
