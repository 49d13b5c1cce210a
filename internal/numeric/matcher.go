package numeric

import "strings"

// FindMatch looks in candidates for the counterpart of target.
//
// target applies only when its last dotted segment equals suffix. Its stem
// (target minus that segment) is compared with each candidate stripped of
// its last one or its last two segments; the first candidate to match
// wins. The two-level form absorbs one extra wrapper level on the
// candidate side, e.g. target "fc.weight" matches "fc.module.weight".
func FindMatch(candidates []string, target, suffix string) (string, bool) {
	segs := strings.Split(target, ".")
	if segs[len(segs)-1] != suffix {
		return "", false
	}
	stem := strings.Join(segs[:len(segs)-1], ".")

	for _, c := range candidates {
		parts := strings.Split(c, ".")
		if stripSegments(parts, 1) == stem || stripSegments(parts, 2) == stem {
			return c, true
		}
	}
	return "", false
}

// stripSegments joins parts without its last n elements.
func stripSegments(parts []string, n int) string {
	if len(parts) < n {
		return ""
	}
	return strings.Join(parts[:len(parts)-n], ".")
}
