package catalog

import (
	"sort"
	"unicode/utf16"
)

// Compare orders category names by UTF-16 code units, the order used by the
// site tooling that consumes the catalog. It returns -1, 0 or +1.
func Compare(a, b string) int {
	if a == b {
		return 0
	}
	ua := utf16.Encode([]rune(a))
	ub := utf16.Encode([]rune(b))
	for i := 0; i < len(ua) && i < len(ub); i++ {
		if ua[i] != ub[i] {
			if ua[i] < ub[i] {
				return -1
			}
			return 1
		}
	}
	switch {
	case len(ua) < len(ub):
		return -1
	case len(ua) > len(ub):
		return 1
	default:
		return 0
	}
}

// Sort orders the catalog ascending by category. Equal keys keep their order.
func Sort(c Catalog) {
	sort.SliceStable(c, func(i, j int) bool {
		return Compare(c[i].Category, c[j].Category) < 0
	})
}

// IsSorted reports whether every adjacent pair is in ascending order.
func IsSorted(c Catalog) bool {
	for i := 1; i < len(c); i++ {
		if Compare(c[i-1].Category, c[i].Category) > 0 {
			return false
		}
	}
	return true
}
