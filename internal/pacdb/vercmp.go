package pacdb

import "strings"

// VerCmp compares two pacman versions of the form [epoch:]pkgver[-pkgrel].
// It returns -1, 0 or 1. The release is only compared when both versions
// carry one, so "1.0" equals "1.0-3".
func VerCmp(a, b string) int {
	if a == b {
		return 0
	}

	e1, v1, r1 := parseEVR(a)
	e2, v2, r2 := parseEVR(b)

	ret := rpmvercmp(e1, e2)
	if ret == 0 {
		ret = rpmvercmp(v1, v2)
		if ret == 0 && r1 != "" && r2 != "" {
			ret = rpmvercmp(r1, r2)
		}
	}
	return ret
}

// parseEVR splits a version into epoch, version and release.
// The epoch defaults to "0" and the release is empty when absent.
func parseEVR(evr string) (epoch, version, release string) {
	i := 0
	for i < len(evr) && isDigit(evr[i]) {
		i++
	}

	rest := evr
	epoch = "0"
	if i < len(evr) && evr[i] == ':' {
		if i > 0 {
			epoch = evr[:i]
		}
		rest = evr[i+1:]
	}

	if j := strings.LastIndexByte(rest, '-'); j >= 0 {
		return epoch, rest[:j], rest[j+1:]
	}
	return epoch, rest, ""
}

// rpmvercmp compares alternating alphabetic and numeric segments.
// Numeric segments beat alphabetic ones and a trailing alpha segment
// never beats an empty one ("1.0" > "1.0alpha").
func rpmvercmp(a, b string) int {
	if a == b {
		return 0
	}

	one, two := 0, 0
	ptr1, ptr2 := 0, 0

	for one < len(a) && two < len(b) {
		for one < len(a) && !isAlnum(a[one]) {
			one++
		}
		for two < len(b) && !isAlnum(b[two]) {
			two++
		}

		if one >= len(a) || two >= len(b) {
			break
		}

		// differing separator runs: the longer one is newer
		if one-ptr1 != two-ptr2 {
			if one-ptr1 < two-ptr2 {
				return -1
			}
			return 1
		}

		ptr1, ptr2 = one, two

		isNum := isDigit(a[ptr1])
		if isNum {
			for ptr1 < len(a) && isDigit(a[ptr1]) {
				ptr1++
			}
			for ptr2 < len(b) && isDigit(b[ptr2]) {
				ptr2++
			}
		} else {
			for ptr1 < len(a) && isAlpha(a[ptr1]) {
				ptr1++
			}
			for ptr2 < len(b) && isAlpha(b[ptr2]) {
				ptr2++
			}
		}

		seg1, seg2 := a[one:ptr1], b[two:ptr2]

		if seg2 == "" {
			// numeric segment against alpha segment: numeric wins
			if isNum {
				return 1
			}
			return -1
		}

		if isNum {
			seg1 = strings.TrimLeft(seg1, "0")
			seg2 = strings.TrimLeft(seg2, "0")
			if len(seg1) > len(seg2) {
				return 1
			}
			if len(seg1) < len(seg2) {
				return -1
			}
		}

		if c := strings.Compare(seg1, seg2); c != 0 {
			return c
		}

		one, two = ptr1, ptr2
	}

	if one >= len(a) && two >= len(b) {
		return 0
	}

	if (one >= len(a) && !isAlpha(at(b, two))) || isAlpha(at(a, one)) {
		return -1
	}
	return 1
}

func at(s string, i int) byte {
	if i < len(s) {
		return s[i]
	}
	return 0
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func isAlpha(c byte) bool { return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') }

func isAlnum(c byte) bool { return isDigit(c) || isAlpha(c) }
