package domain

import (
	"strconv"
	"strings"
)

// CompareVersions orders two pkgver-pkgrel style version strings.
// Returns -1, 0 or 1. Dotted pkgver segments compare numerically when
// both sides are numbers and lexically otherwise; a longer segment list
// wins over a shared prefix; pkgrel breaks ties.
func CompareVersions(a, b string) int {
	aVer, aRel, _ := strings.Cut(a, "-")
	bVer, bRel, _ := strings.Cut(b, "-")

	if c := compareSegments(strings.Split(aVer, "."), strings.Split(bVer, ".")); c != 0 {
		return c
	}
	return compareSegments(strings.Split(aRel, "."), strings.Split(bRel, "."))
}

// VersionIsGreater reports whether a orders strictly after b.
func VersionIsGreater(a, b string) bool {
	return CompareVersions(a, b) > 0
}

func compareSegments(a, b []string) int {
	for i := 0; i < len(a) && i < len(b); i++ {
		if c := compareSegment(a[i], b[i]); c != 0 {
			return c
		}
	}
	switch {
	case len(a) < len(b):
		return -1
	case len(a) > len(b):
		return 1
	}
	return 0
}

func compareSegment(a, b string) int {
	an, aErr := strconv.Atoi(a)
	bn, bErr := strconv.Atoi(b)
	if aErr == nil && bErr == nil {
		switch {
		case an < bn:
			return -1
		case an > bn:
			return 1
		}
		return 0
	}
	// Numeric segments order after alphabetic ones, matching pacman's
	// vercmp treatment of pre-release suffixes like "1.0.rc1" < "1.0.1".
	if aErr == nil {
		return 1
	}
	if bErr == nil {
		return -1
	}
	return strings.Compare(a, b)
}
