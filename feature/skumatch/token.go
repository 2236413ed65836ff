package skumatch

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// ContainsWholeToken reports whether needle occurs in haystack as a whole
// token, ignoring case. Each occurrence must be bounded on both sides by the
// string edge or a rune that is neither a letter nor a digit.
func ContainsWholeToken(haystack, needle string) bool {
	return containsToken(strings.ToLower(haystack), strings.ToLower(needle))
}

// containsToken is ContainsWholeToken over already lower-cased input.
func containsToken(haystack, needle string) bool {
	if needle == "" {
		return false
	}
	for offset := 0; offset <= len(haystack)-len(needle); {
		i := strings.Index(haystack[offset:], needle)
		if i < 0 {
			return false
		}
		start := offset + i
		end := start + len(needle)
		if boundaryBefore(haystack, start) && boundaryAfter(haystack, end) {
			return true
		}
		_, size := utf8.DecodeRuneInString(haystack[start:])
		offset = start + size
	}
	return false
}

func boundaryBefore(s string, i int) bool {
	if i == 0 {
		return true
	}
	r, _ := utf8.DecodeLastRuneInString(s[:i])
	return !isWordRune(r)
}

func boundaryAfter(s string, i int) bool {
	if i >= len(s) {
		return true
	}
	r, _ := utf8.DecodeRuneInString(s[i:])
	return !isWordRune(r)
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}
