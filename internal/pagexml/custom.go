package pagexml

import (
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// UnknownType is the region type used when neither the custom attribute nor
// the type attribute names one.
const UnknownType = "unknown"

// The custom attribute is a loose "key {prop:value;}" string, e.g.
//
//	readingOrder {index:3;} structure {type:page-number;}
//
// Type and reading order are extracted by independent rules so a malformed
// value for one never hides the other.
var (
	typeRule         = regexp.MustCompile(`(?i:type)\s*:\s*([\p{L}\p{N}_]+(?:-[\p{L}\p{N}_]+)*)`)
	readingOrderRule = regexp.MustCompile(`readingOrder\s*\{\s*index\s*:\s*(\d+)`)
)

var lower = cases.Lower(language.Und)

// ExtractType returns the lowercased region type named in a custom attribute.
//
// It looks for "type : <word>(-<word>)*" where the literal "type" is matched
// case-insensitively and whitespace around the colon is ignored. The second
// result is false when the attribute is empty or carries no type.
func ExtractType(custom string) (string, bool) {
	if custom == "" {
		return "", false
	}
	m := typeRule.FindStringSubmatch(custom)
	if m == nil {
		return "", false
	}
	return lower.String(m[1]), true
}

// ExtractReadingOrder returns the 1-based reading order position stored in a
// custom attribute. The attribute holds 0-based indexes; "readingOrder {index:0;}"
// yields 1.
func ExtractReadingOrder(custom string) (int, bool) {
	if custom == "" {
		return 0, false
	}
	m := readingOrderRule.FindStringSubmatch(custom)
	if m == nil {
		return 0, false
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		// only reachable on overflow
		return 0, false
	}
	return n + 1, true
}

// RegionType resolves a region's type: the custom attribute wins, then the
// element's own type attribute, then UnknownType.
func RegionType(custom, typeAttr string) string {
	if t, ok := ExtractType(custom); ok {
		return t
	}
	if t := strings.TrimSpace(typeAttr); t != "" {
		return lower.String(t)
	}
	return UnknownType
}
