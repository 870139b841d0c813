package utils

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	slugInvalidChars = regexp.MustCompile(`[^a-z0-9-]+`)
	slugHyphenRuns   = regexp.MustCompile(`-+`)
	slugSeparators   = regexp.MustCompile(`[\s_]+`)
)

// NormalizeSlug is the only slug normalizer: it runs when a slug is written
// and when one arrives in a path parameter.
//
//	"Hello World!"  -> "hello-world"
//	"Nguyễn Nhật Ánh" -> "nguyen-nhat-anh"
func NormalizeSlug(input string) string {
	ascii := RemoveDiacritics(strings.TrimSpace(input))
	lower := strings.ToLower(ascii)
	hyphenated := slugSeparators.ReplaceAllString(lower, "-")
	cleaned := slugInvalidChars.ReplaceAllString(hyphenated, "")
	collapsed := slugHyphenRuns.ReplaceAllString(cleaned, "-")
	return strings.Trim(collapsed, "-")
}

// RemoveDiacritics folds accented letters to their base letter ("é" -> "e").
// đ/Đ have no decomposition and are mapped explicitly.
func RemoveDiacritics(input string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, input)
	if err != nil {
		out = input
	}
	return strings.NewReplacer("đ", "d", "Đ", "D").Replace(out)
}

// SplitIDs turns a comma-joined id list into its non-empty, trimmed, de-duplicated parts
func SplitIDs(raw string) []string {
	seen := make(map[string]struct{})
	var ids []string
	for _, part := range strings.Split(raw, ",") {
		id := strings.TrimSpace(part)
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}
	return ids
}
