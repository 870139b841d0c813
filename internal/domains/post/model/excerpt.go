package model

import (
	"html"

	"github.com/microcosm-cc/bluemonday"
)

const ExcerptLength = 150

var stripTags = bluemonday.StrictPolicy()

// Excerpt returns the first ExcerptLength characters of body with markup removed
func Excerpt(body string) string {
	text := html.UnescapeString(stripTags.Sanitize(body))
	r := []rune(text)
	if len(r) > ExcerptLength {
		r = r[:ExcerptLength]
	}
	return string(r)
}
