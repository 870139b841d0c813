package model

import (
	"encoding/json"
	"fmt"
	"time"

	taxonomy "blog-backend/internal/domains/taxonomy/model"
)

// Kind selects one of the two content collections. Both share the same
// record shape and differ only in validation and storage tables.
type Kind string

const (
	KindBlog     Kind = "blog"
	KindWebStory Kind = "webstory"
)

func ParseKind(s string) (Kind, error) {
	switch Kind(s) {
	case KindBlog, KindWebStory:
		return Kind(s), nil
	}
	return "", fmt.Errorf("unknown content kind %q", s)
}

// Label is the human name used in response messages
func (k Kind) Label() string {
	if k == KindWebStory {
		return "Web story"
	}
	return "Blog"
}

func (k Kind) NotFoundMessage() string {
	return k.Label() + " not found"
}

func (k Kind) DeletedMessage() string {
	return k.Label() + " deleted successfully"
}

// Author is the populated postedBy reference
type Author struct {
	ID       string `json:"_id"`
	Name     string `json:"name,omitempty"`
	Username string `json:"username,omitempty"`
	Profile  string `json:"profile,omitempty"`
}

// Photo is the binary cover image stored inline with the post
type Photo struct {
	Data        []byte
	ContentType string
}

func (p *Photo) Size() int64 {
	if p == nil {
		return 0
	}
	return int64(len(p.Data))
}

// Post is a blog post or a web story. Listing projections leave
// unselected fields at their zero value; the photo is never serialized.
type Post struct {
	ID              string          `json:"_id"`
	Title           string          `json:"title,omitempty"`
	Body            string          `json:"body,omitempty"`
	Slug            string          `json:"slug"`
	Excerpt         string          `json:"excerpt,omitempty"`
	MetaTitle       string          `json:"mtitle,omitempty"`
	MetaDescription string          `json:"mdesc,omitempty"`
	Date            time.Time       `json:"date"`
	Categories      []taxonomy.Term `json:"categories,omitempty"`
	Tags            []taxonomy.Term `json:"tags,omitempty"`
	PostedBy        *Author         `json:"postedBy,omitempty"`
	CreatedAt       *time.Time      `json:"createdAt,omitempty"`
	UpdatedAt       *time.Time      `json:"updatedAt,omitempty"`
	Photo           *Photo          `json:"-"`
}

// MarshalJSON writes categories and tags as [] when they were loaded
// but empty, and leaves them out when the projection did not load them.
func (p Post) MarshalJSON() ([]byte, error) {
	type plain Post
	out := struct {
		plain
		Categories *[]taxonomy.Term `json:"categories,omitempty"`
		Tags       *[]taxonomy.Term `json:"tags,omitempty"`
	}{plain: plain(p)}
	if p.Categories != nil {
		out.Categories = &p.Categories
	}
	if p.Tags != nil {
		out.Tags = &p.Tags
	}
	return json.Marshal(out)
}

// SitemapEntry is the {_id, slug, date} projection
type SitemapEntry struct {
	ID   string    `json:"_id"`
	Slug string    `json:"slug"`
	Date time.Time `json:"date"`
}

type SlugEntry struct {
	Slug string `json:"slug"`
}

// TaxonomyListing is the combined listing with every category and tag
type TaxonomyListing struct {
	Posts      []Post          `json:"posts"`
	Categories []taxonomy.Term `json:"categories"`
	Tags       []taxonomy.Term `json:"tags"`
	Size       int             `json:"size"`
}
