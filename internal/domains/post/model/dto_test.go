package model

import (
	"strings"
	"testing"
	"time"

	taxonomy "blog-backend/internal/domains/taxonomy/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validBlogRequest() CreatePostRequest {
	return CreatePostRequest{
		Title:       "Hello World",
		Body:        "<p>" + strings.Repeat("a", 250) + "</p>",
		Slug:        "Hello World",
		Date:        "2024-01-01",
		CategoryIDs: []string{"c1"},
		TagIDs:      []string{"t1"},
	}
}

func TestCreatePostRequest_Validate_Order(t *testing.T) {
	rules := RulesFor(KindBlog, 0)

	tests := []struct {
		name    string
		mutate  func(r *CreatePostRequest)
		message string
	}{
		{"missing title", func(r *CreatePostRequest) { r.Title = "  " }, "title is required"},
		{"missing date", func(r *CreatePostRequest) { r.Date = "" }, "date is required"},
		{"bad date", func(r *CreatePostRequest) { r.Date = "yesterday" }, "date is invalid"},
		{"missing slug", func(r *CreatePostRequest) { r.Slug = "" }, "slug is required"},
		{"slug without usable characters", func(r *CreatePostRequest) { r.Slug = "!!!" }, "slug is required"},
		{"missing body", func(r *CreatePostRequest) { r.Body = "" }, "Content is too short"},
		{"short body", func(r *CreatePostRequest) { r.Body = "tiny" }, "Content is too short"},
		{"no categories", func(r *CreatePostRequest) { r.CategoryIDs = nil }, "At least one category is required"},
		{"no tags", func(r *CreatePostRequest) { r.TagIDs = []string{} }, "At least one tag is required"},
		{"title checked before body", func(r *CreatePostRequest) { r.Title = ""; r.Body = "" }, "title is required"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validBlogRequest()
			tt.mutate(&req)

			err := req.Validate(rules)

			var vErr *ValidationError
			require.ErrorAs(t, err, &vErr)
			assert.Equal(t, tt.message, vErr.Message)
		})
	}
}

func TestCreatePostRequest_Validate_OK(t *testing.T) {
	assert.NoError(t, validBlogRequest().Validate(RulesFor(KindBlog, 0)))
}

func TestCreatePostRequest_Validate_WebStoryIsLenient(t *testing.T) {
	req := CreatePostRequest{Title: "Story", Date: "2024-03-01T10:00:00Z", Slug: "story", Body: "short"}

	assert.NoError(t, req.Validate(RulesFor(KindWebStory, 0)))
}

func TestRules_CheckPhoto(t *testing.T) {
	rules := RulesFor(KindBlog, 0)
	assert.Equal(t, DefaultMaxPhotoBytes, rules.MaxPhotoBytes)

	assert.NoError(t, rules.CheckPhoto(nil))
	assert.NoError(t, rules.CheckPhoto(&Photo{Data: make([]byte, 10)}))

	small := RulesFor(KindBlog, 4)
	err := small.CheckPhoto(&Photo{Data: make([]byte, 5)})
	var tooLarge *PhotoTooLargeError
	require.ErrorAs(t, err, &tooLarge)

	assert.EqualError(t, rules.CheckPhoto(&Photo{Data: make([]byte, DefaultMaxPhotoBytes+1)}),
		"Image should be less than 10MB in size")
}

func TestNewCreatePostRequest(t *testing.T) {
	req := NewCreatePostRequest(map[string]string{
		FieldTitle:      "T",
		FieldCategories: "c1, c2,,c1",
		FieldTags:       "t1",
		FieldMetaDesc:   "desc",
	}, nil)

	assert.Equal(t, "T", req.Title)
	assert.Equal(t, []string{"c1", "c2"}, req.CategoryIDs)
	assert.Equal(t, []string{"t1"}, req.TagIDs)
	assert.Equal(t, "desc", req.MetaDescription)
}

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2024-01-01")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), d)

	d, err = ParseDate("2024-01-01T12:30:00+02:00")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 1, 1, 10, 30, 0, 0, time.UTC), d)

	_, err = ParseDate("01/01/2024")
	assert.EqualError(t, err, "date is invalid")
}

func TestPatchFromForm(t *testing.T) {
	patch, err := PatchFromForm(map[string]string{
		FieldTitle:      "New title",
		FieldBody:       "   ",
		FieldSlug:       "New Slug",
		FieldMetaTitle:  "",
		FieldCategories: "",
	}, nil)
	require.NoError(t, err)

	require.NotNil(t, patch.Title)
	assert.Equal(t, "New title", *patch.Title)
	assert.Nil(t, patch.Body)
	require.NotNil(t, patch.Slug)
	assert.Equal(t, "new-slug", *patch.Slug)
	require.NotNil(t, patch.MetaTitle)
	assert.Equal(t, "", *patch.MetaTitle)
	assert.Nil(t, patch.MetaDescription)
	assert.Nil(t, patch.Date)
	assert.Nil(t, patch.CategoryIDs)
	assert.Nil(t, patch.TagIDs)
}

func TestPatchFromForm_InvalidValues(t *testing.T) {
	_, err := PatchFromForm(map[string]string{FieldDate: "soon"}, nil)
	assert.EqualError(t, err, "date is invalid")

	_, err = PatchFromForm(map[string]string{FieldSlug: "???"}, nil)
	assert.EqualError(t, err, "slug is required")
}

func TestApplyPatch(t *testing.T) {
	original := Post{
		ID:         "p1",
		Title:      "Old",
		Body:       "<p>old body</p>",
		Excerpt:    "old body",
		Slug:       "old",
		MetaTitle:  "meta",
		Categories: []taxonomy.Term{{ID: "c1", Name: "Go"}},
		Tags:       []taxonomy.Term{{ID: "t1"}},
	}
	body := "<h1>Fresh</h1> content"
	cleared := ""

	got := ApplyPatch(original, PostPatch{
		Body:        &body,
		MetaTitle:   &cleared,
		CategoryIDs: []string{"c2", "c3"},
	})

	assert.Equal(t, "Old", got.Title)
	assert.Equal(t, body, got.Body)
	assert.Equal(t, "Fresh content", got.Excerpt)
	assert.Equal(t, "", got.MetaTitle)
	assert.Equal(t, []taxonomy.Term{{ID: "c2"}, {ID: "c3"}}, got.Categories)
	assert.Equal(t, []taxonomy.Term{{ID: "t1"}}, got.Tags)

	// the input is left untouched
	assert.Equal(t, "Old", original.Title)
	assert.Equal(t, "meta", original.MetaTitle)
	assert.Equal(t, "c1", original.Categories[0].ID)
}

func TestApplyPatch_Empty(t *testing.T) {
	original := Post{ID: "p1", Title: "Same", Slug: "same", Tags: []taxonomy.Term{{ID: "t1"}}}

	assert.Equal(t, original, ApplyPatch(original, PostPatch{}))
}
