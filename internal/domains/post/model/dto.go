package model

import (
	"errors"
	"strings"
	"time"

	taxonomy "blog-backend/internal/domains/taxonomy/model"
	"blog-backend/internal/shared/utils"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// Form field names shared by create and update
const (
	FieldTitle      = "title"
	FieldBody       = "body"
	FieldSlug       = "slug"
	FieldDate       = "date"
	FieldMetaTitle  = "mtitle"
	FieldMetaDesc   = "mdesc"
	FieldCategories = "categories"
	FieldTags       = "tags"
	FieldPhoto      = "photo"
)

const DefaultMaxPhotoBytes int64 = 10_000_000

var dateLayouts = []string{"2006-01-02", time.RFC3339, "2006-01-02T15:04:05"}

// Rules holds the per-kind create checks
type Rules struct {
	MinBodyLength   int
	RequireTaxonomy bool
	MaxPhotoBytes   int64
}

func RulesFor(kind Kind, maxPhotoBytes int64) Rules {
	if maxPhotoBytes <= 0 {
		maxPhotoBytes = DefaultMaxPhotoBytes
	}
	if kind == KindWebStory {
		return Rules{MaxPhotoBytes: maxPhotoBytes}
	}
	return Rules{MinBodyLength: 200, RequireTaxonomy: true, MaxPhotoBytes: maxPhotoBytes}
}

// CheckPhoto rejects a photo over the cap; a nil photo passes
func (r Rules) CheckPhoto(p *Photo) error {
	if p.Size() > r.MaxPhotoBytes {
		return &PhotoTooLargeError{MaxBytes: r.MaxPhotoBytes}
	}
	return nil
}

// CreatePostRequest is the decoded create form
type CreatePostRequest struct {
	Title           string
	Body            string
	Slug            string
	Date            string
	MetaTitle       string
	MetaDescription string
	CategoryIDs     []string
	TagIDs          []string
	Photo           *Photo
}

// NewCreatePostRequest reads a create request from form fields
func NewCreatePostRequest(fields map[string]string, photo *Photo) CreatePostRequest {
	return CreatePostRequest{
		Title:           fields[FieldTitle],
		Body:            fields[FieldBody],
		Slug:            fields[FieldSlug],
		Date:            fields[FieldDate],
		MetaTitle:       fields[FieldMetaTitle],
		MetaDescription: fields[FieldMetaDesc],
		CategoryIDs:     utils.SplitIDs(fields[FieldCategories]),
		TagIDs:          utils.SplitIDs(fields[FieldTags]),
		Photo:           photo,
	}
}

type fieldCheck struct {
	value interface{}
	rules []validation.Rule
}

// Validate runs the field checks in order and stops at the first failure
func (r CreatePostRequest) Validate(rules Rules) error {
	checks := []fieldCheck{
		{strings.TrimSpace(r.Title), []validation.Rule{validation.Required.Error("title is required")}},
		{strings.TrimSpace(r.Date), []validation.Rule{validation.Required.Error("date is required"), validation.By(validDate)}},
		{utils.NormalizeSlug(r.Slug), []validation.Rule{validation.Required.Error("slug is required")}},
	}
	if rules.MinBodyLength > 0 {
		const tooShort = "Content is too short"
		checks = append(checks, fieldCheck{r.Body, []validation.Rule{
			validation.Required.Error(tooShort),
			validation.RuneLength(rules.MinBodyLength, 0).Error(tooShort),
		}})
	}
	if rules.RequireTaxonomy {
		checks = append(checks,
			fieldCheck{r.CategoryIDs, []validation.Rule{validation.Required.Error("At least one category is required")}},
			fieldCheck{r.TagIDs, []validation.Rule{validation.Required.Error("At least one tag is required")}},
		)
	}

	for _, check := range checks {
		if err := validation.Validate(check.value, check.rules...); err != nil {
			return NewValidationError(err.Error())
		}
	}
	return nil
}

func validDate(value interface{}) error {
	s, _ := value.(string)
	if _, err := ParseDate(s); err != nil {
		return err
	}
	return nil
}

// ParseDate accepts a calendar date or an RFC 3339 timestamp
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, errors.New("date is invalid")
}

// PostPatch lists the fields an update replaces; nil means unchanged
type PostPatch struct {
	Title           *string
	Body            *string
	Slug            *string
	Date            *time.Time
	MetaTitle       *string
	MetaDescription *string
	CategoryIDs     []string
	TagIDs          []string
	Photo           *Photo
}

// PatchFromForm builds a patch from the fields present in an update form.
// Blank title, body, slug and date are ignored; meta fields may be cleared.
func PatchFromForm(fields map[string]string, photo *Photo) (PostPatch, error) {
	patch := PostPatch{Photo: photo}

	if v := fields[FieldTitle]; strings.TrimSpace(v) != "" {
		patch.Title = &v
	}
	if v := fields[FieldBody]; strings.TrimSpace(v) != "" {
		patch.Body = &v
	}
	if v := fields[FieldSlug]; strings.TrimSpace(v) != "" {
		slug := utils.NormalizeSlug(v)
		if slug == "" {
			return PostPatch{}, NewValidationError("slug is required")
		}
		patch.Slug = &slug
	}
	if v := fields[FieldDate]; strings.TrimSpace(v) != "" {
		date, err := ParseDate(v)
		if err != nil {
			return PostPatch{}, NewValidationError(err.Error())
		}
		patch.Date = &date
	}
	if v, ok := fields[FieldMetaTitle]; ok {
		patch.MetaTitle = &v
	}
	if v, ok := fields[FieldMetaDesc]; ok {
		patch.MetaDescription = &v
	}
	patch.CategoryIDs = utils.SplitIDs(fields[FieldCategories])
	patch.TagIDs = utils.SplitIDs(fields[FieldTags])

	return patch, nil
}

// ApplyPatch returns post with the patch applied. A new body recomputes
// the excerpt; new categories or tags replace the previous sets.
func ApplyPatch(post Post, patch PostPatch) Post {
	out := post
	out.Categories = append([]taxonomy.Term(nil), post.Categories...)
	out.Tags = append([]taxonomy.Term(nil), post.Tags...)

	if patch.Title != nil {
		out.Title = *patch.Title
	}
	if patch.Body != nil {
		out.Body = *patch.Body
		out.Excerpt = Excerpt(*patch.Body)
	}
	if patch.Slug != nil {
		out.Slug = *patch.Slug
	}
	if patch.Date != nil {
		out.Date = *patch.Date
	}
	if patch.MetaTitle != nil {
		out.MetaTitle = *patch.MetaTitle
	}
	if patch.MetaDescription != nil {
		out.MetaDescription = *patch.MetaDescription
	}
	if patch.CategoryIDs != nil {
		out.Categories = taxonomy.FromIDs(patch.CategoryIDs)
	}
	if patch.TagIDs != nil {
		out.Tags = taxonomy.FromIDs(patch.TagIDs)
	}
	if patch.Photo != nil {
		photo := *patch.Photo
		out.Photo = &photo
	}
	return out
}
