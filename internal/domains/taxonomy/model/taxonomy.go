package model

// Term is a category or a tag as embedded in post responses
type Term struct {
	ID   string `json:"_id"`
	Name string `json:"name,omitempty"`
	Slug string `json:"slug,omitempty"`
}

// IDs returns the ids of terms in order
func IDs(terms []Term) []string {
	ids := make([]string, 0, len(terms))
	for _, t := range terms {
		ids = append(ids, t.ID)
	}
	return ids
}

// FromIDs builds unpopulated terms from ids
func FromIDs(ids []string) []Term {
	terms := make([]Term, 0, len(ids))
	for _, id := range ids {
		terms = append(terms, Term{ID: id})
	}
	return terms
}
