package domain

import "github.com/samber/mo"

// SelectedFile is the document the user picked but has not necessarily uploaded yet.
type SelectedFile struct {
	Data []byte
	Name string
}

// DocumentRecord describes the last document the indexing service accepted.
// ID is the join key for every question asked against the document.
type DocumentRecord struct {
	ID        mo.Option[string]
	Filename  string
	PageCount mo.Option[int]
}

// Indexed reports whether the record carries a usable document identifier.
func (r DocumentRecord) Indexed() bool {
	id, ok := r.ID.Get()
	return ok && id != ""
}

// SourceExcerpt is a snippet of the indexed document returned alongside an answer.
type SourceExcerpt struct {
	PageNumber     int
	RelevanceScore mo.Option[float64]
	Text           string
}

// QueryResult is a normalized answer from the question-answering service.
type QueryResult struct {
	Answer  mo.Option[string]
	Sources []SourceExcerpt
}
