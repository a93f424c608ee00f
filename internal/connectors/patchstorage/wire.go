package patchstorage

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/custodia-labs/patchsync/internal/core/domain"
)

// patch is the wire form of a listing entry or a detail record.
type patch struct {
	ID         flexID `json:"id"`
	Title      string `json:"title"`
	Excerpt    string `json:"excerpt"`
	URL        string `json:"url"`
	Author     author `json:"author"`
	Categories []term `json:"categories"`
	Tags       []term `json:"tags"`
	Files      []file `json:"files"`
}

type author struct {
	Name string `json:"name"`
}

type term struct {
	Name string `json:"name"`
	Slug string `json:"slug"`
}

type file struct {
	Filename string `json:"filename"`
	URL      string `json:"url"`
}

// flexID accepts numeric and string identifiers.
type flexID string

func (id *flexID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case bytes.Equal(data, []byte("null")):
		*id = ""
	case len(data) > 0 && data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = flexID(s)
	default:
		var n json.Number
		if err := json.Unmarshal(data, &n); err != nil {
			return fmt.Errorf("id: %w", err)
		}
		*id = flexID(n.String())
	}
	return nil
}

func (p patch) toDomain() domain.CatalogItem {
	item := domain.CatalogItem{
		ID:         string(p.ID),
		Title:      p.Title,
		AuthorName: p.Author.Name,
		Excerpt:    p.Excerpt,
		URL:        p.URL,
		Categories: toTerms(p.Categories),
		Tags:       toTerms(p.Tags),
	}
	if len(p.Files) > 0 {
		item.Files = make([]domain.FileRef, 0, len(p.Files))
		for _, f := range p.Files {
			item.Files = append(item.Files, domain.FileRef{Filename: f.Filename, DownloadURL: f.URL})
		}
	}
	return item
}

func toTerms(in []term) []domain.Term {
	if len(in) == 0 {
		return nil
	}
	out := make([]domain.Term, 0, len(in))
	for _, t := range in {
		out = append(out, domain.Term{Name: t.Name, Slug: t.Slug})
	}
	return out
}

// decodeArray decodes a JSON array body, telling malformed bodies apart
// from well-formed bodies of the wrong type.
func decodeArray(body []byte, v any) error {
	return decodeShaped(body, '[', v)
}

// decodeObject decodes a JSON object body the same way.
func decodeObject(body []byte, v any) error {
	return decodeShaped(body, '{', v)
}

func decodeShaped(body []byte, open byte, v any) error {
	if !json.Valid(body) {
		return &ShapeError{Err: ErrMalformedResponse, Snippet: snippet(body)}
	}
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 || trimmed[0] != open {
		return &ShapeError{Err: ErrUnexpectedShape, Snippet: snippet(body)}
	}
	if err := json.Unmarshal(trimmed, v); err != nil {
		return &ShapeError{Err: fmt.Errorf("%w: %w", ErrUnexpectedShape, err), Snippet: snippet(body)}
	}
	return nil
}
