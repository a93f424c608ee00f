package org

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"

	"github.com/custodia-labs/patchsync/internal/core/domain"
	"github.com/custodia-labs/patchsync/internal/core/ports/driven"
)

// Ensure Renderer implements the interface.
var _ driven.ReportRenderer = (*Renderer)(nil)

const (
	// DocumentTitle is the #+TITLE of every report.
	DocumentTitle = "Patchstorage Patches"

	// TitleWidth is the column at which tag lists start.
	TitleWidth = 50
)

// Renderer writes org-mode documents.
type Renderer struct{}

// NewRenderer creates an org renderer.
func NewRenderer() *Renderer {
	return &Renderer{}
}

// Extension returns ".org".
func (r *Renderer) Extension() string {
	return ".org"
}

// Render writes items to w.
func (r *Renderer) Render(w io.Writer, items []domain.CatalogItem) error {
	var b strings.Builder
	fmt.Fprintf(&b, "#+TITLE: %s\n\n", DocumentTitle)

	for _, g := range groupByCategory(items) {
		fmt.Fprintf(&b, "* %s\n", g.name)
		for _, item := range g.items {
			writeItem(&b, item)
		}
	}

	if _, err := io.WriteString(w, b.String()); err != nil {
		return fmt.Errorf("write org document: %w", err)
	}
	return nil
}

type group struct {
	name  string
	items []domain.CatalogItem
}

// groupByCategory keeps first-seen category order and listing order
// within each category.
func groupByCategory(items []domain.CatalogItem) []group {
	var groups []group
	index := make(map[string]int)

	for _, item := range items {
		name := item.CategoryName()
		i, ok := index[name]
		if !ok {
			i = len(groups)
			index[name] = i
			groups = append(groups, group{name: name})
		}
		groups[i].items = append(groups[i].items, item)
	}
	return groups
}

func writeItem(b *strings.Builder, item domain.CatalogItem) {
	title := domain.SanitizeHeader(item.Title)
	padding := TitleWidth - utf8.RuneCountInString(title)
	if padding < 1 {
		padding = 1
	}

	b.WriteString("** ")
	b.WriteString(title)
	if tags := tagList(item.Tags); tags != "" {
		b.WriteString(strings.Repeat(" ", padding))
		b.WriteString(tags)
	}
	b.WriteString("\n")

	fmt.Fprintf(b, "- Author: %s\n", item.AuthorName)
	fmt.Fprintf(b, "- URL: %s\n", item.URL)
	fmt.Fprintf(b, "- Description:\n  %s\n\n", plainText(item.Excerpt))
}

// tagList returns ":a:b:" or "" when there are no tags.
func tagList(tags []domain.Term) string {
	if len(tags) == 0 {
		return ""
	}
	parts := make([]string, 0, len(tags))
	for _, t := range tags {
		parts = append(parts, domain.SanitizeTag(t.Name))
	}
	return ":" + strings.Join(parts, ":") + ":"
}

// plainText strips markup from an HTML excerpt and collapses whitespace so
// the description stays on one indented line.
func plainText(excerpt string) string {
	if !strings.ContainsAny(excerpt, "<&") {
		return strings.Join(strings.Fields(excerpt), " ")
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(excerpt))
	if err != nil {
		return strings.Join(strings.Fields(excerpt), " ")
	}
	doc.Find("script, style").Remove()
	return strings.Join(strings.Fields(doc.Text()), " ")
}
