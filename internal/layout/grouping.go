package layout

import (
	"math"

	"AFD-SVC/internal/schema"
)

// PageContent holds the elements assigned to one page, in their original
// template order.
type PageContent struct {
	Placeholders []schema.Placeholder `json:"placeholders"`
	TextBlocks   []schema.TextBlock   `json:"textBlocks"`
}

// PageOf computes the page an element renders on: max(1, floor(page)).
// Missing or invalid page numbers assign to page 1; elements are never
// dropped.
func PageOf(pos *schema.Position) int {
	if pos == nil {
		return 1
	}
	page := int(math.Floor(pos.Page))
	if page < 1 {
		return 1
	}
	return page
}

// GroupByPage partitions a structure's elements into per-page buckets.
// Grouping is deterministic and order-preserving within a page, so
// re-running it on unchanged input yields identical output.
func GroupByPage(s *schema.Structure) map[int]PageContent {
	pages := make(map[int]PageContent)

	for _, p := range s.Placeholders {
		n := PageOf(p.Position)
		content := pages[n]
		content.Placeholders = append(content.Placeholders, p)
		pages[n] = content
	}

	for _, tb := range s.TextBlocks {
		pos := tb.Position
		n := PageOf(&pos)
		content := pages[n]
		content.TextBlocks = append(content.TextBlocks, tb)
		pages[n] = content
	}

	return pages
}

// PageCount returns the number of pages needed to render all content: the
// maximum page number any element declares, and never less than 1 — a
// template with no elements still has exactly one page.
func PageCount(s *schema.Structure) int {
	count := 1
	for _, p := range s.Placeholders {
		if n := PageOf(p.Position); n > count {
			count = n
		}
	}
	for _, tb := range s.TextBlocks {
		pos := tb.Position
		if n := PageOf(&pos); n > count {
			count = n
		}
	}
	return count
}

// GroupElementsByPage partitions the flatter custom-template element array
// the same way GroupByPage partitions a structure.
func GroupElementsByPage(elements []schema.Element) map[int][]schema.Element {
	pages := make(map[int][]schema.Element)
	for _, el := range elements {
		pos := schema.Position{X: el.X, Y: el.Y, Page: el.Page}
		n := PageOf(&pos)
		pages[n] = append(pages[n], el)
	}
	return pages
}

// ElementPageCount mirrors PageCount for the flat element array.
func ElementPageCount(elements []schema.Element) int {
	count := 1
	for _, el := range elements {
		pos := schema.Position{X: el.X, Y: el.Y, Page: el.Page}
		if n := PageOf(&pos); n > count {
			count = n
		}
	}
	return count
}
