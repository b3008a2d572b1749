package forum

import (
	"strings"
)

const PageSize = 50

// FilterTopics keeps topics in category whose title, category, author or
// message contains query. Both comparisons ignore case; an empty or "All"
// category and a blank query match everything.
func FilterTopics(topics []Topic, category, query string) []Topic {
	category = strings.TrimSpace(category)
	q := strings.ToLower(strings.TrimSpace(query))
	out := make([]Topic, 0, len(topics))
	for _, t := range topics {
		if category != "" && category != AllCategories && !strings.EqualFold(t.Category, category) {
			continue
		}
		if q != "" && !matches(t, q) {
			continue
		}
		out = append(out, t)
	}
	return out
}

func matches(t Topic, q string) bool {
	for _, field := range []string{t.Title, t.Category, t.Author, t.Message} {
		if strings.Contains(strings.ToLower(field), q) {
			return true
		}
	}
	return false
}

// PaginationData holds all the necessary info for rendering pagination controls.
type PaginationData struct {
	CurrentPage int  `json:"currentPage"`
	TotalPages  int  `json:"totalPages"`
	NextPage    int  `json:"nextPage"`
	PrevPage    int  `json:"prevPage"`
	HasNext     bool `json:"hasNext"`
	HasPrev     bool `json:"hasPrev"`
}

// Paginate returns the slice of topics on page (1-based) and the controls
// for it. Pages below 1 are treated as 1; pages past the end are empty.
func Paginate(topics []Topic, page, pageSize int) ([]Topic, PaginationData) {
	if pageSize < 1 {
		pageSize = PageSize
	}
	if page < 1 {
		page = 1
	}
	total := len(topics)
	totalPages := (total + pageSize - 1) / pageSize
	data := PaginationData{
		CurrentPage: page,
		TotalPages:  totalPages,
		NextPage:    page + 1,
		PrevPage:    page - 1,
		HasNext:     page < totalPages,
		HasPrev:     page > 1,
	}
	if page > totalPages {
		// past the end; also keeps (page-1)*pageSize from overflowing
		data.NextPage = page
		return topics[:0], data
	}
	start := (page - 1) * pageSize
	end := min(start+pageSize, total)
	return topics[start:end], data
}
