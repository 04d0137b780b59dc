package types

// MaxPage bounds how deep a listing can be paged.
const MaxPage = 10000

// Page is a 1-based page/limit window.
type Page struct {
	Page  int
	Limit int
}

// NewPage clamps page to [1, MaxPage] and limit to [1, maxLimit], falling back to defLimit.
func NewPage(page, limit, defLimit, maxLimit int) Page {
	page = min(max(page, 1), MaxPage)
	if limit < 1 {
		limit = defLimit
	}
	if limit > maxLimit {
		limit = maxLimit
	}
	return Page{Page: page, Limit: limit}
}

func (p Page) Offset() int { return (p.Page - 1) * p.Limit }

// TotalPages returns ceil(total/limit).
func (p Page) TotalPages(total int64) int {
	if total <= 0 || p.Limit <= 0 {
		return 0
	}
	return int((total + int64(p.Limit) - 1) / int64(p.Limit))
}
