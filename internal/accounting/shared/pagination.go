package shared

const (
	defaultLimit = 100
	maxLimit     = 1000
)

// Page describes an offset window for listings.
type Page struct {
	Offset int
	Limit  int
}

// NewPage clamps skip/limit the way the listing endpoints expect.
func NewPage(skip, limit int) Page {
	if skip < 0 {
		skip = 0
	}
	if limit <= 0 {
		limit = defaultLimit
	}
	if limit > maxLimit {
		limit = maxLimit
	}
	return Page{Offset: skip, Limit: limit}
}
