package pagination

const (
	// DefaultPageSize is the standard page size when one is not provided.
	DefaultPageSize = 100
	// MinPageSize is the smallest page any listing query will serve.
	MinPageSize = 10
	// MaxPageSize caps how many rows any listing query can request.
	MaxPageSize = 200
)

// Params holds page-number pagination inputs from controllers or services.
type Params struct {
	Page     int
	PageSize int
}

// Normalize clamps the page to >= 1 and the page size into [MinPageSize, MaxPageSize].
func (p Params) Normalize() Params {
	page := p.Page
	if page < 1 {
		page = 1
	}
	size := p.PageSize
	if size == 0 {
		size = DefaultPageSize
	}
	if size < MinPageSize {
		size = MinPageSize
	}
	if size > MaxPageSize {
		size = MaxPageSize
	}
	return Params{Page: page, PageSize: size}
}

// Offset returns the row offset for the normalized page.
func (p Params) Offset() int {
	n := p.Normalize()
	return (n.Page - 1) * n.PageSize
}

// Limit returns the normalized page size.
func (p Params) Limit() int {
	return p.Normalize().PageSize
}
