package shared

// Filter carries the common listing options: pagination, ordering, a
// free-text search term and exact-match column filters. A non-positive
// PageSize disables pagination.
type Filter struct {
	Page     int
	PageSize int
	OrderBy  string
	OrderDir string
	Search   string
	Filters  map[string]interface{}
}

// DefaultFilter returns the first page of twenty rows, newest first
func DefaultFilter() Filter {
	return Filter{
		Page:     1,
		PageSize: 20,
		OrderBy:  "created_at",
		OrderDir: "desc",
		Filters:  make(map[string]interface{}),
	}
}

// WithFilter sets an exact-match column filter and returns the filter
// for chaining.
func (f Filter) WithFilter(key string, value interface{}) Filter {
	if f.Filters == nil {
		f.Filters = make(map[string]interface{})
	}
	f.Filters[key] = value
	return f
}

// Paged reports whether pagination applies, and the row offset when it
// does.
func (f Filter) Paged() (offset, limit int, ok bool) {
	if f.Page < 1 || f.PageSize < 1 {
		return 0, 0, false
	}
	return (f.Page - 1) * f.PageSize, f.PageSize, true
}
