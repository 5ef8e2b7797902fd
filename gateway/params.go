package gateway

// SortOrder controls result ordering for List operations.
type SortOrder string

const (
	SortAsc  SortOrder = "asc"
	SortDesc SortOrder = "desc"
)

// ListParams holds filter, sort, and pagination parameters for List and
// Count. Filter keys are column/field names matched for equality; anything
// richer belongs to the gateway implementation, not this contract.
type ListParams struct {
	Filter map[string]string
	SortBy string
	Order  SortOrder
	Page   int
	Limit  int
}

// WithFilter returns a copy of the params with one more filter term set.
func (p ListParams) WithFilter(field, value string) ListParams {
	filter := make(map[string]string, len(p.Filter)+1)
	for k, v := range p.Filter {
		filter[k] = v
	}
	filter[field] = value
	p.Filter = filter
	return p
}

// Page is the uniform envelope for paginated results.
type Page[T any] struct {
	Items      []T
	TotalCount int
	Page       int
	Limit      int
	TotalPages int
	HasMore    bool
}

// NewPage computes the pagination metadata for one page of results.
// A limit of zero means the result was not paginated and holds everything.
func NewPage[T any](items []T, total, page, limit int) Page[T] {
	p := Page[T]{
		Items:      items,
		TotalCount: total,
		Page:       page,
		Limit:      limit,
	}
	if limit <= 0 {
		p.Page = 1
		p.TotalPages = 1
		return p
	}
	p.TotalPages = (total + limit - 1) / limit
	if p.Page < 1 {
		p.Page = 1
	}
	p.HasMore = p.Page < p.TotalPages
	return p
}
