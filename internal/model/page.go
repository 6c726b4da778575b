package model

// DefaultListLimit is the page size used when a list request omits limit
const DefaultListLimit = 100

// ListParams selects a window of an ordered collection
type ListParams struct {
	Skip  int
	Limit int
}

// Normalize clamps negative offsets and substitutes the default limit
func (p ListParams) Normalize() ListParams {
	if p.Skip < 0 {
		p.Skip = 0
	}
	if p.Limit <= 0 {
		p.Limit = DefaultListLimit
	}
	return p
}

// Window returns the [start, end) bounds of p applied to a collection of n items
func (p ListParams) Window(n int) (int, int) {
	p = p.Normalize()
	start := min(p.Skip, n)
	end := min(start+p.Limit, n)
	return start, end
}
