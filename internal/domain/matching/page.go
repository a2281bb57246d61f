package matching

import "math"

// PageRequest is a 1-based page of a ranked list.
type PageRequest struct {
	Page int
	Size int
}

// NormalizePage clamps page to at least 1 and falls back to defSize when
// size is not positive.
func NormalizePage(page, size, defSize int) PageRequest {
	if page < 1 {
		page = 1
	}
	if size < 1 {
		size = defSize
	}
	return PageRequest{Page: page, Size: size}
}

// InRange reports whether the offset of p fits in an int.
func (p PageRequest) InRange() bool {
	return p.Page-1 <= math.MaxInt/p.Size
}

func (p PageRequest) Offset() int {
	return (p.Page - 1) * p.Size
}

// Slice returns the window of all selected by p. Pages past the end are
// empty, not an error.
func Slice[T any](all []T, p PageRequest) []T {
	start := p.Offset()
	if start >= len(all) {
		return []T{}
	}
	end := min(start+p.Size, len(all))
	return all[start:end]
}
