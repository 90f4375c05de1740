package ui

const maxVisiblePages = 5

// Pager is the rendered pagination control
type Pager struct {
	Pages        []int
	Current      int
	Total        int
	PrevDisabled bool
	NextDisabled bool
	Busy         bool
}

// Visible reports whether pagination should be rendered at all
func (p Pager) Visible() bool {
	return p.Total > 1
}

// Prev is the page behind the previous button
func (p Pager) Prev() int { return p.Current - 1 }

// Next is the page behind the next button
func (p Pager) Next() int { return p.Current + 1 }

// PageWindow returns up to five page numbers centred on current and clamped to [1, total]
func PageWindow(current, total int) []int {
	if total < 1 {
		return nil
	}

	start := current - maxVisiblePages/2
	if start < 1 {
		start = 1
	}
	end := start + maxVisiblePages - 1
	if end > total {
		end = total
	}
	if end-start+1 < maxVisiblePages {
		start = end - maxVisiblePages + 1
		if start < 1 {
			start = 1
		}
	}

	pages := make([]int, 0, end-start+1)
	for i := start; i <= end; i++ {
		pages = append(pages, i)
	}
	return pages
}

// NewPager builds the control for current of total pages; busy disables every button
func NewPager(current, total int, busy bool) Pager {
	return Pager{
		Pages:        PageWindow(current, total),
		Current:      current,
		Total:        total,
		PrevDisabled: current <= 1 || busy,
		NextDisabled: current >= total || busy,
		Busy:         busy,
	}
}
