package domain

// Stats holds the four standard pages-read rollups.
// It is derived on demand from the reading logs and never stored.
type Stats struct {
	Today int
	Week  int
	Month int
	Total int
}
