package activity

// ListOptions provides filtering options for listing activities.
// Results are ordered by date, then id.
type ListOptions struct {
	From         *Date
	To           *Date
	SelectedOnly bool
	SourceName   string
}
