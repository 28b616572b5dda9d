package domain

// Category is administrator-owned reference data for classifying tickets.
type Category struct {
	ID   int64
	Name string
}
