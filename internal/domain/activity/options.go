package activity

// ListOptions provides filtering options for listing history entries.
type ListOptions struct {
	Source string
	Status *Status
	Limit  int
	Offset int
}
