package models

// Task priorities. Anything else is coerced to PriorityMedium on write.
const (
	PriorityHigh   = "high"
	PriorityMedium = "medium"
	PriorityLow    = "low"
)

// Task is a single todo item. Timestamps are Unix milliseconds.
type Task struct {
	ID        string  `json:"id"`
	Text      string  `json:"text"`
	Completed bool    `json:"completed"`
	Priority  string  `json:"priority"`
	DueDate   *string `json:"dueDate"`
	CreatedAt int64   `json:"createdAt"`
	UpdatedAt int64   `json:"updatedAt"`
}

// ListSet is the pair of task lists belonging to one user. Both slices are
// always non-nil so that they serialize as JSON arrays, never null.
type ListSet struct {
	Private []Task `json:"private"`
	Public  []Task `json:"public"`
}

// EmptyListSet returns a ListSet with empty (non-nil) lists.
func EmptyListSet() ListSet {
	return ListSet{Private: []Task{}, Public: []Task{}}
}
