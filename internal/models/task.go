package models

// TaskStatus enumerates the lifecycle states of an inferred task.
type TaskStatus string

const (
	TaskPending    TaskStatus = "pending"
	TaskInProgress TaskStatus = "in_progress"
	TaskDone       TaskStatus = "done"
)

// Link is a titled URL pointing to an authoritative resource for a task.
type Link struct {
	Title string `json:"title"`
	URL   string `json:"url"`
}

// Task is an actionable item inferred from the current fact set.
// Tasks are recreated on every inference run; IDs are unique within a
// single run only. Links is populated during enrichment and is never
// empty afterwards.
type Task struct {
	ID          int        `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Status      TaskStatus `json:"status"`
	Action      string     `json:"action"`
	Links       []Link     `json:"links"`
}
