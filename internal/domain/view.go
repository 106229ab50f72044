package domain

// TaskView is the transient aggregate produced by the reference resolver:
// a task together with the hydrated author, assignee and observer users.
// Views are computed on every read and never persisted, so stale embedded
// copies cannot occur.
type TaskView struct {
	Task

	Author    *User   `json:"author"`
	Assignee  *User   `json:"assignee"`
	Observers []*User `json:"observers"`
}
