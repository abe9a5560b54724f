package domain

// EventType 待辦/專案 CRUD 產生的領域事件
type EventType string

const (
	// EventTodoCreated todo created and assigned
	EventTodoCreated EventType = "todo.created"
	// EventTodoStatusChanged assignee moved the todo to another status
	EventTodoStatusChanged EventType = "todo.status_changed"
	// EventTodoAdminUpdated an admin edited the todo
	EventTodoAdminUpdated EventType = "todo.admin_updated"
	// EventProjectMemberAdded user added to a project
	EventProjectMemberAdded EventType = "project.member_added"
)

// DomainEvent payload consumed from the event stream
type DomainEvent struct {
	Type           EventType `json:"type"`
	ActorID        int64     `json:"actorId"`
	ActorName      string    `json:"actorName"`
	ProjectID      *int64    `json:"projectId,omitempty"`
	ProjectName    string    `json:"projectName,omitempty"`
	TodoID         int64     `json:"todoId,omitempty"`
	TodoTitle      string    `json:"todoTitle,omitempty"`
	Priority       string    `json:"priority,omitempty"`
	DueDate        string    `json:"dueDate,omitempty"`
	AssigneeID     *int64    `json:"assigneeId,omitempty"`
	PrevAssigneeID *int64    `json:"prevAssigneeId,omitempty"`
	OldStatus      string    `json:"oldStatus,omitempty"`
	NewStatus      string    `json:"newStatus,omitempty"`
	Reason         string    `json:"reason,omitempty"`
}
