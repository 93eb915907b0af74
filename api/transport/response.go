package transport

import "github.com/fastygo/taskservice/domain"

// MessageResponse is returned by the delete, restore and complete routes.
type MessageResponse struct {
	Message string       `json:"message"`
	Task    *domain.Task `json:"task,omitempty"`
}

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Message string `json:"message"`
}

const (
	MsgTaskDeleted   = "Task deleted successfully"
	MsgTaskRestored  = "Task restored successfully"
	MsgTaskCompleted = "Task marked as completed"
	MsgInternalError = "Internal server error"
)
