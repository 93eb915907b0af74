package transport

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/fastygo/taskservice/domain"
)

var validate = validator.New()

// DueDate parses dueDate from JSON as either date-only ("2006-01-02") or RFC3339.
// Date-only is stored as start of that day in UTC. Values are kept to the
// millisecond, the precision every store backend keeps.
type DueDate struct{ t *time.Time }

func (d *DueDate) UnmarshalJSON(data []byte) error {
	var raw *string
	if err := json.Unmarshal(data, &raw); err != nil {
		return errors.New("dueDate must be a date string")
	}
	if raw == nil || strings.TrimSpace(*raw) == "" {
		d.t = nil
		return nil
	}
	s := strings.TrimSpace(*raw)
	layouts := []string{
		"2006-01-02",
		time.RFC3339,
		time.RFC3339Nano,
		"2006-01-02T15:04:05",
	}
	for _, layout := range layouts {
		parsed, err := time.Parse(layout, s)
		if err == nil {
			parsed = parsed.UTC().Truncate(time.Millisecond)
			d.t = &parsed
			return nil
		}
	}
	return fmt.Errorf("dueDate: cast to date failed for value %q", s)
}

// Ptr returns the parsed time, nil when absent.
func (d DueDate) Ptr() *time.Time { return d.t }

// CreateTaskRequest is the JSON body for POST /api/tasks.
type CreateTaskRequest struct {
	Title         string  `json:"title" validate:"required"`
	Description   string  `json:"description"`
	Priority      string  `json:"priority" validate:"omitempty,oneof=high mid low"`
	DueDateString string  `json:"dueDateString"`
	DueDate       DueDate `json:"dueDate"`
	Completed     bool    `json:"completed"`
}

// DecodeCreateTask parses and validates a create payload. Every failure is a
// domain validation error.
func DecodeCreateTask(body []byte) (*domain.Task, error) {
	var req CreateTaskRequest
	if len(body) == 0 {
		body = []byte("{}")
	}
	if err := json.Unmarshal(body, &req); err != nil {
		return nil, domain.ValidationError("Task validation failed: " + decodeMessage(err))
	}
	req.Title = strings.TrimSpace(req.Title)

	if err := validate.Struct(req); err != nil {
		return nil, domain.ValidationError("Task validation failed: " + validationMessage(err))
	}

	return &domain.Task{
		Title:         req.Title,
		Description:   req.Description,
		Priority:      domain.Priority(req.Priority),
		DueDateString: req.DueDateString,
		DueDate:       req.DueDate.Ptr(),
		Completed:     req.Completed,
	}, nil
}

func decodeMessage(err error) string {
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) && typeErr.Field != "" {
		return fmt.Sprintf("%s: expected %s", typeErr.Field, typeErr.Type)
	}
	var syntaxErr *json.SyntaxError
	if errors.As(err, &syntaxErr) {
		return "malformed JSON body"
	}
	return err.Error()
}

func validationMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err.Error()
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		field := jsonName(fe.Field())
		switch fe.Tag() {
		case "required":
			msgs = append(msgs, field+" is required")
		case "oneof":
			msgs = append(msgs, fmt.Sprintf("%s: %q is not a valid value (want one of %s)", field, fe.Value(), fe.Param()))
		default:
			msgs = append(msgs, fmt.Sprintf("%s failed %s", field, fe.Tag()))
		}
	}
	return strings.Join(msgs, ", ")
}

func jsonName(field string) string {
	if field == "" {
		return field
	}
	return strings.ToLower(field[:1]) + field[1:]
}
