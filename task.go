package concurqueue

import (
	"time"

	"github.com/google/uuid"
)

// Task is an immutable unit of work. Identity is the ID alone: two
// tasks with equal name, priority, and payload but different IDs are
// distinct entities. Status lives in the Tracker, never on the Task.
type Task struct {
	ID        uuid.UUID
	Name      string
	Priority  int // lower value dequeues first
	CreatedAt time.Time
	Payload   string
}

// NewTask creates a task with a fresh random ID and creation
// timestamp. Priority is not range-checked; any int is a valid
// ordering key.
func NewTask(name string, priority int, payload string) Task {
	return Task{
		ID:        uuid.New(),
		Name:      name,
		Priority:  priority,
		CreatedAt: time.Now(),
		Payload:   payload,
	}
}

// ShortID returns the first 8 hex characters of the task ID,
// used in log output.
func (t Task) ShortID() string {
	return t.ID.String()[:8]
}
