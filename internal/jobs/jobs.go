package jobs

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// Event is a payload delivered to a task handler
type Event struct {
	Name      string                 `json:"name"`
	Data      map[string]interface{} `json:"data,omitempty"`
	Timestamp time.Time              `json:"ts"`
}

// HandlerFunc is the signature every task handler implements
type HandlerFunc func(ctx context.Context, event Event) error

// Task declares a background task: a unique name, a trigger (an event name
// or a cron expression), and a handler. Dispatch and retry semantics live in
// the durable-execution service; this package only declares the contract.
type Task struct {
	Name    string
	Event   string // event trigger; empty for cron tasks
	Cron    string // cron expression; empty for event tasks
	Handler HandlerFunc
}

// Registry holds the task definitions exposed to the durable-execution
// service and the cron scheduler.
type Registry struct {
	mu    sync.RWMutex
	tasks map[string]Task
}

// NewRegistry creates an empty task registry
func NewRegistry() *Registry {
	return &Registry{tasks: make(map[string]Task)}
}

// Register adds a task definition. Exactly one of Event or Cron must be set.
func (r *Registry) Register(task Task) error {
	if task.Name == "" {
		return fmt.Errorf("task name is required")
	}
	if task.Handler == nil {
		return fmt.Errorf("task %q: handler is required", task.Name)
	}
	if (task.Event == "") == (task.Cron == "") {
		return fmt.Errorf("task %q: exactly one of event or cron trigger is required", task.Name)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.tasks[task.Name]; exists {
		return fmt.Errorf("task %q is already registered", task.Name)
	}
	r.tasks[task.Name] = task
	return nil
}

// Get returns a task by name
func (r *Registry) Get(name string) (Task, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	task, ok := r.tasks[name]
	return task, ok
}

// ByEvent returns all tasks triggered by an event name
func (r *Registry) ByEvent(event string) []Task {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var matched []Task
	for _, task := range r.tasks {
		if task.Event == event {
			matched = append(matched, task)
		}
	}
	return matched
}

// Tasks returns all registered task definitions
func (r *Registry) Tasks() []Task {
	r.mu.RLock()
	defer r.mu.RUnlock()

	all := make([]Task, 0, len(r.tasks))
	for _, task := range r.tasks {
		all = append(all, task)
	}
	return all
}
