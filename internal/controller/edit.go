package controller

import (
	"context"
	"errors"
	"sync"

	"go.uber.org/zap"

	"github.com/marcuslira2/task-manager-front/internal/models"
	"github.com/marcuslira2/task-manager-front/internal/tasks"
)

// ErrSubmitInFlight means a save was attempted while another one for the
// same editor is still pending.
var ErrSubmitInFlight = errors.New("a submission is already in progress")

// Saver is the slice of the task gateway the edit controller needs.
type Saver interface {
	Create(ctx context.Context, form tasks.TaskForm) (models.Task, error)
	Update(ctx context.Context, t models.Task) (models.Task, error)
}

// EditController drives a single-task create/update. A task without an
// id is created, a persisted one is updated with a full replacement of
// its mutable fields. The Submitting flag implements the
// Idle -> Submitting -> {Succeeded, Failed} gate.
type EditController struct {
	saver   Saver
	log     *zap.SugaredLogger
	onSaved func()

	mu         sync.Mutex
	submitting bool
}

// NewEditController builds the controller; onSaved, when non-nil, runs
// after every successful save (the list view hooks its refresh here so
// the server stays the source of truth for ids and timestamps).
func NewEditController(saver Saver, onSaved func(), log *zap.SugaredLogger) *EditController {
	return &EditController{saver: saver, onSaved: onSaved, log: log}
}

func (c *EditController) Submitting() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.submitting
}

// Save dispatches to create or update based on id presence.
func (c *EditController) Save(ctx context.Context, t models.Task) (models.Task, error) {
	c.mu.Lock()
	if c.submitting {
		c.mu.Unlock()
		return models.Task{}, ErrSubmitInFlight
	}
	c.submitting = true
	c.mu.Unlock()

	defer func() {
		c.mu.Lock()
		c.submitting = false
		c.mu.Unlock()
	}()

	var saved models.Task
	var err error
	if t.Persisted() {
		saved, err = c.saver.Update(ctx, t)
	} else {
		saved, err = c.saver.Create(ctx, tasks.TaskForm{
			Title:       t.Title,
			Description: t.Description,
			Status:      t.Status,
			DeadLine:    t.DeadLine,
		})
	}
	if err != nil {
		return models.Task{}, err
	}

	if c.onSaved != nil {
		c.onSaved()
	}
	return saved, nil
}
