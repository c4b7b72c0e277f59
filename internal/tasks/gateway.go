// Package tasks executes the task CRUD and listing operations against
// the backend.
package tasks

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/marcuslira2/task-manager-front/internal/apierr"
	"github.com/marcuslira2/task-manager-front/internal/auth"
	"github.com/marcuslira2/task-manager-front/internal/httpx"
	"github.com/marcuslira2/task-manager-front/internal/models"
	"github.com/marcuslira2/task-manager-front/internal/query"
	"github.com/marcuslira2/task-manager-front/internal/session"
)

// Notifier surfaces outcomes to the user; the CLI prints them, tests
// record them.
type Notifier interface {
	Success(msg string)
	Error(msg string)
}

// Confirmer gates destructive operations behind user confirmation.
type Confirmer interface {
	Confirm(prompt string) bool
}

// TaskForm carries the user-editable fields for a task creation.
type TaskForm struct {
	Title       string
	Description string
	Status      models.Status
	DeadLine    time.Time
}

type Gateway struct {
	http    *httpx.Client
	auth    *auth.Authorizer
	store   session.Store
	notify  Notifier
	confirm Confirmer
	log     *zap.SugaredLogger
}

func NewGateway(client *httpx.Client, authorizer *auth.Authorizer, store session.Store,
	notify Notifier, confirm Confirmer, log *zap.SugaredLogger) *Gateway {
	return &Gateway{
		http:    client,
		auth:    authorizer,
		store:   store,
		notify:  notify,
		confirm: confirm,
		log:     log,
	}
}

// createTaskRequest is the wire shape for POST /tasks; deadLine travels
// as a canonical UTC instant.
type createTaskRequest struct {
	Title       string        `json:"title"`
	Description string        `json:"description"`
	Status      models.Status `json:"status"`
	DeadLine    string        `json:"deadLine"`
	AssignedTo  int64         `json:"assignedTo"`
}

type updateTaskRequest struct {
	ID          int64         `json:"id"`
	Title       string        `json:"title"`
	Description string        `json:"description"`
	Status      models.Status `json:"status"`
	DeadLine    string        `json:"deadLine"`
	AssignedTo  int64         `json:"assignedTo"`
}

func canonicalInstant(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

func decodePage(resp *http.Response, page *models.PagedResult[models.Task]) error {
	if err := json.NewDecoder(resp.Body).Decode(page); err != nil {
		return fmt.Errorf("decode page response: %w", err)
	}
	return nil
}

// List fetches one page of tasks for the given query.
func (g *Gateway) List(ctx context.Context, q query.Query) (models.PagedResult[models.Task], error) {
	var page models.PagedResult[models.Task]

	header, err := g.auth.Header()
	if err != nil {
		return page, err
	}

	params := url.Values{}
	params.Set("page", strconv.Itoa(q.Page))
	params.Set("size", strconv.Itoa(q.Size))
	if spec := q.SortSpec(); spec != "" {
		params.Set("sort", spec)
	}
	if q.Search != "" {
		params.Set("search", q.Search)
	}

	resp, err := g.http.Do(ctx, http.MethodGet, "/tasks", params, nil, header)
	if err != nil {
		g.notify.Error("Unable to connect to the server. Please check your connection and try again.")
		return page, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		return page, g.auth.Rejected()
	}
	if resp.StatusCode != http.StatusOK {
		msg := httpx.Message(httpx.ReadBody(resp))
		if msg == "" {
			msg = "Error loading tasks"
		}
		g.notify.Error(msg)
		return page, &apierr.RemoteError{Status: resp.StatusCode, Message: msg}
	}

	if err := decodePage(resp, &page); err != nil {
		return page, err
	}
	return page, nil
}

// ListByStatus fetches one page restricted to a status. Non-authorization
// failures are returned as-is: the caller falls back to the unfiltered
// listing instead of surfacing them, so a broken filter never blanks the
// screen.
func (g *Gateway) ListByStatus(ctx context.Context, status models.Status, page, size int) (models.PagedResult[models.Task], error) {
	var result models.PagedResult[models.Task]

	header, err := g.auth.Header()
	if err != nil {
		return result, err
	}

	params := url.Values{}
	params.Set("status", string(status))
	params.Set("page", strconv.Itoa(page))
	params.Set("size", strconv.Itoa(size))

	resp, err := g.http.Do(ctx, http.MethodGet, "/tasks/filter", params, nil, header)
	if err != nil {
		return result, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		return result, g.auth.Rejected()
	}
	if resp.StatusCode != http.StatusOK {
		return result, &apierr.RemoteError{Status: resp.StatusCode, Message: httpx.Message(httpx.ReadBody(resp))}
	}

	if err := decodePage(resp, &result); err != nil {
		return result, err
	}
	return result, nil
}

// Create submits a new task assigned to the logged-in user. Status
// defaults to PENDING. The server-returned representation is preferred;
// when the backend answers without one, the submitted fields come back
// with a zero id and the caller is expected to re-fetch.
func (g *Gateway) Create(ctx context.Context, form TaskForm) (models.Task, error) {
	var zero models.Task

	identity, ok := g.store.Identity()
	if !ok {
		g.notify.Error("Error: user not authenticated")
		return zero, apierr.ErrNotAuthenticated
	}

	header, err := g.auth.Header()
	if err != nil {
		return zero, err
	}

	status := form.Status
	if status == "" {
		status = models.StatusPending
	}
	payload := createTaskRequest{
		Title:       form.Title,
		Description: form.Description,
		Status:      status,
		DeadLine:    canonicalInstant(form.DeadLine),
		AssignedTo:  identity.UserID,
	}

	resp, err := g.http.Do(ctx, http.MethodPost, "/tasks", nil, payload, header)
	if err != nil {
		g.notify.Error("Unable to connect to the server. Please check your connection and try again.")
		return zero, err
	}
	defer resp.Body.Close()

	body := httpx.ReadBody(resp)
	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		return zero, g.auth.Rejected()
	case resp.StatusCode == http.StatusBadRequest || resp.StatusCode == http.StatusUnprocessableEntity:
		msg := httpx.Message(body)
		g.notify.Error(msg)
		return zero, &apierr.ValidationError{Message: msg}
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		msg := httpx.Message(body)
		g.notify.Error(msg)
		return zero, &apierr.RemoteError{Status: resp.StatusCode, Message: msg}
	}

	g.notify.Success("Task created successfully!")

	var created models.Task
	if err := json.Unmarshal([]byte(body), &created); err == nil && created.Persisted() {
		return created, nil
	}
	// No representation in the response; the list refresh after save is
	// the source of truth for the assigned id and creation timestamp.
	deadline, _ := time.Parse(time.RFC3339, payload.DeadLine)
	return models.Task{
		Title:       payload.Title,
		Description: payload.Description,
		Status:      payload.Status,
		DeadLine:    deadline,
		AssignedTo:  payload.AssignedTo,
	}, nil
}

// Update replaces a task's mutable fields. The backend guarantees exactly
// 202 on success; any other 2xx is out of contract.
func (g *Gateway) Update(ctx context.Context, t models.Task) (models.Task, error) {
	var zero models.Task

	if !t.Persisted() {
		return zero, fmt.Errorf("cannot update a task without an id")
	}

	header, err := g.auth.Header()
	if err != nil {
		return zero, err
	}

	payload := updateTaskRequest{
		ID:          t.ID,
		Title:       t.Title,
		Description: t.Description,
		Status:      t.Status,
		DeadLine:    canonicalInstant(t.DeadLine),
		AssignedTo:  t.AssignedTo,
	}

	resp, err := g.http.Do(ctx, http.MethodPut, fmt.Sprintf("/tasks/%d", t.ID), nil, payload, header)
	if err != nil {
		g.notify.Error("Unable to connect to the server. Please check your connection and try again.")
		return zero, err
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusAccepted:
		g.notify.Success("Task updated successfully!")
		updated := t
		updated.DeadLine = t.DeadLine.UTC()
		return updated, nil
	case resp.StatusCode == http.StatusUnauthorized:
		return zero, g.auth.Rejected()
	case resp.StatusCode == http.StatusForbidden:
		msg := "You do not have permission to edit this task."
		g.notify.Error(msg)
		return zero, fmt.Errorf("%w: %s", apierr.ErrPermissionDenied, msg)
	case resp.StatusCode >= 200 && resp.StatusCode <= 299:
		return zero, fmt.Errorf("%w: got %d, want 202", apierr.ErrUnexpectedResponse, resp.StatusCode)
	default:
		msg := httpx.Message(httpx.ReadBody(resp))
		g.notify.Error(msg)
		return zero, &apierr.RemoteError{Status: resp.StatusCode, Message: msg}
	}
}

// Delete removes a task after user confirmation. Cancelling the prompt
// resolves as a no-op without issuing any request.
func (g *Gateway) Delete(ctx context.Context, t models.Task) error {
	label := t.Title
	if label == "" {
		label = fmt.Sprintf("#%d", t.ID)
	}
	if !g.confirm.Confirm(fmt.Sprintf("Are you sure you want to delete the task %q?", label)) {
		return nil
	}

	header, err := g.auth.Header()
	if err != nil {
		return err
	}

	resp, err := g.http.Do(ctx, http.MethodDelete, fmt.Sprintf("/tasks/%d", t.ID), nil, nil, header)
	if err != nil {
		g.notify.Error("Unable to connect to the server. Please check your connection and try again.")
		return err
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusAccepted:
		g.notify.Success("The task has been deleted successfully.")
		return nil
	case resp.StatusCode == http.StatusUnauthorized:
		return g.auth.Rejected()
	case resp.StatusCode == http.StatusForbidden:
		msg := "You do not have permission to delete this task"
		g.notify.Error(msg)
		return fmt.Errorf("%w: %s", apierr.ErrPermissionDenied, msg)
	case resp.StatusCode >= 200 && resp.StatusCode <= 299:
		return fmt.Errorf("%w: got %d, want 202", apierr.ErrUnexpectedResponse, resp.StatusCode)
	default:
		msg := httpx.Message(httpx.ReadBody(resp))
		if msg == "" {
			msg = "Failed to delete task"
		}
		g.notify.Error(msg)
		return &apierr.RemoteError{Status: resp.StatusCode, Message: msg}
	}
}
