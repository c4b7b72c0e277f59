package tasks_test

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/marcuslira2/task-manager-front/internal/apierr"
	"github.com/marcuslira2/task-manager-front/internal/auth"
	"github.com/marcuslira2/task-manager-front/internal/httpx"
	"github.com/marcuslira2/task-manager-front/internal/models"
	"github.com/marcuslira2/task-manager-front/internal/query"
	"github.com/marcuslira2/task-manager-front/internal/session"
	"github.com/marcuslira2/task-manager-front/internal/tasks"
)

type recordingNotifier struct {
	mu        sync.Mutex
	successes []string
	errors    []string
}

func (n *recordingNotifier) Success(msg string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.successes = append(n.successes, msg)
}

func (n *recordingNotifier) Error(msg string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.errors = append(n.errors, msg)
}

type fakeConfirmer struct {
	answer bool
	asked  int
}

func (c *fakeConfirmer) Confirm(string) bool {
	c.asked++
	return c.answer
}

type gatewayFixture struct {
	gw      *tasks.Gateway
	store   *session.MemoryStore
	notify  *recordingNotifier
	confirm *fakeConfirmer
}

func setupGateway(t *testing.T, handler http.Handler, confirm bool) *gatewayFixture {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	client, err := httpx.New(srv.URL, 5*time.Second, 0, 0, zap.NewNop().Sugar())
	if err != nil {
		t.Fatalf("httpx.New failed: %v", err)
	}

	store := session.NewMemoryStore()
	store.Save("test-token", &models.Identity{UserID: 7, Username: "alice"})

	notify := &recordingNotifier{}
	confirmer := &fakeConfirmer{answer: confirm}
	authorizer := auth.NewAuthorizer(store, zap.NewNop().Sugar())
	gw := tasks.NewGateway(client, authorizer, store, notify, confirmer, zap.NewNop().Sugar())

	return &gatewayFixture{gw: gw, store: store, notify: notify, confirm: confirmer}
}

func pageHandler(totalTasks int) gin.HandlerFunc {
	return func(c *gin.Context) {
		page := 0
		size := 10
		fmt.Sscanf(c.Query("page"), "%d", &page)
		fmt.Sscanf(c.Query("size"), "%d", &size)

		start := page * size
		var content []models.Task
		for i := start; i < totalTasks && i < start+size; i++ {
			content = append(content, models.Task{
				ID:         int64(i + 1),
				Title:      fmt.Sprintf("task %d", i+1),
				Status:     models.StatusPending,
				DeadLine:   time.Now().Add(time.Duration(i) * time.Hour).UTC(),
				AssignedTo: 7,
			})
		}
		c.JSON(http.StatusOK, models.PagedResult[models.Task]{
			Content:       content,
			TotalElements: int64(totalTasks),
			Number:        page,
			Size:          size,
		})
	}
}

func TestList_PageShape(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/tasks", pageHandler(23))

	fx := setupGateway(t, router, true)
	q := query.Query{Page: 0, Size: 10}

	page, err := fx.gw.List(context.Background(), q)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(page.Content) != 10 {
		t.Errorf("Expected 10 tasks on page, got %d", len(page.Content))
	}
	if page.TotalElements != 23 {
		t.Errorf("Expected 23 total elements, got %d", page.TotalElements)
	}
}

func TestList_SendsQueryParameters(t *testing.T) {
	var gotSort, gotSearch, gotPage string
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/tasks", func(c *gin.Context) {
		gotSort = c.Query("sort")
		gotSearch = c.Query("search")
		gotPage = c.Query("page")
		c.JSON(http.StatusOK, models.PagedResult[models.Task]{})
	})

	fx := setupGateway(t, router, true)
	q := query.Query{Page: 2, Size: 5, SortField: "deadLine", SortDir: query.Descending, Search: "report"}
	if _, err := fx.gw.List(context.Background(), q); err != nil {
		t.Fatalf("List failed: %v", err)
	}

	if gotSort != "deadLine,desc" {
		t.Errorf("Expected combined sort specifier, got %q", gotSort)
	}
	if gotSearch != "report" {
		t.Errorf("Expected search term, got %q", gotSearch)
	}
	if gotPage != "2" {
		t.Errorf("Expected page 2, got %q", gotPage)
	}
}

func TestList_UnauthorizedClearsSession(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/tasks", func(c *gin.Context) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "token expired"})
	})

	fx := setupGateway(t, router, true)
	_, err := fx.gw.List(context.Background(), query.Query{Page: 0, Size: 10})
	if !errors.Is(err, apierr.ErrSessionExpired) {
		t.Fatalf("Expected ErrSessionExpired, got %v", err)
	}
	if _, ok := fx.store.Token(); ok {
		t.Error("Expected token to be cleared after 401")
	}
}

func TestList_MissingCredential(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	requests := 0
	router.GET("/tasks", func(c *gin.Context) {
		requests++
		c.JSON(http.StatusOK, models.PagedResult[models.Task]{})
	})

	fx := setupGateway(t, router, true)
	fx.store.Clear()

	_, err := fx.gw.List(context.Background(), query.Query{Page: 0, Size: 10})
	if !errors.Is(err, apierr.ErrMissingCredential) {
		t.Errorf("Expected ErrMissingCredential, got %v", err)
	}
	if requests != 0 {
		t.Errorf("Expected no request without a credential, got %d", requests)
	}
}

func TestList_RemoteErrorCarriesBackendMessage(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/tasks", func(c *gin.Context) {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "database exploded"})
	})

	fx := setupGateway(t, router, true)
	_, err := fx.gw.List(context.Background(), query.Query{Page: 0, Size: 10})

	var rerr *apierr.RemoteError
	if !errors.As(err, &rerr) {
		t.Fatalf("Expected RemoteError, got %v", err)
	}
	if rerr.Message != "database exploded" {
		t.Errorf("Expected backend message, got %q", rerr.Message)
	}
	if len(fx.notify.errors) == 0 {
		t.Error("Expected an error notification")
	}
}

func TestListByStatus(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/tasks/filter", func(c *gin.Context) {
		if c.Query("status") != "COMPLETED" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "bad status"})
			return
		}
		c.JSON(http.StatusOK, models.PagedResult[models.Task]{
			Content:       []models.Task{{ID: 1, Title: "done", Status: models.StatusCompleted}},
			TotalElements: 1,
		})
	})

	fx := setupGateway(t, router, true)
	page, err := fx.gw.ListByStatus(context.Background(), models.StatusCompleted, 0, 10)
	if err != nil {
		t.Fatalf("ListByStatus failed: %v", err)
	}
	if len(page.Content) != 1 || page.Content[0].Status != models.StatusCompleted {
		t.Errorf("Unexpected page %+v", page)
	}
}

func TestCreate_DefaultsAndPayload(t *testing.T) {
	var got map[string]any
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.POST("/tasks", func(c *gin.Context) {
		if err := c.ShouldBindJSON(&got); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusCreated, models.Task{
			ID:          101,
			Title:       got["title"].(string),
			Description: got["description"].(string),
			Status:      models.Status(got["status"].(string)),
			CreateDate:  time.Now().UTC(),
			AssignedTo:  7,
		})
	})

	fx := setupGateway(t, router, true)
	deadline := time.Date(2026, 3, 15, 12, 30, 0, 0, time.FixedZone("CET", 3600))

	created, err := fx.gw.Create(context.Background(), tasks.TaskForm{
		Title:       "write report",
		Description: "quarterly numbers",
		DeadLine:    deadline,
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if got["status"] != string(models.StatusPending) {
		t.Errorf("Expected status to default to PENDING, got %v", got["status"])
	}
	if got["assignedTo"] != float64(7) {
		t.Errorf("Expected assignedTo from stored identity, got %v", got["assignedTo"])
	}
	wantInstant := deadline.UTC().Format(time.RFC3339)
	if got["deadLine"] != wantInstant {
		t.Errorf("Expected canonical deadline %q, got %v", wantInstant, got["deadLine"])
	}
	if created.ID != 101 {
		t.Errorf("Expected server-assigned id 101, got %d", created.ID)
	}
}

func TestCreate_WithoutIdentityFailsFast(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	requests := 0
	router.POST("/tasks", func(c *gin.Context) { requests++ })

	fx := setupGateway(t, router, true)
	fx.store.Save("token-without-identity", nil)

	_, err := fx.gw.Create(context.Background(), tasks.TaskForm{Title: "x", Description: "y"})
	if !errors.Is(err, apierr.ErrNotAuthenticated) {
		t.Errorf("Expected ErrNotAuthenticated, got %v", err)
	}
	if requests != 0 {
		t.Errorf("Expected no request without identity, got %d", requests)
	}
}

func TestCreate_NoRepresentationReturnsSubmittedFields(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.POST("/tasks", func(c *gin.Context) {
		c.String(http.StatusCreated, "created")
	})

	fx := setupGateway(t, router, true)
	created, err := fx.gw.Create(context.Background(), tasks.TaskForm{
		Title:       "no body",
		Description: "backend answers with text",
		DeadLine:    time.Now(),
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if created.Persisted() {
		t.Errorf("Expected no fabricated id, got %d", created.ID)
	}
	if created.Title != "no body" {
		t.Errorf("Expected submitted fields back, got %+v", created)
	}
}

func TestUpdate_AcceptedIsTheOnlySuccess(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	status := http.StatusAccepted
	router.PUT("/tasks/:id", func(c *gin.Context) {
		c.String(status, "")
	})

	fx := setupGateway(t, router, true)
	task := models.Task{ID: 5, Title: "t", Description: "d", Status: models.StatusInProgress, DeadLine: time.Now(), AssignedTo: 7}

	if _, err := fx.gw.Update(context.Background(), task); err != nil {
		t.Errorf("Expected 202 to succeed, got %v", err)
	}

	status = http.StatusOK
	_, err := fx.gw.Update(context.Background(), task)
	if !errors.Is(err, apierr.ErrUnexpectedResponse) {
		t.Errorf("Expected ErrUnexpectedResponse for 200, got %v", err)
	}
}

func TestUpdate_RequiresID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	fx := setupGateway(t, gin.New(), true)

	if _, err := fx.gw.Update(context.Background(), models.Task{Title: "no id"}); err == nil {
		t.Error("Expected error updating a task without an id")
	}
}

func TestUpdate_PermissionDenied(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.PUT("/tasks/:id", func(c *gin.Context) {
		c.JSON(http.StatusForbidden, gin.H{"message": "not yours"})
	})

	fx := setupGateway(t, router, true)
	_, err := fx.gw.Update(context.Background(), models.Task{ID: 5, Title: "t"})
	if !errors.Is(err, apierr.ErrPermissionDenied) {
		t.Errorf("Expected ErrPermissionDenied, got %v", err)
	}
}

func TestDelete_CancelledConfirmIssuesNoRequest(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	requests := 0
	router.DELETE("/tasks/:id", func(c *gin.Context) {
		requests++
		c.String(http.StatusAccepted, "")
	})

	fx := setupGateway(t, router, false) // user answers no
	if err := fx.gw.Delete(context.Background(), models.Task{ID: 5, Title: "doomed"}); err != nil {
		t.Errorf("Expected cancelled delete to resolve cleanly, got %v", err)
	}
	if fx.confirm.asked != 1 {
		t.Errorf("Expected exactly one confirmation prompt, got %d", fx.confirm.asked)
	}
	if requests != 0 {
		t.Errorf("Expected no backend request on cancel, got %d", requests)
	}
}

func TestDelete_Accepted(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.DELETE("/tasks/:id", func(c *gin.Context) {
		c.String(http.StatusAccepted, "")
	})

	fx := setupGateway(t, router, true)
	if err := fx.gw.Delete(context.Background(), models.Task{ID: 5, Title: "doomed"}); err != nil {
		t.Errorf("Delete failed: %v", err)
	}
	if len(fx.notify.successes) == 0 {
		t.Error("Expected a success notification")
	}
}

func TestDelete_PermissionDenied(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.DELETE("/tasks/:id", func(c *gin.Context) {
		c.String(http.StatusForbidden, "")
	})

	fx := setupGateway(t, router, true)
	err := fx.gw.Delete(context.Background(), models.Task{ID: 5})
	if !errors.Is(err, apierr.ErrPermissionDenied) {
		t.Errorf("Expected ErrPermissionDenied, got %v", err)
	}
	if len(fx.notify.errors) == 0 {
		t.Error("Expected an error notification distinguishing permission denial")
	}
}

func TestDelete_BadRequestSurfacesBackendMessage(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.DELETE("/tasks/:id", func(c *gin.Context) {
		c.JSON(http.StatusBadRequest, gin.H{"message": "task has open subtasks"})
	})

	fx := setupGateway(t, router, true)
	err := fx.gw.Delete(context.Background(), models.Task{ID: 5})

	var rerr *apierr.RemoteError
	if !errors.As(err, &rerr) {
		t.Fatalf("Expected RemoteError, got %v", err)
	}
	if rerr.Message != "task has open subtasks" {
		t.Errorf("Expected backend message, got %q", rerr.Message)
	}
}
