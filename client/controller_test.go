package client

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"task-tracker/backend/internal/models"
)

// tableServer is a canned backend that records every list query it
// receives.
type tableServer struct {
	mu          sync.Mutex
	listQueries []map[string]string
	requests    []string
	failLists   bool
}

func (s *tableServer) lastListQuery() map[string]string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.listQueries) == 0 {
		return nil
	}
	return s.listQueries[len(s.listQueries)-1]
}

func (s *tableServer) requestLog() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	log := make([]string, len(s.requests))
	copy(log, s.requests)
	return log
}

func (s *tableServer) handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		s.requests = append(s.requests, r.Method+" "+r.URL.Path)
		s.mu.Unlock()

		switch {
		case r.Method == http.MethodGet && r.URL.Path == "/task/getTasks":
			s.mu.Lock()
			s.listQueries = append(s.listQueries, map[string]string{
				"status": r.URL.Query().Get("status"),
				"title":  r.URL.Query().Get("title"),
				"sortBy": r.URL.Query().Get("sortBy"),
				"order":  r.URL.Query().Get("order"),
				"limit":  r.URL.Query().Get("limit"),
				"offset": r.URL.Query().Get("offset"),
			})
			fail := s.failLists
			s.mu.Unlock()

			if fail {
				w.WriteHeader(http.StatusInternalServerError)
				json.NewEncoder(w).Encode(map[string]interface{}{
					"status": false, "message": "An error occurred while retrieving tasks.", "rows": nil,
				})
				return
			}
			json.NewEncoder(w).Encode(map[string]interface{}{
				"status":  true,
				"message": "Tasks retrieved successfully",
				"rows": []models.Task{
					{ID: 1, Title: "write report", Status: models.StatusPending},
					{ID: 2, Title: "review code", Status: models.StatusActive},
				},
				"totalCount": 12,
			})
		case r.Method == http.MethodPost && r.URL.Path == "/task/createTask":
			w.WriteHeader(http.StatusCreated)
			json.NewEncoder(w).Encode(map[string]interface{}{
				"status": true, "message": "Task created successfully",
				"rows": []models.Task{{ID: 13, Title: "new"}},
			})
		case r.Method == http.MethodPut && r.URL.Path == "/task/updateTask/2":
			json.NewEncoder(w).Encode(map[string]interface{}{
				"status": true, "message": "Task updated successfully",
				"updatedTask": models.Task{ID: 2, Title: "review code again"},
			})
		case r.Method == http.MethodDelete && r.URL.Path == "/task/deleteTask/1":
			json.NewEncoder(w).Encode(map[string]interface{}{
				"status": true, "message": "Task deleted successfully",
			})
		case r.Method == http.MethodDelete && r.URL.Path == "/task/deleteTask/99":
			json.NewEncoder(w).Encode(map[string]interface{}{
				"status": false, "message": "Task not found",
			})
		default:
			w.WriteHeader(http.StatusNotFound)
			json.NewEncoder(w).Encode(map[string]interface{}{
				"status": false, "message": "Task not found",
			})
		}
	})
}

func newTestController(t *testing.T) (*Controller, *tableServer) {
	t.Helper()
	backend := &tableServer{}
	server := httptest.NewServer(backend.handler())
	t.Cleanup(server.Close)
	return NewController(NewClient(server.URL)), backend
}

func TestRefreshUsesTableDefaults(t *testing.T) {
	controller, backend := newTestController(t)

	if err := controller.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh returned error: %v", err)
	}

	query := backend.lastListQuery()
	if query["sortBy"] != "created_at" {
		t.Errorf("sortBy = %q, want created_at", query["sortBy"])
	}
	if query["order"] != "desc" {
		t.Errorf("order = %q, want desc", query["order"])
	}
	if query["limit"] != "5" {
		t.Errorf("limit = %q, want 5", query["limit"])
	}
	if query["offset"] != "" {
		t.Errorf("offset = %q, want omitted", query["offset"])
	}

	if len(controller.Items()) != 2 {
		t.Errorf("items = %d, want 2", len(controller.Items()))
	}
	if controller.TotalRows() != 12 {
		t.Errorf("totalRows = %d, want 12", controller.TotalRows())
	}
	if controller.Loading() {
		t.Error("loading should be cleared after refresh")
	}
}

func TestToggleSortFlipsAndSwitchesColumns(t *testing.T) {
	controller, backend := newTestController(t)
	ctx := context.Background()

	// new column starts ascending
	if err := controller.ToggleSort(ctx, "title"); err != nil {
		t.Fatalf("ToggleSort returned error: %v", err)
	}
	if controller.OrderBy() != "title" || controller.Order() != "asc" {
		t.Errorf("after first toggle: orderBy=%q order=%q", controller.OrderBy(), controller.Order())
	}

	// same column flips direction
	if err := controller.ToggleSort(ctx, "title"); err != nil {
		t.Fatalf("ToggleSort returned error: %v", err)
	}
	if controller.Order() != "desc" {
		t.Errorf("after second toggle: order=%q, want desc", controller.Order())
	}

	// switching away resets to ascending
	if err := controller.ToggleSort(ctx, "status"); err != nil {
		t.Fatalf("ToggleSort returned error: %v", err)
	}
	if controller.OrderBy() != "status" || controller.Order() != "asc" {
		t.Errorf("after switch: orderBy=%q order=%q", controller.OrderBy(), controller.Order())
	}

	query := backend.lastListQuery()
	if query["sortBy"] != "status" || query["order"] != "asc" {
		t.Errorf("request sortBy=%q order=%q", query["sortBy"], query["order"])
	}
}

func TestPaginationWindow(t *testing.T) {
	controller, backend := newTestController(t)
	ctx := context.Background()

	if err := controller.SetPage(ctx, 2); err != nil {
		t.Fatalf("SetPage returned error: %v", err)
	}
	query := backend.lastListQuery()
	if query["limit"] != "5" || query["offset"] != "10" {
		t.Errorf("limit=%q offset=%q, want 5/10", query["limit"], query["offset"])
	}

	// changing the page size snaps back to the first page
	if err := controller.SetRowsPerPage(ctx, 10); err != nil {
		t.Fatalf("SetRowsPerPage returned error: %v", err)
	}
	if controller.Page() != 0 {
		t.Errorf("page = %d, want 0", controller.Page())
	}
	query = backend.lastListQuery()
	if query["limit"] != "10" || query["offset"] != "" {
		t.Errorf("limit=%q offset=%q, want 10/omitted", query["limit"], query["offset"])
	}
}

func TestSubmitRequiresAllFields(t *testing.T) {
	controller, backend := newTestController(t)

	controller.OpenEditor(models.Task{})
	controller.SetDraft(TaskInput{Title: "only a title"})

	err := controller.Submit(context.Background())
	if !errors.Is(err, ErrDraftIncomplete) {
		t.Fatalf("expected ErrDraftIncomplete, got %v", err)
	}
	if len(backend.requestLog()) != 0 {
		t.Errorf("incomplete draft must not reach the server: %v", backend.requestLog())
	}
	if controller.StatusMessage() != "Please fill in all fields" {
		t.Errorf("statusMessage = %q", controller.StatusMessage())
	}
}

func TestSubmitCreatesWhenDraftHasNoID(t *testing.T) {
	controller, backend := newTestController(t)

	controller.OpenEditor(models.Task{})
	controller.SetDraft(TaskInput{Title: "new", Description: "fresh work", Status: models.StatusPending})

	if err := controller.Submit(context.Background()); err != nil {
		t.Fatalf("Submit returned error: %v", err)
	}

	log := backend.requestLog()
	if len(log) != 2 || log[0] != "POST /task/createTask" || log[1] != "GET /task/getTasks" {
		t.Errorf("unexpected request log: %v", log)
	}
	if controller.EditorOpen() {
		t.Error("editor should close after a successful submit")
	}
	if draft, draftID := controller.Draft(); draftID != 0 || draft.Title != "" {
		t.Errorf("draft should reset, got id=%d draft=%+v", draftID, draft)
	}
}

func TestSubmitUpdatesWhenEditingExistingTask(t *testing.T) {
	controller, backend := newTestController(t)

	controller.OpenEditor(models.Task{ID: 2, Title: "review code", Description: "pr 41", Status: models.StatusActive})
	controller.SetDraft(TaskInput{Title: "review code again", Description: "pr 41", Status: models.StatusActive})

	if err := controller.Submit(context.Background()); err != nil {
		t.Fatalf("Submit returned error: %v", err)
	}

	log := backend.requestLog()
	if len(log) != 2 || log[0] != "PUT /task/updateTask/2" || log[1] != "GET /task/getTasks" {
		t.Errorf("unexpected request log: %v", log)
	}
}

func TestDeleteRefreshesTable(t *testing.T) {
	controller, backend := newTestController(t)

	if err := controller.Delete(context.Background(), 1); err != nil {
		t.Fatalf("Delete returned error: %v", err)
	}

	log := backend.requestLog()
	if len(log) != 2 || log[0] != "DELETE /task/deleteTask/1" || log[1] != "GET /task/getTasks" {
		t.Errorf("unexpected request log: %v", log)
	}
}

func TestDeleteMissingTaskShowsServerMessage(t *testing.T) {
	controller, _ := newTestController(t)

	err := controller.Delete(context.Background(), 99)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if controller.StatusMessage() != "Task not found" {
		t.Errorf("statusMessage = %q", controller.StatusMessage())
	}
	if controller.Loading() {
		t.Error("loading should be cleared after a failed delete")
	}
}

func TestStatusMessageClearsAfterTTL(t *testing.T) {
	controller, _ := newTestController(t)
	controller.messageTTL = 20 * time.Millisecond

	if err := controller.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh returned error: %v", err)
	}
	if controller.StatusMessage() == "" {
		t.Fatal("expected a status message right after refresh")
	}

	deadline := time.Now().Add(time.Second)
	for controller.StatusMessage() != "" {
		if time.Now().After(deadline) {
			t.Fatal("status message never cleared")
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestFailedRefreshClearsLoadingAndKeepsMessage(t *testing.T) {
	controller, backend := newTestController(t)
	backend.mu.Lock()
	backend.failLists = true
	backend.mu.Unlock()

	err := controller.Refresh(context.Background())
	if err == nil {
		t.Fatal("expected error from failing backend")
	}
	if controller.Loading() {
		t.Error("loading should be cleared even when the request fails")
	}
	if controller.StatusMessage() != "An error occurred while retrieving tasks." {
		t.Errorf("statusMessage = %q", controller.StatusMessage())
	}
}
