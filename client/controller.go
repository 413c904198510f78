package client

import (
	"context"
	"errors"
	"sync"
	"time"

	"task-tracker/backend/internal/models"
)

// ErrDraftIncomplete is returned by Submit when the draft is missing a
// required field.
var ErrDraftIncomplete = errors.New("title, description and status are required")

const (
	defaultOrder       = "desc"
	defaultOrderBy     = "createdAt"
	defaultRowsPerPage = 5
	statusMessageTTL   = 2 * time.Second
)

// UI sort keys are camelCase; the API expects column names.
var apiSortColumns = map[string]string{
	"id":        "id",
	"title":     "title",
	"status":    "status",
	"createdAt": "created_at",
}

// Controller drives the task table: current sort, pagination window,
// filters, the row set and total, plus the editor draft and a
// transient status message. All methods are safe for concurrent use.
type Controller struct {
	api *Client

	mu            sync.Mutex
	order         string
	orderBy       string
	page          int
	rowsPerPage   int
	statusFilter  string
	titleFilter   string
	totalRows     int64
	items         []models.Task
	draft         TaskInput
	draftID       uint
	editorOpen    bool
	loading       bool
	statusMessage string
	messageTimer  *time.Timer
	messageTTL    time.Duration
}

func NewController(api *Client) *Controller {
	return &Controller{
		api:         api,
		order:       defaultOrder,
		orderBy:     defaultOrderBy,
		rowsPerPage: defaultRowsPerPage,
		messageTTL:  statusMessageTTL,
	}
}

// Refresh reloads the current page from the server.
func (c *Controller) Refresh(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.refreshLocked(ctx)
}

// ToggleSort flips the direction when field is already the active sort
// column and otherwise switches to the new column ascending, then
// reloads.
func (c *Controller) ToggleSort(ctx context.Context, field string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.orderBy == field && c.order == "asc" {
		c.order = "desc"
	} else {
		c.order = "asc"
	}
	c.orderBy = field

	return c.refreshLocked(ctx)
}

// SetPage moves to a zero-based page and reloads.
func (c *Controller) SetPage(ctx context.Context, page int) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if page < 0 {
		page = 0
	}
	c.page = page

	return c.refreshLocked(ctx)
}

// SetRowsPerPage changes the page size, jumps back to the first page
// and reloads.
func (c *Controller) SetRowsPerPage(ctx context.Context, rows int) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if rows < 1 {
		rows = defaultRowsPerPage
	}
	c.rowsPerPage = rows
	c.page = 0

	return c.refreshLocked(ctx)
}

// SetFilters applies status and title filters, resets to the first
// page and reloads.
func (c *Controller) SetFilters(ctx context.Context, status, title string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.statusFilter = status
	c.titleFilter = title
	c.page = 0

	return c.refreshLocked(ctx)
}

// OpenEditor starts editing. A task with a zero ID opens the editor in
// create mode; otherwise the draft is pre-filled for an update.
func (c *Controller) OpenEditor(task models.Task) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.draftID = task.ID
	c.draft = TaskInput{
		Title:       task.Title,
		Description: task.Description,
		Status:      task.Status,
	}
	c.editorOpen = true
}

func (c *Controller) CloseEditor() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.editorOpen = false
	c.draftID = 0
	c.draft = TaskInput{}
}

// SetDraft replaces the draft contents while the editor stays open.
func (c *Controller) SetDraft(draft TaskInput) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.draft = draft
}

// Submit sends the draft, creating when no task is being edited and
// updating otherwise. On success the editor closes and the table
// reloads so the new row appears under the current sort.
func (c *Controller) Submit(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.draft.Title == "" || c.draft.Description == "" || c.draft.Status == "" {
		c.setMessageLocked("Please fill in all fields")
		return ErrDraftIncomplete
	}

	c.loading = true

	var (
		message string
		err     error
	)
	if c.draftID == 0 {
		_, message, err = c.api.CreateTask(ctx, c.draft)
	} else {
		_, message, err = c.api.UpdateTask(ctx, c.draftID, c.draft)
	}

	c.loading = false
	if err != nil {
		c.setMessageLocked(errorMessage(err, "Failed to save task"))
		return err
	}

	c.editorOpen = false
	c.draftID = 0
	c.draft = TaskInput{}
	c.setMessageLocked(message)

	return c.refreshLocked(ctx)
}

// Delete removes a task and reloads the table.
func (c *Controller) Delete(ctx context.Context, id uint) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.loading = true
	message, err := c.api.DeleteTask(ctx, id)
	c.loading = false
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			c.setMessageLocked(message)
		} else {
			c.setMessageLocked(errorMessage(err, "Failed to delete task"))
		}
		return err
	}

	c.setMessageLocked(message)

	return c.refreshLocked(ctx)
}

// refreshLocked issues the list request for the current sort, page and
// filters. The loading flag is cleared on every path, including
// failures.
func (c *Controller) refreshLocked(ctx context.Context) error {
	c.loading = true

	sortBy, ok := apiSortColumns[c.orderBy]
	if !ok {
		sortBy = c.orderBy
	}

	result, message, err := c.api.ListTasks(ctx, ListParams{
		Status: c.statusFilter,
		Title:  c.titleFilter,
		SortBy: sortBy,
		Order:  c.order,
		Limit:  c.rowsPerPage,
		Offset: c.page * c.rowsPerPage,
	})

	c.loading = false
	if err != nil {
		c.setMessageLocked(errorMessage(err, "Failed to load tasks"))
		return err
	}

	c.items = result.Tasks
	c.totalRows = result.TotalCount
	c.setMessageLocked(message)

	return nil
}

// errorMessage prefers the server's failure message over the local
// fallback.
func errorMessage(err error, fallback string) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return fallback
}

// setMessageLocked publishes a transient status message that clears
// itself after the message TTL unless another message replaces it
// first.
func (c *Controller) setMessageLocked(message string) {
	if c.messageTimer != nil {
		c.messageTimer.Stop()
	}

	c.statusMessage = message
	if message == "" {
		return
	}

	c.messageTimer = time.AfterFunc(c.messageTTL, func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		if c.statusMessage == message {
			c.statusMessage = ""
		}
	})
}

func (c *Controller) Items() []models.Task {
	c.mu.Lock()
	defer c.mu.Unlock()

	items := make([]models.Task, len(c.items))
	copy(items, c.items)
	return items
}

func (c *Controller) TotalRows() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.totalRows
}

func (c *Controller) Page() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.page
}

func (c *Controller) RowsPerPage() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.rowsPerPage
}

func (c *Controller) Order() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.order
}

func (c *Controller) OrderBy() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.orderBy
}

func (c *Controller) Loading() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loading
}

func (c *Controller) StatusMessage() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.statusMessage
}

func (c *Controller) EditorOpen() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.editorOpen
}

func (c *Controller) Draft() (TaskInput, uint) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.draft, c.draftID
}
