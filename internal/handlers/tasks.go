package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"task-tracker/backend/internal/models"
	"task-tracker/backend/internal/repositories"
	"task-tracker/backend/internal/services"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// TaskHandler exposes the /task surface. Every response carries the
// {status, message, ...} envelope the client expects.
type TaskHandler struct {
	db          *gorm.DB
	taskService services.TaskService
}

func NewTaskHandler(db *gorm.DB, taskService services.TaskService) *TaskHandler {
	return &TaskHandler{db: db, taskService: taskService}
}

type taskInput struct {
	Title       string `json:"title" binding:"required"`
	Description string `json:"description" binding:"required"`
	Status      string `json:"status" binding:"required"`
}

func (h *TaskHandler) GetTasks(c *gin.Context) {
	limit, err := nonNegativeQueryInt(c, "limit", repositories.DefaultListLimit)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"status":  false,
			"message": "limit must be a non-negative integer",
		})
		return
	}

	offset, err := nonNegativeQueryInt(c, "offset", 0)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"status":  false,
			"message": "offset must be a non-negative integer",
		})
		return
	}

	filter := repositories.TaskFilter{
		Status: c.Query("status"),
		Title:  c.Query("title"),
		SortBy: c.DefaultQuery("sortBy", "created_at"),
		Order:  c.DefaultQuery("order", "asc"),
		Limit:  limit,
		Offset: offset,
	}

	tasks, total, err := h.taskService.ListTasks(h.requestDB(c), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"status":  false,
			"message": "An error occurred while retrieving tasks.",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":     true,
		"message":    "Tasks retrieved successfully",
		"rows":       tasks,
		"totalCount": total,
	})
}

func (h *TaskHandler) CreateTask(c *gin.Context) {
	var input taskInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"status":  false,
			"message": "title, description and status are required",
		})
		return
	}

	task := models.Task{
		Title:       input.Title,
		Description: input.Description,
		Status:      input.Status,
	}

	if err := h.taskService.CreateTask(h.requestDB(c), &task); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"status":  false,
			"message": "An error occurred while creating the task.",
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"status":  true,
		"message": "Task created successfully",
		"rows":    []models.Task{task},
	})
}

func (h *TaskHandler) GetTask(c *gin.Context) {
	id, ok := taskIDParam(c)
	if !ok {
		return
	}

	task, err := h.taskService.GetTaskByID(h.requestDB(c), id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"status":  false,
				"message": "Task not found",
				"rows":    nil,
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"status":  false,
			"message": "An error occurred while retrieving the task.",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  true,
		"message": fmt.Sprintf("Task with %d retrieved successfully", id),
		"rows":    task,
	})
}

func (h *TaskHandler) UpdateTask(c *gin.Context) {
	id, ok := taskIDParam(c)
	if !ok {
		return
	}

	var input taskInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"status":  false,
			"message": "title, description and status are required",
		})
		return
	}

	updated := models.Task{
		Title:       input.Title,
		Description: input.Description,
		Status:      input.Status,
	}

	task, err := h.taskService.UpdateTask(h.requestDB(c), id, updated)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"status":  false,
				"message": "Task not found",
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"status":  false,
			"message": "An error occurred while updating the task.",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":      true,
		"message":     "Task updated successfully",
		"updatedTask": task,
	})
}

func (h *TaskHandler) DeleteTask(c *gin.Context) {
	id, ok := taskIDParam(c)
	if !ok {
		return
	}

	removed, err := h.taskService.DeleteTask(h.requestDB(c), id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"status":  false,
			"message": "An error occurred while deleting the task.",
		})
		return
	}

	if !removed {
		c.JSON(http.StatusOK, gin.H{
			"status":  false,
			"message": "Task not found",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  true,
		"message": "Task deleted successfully",
	})
}

// requestDB scopes the query to the request context so a cancelled
// request cancels its statements.
func (h *TaskHandler) requestDB(c *gin.Context) *gorm.DB {
	return h.db.WithContext(c.Request.Context())
}

func taskIDParam(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"status":  false,
			"message": "id must be a positive integer",
		})
		return 0, false
	}
	return uint(id), true
}

func nonNegativeQueryInt(c *gin.Context, name string, defaultValue int) (int, error) {
	raw := c.Query(name)
	if raw == "" {
		return defaultValue, nil
	}

	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, err
	}
	if value < 0 {
		return 0, fmt.Errorf("%s must be non-negative", name)
	}

	return value, nil
}
