package services

import (
	"task-tracker/backend/internal/models"
	"task-tracker/backend/internal/repositories"

	"gorm.io/gorm"
)

// TaskService is the seam between the HTTP handlers and the query
// engine. Implementations must not change observable list/count
// semantics; the cached decorator relies on that.
type TaskService interface {
	ListTasks(db *gorm.DB, filter repositories.TaskFilter) ([]models.Task, int64, error)
	CreateTask(db *gorm.DB, task *models.Task) error
	GetTaskByID(db *gorm.DB, id uint) (models.Task, error)
	UpdateTask(db *gorm.DB, id uint, updated models.Task) (models.Task, error)
	DeleteTask(db *gorm.DB, id uint) (bool, error)
}

type TaskServiceImpl struct {
	repo *repositories.TaskRepository
}

func NewTaskService() *TaskServiceImpl {
	return &TaskServiceImpl{repo: repositories.NewTaskRepository()}
}

func (s *TaskServiceImpl) ListTasks(db *gorm.DB, filter repositories.TaskFilter) ([]models.Task, int64, error) {
	return s.repo.List(db, filter)
}

func (s *TaskServiceImpl) CreateTask(db *gorm.DB, task *models.Task) error {
	return s.repo.Create(db, task)
}

func (s *TaskServiceImpl) GetTaskByID(db *gorm.DB, id uint) (models.Task, error) {
	return s.repo.GetByID(db, id)
}

func (s *TaskServiceImpl) UpdateTask(db *gorm.DB, id uint, updated models.Task) (models.Task, error) {
	return s.repo.Update(db, id, updated)
}

func (s *TaskServiceImpl) DeleteTask(db *gorm.DB, id uint) (bool, error) {
	return s.repo.Delete(db, id)
}
