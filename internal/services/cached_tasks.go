package services

import (
	"fmt"
	"net/url"
	"time"

	"task-tracker/backend/internal/cache"
	"task-tracker/backend/internal/models"
	"task-tracker/backend/internal/repositories"

	"gorm.io/gorm"
)

const (
	listCacheTTL = 5 * time.Minute
	itemCacheTTL = 30 * time.Minute
)

// CachedTaskService wraps a TaskService with cache-aside reads. Cache
// failures fall through to the database: a broken cache must never
// change what the API returns.
type CachedTaskService struct {
	taskService TaskService
	cache       cache.Cache
}

func NewCachedTaskService(taskService TaskService, cacheInstance cache.Cache) *CachedTaskService {
	return &CachedTaskService{
		taskService: taskService,
		cache:       cacheInstance,
	}
}

type cachedList struct {
	Tasks []models.Task `json:"tasks"`
	Total int64         `json:"total"`
}

// listCacheKey is built from the normalized filter, so equivalent
// filters share one entry, and each text field is escaped so a value
// containing the separator cannot alias another filter's key.
func listCacheKey(f repositories.TaskFilter) string {
	f = f.Normalized()
	return fmt.Sprintf("tasks:list:%s:%s:%s:%s:%d:%d",
		url.QueryEscape(f.Status), url.QueryEscape(f.Title),
		f.SortBy, f.Order, f.Limit, f.Offset)
}

func itemCacheKey(id uint) string {
	return fmt.Sprintf("tasks:item:%d", id)
}

func (s *CachedTaskService) ListTasks(db *gorm.DB, filter repositories.TaskFilter) ([]models.Task, int64, error) {
	cacheKey := listCacheKey(filter)

	var cached cachedList
	if err := s.cache.Get(cacheKey, &cached); err == nil {
		return cached.Tasks, cached.Total, nil
	}

	tasks, total, err := s.taskService.ListTasks(db, filter)
	if err != nil {
		return nil, 0, err
	}

	s.cache.Set(cacheKey, cachedList{Tasks: tasks, Total: total}, listCacheTTL)

	return tasks, total, nil
}

func (s *CachedTaskService) CreateTask(db *gorm.DB, task *models.Task) error {
	if err := s.taskService.CreateTask(db, task); err != nil {
		return err
	}

	s.cache.Set(itemCacheKey(task.ID), *task, itemCacheTTL)
	s.cache.DeletePattern("tasks:list:*")

	return nil
}

func (s *CachedTaskService) GetTaskByID(db *gorm.DB, id uint) (models.Task, error) {
	cacheKey := itemCacheKey(id)

	var cached models.Task
	if err := s.cache.Get(cacheKey, &cached); err == nil {
		return cached, nil
	}

	task, err := s.taskService.GetTaskByID(db, id)
	if err != nil {
		return task, err
	}

	s.cache.Set(cacheKey, task, itemCacheTTL)

	return task, nil
}

func (s *CachedTaskService) UpdateTask(db *gorm.DB, id uint, updated models.Task) (models.Task, error) {
	task, err := s.taskService.UpdateTask(db, id, updated)
	if err != nil {
		return task, err
	}

	s.cache.Set(itemCacheKey(id), task, itemCacheTTL)
	s.cache.DeletePattern("tasks:list:*")

	return task, nil
}

func (s *CachedTaskService) DeleteTask(db *gorm.DB, id uint) (bool, error) {
	removed, err := s.taskService.DeleteTask(db, id)
	if err != nil {
		return removed, err
	}

	s.cache.Delete(itemCacheKey(id))
	s.cache.DeletePattern("tasks:list:*")

	return removed, nil
}
