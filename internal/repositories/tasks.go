package repositories

import (
	"strings"

	"task-tracker/backend/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const DefaultListLimit = 10

// TaskFilter carries the list parameters exactly as they arrive from the
// API. Zero-value Status/Title mean "no filter"; an unknown SortBy falls
// back to created_at rather than erroring.
type TaskFilter struct {
	Status string
	Title  string
	SortBy string
	Order  string
	Limit  int
	Offset int
}

// sortColumns is the only place a request value can become part of the
// generated statement. Everything else is a bound parameter.
var sortColumns = map[string]string{
	"id":         "id",
	"title":      "title",
	"status":     "status",
	"created_at": "created_at",
}

func (f TaskFilter) sortColumn() string {
	if column, ok := sortColumns[f.SortBy]; ok {
		return column
	}
	return "created_at"
}

func (f TaskFilter) descending() bool {
	return strings.EqualFold(f.Order, "desc")
}

func (f TaskFilter) limit() int {
	if f.Limit <= 0 {
		return DefaultListLimit
	}
	return f.Limit
}

func (f TaskFilter) offset() int {
	if f.Offset < 0 {
		return 0
	}
	return f.Offset
}

// Normalized returns the filter as the engine will actually run it:
// whitelisted sort column, asc/desc order, lowercased title (the match
// is case-insensitive), defaulted limit and clamped offset. Equivalent
// filters normalize to the same value, so cache keys derived from this
// form never split or collide.
func (f TaskFilter) Normalized() TaskFilter {
	order := "asc"
	if f.descending() {
		order = "desc"
	}

	return TaskFilter{
		Status: f.Status,
		Title:  strings.ToLower(f.Title),
		SortBy: f.sortColumn(),
		Order:  order,
		Limit:  f.limit(),
		Offset: f.offset(),
	}
}

type TaskRepository struct{}

func NewTaskRepository() *TaskRepository {
	return &TaskRepository{}
}

func (f TaskFilter) apply(q *gorm.DB) *gorm.DB {
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	if f.Title != "" {
		q = q.Where("LOWER(title) LIKE ?", "%"+strings.ToLower(f.Title)+"%")
	}
	return q
}

// List runs the paged row fetch and the unpaginated count in one
// transaction so the pair can never disagree under concurrent writers.
func (r *TaskRepository) List(db *gorm.DB, filter TaskFilter) ([]models.Task, int64, error) {
	tasks := make([]models.Task, 0, filter.limit())
	var total int64

	err := db.Transaction(func(tx *gorm.DB) error {
		if err := filter.apply(tx.Model(&models.Task{})).Count(&total).Error; err != nil {
			return err
		}

		return filter.apply(tx.Model(&models.Task{})).
			Order(clause.OrderByColumn{
				Column: clause.Column{Name: filter.sortColumn()},
				Desc:   filter.descending(),
			}).
			Limit(filter.limit()).
			Offset(filter.offset()).
			Find(&tasks).Error
	})
	if err != nil {
		return nil, 0, err
	}

	return tasks, total, nil
}

func (r *TaskRepository) Create(db *gorm.DB, task *models.Task) error {
	return db.Create(task).Error
}

func (r *TaskRepository) GetByID(db *gorm.DB, id uint) (models.Task, error) {
	var task models.Task
	err := db.First(&task, id).Error
	return task, err
}

// Update replaces title, description and status for the given id.
// created_at is never touched. Returns gorm.ErrRecordNotFound when no
// row matches.
func (r *TaskRepository) Update(db *gorm.DB, id uint, updated models.Task) (models.Task, error) {
	result := db.Model(&models.Task{}).Where("id = ?", id).Updates(map[string]interface{}{
		"title":       updated.Title,
		"description": updated.Description,
		"status":      updated.Status,
	})
	if result.Error != nil {
		return models.Task{}, result.Error
	}
	if result.RowsAffected == 0 {
		return models.Task{}, gorm.ErrRecordNotFound
	}

	return r.GetByID(db, id)
}

// Delete removes the row and reports whether one existed. The id
// sequence is left alone: deleted ids are never handed out again.
func (r *TaskRepository) Delete(db *gorm.DB, id uint) (bool, error) {
	result := db.Delete(&models.Task{}, id)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}
