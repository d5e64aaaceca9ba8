package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"taskify/backend/internal/models"

	"github.com/gofrs/uuid"
	"gorm.io/gorm"
)

const DefaultPageSize = 10

// TaskSortField is the closed set of recognized sort keys. The string form
// coming off the wire is resolved once via ParseTaskSortField; no string
// comparison happens inside the query engine.
type TaskSortField int

const (
	SortByDueDate TaskSortField = iota
	SortByPriority
)

// ParseTaskSortField is case-insensitive. Anything unrecognized, including
// the empty string, falls back to due date.
func ParseTaskSortField(s string) TaskSortField {
	switch strings.ToLower(s) {
	case "priority":
		return SortByPriority
	default:
		return SortByDueDate
	}
}

// TaskFilters are conjunctive; a nil field is not applied.
type TaskFilters struct {
	Status   *models.TaskStatus
	DueDate  *time.Time
	Priority *models.TaskPriority
}

type TaskQuery struct {
	Filters        TaskFilters
	SortBy         TaskSortField
	SortDescending bool
	Page           int
	PageSize       int
}

type TaskService interface {
	CreateTask(db *gorm.DB, task models.Task, ownerID uuid.UUID) (models.Task, error)
	GetTaskByID(db *gorm.DB, taskID, ownerID uuid.UUID) (models.Task, error)
	GetTasksByUser(db *gorm.DB, ownerID uuid.UUID) ([]models.Task, error)
	GetTasksFiltered(db *gorm.DB, ownerID uuid.UUID, query TaskQuery) ([]models.Task, error)
	UpdateTask(db *gorm.DB, taskID uuid.UUID, updated models.Task, ownerID uuid.UUID) (models.Task, error)
	DeleteTask(db *gorm.DB, taskID, ownerID uuid.UUID) (bool, error)
}

type TaskServiceImpl struct{}

func NewTaskService() *TaskServiceImpl {
	return &TaskServiceImpl{}
}

func (s *TaskServiceImpl) CreateTask(db *gorm.DB, task models.Task, ownerID uuid.UUID) (models.Task, error) {
	if task.ID == uuid.Nil {
		task.ID = uuid.Must(uuid.NewV4())
	}
	task.UserID = ownerID
	if task.Status == "" {
		task.Status = models.StatusPending
	}
	if task.Priority == "" {
		task.Priority = models.PriorityMedium
	}
	now := time.Now().UTC()
	task.CreatedAt = now
	task.UpdatedAt = now

	if err := db.Create(&task).Error; err != nil {
		return models.Task{}, fmt.Errorf("failed to create task: %w", err)
	}
	return task, nil
}

// GetTaskByID fetches by id and owner in a single predicate. An owner
// mismatch is indistinguishable from an absent task.
func (s *TaskServiceImpl) GetTaskByID(db *gorm.DB, taskID, ownerID uuid.UUID) (models.Task, error) {
	var task models.Task
	err := db.Where("id = ? AND user_id = ?", taskID, ownerID).First(&task).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.Task{}, ErrTaskNotFound
	}
	if err != nil {
		return models.Task{}, fmt.Errorf("failed to fetch task: %w", err)
	}
	return task, nil
}

func (s *TaskServiceImpl) GetTasksByUser(db *gorm.DB, ownerID uuid.UUID) ([]models.Task, error) {
	tasks := []models.Task{}
	if err := db.Where("user_id = ?", ownerID).Find(&tasks).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch tasks: %w", err)
	}
	return tasks, nil
}

// GetTasksFiltered builds the filtered, sorted, paginated window over the
// owner's tasks. The owner scope is applied unconditionally before any
// filter. A query matching nothing returns an empty slice.
func (s *TaskServiceImpl) GetTasksFiltered(db *gorm.DB, ownerID uuid.UUID, query TaskQuery) ([]models.Task, error) {
	q := db.Model(&models.Task{}).Where("user_id = ?", ownerID)

	if query.Filters.Status != nil {
		q = q.Where("status = ?", *query.Filters.Status)
	}
	if query.Filters.DueDate != nil {
		// Match the calendar day, ignoring time-of-day.
		d := *query.Filters.DueDate
		start := time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, d.Location())
		end := start.AddDate(0, 0, 1)
		q = q.Where("due_date >= ? AND due_date < ?", start, end)
	}
	if query.Filters.Priority != nil {
		q = q.Where("priority = ?", *query.Filters.Priority)
	}

	q = q.Order(orderClause(query.SortBy, query.SortDescending))

	page := query.Page
	if page < 1 {
		page = 1
	}
	pageSize := query.PageSize
	if pageSize < 1 {
		pageSize = DefaultPageSize
	}

	tasks := []models.Task{}
	err := q.Offset((page - 1) * pageSize).Limit(pageSize).Find(&tasks).Error
	if err != nil {
		return nil, fmt.Errorf("failed to query tasks: %w", err)
	}
	return tasks, nil
}

func orderClause(field TaskSortField, descending bool) string {
	direction := "ASC"
	if descending {
		direction = "DESC"
	}
	switch field {
	case SortByPriority:
		// Rank low < medium < high instead of sorting the labels.
		return "CASE priority WHEN 'low' THEN 1 WHEN 'medium' THEN 2 WHEN 'high' THEN 3 ELSE 0 END " + direction
	default:
		return "due_date " + direction
	}
}

// UpdateTask overwrites the mutable fields of a task the owner can see.
// Identifier and owner are never altered.
func (s *TaskServiceImpl) UpdateTask(db *gorm.DB, taskID uuid.UUID, updated models.Task, ownerID uuid.UUID) (models.Task, error) {
	task, err := s.GetTaskByID(db, taskID, ownerID)
	if err != nil {
		return models.Task{}, err
	}

	task.Title = updated.Title
	task.Description = updated.Description
	task.DueDate = updated.DueDate
	task.Status = updated.Status
	task.Priority = updated.Priority
	task.UpdatedAt = time.Now().UTC()

	if err := db.Save(&task).Error; err != nil {
		return models.Task{}, fmt.Errorf("failed to update task: %w", err)
	}
	return task, nil
}

// DeleteTask removes a task the owner can see. A miss is a no-op reported
// as false, not an error.
func (s *TaskServiceImpl) DeleteTask(db *gorm.DB, taskID, ownerID uuid.UUID) (bool, error) {
	task, err := s.GetTaskByID(db, taskID, ownerID)
	if errors.Is(err, ErrTaskNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	if err := db.Delete(&task).Error; err != nil {
		return false, fmt.Errorf("failed to delete task: %w", err)
	}
	return true, nil
}
