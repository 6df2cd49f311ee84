package persistence

import (
	"github.com/meetscribe/meetscribe/internal/pkg/errs"
	"github.com/meetscribe/meetscribe/internal/pkg/model"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// TaskStore persists processing tasks
type TaskStore struct {
	db *gorm.DB
}

// NewTaskStore creates the store
func NewTaskStore(provider *DBProvider) *TaskStore {
	return &TaskStore{db: provider.db}
}

// Create inserts a new task
func (s *TaskStore) Create(t *model.ProcessingTask) error {
	if err := s.db.Create(t).Error; err != nil {
		return errors.Wrap(err, "Can't save task")
	}
	return nil
}

// Get loads a task by id
func (s *TaskStore) Get(id string) (*model.ProcessingTask, error) {
	var t model.ProcessingTask
	err := s.db.First(&t, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errs.NewNotFound("task " + id)
	}
	if err != nil {
		return nil, errors.Wrap(err, "Can't load task")
	}
	return &t, nil
}

// List returns tasks newest first, scoped to a workspace when given
func (s *TaskStore) List(workspaceID string) ([]model.ProcessingTask, error) {
	var res []model.ProcessingTask
	q := s.db.Order("created_at desc")
	if workspaceID != "" {
		q = q.Where("workspace_id = ?", workspaceID)
	}
	if err := q.Find(&res).Error; err != nil {
		return nil, errors.Wrap(err, "Can't list tasks")
	}
	return res, nil
}

// Save writes all changed fields of an existing task
func (s *TaskStore) Save(t *model.ProcessingTask) error {
	if err := s.db.Save(t).Error; err != nil {
		return errors.Wrap(err, "Can't save task")
	}
	return nil
}
