package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"questboard/internal/model"
)

// TaskRepository defines task persistence operations.
type TaskRepository interface {
	Create(ctx context.Context, task *model.Task) error
	Update(ctx context.Context, task *model.Task) error
	Delete(ctx context.Context, id, userID uint) error
	FindOwned(ctx context.Context, id, userID uint) (*model.Task, error)
	FindOwnedForUpdate(ctx context.Context, id, userID uint) (*model.Task, error)
	ListByUser(ctx context.Context, userID uint) ([]model.Task, error)
	UpdateStatus(ctx context.Context, id uint, status model.TaskStatus) error
	AttachTag(ctx context.Context, task *model.Task, tag *model.Tag) error
	DetachTag(ctx context.Context, task *model.Task, tag *model.Tag) error
}

type taskRepository struct {
	db *gorm.DB
}

// NewTaskRepository builds a GORM-backed repository.
func NewTaskRepository(db *gorm.DB) TaskRepository {
	return &taskRepository{db: db}
}

func (r *taskRepository) Create(ctx context.Context, task *model.Task) error {
	return r.db.WithContext(ctx).Create(task).Error
}

func (r *taskRepository) Update(ctx context.Context, task *model.Task) error {
	return r.db.WithContext(ctx).Save(task).Error
}

func (r *taskRepository) Delete(ctx context.Context, id, userID uint) error {
	res := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		Delete(&model.Task{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// FindOwned scopes the lookup to the requesting user so a foreign task is
// indistinguishable from a missing one.
func (r *taskRepository) FindOwned(ctx context.Context, id, userID uint) (*model.Task, error) {
	var task model.Task
	if err := r.db.WithContext(ctx).Preload("Tags").
		Where("id = ? AND user_id = ?", id, userID).
		First(&task).Error; err != nil {
		return nil, err
	}
	return &task, nil
}

// FindOwnedForUpdate adds a row lock so two concurrent completion toggles
// on the same task serialize; the loser observes post-toggle state.
func (r *taskRepository) FindOwnedForUpdate(ctx context.Context, id, userID uint) (*model.Task, error) {
	var task model.Task
	if err := r.db.WithContext(ctx).Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ? AND user_id = ?", id, userID).
		First(&task).Error; err != nil {
		return nil, err
	}
	return &task, nil
}

func (r *taskRepository) ListByUser(ctx context.Context, userID uint) ([]model.Task, error) {
	var tasks []model.Task
	if err := r.db.WithContext(ctx).Preload("Tags").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&tasks).Error; err != nil {
		return nil, err
	}
	return tasks, nil
}

func (r *taskRepository) UpdateStatus(ctx context.Context, id uint, status model.TaskStatus) error {
	return r.db.WithContext(ctx).Model(&model.Task{}).
		Where("id = ?", id).
		Update("status", status).Error
}

func (r *taskRepository) AttachTag(ctx context.Context, task *model.Task, tag *model.Tag) error {
	return r.db.WithContext(ctx).Model(task).Association("Tags").Append(tag)
}

func (r *taskRepository) DetachTag(ctx context.Context, task *model.Task, tag *model.Tag) error {
	return r.db.WithContext(ctx).Model(task).Association("Tags").Delete(tag)
}
