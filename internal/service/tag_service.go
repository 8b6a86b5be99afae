package service

import (
	"context"
	stderrors "errors"
	"fmt"

	"gorm.io/gorm"

	"questboard/internal/errors"
	"questboard/internal/model"
	"questboard/internal/repository"
)

// TagService covers tag CRUD and task/tag association.
type TagService interface {
	Create(ctx context.Context, name string) (*model.Tag, error)
	List(ctx context.Context) ([]model.Tag, error)
	Rename(ctx context.Context, id uint, name string) (*model.Tag, error)
	Delete(ctx context.Context, id uint) error
	// AttachToTask and DetachFromTask scope the task lookup to the caller.
	AttachToTask(ctx context.Context, taskID, tagID, userID uint) error
	DetachFromTask(ctx context.Context, taskID, tagID, userID uint) error
}

type tagService struct {
	tagRepo  repository.TagRepository
	taskRepo repository.TaskRepository
}

// NewTagService creates a new tag service.
func NewTagService(tagRepo repository.TagRepository, taskRepo repository.TaskRepository) TagService {
	return &tagService{
		tagRepo:  tagRepo,
		taskRepo: taskRepo,
	}
}

func (s *tagService) Create(ctx context.Context, name string) (*model.Tag, error) {
	if name == "" {
		return nil, fmt.Errorf("%w: tag name cannot be empty", errors.ErrValidation)
	}
	tag := &model.Tag{Name: name}
	if err := s.tagRepo.Create(ctx, tag); err != nil {
		return nil, fmt.Errorf("create tag: %w", err)
	}
	return tag, nil
}

func (s *tagService) List(ctx context.Context) ([]model.Tag, error) {
	return s.tagRepo.List(ctx)
}

func (s *tagService) Rename(ctx context.Context, id uint, name string) (*model.Tag, error) {
	if name == "" {
		return nil, fmt.Errorf("%w: tag name cannot be empty", errors.ErrValidation)
	}
	tag, err := s.findTag(ctx, id)
	if err != nil {
		return nil, err
	}
	tag.Name = name
	if err := s.tagRepo.Update(ctx, tag); err != nil {
		return nil, fmt.Errorf("update tag: %w", err)
	}
	return tag, nil
}

func (s *tagService) Delete(ctx context.Context, id uint) error {
	if err := s.tagRepo.Delete(ctx, id); err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return errors.ErrTagNotFound
		}
		return fmt.Errorf("delete tag: %w", err)
	}
	return nil
}

func (s *tagService) AttachToTask(ctx context.Context, taskID, tagID, userID uint) error {
	task, tag, err := s.findPair(ctx, taskID, tagID, userID)
	if err != nil {
		return err
	}
	if err := s.taskRepo.AttachTag(ctx, task, tag); err != nil {
		return fmt.Errorf("attach tag: %w", err)
	}
	return nil
}

func (s *tagService) DetachFromTask(ctx context.Context, taskID, tagID, userID uint) error {
	task, tag, err := s.findPair(ctx, taskID, tagID, userID)
	if err != nil {
		return err
	}
	if err := s.taskRepo.DetachTag(ctx, task, tag); err != nil {
		return fmt.Errorf("detach tag: %w", err)
	}
	return nil
}

func (s *tagService) findPair(ctx context.Context, taskID, tagID, userID uint) (*model.Task, *model.Tag, error) {
	task, err := s.taskRepo.FindOwned(ctx, taskID, userID)
	if err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, errors.ErrTaskNotFound
		}
		return nil, nil, fmt.Errorf("find task: %w", err)
	}
	tag, err := s.findTag(ctx, tagID)
	if err != nil {
		return nil, nil, err
	}
	return task, tag, nil
}

func (s *tagService) findTag(ctx context.Context, id uint) (*model.Tag, error) {
	tag, err := s.tagRepo.FindByID(ctx, id)
	if err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.ErrTagNotFound
		}
		return nil, fmt.Errorf("find tag: %w", err)
	}
	return tag, nil
}
