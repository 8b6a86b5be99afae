package service

import (
	"context"
	stderrors "errors"
	"fmt"
	"log"
	"time"

	"gorm.io/gorm"

	"questboard/internal/errors"
	"questboard/internal/model"
	"questboard/internal/realtime"
	"questboard/internal/repository"
)

const fanOutTimeout = 3 * time.Second

// Publisher is the transport-independent fan-out boundary.
type Publisher interface {
	Publish(topic string, ev realtime.Event)
}

// CompletionResult is returned by a completion toggle. The delta is always
// server-derived from the task category, never taken from the client.
type CompletionResult struct {
	Task    *model.Task
	XPDelta int
	Stats   *UserStats
}

// CreateTaskInput carries client-supplied task fields. XP value is absent
// on purpose; it derives from the category.
type CreateTaskInput struct {
	Title       string
	Description *string
	Category    model.TaskCategory
	DueDate     *time.Time
}

// UpdateTaskInput carries optional edits. Status transitions into or out of
// completed are rejected here; the dedicated toggle owns that transition.
type UpdateTaskInput struct {
	Title       *string
	Description *string
	Category    *model.TaskCategory
	Status      *model.TaskStatus
	DueDate     *time.Time
}

// TaskService owns task CRUD and the completion state machine.
type TaskService interface {
	Create(ctx context.Context, userID uint, in CreateTaskInput) (*model.Task, error)
	ListMine(ctx context.Context, userID uint) ([]model.Task, error)
	Get(ctx context.Context, taskID, userID uint) (*model.Task, error)
	Update(ctx context.Context, taskID, userID uint, in UpdateTaskInput) (*model.Task, error)
	Delete(ctx context.Context, taskID, userID uint) error

	// ToggleCompletion flips the task between pending and completed and applies the signed XP
	// delta in one transaction. Two consecutive toggles net zero XP.
	ToggleCompletion(ctx context.Context, taskID, userID uint) (*CompletionResult, error)
}

type taskService struct {
	taskRepo    repository.TaskRepository
	txRunner    repository.TxRunner
	ledger      ProgressionLedger
	leaderboard LeaderboardService
	publisher   Publisher
}

// NewTaskService creates a new task service.
func NewTaskService(
	taskRepo repository.TaskRepository,
	txRunner repository.TxRunner,
	ledger ProgressionLedger,
	leaderboard LeaderboardService,
	publisher Publisher,
) TaskService {
	return &taskService{
		taskRepo:    taskRepo,
		txRunner:    txRunner,
		ledger:      ledger,
		leaderboard: leaderboard,
		publisher:   publisher,
	}
}

func (s *taskService) Create(ctx context.Context, userID uint, in CreateTaskInput) (*model.Task, error) {
	if !in.Category.Valid() {
		return nil, fmt.Errorf("%w: invalid category", errors.ErrValidation)
	}

	task := &model.Task{
		UserID:      userID,
		Title:       in.Title,
		Description: in.Description,
		Category:    in.Category,
		XPValue:     in.Category.Reward(),
		Status:      model.StatusPending,
		DueDate:     in.DueDate,
	}
	if err := s.taskRepo.Create(ctx, task); err != nil {
		return nil, fmt.Errorf("create task: %w", err)
	}
	return task, nil
}

func (s *taskService) ListMine(ctx context.Context, userID uint) ([]model.Task, error) {
	return s.taskRepo.ListByUser(ctx, userID)
}

func (s *taskService) Get(ctx context.Context, taskID, userID uint) (*model.Task, error) {
	task, err := s.taskRepo.FindOwned(ctx, taskID, userID)
	if err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.ErrTaskNotFound
		}
		return nil, fmt.Errorf("find task: %w", err)
	}
	return task, nil
}

func (s *taskService) Update(ctx context.Context, taskID, userID uint, in UpdateTaskInput) (*model.Task, error) {
	task, err := s.Get(ctx, taskID, userID)
	if err != nil {
		return nil, err
	}

	if in.Status != nil {
		if !in.Status.Valid() {
			return nil, fmt.Errorf("%w: invalid status", errors.ErrValidation)
		}
		// Completion never routes through the generic patch path: it
		// would bypass the XP ledger.
		if *in.Status == model.StatusCompleted || task.Status == model.StatusCompleted {
			return nil, fmt.Errorf("%w: use the completion endpoint to change completion state", errors.ErrValidation)
		}
		task.Status = *in.Status
	}
	if in.Title != nil {
		if *in.Title == "" {
			return nil, fmt.Errorf("%w: title cannot be empty", errors.ErrValidation)
		}
		task.Title = *in.Title
	}
	if in.Description != nil {
		task.Description = in.Description
	}
	if in.Category != nil {
		if !in.Category.Valid() {
			return nil, fmt.Errorf("%w: invalid category", errors.ErrValidation)
		}
		task.Category = *in.Category
		task.XPValue = in.Category.Reward()
	}
	if in.DueDate != nil {
		task.DueDate = in.DueDate
	}

	if err := s.taskRepo.Update(ctx, task); err != nil {
		return nil, fmt.Errorf("update task: %w", err)
	}
	return task, nil
}

func (s *taskService) Delete(ctx context.Context, taskID, userID uint) error {
	if err := s.taskRepo.Delete(ctx, taskID, userID); err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return errors.ErrTaskNotFound
		}
		return fmt.Errorf("delete task: %w", err)
	}
	return nil
}

// ToggleCompletion is the single state-machine entrypoint for completion.
// Inside one transaction: lock the task row scoped to its owner, flip the
// status, apply the signed delta to the ledger. Post-commit fan-out runs in
// the background and can never fail the request.
func (s *taskService) ToggleCompletion(ctx context.Context, taskID, userID uint) (*CompletionResult, error) {
	var (
		task  *model.Task
		delta int
		stats *UserStats
	)

	err := s.txRunner.WithTransaction(ctx, func(ctx context.Context, tx *repository.Tx) error {
		var err error
		task, err = tx.Tasks.FindOwnedForUpdate(ctx, taskID, userID)
		if err != nil {
			if stderrors.Is(err, gorm.ErrRecordNotFound) {
				return errors.ErrTaskNotFound
			}
			return fmt.Errorf("lock task row: %w", err)
		}

		var next model.TaskStatus
		if task.Status == model.StatusCompleted {
			next = model.StatusPending
			delta = -task.XPValue
		} else {
			next = model.StatusCompleted
			delta = task.XPValue
		}

		if err := tx.Tasks.UpdateStatus(ctx, task.ID, next); err != nil {
			return fmt.Errorf("update task status: %w", err)
		}
		task.Status = next

		stats, err = s.ledger.ApplyDelta(ctx, tx, userID, delta)
		return err
	})
	if err != nil {
		return nil, err
	}

	go s.fanOut(task, delta, stats)

	return &CompletionResult{Task: task, XPDelta: delta, Stats: stats}, nil
}

// fanOut pushes the committed result to the owner and refreshes the shared
// leaderboard. Failures are logged only; the authoritative state already
// committed.
func (s *taskService) fanOut(task *model.Task, delta int, stats *UserStats) {
	ctx, cancel := context.WithTimeout(context.Background(), fanOutTimeout)
	defer cancel()

	s.publisher.Publish(realtime.UserTopic(task.UserID), realtime.Event{
		Type: realtime.EventUserProgress,
		Data: realtime.ProgressEvent{
			TaskID:        task.ID,
			Title:         task.Title,
			XPDelta:       delta,
			NewXP:         stats.XP,
			LevelNumber:   stats.LevelNumber,
			XPToNextLevel: stats.XPToNextLevel,
		},
	})

	rankings, err := s.leaderboard.TopN(ctx, 10)
	if err != nil {
		log.Printf("leaderboard recompute after completion failed: %v", err)
		return
	}

	s.publisher.Publish(realtime.TopicLeaderboard, realtime.Event{
		Type: realtime.EventLeaderboardUpdate,
		Data: realtime.LeaderboardEvent{
			Rankings:      rankings,
			UpdatedUserID: task.UserID,
		},
	})
}
