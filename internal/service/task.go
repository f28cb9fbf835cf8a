package service

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/tasklift/tasklift/internal/model"
	"github.com/tasklift/tasklift/internal/repository"
	"github.com/tasklift/tasklift/internal/validation"
)

// TaskUpdate carries the allow-listed PATCH /tasks/{id} fields. Nil means
// the field was absent from the request.
type TaskUpdate struct {
	Description *string
	Completed   *bool
}

type TaskService struct {
	taskRepository repository.TaskRepository
}

func NewTaskService(taskRepository repository.TaskRepository) *TaskService {
	return &TaskService{
		taskRepository: taskRepository,
	}
}

// Create persists a task for the owner. The owner always comes from the
// authenticated caller, never the request body.
func (s *TaskService) Create(ownerID, description string, completed bool) (*model.Task, error) {
	description = strings.TrimSpace(description)

	err := validation.ValidateDescription(description)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	task := &model.Task{
		ID:          uuid.New().String(),
		OwnerID:     ownerID,
		Description: description,
		Completed:   completed,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	err = s.taskRepository.Create(task)
	if err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	return task, nil
}

func (s *TaskService) Tasks(ownerID string, opts repository.ListOptions) ([]*model.Task, error) {
	return s.taskRepository.Tasks(ownerID, opts)
}

func (s *TaskService) ByID(ownerID, taskID string) (*model.Task, error) {
	return s.taskRepository.ByID(ownerID, taskID)
}

// Update applies the permitted changes to an owned task. A task owned by
// someone else surfaces as not found.
func (s *TaskService) Update(ownerID, taskID string, upd TaskUpdate) (*model.Task, error) {
	task, err := s.taskRepository.ByID(ownerID, taskID)
	if err != nil {
		return nil, err
	}

	if upd.Description != nil {
		description := strings.TrimSpace(*upd.Description)
		err = validation.ValidateDescription(description)
		if err != nil {
			return nil, err
		}
		task.Description = description
	}

	if upd.Completed != nil {
		task.Completed = *upd.Completed
	}

	err = s.taskRepository.Update(task)
	if err != nil {
		return nil, err
	}

	return task, nil
}

// Delete removes an owned task and returns its final state.
func (s *TaskService) Delete(ownerID, taskID string) (*model.Task, error) {
	task, err := s.taskRepository.ByID(ownerID, taskID)
	if err != nil {
		return nil, err
	}

	err = s.taskRepository.Delete(ownerID, taskID)
	if err != nil {
		return nil, err
	}

	return task, nil
}
