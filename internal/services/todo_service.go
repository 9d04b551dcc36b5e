package services

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/yukikurage/secure-todo/internal/constants"
	"github.com/yukikurage/secure-todo/internal/logger"
	"github.com/yukikurage/secure-todo/internal/metrics"
	"github.com/yukikurage/secure-todo/internal/models"
	"github.com/yukikurage/secure-todo/internal/repository"
	"gorm.io/gorm"
)

var (
	ErrTodoNotFound = errors.New("todo not found")
	ErrTaskRequired = errors.New("task is required")
	ErrTaskTooLong  = fmt.Errorf("task must be at most %d characters", constants.MaxTaskLength)
)

var taskLengthRule = fmt.Sprintf("max=%d", constants.MaxTaskLength)

// TodoService handles todo business logic. Todos have no owner; the actor
// ID is only recorded in the log.
type TodoService struct {
	todoRepo repository.TodoRepository
	validate *validator.Validate
	log      *logger.Logger
}

// NewTodoService creates a new TodoService
func NewTodoService(todoRepo repository.TodoRepository, log *logger.Logger) *TodoService {
	return &TodoService{
		todoRepo: todoRepo,
		validate: validator.New(),
		log:      log,
	}
}

// CreateTodoInput represents input for creating a todo
type CreateTodoInput struct {
	ActorID uint64
	Task    string
}

// UpdateTodoInput represents input for replacing a todo's text
type UpdateTodoInput struct {
	ActorID uint64
	ID      uint64
	Task    string
}

// ListAll returns every todo in insertion order
func (s *TodoService) ListAll() ([]models.Todo, error) {
	todos, err := s.todoRepo.List()
	if err != nil {
		return nil, fmt.Errorf("failed to list todos: %w", err)
	}
	return todos, nil
}

// Create validates the task text and inserts a new, not yet done todo
func (s *TodoService) Create(input CreateTodoInput) (*models.Todo, error) {
	if err := s.ValidateTask(input.Task); err != nil {
		return nil, err
	}

	todo := &models.Todo{Task: input.Task}
	if err := s.todoRepo.Create(todo); err != nil {
		return nil, fmt.Errorf("failed to create todo: %w", err)
	}

	s.log.WithFields(logger.Fields{"action": "ADD", "user_id": input.ActorID}).
		Infof("added task: %s", todo.Task)
	metrics.TodoOperationsTotal.WithLabelValues("add").Inc()

	return todo, nil
}

// Update replaces the task text of an existing todo
func (s *TodoService) Update(input UpdateTodoInput) (*models.Todo, error) {
	todo, err := s.find(input.ID)
	if err != nil {
		return nil, err
	}

	if err := s.ValidateTask(input.Task); err != nil {
		return nil, err
	}

	todo.Task = input.Task
	if err := s.todoRepo.Update(todo); err != nil {
		return nil, fmt.Errorf("failed to update todo: %w", err)
	}

	s.log.WithFields(logger.Fields{"action": "UPDATE", "user_id": input.ActorID}).
		Infof("updated task %d: %s", todo.ID, todo.Task)
	metrics.TodoOperationsTotal.WithLabelValues("update").Inc()

	return todo, nil
}

// Toggle flips the done flag of a todo
func (s *TodoService) Toggle(actorID, id uint64) (*models.Todo, error) {
	todo, err := s.find(id)
	if err != nil {
		return nil, err
	}

	todo.Done = !todo.Done
	if err := s.todoRepo.Update(todo); err != nil {
		return nil, fmt.Errorf("failed to toggle todo: %w", err)
	}

	s.log.WithFields(logger.Fields{"action": "TOGGLE", "user_id": actorID}).
		Infof("task %d done=%t", todo.ID, todo.Done)
	metrics.TodoOperationsTotal.WithLabelValues("toggle").Inc()

	return todo, nil
}

// Delete permanently removes a todo and returns the removed record
func (s *TodoService) Delete(actorID, id uint64) (*models.Todo, error) {
	todo, err := s.find(id)
	if err != nil {
		return nil, err
	}

	s.log.WithFields(logger.Fields{"action": "DELETE", "user_id": actorID}).
		Infof("deleted task: %s", todo.Task)

	if err := s.todoRepo.Delete(todo); err != nil {
		return nil, fmt.Errorf("failed to delete todo: %w", err)
	}

	metrics.TodoOperationsTotal.WithLabelValues("delete").Inc()

	return todo, nil
}

// ValidateTask reports ErrTaskRequired or ErrTaskTooLong for unusable task text.
func (s *TodoService) ValidateTask(task string) error {
	if task == "" {
		return ErrTaskRequired
	}
	if err := s.validate.Var(task, taskLengthRule); err != nil {
		return ErrTaskTooLong
	}
	return nil
}

func (s *TodoService) find(id uint64) (*models.Todo, error) {
	todo, err := s.todoRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTodoNotFound
		}
		return nil, fmt.Errorf("failed to find todo: %w", err)
	}
	return todo, nil
}
