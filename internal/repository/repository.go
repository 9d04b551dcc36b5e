package repository

import "github.com/yukikurage/secure-todo/internal/models"

// UserRepository defines the interface for user data access
type UserRepository interface {
	// Create creates a new user
	Create(user *models.User) error

	// FindByID finds a user by ID
	FindByID(id uint64) (*models.User, error)

	// FindByUsername finds a user by username
	FindByUsername(username string) (*models.User, error)
}

// TodoRepository defines the interface for todo data access
type TodoRepository interface {
	// Create inserts a new todo
	Create(todo *models.Todo) error

	// FindByID finds a todo by ID
	FindByID(id uint64) (*models.Todo, error)

	// List returns every todo in insertion order
	List() ([]models.Todo, error)

	// Update saves all columns of a todo
	Update(todo *models.Todo) error

	// Delete permanently removes a todo
	Delete(todo *models.Todo) error
}
