package repository

import (
	"github.com/yukikurage/secure-todo/internal/models"
	"gorm.io/gorm"
)

// GormTodoRepository is a GORM implementation of TodoRepository
type GormTodoRepository struct {
	db *gorm.DB
}

// NewTodoRepository creates a new TodoRepository
func NewTodoRepository(db *gorm.DB) TodoRepository {
	return &GormTodoRepository{db: db}
}

func (r *GormTodoRepository) Create(todo *models.Todo) error {
	return r.db.Create(todo).Error
}

func (r *GormTodoRepository) FindByID(id uint64) (*models.Todo, error) {
	var todo models.Todo
	if err := r.db.First(&todo, id).Error; err != nil {
		return nil, err
	}
	return &todo, nil
}

func (r *GormTodoRepository) List() ([]models.Todo, error) {
	todos := []models.Todo{}
	if err := r.db.Order("id ASC").Find(&todos).Error; err != nil {
		return nil, err
	}
	return todos, nil
}

func (r *GormTodoRepository) Update(todo *models.Todo) error {
	return r.db.Save(todo).Error
}

func (r *GormTodoRepository) Delete(todo *models.Todo) error {
	return r.db.Delete(todo).Error
}
