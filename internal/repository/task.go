package repository

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/tasklift/tasklift/internal/model"
)

var (
	ErrTaskNotFound = errors.New("task not found")
)

// taskSortColumns maps API sort field names to columns. Anything outside
// this map is ignored and the default order applies.
var taskSortColumns = map[string]string{
	"createdAt":   "created_at",
	"updatedAt":   "updated_at",
	"completed":   "completed",
	"description": "description",
}

// ListOptions narrows and orders an owner-scoped task listing.
// Zero values mean "no filter", "no cap" and "no offset".
type ListOptions struct {
	Completed  *bool
	Limit      int
	Skip       int
	SortBy     string
	Descending bool
}

type TaskRepository interface {
	Create(task *model.Task) error
	ByID(ownerID, taskID string) (*model.Task, error)
	Tasks(ownerID string, opts ListOptions) ([]*model.Task, error)
	Update(task *model.Task) error
	Delete(ownerID, taskID string) error
}

type taskRepository struct {
	db *sqlx.DB
}

func NewTaskRepository(db *sqlx.DB) TaskRepository {
	return &taskRepository{db: db}
}

func (r *taskRepository) Create(task *model.Task) error {
	query := `INSERT INTO tasks (id, owner_id, description, completed, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6)`

	_, err := r.db.Exec(query,
		task.ID,
		task.OwnerID,
		task.Description,
		task.Completed,
		task.CreatedAt,
		task.UpdatedAt,
	)

	return err
}

func (r *taskRepository) ByID(ownerID, taskID string) (*model.Task, error) {
	task := &model.Task{}
	query := `SELECT * FROM tasks WHERE id = $1 AND owner_id = $2`

	err := r.db.Get(task, query, taskID, ownerID)
	if err == sql.ErrNoRows {
		return nil, ErrTaskNotFound
	}

	return task, err
}

func (r *taskRepository) Tasks(ownerID string, opts ListOptions) ([]*model.Task, error) {
	query := `SELECT * FROM tasks WHERE owner_id = $1`
	args := []any{ownerID}

	if opts.Completed != nil {
		args = append(args, *opts.Completed)
		query += fmt.Sprintf(" AND completed = $%d", len(args))
	}

	orderBy := "created_at"
	if col, ok := taskSortColumns[opts.SortBy]; ok {
		orderBy = col
	}
	direction := "ASC"
	if opts.Descending {
		direction = "DESC"
	}
	query += fmt.Sprintf(" ORDER BY %s %s", orderBy, direction)

	if opts.Limit > 0 || opts.Skip > 0 {
		limit := opts.Limit
		if limit <= 0 {
			// Offset without a cap; both SQLite and Postgres require a LIMIT
			// clause for OFFSET to apply, so use a value no listing reaches.
			limit = 1<<31 - 1
		}
		args = append(args, limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
		args = append(args, opts.Skip)
		query += fmt.Sprintf(" OFFSET $%d", len(args))
	}

	tasks := []*model.Task{}
	err := r.db.Select(&tasks, query, args...)
	if err != nil {
		return nil, err
	}

	return tasks, nil
}

func (r *taskRepository) Update(task *model.Task) error {
	task.UpdatedAt = time.Now()

	query := `UPDATE tasks
	          SET description = $1, completed = $2, updated_at = $3
	          WHERE id = $4 AND owner_id = $5`

	result, err := r.db.Exec(query,
		task.Description,
		task.Completed,
		task.UpdatedAt,
		task.ID,
		task.OwnerID,
	)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrTaskNotFound
	}

	return nil
}

func (r *taskRepository) Delete(ownerID, taskID string) error {
	result, err := r.db.Exec(`DELETE FROM tasks WHERE id = $1 AND owner_id = $2`, taskID, ownerID)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrTaskNotFound
	}

	return nil
}
