package storage

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"
	"strings"
	"time"

	"github.com/bytedance/sonic"
	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
	"github.com/sirupsen/logrus"

	"github.com/user/todo/internal/task"
)

//go:embed schema.sql
var schemaSQL string

const timeLayout = time.RFC3339Nano

// SQLiteRepository stores tasks in a private in-memory SQLite database.
// Nothing is written to disk; the database disappears with the process.
// Get and the list methods return fresh copies, so callers must Save
// mutations explicitly.
type SQLiteRepository struct {
	db  *sql.DB
	log logrus.FieldLogger
}

var _ task.Repository = (*SQLiteRepository)(nil)

// NewSQLiteRepository opens a new, empty in-memory database.
func NewSQLiteRepository(log logrus.FieldLogger) (*SQLiteRepository, error) {
	name := "todo-" + uuid.NewString()
	db, err := sql.Open("sqlite3", "file:"+name+"?mode=memory&cache=shared&_fk=1")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// one connection keeps the shared in-memory database alive and serializes access
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	log.WithField("database", name).Debug("sqlite schema initialized")
	return &SQLiteRepository{db: db, log: log}, nil
}

// Close closes the database connection, discarding all tasks
func (r *SQLiteRepository) Close() error {
	return r.db.Close()
}

func (r *SQLiteRepository) Save(ctx context.Context, t *task.Task) error {
	tagsJSON, err := sonic.Marshal(t.Tags)
	if err != nil {
		return fmt.Errorf("marshal tags: %w", err)
	}

	var due sql.NullString
	if t.DueDate != nil {
		due = sql.NullString{String: t.DueDate.Format(timeLayout), Valid: true}
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO tasks (id, title, description, completed, priority, tags, due_date, recurrence, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			title = excluded.title,
			description = excluded.description,
			completed = excluded.completed,
			priority = excluded.priority,
			tags = excluded.tags,
			due_date = excluded.due_date,
			recurrence = excluded.recurrence,
			created_at = excluded.created_at,
			updated_at = excluded.updated_at
	`,
		t.ID, t.Title, t.Description, t.Completed, string(t.Priority),
		string(tagsJSON), due, string(t.Recurrence),
		t.CreatedAt.Format(timeLayout), t.UpdatedAt.Format(timeLayout),
	)
	if err != nil {
		return fmt.Errorf("save task %d: %w", t.ID, err)
	}
	return nil
}

func (r *SQLiteRepository) Get(ctx context.Context, id int) (*task.Task, bool, error) {
	rows, err := r.db.QueryContext(ctx, selectColumns+" WHERE id = ?", id)
	if err != nil {
		return nil, false, fmt.Errorf("get task %d: %w", id, err)
	}
	tasks, err := r.scanAll(rows)
	if err != nil {
		return nil, false, err
	}
	if len(tasks) == 0 {
		return nil, false, nil
	}
	return tasks[0], true, nil
}

func (r *SQLiteRepository) Delete(ctx context.Context, id int) error {
	if _, err := r.db.ExecContext(ctx, "DELETE FROM tasks WHERE id = ?", id); err != nil {
		return fmt.Errorf("delete task %d: %w", id, err)
	}
	return nil
}

func (r *SQLiteRepository) ListAll(ctx context.Context) ([]*task.Task, error) {
	return r.query(ctx, selectColumns+" ORDER BY id ASC")
}

func (r *SQLiteRepository) ListByCompleted(ctx context.Context, completed bool) ([]*task.Task, error) {
	return r.query(ctx, selectColumns+" WHERE completed = ? ORDER BY id ASC", completed)
}

func (r *SQLiteRepository) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM tasks").Scan(&n); err != nil {
		return 0, fmt.Errorf("count tasks: %w", err)
	}
	return n, nil
}

func (r *SQLiteRepository) GenerateID(ctx context.Context) (int, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin id transaction: %w", err)
	}
	defer tx.Rollback()

	var id int
	if err := tx.QueryRowContext(ctx, "SELECT next_id FROM id_sequence WHERE name = 'tasks'").Scan(&id); err != nil {
		return 0, fmt.Errorf("read id sequence: %w", err)
	}
	if _, err := tx.ExecContext(ctx, "UPDATE id_sequence SET next_id = ? WHERE name = 'tasks'", id+1); err != nil {
		return 0, fmt.Errorf("advance id sequence: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit id sequence: %w", err)
	}
	return id, nil
}

// Search narrows by completion and priority in SQL and applies the
// remaining predicates in Go so matching stays identical across backends.
func (r *SQLiteRepository) Search(ctx context.Context, f task.Filter) ([]*task.Task, error) {
	var where []string
	var args []interface{}

	if f.Completed != nil {
		where = append(where, "completed = ?")
		args = append(args, *f.Completed)
	}
	if f.Priority != nil {
		where = append(where, "priority = ?")
		args = append(args, string(*f.Priority))
	}

	q := selectColumns
	if len(where) > 0 {
		q += " WHERE " + strings.Join(where, " AND ")
	}
	q += " ORDER BY id ASC"

	tasks, err := r.query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	return f.Apply(tasks), nil
}

func (r *SQLiteRepository) Sort(tasks []*task.Task, field task.SortField, ascending bool) []*task.Task {
	return task.Sort(tasks, field, ascending)
}

const selectColumns = `
	SELECT id, title, description, completed, priority, tags, due_date,
	       recurrence, created_at, updated_at
	FROM tasks`

func (r *SQLiteRepository) query(ctx context.Context, q string, args ...interface{}) ([]*task.Task, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("query tasks: %w", err)
	}
	return r.scanAll(rows)
}

func (r *SQLiteRepository) scanAll(rows *sql.Rows) ([]*task.Task, error) {
	defer rows.Close()

	tasks := []*task.Task{}
	for rows.Next() {
		var t task.Task
		var priority, recurrence, tagsJSON, createdAt, updatedAt string
		var due sql.NullString

		err := rows.Scan(
			&t.ID, &t.Title, &t.Description, &t.Completed, &priority,
			&tagsJSON, &due, &recurrence, &createdAt, &updatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan failed: %w", err)
		}

		t.Priority = task.Priority(priority)
		t.Recurrence = task.Recurrence(recurrence)

		if err := sonic.Unmarshal([]byte(tagsJSON), &t.Tags); err != nil {
			r.log.WithError(err).WithField("task_id", t.ID).Warn("failed to parse tags")
		}
		if t.Tags == nil {
			t.Tags = []string{}
		}

		if due.Valid {
			if d, err := time.Parse(timeLayout, due.String); err != nil {
				r.log.WithError(err).WithField("task_id", t.ID).Warn("failed to parse due_date")
			} else {
				t.DueDate = &d
			}
		}
		if ts, err := time.Parse(timeLayout, createdAt); err != nil {
			r.log.WithError(err).WithField("task_id", t.ID).Warn("failed to parse created_at")
		} else {
			t.CreatedAt = ts
		}
		if ts, err := time.Parse(timeLayout, updatedAt); err != nil {
			r.log.WithError(err).WithField("task_id", t.ID).Warn("failed to parse updated_at")
		} else {
			t.UpdatedAt = ts
		}

		tasks = append(tasks, &t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rows: %w", err)
	}
	return tasks, nil
}
