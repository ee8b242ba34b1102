package comments

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/yourusername/camp-forge/internal/dbx"
	"github.com/yourusername/camp-forge/internal/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, comment *models.Comment) (*models.Comment, error) {
	query :=
		`INSERT INTO comments (id, campground_id, text, author_id, author_username)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING created_at, updated_at
		 `

	err := r.db.QueryRowContext(ctx, query,
		comment.ID, comment.CampgroundID, comment.Text,
		comment.Author.ID, comment.Author.Username).Scan(&comment.CreatedAt, &comment.UpdatedAt)

	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return comment, nil
}

func (r *PostgresRepository) FindByID(ctx context.Context, id string) (*models.Comment, error) {
	query :=
		`SELECT id, campground_id, text, author_id, author_username, created_at, updated_at
		 FROM comments
		 WHERE id = $1
		 `

	comment := &models.Comment{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&comment.ID, &comment.CampgroundID, &comment.Text,
		&comment.Author.ID, &comment.Author.Username, &comment.CreatedAt, &comment.UpdatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return comment, nil
}

func (r *PostgresRepository) ListByCampground(ctx context.Context, campgroundID string) ([]*models.Comment, error) {
	query :=
		`SELECT id, campground_id, text, author_id, author_username, created_at, updated_at
		 FROM comments
		 WHERE campground_id = $1
		 ORDER BY created_at ASC
		 `

	rows, err := r.db.QueryContext(ctx, query, campgroundID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var list []*models.Comment
	for rows.Next() {
		comment := &models.Comment{}
		if err := rows.Scan(
			&comment.ID, &comment.CampgroundID, &comment.Text,
			&comment.Author.ID, &comment.Author.Username, &comment.CreatedAt, &comment.UpdatedAt); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		list = append(list, comment)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return list, nil
}

func (r *PostgresRepository) Update(ctx context.Context, comment *models.Comment) (*models.Comment, error) {
	query :=
		`UPDATE comments
		 SET text = $2, updated_at = now()
		 WHERE id = $1
		 RETURNING campground_id, author_id, author_username, created_at, updated_at
		 `

	err := r.db.QueryRowContext(ctx, query, comment.ID, comment.Text).Scan(
		&comment.CampgroundID, &comment.Author.ID, &comment.Author.Username,
		&comment.CreatedAt, &comment.UpdatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return comment, nil
}

func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM comments WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PostgresRepository) DeleteByCampground(ctx context.Context, campgroundID string) (int64, error) {
	result, err := r.db.ExecContext(ctx, `DELETE FROM comments WHERE campground_id = $1`, campgroundID)
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	return affected, nil
}
