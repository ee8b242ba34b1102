package campgrounds

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

func (r *PostgresRepository) Create(ctx context.Context, camp *models.Campground) (*models.Campground, error) {
	query :=
		`INSERT INTO campgrounds (id, name, image_url, description, author_id, author_username)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING created_at, updated_at
		 `

	err := r.db.QueryRowContext(ctx, query,
		camp.ID, camp.Name, camp.ImageURL, camp.Description,
		camp.Author.ID, camp.Author.Username).Scan(&camp.CreatedAt, &camp.UpdatedAt)

	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return camp, nil
}

func (r *PostgresRepository) FindByID(ctx context.Context, id string) (*models.Campground, error) {
	query :=
		`SELECT id, name, image_url, description, author_id, author_username, created_at, updated_at
		 FROM campgrounds
		 WHERE id = $1
		 `

	camp := &models.Campground{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&camp.ID, &camp.Name, &camp.ImageURL, &camp.Description,
		&camp.Author.ID, &camp.Author.Username, &camp.CreatedAt, &camp.UpdatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return camp, nil
}

func (r *PostgresRepository) List(ctx context.Context) ([]*models.Campground, error) {
	query :=
		`SELECT id, name, image_url, description, author_id, author_username, created_at, updated_at
		 FROM campgrounds
		 ORDER BY created_at DESC
		 `

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var camps []*models.Campground
	for rows.Next() {
		camp := &models.Campground{}
		if err := rows.Scan(
			&camp.ID, &camp.Name, &camp.ImageURL, &camp.Description,
			&camp.Author.ID, &camp.Author.Username, &camp.CreatedAt, &camp.UpdatedAt); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		camps = append(camps, camp)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return camps, nil
}

func (r *PostgresRepository) Update(ctx context.Context, camp *models.Campground) (*models.Campground, error) {
	// author_id / author_username は作成時から変更しません。
	query :=
		`UPDATE campgrounds
		 SET name = $2, image_url = $3, description = $4, updated_at = now()
		 WHERE id = $1
		 RETURNING author_id, author_username, created_at, updated_at
		 `

	err := r.db.QueryRowContext(ctx, query,
		camp.ID, camp.Name, camp.ImageURL, camp.Description).Scan(
		&camp.Author.ID, &camp.Author.Username, &camp.CreatedAt, &camp.UpdatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return camp, nil
}

func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM campgrounds WHERE id = $1`, id)
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
