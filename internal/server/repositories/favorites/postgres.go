// Package favorites implements the favorites repository on PostgreSQL.
package favorites

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/accounts/internal/common"
	"github.com/dmitrijs2005/accounts/internal/dbx"
	"github.com/dmitrijs2005/accounts/internal/server/models"
	"github.com/jackc/pgx/v5/pgconn"
)

const foreignKeyViolation = "23503"

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create stores item for userID. An unknown user yields common.ErrorNotFound.
func (r *PostgresRepository) Create(ctx context.Context, userID int64, item string) (*models.Favorite, error) {
	query :=
		`INSERT INTO favorites (user_id, item)
		 VALUES ($1, $2)
		 RETURNING id, created_at
		 `

	f := &models.Favorite{UserID: userID, Item: item}
	err := r.db.QueryRowContext(ctx, query, userID, item).Scan(&f.ID, &f.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == foreignKeyViolation {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return f, nil
}

func (r *PostgresRepository) ListByUser(ctx context.Context, userID int64) ([]models.Favorite, error) {
	query :=
		`SELECT id, user_id, item, created_at FROM favorites
		 WHERE user_id = $1
		 ORDER BY id
		 `

	return r.list(ctx, query, userID)
}

func (r *PostgresRepository) ListAll(ctx context.Context) ([]models.Favorite, error) {
	query :=
		`SELECT id, user_id, item, created_at FROM favorites
		 ORDER BY id
		 `

	return r.list(ctx, query)
}

func (r *PostgresRepository) list(ctx context.Context, query string, args ...any) ([]models.Favorite, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	result := []models.Favorite{}
	for rows.Next() {
		var f models.Favorite
		if err := rows.Scan(&f.ID, &f.UserID, &f.Item, &f.CreatedAt); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, f)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return result, nil
}
