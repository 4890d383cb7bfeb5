package postgres

import (
	"context"

	"github.com/globalconnect/backend/internal/repository"
	"github.com/jmoiron/sqlx"
)

type interestRepository struct {
	db *sqlx.DB
}

func NewInterestRepository(db *sqlx.DB) repository.InterestRepository {
	return &interestRepository{db: db}
}

func (r *interestRepository) ListDistinct(ctx context.Context) ([]string, error) {
	var interests []string
	query := `SELECT DISTINCT interest FROM user_interests ORDER BY interest`
	err := r.db.SelectContext(ctx, &interests, query)
	return interests, err
}
