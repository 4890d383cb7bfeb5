package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/globalconnect/backend/internal/domain"
	"github.com/globalconnect/backend/internal/repository"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

const uniqueViolation = "23505"

type userRepository struct {
	db *sqlx.DB
}

func NewUserRepository(db *sqlx.DB) repository.UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(ctx context.Context, user *domain.User, passwordHash string) error {
	query := `
		INSERT INTO users (name, email, password_hash, bio, avatar_url, gender, age)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at
	`
	err := r.db.QueryRowContext(
		ctx, query,
		user.Name, user.Email, passwordHash,
		user.Bio, user.AvatarURL, user.Gender, user.Age,
	).Scan(&user.ID, &user.CreatedAt)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return domain.ErrEmailTaken
		}
		return err
	}

	if len(user.Interests) > 0 {
		if err := r.replaceInterests(ctx, user.ID, user.Interests); err != nil {
			return err
		}
	}
	return nil
}

func (r *userRepository) replaceInterests(ctx context.Context, userID int, interests []string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM user_interests WHERE user_id = $1`, userID); err != nil {
		return err
	}
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO user_interests (user_id, interest)
		SELECT $1, unnest($2::text[])
	`, userID, pq.Array(interests))
	return err
}

const userSelect = `
	SELECT
		u.id,
		u.name,
		u.email,
		u.bio,
		u.avatar_url,
		u.gender,
		u.age,
		u.created_at,
		ul.latitude,
		ul.longitude,
		ul.location_name,
		ARRAY_REMOVE(ARRAY_AGG(DISTINCT ui.interest), NULL) AS interests
	FROM users u
	LEFT JOIN user_locations ul ON u.id = ul.user_id
	LEFT JOIN user_interests ui ON u.id = ui.user_id
`

const userGroupBy = `
	GROUP BY
		u.id, u.name, u.email, u.bio, u.avatar_url, u.gender, u.age, u.created_at,
		ul.latitude, ul.longitude, ul.location_name
`

func scanUser(rows interface {
	Scan(dest ...interface{}) error
}) (domain.User, error) {
	var u domain.User
	err := rows.Scan(
		&u.ID, &u.Name, &u.Email, &u.Bio, &u.AvatarURL, &u.Gender, &u.Age,
		&u.CreatedAt, &u.Latitude, &u.Longitude, &u.LocationName,
		pq.Array(&u.Interests),
	)
	return u, err
}

func (r *userRepository) GetByID(ctx context.Context, id int) (*domain.User, error) {
	row := r.db.QueryRowContext(ctx, userSelect+` WHERE u.id = $1 `+userGroupBy, id)
	u, err := scanUser(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	return &u, nil
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	row := r.db.QueryRowContext(ctx, userSelect+` WHERE u.email = $1 `+userGroupBy, email)
	u, err := scanUser(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	return &u, nil
}

// Search builds the directory query from whichever filters are set.
// Interests use match-any semantics; free text matches name or location
// label, case-insensitive. Results come back ordered by name ascending.
func (r *userRepository) Search(ctx context.Context, filters domain.SearchFilters, limit int) ([]domain.User, error) {
	query := userSelect
	conditions := []string{}
	args := []interface{}{}
	argCount := 1

	if filters.Query != "" {
		conditions = append(conditions,
			fmt.Sprintf("(u.name ILIKE $%d OR COALESCE(ul.location_name, '') ILIKE $%d)", argCount, argCount))
		args = append(args, "%"+filters.Query+"%")
		argCount++
	}
	if len(filters.Interests) > 0 {
		conditions = append(conditions, fmt.Sprintf("ui.interest = ANY($%d::text[])", argCount))
		args = append(args, pq.Array(filters.Interests))
		argCount++
	}
	if filters.Gender != "" {
		conditions = append(conditions, fmt.Sprintf("u.gender = $%d", argCount))
		args = append(args, filters.Gender)
		argCount++
	}
	if filters.MinAge > 0 {
		conditions = append(conditions, fmt.Sprintf("u.age >= $%d", argCount))
		args = append(args, filters.MinAge)
		argCount++
	}
	if filters.MaxAge > 0 && filters.MaxAge < 100 {
		conditions = append(conditions, fmt.Sprintf("u.age <= $%d", argCount))
		args = append(args, filters.MaxAge)
		argCount++
	}

	if len(conditions) > 0 {
		query += " WHERE "
		for i, cond := range conditions {
			if i > 0 {
				query += " AND "
			}
			query += cond
		}
	}

	query += userGroupBy
	query += fmt.Sprintf(" ORDER BY u.name LIMIT $%d", argCount)
	args = append(args, limit)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []domain.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

func (r *userRepository) SetLocation(ctx context.Context, userID int, lat, lon float64, locationName string) error {
	query := `
		INSERT INTO user_locations (user_id, latitude, longitude, location_name)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (user_id) DO UPDATE
		SET latitude = EXCLUDED.latitude,
		    longitude = EXCLUDED.longitude,
		    location_name = EXCLUDED.location_name,
		    updated_at = CURRENT_TIMESTAMP
	`
	result, err := r.db.ExecContext(ctx, query, userID, lat, lon, locationName)
	if err != nil {
		return err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}
