package repository

import (
	"context"
	"errors"

	"todo_realtime_service/internal/realtime/domain"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"
)

// ErrUserNotFound no user row for the id
var ErrUserNotFound = errors.New("user not found")

// UserRepository read-only access to the users table owned by the CRUD service
type UserRepository interface {
	FindByID(ctx context.Context, id int64) (*domain.User, error)
	FindNames(ctx context.Context, ids []int64) (map[int64]string, error)
	ListAdmins(ctx context.Context) ([]domain.User, error)
}

type userRepository struct {
	db *pgxpool.Pool
}

// NewUserRepository create a UserRepository
func NewUserRepository(db *pgxpool.Pool) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) FindByID(ctx context.Context, id int64) (*domain.User, error) {
	row := r.db.QueryRow(ctx, "SELECT id, username, auth FROM users WHERE id = $1", id)
	var u domain.User
	if err := row.Scan(&u.ID, &u.Username, &u.Auth); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &u, nil
}

// FindNames resolve user names in one round trip; unknown ids are absent from the map
func (r *userRepository) FindNames(ctx context.Context, ids []int64) (map[int64]string, error) {
	names := make(map[int64]string, len(ids))
	if len(ids) == 0 {
		return names, nil
	}
	rows, err := r.db.Query(ctx, "SELECT id, username FROM users WHERE id = ANY($1)", ids)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			id   int64
			name string
		)
		if err := rows.Scan(&id, &name); err != nil {
			return nil, err
		}
		names[id] = name
	}
	return names, rows.Err()
}

// ListAdmins users whose auth is "admin"
func (r *userRepository) ListAdmins(ctx context.Context) ([]domain.User, error) {
	rows, err := r.db.Query(ctx, "SELECT id, username, auth FROM users WHERE auth = $1", domain.AuthAdmin)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []domain.User
	for rows.Next() {
		var u domain.User
		if err := rows.Scan(&u.ID, &u.Username, &u.Auth); err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}
