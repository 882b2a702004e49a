package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"

	"wishlist/api/internal/models"
)

const userColumns = `id, first_name, last_name, email, password_hash, roles, image, created_at, updated_at`

type UserRepository struct {
	db  DBTX
	log zerolog.Logger
}

func NewUserRepository(db DBTX, log zerolog.Logger) *UserRepository {
	return &UserRepository{db: db, log: log.With().Str("repository", "users").Logger()}
}

func (r *UserRepository) Create(ctx context.Context, user models.User) (models.User, error) {
	const query = `
		INSERT INTO users (
			id, first_name, last_name, email, password_hash, roles, image, created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, NOW(), NOW()
		)
		RETURNING created_at, updated_at
	`

	err := r.db.QueryRow(ctx, query,
		user.ID,
		user.FirstName,
		user.LastName,
		user.Email,
		user.PasswordHash,
		models.RolesToStrings(user.Roles),
		user.Image,
	).Scan(&user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		if pgCode(err) == pgUniqueViolation {
			return models.User{}, ErrEmailTaken
		}
		r.log.Error().Err(err).Str("op", "create").Str("user_id", user.ID).Msg("query failed")
		return models.User{}, err
	}
	return user, nil
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`
	user, err := scanUser(r.db.QueryRow(ctx, query, email))
	return user, r.check(err, "find_by_email")
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	user, err := scanUser(r.db.QueryRow(ctx, query, id))
	return user, r.check(err, "get_by_id")
}

func (r *UserRepository) List(ctx context.Context, limit, offset int) ([]models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users ORDER BY created_at, id LIMIT $1 OFFSET $2`

	rows, err := r.db.Query(ctx, query, limit, offset)
	if err != nil {
		r.log.Error().Err(err).Str("op", "list").Msg("query failed")
		return nil, err
	}
	defer rows.Close()

	users := make([]models.User, 0, limit)
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			r.log.Error().Err(err).Str("op", "list").Msg("scan failed")
			return nil, err
		}
		users = append(users, user)
	}
	if err := rows.Err(); err != nil {
		r.log.Error().Err(err).Str("op", "list").Msg("rows failed")
		return nil, err
	}
	return users, nil
}

func (r *UserRepository) Count(ctx context.Context) (int, error) {
	var count int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM users`).Scan(&count); err != nil {
		r.log.Error().Err(err).Str("op", "count").Msg("query failed")
		return 0, err
	}
	return count, nil
}

func (r *UserRepository) UpdateProfile(ctx context.Context, user models.User) (models.User, error) {
	query := `
		UPDATE users
		SET first_name = $2, last_name = $3, email = $4, updated_at = NOW()
		WHERE id = $1
		RETURNING ` + userColumns

	updated, err := scanUser(r.db.QueryRow(ctx, query, user.ID, user.FirstName, user.LastName, user.Email))
	if pgCode(err) == pgUniqueViolation {
		return models.User{}, ErrEmailTaken
	}
	return updated, r.check(err, "update_profile")
}

func (r *UserRepository) UpdateRoles(ctx context.Context, id string, roles []models.Role) (models.User, error) {
	query := `UPDATE users SET roles = $2, updated_at = NOW() WHERE id = $1 RETURNING ` + userColumns
	updated, err := scanUser(r.db.QueryRow(ctx, query, id, models.RolesToStrings(roles)))
	return updated, r.check(err, "update_roles")
}

func (r *UserRepository) UpdateImage(ctx context.Context, id string, image *string) (models.User, error) {
	query := `UPDATE users SET image = $2, updated_at = NOW() WHERE id = $1 RETURNING ` + userColumns
	updated, err := scanUser(r.db.QueryRow(ctx, query, id, image))
	return updated, r.check(err, "update_image")
}

// Delete removes the user; gifts go with it through the foreign key.
func (r *UserRepository) Delete(ctx context.Context, id string) error {
	cmd, err := r.db.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		r.log.Error().Err(err).Str("op", "delete").Str("user_id", id).Msg("query failed")
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrUserNotFound
	}
	return nil
}

// ImageKeys lists every object key currently referenced by a user.
func (r *UserRepository) ImageKeys(ctx context.Context) (map[string]struct{}, error) {
	rows, err := r.db.Query(ctx, `SELECT image FROM users WHERE image IS NOT NULL`)
	if err != nil {
		r.log.Error().Err(err).Str("op", "image_keys").Msg("query failed")
		return nil, err
	}
	defer rows.Close()

	keys := make(map[string]struct{})
	for rows.Next() {
		var key string
		if err := rows.Scan(&key); err != nil {
			return nil, err
		}
		keys[key] = struct{}{}
	}
	return keys, rows.Err()
}

func (r *UserRepository) check(err error, op string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrUserNotFound
	}
	r.log.Error().Err(err).Str("op", op).Msg("query failed")
	return err
}

func scanUser(row pgx.Row) (models.User, error) {
	var (
		user  models.User
		roles []string
	)
	if err := row.Scan(
		&user.ID,
		&user.FirstName,
		&user.LastName,
		&user.Email,
		&user.PasswordHash,
		&roles,
		&user.Image,
		&user.CreatedAt,
		&user.UpdatedAt,
	); err != nil {
		return models.User{}, err
	}
	user.Roles = models.RolesFromStrings(roles)
	return user, nil
}
