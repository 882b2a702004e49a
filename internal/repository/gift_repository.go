package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"

	"wishlist/api/internal/models"
)

const giftColumns = `id, name, comments, url, reserved, reserved_by, received, user_id, created_at, updated_at`

type GiftRepository struct {
	db  DBTX
	log zerolog.Logger
}

func NewGiftRepository(db DBTX, log zerolog.Logger) *GiftRepository {
	return &GiftRepository{db: db, log: log.With().Str("repository", "gifts").Logger()}
}

// Create inserts gift. It returns ErrUserNotFound when gift.UserID does not
// reference an existing user.
func (r *GiftRepository) Create(ctx context.Context, gift models.Gift) (models.Gift, error) {
	const query = `
		INSERT INTO gifts (
			id, name, comments, url, reserved, reserved_by, received, user_id, created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, NOW(), NOW()
		)
		RETURNING created_at, updated_at
	`

	err := r.db.QueryRow(ctx, query,
		gift.ID,
		gift.Name,
		gift.Comments,
		gift.URL,
		gift.Reserved,
		gift.ReservedBy,
		gift.Received,
		gift.UserID,
	).Scan(&gift.CreatedAt, &gift.UpdatedAt)
	if err != nil {
		if pgCode(err) == pgForeignKeyViolation {
			return models.Gift{}, ErrUserNotFound
		}
		r.log.Error().Err(err).Str("op", "create").Str("user_id", gift.UserID).Msg("query failed")
		return models.Gift{}, err
	}
	return gift, nil
}

func (r *GiftRepository) GetByID(ctx context.Context, id string) (models.Gift, error) {
	query := `SELECT ` + giftColumns + ` FROM gifts WHERE id = $1`
	gift, err := scanGift(r.db.QueryRow(ctx, query, id))
	return gift, r.check(err, "get_by_id")
}

func (r *GiftRepository) ListByUser(ctx context.Context, userID string, limit, offset int) ([]models.Gift, error) {
	query := `SELECT ` + giftColumns + ` FROM gifts WHERE user_id = $1 ORDER BY created_at, id LIMIT $2 OFFSET $3`

	rows, err := r.db.Query(ctx, query, userID, limit, offset)
	if err != nil {
		r.log.Error().Err(err).Str("op", "list_by_user").Str("user_id", userID).Msg("query failed")
		return nil, err
	}
	defer rows.Close()

	gifts := []models.Gift{}
	for rows.Next() {
		gift, err := scanGift(rows)
		if err != nil {
			r.log.Error().Err(err).Str("op", "list_by_user").Msg("scan failed")
			return nil, err
		}
		gifts = append(gifts, gift)
	}
	if err := rows.Err(); err != nil {
		r.log.Error().Err(err).Str("op", "list_by_user").Msg("rows failed")
		return nil, err
	}
	return gifts, nil
}

func (r *GiftRepository) CountByUser(ctx context.Context, userID string) (int, error) {
	var count int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM gifts WHERE user_id = $1`, userID).Scan(&count); err != nil {
		r.log.Error().Err(err).Str("op", "count_by_user").Str("user_id", userID).Msg("query failed")
		return 0, err
	}
	return count, nil
}

// UpdateStatus writes the reservation and received fields of gift.
func (r *GiftRepository) UpdateStatus(ctx context.Context, gift models.Gift) (models.Gift, error) {
	query := `
		UPDATE gifts
		SET reserved = $2, reserved_by = $3, received = $4, updated_at = NOW()
		WHERE id = $1
		RETURNING ` + giftColumns

	updated, err := scanGift(r.db.QueryRow(ctx, query, gift.ID, gift.Reserved, gift.ReservedBy, gift.Received))
	return updated, r.check(err, "update_status")
}

func (r *GiftRepository) Delete(ctx context.Context, id string) error {
	cmd, err := r.db.Exec(ctx, `DELETE FROM gifts WHERE id = $1`, id)
	if err != nil {
		r.log.Error().Err(err).Str("op", "delete").Str("gift_id", id).Msg("query failed")
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrGiftNotFound
	}
	return nil
}

func (r *GiftRepository) check(err error, op string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrGiftNotFound
	}
	r.log.Error().Err(err).Str("op", op).Msg("query failed")
	return err
}

func scanGift(row pgx.Row) (models.Gift, error) {
	var gift models.Gift
	if err := row.Scan(
		&gift.ID,
		&gift.Name,
		&gift.Comments,
		&gift.URL,
		&gift.Reserved,
		&gift.ReservedBy,
		&gift.Received,
		&gift.UserID,
		&gift.CreatedAt,
		&gift.UpdatedAt,
	); err != nil {
		return models.Gift{}, err
	}
	return gift, nil
}
