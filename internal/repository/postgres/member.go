package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/aidar/member-service/internal/domain"
)

// MemberRepository реализует repository.MemberRepository для PostgreSQL
type MemberRepository struct {
	db *pgxpool.Pool
}

// NewMemberRepository создает новый экземпляр MemberRepository
func NewMemberRepository(db *pgxpool.Pool) *MemberRepository {
	return &MemberRepository{db: db}
}

// GetByID получает участника по userId
func (r *MemberRepository) GetByID(ctx context.Context, userID string) (*domain.Member, error) {
	query := `
		SELECT user_id, first_name, last_name
		FROM members
		WHERE user_id = $1
	`

	var member domain.Member
	err := r.db.QueryRow(ctx, query, userID).Scan(
		&member.UserID,
		&member.FirstName,
		&member.LastName,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrMemberNotFound
		}
		return nil, err
	}

	return &member, nil
}

// Create вставляет нового участника
func (r *MemberRepository) Create(ctx context.Context, member *domain.Member) error {
	query := `
		INSERT INTO members (user_id, first_name, last_name)
		VALUES ($1, $2, $3)
	`

	_, err := r.db.Exec(ctx, query, member.UserID, member.FirstName, member.LastName)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return domain.ErrMemberExists
		}
		return err
	}

	return nil
}
