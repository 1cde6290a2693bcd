package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/metinatakli/cinema-tickets/internal/domain"
)

type SeatReservation struct {
	ID        int64
	Reference uuid.UUID
	AccountID int64
	SeatCount int
	CreatedAt time.Time
}

// PostgresSeatReservationRepository records seat reservations in PostgreSQL and keeps
// a running total of reserved seats per account.
type PostgresSeatReservationRepository struct {
	db *pgxpool.Pool
}

func NewPostgresSeatReservationRepository(db *pgxpool.Pool) *PostgresSeatReservationRepository {
	return &PostgresSeatReservationRepository{
		db: db,
	}
}

func (p *PostgresSeatReservationRepository) ReserveSeats(ctx context.Context, accountID int64, seats int) error {
	_, err := p.Create(ctx, accountID, seats)
	return err
}

func (p *PostgresSeatReservationRepository) Create(ctx context.Context, accountID int64, seats int) (*SeatReservation, error) {
	reservation := &SeatReservation{
		Reference: uuid.New(),
		AccountID: accountID,
		SeatCount: seats,
	}

	err := runInTx(ctx, p.db, func(tx pgx.Tx) error {
		query := `
			INSERT INTO seat_reservations (reference, account_id, seat_count)
			VALUES ($1, $2, $3)
			RETURNING id, created_at
		`

		err := tx.QueryRow(
			ctx,
			query,
			reservation.Reference,
			reservation.AccountID,
			reservation.SeatCount).Scan(&reservation.ID, &reservation.CreatedAt)
		if err != nil {
			return err
		}

		query = `
			INSERT INTO account_seat_totals (account_id, seats_reserved)
			VALUES ($1, $2)
			ON CONFLICT (account_id)
			DO UPDATE SET seats_reserved = account_seat_totals.seats_reserved + EXCLUDED.seats_reserved,
				updated_at = NOW()
		`

		_, err = tx.Exec(ctx, query, reservation.AccountID, reservation.SeatCount)
		return err
	})
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) &&
			pgErr.Code == pgerrcode.CheckViolation &&
			pgErr.ConstraintName == "seat_reservations_seat_count_check" {
			return nil, fmt.Errorf("%w: %d", domain.ErrInvalidSeatCount, seats)
		}

		return nil, err
	}

	return reservation, nil
}

func (p *PostgresSeatReservationRepository) GetByReference(ctx context.Context, reference uuid.UUID) (*SeatReservation, error) {
	query := `
		SELECT id, reference, account_id, seat_count, created_at
		FROM seat_reservations
		WHERE reference = $1
	`

	var reservation SeatReservation

	err := p.db.QueryRow(ctx, query, reference).Scan(
		&reservation.ID,
		&reservation.Reference,
		&reservation.AccountID,
		&reservation.SeatCount,
		&reservation.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrRecordNotFound
		}

		return nil, err
	}

	return &reservation, nil
}

func (p *PostgresSeatReservationRepository) SeatsReservedByAccount(ctx context.Context, accountID int64) (int64, error) {
	query := `SELECT seats_reserved FROM account_seat_totals WHERE account_id = $1`

	var seats int64

	err := p.db.QueryRow(ctx, query, accountID).Scan(&seats)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, nil
		}

		return 0, err
	}

	return seats, nil
}
