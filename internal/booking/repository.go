package booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/nexcharge/nexcharge-backend/internal/user"
)

type Repository interface {
	Create(ctx context.Context, b *Booking) error
	GetByID(ctx context.Context, id string) (*Booking, error)
	Update(ctx context.Context, b *Booking) error
	Delete(ctx context.Context, id string) error

	// CountForSlot counts non-cancelled bookings occupying the
	// (station, date, hour) slot.
	CountForSlot(ctx context.Context, stationID string, date time.Time, hour int) (int, error)

	// ListForDate returns all bookings at a station on the given day,
	// cancelled ones included (callers filter by status).
	ListForDate(ctx context.Context, stationID string, date time.Time) ([]*Booking, error)

	// ListUpcoming returns non-cancelled bookings at a station whose slot
	// starts at or after the given instant.
	ListUpcoming(ctx context.Context, stationID string, from time.Time) ([]*Booking, error)

	ListForOwner(ctx context.Context, nic user.NIC) ([]*Booking, error)
}

type pgxRepository struct {
	pool *pgxpool.Pool
}

func NewPgxRepository(pool *pgxpool.Pool) Repository {
	return &pgxRepository{pool: pool}
}

var bookingColumns = []string{
	"b.id", "b.owner_nic", "b.station_id", "s.name",
	"b.reservation_date", "b.reservation_hour", "b.status", "b.qr_base64",
	"b.created_at", "b.updated_at",
}

func (r *pgxRepository) Create(ctx context.Context, b *Booking) error {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Insert("public.bookings").
		Columns("owner_nic", "station_id", "reservation_date", "reservation_hour", "status").
		Values(b.OwnerNIC, b.StationID, b.ReservationDate, b.ReservationHour, b.Status).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("build create booking query failed: %w", err)
	}

	return r.pool.QueryRow(ctx, query, args...).
		Scan(&b.ID, &b.CreatedAt, &b.UpdatedAt)
}

func (r *pgxRepository) GetByID(ctx context.Context, id string) (*Booking, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Select(bookingColumns...).
		From("public.bookings b").
		Join("public.stations s ON b.station_id = s.id").
		Where(squirrel.Eq{"b.id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get booking query failed: %w", err)
	}

	b, err := scanBooking(r.pool.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get booking failed: %w", err)
	}
	return b, nil
}

func (r *pgxRepository) Update(ctx context.Context, b *Booking) error {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Update("public.bookings").
		Set("station_id", b.StationID).
		Set("reservation_date", b.ReservationDate).
		Set("reservation_hour", b.ReservationHour).
		Set("status", b.Status).
		Set("qr_base64", b.QRBase64).
		Set("updated_at", squirrel.Expr("now()")).
		Where(squirrel.Eq{"id": b.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update booking query failed: %w", err)
	}

	ct, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update booking failed: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *pgxRepository) Delete(ctx context.Context, id string) error {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Delete("public.bookings").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build delete booking query failed: %w", err)
	}

	ct, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("delete booking failed: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *pgxRepository) CountForSlot(ctx context.Context, stationID string, date time.Time, hour int) (int, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Select("count(*)").
		From("public.bookings").
		Where(squirrel.Eq{"station_id": stationID}).
		Where(squirrel.Eq{"reservation_date": date}).
		Where(squirrel.Eq{"reservation_hour": hour}).
		Where(squirrel.NotEq{"status": StatusCancelled}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("build count slot query failed: %w", err)
	}

	var count int
	if err := r.pool.QueryRow(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("count slot failed: %w", err)
	}
	return count, nil
}

func (r *pgxRepository) ListForDate(ctx context.Context, stationID string, date time.Time) ([]*Booking, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Select(bookingColumns...).
		From("public.bookings b").
		Join("public.stations s ON b.station_id = s.id").
		Where(squirrel.Eq{"b.station_id": stationID}).
		Where(squirrel.Eq{"b.reservation_date": date}).
		OrderBy("b.reservation_hour ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list for date query failed: %w", err)
	}

	return r.queryBookings(ctx, query, args)
}

func (r *pgxRepository) ListUpcoming(ctx context.Context, stationID string, from time.Time) ([]*Booking, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Select(bookingColumns...).
		From("public.bookings b").
		Join("public.stations s ON b.station_id = s.id").
		Where(squirrel.Eq{"b.station_id": stationID}).
		Where(squirrel.NotEq{"b.status": StatusCancelled}).
		Where(squirrel.Expr(
			"b.reservation_date + make_interval(hours => b.reservation_hour) >= ?", from)).
		OrderBy("b.reservation_date ASC", "b.reservation_hour ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list upcoming query failed: %w", err)
	}

	return r.queryBookings(ctx, query, args)
}

func (r *pgxRepository) ListForOwner(ctx context.Context, nic user.NIC) ([]*Booking, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Select(bookingColumns...).
		From("public.bookings b").
		Join("public.stations s ON b.station_id = s.id").
		Where(squirrel.Eq{"b.owner_nic": nic}).
		OrderBy("b.reservation_date DESC", "b.reservation_hour DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list for owner query failed: %w", err)
	}

	return r.queryBookings(ctx, query, args)
}

func (r *pgxRepository) queryBookings(ctx context.Context, query string, args []any) ([]*Booking, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list bookings failed: %w", err)
	}
	defer rows.Close()

	var bookings []*Booking
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("scan booking failed: %w", err)
		}
		bookings = append(bookings, b)
	}
	return bookings, nil
}

func scanBooking(row pgx.Row) (*Booking, error) {
	var b Booking
	if err := row.Scan(
		&b.ID, &b.OwnerNIC, &b.StationID, &b.StationName,
		&b.ReservationDate, &b.ReservationHour, &b.Status, &b.QRBase64,
		&b.CreatedAt, &b.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &b, nil
}
