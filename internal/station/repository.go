package station

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Repository interface {
	Create(ctx context.Context, st *Station) error
	GetByID(ctx context.Context, id string) (*Station, error)
	List(ctx context.Context, filter Filter) ([]*Station, int, error)
	Update(ctx context.Context, st *Station) error
}

type pgxRepository struct {
	pool *pgxpool.Pool
}

func NewPgxRepository(pool *pgxpool.Pool) Repository {
	return &pgxRepository{pool: pool}
}

func (r *pgxRepository) Create(ctx context.Context, st *Station) error {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Insert("public.stations").
		Columns("name", "location", "charger_type", "available_slots", "is_active").
		Values(st.Name, st.Location, st.Type, st.AvailableSlots, st.IsActive).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("build create station query failed: %w", err)
	}

	return r.pool.QueryRow(ctx, query, args...).
		Scan(&st.ID, &st.CreatedAt, &st.UpdatedAt)
}

func (r *pgxRepository) GetByID(ctx context.Context, id string) (*Station, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Select(
		"id", "name", "location", "charger_type", "available_slots",
		"is_active", "created_at", "updated_at",
	).
		From("public.stations").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get station query failed: %w", err)
	}

	var st Station
	if err := r.pool.QueryRow(ctx, query, args...).Scan(
		&st.ID, &st.Name, &st.Location, &st.Type, &st.AvailableSlots,
		&st.IsActive, &st.CreatedAt, &st.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get station failed: %w", err)
	}
	return &st, nil
}

func (r *pgxRepository) List(ctx context.Context, filter Filter) ([]*Station, int, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query := psql.Select(
		"id", "name", "location", "charger_type", "available_slots",
		"is_active", "created_at", "updated_at",
		"count(*) OVER() as total_count",
	).
		From("public.stations")

	if filter.Type != "" {
		query = query.Where(squirrel.Eq{"charger_type": filter.Type})
	}
	if filter.IsActive != nil {
		query = query.Where(squirrel.Eq{"is_active": *filter.IsActive})
	}

	query = query.OrderBy("name ASC")

	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize < 1 {
		filter.PageSize = 20
	}
	offset := (filter.Page - 1) * filter.PageSize
	query = query.Limit(uint64(filter.PageSize)).Offset(uint64(offset))

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build list stations query failed: %w", err)
	}

	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list stations failed: %w", err)
	}
	defer rows.Close()

	var stations []*Station
	var total int

	for rows.Next() {
		var st Station
		if err := rows.Scan(
			&st.ID, &st.Name, &st.Location, &st.Type, &st.AvailableSlots,
			&st.IsActive, &st.CreatedAt, &st.UpdatedAt, &total,
		); err != nil {
			return nil, 0, fmt.Errorf("scan station failed: %w", err)
		}
		stations = append(stations, &st)
	}

	return stations, total, nil
}

func (r *pgxRepository) Update(ctx context.Context, st *Station) error {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Update("public.stations").
		Set("name", st.Name).
		Set("location", st.Location).
		Set("charger_type", st.Type).
		Set("available_slots", st.AvailableSlots).
		Set("is_active", st.IsActive).
		Set("updated_at", squirrel.Expr("now()")).
		Where(squirrel.Eq{"id": st.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update station query failed: %w", err)
	}

	ct, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update station failed: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
