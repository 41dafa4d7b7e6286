package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/MikeRez0/tgshop/internal/adapter/storage"
	"github.com/MikeRez0/tgshop/internal/core/domain"
	"github.com/MikeRez0/tgshop/internal/core/port"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

var orderColumns = []string{
	"id", "customer_id", "customer_username", "customer_name", "customer_phone",
	"pickup_point", "lines", "total", "status", "payment_info", "created_at",
}

type Repository struct {
	db *storage.DB
}

func NewRepository(db *storage.DB) (*Repository, error) {
	return &Repository{db: db}, nil
}

func (or *Repository) CreateOrder(ctx context.Context, order *domain.Order) (*domain.Order, error) {
	pickup, err := jsonOrNull(order.PickupPoint)
	if err != nil {
		return nil, err
	}
	lines, err := json.Marshal(order.Lines)
	if err != nil {
		return nil, fmt.Errorf("encode order lines: %w", err)
	}
	payment, err := jsonOrNull(order.PaymentInfo)
	if err != nil {
		return nil, err
	}

	statement := or.db.QueryBuilder.Insert("orders").
		Columns(orderColumns...).
		Values(order.ID, order.CustomerID, order.CustomerUsername, order.CustomerName, order.CustomerPhone,
			pickup, string(lines), order.Total, order.Status, payment, order.CreatedAt)

	sql, args, err := statement.ToSql()
	if err != nil {
		return nil, err
	}

	_, err = or.db.Exec(ctx, sql, args...)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return nil, domain.ErrConflictingData
		}
		return nil, err
	}
	return order, nil
}

func (or *Repository) ReadOrder(ctx context.Context, orderID string) (*domain.Order, error) {
	statement := or.db.QueryBuilder.
		Select(orderColumns...).
		From("orders").
		Where(sq.Eq{"id": orderID})

	sql, args, err := statement.ToSql()
	if err != nil {
		return nil, err
	}

	return scanOrder(or.db.QueryRow(ctx, sql, args...))
}

// UpdateOrder locks the order row for the duration of updateFn.
func (or *Repository) UpdateOrder(ctx context.Context, orderID string, updateFn port.UpdateOrderFn) (*domain.Order, error) {
	var order *domain.Order

	err := pgx.BeginFunc(ctx, or.db, func(tx pgx.Tx) error {
		selectSt := or.db.QueryBuilder.
			Select(orderColumns...).
			From("orders").
			Where(sq.Eq{"id": orderID}).
			Suffix("FOR UPDATE")

		sql, args, err := selectSt.ToSql()
		if err != nil {
			return err
		}

		current, err := scanOrder(tx.QueryRow(ctx, sql, args...))
		if err != nil {
			return err
		}

		err = updateFn(current)
		if err != nil {
			return err
		}

		payment, err := jsonOrNull(current.PaymentInfo)
		if err != nil {
			return err
		}

		updateSt := or.db.QueryBuilder.
			Update("orders").
			Set("status", current.Status).
			Set("payment_info", payment).
			Where(sq.Eq{"id": orderID})

		sql, args, err = updateSt.ToSql()
		if err != nil {
			return err
		}

		_, err = tx.Exec(ctx, sql, args...)
		if err != nil {
			return err
		}

		order = current
		return nil
	})
	if err != nil {
		return nil, err
	}

	return order, nil
}

func scanOrder(row pgx.Row) (*domain.Order, error) {
	order := domain.Order{}
	var pickup, lines, payment []byte

	err := row.Scan(
		&order.ID,
		&order.CustomerID,
		&order.CustomerUsername,
		&order.CustomerName,
		&order.CustomerPhone,
		&pickup,
		&lines,
		&order.Total,
		&order.Status,
		&payment,
		&order.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrOrderNotFound
		}
		// ids that are not UUIDs can not exist
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.InvalidTextRepresentation {
			return nil, domain.ErrOrderNotFound
		}
		return nil, err
	}

	if len(pickup) > 0 {
		order.PickupPoint = &domain.PickupPoint{}
		if err := json.Unmarshal(pickup, order.PickupPoint); err != nil {
			return nil, fmt.Errorf("decode pickup point: %w", err)
		}
	}
	if err := json.Unmarshal(lines, &order.Lines); err != nil {
		return nil, fmt.Errorf("decode order lines: %w", err)
	}
	if len(payment) > 0 {
		order.PaymentInfo = &domain.PaymentInfo{}
		if err := json.Unmarshal(payment, order.PaymentInfo); err != nil {
			return nil, fmt.Errorf("decode payment info: %w", err)
		}
	}

	return &order, nil
}

func jsonOrNull[T any](v *T) (any, error) {
	if v == nil {
		return nil, nil
	}
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encode %T: %w", v, err)
	}
	return string(data), nil
}
