package store

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"order-catalog-service/internal/domain"
)

type orderRow struct {
	ID        uuid.UUID      `db:"id"`
	Date      time.Time      `db:"date"`
	Products  pq.StringArray `db:"products"`
	Total     float64        `db:"total"`
	CreatedAt time.Time      `db:"created_at"`
	UpdatedAt time.Time      `db:"updated_at"`
}

func (r orderRow) toDomain() *domain.Order {
	return &domain.Order{
		ID:        r.ID,
		Date:      r.Date.UTC(),
		Products:  parseUUIDs(r.Products),
		Total:     r.Total,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
}

const orderColumns = `id, date, products, total, created_at, updated_at`

// --- OrderStorer Implementation ---

func (s *PostgresStore) CreateOrder(ctx context.Context, order *domain.Order) (*domain.OrderView, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	id := order.ID
	if id == uuid.Nil {
		id = uuid.New()
	}

	query := `
		INSERT INTO orders (id, date, products, total)
		VALUES ($1, $2, $3::uuid[], $4)
		RETURNING ` + orderColumns + `;`
	var row orderRow
	if err := s.db.GetContext(ctx, &row, query, id, order.Date, uuidStrings(order.Products), order.Total); err != nil {
		return nil, fmt.Errorf("store: CreateOrder failed to scan row: %w", err)
	}
	return s.orderView(ctx, row.toDomain())
}

func (s *PostgresStore) GetOrderByID(ctx context.Context, id uuid.UUID) (*domain.Order, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	query := `SELECT ` + orderColumns + ` FROM orders WHERE id = $1;`
	var row orderRow
	if err := s.db.GetContext(ctx, &row, query, id); err != nil {
		if isNoRows(err) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("store: GetOrderByID failed to scan row: %w", err)
	}
	return row.toDomain(), nil
}

// GetOrderView returns the order with its product names.
func (s *PostgresStore) GetOrderView(ctx context.Context, id uuid.UUID) (*domain.OrderView, error) {
	o, err := s.GetOrderByID(ctx, id)
	if err != nil {
		return nil, err
	}
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()
	return s.orderView(ctx, o)
}

func (s *PostgresStore) ListOrders(ctx context.Context, params ListParams) ([]domain.OrderView, int, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	var totalCount int
	if err := s.db.GetContext(ctx, &totalCount, `SELECT COUNT(*) FROM orders;`); err != nil {
		return nil, 0, fmt.Errorf("store: ListOrders failed to count orders: %w", err)
	}
	if totalCount == 0 {
		return []domain.OrderView{}, 0, nil
	}

	query := `SELECT ` + orderColumns + ` FROM orders ORDER BY date DESC, id ASC LIMIT $1 OFFSET $2;`
	var rows []orderRow
	if err := s.db.SelectContext(ctx, &rows, query, params.Limit, params.Offset); err != nil {
		return nil, 0, fmt.Errorf("store: ListOrders failed to query orders: %w", err)
	}

	orders := make([]*domain.Order, 0, len(rows))
	var productIDs []uuid.UUID
	for _, r := range rows {
		o := r.toDomain()
		orders = append(orders, o)
		productIDs = append(productIDs, o.Products...)
	}

	names, err := s.namesByID(ctx, "products", productIDs)
	if err != nil {
		return nil, 0, err
	}
	views := make([]domain.OrderView, 0, len(orders))
	for _, o := range orders {
		views = append(views, buildOrderView(o, names))
	}
	return views, totalCount, nil
}

func (s *PostgresStore) UpdateOrder(ctx context.Context, order *domain.Order) (*domain.OrderView, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	query := `
		UPDATE orders
		SET date = $1, products = $2::uuid[], total = $3, updated_at = CURRENT_TIMESTAMP
		WHERE id = $4
		RETURNING ` + orderColumns + `;`
	var row orderRow
	if err := s.db.GetContext(ctx, &row, query, order.Date, uuidStrings(order.Products), order.Total, order.ID); err != nil {
		if isNoRows(err) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("store: UpdateOrder failed to scan row: %w", err)
	}
	return s.orderView(ctx, row.toDomain())
}

func (s *PostgresStore) DeleteOrder(ctx context.Context, id uuid.UUID) error {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	result, err := s.db.ExecContext(ctx, `DELETE FROM orders WHERE id = $1;`, id)
	if err != nil {
		return fmt.Errorf("store: DeleteOrder failed to execute: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("store: DeleteOrder failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return ErrOrderNotFound
	}
	return nil
}

func (s *PostgresStore) orderView(ctx context.Context, o *domain.Order) (*domain.OrderView, error) {
	names, err := s.namesByID(ctx, "products", o.Products)
	if err != nil {
		return nil, err
	}
	view := buildOrderView(o, names)
	return &view, nil
}

// buildOrderView keeps the order and repetition of the product list, dropping ids
// that no longer resolve.
func buildOrderView(o *domain.Order, names map[uuid.UUID]string) domain.OrderView {
	refs := make([]domain.NamedRef, 0, len(o.Products))
	for _, id := range o.Products {
		if name, ok := names[id]; ok {
			refs = append(refs, domain.NamedRef{ID: id, Name: name})
		}
	}
	return domain.OrderView{
		ID:        o.ID,
		Date:      o.Date,
		Products:  refs,
		Total:     o.Total,
		CreatedAt: o.CreatedAt,
		UpdatedAt: o.UpdatedAt,
	}
}
