package store

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"order-catalog-service/internal/domain"
)

type productRow struct {
	ID          uuid.UUID      `db:"id"`
	Name        string         `db:"name"`
	Description *string        `db:"description"`
	Price       float64        `db:"price"`
	Categories  pq.StringArray `db:"categories"`
	ImageURL    *string        `db:"image_url"`
	CreatedAt   time.Time      `db:"created_at"`
	UpdatedAt   time.Time      `db:"updated_at"`
}

func (r productRow) toDomain() *domain.Product {
	return &domain.Product{
		ID:          r.ID,
		Name:        r.Name,
		Description: r.Description,
		Price:       r.Price,
		Categories:  parseUUIDs(r.Categories),
		ImageURL:    r.ImageURL,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
}

const productColumns = `id, name, description, price, categories, image_url, created_at, updated_at`

// --- ProductStorer Implementation ---

func (s *PostgresStore) CreateProduct(ctx context.Context, product *domain.Product) (*domain.ProductView, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	id := product.ID
	if id == uuid.Nil {
		id = uuid.New()
	}

	query := `
		INSERT INTO products (id, name, description, price, categories, image_url)
		VALUES ($1, $2, $3, $4, $5::uuid[], $6)
		RETURNING ` + productColumns + `;`
	var row productRow
	err := s.db.GetContext(ctx, &row, query,
		id, product.Name, product.Description, product.Price, uuidStrings(product.Categories), product.ImageURL)
	if err != nil {
		return nil, fmt.Errorf("store: CreateProduct failed to scan row: %w", err)
	}
	return s.productView(ctx, row.toDomain())
}

func (s *PostgresStore) GetProductByID(ctx context.Context, id uuid.UUID) (*domain.Product, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	query := `SELECT ` + productColumns + ` FROM products WHERE id = $1;`
	var row productRow
	if err := s.db.GetContext(ctx, &row, query, id); err != nil {
		if isNoRows(err) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("store: GetProductByID failed to scan row: %w", err)
	}
	return row.toDomain(), nil
}

// GetProductView returns the product with its category names.
func (s *PostgresStore) GetProductView(ctx context.Context, id uuid.UUID) (*domain.ProductView, error) {
	p, err := s.GetProductByID(ctx, id)
	if err != nil {
		return nil, err
	}
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()
	return s.productView(ctx, p)
}

func (s *PostgresStore) ListProducts(ctx context.Context, params ListParams) ([]domain.ProductView, int, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	var totalCount int
	if err := s.db.GetContext(ctx, &totalCount, `SELECT COUNT(*) FROM products;`); err != nil {
		return nil, 0, fmt.Errorf("store: ListProducts failed to count products: %w", err)
	}
	if totalCount == 0 {
		return []domain.ProductView{}, 0, nil
	}

	query := `SELECT ` + productColumns + ` FROM products ORDER BY created_at ASC, id ASC LIMIT $1 OFFSET $2;`
	var rows []productRow
	if err := s.db.SelectContext(ctx, &rows, query, params.Limit, params.Offset); err != nil {
		return nil, 0, fmt.Errorf("store: ListProducts failed to query products: %w", err)
	}

	products := make([]*domain.Product, 0, len(rows))
	var categoryIDs []uuid.UUID
	for _, r := range rows {
		p := r.toDomain()
		products = append(products, p)
		categoryIDs = append(categoryIDs, p.Categories...)
	}

	names, err := s.namesByID(ctx, "categories", categoryIDs)
	if err != nil {
		return nil, 0, err
	}
	views := make([]domain.ProductView, 0, len(products))
	for _, p := range products {
		views = append(views, buildProductView(p, names))
	}
	return views, totalCount, nil
}

func (s *PostgresStore) UpdateProduct(ctx context.Context, product *domain.Product) (*domain.ProductView, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	query := `
		UPDATE products
		SET name = $1, description = $2, price = $3, categories = $4::uuid[], image_url = $5,
			updated_at = CURRENT_TIMESTAMP
		WHERE id = $6
		RETURNING ` + productColumns + `;`
	var row productRow
	err := s.db.GetContext(ctx, &row, query,
		product.Name, product.Description, product.Price, uuidStrings(product.Categories), product.ImageURL, product.ID)
	if err != nil {
		if isNoRows(err) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("store: UpdateProduct failed to scan row: %w", err)
	}
	return s.productView(ctx, row.toDomain())
}

// DeleteProduct removes the product row only. Orders keep the id in their products array.
func (s *PostgresStore) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	result, err := s.db.ExecContext(ctx, `DELETE FROM products WHERE id = $1;`, id)
	if err != nil {
		return fmt.Errorf("store: DeleteProduct failed to execute: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("store: DeleteProduct failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return ErrProductNotFound
	}
	return nil
}

func (s *PostgresStore) productView(ctx context.Context, p *domain.Product) (*domain.ProductView, error) {
	names, err := s.namesByID(ctx, "categories", p.Categories)
	if err != nil {
		return nil, err
	}
	view := buildProductView(p, names)
	return &view, nil
}

func buildProductView(p *domain.Product, names map[uuid.UUID]string) domain.ProductView {
	refs := make([]domain.NamedRef, 0, len(p.Categories))
	for _, id := range p.Categories {
		if name, ok := names[id]; ok {
			refs = append(refs, domain.NamedRef{ID: id, Name: name})
		}
	}
	return domain.ProductView{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price,
		Categories:  refs,
		ImageURL:    p.ImageURL,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}
