package store

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"order-catalog-service/internal/domain"
)

type categoryRow struct {
	ID        uuid.UUID `db:"id"`
	Name      string    `db:"name"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

func (r categoryRow) toDomain() *domain.Category {
	return &domain.Category{ID: r.ID, Name: r.Name, CreatedAt: r.CreatedAt, UpdatedAt: r.UpdatedAt}
}

// --- CategoryStorer Implementation ---

func (s *PostgresStore) CreateCategory(ctx context.Context, category *domain.Category) (*domain.Category, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	id := category.ID
	if id == uuid.Nil {
		id = uuid.New()
	}

	query := `
		INSERT INTO categories (id, name)
		VALUES ($1, $2)
		RETURNING id, name, created_at, updated_at;
	`
	var row categoryRow
	if err := s.db.GetContext(ctx, &row, query, id, category.Name); err != nil {
		if isUniqueViolation(err) {
			return nil, ErrCategoryNameExists
		}
		return nil, fmt.Errorf("store: CreateCategory failed to scan row: %w", err)
	}
	return row.toDomain(), nil
}

// ListCategories retrieves a paginated list of categories ordered by name.
func (s *PostgresStore) ListCategories(ctx context.Context, params ListParams) ([]domain.Category, int, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	var totalCount int
	if err := s.db.GetContext(ctx, &totalCount, `SELECT COUNT(*) FROM categories;`); err != nil {
		return nil, 0, fmt.Errorf("store: ListCategories failed to count categories: %w", err)
	}
	if totalCount == 0 {
		return []domain.Category{}, 0, nil
	}

	query := `
		SELECT id, name, created_at, updated_at
		FROM categories
		ORDER BY name ASC
		LIMIT $1 OFFSET $2;
	`
	var rows []categoryRow
	if err := s.db.SelectContext(ctx, &rows, query, params.Limit, params.Offset); err != nil {
		return nil, 0, fmt.Errorf("store: ListCategories failed to query categories: %w", err)
	}

	categories := make([]domain.Category, 0, len(rows))
	for _, r := range rows {
		categories = append(categories, *r.toDomain())
	}
	return categories, totalCount, nil
}

func (s *PostgresStore) GetCategoryByID(ctx context.Context, id uuid.UUID) (*domain.Category, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	query := `
		SELECT id, name, created_at, updated_at
		FROM categories
		WHERE id = $1;
	`
	var row categoryRow
	if err := s.db.GetContext(ctx, &row, query, id); err != nil {
		if isNoRows(err) {
			return nil, ErrCategoryNotFound
		}
		return nil, fmt.Errorf("store: GetCategoryByID failed to scan row: %w", err)
	}
	return row.toDomain(), nil
}

func (s *PostgresStore) UpdateCategory(ctx context.Context, category *domain.Category) (*domain.Category, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	query := `
		UPDATE categories
		SET name = $1, updated_at = CURRENT_TIMESTAMP
		WHERE id = $2
		RETURNING id, name, created_at, updated_at;
	`
	var row categoryRow
	if err := s.db.GetContext(ctx, &row, query, category.Name, category.ID); err != nil {
		if isNoRows(err) {
			return nil, ErrCategoryNotFound
		}
		if isUniqueViolation(err) {
			return nil, ErrCategoryNameExists
		}
		return nil, fmt.Errorf("store: UpdateCategory failed to scan row: %w", err)
	}
	return row.toDomain(), nil
}

// DeleteCategory removes the category row only. Products keep the id in their
// categories array.
func (s *PostgresStore) DeleteCategory(ctx context.Context, id uuid.UUID) error {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	result, err := s.db.ExecContext(ctx, `DELETE FROM categories WHERE id = $1;`, id)
	if err != nil {
		return fmt.Errorf("store: DeleteCategory failed to execute: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("store: DeleteCategory failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return ErrCategoryNotFound
	}
	return nil
}
