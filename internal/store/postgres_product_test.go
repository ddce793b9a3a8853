package store

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"order-catalog-service/internal/domain"
)

var productCols = []string{"id", "name", "description", "price", "categories", "image_url", "created_at", "updated_at"}

func TestPostgresStore_CreateProduct_EnrichesCategoryNames(t *testing.T) {
	db, mock, store := newMockDBAndStore(t)
	defer db.Close()

	now := time.Now()
	id := uuid.New()
	gaming, gone := uuid.New(), uuid.New()
	product := &domain.Product{
		ID:          id,
		Name:        "Mechanical Gaming Keyboard",
		Description: PtrTo("RGB backlit"),
		Price:       129.99,
		Categories:  []uuid.UUID{gaming, gone},
	}

	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO products (id, name, description, price, categories, image_url)`)).
		WithArgs(id, product.Name, product.Description, product.Price, sqlmock.AnyArg(), nil).
		WillReturnRows(sqlmock.NewRows(productCols).AddRow(
			id.String(), product.Name, "RGB backlit", 129.99, "{"+gaming.String()+","+gone.String()+"}", nil, now, now))
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT id, name FROM categories WHERE id = ANY($1::uuid[])`)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name"}).AddRow(gaming.String(), "Gaming & Accessories"))

	view, err := store.CreateProduct(context.Background(), product)

	require.NoError(t, err)
	assert.Equal(t, id, view.ID)
	assert.Equal(t, 129.99, view.Price)
	assert.Equal(t, []domain.NamedRef{{ID: gaming, Name: "Gaming & Accessories"}}, view.Categories)
	assert.Nil(t, view.ImageURL)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_GetProductByID(t *testing.T) {
	db, mock, store := newMockDBAndStore(t)
	defer db.Close()

	now := time.Now()
	id, cat := uuid.New(), uuid.New()
	mock.ExpectQuery(regexp.QuoteMeta(`FROM products WHERE id = $1;`)).WithArgs(id).
		WillReturnRows(sqlmock.NewRows(productCols).AddRow(
			id.String(), "Smart Thermostat", nil, 249.99, "{"+cat.String()+"}", "http://s3/bucket/key.png", now, now))

	p, err := store.GetProductByID(context.Background(), id)

	require.NoError(t, err)
	assert.Equal(t, "Smart Thermostat", p.Name)
	assert.Nil(t, p.Description)
	assert.Equal(t, []uuid.UUID{cat}, p.Categories)
	assert.Equal(t, PtrTo("http://s3/bucket/key.png"), p.ImageURL)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_GetProductByID_NotFound(t *testing.T) {
	db, mock, store := newMockDBAndStore(t)
	defer db.Close()

	mock.ExpectQuery(regexp.QuoteMeta(`FROM products WHERE id = $1;`)).WillReturnError(sql.ErrNoRows)

	_, err := store.GetProductByID(context.Background(), uuid.New())

	assert.True(t, errors.Is(err, ErrProductNotFound))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_ListProducts_SingleNameLookup(t *testing.T) {
	db, mock, store := newMockDBAndStore(t)
	defer db.Close()

	now := time.Now()
	catA, catB := uuid.New(), uuid.New()
	p1, p2 := uuid.New(), uuid.New()

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT COUNT(*) FROM products;`)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))
	mock.ExpectQuery(regexp.QuoteMeta(`FROM products ORDER BY created_at ASC, id ASC LIMIT $1 OFFSET $2;`)).
		WithArgs(10, 0).
		WillReturnRows(sqlmock.NewRows(productCols).
			AddRow(p1.String(), "Tent", nil, 199.99, "{"+catA.String()+"}", nil, now, now).
			AddRow(p2.String(), "Feeder", nil, 89.99, "{"+catA.String()+","+catB.String()+"}", nil, now, now))
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT id, name FROM categories`)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name"}).
			AddRow(catA.String(), "Outdoor").
			AddRow(catB.String(), "Pets"))

	views, total, err := store.ListProducts(context.Background(), ListParams{Limit: 10})

	require.NoError(t, err)
	assert.Equal(t, 2, total)
	require.Len(t, views, 2)
	assert.Equal(t, []domain.NamedRef{{ID: catA, Name: "Outdoor"}}, views[0].Categories)
	assert.Len(t, views[1].Categories, 2)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_UpdateProduct_NotFound(t *testing.T) {
	db, mock, store := newMockDBAndStore(t)
	defer db.Close()

	mock.ExpectQuery(regexp.QuoteMeta(`UPDATE products`)).WillReturnError(sql.ErrNoRows)

	_, err := store.UpdateProduct(context.Background(), &domain.Product{ID: uuid.New(), Name: "x"})

	assert.ErrorIs(t, err, ErrProductNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_DeleteProduct(t *testing.T) {
	db, mock, store := newMockDBAndStore(t)
	defer db.Close()

	id := uuid.New()
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM products WHERE id = $1;`)).WithArgs(id).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM products WHERE id = $1;`)).WithArgs(id).
		WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, store.DeleteProduct(context.Background(), id))
	assert.ErrorIs(t, store.DeleteProduct(context.Background(), id), ErrProductNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestBuildProductView_OmitsOrphanCategories(t *testing.T) {
	known, orphan := uuid.New(), uuid.New()
	p := &domain.Product{ID: uuid.New(), Name: "Dumbbells", Categories: []uuid.UUID{orphan, known}}

	view := buildProductView(p, map[uuid.UUID]string{known: "Fitness & Wellness"})

	assert.Equal(t, []domain.NamedRef{{ID: known, Name: "Fitness & Wellness"}}, view.Categories)
}
