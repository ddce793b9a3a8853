package store

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type seedProduct struct {
	name, description, imageURL string
	price                       string
	category                    int
}

var seedCategories = []string{
	"Gaming & Accessories",
	"Outdoor & Adventure",
	"Pet Supplies",
	"Smart Home Devices",
	"Fitness & Wellness",
}

var seedProducts = []seedProduct{
	{"Mechanical Gaming Keyboard", "RGB backlit mechanical keyboard with fast response time.", "https://example.com/images/mechanical-keyboard.jpg", "129.99", 0},
	{"Camping Tent (4-Person)", "Water-resistant and durable camping tent for outdoor adventures.", "https://example.com/images/camping-tent.jpg", "199.99", 1},
	{"Automatic Pet Feeder", "Smart pet feeder with scheduled feeding times and portion control.", "https://example.com/images/pet-feeder.jpg", "89.99", 2},
	{"Smart Thermostat", "Wi-Fi enabled thermostat with energy-saving automation.", "https://example.com/images/smart-thermostat.jpg", "249.99", 3},
	{"Adjustable Dumbbells (Set)", "Pair of adjustable dumbbells with weight customization up to 50 lbs.", "https://example.com/images/adjustable-dumbbells.jpg", "179.99", 4},
}

// seedOrders lists each order's date and the indexes of its products.
var seedOrders = []struct {
	date     string
	products []int
}{
	{"2025-03-05T12:30:00Z", []int{0, 1}},
	{"2025-03-07T09:45:00Z", []int{2}},
	{"2025-03-10T15:20:00Z", []int{3, 4}},
	{"2025-03-12T10:00:00Z", []int{0}},
	{"2025-03-15T14:15:00Z", []int{1, 2}},
	{"2025-03-18T17:45:00Z", []int{3}},
	{"2025-03-20T19:30:00Z", []int{4, 0}},
	{"2025-03-22T08:00:00Z", []int{1, 3}},
	{"2025-03-25T11:10:00Z", []int{2, 4}},
	{"2025-03-28T14:45:00Z", []int{0, 2}},
}

// Seed replaces every category, product and order with the demo data set in a
// single transaction. Order totals are the sums of their product prices.
func (s *PostgresStore) Seed(ctx context.Context) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("store: Seed failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `TRUNCATE orders, products, categories;`); err != nil {
		return fmt.Errorf("store: Seed failed to truncate tables: %w", err)
	}

	categoryIDs := make([]uuid.UUID, len(seedCategories))
	for i, name := range seedCategories {
		categoryIDs[i] = uuid.New()
		if _, err := tx.ExecContext(ctx, `INSERT INTO categories (id, name) VALUES ($1, $2);`, categoryIDs[i], name); err != nil {
			return fmt.Errorf("store: Seed failed to insert category %q: %w", name, err)
		}
	}

	productIDs := make([]uuid.UUID, len(seedProducts))
	prices := make([]decimal.Decimal, len(seedProducts))
	for i, p := range seedProducts {
		productIDs[i] = uuid.New()
		prices[i] = decimal.RequireFromString(p.price)
		_, err := tx.ExecContext(ctx,
			`INSERT INTO products (id, name, description, price, categories, image_url) VALUES ($1, $2, $3, $4, $5::uuid[], $6);`,
			productIDs[i], p.name, p.description, prices[i].InexactFloat64(),
			uuidStrings([]uuid.UUID{categoryIDs[p.category]}), p.imageURL)
		if err != nil {
			return fmt.Errorf("store: Seed failed to insert product %q: %w", p.name, err)
		}
	}

	for _, o := range seedOrders {
		date, err := time.Parse(time.RFC3339, o.date)
		if err != nil {
			return fmt.Errorf("store: Seed has a bad order date %q: %w", o.date, err)
		}
		ids := make([]uuid.UUID, 0, len(o.products))
		total := decimal.Zero
		for _, idx := range o.products {
			ids = append(ids, productIDs[idx])
			total = total.Add(prices[idx])
		}
		_, err = tx.ExecContext(ctx,
			`INSERT INTO orders (id, date, products, total) VALUES ($1, $2, $3::uuid[], $4);`,
			uuid.New(), date, uuidStrings(ids), total.InexactFloat64())
		if err != nil {
			return fmt.Errorf("store: Seed failed to insert order dated %s: %w", o.date, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("store: Seed failed to commit: %w", err)
	}
	s.logger.Info("database seeded",
		zap.Int("categories", len(seedCategories)),
		zap.Int("products", len(seedProducts)),
		zap.Int("orders", len(seedOrders)))
	return nil
}
