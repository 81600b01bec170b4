package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"shopstack/internal/config"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
)

// Seeds a local database with sample products and coupons for manual
// testing. Safe to run repeatedly; rows are keyed on fixed names and codes.
func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	conn, err := pgx.Connect(ctx, cfg.Database.ConnectionString())
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer conn.Close(ctx)

	if err := seedProducts(ctx, conn); err != nil {
		log.Fatalf("Failed to seed products: %v", err)
	}

	if err := seedCoupons(ctx, conn); err != nil {
		log.Fatalf("Failed to seed coupons: %v", err)
	}

	fmt.Println("Sample data seeded successfully!")
}

func seedProducts(ctx context.Context, conn *pgx.Conn) error {
	products := []struct {
		name     string
		category string
		price    decimal.Decimal
		stock    int
	}{
		{"Wireless Mouse", "electronics", decimal.NewFromFloat(799.00), 120},
		{"Mechanical Keyboard", "electronics", decimal.NewFromFloat(4499.00), 35},
		{"Cotton T-Shirt", "apparel", decimal.NewFromFloat(499.00), 200},
		{"Stainless Water Bottle", "home", decimal.NewFromFloat(899.00), 8},
		{"Yoga Mat", "fitness", decimal.NewFromFloat(1299.00), 60},
	}

	for _, p := range products {
		_, err := conn.Exec(ctx, `
			INSERT INTO products (id, name, description, price, category, stock_quantity, is_active, created_at, updated_at)
			VALUES ($1, $2, '', $3, $4, $5, TRUE, NOW(), NOW())
			ON CONFLICT (name) DO NOTHING`,
			uuid.New(), p.name, p.price, p.category, p.stock,
		)
		if err != nil {
			return fmt.Errorf("failed to insert product %s: %w", p.name, err)
		}
		fmt.Printf("Seeded product %s\n", p.name)
	}

	return nil
}

func seedCoupons(ctx context.Context, conn *pgx.Conn) error {
	now := time.Now()
	maxDiscount := decimal.NewFromInt(500)
	usageLimit := 100

	coupons := []struct {
		code          string
		discountType  string
		discountValue decimal.Decimal
		minPurchase   *decimal.Decimal
		maxDiscount   *decimal.Decimal
		usageLimit    *int
		start         time.Time
		end           time.Time
	}{
		{"SAVE10", "percentage", decimal.NewFromInt(10), nil, &maxDiscount, nil, now.AddDate(0, -1, 0), now.AddDate(0, 6, 0)},
		{"FLAT200", "fixed", decimal.NewFromInt(200), ptr(decimal.NewFromInt(1000)), nil, &usageLimit, now.AddDate(0, -1, 0), now.AddDate(0, 3, 0)},
		{"EXPIRED5", "percentage", decimal.NewFromInt(5), nil, nil, nil, now.AddDate(-1, 0, 0), now.AddDate(0, -1, 0)},
	}

	for _, c := range coupons {
		_, err := conn.Exec(ctx, `
			INSERT INTO coupons (id, code, discount_type, discount_value, min_purchase_amount, max_discount_amount,
				usage_limit, used_count, start_date, end_date, is_active, created_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, 0, $8, $9, TRUE, NOW())
			ON CONFLICT (code) DO NOTHING`,
			uuid.New(), c.code, c.discountType, c.discountValue, c.minPurchase, c.maxDiscount,
			c.usageLimit, c.start, c.end,
		)
		if err != nil {
			return fmt.Errorf("failed to insert coupon %s: %w", c.code, err)
		}
		fmt.Printf("Seeded coupon %s\n", c.code)
	}

	return nil
}

func ptr(d decimal.Decimal) *decimal.Decimal { return &d }
