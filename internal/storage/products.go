package storage

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Veraticus/salesflow/internal/model"
)

// SaveProducts replaces the cached catalog with products.
func (s *SQLiteStorage) SaveProducts(ctx context.Context, products []model.Product) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateProducts(products); err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM catalog_products`); err != nil {
		return fmt.Errorf("failed to clear catalog cache: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT OR REPLACE INTO catalog_products (id, title, category, brand, price, rating)
		VALUES (?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for _, p := range products {
		var rating sql.NullFloat64
		if p.Rating != nil {
			rating = sql.NullFloat64{Float64: *p.Rating, Valid: true}
		}
		if _, err := stmt.ExecContext(ctx, p.ID, p.Title, p.Category, p.Brand, p.Price, rating); err != nil {
			return fmt.Errorf("failed to save product %d: %w", p.ID, err)
		}
	}

	return tx.Commit()
}

// GetProducts returns the cached catalog ordered by id.
func (s *SQLiteStorage) GetProducts(ctx context.Context) ([]model.Product, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	return s.getProductsTx(ctx, s.db)
}

func (s *SQLiteStorage) getProductsTx(ctx context.Context, q queryable) ([]model.Product, error) {
	rows, err := q.QueryContext(ctx, `
		SELECT id, title, COALESCE(category, ''), COALESCE(brand, ''), price, rating
		FROM catalog_products
		ORDER BY id
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query products: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var products []model.Product
	for rows.Next() {
		var p model.Product
		var rating sql.NullFloat64
		if err := rows.Scan(&p.ID, &p.Title, &p.Category, &p.Brand, &p.Price, &rating); err != nil {
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		if rating.Valid {
			r := rating.Float64
			p.Rating = &r
		}
		products = append(products, p)
	}

	return products, rows.Err()
}
