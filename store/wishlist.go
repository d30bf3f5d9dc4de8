package store

import (
	"context"
	"time"
)

type WishlistRow struct {
	ProductID string
	CreatedAt time.Time
}

// AddToWishlist remembers productID for the user. Adding twice is a no-op.
func (s *PostgresStore) AddToWishlist(ctx context.Context, userID, productID string) error {
	_, err := s.DB.ExecContext(ctx,
		`INSERT INTO wishlist_items (user_id, product_id) VALUES ($1, $2) ON CONFLICT (user_id, product_id) DO NOTHING`,
		userID, productID)
	return mapPQError(err)
}

// RemoveFromWishlist returns ErrNotFound when the product was not listed.
func (s *PostgresStore) RemoveFromWishlist(ctx context.Context, userID, productID string) error {
	res, err := s.DB.ExecContext(ctx,
		`DELETE FROM wishlist_items WHERE user_id=$1 AND product_id=$2`, userID, productID)
	if err != nil {
		return err
	}
	ra, _ := res.RowsAffected()
	if ra == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *PostgresStore) ListWishlist(ctx context.Context, userID string) ([]WishlistRow, error) {
	rows, err := s.DB.QueryContext(ctx,
		`SELECT product_id, created_at FROM wishlist_items WHERE user_id=$1 ORDER BY created_at, product_id`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []WishlistRow{}
	for rows.Next() {
		var w WishlistRow
		if err := rows.Scan(&w.ProductID, &w.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, w)
	}
	return out, rows.Err()
}
