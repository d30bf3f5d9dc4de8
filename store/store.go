package store

import (
	"context"
	"database/sql"
	"errors"
	"sync"
	"time"

	"github.com/lib/pq"
	"github.com/shopspring/decimal"
)

var (
	// ErrNotFound is returned when the addressed row does not exist.
	ErrNotFound = errors.New("not found")
	// ErrDuplicate is returned when a product id is already taken.
	ErrDuplicate = errors.New("already exists")
)

// Postgres error codes this store maps to sentinel errors.
const (
	pqUniqueViolation     = "23505"
	pqForeignKeyViolation = "23503"
)

// ProductRow, CartRow, WishlistRow are simple structs representing DB rows
type ProductRow struct {
	ID               string
	Name             string
	Price            decimal.Decimal
	DiscountPrice    decimal.NullDecimal
	Images           pq.StringArray
	Rating           float64
	NumReviews       int
	Sizes            pq.StringArray
	Colors           pq.StringArray
	ShortDescription sql.NullString
	Description      sql.NullString
	CreatedAt        time.Time
}

// CartKey addresses one product variant inside a cart. Size and Color are
// empty when the buyer did not pick one.
type CartKey struct {
	ProductID string
	Size      string
	Color     string
}

type CartRow struct {
	CartKey
	Name          string
	Quantity      int
	Price         decimal.Decimal
	DiscountPrice decimal.NullDecimal
}

// PostgresStore is a Store backed by Postgres and has in-process locks
type PostgresStore struct {
	DB *sql.DB

	// per-user mutexes to avoid concurrent goroutines in this process
	// racing on the same cart. Keys are user_id -> *sync.Mutex
	locks sync.Map
}

func NewPostgresStore(dsn string) (*PostgresStore, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, err
	}
	return &PostgresStore{DB: db}, nil
}

func (s *PostgresStore) Close() error { return s.DB.Close() }

// helper: acquire per-user lock (process-local). Returns unlock func.
func (s *PostgresStore) lockForUser(userID string) func() {
	if v, ok := s.locks.Load(userID); ok {
		m := v.(*sync.Mutex)
		m.Lock()
		return m.Unlock
	}

	m := &sync.Mutex{}
	actual, _ := s.locks.LoadOrStore(userID, m)
	mtx := actual.(*sync.Mutex)
	mtx.Lock()
	return mtx.Unlock
}

// mapPQError translates constraint violations into store sentinels.
func mapPQError(err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code {
		case pqUniqueViolation:
			return ErrDuplicate
		case pqForeignKeyViolation:
			return ErrNotFound
		}
	}
	return err
}

const productColumns = `id, name, price, discount_price, images, rating, num_reviews, sizes, colors, short_description, description, created_at`

func scanProduct(sc interface{ Scan(...any) error }) (ProductRow, error) {
	var p ProductRow
	err := sc.Scan(&p.ID, &p.Name, &p.Price, &p.DiscountPrice, &p.Images, &p.Rating,
		&p.NumReviews, &p.Sizes, &p.Colors, &p.ShortDescription, &p.Description, &p.CreatedAt)
	return p, err
}

// CreateProduct inserts a product under its id.
func (s *PostgresStore) CreateProduct(ctx context.Context, p ProductRow) error {
	_, err := s.DB.ExecContext(ctx,
		`INSERT INTO products (id, name, price, discount_price, images, rating, num_reviews, sizes, colors, short_description, description)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		p.ID, p.Name, p.Price, p.DiscountPrice, p.Images, p.Rating, p.NumReviews,
		p.Sizes, p.Colors, p.ShortDescription, p.Description,
	)
	return mapPQError(err)
}

func (s *PostgresStore) GetProduct(ctx context.Context, id string) (ProductRow, error) {
	row := s.DB.QueryRowContext(ctx, `SELECT `+productColumns+` FROM products WHERE id = $1`, id)
	p, err := scanProduct(row)
	if errors.Is(err, sql.ErrNoRows) {
		return ProductRow{}, ErrNotFound
	}
	return p, err
}

func (s *PostgresStore) ListProducts(ctx context.Context) ([]ProductRow, error) {
	rows, err := s.DB.QueryContext(ctx, `SELECT `+productColumns+` FROM products ORDER BY created_at, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []ProductRow{}
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// AddToCart creates the cart if needed and adds qty to the variant line.
func (s *PostgresStore) AddToCart(ctx context.Context, userID string, line CartKey, qty int) error {
	if qty <= 0 {
		return errors.New("quantity must be > 0")
	}

	unlock := s.lockForUser(userID)
	defer unlock()

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	// no-op once committed
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `INSERT INTO carts (user_id) VALUES ($1) ON CONFLICT (user_id) DO NOTHING`, userID); err != nil {
		return err
	}

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO cart_items (cart_id, product_id, size, color, quantity)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (cart_id, product_id, size, color)
		DO UPDATE SET quantity = cart_items.quantity + EXCLUDED.quantity
	`, userID, line.ProductID, line.Size, line.Color, qty); err != nil {
		return mapPQError(err)
	}

	return tx.Commit()
}

func (s *PostgresStore) RemoveFromCart(ctx context.Context, userID string, line CartKey) error {
	unlock := s.lockForUser(userID)
	defer unlock()

	res, err := s.DB.ExecContext(ctx,
		`DELETE FROM cart_items WHERE cart_id=$1 AND product_id=$2 AND size=$3 AND color=$4`,
		userID, line.ProductID, line.Size, line.Color)
	if err != nil {
		return err
	}
	if ra, _ := res.RowsAffected(); ra == 0 {
		return ErrNotFound
	}
	return nil
}

// GetCart returns the cart lines joined with current product prices.
func (s *PostgresStore) GetCart(ctx context.Context, userID string) ([]CartRow, error) {
	rows, err := s.DB.QueryContext(ctx, `
		SELECT ci.product_id, ci.size, ci.color, p.name, ci.quantity, p.price, p.discount_price
		FROM cart_items ci
		JOIN products p ON p.id = ci.product_id
		WHERE ci.cart_id = $1
		ORDER BY ci.product_id, ci.size, ci.color
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []CartRow{}
	for rows.Next() {
		var c CartRow
		if err := rows.Scan(&c.ProductID, &c.Size, &c.Color, &c.Name, &c.Quantity, &c.Price, &c.DiscountPrice); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}
