package store

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
)

var productCols = []string{"id", "name", "price", "discount_price", "images", "rating", "num_reviews", "sizes", "colors", "short_description", "description", "created_at"}

func TestCreateProduct_DuplicateMapsToErrDuplicate(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock new: %v", err)
	}
	defer db.Close()
	s := &PostgresStore{DB: db}

	p := ProductRow{
		ID:     "X123",
		Name:   "Linen shirt",
		Price:  decimal.RequireFromString("100"),
		Images: pq.StringArray{"a.jpg"},
		Sizes:  pq.StringArray{"S", "M"},
		Colors: pq.StringArray{},
		Rating: 4,
	}

	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO products`)).
		WithArgs("X123", "Linen shirt", sqlmock.AnyArg(), nil, "{\"a.jpg\"}", 4.0, 0, "{\"S\",\"M\"}", "{}", nil, nil).
		WillReturnResult(sqlmock.NewResult(0, 1))
	if err := s.CreateProduct(context.Background(), p); err != nil {
		t.Fatalf("CreateProduct failed: %v", err)
	}

	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO products`)).
		WillReturnError(&pq.Error{Code: pqUniqueViolation})
	if err := s.CreateProduct(context.Background(), p); !errors.Is(err, ErrDuplicate) {
		t.Fatalf("expected ErrDuplicate, got %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestGetProduct_ScansArraysAndDecimals(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer db.Close()
	s := &PostgresStore{DB: db}

	created := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	mock.ExpectQuery(regexp.QuoteMeta(`FROM products WHERE id = $1`)).
		WithArgs("X123").
		WillReturnRows(sqlmock.NewRows(productCols).
			AddRow("X123", "Linen shirt", "100.00", "80.00", "{a.jpg,b.jpg}", 4.5, 12, "{S,M}", "{red}", "short", nil, created))

	p, err := s.GetProduct(context.Background(), "X123")
	if err != nil {
		t.Fatalf("GetProduct failed: %v", err)
	}
	if !p.Price.Equal(decimal.RequireFromString("100")) {
		t.Fatalf("unexpected price %s", p.Price)
	}
	if !p.DiscountPrice.Valid || !p.DiscountPrice.Decimal.Equal(decimal.RequireFromString("80")) {
		t.Fatalf("unexpected discount %+v", p.DiscountPrice)
	}
	if len(p.Images) != 2 || p.Images[1] != "b.jpg" || len(p.Sizes) != 2 || p.Colors[0] != "red" {
		t.Fatalf("unexpected arrays: %+v", p)
	}
	if p.Description.Valid {
		t.Fatalf("expected NULL description")
	}

	mock.ExpectQuery(regexp.QuoteMeta(`FROM products WHERE id = $1`)).
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows(productCols))
	if _, err := s.GetProduct(context.Background(), "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestAddToCart_SuccessAndInvalidQty(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock new: %v", err)
	}
	defer db.Close()

	s := &PostgresStore{DB: db}
	line := CartKey{ProductID: "X123", Size: "M", Color: "red"}

	// invalid qty -> should error early, no DB calls
	if err := s.AddToCart(context.Background(), "u1", line, 0); err == nil {
		t.Fatalf("expected error for qty <= 0")
	}

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO carts (user_id) VALUES ($1) ON CONFLICT (user_id) DO NOTHING`)).
		WithArgs("u1").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO cart_items (cart_id, product_id, size, color, quantity)`)).
		WithArgs("u1", "X123", "M", "red", 3).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	if err := s.AddToCart(context.Background(), "u1", line, 3); err != nil {
		t.Fatalf("AddToCart failed: %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestAddToCart_MissingProductRollsBack(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer db.Close()
	s := &PostgresStore{DB: db}

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO carts`)).
		WithArgs("u1").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO cart_items`)).
		WillReturnError(&pq.Error{Code: pqForeignKeyViolation})
	mock.ExpectRollback()

	err := s.AddToCart(context.Background(), "u1", CartKey{ProductID: "nope"}, 1)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestRemoveFromCart_NoRowsAndSuccess(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer db.Close()
	s := &PostgresStore{DB: db}
	line := CartKey{ProductID: "X5", Size: "L"}

	query := regexp.QuoteMeta(`DELETE FROM cart_items WHERE cart_id=$1 AND product_id=$2 AND size=$3 AND color=$4`)

	mock.ExpectExec(query).
		WithArgs("u1", "X5", "L", "").
		WillReturnResult(sqlmock.NewResult(0, 0))
	if err := s.RemoveFromCart(context.Background(), "u1", line); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	mock.ExpectExec(query).
		WithArgs("u1", "X5", "L", "").
		WillReturnResult(sqlmock.NewResult(1, 1))
	if err := s.RemoveFromCart(context.Background(), "u1", line); err != nil {
		t.Fatalf("expected success, got %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestGetCart_Success(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer db.Close()
	s := &PostgresStore{DB: db}

	rows := sqlmock.NewRows([]string{"product_id", "size", "color", "name", "quantity", "price", "discount_price"}).
		AddRow("X11", "M", "red", "Shirt", 2, "100", "80").
		AddRow("X12", "", "", "Socks", 1, "5.50", nil)
	mock.ExpectQuery(regexp.QuoteMeta(`FROM cart_items ci`)).
		WithArgs("u1").
		WillReturnRows(rows)

	got, err := s.GetCart(context.Background(), "u1")
	if err != nil {
		t.Fatalf("GetCart failed: %v", err)
	}
	if len(got) != 2 || got[0].ProductID != "X11" || got[0].Quantity != 2 || got[0].Size != "M" {
		t.Fatalf("unexpected cart rows: %+v", got)
	}
	if got[1].DiscountPrice.Valid {
		t.Fatalf("expected no discount on second row")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestWishlist_AddRemoveList(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer db.Close()
	s := &PostgresStore{DB: db}
	ctx := context.Background()

	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO wishlist_items (user_id, product_id) VALUES ($1, $2) ON CONFLICT (user_id, product_id) DO NOTHING`)).
		WithArgs("u1", "X1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	if err := s.AddToWishlist(ctx, "u1", "X1"); err != nil {
		t.Fatalf("AddToWishlist failed: %v", err)
	}

	added := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT product_id, created_at FROM wishlist_items WHERE user_id=$1`)).
		WithArgs("u1").
		WillReturnRows(sqlmock.NewRows([]string{"product_id", "created_at"}).AddRow("X1", added))
	list, err := s.ListWishlist(ctx, "u1")
	if err != nil {
		t.Fatalf("ListWishlist failed: %v", err)
	}
	if len(list) != 1 || list[0].ProductID != "X1" || !list[0].CreatedAt.Equal(added) {
		t.Fatalf("unexpected wishlist: %+v", list)
	}

	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM wishlist_items WHERE user_id=$1 AND product_id=$2`)).
		WithArgs("u1", "X2").
		WillReturnResult(sqlmock.NewResult(0, 0))
	if err := s.RemoveFromWishlist(ctx, "u1", "X2"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}
