package pricesync

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/lib/pq"

	"ratoneando/scrapers"
)

// MatchKind says how a product row was found.
type MatchKind string

const (
	MatchImage MatchKind = "image"
	MatchName  MatchKind = "name"
)

// Change is the outcome of one successful update.
type Change struct {
	ID       string
	Name     string
	OldPrice float64
	NewPrice float64
	Match    MatchKind
}

// PriceChanged reports whether the stored price differed from the new one.
func (c Change) PriceChanged() bool { return c.OldPrice != c.NewPrice }

const updateByImageSQL = `
	WITH prev AS (
		SELECT id, price FROM products
		WHERE image = $3 AND source = $4
		FOR UPDATE
	)
	UPDATE products p
	SET price = $1,
	    list_price = $2,
	    updated_at = NOW()
	FROM prev
	WHERE p.id = prev.id
	RETURNING p.id, p.name, prev.price`

const updateByNameSQL = `
	WITH prev AS (
		SELECT id, price FROM products
		WHERE btrim(regexp_replace(
		  LOWER(translate(name, '` + foldFrom + `', '` + foldTo + `')),
		  '\s+', ' ', 'g'
		)) = $3 AND source = $4
		FOR UPDATE
	)
	UPDATE products p
	SET price = $1,
	    list_price = $2,
	    updated_at = NOW()
	FROM prev
	WHERE p.id = prev.id
	RETURNING p.id, p.name, prev.price`

// Store updates retailer prices in the products table.
type Store struct {
	byImage *sql.Stmt
	byName  *sql.Stmt
}

// Open connects to postgres with lib/pq and checks the connection.
func Open(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database connection: %w", err)
	}
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(10)
	db.SetConnMaxLifetime(5 * time.Minute)

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return db, nil
}

// NewStore prepares the update statements.
func NewStore(ctx context.Context, db *sql.DB) (*Store, error) {
	byImage, err := db.PrepareContext(ctx, updateByImageSQL)
	if err != nil {
		return nil, fmt.Errorf("prepare update by image: %w", err)
	}
	byName, err := db.PrepareContext(ctx, updateByNameSQL)
	if err != nil {
		_ = byImage.Close()
		return nil, fmt.Errorf("prepare update by name: %w", err)
	}
	return &Store{byImage: byImage, byName: byName}, nil
}

func (s *Store) Close() error {
	return errors.Join(s.byImage.Close(), s.byName.Close())
}

// UpdatePrice matches p against the source's rows, first by image URL and
// then by normalized name. ok is false when no row matched.
func (s *Store) UpdatePrice(ctx context.Context, source string, p scrapers.Product) (Change, bool, error) {
	change := Change{NewPrice: p.Price.Value}

	attempts := []struct {
		stmt  *sql.Stmt
		key   string
		match MatchKind
	}{
		{s.byImage, p.Images, MatchImage},
		{s.byName, NormalizeName(p.Name), MatchName},
	}
	for _, a := range attempts {
		if a.key == "" {
			continue
		}
		err := a.stmt.QueryRowContext(ctx, p.Price.Value, p.ListPrice.Value, a.key, source).
			Scan(&change.ID, &change.Name, &change.OldPrice)
		if errors.Is(err, sql.ErrNoRows) {
			continue
		}
		if err != nil {
			return Change{}, false, fmt.Errorf("update by %s: %w", a.match, err)
		}
		change.Match = a.match
		return change, true, nil
	}
	return Change{}, false, nil
}
