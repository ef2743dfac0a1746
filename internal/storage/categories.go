package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"outlay/internal/core"
)

// NormalizeCategoryName trims and title-cases a name into its stored
// spelling.
func NormalizeCategoryName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", core.ErrEmptyCategory
	}
	return cases.Title(language.Und).String(name), nil
}

// ResolveCategory finds a category by name, creating it on first use.
// Matching is case-insensitive via the column collation; the spelling
// written on create is title-cased.
func (s *Store) ResolveCategory(ctx context.Context, name string) (core.Category, error) {
	normalized, err := NormalizeCategoryName(name)
	if err != nil {
		return core.Category{}, err
	}

	existing, err := s.CategoryByName(ctx, normalized)
	if err == nil {
		return *existing, nil
	}
	if !errors.Is(err, core.ErrNotFound) {
		return core.Category{}, err
	}

	res, err := s.db.ExecContext(ctx, `INSERT INTO categories (name) VALUES (?)`, normalized)
	if err != nil {
		return core.Category{}, storageErr("insert category", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return core.Category{}, storageErr("insert category id", err)
	}
	return core.Category{ID: id, Name: normalized}, nil
}

// CategoryByName looks a category up without creating it. The match is
// case-insensitive.
func (s *Store) CategoryByName(ctx context.Context, name string) (*core.Category, error) {
	var c core.Category
	err := s.db.QueryRowContext(ctx,
		`SELECT id, name FROM categories WHERE name = ?`, strings.TrimSpace(name)).
		Scan(&c.ID, &c.Name)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("category %q: %w", name, core.ErrNotFound)
	}
	if err != nil {
		return nil, storageErr("get category", err)
	}
	return &c, nil
}

// Categories lists every category ordered by name.
func (s *Store) Categories(ctx context.Context) ([]core.Category, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, name FROM categories ORDER BY name`)
	if err != nil {
		return nil, storageErr("list categories", err)
	}
	defer rows.Close()

	var out []core.Category
	for rows.Next() {
		var c core.Category
		if err := rows.Scan(&c.ID, &c.Name); err != nil {
			return nil, storageErr("scan category", err)
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr("list categories", err)
	}
	return out, nil
}
