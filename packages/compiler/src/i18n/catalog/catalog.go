// Package catalog stores extracted translation units and their translations
// in a SQLite database.
package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"gopkg.in/yaml.v3"
	_ "modernc.org/sqlite"

	"ngc-template/packages/compiler/src/i18n"
)

// ErrUnknownUnit is returned for translation unit ids the catalog does not hold.
var ErrUnknownUnit = errors.New("unknown translation unit")

// Catalog is a SQLite-backed message catalog. It is safe for concurrent use.
type Catalog struct {
	db *sql.DB
}

// Open opens the catalog at path, creating and migrating it as needed.
func Open(path string) (*Catalog, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening catalog: %w", err)
	}
	// SQLite allows a single writer.
	db.SetMaxOpenConns(1)
	if err := Migrate(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrating catalog %s: %w", path, err)
	}
	return &Catalog{db: db}, nil
}

// Close closes the underlying database.
func (c *Catalog) Close() error {
	return c.db.Close()
}

// SaveUnits inserts or replaces units. The sources of a saved unit replace
// the ones stored before; translations are kept.
func (c *Catalog) SaveUnits(ctx context.Context, units []*i18n.TranslationUnit) error {
	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning save: %w", err)
	}
	defer tx.Rollback()

	for _, unit := range units {
		body, err := yaml.Marshal(unit)
		if err != nil {
			return fmt.Errorf("encoding unit %s: %w", unit.ID, err)
		}
		_, err = tx.ExecContext(ctx, `
			INSERT INTO units (id, meaning, description, message, body)
			VALUES (?, ?, ?, ?, ?)
			ON CONFLICT(id) DO UPDATE SET
				meaning = excluded.meaning,
				description = excluded.description,
				message = excluded.message,
				body = excluded.body,
				updated_at = datetime('now')`,
			unit.ID, unit.Meaning, unit.Description, unit.Text(), string(body))
		if err != nil {
			return fmt.Errorf("saving unit %s: %w", unit.ID, err)
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM unit_sources WHERE unit_id = ?`, unit.ID); err != nil {
			return fmt.Errorf("clearing sources of %s: %w", unit.ID, err)
		}
		for _, source := range unit.Sources {
			_, err := tx.ExecContext(ctx,
				`INSERT INTO unit_sources (unit_id, file_path, start_line, end_line) VALUES (?, ?, ?, ?)`,
				unit.ID, source.FilePath, source.StartLine, source.EndLine)
			if err != nil {
				return fmt.Errorf("saving source of %s: %w", unit.ID, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing save: %w", err)
	}
	slog.Debug("saved translation units", "count", len(units))
	return nil
}

// Unit returns the unit stored under id, or ErrUnknownUnit.
func (c *Catalog) Unit(ctx context.Context, id string) (*i18n.TranslationUnit, error) {
	var body string
	err := c.db.QueryRowContext(ctx, `SELECT body FROM units WHERE id = ?`, id).Scan(&body)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrUnknownUnit, id)
	}
	if err != nil {
		return nil, fmt.Errorf("reading unit %s: %w", id, err)
	}
	return decodeUnit(id, body)
}

// Units returns every stored unit ordered by id.
func (c *Catalog) Units(ctx context.Context) ([]*i18n.TranslationUnit, error) {
	return c.queryUnits(ctx, `SELECT id, body FROM units ORDER BY id`)
}

// UnitsForFile returns the units extracted from filePath ordered by id.
func (c *Catalog) UnitsForFile(ctx context.Context, filePath string) ([]*i18n.TranslationUnit, error) {
	return c.queryUnits(ctx, `
		SELECT DISTINCT u.id, u.body FROM units u
		JOIN unit_sources s ON s.unit_id = u.id
		WHERE s.file_path = ?
		ORDER BY u.id`, filePath)
}

func (c *Catalog) queryUnits(ctx context.Context, query string, args ...any) ([]*i18n.TranslationUnit, error) {
	rows, err := c.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying units: %w", err)
	}
	defer rows.Close()

	var units []*i18n.TranslationUnit
	for rows.Next() {
		var id, body string
		if err := rows.Scan(&id, &body); err != nil {
			return nil, fmt.Errorf("scanning unit: %w", err)
		}
		unit, err := decodeUnit(id, body)
		if err != nil {
			return nil, err
		}
		units = append(units, unit)
	}
	return units, rows.Err()
}

func decodeUnit(id, body string) (*i18n.TranslationUnit, error) {
	var unit i18n.TranslationUnit
	if err := yaml.Unmarshal([]byte(body), &unit); err != nil {
		return nil, fmt.Errorf("decoding unit %s: %w", id, err)
	}
	return &unit, nil
}

// SetTranslation stores the translation of unit id for locale.
func (c *Catalog) SetTranslation(ctx context.Context, id, locale, text string) error {
	var exists int
	err := c.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM units WHERE id = ?`, id).Scan(&exists)
	if err != nil {
		return fmt.Errorf("checking unit %s: %w", id, err)
	}
	if exists == 0 {
		return fmt.Errorf("%w: %s", ErrUnknownUnit, id)
	}
	_, err = c.db.ExecContext(ctx, `
		INSERT INTO translations (unit_id, locale, text) VALUES (?, ?, ?)
		ON CONFLICT(unit_id, locale) DO UPDATE SET text = excluded.text, updated_at = datetime('now')`,
		id, locale, text)
	if err != nil {
		return fmt.Errorf("saving translation of %s: %w", id, err)
	}
	return nil
}

// Translation returns the translation of unit id for locale. ok is false
// when the unit has not been translated to locale.
func (c *Catalog) Translation(ctx context.Context, id, locale string) (text string, ok bool, err error) {
	err = c.db.QueryRowContext(ctx,
		`SELECT text FROM translations WHERE unit_id = ? AND locale = ?`, id, locale).Scan(&text)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("reading translation of %s: %w", id, err)
	}
	return text, true, nil
}

// Untranslated returns the ids of units without a translation for locale, ordered by id.
func (c *Catalog) Untranslated(ctx context.Context, locale string) ([]string, error) {
	rows, err := c.db.QueryContext(ctx, `
		SELECT u.id FROM units u
		LEFT JOIN translations t ON t.unit_id = u.id AND t.locale = ?
		WHERE t.unit_id IS NULL
		ORDER BY u.id`, locale)
	if err != nil {
		return nil, fmt.Errorf("querying untranslated units: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scanning unit id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// Translations returns every translation stored for locale, keyed by unit id.
func (c *Catalog) Translations(ctx context.Context, locale string) (map[string]string, error) {
	rows, err := c.db.QueryContext(ctx,
		`SELECT unit_id, text FROM translations WHERE locale = ?`, locale)
	if err != nil {
		return nil, fmt.Errorf("querying translations: %w", err)
	}
	defer rows.Close()

	result := map[string]string{}
	for rows.Next() {
		var id, text string
		if err := rows.Scan(&id, &text); err != nil {
			return nil, fmt.Errorf("scanning translation: %w", err)
		}
		result[id] = text
	}
	return result, rows.Err()
}
