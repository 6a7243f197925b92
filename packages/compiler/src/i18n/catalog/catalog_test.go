package catalog_test

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ngc-template/packages/compiler/src/i18n"
	"ngc-template/packages/compiler/src/i18n/catalog"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")
	db, err := sql.Open("sqlite", dbPath)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func openTestCatalog(t *testing.T) *catalog.Catalog {
	t.Helper()
	c, err := catalog.Open(filepath.Join(t.TempDir(), "messages.db"))
	require.NoError(t, err)
	t.Cleanup(func() { c.Close() })
	return c
}

func unit(id, text, file string) *i18n.TranslationUnit {
	return &i18n.TranslationUnit{
		ID:       id,
		Sources:  []i18n.MessageSpan{{FilePath: file, StartLine: 1, StartCol: 1, EndLine: 1, EndCol: 1}},
		Segments: []i18n.Segment{{Kind: i18n.SegmentText, Text: text}},
	}
}

func TestMigrate_AppliesAllMigrations(t *testing.T) {
	db := openTestDB(t)
	require.NoError(t, catalog.Migrate(db))

	var version int
	require.NoError(t, db.QueryRow(`SELECT version FROM schema_version`).Scan(&version))
	assert.Equal(t, len(catalog.All), version)

	for _, table := range []string{"units", "unit_sources", "translations"} {
		var name string
		err := db.QueryRow(`SELECT name FROM sqlite_master WHERE type='table' AND name=?`, table).Scan(&name)
		require.NoError(t, err, table)
	}
}

func TestMigrate_IsIdempotent(t *testing.T) {
	db := openTestDB(t)
	require.NoError(t, catalog.Migrate(db))
	require.NoError(t, catalog.Migrate(db))

	var count int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM schema_version`).Scan(&count))
	assert.Equal(t, 1, count)
}

func TestMigrate_RunsPendingMigrations(t *testing.T) {
	origAll := catalog.All
	defer func() { catalog.All = origAll }()

	db := openTestDB(t)
	catalog.All = origAll[:1]
	require.NoError(t, catalog.Migrate(db))

	catalog.All = origAll
	require.NoError(t, catalog.Migrate(db))

	var version int
	require.NoError(t, db.QueryRow(`SELECT version FROM schema_version`).Scan(&version))
	assert.Equal(t, len(origAll), version)
}

func TestCatalog_SaveAndReadUnits(t *testing.T) {
	ctx := context.Background()
	c := openTestCatalog(t)

	require.NoError(t, c.SaveUnits(ctx, []*i18n.TranslationUnit{
		unit("2", "Bye", "b.html"),
		unit("1", "Hello", "a.html"),
	}))

	units, err := c.Units(ctx)
	require.NoError(t, err)
	require.Len(t, units, 2)
	assert.Equal(t, "1", units[0].ID)
	assert.Equal(t, "Hello", units[0].Text())
	assert.Equal(t, "a.html", units[0].Sources[0].FilePath)

	got, err := c.Unit(ctx, "2")
	require.NoError(t, err)
	assert.Equal(t, unit("2", "Bye", "b.html"), got)

	_, err = c.Unit(ctx, "3")
	assert.ErrorIs(t, err, catalog.ErrUnknownUnit)
}

func TestCatalog_SaveReplacesUnitsAndSources(t *testing.T) {
	ctx := context.Background()
	c := openTestCatalog(t)

	require.NoError(t, c.SaveUnits(ctx, []*i18n.TranslationUnit{unit("1", "Hello", "a.html")}))
	require.NoError(t, c.SaveUnits(ctx, []*i18n.TranslationUnit{unit("1", "Hello!", "b.html")}))

	units, err := c.Units(ctx)
	require.NoError(t, err)
	require.Len(t, units, 1)
	assert.Equal(t, "Hello!", units[0].Text())

	fromA, err := c.UnitsForFile(ctx, "a.html")
	require.NoError(t, err)
	assert.Empty(t, fromA)

	fromB, err := c.UnitsForFile(ctx, "b.html")
	require.NoError(t, err)
	require.Len(t, fromB, 1)
	assert.Equal(t, "1", fromB[0].ID)
}

func TestCatalog_Translations(t *testing.T) {
	ctx := context.Background()
	c := openTestCatalog(t)
	require.NoError(t, c.SaveUnits(ctx, []*i18n.TranslationUnit{
		unit("1", "Hello", "a.html"),
		unit("2", "Bye", "a.html"),
	}))

	_, ok, err := c.Translation(ctx, "1", "fr")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, c.SetTranslation(ctx, "1", "fr", "Bonjour"))
	require.NoError(t, c.SetTranslation(ctx, "1", "fr", "Salut"))

	text, ok, err := c.Translation(ctx, "1", "fr")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "Salut", text)

	untranslated, err := c.Untranslated(ctx, "fr")
	require.NoError(t, err)
	assert.Equal(t, []string{"2"}, untranslated)

	all, err := c.Translations(ctx, "fr")
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"1": "Salut"}, all)

	err = c.SetTranslation(ctx, "9", "fr", "?")
	assert.ErrorIs(t, err, catalog.ErrUnknownUnit)
}

func TestCatalog_KeepsTranslationsWhenUnitsAreSavedAgain(t *testing.T) {
	ctx := context.Background()
	c := openTestCatalog(t)
	require.NoError(t, c.SaveUnits(ctx, []*i18n.TranslationUnit{unit("1", "Hello", "a.html")}))
	require.NoError(t, c.SetTranslation(ctx, "1", "de", "Hallo"))
	require.NoError(t, c.SaveUnits(ctx, []*i18n.TranslationUnit{unit("1", "Hello", "a.html")}))

	text, ok, err := c.Translation(ctx, "1", "de")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "Hallo", text)
}
