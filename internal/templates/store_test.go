package templates

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"soa-reconciliation-service/internal/models"
	"soa-reconciliation-service/pkg/errors"
)

func createTestTemplate() *Template {
	return &Template{
		Name:            "monthly-close",
		SOAFile:         "soa.xlsx",
		SOADateColumn:   "Invoice Date",
		SOAAmountColumn: "Amount",
		Sources: []SourceConfig{
			{
				Name:         "ledger",
				File:         "ledger.csv",
				AmountColumn: "Total",
				Mappings: []models.FieldMapping{
					{SOAColumn: "Invoice No", RefColumn: "InvoiceNumber", Mode: models.MatchModeFuzzy, Threshold: 0.9},
				},
			},
		},
	}
}

func TestStoreSaveLoadRoundTrip(t *testing.T) {
	store, err := NewStore(t.TempDir())
	require.NoError(t, err)

	original := createTestTemplate()
	require.NoError(t, store.Save(original))
	assert.False(t, original.CreatedAt.IsZero(), "save must stamp created_at")

	loaded, err := store.Load("monthly-close")
	require.NoError(t, err)

	assert.Equal(t, original.Name, loaded.Name)
	assert.Equal(t, original.SOADateColumn, loaded.SOADateColumn)
	require.Len(t, loaded.Sources, 1)
	assert.Equal(t, "ledger", loaded.Sources[0].Name)
	require.Len(t, loaded.Sources[0].Mappings, 1)
	assert.Equal(t, models.MatchModeFuzzy, loaded.Sources[0].Mappings[0].Mode)
	assert.Equal(t, 0.9, loaded.Sources[0].Mappings[0].Threshold)
}

func TestStoreSaveOverwrites(t *testing.T) {
	store, err := NewStore(t.TempDir())
	require.NoError(t, err)

	tmpl := createTestTemplate()
	require.NoError(t, store.Save(tmpl))
	created := tmpl.CreatedAt

	tmpl.SOAAmountColumn = "Gross"
	require.NoError(t, store.Save(tmpl))

	loaded, err := store.Load("monthly-close")
	require.NoError(t, err)
	assert.Equal(t, "Gross", loaded.SOAAmountColumn)
	assert.True(t, loaded.CreatedAt.Equal(created), "created_at must survive overwrites")
}

func TestStoreSaveRejectsInvalid(t *testing.T) {
	store, err := NewStore(t.TempDir())
	require.NoError(t, err)

	err = store.Save(&Template{Name: "bad"})
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.CodeTemplateInvalid))

	err = store.Save(&Template{
		Name:    "bad-mapping",
		Sources: []SourceConfig{{Name: "s", File: "f.csv", Mappings: []models.FieldMapping{{}}}},
	})
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.CodeTemplateInvalid))
}

func TestStoreLoadMissing(t *testing.T) {
	store, err := NewStore(t.TempDir())
	require.NoError(t, err)

	_, err = store.Load("absent")
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.CodeTemplateNotFound))
}

func TestStoreLoadCorrupted(t *testing.T) {
	dir := t.TempDir()
	store, err := NewStore(dir)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "broken.yaml"), []byte("{not yaml"), 0o644))

	_, err = store.Load("broken")
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.CodeTemplateInvalid))
}

func TestStoreListSorted(t *testing.T) {
	store, err := NewStore(t.TempDir())
	require.NoError(t, err)

	for _, name := range []string{"zeta", "alpha", "mid"} {
		tmpl := createTestTemplate()
		tmpl.Name = name
		require.NoError(t, store.Save(tmpl))
	}

	names, err := store.List()
	require.NoError(t, err)
	assert.Equal(t, []string{"alpha", "mid", "zeta"}, names)
}

func TestStoreDelete(t *testing.T) {
	store, err := NewStore(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, store.Save(createTestTemplate()))
	require.NoError(t, store.Delete("monthly-close"))

	_, err = store.Load("monthly-close")
	assert.True(t, errors.IsCode(err, errors.CodeTemplateNotFound))

	err = store.Delete("monthly-close")
	assert.True(t, errors.IsCode(err, errors.CodeTemplateNotFound))
}
