package category

import (
	"os"
	"path/filepath"
	"testing"

	stderrors "errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/izerwaren/dealerapi/pkg/errors"
)

func newDefaultService(t *testing.T) *Service {
	t.Helper()
	svc, err := NewService(DefaultMappings(), "")
	require.NoError(t, err)
	return svc
}

func TestDefaultTableLoads(t *testing.T) {
	svc := newDefaultService(t)
	assert.Len(t, svc.OwnerCategories(), len(DefaultMappings()))
}

func TestReverseLookupInvertsForwardLookup(t *testing.T) {
	svc := newDefaultService(t)

	for _, m := range svc.OwnerCategories() {
		for _, db := range svc.GetDbCategoriesForOwner(m.OwnerCategory) {
			owner, ok := svc.MapDbCategoryToOwner(db)
			require.True(t, ok, db)
			assert.Equal(t, m.OwnerCategory, owner)
		}
	}
}

func TestUnknownCategories(t *testing.T) {
	svc := newDefaultService(t)

	assert.Empty(t, svc.GetDbCategoriesForOwner("Anchors"))
	assert.NotNil(t, svc.GetDbCategoriesForOwner("Anchors"))
	assert.Nil(t, svc.GetOwnerCategoryDetails("Anchors"))
	assert.False(t, svc.IsCategoryMapped("Anchors"))
	assert.Equal(t, "", svc.GenerateOwnerCategoryFilter("Anchors"))

	_, ok := svc.MapDbCategoryToOwner("Anchor Chains")
	assert.False(t, ok)
}

func TestUnmappedOwnerCategory(t *testing.T) {
	svc := newDefaultService(t)

	details := svc.GetOwnerCategoryDetails("Cabinet Hardware")
	require.NotNil(t, details)
	assert.False(t, svc.IsCategoryMapped("Cabinet Hardware"))
	assert.Equal(t, "", svc.GenerateOwnerCategoryFilter("Cabinet Hardware"))
}

func TestDetailsAreCopies(t *testing.T) {
	svc := newDefaultService(t)

	details := svc.GetOwnerCategoryDetails("Hinges")
	require.NotNil(t, details)
	details.DBCategories[0] = "changed"

	dbs := svc.GetDbCategoriesForOwner("Hinges")
	dbs[1] = "changed too"

	assert.Equal(t, []string{"Concealed Hinges", "Butt Hinges", "Piano Hinges"}, svc.GetDbCategoriesForOwner("Hinges"))
}

func TestGenerateOwnerCategoryFilter(t *testing.T) {
	svc, err := NewService([]Mapping{
		{OwnerCategory: "Hinges", DBCategories: []string{"Butt Hinges", "Piano Hinges"}, ProductCount: 3},
		{OwnerCategory: "Misc", DBCategories: []string{"Owner's Choice", "It''s"}, ProductCount: 1},
	}, "")
	require.NoError(t, err)

	assert.Equal(t, "category_name IN ('Butt Hinges','Piano Hinges')", svc.GenerateOwnerCategoryFilter("Hinges"))
	assert.Equal(t, "category_name IN ('Owner''s Choice','It''''s')", svc.GenerateOwnerCategoryFilter("Misc"))
}

func TestGenerateOwnerCategoryFilterCustomColumn(t *testing.T) {
	svc, err := NewService([]Mapping{{OwnerCategory: "Hinges", DBCategories: []string{"Butt Hinges"}}}, "cv.category_name")
	require.NoError(t, err)

	assert.Equal(t, "cv.category_name IN ('Butt Hinges')", svc.GenerateOwnerCategoryFilter("Hinges"))
}

func TestGetMappingSummary(t *testing.T) {
	svc, err := NewService([]Mapping{
		{OwnerCategory: "A", DBCategories: []string{"a1", "a2"}, ProductCount: 10},
		{OwnerCategory: "B", DBCategories: []string{"b1"}, ProductCount: 5},
		{OwnerCategory: "C"},
	}, "")
	require.NoError(t, err)

	summary := svc.GetMappingSummary()
	assert.Equal(t, 2, summary.TotalMappedCategories)
	assert.Equal(t, 15, summary.TotalMappedProducts)
	assert.Equal(t, 66.67, summary.MappingCoverage)
	assert.Equal(t, 8, summary.AverageProductsPerCategory)
}

func TestGetMappingSummaryEmptyTable(t *testing.T) {
	svc, err := NewService(nil, "")
	require.NoError(t, err)

	summary := svc.GetMappingSummary()
	assert.Equal(t, Summary{}, summary)
	assert.Equal(t, 0.0, summary.MappingCoverage)
}

func TestNewServiceRejectsInconsistentTables(t *testing.T) {
	tests := []struct {
		name     string
		mappings []Mapping
	}{
		{
			name: "duplicate owner",
			mappings: []Mapping{
				{OwnerCategory: "A", DBCategories: []string{"a"}},
				{OwnerCategory: "A", DBCategories: []string{"b"}},
			},
		},
		{
			name:     "duplicate db category within mapping",
			mappings: []Mapping{{OwnerCategory: "A", DBCategories: []string{"a", "a"}}},
		},
		{
			name: "db category shared by two owners",
			mappings: []Mapping{
				{OwnerCategory: "A", DBCategories: []string{"x"}},
				{OwnerCategory: "B", DBCategories: []string{"x"}},
			},
		},
		{
			name:     "empty owner",
			mappings: []Mapping{{OwnerCategory: "  "}},
		},
		{
			name:     "negative product count",
			mappings: []Mapping{{OwnerCategory: "A", ProductCount: -1}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewService(tt.mappings, "")
			var cfgErr *errors.ErrConfiguration
			assert.True(t, stderrors.As(err, &cfgErr), "got %v", err)
		})
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "categories.yaml")
	content := `
mappings:
  - owner_category: Hinges
    db_categories: ["Butt Hinges", "Piano Hinges"]
    product_count: 12
    description: Stainless hinges
  - owner_category: Cabinet Hardware
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	mappings, err := LoadFile(path)
	require.NoError(t, err)
	require.Len(t, mappings, 2)
	assert.Equal(t, "Hinges", mappings[0].OwnerCategory)
	assert.Equal(t, []string{"Butt Hinges", "Piano Hinges"}, mappings[0].DBCategories)
	assert.Equal(t, 12, mappings[0].ProductCount)
	require.NotNil(t, mappings[0].Description)
	assert.Equal(t, "Stainless hinges", *mappings[0].Description)
	assert.False(t, mappings[1].Mapped())
}

func TestLoadFileMissing(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
