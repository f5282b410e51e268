package category

import (
	"fmt"
	"math"
	"strings"

	"github.com/izerwaren/dealerapi/pkg/errors"
)

// DefaultFilterColumn is the catalog column owner category filters are built against
const DefaultFilterColumn = "category_name"

// Summary describes how much of the owner category list is backed by catalog data
type Summary struct {
	TotalMappedCategories      int
	TotalMappedProducts        int
	MappingCoverage            float64
	AverageProductsPerCategory int
}

// Service answers lookups over an immutable mapping table.
// It is safe for concurrent use; nothing mutates it after NewService returns.
type Service struct {
	mappings     []Mapping
	byOwner      map[string]int
	ownerByDB    map[string]string
	filterColumn string
}

// NewService validates the table and builds the lookup indexes
func NewService(mappings []Mapping, filterColumn string) (*Service, error) {
	if filterColumn == "" {
		filterColumn = DefaultFilterColumn
	}

	s := &Service{
		mappings:     make([]Mapping, 0, len(mappings)),
		byOwner:      make(map[string]int, len(mappings)),
		ownerByDB:    make(map[string]string),
		filterColumn: filterColumn,
	}

	for _, m := range mappings {
		if strings.TrimSpace(m.OwnerCategory) == "" {
			return nil, &errors.ErrConfiguration{Component: "category mapping", Message: "owner category name is empty"}
		}
		if _, exists := s.byOwner[m.OwnerCategory]; exists {
			return nil, &errors.ErrConfiguration{
				Component: "category mapping",
				Message:   fmt.Sprintf("duplicate owner category %q", m.OwnerCategory),
			}
		}
		if m.ProductCount < 0 {
			return nil, &errors.ErrConfiguration{
				Component: "category mapping",
				Message:   fmt.Sprintf("owner category %q has negative product count", m.OwnerCategory),
			}
		}

		seen := make(map[string]struct{}, len(m.DBCategories))
		for _, db := range m.DBCategories {
			if _, dup := seen[db]; dup {
				return nil, &errors.ErrConfiguration{
					Component: "category mapping",
					Message:   fmt.Sprintf("db category %q listed twice under %q", db, m.OwnerCategory),
				}
			}
			seen[db] = struct{}{}

			if owner, taken := s.ownerByDB[db]; taken {
				return nil, &errors.ErrConfiguration{
					Component: "category mapping",
					Message:   fmt.Sprintf("db category %q mapped to both %q and %q", db, owner, m.OwnerCategory),
				}
			}
			s.ownerByDB[db] = m.OwnerCategory
		}

		s.byOwner[m.OwnerCategory] = len(s.mappings)
		s.mappings = append(s.mappings, m.clone())
	}

	return s, nil
}

// GetDbCategoriesForOwner returns the db categories of an owner category, empty when unmapped
func (s *Service) GetDbCategoriesForOwner(ownerCategory string) []string {
	idx, ok := s.byOwner[ownerCategory]
	if !ok {
		return []string{}
	}
	return append([]string{}, s.mappings[idx].DBCategories...)
}

// MapDbCategoryToOwner is the reverse lookup. ok is false when no mapping claims dbCategory.
func (s *Service) MapDbCategoryToOwner(dbCategory string) (owner string, ok bool) {
	owner, ok = s.ownerByDB[dbCategory]
	return owner, ok
}

// IsCategoryMapped reports whether the owner category exists and has db categories
func (s *Service) IsCategoryMapped(ownerCategory string) bool {
	idx, ok := s.byOwner[ownerCategory]
	return ok && s.mappings[idx].Mapped()
}

// GetOwnerCategoryDetails returns a copy of the mapping record, nil for unknown input
func (s *Service) GetOwnerCategoryDetails(ownerCategory string) *Mapping {
	idx, ok := s.byOwner[ownerCategory]
	if !ok {
		return nil
	}
	m := s.mappings[idx].clone()
	return &m
}

// OwnerCategories lists every owner category in table order
func (s *Service) OwnerCategories() []Mapping {
	out := make([]Mapping, len(s.mappings))
	for i, m := range s.mappings {
		out[i] = m.clone()
	}
	return out
}

// GenerateOwnerCategoryFilter builds a predicate such as category_name IN ('a','b').
// The result is embedded verbatim in SQL, so values are quoted with single quotes doubled.
func (s *Service) GenerateOwnerCategoryFilter(ownerCategory string) string {
	dbCategories := s.GetDbCategoriesForOwner(ownerCategory)
	if len(dbCategories) == 0 {
		return ""
	}

	quoted := make([]string, len(dbCategories))
	for i, db := range dbCategories {
		quoted[i] = "'" + strings.ReplaceAll(db, "'", "''") + "'"
	}
	return fmt.Sprintf("%s IN (%s)", s.filterColumn, strings.Join(quoted, ","))
}

// GetMappingSummary computes coverage statistics over the table
func (s *Service) GetMappingSummary() Summary {
	var summary Summary
	for _, m := range s.mappings {
		if !m.Mapped() {
			continue
		}
		summary.TotalMappedCategories++
		summary.TotalMappedProducts += m.ProductCount
	}

	if total := len(s.mappings); total > 0 {
		coverage := 100 * float64(summary.TotalMappedCategories) / float64(total)
		summary.MappingCoverage = math.Round(coverage*100) / 100
	}
	if summary.TotalMappedCategories > 0 {
		avg := float64(summary.TotalMappedProducts) / float64(summary.TotalMappedCategories)
		summary.AverageProductsPerCategory = int(math.Round(avg))
	}

	return summary
}
