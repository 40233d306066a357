package assignment_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/logistics-console/internal/assignment"
	"github.com/spec-kit/logistics-console/internal/domain"
)

type fakeCatalog struct {
	entries map[string]assignment.CatalogEntry
	fail    map[string]error
}

func (f *fakeCatalog) DeliveryPointsFor(_ context.Context, companyID string) (assignment.CatalogEntry, error) {
	if err, ok := f.fail[companyID]; ok {
		return assignment.CatalogEntry{}, err
	}
	return f.entries[companyID], nil
}

func catalogFixture() *fakeCatalog {
	return &fakeCatalog{
		entries: map[string]assignment.CatalogEntry{
			"a": {
				CompanyID:   "a",
				CompanyName: "Alfa Logistics",
				Points: []domain.DeliveryPoint{
					{ID: "a1", CompanyID: "a", Name: "Alfa Norte"},
					{ID: "a2", CompanyID: "a", Name: "Alfa Sur"},
				},
			},
			"b": {
				CompanyID:   "b",
				CompanyName: "Beta Cargo",
				Points: []domain.DeliveryPoint{
					{ID: "b1", CompanyID: "b", Name: "Beta Centro"},
				},
			},
		},
		fail: map[string]error{},
	}
}

func TestRecompute_PreservesSelectionAndCatalogOrder(t *testing.T) {
	resolver := assignment.NewResolver(catalogFixture())

	avail := resolver.Recompute(context.Background(), []string{"b", "a"})
	require.Len(t, avail.Points, 3)
	assert.Equal(t, "b1", avail.Points[0].ID)
	assert.Equal(t, "a1", avail.Points[1].ID)
	assert.Equal(t, "a2", avail.Points[2].ID)
	assert.Equal(t, "Beta Cargo", avail.Points[0].CompanyName)
	assert.Equal(t, "Alfa Logistics", avail.Points[1].CompanyName)
	assert.Empty(t, avail.Failures)
}

func TestRecompute_DegradesFailedCompanyToEmpty(t *testing.T) {
	catalog := catalogFixture()
	catalog.fail["b"] = errors.New("catalog unavailable")
	resolver := assignment.NewResolver(catalog)

	avail := resolver.Recompute(context.Background(), []string{"a", "b"})
	require.Len(t, avail.Points, 2, "company a still contributes")
	require.Len(t, avail.Failures, 1)
	assert.Equal(t, "b", avail.Failures[0].CompanyID)
}

func TestRecompute_EmptySelection(t *testing.T) {
	resolver := assignment.NewResolver(catalogFixture())
	avail := resolver.Recompute(context.Background(), nil)
	assert.Empty(t, avail.Points)
	assert.Empty(t, avail.Failures)
}

func TestLatest_SupersededRecomputeIsStale(t *testing.T) {
	resolver := assignment.NewResolver(catalogFixture())

	first := resolver.Recompute(context.Background(), []string{"a"})
	second := resolver.Recompute(context.Background(), []string{"a", "b"})

	assert.False(t, resolver.Latest(first), "earlier result must be discarded")
	assert.True(t, resolver.Latest(second))
}

func TestPruneSelection_DropsUnavailablePoints(t *testing.T) {
	resolver := assignment.NewResolver(catalogFixture())

	// companies a and b selected, points from both checked
	avail := resolver.Recompute(context.Background(), []string{"a", "b"})
	selected := assignment.PruneSelection([]string{"a1", "b1"}, avail)
	assert.Equal(t, []string{"a1", "b1"}, selected)

	// deselect b: recompute + prune removes b's points
	avail = resolver.Recompute(context.Background(), []string{"a"})
	selected = assignment.PruneSelection(selected, avail)
	assert.Equal(t, []string{"a1"}, selected)

	// pruning invariant: every survivor's owner is still selected
	owners := avail.Owners()
	for _, id := range selected {
		assert.Equal(t, "a", owners[id])
	}
}

func TestPruneSelection_Empty(t *testing.T) {
	assert.Nil(t, assignment.PruneSelection(nil, assignment.Availability{}))
	assert.Nil(t, assignment.PruneSelection([]string{"ghost"}, assignment.Availability{}))
}
