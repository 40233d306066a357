package assignment

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/spec-kit/logistics-console/internal/domain"
)

// CatalogEntry is one company's delivery-point contribution.
type CatalogEntry struct {
	CompanyID   string
	CompanyName string
	Points      []domain.DeliveryPoint
}

// CompanyCatalog is the injected capability the resolver reads
// delivery points through. Lookups may fail per company.
type CompanyCatalog interface {
	DeliveryPointsFor(ctx context.Context, companyID string) (CatalogEntry, error)
}

// DeliveryPointOption is an assignable delivery point tagged with its
// owning company.
type DeliveryPointOption struct {
	ID          string
	Name        string
	CompanyID   string
	CompanyName string
}

// LookupFailure records a company whose catalog lookup failed. Its
// contribution degrades to empty for the cycle instead of aborting it.
type LookupFailure struct {
	CompanyID string
	Err       error
}

// Availability is the candidate pool produced by one recompute cycle.
type Availability struct {
	Generation uint64
	Points     []DeliveryPointOption
	Failures   []LookupFailure
}

// Owners derives the delivery-point ownership map from the pool.
func (a Availability) Owners() DeliveryPointOwners {
	owners := make(DeliveryPointOwners, len(a.Points))
	for _, p := range a.Points {
		owners[p.ID] = p.CompanyID
	}
	return owners
}

// Resolver keeps the delivery-point candidate pool consistent with the
// company selection. Each recompute is tagged with a generation so
// callers can discard results superseded by a newer selection change.
type Resolver struct {
	catalog CompanyCatalog
	gen     atomic.Uint64
}

// NewResolver builds a resolver over the given catalog.
func NewResolver(catalog CompanyCatalog) *Resolver {
	return &Resolver{catalog: catalog}
}

// Recompute fetches the delivery points of every selected company.
// Per-company lookups run concurrently and are joined before
// returning; the result preserves company selection order, then the
// catalog's own order within each company.
func (r *Resolver) Recompute(ctx context.Context, companyIDs []string) Availability {
	avail := Availability{Generation: r.gen.Add(1)}
	if len(companyIDs) == 0 {
		return avail
	}

	entries := make([]CatalogEntry, len(companyIDs))
	failures := make([]error, len(companyIDs))

	var wg sync.WaitGroup
	for i, companyID := range companyIDs {
		wg.Add(1)
		go func(slot int, id string) {
			defer wg.Done()
			entry, err := r.catalog.DeliveryPointsFor(ctx, id)
			if err != nil {
				failures[slot] = err
				return
			}
			entries[slot] = entry
		}(i, companyID)
	}
	wg.Wait()

	for i, companyID := range companyIDs {
		if failures[i] != nil {
			avail.Failures = append(avail.Failures, LookupFailure{CompanyID: companyID, Err: failures[i]})
			continue
		}
		for _, point := range entries[i].Points {
			avail.Points = append(avail.Points, DeliveryPointOption{
				ID:          point.ID,
				Name:        point.Name,
				CompanyID:   entries[i].CompanyID,
				CompanyName: entries[i].CompanyName,
			})
		}
	}
	return avail
}

// Latest reports whether the availability is from the most recent
// recompute. Stale results must be discarded, never merged.
func (r *Resolver) Latest(a Availability) bool {
	return a.Generation == r.gen.Load()
}

// PruneSelection returns the subset of the current delivery-point
// selection that is still available; everything else is silently
// dropped. Runs after every recompute so the replacement is atomic
// from the caller's point of view.
func PruneSelection(currentIDs []string, avail Availability) []string {
	if len(currentIDs) == 0 {
		return nil
	}
	available := make(map[string]struct{}, len(avail.Points))
	for _, p := range avail.Points {
		available[p.ID] = struct{}{}
	}
	var pruned []string
	for _, id := range currentIDs {
		if _, ok := available[id]; ok {
			pruned = append(pruned, id)
		}
	}
	return pruned
}
