package assignment

// Selection is the assignment set under construction: company ids in
// insertion order and the delivery-point ids chosen from them. Both
// sets are duplicate-free.
type Selection struct {
	CompanyIDs       []string
	DeliveryPointIDs []string
}

// DeliveryPointOwners maps a delivery-point id to its owning company id.
type DeliveryPointOwners map[string]string

// SelectCompany adds a company to the selection. Under a
// single-company policy the new id replaces the current one instead of
// appending. Selecting an already-selected company is a no-op.
func (s Selection) SelectCompany(req Requirement, companyID string) Selection {
	out := s.clone()
	for _, id := range out.CompanyIDs {
		if id == companyID {
			return out
		}
	}
	if !req.MultipleCompanies && len(out.CompanyIDs) > 0 {
		out.CompanyIDs = []string{companyID}
		return out
	}
	out.CompanyIDs = append(out.CompanyIDs, companyID)
	return out
}

// DeselectCompany removes a company and evicts the delivery points it
// owned, so no dangling delivery-point id survives the shrink.
func (s Selection) DeselectCompany(companyID string, owners DeliveryPointOwners) Selection {
	out := s.clone()
	kept := out.CompanyIDs[:0]
	for _, id := range out.CompanyIDs {
		if id != companyID {
			kept = append(kept, id)
		}
	}
	out.CompanyIDs = kept
	out.evictOrphanedDeliveryPoints(owners)
	return out
}

// SelectDeliveryPoint adds a delivery point when its owner is part of
// the current company selection; otherwise the selection is unchanged.
func (s Selection) SelectDeliveryPoint(deliveryPointID string, owners DeliveryPointOwners) Selection {
	out := s.clone()
	owner, known := owners[deliveryPointID]
	if !known || !out.hasCompany(owner) {
		return out
	}
	for _, id := range out.DeliveryPointIDs {
		if id == deliveryPointID {
			return out
		}
	}
	out.DeliveryPointIDs = append(out.DeliveryPointIDs, deliveryPointID)
	return out
}

func (s Selection) hasCompany(companyID string) bool {
	for _, id := range s.CompanyIDs {
		if id == companyID {
			return true
		}
	}
	return false
}

func (s Selection) clone() Selection {
	out := Selection{}
	if len(s.CompanyIDs) > 0 {
		out.CompanyIDs = append([]string{}, s.CompanyIDs...)
	}
	if len(s.DeliveryPointIDs) > 0 {
		out.DeliveryPointIDs = append([]string{}, s.DeliveryPointIDs...)
	}
	return out
}

// evictOrphanedDeliveryPoints drops delivery points whose owning
// company is no longer selected. Points with an unknown owner are
// dropped too; availability is recomputed before they can reappear.
func (s *Selection) evictOrphanedDeliveryPoints(owners DeliveryPointOwners) {
	kept := s.DeliveryPointIDs[:0]
	for _, id := range s.DeliveryPointIDs {
		owner, known := owners[id]
		if known && s.hasCompany(owner) {
			kept = append(kept, id)
		}
	}
	if len(kept) == 0 {
		s.DeliveryPointIDs = nil
		return
	}
	s.DeliveryPointIDs = kept
}
