package model

// CatalogItem is one booking as seen by a specific caller: the record
// plus the derived balance, payment state and the actions the caller
// may currently invoke. Built fresh on every request; nothing here is
// authoritative state.
type CatalogItem struct {
	Booking      Booking      `json:"booking"`
	BalanceCents int64        `json:"balance_cents"`
	PaymentState PaymentState `json:"payment_status"`
	Actions      []Action     `json:"actions"`
}

// CatalogCounts carries the tab badges: per-partition totals and a
// per-status breakdown across all of the caller's bookings. Counts are
// taken before the status filter is applied so the badges stay stable
// while switching tabs.
type CatalogCounts struct {
	AsOrganizer int            `json:"as_organizer"`
	AsVendor    int            `json:"as_vendor"`
	ByStatus    map[Status]int `json:"by_status"`
}

// Catalog is the role-partitioned, status-filtered view over a
// caller's bookings. A booking lands in exactly one partition for a
// given caller, except when the same user occupies both roles, in
// which case it appears in both.
type Catalog struct {
	AsOrganizer []CatalogItem `json:"as_organizer"`
	AsVendor    []CatalogItem `json:"as_vendor"`
	Counts      CatalogCounts `json:"counts"`
}

// BuildCatalog derives the caller's catalog view from a collection of
// bookings. statusFilter narrows the item lists to an exact status
// match; the empty string means all. Bookings unrelated to the caller
// are skipped entirely.
func BuildCatalog(bookings []Booking, callerID uint64, statusFilter Status) Catalog {
	cat := Catalog{
		AsOrganizer: []CatalogItem{},
		AsVendor:    []CatalogItem{},
		Counts:      CatalogCounts{ByStatus: map[Status]int{}},
	}
	for i := range bookings {
		b := bookings[i]
		isOrganizer := b.OrganizerID == callerID
		isVendor := b.VendorID == callerID
		if !isOrganizer && !isVendor {
			continue
		}
		if isOrganizer {
			cat.Counts.AsOrganizer++
		}
		if isVendor {
			cat.Counts.AsVendor++
		}
		cat.Counts.ByStatus[b.Status]++
		if statusFilter != "" && b.Status != statusFilter {
			continue
		}
		item := CatalogItem{
			Booking:      b,
			BalanceCents: b.BalanceCents(),
			PaymentState: b.PaymentState(),
			Actions:      AllowedActions(&b, callerID),
		}
		if isOrganizer {
			cat.AsOrganizer = append(cat.AsOrganizer, item)
		}
		if isVendor {
			cat.AsVendor = append(cat.AsVendor, item)
		}
	}
	return cat
}
