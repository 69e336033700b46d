// Copyright 2026 The Altrium Authors
// SPDX-License-Identifier: Apache-2.0

package credential

// Filter selects a slice of a fetched credential snapshot by status.
// Filtering is a view concern over one snapshot — it never maps to a
// server-side query parameter.
type Filter int

const (
	// FilterAll passes every record through.
	FilterAll Filter = iota
	// FilterPending keeps only PENDING records.
	FilterPending
	// FilterApproved keeps only APPROVED records.
	FilterApproved
	// FilterRejected keeps only REJECTED records.
	FilterRejected
)

// Filters lists all filters in tab order.
var Filters = []Filter{FilterAll, FilterPending, FilterApproved, FilterRejected}

// FilterFor returns the filter matching exactly the given status.
func FilterFor(status Status) Filter {
	switch status {
	case StatusPending:
		return FilterPending
	case StatusApproved:
		return FilterApproved
	case StatusRejected:
		return FilterRejected
	default:
		return FilterAll
	}
}

// String returns the display label.
func (f Filter) String() string {
	switch f {
	case FilterPending:
		return "PENDING"
	case FilterApproved:
		return "APPROVED"
	case FilterRejected:
		return "REJECTED"
	default:
		return "ALL"
	}
}

// Matches reports whether a record of the given status passes f.
func (f Filter) Matches(status Status) bool {
	switch f {
	case FilterPending:
		return status == StatusPending
	case FilterApproved:
		return status == StatusApproved
	case FilterRejected:
		return status == StatusRejected
	default:
		return true
	}
}

// Partition returns the records passing f, preserving order. The input
// slice is never modified; FilterAll still returns a copy so callers
// can sort or truncate the result freely.
func Partition(records []Credential, f Filter) []Credential {
	out := make([]Credential, 0, len(records))
	for _, record := range records {
		if f.Matches(record.Status) {
			out = append(out, record)
		}
	}
	return out
}

// Stats are the derived counts over one snapshot. They are recomputed
// from the snapshot on every change and never fetched or cached.
type Stats struct {
	Total    int
	Pending  int
	Approved int
	Rejected int
}

// Tally computes Stats for a snapshot.
func Tally(records []Credential) Stats {
	stats := Stats{Total: len(records)}
	for _, record := range records {
		switch record.Status {
		case StatusPending:
			stats.Pending++
		case StatusApproved:
			stats.Approved++
		case StatusRejected:
			stats.Rejected++
		}
	}
	return stats
}
