package conform

import (
	"sort"
	"strings"
	"time"

	"starforge/pkg/models"
)

// Customers conforms raw CRM customer rows: trims text fields, standardizes
// marital status and gender codes, and deduplicates by business ID keeping
// the record with the latest creation timestamp. When two candidates carry
// the same timestamp the one appearing later in the raw input wins, so the
// result is deterministic for any input ordering the bulk load produces.
// Rows without a business ID are dropped; they cannot be keyed. Output is
// ordered by ascending business ID.
func Customers(raw []models.RawCustomer) []models.CustomerRecord {
	type candidate struct {
		row models.RawCustomer
		pos int
	}

	latest := make(map[int]candidate)
	for i, r := range raw {
		if r.ID == nil {
			continue
		}
		id := *r.ID
		cur, seen := latest[id]
		if !seen || newerCustomer(r, i, cur.row, cur.pos) {
			latest[id] = candidate{row: r, pos: i}
		}
	}

	ids := make([]int, 0, len(latest))
	for id := range latest {
		ids = append(ids, id)
	}
	sort.Ints(ids)

	out := make([]models.CustomerRecord, 0, len(ids))
	for _, id := range ids {
		r := latest[id].row
		out = append(out, models.CustomerRecord{
			ID:            id,
			Key:           strings.TrimSpace(r.Key),
			FirstName:     strings.TrimSpace(r.FirstName),
			LastName:      strings.TrimSpace(r.LastName),
			MaritalStatus: MaritalStatusLabel(r.MaritalStatus),
			Gender:        GenderLabel(r.Gender),
			CreatedAt:     createdAt(r),
		})
	}
	return out
}

// newerCustomer reports whether row a at position apos supersedes row b at
// position bpos within a business ID group.
func newerCustomer(a models.RawCustomer, apos int, b models.RawCustomer, bpos int) bool {
	at, bt := createdAt(a), createdAt(b)
	if !at.Equal(bt) {
		return at.After(bt)
	}
	return apos > bpos
}

// createdAt treats a missing creation timestamp as the zero time, which
// always loses deduplication against a dated record.
func createdAt(r models.RawCustomer) time.Time {
	if r.CreatedAt == nil {
		return time.Time{}
	}
	return *r.CreatedAt
}
