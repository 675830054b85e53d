package conform

import (
	"sort"
	"strings"

	"starforge/pkg/models"
)

// Products conforms raw CRM product rows: deduplicates by business ID,
// decomposes the raw product key into a category segment and product key,
// defaults missing costs to zero, standardizes the product line code, and
// derives each row's end date from its successor within the product key
// group. Output is ordered by ascending business ID.
//
// A negative cost is preserved as-is rather than corrected; the integrity
// validator reports it as a quality finding instead.
func Products(raw []models.RawProduct) []models.ProductRecord {
	type candidate struct {
		row models.RawProduct
		pos int
	}

	// Dedup by business ID. Products have no creation timestamp, so the
	// latest start date stands in as the temporal field; ties resolve to
	// the later raw input position.
	latest := make(map[int]candidate)
	for i, r := range raw {
		if r.ID == nil {
			continue
		}
		id := *r.ID
		cur, seen := latest[id]
		if !seen || newerProduct(r, i, cur.row, cur.pos) {
			latest[id] = candidate{row: r, pos: i}
		}
	}

	ids := make([]int, 0, len(latest))
	for id := range latest {
		ids = append(ids, id)
	}
	sort.Ints(ids)

	out := make([]models.ProductRecord, 0, len(ids))
	for _, id := range ids {
		r := latest[id].row
		categoryID, productKey := decomposeKey(strings.TrimSpace(r.Key))

		cost := 0.0
		if r.Cost != nil {
			cost = *r.Cost
		}

		rec := models.ProductRecord{
			ID:         id,
			CategoryID: categoryID,
			Key:        productKey,
			Name:       strings.TrimSpace(r.Name),
			Cost:       cost,
			Line:       ProductLineLabel(r.Line),
		}
		if r.StartDate != nil {
			rec.StartDate = *r.StartDate
		}
		out = append(out, rec)
	}

	deriveEndDates(out)
	return out
}

func newerProduct(a models.RawProduct, apos int, b models.RawProduct, bpos int) bool {
	at, bt := a.StartDate, b.StartDate
	switch {
	case at != nil && bt != nil && !at.Equal(*bt):
		return at.After(*bt)
	case at != nil && bt == nil:
		return true
	case at == nil && bt != nil:
		return false
	}
	return apos > bpos
}

// decomposeKey splits a raw product key into its 5-character category
// segment, with separators normalized to underscores, and the remaining
// product key past the separator.
func decomposeKey(key string) (categoryID, productKey string) {
	catLen := 5
	if len(key) < catLen {
		catLen = len(key)
	}
	categoryID = strings.ReplaceAll(key[:catLen], "-", "_")
	if len(key) >= 7 {
		productKey = key[6:]
	}
	return categoryID, productKey
}

// deriveEndDates computes each record's end date as the start date of the
// next record within the same product key group minus one day; the last
// record in a group keeps a nil end date. The derivation is an explicit
// ordered scan per group, never a global sort of the output slice.
func deriveEndDates(records []models.ProductRecord) {
	groups := make(map[string][]*models.ProductRecord)
	for i := range records {
		key := records[i].Key
		groups[key] = append(groups[key], &records[i])
	}

	for _, group := range groups {
		sort.SliceStable(group, func(i, j int) bool {
			if !group[i].StartDate.Equal(group[j].StartDate) {
				return group[i].StartDate.Before(group[j].StartDate)
			}
			return group[i].ID < group[j].ID
		})

		for i := 0; i < len(group)-1; i++ {
			end := group[i+1].StartDate.AddDate(0, 0, -1)
			group[i].EndDate = &end
		}
		group[len(group)-1].EndDate = nil
	}
}
