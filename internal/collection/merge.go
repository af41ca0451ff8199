package collection

// MergeStats counts what a merge did.
type MergeStats struct {
	// Added is the number of incoming rows present in the result.
	Added int
	// Rejected is the number of incoming rows dropped, either because their
	// identity key was already present or because their title was invalid.
	Rejected int
	// Removed is the number of existing rows dropped by cleanup.
	Removed int
}

// Merge computes the next state of a dataset from its current rows and a
// batch of newly normalized rows.
//
// Existing rows keep their order and always come first. Incoming rows whose
// identity key is already present are rejected, so existing rows win ties;
// the rest are appended in their original order. Finally every row with an
// invalid title is dropped from the whole result. Cleanup also drops later
// repeats of an identity key that an older pipeline already persisted; this
// is the one case where an existing row with a valid title is removed, and
// the first occurrence is the one kept. Rows whose release id does not parse
// have no identity key and are only subject to the title rule.
//
// Merge is deterministic and never reorders rows.
func Merge(existing Dataset, incoming []Row) (Dataset, MergeStats) {
	seen := make(map[Key]struct{}, len(existing.Rows)+len(incoming))
	for _, r := range existing.Rows {
		if k, ok := r.Key(); ok {
			seen[k] = struct{}{}
		}
	}

	var stats MergeStats

	combined := make([]Row, 0, len(existing.Rows)+len(incoming))
	combined = append(combined, existing.Rows...)
	for _, r := range incoming {
		if k, ok := r.Key(); ok {
			if _, dup := seen[k]; dup {
				stats.Rejected++
				continue
			}
			seen[k] = struct{}{}
		}
		combined = append(combined, r)
	}

	rows, kept := cleanup(combined)
	for i, keep := range kept {
		switch {
		case i < len(existing.Rows) && !keep:
			stats.Removed++
		case i >= len(existing.Rows) && keep:
			stats.Added++
		case i >= len(existing.Rows) && !keep:
			stats.Rejected++
		}
	}

	return Dataset{
		Rows:         rows,
		ExtraColumns: existing.ExtraColumns,
		Backfilled:   existing.Backfilled,
	}, stats
}

// cleanup drops rows with an invalid title and later repeats of an identity
// key. kept[i] reports whether rows[i] of the input survived.
func cleanup(rows []Row) ([]Row, []bool) {
	out := make([]Row, 0, len(rows))
	kept := make([]bool, len(rows))
	seen := make(map[Key]struct{}, len(rows))

	for i, r := range rows {
		if !ValidTitle(r.TrackTitle) {
			continue
		}
		if k, ok := r.Key(); ok {
			if _, dup := seen[k]; dup {
				continue
			}
			seen[k] = struct{}{}
		}
		kept[i] = true
		out = append(out, r)
	}

	return out, kept
}
