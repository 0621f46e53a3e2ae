package grid

import "slices"

// SortFavoritesFirst returns a copy of records with favorites moved ahead of
// everything else. Order inside each group is preserved.
func SortFavoritesFirst[T Record](records []T, favorites IDSet) []T {
	out := slices.Clone(records)
	if favorites == nil {
		return out
	}
	slices.SortStableFunc(out, func(a, b T) int {
		fa, fb := favorites.Has(a.RecordID()), favorites.Has(b.RecordID())
		switch {
		case fa == fb:
			return 0
		case fa:
			return -1
		default:
			return 1
		}
	})
	return out
}
