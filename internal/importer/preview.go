package importer

import "github.com/stokpos/importer/internal/sheet"

// Preview parses and normalizes rows without touching the catalog service.
// It returns at most limit products, letting a client sanity-check column
// mapping and defaults before committing to a run.
func Preview(rows []sheet.Row, limit int) []NormalizedProduct {
	parsed := sheet.ParseRows(rows)
	if limit > 0 && len(parsed) > limit {
		parsed = parsed[:limit]
	}

	out := make([]NormalizedProduct, 0, len(parsed))
	for _, raw := range parsed {
		out = append(out, normalize(raw))
	}
	return out
}
