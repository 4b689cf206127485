// Package query estimates the relative cost of declared queries against
// a table's schema and indexes. Costs order queries against each other;
// they are not wall-clock predictions.
package query

import (
	"fmt"
	"math"
	"sort"

	"github.com/sdcanvas/simulation-core/pkg/models"
)

// defaultTableRows stands in when a table declares no row estimate.
const defaultTableRows = 10_000

// AnalyzeQuery inspects one declared query against the table's indexes
// and estimates scan type, relative cost, and warnings.
func AnalyzeQuery(q models.QuerySpec, table models.TableSchema) models.QueryAnalysis {
	rows := float64(table.Rows)
	if rows <= 0 {
		rows = defaultTableRows
	}

	analysis := models.QueryAnalysis{Query: q}

	covered := indexCoverage(q.FilterColumns, table.Indexes)
	switch {
	case len(q.FilterColumns) == 0:
		analysis.ScanType = models.ScanTypeFull
		analysis.EstimatedCost = rows
	case covered == len(q.FilterColumns):
		analysis.ScanType = models.ScanTypeIndex
		analysis.EstimatedCost = math.Log2(rows) + 1
	case covered > 0:
		// The index narrows the scan; the uncovered filters are applied
		// to the narrowed set.
		analysis.ScanType = models.ScanTypePartial
		analysis.EstimatedCost = math.Log2(rows) + math.Sqrt(rows)
	default:
		analysis.ScanType = models.ScanTypeFull
		analysis.EstimatedCost = rows
		analysis.Warnings = append(analysis.Warnings, fmt.Sprintf(
			"filter on %v is not covered by any index on %s; full scan of ~%.0f rows",
			q.FilterColumns, table.Name, rows))
	}

	if q.JoinTable != "" {
		if q.JoinColumn == "" || !columnIndexed(q.JoinColumn, table.Indexes) {
			analysis.Warnings = append(analysis.Warnings, fmt.Sprintf(
				"join with %s has no index on the join key %q; each joined row costs a scan",
				q.JoinTable, q.JoinColumn))
			analysis.EstimatedCost *= 2
		} else {
			analysis.EstimatedCost += math.Log2(rows)
		}
	}

	if q.Kind == models.QueryKindRead && q.Limit <= 0 && len(q.FilterColumns) == 0 {
		analysis.Warnings = append(analysis.Warnings,
			"unbounded result set: read has no filter and no limit")
	}

	if q.Kind == models.QueryKindWrite {
		// Writes pay index maintenance on top of locating the row.
		analysis.EstimatedCost += float64(len(table.Indexes))
	}

	return analysis
}

// AnalyzeQueriesForTable aggregates analyses for one table, ordered by
// descending estimated cost so the worst offenders surface first. The
// sort is stable: equal costs keep declaration order.
func AnalyzeQueriesForTable(table models.TableSchema, queries []models.QuerySpec) []models.QueryAnalysis {
	out := make([]models.QueryAnalysis, 0, len(queries))
	for _, q := range queries {
		out = append(out, AnalyzeQuery(q, table))
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].EstimatedCost > out[j].EstimatedCost
	})
	return out
}

// indexCoverage returns the largest number of filter columns matched by
// a prefix of any single index.
func indexCoverage(filters []string, indexes []models.TableIndex) int {
	if len(filters) == 0 {
		return 0
	}
	filterSet := make(map[string]bool, len(filters))
	for _, f := range filters {
		filterSet[f] = true
	}

	best := 0
	for _, idx := range indexes {
		matched := 0
		for _, col := range idx.Columns {
			if !filterSet[col] {
				break
			}
			matched++
		}
		if matched > best {
			best = matched
		}
	}
	if best > len(filters) {
		best = len(filters)
	}
	return best
}

// columnIndexed reports whether any index leads with the given column.
func columnIndexed(col string, indexes []models.TableIndex) bool {
	for _, idx := range indexes {
		if len(idx.Columns) > 0 && idx.Columns[0] == col {
			return true
		}
	}
	return false
}
