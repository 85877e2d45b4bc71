// Package artifacts reads GraphRAG indexing output tables.
//
// A GraphRAG indexing run leaves one parquet file per entity category under
// its output directory. This package reads those files into generic records
// (field name to value maps) so downstream consumers can ship rows to a
// store without committing to a fixed schema for loosely shaped columns
// such as community report findings.
package artifacts

import "fmt"

// File names of the artifact tables produced by a GraphRAG indexing run,
// relative to the output directory.
const (
	DocumentsFile        = "create_final_documents.parquet"
	TextUnitsFile        = "create_final_text_units.parquet"
	EntitiesFile         = "create_final_entities.parquet"
	EntityEmbeddingsFile = "embeddings.entity.description.parquet"
	RelationshipsFile    = "create_final_relationships.parquet"
	CommunitiesFile      = "create_final_communities.parquet"
	CommunityReportsFile = "create_final_community_reports.parquet"
)

var (
	ErrMissingColumn    = fmt.Errorf("column not present in artifact table")
	ErrUnsupportedShape = fmt.Errorf("unsupported column shape in artifact table")
)

// Record is a single row of an artifact table. Scalar columns map to
// string, int64, float64, or bool values. List columns map to []any,
// except dense numeric vectors which map to []float64. List-of-struct
// columns map to []any of map[string]any, preserving whatever fields the
// upstream pipeline wrote.
type Record map[string]any

// LeftJoinOn merges the non-key fields of the first right record with a
// matching key into each left record. Left records without a match are
// returned unchanged, so a row never drops out of the result for lack of
// a counterpart. The input slices are not modified.
func LeftJoinOn(left, right []Record, key string) []Record {
	index := make(map[any]Record, len(right))
	for _, r := range right {
		k, ok := r[key]
		if !ok {
			continue
		}
		if _, seen := index[k]; !seen {
			index[k] = r
		}
	}

	joined := make([]Record, len(left))
	for i, l := range left {
		merged := make(Record, len(l)+1)
		for field, value := range l {
			merged[field] = value
		}
		if r, ok := index[l[key]]; ok {
			for field, value := range r {
				if field == key {
					continue
				}
				merged[field] = value
			}
		}
		joined[i] = merged
	}
	return joined
}
