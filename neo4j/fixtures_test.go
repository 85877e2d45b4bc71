package neo4j

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/parquet-go/parquet-go"
	"github.com/stretchr/testify/require"

	"github.com/tmc/graphrag/artifacts"
)

// Fixture row shapes mirror the artifact tables a GraphRAG indexing run
// writes. The extra columns the loaders do not project (e.g. a community's
// text_unit_ids) are included to prove projection drops them.

type documentRow struct {
	ID    string `parquet:"id"`
	Title string `parquet:"title"`
}

type textUnitRow struct {
	ID          string   `parquet:"id"`
	Text        string   `parquet:"text"`
	NTokens     int64    `parquet:"n_tokens"`
	DocumentIDs []string `parquet:"document_ids,list"`
}

type entityRow struct {
	ID              string   `parquet:"id"`
	Title           string   `parquet:"title"`
	Type            string   `parquet:"type"`
	Description     string   `parquet:"description"`
	HumanReadableID int64    `parquet:"human_readable_id"`
	TextUnitIDs     []string `parquet:"text_unit_ids,list"`
}

type embeddingRow struct {
	ID        string    `parquet:"id"`
	Embedding []float64 `parquet:"embedding,list"`
}

type relationshipRow struct {
	ID              string   `parquet:"id"`
	Source          string   `parquet:"source"`
	Target          string   `parquet:"target"`
	Weight          float64  `parquet:"weight"`
	CombinedDegree  int64    `parquet:"combined_degree"`
	HumanReadableID int64    `parquet:"human_readable_id"`
	Description     string   `parquet:"description"`
	TextUnitIDs     []string `parquet:"text_unit_ids,list"`
}

type communityRow struct {
	ID              int64    `parquet:"id"`
	Level           int64    `parquet:"level"`
	Title           string   `parquet:"title"`
	TextUnitIDs     []string `parquet:"text_unit_ids,list"`
	RelationshipIDs []string `parquet:"relationship_ids,list"`
}

type findingRow struct {
	Summary     string `parquet:"summary"`
	Explanation string `parquet:"explanation"`
}

type communityReportRow struct {
	ID              string       `parquet:"id"`
	Community       int64        `parquet:"community"`
	Level           int64        `parquet:"level"`
	Title           string       `parquet:"title"`
	Summary         string       `parquet:"summary"`
	Findings        []findingRow `parquet:"findings,list"`
	Rank            float64      `parquet:"rank"`
	RankExplanation string       `parquet:"rank_explanation"`
	FullContent     string       `parquet:"full_content"`
}

func writeParquet[T any](t *testing.T, path string, rows []T) {
	t.Helper()

	f, err := os.Create(path)
	require.NoError(t, err)

	w := parquet.NewGenericWriter[T](f)
	_, err = w.Write(rows)
	require.NoError(t, err)
	require.NoError(t, w.Close())
	require.NoError(t, f.Close())
}

// writeFixtureDir writes a small but complete indexing output:
//
//   - document d1, with chunk c1 linked to it and chunk c2 pointing at a
//     document that does not exist
//   - entities A (typed, embedded, mentioned by c1) and B (untyped, no
//     embedding, one dangling text-unit reference), both quoted in the
//     source text
//   - relationship r1 between A and B, plus r2 pointing at a missing
//     entity
//   - community 0 over r1 and a dangling relationship id
//   - one report on community 0 with three findings
func writeFixtureDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()

	writeParquet(t, filepath.Join(dir, artifacts.DocumentsFile), []documentRow{
		{ID: "d1", Title: "T"},
	})

	writeParquet(t, filepath.Join(dir, artifacts.TextUnitsFile), []textUnitRow{
		{ID: "c1", Text: "hello", NTokens: 1, DocumentIDs: []string{"d1"}},
		{ID: "c2", Text: "orphan", NTokens: 1, DocumentIDs: []string{"d-missing"}},
	})

	writeParquet(t, filepath.Join(dir, artifacts.EntitiesFile), []entityRow{
		{
			ID:              "e1",
			Title:           `"A"`,
			Type:            "person",
			Description:     "the first entity",
			HumanReadableID: 0,
			TextUnitIDs:     []string{"c1"},
		},
		{
			ID:              "e2",
			Title:           `"B"`,
			Type:            "",
			Description:     "the second entity",
			HumanReadableID: 1,
			TextUnitIDs:     []string{"c1", "c-missing"},
		},
	})

	writeParquet(t, filepath.Join(dir, artifacts.EntityEmbeddingsFile), []embeddingRow{
		{ID: "e1", Embedding: []float64{0.1, 0.2, 0.3}},
	})

	writeParquet(t, filepath.Join(dir, artifacts.RelationshipsFile), []relationshipRow{
		{
			ID:              "r1",
			Source:          `"A"`,
			Target:          `"B"`,
			Weight:          1.0,
			CombinedDegree:  2,
			HumanReadableID: 0,
			Description:     "A knows B",
			TextUnitIDs:     []string{"c1"},
		},
		{
			ID:              "r2",
			Source:          `"A"`,
			Target:          `"C"`,
			Weight:          1.0,
			CombinedDegree:  1,
			HumanReadableID: 1,
			Description:     "dangling endpoint",
			TextUnitIDs:     []string{"c1"},
		},
	})

	writeParquet(t, filepath.Join(dir, artifacts.CommunitiesFile), []communityRow{
		{
			ID:              0,
			Level:           0,
			Title:           "Community 0",
			TextUnitIDs:     []string{"c1"},
			RelationshipIDs: []string{"r1", "r-missing"},
		},
	})

	writeParquet(t, filepath.Join(dir, artifacts.CommunityReportsFile), []communityReportRow{
		{
			ID:        "rep1",
			Community: 0,
			Level:     0,
			Title:     "Report 0",
			Summary:   "two entities, one relationship",
			Findings: []findingRow{
				{Summary: "finding zero", Explanation: "because"},
				{Summary: "finding one", Explanation: "therefore"},
				{Summary: "finding two", Explanation: "hence"},
			},
			Rank:            7.5,
			RankExplanation: "small but complete",
			FullContent:     "full report text",
		},
	})

	return dir
}
