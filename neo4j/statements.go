package neo4j

// constraintStatements declare the uniqueness constraints the merge
// statements below rely on. Every declaration is idempotent, so constraint
// setup can run against a database that already carries them.
var constraintStatements = []string{
	`CREATE CONSTRAINT chunk_id IF NOT EXISTS FOR (c:__Chunk__) REQUIRE c.id IS UNIQUE`,
	`CREATE CONSTRAINT document_id IF NOT EXISTS FOR (d:__Document__) REQUIRE d.id IS UNIQUE`,
	`CREATE CONSTRAINT community_id IF NOT EXISTS FOR (c:__Community__) REQUIRE c.community IS UNIQUE`,
	`CREATE CONSTRAINT entity_id IF NOT EXISTS FOR (e:__Entity__) REQUIRE e.id IS UNIQUE`,
	`CREATE CONSTRAINT entity_name IF NOT EXISTS FOR (e:__Entity__) REQUIRE e.name IS UNIQUE`,
	`CREATE CONSTRAINT covariate_title IF NOT EXISTS FOR (c:__Covariate__) REQUIRE c.title IS UNIQUE`,
	`CREATE CONSTRAINT related_id IF NOT EXISTS FOR ()-[rel:RELATED]->() REQUIRE rel.id IS UNIQUE`,
}

// Each load statement is executed per batch with an UNWIND prefix binding
// one row at a time to `value`. Merges overwrite only the projected scalar
// fields; properties outside the projection are left untouched on existing
// nodes. MATCH before an edge MERGE yields zero rows when the endpoint is
// missing, which skips the edge without failing the batch.

const documentStatement = `
MERGE (d:__Document__ {id:value.id})
SET d += value {.title}
`

const textUnitStatement = `
MERGE (c:__Chunk__ {id:value.id})
SET c += value {.text, .n_tokens}
WITH c, value
UNWIND value.document_ids AS document
MATCH (d:__Document__ {id:document})
MERGE (c)-[:PART_OF]->(d)
`

// entityStatement strips quotes from the title so it matches the
// relationship endpoints, attaches a label derived from the entity type,
// and stores the description embedding as a vector property. The vector
// call runs in a subquery because db.create.setNodeVectorProperty raises
// on null, and entities without a precomputed embedding must still load.
const entityStatement = `
MERGE (e:__Entity__ {id:value.id})
SET e += value {.human_readable_id, .description, name:replace(value.title,'"','')}
WITH e, value
CALL apoc.create.addLabels(e, CASE WHEN coalesce(value.type,"") = "" THEN [] ELSE [apoc.text.upperCamelCase(replace(value.type,'"',''))] END) YIELD node
WITH e, value
CALL {
    WITH e, value
    WITH e, value
    WHERE value.embedding IS NOT NULL
    CALL db.create.setNodeVectorProperty(e, "embedding", value.embedding)
    RETURN count(*) AS vectors
}
WITH e, value
UNWIND value.text_unit_ids AS text_unit
MATCH (c:__Chunk__ {id:text_unit})
MERGE (c)-[:HAS_ENTITY]->(e)
`

// relationshipStatement merges a single directed edge per relationship id.
// The upstream data carries at most one relationship per ordered name
// pair, so no dedupe is needed here.
const relationshipStatement = `
MATCH (source:__Entity__ {name:replace(value.source,'"','')})
MATCH (target:__Entity__ {name:replace(value.target,'"','')})
MERGE (source)-[rel:RELATED {id:value.id}]->(target)
SET rel += value {.weight, .combined_degree, .human_readable_id, .description, .text_unit_ids}
RETURN count(*) AS createdRels
`

// communityStatement derives membership edges by following each listed
// relationship id to its endpoint entities, so the relationship step must
// have committed before this runs.
const communityStatement = `
MERGE (c:__Community__ {community:value.id})
SET c += value {.level, .title}
WITH c, value
UNWIND value.relationship_ids AS rel_id
MATCH (start:__Entity__)-[:RELATED {id:rel_id}]->(end:__Entity__)
MERGE (start)-[:IN_COMMUNITY]->(c)
MERGE (end)-[:IN_COMMUNITY]->(c)
RETURN count(DISTINCT c) AS createdCommunities
`

// communityReportStatement attaches one Finding child node per list index.
// Findings have no fixed schema upstream, so whatever fields each entry
// carries are copied onto the node as-is.
const communityReportStatement = `
MERGE (c:__Community__ {community:value.community})
SET c += value {.level, .title, .summary, .rank, .rank_explanation, .full_content}
WITH c, value
UNWIND range(0, size(value.findings)-1) AS finding_idx
WITH c, finding_idx, value.findings[finding_idx] AS finding
MERGE (c)-[:HAS_FINDING]->(f:Finding {id:finding_idx})
SET f += finding
`
