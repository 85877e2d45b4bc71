// Package neo4j loads a GraphRAG indexing output into a Neo4j database.
//
// The loader reads the parquet artifact tables of a completed indexing run
// and upserts them as a knowledge graph: documents, text chunks, entities
// with their description embeddings, entity relationships, communities, and
// community reports with per-finding child nodes. Rows are shipped in
// batches, each batch as a single parameterized Cypher statement, strictly
// in source order.
//
// The caller owns the driver; the loader never constructs or configures a
// connection. Loading is sequential and fail-fast: the first error aborts
// the remaining steps, and batches already committed stay committed. Edge
// creation follows the upstream data's silent-skip policy: an edge whose
// endpoint is not in the graph is simply not created.
//
// Basic usage:
//
//	driver, err := neo4j.NewDriverWithContext("bolt://localhost:7687",
//		neo4j.BasicAuth("neo4j", "password", ""))
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer driver.Close(ctx)
//
//	loader, err := graphrag.New(driver,
//		graphrag.WithInputDir("indexing/output"),
//		graphrag.WithBatchSize(1000),
//	)
//	if err != nil {
//		log.Fatal(err)
//	}
//	if err := loader.Load(ctx); err != nil {
//		log.Fatal(err)
//	}
//
// The entity and community steps depend on earlier steps having committed
// their nodes and edges, so individual step methods should only be called
// in the order Load runs them.
//
// The dynamic entity labels and the vector property require the APOC
// library and Neo4j 5.13 or later on the server.
package neo4j
