package neo4j

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"github.com/tmc/graphrag/artifacts"
)

var (
	ErrNilDriver        = fmt.Errorf("neo4j driver must not be nil")
	ErrInvalidBatchSize = fmt.Errorf("batch size must be positive")
)

// statementRunner executes one write statement against the store. Each
// call is a single implicit transaction: it either commits or fails as a
// whole.
type statementRunner interface {
	Run(ctx context.Context, cypher string, params map[string]any) error
}

// Loader imports a GraphRAG indexing output into Neo4j.
type Loader struct {
	runner statementRunner
	opts   *options
	logger *slog.Logger
}

// New creates a Loader on top of a caller-supplied driver. The Loader
// never closes the driver.
func New(driver neo4j.DriverWithContext, opts ...Option) (*Loader, error) {
	if driver == nil {
		return nil, ErrNilDriver
	}

	options := defaultOptions()
	for _, opt := range opts {
		opt(options)
	}
	if options.batchSize <= 0 {
		return nil, ErrInvalidBatchSize
	}

	logger := options.logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Loader{
		runner: &driverRunner{driver: driver, database: options.database},
		opts:   options,
		logger: logger,
	}, nil
}

// Load runs constraint setup and all six load steps in order. The first
// failure aborts the sequence; batches committed by earlier steps remain
// committed.
func (l *Loader) Load(ctx context.Context) error {
	if err := l.CreateConstraints(ctx); err != nil {
		return err
	}
	if err := l.LoadDocuments(ctx); err != nil {
		return err
	}
	if err := l.LoadTextUnits(ctx); err != nil {
		return err
	}
	if err := l.LoadEntities(ctx); err != nil {
		return err
	}
	if err := l.LoadRelationships(ctx); err != nil {
		return err
	}
	if err := l.LoadCommunities(ctx); err != nil {
		return err
	}
	if err := l.LoadCommunityReports(ctx); err != nil {
		return err
	}
	l.logger.Info("graph load complete")
	return nil
}

// CreateConstraints declares the uniqueness constraints the load steps
// depend on. Safe to call against a database that already has them.
func (l *Loader) CreateConstraints(ctx context.Context) error {
	for _, statement := range constraintStatements {
		if err := l.runner.Run(ctx, statement, nil); err != nil {
			return fmt.Errorf("failed to create constraint: %w", err)
		}
	}
	return nil
}

// LoadDocuments upserts document nodes.
func (l *Loader) LoadDocuments(ctx context.Context) error {
	rows, err := artifacts.ReadTable(l.artifactPath(artifacts.DocumentsFile),
		"id", "title")
	if err != nil {
		return fmt.Errorf("failed to read documents: %w", err)
	}
	if err := l.batchImport(ctx, documentStatement, rows); err != nil {
		return fmt.Errorf("failed to load documents: %w", err)
	}
	l.logger.Info("loaded documents", "rows", len(rows))
	return nil
}

// LoadTextUnits upserts chunk nodes and links each to its documents.
func (l *Loader) LoadTextUnits(ctx context.Context) error {
	rows, err := artifacts.ReadTable(l.artifactPath(artifacts.TextUnitsFile),
		"id", "text", "n_tokens", "document_ids")
	if err != nil {
		return fmt.Errorf("failed to read text units: %w", err)
	}
	if err := l.batchImport(ctx, textUnitStatement, rows); err != nil {
		return fmt.Errorf("failed to load text units: %w", err)
	}
	l.logger.Info("loaded text units", "rows", len(rows))
	return nil
}

// LoadEntities upserts entity nodes with their description embeddings and
// links each to the chunks that mention it. Entities without a
// precomputed embedding still load, with the embedding property absent.
func (l *Loader) LoadEntities(ctx context.Context) error {
	rows, err := artifacts.ReadTable(l.artifactPath(artifacts.EntitiesFile),
		"id", "title", "type", "description", "human_readable_id", "text_unit_ids")
	if err != nil {
		return fmt.Errorf("failed to read entities: %w", err)
	}
	embeddings, err := artifacts.ReadTable(l.artifactPath(artifacts.EntityEmbeddingsFile))
	if err != nil {
		return fmt.Errorf("failed to read entity embeddings: %w", err)
	}
	rows = artifacts.LeftJoinOn(rows, embeddings, "id")

	if err := l.batchImport(ctx, entityStatement, rows); err != nil {
		return fmt.Errorf("failed to load entities: %w", err)
	}
	l.logger.Info("loaded entities", "rows", len(rows))
	return nil
}

// LoadRelationships merges directed edges between already-loaded entity
// nodes, matched by quote-stripped name.
func (l *Loader) LoadRelationships(ctx context.Context) error {
	rows, err := artifacts.ReadTable(l.artifactPath(artifacts.RelationshipsFile),
		"id", "source", "target", "weight", "combined_degree",
		"human_readable_id", "description", "text_unit_ids")
	if err != nil {
		return fmt.Errorf("failed to read relationships: %w", err)
	}
	if err := l.batchImport(ctx, relationshipStatement, rows); err != nil {
		return fmt.Errorf("failed to load relationships: %w", err)
	}
	l.logger.Info("loaded relationships", "rows", len(rows))
	return nil
}

// LoadCommunities upserts community nodes and links member entities,
// derived from the endpoints of each listed relationship.
func (l *Loader) LoadCommunities(ctx context.Context) error {
	rows, err := artifacts.ReadTable(l.artifactPath(artifacts.CommunitiesFile),
		"id", "level", "title", "relationship_ids")
	if err != nil {
		return fmt.Errorf("failed to read communities: %w", err)
	}
	if err := l.batchImport(ctx, communityStatement, rows); err != nil {
		return fmt.Errorf("failed to load communities: %w", err)
	}
	l.logger.Info("loaded communities", "rows", len(rows))
	return nil
}

// LoadCommunityReports upserts report fields onto community nodes and
// attaches one Finding node per findings list index.
func (l *Loader) LoadCommunityReports(ctx context.Context) error {
	rows, err := artifacts.ReadTable(l.artifactPath(artifacts.CommunityReportsFile),
		"id", "community", "level", "title", "summary", "findings",
		"rank", "rank_explanation", "full_content")
	if err != nil {
		return fmt.Errorf("failed to read community reports: %w", err)
	}
	if err := l.batchImport(ctx, communityReportStatement, rows); err != nil {
		return fmt.Errorf("failed to load community reports: %w", err)
	}
	l.logger.Info("loaded community reports", "rows", len(rows))
	return nil
}

// batchImport partitions rows into contiguous batches of at most the
// configured batch size and executes the statement once per batch, with
// the batch bound as the $rows parameter. Batches run strictly in source
// order; the first failing batch aborts the import and nothing committed
// before it is rolled back.
func (l *Loader) batchImport(ctx context.Context, statement string, rows []artifacts.Record) error {
	for start := 0; start < len(rows); start += l.opts.batchSize {
		end := min(start+l.opts.batchSize, len(rows))

		batch := make([]any, end-start)
		for i, row := range rows[start:end] {
			batch[i] = map[string]any(row)
		}

		err := l.runner.Run(ctx, "UNWIND $rows AS value "+statement,
			map[string]any{"rows": batch})
		if err != nil {
			return fmt.Errorf("failed to import batch rows %d-%d: %w", start, end, err)
		}
	}
	return nil
}

func (l *Loader) artifactPath(name string) string {
	return filepath.Join(l.opts.inputDir, name)
}

// driverRunner executes statements through a driver session, one session
// per call, matching the store's default per-call transaction semantics.
type driverRunner struct {
	driver   neo4j.DriverWithContext
	database string
}

func (r *driverRunner) Run(ctx context.Context, cypher string, params map[string]any) error {
	session := r.driver.NewSession(ctx, neo4j.SessionConfig{DatabaseName: r.database})
	defer session.Close(ctx)

	result, err := session.Run(ctx, cypher, params)
	if err != nil {
		return err
	}
	_, err = result.Consume(ctx)
	return err
}
