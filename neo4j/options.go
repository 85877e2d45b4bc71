package neo4j

import "log/slog"

// Option is a function type for configuring a Loader.
type Option func(*options)

// options contains the configuration for a Loader.
type options struct {
	database  string
	inputDir  string
	batchSize int
	logger    *slog.Logger
}

// defaultOptions returns the default Loader configuration.
func defaultOptions() *options {
	return &options{
		database:  "neo4j",
		inputDir:  "output",
		batchSize: 1000,
	}
}

// WithDatabase sets the name of the Neo4j database written to.
func WithDatabase(database string) Option {
	return func(o *options) {
		o.database = database
	}
}

// WithInputDir sets the directory holding the indexing output tables.
func WithInputDir(dir string) Option {
	return func(o *options) {
		o.inputDir = dir
	}
}

// WithBatchSize sets the number of rows sent per statement execution.
func WithBatchSize(size int) Option {
	return func(o *options) {
		o.batchSize = size
	}
}

// WithLogger sets the logger for load progress. Defaults to slog.Default.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}
