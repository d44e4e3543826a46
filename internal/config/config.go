package config

import (
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config captures all runtime options for the fuzz runner.
type Config struct {
	DSN                string          `yaml:"dsn"`
	Database           string          `yaml:"database"`
	Seed               int64           `yaml:"seed"`
	Iterations         int             `yaml:"iterations"`
	Workers            int             `yaml:"workers"`
	StatementTimeoutMs int             `yaml:"statement_timeout_ms"`
	RoundsPerSecond    int             `yaml:"rounds_per_second"`
	MaxTables          int             `yaml:"max_tables"`
	MaxColumns         int             `yaml:"max_columns"`
	MaxRowsPerTable    int             `yaml:"max_rows_per_table"`
	Generator          GeneratorConfig `yaml:"generator"`
	Weights            Weights         `yaml:"weights"`
	Reference          ReferenceConfig `yaml:"reference"`
	Report             ReportConfig    `yaml:"report"`
	Storage            StorageConfig   `yaml:"storage"`
	Logging            Logging         `yaml:"logging"`
}

// GeneratorConfig shapes generated expressions and queries.
type GeneratorConfig struct {
	MaxDepth          int  `yaml:"max_depth"`
	PortableOperators bool `yaml:"portable_operators"`
	WhereProb         int  `yaml:"where_prob"`
	OrderByProb       int  `yaml:"order_by_prob"`
	NullProb          int  `yaml:"null_prob"`
}

// Weights controls weighted selections for actions and oracles.
type Weights struct {
	Actions ActionWeights `yaml:"actions"`
	Oracles OracleWeights `yaml:"oracles"`
}

// ActionWeights sets probabilities for DDL/DML/Query.
type ActionWeights struct {
	DDL   int `yaml:"ddl"`
	DML   int `yaml:"dml"`
	Query int `yaml:"query"`
}

// OracleWeights sets probabilities for oracle selection.
type OracleWeights struct {
	Reference int `yaml:"reference"`
	NoREC     int `yaml:"norec"`
}

// ReferenceConfig selects the reference engine.
type ReferenceConfig struct {
	// Engine is one of sqlite, duckdb or mysql.
	Engine string `yaml:"engine"`
	// DSN is only used by the mysql engine.
	DSN string `yaml:"dsn"`
	// CompareMode is ordered or multiset.
	CompareMode string `yaml:"compare_mode"`
}

// ReportConfig controls where cases are written.
type ReportConfig struct {
	OutputDir   string `yaml:"output_dir"`
	UseUUIDPath bool   `yaml:"use_uuid_path"`
	Archive     bool   `yaml:"archive"`
}

// Logging controls stdout logging behavior.
type Logging struct {
	Verbose               bool   `yaml:"verbose"`
	ReportIntervalSeconds int    `yaml:"report_interval_seconds"`
	LogFile               string `yaml:"log_file"`
	MaxSizeMB             int    `yaml:"max_size_mb"`
	MaxBackups            int    `yaml:"max_backups"`
}

// StorageConfig holds external storage settings.
type StorageConfig struct {
	S3  S3Config  `yaml:"s3"`
	GCS GCSConfig `yaml:"gcs"`
}

// CloudEnabled reports whether any cloud storage backend is enabled.
func (s StorageConfig) CloudEnabled() bool {
	return s.GCS.Enabled || s.S3.Enabled
}

// S3Config configures S3 uploads (legacy and S3-compatible endpoints).
type S3Config struct {
	Enabled         bool   `yaml:"enabled"`
	Endpoint        string `yaml:"endpoint"`
	Region          string `yaml:"region"`
	Bucket          string `yaml:"bucket"`
	Prefix          string `yaml:"prefix"`
	AccessKeyID     string `yaml:"access_key_id"`
	SecretAccessKey string `yaml:"secret_access_key"`
	SessionToken    string `yaml:"session_token"`
	UsePathStyle    bool   `yaml:"use_path_style"`
}

// GCSConfig configures GCS uploads.
type GCSConfig struct {
	Enabled         bool   `yaml:"enabled"`
	Bucket          string `yaml:"bucket"`
	Prefix          string `yaml:"prefix"`
	CredentialsFile string `yaml:"credentials_file"`
}

// Load reads configuration from a YAML file.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}
	cfg := defaultConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, err
	}
	normalizeConfig(&cfg)
	return cfg, nil
}

// Default returns the built-in configuration.
func Default() Config {
	cfg := defaultConfig()
	normalizeConfig(&cfg)
	return cfg
}

const (
	maxDepthDefault        = 3
	statementTimeoutMsDflt = 15000
	referenceEngineDefault = "sqlite"
)

func normalizeConfig(cfg *Config) {
	if cfg.Workers <= 0 {
		cfg.Workers = 1
	}
	if cfg.Database != "" {
		cfg.DSN = ensureDatabaseInDSN(cfg.DSN, cfg.Database)
	}
	if cfg.StatementTimeoutMs <= 0 {
		cfg.StatementTimeoutMs = statementTimeoutMsDflt
	}
	if cfg.MaxTables <= 0 {
		cfg.MaxTables = 1
	}
	if cfg.MaxColumns <= 0 {
		cfg.MaxColumns = 1
	}
	if cfg.Generator.MaxDepth <= 0 {
		cfg.Generator.MaxDepth = maxDepthDefault
	}
	cfg.Reference.Engine = strings.ToLower(strings.TrimSpace(cfg.Reference.Engine))
	if cfg.Reference.Engine == "" {
		cfg.Reference.Engine = referenceEngineDefault
	}
	cfg.Reference.CompareMode = strings.ToLower(strings.TrimSpace(cfg.Reference.CompareMode))
	if cfg.Reference.CompareMode == "" {
		cfg.Reference.CompareMode = "ordered"
	}
	if cfg.Weights.Actions.Query <= 0 {
		cfg.Weights.Actions.Query = 1
	}
	if cfg.Weights.Oracles.Reference <= 0 && cfg.Weights.Oracles.NoREC <= 0 {
		cfg.Weights.Oracles.Reference = 1
	}
	if cfg.Report.OutputDir == "" {
		cfg.Report.OutputDir = "reports"
	}
}

func ensureDatabaseInDSN(dsn string, dbName string) string {
	if dsn == "" || dbName == "" {
		return dsn
	}
	slash := strings.Index(dsn, "/")
	if slash < 0 {
		return dsn
	}
	query := strings.Index(dsn[slash+1:], "?")
	if query >= 0 {
		query = slash + 1 + query
	}
	afterSlash := dsn[slash+1:]
	if query >= 0 {
		afterSlash = dsn[slash+1 : query]
	}
	if strings.TrimSpace(afterSlash) != "" {
		return dsn
	}
	if query >= 0 {
		return dsn[:slash+1] + dbName + dsn[query:]
	}
	return dsn + dbName
}

// UpdateDatabaseInDSN replaces the database name in the DSN path with dbName.
// It preserves query parameters, if any.
func UpdateDatabaseInDSN(dsn string, dbName string) string {
	if dsn == "" || dbName == "" {
		return dsn
	}
	slash := strings.Index(dsn, "/")
	if slash < 0 {
		return dsn
	}
	query := strings.Index(dsn[slash+1:], "?")
	if query >= 0 {
		query = slash + 1 + query
		return dsn[:slash+1] + dbName + dsn[query:]
	}
	return dsn[:slash+1] + dbName
}

// AdminDSN strips the database name from a DSN while preserving query parameters.
func AdminDSN(dsn string) string {
	if dsn == "" {
		return dsn
	}
	slash := strings.Index(dsn, "/")
	if slash < 0 {
		return dsn
	}
	query := strings.Index(dsn[slash+1:], "?")
	if query >= 0 {
		query = slash + 1 + query
		return dsn[:slash+1] + dsn[query:]
	}
	return dsn[:slash+1]
}

func defaultConfig() Config {
	return Config{
		DSN:                "root:@tcp(127.0.0.1:4000)/",
		Database:           "diffsql_fuzz",
		Iterations:         1000,
		Workers:            1,
		StatementTimeoutMs: statementTimeoutMsDflt,
		MaxTables:          4,
		MaxColumns:         5,
		MaxRowsPerTable:    30,
		Generator: GeneratorConfig{
			MaxDepth:          maxDepthDefault,
			PortableOperators: true,
			WhereProb:         60,
			OrderByProb:       100,
			NullProb:          10,
		},
		Weights: Weights{
			Actions: ActionWeights{DDL: 1, DML: 3, Query: 6},
			Oracles: OracleWeights{Reference: 4, NoREC: 1},
		},
		Reference: ReferenceConfig{
			Engine:      referenceEngineDefault,
			CompareMode: "ordered",
		},
		Report: ReportConfig{
			OutputDir: "reports",
			Archive:   true,
		},
		Logging: Logging{
			ReportIntervalSeconds: 30,
			LogFile:               "logs/diffsql.log",
			MaxSizeMB:             100,
			MaxBackups:            5,
		},
	}
}
