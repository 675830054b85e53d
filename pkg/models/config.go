package models

type Config struct {
    Snowflake  Snowflake  `yaml:"snowflake"`
    Layers     Layers     `yaml:"layers"`
    Pipeline   Pipeline   `yaml:"pipeline"`
    Validation Validation `yaml:"validation"`
}

type Snowflake struct {
    Account   string `yaml:"account"`
    Username  string `yaml:"username"`
    Password  string `yaml:"password"`
    Role      string `yaml:"role"`
    Warehouse string `yaml:"warehouse"`
    Database  string `yaml:"database"`
    Timeout   string `yaml:"timeout"`    // Connection timeout, e.g. "30s"
}

// Layers names the warehouse schemas backing each pipeline layer
type Layers struct {
    Raw       string `yaml:"raw"`       // Schema holding the bulk-loaded extracts
    Conformed string `yaml:"conformed"` // Schema receiving the conformed tables
    Mart      string `yaml:"mart"`      // Schema receiving the dimensional model
}

// Pipeline contains run-specific configuration
type Pipeline struct {
    Parallel   bool `yaml:"parallel"`    // Conform independent entities concurrently
    BatchSize  int  `yaml:"batch_size"`  // Rows per insert batch during load
    DryRun     bool `yaml:"dry_run"`     // Skip the warehouse load phase
}

// Validation contains integrity-check settings
type Validation struct {
    Enabled       bool `yaml:"enabled"`         // Run integrity checks after projection
    SampleKeys    int  `yaml:"sample_keys"`     // Offending keys to keep per finding
    FailOnFinding bool `yaml:"fail_on_finding"` // Non-zero exit when findings exist
}

// DefaultLayers returns the schema names used when the config leaves them unset
func DefaultLayers() Layers {
    return Layers{
        Raw:       "RAW",
        Conformed: "CONFORMED",
        Mart:      "MART",
    }
}
