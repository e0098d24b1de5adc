// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// HTTPConfig holds shared HTTP settings used by stages that make network requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "paper-pipeline/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// PubMedConfig holds settings for the PubMed E-utilities client. Tool and
// Email identify the caller to NCBI on every request; they are injected at
// construction and never change while the process runs.
type PubMedConfig struct {
	HTTPConfig `yaml:",inline"`

	// Tool is the tool name sent as the E-utilities "tool" parameter.
	Tool string `json:"tool" yaml:"tool"`

	// Email is the maintainer contact sent as the "email" parameter.
	Email string `json:"email" yaml:"email"`

	// APIKey is an optional NCBI API key for higher rate limits.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty"`

	// RetMax is the maximum number of PMIDs requested per journal (default 1000).
	RetMax int `json:"ret_max" yaml:"ret_max"`

	// RequestDelay is the minimum wait between consecutive journal queries
	// (default 1s), measured from the end of one call to the start of the next.
	RequestDelay time.Duration `json:"request_delay" yaml:"request_delay"`
}

// OutputConfig holds settings for the workbook writer.
type OutputConfig struct {
	// Dir is the directory the workbook and run report are written to.
	Dir string `json:"dir" yaml:"dir"`
}

// ArchiveConfig holds settings for the optional SQLite record archive.
type ArchiveConfig struct {
	// Enabled controls whether collected records are archived.
	Enabled bool `json:"enabled" yaml:"enabled"`

	// Path is the SQLite database file (default "<output dir>/papers.db").
	Path string `json:"path,omitempty" yaml:"path,omitempty"`
}

// PipelineConfig groups all stage configurations for the pipeline.
type PipelineConfig struct {
	PubMed  PubMedConfig  `json:"pubmed" yaml:"pubmed"`
	Output  OutputConfig  `json:"output" yaml:"output"`
	Archive ArchiveConfig `json:"archive" yaml:"archive"`

	// Journals lists the journals queried each run, in query order.
	Journals []string `json:"journals" yaml:"journals"`
}
