package types

// AIConfig holds shared settings for stages that call the chat-completion API.
type AIConfig struct {
	// Model is the model identifier (e.g. "gpt-4o-mini").
	Model string `json:"model" yaml:"model"`

	// APIKey is the authentication key for the API.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty"`

	// MaxAttempts is the total number of attempts for each API call,
	// including the first (default 3).
	MaxAttempts int `json:"max_attempts" yaml:"max_attempts"`
}

// AnalysisConfig holds settings for the per-paper analysis stage.
type AnalysisConfig struct {
	AIConfig `yaml:",inline"`

	// TruncateChars is the number of leading characters of cleaned text
	// sent to the model; longer inputs are silently truncated (default 6000).
	TruncateChars int `json:"truncate_chars" yaml:"truncate_chars"`

	// MaxTokens is the response token budget for one analysis call (default 1000).
	MaxTokens int `json:"max_tokens" yaml:"max_tokens"`
}

// SynthesisConfig holds settings for the review synthesis stage.
type SynthesisConfig struct {
	AIConfig `yaml:",inline"`

	// MaxTokens is the response token budget for the synthesis call (default 3000).
	MaxTokens int `json:"max_tokens" yaml:"max_tokens"`
}

// PipelineConfig groups the settings for one review run.
type PipelineConfig struct {
	// InputDir is the directory scanned (non-recursively) for *.pdf files.
	InputDir string `json:"input_dir" yaml:"input_dir"`

	// OutputDir is the directory the review document and summary exports
	// are written to.
	OutputDir string `json:"output_dir" yaml:"output_dir"`

	// Workers is the size of the worker pool for the per-file
	// extract-and-analyze stage (default 4).
	Workers int `json:"workers" yaml:"workers"`

	Analysis  AnalysisConfig  `json:"analysis" yaml:"analysis"`
	Synthesis SynthesisConfig `json:"synthesis" yaml:"synthesis"`
}
