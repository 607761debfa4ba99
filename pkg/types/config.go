// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// KnowledgeBaseConfig locates the chat bot's knowledge-base source file.
type KnowledgeBaseConfig struct {
	// Path is the TypeScript config file holding the commonQuestions list
	// (default "../src/config/cipherConfig.ts").
	Path string `json:"path" yaml:"path" mapstructure:"path"`
}

// AnalysisConfig holds settings for the analysis and report stage.
type AnalysisConfig struct {
	// LogFile is a conversation log file or a directory of
	// conversations_*.json files. Empty selects the sample dataset.
	LogFile string `json:"log_file" yaml:"log_file" mapstructure:"log_file"`

	// TrainingDir receives the Markdown reports (default "training_data").
	TrainingDir string `json:"training_dir" yaml:"training_dir" mapstructure:"training_dir"`

	// QualityThreshold is the technical accuracy below which response
	// quality recommendations are emitted (default 0.9).
	QualityThreshold float64 `json:"quality_threshold" yaml:"quality_threshold" mapstructure:"quality_threshold"`

	// TopSuggestions is the number of questions listed in suggestions (default 5).
	TopSuggestions int `json:"top_suggestions" yaml:"top_suggestions" mapstructure:"top_suggestions"`

	// TopReport is the number of questions listed in the report (default 10).
	TopReport int `json:"top_report" yaml:"top_report" mapstructure:"top_report"`
}

// HistoryConfig holds settings for the run history database.
type HistoryConfig struct {
	// Enabled turns run recording on or off (default true).
	Enabled bool `json:"enabled" yaml:"enabled" mapstructure:"enabled"`

	// DBPath is the SQLite database file (default "training_data/history.db").
	DBPath string `json:"db_path" yaml:"db_path" mapstructure:"db_path"`

	// MaxResults is the default limit for list and search (default 20).
	MaxResults int `json:"max_results" yaml:"max_results" mapstructure:"max_results"`
}

// LoggingConfig holds logger settings.
type LoggingConfig struct {
	// Level is a logrus level name (default "info").
	Level string `json:"level" yaml:"level" mapstructure:"level"`

	// Format is "text" or "json" (default "text").
	Format string `json:"format" yaml:"format" mapstructure:"format"`

	// Output is "stderr", "stdout", or a file path (default "stderr").
	Output string `json:"output" yaml:"output" mapstructure:"output"`
}

// TrainerConfig groups all settings for the bot-trainer CLI.
type TrainerConfig struct {
	KnowledgeBase KnowledgeBaseConfig `json:"knowledge_base" yaml:"knowledge_base" mapstructure:"knowledge_base"`
	Analysis      AnalysisConfig      `json:"analysis" yaml:"analysis" mapstructure:"analysis"`
	History       HistoryConfig       `json:"history" yaml:"history" mapstructure:"history"`
	Logging       LoggingConfig       `json:"logging" yaml:"logging" mapstructure:"logging"`
}
