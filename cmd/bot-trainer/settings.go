// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/viper"

	"github.com/pdiddy/bot-trainer/pkg/types"
)

const (
	defaultKnowledgeBasePath = "../src/config/cipherConfig.ts"
	defaultTrainingDir       = "training_data"
	historyDBFile            = "history.db"

	// settingsName is the base name of the settings file searched for in
	// the working directory and in ~/.config/bot-trainer.
	settingsName = "bot-trainer"
)

func setDefaults() {
	viper.SetDefault("knowledge_base.path", defaultKnowledgeBasePath)
	viper.SetDefault("analysis.log_file", "")
	viper.SetDefault("analysis.training_dir", defaultTrainingDir)
	viper.SetDefault("analysis.quality_threshold", 0.9)
	viper.SetDefault("analysis.top_suggestions", 5)
	viper.SetDefault("analysis.top_report", 10)
	viper.SetDefault("history.enabled", true)
	viper.SetDefault("history.db_path", "")
	viper.SetDefault("history.max_results", 20)
	viper.SetDefault("logging.level", "info")
	viper.SetDefault("logging.format", "text")
	viper.SetDefault("logging.output", "stderr")
}

// loadSettings resolves flags, environment, settings file, and defaults
// into a TrainerConfig. The history database lives in the training
// directory unless history.db_path is set.
func loadSettings() (types.TrainerConfig, error) {
	var cfg types.TrainerConfig
	if err := viper.Unmarshal(&cfg); err != nil {
		return cfg, fmt.Errorf("decoding settings: %w", err)
	}
	if cfg.History.DBPath == "" {
		cfg.History.DBPath = filepath.Join(cfg.Analysis.TrainingDir, historyDBFile)
	}
	return cfg, nil
}
