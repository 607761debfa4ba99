// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the bot-trainer CLI. It analyzes chat
// bot conversation logs, writes training reports, and patches the bot's
// knowledge base with new question/answer pairs.
package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/bot-trainer/internal/logging"
	"github.com/pdiddy/bot-trainer/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

// settings holds the resolved configuration for the running command.
var settings types.TrainerConfig

// logger is built from settings in PersistentPreRunE.
var (
	logger    = logrus.StandardLogger()
	logCloser io.Closer
)

// rootCmd is the base command for the bot-trainer CLI.
var rootCmd = &cobra.Command{
	Use:   "bot-trainer",
	Short: "Analyze chat bot conversations and grow its knowledge base",
	Long: `bot-trainer reads the chat bot's conversation logs, counts the questions
visitors ask, sorts them into topics, and writes a Markdown training report
with suggestions. It can also append question/answer pairs to the
commonQuestions list in the bot's knowledge-base config.

Run without a subcommand to start a training session (same as analyze).
When no log file is found, a built-in sample analysis is used.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadSettings()
		if err != nil {
			return err
		}
		settings = cfg

		l, closer, err := logging.New(cfg.Logging)
		if err != nil {
			return err
		}
		logger, logCloser = l, closer
		return nil
	},
	RunE: runAnalyze,
}

func init() {
	cobra.OnInitialize(initConfig)

	pf := rootCmd.PersistentFlags()
	pf.String("settings", "", "settings file (default: ./"+settingsName+".yaml or ~/.config/bot-trainer/"+settingsName+".yaml)")
	pf.String("config", defaultKnowledgeBasePath, "path to the knowledge-base config file (cipherConfig.ts)")
	pf.String("log-file", "", "conversation log file or directory of conversations_*.json files")
	pf.String("training-dir", defaultTrainingDir, "directory for training reports and the history database")
	pf.String("log-level", "info", "log level: debug, info, warn, error")

	bindFlag("knowledge_base.path", "config")
	bindFlag("analysis.log_file", "log-file")
	bindFlag("analysis.training_dir", "training-dir")
	bindFlag("logging.level", "log-level")

	setDefaults()
}

func bindFlag(key, flag string) {
	if err := viper.BindPFlag(key, rootCmd.PersistentFlags().Lookup(flag)); err != nil {
		panic(err)
	}
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("settings")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName(settingsName)
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "bot-trainer"))
		}
	}

	viper.SetEnvPrefix("BOT_TRAINER")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using settings file:", viper.ConfigFileUsed())
	}
}

func main() {
	err := rootCmd.Execute()
	if logCloser != nil {
		logCloser.Close()
	}
	if err != nil {
		os.Exit(1)
	}
}
