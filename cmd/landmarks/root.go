package main

import (
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"placefacts/internal/dataset"
	"placefacts/internal/env"
)

var (
	verbose      bool
	setsPath     string
	categorySets dataset.Sets
	logger       = logrus.New()
)

var rootCmd = &cobra.Command{
	Use:           "landmarks",
	Short:         "Build the landmark dataset from Wikipedia categories",
	SilenceUsage:  true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		env.LoadEnv()

		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
		logger.SetLevel(logrus.WarnLevel)
		if verbose {
			logger.SetLevel(logrus.InfoLevel)
		}
		// Library packages log through the standard logger.
		logrus.SetLevel(logger.GetLevel())

		var err error
		categorySets, err = dataset.LoadSets(setsPath)
		return err
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&setsPath, "categories-file", "categories.toml", "TOML file with additional category sets")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
}

func Execute() error {
	return rootCmd.Execute()
}
