package cmd

import (
	"context"
	"log"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/spigell/staffmatch/internal/candidate"
	"github.com/spigell/staffmatch/internal/logger"
	"github.com/spigell/staffmatch/internal/store"
)

var importCmd = &cobra.Command{
	Use:   "import FILE...",
	Short: "Import candidates from json or yaml files into the configured store",
	Args:  cobra.MinimumNArgs(1),
	Run: func(_ *cobra.Command, args []string) {
		importFiles(args)
	},
}

func init() {
	rootCmd.AddCommand(importCmd)
}

func importFiles(files []string) {
	ctx := context.Background()

	logger, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}
	defer logger.Sync()

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}

	st, err := store.Open(ctx, config.Store)
	if err != nil {
		logger.Fatal("opening the candidate store", zap.Error(err))
	}
	defer st.Close(ctx)

	total := 0
	for _, file := range files {
		count, err := importFile(ctx, file, st, logger)
		if err != nil {
			logger.Fatal("importing candidates", zap.String("file", file), zap.Error(err))
		}
		total += count
	}

	logger.Info("import finished", zap.Int("imported", total), zap.Int("files", len(files)))
}

// importFile checks every record before writing any of them, so a malformed file is not imported partially.
func importFile(ctx context.Context, file string, dst store.Inserter, log *zap.Logger) (int, error) {
	src, err := store.NewFile(file)
	if err != nil {
		return 0, err
	}

	records, err := src.LoadAll(ctx)
	if err != nil {
		return 0, err
	}

	if _, err := candidate.DecodeAll(records); err != nil {
		return 0, err
	}

	for _, rec := range records {
		id, err := dst.Insert(ctx, rec)
		if err != nil {
			return 0, err
		}
		log.Debug("imported candidate", zap.String("candidate_id", id), zap.String("file", file))
	}

	return len(records), nil
}
