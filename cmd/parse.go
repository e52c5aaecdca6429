package cmd

import (
	"context"
	"log"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/spigell/staffmatch/internal/ai/gemini"
	"github.com/spigell/staffmatch/internal/cvtext"
	"github.com/spigell/staffmatch/internal/logger"
	"github.com/spigell/staffmatch/internal/store"
)

var parseCmd = &cobra.Command{
	Use:   "parse FILE",
	Short: "Structure a text or html CV into a candidate record with Gemini",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		parse(cmd, args[0])
	},
}

func init() {
	rootCmd.AddCommand(parseCmd)

	parseCmd.Flags().Bool("save", false, "insert the parsed candidate into the configured store")
}

func parse(cmd *cobra.Command, file string) {
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

	data, err := os.ReadFile(file)
	if err != nil {
		logger.Fatal("reading cv", zap.String("file", file), zap.Error(err))
	}

	text, err := cvtext.Extract(file, data)
	if err != nil {
		logger.Fatal("extracting cv text", zap.String("file", file), zap.Error(err))
	}

	var geminiCfg *GeminiConfig
	if config.AI != nil {
		geminiCfg = config.AI.Gemini
	}

	generator, err := newGeminiGenerator(ctx, geminiCfg, logger)
	if err != nil {
		logger.Fatal("building gemini generator", zap.Error(err))
	}

	parser := gemini.NewParser(generator, geminiCfg.MaxLogLength, logger)

	record, err := parser.Parse(ctx, text)
	if err != nil {
		logger.Fatal("parsing cv", zap.String("file", file), zap.Error(err))
	}

	if save, _ := cmd.Flags().GetBool("save"); !save {
		if err := printJSON(record); err != nil {
			logger.Fatal("printing record", zap.Error(err))
		}
		return
	}

	st, err := store.Open(ctx, config.Store)
	if err != nil {
		logger.Fatal("opening the candidate store", zap.Error(err))
	}
	defer st.Close(ctx)

	id, err := st.Insert(ctx, record)
	if err != nil {
		logger.Fatal("saving candidate", zap.Error(err))
	}

	logger.Info("saved candidate", zap.String("candidate_id", id), zap.String("driver", config.Store.Driver))
}
