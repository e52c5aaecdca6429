package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/spigell/staffmatch/internal/candidate"
	"github.com/spigell/staffmatch/internal/logger"
	"github.com/spigell/staffmatch/internal/matching"
	"github.com/spigell/staffmatch/internal/store"
)

const (
	PromptShortlist  = "Show shortlist"
	PromptAdvisory   = "Show advisory"
	PromptDumpToFile = "Dump result to file"
	PromptExit       = "Exit"
)

var errExit = errors.New("exit requested")

var prompt = promptui.Select{
	Label: "What next?",
	Items: []string{PromptShortlist, PromptAdvisory, PromptDumpToFile, PromptExit},
}

var matchCmd = &cobra.Command{
	Use:   "match",
	Short: "Match candidates from the store against the project criteria",
	Run: func(cmd *cobra.Command, _ []string) {
		match(cmd)
	},
}

func init() {
	rootCmd.AddCommand(matchCmd)

	matchCmd.Flags().StringP("skills", "s", "", "required skills, overrides project.required-skills")
	matchCmd.Flags().StringP("field", "f", "", "relevant field, overrides project.field")
	matchCmd.Flags().IntP("people-count", "n", 0, "how many people are needed, overrides project.people-count")
	matchCmd.Flags().String("duration", "", "project duration, overrides project.duration")
	matchCmd.Flags().Int("role-threshold", 0, "role similarity a candidate has to exceed (default 70)")
	matchCmd.Flags().BoolP("auto-approve", "y", false, "print the result as json and exit without the interactive menu")

	viper.BindPFlag("project.required-skills", matchCmd.Flags().Lookup("skills"))
	viper.BindPFlag("project.field", matchCmd.Flags().Lookup("field"))
	viper.BindPFlag("project.people-count", matchCmd.Flags().Lookup("people-count"))
	viper.BindPFlag("project.duration", matchCmd.Flags().Lookup("duration"))
	viper.BindPFlag("matching.role-threshold", matchCmd.Flags().Lookup("role-threshold"))
}

func match(cmd *cobra.Command) {
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

	logger.Info("starting the staffmatch", zap.String("version", version))

	// do not bother error since there is a valid parseable config
	pretty, _ := json.MarshalIndent(config, "", "  ")
	logger.Debug(fmt.Sprintf("starting with config: \n %s", pretty))

	if err := config.Project.Validate(); err != nil {
		logger.Fatal("project criteria are required under project or via flags", zap.Error(err))
	}

	st, err := store.Open(ctx, config.Store)
	if err != nil {
		logger.Fatal("opening the candidate store", zap.Error(err))
	}
	defer st.Close(ctx)

	corpus, err := candidate.Load(ctx, st)
	if err != nil {
		logger.Fatal("loading candidates", zap.Error(err), zap.String("driver", config.Store.Driver))
	}

	logger.Info("loaded candidates", zap.Int("count", corpus.Len()))

	advisor, err := newAdvisor(ctx, config.AI, logger)
	if err != nil {
		logger.Warn("skipping advisory", zap.Error(err))
	}

	engine := matching.New(matching.Options{
		RoleThreshold: config.Matching.RoleThreshold,
		Exclude:       config.Matching.Exclude,
		Advisor:       advisor,
	}, logger)

	result, err := engine.Match(ctx, config.Project, corpus)
	if err != nil {
		logger.Fatal("matching failed", zap.Error(err))
	}

	if result.Outcome == matching.OutcomeNoRelevantCandidates {
		logger.Info("exiting", zap.String("reason", "no relevant candidates"), zap.String("field", result.Criteria.Field))
		return
	}

	if result.AdvisoryErr != nil {
		logger.Warn("advisory is not available", zap.Error(result.AdvisoryErr))
	}

	if cmd.Flag("auto-approve").Value.String() == "true" {
		if err := printJSON(result); err != nil {
			logger.Fatal("printing result", zap.Error(err))
		}
		return
	}

	for {
		_, action, err := prompt.Run()
		if err != nil {
			logger.Fatal("exiting", zap.Error(err))
		}

		if err := handleAction(action, logger, result); err != nil {
			if errors.Is(err, errExit) {
				return
			}
			logger.Fatal("exiting", zap.Error(err))
		}
	}
}

func handleAction(action string, log *zap.Logger, result *matching.Result) error {
	switch action {
	case PromptShortlist:
		reportShortlist(log, result)
		return nil
	case PromptAdvisory:
		if result.Advisory == nil {
			log.Info("no advisory for this run", zap.NamedError("reason", result.AdvisoryErr))
			return nil
		}
		fmt.Printf("Selection:\n%s\n\nGrowth recommendations:\n%s\n", result.Advisory.Selection, result.Advisory.Growth)
		return nil
	case PromptDumpToFile:
		filename, err := dumpToTmpFile(result)
		if err != nil {
			return fmt.Errorf("dump result to file: %w", err)
		}
		log.Info("dumping result to file", zap.String("filename", filename))
		return nil
	case PromptExit:
		log.Info("exiting", zap.String("reason", "got exit from prompt"))
		return errExit
	default:
		return fmt.Errorf("invalid action: %s", action)
	}
}

func reportShortlist(log *zap.Logger, result *matching.Result) {
	log.Info("current shortlist",
		zap.Int("count", result.Shortlist.Len()),
		zap.Int("relevant", result.Relevant),
		zap.Bool("degenerate", result.Degenerate),
	)

	for _, entry := range result.Shortlist.Entries {
		log.Info("candidate",
			zap.Int("rank", entry.Rank),
			logger.CandidateID(entry.CandidateID),
			zap.String("name", entry.Name),
			zap.Float64("similarity_score", entry.Score),
		)
	}
}

func printJSON(v any) error {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}

func dumpToTmpFile(result *matching.Result) (string, error) {
	f, err := os.CreateTemp("", app+"-"+result.RunID+"-*.json")
	if err != nil {
		return "", err
	}
	defer f.Close()

	encoder := json.NewEncoder(f)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(result); err != nil {
		return "", err
	}

	return f.Name(), nil
}
