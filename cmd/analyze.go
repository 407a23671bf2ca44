package main

import (
	"encoding/json"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/boligsjekk/boligsjekk/internal/model"
)

var (
	analyzeFull bool
	analyzeSave bool
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze <url>",
	Short: "Analyser én boligannonse",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		url := args[0]

		e, err := initEnv(analyzeSave)
		if err != nil {
			return eris.Wrap(err, "analyze: init")
		}
		defer e.Close()

		ctx := cmd.Context()

		var result *model.FullAnalysisResult
		if analyzeFull {
			result = e.Analyzer.FullAnalysis(ctx, url)
		} else {
			analysis := e.Analyzer.Analyze(ctx, url)
			result = &model.FullAnalysisResult{Analysis: *analysis}
		}

		if analyzeSave {
			if err := e.Store.Migrate(ctx); err != nil {
				return err
			}
			if err := e.Store.SaveAnalysis(ctx, result); err != nil {
				return err
			}
			zap.L().Info("analysis saved", zap.String("id", result.Analysis.ID))
		}

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return eris.Wrap(enc.Encode(result), "analyze: encode result")
	},
}

func init() {
	analyzeCmd.Flags().BoolVar(&analyzeFull, "full", false, "kjør også utvidet dokumentanalyse")
	analyzeCmd.Flags().BoolVar(&analyzeSave, "save", false, "lagre resultatet i databasen")
	rootCmd.AddCommand(analyzeCmd)
}
