package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/chauffeurhq/tripflow/internal/config"
	"github.com/chauffeurhq/tripflow/pkg/extract"
	"github.com/chauffeurhq/tripflow/pkg/trip"
)

var (
	reconcileTripFile   string
	reconcileUpdateFile string
	reconcileText       string
	reconcileTripOnly   bool
)

var reconcileCmd = &cobra.Command{
	Use:   "reconcile",
	Short: "Merge an update proposal into a trip",
	Long: `Reconcile merges one extracted update into the current trip and prints
the full decision record: per-waypoint actions, the trip-level field report,
reasoning notes and the new canonical trip.

The update comes either from a JSON file (--update) or from raw text
(--text), in which case the Gemini extractor converts it first.`,
	Example: `  tripflow reconcile --trip trip.yaml --update update.json
  tripflow reconcile --trip trip.yaml --text "skip the hotel stop"`,
	RunE: runReconcile,
}

func init() {
	rootCmd.AddCommand(reconcileCmd)

	reconcileCmd.Flags().StringVar(&reconcileTripFile, "trip", "", "current trip file (YAML or JSON)")
	reconcileCmd.Flags().StringVar(&reconcileUpdateFile, "update", "", "extracted update JSON file")
	reconcileCmd.Flags().StringVar(&reconcileText, "text", "", "raw update text, extracted via Gemini")
	reconcileCmd.Flags().BoolVar(&reconcileTripOnly, "trip-only", false, "print only the new trip, not the decision record")
	_ = reconcileCmd.MarkFlagRequired("trip")
	reconcileCmd.MarkFlagsMutuallyExclusive("update", "text")
	reconcileCmd.MarkFlagsOneRequired("update", "text")
}

func runReconcile(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	current, err := loadTrip(reconcileTripFile)
	if err != nil {
		return err
	}

	var update *trip.ExtractedUpdate
	if reconcileUpdateFile != "" {
		if update, err = loadUpdate(reconcileUpdateFile); err != nil {
			return err
		}
	} else {
		extractor, err := extract.NewGemini(ctx, config.GeminiAPIKey())
		if err != nil {
			return err
		}
		if update, err = extractor.Extract(ctx, reconcileText, current); err != nil {
			return err
		}
	}

	engine, err := buildEngine()
	if err != nil {
		return err
	}

	result, err := engine.Reconcile(ctx, current, update)
	if err != nil {
		return err
	}

	fmt.Fprintln(cmd.ErrOrStderr(), result.Summary())
	if reconcileTripOnly {
		return printJSON(result.Trip)
	}
	return printJSON(result)
}
