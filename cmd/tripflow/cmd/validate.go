package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var validateTripFile string

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check a trip's coordinate consistency",
	Long: `Validate runs the coordinate-consistency checks over every waypoint of a
trip without repairing anything: null coordinates, truncated addresses, and
address/geometry mismatches against the region's reference data.`,
	RunE: runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)

	validateCmd.Flags().StringVar(&validateTripFile, "trip", "", "trip file (YAML or JSON)")
	_ = validateCmd.MarkFlagRequired("trip")
}

func runValidate(cmd *cobra.Command, _ []string) error {
	t, err := loadTrip(validateTripFile)
	if err != nil {
		return err
	}

	engine, err := buildEngine()
	if err != nil {
		return err
	}

	issues := engine.Check(t)
	if len(issues) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "All waypoint coordinates are consistent.")
		return nil
	}

	if err := printJSON(issues); err != nil {
		return err
	}
	return fmt.Errorf("%d waypoints need coordinate repair", len(issues))
}
