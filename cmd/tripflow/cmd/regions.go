package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/chauffeurhq/tripflow/internal/config"
	"github.com/chauffeurhq/tripflow/pkg/geo"
)

var regionsCmd = &cobra.Command{
	Use:   "regions",
	Short: "List the loaded region tables",
	Long: `Regions prints every operating region the engine knows about, with its
geocoding bias, facility count and repair distance threshold. The table comes
from --regions-file when set, otherwise from the embedded defaults.`,
	RunE: runRegions,
}

func init() {
	rootCmd.AddCommand(regionsCmd)
}

func runRegions(cmd *cobra.Command, _ []string) error {
	var (
		regions []geo.Region
		err     error
	)
	if path := config.RegionsFile(); path != "" {
		regions, err = geo.LoadRegions(path)
	} else {
		regions, err = geo.DefaultRegions()
	}
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tBIAS\tFACILITIES\tTHRESHOLD (KM)")
	for i := range regions {
		r := &regions[i]
		fmt.Fprintf(w, "%s\t%s\t%d\t%.1f\n", r.Name, r.Bias, len(r.Facilities), r.Threshold())
	}
	return w.Flush()
}
