package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/visagekit/visage/internal/types"
	"github.com/visagekit/visage/internal/utils"
)

var similarLimit int

var similarCmd = &cobra.Command{
	Use:   "similar <r> <g> <b>",
	Short: "Rank cataloged videos by mean-color similarity to a query color",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.SilenceUsage = true
		return runSimilar(cmd, args)
	},
}

func init() {
	similarCmd.Flags().IntVarP(&similarLimit, "limit", "l", 10, "Maximum number of results")
	rootCmd.AddCommand(similarCmd)
}

func runSimilar(cmd *cobra.Command, args []string) error {
	vec := make([]float64, 3)
	for i, a := range args {
		v, err := strconv.ParseFloat(a, 64)
		if err != nil {
			err = fmt.Errorf("%w: channel value %q is not a number", types.ErrConfiguration, a)
			utils.ShowError("Invalid query color", err, nil)
			return err
		}
		vec[i] = v
	}

	matches, err := DB.FindSimilarMeanColor(cmd.Context(), vec, similarLimit)
	if err != nil {
		utils.ShowError("Similarity search failed", err, nil)
		return err
	}

	if len(matches) == 0 {
		fmt.Println("No videos with a recorded mean color.")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', 0)
	fmt.Fprintln(w, "VIDEO\tMEAN COLOR\tDISTANCE")
	fmt.Fprintln(w, "-----\t----------\t--------")

	for _, m := range matches {
		mean := "-"
		if len(m.MeanColor) == 3 {
			mean = fmt.Sprintf("(%.1f, %.1f, %.1f)", m.MeanColor[0], m.MeanColor[1], m.MeanColor[2])
		}
		fmt.Fprintf(w, "%s\t%s\t%.4f\n", filepath.Base(m.Path), mean, m.Distance)
	}
	return w.Flush()
}
