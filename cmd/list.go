package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/visagekit/visage/internal/utils"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List all cataloged videos",
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.SilenceUsage = true
		return runList(cmd)
	},
}

func init() {
	rootCmd.AddCommand(listCmd)
}

func runList(cmd *cobra.Command) error {
	videos, err := DB.ListVideos(cmd.Context())
	if err != nil {
		utils.ShowError("Failed to list videos", err, nil)
		return err
	}

	if len(videos) == 0 {
		fmt.Println("No videos found in database.")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', 0)
	fmt.Fprintln(w, "VIDEO\tCOLOR SPACE\tMEAN COLOR\tSAMPLES\tPROCESSED")
	fmt.Fprintln(w, "-----\t-----------\t----------\t-------\t---------")

	for _, v := range videos {
		mean := "-"
		if len(v.MeanColor) == 3 {
			mean = fmt.Sprintf("(%.1f, %.1f, %.1f)", v.MeanColor[0], v.MeanColor[1], v.MeanColor[2])
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%s\n",
			filepath.Base(v.Path), v.ColorSpace, mean, v.SampleCount,
			v.ProcessedAt.Local().Format("2006-01-02 15:04"))
	}
	return w.Flush()
}
