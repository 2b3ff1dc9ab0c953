package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/visagekit/visage/internal/colorspace"
	"github.com/visagekit/visage/internal/pipeline"
	"github.com/visagekit/visage/internal/utils"
)

var minmaxOpts Options

var minmaxCmd = &cobra.Command{
	Use:   "minmax",
	Short: "Find the darkest and brightest pixel of a channel across a video",
	Long: `Scans every pixel of every frame and reports the full RGB color of the
first pixel holding the lowest and the highest value of the chosen channel.
No masking is involved; the whole frame counts.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.SilenceUsage = true
		return runMinmax(cmd.Context(), minmaxOpts)
	},
}

func init() {
	minmaxCmd.Flags().StringVarP(&minmaxOpts.InputPath, "input", "i", "", "Path to a video file")
	minmaxCmd.Flags().StringVarP(&minmaxOpts.FilterColor, "color", "c", "red", "Channel to rank by: red, green, blue")

	minmaxCmd.MarkFlagRequired("input")
	rootCmd.AddCommand(minmaxCmd)
}

func runMinmax(ctx context.Context, opts Options) error {
	focus, err := colorspace.ParseChannel(opts.FilterColor)
	if err != nil {
		utils.ShowError("Invalid channel", err, nil)
		return err
	}

	info, err := os.Stat(opts.InputPath)
	if err != nil {
		utils.ShowError("Unable to access input file", err, nil)
		return err
	}
	if info.IsDir() {
		err := fmt.Errorf("is a directory")
		utils.ShowError("Input path is a directory, expected a video file", err, nil)
		return err
	}

	ex, err := pipeline.RunExtremum(ctx, opts.InputPath, focus)
	if err != nil {
		utils.ShowError("Scan failed", err, nil)
		return err
	}

	fmt.Printf("\nChannel: %s\n", focus)
	if ex.MinFound {
		fmt.Printf("Min: RGB(%d, %d, %d) with %s = %d\n",
			ex.Min.R, ex.Min.G, ex.Min.B, focus, ex.Min.Channel(focus))
	} else {
		fmt.Println("Min: not found (every pixel saturates the channel)")
	}
	if ex.MaxFound {
		fmt.Printf("Max: RGB(%d, %d, %d) with %s = %d\n",
			ex.Max.R, ex.Max.G, ex.Max.B, focus, ex.Max.Channel(focus))
	} else {
		fmt.Println("Max: not found (every pixel zeroes the channel)")
	}

	if DB != nil && (ex.MinFound || ex.MaxFound) {
		if err := catalogExtremum(ctx, opts.InputPath, focus, ex); err != nil {
			utils.ShowError("Failed to catalog result", err, nil)
			return err
		}
	}
	return nil
}

func catalogExtremum(ctx context.Context, path string, focus colorspace.Channel, ex colorspace.Extrema) error {
	videoID, err := utils.GenerateVideoID(path)
	if err != nil {
		return err
	}
	// Extremum scans have no color space; catalog the raw pixel domain.
	// RegisterVideo leaves any earlier masking run's samples intact.
	if err := DB.RegisterVideo(ctx, videoID, path, "RGB"); err != nil {
		return err
	}
	return DB.InsertExtremum(ctx, videoID, focus.String(), ex)
}
