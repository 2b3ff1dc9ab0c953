package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/visagekit/visage/internal/colorspace"
	"github.com/visagekit/visage/internal/pipeline"
	"github.com/visagekit/visage/internal/types"
	"github.com/visagekit/visage/internal/utils"
)

var filterOpts Options

var filterCmd = &cobra.Command{
	Use:   "filter",
	Short: "Blend a primary color over a facial region",
	Long: `Re-encodes each input video with the chosen primary color alpha-blended
over the smoothed facial region. Pixels outside the region pass through
untouched.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.SilenceUsage = true
		return runFilter(cmd.Context(), filterOpts)
	},
}

func init() {
	filterCmd.Flags().StringVarP(&filterOpts.InputPath, "input", "i", "", "Path to a video file or a directory of videos")
	filterCmd.Flags().StringVarP(&filterOpts.OutputDir, "output", "o", "", "Directory for output folders (defaults to the input's directory)")
	filterCmd.Flags().StringVarP(&filterOpts.FilterColor, "color", "c", "red", "Overlay color: red, green, blue")
	filterCmd.Flags().Float64VarP(&filterOpts.FilterAlpha, "alpha", "a", 0.5, "Overlay opacity in [0,1]")
	filterCmd.Flags().StringVar(&filterOpts.Region, "region", "face-skin", "Region to tint: face-skin, cheeks")
	filterCmd.Flags().BoolVarP(&filterOpts.Recurse, "recurse", "r", false, "Recurse into subdirectories when input is a directory")

	filterCmd.MarkFlagRequired("input")
	rootCmd.AddCommand(filterCmd)
}

// parseFilterColor maps a primary color name to its saturated RGB value.
func parseFilterColor(s string) (colorspace.Color, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "red":
		return colorspace.Color{R: 255}, nil
	case "green":
		return colorspace.Color{G: 255}, nil
	case "blue":
		return colorspace.Color{B: 255}, nil
	}
	return colorspace.Color{}, fmt.Errorf("%w: filter color %q (want red, green or blue)", types.ErrConfiguration, s)
}

func runFilter(ctx context.Context, opts Options) error {
	color, err := parseFilterColor(opts.FilterColor)
	if err != nil {
		utils.ShowError("Invalid filter color", err, nil)
		return err
	}
	comp, err := pipeline.ParseOverlayRegion(opts.Region)
	if err != nil {
		utils.ShowError("Invalid region", err, nil)
		return err
	}
	proc, err := pipeline.NewProcessor(pipeline.Options{
		Overlay: &pipeline.Overlay{
			Color:  color,
			Alpha:  opts.FilterAlpha,
			Region: comp,
		},
	})
	if err != nil {
		utils.ShowError("Invalid configuration", err, nil)
		return err
	}

	videos, baseDir, err := resolveInputs(opts.InputPath, opts.Recurse)
	if err != nil {
		utils.ShowError("Failed to resolve input", err, nil)
		return err
	}
	if len(videos) == 0 {
		fmt.Fprintln(os.Stderr, "❌ No video files found.")
		return nil
	}
	if opts.OutputDir != "" {
		baseDir = opts.OutputDir
	}

	videoDir := filepath.Join(baseDir, videoOutputDir)
	if err := utils.EnsureDir(videoDir); err != nil {
		utils.ShowError("Failed to create output directory", err, nil)
		return err
	}

	fmt.Fprintf(os.Stderr, "🎨 Filtering %d video(s): %s over %s (alpha %.2f)\n",
		len(videos), opts.FilterColor, opts.Region, opts.FilterAlpha)

	failures := 0
	for _, path := range videos {
		if err := ctx.Err(); err != nil {
			return err
		}
		outPath := filepath.Join(videoDir, videoStem(path)+"_color_filter.mp4")
		res, err := pipeline.Run(ctx, Log, path, outPath, proc, nil)
		if err != nil {
			utils.ShowError(fmt.Sprintf("Failed to process %s", filepath.Base(path)), err, nil)
			failures++
			continue
		}
		Log.Info("video filtered",
			"video", filepath.Base(path),
			"frames", res.FramesRead,
			"skipped", res.Skipped,
			"output", outPath)
	}

	fmt.Fprintf(os.Stderr, "\n🏁 Done. %d processed, %d failed.\n", len(videos)-failures, failures)
	if failures > 0 {
		return fmt.Errorf("%d of %d videos failed", failures, len(videos))
	}
	return nil
}
