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
	"github.com/visagekit/visage/internal/utils"
)

const (
	videoOutputDir = "Video_Output"
	csvOutputDir   = "CSV_Output"
)

var maskOpts Options

var maskCmd = &cobra.Command{
	Use:   "mask",
	Short: "Black out everything outside a facial region, per frame",
	Long: `Decodes each input video, locates the face mesh frame by frame, and
re-encodes the video with all pixels outside the chosen region zeroed.
With --extract, the mean color of the region is logged per frame to a CSV
and, when a database is configured, to the catalog.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.SilenceUsage = true
		return runMask(cmd.Context(), maskOpts)
	},
}

func init() {
	maskCmd.Flags().StringVarP(&maskOpts.InputPath, "input", "i", "", "Path to a video file or a directory of videos")
	maskCmd.Flags().StringVarP(&maskOpts.OutputDir, "output", "o", "", "Directory for output folders (defaults to the input's directory)")
	maskCmd.Flags().StringVarP(&maskOpts.MaskType, "mask-type", "m", "face-oval", "Region to keep: face-oval, face-skin")
	maskCmd.Flags().StringVarP(&maskOpts.ColorSpace, "color-space", "c", "RGB", "Color space for extracted samples: RGB, HSV, GRAYSCALE")
	maskCmd.Flags().BoolVarP(&maskOpts.Extract, "extract", "e", false, "Extract per-frame mean color of the masked region")
	maskCmd.Flags().BoolVarP(&maskOpts.Recurse, "recurse", "r", false, "Recurse into subdirectories when input is a directory")

	maskCmd.MarkFlagRequired("input")
	rootCmd.AddCommand(maskCmd)
}

func runMask(ctx context.Context, opts Options) error {
	comp, err := pipeline.ParseMaskType(opts.MaskType)
	if err != nil {
		utils.ShowError("Invalid mask type", err, nil)
		return err
	}
	space, err := colorspace.ParseSpace(opts.ColorSpace)
	if err != nil {
		utils.ShowError("Invalid color space", err, nil)
		return err
	}
	proc, err := pipeline.NewProcessor(pipeline.Options{
		Mask:    comp,
		Space:   space,
		Extract: opts.Extract,
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
	csvDir := filepath.Join(baseDir, csvOutputDir)
	if opts.Extract {
		if err := utils.EnsureDir(csvDir); err != nil {
			utils.ShowError("Failed to create CSV directory", err, nil)
			return err
		}
	}

	fmt.Fprintf(os.Stderr, "📼 Masking %d video(s) with %s region\n", len(videos), opts.MaskType)

	failures := 0
	for _, path := range videos {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := maskOne(ctx, path, videoDir, csvDir, proc, space, opts.Extract); err != nil {
			// One broken file should not sink the batch.
			utils.ShowError(fmt.Sprintf("Failed to process %s", filepath.Base(path)), err, nil)
			failures++
		}
	}

	fmt.Fprintf(os.Stderr, "\n🏁 Done. %d processed, %d failed.\n", len(videos)-failures, failures)
	if failures > 0 {
		return fmt.Errorf("%d of %d videos failed", failures, len(videos))
	}
	return nil
}

func maskOne(ctx context.Context, path, videoDir, csvDir string, proc *pipeline.Processor, space colorspace.Space, extract bool) error {
	stem := videoStem(path)
	outPath := filepath.Join(videoDir, stem+"_masked.mp4")

	var csvw *colorspace.SampleWriter
	if extract {
		var err error
		csvPath := filepath.Join(csvDir, fmt.Sprintf("%s_%s.csv", stem, space))
		csvw, err = colorspace.NewSampleWriter(csvPath, space)
		if err != nil {
			return err
		}
		defer csvw.Close()
	}

	res, err := pipeline.Run(ctx, Log, path, outPath, proc, csvw)
	if err != nil {
		return err
	}
	if csvw != nil {
		if err := csvw.Close(); err != nil {
			return err
		}
	}

	Log.Info("video processed",
		"video", filepath.Base(path),
		"frames", res.FramesRead,
		"skipped", res.Skipped,
		"output", outPath)

	if DB != nil {
		if err := catalogRun(ctx, path, space, res); err != nil {
			return err
		}
	}
	return nil
}

// catalogRun persists one run's samples and mean color to the database.
func catalogRun(ctx context.Context, path string, space colorspace.Space, res *pipeline.Result) error {
	videoID, err := utils.GenerateVideoID(path)
	if err != nil {
		return err
	}
	if err := DB.EnsureVideo(ctx, videoID, path, space.String()); err != nil {
		return err
	}
	if len(res.Samples) == 0 {
		return nil
	}
	if err := DB.InsertSamples(ctx, videoID, res.Samples); err != nil {
		return err
	}
	if mean := meanOfSamples(res.Samples); mean != nil {
		if err := DB.SetMeanColor(ctx, videoID, mean); err != nil {
			return err
		}
	}
	return nil
}

// meanOfSamples averages the non-empty samples channel-wise. Returns nil
// when every frame's mask was empty.
func meanOfSamples(samples []colorspace.Sample) []float64 {
	sum := make([]float64, 3)
	count := 0
	for _, s := range samples {
		if s.Empty {
			continue
		}
		for i, v := range s.Channels {
			sum[i] += v
		}
		count++
	}
	if count == 0 {
		return nil
	}
	for i := range sum {
		sum[i] /= float64(count)
	}
	return sum
}

// resolveInputs expands the input path to the list of videos to process and
// the directory output folders are created under.
func resolveInputs(path string, recurse bool) ([]string, string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, "", err
	}
	if info.IsDir() {
		videos, err := utils.ListVideoFiles(path, recurse)
		return videos, path, err
	}
	return []string{path}, filepath.Dir(path), nil
}

func videoStem(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
