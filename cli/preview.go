package cli

import (
	"fmt"
	"image/png"
	"os"

	"github.com/spf13/cobra"

	"github.com/ByLCY/stylus/compose"
	"github.com/ByLCY/stylus/feed"
	"github.com/ByLCY/stylus/raster"
	"github.com/ByLCY/stylus/typeface"
)

var (
	previewOut   string
	previewIndex int
)

var previewCmd = &cobra.Command{
	Use:   "preview <spool-file>",
	Short: "Render one record to a PNG instead of the printer",
	Long:  "preview runs the full render pipeline including dithering, then saves the monochrome result as a PNG for layout checking.",
	Args:  cobra.ExactArgs(1),
	RunE:  runPreview,
}

func init() {
	previewCmd.Flags().StringVarP(&previewOut, "out", "o", "preview.png", "output PNG path")
	previewCmd.Flags().IntVar(&previewIndex, "index", 0, "record index within the spool file")
	RootCmd.AddCommand(previewCmd)
}

func runPreview(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	f, err := os.Open(args[0])
	if err != nil {
		return err
	}
	records, err := feed.Parse(f)
	f.Close()
	if err != nil {
		return fmt.Errorf("parse %s: %w", args[0], err)
	}
	if previewIndex < 0 || previewIndex >= len(records) {
		return fmt.Errorf("index %d out of range: spool has %d record(s)", previewIndex, len(records))
	}
	rec := records[previewIndex]

	faces, err := typeface.Load(cfg.TypefaceOptions())
	if err != nil {
		return err
	}
	img, err := compose.Compose(rec, faces, cfg.Geometry())
	if err != nil {
		return err
	}
	bitmap := raster.Render(img)

	out, err := os.Create(previewOut)
	if err != nil {
		return err
	}
	defer out.Close()
	if err := png.Encode(out, bitmap.GrayImage()); err != nil {
		return fmt.Errorf("encode preview: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "wrote %s (%dx%d, %d bytes/row)\n",
		previewOut, bitmap.W, bitmap.H, bitmap.BytesPerRow)
	return nil
}
