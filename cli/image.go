package cli

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/ByLCY/stylus/compose"
	"github.com/ByLCY/stylus/escpos"
	"github.com/ByLCY/stylus/raster"
)

var imageDeviceFlag string

var imageCmd = &cobra.Command{
	Use:   "image <file>...",
	Short: "Print image files scaled to the printer width",
	Long: "image prints standalone image files, bypassing the record layout:\n" +
		"each file is scaled to the printer width, dithered, and framed.",
	Args: cobra.MinimumNArgs(1),
	RunE: runImage,
}

func init() {
	imageCmd.Flags().StringVar(&imageDeviceFlag, "device", "", "printer device path (overrides profile)")
	RootCmd.AddCommand(imageCmd)
}

func runImage(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	device := cfg.Device
	if imageDeviceFlag != "" {
		device = imageDeviceFlag
	}

	sink, err := os.OpenFile(device, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("open printer device: %w", err)
	}
	defer sink.Close()

	printer := escpos.NewPrinter(sink, time.Duration(cfg.WriteDelay))
	width := cfg.Geometry().Width

	for _, path := range args {
		img, err := compose.LoadImage(path)
		if err != nil {
			return err
		}
		bitmap := raster.Render(compose.FitWidth(img, width))
		if err := printer.Print(bitmap); err != nil {
			return fmt.Errorf("image %s: %w", path, err)
		}
		slog.Info("printed image",
			"file", path,
			"height", bitmap.H,
			"bytes", len(bitmap.Pix))
	}
	return nil
}
