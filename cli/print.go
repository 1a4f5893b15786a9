package cli

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/ByLCY/stylus/compose"
	"github.com/ByLCY/stylus/escpos"
	"github.com/ByLCY/stylus/feed"
	"github.com/ByLCY/stylus/printed"
	"github.com/ByLCY/stylus/raster"
	"github.com/ByLCY/stylus/typeface"
)

var deviceFlag string

var printCmd = &cobra.Command{
	Use:   "print <spool-file>...",
	Short: "Render and print every new record from the given spool files",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runPrint,
}

func init() {
	printCmd.Flags().StringVar(&deviceFlag, "device", "", "printer device path (overrides profile)")
	RootCmd.AddCommand(printCmd)
}

func runPrint(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	device := cfg.Device
	if deviceFlag != "" {
		device = deviceFlag
	}

	store, err := printed.Open(cfg.Store)
	if err != nil {
		return err
	}
	defer store.Close()

	faces, err := typeface.Load(cfg.TypefaceOptions())
	if err != nil {
		return err
	}

	sink, err := os.OpenFile(device, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("open printer device: %w", err)
	}
	defer sink.Close()

	// All device writes go through this one printer, so frames are never
	// interleaved and records print in feed order.
	printer := escpos.NewPrinter(sink, time.Duration(cfg.WriteDelay))
	geo := cfg.Geometry()
	ctx := cmd.Context()

	skipped := 0
	for _, path := range args {
		f, err := os.Open(path)
		if err != nil {
			return err
		}
		records, err := feed.Parse(f)
		f.Close()
		if err != nil {
			return fmt.Errorf("parse %s: %w", path, err)
		}

		for _, rec := range records {
			done, err := store.Contains(ctx, rec.ID)
			if err != nil {
				return err
			}
			if done {
				slog.Debug("already printed", "id", rec.ID)
				continue
			}

			img, err := compose.Compose(rec, faces, geo)
			if err != nil {
				if errors.Is(err, compose.ErrAvatar) {
					slog.Error("skipping record", "id", rec.ID, "err", err)
					skipped++
					continue
				}
				return err
			}

			bitmap := raster.Render(img)
			if err := printer.Print(bitmap); err != nil {
				// The record may be partially on paper; leave it unmarked
				// so a retry reprints rather than silently drops it.
				return fmt.Errorf("record %s: %w", rec.ID, err)
			}
			if err := store.Mark(ctx, rec); err != nil {
				return err
			}
			slog.Info("printed",
				"id", rec.ID,
				"author", rec.Author,
				"height", bitmap.H,
				"bytes", len(bitmap.Pix))
		}
	}

	if skipped > 0 {
		return fmt.Errorf("%d record(s) skipped", skipped)
	}
	return nil
}
