package main

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/grazeland/paddock-cli/internal/importer"
	"github.com/grazeland/paddock-cli/internal/store"
)

var (
	importFilePath string
	importDryRun   bool
)

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Import paddocks from a KML file",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		if !strings.EqualFold(filepath.Ext(importFilePath), ".kml") {
			return eris.Errorf("only .kml files are supported: %s", importFilePath)
		}

		data, err := os.ReadFile(importFilePath)
		if err != nil {
			return eris.Wrapf(err, "read %s", importFilePath)
		}

		var st store.Store
		if !importDryRun {
			st, err = openStore(ctx)
			if err != nil {
				return err
			}
			defer st.Close()
		}

		imp := importer.New(st, importer.Options{
			DefaultName: cfg.Import.DefaultName,
			DryRun:      importDryRun,
		})

		summary, err := imp.Run(ctx, data)
		if err != nil {
			return eris.Wrap(err, "import kml")
		}

		zap.L().Info("import complete",
			zap.String("file", importFilePath),
			zap.Bool("dry_run", importDryRun),
			zap.Int("imported", summary.Imported),
			zap.Int("placemarks", summary.Placemarks),
			zap.Int("polygon_placemarks", summary.PolygonPlacemarks),
			zap.Int("non_polygon_placemarks", summary.NonPolygonPlacemarks),
			zap.Any("geom_types", summary.GeomTypes),
		)
		return nil
	},
}

func init() {
	importCmd.Flags().StringVar(&importFilePath, "file", "", "path to KML file (required)")
	importCmd.Flags().BoolVar(&importDryRun, "dry-run", false, "parse and measure without persisting")
	_ = importCmd.MarkFlagRequired("file")
	rootCmd.AddCommand(importCmd)
}
