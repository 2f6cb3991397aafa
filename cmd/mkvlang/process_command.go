package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"mkvlang/internal/deps"
	"mkvlang/internal/media/remux"
	"mkvlang/internal/metadata"
	"mkvlang/internal/processor"
	"mkvlang/internal/services/tesseract"
	"mkvlang/internal/services/whisper"
	"mkvlang/internal/subtitles"
	"mkvlang/internal/tracker"
)

func newProcessCommand(ctx *commandContext) *cobra.Command {
	var (
		dryRun                bool
		force                 bool
		reprocessAll          bool
		reprocessAllSubtitles bool
		withSubtitles         bool
		forcedAnalysis        bool
		noSDH                 bool
		noTracking            bool
	)

	cmd := &cobra.Command{
		Use:   "process [paths...]",
		Short: "Detect and tag track languages in the given files or directories",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}

			if dryRun {
				cfg.Processing.DryRun = true
			}
			if force {
				cfg.Processing.ForceReprocess = true
			}
			if reprocessAll {
				cfg.Processing.ReprocessAll = true
			}
			if reprocessAllSubtitles {
				cfg.Processing.ReprocessAllSubtitles = true
			}
			if withSubtitles {
				cfg.Subtitles.Enabled = true
			}
			if forcedAnalysis {
				cfg.Subtitles.Enabled = true
				cfg.Subtitles.AnalyzeForced = true
			}
			if noSDH {
				cfg.Subtitles.DetectSDH = false
			}
			if noTracking {
				cfg.Processing.UseTracking = false
			}

			statuses := deps.CheckBinaries(deps.Required())
			if missing := deps.MissingRequired(statuses); len(missing) > 0 {
				return fmt.Errorf("missing required binaries: %s (run 'mkvlang deps')", strings.Join(missing, ", "))
			}

			if err := cfg.EnsureDirectories(); err != nil {
				return err
			}

			paths := args
			if len(paths) == 0 {
				paths = cfg.Paths.ScanDirs
			}
			files, err := processor.ScanFiles(paths, cfg.Processing.RemuxToMKV)
			if err != nil {
				return err
			}
			if len(files) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No video files found.")
				return nil
			}

			var store *tracker.Store
			if cfg.Processing.UseTracking {
				store, err = tracker.Open(cfg.TrackerDBPath())
				if err != nil {
					return err
				}
				defer store.Close()
			}

			engine := whisper.NewService(whisper.Config{
				Model:               cfg.Whisper.Model,
				Device:              cfg.Whisper.Device,
				ComputeType:         cfg.Whisper.ComputeType,
				VADSupported:        cfg.Whisper.VADSupported,
				VADMinSpeechMillis:  cfg.Whisper.VADMinSpeechMillis,
				VADMaxSpeechSeconds: cfg.Whisper.VADMaxSpeechSeconds,
			})

			var ocr *tesseract.Service
			if candidate := (&tesseract.Service{Logger: logger}); candidate.Available(cmd.Context()) {
				ocr = candidate
			}

			proc := processor.New(processor.Options{
				Config: cfg,
				Store:  store,
				Engine: engine,
				Writer: &metadata.Writer{
					DryRun: cfg.Processing.DryRun,
					Logger: logger,
				},
				Remuxer: &remux.Remuxer{
					MKVMerge: resolveOptional("mkvmerge"),
					DryRun:   cfg.Processing.DryRun,
					Logger:   logger,
				},
				OCR:          ocr,
				TextDetector: subtitles.NewTextDetector(logger),
				Logger:       logger,
			})

			summary, err := proc.Run(cmd.Context(), files)
			renderSummary(cmd.OutOrStdout(), summary)
			return err
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Report intended changes without writing")
	cmd.Flags().BoolVar(&force, "force", false, "Reprocess files even when tracked as done")
	cmd.Flags().BoolVar(&reprocessAll, "reprocess-all", false, "Analyze every audio track, not only untagged ones")
	cmd.Flags().BoolVar(&reprocessAllSubtitles, "reprocess-all-subtitles", false, "Analyze every subtitle track, not only untagged ones")
	cmd.Flags().BoolVar(&withSubtitles, "subtitles", false, "Enable subtitle track processing")
	cmd.Flags().BoolVar(&forcedAnalysis, "forced-analysis", false, "Enable forced subtitle classification (implies --subtitles)")
	cmd.Flags().BoolVar(&noSDH, "no-sdh", false, "Disable SDH detection")
	cmd.Flags().BoolVar(&noTracking, "no-tracking", false, "Disable the processed-file tracker")

	return cmd
}
