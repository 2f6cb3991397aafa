package remux

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"mkvlang/internal/logging"
	"mkvlang/internal/media/ffprobe"
)

// minOutputBytes rejects outputs that are a container header and nothing
// else.
const minOutputBytes = 10000

// Remuxer converts containers to MKV in place: the output lands next to the
// input with an .mkv extension and the original is removed on success.
type Remuxer struct {
	FFmpeg   string
	FFprobe  string
	MKVMerge string
	DryRun   bool
	Logger   *slog.Logger
}

type strategy struct {
	name string
	args func(input, output string, probe ffprobe.Result) (binary string, argv []string)
}

// supportedSubtitleCodecs lists codecs Matroska can carry without
// conversion. Anything else is dropped by the selective-copy strategies.
var supportedSubtitleCodecs = map[string]bool{
	"subrip": true, "srt": true, "ass": true, "ssa": true,
	"webvtt": true, "mov_text": true,
	"pgs": true, "dvdsub": true, "dvbsub": true, "hdmv_pgs_subtitle": true,
}

// ToMKV ensures path points at a Matroska container. MKV inputs pass through;
// an existing sibling .mkv short-circuits; otherwise the strategies run in
// order until one produces a valid file. The returned path is the container
// to process.
func (r *Remuxer) ToMKV(ctx context.Context, path string) (string, error) {
	if strings.EqualFold(filepath.Ext(path), ".mkv") {
		return path, nil
	}

	log := logging.NewComponentLogger(r.Logger, "remux")
	output := strings.TrimSuffix(path, filepath.Ext(path)) + ".mkv"

	if _, err := os.Stat(output); err == nil {
		log.Info("mkv version already exists", logging.String("path", output))
		return output, nil
	}

	if r.DryRun {
		log.Info("dry run: would remux to mkv",
			logging.String("input", path),
			logging.String("output", output),
		)
		return output, nil
	}

	probe, err := ffprobe.Inspect(ctx, r.FFprobe, path)
	if err != nil {
		log.Debug("input probe failed, using generic strategies", logging.Error(err))
	}

	for _, s := range r.strategies(path) {
		binary, argv := s.args(path, output, probe)
		if binary == "" {
			continue
		}

		log.Debug("trying remux strategy", logging.String("strategy", s.name))
		cmd := exec.CommandContext(ctx, binary, argv...)
		cmdOutput, runErr := cmd.CombinedOutput()
		if runErr != nil {
			os.Remove(output)
			log.Debug("remux strategy failed",
				logging.String("strategy", s.name),
				logging.Error(fmt.Errorf("%w: %s", runErr, strings.TrimSpace(string(cmdOutput)))),
			)
			continue
		}

		info, statErr := os.Stat(output)
		if statErr != nil || info.Size() < minOutputBytes {
			os.Remove(output)
			log.Debug("remux strategy produced empty output", logging.String("strategy", s.name))
			continue
		}
		if _, verifyErr := ffprobe.Inspect(ctx, r.FFprobe, output); verifyErr != nil {
			os.Remove(output)
			log.Debug("remuxed file failed verification",
				logging.String("strategy", s.name),
				logging.Error(verifyErr),
			)
			continue
		}

		log.Info("remuxed to mkv",
			logging.String("strategy", s.name),
			logging.String("output", output),
		)
		if removeErr := os.Remove(path); removeErr != nil {
			log.Warn("could not remove original after remux",
				logging.String("path", path),
				logging.Error(removeErr),
			)
		}
		return output, nil
	}

	return "", fmt.Errorf("remux to mkv: all strategies failed for %s", path)
}

func (r *Remuxer) strategies(input string) []strategy {
	var strategies []strategy

	if strings.TrimSpace(r.MKVMerge) != "" {
		strategies = append(strategies, strategy{
			name: "mkvmerge",
			args: func(input, output string, _ ffprobe.Result) (string, []string) {
				return r.MKVMerge, []string{"-o", output, input}
			},
		})
	}

	ffmpeg := r.FFmpeg
	if strings.TrimSpace(ffmpeg) == "" {
		ffmpeg = "ffmpeg"
	}

	strategies = append(strategies,
		strategy{
			name: "selective_copy",
			args: func(input, output string, probe ffprobe.Result) (string, []string) {
				args := []string{
					"-y", "-v", "warning", "-fflags", "+genpts",
					"-analyzeduration", "100M", "-probesize", "100M",
					"-i", input,
					"-c", "copy",
				}
				args = append(args, selectiveMaps(probe)...)
				args = append(args,
					"-avoid_negative_ts", "make_zero",
					"-fflags", "+discardcorrupt",
					"-map_metadata", "0",
					output,
				)
				return ffmpeg, args
			},
		},
		strategy{
			name: "convert_subtitles",
			args: func(input, output string, _ ffprobe.Result) (string, []string) {
				return ffmpeg, []string{
					"-y", "-v", "warning", "-fflags", "+genpts",
					"-i", input,
					"-map", "0:v", "-c:v", "copy",
					"-map", "0:a", "-c:a", "copy",
					"-map", "0:s?", "-c:s", "srt",
					"-avoid_negative_ts", "make_zero",
					"-map_metadata", "0",
					output,
				}
			},
		},
		strategy{
			name: "no_subtitles",
			args: func(input, output string, _ ffprobe.Result) (string, []string) {
				return ffmpeg, []string{
					"-y", "-v", "warning", "-fflags", "+genpts",
					"-i", input,
					"-map", "0:v", "-c:v", "copy",
					"-map", "0:a", "-c:a", "copy",
					"-avoid_negative_ts", "make_zero",
					"-map_metadata", "0",
					output,
				}
			},
		},
	)

	return strategies
}

// selectiveMaps maps every video and audio stream plus only the subtitle
// streams Matroska supports. An empty probe yields the generic video+audio
// mapping.
func selectiveMaps(probe ffprobe.Result) []string {
	var maps []string
	for _, stream := range probe.Streams {
		switch strings.ToLower(stream.CodecType) {
		case "video", "audio":
			maps = append(maps, "-map", fmt.Sprintf("0:%d", stream.Index))
		case "subtitle":
			if supportedSubtitleCodecs[strings.ToLower(stream.CodecName)] {
				maps = append(maps, "-map", fmt.Sprintf("0:%d", stream.Index))
			}
		}
	}
	if len(maps) == 0 {
		return []string{"-map", "0:v", "-map", "0:a"}
	}
	return maps
}
