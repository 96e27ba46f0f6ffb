package main

import (
	"github.com/spf13/cobra"
)

func newRootCommand() *cobra.Command {
	global := &globalFlags{}
	align := &alignFlags{}
	ctx := newCommandContext(global, align)

	rootCmd := &cobra.Command{
		Use:   "lyricalign <audio_path> <lyrics_path>",
		Short: "Force-align lyrics to audio and print per-word timings as JSON",
		Long: "lyricalign loads a speech-recognition model, aligns the lyrics text to the audio\n" +
			"and writes a JSON array of {word, start, end} objects to stdout.\n" +
			"Progress and errors go to stderr.",
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if shouldSkipConfig(cmd) {
				return nil
			}
			ctx.cmd = cmd
			_, err := ctx.ensureConfig()
			return err
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAlign(cmd, ctx, args[0], args[1])
		},
	}

	rootCmd.PersistentFlags().StringVarP(&global.config, "config", "c", "", "Configuration file path")
	rootCmd.PersistentFlags().StringVar(&global.logLevel, "log-level", "", "Log level override (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&global.logFormat, "log-format", "", "Log format override (console, json)")

	flags := rootCmd.Flags()
	flags.StringVar(&align.model, "model", "base", "Model variant to load (e.g. tiny, base, small, medium, large-v3)")
	flags.StringVar(&align.language, "language", "en", "Language hint (ISO 639 code or English name)")
	flags.StringVar(&align.backend, "backend", "stable-ts", "Alignment backend (stable-ts, whisperx)")
	flags.StringVar(&align.device, "device", "auto", "Inference device (auto, cpu, cuda)")
	flags.BoolVar(&align.convert, "convert", false, "Transcode non-WAV input to mono 16 kHz WAV with ffmpeg first")
	flags.BoolVar(&align.noCache, "no-cache", false, "Bypass the alignment cache")
	flags.Float64Var(&align.fps, "fps", 60, "Frame rate for --frames-out")
	flags.StringVar(&align.framesOut, "frames-out", "", "Also write timings with frame_start/frame_end to this file")

	rootCmd.AddCommand(newDoctorCommand(ctx))
	rootCmd.AddCommand(newConfigCommand(ctx))
	rootCmd.AddCommand(newCacheCommand(ctx))

	return rootCmd
}
