package main

import (
	"context"
	"fmt"
	"image/png"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/ivlev/camreel/internal/capture"
	"github.com/ivlev/camreel/internal/compositor"
	"github.com/ivlev/camreel/internal/config"
	"github.com/ivlev/camreel/internal/editor"
	"github.com/ivlev/camreel/internal/engine"
	"github.com/ivlev/camreel/internal/logging"
	"github.com/ivlev/camreel/internal/playback"
	"github.com/ivlev/camreel/internal/project"
	"github.com/ivlev/camreel/internal/system"
)

var (
	cfgFile    string
	verbose    bool
	libraryDir string
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:           "camreel",
	Short:         "camreel - screen recording timeline editor",
	Long:          "Edit screen and webcam recordings on a two-track timeline and export them with ffmpeg.",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		_ = godotenv.Load() // best-effort: load .env if present

		logging.Init(verbose)

		cfg, err := config.Load(cfgFile)
		if err != nil {
			return err
		}
		cmd.SetContext(config.WithConfig(cmd.Context(), cfg))
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ./camreel.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().StringVar(&libraryDir, "library", capture.DefaultLibrary(), "recordings directory")

	frameCmd.Flags().Float64("at", 0, "timeline position in ms")
	frameCmd.Flags().StringP("out", "o", "frame.png", "output PNG")

	exportCmd.Flags().String("mode", string(engine.ModeFrames), "frames | segments")
	exportCmd.Flags().StringP("out", "o", "", "output file (default: export.<format> next to the project)")

	rootCmd.AddCommand(newCmd, listCmd, frameCmd, exportCmd, autozoomCmd, previewCmd, editCmd)
}

// fail logs err once and returns it so cobra exits non-zero.
func fail(err error) error {
	log.Error().Err(err).Msg("command failed")
	return err
}

// recordingDir resolves an optional argument, defaulting to the newest
// directory in the library that contains name.
func recordingDir(args []string, name string) (string, error) {
	if len(args) > 0 {
		return args[0], nil
	}
	return system.FindLatestProject(libraryDir, name)
}

func loadProject(args []string) (*project.Project, error) {
	path, err := recordingDir(args, project.FileName)
	if err != nil {
		return nil, err
	}
	return project.Load(path)
}

func newEngine(ctx context.Context) (*engine.Engine, error) {
	return engine.New(ctx, config.FromContext(ctx), logging.WithComponent("engine"))
}

func newController(ctx context.Context, p *project.Project) *editor.Controller {
	cfg := config.FromContext(ctx)
	return editor.New(p, editor.OptionsFromConfig(cfg.Editor, logging.WithComponent("editor")))
}

var newCmd = &cobra.Command{
	Use:   "new [recording dir]",
	Short: "Create a project for a recording",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dir, err := recordingDir(args, capture.MetaFileName)
		if err != nil {
			return fail(err)
		}
		eng, err := newEngine(cmd.Context())
		if err != nil {
			return fail(err)
		}
		p, err := eng.CreateProject(cmd.Context(), dir)
		if err != nil {
			return fail(err)
		}
		fmt.Println(p.Path)
		return nil
	},
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List recordings, newest first",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		recordings, err := capture.List(libraryDir, logging.WithComponent("library"))
		if err != nil {
			return fail(err)
		}
		for _, r := range recordings {
			fmt.Printf("%s\t%s\t%s\t%.1f MB\n",
				r.Name,
				r.RecordedAt.Local().Format("2006-01-02 15:04"),
				time.Duration(r.Duration*float64(time.Millisecond)).Round(time.Second),
				float64(r.FileSize)/(1<<20),
			)
		}
		return nil
	},
}

var frameCmd = &cobra.Command{
	Use:   "frame [project]",
	Short: "Render one composited frame to PNG",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		at, _ := cmd.Flags().GetFloat64("at")
		out, _ := cmd.Flags().GetString("out")

		p, err := loadProject(args)
		if err != nil {
			return fail(err)
		}
		eng, err := newEngine(cmd.Context())
		if err != nil {
			return fail(err)
		}
		img, err := eng.RenderFrame(cmd.Context(), p, at)
		if err != nil {
			return fail(err)
		}

		f, err := os.Create(out)
		if err != nil {
			return fail(err)
		}
		defer f.Close()
		if err := png.Encode(f, img); err != nil {
			return fail(fmt.Errorf("encode %s: %w", out, err))
		}
		log.Info().Str("output", out).Float64("at", at).Msg("frame written")
		return nil
	},
}

var exportCmd = &cobra.Command{
	Use:   "export [project]",
	Short: "Export a project to a video file",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		mode, _ := cmd.Flags().GetString("mode")
		out, _ := cmd.Flags().GetString("out")

		p, err := loadProject(args)
		if err != nil {
			return fail(err)
		}
		eng, err := newEngine(cmd.Context())
		if err != nil {
			return fail(err)
		}
		if out == "" {
			out = filepath.Join(p.Dir(), "export."+eng.Config.Export.Format)
		}

		step := -1
		res := eng.Export(cmd.Context(), p, out, engine.Mode(mode), func(pct float64) {
			if s := int(pct) / 10; s > step {
				step = s
				log.Info().Msgf("[>] %3.0f%%", pct)
			}
		})
		if !res.Success {
			return fail(res.Error)
		}
		fmt.Println(out)
		return nil
	},
}

var autozoomCmd = &cobra.Command{
	Use:   "autozoom [project]",
	Short: "Replace the zoom track with zooms planned from recorded clicks",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := loadProject(args)
		if err != nil {
			return fail(err)
		}
		eng, err := newEngine(cmd.Context())
		if err != nil {
			return fail(err)
		}
		kfs, err := eng.PlanZoom(cmd.Context(), p)
		if err != nil {
			return fail(err)
		}

		newController(cmd.Context(), p).ReplaceZoomKeyframes(kfs)
		if err := project.Save(p, p.Path); err != nil {
			return fail(err)
		}
		log.Info().Int("keyframes", len(kfs)).Str("project", p.Path).Msg("zoom track replaced")
		return nil
	},
}

var previewCmd = &cobra.Command{
	Use:   "preview [project]",
	Short: "Play the timeline and log what the compositor shows",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := loadProject(args)
		if err != nil {
			return fail(err)
		}
		cfg := config.FromContext(cmd.Context())
		plog := logging.WithComponent("preview")

		var lastScreen string
		var lastSecond = -1
		onFrame := func(f compositor.Frame) {
			screen := ""
			if f.Screen != nil {
				screen = f.Screen.Clip.ID
			}
			if sec := int(f.Time / 1000); sec != lastSecond || screen != lastScreen {
				lastSecond, lastScreen = sec, screen
				ev := plog.Info().Float64("time", f.Time).Str("screen", screen).Float64("zoom", f.Zoom.Scale)
				if f.HasLayout {
					ev = ev.Str("layout", string(f.Layout.Type))
				}
				ev.Int("texts", len(f.Text)).Msg("frame")
			}
		}

		pl := playback.New(newController(cmd.Context(), p), cfg.Playback.Tick, onFrame, plog)
		if err := pl.Run(cmd.Context()); err != nil && cmd.Context().Err() == nil {
			return fail(err)
		}
		return nil
	},
}
