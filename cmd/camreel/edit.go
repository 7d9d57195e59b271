package main

import (
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/ivlev/camreel/internal/editor"
	"github.com/ivlev/camreel/internal/interp"
	"github.com/ivlev/camreel/internal/keyframe"
	"github.com/ivlev/camreel/internal/project"
	"github.com/ivlev/camreel/internal/timeline"
)

var editCmd = &cobra.Command{
	Use:   "edit",
	Short: "Apply timeline edits to a project without the editor UI",
}

func init() {
	for _, c := range []*cobra.Command{splitCmd, textCmd, zoomCmd, layoutCmd, clipCmd} {
		c.Flags().Float64("at", 0, "playhead position in ms")
		editCmd.AddCommand(c)
	}

	splitCmd.Flags().String("clip", "", "clip ID (default: the screen clip under the playhead)")

	textCmd.Flags().Float64("duration", 3000, "display time in ms")
	textCmd.Flags().Float64("x", 0.5, "horizontal position, 0-1")
	textCmd.Flags().Float64("y", 0.5, "vertical position, 0-1")
	textCmd.Flags().Float64("size", 48, "font size in px at 1920 wide")
	textCmd.Flags().String("color", "#ffffff", "text color")

	zoomCmd.Flags().Float64("scale", 2, "zoom factor")
	zoomCmd.Flags().Float64("x", 0.5, "zoom center x, 0-1")
	zoomCmd.Flags().Float64("y", 0.5, "zoom center y, 0-1")
	zoomCmd.Flags().String("easing", string(interp.EaseInOut), "easing into the next keyframe")

	layoutCmd.Flags().String("type", string(keyframe.LayoutPiP), "split | pip | full_screen | full_cam")

	clipCmd.Flags().String("clip", "", "clip ID (required)")
	clipCmd.Flags().Float64("fade-in", -1, "fade-in in ms")
	clipCmd.Flags().Float64("fade-out", -1, "fade-out in ms")
	clipCmd.Flags().Float64("volume", -1, "audio gain, 0-2")
	clipCmd.Flags().Float64("opacity", -1, "opacity, 0-1")
	clipCmd.Flags().Bool("mute", false, "toggle clip audio")
	clipCmd.Flags().Bool("disable", false, "toggle clip enabled")
}

// errNotApplied is returned when the controller declined an edit. The
// reason has already been logged by its notifier.
var errNotApplied = errors.New("edit not applied")

// runEdit loads the project, positions the playhead and saves the result
// when apply succeeds.
func runEdit(cmd *cobra.Command, args []string, apply func(*cobra.Command, *editor.Controller) error) error {
	p, err := loadProject(args)
	if err != nil {
		return fail(err)
	}
	ctrl := newController(cmd.Context(), p)
	at, _ := cmd.Flags().GetFloat64("at")
	ctrl.Seek(at)

	if err := apply(cmd, ctrl); err != nil {
		return fail(err)
	}
	if err := project.Save(p, p.Path); err != nil {
		return fail(err)
	}
	log.Info().Str("edit", cmd.Name()).Str("project", p.Path).Msg("project saved")
	return nil
}

// clipAt returns the enabled clip of track under t.
func clipAt(clips timeline.Clips, track timeline.Track, t float64) (timeline.Clip, bool) {
	for _, c := range clips.Enabled() {
		if c.Track == track && t > c.StartTime && t < c.End() {
			return c, true
		}
	}
	return timeline.Clip{}, false
}

var splitCmd = &cobra.Command{
	Use:   "split [project]",
	Short: "Split a clip at the playhead",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runEdit(cmd, args, func(cmd *cobra.Command, ctrl *editor.Controller) error {
			id, _ := cmd.Flags().GetString("clip")
			if id == "" {
				p := ctrl.Project()
				c, ok := clipAt(p.Clips, timeline.TrackScreen, p.CurrentTime)
				if !ok {
					return fmt.Errorf("no screen clip at %.0fms", p.CurrentTime)
				}
				id = c.ID
			}
			ctrl.Select(id, false)
			if !ctrl.SplitAtPlayhead() {
				return errNotApplied
			}
			return nil
		})
	},
}

var textCmd = &cobra.Command{
	Use:   "text [project] <text>",
	Short: "Add a text layer at the playhead",
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		text := args[len(args)-1]
		return runEdit(cmd, args[:len(args)-1], func(cmd *cobra.Command, ctrl *editor.Controller) error {
			l := timeline.NewTextLayer(text, ctrl.Project().CurrentTime)
			l.Duration, _ = cmd.Flags().GetFloat64("duration")
			l.X, _ = cmd.Flags().GetFloat64("x")
			l.Y, _ = cmd.Flags().GetFloat64("y")
			l.FontSize, _ = cmd.Flags().GetFloat64("size")
			l.Color, _ = cmd.Flags().GetString("color")
			fmt.Println(ctrl.AddTextLayer(l))
			return nil
		})
	},
}

var zoomCmd = &cobra.Command{
	Use:   "zoom [project]",
	Short: "Set a zoom keyframe at the playhead",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runEdit(cmd, args, func(cmd *cobra.Command, ctrl *editor.Controller) error {
			kf := keyframe.Zoom{Time: ctrl.Project().CurrentTime}
			kf.Scale, _ = cmd.Flags().GetFloat64("scale")
			kf.CenterX, _ = cmd.Flags().GetFloat64("x")
			kf.CenterY, _ = cmd.Flags().GetFloat64("y")
			easing, _ := cmd.Flags().GetString("easing")
			kf.Easing = interp.Easing(easing)
			ctrl.SetZoomKeyframe(kf)
			return nil
		})
	},
}

var layoutCmd = &cobra.Command{
	Use:   "layout [project]",
	Short: "Add a layout marker at the playhead",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runEdit(cmd, args, func(cmd *cobra.Command, ctrl *editor.Controller) error {
			kind, _ := cmd.Flags().GetString("type")
			if !ctrl.AddLayoutKeyframe(keyframe.LayoutType(kind)) {
				return errNotApplied
			}
			return nil
		})
	},
}

var clipCmd = &cobra.Command{
	Use:   "clip [project]",
	Short: "Change fades, gain, opacity or state of a clip",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runEdit(cmd, args, func(cmd *cobra.Command, ctrl *editor.Controller) error {
			id, _ := cmd.Flags().GetString("clip")
			c, ok := ctrl.Project().Clips.Find(id)
			if !ok {
				return fmt.Errorf("unknown clip %q", id)
			}

			fadeIn, _ := cmd.Flags().GetFloat64("fade-in")
			fadeOut, _ := cmd.Flags().GetFloat64("fade-out")
			if fadeIn >= 0 || fadeOut >= 0 {
				if fadeIn < 0 {
					fadeIn = c.FadeIn
				}
				if fadeOut < 0 {
					fadeOut = c.FadeOut
				}
				ctrl.SetClipFades(id, fadeIn, fadeOut)
			}
			if v, _ := cmd.Flags().GetFloat64("volume"); v >= 0 {
				ctrl.SetClipVolume(id, v)
			}
			if v, _ := cmd.Flags().GetFloat64("opacity"); v >= 0 {
				ctrl.SetClipOpacity(id, v)
			}
			if mute, _ := cmd.Flags().GetBool("mute"); mute {
				ctrl.ToggleClipAudio(id)
			}
			if disable, _ := cmd.Flags().GetBool("disable"); disable {
				ctrl.ToggleClipEnabled(id)
			}
			return nil
		})
	},
}
