// Command aaplay plays AA animations headlessly with placeholder sprites.
//
// The played frames can be written out as an animated GIF, or previewed in
// the terminal.
package main

import (
	"flag"
	"os"

	"badc0de.net/pkg/flagutil/v1"
	"github.com/golang/glog"
	"github.com/pkg/errors"

	"badc0de.net/pkg/go-mads/anim"
	"badc0de.net/pkg/go-mads/compositor"
	"badc0de.net/pkg/go-mads/config"
	"badc0de.net/pkg/go-mads/imageprint"
	"badc0de.net/pkg/go-mads/paths"
	"badc0de.net/pkg/go-mads/scene"
	"badc0de.net/pkg/go-mads/sprites"
)

var (
	configPath = flag.String("config", "mads.ini", "path to an optional ini file with settings")
	gifOut     = flag.String("gif_out", "", "file to write the played frames to as an animated gif")
	preview    = flag.Bool("preview", true, "whether to print the played frames to the terminal")
	frame      = flag.Int("frame", -1, "print only this frame; -1 prints all of them")
	downsize   = flag.Bool("downsize", true, "whether to shrink previews to the terminal size")
	repeat     = flag.Bool("repeat", false, "whether to loop the animation until max_frames frames are played")

	_ = flag.Int("width", 0, "frame width; overrides render.width")
	_ = flag.Int("height", 0, "frame height; overrides render.height")
	_ = flag.Int("max_frames", 0, "maximum number of frames to play; overrides render.max_frames")
	_ = flag.String("print_mode", "", "terminal print mode: 24bit, 256, none, iterm or rasterm; overrides render.print_mode")
	_ = flag.Bool("blanks", true, "whether to print coloured blanks instead of ascii shading; overrides render.blanks")

	dataPath string
)

var flagKeys = map[string]string{
	"data_path":  "data.path",
	"width":      "render.width",
	"height":     "render.height",
	"max_frames": "render.max_frames",
	"print_mode": "render.print_mode",
	"blanks":     "render.blanks",
}

func play(cfg *config.Config, opener paths.Opener, name string) error {
	s := scene.New()
	defer s.Teardown()
	rec := compositor.NewRecorder(s, cfg.FrameSize())
	deps := anim.SceneDeps(s, opener, &sprites.Loader{Background: cfg.Backgrounds})
	deps.Surface = rec.Surface()
	deps.Fonts = sprites.Fonts{}

	a, err := anim.Load(deps, name, 0, nil)
	if err != nil {
		return err
	}
	defer a.Free()
	a.SetRepeat(*repeat)

	frames, delays := rec.Record(a, cfg.Render.MaxFrames)
	glog.Infof("%s: played %d frames, %d captions left up, state %v", a.Name, len(frames), a.ActiveCaptions(), a.State())

	if *preview {
		mode, err := imageprint.ParseMode(cfg.Render.PrintMode)
		if err != nil {
			return err
		}
		for i, img := range frames {
			if *frame >= 0 && i != *frame {
				continue
			}
			if err := out(img, mode, cfg.Render.Blanks); err != nil {
				return errors.Wrapf(err, "printing frame %d", i)
			}
		}
	}

	if *gifOut != "" {
		f, err := os.Create(*gifOut)
		if err != nil {
			return errors.Wrap(err, "creating gif")
		}
		if err := compositor.EncodeGIF(f, frames, delays); err != nil {
			f.Close()
			return err
		}
		if err := f.Close(); err != nil {
			return errors.Wrap(err, "writing gif")
		}
		glog.Infof("%s: wrote %s", a.Name, *gifOut)
	}
	return nil
}

func main() {
	paths.SetupDataPathFlag("data_path", &dataPath)
	flagutil.Parse()
	flag.Set("logtostderr", "true")

	cfg, err := config.Load(*configPath)
	if err != nil {
		glog.Exitf("loading config: %v", err)
	}
	if err := cfg.ApplyFlags(flag.CommandLine, flagKeys); err != nil {
		glog.Exitf("applying flags: %v", err)
	}
	if flag.NArg() != 1 {
		glog.Exitf("usage: %s [flags] RESOURCE", os.Args[0])
	}

	if err := play(cfg, paths.NewOpener(cfg.Data.Path), flag.Arg(0)); err != nil {
		glog.Exitf("%s: %v", flag.Arg(0), err)
	}
}
