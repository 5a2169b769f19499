// Command aadump prints the contents of AA animation resources.
package main

import (
	"flag"
	"fmt"
	"image"
	"io"
	"os"

	"badc0de.net/pkg/flagutil/v1"
	"github.com/bradfitz/iter"
	"github.com/common-nighthawk/go-figure"
	"github.com/golang/glog"
	"github.com/pkg/errors"

	"badc0de.net/pkg/go-mads/aa"
	"badc0de.net/pkg/go-mads/anim"
	"badc0de.net/pkg/go-mads/config"
	"badc0de.net/pkg/go-mads/madspack"
	"badc0de.net/pkg/go-mads/paths"
	"badc0de.net/pkg/go-mads/scene"
	"badc0de.net/pkg/go-mads/sprites"
)

var (
	configPath = flag.String("config", "mads.ini", "path to an optional ini file with settings")
	items      = flag.Bool("items", false, "whether to print the container's item table")
	records    = flag.Bool("records", true, "whether to print every record, not just the header")
	banner     = flag.Bool("banner", false, "whether to print each resource name as an ascii art banner")

	dataPath string
)

func dumpItems(w io.Writer, opener paths.Opener, name string) error {
	f, err := opener.Open(name)
	if err != nil {
		return err
	}
	defer f.Close()
	pack, err := madspack.Open(f)
	if err != nil {
		return err
	}
	for i := range iter.N(pack.Count()) {
		it, err := pack.Info(i)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "item %d: hash %04x, size %d, compressed size %d, compressed %v\n", i, it.Hash, it.Size, it.CompressedSize, it.Compressed)
	}
	return nil
}

func dumpHeader(w io.Writer, h *aa.Header) {
	fmt.Fprintf(w, "mode:          %v (%d)\n", h.Mode(), h.AnimMode)
	fmt.Fprintf(w, "flags:         %#02x (custom font %v)\n", int(h.Flags), h.HasCustomFont())
	fmt.Fprintf(w, "room:          %d\n", h.RoomNumber)
	fmt.Fprintf(w, "manual:        %v (sprite set %d)\n", h.ManualFlag, h.SpritesIndex)
	fmt.Fprintf(w, "scroll:        %v every %d ticks\n", h.ScrollPosition, h.ScrollTicks)
	fmt.Fprintf(w, "interface:     %q\n", h.InterfaceFile)
	for i, n := range h.SpriteSetNames {
		fmt.Fprintf(w, "sprite set %d:  %q\n", i, n)
	}
	fmt.Fprintf(w, "lbm:           %q\n", h.LbmFilename)
	fmt.Fprintf(w, "sprites:       %q\n", h.SpritesFilename)
	fmt.Fprintf(w, "sound:         %q\n", h.SoundName)
	fmt.Fprintf(w, "dsr:           %q\n", h.DsrName)
	fmt.Fprintf(w, "font:          %q\n", h.FontResource)
}

func dumpRecords(w io.Writer, a *anim.Animation) {
	for i, m := range a.Messages() {
		fmt.Fprintf(w, "message %d: frames %d-%d at %v sound %d colours %v/%v flags %#x: %q\n",
			i, m.StartFrame, m.EndFrame, m.Pos, m.SoundID, m.RGB1, m.RGB2, m.Flags, m.Text)
	}
	for i, e := range a.FrameEntries() {
		s := e.Slot
		fmt.Fprintf(w, "frame entry %d: frame %d seq %d: set %d frame %d at %v depth %d scale %d\n",
			i, e.FrameNumber, e.SeqIndex, s.SpritesIndex, s.FrameNumber, s.Position, s.Depth, s.Scale)
	}
	for i, m := range a.MiscEntries() {
		fmt.Fprintf(w, "misc entry %d: %d ticks, sound %d, message %d, adjust %v\n",
			i, m.NumTicks, m.SoundID, m.MsgIndex, m.PosAdjust)
	}
}

func dump(w io.Writer, opener paths.Opener, name string) error {
	name = anim.ResourceName(name)
	if *banner {
		fmt.Fprint(w, figure.NewFigure(name, "", true).String())
	}
	fmt.Fprintf(w, "== %s\n", name)
	if *items {
		if err := dumpItems(w, opener, name); err != nil {
			return errors.Wrap(err, "reading item table")
		}
	}

	flags := anim.LoadFlags(0)
	if !*records {
		flags |= anim.LoadNoData
	}
	// Only the sprite set indexes need to resolve.
	deps := anim.SceneDeps(scene.New(), opener, &sprites.Loader{Size: image.Pt(1, 1)})
	deps.Fonts = sprites.Fonts{}
	a, err := anim.Load(deps, name, flags, nil)
	if err != nil {
		return err
	}
	defer a.Free()

	dumpHeader(w, a.Header)
	if *records {
		dumpRecords(w, a)
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
	if err := cfg.ApplyFlags(flag.CommandLine, map[string]string{"data_path": "data.path"}); err != nil {
		glog.Exitf("applying flags: %v", err)
	}

	opener := paths.NewOpener(cfg.Data.Path)
	failed := false
	for _, name := range flag.Args() {
		if err := dump(os.Stdout, opener, name); err != nil {
			glog.Errorf("%s: %v", name, err)
			failed = true
		}
	}
	if failed {
		os.Exit(1)
	}
}
