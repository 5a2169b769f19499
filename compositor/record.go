package compositor

import (
	"image"
	"image/draw"

	"github.com/golang/glog"

	"badc0de.net/pkg/go-mads/anim"
	"badc0de.net/pkg/go-mads/scene"
)

// Recorder plays animations into a scene and keeps a picture of every
// frame played.
type Recorder struct {
	Scene *scene.Scene
	Size  image.Point

	// Background is drawn under every frame. Manually placed sprites are
	// drawn into it.
	Background *image.RGBA

	// OnFrame, if set, is called for every recorded frame before it is
	// rendered, while the render list still holds its erase entries.
	OnFrame func(a *anim.Animation)
}

// NewRecorder returns a recorder for frames of the given size, with a
// background filled with palette entry 0.
func NewRecorder(s *scene.Scene, size image.Point) *Recorder {
	bg := image.NewRGBA(image.Rectangle{Max: size})
	draw.Draw(bg, bg.Bounds(), image.NewUniform(s.Palette.Entry(0)), image.ZP, draw.Src)
	return &Recorder{Scene: s, Size: size, Background: bg}
}

// Surface returns the surface manual sprites should be drawn on. Set it as
// anim.Deps.Surface before loading.
func (r *Recorder) Surface() *Surface {
	return &Surface{Dst: r.Background}
}

// Record starts a and renders each frame it plays, up to max frames. delays
// holds how long each frame stays up, in GIF delay units.
func (r *Recorder) Record(a *anim.Animation, max int) (frames []image.Image, delays []int) {
	a.Start(0)
	for len(frames) < max {
		due := a.NextFrameDue()
		r.Scene.Clock.Set(due)
		a.Update()
		if a.State() != anim.StatePlaying {
			break
		}
		if r.OnFrame != nil {
			r.OnFrame(a)
		}
		frames = append(frames, Render(r.Scene, r.Background, r.Size))
		delays = append(delays, TicksToDelay(int(a.NextFrameDue()-due)))
	}
	glog.V(1).Infof("recorded %d frames of %s", len(frames), a.Name)
	return frames, delays
}
