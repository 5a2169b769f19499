// Package web serves an HTTP inspector for AA resources.
//
// Animations are played headlessly with placeholder sprites on first
// request. The recording is kept for later requests for the same resource.
package web

import (
	"bytes"
	"encoding/json"
	"fmt"
	"image"
	"image/png"
	"net/http"
	"os"
	"strconv"
	"strings"
	"sync"

	"github.com/golang/glog"
	"github.com/gorilla/mux"
	"github.com/pkg/errors"
	"github.com/vincent-petithory/dataurl"
	"golang.org/x/net/trace"
	"golang.org/x/sync/singleflight"

	"badc0de.net/pkg/go-mads/aa"
	"badc0de.net/pkg/go-mads/anim"
	"badc0de.net/pkg/go-mads/compositor"
	"badc0de.net/pkg/go-mads/datafiles"
	"badc0de.net/pkg/go-mads/scene"
	"badc0de.net/pkg/go-mads/sprites"
)

// generation is part of every ETag; bump it if the output changes.
const generation = 1

type Handler struct {
	files     anim.Opener
	sprites   anim.SpriteLoader
	size      image.Point
	maxFrames int

	loads singleflight.Group

	mu         sync.Mutex
	recordings map[string]*recording
}

// NewHandler constructs a web handler that reads resources from files and
// sprite sets through loader, and records up to maxFrames frames of the
// given size per animation.
func NewHandler(files anim.Opener, loader anim.SpriteLoader, size image.Point, maxFrames int) *Handler {
	return &Handler{
		files:      files,
		sprites:    loader,
		size:       size,
		maxFrames:  maxFrames,
		recordings: make(map[string]*recording),
	}
}

type recording struct {
	name   string
	header aa.Header

	messages, frameEntries, miscEntries int

	frames []image.Image
	delays []int
	info   []frameInfo
	gif    []byte
}

type slotInfo struct {
	SpritesIndex int    `json:"sprites_index"`
	Frame        int    `json:"frame"`
	X            int    `json:"x"`
	Y            int    `json:"y"`
	Depth        int    `json:"depth"`
	Scale        int    `json:"scale"`
	SeqIndex     int    `json:"seq_index"`
	Flags        string `json:"flags"`
}

type captionInfo struct {
	X     int    `json:"x"`
	Y     int    `json:"y"`
	Color int    `json:"color"`
	Text  string `json:"text"`
}

type frameInfo struct {
	Frame    int           `json:"frame"`
	Ticks    int           `json:"ticks"`
	Slots    []slotInfo    `json:"slots"`
	Captions []captionInfo `json:"captions"`
	Image    string        `json:"image,omitempty"`
}

func (h *Handler) record(name string) (*recording, error) {
	key := strings.ToUpper(anim.ResourceName(name))

	h.mu.Lock()
	rec, ok := h.recordings[key]
	h.mu.Unlock()
	if ok {
		return rec, nil
	}

	v, err, shared := h.loads.Do(key, func() (interface{}, error) {
		return h.play(key)
	})
	if err != nil {
		return nil, err
	}
	glog.V(2).Infof("web: recording of %s ready (shared %v)", key, shared)
	rec = v.(*recording)

	h.mu.Lock()
	h.recordings[key] = rec
	h.mu.Unlock()
	return rec, nil
}

func (h *Handler) play(name string) (*recording, error) {
	tr := trace.New("web.play", name)
	defer tr.Finish()

	s := scene.New()
	defer s.Teardown()
	rec := compositor.NewRecorder(s, h.size)
	deps := anim.SceneDeps(s, h.files, h.sprites)
	deps.Surface = rec.Surface()
	deps.Fonts = sprites.Fonts{}

	a, err := anim.Load(deps, name, 0, nil)
	if err != nil {
		tr.LazyPrintf("load failed: %v", err)
		tr.SetError()
		return nil, err
	}
	defer a.Free()

	r := &recording{
		name:         name,
		header:       *a.Header,
		messages:     len(a.Messages()),
		frameEntries: len(a.FrameEntries()),
		miscEntries:  len(a.MiscEntries()),
	}
	rec.OnFrame = func(a *anim.Animation) {
		r.info = append(r.info, snapshot(s, a))
	}
	r.frames, r.delays = rec.Record(a, h.maxFrames)
	tr.LazyPrintf("recorded %d frames", len(r.frames))

	if len(r.frames) > 0 {
		buf := &bytes.Buffer{}
		if err := compositor.EncodeGIF(buf, r.frames, r.delays); err != nil {
			tr.SetError()
			return nil, errors.Wrapf(err, "encoding %s", name)
		}
		r.gif = buf.Bytes()
	}
	return r, nil
}

// snapshot describes the scene right after a played frame.
func snapshot(s *scene.Scene, a *anim.Animation) frameInfo {
	fi := frameInfo{Frame: a.CurrentFrame() - 1}
	if misc := a.MiscEntries(); fi.Frame >= 0 && fi.Frame < len(misc) {
		fi.Ticks = misc[fi.Frame].NumTicks
	}
	for i := 0; i < s.Slots.Len(); i++ {
		sl := s.Slots.Slot(i)
		fi.Slots = append(fi.Slots, slotInfo{
			SpritesIndex: sl.SpritesIndex,
			Frame:        sl.FrameNumber,
			X:            sl.Position.X,
			Y:            sl.Position.Y,
			Depth:        sl.Depth,
			Scale:        sl.Scale,
			SeqIndex:     sl.SeqIndex,
			Flags:        sl.Flags.String(),
		})
	}
	s.Messages.Each(func(_ int, m *scene.KernelMessage) {
		fi.Captions = append(fi.Captions, captionInfo{X: m.Pos.X, Y: m.Pos.Y, Color: m.Color, Text: m.Text})
	})
	return fi
}

func (h *Handler) etag(r *recording, what string) string {
	return fmt.Sprintf(`W/"aa:%d:%s:%dx%d:%d:%s"`, generation, r.name, h.size.X, h.size.Y, h.maxFrames, what)
}

// notModified sets caching headers and reports whether the client already
// has the response.
func notModified(w http.ResponseWriter, req *http.Request, etag string) bool {
	w.Header().Set("Cache-Control", "public; max-age=36000") // 36000 = 10h
	w.Header().Set("ETag", etag)
	if req.Header.Get("If-None-Match") == etag {
		w.WriteHeader(http.StatusNotModified)
		return true
	}
	return false
}

func (h *Handler) recordOrError(w http.ResponseWriter, req *http.Request) *recording {
	rec, err := h.record(mux.Vars(req)["name"])
	if err != nil {
		code := http.StatusInternalServerError
		if errors.Is(err, os.ErrNotExist) {
			code = http.StatusNotFound
		}
		glog.Warningf("web: %s: %v", req.URL.Path, err)
		http.Error(w, err.Error(), code)
		return nil
	}
	return rec
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		glog.Errorf("web: writing json: %v", err)
	}
}

func (h *Handler) indexHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	fmt.Fprint(w, datafiles.IndexHTML)
}

func (h *Handler) headerHandler(w http.ResponseWriter, r *http.Request) {
	rec := h.recordOrError(w, r)
	if rec == nil || notModified(w, r, h.etag(rec, "header")) {
		return
	}
	hd := rec.header
	writeJSON(w, map[string]interface{}{
		"name":            rec.name,
		"mode":            hd.Mode().String(),
		"flags":           int(hd.Flags),
		"room":            hd.RoomNumber,
		"manual":          hd.ManualFlag,
		"sprites_index":   hd.SpritesIndex,
		"scroll":          []int{hd.ScrollPosition.X, hd.ScrollPosition.Y},
		"scroll_ticks":    hd.ScrollTicks,
		"interface":       hd.InterfaceFile,
		"sprite_sets":     hd.SpriteSetNames,
		"sound":           hd.SoundName,
		"font":            hd.FontResource,
		"messages":        rec.messages,
		"frame_entries":   rec.frameEntries,
		"misc_entries":    rec.miscEntries,
		"recorded_frames": len(rec.frames),
		"recorded_delays": rec.delays,
		"custom_font":     hd.HasCustomFont(),
		"scrolls":         hd.HasScroll(),
	})
}

func (h *Handler) gifHandler(w http.ResponseWriter, r *http.Request) {
	rec := h.recordOrError(w, r)
	if rec == nil {
		return
	}
	if rec.gif == nil {
		http.Error(w, "animation played no frames", http.StatusNotFound)
		return
	}
	if notModified(w, r, h.etag(rec, "gif")) {
		return
	}
	w.Header().Set("Content-Type", "image/gif")
	w.Header().Set("Content-Length", strconv.Itoa(len(rec.gif)))
	w.WriteHeader(http.StatusOK)
	w.Write(rec.gif)
}

func (h *Handler) frameHandler(w http.ResponseWriter, r *http.Request) {
	n, err := strconv.Atoi(mux.Vars(r)["n"])
	if err != nil {
		http.Error(w, "n not a number", http.StatusBadRequest)
		return
	}
	rec := h.recordOrError(w, r)
	if rec == nil {
		return
	}
	if n < 0 || n >= len(rec.frames) {
		http.Error(w, fmt.Sprintf("no frame %d; recorded %d", n, len(rec.frames)), http.StatusNotFound)
		return
	}
	if notModified(w, r, h.etag(rec, "frame"+strconv.Itoa(n))) {
		return
	}

	buf := &bytes.Buffer{}
	if err := png.Encode(buf, rec.frames[n]); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	byt, err := dataurl.New(buf.Bytes(), "image/png").MarshalText()
	if err != nil {
		http.Error(w, "failed to encode data url: "+err.Error(), http.StatusInternalServerError)
		return
	}
	fi := rec.info[n]
	fi.Image = string(byt)
	writeJSON(w, fi)
}

func (h *Handler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/", h.indexHandler)
	r.HandleFunc("/aa/{name}", h.headerHandler)
	r.HandleFunc("/aa/{name}/frames.gif", h.gifHandler)
	r.HandleFunc("/aa/{name}/frame/{n:[0-9]+}", h.frameHandler)
}
