package web

import (
	"bytes"
	"encoding/json"
	"image"
	"image/gif"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"badc0de.net/pkg/go-mads/aa"
	"badc0de.net/pkg/go-mads/aa/aatest"
	"badc0de.net/pkg/go-mads/sprites"
	"badc0de.net/pkg/go-mads/ttesting"
)

type countingFiles struct {
	files map[string][]byte
	opens int
}

func (c *countingFiles) Open(name string) (io.ReadCloser, error) {
	c.opens++
	b, ok := c.files[name]
	if !ok {
		return nil, errors.Wrap(os.ErrNotExist, name)
	}
	return io.NopCloser(bytes.NewReader(b)), nil
}

func newServer(t *testing.T) (*httptest.Server, *countingFiles) {
	t.Helper()
	r := &aatest.Resource{
		Header:   aa.Header{SpriteSetNames: []string{"RM101A1"}, RoomNumber: 101},
		Messages: []aa.Message{{Text: "Hi", Pos: image.Pt(1, 1), StartFrame: 0, EndFrame: 0}},
		Frames: []aa.FrameEntry{
			{FrameNumber: 0, SeqIndex: 1, Slot: aa.SpriteSlot{FrameNumber: 0, Position: image.Pt(8, 16), Scale: 100}},
			{FrameNumber: 1, SeqIndex: 1, Slot: aa.SpriteSlot{FrameNumber: 1, Position: image.Pt(20, 16), Scale: 100}},
		},
		Misc: []aa.MiscEntry{{NumTicks: 6}, {NumTicks: 3}},
	}
	files := &countingFiles{files: map[string][]byte{"RM101A.AA": r.Pack()}}
	h := NewHandler(files, &sprites.Loader{Size: image.Pt(8, 8)}, image.Pt(32, 24), 10)
	router := mux.NewRouter()
	h.RegisterRoutes(router)
	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)
	return srv, files
}

func get(t *testing.T, url string, header http.Header) *http.Response {
	t.Helper()
	req, err := http.NewRequest("GET", url, nil)
	if err != nil {
		t.Fatalf("failed to build request: %s", err)
	}
	for k, v := range header {
		req.Header[k] = v
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("GET %s failed: %s", url, err)
	}
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func TestHeader(t *testing.T) {
	srv, files := newServer(t)

	resp := get(t, srv.URL+"/aa/RM101A", nil)
	ttesting.AssertEqualInt(t, "status", resp.StatusCode, http.StatusOK)
	var got struct {
		Name           string   `json:"name"`
		Room           int      `json:"room"`
		SpriteSets     []string `json:"sprite_sets"`
		Messages       int      `json:"messages"`
		FrameEntries   int      `json:"frame_entries"`
		RecordedFrames int      `json:"recorded_frames"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&got); err != nil {
		t.Fatalf("failed to decode: %s", err)
	}
	ttesting.AssertEqualString(t, "name", got.Name, "RM101A.AA")
	ttesting.AssertEqualInt(t, "room", got.Room, 101)
	ttesting.AssertEqualInt(t, "sprite sets", len(got.SpriteSets), 1)
	ttesting.AssertEqualInt(t, "messages", got.Messages, 1)
	ttesting.AssertEqualInt(t, "frame entries", got.FrameEntries, 2)
	ttesting.AssertEqualInt(t, "recorded frames", got.RecordedFrames, 2)

	etag := resp.Header.Get("ETag")
	resp = get(t, srv.URL+"/aa/rm101a.aa", http.Header{"If-None-Match": {etag}})
	ttesting.AssertEqualInt(t, "cached status", resp.StatusCode, http.StatusNotModified)
	ttesting.AssertEqualInt(t, "resource opened once", files.opens, 1)
}

func TestMissing(t *testing.T) {
	srv, _ := newServer(t)
	resp := get(t, srv.URL+"/aa/RM999A", nil)
	ttesting.AssertEqualInt(t, "status", resp.StatusCode, http.StatusNotFound)
}

func TestGIF(t *testing.T) {
	srv, _ := newServer(t)
	resp := get(t, srv.URL+"/aa/RM101A/frames.gif", nil)
	ttesting.AssertEqualInt(t, "status", resp.StatusCode, http.StatusOK)
	ttesting.AssertEqualString(t, "content type", resp.Header.Get("Content-Type"), "image/gif")
	g, err := gif.DecodeAll(resp.Body)
	if err != nil {
		t.Fatalf("failed to decode gif: %s", err)
	}
	ttesting.AssertEqualInt(t, "frames", len(g.Image), 2)
	// Frame 0 is held for the ticks of the entry that follows it.
	ttesting.AssertEqualInt(t, "first delay", g.Delay[0], 5)
	ttesting.AssertEqualInt(t, "second delay", g.Delay[1], 5)
}

func TestFrame(t *testing.T) {
	srv, _ := newServer(t)

	resp := get(t, srv.URL+"/aa/RM101A/frame/0", nil)
	ttesting.AssertEqualInt(t, "status", resp.StatusCode, http.StatusOK)
	var got frameInfo
	if err := json.NewDecoder(resp.Body).Decode(&got); err != nil {
		t.Fatalf("failed to decode: %s", err)
	}
	ttesting.AssertEqualInt(t, "frame", got.Frame, 0)
	ttesting.AssertEqualInt(t, "ticks", got.Ticks, 6)
	ttesting.AssertEqualInt(t, "slots", len(got.Slots), 1)
	ttesting.AssertEqualInt(t, "slot x", got.Slots[0].X, 8)
	ttesting.AssertEqualString(t, "slot flags", got.Slots[0].Flags, "update")
	ttesting.AssertEqualInt(t, "captions", len(got.Captions), 1)
	ttesting.AssertEqualString(t, "caption", got.Captions[0].Text, "Hi")
	ttesting.AssertEqualBool(t, "image is a png data url", strings.HasPrefix(got.Image, "data:image/png;base64,"), true)

	resp = get(t, srv.URL+"/aa/RM101A/frame/1", nil)
	got = frameInfo{}
	if err := json.NewDecoder(resp.Body).Decode(&got); err != nil {
		t.Fatalf("failed to decode: %s", err)
	}
	ttesting.AssertEqualInt(t, "second frame slots", len(got.Slots), 2)
	ttesting.AssertEqualString(t, "erased slot", got.Slots[0].Flags, "erase")
	ttesting.AssertEqualInt(t, "second frame captions", len(got.Captions), 0)

	resp = get(t, srv.URL+"/aa/RM101A/frame/7", nil)
	ttesting.AssertEqualInt(t, "past the end", resp.StatusCode, http.StatusNotFound)
}

func TestIndex(t *testing.T) {
	srv, _ := newServer(t)
	resp := get(t, srv.URL+"/", nil)
	ttesting.AssertEqualInt(t, "status", resp.StatusCode, http.StatusOK)
	b, _ := io.ReadAll(resp.Body)
	ttesting.AssertEqualBool(t, "page", bytes.Contains(b, []byte("AA inspector")), true)
}
