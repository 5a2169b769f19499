// Command aaweb serves the AA inspector over HTTP.
package main

import (
	"flag"
	"net/http"
	"os"

	"badc0de.net/pkg/flagutil/v1"
	"github.com/golang/glog"
	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"

	"badc0de.net/pkg/go-mads/config"
	"badc0de.net/pkg/go-mads/paths"
	"badc0de.net/pkg/go-mads/sprites"
	"badc0de.net/pkg/go-mads/web"
)

var (
	configPath = flag.String("config", "mads.ini", "path to an optional ini file with settings")
	accessLog  = flag.Bool("access_log", true, "whether to log requests to stderr in combined log format")

	_ = flag.String("listen_address", ":8080", "http listen address for aaweb; overrides web.listen")
	_ = flag.Int("max_frames", 0, "maximum number of frames recorded per animation; overrides render.max_frames")

	dataPath string
)

func main() {
	paths.SetupDataPathFlag("data_path", &dataPath)
	flagutil.Parse()
	flag.Set("logtostderr", "true")

	cfg, err := config.Load(*configPath)
	if err != nil {
		glog.Exitf("loading config: %v", err)
	}
	keys := map[string]string{
		"data_path":      "data.path",
		"listen_address": "web.listen",
		"max_frames":     "render.max_frames",
	}
	if err := cfg.ApplyFlags(flag.CommandLine, keys); err != nil {
		glog.Exitf("applying flags: %v", err)
	}

	h := web.NewHandler(paths.NewOpener(cfg.Data.Path), &sprites.Loader{Background: cfg.Backgrounds}, cfg.FrameSize(), cfg.Render.MaxFrames)

	r := mux.NewRouter()
	h.RegisterRoutes(r)
	// golang.org/x/net/trace registers /debug/requests and /debug/events.
	r.PathPrefix("/debug/").Handler(http.DefaultServeMux)

	var handler http.Handler = handlers.CompressHandler(r)
	if *accessLog {
		handler = handlers.CombinedLoggingHandler(os.Stderr, handler)
	}

	glog.Infof("serving on %s", cfg.Web.Listen)
	glog.Fatal(http.ListenAndServe(cfg.Web.Listen, handler))
}
