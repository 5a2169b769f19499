package paths

import (
	"flag"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// SetupDataPathFlag creates a string flag listing data directories,
// defaulting to $MADS_DATA_PATH.
func SetupDataPathFlag(flagName string, flagPtr *string) {
	flag.StringVar(flagPtr, flagName, os.Getenv(EnvDataPath), "Data directories or an http(s) URL to load MADS resources from, separated by "+string(os.PathListSeparator))
}

// Opener opens data files by name.
type Opener interface {
	Open(fileName string) (io.ReadCloser, error)
}

// NewOpener returns an opener for the value of a data path flag. A URL gets
// an HTTPLoader, anything else a Loader over the listed directories.
func NewOpener(dataPath string) Opener {
	if strings.HasPrefix(dataPath, "http://") || strings.HasPrefix(dataPath, "https://") {
		return &HTTPLoader{Base: dataPath}
	}
	var dirs []string
	for _, d := range filepath.SplitList(dataPath) {
		if d != "" {
			dirs = append(dirs, d)
		}
	}
	return &Loader{Dirs: dirs}
}
