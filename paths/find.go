// Package paths locates MADS data files.
//
// Files are looked up in every directory listed in $MADS_DATA_PATH, then in
// the working directory, then next to the binary's runfiles. Game data
// ships with upper case names on case insensitive file systems, so each
// name is also tried upper and lower cased.
package paths

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/golang/glog"
	"github.com/pkg/errors"
)

// EnvDataPath names the environment variable listing extra data
// directories, separated by os.PathListSeparator.
const EnvDataPath = "MADS_DATA_PATH"

// ReadSeekCloser is an opened data file.
type ReadSeekCloser interface {
	io.ReadCloser
	io.Seeker
}

// Dirs returns the default search directories, in lookup order.
func Dirs() []string {
	var dirs []string
	if env := os.Getenv(EnvDataPath); env != "" {
		for _, d := range filepath.SplitList(env) {
			if d != "" {
				dirs = append(dirs, d)
			}
		}
	}
	dirs = append(dirs, ".")
	dirs = append(dirs, os.Args[0]+".runfiles/go_mads/datafiles")
	if gopath := os.Getenv("GOPATH"); gopath != "" {
		dirs = append(dirs, filepath.Join(gopath, "src/badc0de.net/pkg/go-mads/datafiles"))
	}
	return dirs
}

func candidates(dirs []string, fileName string) []string {
	fileName = strings.TrimPrefix(fileName, "*")
	names := []string{fileName}
	if up := strings.ToUpper(fileName); up != fileName {
		names = append(names, up)
	}
	if low := strings.ToLower(fileName); low != fileName {
		names = append(names, low)
	}

	var paths []string
	for _, d := range dirs {
		for _, n := range names {
			paths = append(paths, filepath.Join(d, n))
		}
	}
	return paths
}

// Find locates the passed data file and returns a path to it, or an empty
// string if it is nowhere to be found.
//
// A leading "*", which marks a resident resource, is ignored.
func Find(fileName string) string {
	return find(Dirs(), fileName)
}

func find(dirs []string, fileName string) string {
	for _, path := range candidates(dirs, fileName) {
		if st, err := os.Stat(path); err == nil && !st.IsDir() {
			glog.V(2).Infof("paths.Find(%q)=%s", fileName, path)
			return path
		}
	}
	return ""
}

// Open locates the passed file in the same locations that Find would look,
// and opens it.
func Open(fileName string) (ReadSeekCloser, error) {
	return (&Loader{}).openFile(fileName)
}

// Loader opens data files from Dirs, or from the default directories when
// Dirs is empty.
type Loader struct {
	Dirs []string
}

// Open opens fileName. It implements anim.Opener.
func (l *Loader) Open(fileName string) (io.ReadCloser, error) {
	return l.openFile(fileName)
}

func (l *Loader) openFile(fileName string) (ReadSeekCloser, error) {
	dirs := l.Dirs
	if len(dirs) == 0 {
		dirs = Dirs()
	}
	path := find(dirs, fileName)
	if path == "" {
		return nil, errors.Wrapf(os.ErrNotExist, "%q not found in %v", fileName, dirs)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "opening %q", path)
	}
	return f, nil
}
