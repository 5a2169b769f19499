package paths

import (
	"bytes"
	"io"
	"net/http"
	"os"
	"strings"
	"sync"

	"github.com/golang/glog"
	"github.com/pkg/errors"
)

// HTTPLoader fetches data files from a web server. Fetched files are kept
// in memory, so each is downloaded once.
type HTTPLoader struct {
	// Base is the URL the file names are appended to.
	Base string
	// Client defaults to http.DefaultClient.
	Client *http.Client

	mu    sync.Mutex
	cache map[string][]byte
}

// Open fetches fileName. It implements anim.Opener.
func (l *HTTPLoader) Open(fileName string) (io.ReadCloser, error) {
	return l.openFile(fileName)
}

func (l *HTTPLoader) openFile(fileName string) (ReadSeekCloser, error) {
	url := strings.TrimSuffix(l.Base, "/") + "/" + strings.TrimPrefix(fileName, "*")

	l.mu.Lock()
	defer l.mu.Unlock()
	if buf, ok := l.cache[url]; ok {
		glog.V(2).Infof("paths: %q served from cache", url)
		return &bytesReaderWithDummyClose{bytes.NewReader(buf)}, nil
	}

	client := l.Client
	if client == nil {
		client = http.DefaultClient
	}
	glog.V(1).Infof("paths: fetching %q", url)
	response, err := client.Get(url)
	if err != nil {
		return nil, errors.Wrapf(err, "fetching %q", url)
	}
	defer response.Body.Close()
	if response.StatusCode != http.StatusOK {
		e := os.ErrInvalid
		if response.StatusCode == http.StatusNotFound {
			e = os.ErrNotExist
		}
		return nil, errors.Wrapf(e, "fetching %q: http status %v, want 200", url, response.StatusCode)
	}

	// TODO(ivucica): Explore using ranged reads.
	buf := &bytes.Buffer{}
	if _, err := io.Copy(buf, response.Body); err != nil {
		return nil, errors.Wrap(err, "copying response to seekable buffer")
	}

	if l.cache == nil {
		l.cache = make(map[string][]byte)
	}
	l.cache[url] = buf.Bytes()
	return &bytesReaderWithDummyClose{bytes.NewReader(buf.Bytes())}, nil
}

type bytesReaderWithDummyClose struct {
	*bytes.Reader
}

func (bytesReaderWithDummyClose) Close() error {
	return nil
}
