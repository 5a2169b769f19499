// Package config holds the settings shared by the aa* commands.
//
// Settings come from built-in defaults, then an optional ini file, then any
// command line flags the user set explicitly.
package config

import (
	"flag"
	"image"
	"os"
	"strings"

	"github.com/golang/glog"
	"github.com/pkg/errors"
	"gopkg.in/ini.v1"
)

const defaultConfig = `
[data]
path =

[render]
width      = 320
height     = 156
max_frames = 500
print_mode = 24bit
blanks     = true

[web]
listen = :8080

; Sprite sets listed here are drawn as backgrounds by the placeholder loader.
[backgrounds]
`

// Config is the decoded configuration.
type Config struct {
	Data struct {
		Path string `ini:"path"`
	} `ini:"data"`
	Render struct {
		Width     int    `ini:"width"`
		Height    int    `ini:"height"`
		MaxFrames int    `ini:"max_frames"`
		PrintMode string `ini:"print_mode"`
		Blanks    bool   `ini:"blanks"`
	} `ini:"render"`
	Web struct {
		Listen string `ini:"listen"`
	} `ini:"web"`

	// Backgrounds holds the upper cased names of background sprite sets.
	Backgrounds map[string]bool `ini:"-"`

	file *ini.File
}

// Load reads the defaults, overlaid with the file at path if it is not
// empty. A missing file is not an error.
func Load(path string) (*Config, error) {
	options := ini.LoadOptions{
		SkipUnrecognizableLines: true,
		AllowBooleanKeys:        true,
	}
	sources := []interface{}{[]byte(defaultConfig)}
	if path != "" {
		if _, err := os.Stat(path); err == nil {
			sources = append(sources, path)
		} else {
			glog.V(1).Infof("config file %q not read: %v", path, err)
		}
	}

	f, err := ini.LoadSources(options, sources[0], sources[1:]...)
	if err != nil {
		return nil, errors.Wrap(err, "parsing config")
	}
	c := &Config{file: f}
	if err := c.remap(); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Config) remap() error {
	if err := c.file.MapTo(c); err != nil {
		return errors.Wrap(err, "mapping config")
	}
	c.Backgrounds = make(map[string]bool)
	for _, k := range c.file.Section("backgrounds").Keys() {
		if v, err := k.Bool(); err == nil && !v {
			continue
		}
		c.Backgrounds[strings.ToUpper(k.Name())] = true
	}
	if c.Render.Width <= 0 || c.Render.Height <= 0 {
		return errors.Errorf("bad frame size %dx%d", c.Render.Width, c.Render.Height)
	}
	return nil
}

// FrameSize is the size of composited frames.
func (c *Config) FrameSize() image.Point {
	return image.Pt(c.Render.Width, c.Render.Height)
}

// Set overrides the key named "section.key" and re-decodes the config.
func (c *Config) Set(key, value string) error {
	i := strings.LastIndex(key, ".")
	if i <= 0 {
		return errors.Errorf("bad config key %q", key)
	}
	c.file.Section(key[:i]).Key(key[i+1:]).SetValue(value)
	return c.remap()
}

// ApplyFlags copies every flag set on the command line that appears in
// keys, which maps flag names to config keys, into c.
func (c *Config) ApplyFlags(fs *flag.FlagSet, keys map[string]string) error {
	var err error
	fs.Visit(func(f *flag.Flag) {
		key, ok := keys[f.Name]
		if !ok || err != nil {
			return
		}
		err = errors.Wrapf(c.Set(key, f.Value.String()), "flag -%s", f.Name)
	})
	return err
}
