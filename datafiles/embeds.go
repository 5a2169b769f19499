// Package datafiles carries the static pages served by the web inspector.
package datafiles

import _ "embed"

// IndexHTML is the inspector's landing page.
//
//go:embed index.html
var IndexHTML string
