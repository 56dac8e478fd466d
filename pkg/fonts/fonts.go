// Package fonts provides the monospace font used to measure and draw charts.
//
// Go Mono ships with golang.org/x/image, so the same metrics are available
// to the layout engine and, embedded as a data URL, to the rendered document.
package fonts

import (
	"encoding/base64"
	"sync"

	"golang.org/x/image/font/gofont/gomono"
)

// MonoTTF returns the Go Mono TrueType data.
func MonoTTF() []byte {
	return gomono.TTF
}

var (
	monoBase64     string
	monoBase64Once sync.Once
)

// MonoBase64 returns the TTF data as a base64 string.
// The result is cached after first computation.
func MonoBase64() string {
	monoBase64Once.Do(func() {
		monoBase64 = base64.StdEncoding.EncodeToString(gomono.TTF)
	})
	return monoBase64
}

// FontFamily is the CSS font-family name for the embedded font.
const FontFamily = "Go Mono"

// FallbackFontFamily lists fonts used when the embedded face is unavailable.
const FallbackFontFamily = `'Go Mono', 'Consolas', 'DejaVu Sans Mono', monospace`
