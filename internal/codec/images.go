package codec

import (
	"bytes"
	"image"
	"os"
	"path/filepath"

	// Decoders for extent sniffing. docx packages commonly carry png and
	// jpeg; bmp and tiff show up in documents produced by scanners.
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"

	"github.com/roboco-io/docx2json/internal/docx"
	"github.com/roboco-io/docx2json/internal/ir"
)

// ImageSource supplies the bytes behind an image reference during
// reconstruction. A miss is not an error; the reverse codec falls back to a
// text placeholder.
type ImageSource interface {
	Lookup(ref ir.ImageRef) ([]byte, bool)
}

// MapImages serves images from an in-memory map keyed by filename, typically
// the media parts of the source package.
type MapImages map[string][]byte

// Lookup matches by the reference's filename.
func (m MapImages) Lookup(ref ir.ImageRef) ([]byte, bool) {
	if ref.Filename == "" {
		return nil, false
	}
	data, ok := m[ref.Filename]
	return data, ok
}

// PackageImages wraps the media parts of an opened package as an image
// source.
func PackageImages(pkg *docx.Package) ImageSource {
	return MapImages(pkg.ImageParts())
}

// DirImages serves images from a resources directory on disk.
type DirImages string

// Lookup reads dir/filename. Path separators in the reference are rejected
// so a crafted filename cannot escape the directory.
func (d DirImages) Lookup(ref ir.ImageRef) ([]byte, bool) {
	if ref.Filename == "" || ref.Filename != filepath.Base(ref.Filename) {
		return nil, false
	}
	data, err := os.ReadFile(filepath.Join(string(d), ref.Filename))
	if err != nil {
		return nil, false
	}
	return data, true
}

// ChainImages tries each source in order.
type ChainImages []ImageSource

// Lookup returns the first hit.
func (c ChainImages) Lookup(ref ir.ImageRef) ([]byte, bool) {
	for _, src := range c {
		if data, ok := src.Lookup(ref); ok {
			return data, true
		}
	}
	return nil, false
}

// Display extents in EMU. Images wider than the usable page width are scaled
// down proportionally.
const (
	maxImageWidthEMU = 6 * 914400
	fallbackWidthPx  = 300
	fallbackHeightPx = 200
)

// imageExtent decides the display size of an embedded image from its pixel
// dimensions at 96 dpi. Undecodable data gets a fixed fallback size.
func imageExtent(data []byte) (cx, cy int64) {
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil || cfg.Width <= 0 || cfg.Height <= 0 {
		return pixelsToEMU(fallbackWidthPx), pixelsToEMU(fallbackHeightPx)
	}
	cx = pixelsToEMU(cfg.Width)
	cy = pixelsToEMU(cfg.Height)
	if cx > maxImageWidthEMU {
		cy = cy * maxImageWidthEMU / cx
		cx = maxImageWidthEMU
	}
	return cx, cy
}
