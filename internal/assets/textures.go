// Package assets loads texture images from disk for upload by the renderer.
package assets

import (
	"context"
	"errors"
	"fmt"
	"image"
	stddraw "image/draw"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"

	"golang.org/x/image/draw"

	"swimrace/pkg/logger"
)

// ErrTextureUnavailable is returned when a texture file is missing or
// cannot be decoded. Callers draw the affected surfaces untextured.
var ErrTextureUnavailable = errors.New("texture unavailable")

// DefaultMaxEdge bounds the longest side of an uploaded texture.
const DefaultMaxEdge = 1024

// Image is a decoded texture ready for upload: tightly packed RGBA
// rows ordered bottom-up to match texture coordinates.
type Image struct {
	Key    string
	Width  int
	Height int
	Pix    []byte
}

type Loader struct {
	dir       string
	maxEdge   int
	log       logger.Logger
	onFailure func(key string, err error)
}

type LoaderOption func(*Loader)

// WithMaxEdge downscales images whose longest side exceeds n pixels.
func WithMaxEdge(n int) LoaderOption { return func(l *Loader) { l.maxEdge = n } }

// WithFailureHook is called once per texture that fails to load.
func WithFailureHook(fn func(key string, err error)) LoaderOption {
	return func(l *Loader) { l.onFailure = fn }
}

func NewLoader(dir string, log logger.Logger, opts ...LoaderOption) *Loader {
	l := &Loader{dir: dir, maxEdge: DefaultMaxEdge, log: log}
	for _, opt := range opts {
		opt(l)
	}
	if l.log == nil {
		l.log = logger.Nop()
	}
	return l
}

// Path is where the texture for key is expected: <dir>/<key>.jpg.
func (l *Loader) Path(key string) string { return filepath.Join(l.dir, key+".jpg") }

// Load reads and decodes one texture.
func (l *Loader) Load(ctx context.Context, key string) (*Image, error) {
	path := l.Path(key)
	l.log.Info(ctx, "Try load texture", logger.String("key", key), logger.String("path", path))

	img, err := decodeFile(path)
	if err != nil {
		err = fmt.Errorf("%s: %w: %w", path, ErrTextureUnavailable, err)
		l.log.Warn(ctx, "Failed to load texture", logger.String("key", key), logger.Error(err))
		if l.onFailure != nil {
			l.onFailure(key, err)
		}
		return nil, err
	}

	out := toImage(key, fit(img, l.maxEdge))
	l.log.Info(ctx, "Loaded texture",
		logger.String("key", key),
		logger.Int("width", out.Width),
		logger.Int("height", out.Height),
	)
	return out, nil
}

// LoadAll loads every key it can; failed keys are absent from the result.
func (l *Loader) LoadAll(ctx context.Context, keys []string) map[string]*Image {
	out := make(map[string]*Image, len(keys))
	for _, k := range keys {
		img, err := l.Load(ctx, k)
		if err != nil {
			continue
		}
		out[k] = img
	}
	return out
}

func decodeFile(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()
	img, _, err := image.Decode(f)
	if err != nil {
		return nil, err
	}
	b := img.Bounds()
	if b.Dx() == 0 || b.Dy() == 0 {
		return nil, errors.New("empty image")
	}
	return img, nil
}

// fit scales img down so its longest side is at most maxEdge.
func fit(img image.Image, maxEdge int) image.Image {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if maxEdge <= 0 || (w <= maxEdge && h <= maxEdge) {
		return img
	}
	if w >= h {
		h = max(1, h*maxEdge/w)
		w = maxEdge
	} else {
		w = max(1, w*maxEdge/h)
		h = maxEdge
	}
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, b, draw.Src, nil)
	return dst
}

// toImage converts to packed RGBA and flips rows so row 0 is the bottom.
func toImage(key string, img image.Image) *Image {
	b := img.Bounds()
	rgba := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	stddraw.Draw(rgba, rgba.Bounds(), img, b.Min, stddraw.Src)

	w, h := b.Dx(), b.Dy()
	stride := w * 4
	pix := make([]byte, stride*h)
	for y := 0; y < h; y++ {
		src := rgba.Pix[y*rgba.Stride : y*rgba.Stride+stride]
		copy(pix[(h-1-y)*stride:], src)
	}
	return &Image{Key: key, Width: w, Height: h, Pix: pix}
}
