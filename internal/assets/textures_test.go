package assets

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/jpeg"
	"os"
	"path/filepath"
	"testing"

	"github.com/smartystreets/goconvey/convey"

	"swimrace/pkg/logger"
)

func writeJPEG(dir, key string, w, h int) {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: 40, G: 120, B: 200, A: 255})
		}
	}
	f, err := os.Create(filepath.Join(dir, key+".jpg"))
	if err != nil {
		panic(err)
	}
	defer func() { _ = f.Close() }()
	if err := jpeg.Encode(f, img, nil); err != nil {
		panic(err)
	}
}

func TestLoader(t *testing.T) {
	convey.Convey("Given a texture directory", t, func() {
		ctx := context.Background()
		dir := t.TempDir()
		var logs bytes.Buffer
		var failed []string
		l := NewLoader(dir, logger.New(&logs), WithFailureHook(func(key string, _ error) {
			failed = append(failed, key)
		}))

		convey.Convey("When the file exists", func() {
			writeJPEG(dir, "water", 64, 32)
			img, err := l.Load(ctx, "water")

			convey.Convey("Then it decodes to packed RGBA", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(img.Key, convey.ShouldEqual, "water")
				convey.So(img.Width, convey.ShouldEqual, 64)
				convey.So(img.Height, convey.ShouldEqual, 32)
				convey.So(len(img.Pix), convey.ShouldEqual, 64*32*4)
				convey.So(logs.String(), convey.ShouldContainSubstring, "Loaded texture")
				convey.So(failed, convey.ShouldBeEmpty)
			})
		})

		convey.Convey("When the file is missing", func() {
			img, err := l.Load(ctx, "skybox_top")

			convey.Convey("Then the texture is reported unavailable", func() {
				convey.So(img, convey.ShouldBeNil)
				convey.So(errors.Is(err, ErrTextureUnavailable), convey.ShouldBeTrue)
				convey.So(errors.Is(err, os.ErrNotExist), convey.ShouldBeTrue)
				convey.So(failed, convey.ShouldResemble, []string{"skybox_top"})
				convey.So(logs.String(), convey.ShouldContainSubstring, "Try load texture")
				convey.So(logs.String(), convey.ShouldContainSubstring, "Failed to load texture")
			})
		})

		convey.Convey("When the file is not an image", func() {
			_ = os.WriteFile(l.Path("pool_ground"), []byte("not a jpeg"), 0o600)
			_, err := l.Load(ctx, "pool_ground")

			convey.Convey("Then decoding fails softly", func() {
				convey.So(errors.Is(err, ErrTextureUnavailable), convey.ShouldBeTrue)
			})
		})

		convey.Convey("When the image is larger than the edge limit", func() {
			writeJPEG(dir, "big", 256, 64)
			small := NewLoader(dir, logger.Nop(), WithMaxEdge(128))
			img, err := small.Load(ctx, "big")

			convey.Convey("Then it is scaled down keeping the aspect", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(img.Width, convey.ShouldEqual, 128)
				convey.So(img.Height, convey.ShouldEqual, 32)
			})
		})

		convey.Convey("When loading a set with gaps", func() {
			writeJPEG(dir, "water", 8, 8)
			got := l.LoadAll(ctx, []string{"water", "skybox_front"})

			convey.Convey("Then only the present textures are returned", func() {
				convey.So(len(got), convey.ShouldEqual, 1)
				convey.So(got["water"], convey.ShouldNotBeNil)
				convey.So(failed, convey.ShouldResemble, []string{"skybox_front"})
			})
		})
	})
}

func TestRowOrder(t *testing.T) {
	convey.Convey("Given an image with distinct top and bottom rows", t, func() {
		src := image.NewRGBA(image.Rect(0, 0, 2, 2))
		src.Set(0, 0, color.RGBA{R: 255, A: 255})
		src.Set(1, 0, color.RGBA{R: 255, A: 255})
		src.Set(0, 1, color.RGBA{B: 255, A: 255})
		src.Set(1, 1, color.RGBA{B: 255, A: 255})

		img := toImage("t", src)

		convey.Convey("The bottom row comes first", func() {
			convey.So(img.Pix[0:4], convey.ShouldResemble, []byte{0, 0, 255, 255})
			convey.So(img.Pix[8:12], convey.ShouldResemble, []byte{255, 0, 0, 255})
		})
	})
}
