package scheduler

import (
	"hash/fnv"
	"image"
	"image/color"
	"image/draw"
)

// IconSource renders the image attached to an alarm's notification.
type IconSource interface {
	Icon(name string) image.Image
}

const defaultTileSize = 64

// TileIcons renders every icon name as a solid tile of a stable color.
type TileIcons struct {
	Size int
}

func (t TileIcons) Icon(name string) image.Image {
	if name == "" {
		return nil
	}
	size := t.Size
	if size <= 0 {
		size = defaultTileSize
	}
	img := image.NewRGBA(image.Rect(0, 0, size, size))
	draw.Draw(img, img.Bounds(), &image.Uniform{C: TileColor(name)}, image.Point{}, draw.Src)
	return img
}

// TileColor derives a color from an icon name.
func TileColor(name string) color.RGBA {
	h := fnv.New32a()
	_, _ = h.Write([]byte(name))
	sum := h.Sum32()
	return color.RGBA{R: uint8(sum >> 16), G: uint8(sum >> 8), B: uint8(sum), A: 0xff}
}
