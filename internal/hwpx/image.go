package hwpx

import (
	"bytes"
	"fmt"
	"image"
	_ "image/jpeg"

	_ "golang.org/x/image/bmp"
)

// Image is an embedded picture decoded from a BinData member.
type Image struct {
	Name   string // archive member path
	Format string // format name reported by the codec, e.g. "jpeg" or "bmp"
	Image  image.Image
}

// ImageDecoder decodes the raw bytes of an image member.
type ImageDecoder interface {
	Decode(data []byte) (image.Image, string, error)
}

// ImageDecoderFunc adapts a function to ImageDecoder.
type ImageDecoderFunc func(data []byte) (image.Image, string, error)

func (f ImageDecoderFunc) Decode(data []byte) (image.Image, string, error) { return f(data) }

// StdImageDecoder sniffs the format and decodes with the registered codecs (JPEG and BMP).
var StdImageDecoder ImageDecoder = ImageDecoderFunc(func(data []byte) (image.Image, string, error) {
	return image.Decode(bytes.NewReader(data))
})

func decodeImage(dec ImageDecoder, name string, data []byte) (Image, error) {
	img, format, err := dec.Decode(data)
	if err != nil {
		return Image{}, fmt.Errorf("%w: %s: %w", ErrImageDecode, name, err)
	}
	return Image{Name: name, Format: format, Image: img}, nil
}
