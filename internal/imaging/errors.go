package imaging

import "errors"

var (
	// ErrUndecodable is returned by [Decode] when the bytes are not an image
	// in any registered format.
	ErrUndecodable = errors.New("image cannot be decoded")

	// ErrTooLarge is returned by [Decode] when the header declares more than
	// [MaxPixels] pixels. The pixel data is not read.
	ErrTooLarge = errors.New("image dimensions exceed pixel budget")
)
