package inference

import (
	"image"
	"image/color"

	"golang.org/x/image/draw"
)

// InputSize is the square edge, in pixels, of the classifier input.
const InputSize = 224

// Layout describes how pixels are arranged and scaled in an input tensor.
type Layout int

const (
	// LayoutNHWCRaw is batch×height×width×channel with raw 0–255 values,
	// as expected by Keras EfficientNet exports (rescaling is in-graph).
	LayoutNHWCRaw Layout = iota

	// LayoutNCHWImageNet is batch×channel×height×width with ImageNet
	// mean/std normalization, as expected by torchvision exports.
	LayoutNCHWImageNet
)

var (
	imageNetMean = [3]float32{0.485, 0.456, 0.406}
	imageNetStd  = [3]float32{0.229, 0.224, 0.225}
)

// Input is a preprocessed batch of one image.
type Input struct {
	Data   []float32
	Shape  []int64
	Layout Layout
}

// resize scales img to InputSize×InputSize with Catmull-Rom resampling.
func resize(img image.Image) *image.RGBA {
	dst := image.NewRGBA(image.Rect(0, 0, InputSize, InputSize))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, img.Bounds(), draw.Src, nil)
	return dst
}

// toTensor resizes img and lays its RGB channels out in the given layout.
// Channels are un-premultiplied before alpha is dropped, so translucent
// pixels keep their stored color.
func toTensor(img image.Image, layout Layout) Input {
	rgba := resize(img)
	const plane = InputSize * InputSize
	data := make([]float32, 3*plane)

	for y := 0; y < InputSize; y++ {
		row := rgba.Pix[y*rgba.Stride:]
		for x := 0; x < InputSize; x++ {
			px := straightRGB(row[x*4 : x*4+4])
			for c := 0; c < 3; c++ {
				v := float32(px[c])
				switch layout {
				case LayoutNCHWImageNet:
					data[c*plane+y*InputSize+x] = (v/255 - imageNetMean[c]) / imageNetStd[c]
				default:
					data[(y*InputSize+x)*3+c] = v
				}
			}
		}
	}

	shape := []int64{1, InputSize, InputSize, 3}
	if layout == LayoutNCHWImageNet {
		shape = []int64{1, 3, InputSize, InputSize}
	}
	return Input{Data: data, Shape: shape, Layout: layout}
}

// straightRGB converts one premultiplied RGBA pixel to straight RGB.
func straightRGB(px []byte) [3]uint8 {
	if px[3] == 0xff {
		return [3]uint8{px[0], px[1], px[2]}
	}
	c := color.NRGBAModel.Convert(color.RGBA{R: px[0], G: px[1], B: px[2], A: px[3]}).(color.NRGBA)
	return [3]uint8{c.R, c.G, c.B}
}
