// Package compare locates regions where two same-sized images differ.
package compare

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"sort"

	"gocv.io/x/gocv"
)

var (
	ErrDimensionMismatch = errors.New("images differ in size")
	ErrUnreadable        = errors.New("image could not be read")
)

// Options tunes the detector.
type Options struct {
	Threshold        float32 // grey-level difference that counts as a change
	BlurKernel       int     // odd Gaussian kernel size; 0 disables blurring
	DilateIterations int     // grows changed areas so neighbours merge into one region
	MinArea          float64 // regions whose bounding box is smaller are dropped
	Output           string  // annotated copy of the second image; empty to skip
}

// DefaultOptions mirrors the config defaults.
func DefaultOptions() Options {
	return Options{Threshold: 30, BlurKernel: 5, DilateIterations: 2, MinArea: 10}
}

// Result summarises the differences found.
type Result struct {
	Width         int
	Height        int
	ChangedPixels int // pixels above the threshold before dilation
	Regions       []image.Rectangle
}

var boxColor = color.RGBA{R: 255, A: 255}

// Compare diffs the images at pathA and pathB: absolute difference, grey
// conversion, blur, binary threshold, dilation, then bounding boxes of the
// external contours.
func Compare(pathA, pathB string, opts Options) (*Result, error) {
	a := gocv.IMRead(pathA, gocv.IMReadColor)
	defer a.Close()
	if a.Empty() {
		return nil, fmt.Errorf("%w: %s", ErrUnreadable, pathA)
	}
	b := gocv.IMRead(pathB, gocv.IMReadColor)
	defer b.Close()
	if b.Empty() {
		return nil, fmt.Errorf("%w: %s", ErrUnreadable, pathB)
	}
	if a.Rows() != b.Rows() || a.Cols() != b.Cols() {
		return nil, fmt.Errorf("%w: %dx%d vs %dx%d",
			ErrDimensionMismatch, a.Cols(), a.Rows(), b.Cols(), b.Rows())
	}

	diff := gocv.NewMat()
	defer diff.Close()
	gocv.AbsDiff(a, b, &diff)

	gray := gocv.NewMat()
	defer gray.Close()
	gocv.CvtColor(diff, &gray, gocv.ColorBGRToGray)

	if opts.BlurKernel > 0 {
		blurred := gocv.NewMat()
		defer blurred.Close()
		gocv.GaussianBlur(gray, &blurred, image.Pt(opts.BlurKernel, opts.BlurKernel), 0, 0, gocv.BorderDefault)
		gray = blurred
	}

	mask := gocv.NewMat()
	defer func() { mask.Close() }()
	gocv.Threshold(gray, &mask, opts.Threshold, 255, gocv.ThresholdBinary)

	res := &Result{
		Width:         a.Cols(),
		Height:        a.Rows(),
		ChangedPixels: gocv.CountNonZero(mask),
	}

	if opts.DilateIterations > 0 {
		kernel := gocv.GetStructuringElement(gocv.MorphRect, image.Pt(3, 3))
		defer kernel.Close()
		for i := 0; i < opts.DilateIterations; i++ {
			grown := gocv.NewMat()
			gocv.Dilate(mask, &grown, kernel)
			mask.Close()
			mask = grown
		}
	}

	contours := gocv.FindContours(mask, gocv.RetrievalExternal, gocv.ChainApproxSimple)
	defer contours.Close()
	for i := 0; i < contours.Size(); i++ {
		r := gocv.BoundingRect(contours.At(i))
		if float64(r.Dx()*r.Dy()) < opts.MinArea {
			continue
		}
		res.Regions = append(res.Regions, r)
	}
	sort.Slice(res.Regions, func(i, j int) bool {
		ri, rj := res.Regions[i], res.Regions[j]
		if ri.Min.Y != rj.Min.Y {
			return ri.Min.Y < rj.Min.Y
		}
		return ri.Min.X < rj.Min.X
	})

	if opts.Output != "" {
		annotated := b.Clone()
		defer annotated.Close()
		for _, r := range res.Regions {
			gocv.Rectangle(&annotated, r, boxColor, 2)
		}
		if ok := gocv.IMWrite(opts.Output, annotated); !ok {
			return nil, fmt.Errorf("writing %s failed", opts.Output)
		}
	}
	return res, nil
}
