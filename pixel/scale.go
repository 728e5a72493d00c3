package pixel

// Scale resizes src to exactly w×h with an aspect-preserving center crop:
// whichever source dimension is proportionally larger is cropped, centered,
// so the cropped region matches the target aspect, then every destination
// pixel maps to its nearest-neighbor source coordinate inside that region.
// No interpolation is performed.
func Scale(src *XRGBImage, w, h int) *XRGBImage {
	dst := NewXRGBImage(w, h)
	var (
		srcW = src.Rect.Dx()
		srcH = src.Rect.Dy()
	)
	if w <= 0 || h <= 0 || srcW <= 0 || srcH <= 0 {
		return dst
	}

	var (
		sfx   = w / srcW
		sfy   = h / srcH
		cropW = srcW
		cropH = srcH
		cropX = 0
		cropY = 0
	)
	switch {
	case sfx < sfy:
		cropW = srcH * w / h
		cropX = (srcW - cropW) / 2
	case sfx > sfy:
		cropH = srcW * h / w
		cropY = (srcH - cropH) / 2
	}

	for y := 0; y < h; y++ {
		var (
			sy  = cropH*y/h + cropY
			row = dst.Pix[y*w : y*w+w]
		)
		for x := range row {
			sx := cropW*x/w + cropX
			row[x] = src.Pix[sy*src.Stride+sx]
		}
	}
	return dst
}
