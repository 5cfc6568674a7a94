package ocr

// Word is a single OCR-recognized token on a page image. Positions and sizes
// are pixels in the page-image coordinate space, origin at the top-left.
type Word struct {
	Text       string
	Left       int
	Top        int
	Width      int
	Height     int
	Confidence float64 // 0-100
}
