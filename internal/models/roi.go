package models

import "image"

// ROI is a labeled rectangle in mirrored-frame pixel coordinates.
type ROI struct {
	Label string      `json:"label"`
	Start image.Point `json:"start"`
	End   image.Point `json:"end"`
}

// Rect returns the canonical (ordered) rectangle spanned by Start and End,
// inclusive of both corners.
func (r ROI) Rect() image.Rectangle {
	return image.Rectangle{Min: r.Start, Max: r.End}.Canon()
}

type Counts struct {
	Total     int    `json:"total"`
	Correct   int    `json:"correct"`
	Incorrect int    `json:"incorrect"`
	Status    string `json:"status"`
}
