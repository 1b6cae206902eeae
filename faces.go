package fmkit

import (
	"context"
	"time"
)

// FaceCounts reports the number of face images in each configured folder.
// A modified time is zero when the folder holds no images.
type FaceCounts struct {
	Normal         int       `json:"normal"`
	Icon           int       `json:"icon"`
	NormalModified time.Time `json:"normalModified"`
	IconModified   time.Time `json:"iconModified"`
}

// FaceCounter counts PNG face images.
type FaceCounter interface {
	// CountFaces counts the PNG files directly inside both folders.
	// A missing folder counts as zero.
	CountFaces(ctx context.Context, normalPath, iconPath string) (*FaceCounts, error)
}
