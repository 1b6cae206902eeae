// Package fs provides filesystem access for the face image folders.
package fs

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fwojciec/fmkit"
	"golang.org/x/sync/errgroup"
)

// Ensure FaceCounter implements fmkit.FaceCounter at compile time.
var _ fmkit.FaceCounter = (*FaceCounter)(nil)

// FaceCounter counts PNG files in face folders.
type FaceCounter struct{}

// NewFaceCounter creates a new FaceCounter.
func NewFaceCounter() *FaceCounter {
	return &FaceCounter{}
}

// CountFaces scans both folders concurrently. Only regular files directly
// inside a folder with a case-insensitive ".png" extension are counted.
// A missing folder or an empty path counts as zero.
func (c *FaceCounter) CountFaces(ctx context.Context, normalPath, iconPath string) (*fmkit.FaceCounts, error) {
	var counts fmkit.FaceCounts

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		counts.Normal, counts.NormalModified, err = countPNGs(ctx, normalPath)
		return err
	})
	g.Go(func() (err error) {
		counts.Icon, counts.IconModified, err = countPNGs(ctx, iconPath)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return &counts, nil
}

// countPNGs returns the number of PNG files in dir and the newest
// modification time among them.
func countPNGs(ctx context.Context, dir string) (int, time.Time, error) {
	if dir == "" {
		return 0, time.Time{}, nil
	}

	entries, err := os.ReadDir(dir)
	if errors.Is(err, fs.ErrNotExist) {
		return 0, time.Time{}, nil
	}
	if err != nil {
		return 0, time.Time{}, err
	}

	var n int
	var newest time.Time
	for _, e := range entries {
		if err := ctx.Err(); err != nil {
			return 0, time.Time{}, err
		}
		if !e.Type().IsRegular() || !strings.EqualFold(filepath.Ext(e.Name()), ".png") {
			continue
		}
		info, err := e.Info()
		if errors.Is(err, fs.ErrNotExist) {
			// removed since ReadDir
			continue
		}
		if err != nil {
			return 0, time.Time{}, err
		}
		n++
		if info.ModTime().After(newest) {
			newest = info.ModTime()
		}
	}

	return n, newest, nil
}
