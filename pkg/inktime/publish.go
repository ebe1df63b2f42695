package inktime

import (
	"errors"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/anthonynsimon/bild/imgio"
	"github.com/karrick/godirwalk"
	"github.com/otiai10/copy"
	"k8s.io/klog/v2"

	"github.com/tstromberg/inktime/pkg/epd"
)

// Frame parts written per photo.
const (
	PartLeft  = "L"
	PartRight = "R"
	PartFull  = "FULL"
)

var parts = []string{PartLeft, PartRight, PartFull}

// PreviewName is the PNG preview file name for the idx'th photo.
func PreviewName(tag string, idx int) string {
	return fmt.Sprintf("preview_%s_%d.png", tag, idx)
}

// FrameName is the packed frame file name for the idx'th photo.
func FrameName(tag string, idx int, part string) string {
	return fmt.Sprintf("photo_%s_%d_%s.bin", tag, idx, part)
}

// Artifacts lists the files written for one photo, relative to the out dir.
type Artifacts struct {
	Preview string
	Frames  map[string]string
}

func (a *Artifacts) names() []string {
	ns := []string{a.Preview}
	for _, p := range parts {
		ns = append(ns, a.Frames[p])
	}
	return ns
}

// WriteArtifacts saves the preview and packed frames of a dithered canvas.
func WriteArtifacts(outDir, tag string, idx int, img *image.RGBA) (*Artifacts, error) {
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return nil, fmt.Errorf("mkdir: %w", err)
	}

	a := &Artifacts{Preview: PreviewName(tag, idx), Frames: map[string]string{}}
	pp := filepath.Join(outDir, a.Preview)
	if err := imgio.Save(pp, img, imgio.PNGEncoder()); err != nil {
		return nil, fmt.Errorf("save preview: %w", err)
	}
	klog.Infof("preview: %s", pp)

	left, err := epd.PackHalf(img, 0)
	if err != nil {
		return nil, fmt.Errorf("pack left: %w", err)
	}
	right, err := epd.PackHalf(img, epd.HalfWidth)
	if err != nil {
		return nil, fmt.Errorf("pack right: %w", err)
	}
	full, err := epd.PackFull(img)
	if err != nil {
		return nil, fmt.Errorf("pack full: %w", err)
	}

	packed := map[string][]byte{PartLeft: left, PartRight: right, PartFull: full}
	for _, part := range parts {
		bs := packed[part]
		name := FrameName(tag, idx, part)
		p := filepath.Join(outDir, name)
		if err := os.WriteFile(p, bs, 0o644); err != nil {
			return nil, fmt.Errorf("write %s: %w", part, err)
		}
		klog.Infof("%s frame: %s size=%d", part, p, len(bs))
		a.Frames[part] = name
	}
	return a, nil
}

// Replicate copies a photo's artifacts from outDir into each publish dir.
func Replicate(outDir string, publishDirs []string, a *Artifacts) error {
	for _, d := range publishDirs {
		if sameDir(outDir, d) {
			klog.Warningf("publish dir %s is the output dir, skipping", d)
			continue
		}
		for _, n := range a.names() {
			dst := filepath.Join(d, n)
			if err := copy.Copy(filepath.Join(outDir, n), dst); err != nil {
				return fmt.Errorf("copy: %w", err)
			}
			klog.V(1).Infof("published %s", dst)
		}
	}
	return nil
}

// sameDir reports whether a and b name the same existing directory.
func sameDir(a, b string) bool {
	if filepath.Clean(a) == filepath.Clean(b) {
		return true
	}
	sa, err := os.Stat(a)
	if err != nil {
		return false
	}
	sb, err := os.Stat(b)
	if err != nil {
		return false
	}
	return os.SameFile(sa, sb)
}

// Alias points the "latest" names at the first photo's artifacts, in outDir
// and every publish dir.
func Alias(outDir string, publishDirs []string, tag string, first *Artifacts) error {
	aliases := map[string]string{
		first.Preview: fmt.Sprintf("preview_%s.png", tag),
	}
	for _, p := range parts {
		aliases[first.Frames[p]] = fmt.Sprintf("latest_%s_%s.bin", tag, p)
	}

	dirs := []string{outDir}
	for _, d := range publishDirs {
		if !sameDir(outDir, d) {
			dirs = append(dirs, d)
		}
	}

	for _, d := range dirs {
		for src, alias := range aliases {
			dst := filepath.Join(d, alias)
			if err := copy.Copy(filepath.Join(outDir, src), dst); err != nil {
				return fmt.Errorf("alias: %w", err)
			}
			klog.Infof("latest %s -> %s", dst, src)
		}
	}
	return nil
}

// artifactIndex returns the photo index encoded in an artifact file name.
func artifactIndex(name, tag string) (int, bool) {
	var rest string
	switch {
	case strings.HasPrefix(name, "photo_"+tag+"_") && strings.HasSuffix(name, ".bin"):
		rest = strings.TrimPrefix(name, "photo_"+tag+"_")
		rest, _, _ = strings.Cut(rest, "_")
	case strings.HasPrefix(name, "preview_"+tag+"_") && strings.HasSuffix(name, ".png"):
		rest = strings.TrimSuffix(strings.TrimPrefix(name, "preview_"+tag+"_"), ".png")
	default:
		return 0, false
	}
	n, err := strconv.Atoi(rest)
	if err != nil || n < 0 {
		return 0, false
	}
	return n, true
}

// Prune removes indexed artifacts at or beyond keep, left behind by an
// earlier run that chose more photos. Missing directories are ignored.
func Prune(dir, tag string, keep int) error {
	names, err := godirwalk.ReadDirnames(dir, nil)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("read dir: %w", err)
	}

	for _, n := range names {
		idx, ok := artifactIndex(n, tag)
		if !ok || idx < keep {
			continue
		}
		p := filepath.Join(dir, n)
		klog.Infof("removing stale %s", p)
		if err := os.Remove(p); err != nil {
			return fmt.Errorf("remove: %w", err)
		}
	}
	return nil
}
