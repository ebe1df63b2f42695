package inktime

import (
	"fmt"
	"math/rand"
	"time"

	"k8s.io/klog/v2"

	"github.com/tstromberg/inktime/pkg/epd"
)

// Options control a single run.
type Options struct {
	// Today is the date photos are chosen for.
	Today time.Time
	// Rand drives the choice among equally qualified photos; nil means a fresh source.
	Rand *rand.Rand
	// Orienter fixes rotated photos; nil leaves pixels as decoded.
	Orienter Orienter
}

// Run selects today's photos and writes every artifact for them. Any failure
// aborts the run, since a partial set of frames is not usable by the panel.
func Run(c *Config, o Options) (*Selection, error) {
	klog.Infof("run: %s -> %s (tag %s)", c.DBPath, c.OutDir, c.Tag)

	rs, err := LoadRecords(c.DBPath)
	if err != nil {
		return nil, fmt.Errorf("load: %w", err)
	}
	if len(rs) == 0 {
		return nil, fmt.Errorf("load: %w", ErrNoRecords)
	}

	today := o.Today
	if today.IsZero() {
		today = time.Now()
	}

	sel, err := Select(rs, today, c.Count, c.MemoryThreshold, o.Rand)
	if err != nil {
		return nil, fmt.Errorf("select: %w", err)
	}
	offset := "none"
	if sel.DayOffset != nil {
		offset = fmt.Sprint(*sel.DayOffset)
	}
	klog.Infof("target %s used %s offset %s fallback %v (%d candidates of %d)",
		sel.TargetMonthDay, sel.UsedMonthDay, offset, sel.UsedFallback, sel.CandidateCount, sel.TotalCountForDay)
	if len(sel.Chosen) == 0 {
		return nil, fmt.Errorf("select: %w", ErrNoRecords)
	}

	comp := NewCompositor(c.FontPath, o.Orienter)
	var first *Artifacts
	for i, r := range sel.Chosen {
		klog.Infof("[%d/%d] %s (score %.1f)", i+1, len(sel.Chosen), r.Path, r.MemoryScore)
		canvas, err := comp.Render(r)
		if err != nil {
			return nil, fmt.Errorf("render: %w", err)
		}

		epd.Dither(canvas)

		a, err := WriteArtifacts(c.OutDir, c.Tag, i, canvas)
		if err != nil {
			return nil, fmt.Errorf("write: %w", err)
		}
		if err := Replicate(c.OutDir, c.PublishDirs, a); err != nil {
			return nil, fmt.Errorf("replicate: %w", err)
		}
		if i == 0 {
			first = a
		}
	}

	if err := Alias(c.OutDir, c.PublishDirs, c.Tag, first); err != nil {
		return nil, fmt.Errorf("alias: %w", err)
	}

	for _, d := range append([]string{c.OutDir}, c.PublishDirs...) {
		if err := Prune(d, c.Tag, len(sel.Chosen)); err != nil {
			return nil, fmt.Errorf("prune: %w", err)
		}
	}

	return sel, nil
}
