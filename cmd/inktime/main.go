// inktime renders today's "on this day" photos into six-color e-paper frames.
package main

import (
	"flag"
	"math/rand"
	"path/filepath"
	"strings"
	"time"

	_ "image/jpeg"
	_ "image/png"

	"github.com/fsnotify/fsnotify"
	"k8s.io/klog/v2"

	"github.com/tstromberg/inktime/pkg/inktime"
)

var (
	configPath = flag.String("config", "", "Location of YAML config file (optional)")
	dateFlag   = flag.String("date", "", "Render for this date (YYYY-MM-DD) instead of today")
	seedFlag   = flag.Int64("seed", 0, "Random seed for photo choice (0 for a fresh seed)")
	watchFlag  = flag.Bool("watch", false, "watch the metadata store and re-render when it changes")
	settle     = flag.Duration("settle", 2*time.Second, "quiet period after a store change before re-rendering")
)

func main() {
	klog.InitFlags(nil)
	flag.Parse()

	c, err := inktime.LoadConfig(*configPath)
	if err != nil {
		klog.Exitf("config failed: %v", err)
	}

	o := inktime.Options{}
	if *dateFlag != "" {
		o.Today, err = time.Parse("2006-01-02", *dateFlag)
		if err != nil {
			klog.Exitf("--date: %v", err)
		}
	}
	if *seedFlag != 0 {
		o.Rand = rand.New(rand.NewSource(*seedFlag))
	}

	eo, err := inktime.NewExifOrienter()
	if err != nil {
		klog.Warningf("orientation correction disabled: %v", err)
	} else {
		defer eo.Close()
		o.Orienter = eo
	}

	if _, err := inktime.Run(c, o); err != nil {
		klog.Exitf("run failed: %v", err)
	}

	if *watchFlag {
		if err := watch(c, o); err != nil {
			klog.Exitf("watch failed: %v", err)
		}
	}
}

// watch re-renders whenever the metadata store changes, once writes settle.
func watch(c *inktime.Config, o inktime.Options) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	dir := filepath.Dir(c.DBPath)
	base := filepath.Base(c.DBPath)
	if err := w.Add(dir); err != nil {
		return err
	}
	klog.Infof("watching %s for changes to %s ...", dir, base)

	timer := time.NewTimer(time.Hour)
	timer.Stop()

	for {
		select {
		case event, ok := <-w.Events:
			if !ok {
				return nil
			}
			if !strings.HasPrefix(filepath.Base(event.Name), base) {
				continue
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) || event.Has(fsnotify.Rename) {
				klog.V(1).Infof("event: %s", event)
				timer.Reset(*settle)
			}
		case <-timer.C:
			// follow the calendar when no date was pinned
			if *dateFlag == "" {
				o.Today = time.Now()
			}
			if _, err := inktime.Run(c, o); err != nil {
				klog.Exitf("run failed: %v", err)
			}
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			klog.Errorf("watch error: %v", err)
		}
	}
}
