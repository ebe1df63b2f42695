// bin2png decodes packed e-paper frames back into PNG images for inspection.
package main

import (
	"flag"
	"os"
	"path/filepath"
	"strings"

	"github.com/anthonynsimon/bild/imgio"
	"k8s.io/klog/v2"

	"github.com/tstromberg/inktime/pkg/epd"
)

var outDir = flag.String("out", "", "Location of output directory (default: next to each input)")

func main() {
	klog.InitFlags(nil)
	flag.Parse()

	if len(flag.Args()) == 0 {
		klog.Exitf("usage: %s [--out <dir>] <frame.bin> ...", os.Args[0])
	}

	for _, in := range flag.Args() {
		if err := convert(in); err != nil {
			klog.Exitf("%s: %v", in, err)
		}
	}
}

func convert(in string) error {
	bs, err := os.ReadFile(in)
	if err != nil {
		return err
	}

	w := epd.Width
	if len(bs) == epd.HalfFrameSize {
		w = epd.HalfWidth
	}
	f, err := epd.Decode(bs, w, epd.Height)
	if err != nil {
		return err
	}

	dir := filepath.Dir(in)
	if *outDir != "" {
		dir = *outDir
	}
	out := filepath.Join(dir, strings.TrimSuffix(filepath.Base(in), filepath.Ext(in))+".png")
	if err := imgio.Save(out, f, imgio.PNGEncoder()); err != nil {
		return err
	}
	klog.Infof("%s -> %s (%dx%d)", in, out, w, epd.Height)
	return nil
}
