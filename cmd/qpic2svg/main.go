// Command qpic2svg converts a qpic file to TikZ, SVG, PDF or PNG on disk.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/wudi/qpickit/render"
)

type options struct {
	inPath   string
	outPath  string
	formats  []render.Format
	pngWidth int
	timeout  time.Duration
}

func main() {
	opts, err := parseFlags()
	if err != nil {
		fmt.Fprintf(os.Stderr, "qpic2svg: %v\n", err)
		os.Exit(2)
	}
	if err := run(opts); err != nil {
		fmt.Fprintf(os.Stderr, "qpic2svg: %v\n", err)
		os.Exit(1)
	}
}

func parseFlags() (options, error) {
	var opts options
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "Usage: qpic2svg [flags] <circuit.qpic>\n")
		flag.PrintDefaults()
	}
	formats := flag.String("formats", "svg", "Comma-separated outputs: tikz,svg,pdf,png")
	out := flag.String("out", "", "Output basename (default: input basename)")
	pngWidth := flag.Int("png-width", 0, "Rescale PNG output to this pixel width")
	timeout := flag.Duration("timeout", 30*time.Second, "Toolchain timeout")
	flag.Parse()

	if flag.NArg() != 1 {
		return opts, fmt.Errorf("expected exactly one input file")
	}
	opts.inPath = flag.Arg(0)
	opts.outPath = *out
	if opts.outPath == "" {
		opts.outPath = strings.TrimSuffix(opts.inPath, ".qpic")
	}
	for _, f := range strings.Split(*formats, ",") {
		switch render.Format(strings.TrimSpace(f)) {
		case render.FormatTikZ, render.FormatSVG, render.FormatPDF, render.FormatPNG:
			opts.formats = append(opts.formats, render.Format(strings.TrimSpace(f)))
		default:
			return opts, fmt.Errorf("unknown format %q", f)
		}
	}
	opts.pngWidth = *pngWidth
	opts.timeout = *timeout
	return opts, nil
}

func run(opts options) error {
	source, err := os.ReadFile(opts.inPath)
	if err != nil {
		return err
	}

	pipeline := render.New(render.WithCacheSize(0))
	res, err := pipeline.Render(context.Background(), render.Request{
		Source:   string(source),
		Formats:  opts.formats,
		PNGWidth: opts.pngWidth,
		Timeout:  opts.timeout,
	})
	if err != nil {
		return err
	}

	for _, f := range opts.formats {
		var data []byte
		switch f {
		case render.FormatTikZ:
			data = []byte(res.TikZ)
		case render.FormatSVG:
			data = []byte(res.SVG)
		case render.FormatPDF:
			data = res.PDF
		case render.FormatPNG:
			data = res.PNG
		}
		path := fmt.Sprintf("%s.%s", opts.outPath, f)
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return err
		}
		fmt.Printf("wrote %s (%d bytes)\n", path, len(data))
	}
	return nil
}
