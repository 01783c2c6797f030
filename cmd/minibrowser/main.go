// Command minibrowser renders an HTML document and its stylesheet to a
// PNG image, driving the full pipeline: parse, cascade, layout, paint.
package main

import (
	"flag"
	"os"

	"github.com/lukehoban/minibrowser/css"
	"github.com/lukehoban/minibrowser/html"
	"github.com/lukehoban/minibrowser/layout"
	"github.com/lukehoban/minibrowser/log"
	"github.com/lukehoban/minibrowser/render"
	"github.com/lukehoban/minibrowser/style"
)

func main() {
	var (
		htmlPath string
		cssPath  string
		outPath  string
		width    int
		verbose  bool
	)
	flag.StringVar(&htmlPath, "html", "", "path to an HTML file (required)")
	flag.StringVar(&cssPath, "css", "", "path to a CSS file (required)")
	flag.StringVar(&outPath, "out", "output.png", "path to write the rendered PNG")
	flag.IntVar(&width, "width", 800, "viewport width in pixels")
	flag.BoolVar(&verbose, "v", false, "log each pipeline stage at info level")
	flag.Parse()

	if verbose {
		log.SetLevel(log.InfoLevel)
	}

	if htmlPath == "" || cssPath == "" {
		log.Error("both -html and -css are required")
		flag.Usage()
		os.Exit(2)
	}

	if err := run(htmlPath, cssPath, outPath, width); err != nil {
		log.Errorf("%v", err)
		os.Exit(1)
	}
}

func run(htmlPath, cssPath, outPath string, width int) error {
	htmlSrc, err := os.ReadFile(htmlPath)
	if err != nil {
		return err
	}
	cssSrc, err := os.ReadFile(cssPath)
	if err != nil {
		return err
	}

	log.Infof("parsing %s", htmlPath)
	dom, err := html.Parse(string(htmlSrc))
	if err != nil {
		return err
	}

	log.Infof("parsing %s", cssPath)
	stylesheet, err := css.Parse(string(cssSrc))
	if err != nil {
		return err
	}

	log.Info("resolving styles")
	styled := style.StyleTree(dom, stylesheet)

	log.Info("computing layout")
	containingBlock := layout.Dimensions{Content: layout.Rect{Width: float64(width)}}
	box, err := layout.Tree(styled, containingBlock)
	if err != nil {
		return err
	}

	bounds := layout.Rect{
		Width:  float64(width),
		Height: box.MarginBox().Height,
	}

	log.Infof("painting %dx%d canvas", int(bounds.Width), int(bounds.Height))
	canvas := render.Paint(box, bounds)

	log.Infof("writing %s", outPath)
	return canvas.SavePNG(outPath)
}
