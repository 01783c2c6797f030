// Command minibrowserd serves a small HTML form for pasting in HTML
// and CSS and viewing the rendered PNG, driving the same pipeline as
// cmd/minibrowser over the network instead of the filesystem.
package main

import (
	"bytes"
	"encoding/base64"
	"flag"
	"fmt"
	"html/template"
	"image/png"
	"net/http"

	"github.com/lukehoban/minibrowser/css"
	"github.com/lukehoban/minibrowser/html"
	"github.com/lukehoban/minibrowser/layout"
	"github.com/lukehoban/minibrowser/log"
	"github.com/lukehoban/minibrowser/render"
	"github.com/lukehoban/minibrowser/style"
)

const defaultHTML = `<div class="box">Hello from minibrowserd</div>`
const defaultCSS = `.box { width: 200px; height: 100px; background-color: #4caf50ff; }`

const pageTemplate = `<!DOCTYPE html>
<html>
<head>
	<title>minibrowserd</title>
	<meta name="viewport" content="width=device-width, initial-scale=1.0">
</head>
<body>
	<h1>minibrowserd</h1>
	<form method="POST">
		<label>HTML</label><br>
		<textarea name="html" rows="8" cols="60">{{.HTML}}</textarea><br>
		<label>CSS</label><br>
		<textarea name="css" rows="6" cols="60">{{.CSS}}</textarea><br>
		<label>Width</label>
		<input type="number" name="width" value="{{.Width}}"><br>
		<button type="submit">Render</button>
	</form>
	{{if .Error}}<pre style="color:red">{{.Error}}</pre>{{end}}
	{{if .ImageData}}<img src="data:image/png;base64,{{.ImageData}}">{{end}}
</body>
</html>`

type pageData struct {
	HTML      string
	CSS       string
	Width     int
	ImageData string
	Error     string
}

func main() {
	port := flag.String("port", "8080", "port to listen on")
	host := flag.String("host", "0.0.0.0", "host to bind to")
	flag.Parse()

	addr := fmt.Sprintf("%s:%s", *host, *port)

	http.HandleFunc("/", handleIndex)
	http.HandleFunc("/health", handleHealth)

	log.Infof("minibrowserd listening on %s", addr)
	log.Errorf("%v", http.ListenAndServe(addr, nil))
}

func handleIndex(w http.ResponseWriter, r *http.Request) {
	data := pageData{HTML: defaultHTML, CSS: defaultCSS, Width: 400}

	if r.Method == http.MethodPost {
		data.HTML = r.FormValue("html")
		data.CSS = r.FormValue("css")
		width := 400
		fmt.Sscanf(r.FormValue("width"), "%d", &width)
		data.Width = width

		imageData, err := renderToBase64PNG(data.HTML, data.CSS, width)
		if err != nil {
			data.Error = err.Error()
			log.Warnf("render failed: %v", err)
		} else {
			data.ImageData = imageData
		}
	}

	tmpl := template.Must(template.New("page").Parse(pageTemplate))
	if err := tmpl.Execute(w, data); err != nil {
		log.Errorf("template error: %v", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
	}
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	fmt.Fprint(w, "OK")
}

func renderToBase64PNG(htmlSrc, cssSrc string, width int) (string, error) {
	dom, err := html.Parse(htmlSrc)
	if err != nil {
		return "", err
	}
	stylesheet, err := css.Parse(cssSrc)
	if err != nil {
		return "", err
	}

	styled := style.StyleTree(dom, stylesheet)
	containingBlock := layout.Dimensions{Content: layout.Rect{Width: float64(width)}}
	box, err := layout.Tree(styled, containingBlock)
	if err != nil {
		return "", err
	}

	bounds := layout.Rect{Width: float64(width), Height: box.MarginBox().Height}
	canvas := render.Paint(box, bounds)

	var buf bytes.Buffer
	if err := png.Encode(&buf, canvas.ToImage()); err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}
