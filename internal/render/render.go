// Package render produces the HTML pages served to browsers.
package render

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io"
	"strings"
	"time"

	"github.com/Masterminds/sprig/v3"

	"github.com/ganot/nossoday/internal/domain/checkout"
	"github.com/ganot/nossoday/internal/domain/couple"
	"github.com/ganot/nossoday/internal/elapsed"
)

//go:embed templates/*.html
var templateFS embed.FS

const pngDataURLPrefix = "data:image/png;base64,"

// Renderer executes the embedded page templates.
type Renderer struct {
	couple  *template.Template
	success *template.Template
}

// New parses the embedded templates.
func New() (*Renderer, error) {
	parse := func(name string) (*template.Template, error) {
		t, err := template.New(name).Funcs(sprig.FuncMap()).ParseFS(templateFS, "templates/"+name)
		if err != nil {
			return nil, fmt.Errorf("parsing %s: %w", name, err)
		}
		return t, nil
	}

	coupleTmpl, err := parse("couple.html")
	if err != nil {
		return nil, err
	}
	successTmpl, err := parse("success.html")
	if err != nil {
		return nil, err
	}
	return &Renderer{couple: coupleTmpl, success: successTmpl}, nil
}

type startInstant struct {
	Year   int `json:"year"`
	Month  int `json:"month"`
	Day    int `json:"day"`
	Hour   int `json:"hour"`
	Minute int `json:"minute"`
	Second int `json:"second"`
}

type coupleView struct {
	Couple    *couple.Couple
	Since     time.Time
	Start     startInstant
	Elapsed   elapsed.Breakdown
	VideoID   string
	StreamURL string
}

// Couple writes the couple page. streamURL, when set, is the live
// counter event stream the page subscribes to.
func (r *Renderer) Couple(w io.Writer, page *couple.Page, streamURL string) error {
	in := elapsed.InstantOf(page.Since)
	view := coupleView{
		Couple: page.Couple,
		Since:  page.Since,
		Start: startInstant{
			Year:   in.Year,
			Month:  in.Month,
			Day:    in.Day,
			Hour:   in.Hour,
			Minute: in.Minute,
			Second: in.Second,
		},
		Elapsed:   page.Elapsed,
		VideoID:   page.VideoID,
		StreamURL: streamURL,
	}
	return execute(w, r.couple, view)
}

type successView struct {
	SiteURL       string
	PaymentStatus string
	QRCode        template.URL
}

// Success writes the post-checkout page with the QR code and share link.
func (r *Renderer) Success(w io.Writer, conf *checkout.Confirmation) error {
	if !strings.HasPrefix(conf.QRCodeDataURL, pngDataURLPrefix) {
		return fmt.Errorf("unexpected qr code format")
	}
	view := successView{
		SiteURL:       conf.SiteURL,
		PaymentStatus: conf.PaymentStatus,
		QRCode:        template.URL(conf.QRCodeDataURL),
	}
	return execute(w, r.success, view)
}

// execute renders into a buffer and writes it to w only on success.
func execute(w io.Writer, t *template.Template, data any) error {
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return fmt.Errorf("rendering %s: %w", t.Name(), err)
	}
	_, err := buf.WriteTo(w)
	return err
}
