package services

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"html/template"
	"image"
	"image/png"
	"net/url"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/Masterminds/sprig/v3"
	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"

	"github.com/Riboost-Studio/perfect-menu-print-labels/internal/model"
)

// Currency is printed after every price.
const Currency = "ج.م"

const labelTemplateName = "label.html"

//go:embed templates/label.html
var embeddedTemplates embed.FS

// Renderer turns a label into an image at the given width in dots.
type Renderer interface {
	Render(ctx context.Context, label model.Label, width int) (image.Image, error)
}

// Define Helper functions for the template (formatting strings to money, barcodes, etc)
var templateFuncs = template.FuncMap{
	// Normalises "5" to "5.00". Prices that do not parse are printed as given.
	"formatMoney": func(amount string) string {
		val, err := strconv.ParseFloat(strings.TrimSpace(amount), 64)
		if err != nil {
			return amount
		}
		return fmt.Sprintf("%.2f", val)
	},
	"barcodeImage": barcodeImage,
	"barcodeText":  barcodeText,
}

type labelView struct {
	Title    string
	Products []model.ProductEntry
	Currency string
	Width    int
	Columns  int
}

// LoadLabelTemplate parses the label template at path, or the embedded one
// when path is empty.
func LoadLabelTemplate(path string) (*template.Template, error) {
	name := labelTemplateName
	if path != "" {
		name = filepath.Base(path)
	}
	tmpl := template.New(name).Funcs(sprig.FuncMap()).Funcs(templateFuncs)

	var err error
	if path == "" {
		tmpl, err = tmpl.ParseFS(embeddedTemplates, "templates/"+labelTemplateName)
	} else {
		tmpl, err = tmpl.ParseFiles(path)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse template: %w", err)
	}
	return tmpl, nil
}

// RenderHTML executes tmpl for label at the given width.
func RenderHTML(tmpl *template.Template, label model.Label, width int) (string, error) {
	columns := 1
	if len(label.Products) > 1 {
		columns = 2
	}
	view := labelView{
		Title:    label.Title,
		Products: label.Products,
		Currency: Currency,
		Width:    width,
		Columns:  columns,
	}

	var htmlBuffer bytes.Buffer
	if err := tmpl.Execute(&htmlBuffer, view); err != nil {
		return "", fmt.Errorf("failed to execute template: %w", err)
	}
	return htmlBuffer.String(), nil
}

// ChromeRenderer renders labels with headless Chrome.
type ChromeRenderer struct {
	Template   *template.Template
	ChromePath string
	Settle     time.Duration
}

func (r *ChromeRenderer) Render(ctx context.Context, label model.Label, width int) (image.Image, error) {
	html, err := RenderHTML(r.Template, label, width)
	if err != nil {
		return nil, err
	}

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-gpu", true),
	)
	if r.ChromePath != "" {
		opts = append(opts, chromedp.ExecPath(r.ChromePath))
	}

	allocCtx, allocCancel := chromedp.NewExecAllocator(ctx, opts...)
	defer allocCancel()
	cdpCtx, cancel := chromedp.NewContext(allocCtx)
	defer cancel()

	var pngBytes []byte
	err = chromedp.Run(cdpCtx,
		chromedp.EmulateViewport(int64(width), 100),
		// Load HTML directly using data URL
		chromedp.Navigate("data:text/html,"+urlEncode(html)),
		chromedp.Sleep(r.Settle),
		chromedp.ActionFunc(func(ctx context.Context) error {
			buf, err := page.CaptureScreenshot().
				WithCaptureBeyondViewport(true).
				Do(ctx)
			if err != nil {
				return err
			}
			pngBytes = buf
			return nil
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed generating image: %w", err)
	}

	img, err := png.Decode(bytes.NewReader(pngBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to decode PNG: %w", err)
	}
	return img, nil
}

// Helper for encoding HTML into a data URL
func urlEncode(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}
