package services

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Riboost-Studio/perfect-menu-print-labels/internal/model"
)

func sampleLabel() model.Label {
	return model.Label{
		Printer: "Zebra LP2824",
		Title:   "أسواق ابوعمر",
		Products: []model.ProductEntry{
			{Name: "عصير برتقال", Price: "5", Barcode: "622300123456"},
			{Name: "مياه معدنية", Price: "3.50", Barcode: "622300654321"},
		},
	}
}

func TestRenderHTML_EmbeddedTemplate(t *testing.T) {
	tmpl, err := LoadLabelTemplate("")
	require.NoError(t, err)

	html, err := RenderHTML(tmpl, sampleLabel(), 440)
	require.NoError(t, err)

	assert.Contains(t, html, "أسواق ابوعمر")
	assert.Contains(t, html, "عصير برتقال")
	assert.Contains(t, html, "5.00 "+Currency)
	assert.Contains(t, html, "3.50 "+Currency)
	assert.Contains(t, html, "6223006543218", "check digit added")
	assert.Contains(t, html, "width: 440px")
	assert.Contains(t, html, "repeat(2, 1fr)")
	assert.Equal(t, 2, strings.Count(html, `src="data:image/png;base64,`))
}

func TestRenderHTML_KeepsUnparseablePrice(t *testing.T) {
	tmpl, err := LoadLabelTemplate("")
	require.NoError(t, err)

	label := model.Label{Products: []model.ProductEntry{{Name: "x", Price: "free"}}}
	html, err := RenderHTML(tmpl, label, 384)
	require.NoError(t, err)

	assert.Contains(t, html, "free "+Currency)
	assert.Contains(t, html, "repeat(1, 1fr)")
	assert.NotContains(t, html, "data:image/png", "no barcode, no symbol")
	assert.NotContains(t, html, `class="title"`)
}

func TestLoadLabelTemplate_FromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "shelf.html")
	body := `{{ range .Products }}[{{ .Name | upper }}:{{ formatMoney .Price }}]{{ end }}`
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))

	tmpl, err := LoadLabelTemplate(path)
	require.NoError(t, err)

	html, err := RenderHTML(tmpl, model.Label{Products: []model.ProductEntry{{Name: "tea", Price: "2"}}}, 384)
	require.NoError(t, err)
	assert.Equal(t, "[TEA:2.00]", html)
}

func TestLoadLabelTemplate_MissingFile(t *testing.T) {
	_, err := LoadLabelTemplate(filepath.Join(t.TempDir(), "missing.html"))
	assert.Error(t, err)
}

func TestURLEncode(t *testing.T) {
	assert.Equal(t, "a%20b%26c", urlEncode("a b&c"))
}
