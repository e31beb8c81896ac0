package services

import (
	"bytes"
	"encoding/base64"
	"image/png"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeEAN13(t *testing.T) {
	tests := []struct {
		in   string
		want string
		ok   bool
	}{
		{"622300123456", "6223001234562", true},
		{"622300654321", "6223006543218", true},
		{"400638133393", "4006381333931", true},
		{"4006381333931", "4006381333931", true},
		{" 622300123456 ", "6223001234562", true},
		{"SKU-42", "SKU-42", false},
		{"12345", "12345", false},
		{"", "", false},
	}
	for _, tt := range tests {
		got, ok := NormalizeEAN13(tt.in)
		assert.Equal(t, tt.want, got, tt.in)
		assert.Equal(t, tt.ok, ok, tt.in)
	}
}

func decodeDataURL(t *testing.T, url string) (width, height int) {
	t.Helper()
	const prefix = "data:image/png;base64,"
	require.True(t, strings.HasPrefix(url, prefix))
	data, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(url, prefix))
	require.NoError(t, err)
	cfg, err := png.DecodeConfig(bytes.NewReader(data))
	require.NoError(t, err)
	return cfg.Width, cfg.Height
}

func TestBarcodeImage_EAN13(t *testing.T) {
	url, err := barcodeImage("622300123456")
	require.NoError(t, err)

	w, h := decodeDataURL(t, string(url))
	assert.Equal(t, ean13Width, w)
	assert.Equal(t, ean13Height, h)
}

func TestBarcodeImage_FallsBackToQR(t *testing.T) {
	for _, code := range []string{"SKU-42", "6223001234567"} { // text, bad check digit
		url, err := barcodeImage(code)
		require.NoError(t, err, code)

		w, h := decodeDataURL(t, string(url))
		assert.Equal(t, qrSize, w, code)
		assert.Equal(t, qrSize, h, code)
	}
}

func TestBarcodeText(t *testing.T) {
	assert.Equal(t, "6223001234562", barcodeText("622300123456"))
	assert.Equal(t, "SKU-42", barcodeText("SKU-42"))
}
