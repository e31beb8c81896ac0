package services

import (
	"bytes"
	"encoding/base64"
	"html/template"
	"image/png"
	"strings"

	"github.com/boombuler/barcode"
	"github.com/boombuler/barcode/ean"
	"github.com/skip2/go-qrcode"
)

const (
	// 95 modules at 2 dots each
	ean13Width  = 190
	ean13Height = 80
	qrSize      = 128
)

// NormalizeEAN13 completes a 12-digit code with its EAN-13 check digit and
// passes a 13-digit code through. ok is false for anything else, which is
// returned trimmed but otherwise unchanged.
func NormalizeEAN13(code string) (normalized string, ok bool) {
	code = strings.TrimSpace(code)
	if !isDigits(code) {
		return code, false
	}
	switch len(code) {
	case 12:
		return code + string(rune('0'+ean13CheckDigit(code))), true
	case 13:
		return code, true
	}
	return code, false
}

// ean13CheckDigit weighs the first 12 digits 1,3,1,3,...
func ean13CheckDigit(digits string) int {
	sum := 0
	for i := 0; i < 12; i++ {
		d := int(digits[i] - '0')
		if i%2 == 1 {
			d *= 3
		}
		sum += d
	}
	return (10 - sum%10) % 10
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}

// barcodeImage returns a PNG data URL for code: an EAN-13 bar symbol when
// the code is (or completes to) a valid EAN-13, a QR symbol otherwise.
func barcodeImage(code string) (template.URL, error) {
	if normalized, ok := NormalizeEAN13(code); ok {
		if data, err := ean13PNG(normalized); err == nil {
			return pngDataURL(data), nil
		}
	}
	data, err := qrcode.Encode(strings.TrimSpace(code), qrcode.Medium, qrSize)
	if err != nil {
		return "", err
	}
	return pngDataURL(data), nil
}

func ean13PNG(code string) ([]byte, error) {
	bc, err := ean.Encode(code)
	if err != nil {
		return nil, err
	}
	scaled, err := barcode.Scale(bc, ean13Width, ean13Height)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, scaled); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// barcodeText is the human-readable line under the symbol.
func barcodeText(code string) string {
	normalized, _ := NormalizeEAN13(code)
	return normalized
}

func pngDataURL(data []byte) template.URL {
	return template.URL("data:image/png;base64," + base64.StdEncoding.EncodeToString(data))
}
