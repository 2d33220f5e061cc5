package verification

import (
	"fmt"

	qrcode "github.com/skip2/go-qrcode"
)

// QRCode renders the verification URL for a document/code pair as a PNG,
// sized in pixels.
func QRCode(baseURL, documentID, code string, size int) ([]byte, error) {
	if size <= 0 {
		size = 256
	}

	png, err := qrcode.Encode(URL(baseURL, documentID, code), qrcode.Medium, size)
	if err != nil {
		return nil, fmt.Errorf("failed to encode verification QR code: %w", err)
	}
	return png, nil
}
