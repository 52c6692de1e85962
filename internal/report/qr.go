// Package report renders read-only snapshots of ledger and workflow state:
// QR-encoded request summaries and printable PDF item reports. Nothing here
// touches the database or runs inside a transaction, so encoder failures can
// never affect committed state.
package report

import (
	"encoding/base64"
	"fmt"

	qrcode "github.com/skip2/go-qrcode"

	"github.com/stockroom-app/stockroom/internal/model"
)

// QRSize is the default edge length in pixels for generated QR codes.
const QRSize = 256

// RequestSummary returns the scannable summary line for a request.
func RequestSummary(req *model.Request) string {
	return fmt.Sprintf("Item: %s, Location: %s, Status: %s", req.ItemName, req.ItemLocation, req.Status)
}

// QRPNG encodes content as a size×size QR code PNG.
func QRPNG(content string, size int) ([]byte, error) {
	data, err := qrcode.Encode(content, qrcode.Medium, size)
	if err != nil {
		return nil, fmt.Errorf("encoding qr code: %w", err)
	}
	return data, nil
}

// QRDataURI returns the QR code as a base64 PNG data URI, suitable for an
// inline <img> on a printable page.
func QRDataURI(content string, size int) (string, error) {
	data, err := QRPNG(content, size)
	if err != nil {
		return "", err
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(data), nil
}
