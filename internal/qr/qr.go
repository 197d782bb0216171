// Package qr renders the scannable payload attached to approved bookings.
package qr

import (
	"encoding/base64"
	"fmt"
	"time"

	qrcode "github.com/skip2/go-qrcode"
)

// imageSize is the QR PNG edge length in pixels.
const imageSize = 256

// Payload is the content station staff scan to look up a booking on arrival.
type Payload struct {
	BookingID string
	OwnerNIC  string
	StationID string
	Date      time.Time
	Hour      int
}

// Encode renders the payload in the scanner wire format:
//
//	booking:<id>|owner:<nic>|station:<id>|date:<ISO-8601>|hour:<int>
func (p Payload) Encode() string {
	return fmt.Sprintf("booking:%s|owner:%s|station:%s|date:%s|hour:%d",
		p.BookingID, p.OwnerNIC, p.StationID, p.Date.UTC().Format("2006-01-02"), p.Hour)
}

// EncodeFunc turns payload text into a base64-encoded PNG. It exists so the
// booking service can be tested without rendering real images.
type EncodeFunc func(content string) (string, error)

// PNGBase64 renders content as a QR PNG and base64-encodes the bytes.
func PNGBase64(content string) (string, error) {
	png, err := qrcode.Encode(content, qrcode.Medium, imageSize)
	if err != nil {
		return "", fmt.Errorf("failed to encode qr image: %w", err)
	}
	return base64.StdEncoding.EncodeToString(png), nil
}
