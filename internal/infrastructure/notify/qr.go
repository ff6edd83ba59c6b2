package notify

import (
	qrcode "github.com/skip2/go-qrcode"
)

const qrSize = 300

// TicketQR renders the signed token as a PNG QR code, sized for phone
// screens and door scanners alike. High error correction so a partially
// obscured screen still scans.
func TicketQR(token string) ([]byte, error) {
	return qrcode.Encode(token, qrcode.High, qrSize)
}
