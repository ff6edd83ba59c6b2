// Package pdf renders downloadable ticket documents.
package pdf

import (
	"bytes"
	"fmt"
	"time"

	"github.com/go-pdf/fpdf"

	"github.com/eventhub/registration-system/internal/core/domain"
)

// RenderTicket produces a single-page A5 PDF containing the event details
// and the ticket's QR code (passed in as PNG bytes).
func RenderTicket(ticket *domain.Ticket, account *domain.Account, event *domain.Event, qrPNG []byte) ([]byte, error) {
	doc := fpdf.New("P", "mm", "A5", "")
	doc.SetTitle("Ticket "+ticket.ID, false)
	doc.AddPage()

	doc.SetFont("Helvetica", "B", 20)
	doc.CellFormat(0, 12, event.Title, "", 1, "C", false, 0, "")

	doc.SetFont("Helvetica", "", 11)
	doc.CellFormat(0, 7, event.Venue, "", 1, "C", false, 0, "")
	doc.CellFormat(0, 7, event.StartsAt.Format(time.RFC1123), "", 1, "C", false, 0, "")
	doc.Ln(4)

	doc.SetFont("Helvetica", "", 12)
	doc.CellFormat(0, 7, "Admit: "+account.Name, "", 1, "C", false, 0, "")
	doc.Ln(6)

	opts := fpdf.ImageOptions{ImageType: "PNG"}
	doc.RegisterImageOptionsReader("ticket-qr", opts, bytes.NewReader(qrPNG))
	pageW, _ := doc.GetPageSize()
	const qrMM = 70.0
	doc.ImageOptions("ticket-qr", (pageW-qrMM)/2, doc.GetY(), qrMM, qrMM, false, opts, 0, "")
	doc.SetY(doc.GetY() + qrMM + 6)

	doc.SetFont("Helvetica", "", 9)
	doc.CellFormat(0, 5, "Ticket "+ticket.ID, "", 1, "C", false, 0, "")
	doc.CellFormat(0, 5, "Issued "+ticket.IssuedAt.Format(time.RFC3339), "", 1, "C", false, 0, "")

	var buf bytes.Buffer
	if err := doc.Output(&buf); err != nil {
		return nil, fmt.Errorf("render ticket pdf: %w", err)
	}
	return buf.Bytes(), nil
}
