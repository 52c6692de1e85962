package report

import (
	"bytes"
	"fmt"
	"io"
	"strconv"

	"github.com/go-pdf/fpdf"

	"github.com/stockroom-app/stockroom/internal/model"
)

// ItemPDF renders an A4 report for an item and its most recent request.
// req may be nil when the item has never been requested.
func ItemPDF(w io.Writer, item *model.Item, req *model.Request) error {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Item Report", false)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 18)
	pdf.CellFormat(0, 10, "Item Report", "", 1, "", false, 0, "")
	pdf.Ln(4)

	writeField(pdf, "Name", item.Name)
	writeField(pdf, "Quantity", strconv.Itoa(item.Quantity))
	writeField(pdf, "Category", item.Category)
	writeField(pdf, "Location", item.Location)
	writeField(pdf, "Created", item.CreatedAt.Format("2006-01-02"))

	if req != nil {
		pdf.Ln(6)
		pdf.SetFont("Helvetica", "B", 14)
		pdf.CellFormat(0, 10, "Latest Request", "", 1, "", false, 0, "")

		writeField(pdf, "Requester", req.RequesterName)
		writeField(pdf, "Quantity", strconv.Itoa(req.Quantity))
		writeField(pdf, "Status", req.Status)
		writeField(pdf, "Submitted", req.CreatedAt.Format("2006-01-02 15:04"))

		qr, err := QRPNG(RequestSummary(req), QRSize)
		if err != nil {
			return err
		}
		opts := fpdf.ImageOptions{ImageType: "PNG"}
		pdf.RegisterImageOptionsReader("request-qr", opts, bytes.NewReader(qr))
		pdf.ImageOptions("request-qr", 155, 20, 40, 40, false, opts, 0, "")
	}

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("writing pdf: %w", err)
	}
	return nil
}

func writeField(pdf *fpdf.Fpdf, label, value string) {
	pdf.SetFont("Helvetica", "B", 12)
	pdf.CellFormat(40, 8, label, "", 0, "", false, 0, "")
	pdf.SetFont("Helvetica", "", 12)
	pdf.CellFormat(0, 8, value, "", 1, "", false, 0, "")
}
