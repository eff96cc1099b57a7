package sidefx

import (
	"bytes"
	"fmt"

	"github.com/jung-kurt/gofpdf"
	qrcode "github.com/skip2/go-qrcode"

	"github.com/medina-negoce/medina-erp/internal/bons"
	"github.com/medina-negoce/medina-erp/internal/pricing"
)

// RenderBonPDF renders a document for printing and delivery. The QR code
// carries the document number so a warehouse scan finds it back.
func RenderBonPDF(companyName string, b *bons.Bon) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle(b.Numero, true)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(0, 10, companyName, "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 11)
	pdf.CellFormat(0, 6, fmt.Sprintf("%s %s", b.Type, b.Numero), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 6, b.DateBon.Format("02/01/2006"), "", 1, "L", false, 0, "")

	if b.ClientNom != "" {
		pdf.CellFormat(0, 6, "Client: "+b.ClientNom, "", 1, "L", false, 0, "")
	}
	if b.FournisseurNom != "" {
		pdf.CellFormat(0, 6, "Fournisseur: "+b.FournisseurNom, "", 1, "L", false, 0, "")
	}
	if b.LieuCharge != "" {
		pdf.CellFormat(0, 6, "Lieu de charge: "+b.LieuCharge, "", 1, "L", false, 0, "")
	}
	pdf.Ln(4)

	// Item table.
	pdf.SetFont("Helvetica", "B", 10)
	pdf.SetFillColor(230, 230, 230)
	pdf.CellFormat(70, 7, "Designation", "1", 0, "L", true, 0, "")
	pdf.CellFormat(25, 7, "Quantite", "1", 0, "R", true, 0, "")
	pdf.CellFormat(30, 7, "Prix", "1", 0, "R", true, 0, "")
	pdf.CellFormat(30, 7, "Remise", "1", 0, "R", true, 0, "")
	pdf.CellFormat(35, 7, "Total", "1", 1, "R", true, 0, "")

	pdf.SetFont("Helvetica", "", 10)
	for _, it := range b.Items {
		price := bons.ActivePrice(b.Type, it)
		pdf.CellFormat(70, 7, it.Designation, "1", 0, "L", false, 0, "")
		pdf.CellFormat(25, 7, pricing.FormatAmount(it.Quantite), "1", 0, "R", false, 0, "")
		pdf.CellFormat(30, 7, pricing.FormatAmount(price), "1", 0, "R", false, 0, "")
		pdf.CellFormat(30, 7, pricing.FormatAmount(it.RemiseMontant), "1", 0, "R", false, 0, "")
		pdf.CellFormat(35, 7, pricing.FormatAmount(it.Total), "1", 1, "R", false, 0, "")
	}

	pdf.Ln(3)
	pdf.SetFont("Helvetica", "B", 12)
	pdf.CellFormat(0, 8, fmt.Sprintf("Total: %s DH", pricing.FormatAmount(b.MontantTotal)), "", 1, "R", false, 0, "")

	png, err := qrcode.Encode(b.Numero, qrcode.Medium, 256)
	if err != nil {
		return nil, fmt.Errorf("qr encode: %w", err)
	}
	opts := gofpdf.ImageOptions{ImageType: "PNG"}
	pdf.RegisterImageOptionsReader("qr", opts, bytes.NewReader(png))
	pdf.ImageOptions("qr", 10, 255, 25, 25, false, opts, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("pdf output: %w", err)
	}
	return buf.Bytes(), nil
}
