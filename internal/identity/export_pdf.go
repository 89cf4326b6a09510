package identity

import (
	"bytes"
	"fmt"

	"github.com/phpdave11/gofpdf"
)

// ExportPDF renders a data export as a printable PDF document.
func ExportPDF(export Export) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Personal Data Export", false)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(0, 10, "Personal Data Export")
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "", 10)
	pdf.Cell(0, 6, fmt.Sprintf("Account: %s (%s)", export.User.Name, export.User.Email))
	pdf.Ln(6)
	pdf.Cell(0, 6, fmt.Sprintf("Member since: %s", export.User.CreatedAt.Format("2006-01-02")))
	pdf.Ln(6)
	pdf.Cell(0, 6, fmt.Sprintf("Generated: %s", export.GeneratedAt.Format("2006-01-02 15:04 UTC")))
	pdf.Ln(10)

	section := func(title string) {
		pdf.SetFont("Helvetica", "B", 12)
		pdf.Cell(0, 8, title)
		pdf.Ln(8)
		pdf.SetFont("Helvetica", "", 9)
	}
	line := func(text string) {
		pdf.Cell(0, 5, text)
		pdf.Ln(5)
	}

	section(fmt.Sprintf("Wallets (%d)", len(export.Wallets)))
	for _, w := range export.Wallets {
		line(fmt.Sprintf("%s [%s] balance %s", w.Name, w.Type, w.Balance.StringFixed(2)))
	}
	pdf.Ln(4)

	section(fmt.Sprintf("Transfers (%d)", len(export.Transfers)))
	for _, t := range export.Transfers {
		line(fmt.Sprintf("%s  %s -> %s  %s", t.CreatedAt.Format("2006-01-02"), t.SourceWalletID, t.TargetWalletID, t.Amount.StringFixed(2)))
	}
	pdf.Ln(4)

	section(fmt.Sprintf("Transactions (%d)", len(export.Transactions)))
	for _, t := range export.Transactions {
		line(fmt.Sprintf("%s  %-7s %-15s %s", t.Date.Format("2006-01-02"), t.Type, t.Category, t.Amount.StringFixed(2)))
	}
	pdf.Ln(4)

	section(fmt.Sprintf("Debts (%d)", len(export.Debts)))
	for _, d := range export.Debts {
		status := "open"
		if d.IsPaid {
			status = "paid"
		}
		line(fmt.Sprintf("%s  %-5s %s  %s (%s)", d.CreatedAt.Format("2006-01-02"), d.Type, d.Counterparty, d.Amount.StringFixed(2), status))
	}
	pdf.Ln(4)

	section(fmt.Sprintf("Categories (%d)", len(export.Categories)))
	for _, c := range export.Categories {
		line(c.Name)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return buf.Bytes(), nil
}
