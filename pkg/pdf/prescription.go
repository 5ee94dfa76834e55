package pdf

import (
	"bytes"
	"fmt"
	"time"

	"github.com/jung-kurt/gofpdf"
)

// PrescriptionDocument is a fully resolved prescription bundle. Callers are
// responsible for authorization checks before handing it over.
type PrescriptionDocument struct {
	ClinicName    string
	ClinicAddress string
	ClinicPhone   string
	PatientName   string
	PatientEmail  string
	AuthorName    string
	Diagnosis     string
	Medications   string
	Instructions  string
	Notes         string
	CreatedAt     time.Time
}

// Renderer produces prescription PDFs.
type Renderer struct{}

func NewRenderer() *Renderer {
	return &Renderer{}
}

// Render lays out the document and returns the PDF bytes.
func (r *Renderer) Render(doc *PrescriptionDocument) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(20, 20, 20)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 18)
	pdf.Cell(0, 10, doc.ClinicName)
	pdf.Ln(8)

	pdf.SetFont("Helvetica", "", 10)
	if doc.ClinicAddress != "" {
		pdf.Cell(0, 6, doc.ClinicAddress)
		pdf.Ln(5)
	}
	if doc.ClinicPhone != "" {
		pdf.Cell(0, 6, doc.ClinicPhone)
		pdf.Ln(5)
	}

	pdf.Ln(4)
	pdf.SetDrawColor(120, 120, 120)
	pdf.Line(20, pdf.GetY(), 190, pdf.GetY())
	pdf.Ln(6)

	pdf.SetFont("Helvetica", "B", 14)
	pdf.Cell(0, 8, "Prescription")
	pdf.Ln(10)

	pdf.SetFont("Helvetica", "", 11)
	pdf.Cell(0, 6, fmt.Sprintf("Patient: %s", doc.PatientName))
	pdf.Ln(6)
	pdf.Cell(0, 6, fmt.Sprintf("Prescribed by: %s", doc.AuthorName))
	pdf.Ln(6)
	pdf.Cell(0, 6, fmt.Sprintf("Date: %s", doc.CreatedAt.Format("January 2, 2006")))
	pdf.Ln(10)

	r.section(pdf, "Diagnosis", doc.Diagnosis)
	r.section(pdf, "Medications", doc.Medications)
	if doc.Instructions != "" {
		r.section(pdf, "Instructions", doc.Instructions)
	}
	if doc.Notes != "" {
		r.section(pdf, "Notes", doc.Notes)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to render prescription pdf: %w", err)
	}
	return buf.Bytes(), nil
}

func (r *Renderer) section(pdf *gofpdf.Fpdf, title, body string) {
	pdf.SetFont("Helvetica", "B", 11)
	pdf.Cell(0, 6, title)
	pdf.Ln(6)
	pdf.SetFont("Helvetica", "", 11)
	pdf.MultiCell(0, 5, body, "", "L", false)
	pdf.Ln(4)
}
