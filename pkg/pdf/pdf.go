// Package pdf renders fee receipts and tabular exports with fpdf.
package pdf

import (
	"bytes"
	"fmt"
	"time"

	"github.com/go-pdf/fpdf"
)

// Student identifies the receipt holder.
type Student struct {
	Name    string
	RollNo  string
	Program string
	Branch  string
	Year    string
	Email   string
}

// Field is one label/value line in a receipt body.
type Field struct {
	Label string
	Value string
}

// Receipt is a single-page document: college heading, student block,
// titled list of fields, optional total.
type Receipt struct {
	College string
	Title   string
	Student Student
	Fields  []Field
	Total   string
}

func newDoc() (*fpdf.Fpdf, func(string) string) {
	doc := fpdf.New("P", "mm", "A4", "")
	doc.SetMargins(15, 15, 15)
	doc.SetAutoPageBreak(true, 15)
	doc.AddPage()
	return doc, doc.UnicodeTranslatorFromDescriptor("")
}

func heading(doc *fpdf.Fpdf, tr func(string) string, college string) {
	if college == "" {
		college = "College ERP"
	}
	doc.SetFont("Helvetica", "B", 16)
	doc.CellFormat(0, 10, tr(college), "", 1, "C", false, 0, "")
	doc.SetFont("Helvetica", "", 9)
	doc.CellFormat(0, 5, "Generated "+time.Now().Format("2006-01-02 15:04"), "", 1, "C", false, 0, "")
	doc.Ln(4)
}

func output(doc *fpdf.Fpdf) ([]byte, error) {
	var buf bytes.Buffer
	if err := doc.Output(&buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return buf.Bytes(), nil
}

// RenderReceipt renders r to PDF bytes.
func RenderReceipt(r Receipt) ([]byte, error) {
	doc, tr := newDoc()
	heading(doc, tr, r.College)

	doc.SetFont("Helvetica", "", 11)
	s := r.Student
	for _, line := range []string{
		"Student Name: " + s.Name,
		"Roll No: " + s.RollNo,
		fmt.Sprintf("Program: %s | Branch: %s | Year: %s", s.Program, s.Branch, s.Year),
		"Email: " + s.Email,
	} {
		doc.CellFormat(0, 7, tr(line), "", 1, "L", false, 0, "")
	}
	doc.Ln(5)

	doc.SetFont("Helvetica", "B", 13)
	doc.CellFormat(0, 8, tr(r.Title), "B", 1, "L", false, 0, "")
	doc.Ln(2)

	doc.SetFont("Helvetica", "", 11)
	if len(r.Fields) == 0 {
		doc.CellFormat(0, 7, "No records.", "", 1, "L", false, 0, "")
	}
	for _, f := range r.Fields {
		doc.CellFormat(50, 7, tr(f.Label), "", 0, "L", false, 0, "")
		doc.CellFormat(0, 7, tr(f.Value), "", 1, "L", false, 0, "")
	}

	if r.Total != "" {
		doc.Ln(4)
		doc.SetFont("Helvetica", "B", 12)
		doc.CellFormat(0, 8, tr("Total Paid: "+r.Total), "T", 1, "R", false, 0, "")
	}

	return output(doc)
}

// RenderTable renders a titled table; column widths are shared equally.
func RenderTable(college, title string, headers []string, rows [][]string) ([]byte, error) {
	if len(headers) == 0 {
		return nil, fmt.Errorf("render table: no columns")
	}
	doc, tr := newDoc()
	heading(doc, tr, college)

	doc.SetFont("Helvetica", "B", 13)
	doc.CellFormat(0, 8, tr(title), "", 1, "L", false, 0, "")
	doc.Ln(2)

	pageW, _ := doc.GetPageSize()
	left, _, right, _ := doc.GetMargins()
	colW := (pageW - left - right) / float64(len(headers))

	doc.SetFont("Helvetica", "B", 9)
	doc.SetFillColor(230, 230, 230)
	for _, h := range headers {
		doc.CellFormat(colW, 7, tr(h), "1", 0, "L", true, 0, "")
	}
	doc.Ln(-1)

	doc.SetFont("Helvetica", "", 8)
	for _, row := range rows {
		for i := range headers {
			var v string
			if i < len(row) {
				v = row[i]
			}
			doc.CellFormat(colW, 6, tr(truncate(v, 32)), "1", 0, "L", false, 0, "")
		}
		doc.Ln(-1)
	}

	return output(doc)
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
