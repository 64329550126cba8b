package services

import (
	"bytes"
	"fmt"
	"time"

	"github.com/jung-kurt/gofpdf"
)

type ItineraryPDFData struct {
	Destination string
	NumDates    int
	Sections    []DaySection
	Videos      []Video
	GeneratedAt time.Time
}

// GenerateItineraryPDF renders the itinerary to PDF and returns raw bytes.
func GenerateItineraryPDF(data ItineraryPDFData) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(20, 20, 20)
	pdf.SetAutoPageBreak(true, 25)
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.AddPage()

	// ── Header Bar ───────────────────────────────────────────
	pdf.SetFillColor(13, 24, 37)
	pdf.Rect(0, 0, 210, 28, "F")
	pdf.SetTextColor(255, 255, 255)
	pdf.SetFont("Helvetica", "B", 18)
	pdf.SetXY(20, 8)
	pdf.CellFormat(170, 10, "Travel Itinerary", "", 0, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	pdf.SetTextColor(212, 168, 67)
	pdf.SetXY(20, 18)
	pdf.CellFormat(170, 6, tr(fmt.Sprintf("%d-day plan for %s", data.NumDates, displayDestination(data.Destination))), "", 1, "L", false, 0, "")

	pdf.SetY(35)
	pdf.SetTextColor(0, 0, 0)

	sectionHeader := func(title string) {
		pdf.SetFillColor(13, 24, 37)
		pdf.SetTextColor(255, 255, 255)
		pdf.SetFont("Helvetica", "B", 11)
		pdf.CellFormat(170, 8, "  "+tr(title), "", 1, "L", true, 0, "")
		pdf.SetTextColor(0, 0, 0)
		pdf.Ln(2)
	}

	row := func(label, value string) {
		pdf.SetFont("Helvetica", "", 10)
		pdf.SetTextColor(100, 100, 100)
		pdf.CellFormat(45, 7, label, "", 0, "L", false, 0, "")
		pdf.SetTextColor(20, 20, 20)
		pdf.SetFont("Helvetica", "B", 10)
		pdf.CellFormat(125, 7, tr(value), "", 1, "L", false, 0, "")
	}

	// ── Trip Overview ─────────────────────────────────────────
	sectionHeader("Trip Overview")
	row("Destination", displayDestination(data.Destination))
	row("Days", fmt.Sprintf("%d", data.NumDates))
	generated := data.GeneratedAt
	if generated.IsZero() {
		generated = time.Now()
	}
	row("Generated", generated.UTC().Format("02 Jan 2006, 15:04 UTC"))
	pdf.Ln(4)

	// ── Days ──────────────────────────────────────────────────
	for _, section := range data.Sections {
		if section.Title == "" && len(section.Items) == 0 {
			continue
		}
		title := section.Title
		if title == "" {
			title = "Notes"
		}
		sectionHeader(title)
		pdf.SetFont("Helvetica", "", 10)
		pdf.SetTextColor(40, 40, 40)
		for _, item := range section.Items {
			pdf.CellFormat(6, 5, "-", "", 0, "L", false, 0, "")
			pdf.MultiCell(164, 5, tr(item), "", "L", false)
		}
		pdf.Ln(3)
	}

	// ── Videos ────────────────────────────────────────────────
	if len(data.Videos) > 0 {
		sectionHeader("Recommended Videos")
		for _, v := range data.Videos {
			pdf.SetFont("Helvetica", "B", 10)
			pdf.SetTextColor(20, 20, 20)
			pdf.MultiCell(170, 5, tr(v.Title), "", "L", false)
			pdf.SetFont("Helvetica", "U", 9)
			pdf.SetTextColor(30, 90, 200)
			pdf.CellFormat(170, 5, tr(v.Link), "", 1, "L", false, 0, v.Link)
			pdf.Ln(1)
		}
	}

	// ── Footer ────────────────────────────────────────────────
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetY(-22)
	pdf.SetDrawColor(200, 200, 200)
	pdf.SetLineWidth(0.3)
	pdf.Line(20, pdf.GetY(), 190, pdf.GetY())
	pdf.SetFont("Helvetica", "I", 8)
	pdf.SetTextColor(150, 150, 150)
	pdf.CellFormat(0, 8, "Generated itinerary - verify opening hours and prices before travelling", "", 0, "C", false, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("PDF output failed: %w", err)
	}
	return buf.Bytes(), nil
}

func displayDestination(d string) string {
	if d == "" {
		return "your trip"
	}
	return d
}
