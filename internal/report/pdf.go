// Package report renders the alarm list as a printable PDF and as an
// iCalendar feed.
package report

import (
	"fmt"
	"io"
	"time"

	"github.com/akyairhashvil/nudge/internal/models"
	"github.com/akyairhashvil/nudge/internal/scheduler"
	"github.com/go-pdf/fpdf"
)

const (
	swatchSize = 4.0
	lineHeight = 7.0
)

// WritePDF renders alarms grouped into active and scheduled sections. Times
// are shown in loc.
func WritePDF(w io.Writer, alarms []models.Alarm, now time.Time, loc *time.Location) error {
	if loc == nil {
		loc = time.UTC
	}
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetCreationDate(now)
	pdf.SetModificationDate(now)
	pdf.SetTitle("Alarm schedule", true)
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 16)
	pdf.Cell(0, 10, tr(fmt.Sprintf("Alarm schedule: %s", now.In(loc).Format("2006-01-02 15:04 MST"))))
	pdf.Ln(12)

	var active, scheduled []models.Alarm
	for _, a := range alarms {
		if a.IsActive() {
			active = append(active, a)
		} else {
			scheduled = append(scheduled, a)
		}
	}

	section := func(title string, list []models.Alarm, detail func(models.Alarm) string) {
		pdf.SetFont("Arial", "B", 14)
		pdf.Cell(0, 10, fmt.Sprintf("%s (%d)", title, len(list)))
		pdf.Ln(9)
		pdf.SetFont("Arial", "", 12)
		if len(list) == 0 {
			pdf.Cell(0, lineHeight, "  - None.")
			pdf.Ln(lineHeight)
		}
		for _, a := range list {
			c := scheduler.TileColor(a.Icon)
			pdf.SetFillColor(int(c.R), int(c.G), int(c.B))
			x, y := pdf.GetXY()
			pdf.Rect(x+2, y+(lineHeight-swatchSize)/2, swatchSize, swatchSize, "F")
			pdf.SetX(x + swatchSize + 4)
			pdf.Cell(70, lineHeight, tr(a.DisplayText))
			pdf.Cell(35, lineHeight, describeRecurrence(a.Recurrence))
			pdf.Cell(0, lineHeight, tr(detail(a)))
			pdf.Ln(lineHeight)
			if a.IsActive() && a.Note.Text != "" {
				pdf.SetX(x + swatchSize + 8)
				pdf.SetFont("Arial", "I", 10)
				pdf.MultiCell(0, 5, tr(a.Note.Text), "", "", false)
				pdf.SetFont("Arial", "", 12)
			}
		}
		pdf.Ln(4)
	}

	section("Active", active, func(a models.Alarm) string {
		if a.Note.CreatedAt.IsZero() {
			return "due"
		}
		return "due since " + a.Note.CreatedAt.In(loc).Format("Mon Jan 2 15:04")
	})
	section("Scheduled", scheduled, func(a models.Alarm) string {
		next, _ := a.NextActivation()
		return "next " + next.In(loc).Format("Mon Jan 2 15:04")
	})

	return pdf.Output(w)
}

func describeRecurrence(r models.Recurrence) string {
	switch r.Kind {
	case models.OneShot:
		return "once"
	case models.Daily:
		return "every day"
	case models.Weekly:
		return "every " + r.TimeWeekday().String()
	}
	return r.String()
}
