package export

import (
	"fmt"
	"strconv"
	"time"
	"unicode/utf8"

	"github.com/xuri/excelize/v2"

	"github.com/BruksfildServices01/clinic-scheduler/internal/domain/appointment"
)

const (
	SheetName   = "Appointments"
	ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

var headers = []string{
	"#", "Date", "Time", "Status",
	"Patient", "Phone", "Doctor",
	"Source", "Telegram ID",
}

var statusText = map[appointment.Status]string{
	appointment.StatusPending:   "Awaiting",
	appointment.StatusConfirmed: "Awaiting",
	appointment.StatusVisited:   "Visited",
	appointment.StatusNoShow:    "No-show",
	appointment.StatusCancelled: "Cancelled",
}

// Row fill per status; anything else stays white.
var statusFill = map[appointment.Status]string{
	appointment.StatusPending:   "EBF1DE",
	appointment.StatusConfirmed: "EBF1DE",
	appointment.StatusVisited:   "DCE6F1",
	appointment.StatusNoShow:    "F2DCDB",
}

func FileName(now time.Time) string {
	return fmt.Sprintf("appointments_export_%s.xlsx", now.Format("20060102_150405"))
}

// Appointments renders one sheet with a styled header and a row per
// appointment coloured by status.
func Appointments(list []appointment.Appointment) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		return nil, err
	}

	border := []excelize.Border{
		{Type: "left", Color: "000000", Style: 1},
		{Type: "right", Color: "000000", Style: 1},
		{Type: "top", Color: "000000", Style: 1},
		{Type: "bottom", Color: "000000", Style: 1},
	}
	center := &excelize.Alignment{Horizontal: "center", Vertical: "center"}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"366092"}, Pattern: 1},
		Alignment: center,
		Border:    border,
	})
	if err != nil {
		return nil, err
	}

	rowStyles := make(map[string]int)
	styleFor := func(color string) (int, error) {
		if id, ok := rowStyles[color]; ok {
			return id, nil
		}
		id, err := f.NewStyle(&excelize.Style{
			Fill:      excelize.Fill{Type: "pattern", Color: []string{color}, Pattern: 1},
			Alignment: center,
			Border:    border,
		})
		if err != nil {
			return 0, err
		}
		rowStyles[color] = id
		return id, nil
	}

	widths := make([]int, len(headers))
	track := func(col int, v string) {
		if n := utf8.RuneCountInString(v); n > widths[col] {
			widths[col] = n
		}
	}

	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(SheetName, cell, h); err != nil {
			return nil, err
		}
		track(i, h)
	}
	last, _ := excelize.CoordinatesToCellName(len(headers), 1)
	if err := f.SetCellStyle(SheetName, "A1", last, headerStyle); err != nil {
		return nil, err
	}

	for i, ap := range list {
		row := i + 2

		status, ok := statusText[ap.Status]
		if !ok {
			status = string(ap.Status)
		}
		source := "Site/Other"
		if ap.Source == appointment.SourceBot {
			source = "Bot"
		}
		telegram := ""
		if ap.TelegramID != 0 {
			telegram = strconv.FormatInt(ap.TelegramID, 10)
		}

		values := []any{
			i + 1,
			ap.Date.String(),
			string(ap.Time),
			status,
			ap.PatientName,
			ap.PatientPhone,
			ap.DoctorName,
			source,
			telegram,
		}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row)
			if err := f.SetCellValue(SheetName, cell, v); err != nil {
				return nil, err
			}
			track(col, fmt.Sprint(v))
		}

		color, ok := statusFill[ap.Status]
		if !ok {
			color = "FFFFFF"
		}
		style, err := styleFor(color)
		if err != nil {
			return nil, err
		}
		first, _ := excelize.CoordinatesToCellName(1, row)
		lastCell, _ := excelize.CoordinatesToCellName(len(headers), row)
		if err := f.SetCellStyle(SheetName, first, lastCell, style); err != nil {
			return nil, err
		}
	}

	for i, w := range widths {
		col, _ := excelize.ColumnNumberToName(i + 1)
		if err := f.SetColWidth(SheetName, col, col, float64(w+2)); err != nil {
			return nil, err
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
