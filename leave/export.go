/*
export.go - Schedule serialization

FORMATS:
  Schedule CSV (the download of the planner pages):
    Start Date,Type,Duration,Unit,Sequence
    2025-01-06,Ferie,1,days,1

  Day table CSV (the dense table behind the heatmap):
    Date,Day Type,Value,Sequence

  iCalendar: one all-day VEVENT per leave or ferie entry, spanning the
  days the entry covers.

ROUND TRIP:
  ReadCSV(WriteCSV(s)) reproduces every (date, category) pair of s.
  Chargeable is not a column; it is implied by the category.
*/
package leave

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/warp/leave-planner/generic"
)

const (
	ExportFilename = "leave_schedule.csv"
	CSVContentType = "text/csv"
	ICSContentType = "text/calendar; charset=utf-8"

	icsProductID = "-//warp//leave-planner//EN"
)

var scheduleHeader = []string{"Start Date", "Type", "Duration", "Unit", "Sequence"}

// WriteCSV writes the schedule entries in insertion order.
func WriteCSV(w io.Writer, s *generic.Schedule) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(scheduleHeader); err != nil {
		return err
	}
	for _, e := range s.Entries {
		record := []string{
			e.Date.Key(),
			e.Category.Label(),
			e.Duration.Value.String(),
			string(e.Duration.Unit),
			sequenceField(e.Sequence, ""),
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// ReadCSV parses the output of WriteCSV. The short two-column download
// (Start Date,Type) is accepted too.
func ReadCSV(r io.Reader) ([]generic.Entry, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	if len(header) < 2 || header[0] != scheduleHeader[0] || header[1] != scheduleHeader[1] {
		return nil, fmt.Errorf("unexpected header %v", header)
	}

	var entries []generic.Entry
	for line := 2; ; line++ {
		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		e, err := parseRecord(record)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		entries = append(entries, e)
	}
	return entries, nil
}

func parseRecord(record []string) (generic.Entry, error) {
	if len(record) < 2 {
		return generic.Entry{}, fmt.Errorf("expected at least 2 fields, got %d", len(record))
	}
	date, err := generic.ParseDate(record[0])
	if err != nil {
		return generic.Entry{}, err
	}
	cat, ok := generic.ParseCategory(record[1])
	if !ok {
		return generic.Entry{}, fmt.Errorf("unknown day type %q", record[1])
	}

	e := generic.Entry{
		Date:       date,
		Category:   cat,
		Duration:   generic.NewAmountFromInt(1, generic.UnitDays),
		Chargeable: cat == generic.CategoryLeaveDay,
	}
	if len(record) >= 4 && record[2] != "" {
		d, err := generic.ParseAmount(record[2], record[3])
		if err != nil {
			return generic.Entry{}, err
		}
		e.Duration = d
	}
	if len(record) >= 5 && record[4] != "" {
		n, err := strconv.Atoi(record[4])
		if err != nil {
			return generic.Entry{}, fmt.Errorf("bad sequence %q", record[4])
		}
		e.Sequence = n
	}
	return e, nil
}

// WriteDaysCSV writes the dense day table. Unnumbered days show "-".
func WriteDaysCSV(w io.Writer, rows []generic.DayRow) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"Date", "Day Type", "Value", "Sequence"}); err != nil {
		return err
	}
	for _, r := range rows {
		record := []string{
			r.Date.Key(),
			r.Category.Label(),
			strconv.Itoa(r.Category.Value()),
			sequenceField(r.Sequence, "-"),
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func sequenceField(n int, empty string) string {
	if n == 0 {
		return empty
	}
	return strconv.Itoa(n)
}

// =============================================================================
// ICALENDAR
// =============================================================================

// WriteICS writes leave and ferie entries as all-day events.
func WriteICS(w io.Writer, s *generic.Schedule, name string) error {
	iw := &icsWriter{w: w}
	iw.line("BEGIN:VCALENDAR")
	iw.line("VERSION:2.0")
	iw.line("PRODID:" + icsProductID)
	iw.line("CALSCALE:GREGORIAN")
	iw.line("X-WR-CALNAME:" + escapeText(name))

	stamp := time.Now().UTC().Format("20060102T150405Z")
	for i, e := range s.Entries {
		if e.Category != generic.CategoryLeaveDay && e.Category != generic.CategoryVacationDay {
			continue
		}
		span := e.Covers()
		summary := e.Category.Label()
		if e.Sequence > 0 {
			summary = fmt.Sprintf("%s #%d", summary, e.Sequence)
		}

		iw.line("BEGIN:VEVENT")
		iw.line(fmt.Sprintf("UID:%s-%d@leave-planner", s.ID, i))
		iw.line("DTSTAMP:" + stamp)
		iw.line("DTSTART;VALUE=DATE:" + span.Start.Time.Format("20060102"))
		iw.line("DTEND;VALUE=DATE:" + span.End.AddDays(1).Time.Format("20060102"))
		iw.line("SUMMARY:" + escapeText(summary))
		iw.line("TRANSP:OPAQUE")
		iw.line("END:VEVENT")
	}

	iw.line("END:VCALENDAR")
	return iw.err
}

type icsWriter struct {
	w   io.Writer
	err error
}

func (iw *icsWriter) line(s string) {
	if iw.err != nil {
		return
	}
	_, iw.err = io.WriteString(iw.w, s+"\r\n")
}

var icsEscaper = strings.NewReplacer(`\`, `\\`, ";", `\;`, ",", `\,`, "\n", `\n`)

func escapeText(s string) string { return icsEscaper.Replace(s) }
