// Package patfile parses the comma-separated export dialect produced by
// portable appliance testers into canonical test records.
package patfile

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/jappleby064/pat-database/internal/common"
	"github.com/jappleby064/pat-database/internal/model"
)

// Parser implements tester export file parsing.
type Parser struct {
	now func() time.Time
}

// NewParser creates a new export file parser.
func NewParser() *Parser {
	return &Parser{now: time.Now}
}

// dateLayouts are tried in order against the DATE field. Testers are
// day-first; ISO dates appear in files that were round-tripped through
// a spreadsheet.
var dateLayouts = []string{
	"2/1/2006",
	"02/01/2006",
	"2/01/2006",
	"02/1/2006",
	"2006-01-02",
}

// ParseFile parses a tester export and returns one record per usable
// line, all tagged with the supplied batch. Rows that fail the grammar
// or lack a usable equipment identifier are dropped rather than failing
// the import; only an unreadable file is an error.
func (p *Parser) ParseFile(_ context.Context, reader io.Reader, batch model.BatchID) ([]model.TestRecord, error) {
	content, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to read export file: %w", err)
	}
	if !utf8.Valid(content) {
		return nil, fmt.Errorf("export file is not valid text: %w", common.ErrFileUnreadable)
	}

	importTime := p.now()

	var records []model.TestRecord
	dropped := 0
	inferred := 0

	for _, line := range strings.Split(string(content), "\n") {
		line = strings.TrimSuffix(line, "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}

		row, ok := parseRow(splitLine(line))
		if !ok || !model.UsableAssetID(row.assetID) {
			dropped++
			slog.Debug("Dropped unparseable row", "line", line)
			continue
		}

		rec := buildRecord(row, batch, importTime)
		if rec.DateInferred {
			inferred++
		}
		records = append(records, rec)
	}

	slog.Info("Parsed tester export",
		"records", len(records),
		"dropped_rows", dropped,
		"inferred_dates", inferred)

	return records, nil
}

// buildRecord assembles the canonical record from a parsed row. An
// unparseable date falls back to the import start time so the row still
// imports; the record is flagged so the substitution stays visible.
func buildRecord(row *rowFields, batch model.BatchID, importTime time.Time) model.TestRecord {
	date, ok := parseTestDate(row.testDate)
	if !ok {
		date = importTime
	}

	return model.TestRecord{
		TestDate:     date,
		DateInferred: !ok,
		AssetID:      row.assetID,
		Site:         row.site,
		User:         row.user,
		TestType:     row.testType,
		Class:        classify(row),
		Visual:       row.visual.val,
		Bond:         row.bond.val,
		Insulation:   row.insulation.val,
		SubLeakage:   row.subLeakage.val,
		TouchCurrent: row.touchCurrent.val,
		EarthLeakage: row.earthLeakage.val,
		LoadVA:       row.loadVA.val,
		LoadCurrent:  row.loadCurrent.val,
		IECFuse:      row.iecFuse.val,
		IECBond:      row.iecBond.val,
		IECInsu:      row.iecInsu.val,
		RCDTrip:      row.rcdTrip.val,
		Note:         row.note.val,
		BatchID:      batch,
	}
}

func parseTestDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
