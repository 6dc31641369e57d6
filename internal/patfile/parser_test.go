package patfile

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/jappleby064/pat-database/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testBatch = model.BatchID(1709629200000)

func parseOne(t *testing.T, line string) model.TestRecord {
	t.Helper()
	records := parseAll(t, line)
	require.Len(t, records, 1)
	return records[0]
}

func parseAll(t *testing.T, content string) []model.TestRecord {
	t.Helper()
	parser := NewParser()
	records, err := parser.ParseFile(context.Background(), strings.NewReader(content), testBatch)
	require.NoError(t, err)
	return records
}

func TestParseClassIFullTest(t *testing.T) {
	rec := parseOne(t, "1,SITE,Appleby Tech,USER,J Appleby,DATE,5/3/2024,APP,0007,AUTO,"+
		"VISUAL,P,BOND,HIGH,1,0.09R,INSU,I,1,299MEG,LOAD VA,250,NOTE,Routine test")

	assert.Equal(t, "0007", rec.AssetID)
	assert.Equal(t, "Appleby Tech", rec.Site)
	assert.Equal(t, "J Appleby", rec.User)
	assert.Equal(t, "AUTO", rec.TestType)
	assert.Equal(t, model.ClassI, rec.Class)
	assert.Equal(t, "PASS", rec.Visual)
	assert.Equal(t, "0.09", rec.Bond)
	assert.Equal(t, "299", rec.Insulation)
	assert.Equal(t, "250", rec.LoadVA)
	assert.Equal(t, "Routine test", rec.Note)
	assert.Equal(t, "PASS", rec.OverallResult())
	assert.Equal(t, time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC), rec.TestDate)
	assert.False(t, rec.DateInferred)
	assert.Equal(t, testBatch, rec.BatchID)
}

func TestParseIECLeadFuseFailure(t *testing.T) {
	rec := parseOne(t, "1,SITE,Appleby Tech,USER,J Appleby,DATE,5/3/2024,APP,0012,AUTO,"+
		"VISUAL,P,INSU,I,1,299MEG,IEC FUSE,F,IEC BOND,0.05R,IEC INSU,299MEG")

	assert.Equal(t, "FAIL", rec.IECFuse)
	assert.Equal(t, "0.05", rec.IECBond)
	assert.Equal(t, "299", rec.IECInsu)
	// IEC fields override the insulation class hint.
	assert.Equal(t, model.ClassIECLead, rec.Class)
	assert.Equal(t, "FAIL", rec.OverallResult())
}

func TestParseDiagRowKeepsFirstKey(t *testing.T) {
	// Diagnostic rows have no VISUAL block; the first variable-section
	// key must not be swallowed by the optional-VISUAL probe.
	rec := parseOne(t, "1,SITE,S,USER,U,DATE,5/3/2024,APP,7,DIAG,BOND,HIGH,1,0.05R")

	assert.Equal(t, "DIAG", rec.TestType)
	assert.Empty(t, rec.Visual)
	assert.Equal(t, "0.05", rec.Bond)
	assert.Equal(t, "0007", rec.AssetID)
}

func TestParseMalformedPrefixRejectsRow(t *testing.T) {
	records := parseAll(t, "1,SITE,S,NAME,U,DATE,5/3/2024,APP,7,AUTO")
	assert.Empty(t, records)
}

func TestParsePrefixOrderMatters(t *testing.T) {
	tests := []struct {
		name string
		line string
	}{
		{name: "missing SITE", line: "1,USER,U,DATE,5/3/2024,APP,7,AUTO"},
		{name: "missing DATE", line: "1,SITE,S,USER,U,APP,7,AUTO"},
		{name: "missing APP", line: "1,SITE,S,USER,U,DATE,5/3/2024,7,AUTO"},
		{name: "truncated after DATE", line: "1,SITE,S,USER,U,DATE"},
		{name: "empty line only", line: "   "},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Empty(t, parseAll(t, tt.line))
		})
	}
}

func TestParseUnusableAssetIDDropped(t *testing.T) {
	records := parseAll(t, "1,SITE,S,USER,U,DATE,5/3/2024,APP,---,AUTO,VISUAL,P")
	assert.Empty(t, records)
}

func TestParseMultipleLinesSkipsBlanks(t *testing.T) {
	content := "1,SITE,S,USER,U,DATE,5/3/2024,APP,1,AUTO,VISUAL,P\r\n" +
		"\r\n" +
		"2,SITE,S,USER,U,DATE,6/3/2024,APP,2,AUTO,VISUAL,F\n" +
		"not a record at all\n"

	records := parseAll(t, content)
	require.Len(t, records, 2)
	assert.Equal(t, "0001", records[0].AssetID)
	assert.Equal(t, "0002", records[1].AssetID)
	assert.Equal(t, "FAIL", records[1].Visual)
}

func TestParseDateFormats(t *testing.T) {
	tests := []struct {
		input    string
		expected time.Time
	}{
		{input: "5/3/2024", expected: time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC)},
		{input: "05/03/2024", expected: time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC)},
		{input: "25/12/2023", expected: time.Date(2023, 12, 25, 0, 0, 0, 0, time.UTC)},
		{input: "2024-03-05", expected: time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC)},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			parsed, ok := parseTestDate(tt.input)
			require.True(t, ok)
			assert.Equal(t, tt.expected, parsed)
		})
	}
}

func TestParseUnparseableDateFallsBackToImportTime(t *testing.T) {
	importTime := time.Date(2024, 6, 1, 10, 30, 0, 0, time.UTC)
	parser := NewParser()
	parser.now = func() time.Time { return importTime }

	records, err := parser.ParseFile(context.Background(),
		strings.NewReader("1,SITE,S,USER,U,DATE,soon,APP,7,AUTO,VISUAL,P"), testBatch)
	require.NoError(t, err)
	require.Len(t, records, 1)

	assert.True(t, records[0].DateInferred)
	assert.Equal(t, importTime, records[0].TestDate)
}

func TestParseFirstOccurrenceWins(t *testing.T) {
	rec := parseOne(t, "1,SITE,S,USER,U,DATE,5/3/2024,APP,7,AUTO,"+
		"BOND,HIGH,1,0.05R,BOND,HIGH,1,0.99R,NOTE,first,NOTE,second")

	assert.Equal(t, "0.05", rec.Bond)
	assert.Equal(t, "first", rec.Note)
}

func TestParseBoundedReadingPreserved(t *testing.T) {
	rec := parseOne(t, "1,SITE,S,USER,U,DATE,5/3/2024,APP,7,AUTO,INSU,II,1,>299MEG")
	assert.Equal(t, ">299", rec.Insulation)
}

func TestParseSubstituteLeakageHint(t *testing.T) {
	rec := parseOne(t, "1,SITE,S,USER,U,DATE,5/3/2024,APP,7,AUTO,SUBST,II,0.25mA")
	assert.Equal(t, "0.25", rec.SubLeakage)
	assert.Equal(t, model.ClassII, rec.Class)
}

func TestParseRCDAndLeakage(t *testing.T) {
	rec := parseOne(t, "1,SITE,S,USER,U,DATE,5/3/2024,APP,7,AUTO,"+
		"RCD 30mA,30,38ms,LEAKAGE,0.5mA,CONTACT,1,0.1mA")

	assert.Equal(t, "38", rec.RCDTrip)
	assert.Equal(t, "0.5", rec.EarthLeakage)
	assert.Equal(t, "0.1", rec.TouchCurrent)
}

func TestParseUnrecognizedKeyIgnored(t *testing.T) {
	rec := parseOne(t, "1,SITE,S,USER,U,DATE,5/3/2024,APP,7,AUTO,POLARITY,NOTE,still here")
	// POLARITY consumes nothing, so the NOTE key still parses.
	assert.Equal(t, "still here", rec.Note)
}

func TestParseFileUnreadable(t *testing.T) {
	parser := NewParser()
	_, err := parser.ParseFile(context.Background(),
		strings.NewReader("1,SITE,\xff\xfe"), testBatch)
	assert.Error(t, err)
}
