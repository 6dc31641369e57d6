package patfile

import (
	"strings"

	"github.com/jappleby064/pat-database/internal/model"
)

// field is an optional string slot. The export dialect can repeat a key
// within one row; the first occurrence wins.
type field struct {
	val string
	set bool
}

func (f *field) store(v string) {
	if !f.set {
		f.val = v
		f.set = true
	}
}

// rowFields holds the parsed fields of one export row. The vocabulary is
// fixed, so a typed struct replaces a string-keyed map and the compiler
// covers every known field.
type rowFields struct {
	site     string
	user     string
	testDate string
	assetID  string
	testType string

	visual       field
	bond         field
	insulation   field
	insuClass    field // Class hint from the INSU/SUBST parameter token
	subLeakage   field
	touchCurrent field
	earthLeakage field
	loadVA       field
	loadCurrent  field
	iecFuse      field
	iecBond      field
	iecInsu      field
	rcdTrip      field
	note         field
}

// parseRow walks one row's tokens against the export grammar: a fixed
// prefix (sequence number, SITE, USER, DATE, APP, identifier, test
// type), an optional VISUAL result, then a variable-length key/value
// section. Returns false when the fixed prefix does not match.
func parseRow(tokens []string) (*rowFields, bool) {
	cur := &cursor{tokens: tokens}
	cur.skip(1) // row sequence number

	row := &rowFields{}

	var ok bool
	if row.site, ok = expectKeyed(cur, "SITE"); !ok {
		return nil, false
	}
	if row.user, ok = expectKeyed(cur, "USER"); !ok {
		return nil, false
	}
	if row.testDate, ok = expectKeyed(cur, "DATE"); !ok {
		return nil, false
	}

	id, ok := expectKeyed(cur, "APP")
	if !ok {
		return nil, false
	}
	row.assetID = model.PadAssetID(id)

	if row.testType, ok = cur.next(); !ok {
		return nil, false
	}

	// VISUAL only appears in auto mode. Peek so a diagnostic row keeps
	// its first variable-section key.
	if key, found := cur.peek(); found && strings.TrimSpace(key) == "VISUAL" {
		cur.skip(1)
		if v, found := cur.next(); found {
			row.visual.store(NormalizePassFail(v))
		}
	}

	parseVariableSection(cur, row)

	return row, true
}

// expectKeyed reads a literal key token and its value. Either token
// missing, or the key not matching, fails the row.
func expectKeyed(cur *cursor, literal string) (string, bool) {
	key, ok := cur.next()
	if !ok || key != literal {
		return "", false
	}
	return cur.next()
}

// parseVariableSection dispatches on each key until the row runs out.
// Every handler consumes a fixed number of tokens regardless of their
// content; unrecognized keys consume nothing beyond themselves.
func parseVariableSection(cur *cursor, row *rowFields) {
	for {
		key, ok := cur.next()
		if !ok {
			return
		}
		key = strings.TrimSpace(key)
		if key == "" {
			continue
		}

		switch {
		case key == "BOND":
			cur.skip(2) // test current, channel
			if v, found := cur.next(); found {
				row.bond.store(StripUnits(v))
			}
		case strings.HasPrefix(key, "INSU"):
			if hint, found := cur.next(); found {
				row.insuClass.store(strings.TrimSpace(hint))
			}
			cur.skip(1) // channel
			if v, found := cur.next(); found {
				row.insulation.store(StripUnits(v))
			}
		case key == "SUBST":
			if hint, found := cur.next(); found {
				row.insuClass.store(strings.TrimSpace(hint))
			}
			storeStripped(cur, &row.subLeakage)
		case key == "CONTACT":
			cur.skip(1) // channel
			storeStripped(cur, &row.touchCurrent)
		case key == "LOAD VA":
			storeStripped(cur, &row.loadVA)
		case key == "LOAD CURRENT":
			storeStripped(cur, &row.loadCurrent)
		case key == "LEAKAGE":
			storeStripped(cur, &row.earthLeakage)
		case key == "IEC FUSE":
			if v, found := cur.next(); found {
				row.iecFuse.store(NormalizePassFail(v))
			}
		case key == "IEC BOND":
			if v, found := cur.next(); found {
				row.iecBond.store(NormalizePassFail(StripUnits(v)))
			}
		case key == "IEC INSU":
			if v, found := cur.next(); found {
				row.iecInsu.store(NormalizePassFail(StripUnits(v)))
			}
		case strings.HasPrefix(key, "RCD"):
			cur.skip(1) // trip current
			storeStripped(cur, &row.rcdTrip)
		case key == "NOTE":
			if v, found := cur.next(); found {
				if t := strings.TrimSpace(v); t != "" {
					row.note.store(t)
				}
			}
		default:
			// Unknown key: arity unknown, so consume nothing. If the key
			// actually carried parameters the rest of the row may
			// desynchronize, which matches tester behavior for firmware
			// we have not seen.
		}
	}
}

// storeStripped reads one value token, strips units, and stores it only
// when something is left.
func storeStripped(cur *cursor, f *field) {
	v, ok := cur.next()
	if !ok {
		return
	}
	if s := StripUnits(v); s != "" {
		f.store(s)
	}
}
