// Package operations is the concrete operator library plugged into
// the graph engine: mappers, reducers and joiners. None of this
// affects engine semantics — it is an ordinary client of the
// Map/Reduce/Join contracts in package ops, grounded on the reference
// compgraph library's operations.py.
package operations

import (
	"fmt"
	"math"
	"strings"
	"time"
	"unicode"

	"github.com/fdrose/compgraph/internal/ops"
)

// Row is re-exported for caller convenience.
type Row = ops.Row

// DummyMapper yields exactly the row passed. Used to test the
// map(identity)(S) == S universal invariant.
type DummyMapper struct{}

func (DummyMapper) Process(row Row) ([]Row, error) { return []Row{row}, nil }

// FilterPunctuation strips ASCII punctuation from Column.
type FilterPunctuation struct {
	Column string
}

func (m FilterPunctuation) Process(row Row) ([]Row, error) {
	text, _ := row[m.Column].(string)
	var b strings.Builder
	for _, r := range text {
		if strings.ContainsRune(punctuation, r) {
			continue
		}
		b.WriteRune(r)
	}
	row = row.Clone()
	row[m.Column] = b.String()
	return []Row{row}, nil
}

const punctuation = `!"#$%&'()*+,-./:;<=>?@[\]^_` + "`" + `{|}~`

// LowerCase replaces Column's value with its lower-case form.
type LowerCase struct {
	Column string
}

func (m LowerCase) Process(row Row) ([]Row, error) {
	text, _ := row[m.Column].(string)
	row = row.Clone()
	row[m.Column] = strings.ToLower(text)
	return []Row{row}, nil
}

// Split splits Column into multiple rows by Separator. An empty
// Separator splits on runs of Unicode whitespace, discarding empty
// tokens — the Go equivalent of the reference regex '(\S*)\s*'
// combined with its .strip() + truthy-check workaround, since a
// literal translation of that regex can emit empty matches.
type Split struct {
	Column    string
	Separator string
}

func (m Split) Process(row Row) ([]Row, error) {
	text, _ := row[m.Column].(string)
	var parts []string
	if m.Separator == "" {
		parts = strings.FieldsFunc(text, unicode.IsSpace)
	} else {
		parts = strings.Split(text, m.Separator)
	}
	var out []Row
	for _, part := range parts {
		value := strings.TrimSpace(part)
		if value == "" {
			continue
		}
		newRow := row.Clone()
		newRow[m.Column] = value
		out = append(out, newRow)
	}
	return out, nil
}

// Product multiplies Columns together into ResultColumn.
type Product struct {
	Columns      []string
	ResultColumn string
}

func (m Product) Process(row Row) ([]Row, error) {
	row = row.Clone()
	product := 1.0
	for _, col := range m.Columns {
		v, err := toFloat(row[col])
		if err != nil {
			return nil, fmt.Errorf("operations.Product: column %q: %w", col, err)
		}
		product *= v
	}
	row[m.ResultColumn] = product
	return []Row{row}, nil
}

// Divide computes Numerator/Denominator into ResultColumn.
type Divide struct {
	Numerator   string
	Denominator string
	ResultColumn string
}

func (m Divide) Process(row Row) ([]Row, error) {
	num, err := toFloat(row[m.Numerator])
	if err != nil {
		return nil, err
	}
	den, err := toFloat(row[m.Denominator])
	if err != nil {
		return nil, err
	}
	if den == 0 {
		return nil, fmt.Errorf("%w: denominator column %q is zero", ops.ErrArithmetic, m.Denominator)
	}
	row = row.Clone()
	row[m.ResultColumn] = num / den
	return []Row{row}, nil
}

// Filter removes rows for which Condition returns false.
type Filter struct {
	Condition func(Row) bool
}

func (m Filter) Process(row Row) ([]Row, error) {
	if m.Condition(row) {
		return []Row{row}, nil
	}
	return nil, nil
}

// Project leaves only the named columns.
type Project struct {
	Columns []string
}

func (m Project) Process(row Row) ([]Row, error) {
	out := make(Row, len(m.Columns))
	for _, col := range m.Columns {
		out[col] = row[col]
	}
	return []Row{out}, nil
}

// LogTransform maps the point (x, y) -> log(x/y) = log(x) - log(y).
type LogTransform struct {
	Numerator    string
	Denominator  string
	ResultColumn string
}

func (m LogTransform) Process(row Row) ([]Row, error) {
	num, err := toFloat(row[m.Numerator])
	if err != nil {
		return nil, err
	}
	den, err := toFloat(row[m.Denominator])
	if err != nil {
		return nil, err
	}
	if num <= 0 || den <= 0 {
		return nil, fmt.Errorf("%w: log of non-positive value", ops.ErrArithmetic)
	}
	row = row.Clone()
	row[m.ResultColumn] = math.Log(num) - math.Log(den)
	return []Row{row}, nil
}

// LongerThanN leaves only rows whose Column string is longer than N
// runes.
type LongerThanN struct {
	Column string
	N      int
}

func (m LongerThanN) Process(row Row) ([]Row, error) {
	text, _ := row[m.Column].(string)
	if len([]rune(text)) > m.N {
		return []Row{row}, nil
	}
	return nil, nil
}

// AtLeastNTimes leaves only rows whose Column value is >= N.
type AtLeastNTimes struct {
	Column string
	N      float64
}

func (m AtLeastNTimes) Process(row Row) ([]Row, error) {
	v, err := toFloat(row[m.Column])
	if err != nil {
		return nil, err
	}
	if v >= m.N {
		return []Row{row}, nil
	}
	return nil, nil
}

// Haversine computes the great-circle distance in kilometers between
// the [lon, lat] pairs stored in FirstPoint and SecondPoint.
type Haversine struct {
	ResultColumn string
	FirstPoint   string
	SecondPoint  string
}

const earthRadiusKM = 6373.0

func (m Haversine) Process(row Row) ([]Row, error) {
	p1, err := toCoord(row[m.FirstPoint])
	if err != nil {
		return nil, err
	}
	p2, err := toCoord(row[m.SecondPoint])
	if err != nil {
		return nil, err
	}
	lon1, lat1 := radians(p1[0]), radians(p1[1])
	lon2, lat2 := radians(p2[0]), radians(p2[1])

	arg := math.Pow(math.Sin((lat2-lat1)/2), 2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Pow(math.Sin((lon2-lon1)/2), 2)
	dist := 2 * math.Asin(math.Sqrt(arg)) * earthRadiusKM

	row = row.Clone()
	row[m.ResultColumn] = dist
	return []Row{row}, nil
}

func radians(deg float64) float64 { return deg * math.Pi / 180 }

// HourWeekday splits the RFC3339 timestamp in Column into separate
// weekday and hour columns.
type HourWeekday struct {
	Column        string
	WeekdayColumn string
	HourColumn    string
}

func (m HourWeekday) Process(row Row) ([]Row, error) {
	raw, _ := row[m.Column].(string)
	t, err := parseTimestamp(raw)
	if err != nil {
		return nil, fmt.Errorf("operations.HourWeekday: %w", err)
	}
	row = row.Clone()
	row[m.WeekdayColumn] = t.Weekday().String()[:3]
	row[m.HourColumn] = t.Hour()
	return []Row{row}, nil
}

// TimeDiff computes the difference in hours between StartTime and
// EndTime, both RFC3339 timestamps.
type TimeDiff struct {
	ResultColumn string
	StartTime    string
	EndTime      string
}

func (m TimeDiff) Process(row Row) ([]Row, error) {
	start, _ := row[m.StartTime].(string)
	end, _ := row[m.EndTime].(string)
	tStart, err := parseTimestamp(start)
	if err != nil {
		return nil, fmt.Errorf("operations.TimeDiff: %w", err)
	}
	tEnd, err := parseTimestamp(end)
	if err != nil {
		return nil, fmt.Errorf("operations.TimeDiff: %w", err)
	}
	row = row.Clone()
	row[m.ResultColumn] = tEnd.Sub(tStart).Hours()
	return []Row{row}, nil
}

func parseTimestamp(s string) (time.Time, error) {
	for _, layout := range []string{time.RFC3339Nano, time.RFC3339, "2006-01-02T15:04:05"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized timestamp %q", s)
}

func toFloat(v any) (float64, error) {
	switch n := v.(type) {
	case int:
		return float64(n), nil
	case int64:
		return float64(n), nil
	case float64:
		return n, nil
	case float32:
		return float64(n), nil
	default:
		return 0, fmt.Errorf("operations: expected numeric value, got %T", v)
	}
}

func toCoord(v any) ([2]float64, error) {
	switch c := v.(type) {
	case [2]float64:
		return c, nil
	case []float64:
		if len(c) != 2 {
			return [2]float64{}, fmt.Errorf("operations: coordinate must have 2 elements, got %d", len(c))
		}
		return [2]float64{c[0], c[1]}, nil
	case []any:
		if len(c) != 2 {
			return [2]float64{}, fmt.Errorf("operations: coordinate must have 2 elements, got %d", len(c))
		}
		x, err := toFloat(c[0])
		if err != nil {
			return [2]float64{}, err
		}
		y, err := toFloat(c[1])
		if err != nil {
			return [2]float64{}, err
		}
		return [2]float64{x, y}, nil
	default:
		return [2]float64{}, fmt.Errorf("operations: expected coordinate pair, got %T", v)
	}
}
