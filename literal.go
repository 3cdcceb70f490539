package odata

import (
	"encoding/base64"
	"encoding/hex"
	"math"
	"strconv"
	"strings"
	"time"

	p "github.com/vektah/goparsify"
)

// LiteralValue is the payload of every Kind == KindLiteral Token. Type
// names the EDM primitive type ("Edm.String", "Edm.Int32", ...); the
// literal's unparsed text is always recoverable from the Token's Raw.
// Decoded additionally carries the Go-native value, as a convenience this
// port adds beyond the minimum contract.
type LiteralValue struct {
	Type    string
	Decoded interface{}
}

// EnumValue is the Decoded payload of an Edm.Enum literal.
type EnumValue struct {
	TypeName string
	Members  []string
}

func literalToken(kind string, startPos int, ps *p.State, decoded interface{}) *Token {
	return tok(KindLiteral, startPos, ps, &LiteralValue{Type: kind, Decoded: decoded})
}

// primitiveLiteral dispatches on a short prefix test, trying alternatives
// in an order that ensures no shorter literal masks a longer one:
// DateTimeOffset before Date, the full numeric-suffix scan before falling
// back to a bare integer, etc.
func primitiveLiteral() p.Parser {
	return p.NewParser("literal", func(ps *p.State, node *p.Result) {
		if ps.Pos >= len(ps.Input) {
			ps.ErrorHere("literal")
			return
		}
		start := ps.Pos
		c := ps.Input[start]
		var t *Token
		switch {
		case c == '\'':
			t = parseStringLiteral(ps)
		case c == 'X' || c == 'x':
			t = parseBinaryXLiteral(ps)
		case strings.HasPrefix(ps.Input[start:], "binary'") || strings.HasPrefix(ps.Input[start:], "BINARY'"):
			t = parseBinaryQuotedLiteral(ps)
		case strings.HasPrefix(ps.Input[start:], "geography'") || strings.HasPrefix(ps.Input[start:], "geometry'"):
			t = parseGeoLiteral(ps)
		case strings.HasPrefix(ps.Input[start:], "duration'") || strings.HasPrefix(ps.Input[start:], "DURATION'"):
			t = parseDurationLiteral(ps)
		case strings.HasPrefix(ps.Input[start:], "null"):
			t = parseKeywordLiteral(ps, "null", "null", nil)
		case strings.HasPrefix(ps.Input[start:], "true"):
			t = parseKeywordLiteral(ps, "true", "Edm.Boolean", true)
		case strings.HasPrefix(ps.Input[start:], "false"):
			t = parseKeywordLiteral(ps, "false", "Edm.Boolean", false)
		case strings.HasPrefix(ps.Input[start:], "-INF"):
			ps.Pos = start + 4
			t = literalToken("Edm.Double", start, ps, math.Inf(-1))
		case strings.HasPrefix(ps.Input[start:], "INF"):
			ps.Pos = start + 3
			t = literalToken("Edm.Double", start, ps, math.Inf(1))
		case strings.HasPrefix(ps.Input[start:], "NaN"):
			ps.Pos = start + 3
			t = literalToken("Edm.Double", start, ps, math.NaN())
		case isDigit(c):
			// GUID (when its first hex digit is 0-9), date/dateTimeOffset/
			// timeOfDay, and plain numeric literals start with a digit; try the longer, more
			// specific shapes first so they aren't shadowed by a bare
			// number.
			if g := tryGUIDLiteral(ps); g != nil {
				t = g
			} else if d := tryTemporalLiteral(ps); d != nil {
				t = d
			} else {
				t = parseNumericLiteral(ps)
			}
		case c == '-' || c == '+':
			t = parseNumericLiteral(ps)
		}
		if t == nil && isAlpha(c) && isHexDigStartOfGUID(ps.Input[start:]) {
			t = tryGUIDLiteral(ps)
		}
		if t == nil && isAlpha(c) {
			t = parseEnumLiteral(ps)
		}
		if t == nil {
			ps.Pos = start
			ps.ErrorHere("literal")
			return
		}
		node.Result = t
		node.Token = t.Raw
	})
}

var pLiteral = primitiveLiteral()

// parseKeywordLiteral matches an exact keyword (null/true/false) as long as
// it isn't actually the prefix of a longer identifier (so "nullable" isn't
// misparsed as "null" followed by garbage).
func parseKeywordLiteral(ps *p.State, keyword, edmType string, decoded interface{}) *Token {
	start := ps.Pos
	end := start + len(keyword)
	if end > len(ps.Input) || ps.Input[start:end] != keyword {
		return nil
	}
	if end < len(ps.Input) && isIdentifierCharByte(ps.Input[end]) {
		return nil
	}
	ps.Pos = end
	if edmType == "null" {
		return tok(KindLiteral, start, ps, &LiteralValue{Type: "null", Decoded: nil})
	}
	return literalToken(edmType, start, ps, decoded)
}

func isIdentifierCharByte(b byte) bool {
	return isAlpha(b) || isDigit(b) || b == '_'
}

// parseStringLiteral parses Edm.String: SQUOTE-delimited, with '' or
// %27%27 decoding to a single embedded quote.
func parseStringLiteral(ps *p.State) *Token {
	start := ps.Pos
	if ps.Input[start] != '\'' {
		return nil
	}
	pos := start + 1
	var decoded strings.Builder
	for {
		if pos >= len(ps.Input) {
			return nil
		}
		rest := ps.Input[pos:]
		switch {
		case strings.HasPrefix(rest, "''"):
			decoded.WriteByte('\'')
			pos += 2
		case strings.HasPrefix(strings.ToUpper(rest), "%27%27"):
			decoded.WriteByte('\'')
			pos += 6
		case rest[0] == '\'':
			pos++
			ps.Pos = pos
			return literalToken("Edm.String", start, ps, decoded.String())
		default:
			decoded.WriteByte(rest[0])
			pos++
		}
	}
}

// parseBinaryXLiteral parses the legacy X'hex' binary form.
func parseBinaryXLiteral(ps *p.State) *Token {
	start := ps.Pos
	if start+1 >= len(ps.Input) || ps.Input[start+1] != '\'' {
		return nil
	}
	end := strings.IndexByte(ps.Input[start+2:], '\'')
	if end < 0 {
		return nil
	}
	body := ps.Input[start+2 : start+2+end]
	raw, err := hex.DecodeString(body)
	if err != nil {
		return nil
	}
	ps.Pos = start + 2 + end + 1
	return literalToken("Edm.Binary", start, ps, raw)
}

// parseBinaryQuotedLiteral parses binary'base64url'.
func parseBinaryQuotedLiteral(ps *p.State) *Token {
	start := ps.Pos
	prefixLen := len("binary'")
	quoteStart := start + prefixLen
	end := strings.IndexByte(ps.Input[quoteStart:], '\'')
	if end < 0 {
		return nil
	}
	body := ps.Input[quoteStart : quoteStart+end]
	raw, err := base64.RawURLEncoding.DecodeString(body)
	if err != nil {
		raw, err = base64.URLEncoding.DecodeString(body)
		if err != nil {
			return nil
		}
	}
	ps.Pos = quoteStart + end + 1
	return literalToken("Edm.Binary", start, ps, raw)
}

// durationParts decomposes the body of duration'...' into sign, days,
// hours, minutes, seconds.
type durationParts struct {
	negative bool
	days     int
	hours    int
	minutes  int
	seconds  float64
}

func (d durationParts) toGoDuration() time.Duration {
	total := time.Duration(d.days) * 24 * time.Hour
	total += time.Duration(d.hours) * time.Hour
	total += time.Duration(d.minutes) * time.Minute
	total += time.Duration(d.seconds * float64(time.Second))
	if d.negative {
		total = -total
	}
	return total
}

// parseDurationLiteral parses duration'[-]P[nD][T[nH][nM][n[.n]S]]'.
func parseDurationLiteral(ps *p.State) *Token {
	start := ps.Pos
	prefixLen := len("duration'")
	quoteStart := start + prefixLen
	end := strings.IndexByte(ps.Input[quoteStart:], '\'')
	if end < 0 {
		return nil
	}
	body := ps.Input[quoteStart : quoteStart+end]
	parts, ok := parseISODuration(body)
	if !ok {
		return nil
	}
	ps.Pos = quoteStart + end + 1
	return literalToken("Edm.Duration", start, ps, parts.toGoDuration())
}

func parseISODuration(body string) (durationParts, bool) {
	var d durationParts
	i := 0
	if i < len(body) && body[i] == '-' {
		d.negative = true
		i++
	}
	if i >= len(body) || body[i] != 'P' {
		return d, false
	}
	i++
	// date part: optional nD
	numStart := i
	for i < len(body) && isDigit(body[i]) {
		i++
	}
	if i < len(body) && body[i] == 'D' {
		n, err := strconv.Atoi(body[numStart:i])
		if err != nil {
			return d, false
		}
		d.days = n
		i++
	} else {
		i = numStart
	}
	if i >= len(body) {
		return d, true
	}
	if body[i] != 'T' {
		return d, false
	}
	i++
	for i < len(body) {
		numStart = i
		for i < len(body) && (isDigit(body[i]) || body[i] == '.') {
			i++
		}
		if i >= len(body) {
			return d, false
		}
		valStr := body[numStart:i]
		switch body[i] {
		case 'H':
			n, err := strconv.Atoi(valStr)
			if err != nil {
				return d, false
			}
			d.hours = n
		case 'M':
			n, err := strconv.Atoi(valStr)
			if err != nil {
				return d, false
			}
			d.minutes = n
		case 'S':
			n, err := strconv.ParseFloat(valStr, 64)
			if err != nil {
				return d, false
			}
			d.seconds = n
		default:
			return d, false
		}
		i++
	}
	return d, true
}

// isHexDigStartOfGUID is a cheap pre-check so the dispatcher doesn't try a
// GUID scan against every bare identifier/qname that happens to start with
// a hex digit.
func isHexDigStartOfGUID(s string) bool {
	if len(s) < 36 {
		return false
	}
	return isHexDig(s[0])
}

// tryGUIDLiteral attempts the fixed 8-4-4-4-12 hex-digit GUID shape at the
// current position, restoring the cursor on failure.
func tryGUIDLiteral(ps *p.State) *Token {
	start := ps.Pos
	groups := []int{8, 4, 4, 4, 12}
	pos := start
	for gi, glen := range groups {
		if gi > 0 {
			if pos >= len(ps.Input) || ps.Input[pos] != '-' {
				return nil
			}
			pos++
		}
		if pos+glen > len(ps.Input) {
			return nil
		}
		for k := 0; k < glen; k++ {
			if !isHexDig(ps.Input[pos+k]) {
				return nil
			}
		}
		pos += glen
	}
	ps.Pos = pos
	return literalToken("Edm.Guid", start, ps, ps.Input[start:pos])
}

// parseEnumLiteral parses Namespace.EnumType'member1,member2'.
func parseEnumLiteral(ps *p.State) *Token {
	start := ps.Pos
	res := p.Result{}
	pNamespace(ps, &res)
	// namespace greedily consumes "Namespace.EnumType" as one dotted run, so
	// by the time it returns ps.Pos already sits right after EnumType; all
	// that's left to check is the opening quote.
	if ps.Errored() || !strings.Contains(res.Token, ".") || ps.Pos >= len(ps.Input) || ps.Input[ps.Pos] != '\'' {
		ps.Pos = start
		return nil
	}
	typeName := res.Token
	quoteStart := ps.Pos + 1
	end := strings.IndexByte(ps.Input[quoteStart:], '\'')
	if end < 0 {
		ps.Pos = start
		return nil
	}
	body := ps.Input[quoteStart : quoteStart+end]
	var members []string
	if body != "" {
		members = strings.Split(body, ",")
	}
	ps.Pos = quoteStart + end + 1
	return literalToken("Edm.Enum", start, ps, &EnumValue{TypeName: typeName, Members: members})
}

// tryTemporalLiteral probes, in longest-first order, the bare (unquoted)
// date/dateTimeOffset/timeOfDay shapes, restoring the cursor and returning
// nil if none match so the caller can fall back to a plain number.
func tryTemporalLiteral(ps *p.State) *Token {
	start := ps.Pos
	if t := tryDateTimeOffsetLiteral(ps); t != nil {
		return t
	}
	ps.Pos = start
	if t := tryDateLiteral(ps); t != nil {
		return t
	}
	ps.Pos = start
	if t := tryTimeOfDayLiteral(ps); t != nil {
		return t
	}
	ps.Pos = start
	return nil
}

// scanFixedDigits scans exactly n decimal digits at ps.Input[pos:], using
// the fixedLengthInt combinator against a cursor positioned at pos (rather
// than ps.Pos) so callers can probe without disturbing ps itself until
// they've committed to a shape.
func scanFixedDigits(input string, pos, n int) (int, bool) {
	probe := p.NewState(input[pos:])
	res := p.Result{}
	fixedLengthInt(n)(probe, &res)
	if probe.Errored() {
		return pos, false
	}
	return pos + probe.Pos, true
}

// tryDateLiteral matches YYYY-MM-DD. It does not look at what follows the
// day digits; the hazard of cutting a DateTimeOffset short is avoided by
// ordering, since tryDateTimeOffsetLiteral must already have failed to
// match for this function to be reached.
func tryDateLiteral(ps *p.State) *Token {
	start := ps.Pos
	pos := start
	var ok bool
	if pos, ok = scanFixedDigits(ps.Input, pos, 4); !ok {
		return nil
	}
	if pos >= len(ps.Input) || ps.Input[pos] != '-' {
		return nil
	}
	pos++
	if pos, ok = scanFixedDigits(ps.Input, pos, 2); !ok {
		return nil
	}
	if pos >= len(ps.Input) || ps.Input[pos] != '-' {
		return nil
	}
	pos++
	if pos, ok = scanFixedDigits(ps.Input, pos, 2); !ok {
		return nil
	}
	dateStr := ps.Input[start:pos]
	tm, err := time.Parse("2006-01-02", dateStr)
	if err != nil {
		return nil
	}
	ps.Pos = pos
	return literalToken("Edm.Date", start, ps, tm)
}

// tryDateTimeOffsetLiteral matches YYYY-MM-DDThh:mm[:ss[.fraction]](Z|±hh:mm).
func tryDateTimeOffsetLiteral(ps *p.State) *Token {
	start := ps.Pos
	pos := start
	var ok bool
	if pos, ok = scanFixedDigits(ps.Input, pos, 4); !ok {
		return nil
	}
	if pos >= len(ps.Input) || ps.Input[pos] != '-' {
		return nil
	}
	pos++
	if pos, ok = scanFixedDigits(ps.Input, pos, 2); !ok {
		return nil
	}
	if pos >= len(ps.Input) || ps.Input[pos] != '-' {
		return nil
	}
	pos++
	if pos, ok = scanFixedDigits(ps.Input, pos, 2); !ok {
		return nil
	}
	if pos >= len(ps.Input) || (ps.Input[pos] != 'T' && ps.Input[pos] != 't') {
		return nil
	}
	pos++
	timePos, timeEnd, timeOK := scanTimeOfDay(ps.Input, pos)
	if !timeOK {
		return nil
	}
	pos = timeEnd
	_ = timePos
	// offset: "Z" or sign hh:mm
	offsetStart := pos
	var tzLayout string
	if pos < len(ps.Input) && (ps.Input[pos] == 'Z' || ps.Input[pos] == 'z') {
		pos++
		tzLayout = "Z"
	} else if pos < len(ps.Input) && (ps.Input[pos] == '+' || ps.Input[pos] == '-') {
		opos := pos + 1
		if opos, ok = scanFixedDigits(ps.Input, opos, 2); !ok {
			return nil
		}
		if opos >= len(ps.Input) || ps.Input[opos] != ':' {
			return nil
		}
		opos++
		if opos, ok = scanFixedDigits(ps.Input, opos, 2); !ok {
			return nil
		}
		pos = opos
		tzLayout = "-07:00"
	} else {
		return nil
	}
	_ = tzLayout
	_ = offsetStart
	raw := ps.Input[start:pos]
	tm, err := parseRFC3339ish(raw)
	if err != nil {
		return nil
	}
	ps.Pos = pos
	return literalToken("Edm.DateTimeOffset", start, ps, tm)
}

// scanTimeOfDay scans hh:mm[:ss[.fraction]] starting at pos, returning the
// (irrelevant, end) positions and whether the shape matched.
func scanTimeOfDay(input string, pos int) (int, int, bool) {
	start := pos
	var ok bool
	if pos, ok = scanFixedDigits(input, pos, 2); !ok {
		return start, pos, false
	}
	if pos >= len(input) || input[pos] != ':' {
		return start, pos, false
	}
	pos++
	if pos, ok = scanFixedDigits(input, pos, 2); !ok {
		return start, pos, false
	}
	if pos < len(input) && input[pos] == ':' {
		spos := pos + 1
		if spos, ok = scanFixedDigits(input, spos, 2); ok {
			pos = spos
			if pos < len(input) && input[pos] == '.' {
				fpos := pos + 1
				fstart := fpos
				for fpos < len(input) && isDigit(input[fpos]) {
					fpos++
				}
				if fpos > fstart {
					pos = fpos
				}
			}
		}
	}
	return start, pos, true
}

func parseRFC3339ish(raw string) (time.Time, error) {
	// time.Parse requires a fixed layout per fractional-second width; try
	// the common widths before giving up.
	layouts := []string{
		time.RFC3339Nano, time.RFC3339,
		"2006-01-02T15:04:05.999999999Z07:00",
		"2006-01-02T15:04Z07:00",
	}
	var lastErr error
	for _, layout := range layouts {
		if tm, err := time.Parse(layout, raw); err == nil {
			return tm, nil
		} else {
			lastErr = err
		}
	}
	return time.Time{}, lastErr
}

// tryTimeOfDayLiteral matches hh:mm[:ss[.fraction]] with no date prefix.
func tryTimeOfDayLiteral(ps *p.State) *Token {
	start := ps.Pos
	_, end, ok := scanTimeOfDay(ps.Input, start)
	if !ok {
		return nil
	}
	raw := ps.Input[start:end]
	tm, err := time.Parse("15:04:05.999999999", raw)
	if err != nil {
		tm, err = time.Parse("15:04:05", raw)
		if err != nil {
			tm, err = time.Parse("15:04", raw)
			if err != nil {
				return nil
			}
		}
	}
	ps.Pos = end
	return literalToken("Edm.TimeOfDay", start, ps, tm)
}

// parseNumericLiteral handles the numeric literal family: optional sign,
// digits, optional fraction, optional exponent, optional type suffix.
func parseNumericLiteral(ps *p.State) *Token {
	start := ps.Pos
	pos := start

	if pos < len(ps.Input) && (ps.Input[pos] == '-' || ps.Input[pos] == '+') {
		pos++
	}
	digitsStart := pos
	for pos < len(ps.Input) && isDigit(ps.Input[pos]) {
		pos++
	}
	if pos == digitsStart {
		return nil
	}
	hasFraction := false
	if pos < len(ps.Input) && ps.Input[pos] == '.' && pos+1 < len(ps.Input) && isDigit(ps.Input[pos+1]) {
		hasFraction = true
		pos++
		for pos < len(ps.Input) && isDigit(ps.Input[pos]) {
			pos++
		}
	}
	hasExponent := false
	if pos < len(ps.Input) && (ps.Input[pos] == 'e' || ps.Input[pos] == 'E') {
		save := pos
		epos := pos + 1
		if epos < len(ps.Input) && (ps.Input[epos] == '-' || ps.Input[epos] == '+') {
			epos++
		}
		edigits := epos
		for epos < len(ps.Input) && isDigit(ps.Input[epos]) {
			epos++
		}
		if epos > edigits {
			hasExponent = true
			pos = epos
		} else {
			pos = save
		}
	}
	var suffix byte
	if pos < len(ps.Input) {
		switch ps.Input[pos] {
		case 'f', 'F', 'd', 'D', 'm', 'M', 'L', 'l':
			suffix = ps.Input[pos]
			pos++
		}
	}
	numText := ps.Input[start:pos]
	if suffix != 0 {
		numText = ps.Input[start : pos-1]
	}
	ps.Pos = pos

	switch suffix {
	case 'f', 'F':
		v, _ := strconv.ParseFloat(numText, 64)
		return literalToken("Edm.Single", start, ps, float32(v))
	case 'd', 'D':
		v, _ := strconv.ParseFloat(numText, 64)
		return literalToken("Edm.Double", start, ps, v)
	case 'm', 'M':
		v, _ := strconv.ParseFloat(numText, 64)
		return literalToken("Edm.Decimal", start, ps, v)
	case 'l', 'L':
		v, _ := strconv.ParseInt(numText, 10, 64)
		return literalToken("Edm.Int64", start, ps, v)
	}
	if hasFraction || hasExponent {
		v, _ := strconv.ParseFloat(numText, 64)
		return literalToken("Edm.Double", start, ps, v)
	}
	if v, err := strconv.ParseInt(numText, 10, 32); err == nil {
		return literalToken("Edm.Int32", start, ps, int32(v))
	}
	v, err := strconv.ParseInt(numText, 10, 64)
	if err != nil {
		return nil
	}
	return literalToken("Edm.Int64", start, ps, v)
}
