package leads

import (
	"encoding/json"
	"math"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/openfence/fence-quote-api/internal/apperr"
)

var (
	emailRx        = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	angleBracketRx = regexp.MustCompile(`[<>]`)
	controlRx      = regexp.MustCompile("[\\x00-\\x1f\\x7f]")
)

// IsValidEmail reports whether value matches the minimal email shape the
// pipeline accepts. This is a shape check, not RFC validation.
func IsValidEmail(value string) bool {
	return emailRx.MatchString(strings.TrimSpace(value))
}

// ParseSubmission decodes a request body into a raw field map. The body
// may be a JSON object or a JSON string that itself contains a JSON
// document (some embedders double-encode the payload). Decoder details
// never reach the caller.
func ParseSubmission(body []byte) (map[string]any, *apperr.Error) {
	if len(strings.TrimSpace(string(body))) == 0 {
		return nil, apperr.BadRequest("Invalid JSON body")
	}

	var raw any
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, apperr.BadRequest("Invalid JSON body").Wrap(err)
	}

	if inner, ok := raw.(string); ok {
		if err := json.Unmarshal([]byte(inner), &raw); err != nil {
			return nil, apperr.BadRequest("Invalid JSON body").Wrap(err)
		}
	}

	fields, ok := raw.(map[string]any)
	if !ok {
		return nil, apperr.BadRequest("Invalid JSON body")
	}
	return fields, nil
}

// Normalize coerces every raw field to its declared type. The policy is
// intentionally permissive: unparseable or out-of-range numerics become
// 0, missing text becomes "", and nothing short of malformed JSON is an
// error at this stage. Text is stripped of angle brackets and control
// characters, trimmed, and truncated to its cap. Emails are lowercased.
func Normalize(input map[string]any) Submission {
	return Submission{
		Client:        cleanText(input["client"], maxClientLen),
		CompanyName:   cleanText(input["companyName"], maxCompanyLen),
		PushoverEmail: cleanEmail(input["pushover_email"]),
		Address:       cleanText(input["address"], maxAddressLen),
		FenceType:     cleanText(input["fenceType"], maxFenceTypeLen),

		WalkGatesQty:   toNonNegativeInt(input["walkGatesQty"]),
		DoubleGatesQty: toNonNegativeInt(input["doubleGatesQty"]),
		RemoveOldFence: truthy(input["removeOldFence"]),

		TotalLinearFeet: toPositiveNumber(input["totalLinearFeet"]),
		SegmentsCount:   toNonNegativeInt(input["segmentsCount"]),
		Segments:        normalizeSegments(input["segments"]),

		EstimatedMin: toNonNegativeNumber(input["estimatedMin"]),
		EstimatedMax: toNonNegativeNumber(input["estimatedMax"]),

		FullName: cleanText(input["fullName"], maxNameLen),
		Phone:    cleanText(input["phone"], maxPhoneLen),
		Email:    cleanEmail(input["email"]),

		CreatedAt: cleanText(input["created_at"], maxCreatedAtLen),
		PageURL:   cleanText(input["page_url"], maxPageURLLen),
		Website:   cleanText(input["website"], maxWebsiteLen),
	}
}

func cleanText(value any, maxLen int) string {
	text := asString(value)
	text = angleBracketRx.ReplaceAllString(text, "")
	text = controlRx.ReplaceAllString(text, " ")
	text = strings.TrimSpace(text)
	return truncate(text, maxLen)
}

// truncate caps s at maxLen bytes without splitting a multi-byte rune,
// so capped fields stay valid UTF-8 in rendered emails and webhook JSON.
func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	cut := maxLen
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut]
}

func cleanEmail(value any) string {
	return strings.ToLower(cleanText(value, maxEmailLen))
}

func asString(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case bool:
		return strconv.FormatBool(v)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return ""
	}
}

func asNumber(value any) (float64, bool) {
	switch v := value.(type) {
	case float64:
		return v, true
	case string:
		n, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return 0, false
		}
		return n, true
	case bool:
		if v {
			return 1, true
		}
		return 0, true
	default:
		return 0, false
	}
}

func truthy(value any) bool {
	switch v := value.(type) {
	case bool:
		return v
	case float64:
		return v != 0
	case string:
		return v != ""
	default:
		return false
	}
}

func toPositiveNumber(value any) float64 {
	n, ok := asNumber(value)
	if !ok || math.IsNaN(n) || math.IsInf(n, 0) || n <= 0 {
		return 0
	}
	return n
}

func toNonNegativeNumber(value any) float64 {
	n, ok := asNumber(value)
	if !ok || math.IsNaN(n) || math.IsInf(n, 0) || n < 0 {
		return 0
	}
	return n
}

func toNonNegativeInt(value any) int {
	n, ok := asNumber(value)
	if !ok || math.IsNaN(n) || math.IsInf(n, 0) {
		return 0
	}
	i := int(math.Floor(n))
	if i < 0 {
		return 0
	}
	return i
}

func normalizeSegments(value any) [][]Point {
	rawSegments, ok := value.([]any)
	if !ok {
		return [][]Point{}
	}
	if len(rawSegments) > maxSegments {
		rawSegments = rawSegments[:maxSegments]
	}

	segments := make([][]Point, 0, len(rawSegments))
	for _, rawSegment := range rawSegments {
		points, ok := rawSegment.([]any)
		if !ok {
			segments = append(segments, []Point{})
			continue
		}
		if len(points) > maxPointsPerSegment {
			points = points[:maxPointsPerSegment]
		}
		segment := make([]Point, 0, len(points))
		for _, rawPoint := range points {
			pt, _ := rawPoint.(map[string]any)
			segment = append(segment, Point{
				Lat: roundCoord(pt["lat"]),
				Lng: roundCoord(pt["lng"]),
			})
		}
		segments = append(segments, segment)
	}
	return segments
}

// roundCoord rounds to 7 decimal places, about 1cm of precision.
func roundCoord(value any) float64 {
	n, ok := asNumber(value)
	if !ok || math.IsNaN(n) || math.IsInf(n, 0) {
		return 0
	}
	return math.Round(n*1e7) / 1e7
}
