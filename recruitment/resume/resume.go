package resume

import (
	"encoding/json"
	"math"
	"reflect"
	"maps"
	"regexp"
	"slices"
	"sort"
	"strings"
	"time"
	"unicode"

	"github.com/Abraxas-365/hrportal/pkg/logx"
	"github.com/Abraxas-365/hrportal/recruitment/matching"
	"github.com/mitchellh/mapstructure"
)

// ParsedResume is the structured output of a resume parser. Every field is
// optional; vendors omit what they could not extract.
type ParsedResume struct {
	PersonalInfo   PersonalInfo     `json:"personal_info" mapstructure:"personal_info"`
	Skills         []string         `json:"skills" mapstructure:"skills"`
	WorkExperience []WorkExperience `json:"work_experience" mapstructure:"work_experience"`
	Education      []Education      `json:"education" mapstructure:"education"`
	Languages      []string         `json:"languages,omitempty" mapstructure:"languages"`
	Certificates   []string         `json:"certificates,omitempty" mapstructure:"certificates"`
}

type PersonalInfo struct {
	Name     string `json:"name,omitempty" mapstructure:"name"`
	Email    string `json:"email,omitempty" mapstructure:"email"`
	Phone    string `json:"phone,omitempty" mapstructure:"phone"`
	Address  string `json:"address,omitempty" mapstructure:"address"`
	LinkedIn string `json:"linkedin,omitempty" mapstructure:"linkedin"`
	GitHub   string `json:"github,omitempty" mapstructure:"github"`
}

type WorkExperience struct {
	Title       string `json:"title" mapstructure:"title"`
	Company     string `json:"company" mapstructure:"company"`
	StartDate   string `json:"start_date,omitempty" mapstructure:"start_date"`
	EndDate     string `json:"end_date,omitempty" mapstructure:"end_date"`
	Description string `json:"description,omitempty" mapstructure:"description"`
}

type Education struct {
	Title     string `json:"title" mapstructure:"title"`
	Institute string `json:"institute" mapstructure:"institute"`
	Location  string `json:"location,omitempty" mapstructure:"location"`
	StartDate string `json:"start_date,omitempty" mapstructure:"start_date"`
	EndDate   string `json:"end_date,omitempty" mapstructure:"end_date"`
}

// NormalizedSkills returns the skill list ready for matching.
func (r *ParsedResume) NormalizedSkills() []string {
	if r == nil {
		return []string{}
	}
	return matching.NormalizeSkills(r.Skills)
}

func (r *ParsedResume) IsEmpty() bool {
	return r == nil || (len(r.Skills) == 0 && len(r.WorkExperience) == 0 &&
		len(r.Education) == 0 && r.PersonalInfo == PersonalInfo{})
}

// Marshal encodes the resume for storage. Nil encodes as JSON null.
func (r *ParsedResume) Marshal() (json.RawMessage, error) {
	if r == nil {
		return json.RawMessage("null"), nil
	}
	return json.Marshal(r)
}

// ============================================================================
// Tolerant decoding
// ============================================================================

// personal_info aliases seen in vendor payloads.
var personalInfoAliases = map[string]string{
	"full_name":    "name",
	"location":     "address",
	"mobile":       "phone",
	"linkedin_url": "linkedin",
	"github_url":   "github",
}

// DecodeParsedResume decodes a stored or freshly received parser payload.
// It never fails: malformed input yields an empty resume. The vendor
// envelope {success, data, error} is unwrapped when present, and skills may
// be strings, objects with a name, a comma-separated string or a map of
// categories.
func DecodeParsedResume(raw []byte) *ParsedResume {
	out := &ParsedResume{}
	if len(raw) == 0 {
		return out
	}

	var payload any
	if err := json.Unmarshal(raw, &payload); err != nil {
		logx.Debug("parsed resume is not valid JSON", logx.Err(err))
		return out
	}
	return DecodeParsedResumeMap(payload)
}

// DecodeParsedResumeMap is DecodeParsedResume for an already decoded value.
func DecodeParsedResumeMap(payload any) *ParsedResume {
	out := &ParsedResume{}

	m, ok := payload.(map[string]any)
	if !ok {
		return out
	}
	if data, ok := m["data"].(map[string]any); ok {
		if _, envelope := m["success"]; envelope {
			m = data
		}
	}
	if pi, ok := m["personal_info"].(map[string]any); ok {
		pi = maps.Clone(pi)
		for alias, field := range personalInfoAliases {
			if v, has := pi[alias]; has {
				if _, set := pi[field]; !set {
					pi[field] = v
				}
			}
		}
		m = maps.Clone(m)
		m["personal_info"] = pi
	}

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		Result:           out,
		DecodeHook:       stringListHook,
	})
	if err != nil {
		return out
	}
	// Decoding continues past bad fields, so keep whatever was decoded.
	if err := decoder.Decode(m); err != nil {
		logx.Debug("parsed resume decoded partially", logx.Err(err))
	}
	return out
}

// stringListHook flattens vendor skill shapes into []string.
func stringListHook(from reflect.Type, to reflect.Type, data any) (any, error) {
	if to != reflect.TypeOf([]string{}) {
		return data, nil
	}
	return flattenStrings(data), nil
}

func flattenStrings(data any) []string {
	switch v := data.(type) {
	case nil:
		return []string{}
	case string:
		out := []string{}
		for _, part := range strings.Split(v, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
		return out
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			out = append(out, flattenStrings(item)...)
		}
		return out
	case map[string]any:
		for _, key := range []string{"name", "skill", "title", "language"} {
			if s, ok := v[key].(string); ok {
				return []string{s}
			}
		}
		// Categorized lists such as {"technical": [...], "soft": [...]}.
		keys := make([]string, 0, len(v))
		for k := range v {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		out := []string{}
		for _, k := range keys {
			out = append(out, flattenStrings(v[k])...)
		}
		return out
	default:
		return []string{}
	}
}

// ============================================================================
// Experience signal
// ============================================================================

type ExperienceLevel string

const (
	LevelEntry  ExperienceLevel = "entry"
	LevelMid    ExperienceLevel = "mid"
	LevelSenior ExperienceLevel = "senior"
)

// ExperienceSignal summarizes work history next to the match score.
type ExperienceSignal struct {
	Positions int             `json:"positions"`
	Years     float64         `json:"years"`
	Level     ExperienceLevel `json:"level"`
}

var yearPattern = regexp.MustCompile(`(19|20)\d{2}`)

var dateLayouts = []string{
	"2006-01-02",
	"2006-01",
	"01/2006",
	"1/2006",
	"Jan 2006",
	"January 2006",
	"Jan. 2006",
	"2006",
}

var ongoingMarkers = []string{"present", "current", "now", "today", "ongoing", "actual"}

// ExperienceSignal estimates total experience. Overlapping positions are
// counted once. A missing end date means the position is ongoing; positions
// whose start or end date does not parse add no years.
func (r *ParsedResume) ExperienceSignal(now time.Time) ExperienceSignal {
	if r == nil {
		return ExperienceSignal{Level: LevelEntry}
	}

	type span struct{ from, to time.Time }
	spans := make([]span, 0, len(r.WorkExperience))
	for _, w := range r.WorkExperience {
		from, ok := parseResumeDate(w.StartDate, now)
		if !ok {
			continue
		}
		to := now
		if strings.TrimSpace(w.EndDate) != "" {
			if to, ok = parseResumeDate(w.EndDate, now); !ok {
				continue
			}
		}
		if to.Before(from) {
			continue
		}
		spans = append(spans, span{from, to})
	}

	sort.Slice(spans, func(i, j int) bool { return spans[i].from.Before(spans[j].from) })

	var total time.Duration
	var cur *span
	for i := range spans {
		s := spans[i]
		if cur == nil {
			cur = &s
			continue
		}
		if !s.from.After(cur.to) {
			if s.to.After(cur.to) {
				cur.to = s.to
			}
			continue
		}
		total += cur.to.Sub(cur.from)
		cur = &s
	}
	if cur != nil {
		total += cur.to.Sub(cur.from)
	}

	years := math.Round(total.Hours()/24/365.25*10) / 10
	return ExperienceSignal{
		Positions: len(r.WorkExperience),
		Years:     years,
		Level:     LevelForYears(years),
	}
}

// LevelForYears buckets years of experience.
func LevelForYears(years float64) ExperienceLevel {
	switch {
	case years < 2:
		return LevelEntry
	case years < 5:
		return LevelMid
	default:
		return LevelSenior
	}
}

func parseResumeDate(s string, now time.Time) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	words := strings.FieldsFunc(strings.ToLower(s), func(r rune) bool { return !unicode.IsLetter(r) })
	for _, w := range words {
		if slices.Contains(ongoingMarkers, w) {
			return now, true
		}
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	if y := yearPattern.FindString(s); y != "" {
		if t, err := time.Parse("2006", y); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
