package filter

import (
	"math"
	"net/url"
	"strconv"
	"strings"
)

// Tri is a three-valued filter: unset, explicitly yes, explicitly no.
type Tri int

const (
	TriAny Tri = iota
	TriYes
	TriNo
)

func (t Tri) String() string {
	switch t {
	case TriYes:
		return "yes"
	case TriNo:
		return "no"
	default:
		return "any"
	}
}

// SortKey selects the listing order.
type SortKey string

const (
	SortScore SortKey = "score"
	SortDate  SortKey = "date"
	SortTitle SortKey = "title"
)

// SortOrder is the listing direction.
type SortOrder string

const (
	OrderDesc SortOrder = "desc"
	OrderAsc  SortOrder = "asc"
)

const (
	DefaultPage     = 1
	DefaultPageSize = 20
	MaxPageSize     = 100
	MinScoreFloor   = 0.0
	MinScoreCeil    = 10.0
)

// State is the complete filter/sort/pagination state of the opportunity
// listing. The zero-ish Default() value is the canonical "no filters" state;
// Encode emits only fields that differ from it.
type State struct {
	Search      string
	SourceGroup string
	Category    string
	Platform    string
	Audience    string
	Vertical    string
	Niche       string
	MinScore    float64
	Viable      Tri
	SortKey     SortKey
	SortOrder   SortOrder
	Page        int
	PageSize    int
}

// Default returns the documented default for every field.
func Default() State {
	return State{
		Viable:    TriAny,
		SortKey:   SortScore,
		SortOrder: OrderDesc,
		Page:      DefaultPage,
		PageSize:  DefaultPageSize,
	}
}

// Normalize clamps and canonicalizes a state so that equal-looking states
// compare equal: whitespace trimmed, numeric fields clamped into range and
// unknown enum tokens replaced by their defaults.
func Normalize(s State) State {
	s.Search = strings.TrimSpace(s.Search)
	s.SourceGroup = strings.TrimSpace(s.SourceGroup)
	s.Category = strings.TrimSpace(s.Category)
	s.Platform = strings.TrimSpace(s.Platform)
	s.Audience = strings.TrimSpace(s.Audience)
	s.Vertical = strings.TrimSpace(s.Vertical)
	s.Niche = strings.TrimSpace(s.Niche)

	if math.IsNaN(s.MinScore) || s.MinScore < MinScoreFloor {
		s.MinScore = MinScoreFloor
	}
	if s.MinScore > MinScoreCeil {
		s.MinScore = MinScoreCeil
	}

	switch s.Viable {
	case TriYes, TriNo:
	default:
		s.Viable = TriAny
	}

	switch s.SortKey {
	case SortScore, SortDate, SortTitle:
	default:
		s.SortKey = SortScore
	}

	switch s.SortOrder {
	case OrderAsc, OrderDesc:
	default:
		s.SortOrder = OrderDesc
	}

	if s.Page < 1 {
		s.Page = DefaultPage
	}
	if s.PageSize < 1 || s.PageSize > MaxPageSize {
		s.PageSize = DefaultPageSize
	}

	return s
}

// HasActiveFilters reports whether any filter field (not sort or pagination)
// differs from its default. Drives the "no matches" vs "no data yet" copy.
func (s State) HasActiveFilters() bool {
	return s.Search != "" ||
		s.SourceGroup != "" ||
		s.Category != "" ||
		s.Platform != "" ||
		s.Audience != "" ||
		s.Vertical != "" ||
		s.Niche != "" ||
		s.MinScore > MinScoreFloor ||
		s.Viable != TriAny
}

// Query parameter names. These are the wire contract shared by the TUI
// client, the listing endpoint and the shareable address.
const (
	paramSearch   = "q"
	paramGroup    = "group"
	paramCategory = "category"
	paramPlatform = "platform"
	paramAudience = "audience"
	paramVertical = "vertical"
	paramNiche    = "niche"
	paramMinScore = "min_score"
	paramViable   = "viable"
	paramSort     = "sort"
	paramOrder    = "order"
	paramPage     = "page"
	paramLimit    = "limit"
)

// Encode serializes a state into query values, emitting only fields that
// differ from Default(). Callers should Normalize first; Encode does not.
func Encode(s State) url.Values {
	v := url.Values{}
	if s.Search != "" {
		v.Set(paramSearch, s.Search)
	}
	if s.SourceGroup != "" {
		v.Set(paramGroup, s.SourceGroup)
	}
	if s.Category != "" {
		v.Set(paramCategory, s.Category)
	}
	if s.Platform != "" {
		v.Set(paramPlatform, s.Platform)
	}
	if s.Audience != "" {
		v.Set(paramAudience, s.Audience)
	}
	if s.Vertical != "" {
		v.Set(paramVertical, s.Vertical)
	}
	if s.Niche != "" {
		v.Set(paramNiche, s.Niche)
	}
	if s.MinScore > MinScoreFloor {
		v.Set(paramMinScore, strconv.FormatFloat(s.MinScore, 'f', -1, 64))
	}
	switch s.Viable {
	case TriYes:
		v.Set(paramViable, "yes")
	case TriNo:
		v.Set(paramViable, "no")
	}
	if s.SortKey != SortScore {
		v.Set(paramSort, string(s.SortKey))
	}
	if s.SortOrder != OrderDesc {
		v.Set(paramOrder, string(s.SortOrder))
	}
	if s.Page != DefaultPage {
		v.Set(paramPage, strconv.Itoa(s.Page))
	}
	if s.PageSize != DefaultPageSize {
		v.Set(paramLimit, strconv.Itoa(s.PageSize))
	}
	return v
}

// EncodeQuery returns the canonical (sorted-key) query string for a state:
// the body of the shareable address.
func EncodeQuery(s State) string {
	return Encode(s).Encode()
}

// Decode is the inverse of Encode. Absent fields resolve to their defaults
// and malformed values (non-numeric numbers, unknown enum tokens) resolve to
// defaults rather than erroring: decoding never fails.
func Decode(v url.Values) State {
	s := Default()

	s.Search = v.Get(paramSearch)
	s.SourceGroup = v.Get(paramGroup)
	s.Category = v.Get(paramCategory)
	s.Platform = v.Get(paramPlatform)
	s.Audience = v.Get(paramAudience)
	s.Vertical = v.Get(paramVertical)
	s.Niche = v.Get(paramNiche)

	if raw := v.Get(paramMinScore); raw != "" {
		if f, err := strconv.ParseFloat(raw, 64); err == nil {
			s.MinScore = f
		}
	}

	switch v.Get(paramViable) {
	case "yes":
		s.Viable = TriYes
	case "no":
		s.Viable = TriNo
	}

	switch SortKey(v.Get(paramSort)) {
	case SortDate:
		s.SortKey = SortDate
	case SortTitle:
		s.SortKey = SortTitle
	}

	if SortOrder(v.Get(paramOrder)) == OrderAsc {
		s.SortOrder = OrderAsc
	}

	if raw := v.Get(paramPage); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil {
			s.Page = n
		}
	}
	if raw := v.Get(paramLimit); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil {
			s.PageSize = n
		}
	}

	return Normalize(s)
}

// DecodeQuery decodes a raw query string, tolerating malformed escapes by
// falling back to the default state for anything unparseable.
func DecodeQuery(raw string) State {
	raw = strings.TrimPrefix(raw, "?")
	v, err := url.ParseQuery(raw)
	if err != nil {
		return Default()
	}
	return Decode(v)
}
