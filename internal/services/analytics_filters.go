package services

import (
	"regexp"
	"strings"
	"time"

	"aerosafety/labelboard/internal/common"
	"aerosafety/labelboard/internal/models/dtos"
	gormModels "aerosafety/labelboard/internal/models/gorm"
)

// competencyCodePattern accepts "KNO" or "KNO.1" style codes. Anything else
// is silently dropped from the filter.
var competencyCodePattern = regexp.MustCompile(`^[A-Z]{3}(\.\d+)?$`)

// eventFilter is one predicate in the pipeline. A filter with no parameters
// reports empty and passes the set through unchanged. joins marks filters
// that fan out over an event's items or performances; the pipeline dedupes
// once at the end only when such a filter actually ran.
type eventFilter interface {
	empty() bool
	joins() bool
	match(ev *gormModels.AviationEvent) bool
}

/* ---------- the ten filter types ---------- */

type dateRangeFilter struct {
	from, to *time.Time
}

func (f dateRangeFilter) empty() bool { return f.from == nil && f.to == nil }
func (f dateRangeFilter) joins() bool { return false }
func (f dateRangeFilter) match(ev *gormModels.AviationEvent) bool {
	if f.from != nil && ev.OccurrenceDate.Before(*f.from) {
		return false
	}
	if f.to != nil && ev.OccurrenceDate.After(f.to.Add(24*time.Hour-time.Nanosecond)) {
		return false
	}
	return true
}

type aircraftTypeFilter struct {
	types []string
}

func (f aircraftTypeFilter) empty() bool { return len(f.types) == 0 }
func (f aircraftTypeFilter) joins() bool { return false }
func (f aircraftTypeFilter) match(ev *gormModels.AviationEvent) bool {
	for _, t := range f.types {
		if strings.EqualFold(ev.AircraftType, t) {
			return true
		}
	}
	return false
}

// airportFilter OR-matches one code against departure, arrival and
// actual-landing fields, case-insensitively.
type airportFilter struct {
	code string
}

func (f airportFilter) empty() bool { return f.code == "" }
func (f airportFilter) joins() bool { return false }
func (f airportFilter) match(ev *gormModels.AviationEvent) bool {
	needle := strings.ToLower(f.code)
	for _, field := range []string{ev.DepartureAirport, ev.ArrivalAirport, ev.ActualLandingAirport} {
		if strings.Contains(strings.ToLower(field), needle) {
			return true
		}
	}
	return false
}

type eventTypeFilter struct {
	types []string
}

func (f eventTypeFilter) empty() bool { return len(f.types) == 0 }
func (f eventTypeFilter) joins() bool { return true }
func (f eventTypeFilter) match(ev *gormModels.AviationEvent) bool {
	for _, p := range ev.Performances {
		for _, t := range f.types {
			if p.EventType == t {
				return true
			}
		}
	}
	return false
}

type flightPhaseFilter struct {
	phases []string
}

func (f flightPhaseFilter) empty() bool { return len(f.phases) == 0 }
func (f flightPhaseFilter) joins() bool { return true }
func (f flightPhaseFilter) match(ev *gormModels.AviationEvent) bool {
	for _, p := range ev.Performances {
		for _, phase := range f.phases {
			if p.FlightPhase == phase {
				return true
			}
		}
	}
	return false
}

// hierarchyFilter handles one axis. The most specific provided level wins and
// is the only one applied.
type hierarchyFilter struct {
	axis       string
	l1, l2, l3 string
}

func (f hierarchyFilter) empty() bool { return f.l1 == "" && f.l2 == "" && f.l3 == "" }
func (f hierarchyFilter) joins() bool { return true }
func (f hierarchyFilter) match(ev *gormModels.AviationEvent) bool {
	level, value := f.effective()
	for i := range ev.Items {
		if f.itemLevel(&ev.Items[i], level) == value {
			return true
		}
	}
	return false
}

func (f hierarchyFilter) effective() (int, string) {
	switch {
	case f.l3 != "":
		return 3, f.l3
	case f.l2 != "":
		return 2, f.l2
	default:
		return 1, f.l1
	}
}

func (f hierarchyFilter) itemLevel(item *gormModels.LabelingItem, level int) string {
	switch f.axis {
	case "threat":
		return [4]string{"", item.ThreatTypeL1, item.ThreatTypeL2, item.ThreatTypeL3}[level]
	case "error":
		return [4]string{"", item.ErrorTypeL1, item.ErrorTypeL2, item.ErrorTypeL3}[level]
	case "uas":
		return [4]string{"", item.UASTypeL1, item.UASTypeL2, item.UASTypeL3}[level]
	}
	return ""
}

type trainingTopicFilter struct {
	topics map[string]struct{}
}

func (f trainingTopicFilter) empty() bool { return len(f.topics) == 0 }
func (f trainingTopicFilter) joins() bool { return true }
func (f trainingTopicFilter) match(ev *gormModels.AviationEvent) bool {
	for i := range ev.Items {
		item := &ev.Items[i]
		if containsAny(item.ThreatTopics, f.topics) ||
			containsAny(item.ErrorTopics, f.topics) ||
			containsAny(item.UASTopics, f.topics) {
			return true
		}
	}
	for i := range ev.Performances {
		if containsAny(ev.Performances[i].TrainingTopics, f.topics) {
			return true
		}
	}
	return false
}

// competencyFilter matches coping-ability codes across the three axis fields.
// A dotted code matches exactly; a bare category prefix matches any dotted
// code under it. Malformed codes are dropped during construction.
type competencyFilter struct {
	codes []string
}

func (f competencyFilter) empty() bool { return len(f.codes) == 0 }
func (f competencyFilter) joins() bool { return true }
func (f competencyFilter) match(ev *gormModels.AviationEvent) bool {
	for i := range ev.Items {
		item := &ev.Items[i]
		for _, stored := range item.ThreatCopingAbility {
			if f.matchCode(stored) {
				return true
			}
		}
		for _, stored := range item.ErrorCopingAbility {
			if f.matchCode(stored) {
				return true
			}
		}
		for _, stored := range item.UASCopingAbility {
			if f.matchCode(stored) {
				return true
			}
		}
	}
	return false
}

func (f competencyFilter) matchCode(stored string) bool {
	for _, code := range f.codes {
		if strings.Contains(code, ".") {
			if stored == code {
				return true
			}
		} else if stored == code || strings.HasPrefix(stored, code+".") {
			return true
		}
	}
	return false
}

func newCompetencyFilter(codes []string) competencyFilter {
	valid := make([]string, 0, len(codes))
	for _, code := range codes {
		if competencyCodePattern.MatchString(code) {
			valid = append(valid, code)
		}
	}
	return competencyFilter{codes: valid}
}

func containsAny(haystack []string, needles map[string]struct{}) bool {
	for _, h := range haystack {
		if _, ok := needles[h]; ok {
			return true
		}
	}
	return false
}

/* ---------- pipeline ---------- */

// FilterPipeline applies the ten filters in a fixed order with AND semantics
// across types.
type FilterPipeline struct {
	filters []eventFilter
}

// BuildPipeline translates query parameters into the filter pipeline. Bad
// date parameters are the only construction failure.
func BuildPipeline(params dtos.EventFilterParams) (*FilterPipeline, error) {
	from, err := parseFilterDate(params.DateFrom, "date_from")
	if err != nil {
		return nil, err
	}
	to, err := parseFilterDate(params.DateTo, "date_to")
	if err != nil {
		return nil, err
	}

	return &FilterPipeline{filters: []eventFilter{
		dateRangeFilter{from: from, to: to},
		aircraftTypeFilter{types: params.AircraftTypes},
		airportFilter{code: params.Airport},
		eventTypeFilter{types: params.EventTypes},
		flightPhaseFilter{phases: params.FlightPhases},
		hierarchyFilter{axis: "threat", l1: params.ThreatL1, l2: params.ThreatL2, l3: params.ThreatL3},
		hierarchyFilter{axis: "error", l1: params.ErrorL1, l2: params.ErrorL2, l3: params.ErrorL3},
		hierarchyFilter{axis: "uas", l1: params.UASL1, l2: params.UASL2, l3: params.UASL3},
		trainingTopicFilter{topics: common.StringSet(params.TrainingTopics)},
		newCompetencyFilter(params.CompetencyCodes),
	}}, nil
}

// Apply narrows the event set. Deduplication runs exactly once at the end,
// and only if a join-introducing filter was actually used.
func (p *FilterPipeline) Apply(events []gormModels.AviationEvent) []gormModels.AviationEvent {
	result := events
	joined := false

	for _, f := range p.filters {
		if f.empty() {
			continue
		}
		if f.joins() {
			joined = true
		}

		narrowed := make([]gormModels.AviationEvent, 0, len(result))
		for i := range result {
			if f.match(&result[i]) {
				narrowed = append(narrowed, result[i])
			}
		}
		result = narrowed
	}

	if joined {
		result = dedupeByID(result)
	}
	return result
}

func dedupeByID(events []gormModels.AviationEvent) []gormModels.AviationEvent {
	seen := make(map[string]struct{}, len(events))
	out := make([]gormModels.AviationEvent, 0, len(events))
	for i := range events {
		if _, ok := seen[events[i].ID]; ok {
			continue
		}
		seen[events[i].ID] = struct{}{}
		out = append(out, events[i])
	}
	return out
}

func parseFilterDate(value, field string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	t, err := time.Parse("2006-01-02", value)
	if err != nil {
		return nil, &ValidationError{Field: field, Message: "must be formatted as YYYY-MM-DD"}
	}
	return &t, nil
}
