package util

import (
	"sort"
	"strings"
)

// State is one of the 50 US states the directory covers.
type State struct {
	Abbr string `json:"abbr"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

var states = []State{
	{"AL", "Alabama", "alabama"}, {"AK", "Alaska", "alaska"}, {"AZ", "Arizona", "arizona"},
	{"AR", "Arkansas", "arkansas"}, {"CA", "California", "california"}, {"CO", "Colorado", "colorado"},
	{"CT", "Connecticut", "connecticut"}, {"DE", "Delaware", "delaware"}, {"FL", "Florida", "florida"},
	{"GA", "Georgia", "georgia"}, {"HI", "Hawaii", "hawaii"}, {"ID", "Idaho", "idaho"},
	{"IL", "Illinois", "illinois"}, {"IN", "Indiana", "indiana"}, {"IA", "Iowa", "iowa"},
	{"KS", "Kansas", "kansas"}, {"KY", "Kentucky", "kentucky"}, {"LA", "Louisiana", "louisiana"},
	{"ME", "Maine", "maine"}, {"MD", "Maryland", "maryland"}, {"MA", "Massachusetts", "massachusetts"},
	{"MI", "Michigan", "michigan"}, {"MN", "Minnesota", "minnesota"}, {"MS", "Mississippi", "mississippi"},
	{"MO", "Missouri", "missouri"}, {"MT", "Montana", "montana"}, {"NE", "Nebraska", "nebraska"},
	{"NV", "Nevada", "nevada"}, {"NH", "New Hampshire", "new-hampshire"}, {"NJ", "New Jersey", "new-jersey"},
	{"NM", "New Mexico", "new-mexico"}, {"NY", "New York", "new-york"}, {"NC", "North Carolina", "north-carolina"},
	{"ND", "North Dakota", "north-dakota"}, {"OH", "Ohio", "ohio"}, {"OK", "Oklahoma", "oklahoma"},
	{"OR", "Oregon", "oregon"}, {"PA", "Pennsylvania", "pennsylvania"}, {"RI", "Rhode Island", "rhode-island"},
	{"SC", "South Carolina", "south-carolina"}, {"SD", "South Dakota", "south-dakota"}, {"TN", "Tennessee", "tennessee"},
	{"TX", "Texas", "texas"}, {"UT", "Utah", "utah"}, {"VT", "Vermont", "vermont"},
	{"VA", "Virginia", "virginia"}, {"WA", "Washington", "washington"}, {"WV", "West Virginia", "west-virginia"},
	{"WI", "Wisconsin", "wisconsin"}, {"WY", "Wyoming", "wyoming"},
}

var (
	statesByAbbr = make(map[string]State, len(states))
	statesBySlug = make(map[string]State, len(states))
	statesByName = make(map[string]State, len(states))
)

func init() {
	for _, s := range states {
		statesByAbbr[s.Abbr] = s
		statesBySlug[s.Slug] = s
		statesByName[strings.ToLower(s.Name)] = s
	}
}

// States returns all states ordered by name.
func States() []State {
	out := make([]State, len(states))
	copy(out, states)
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// LookupState resolves an abbreviation ("NY"), a slug ("new-york") or a full name ("New York").
func LookupState(value string) (State, bool) {
	v := strings.TrimSpace(value)
	if v == "" {
		return State{}, false
	}
	if s, ok := statesByAbbr[strings.ToUpper(v)]; ok {
		return s, true
	}
	lower := strings.ToLower(v)
	if s, ok := statesBySlug[lower]; ok {
		return s, true
	}
	if s, ok := statesByName[lower]; ok {
		return s, true
	}
	return State{}, false
}

// NormalizeState maps a full state name to its abbreviation. Unknown values are upper-cased as-is.
func NormalizeState(value string) string {
	if s, ok := LookupState(value); ok {
		return s.Abbr
	}
	return strings.ToUpper(strings.TrimSpace(value))
}

// StateSlug returns the URL slug for an abbreviation, falling back to the lowercased input.
func StateSlug(abbr string) string {
	if s, ok := statesByAbbr[strings.ToUpper(strings.TrimSpace(abbr))]; ok {
		return s.Slug
	}
	return strings.ToLower(strings.TrimSpace(abbr))
}
