package shape

import (
	"regexp"

	"github.com/pkg/errors"
)

// DefaultProblemChars matches characters that disqualify an addr: tag key.
const DefaultProblemChars = `[=\+/&<>;'"\?%#$@\,\. \t\r\n]`

// AddressMarker marks tag keys that are collected into the address record.
const AddressMarker = "addr:"

var (
	DefaultCreated = []string{"version", "changeset", "timestamp", "user", "uid"}
	DefaultAllowed = []string{"amenity", "cuisine", "name", "phone"}
)

// Rules configure a Shaper. Rules are immutable after NewRules.
type Rules struct {
	created      []string
	allowed      map[string]struct{}
	problemChars *regexp.Regexp
}

// NewRules returns rules that copy the created attributes into the
// created record and the allowed tag keys into the top level record.
// problemChars is a regular expression; keys matching it anywhere are
// rejected.
func NewRules(created, allowed []string, problemChars string) (Rules, error) {
	re, err := regexp.Compile(problemChars)
	if err != nil {
		return Rules{}, errors.Wrap(err, "compiling problem chars")
	}
	r := Rules{
		created:      append([]string(nil), created...),
		allowed:      make(map[string]struct{}, len(allowed)),
		problemChars: re,
	}
	for _, k := range allowed {
		if k == "" {
			return Rules{}, errors.New("empty tag key in allow-list")
		}
		if isReservedKey(k) {
			return Rules{}, errors.Errorf("tag key %q collides with record field", k)
		}
		r.allowed[k] = struct{}{}
	}
	return r, nil
}

// DefaultRules returns the rules of the MongoDB import exercise.
func DefaultRules() Rules {
	r, err := NewRules(DefaultCreated, DefaultAllowed, DefaultProblemChars)
	if err != nil {
		panic(err)
	}
	return r
}

// Created returns a copy of the attribute names for the created record.
func (r Rules) Created() []string {
	return append([]string(nil), r.created...)
}

func (r Rules) Allowed(key string) bool {
	_, ok := r.allowed[key]
	return ok
}

func (r Rules) HasProblemChars(key string) bool {
	return r.problemChars.MatchString(key)
}
