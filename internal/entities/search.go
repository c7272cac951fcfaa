package entities

import (
	"encoding/json"
	"strings"

	"github.com/go-playground/validator/v10"
)

// SearchParams are the saved-search parameters attached to an import session.
type SearchParams struct {
	Roles    []string `json:"roles" validate:"max=10,dive,max=200"`
	Location string   `json:"location" validate:"max=255"`
}

func (p SearchParams) Validate() error {
	return validator.New().Struct(p)
}

// Remote reports whether the search targets remote positions. The location
// defaults to "Remote" when the caller left it empty.
func (p SearchParams) Remote() bool {
	return strings.EqualFold(p.LocationOrDefault(), "remote")
}

func (p SearchParams) LocationOrDefault() string {
	if p.Location == "" {
		return "Remote"
	}
	return p.Location
}

func (p SearchParams) JoinedRoles() string {
	return strings.Join(p.Roles, " ")
}

// ParseSearchParams decodes session search parameters, accepting both a JSON
// object and a JSON-encoded string holding one (some callers double-encode).
func ParseSearchParams(raw string) (SearchParams, error) {
	var params SearchParams

	if raw == "" {
		return params, nil
	}

	var asString string
	if err := json.Unmarshal([]byte(raw), &asString); err == nil {
		raw = asString
	}

	if err := json.Unmarshal([]byte(raw), &params); err != nil {
		return SearchParams{}, err
	}
	return params, nil
}
