package project

import (
	"sort"
	"strconv"

	"github.com/base-cli/base/internal/errors"
)

// Replacement keys filled from the Project.
const (
	KeyMachineName   = "machineName"
	KeyName          = "name"
	KeyAPIURL        = "apiUrl"
	KeyBackofficeURL = "backofficeUrl"
	KeyFrontendURL   = "frontendUrl"
	KeyFrontendPort  = "frontendPort"
	KeyDatabaseName  = "databaseName"

	// Added after credentials are issued during provisioning.
	KeyClientID     = "clientId"
	KeyClientSecret = "clientSecret"
)

// Replacements maps placeholder keys to their rendered values. A key k
// replaces the literal token {[k]}.
type Replacements map[string]string

// Token returns the placeholder text for key.
func Token(key string) string {
	return "{[" + key + "]}"
}

// NewReplacements builds the base map from the project's fields.
func NewReplacements(p Project) Replacements {
	return Replacements{
		KeyMachineName:   p.MachineName,
		KeyName:          p.DisplayName,
		KeyAPIURL:        p.APIURL,
		KeyBackofficeURL: p.BackofficeURL,
		KeyFrontendURL:   p.FrontendURL,
		KeyFrontendPort:  strconv.Itoa(p.FrontendPort),
		KeyDatabaseName:  p.DatabaseName,
	}
}

// Merge returns a new map holding r plus extra. Redefining an existing key
// is an error; r is never modified.
func (r Replacements) Merge(extra Replacements) (Replacements, error) {
	out := make(Replacements, len(r)+len(extra))
	for k, v := range r {
		out[k] = v
	}
	for _, k := range sortedKeys(extra) {
		if _, exists := out[k]; exists {
			return nil, errors.New(errors.EReplacementConflict, "merge", k, "key already defined")
		}
		out[k] = extra[k]
	}
	return out, nil
}

// Keys returns the map's keys in sorted order.
func (r Replacements) Keys() []string {
	return sortedKeys(r)
}

func sortedKeys(r Replacements) []string {
	keys := make([]string, 0, len(r))
	for k := range r {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
