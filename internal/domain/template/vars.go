package template

import (
	"fmt"
	"time"

	"github.com/goodsign/monday"
)

// EventVariables builds the computed substitution fields for one
// occurrence. "date" is the long human-readable form, rendered in the
// given locale.
func EventVariables(date time.Time, description string, locale monday.Locale) map[string]string {
	return map[string]string{
		"year":        fmt.Sprintf("%04d", date.Year()),
		"month":       fmt.Sprintf("%02d", int(date.Month())),
		"day":         fmt.Sprintf("%02d", date.Day()),
		"date":        monday.Format(date, "Monday, January 2, 2006", locale),
		"description": description,
	}
}

// MergeVariables overlays the computed fields onto the configured
// template variables. On a key collision the computed value wins.
func MergeVariables(configured, computed map[string]string) map[string]string {
	merged := make(map[string]string, len(configured)+len(computed))
	for k, v := range configured {
		merged[k] = v
	}
	for k, v := range computed {
		merged[k] = v
	}
	return merged
}
