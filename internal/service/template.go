// internal/service/template.go
package service

import (
	"regexp"
	"strings"
)

// RenderTemplate substitutes {name} placeholders with the given variables.
// Unresolved placeholders are left verbatim; that is deliberate, not a
// failure. No escaping is performed, callers encode for their channel.
func RenderTemplate(template string, vars map[string]string) string {
	result := template
	for k, v := range vars {
		result = strings.ReplaceAll(result, "{"+k+"}", v)
	}
	return result
}

var placeholderPattern = regexp.MustCompile(`\{([a-z_][a-z0-9_]*)\}`)

// TemplateVariables lists every known variable the send paths can populate,
// used by CheckTemplate at save time.
var TemplateVariables = []string{
	"client_name", "client_first_name", "client_last_name", "client_email", "client_phone",
	"service_name", "service_duration", "service_price", "staff_name",
	"appointment_date", "appointment_time",
	"salon_name", "salon_phone", "salon_address", "review_link",
}

// CheckTemplate returns the placeholder names in the template that no send
// path populates. The renderer would leave them verbatim in the outgoing
// message, so operators are warned at rule/campaign save time.
func CheckTemplate(template string) []string {
	known := make(map[string]bool, len(TemplateVariables))
	for _, v := range TemplateVariables {
		known[v] = true
	}

	unknown := []string{}
	seen := map[string]bool{}
	for _, m := range placeholderPattern.FindAllStringSubmatch(template, -1) {
		name := m[1]
		if !known[name] && !seen[name] {
			unknown = append(unknown, name)
			seen[name] = true
		}
	}
	return unknown
}
