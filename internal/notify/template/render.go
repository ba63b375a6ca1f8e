// internal/notify/template/render.go
package template

import (
	"strings"

	"ats-notifications/internal/models"
)

// ReplaceVariables substitutes every defined variable into the template,
// matching both {{key}} and {key} forms (global, case-sensitive).
// Placeholders whose keys are absent from vars remain literal in the output.
func ReplaceVariables(tmpl string, vars models.Variables) string {
	result := tmpl
	for k, v := range vars {
		result = strings.ReplaceAll(result, "{{"+k+"}}", v)
		result = strings.ReplaceAll(result, "{"+k+"}", v)
	}
	return result
}

// PersonalizeReceiver applies the per-recipient pass, replacing the
// receiver_name placeholder with the recipient's own name. Runs after the
// global pass so the other variables render only once per dispatch.
func PersonalizeReceiver(s, name string) string {
	if name == "" {
		name = "there"
	}
	s = strings.ReplaceAll(s, "{{receiver_name}}", name)
	s = strings.ReplaceAll(s, "{receiver_name}", name)
	return s
}
