package catalog

import (
	"regexp"
	"strings"
)

// boilerplateRe strips the lead-in phrases the configurator puts in front
// of anchor-derived names.
var boilerplateRe = regexp.MustCompile(`(?i)^(voir plus d['’]informations? sur|en savoir plus sur|see more information about|learn more about)\s*:?\s*`)

// CleanName normalizes a raw display name: whitespace collapse, then
// boilerplate prefix removal.
func CleanName(s string) string {
	s = strings.Join(strings.Fields(s), " ")
	s = boilerplateRe.ReplaceAllString(s, "")
	return strings.TrimSpace(s)
}
