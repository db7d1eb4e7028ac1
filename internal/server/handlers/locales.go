package handlers

import (
	"net/http"
	"strings"

	"golang.org/x/text/language"
)

// localesFromRequest parses the Accept-Language header into a priority list of
// locale strings and appends the default language as a fallback if absent.
func localesFromRequest(r *http.Request, defaultLanguage string) []string {
	var locales []string
	if accept := r.Header.Get("Accept-Language"); accept != "" {
		if tags, _, err := language.ParseAcceptLanguage(accept); err == nil {
			for _, tag := range tags {
				locales = append(locales, tag.String())
			}
		}
	}

	if defaultLanguage != "" && !containsFold(locales, defaultLanguage) {
		locales = append(locales, defaultLanguage)
	}
	return locales
}

func containsFold(list []string, want string) bool {
	for _, v := range list {
		if strings.EqualFold(v, want) {
			return true
		}
	}
	return false
}
