package vanilla

import (
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

var (
	chromePolicyOnce sync.Once
	chromePolicy     *bluemonday.Policy

	textPolicyOnce sync.Once
	textPolicy     *bluemonday.Policy
)

// sanitizeMarkup cleans operator-supplied title/intro markup with the UGC
// policy.
func sanitizeMarkup(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return ""
	}
	chromePolicyOnce.Do(func() {
		chromePolicy = bluemonday.UGCPolicy()
	})
	return strings.TrimSpace(chromePolicy.Sanitize(trimmed))
}

// plainText strips every tag, for contexts such as <title> that only take
// text.
func plainText(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return ""
	}
	textPolicyOnce.Do(func() {
		textPolicy = bluemonday.StrictPolicy()
	})
	return strings.TrimSpace(textPolicy.Sanitize(trimmed))
}
