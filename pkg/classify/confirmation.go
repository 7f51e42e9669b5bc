package classify

import (
	"regexp"
	"strings"
)

// Labeled patterns run before the generic token pattern so that an
// explicit "confirmation number is X" can never be shadowed by some
// other conf/ref-prefixed token earlier in the text.
var labeledConfirmationPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)(?:confirmation|reference|registration)\s+(?:number|code|id)\s*(?:is|:|#)?\s*([A-Za-z0-9][A-Za-z0-9-]{3,})`),
	regexp.MustCompile(`(?i)(?:confirmation|reference|registration)\s*[:#]\s*([A-Za-z0-9][A-Za-z0-9-]{3,})`),
}

// genericConfirmationPattern matches bare conf/ref/reg-prefixed tokens.
// Requiring a digit keeps ordinary words (refund, regular) out.
var genericConfirmationPattern = regexp.MustCompile(`(?i)\b((?:conf|ref|reg)[a-z0-9]*[0-9][a-z0-9]*)\b`)

const minGenericTokenLength = 6

// ExtractConfirmationNumber pulls a confirmation code out of free text,
// returning "" when none is present. Labeled patterns win over the
// generic prefixed-token pattern regardless of position in the text.
func ExtractConfirmationNumber(text string) string {
	for _, pattern := range labeledConfirmationPatterns {
		if m := pattern.FindStringSubmatch(text); m != nil {
			return strings.TrimRight(m[1], "-")
		}
	}

	for _, m := range genericConfirmationPattern.FindAllStringSubmatch(text, -1) {
		if len(m[1]) >= minGenericTokenLength {
			return m[1]
		}
	}

	return ""
}
