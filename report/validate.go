package report

import "regexp"

// Accepted target shapes: a username, a public t.me link, or a private invite
// link. Patterns are anchored; anything else is rejected without any network
// lookup.
var targetPatterns = []*regexp.Regexp{
	regexp.MustCompile(`^@\w{5,32}$`),
	regexp.MustCompile(`^https?://t\.me/[\w+]+/?$`),
	regexp.MustCompile(`^https?://t\.me/\+\w+$`),
}

// ValidTarget reports whether target is a syntactically valid username or
// Telegram link.
func ValidTarget(target string) bool {
	for _, re := range targetPatterns {
		if re.MatchString(target) {
			return true
		}
	}
	return false
}
