package utils

import "strings"

// RedactCredential replaces every occurrence of credential in s with "***".
// Transport errors embed the full request URL, which carries the API key as
// a query parameter, so anything derived from them must pass through here
// before being logged.
func RedactCredential(s, credential string) string {
	if credential == "" {
		return s
	}
	return strings.ReplaceAll(s, credential, "***")
}
