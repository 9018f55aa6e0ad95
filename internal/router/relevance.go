package router

import "strings"

// tokenize splits text into lowercase terms, filtering out common stopwords
// and short tokens.
func tokenize(text string) []string {
	text = strings.ToLower(text)
	tokens := strings.FieldsFunc(text, func(r rune) bool {
		return !isAlphanumeric(r)
	})

	filtered := make([]string, 0, len(tokens))
	for _, token := range tokens {
		if !isStopword(token) && len(token) > 2 {
			filtered = append(filtered, token)
		}
	}
	return filtered
}

// isAlphanumeric returns true if the rune is alphanumeric or underscore.
func isAlphanumeric(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') ||
		(r >= '0' && r <= '9') || r == '_'
}

// isStopword returns true if the token is a common English stopword.
func isStopword(token string) bool {
	stopwords := map[string]bool{
		"the": true, "a": true, "an": true, "and": true, "or": true, "but": true,
		"in": true, "on": true, "at": true, "to": true, "for": true, "of": true,
		"with": true, "by": true, "from": true, "as": true, "is": true, "was": true,
		"are": true, "be": true, "been": true, "being": true, "have": true, "has": true,
		"had": true, "do": true, "does": true, "did": true, "will": true, "would": true,
		"could": true, "should": true, "may": true, "might": true, "can": true, "this": true,
		"that": true, "these": true, "those": true, "i": true, "you": true, "he": true,
		"she": true, "it": true, "we": true, "they": true, "what": true, "which": true,
		"who": true, "when": true, "where": true, "why": true, "how": true,
	}
	return stopwords[token]
}

// termOverlap returns the ratio of unique query terms found in the
// candidate tokens, in [0.0, 1.0].
func termOverlap(queryTokens, candidateTokens []string) float64 {
	if len(queryTokens) == 0 {
		return 0.0
	}

	candidateSet := make(map[string]bool, len(candidateTokens))
	for _, token := range candidateTokens {
		candidateSet[token] = true
	}

	matchCount := 0
	counted := make(map[string]bool)
	for _, token := range queryTokens {
		if candidateSet[token] && !counted[token] {
			matchCount++
			counted[token] = true
		}
	}

	// Score against unique query terms so repeated words don't dilute.
	unique := 0
	seen := make(map[string]bool)
	for _, token := range queryTokens {
		if !seen[token] {
			unique++
			seen[token] = true
		}
	}

	return float64(matchCount) / float64(unique)
}
