package namegen

import (
	"regexp"
	"strings"
)

var (
	entrySplitRe    = regexp.MustCompile(`\d+\.\s+`)
	boldNameRe      = regexp.MustCompile(`\*\*([^*]+)\*\*`)
	quotedMeaningRe = regexp.MustCompile(`[—–-]\s*["']([^"']+)["']`)
	plainMeaningRe  = regexp.MustCompile(`[—–-]\s*([^(]+)`)
	languageRe      = regexp.MustCompile(`(?i)Language:\s*([^,)]+)`)
	genderRe        = regexp.MustCompile(`(?i)Gender:\s*([^,)]+)`)
)

// Header phrases the webhook emits around the actual list.
var skipPhrases = []string{"Suggested Baby Name", "Recommendation Note"}

// parseStructuredText extracts suggestions from prose shaped like a numbered
// Markdown list:
//
//	1. **Arjun** — 'bright, shining' (Language: Sanskrit, Gender: Boy)
//
// Entries without a bold-delimited name are dropped. An explicit Gender:
// label wins over keyword inference; the inference is a plain substring
// check, so "male" also matches inside "female"; the label path covers
// every well-formed payload.
func parseStructuredText(text string) []Suggestion {
	clean := strings.NewReplacer("👶", "", "✨", "").Replace(text)
	clean = strings.TrimSpace(clean)

	var out []Suggestion
	for _, entry := range entrySplitRe.Split(clean, -1) {
		entry = strings.TrimSpace(entry)
		if entry == "" || hasSkipPhrase(entry) {
			continue
		}

		nameMatch := boldNameRe.FindStringSubmatch(entry)
		if nameMatch == nil {
			continue
		}

		s := Suggestion{Name: strings.TrimSpace(nameMatch[1])}

		if m := quotedMeaningRe.FindStringSubmatch(entry); m != nil {
			s.Meaning = strings.TrimSpace(m[1])
		} else if m := plainMeaningRe.FindStringSubmatch(entry); m != nil {
			s.Meaning = strings.TrimSpace(m[1])
		}

		if m := languageRe.FindStringSubmatch(entry); m != nil {
			s.Origin = strings.TrimSpace(m[1])
		}

		if m := genderRe.FindStringSubmatch(entry); m != nil {
			s.Gender = strings.TrimSpace(m[1])
		} else {
			s.Gender = inferGender(entry)
		}

		out = append(out, s)
	}
	return out
}

func hasSkipPhrase(entry string) bool {
	for _, phrase := range skipPhrases {
		if strings.Contains(entry, phrase) {
			return true
		}
	}
	return false
}

func inferGender(entry string) string {
	lower := strings.ToLower(entry)
	switch {
	case strings.Contains(lower, "boy") || strings.Contains(lower, "male"):
		return "Boy"
	case strings.Contains(lower, "girl") || strings.Contains(lower, "female"):
		return "Girl"
	default:
		return ""
	}
}
