package namegen

import (
	"encoding/json"
	"regexp"
	"strings"
)

// The webhook is free-form: depending on the upstream workflow the body can
// be a JSON array, a single object, JSON wrapped in prose or code fences, an
// {"output": ...} envelope, or plain numbered text. Normalize coerces any of
// those into an ordered suggestion list. It is pure and total: unusable input
// yields an empty slice, never an error.
func Normalize(raw []byte) []Suggestion {
	text := strings.TrimSpace(string(raw))
	if text == "" {
		return nil
	}

	var v any
	if err := json.Unmarshal([]byte(text), &v); err != nil {
		return normalizeText(text, maxDepth)
	}
	return normalizeValue(v, maxDepth)
}

// maxDepth bounds recursion through nested wrappers so the function stays
// total on adversarial input.
const maxDepth = 8

type matcher func(v any, depth int) ([]Suggestion, bool)

// Matchers are tried in priority order; the first one that recognizes the
// shape wins. Assigned in init to break the initialization cycle through
// normalizeValue.
var matchers []matcher

func init() {
	matchers = []matcher{
		matchEmpty,
		matchString,
		matchOutputWrapper,
		matchArray,
		matchKeyedArray,
		matchSingleObject,
	}
}

func normalizeValue(v any, depth int) []Suggestion {
	if depth <= 0 {
		return nil
	}
	for _, match := range matchers {
		if out, ok := match(v, depth); ok {
			return out
		}
	}
	return nil
}

func matchEmpty(v any, _ int) ([]Suggestion, bool) {
	if v == nil {
		return nil, true
	}
	return nil, false
}

func matchString(v any, depth int) ([]Suggestion, bool) {
	s, ok := v.(string)
	if !ok {
		return nil, false
	}
	return normalizeText(s, depth-1), true
}

// matchOutputWrapper unwraps the {"output": ...} envelope commonly produced
// by workflow engines.
func matchOutputWrapper(v any, depth int) ([]Suggestion, bool) {
	obj, ok := v.(map[string]any)
	if !ok {
		return nil, false
	}
	inner, ok := obj["output"]
	if !ok {
		return nil, false
	}
	return normalizeValue(inner, depth-1), true
}

func matchArray(v any, _ int) ([]Suggestion, bool) {
	arr, ok := v.([]any)
	if !ok {
		return nil, false
	}
	return coerceItems(arr), true
}

// arrayKeys is the priority-ordered list of keys scanned for a nested
// suggestion array.
var arrayKeys = []string{"names", "data", "results", "items", "list", "babyNames", "baby_names"}

func matchKeyedArray(v any, _ int) ([]Suggestion, bool) {
	obj, ok := v.(map[string]any)
	if !ok {
		return nil, false
	}
	for _, key := range arrayKeys {
		if arr, ok := obj[key].([]any); ok {
			return coerceItems(arr), true
		}
	}
	return nil, false
}

func matchSingleObject(v any, _ int) ([]Suggestion, bool) {
	obj, ok := v.(map[string]any)
	if !ok {
		return nil, false
	}
	if s, ok := coerceItem(obj); ok {
		return []Suggestion{s}, true
	}
	return nil, true
}

func coerceItems(arr []any) []Suggestion {
	out := make([]Suggestion, 0, len(arr))
	for _, item := range arr {
		if s, ok := coerceItem(item); ok {
			out = append(out, s)
		}
	}
	return out
}

// Alias chains for the suggestion fields. A name-bearing key is mandatory;
// everything else defaults to absent.
var (
	nameKeys    = []string{"name", "Name", "babyName", "baby_name", "fullName", "full_name", "title", "value"}
	meaningKeys = []string{"meaning", "Meaning", "description", "desc"}
	originKeys  = []string{"origin", "Origin", "language", "Language"}
	genderKeys  = []string{"gender", "Gender", "sex"}
)

func coerceItem(v any) (Suggestion, bool) {
	switch item := v.(type) {
	case string:
		name := strings.TrimSpace(item)
		if name == "" {
			return Suggestion{}, false
		}
		return Suggestion{Name: name}, true
	case map[string]any:
		name := firstString(item, nameKeys)
		if name == "" {
			return Suggestion{}, false
		}
		return Suggestion{
			Name:    name,
			Meaning: firstString(item, meaningKeys),
			Origin:  firstString(item, originKeys),
			Gender:  firstString(item, genderKeys),
		}, true
	default:
		return Suggestion{}, false
	}
}

func firstString(obj map[string]any, keys []string) string {
	for _, key := range keys {
		if s, ok := obj[key].(string); ok {
			if trimmed := strings.TrimSpace(s); trimmed != "" {
				return trimmed
			}
		}
	}
	return ""
}

// normalizeText handles payloads that arrived as text: JSON hidden behind
// Markdown code fences, then the numbered-list parser, then a bare name.
func normalizeText(s string, depth int) []Suggestion {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}

	candidate := stripCodeFences(s)
	var v any
	if err := json.Unmarshal([]byte(candidate), &v); err == nil {
		return normalizeValue(v, depth-1)
	}

	if out := parseStructuredText(s); len(out) > 0 {
		return out
	}

	if bareNameRe.MatchString(s) {
		return []Suggestion{{Name: s}}
	}
	return nil
}

// A short title-cased line with no list structure is taken as a bare name.
var bareNameRe = regexp.MustCompile(`^[A-Z][\p{L}'’-]*( [A-Z][\p{L}'’-]*){0,2}$`)

var (
	taggedFenceRe = regexp.MustCompile("(?s)```(?:json|js|ts|txt)\\s*\\n?(.*?)```")
	bareFenceRe   = regexp.MustCompile("(?s)```\\s*\\n?(.*?)```")
)

func stripCodeFences(s string) string {
	if m := taggedFenceRe.FindStringSubmatch(s); m != nil {
		return strings.TrimSpace(m[1])
	}
	if m := bareFenceRe.FindStringSubmatch(s); m != nil {
		return strings.TrimSpace(m[1])
	}
	return strings.TrimSpace(strings.Trim(s, "`"))
}
