package terminal

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// SuggestionKind tells what a suggestion completes to.
type SuggestionKind string

const (
	SuggestCommand   SuggestionKind = "command"
	SuggestDirectory SuggestionKind = "directory"
	SuggestFile      SuggestionKind = "file"
)

// Suggestion is one completion candidate. Value is the whole input line
// with the last word replaced by Text.
type Suggestion struct {
	Kind        SuggestionKind
	Text        string
	Description string
	Value       string
}

// Suggest completes the last word of input. Commands come first, then
// directories, then files, each in table order, and the list stops at
// SuggestionLimit.
func (s *Session) Suggest(input string) []Suggestion {
	limit := s.opts.SuggestionLimit
	if limit == 0 || strings.TrimSpace(input) == "" {
		return nil
	}
	if r := []rune(input); unicode.IsSpace(r[len(r)-1]) {
		return nil
	}
	cut := 0
	if i := strings.LastIndexFunc(input, unicode.IsSpace); i >= 0 {
		_, size := utf8.DecodeRuneInString(input[i:])
		cut = i + size
	}
	head, word := input[:cut], input[cut:]
	want := fold(word)

	var out []Suggestion
	add := func(kind SuggestionKind, text, desc string) bool {
		if !strings.Contains(fold(text), want) {
			return true
		}
		out = append(out, Suggestion{Kind: kind, Text: text, Description: desc, Value: head + text})
		return len(out) < limit
	}

	for _, c := range commands {
		if !add(SuggestCommand, c.Name, c.Description) {
			return out
		}
	}
	for _, d := range s.tree.Dirs() {
		if !add(SuggestDirectory, d, "") {
			return out
		}
	}
	for _, f := range s.tree.FileNames() {
		if !add(SuggestFile, f, "") {
			return out
		}
	}
	return out
}
