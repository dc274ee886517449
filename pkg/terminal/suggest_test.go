package terminal

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func values(in []Suggestion) []string {
	out := make([]string, len(in))
	for i, s := range in {
		out[i] = s.Value
	}
	return out
}

func TestSuggest(t *testing.T) {
	s := New(&fakeLoader{}, DefaultOptions())

	tests := map[string][]string{
		"":              nil,
		"   ":           nil,
		"cat ":          nil,
		"he":            {"help", "theme"},
		"C":             {"cd", "cat", "articles", "docs", "clear", "contact"},
		"HIST":          {"history"},
		"cd blen":       {"cd Blender", "cd Blender基础.md"},
		"cat 数学":        {"cat 数学块.md"},
		"ls obs":        {"ls Obsidian"},
		"cat\u3000Data": {"cat\u3000Dataview.md"},
		"zzz":           nil,
	}
	for in, want := range tests {
		assert.Equal(t, want, nilIfEmpty(values(s.Suggest(in))), "input %q", in)
	}
}

func TestSuggestOrderAndLimit(t *testing.T) {
	opts := DefaultOptions()
	opts.SuggestionLimit = 100
	s := New(&fakeLoader{}, opts)

	got := s.Suggest("d")
	var texts []string
	for _, sg := range got {
		texts = append(texts, sg.Text)
	}
	assert.Equal(t, []string{
		"cd", "pwd", "find", "docs", "date",
		"Document", "Blender", "Obsidian",
		"Blender基础.md", "Dataview.md", "markdown基础语法.md",
	}, texts)
	assert.Equal(t, SuggestCommand, got[0].Kind)
	assert.Equal(t, "change directory", got[0].Description)
	assert.Equal(t, SuggestDirectory, got[5].Kind)
	assert.Equal(t, SuggestFile, got[10].Kind)

	opts.SuggestionLimit = 0
	assert.Empty(t, New(&fakeLoader{}, opts).Suggest("d"))
}

func nilIfEmpty(s []string) []string {
	if len(s) == 0 {
		return nil
	}
	return s
}

func TestZeroOptionsDisableSuggestions(t *testing.T) {
	s := New(&fakeLoader{}, Options{})
	assert.Empty(t, s.Suggest("he"))
	assert.Equal(t, 0, s.Options().SuggestionLimit)
	assert.Equal(t, "AFulcrum", s.Options().User)
}
