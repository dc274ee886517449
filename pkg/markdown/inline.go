package markdown

import (
	"regexp"
	"strconv"
	"strings"
)

// InlineRenderer produces the output for each inline construct. Escape is
// applied to the whole line before any substitution runs, so the other
// methods receive already escaped text.
type InlineRenderer interface {
	Escape(s string) string
	Code(s string) string
	Bold(s string) string
	Italic(s string) string
	// Link renders a link. href is empty when the target was rejected.
	Link(text, href string) string
}

var (
	codePattern   = regexp.MustCompile("`([^`]+)`")
	boldPattern   = regexp.MustCompile(`\*\*([^*]+)\*\*`)
	italicPattern = regexp.MustCompile(`\*([^*]+)\*`)
	linkPattern   = regexp.MustCompile(`\[([^\]]+)\]\(([^)]+)\)`)

	slotPattern = regexp.MustCompile("\x00(\\d+)\x00")
)

const slotMark = "\x00"

// slots parks rendered fragments behind opaque tokens so later passes
// never match inside generated markup.
type slots struct {
	raw []string
	out []string
}

func (s *slots) park(raw, out string) string {
	s.raw = append(s.raw, raw)
	s.out = append(s.out, out)
	return slotMark + strconv.Itoa(len(s.out)-1) + slotMark
}

func (s *slots) expand(text string, from []string) string {
	for i := 0; i <= len(from) && strings.Contains(text, slotMark); i++ {
		text = slotPattern.ReplaceAllStringFunc(text, func(m string) string {
			idx, err := strconv.Atoi(m[1 : len(m)-1])
			if err != nil || idx >= len(from) {
				return ""
			}
			return from[idx]
		})
	}
	return text
}

// Inline renders inline code, bold, italic and links, in that order.
func Inline(text string, r InlineRenderer) string {
	text = r.Escape(strings.ReplaceAll(text, slotMark, ""))

	var s slots
	text = replace(codePattern, text, func(m []string) string {
		return s.park(m[0], r.Code(m[1]))
	})
	text = replace(boldPattern, text, func(m []string) string {
		return s.park(m[0], r.Bold(m[1]))
	})
	text = replace(italicPattern, text, func(m []string) string {
		return s.park(m[0], r.Italic(m[1]))
	})
	text = replace(linkPattern, text, func(m []string) string {
		href := s.expand(m[2], s.raw)
		if !SafeURL(href) {
			href = ""
		}
		return s.park(m[0], r.Link(m[1], href))
	})
	return s.expand(text, s.out)
}

func replace(re *regexp.Regexp, text string, fn func([]string) string) string {
	return re.ReplaceAllStringFunc(text, func(match string) string {
		return fn(re.FindStringSubmatch(match))
	})
}

// SafeURL accepts http, https and mailto targets plus relative references.
func SafeURL(u string) bool {
	u = strings.TrimSpace(u)
	if u == "" {
		return false
	}
	i := strings.IndexAny(u, ":/?#")
	if i < 0 || u[i] != ':' {
		return true
	}
	switch strings.ToLower(u[:i]) {
	case "http", "https", "mailto":
		return true
	}
	return false
}
