// Package markdown renders the small markdown dialect the blog articles use.
//
// Parsing is a single pass over lines with one piece of state, whether the
// scanner is inside a fenced code block. Each line is classified once, in
// priority order: fence boundary, code content, heading (levels 1-4),
// unordered item, ordered item, quote, blank spacer and paragraph. Inline
// markup is handled separately by Inline, which escapes first and then
// substitutes through placeholders.
package markdown

import (
	"regexp"
	"strings"
)

// Kind classifies a parsed line.
type Kind int

const (
	Heading Kind = iota
	ListItem
	OrderedItem
	Quote
	Spacer
	Paragraph
	CodeStart
	CodeLine
	CodeEnd
)

// Block is one classified source line.
type Block struct {
	Kind Kind
	// Level is the heading depth, 1 through 4.
	Level int
	// Number is the marker of an ordered item.
	Number string
	// Lang is the language tag of an opening fence.
	Lang string
	Text string
}

const fence = "```"

var orderedPattern = regexp.MustCompile(`^(\d+)\. (.+)$`)

// Parse classifies every line of src. A fence left open at the end of the
// input is closed implicitly.
func Parse(src string) []Block {
	lines := strings.Split(strings.ReplaceAll(src, "\r\n", "\n"), "\n")
	blocks := make([]Block, 0, len(lines))
	inCode := false

	for _, raw := range lines {
		raw = strings.TrimSuffix(raw, "\r")
		line := strings.TrimRight(raw, " \t")

		if strings.HasPrefix(line, fence) {
			if inCode {
				blocks = append(blocks, Block{Kind: CodeEnd})
			} else {
				blocks = append(blocks, Block{Kind: CodeStart, Lang: strings.TrimSpace(line[len(fence):])})
			}
			inCode = !inCode
			continue
		}
		if inCode {
			blocks = append(blocks, Block{Kind: CodeLine, Text: raw})
			continue
		}
		blocks = append(blocks, classify(line))
	}
	if inCode {
		blocks = append(blocks, Block{Kind: CodeEnd})
	}
	return blocks
}

func classify(line string) Block {
	for level := 1; level <= 4; level++ {
		marker := strings.Repeat("#", level) + " "
		if strings.HasPrefix(line, marker) {
			return Block{Kind: Heading, Level: level, Text: line[len(marker):]}
		}
	}
	switch {
	case strings.HasPrefix(line, "- "), strings.HasPrefix(line, "* "):
		return Block{Kind: ListItem, Text: line[2:]}
	case orderedPattern.MatchString(line):
		m := orderedPattern.FindStringSubmatch(line)
		return Block{Kind: OrderedItem, Number: m[1], Text: m[2]}
	case strings.HasPrefix(line, "> "):
		return Block{Kind: Quote, Text: line[2:]}
	case strings.TrimSpace(line) == "":
		return Block{Kind: Spacer}
	}
	return Block{Kind: Paragraph, Text: line}
}

// FirstHeading returns the text of the first heading in src, if any.
func FirstHeading(src string) (string, bool) {
	for _, b := range Parse(src) {
		if b.Kind == Heading {
			return b.Text, true
		}
	}
	return "", false
}
