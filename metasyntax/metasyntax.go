/* SPDX-License-Identifier: AGPL-3.0-only
 * Copyright (c) Benedict Schlueter
 */

// Package metasyntax parses the comment-embedded tag language used to mark
// solution and stub regions inside exercise source files.
package metasyntax

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// Kind classifies a parsed span.
type Kind int

// Span kinds. Plain text is anything outside a tagged region.
const (
	Plain Kind = iota
	Stub
	Solution
	SolutionFileMarker
	Hidden
)

func (k Kind) String() string {
	switch k {
	case Plain:
		return "plain"
	case Stub:
		return "stub"
	case Solution:
		return "solution"
	case SolutionFileMarker:
		return "solution-file-marker"
	case Hidden:
		return "hidden"
	default:
		return "unknown"
	}
}

// Span is one tagged region of the input. Concatenating the text of all
// spans that survive filtering, in order, yields the output file.
type Span struct {
	Kind Kind
	Text string
}

// UnbalancedTagError reports a malformed BEGIN/END pairing.
type UnbalancedTagError struct {
	Line    int
	Content string
}

func (e *UnbalancedTagError) Error() string {
	return fmt.Sprintf("unbalanced tag on line %d: %q", e.Line, e.Content)
}

const (
	beginSolution = "BEGIN SOLUTION"
	endSolution   = "END SOLUTION"
	beginHidden   = "BEGIN HIDDEN"
	endHidden     = "END HIDDEN"
	solutionFile  = "SOLUTION FILE"
	stubPrefix    = "STUB:"
)

// commentSyntax holds the comment delimiters of one source language.
type commentSyntax struct {
	line       string
	blockOpen  string
	blockClose string
}

// syntaxByExtension maps file extensions (without dot) to comment syntax.
// Extensions missing from the table have no recognized tags.
var syntaxByExtension = map[string]commentSyntax{}

func init() {
	cLike := commentSyntax{line: "//", blockOpen: "/*", blockClose: "*/"}
	for _, ext := range []string{"java", "c", "h", "cpp", "hpp", "cc", "cs", "js", "ts", "rs", "go", "scala", "kt", "swift", "css", "qml"} {
		syntaxByExtension[ext] = cLike
	}
	hash := commentSyntax{line: "#"}
	for _, ext := range []string{"py", "r", "rb", "sh", "pro", "properties", "yml", "yaml", "mk"} {
		syntaxByExtension[ext] = hash
	}
	markup := commentSyntax{blockOpen: "<!--", blockClose: "-->"}
	for _, ext := range []string{"xml", "html", "htm", "xhtml", "http", "qrc", "ui"} {
		syntaxByExtension[ext] = markup
	}
}

// parser is the per-file lexer state. A parser is used for a single pass
// over one input; parsing again requires a fresh parser.
type parser struct {
	syntax commentSyntax

	spans []Span
	cur   strings.Builder
	kind  Kind

	inBlock      Kind // Solution or Hidden while inside a region, Plain otherwise
	blockLine    int  // line number of the opening directive
	sawDirective bool

	lineNr int
}

// Parse lexes the input into an ordered span sequence. The extension
// (without leading dot) selects the comment syntax; unknown extensions
// yield the whole input as a single Plain span. Line terminators are
// preserved verbatim in span text.
func Parse(r io.Reader, extension string) ([]Span, error) {
	syntax, ok := syntaxByExtension[extension]
	if !ok {
		content, err := io.ReadAll(r)
		if err != nil {
			return nil, fmt.Errorf("reading input: %w", err)
		}
		if len(content) == 0 {
			return nil, nil
		}
		return []Span{{Kind: Plain, Text: string(content)}}, nil
	}

	p := &parser{syntax: syntax, inBlock: Plain}
	reader := bufio.NewReader(r)
	for {
		line, err := reader.ReadString('\n')
		if line != "" {
			p.lineNr++
			if perr := p.consume(line); perr != nil {
				return nil, perr
			}
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading input: %w", err)
		}
	}
	if p.inBlock != Plain {
		return nil, &UnbalancedTagError{Line: p.blockLine, Content: "unterminated " + strings.ToUpper(p.inBlock.String()) + " block"}
	}
	p.flush()
	return p.spans, nil
}

// consume processes one line including its terminator.
func (p *parser) consume(line string) error {
	trimmed := strings.TrimSpace(line)

	directive, isDirective := p.matchDirective(trimmed)
	if !isDirective {
		if p.inBlock != Plain {
			p.append(p.inBlock, line)
		} else {
			p.append(Plain, line)
		}
		return nil
	}

	switch {
	case directive == beginSolution:
		if p.inBlock != Plain {
			return &UnbalancedTagError{Line: p.lineNr, Content: trimmed}
		}
		p.sawDirective = true
		p.inBlock = Solution
		p.blockLine = p.lineNr
	case directive == endSolution:
		if p.inBlock != Solution {
			return &UnbalancedTagError{Line: p.lineNr, Content: trimmed}
		}
		p.flush()
		p.inBlock = Plain
	case directive == beginHidden:
		if p.inBlock != Plain {
			return &UnbalancedTagError{Line: p.lineNr, Content: trimmed}
		}
		p.sawDirective = true
		p.inBlock = Hidden
		p.blockLine = p.lineNr
	case directive == endHidden:
		if p.inBlock != Hidden {
			return &UnbalancedTagError{Line: p.lineNr, Content: trimmed}
		}
		p.flush()
		p.inBlock = Plain
	case directive == solutionFile:
		// Only honored as the first recognized directive; later
		// occurrences are ordinary text.
		if p.sawDirective {
			p.append(p.inBlockOr(Plain), line)
			return nil
		}
		p.sawDirective = true
		p.flush()
		p.spans = append(p.spans, Span{Kind: SolutionFileMarker})
	case strings.HasPrefix(directive, stubPrefix):
		if p.inBlock != Plain {
			p.append(p.inBlock, line)
			return nil
		}
		p.sawDirective = true
		replacement := strings.TrimSpace(strings.TrimPrefix(directive, stubPrefix))
		p.flush()
		p.spans = append(p.spans, Span{Kind: Stub, Text: indentOf(line) + replacement + terminatorOf(line)})
	}
	return nil
}

// matchDirective reports whether the trimmed line is a recognized tag
// directive and returns its canonical form (comment delimiters stripped).
func (p *parser) matchDirective(trimmed string) (string, bool) {
	var rest string
	switch {
	case p.syntax.line != "" && strings.HasPrefix(trimmed, p.syntax.line):
		rest = strings.TrimSpace(trimmed[len(p.syntax.line):])
	case p.syntax.blockOpen != "" && strings.HasPrefix(trimmed, p.syntax.blockOpen):
		rest = strings.TrimSpace(trimmed[len(p.syntax.blockOpen):])
		if p.syntax.blockClose != "" && strings.HasSuffix(rest, p.syntax.blockClose) {
			rest = strings.TrimSpace(strings.TrimSuffix(rest, p.syntax.blockClose))
		}
	default:
		return "", false
	}

	switch rest {
	case beginSolution, endSolution, beginHidden, endHidden, solutionFile:
		return rest, true
	}
	if strings.HasPrefix(rest, stubPrefix) {
		return rest, true
	}
	return "", false
}

func (p *parser) inBlockOr(fallback Kind) Kind {
	if p.inBlock != Plain {
		return p.inBlock
	}
	return fallback
}

// append adds line text to the current span, starting a new span when the
// kind changes.
func (p *parser) append(kind Kind, text string) {
	if p.kind != kind {
		p.flush()
		p.kind = kind
	}
	p.cur.WriteString(text)
}

func (p *parser) flush() {
	if p.cur.Len() == 0 {
		return
	}
	p.spans = append(p.spans, Span{Kind: p.kind, Text: p.cur.String()})
	p.cur.Reset()
	p.kind = Plain
}

func indentOf(line string) string {
	return line[:len(line)-len(strings.TrimLeft(line, " \t"))]
}

func terminatorOf(line string) string {
	if strings.HasSuffix(line, "\r\n") {
		return "\r\n"
	}
	if strings.HasSuffix(line, "\n") {
		return "\n"
	}
	return ""
}
