package ui

import (
	"fmt"
	"io"
	"strings"

	"github.com/tdewolff/parse/v2"
	"github.com/tdewolff/parse/v2/css"
)

// ParseCSS parses a stylesheet. Selectors are .class, #id or a bare node type, optionally grouped
// with commas; anything else (combinators, pseudo-classes) is skipped along with its block, as are
// @rules. Later rules override earlier ones. Malformed declarations are dropped and parsing continues;
// the first parse error is returned alongside everything that did parse.
func ParseCSS(content string) (*Stylesheet, error) {
	sheet := &Stylesheet{}
	p := css.NewParser(parse.NewInputString(content), false)

	var (
		firstErr  error
		atDepth   int
		selectors []string
		props     map[string]string
	)
	for {
		gt, _, data := p.Next()
		switch gt {
		case css.ErrorGrammar:
			if p.HasParseError() {
				if firstErr == nil {
					firstErr = fmt.Errorf("ui: css: %w", p.Err())
				}
				continue
			}
			if err := p.Err(); err != io.EOF {
				return sheet, fmt.Errorf("ui: css: %w", err)
			}
			return sheet, firstErr
		case css.BeginAtRuleGrammar:
			atDepth++
		case css.EndAtRuleGrammar:
			atDepth--
		case css.BeginRulesetGrammar:
			selectors = nil
			if atDepth == 0 {
				selectors = splitSelectors(joinTokens(p.Values()))
			}
			props = make(map[string]string)
		case css.DeclarationGrammar:
			if props != nil {
				props[string(data)] = joinTokens(p.Values())
			}
		case css.EndRulesetGrammar:
			for _, sel := range selectors {
				sheet.Rules = append(sheet.Rules, Rule{Selector: sel, Props: props})
			}
			selectors, props = nil, nil
		}
	}
}

func joinTokens(tokens []css.Token) string {
	var b strings.Builder
	for _, t := range tokens {
		b.Write(t.Data)
	}
	return strings.TrimSpace(b.String())
}

// splitSelectors returns the supported selectors in a comma-separated group.
func splitSelectors(group string) []string {
	var out []string
	for _, sel := range strings.Split(group, ",") {
		sel = strings.TrimSpace(sel)
		if validSelector(sel) {
			out = append(out, sel)
		}
	}
	return out
}

func validSelector(sel string) bool {
	name := sel
	if strings.HasPrefix(sel, ".") || strings.HasPrefix(sel, "#") {
		name = sel[1:]
	}
	if name == "" {
		return false
	}
	for _, c := range name {
		if !(c == '-' || c == '_' || c >= '0' && c <= '9' || c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z') {
			return false
		}
	}
	return true
}
