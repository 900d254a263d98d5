package markdown

import (
	"regexp"
	"strings"
)

// Rule rewrites a complete document body.
type Rule func(string) string

// Pipeline applies its rules in order.
type Pipeline []Rule

// maxPasses bounds how often Apply reruns the chain looking for a fixed point.
const maxPasses = 8

// Apply runs every rule over the text, each on the previous rule's output, and
// repeats the chain until a pass leaves the text unchanged. A rule can expose
// input for an earlier one (removing a fence line, stripping a hint), so a
// single pass is not enough to make Apply(Apply(x)) == Apply(x).
func (p Pipeline) Apply(text string) string {
	for range maxPasses {
		next := p.pass(text)
		if next == text {
			break
		}
		text = next
	}
	return text
}

func (p Pipeline) pass(text string) string {
	for _, rule := range p {
		if rule == nil {
			continue
		}
		text = rule(text)
	}
	return text
}

// DefaultPipeline returns the rule chain used for documentation bodies.
func DefaultPipeline() Pipeline {
	return Pipeline{
		NormalizeReturns,
		ExpandBlockDirectives,
		ExpandReadMore,
		ExpandKeyboard,
		StripLanguageHints,
		StripFences,
	}
}

// Rewrite applies DefaultPipeline to text.
func Rewrite(text string) string {
	return DefaultPipeline().Apply(text)
}

// Icon tokens per directive kind.
const (
	IconWarning  = "$(warning)"
	IconCaution  = "$(flame)"
	IconTip      = "$(lightbulb)"
	IconNote     = "$(info)"
	IconReadMore = "$(link-external)"
	IconNavigate = "$(compass)"
	IconSuccess  = "$(pass)"
)

var directiveIcons = map[string]string{
	"warning":   IconWarning,
	"caution":   IconCaution,
	"tip":       IconTip,
	"note":      IconNote,
	"read-more": IconReadMore,
	"navigate":  IconNavigate,
	"success":   IconSuccess,
}

// IconFor returns the icon token for a directive kind, or "" when the kind is
// unknown.
func IconFor(kind string) string {
	return directiveIcons[strings.ToLower(strings.TrimSpace(kind))]
}

const readMoreLabel = "Read more"

var (
	returnsPattern   = regexp.MustCompile(`(?im)(?:^|<br>)\s*Returns?[ \t]+\w`)
	directiveOpener  = regexp.MustCompile(`^::([A-Za-z][\w-]*)(?:\{([^}]*)\})?\s*$`)
	targetProperty   = regexp.MustCompile(`\bto="([^"]*)"`)
	readMorePattern  = regexp.MustCompile(`::read-more(?:\{([^}]*)\})?`)
	keyboardPattern  = regexp.MustCompile(`:kbd\{\s*value="([^"]*)"\s*\}`)
	metaKeyPattern   = regexp.MustCompile(`(?i)\bmeta\b`)
	languageHint     = regexp.MustCompile(`\{\s*lang=[^}]*\}`)
	bareFencePattern = regexp.MustCompile(`(?m)^[ \t]*::[ \t]*\r?(?:\n|$)`)
)

// NormalizeReturns turns a "Returns ..." sentence that starts a line (or
// follows a <br>) into its own labelled paragraph:
//
//	Returns the user id  =>  \n\nReturns:  \n&nbsp;&nbsp;The user id
//
// Only spaces or tabs may separate the keyword from the word, so a bare
// "Returns" line never swallows the next line. The output has no whitespace
// between the label and the next word, so a second pass leaves it alone.
func NormalizeReturns(text string) string {
	return returnsPattern.ReplaceAllStringFunc(text, func(match string) string {
		first := match[len(match)-1:]
		return "\n\nReturns:  \n&nbsp;&nbsp;" + strings.ToUpper(first)
	})
}

// ExpandBlockDirectives replaces fenced blocks
//
//	::kind{to="/target"}
//	first line
//	second line
//	::
//
// with a header line carrying the kind's icon and an optional read-more link,
// followed by the interior lines as bullets. Blank interior lines are
// dropped. Lines already starting with "- " and indented lines following a
// bullet are kept as they are. An opener without a closing "::" line, or one
// interrupted by another directive opener, is left untouched.
func ExpandBlockDirectives(text string) string {
	lines := strings.Split(text, "\n")
	out := make([]string, 0, len(lines))

	for i := 0; i < len(lines); i++ {
		match := directiveOpener.FindStringSubmatch(strings.TrimRight(lines[i], "\r"))
		if match == nil || match[1] == "read-more" {
			out = append(out, lines[i])
			continue
		}
		end := findFenceClose(lines, i+1)
		if end < 0 {
			out = append(out, lines[i])
			continue
		}
		out = append(out, expandBlock(match[1], match[2], lines[i+1:end])...)
		i = end
	}
	return strings.Join(out, "\n")
}

func findFenceClose(lines []string, from int) int {
	for j := from; j < len(lines); j++ {
		if strings.Trim(lines[j], " \t\r") == "::" {
			return j
		}
		line := strings.TrimSpace(lines[j])
		if match := directiveOpener.FindStringSubmatch(line); match != nil && match[1] != "read-more" {
			return -1
		}
	}
	return -1
}

func expandBlock(kind, props string, interior []string) []string {
	header := IconFor(kind)
	if target := targetOf(props); target != "" {
		header = strings.TrimSpace(header + " " + readMoreLink(target))
	}

	out := make([]string, 0, len(interior)+1)
	if header != "" {
		out = append(out, header)
	}

	inBullet := false
	for _, raw := range interior {
		line := strings.TrimRight(raw, "\r")
		trimmed := strings.TrimSpace(line)
		switch {
		case trimmed == "":
			continue
		case strings.HasPrefix(trimmed, "- "):
			out = append(out, line)
			inBullet = true
		case inBullet && line != strings.TrimLeft(line, " \t"):
			out = append(out, line)
		default:
			out = append(out, "- "+trimmed)
			inBullet = true
		}
	}
	return out
}

// ExpandReadMore replaces a bare ::read-more{to="..."} shortcode with the
// read-more icon and a link. Without a target only the icon remains.
func ExpandReadMore(text string) string {
	return readMorePattern.ReplaceAllStringFunc(text, func(match string) string {
		sub := readMorePattern.FindStringSubmatch(match)
		target := ""
		if len(sub) > 1 {
			target = targetOf(sub[1])
		}
		if target == "" {
			return IconReadMore
		}
		return IconReadMore + " " + readMoreLink(target)
	})
}

// ExpandKeyboard replaces :kbd{value="..."} with a code span holding the
// upper-cased key name. "meta" is shown as CTRL.
func ExpandKeyboard(text string) string {
	return keyboardPattern.ReplaceAllStringFunc(text, func(match string) string {
		sub := keyboardPattern.FindStringSubmatch(match)
		key := metaKeyPattern.ReplaceAllString(strings.TrimSpace(sub[1]), "ctrl")
		return "`" + strings.ToUpper(key) + "`"
	})
}

// StripLanguageHints removes {lang=...} annotations left after inline code.
func StripLanguageHints(text string) string {
	return languageHint.ReplaceAllString(text, "")
}

// StripFences drops lines that hold nothing but a "::" marker.
func StripFences(text string) string {
	return bareFencePattern.ReplaceAllString(text, "")
}

func targetOf(props string) string {
	match := targetProperty.FindStringSubmatch(props)
	if match == nil {
		return ""
	}
	return strings.TrimSpace(match[1])
}

func readMoreLink(target string) string {
	return "[" + readMoreLabel + "](" + target + ")"
}
