// Package lookup maps method identifiers and their category annotations to
// mirrored file names and browsable documentation URLs.
package lookup

import (
	"net/url"
	"path"
	"regexp"
	"strings"
)

var (
	capitalPattern     = regexp.MustCompile(`\s*([A-Z])`)
	leadingSeparator   = regexp.MustCompile(`(^|/)-`)
	annotationPattern  = regexp.MustCompile(`new\s+string\[\]\s*\{([^}]+)\}`)
	annotationTokenPat = regexp.MustCompile(`"([\w\s]*?)"`)
)

// ToDocCasing converts an identifier or slash separated path into the
// lower-case, dash separated form used by the documentation tree:
//
//	GetUser        => get-user
//	Core/Arguments => core/arguments
//	Twitch Chat    => twitch-chat
func ToDocCasing(s string) string {
	dashed := capitalPattern.ReplaceAllStringFunc(s, func(match string) string {
		return "-" + strings.ToLower(strings.TrimSpace(match))
	})
	return leadingSeparator.ReplaceAllString(dashed, "$1")
}

// SearchPattern returns the glob that finds a document for fileName at any
// depth of the methods directory.
func SearchPattern(fileName string) string {
	return "**/" + fileName + ".{yml,md}"
}

// ParseCategoryAnnotation extracts the category tokens from an annotation
// line such as
//
//	[Category(new string[] { "Core", "Arguments" })]
//
// It returns nil when the line holds no string array.
func ParseCategoryAnnotation(line string) []string {
	match := annotationPattern.FindStringSubmatch(line)
	if match == nil {
		return nil
	}
	var tokens []string
	for _, token := range annotationTokenPat.FindAllStringSubmatch(match[1], -1) {
		tokens = append(tokens, token[1])
	}
	return tokens
}

// ResolveBreadcrumbPath joins the category tokens into a doc-cased URL path.
// Some upstream pages repeat their last category in the file name
// ("arguments" + "arguments-get-arg"); when the file name starts with the
// last path segment followed by a dash, that prefix is dropped and irregular
// is reported. A file name equal to the last segment ("arguments" under
// "arguments"), or the bare segment plus a dash, is a page of its own and is
// returned unchanged.
func ResolveBreadcrumbPath(tokens []string, fileName string) (urlPath, resolvedFile string, irregular bool) {
	urlPath = ToDocCasing(strings.Join(tokens, "/"))
	resolvedFile = fileName

	last := path.Base(urlPath)
	if urlPath == "" || last == "." || last == "/" {
		return urlPath, resolvedFile, false
	}
	prefix := strings.ToLower(last) + "-"
	if len(fileName) > len(prefix) && strings.HasPrefix(strings.ToLower(fileName), prefix) {
		return urlPath, fileName[len(prefix):], true
	}
	return urlPath, resolvedFile, false
}

// DocLink builds the browsable URL for a method page.
func DocLink(baseURL, prefix string, tokens []string, fileName string) (link string, irregular bool, err error) {
	urlPath, file, irregular := ResolveBreadcrumbPath(tokens, fileName)
	elems := make([]string, 0, 3)
	for _, part := range []string{prefix, urlPath, file} {
		if trimmed := strings.Trim(part, "/"); trimmed != "" {
			elems = append(elems, trimmed)
		}
	}
	link, err = url.JoinPath(baseURL, elems...)
	if err != nil {
		return "", false, err
	}
	return link, irregular, nil
}
