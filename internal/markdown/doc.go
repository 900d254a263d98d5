// Package markdown turns the documentation dialect (block directives, inline
// shortcodes and language hints embedded in Markdown) into plain Markdown that
// a hover or terminal can display, and optionally renders it to HTML.
//
// The conversion is an ordered Pipeline of pure Rules. Every rule sees the
// whole output of the previous one, so later rules may match text produced
// earlier in the chain.
package markdown
