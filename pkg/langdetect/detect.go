// Package langdetect decides whether a file without a known extension is a
// JavaScript or TypeScript source file. It uses go-enry's interpreter and
// modeline detection, backed by a few module-syntax patterns.
package langdetect

import (
	"bytes"

	"github.com/go-enry/go-enry/v2"
)

// Detected languages.
const (
	LangJavaScript = "javascript"
	LangTypeScript = "typescript"
)

// sniffLimit bounds how much content pattern detection looks at.
const sniffLimit = 4096

// Detect returns LangJavaScript or LangTypeScript for script content, or ""
// when content is not recognizably either.
func Detect(content []byte) string {
	if len(content) == 0 {
		return ""
	}

	// Strategy 1: shebang (#!/usr/bin/env node).
	if lang, safe := enry.GetLanguageByShebang(content); safe {
		return normalize(lang)
	}

	// Strategy 2: editor modelines (vim: ft=javascript).
	if lang, safe := enry.GetLanguageByModeline(content); safe {
		return normalize(lang)
	}

	// Strategy 3: module syntax.
	return detectByPattern(content)
}

// IsScript reports whether content is JavaScript or TypeScript.
func IsScript(content []byte) bool {
	return Detect(content) != ""
}

func detectByPattern(content []byte) string {
	if len(content) > sniffLimit {
		content = content[:sniffLimit]
	}

	if detectTypeScript(content) {
		return LangTypeScript
	}
	if detectJavaScript(content) {
		return LangJavaScript
	}
	return ""
}

// detectJavaScript looks for ES module or CommonJS statements at the start
// of a line.
func detectJavaScript(content []byte) bool {
	for line := range bytes.Lines(content) {
		line = bytes.TrimSpace(line)
		switch {
		case bytes.HasPrefix(line, []byte("import ")) && bytes.Contains(line, []byte(" from ")):
			return true
		case bytes.HasPrefix(line, []byte("export default ")),
			bytes.HasPrefix(line, []byte("export const ")),
			bytes.HasPrefix(line, []byte("export function ")),
			bytes.HasPrefix(line, []byte("module.exports")):
			return true
		case bytes.Contains(line, []byte("= require(")):
			return true
		}
	}
	return false
}

// detectTypeScript looks for type-only syntax.
func detectTypeScript(content []byte) bool {
	for line := range bytes.Lines(content) {
		line = bytes.TrimSpace(line)
		if bytes.HasPrefix(line, []byte("import type ")) ||
			bytes.HasPrefix(line, []byte("export interface ")) ||
			bytes.HasPrefix(line, []byte("export type ")) ||
			bytes.HasPrefix(line, []byte("interface ")) {
			return true
		}
	}
	return false
}

// normalize maps go-enry language names onto the detected languages.
func normalize(lang string) string {
	switch lang {
	case "JavaScript":
		return LangJavaScript
	case "TypeScript", "TSX":
		return LangTypeScript
	default:
		return ""
	}
}
