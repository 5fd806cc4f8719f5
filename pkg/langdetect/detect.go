// Package langdetect provides language detection for code content.
// It uses go-enry to detect programming languages from code snippets,
// primarily for annotating fenced code blocks that omit a language tag.
package langdetect

import (
	"bytes"
	"strings"

	"github.com/go-enry/go-enry/v2"
)

// Language constants for common detected languages.
const (
	langGo   = "go"
	langJSON = "json"
	langYAML = "yaml"
	langText = "text"
	langBash = "bash"
)

// classifierCandidates narrows enry's classifier to languages that commonly
// appear in markdown code blocks.
//
//nolint:gochecknoglobals // Read-only lookup table.
var classifierCandidates = []string{
	"Go", "Python", "Shell", "JavaScript", "TypeScript",
	"Ruby", "Rust", "Java", "C", "C++", "SQL", "JSON",
	"YAML", "HTML", "CSS", "Markdown", "Dockerfile",
}

// Detect returns the detected language for code content.
// Returns "text" if detection fails or confidence is low.
func Detect(content []byte) string {
	if len(content) == 0 {
		return langText
	}

	// Shebang first: most reliable.
	if lang, safe := enry.GetLanguageByShebang(content); safe {
		return normalize(lang)
	}

	// Cheap structural checks before the classifier.
	if lang := detectByPattern(content); lang != "" {
		return lang
	}

	// Only trust the classifier when it is confident.
	if lang, safe := enry.GetLanguageByClassifier(content, classifierCandidates); safe && lang != "" {
		return normalize(lang)
	}

	return langText
}

// FenceLanguage returns the language for a fenced code block's raw text. An
// explicit info string on the opening fence wins; otherwise the body content
// is detected.
func FenceLanguage(fenceText string) string {
	first, body, _ := strings.Cut(fenceText, "\n")

	info := strings.TrimLeft(strings.TrimSpace(first), "`~")
	info = strings.TrimSpace(info)
	if info != "" {
		// The info string may carry attributes after the language word.
		lang, _, _ := strings.Cut(info, " ")
		return strings.ToLower(lang)
	}

	// Strip the closing fence line before detection.
	if idx := strings.LastIndex(body, "\n"); idx >= 0 {
		closing := strings.TrimSpace(body[idx+1:])
		if closing != "" && strings.Trim(closing, "`~") == "" {
			body = body[:idx]
		}
	}

	return Detect([]byte(body))
}

// detectByPattern checks for patterns that are highly indicative on their own.
func detectByPattern(content []byte) string {
	trimmed := bytes.TrimSpace(content)

	if bytes.HasPrefix(trimmed, []byte("package ")) {
		return langGo
	}

	if (bytes.HasPrefix(trimmed, []byte("{")) || bytes.HasPrefix(trimmed, []byte("["))) &&
		bytes.Contains(trimmed, []byte(`"`)) {
		return langJSON
	}

	if lang := detectYAML(content); lang != "" {
		return lang
	}

	return ""
}

// detectYAML checks for YAML patterns by counting key: value pairs.
func detectYAML(content []byte) string {
	lines := bytes.Split(content, []byte("\n"))
	yamlKeyCount := 0

	for _, line := range lines {
		line = bytes.TrimSpace(line)
		if len(line) == 0 || bytes.HasPrefix(line, []byte("#")) {
			continue
		}
		// Simple key: value, excluding lines that look like code.
		if bytes.Contains(line, []byte(": ")) {
			if !bytes.Contains(line, []byte("(")) &&
				!bytes.Contains(line, []byte("{")) &&
				!bytes.HasPrefix(line, []byte(`"`)) {
				yamlKeyCount++
			}
		}
		// YAML list item at root level.
		if bytes.HasPrefix(line, []byte("- ")) {
			yamlKeyCount++
		}
	}

	if yamlKeyCount >= 2 {
		return langYAML
	}
	return ""
}

// normalize converts go-enry language names to fence tags.
func normalize(lang string) string {
	if lang == "Shell" {
		return langBash
	}
	return strings.ToLower(lang)
}
