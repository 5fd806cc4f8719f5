package langdetect_test

import (
	"testing"

	"github.com/yaklabco/mdtree/pkg/langdetect"
)

func TestDetect(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		content  string
		expected string
	}{
		{
			name:     "shebang bash",
			content:  "#!/bin/bash\necho hello",
			expected: "bash",
		},
		{
			name:     "shebang sh",
			content:  "#!/bin/sh\necho hello",
			expected: "bash",
		},
		{
			name:     "shebang python",
			content:  "#!/usr/bin/env python3\nprint('hello')",
			expected: "python",
		},
		{
			name:     "go code",
			content:  "package main\n\nfunc main() {\n\tfmt.Println(\"hello\")\n}",
			expected: "go",
		},
		{
			name:     "json object",
			content:  `{"key": "value", "number": 123}`,
			expected: "json",
		},
		{
			name:     "yaml content",
			content:  "key: value\nother: 123\nlist:\n  - item1\n  - item2",
			expected: "yaml",
		},
		{
			name:     "plain text fallback",
			content:  "just some text without any code patterns",
			expected: "text",
		},
		{
			name:     "empty content fallback",
			content:  "",
			expected: "text",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			result := langdetect.Detect([]byte(tt.content))

			if result != tt.expected {
				t.Errorf("Detect() = %q, want %q", result, tt.expected)
			}
		})
	}
}

func TestDetect_ShebangTakesPrecedence(t *testing.T) {
	t.Parallel()

	// Content looks like Python but has bash shebang
	content := []byte("#!/bin/bash\ndef foo():\n    pass")
	result := langdetect.Detect(content)

	if result != "bash" {
		t.Errorf("Detect() = %q, want %q (shebang should take precedence)", result, "bash")
	}
}

func TestFenceLanguage(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		fence string
		want  string
	}{
		{
			name:  "explicit info string",
			fence: "```rust\nfn main() {}\n```",
			want:  "rust",
		},
		{
			name:  "info string with attributes",
			fence: "```Python {linenos=true}\nx = 1\n```",
			want:  "python",
		},
		{
			name:  "tilde fence",
			fence: "~~~json\n{}\n~~~",
			want:  "json",
		},
		{
			name:  "no info string detects body",
			fence: "```\npackage main\n\nfunc main() {}\n```",
			want:  "go",
		},
		{
			name:  "no info string plain body",
			fence: "```\nhello there general content\n```",
			want:  "text",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := langdetect.FenceLanguage(tt.fence)
			if got != tt.want {
				t.Errorf("FenceLanguage() = %q, want %q", got, tt.want)
			}
		})
	}
}
