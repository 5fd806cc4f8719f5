package langdetect

import "testing"

func BenchmarkDetect(b *testing.B) {
	samples := []struct {
		name string
		code []byte
	}{
		{"go", []byte("package main\n\nimport \"fmt\"\n\nfunc main() {\n\tfmt.Println(\"hello\")\n}\n")},
		{"json", []byte(`{"name": "demo", "tags": ["a", "b"]}`)},
		{"yaml", []byte("flavor: gfm\ncaches:\n  parse_cache: true\n")},
		{"plain", []byte("just words, nothing recognizable")},
		{"empty", nil},
	}

	for _, sample := range samples {
		b.Run(sample.name, func(b *testing.B) {
			for range b.N {
				Detect(sample.code)
			}
		})
	}
}

func BenchmarkFenceLanguage(b *testing.B) {
	b.Run("explicit info string", func(b *testing.B) {
		fence := "```rust\nfn main() {}\n```"
		for range b.N {
			FenceLanguage(fence)
		}
	})

	b.Run("body detection", func(b *testing.B) {
		fence := "```\n{\"key\": \"value\"}\n```"
		for range b.N {
			FenceLanguage(fence)
		}
	})
}
