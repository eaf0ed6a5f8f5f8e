package web

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMarkdown_Render(t *testing.T) {
	md := NewMarkdown()

	tests := []struct {
		name     string
		src      string
		contains []string
		excludes []string
	}{
		{name: "emphasis", src: "**bold** and _italic_", contains: []string{"<strong>bold</strong>", "<em>italic</em>"}},
		{name: "code block", src: "```go\nfmt.Println(1)\n```", contains: []string{"<pre>", "<code"}},
		{name: "strikethrough", src: "~~gone~~", contains: []string{"<del>gone</del>"}},
		{name: "script stripped", src: "hi <script>alert(1)</script>", excludes: []string{"<script>", "alert(1)</script>"}},
		{name: "javascript link stripped", src: "[x](javascript:alert(1))", excludes: []string{"javascript:"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := string(md.Render(tt.src))
			for _, want := range tt.contains {
				assert.Contains(t, out, want)
			}
			for _, bad := range tt.excludes {
				assert.NotContains(t, out, bad)
			}
		})
	}
}
