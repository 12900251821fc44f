package langdetect_test

import (
	"testing"

	"github.com/yaklabco/hbslint/pkg/langdetect"
)

func TestDetect(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		content  string
		expected string
	}{
		{
			name:     "node shebang",
			content:  "#!/usr/bin/env node\nconsole.log('hi');\n",
			expected: "javascript",
		},
		{
			name:     "es module import",
			content:  "import { hbs } from 'ember-cli-htmlbars';\n\nconst t = hbs`<p></p>`;\n",
			expected: "javascript",
		},
		{
			name:     "export default",
			content:  "export default class Foo {}\n",
			expected: "javascript",
		},
		{
			name:     "commonjs",
			content:  "const hbs = require('htmlbars-inline-precompile');\nmodule.exports = {};\n",
			expected: "javascript",
		},
		{
			name:     "type import",
			content:  "import type { Owner } from '@ember/owner';\nexport default {};\n",
			expected: "typescript",
		},
		{
			name:     "interface",
			content:  "interface Args {\n  name: string;\n}\n",
			expected: "typescript",
		},
		{
			name:     "bash shebang",
			content:  "#!/bin/bash\necho hello\n",
			expected: "",
		},
		{
			name:     "python shebang",
			content:  "#!/usr/bin/env python3\nprint('hello')\n",
			expected: "",
		},
		{
			name:     "plain text",
			content:  "just some notes\nabout nothing\n",
			expected: "",
		},
		{
			name:     "empty",
			content:  "",
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := langdetect.Detect([]byte(tt.content))
			if got != tt.expected {
				t.Errorf("Detect() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestIsScript(t *testing.T) {
	t.Parallel()

	if !langdetect.IsScript([]byte("#!/usr/bin/env node\n")) {
		t.Error("IsScript(node shebang) = false, want true")
	}
	if langdetect.IsScript([]byte("#!/bin/sh\nexit 0\n")) {
		t.Error("IsScript(sh shebang) = true, want false")
	}
}
