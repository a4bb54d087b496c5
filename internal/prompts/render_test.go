package prompts

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRender(t *testing.T) {
	tests := []struct {
		name    string
		tmpl    string
		vars    Vars
		want    string
		wantErr string
	}{
		{
			name: "simple vars",
			tmpl: "Generate {{what}} for: {{description}}",
			vars: Vars{"what": "ARXML", "description": "a brake service"},
			want: "Generate ARXML for: a brake service",
		},
		{
			name: "conditional kept",
			tmpl: "A{{#if srs}}\nSRS: {{srs}}{{/if}}",
			vars: Vars{"srs": "SWR-001"},
			want: "A\nSRS: SWR-001",
		},
		{
			name: "conditional dropped on empty value",
			tmpl: "A{{#if srs}}\nSRS: {{srs}}{{/if}}",
			vars: Vars{"srs": ""},
			want: "A",
		},
		{
			name: "nested conditionals",
			tmpl: "{{#if a}}a{{#if b}}b{{/if}}{{/if}}",
			vars: Vars{"a": "1"},
			want: "a",
		},
		{
			name: "values are not re-expanded",
			tmpl: "{{x}}",
			vars: Vars{"x": "{{y}}"},
			want: "{{y}}",
		},
		{
			name:    "missing variable",
			tmpl:    "{{a}} {{b}}",
			vars:    Vars{"a": "1"},
			wantErr: "missing template variables: b",
		},
		{
			name:    "dangling close",
			tmpl:    "x{{/if}}",
			wantErr: "dangling",
		},
		{
			name:    "unclosed block",
			tmpl:    "{{#if a}}x",
			vars:    Vars{"a": "1"},
			wantErr: "unclosed conditional block",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Render(tt.tmpl, tt.vars)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
