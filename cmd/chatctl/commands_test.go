package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testData = `{
  "10": {
    "Mathematics": {"chapters": ["Real Numbers", "Polynomials"]},
    "Science": {"chapters": ["Light"]}
  },
  "12": {
    "Physics": {"chapters": ["Electrostatics"]}
  }
}`

func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "chatbot.json")
	require.NoError(t, os.WriteFile(path, []byte(testData), 0o644))

	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(append([]string{"--data", path}, args...))
	err := cmd.Execute()
	return out.String(), err
}

func TestCLICommands(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		contains []string
	}{
		{
			name:     "classify curriculum query",
			args:     []string{"classify", "chapters of Mathematics in 10"},
			contains: []string{"intent:   curriculum", "standard: 10", "subject:  Mathematics"},
		},
		{
			name:     "classify tutoring query",
			args:     []string{"classify", "how are you"},
			contains: []string{"intent:   tutoring", "standard: -"},
		},
		{
			name:     "list standards",
			args:     []string{"standards"},
			contains: []string{"• Standard 10", "• Standard 12"},
		},
		{
			name:     "ask chapters",
			args:     []string{"ask", "chapters of Mathematics in 10"},
			contains: []string{"Real Numbers", "Polynomials"},
		},
		{
			name:     "ask uses profile standard",
			args:     []string{"--standard", "12", "ask", "physics chapters"},
			contains: []string{"Electrostatics"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := runCLI(t, tt.args...)
			require.NoError(t, err)
			for _, want := range tt.contains {
				assert.Contains(t, out, want)
			}
		})
	}
}

func TestCLIMissingData(t *testing.T) {
	cmd := newRootCmd()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetArgs([]string{"--data", filepath.Join(t.TempDir(), "missing.json"), "standards"})
	assert.Error(t, cmd.Execute())
}
