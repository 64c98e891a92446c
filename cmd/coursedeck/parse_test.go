package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fredcamaral/coursedeck/internal/domain/entities"
	"github.com/fredcamaral/coursedeck/internal/test/builders"
)

func writeModule(t *testing.T, name, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func executeParse(t *testing.T, args ...string) []byte {
	t.Helper()

	var out bytes.Buffer
	cmd := newParseCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	require.NoError(t, cmd.Execute())
	return out.Bytes()
}

func TestParseCommand(t *testing.T) {
	md := builders.NewMarkdownBuilder().
		WithTitle("Go").
		WithSection(2, "Types", "int").
		WithSplit().
		WithLines("string").
		Build()
	path := writeModule(t, "01_go.md", md)

	t.Run("sections with splits", func(t *testing.T) {
		var doc entities.Document
		require.NoError(t, json.Unmarshal(executeParse(t, path), &doc))

		assert.Equal(t, "Go", doc.Title)
		require.Len(t, doc.Sections, 2)
		assert.Equal(t, "Types", doc.Sections[0].Heading)
		assert.True(t, doc.Sections[1].Continuation)
	})

	t.Run("no splits", func(t *testing.T) {
		var doc entities.Document
		require.NoError(t, json.Unmarshal(executeParse(t, "--no-splits", path), &doc))

		require.Len(t, doc.Sections, 1)
		assert.Contains(t, doc.Sections[0].Content, "string")
	})
}

func TestParseCommand_Deck(t *testing.T) {
	path := writeModule(t, "01_intro.md", builders.ScenarioModule())

	var deck entities.Deck
	require.NoError(t, json.Unmarshal(executeParse(t, "--deck", path), &deck))

	assert.Equal(t, "01_intro", deck.Filename)
	assert.Equal(t, "My Module", deck.Title)
	assert.Nil(t, deck.Next)
	require.NotEmpty(t, deck.Slides)
	assert.Equal(t, entities.SlideKindIntro, deck.Slides[0].Kind)

	var rendered bool
	for _, s := range deck.Slides {
		if s.Section != nil && s.Section.Heading == "Conclusion" {
			rendered = true
			assert.Contains(t, s.HTML, "Thanks")
		}
	}
	assert.True(t, rendered, "conclusion slide missing")
}

func TestParseCommand_Errors(t *testing.T) {
	cmd := newParseCmd()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})

	cmd.SetArgs([]string{})
	assert.Error(t, cmd.Execute())

	cmd.SetArgs([]string{filepath.Join(t.TempDir(), "missing.md")})
	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "reading module")
}
