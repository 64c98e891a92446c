package main

import (
	"bytes"
	"fmt"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fredcamaral/coursedeck/internal/domain/entities"
	"github.com/fredcamaral/coursedeck/internal/test/builders"
)

func noColor(t *testing.T) {
	t.Helper()

	prev := color.NoColor
	color.NoColor = true
	t.Cleanup(func() { color.NoColor = prev })
}

func TestPrintCatalog(t *testing.T) {
	noColor(t)

	t.Run("empty", func(t *testing.T) {
		var buf bytes.Buffer
		printCatalog(&buf, nil)
		assert.Equal(t, "No collections found\n", buf.String())
	})

	t.Run("collections and modules", func(t *testing.T) {
		golang := builders.NewCollectionBuilder("golang").
			WithName("Golang").
			WithModule("01_Intro.md", "Intro").
			WithModule("Annexe.md", "").
			Build()
		golang.Duration = "1h30"
		golang.Modules[0].DurationEstimate = "45min"
		golang.Modules[1].Link = entities.Unlinked()

		var buf bytes.Buffer
		printCatalog(&buf, []entities.Collection{*golang, *builders.NewCollectionBuilder("rust").Build()})

		lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
		require.Len(t, lines, 5)
		assert.Equal(t, "Golang  golang · Tous niveaux · 1h30", lines[0])
		assert.Equal(t, fmt.Sprintf("  %-24s Intro (45min)", "01_Intro.md"), lines[1])
		assert.True(t, strings.HasSuffix(lines[2], "[no title]"))
		assert.Empty(t, lines[3])
		assert.True(t, strings.HasPrefix(lines[4], "rust  rust"))
	})
}

func TestListCommand(t *testing.T) {
	noColor(t)
	root := contentDir(t)

	var out bytes.Buffer
	cmd := newListCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{root})
	require.NoError(t, cmd.Execute())

	assert.Contains(t, out.String(), "go_avance")
	assert.Contains(t, out.String(), "01_intro")
	assert.Contains(t, out.String(), "My Module")
	assert.Contains(t, out.String(), "02_suite")
}
