package services

import (
	"context"
	"fmt"
	"sync"

	"github.com/fredcamaral/coursedeck/internal/domain/entities"
	"github.com/fredcamaral/coursedeck/internal/test/builders"
)

// stubCatalog is an in-memory ports.Catalog
type stubCatalog struct {
	mu          sync.Mutex
	collections map[string]*entities.Collection
	texts       map[string]string
	reloadErr   error
	reloadCount int
}

func newStubCatalog() *stubCatalog {
	return &stubCatalog{
		collections: make(map[string]*entities.Collection),
		texts:       make(map[string]string),
	}
}

func (c *stubCatalog) add(collection *entities.Collection, texts map[string]string) {
	c.collections[collection.ID] = collection
	for name, text := range texts {
		c.texts[collection.ID+"/"+name] = text
	}
}

func (c *stubCatalog) Lookup(_ context.Context, collectionID, filename string) (string, error) {
	text, ok := c.texts[collectionID+"/"+filename]
	if !ok {
		return "", fmt.Errorf("module %s/%s: %w", collectionID, filename, entities.ErrNotFound)
	}
	return text, nil
}

func (c *stubCatalog) Collections(context.Context) ([]entities.Collection, error) {
	out := make([]entities.Collection, 0, len(c.collections))
	for _, col := range c.collections {
		out = append(out, *col)
	}
	return out, nil
}

func (c *stubCatalog) Collection(_ context.Context, id string) (*entities.Collection, error) {
	col, ok := c.collections[id]
	if !ok {
		return nil, fmt.Errorf("collection %s: %w", id, entities.ErrNotFound)
	}
	return col, nil
}

func (c *stubCatalog) Reload(context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.reloadCount++
	return c.reloadErr
}

func (c *stubCatalog) reloads() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.reloadCount
}

// golangCatalog holds one collection with a scenario module followed by a second module
func golangCatalog() *stubCatalog {
	c := newStubCatalog()
	c.add(
		builders.NewCollectionBuilder("golang").
			WithName("Golang").
			WithModule("01_Intro.md", "My Module").
			WithModule("02_Types.md", "Types").
			Build(),
		map[string]string{
			"01_Intro.md": builders.ScenarioModule(),
			"02_Types.md": builders.NewMarkdownBuilder().
				WithTitle("Types").
				WithSection(2, "Exemple", "first").
				WithSection(2, "Exercice", "Durée: 20 min").
				WithSection(2, "Exemple", "second").
				WithSection(3, "Notes", "a", "---", "---", "b").
				Build(),
		},
	)
	return c
}
