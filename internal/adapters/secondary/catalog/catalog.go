package catalog

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path"
	"sort"
	"strings"
	"sync"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/fredcamaral/coursedeck/internal/domain/entities"
	"github.com/fredcamaral/coursedeck/internal/domain/ports"
)

const markdownExt = ".md"

// FilesystemCatalog discovers collections under a content root. Every
// sub-directory is a collection and every markdown file in it a module.
// The whole tree is read into memory and replaced as a unit on Reload.
type FilesystemCatalog struct {
	fsys   fs.FS
	logger *slog.Logger

	mu    sync.RWMutex
	table *table
}

var _ ports.Catalog = (*FilesystemCatalog)(nil)

type table struct {
	collections []entities.Collection
	byID        map[string]int
	texts       map[string]string
}

// NewFilesystemCatalog creates a catalog over a directory and loads it
func NewFilesystemCatalog(ctx context.Context, root string, logger *slog.Logger) (*FilesystemCatalog, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("opening content root: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("content root is not a directory: %s", root)
	}

	return NewFSCatalog(ctx, os.DirFS(root), logger)
}

// NewFSCatalog creates a catalog over any fs.FS and loads it
func NewFSCatalog(ctx context.Context, fsys fs.FS, logger *slog.Logger) (*FilesystemCatalog, error) {
	if logger == nil {
		logger = slog.Default()
	}

	c := &FilesystemCatalog{
		fsys:   fsys,
		logger: logger.With("component", "catalog"),
	}
	if err := c.Reload(ctx); err != nil {
		return nil, err
	}
	return c, nil
}

// Reload rescans the content root and swaps the table
func (c *FilesystemCatalog) Reload(ctx context.Context) error {
	t, err := c.scan(ctx)
	if err != nil {
		return fmt.Errorf("scanning content: %w", err)
	}

	c.mu.Lock()
	c.table = t
	c.mu.Unlock()

	c.logger.Info("Catalog loaded",
		slog.Int("collections", len(t.collections)),
		slog.Int("modules", len(t.texts)),
	)
	return nil
}

// Collections returns every collection sorted by name
func (c *FilesystemCatalog) Collections(ctx context.Context) ([]entities.Collection, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]entities.Collection, len(c.table.collections))
	copy(out, c.table.collections)
	return out, nil
}

// Collection returns one collection
func (c *FilesystemCatalog) Collection(ctx context.Context, id string) (*entities.Collection, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	c.mu.RLock()
	defer c.mu.RUnlock()

	i, ok := c.table.byID[id]
	if !ok {
		return nil, fmt.Errorf("collection %q: %w", id, entities.ErrNotFound)
	}
	col := c.table.collections[i]
	return &col, nil
}

// Lookup returns a module's markdown. The .md extension is optional.
func (c *FilesystemCatalog) Lookup(ctx context.Context, collectionID, filename string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	c.mu.RLock()
	defer c.mu.RUnlock()

	text, ok := c.table.texts[textKey(collectionID, moduleID(filename))]
	if !ok {
		return "", fmt.Errorf("module %q in collection %q: %w", filename, collectionID, entities.ErrNotFound)
	}
	return text, nil
}

func (c *FilesystemCatalog) scan(ctx context.Context) (*table, error) {
	entries, err := fs.ReadDir(c.fsys, ".")
	if err != nil {
		return nil, err
	}

	t := &table{byID: make(map[string]int), texts: make(map[string]string)}
	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if !entry.IsDir() || hidden(entry.Name()) {
			continue
		}

		col, texts, err := c.loadCollection(entry.Name())
		if err != nil {
			return nil, fmt.Errorf("collection %s: %w", entry.Name(), err)
		}
		if len(col.Modules) == 0 {
			continue
		}

		t.collections = append(t.collections, col)
		for id, text := range texts {
			t.texts[textKey(col.ID, id)] = text
		}
	}

	sortByName(t.collections)
	for i, col := range t.collections {
		t.byID[col.ID] = i
	}

	return t, nil
}

func (c *FilesystemCatalog) loadCollection(id string) (entities.Collection, map[string]string, error) {
	entries, err := fs.ReadDir(c.fsys, id)
	if err != nil {
		return entities.Collection{}, nil, err
	}

	meta, err := readMetadata(c.fsys, id)
	if err != nil {
		c.logger.Warn("Ignoring invalid collection metadata",
			slog.String("collection", id),
			slog.String("error", err.Error()),
		)
		meta = nil
	}

	col := newCollection(id, meta)
	texts := make(map[string]string)

	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || hidden(name) || !strings.EqualFold(path.Ext(name), markdownExt) {
			continue
		}

		data, err := fs.ReadFile(c.fsys, path.Join(id, name))
		if err != nil {
			return entities.Collection{}, nil, fmt.Errorf("reading %s: %w", name, err)
		}

		text := string(data)
		module := analyzeModule(id, name, text)
		col.Modules = append(col.Modules, module)
		texts[module.Filename] = text
	}

	col.SortModules()
	finishCollection(&col, meta)

	return col, texts, nil
}

func sortByName(collections []entities.Collection) {
	cl := collate.New(language.French, collate.IgnoreCase)
	sort.SliceStable(collections, func(i, j int) bool {
		return cl.CompareString(collections[i].Name, collections[j].Name) < 0
	})
}

// moduleID strips the markdown extension
func moduleID(filename string) string {
	ext := path.Ext(filename)
	if strings.EqualFold(ext, markdownExt) {
		return strings.TrimSuffix(filename, ext)
	}
	return filename
}

func textKey(collectionID, module string) string {
	return collectionID + "/" + module
}

func hidden(name string) bool {
	return strings.HasPrefix(name, ".") || strings.HasPrefix(name, "_")
}
