package catalog

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"

	"github.com/fredcamaral/coursedeck/internal/domain/entities"
)

// metadata file names in lookup order
var metadataFiles = []string{"metadata.json", "metadata.yaml", "metadata.yml"}

const (
	defaultLevel = "Tous niveaux"
	defaultType  = "Présentation"
)

// readMetadata returns nil, nil when the collection has no metadata file
func readMetadata(fsys fs.FS, dir string) (*entities.CollectionMetadata, error) {
	for _, name := range metadataFiles {
		data, err := fs.ReadFile(fsys, path.Join(dir, name))
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", name, err)
		}

		var meta entities.CollectionMetadata
		if strings.HasSuffix(name, ".json") {
			err = json.Unmarshal(data, &meta)
		} else {
			err = yaml.Unmarshal(data, &meta)
		}
		if err != nil {
			return nil, fmt.Errorf("parsing %s: %w", name, err)
		}
		return &meta, nil
	}

	return nil, nil
}

// defaultName turns a folder id into a display name: "go_avance" becomes "Go Avance"
func defaultName(id string) string {
	return cases.Title(language.French, cases.NoLower).String(strings.ReplaceAll(id, "_", " "))
}

func newCollection(id string, meta *entities.CollectionMetadata) entities.Collection {
	name := defaultName(id)
	col := entities.Collection{
		ID:          id,
		Name:        name,
		Description: "Présentation sur " + name,
		Type:        defaultType,
		Level:       defaultLevel,
	}
	if meta == nil {
		return col
	}

	if meta.DisplayName != "" {
		col.Name = meta.DisplayName
	}
	if meta.Description != "" {
		col.Description = meta.Description
	} else {
		col.Description = "Présentation sur " + col.Name
	}
	if meta.Type != "" {
		col.Type = meta.Type
	}
	if meta.Level != "" {
		col.Level = meta.Level
	}
	col.Duration = meta.EstimatedDuration
	col.Tags = append([]string(nil), meta.Tags...)
	col.Prerequisites = append([]string(nil), meta.Prerequisites...)

	return col
}

// finishCollection fills the fields that depend on the modules
func finishCollection(col *entities.Collection, meta *entities.CollectionMetadata) {
	if meta == nil || meta.EstimatedDuration == "" {
		total := 0
		for _, m := range col.Modules {
			total += durationMinutes(m.DurationEstimate)
		}
		col.Duration = formatMinutes(total)
	}

	if len(col.Tags) == 0 {
		col.Tags = []string{col.Name}
	}
}
