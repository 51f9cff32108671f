package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"placefacts/models"
)

const (
	// DefaultType is used when a landmark's category could not be classified.
	DefaultType = "generic attraction"
	// Unknown marks an unresolved city or country.
	Unknown = "Unknown"
)

// ID identifies a landmark. Datasets carry it as a JSON string or number;
// integer ids are written back as numbers.
type ID string

// IntID returns the ID for a sequential integer identifier.
func IntID(n int) ID {
	return ID(strconv.Itoa(n))
}

func (id ID) MarshalJSON() ([]byte, error) {
	if n, err := strconv.ParseInt(string(id), 10, 64); err == nil && strconv.FormatInt(n, 10) == string(id) {
		return []byte(id), nil
	}
	return json.Marshal(string(id))
}

func (id *ID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	switch {
	case bytes.Equal(b, []byte("null")):
		*id = ""
		return nil
	case len(b) > 0 && b[0] == '"':
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*id = ID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("landmark id must be a string or a number, got %s", b)
	}
	*id = ID(n.String())
	return nil
}

// Landmark is a named point of interest loaded from the dataset. Values are
// never mutated after the dataset is loaded.
type Landmark struct {
	ID           ID                 `json:"id"`
	Name         string             `json:"name"`
	Coordinates  models.Coordinates `json:"coordinates"`
	Description  string             `json:"description"`
	Categories   []string           `json:"categories"`
	WikipediaURL string             `json:"wikipedia_url,omitempty"`
	Country      string             `json:"country"`
	City         string             `json:"city"`
	Type         string             `json:"type"`
	Language     string             `json:"language"`
}

// PlaceType returns the landmark type, falling back to DefaultType.
func (l Landmark) PlaceType() string {
	if strings.TrimSpace(l.Type) == "" {
		return DefaultType
	}
	return l.Type
}

// Resolved reports whether a city or country value carries real information.
func Resolved(s string) bool {
	s = strings.TrimSpace(s)
	return s != "" && !strings.EqualFold(s, Unknown)
}

// Dataset is the document written by the dataset builder and read at startup.
type Dataset struct {
	GeneratedAt         string     `json:"generated_at"`
	Source              string     `json:"source"`
	TotalLocations      int        `json:"total_locations"`
	CategoriesProcessed []string   `json:"categories_processed"`
	Locations           []Landmark `json:"locations"`
}
