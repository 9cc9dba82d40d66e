// Package feed decodes the festival's published JSON feed into the local
// model. The feed is hand-maintained by the organisers, so every field is
// treated as optional and decoded defensively: a missing field degrades to
// a default instead of failing the import.
package feed

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"

	"droscher.com/FestivalGargoyle/pkg/model"
)

// ID accepts both JSON numbers and strings; the feed has used either for
// producer and product ids across festival years.
type ID string

func (i *ID) UnmarshalJSON(data []byte) error {
	var asString string
	if err := json.Unmarshal(data, &asString); err == nil {
		*i = ID(asString)

		return nil
	}

	var asNumber json.Number
	if err := json.Unmarshal(data, &asNumber); err != nil {
		return fmt.Errorf("feed id is neither string nor number: %w", err)
	}

	*i = ID(asNumber.String())

	return nil
}

type Festival struct {
	Producers []Producer `json:"producers"`
}

type Producer struct {
	ID       ID        `json:"id"`
	Name     string    `json:"name"`
	Notes    string    `json:"notes"`
	Products []Product `json:"products"`
}

type Product struct {
	ID         ID             `json:"id"`
	Name       string         `json:"name"`
	ABV        *float64       `json:"abv"`
	Notes      string         `json:"notes"`
	Style      *string        `json:"style"`
	StatusText *string        `json:"status_text"`
	Dispense   string         `json:"dispense"`
	Allergens  map[string]any `json:"allergens"`
}

// Parse decodes a complete feed document.
func Parse(reader io.Reader) (*Festival, error) {
	var festival Festival

	decoder := json.NewDecoder(reader)
	decoder.UseNumber()

	if err := decoder.Decode(&festival); err != nil {
		return nil, fmt.Errorf("decoding festival feed: %w", err)
	}

	return &festival, nil
}

// ProductCount is the import total used for progress reporting.
func (f *Festival) ProductCount() int {
	count := 0
	for _, producer := range f.Producers {
		count += len(producer.Products)
	}

	return count
}

// Brewery converts a producer to its model record.
func (p Producer) Brewery() model.Brewery {
	return model.Brewery{
		FestivalID:  string(p.ID),
		Name:        p.Name,
		Description: p.Notes,
	}
}

// Beer converts a product to its model record. BreweryID is assigned by the
// importer once the producer row exists. Category is fixed here, at import
// time: the list's low/no-alcohol partition goes by this column, not by a
// runtime ABV comparison.
func (p Product) Beer() model.Beer {
	category := model.CategoryBeer
	if p.ABV != nil && *p.ABV <= model.LowAlcoholMaxABV {
		category = model.CategoryLowNo
	}

	return model.Beer{
		FestivalID:  string(p.ID),
		Name:        p.Name,
		Description: p.Notes,
		Style:       orUnknown(p.Style),
		StatusText:  orUnknown(p.StatusText),
		Dispense:    p.Dispense,
		Category:    category,
		ABV:         p.ABV,
		Allergens:   p.AllergenList(),
	}
}

func orUnknown(value *string) string {
	if value == nil || *value == "" {
		return model.StatusUnknown
	}

	return *value
}

// AllergenList joins the names of every present allergen, sorted,
// comma-separated. The feed marks presence with whatever the organisers
// typed that year: numbers, booleans, or strings.
func (p Product) AllergenList() string {
	present := make([]string, 0, len(p.Allergens))

	for name, value := range p.Allergens {
		if truthy(value) {
			present = append(present, name)
		}
	}

	sort.Strings(present)

	return strings.Join(present, ", ")
}

func truthy(value any) bool {
	switch v := value.(type) {
	case bool:
		return v
	case float64:
		return v != 0
	case json.Number:
		return v.String() != "0" && v.String() != ""
	case string:
		return v != "" && v != "false" && v != "0"
	default:
		return false
	}
}
