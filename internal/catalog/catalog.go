// Package catalog provides the library of standard questionnaire templates that new
// assessment projects are built from.
package catalog

import (
	_ "embed"
	"fmt"
	"os"
	"strings"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/jonathan/governance-assessor/internal/types"
)

//go:embed standards.yaml
var defaultCatalog []byte

// Catalog is a versioned set of standard templates
type Catalog struct {
	Version   int                `yaml:"version" json:"version"`
	Standards []StandardTemplate `yaml:"standards" json:"standards"`
}

// StandardTemplate describes a standard before it is answered
type StandardTemplate struct {
	ID          string             `yaml:"id" json:"id"`
	Name        string             `yaml:"name" json:"name"`
	Category    string             `yaml:"category,omitempty" json:"category,omitempty"`
	Description string             `yaml:"description,omitempty" json:"description,omitempty"`
	Weight      *float64           `yaml:"weight,omitempty" json:"weight,omitempty"`
	Questions   []QuestionTemplate `yaml:"questions" json:"questions"`
}

// QuestionTemplate describes an unanswered question
type QuestionTemplate struct {
	ID         string             `yaml:"id" json:"id"`
	Text       string             `yaml:"text" json:"text"`
	Type       types.QuestionType `yaml:"type" json:"type"`
	Weight     *float64           `yaml:"weight,omitempty" json:"weight,omitempty"`
	Importance int                `yaml:"importance,omitempty" json:"importance,omitempty"`
}

// CatalogError represents a failure loading or using a catalog
type CatalogError struct {
	Message string
	Cause   error
}

func (e *CatalogError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("catalog error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("catalog error: %s", e.Message)
}

func (e *CatalogError) Unwrap() error {
	return e.Cause
}

// Default returns the built-in catalog
func Default() (*Catalog, error) {
	return Parse(defaultCatalog)
}

// Load reads a catalog from a YAML file, falling back to the built-in catalog when path is empty.
func Load(path string) (*Catalog, error) {
	if path == "" {
		return Default()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &CatalogError{Message: fmt.Sprintf("failed to read %s", path), Cause: err}
	}
	return Parse(data)
}

// Parse decodes and checks a YAML catalog
func Parse(data []byte) (*Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, &CatalogError{Message: "failed to parse YAML", Cause: err}
	}

	seen := make(map[string]bool, len(c.Standards))
	for _, s := range c.Standards {
		if s.ID == "" || s.Name == "" {
			return nil, &CatalogError{Message: "every standard needs an id and a name"}
		}
		if seen[s.ID] {
			return nil, &CatalogError{Message: fmt.Sprintf("duplicate standard id %q", s.ID)}
		}
		seen[s.ID] = true
	}

	return &c, nil
}

// Find returns the template with the given id (case-insensitive)
func (c *Catalog) Find(id string) (*StandardTemplate, bool) {
	for i := range c.Standards {
		if strings.EqualFold(c.Standards[i].ID, id) {
			return &c.Standards[i], true
		}
	}
	return nil, false
}

// NewProject builds an unanswered project from the selected standard ids.
// An empty selection includes every standard in catalog order.
func (c *Catalog) NewProject(name string, standardIDs []string) (*types.Project, error) {
	if strings.TrimSpace(name) == "" {
		return nil, &CatalogError{Message: "project name is required"}
	}

	selected := make([]*StandardTemplate, 0, len(c.Standards))
	if len(standardIDs) == 0 {
		for i := range c.Standards {
			selected = append(selected, &c.Standards[i])
		}
	} else {
		for _, id := range standardIDs {
			tmpl, ok := c.Find(strings.TrimSpace(id))
			if !ok {
				return nil, &CatalogError{Message: fmt.Sprintf("unknown standard %q", id)}
			}
			selected = append(selected, tmpl)
		}
	}

	project := &types.Project{
		ID:        uuid.New().String(),
		Name:      name,
		Standards: make([]types.Standard, 0, len(selected)),
	}
	for _, tmpl := range selected {
		project.Standards = append(project.Standards, tmpl.instantiate())
	}

	return project, nil
}

func (t *StandardTemplate) instantiate() types.Standard {
	s := types.Standard{
		ID:          t.ID,
		Name:        t.Name,
		Category:    t.Category,
		Description: t.Description,
		Weight:      copyFloat(t.Weight),
		Questions:   make([]types.Question, 0, len(t.Questions)),
	}
	for _, q := range t.Questions {
		s.Questions = append(s.Questions, types.Question{
			ID:         q.ID,
			Text:       q.Text,
			Type:       q.Type,
			Weight:     copyFloat(q.Weight),
			Importance: q.Importance,
		})
	}
	return s
}

func copyFloat(v *float64) *float64 {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}
