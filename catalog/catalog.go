// Package catalog holds the built-in practice exercises, each with a
// reference pseudocode solution.
package catalog

import (
	_ "embed"
	"errors"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed exercises.yaml
var exercisesYAML []byte

// ErrUnknownExercise is returned by Get for an id not in the catalog.
var ErrUnknownExercise = errors.New("unknown exercise")

// Exercise is a practice problem and its reference solution.
type Exercise struct {
	ID          string   `yaml:"id" json:"id"`
	Title       string   `yaml:"title" json:"title"`
	Difficulty  string   `yaml:"difficulty" json:"difficulty"`
	Category    string   `yaml:"category" json:"category"`
	Description string   `yaml:"description" json:"description"`
	// Instructions are the steps shown to the learner, in order.
	Instructions   []string `yaml:"instructions" json:"instructions"`
	Hints          []string `yaml:"hints" json:"hints"`
	ExpectedOutput string   `yaml:"expectedOutput" json:"expectedOutput"`
	Solution       string   `yaml:"solution" json:"solution"`
}

// Catalog is an ordered, read-only set of exercises.
type Catalog struct {
	exercises []Exercise
	byID      map[string]int
}

type document struct {
	Exercises []Exercise `yaml:"exercises"`
}

// Load parses the embedded exercise file.
func Load() (*Catalog, error) {
	return Parse(exercisesYAML)
}

// Parse builds a catalog from YAML data. Ids must be unique and non-empty.
func Parse(data []byte) (*Catalog, error) {
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse exercises: %w", err)
	}
	c := &Catalog{byID: make(map[string]int, len(doc.Exercises))}
	for i, ex := range doc.Exercises {
		ex.ID = strings.TrimSpace(ex.ID)
		if ex.ID == "" {
			return nil, fmt.Errorf("exercise %d: missing id", i+1)
		}
		if _, dup := c.byID[ex.ID]; dup {
			return nil, fmt.Errorf("exercise %q: duplicate id", ex.ID)
		}
		c.byID[ex.ID] = len(c.exercises)
		c.exercises = append(c.exercises, ex)
	}
	return c, nil
}

// All returns every exercise in file order.
func (c *Catalog) All() []Exercise {
	out := make([]Exercise, len(c.exercises))
	copy(out, c.exercises)
	return out
}

// Get returns the exercise with the given id.
func (c *Catalog) Get(id string) (Exercise, error) {
	i, ok := c.byID[id]
	if !ok {
		return Exercise{}, fmt.Errorf("%w: %s", ErrUnknownExercise, id)
	}
	return c.exercises[i], nil
}

// ByCategory returns the exercises of one category, compared case
// insensitively. An empty category returns all exercises.
func (c *Catalog) ByCategory(category string) []Exercise {
	if category == "" {
		return c.All()
	}
	out := []Exercise{}
	for _, ex := range c.exercises {
		if strings.EqualFold(ex.Category, category) {
			out = append(out, ex)
		}
	}
	return out
}

// Categories returns the distinct categories in first-seen order.
func (c *Catalog) Categories() []string {
	seen := map[string]bool{}
	var out []string
	for _, ex := range c.exercises {
		if !seen[ex.Category] {
			seen[ex.Category] = true
			out = append(out, ex.Category)
		}
	}
	return out
}
