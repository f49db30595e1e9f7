// Package catalog holds the static exercise reference data and the prebuilt
// workout templates. The data is read-only and fixed per process lifetime.
package catalog

import (
	"sort"
	"strings"
)

type Exercise struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	MuscleGroup string `json:"muscleGroup"`
	Equipment   string `json:"equipment,omitempty"`
	Description string `json:"description,omitempty"`
}

type TemplateExercise struct {
	ExerciseID   string  `json:"exerciseId"`
	TargetSets   int     `json:"targetSets"`
	TargetReps   int     `json:"targetReps"`
	TargetWeight float64 `json:"targetWeight,omitempty"`
}

type Template struct {
	ID        string             `json:"id"`
	Name      string             `json:"name"`
	Exercises []TemplateExercise `json:"exercises"`
}

type Catalog struct {
	exercises     []Exercise
	byID          map[string]Exercise
	templates     []Template
	templatesByID map[string]Template
}

// New builds a catalog over the built-in exercise and template data.
func New() *Catalog {
	return NewWithData(defaultExercises, defaultTemplates)
}

func NewWithData(exercises []Exercise, templates []Template) *Catalog {
	c := &Catalog{
		exercises:     exercises,
		byID:          make(map[string]Exercise, len(exercises)),
		templates:     templates,
		templatesByID: make(map[string]Template, len(templates)),
	}
	for _, ex := range exercises {
		c.byID[ex.ID] = ex
	}
	for _, t := range templates {
		c.templatesByID[t.ID] = t
	}
	return c
}

func (c *Catalog) ExerciseByID(id string) (Exercise, bool) {
	ex, ok := c.byID[id]
	return ex, ok
}

// Search matches the query as a case-insensitive substring of the exercise
// id or name. An empty query returns all exercises.
func (c *Catalog) Search(query string) []Exercise {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return c.Exercises()
	}
	var found []Exercise
	for _, ex := range c.exercises {
		if strings.Contains(strings.ToLower(ex.ID), query) ||
			strings.Contains(strings.ToLower(ex.Name), query) {
			found = append(found, ex)
		}
	}
	return found
}

func (c *Catalog) ByMuscleGroup(group string) []Exercise {
	group = strings.ToLower(strings.TrimSpace(group))
	var found []Exercise
	for _, ex := range c.exercises {
		if strings.ToLower(ex.MuscleGroup) == group {
			found = append(found, ex)
		}
	}
	return found
}

func (c *Catalog) Exercises() []Exercise {
	out := make([]Exercise, len(c.exercises))
	copy(out, c.exercises)
	return out
}

func (c *Catalog) Templates() []Template {
	out := make([]Template, len(c.templates))
	copy(out, c.templates)
	return out
}

func (c *Catalog) TemplateByID(id string) (Template, bool) {
	t, ok := c.templatesByID[id]
	return t, ok
}

func (c *Catalog) MuscleGroups() []string {
	seen := make(map[string]struct{})
	var groups []string
	for _, ex := range c.exercises {
		if _, ok := seen[ex.MuscleGroup]; ok {
			continue
		}
		seen[ex.MuscleGroup] = struct{}{}
		groups = append(groups, ex.MuscleGroup)
	}
	sort.Strings(groups)
	return groups
}
