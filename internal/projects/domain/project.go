package domain

import (
	"strings"
	"time"

	sharedDomain "github.com/felixgeelhaar/pacer/internal/shared/domain"
	"github.com/google/uuid"
)

// Project groups weighted tasks tracked toward a common goal.
type Project struct {
	sharedDomain.BaseAggregateRoot
	name        string
	category    string
	description string
}

// ProjectPatch is a partial update of a project.
type ProjectPatch struct {
	Name        *string
	Category    *string
	Description *string
}

// NewProject creates a new project.
func NewProject(name, category, description string, now time.Time) (*Project, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrEmptyName
	}

	p := &Project{
		BaseAggregateRoot: sharedDomain.NewBaseAggregateRoot(now),
		name:              name,
		category:          strings.TrimSpace(category),
		description:       description,
	}
	p.AddDomainEvent(NewProjectCreated(p, now))
	return p, nil
}

// RehydrateProject recreates a project from persisted state.
func RehydrateProject(id uuid.UUID, name, category, description string, createdAt, updatedAt time.Time) *Project {
	return &Project{
		BaseAggregateRoot: sharedDomain.RehydrateBaseAggregateRoot(
			sharedDomain.RehydrateBaseEntity(id, createdAt, updatedAt),
		),
		name:        name,
		category:    category,
		description: description,
	}
}

// Getters
func (p *Project) Name() string        { return p.name }
func (p *Project) Category() string    { return p.category }
func (p *Project) Description() string { return p.description }

// Update applies the supplied fields of patch.
func (p *Project) Update(patch ProjectPatch, now time.Time) error {
	if patch.Name != nil {
		name := strings.TrimSpace(*patch.Name)
		if name == "" {
			return ErrEmptyName
		}
		p.name = name
	}
	if patch.Category != nil {
		p.category = strings.TrimSpace(*patch.Category)
	}
	if patch.Description != nil {
		p.description = *patch.Description
	}

	p.Touch(now)
	p.AddDomainEvent(NewProjectUpdated(p, now))
	return nil
}

// MarkDeleted records the deletion event for the project.
func (p *Project) MarkDeleted(deletedTasks int, now time.Time) {
	p.AddDomainEvent(NewProjectDeleted(p, deletedTasks, now))
}
