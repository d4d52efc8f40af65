package client

import (
	"context"
	"fmt"

	"github.com/templui/folio/internal/model"
	"github.com/templui/folio/internal/validation"
)

// InputError is a project rejected before anything is sent.
type InputError struct {
	Err error
}

func (e *InputError) Error() string {
	return e.Err.Error()
}

func (e *InputError) Unwrap() error {
	return e.Err
}

// AddProject appends p with a fresh id taken from the current time in
// milliseconds, bumped past any id already in use, and saves.
func (c *Client) AddProject(ctx context.Context, p model.Project) (model.Project, error) {
	err := validation.ValidateProject(p)
	if err != nil {
		return model.Project{}, &InputError{Err: err}
	}

	projects := c.Projects()
	p.ID = nextID(c.now().UnixMilli(), projects)

	err = c.SaveProjects(ctx, append(projects, p))
	if err != nil {
		return model.Project{}, err
	}
	return p, nil
}

// UpdateProject replaces the project with p.ID, keeping its id and position.
func (c *Client) UpdateProject(ctx context.Context, p model.Project) error {
	err := validation.ValidateProject(p)
	if err != nil {
		return &InputError{Err: err}
	}

	projects := c.Projects()
	found := false
	for i := range projects {
		if projects[i].ID == p.ID {
			projects[i] = p
			found = true
			break
		}
	}
	if !found {
		return fmt.Errorf("project %d not found", p.ID)
	}

	return c.SaveProjects(ctx, projects)
}

// DeleteProject removes the project with id, preserving the order of the rest.
func (c *Client) DeleteProject(ctx context.Context, id int64) error {
	projects := c.Projects()
	kept := make([]model.Project, 0, len(projects))
	for _, p := range projects {
		if p.ID != id {
			kept = append(kept, p)
		}
	}
	if len(kept) == len(projects) {
		return fmt.Errorf("project %d not found", id)
	}

	return c.SaveProjects(ctx, kept)
}

func nextID(candidate int64, projects []model.Project) int64 {
	used := make(map[int64]bool, len(projects))
	for _, p := range projects {
		used[p.ID] = true
	}
	for used[candidate] {
		candidate++
	}
	return candidate
}
