package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/alexanderramin/tempo/internal/domain"
)

// resolveProjectID accepts a full project ID, a unique ID prefix, or a
// unique name match.
func resolveProjectID(ctx context.Context, app *App, ref string) (string, error) {
	if ref == "" {
		return "", fmt.Errorf("project is required (use --project)")
	}
	projects, err := app.Projects.List(ctx, true)
	if err != nil {
		return "", err
	}
	var matches []*domain.Project
	for _, p := range projects {
		if p.ID == ref {
			return p.ID, nil
		}
		if strings.HasPrefix(p.ID, ref) || strings.EqualFold(p.Name, ref) {
			matches = append(matches, p)
		}
	}
	switch len(matches) {
	case 1:
		return matches[0].ID, nil
	case 0:
		return "", fmt.Errorf("no project matches %q", ref)
	default:
		return "", fmt.Errorf("%q is ambiguous (%d projects match)", ref, len(matches))
	}
}

// resolveTaskID accepts a full task ID, a unique ID prefix, or a unique
// title match, optionally scoped to a project (itself given by ID,
// prefix, or name).
func resolveTaskID(ctx context.Context, app *App, ref, projectRef string) (string, error) {
	if ref == "" {
		return "", fmt.Errorf("task is required")
	}
	var projectID string
	if projectRef != "" {
		var err error
		if projectID, err = resolveProjectID(ctx, app, projectRef); err != nil {
			return "", err
		}
	}
	snap, err := app.Stats.Snapshot(ctx, projectID)
	if err != nil {
		return "", err
	}
	var matches []*domain.Task
	for _, t := range snap {
		if t.ID == ref {
			return t.ID, nil
		}
		if strings.HasPrefix(t.ID, ref) || strings.EqualFold(t.Title, ref) {
			matches = append(matches, t)
		}
	}
	switch len(matches) {
	case 1:
		return matches[0].ID, nil
	case 0:
		return "", fmt.Errorf("no task matches %q", ref)
	default:
		return "", fmt.Errorf("%q is ambiguous (%d tasks match)", ref, len(matches))
	}
}
