package api

import (
	"context"
	"net/http"
	"net/url"
	"time"
)

// Project is a container for records, models and jobs on the service side.
type Project struct {
	Id          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Created     time.Time `json:"created"`
}

func (s *Session) CreateProject(ctx context.Context, name, description string) (*Project, error) {
	body := map[string]string{"name": name, "description": description}
	var project Project
	if err := s.do(ctx, http.MethodPost, "/projects", body, &project); err != nil {
		return nil, err
	}
	return &project, nil
}

func (s *Session) GetProject(ctx context.Context, projectId string) (*Project, error) {
	var project Project
	if err := s.do(ctx, http.MethodGet, "/projects/"+url.PathEscape(projectId), nil, &project); err != nil {
		return nil, err
	}
	return &project, nil
}

func (s *Session) ListProjects(ctx context.Context) ([]Project, error) {
	var out struct {
		Projects []Project `json:"projects"`
	}
	if err := s.do(ctx, http.MethodGet, "/projects", nil, &out); err != nil {
		return nil, err
	}
	return out.Projects, nil
}

func (s *Session) DeleteProject(ctx context.Context, projectId string) error {
	return s.do(ctx, http.MethodDelete, "/projects/"+url.PathEscape(projectId), nil, nil)
}
