package engine

import "sync"

// Registry tracks the live integration instances per project. Each mounted
// instance registers on setup and must unregister on teardown; the periodic
// runner flushes every project with at least one live instance. Handles are
// counted, not owned, so the registry never keeps an instance alive.
type Registry struct {
	mu       sync.RWMutex
	projects map[string]int
}

func NewRegistry() *Registry {
	return &Registry{projects: make(map[string]int)}
}

func (r *Registry) Register(projectID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.projects[projectID]++
}

func (r *Registry) Unregister(projectID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.projects[projectID] <= 1 {
		delete(r.projects, projectID)
		return
	}
	r.projects[projectID]--
}

// Projects returns the ids with at least one live instance.
func (r *Registry) Projects() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ids := make([]string, 0, len(r.projects))
	for id := range r.projects {
		ids = append(ids, id)
	}
	return ids
}
