package model

import "time"

// Project is a named grouping that tasks reference by id through
// their project tags. Projects are never removed: deactivating one hides
// it from active views while archived records can still resolve its name.
type Project struct {
	ID        string    `json:"id"`
	OwnerID   string    `json:"owner_id"`
	Name      string    `json:"name"`
	Color     string    `json:"color"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ProjectNameIndex maps project ids to display names.
type ProjectNameIndex map[string]string

// NewProjectNameIndex builds a name index over projects, active or not.
func NewProjectNameIndex(projects []Project) ProjectNameIndex {
	idx := make(ProjectNameIndex, len(projects))
	for _, p := range projects {
		idx[p.ID] = p.Name
	}
	return idx
}

// Resolve maps ids to names, dropping ids with no matching project.
// The result is never nil.
func (idx ProjectNameIndex) Resolve(ids []string) []string {
	names := make([]string, 0, len(ids))
	for _, id := range ids {
		if name, ok := idx[id]; ok {
			names = append(names, name)
		}
	}
	return names
}
