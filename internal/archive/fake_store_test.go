package archive

import (
	"context"
	"sort"
	"sync"

	"github.com/nhle/taskdesk/internal/model"
)

type fakeStore struct {
	mu sync.Mutex

	tasks    map[string]model.Task
	projects map[string]model.Project
	archived map[string]model.ArchivedTask

	listTasksErr    error
	listProjectsErr error
	lookupErr       error
	insertErr       map[string]error // by original task id
	deleteErr       map[string]error // by task id

	inserts int
	deletes int
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		tasks:     make(map[string]model.Task),
		projects:  make(map[string]model.Project),
		archived:  make(map[string]model.ArchivedTask),
		insertErr: make(map[string]error),
		deleteErr: make(map[string]error),
	}
}

func (s *fakeStore) addTask(t model.Task) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tasks[t.ID] = t
}

func (s *fakeStore) addProject(p model.Project) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.projects[p.ID] = p
}

func (s *fakeStore) ListActiveTasks(_ context.Context, ownerID string) ([]model.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if ownerID == "" {
		return nil, model.ErrNoOwner
	}
	if s.listTasksErr != nil {
		return nil, s.listTasksErr
	}
	out := []model.Task{}
	for _, t := range s.tasks {
		if t.OwnerID == ownerID {
			out = append(out, t)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *fakeStore) ListProjects(_ context.Context, ownerID string, includeInactive bool) ([]model.Project, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listProjectsErr != nil {
		return nil, s.listProjectsErr
	}
	out := []model.Project{}
	for _, p := range s.projects {
		if p.OwnerID == ownerID && (includeInactive || p.Active) {
			out = append(out, p)
		}
	}
	return out, nil
}

func (s *fakeStore) InsertArchivedTask(_ context.Context, record model.ArchivedTask) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.insertErr[record.OriginalTaskID]; err != nil {
		return err
	}
	s.inserts++
	s.archived[record.ID] = record
	return nil
}

func (s *fakeStore) GetArchivedTaskByOriginal(_ context.Context, ownerID, taskID string) (*model.ArchivedTask, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.lookupErr != nil {
		return nil, s.lookupErr
	}
	for _, a := range s.archived {
		if a.OwnerID == ownerID && a.OriginalTaskID == taskID {
			return &a, nil
		}
	}
	return nil, model.ErrNotFound
}

func (s *fakeStore) DeleteTask(_ context.Context, ownerID, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.deleteErr[id]; err != nil {
		return err
	}
	t, ok := s.tasks[id]
	if !ok || t.OwnerID != ownerID {
		return model.ErrNotFound
	}
	s.deletes++
	delete(s.tasks, id)
	return nil
}

func (s *fakeStore) ListArchivedTasks(_ context.Context, ownerID string) ([]model.ArchivedTask, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []model.ArchivedTask{}
	for _, a := range s.archived {
		if a.OwnerID == ownerID {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].MovedAt.After(out[j].MovedAt) })
	return out, nil
}

func (s *fakeStore) DeleteArchivedTask(_ context.Context, ownerID, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.archived[id]
	if !ok || a.OwnerID != ownerID {
		return model.ErrNotFound
	}
	delete(s.archived, id)
	return nil
}

func (s *fakeStore) DeleteAllArchivedTasks(_ context.Context, ownerID string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var n int64
	for id, a := range s.archived {
		if a.OwnerID == ownerID {
			delete(s.archived, id)
			n++
		}
	}
	return n, nil
}
