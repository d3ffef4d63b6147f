package repository

import (
	"context"
	"slices"
	"sync"
)

// MemoryPersonRepository keeps records in process memory.
//
// It is the default store and the one used by tests. Records are kept in
// insertion order; index maps an identifier to its position.
type MemoryPersonRepository struct {
	mu      sync.RWMutex
	index   map[string]int
	persons []Person
}

var _ PersonRepository = (*MemoryPersonRepository)(nil)

// NewMemoryPersonRepository returns a store pre-filled with seed records.
// Seeds without an identifier get a fresh one.
func NewMemoryPersonRepository(seed ...Person) *MemoryPersonRepository {
	r := &MemoryPersonRepository{
		index:   make(map[string]int, len(seed)),
		persons: make([]Person, 0, len(seed)),
	}
	for _, p := range seed {
		if p.ID == "" {
			p.ID = newID()
		}
		r.index[p.ID] = len(r.persons)
		r.persons = append(r.persons, p)
	}
	return r
}

func (r *MemoryPersonRepository) FindAll(_ context.Context) ([]Person, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Clone(r.persons), nil
}

func (r *MemoryPersonRepository) Count(_ context.Context) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.persons), nil
}

func (r *MemoryPersonRepository) FindByID(_ context.Context, id string) (*Person, error) {
	id, err := ParseID(id)
	if err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()
	i, ok := r.index[id]
	if !ok {
		return nil, ErrNotFound
	}
	p := r.persons[i]
	return &p, nil
}

func (r *MemoryPersonRepository) Insert(_ context.Context, fields PersonFields) (*Person, error) {
	if err := checkSchema(fields); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	id := newID()
	for {
		if _, taken := r.index[id]; !taken {
			break
		}
		id = newID()
	}
	p := Person{ID: id, Name: fields.Name, Number: fields.Number}
	r.index[id] = len(r.persons)
	r.persons = append(r.persons, p)
	return &p, nil
}

func (r *MemoryPersonRepository) UpdateByID(_ context.Context, id string, fields PersonFields) (*Person, error) {
	id, err := ParseID(id)
	if err != nil {
		return nil, err
	}
	if err := checkSchema(fields); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	i, ok := r.index[id]
	if !ok {
		return nil, ErrNotFound
	}
	r.persons[i].Name = fields.Name
	r.persons[i].Number = fields.Number
	p := r.persons[i]
	return &p, nil
}

func (r *MemoryPersonRepository) DeleteByID(_ context.Context, id string) error {
	id, err := ParseID(id)
	if err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	i, ok := r.index[id]
	if !ok {
		return nil
	}
	delete(r.index, id)
	r.persons = slices.Delete(r.persons, i, i+1)
	for j := i; j < len(r.persons); j++ {
		r.index[r.persons[j].ID] = j
	}
	return nil
}
