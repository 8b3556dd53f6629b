// Package repository resolves part identifiers to sequences.
package repository

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"dnamix/internal/dna"
)

var (
	ErrNotFound = errors.New("repository: sequence not found")
	ErrHeader   = errors.New("repository: malformed FASTA header")
)

// Repository looks sequences up by ID.
type Repository interface {
	Get(ctx context.Context, id string) (*dna.Sequence, error)
	List(ctx context.Context) ([]string, error)
}

// Resolve fetches ids in order, failing on the first missing one.
func Resolve(ctx context.Context, r Repository, ids ...string) ([]*dna.Sequence, error) {
	out := make([]*dna.Sequence, 0, len(ids))
	for _, id := range ids {
		s, err := r.Get(ctx, id)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, nil
}

// All returns every sequence of r, in List order.
func All(ctx context.Context, r Repository) ([]*dna.Sequence, error) {
	ids, err := r.List(ctx)
	if err != nil {
		return nil, err
	}
	return Resolve(ctx, r, ids...)
}

// Memory is a concurrency-safe in-memory repository.
type Memory struct {
	mu      sync.RWMutex
	records map[string]*dna.Sequence
}

func NewMemory(seqs ...*dna.Sequence) *Memory {
	m := &Memory{records: make(map[string]*dna.Sequence, len(seqs))}
	for _, s := range seqs {
		m.records[s.ID()] = s
	}
	return m
}

// Put stores s, replacing any sequence with the same ID.
func (m *Memory) Put(_ context.Context, s *dna.Sequence) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records[s.ID()] = s
	return nil
}

func (m *Memory) Get(_ context.Context, id string) (*dna.Sequence, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.records[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return s, nil
}

// List returns the IDs in lexical order.
func (m *Memory) List(_ context.Context) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	ids := make([]string, 0, len(m.records))
	for id := range m.records {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}
