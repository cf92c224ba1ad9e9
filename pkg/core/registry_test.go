package core

import (
	"context"
	"testing"
)

type stubSource struct {
	domain DomainType
	closed bool
}

func (s *stubSource) Domain() DomainType { return s.domain }
func (s *stubSource) Name() string       { return string(s.domain) + "-stub" }
func (s *stubSource) Search(ctx context.Context, query string, filter SearchFilter, limit int) ([]SearchResult, error) {
	return nil, nil
}
func (s *stubSource) Close() error { s.closed = true; return nil }
func (s *stubSource) Factory(store RecordQuerier) (DomainSource, error) {
	return &stubSource{domain: s.domain}, nil
}

func TestRegistryCreateAndGetSource(t *testing.T) {
	registry := NewRegistry()
	registry.prototypes[DomainTask] = &stubSource{domain: DomainTask}

	if err := registry.CreateSource(DomainTask, nil); err != nil {
		t.Fatalf("CreateSource: %v", err)
	}

	source, err := registry.GetSource(DomainTask)
	if err != nil {
		t.Fatalf("GetSource: %v", err)
	}
	if source.Domain() != DomainTask {
		t.Errorf("expected task source, got %v", source.Domain())
	}
}

func TestRegistryUnknownDomain(t *testing.T) {
	registry := NewRegistry()

	if err := registry.CreateSource(DomainTeam, nil); err == nil {
		t.Error("expected error creating source without prototype")
	}
	if _, err := registry.GetSource(DomainTeam); err == nil {
		t.Error("expected error getting missing source")
	}
}

func TestRegistryActiveDomainsCanonicalOrder(t *testing.T) {
	registry := NewRegistry()
	for _, d := range []DomainType{DomainUser, DomainTask} {
		registry.prototypes[d] = &stubSource{domain: d}
		if err := registry.CreateSource(d, nil); err != nil {
			t.Fatalf("CreateSource(%s): %v", d, err)
		}
	}

	domains := registry.ActiveDomains()
	if len(domains) != 2 || domains[0] != DomainTask || domains[1] != DomainUser {
		t.Errorf("expected [task user], got %v", domains)
	}
}

func TestRegistryCloseShutsDownSources(t *testing.T) {
	registry := NewRegistry()
	registry.prototypes[DomainTask] = &stubSource{domain: DomainTask}
	if err := registry.CreateSource(DomainTask, nil); err != nil {
		t.Fatalf("CreateSource: %v", err)
	}
	source, _ := registry.GetSource(DomainTask)

	if err := registry.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if !source.(*stubSource).closed {
		t.Error("source not closed")
	}
	if _, err := registry.GetSource(DomainTask); err == nil {
		t.Error("expected error after Close")
	}
}
