package patient

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
)

type mockRepo struct {
	records map[uuid.UUID]*Patient
}

func newMockRepo() *mockRepo {
	return &mockRepo{records: make(map[uuid.UUID]*Patient)}
}

func (m *mockRepo) Create(_ context.Context, p *Patient) error {
	p.ID = uuid.New()
	p.CreatedAt = time.Now()
	p.UpdatedAt = time.Now()
	m.records[p.ID] = p
	return nil
}

func (m *mockRepo) GetByID(_ context.Context, id uuid.UUID) (*Patient, error) {
	p, ok := m.records[id]
	if !ok {
		return nil, ErrNotFound
	}
	return p, nil
}

func (m *mockRepo) Update(_ context.Context, p *Patient) error {
	if _, ok := m.records[p.ID]; !ok {
		return ErrNotFound
	}
	m.records[p.ID] = p
	return nil
}

func (m *mockRepo) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := m.records[id]; !ok {
		return ErrNotFound
	}
	delete(m.records, id)
	return nil
}

func (m *mockRepo) List(_ context.Context, limit, offset int) ([]*Patient, int, error) {
	var result []*Patient
	for _, p := range m.records {
		result = append(result, p)
	}
	return result, len(result), nil
}

func (m *mockRepo) Exists(_ context.Context, id uuid.UUID) (bool, error) {
	_, ok := m.records[id]
	return ok, nil
}

func TestCreatePatient(t *testing.T) {
	svc := NewService(newMockRepo())
	p := &Patient{FirstName: "Awa", LastName: "Diallo"}
	if err := svc.Create(context.Background(), p); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.ID == uuid.Nil {
		t.Error("expected ID to be set")
	}
}

func TestCreatePatient_NameRequired(t *testing.T) {
	svc := NewService(newMockRepo())
	if err := svc.Create(context.Background(), &Patient{LastName: "Diallo"}); err == nil {
		t.Error("expected error for missing first_name")
	}
	if err := svc.Create(context.Background(), &Patient{FirstName: "Awa"}); err == nil {
		t.Error("expected error for missing last_name")
	}
}

func TestGetPatient_NotFound(t *testing.T) {
	svc := NewService(newMockRepo())
	_, err := svc.Get(context.Background(), uuid.New())
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestExists(t *testing.T) {
	repo := newMockRepo()
	svc := NewService(repo)
	p := &Patient{FirstName: "Awa", LastName: "Diallo"}
	if err := svc.Create(context.Background(), p); err != nil {
		t.Fatal(err)
	}
	ok, err := svc.Exists(context.Background(), p.ID)
	if err != nil || !ok {
		t.Errorf("expected patient to exist, got %v %v", ok, err)
	}
	ok, err = svc.Exists(context.Background(), uuid.New())
	if err != nil || ok {
		t.Errorf("expected unknown id to not exist, got %v %v", ok, err)
	}
}

func TestDeletePatient(t *testing.T) {
	repo := newMockRepo()
	svc := NewService(repo)
	p := &Patient{FirstName: "Awa", LastName: "Diallo"}
	if err := svc.Create(context.Background(), p); err != nil {
		t.Fatal(err)
	}
	if err := svc.Delete(context.Background(), p.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := svc.Get(context.Background(), p.ID); !errors.Is(err, ErrNotFound) {
		t.Error("expected patient to be gone")
	}
}
