package catalog

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clinicore/clinic-api/internal/model"
	"github.com/clinicore/clinic-api/internal/repository"
	apperrors "github.com/clinicore/clinic-api/pkg/errors"
)

type fakeServiceRepo struct {
	services   map[uuid.UUID]*model.Service
	referenced map[uuid.UUID]bool
}

func (f *fakeServiceRepo) Create(_ context.Context, s *model.Service) error {
	s.ID = uuid.New()
	s.IsActive = true
	f.services[s.ID] = s
	return nil
}

func (f *fakeServiceRepo) Get(_ context.Context, clinicID, id uuid.UUID) (*model.Service, error) {
	s, ok := f.services[id]
	if !ok || s.ClinicID != clinicID {
		return nil, repository.ErrNotFound
	}
	copied := *s
	return &copied, nil
}

func (f *fakeServiceRepo) Update(_ context.Context, s *model.Service) error {
	if _, ok := f.services[s.ID]; !ok {
		return repository.ErrNotFound
	}
	copied := *s
	f.services[s.ID] = &copied
	return nil
}

func (f *fakeServiceRepo) Delete(_ context.Context, clinicID, id uuid.UUID) error {
	s, ok := f.services[id]
	if !ok || s.ClinicID != clinicID {
		return repository.ErrNotFound
	}
	delete(f.services, id)
	return nil
}

func (f *fakeServiceRepo) Deactivate(_ context.Context, clinicID, id uuid.UUID) error {
	s, ok := f.services[id]
	if !ok || s.ClinicID != clinicID {
		return repository.ErrNotFound
	}
	s.IsActive = false
	return nil
}

func (f *fakeServiceRepo) List(_ context.Context, clinicID uuid.UUID, activeOnly bool) ([]*model.Service, error) {
	var out []*model.Service
	for _, s := range f.services {
		if s.ClinicID != clinicID {
			continue
		}
		if activeOnly && !s.IsActive {
			continue
		}
		out = append(out, s)
	}
	return out, nil
}

func (f *fakeServiceRepo) HasAppointments(_ context.Context, id uuid.UUID) (bool, error) {
	return f.referenced[id], nil
}

func newFixture() (*Service, *fakeServiceRepo, *model.AccessContext) {
	repo := &fakeServiceRepo{
		services:   map[uuid.UUID]*model.Service{},
		referenced: map[uuid.UUID]bool{},
	}
	actx := &model.AccessContext{
		AccountID: uuid.New(),
		ClinicID:  uuid.New(),
		Role:      model.RoleAdmin,
	}
	return NewService(repo), repo, actx
}

func TestCreateActivatesService(t *testing.T) {
	svc, _, actx := newFixture()

	created, err := svc.Create(context.Background(), actx, &model.CreateServiceRequest{
		Name:     "Consultation",
		Duration: 30,
		Price:    50,
	})
	require.NoError(t, err)
	assert.True(t, created.IsActive)
	assert.Equal(t, actx.ClinicID, created.ClinicID)
}

func TestDeleteUnreferencedServiceRemovesRow(t *testing.T) {
	svc, repo, actx := newFixture()
	created, err := svc.Create(context.Background(), actx, &model.CreateServiceRequest{
		Name: "Cleaning", Duration: 45,
	})
	require.NoError(t, err)

	deactivated, err := svc.Delete(context.Background(), actx, created.ID)
	require.NoError(t, err)
	assert.False(t, deactivated)
	assert.NotContains(t, repo.services, created.ID)
}

func TestDeleteReferencedServiceDeactivates(t *testing.T) {
	svc, repo, actx := newFixture()
	created, err := svc.Create(context.Background(), actx, &model.CreateServiceRequest{
		Name: "X-Ray", Duration: 15,
	})
	require.NoError(t, err)
	repo.referenced[created.ID] = true

	deactivated, err := svc.Delete(context.Background(), actx, created.ID)
	require.NoError(t, err)
	assert.True(t, deactivated)

	kept := repo.services[created.ID]
	require.NotNil(t, kept)
	assert.False(t, kept.IsActive)
}

func TestGetIsClinicScoped(t *testing.T) {
	svc, _, actx := newFixture()
	created, err := svc.Create(context.Background(), actx, &model.CreateServiceRequest{
		Name: "Consultation", Duration: 30,
	})
	require.NoError(t, err)

	stranger := &model.AccessContext{
		AccountID: uuid.New(),
		ClinicID:  uuid.New(),
		Role:      model.RoleAdmin,
	}
	_, err = svc.Get(context.Background(), stranger, created.ID)
	assert.True(t, apperrors.IsCode(err, apperrors.ErrNotFound))
}

func TestListActiveOnlyHidesDeactivated(t *testing.T) {
	svc, repo, actx := newFixture()
	a, _ := svc.Create(context.Background(), actx, &model.CreateServiceRequest{Name: "A", Duration: 10})
	_, err := svc.Create(context.Background(), actx, &model.CreateServiceRequest{Name: "B", Duration: 10})
	require.NoError(t, err)

	repo.referenced[a.ID] = true
	_, err = svc.Delete(context.Background(), actx, a.ID)
	require.NoError(t, err)

	active, err := svc.List(context.Background(), actx, true)
	require.NoError(t, err)
	assert.Len(t, active, 1)

	all, err := svc.List(context.Background(), actx, false)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}
