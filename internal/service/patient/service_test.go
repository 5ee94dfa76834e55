package patient

import (
	"context"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clinicore/clinic-api/internal/model"
	"github.com/clinicore/clinic-api/internal/repository"
	apperrors "github.com/clinicore/clinic-api/pkg/errors"
)

type fakePatientRepo struct {
	patients map[uuid.UUID]*model.Patient
}

func (f *fakePatientRepo) emailTaken(clinicID uuid.UUID, email *string, excludeID uuid.UUID) bool {
	if email == nil {
		return false
	}
	for _, p := range f.patients {
		if p.ID == excludeID || p.ClinicID != clinicID || p.Email == nil {
			continue
		}
		if *p.Email == *email {
			return true
		}
	}
	return false
}

func (f *fakePatientRepo) Create(_ context.Context, p *model.Patient) error {
	if f.emailTaken(p.ClinicID, p.Email, uuid.Nil) {
		return repository.ErrDuplicate
	}
	p.ID = uuid.New()
	f.patients[p.ID] = p
	return nil
}

func (f *fakePatientRepo) Get(_ context.Context, clinicID, id uuid.UUID) (*model.Patient, error) {
	p, ok := f.patients[id]
	if !ok || p.ClinicID != clinicID {
		return nil, repository.ErrNotFound
	}
	copied := *p
	return &copied, nil
}

func (f *fakePatientRepo) Update(_ context.Context, p *model.Patient) error {
	if f.emailTaken(p.ClinicID, p.Email, p.ID) {
		return repository.ErrDuplicate
	}
	copied := *p
	f.patients[p.ID] = &copied
	return nil
}

func (f *fakePatientRepo) Delete(_ context.Context, clinicID, id uuid.UUID) error {
	p, ok := f.patients[id]
	if !ok || p.ClinicID != clinicID {
		return repository.ErrNotFound
	}
	delete(f.patients, id)
	return nil
}

func (f *fakePatientRepo) List(_ context.Context, clinicID uuid.UUID, filters *model.PatientFilters) ([]*model.Patient, error) {
	var out []*model.Patient
	for _, p := range f.patients {
		if p.ClinicID != clinicID {
			continue
		}
		if filters != nil && filters.Search != "" {
			name := strings.ToLower(p.FirstName + " " + p.LastName)
			if !strings.Contains(name, strings.ToLower(filters.Search)) {
				continue
			}
		}
		out = append(out, p)
	}
	return out, nil
}

func (f *fakePatientRepo) GetByEmail(_ context.Context, clinicID uuid.UUID, email string) (*model.Patient, error) {
	for _, p := range f.patients {
		if p.ClinicID == clinicID && p.Email != nil && *p.Email == email {
			return p, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (f *fakePatientRepo) ListByEmail(_ context.Context, email string) ([]*model.Patient, error) {
	var out []*model.Patient
	for _, p := range f.patients {
		if p.Email != nil && *p.Email == email {
			out = append(out, p)
		}
	}
	return out, nil
}

func strptr(s string) *string { return &s }

func newFixture() (*Service, *model.AccessContext) {
	repo := &fakePatientRepo{patients: map[uuid.UUID]*model.Patient{}}
	actx := &model.AccessContext{
		AccountID: uuid.New(),
		ClinicID:  uuid.New(),
		Role:      model.RoleReceptionist,
	}
	return NewService(repo), actx
}

func TestCreateNormalizesEmail(t *testing.T) {
	svc, actx := newFixture()

	p, err := svc.Create(context.Background(), actx, &model.CreatePatientRequest{
		FirstName: "Ada",
		LastName:  "Example",
		Email:     strptr("  Ada@Example.COM "),
	})
	require.NoError(t, err)
	require.NotNil(t, p.Email)
	assert.Equal(t, "ada@example.com", *p.Email)
}

func TestCreateDuplicateEmailInClinicConflicts(t *testing.T) {
	svc, actx := newFixture()

	req := &model.CreatePatientRequest{
		FirstName: "Ada", LastName: "Example", Email: strptr("ada@example.com"),
	}
	_, err := svc.Create(context.Background(), actx, req)
	require.NoError(t, err)

	_, err = svc.Create(context.Background(), actx, req)
	assert.True(t, apperrors.IsCode(err, apperrors.ErrConflict))
}

func TestSameEmailAllowedAcrossClinics(t *testing.T) {
	repo := &fakePatientRepo{patients: map[uuid.UUID]*model.Patient{}}
	svc := NewService(repo)

	a := &model.AccessContext{ClinicID: uuid.New(), Role: model.RoleAdmin}
	b := &model.AccessContext{ClinicID: uuid.New(), Role: model.RoleAdmin}

	req := &model.CreatePatientRequest{
		FirstName: "Ada", LastName: "Example", Email: strptr("ada@example.com"),
	}
	_, err := svc.Create(context.Background(), a, req)
	require.NoError(t, err)
	_, err = svc.Create(context.Background(), b, req)
	require.NoError(t, err)
}

func TestPatientsWithoutEmailNeverCollide(t *testing.T) {
	svc, actx := newFixture()

	for i := 0; i < 3; i++ {
		_, err := svc.Create(context.Background(), actx, &model.CreatePatientRequest{
			FirstName: "Walk", LastName: "In",
		})
		require.NoError(t, err)
	}
}

func TestGetIsClinicScoped(t *testing.T) {
	svc, actx := newFixture()
	p, err := svc.Create(context.Background(), actx, &model.CreatePatientRequest{
		FirstName: "Ada", LastName: "Example",
	})
	require.NoError(t, err)

	stranger := &model.AccessContext{ClinicID: uuid.New(), Role: model.RoleAdmin}
	_, err = svc.Get(context.Background(), stranger, p.ID)
	assert.True(t, apperrors.IsCode(err, apperrors.ErrNotFound))
}

func TestListSearchFilters(t *testing.T) {
	svc, actx := newFixture()
	_, err := svc.Create(context.Background(), actx, &model.CreatePatientRequest{
		FirstName: "Ada", LastName: "Lovelace",
	})
	require.NoError(t, err)
	_, err = svc.Create(context.Background(), actx, &model.CreatePatientRequest{
		FirstName: "Grace", LastName: "Hopper",
	})
	require.NoError(t, err)

	out, err := svc.List(context.Background(), actx, &model.PatientFilters{Search: "love"})
	require.NoError(t, err)
	assert.Len(t, out, 1)
}

func TestClinicalFieldsRedactedWithoutMedicalRecordsAction(t *testing.T) {
	svc, receptionist := newFixture()
	doctor := &model.AccessContext{
		AccountID: uuid.New(),
		ClinicID:  receptionist.ClinicID,
		Role:      model.RoleDoctor,
	}

	created, err := svc.Create(context.Background(), receptionist, &model.CreatePatientRequest{
		FirstName: "Ada",
		LastName:  "Lovelace",
		Phone:     strptr("555-0100"),
		BloodType: strptr("O+"),
		Allergies: strptr("penicillin"),
	})
	require.NoError(t, err)

	// Receptionist reads keep the demographics but never the clinical data.
	got, err := svc.Get(context.Background(), receptionist, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Ada", got.FirstName)
	assert.NotNil(t, got.Phone)
	assert.Nil(t, got.BloodType)
	assert.Nil(t, got.Allergies)

	listed, err := svc.List(context.Background(), receptionist, nil)
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.Nil(t, listed[0].BloodType)
	assert.Nil(t, listed[0].Allergies)

	// Doctors hold VIEW_MEDICAL_RECORDS and see the full record.
	full, err := svc.Get(context.Background(), doctor, created.ID)
	require.NoError(t, err)
	require.NotNil(t, full.BloodType)
	assert.Equal(t, "O+", *full.BloodType)
}

func TestReceptionistUpdatePreservesClinicalFields(t *testing.T) {
	svc, receptionist := newFixture()
	doctor := &model.AccessContext{
		AccountID: uuid.New(),
		ClinicID:  receptionist.ClinicID,
		Role:      model.RoleDoctor,
	}

	created, err := svc.Create(context.Background(), receptionist, &model.CreatePatientRequest{
		FirstName: "Grace",
		LastName:  "Hopper",
		BloodType: strptr("AB-"),
		Allergies: strptr("latex"),
	})
	require.NoError(t, err)

	updated, err := svc.Update(context.Background(), receptionist, created.ID,
		&model.UpdatePatientRequest{Phone: strptr("555-0101")})
	require.NoError(t, err)
	assert.Nil(t, updated.BloodType)

	// The stored row must keep its clinical columns through the update.
	full, err := svc.Get(context.Background(), doctor, created.ID)
	require.NoError(t, err)
	require.NotNil(t, full.BloodType)
	assert.Equal(t, "AB-", *full.BloodType)
	require.NotNil(t, full.Allergies)
	assert.Equal(t, "latex", *full.Allergies)
	require.NotNil(t, full.Phone)
	assert.Equal(t, "555-0101", *full.Phone)
}
