package appointment

import (
	"context"
	"testing"
	"time"

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

func (f *fakePatientRepo) Create(_ context.Context, p *model.Patient) error {
	f.patients[p.ID] = p
	return nil
}

func (f *fakePatientRepo) Get(_ context.Context, clinicID, id uuid.UUID) (*model.Patient, error) {
	p, ok := f.patients[id]
	if !ok || p.ClinicID != clinicID {
		return nil, repository.ErrNotFound
	}
	return p, nil
}

func (f *fakePatientRepo) Update(context.Context, *model.Patient) error { return nil }
func (f *fakePatientRepo) Delete(context.Context, uuid.UUID, uuid.UUID) error {
	return nil
}
func (f *fakePatientRepo) List(context.Context, uuid.UUID, *model.PatientFilters) ([]*model.Patient, error) {
	return nil, nil
}
func (f *fakePatientRepo) GetByEmail(context.Context, uuid.UUID, string) (*model.Patient, error) {
	return nil, repository.ErrNotFound
}
func (f *fakePatientRepo) ListByEmail(context.Context, string) ([]*model.Patient, error) {
	return nil, nil
}

type fakeServiceRepo struct {
	services map[uuid.UUID]*model.Service
}

func (f *fakeServiceRepo) Create(_ context.Context, s *model.Service) error {
	f.services[s.ID] = s
	return nil
}

func (f *fakeServiceRepo) Get(_ context.Context, clinicID, id uuid.UUID) (*model.Service, error) {
	s, ok := f.services[id]
	if !ok || s.ClinicID != clinicID {
		return nil, repository.ErrNotFound
	}
	return s, nil
}

func (f *fakeServiceRepo) Update(context.Context, *model.Service) error          { return nil }
func (f *fakeServiceRepo) Delete(context.Context, uuid.UUID, uuid.UUID) error    { return nil }
func (f *fakeServiceRepo) Deactivate(context.Context, uuid.UUID, uuid.UUID) error { return nil }
func (f *fakeServiceRepo) List(context.Context, uuid.UUID, bool) ([]*model.Service, error) {
	return nil, nil
}
func (f *fakeServiceRepo) HasAppointments(context.Context, uuid.UUID) (bool, error) {
	return false, nil
}

// fakeAppointmentRepo mirrors the transactional conflict semantics of the
// real implementation in memory.
type fakeAppointmentRepo struct {
	appointments map[uuid.UUID]*model.Appointment
}

func (f *fakeAppointmentRepo) conflicts(clinicID uuid.UUID, start time.Time, duration int,
	excludeID, practitionerID *uuid.UUID) bool {
	for _, apt := range f.appointments {
		if apt.ClinicID != clinicID || !apt.Status.BlocksCalendar() {
			continue
		}
		if excludeID != nil && apt.ID == *excludeID {
			continue
		}
		if practitionerID != nil &&
			(apt.AssignedUserID == nil || *apt.AssignedUserID != *practitionerID) {
			continue
		}
		if apt.Overlaps(start, duration) {
			return true
		}
	}
	return false
}

func scopeFilter(apt *model.Appointment, scope model.ConflictScope) *uuid.UUID {
	if scope == model.ConflictScopePractitioner {
		return apt.AssignedUserID
	}
	return nil
}

func (f *fakeAppointmentRepo) Create(_ context.Context, apt *model.Appointment, scope model.ConflictScope) error {
	if f.conflicts(apt.ClinicID, apt.StartTime, apt.Duration, nil, scopeFilter(apt, scope)) {
		return repository.ErrSlotConflict
	}
	apt.ID = uuid.New()
	f.appointments[apt.ID] = apt
	return nil
}

func (f *fakeAppointmentRepo) Get(_ context.Context, clinicID, id uuid.UUID) (*model.Appointment, error) {
	apt, ok := f.appointments[id]
	if !ok || apt.ClinicID != clinicID {
		return nil, repository.ErrNotFound
	}
	copied := *apt
	return &copied, nil
}

func (f *fakeAppointmentRepo) Update(_ context.Context, apt *model.Appointment, checkConflict bool, scope model.ConflictScope) error {
	if _, ok := f.appointments[apt.ID]; !ok {
		return repository.ErrNotFound
	}
	if checkConflict {
		id := apt.ID
		if f.conflicts(apt.ClinicID, apt.StartTime, apt.Duration, &id, scopeFilter(apt, scope)) {
			return repository.ErrSlotConflict
		}
	}
	copied := *apt
	f.appointments[apt.ID] = &copied
	return nil
}

func (f *fakeAppointmentRepo) Delete(_ context.Context, clinicID, id uuid.UUID) error {
	apt, ok := f.appointments[id]
	if !ok || apt.ClinicID != clinicID {
		return repository.ErrNotFound
	}
	delete(f.appointments, id)
	return nil
}

func (f *fakeAppointmentRepo) List(_ context.Context, clinicID uuid.UUID, filters *model.AppointmentFilters) ([]*model.Appointment, error) {
	var out []*model.Appointment
	for _, apt := range f.appointments {
		if apt.ClinicID != clinicID {
			continue
		}
		if filters.AssignedUserID != nil &&
			(apt.AssignedUserID == nil || *apt.AssignedUserID != *filters.AssignedUserID) {
			continue
		}
		out = append(out, apt)
	}
	return out, nil
}

func (f *fakeAppointmentRepo) HasConflict(_ context.Context, clinicID uuid.UUID, start time.Time,
	duration int, excludeID, practitionerID *uuid.UUID) (bool, error) {
	return f.conflicts(clinicID, start, duration, excludeID, practitionerID), nil
}

func (f *fakeAppointmentRepo) ListForPatients(context.Context, []uuid.UUID, bool, bool) ([]*model.Appointment, error) {
	return nil, nil
}

type fixture struct {
	svc       *Service
	repo      *fakeAppointmentRepo
	clinicID  uuid.UUID
	patientID uuid.UUID
	serviceID uuid.UUID
	admin     *model.AccessContext
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	clinicID := uuid.New()
	patientID := uuid.New()
	serviceID := uuid.New()

	patients := &fakePatientRepo{patients: map[uuid.UUID]*model.Patient{
		patientID: {Base: model.Base{ID: patientID}, ClinicID: clinicID,
			FirstName: "Ada", LastName: "Example"},
	}}
	services := &fakeServiceRepo{services: map[uuid.UUID]*model.Service{
		serviceID: {Base: model.Base{ID: serviceID}, ClinicID: clinicID, Name: "Consultation",
			Duration: 30, IsActive: true},
	}}
	repo := &fakeAppointmentRepo{appointments: map[uuid.UUID]*model.Appointment{}}

	return &fixture{
		svc:       NewService(repo, patients, services),
		repo:      repo,
		clinicID:  clinicID,
		patientID: patientID,
		serviceID: serviceID,
		admin: &model.AccessContext{
			AccountID: uuid.New(),
			ClinicID:  clinicID,
			Role:      model.RoleAdmin,
		},
	}
}

var slot = time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)

func (f *fixture) book(t *testing.T, start time.Time) *model.Appointment {
	t.Helper()
	apt, err := f.svc.Create(context.Background(), f.admin, &model.CreateAppointmentRequest{
		PatientID: f.patientID,
		ServiceID: f.serviceID,
		StartTime: start,
	})
	require.NoError(t, err)
	return apt
}

func TestCreateCopiesDurationFromService(t *testing.T) {
	f := newFixture(t)

	apt := f.book(t, slot)
	assert.Equal(t, 30, apt.Duration)
	assert.Equal(t, model.AppointmentStatusScheduled, apt.Status)
	assert.Equal(t, f.clinicID, apt.ClinicID)
}

func TestCreateRejectsInactiveService(t *testing.T) {
	f := newFixture(t)

	inactiveID := uuid.New()
	svc := &fakeServiceRepo{services: map[uuid.UUID]*model.Service{
		inactiveID: {Base: model.Base{ID: inactiveID}, ClinicID: f.clinicID, Duration: 30},
	}}
	patients := &fakePatientRepo{patients: map[uuid.UUID]*model.Patient{
		f.patientID: {Base: model.Base{ID: f.patientID}, ClinicID: f.clinicID},
	}}
	service := NewService(f.repo, patients, svc)

	_, err := service.Create(context.Background(), f.admin, &model.CreateAppointmentRequest{
		PatientID: f.patientID,
		ServiceID: inactiveID,
		StartTime: slot,
	})
	assert.True(t, apperrors.IsCode(err, apperrors.ErrNotFound))
}

func TestCreateRejectsOverlappingSlot(t *testing.T) {
	f := newFixture(t)
	f.book(t, slot)

	_, err := f.svc.Create(context.Background(), f.admin, &model.CreateAppointmentRequest{
		PatientID: f.patientID,
		ServiceID: f.serviceID,
		StartTime: slot.Add(15 * time.Minute),
	})
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, apperrors.ErrConflict))
}

func TestCreateAllowsBackToBackSlots(t *testing.T) {
	f := newFixture(t)
	f.book(t, slot)
	f.book(t, slot.Add(30*time.Minute))
	f.book(t, slot.Add(-30*time.Minute))
}

func TestCancelledSlotFreesCalendar(t *testing.T) {
	f := newFixture(t)
	apt := f.book(t, slot)

	status := model.AppointmentStatusCancelled
	_, err := f.svc.Update(context.Background(), f.admin, apt.ID, &model.UpdateAppointmentRequest{
		Status: &status,
	})
	require.NoError(t, err)

	f.book(t, slot)
}

func TestDoctorBooksOntoOwnScheduleOnly(t *testing.T) {
	f := newFixture(t)
	doctor := &model.AccessContext{
		AccountID: uuid.New(),
		ClinicID:  f.clinicID,
		Role:      model.RoleDoctor,
	}

	// Assigning someone else is forbidden.
	other := uuid.New()
	_, err := f.svc.Create(context.Background(), doctor, &model.CreateAppointmentRequest{
		PatientID:      f.patientID,
		ServiceID:      f.serviceID,
		StartTime:      slot,
		AssignedUserID: &other,
	})
	assert.True(t, apperrors.IsCode(err, apperrors.ErrForbidden))

	// Leaving assignment empty self-assigns.
	apt, err := f.svc.Create(context.Background(), doctor, &model.CreateAppointmentRequest{
		PatientID: f.patientID,
		ServiceID: f.serviceID,
		StartTime: slot,
	})
	require.NoError(t, err)
	require.NotNil(t, apt.AssignedUserID)
	assert.Equal(t, doctor.AccountID, *apt.AssignedUserID)
}

func TestDoctorCannotReadOtherDoctorsAppointment(t *testing.T) {
	f := newFixture(t)
	apt := f.book(t, slot)

	doctor := &model.AccessContext{
		AccountID: uuid.New(),
		ClinicID:  f.clinicID,
		Role:      model.RoleDoctor,
	}
	_, err := f.svc.Get(context.Background(), doctor, apt.ID)
	assert.True(t, apperrors.IsCode(err, apperrors.ErrForbidden))
}

func TestDoctorListIsScopedToOwnRows(t *testing.T) {
	f := newFixture(t)
	doctorID := uuid.New()

	f.book(t, slot)
	mine := f.book(t, slot.Add(time.Hour))
	mine.AssignedUserID = &doctorID
	f.repo.appointments[mine.ID] = mine

	doctor := &model.AccessContext{
		AccountID: doctorID,
		ClinicID:  f.clinicID,
		Role:      model.RoleDoctor,
	}
	out, err := f.svc.List(context.Background(), doctor, nil)
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, mine.ID, out[0].ID)
}

func TestUpdateRejectsInvalidTransition(t *testing.T) {
	f := newFixture(t)
	apt := f.book(t, slot)

	status := model.AppointmentStatusCompleted
	_, err := f.svc.Update(context.Background(), f.admin, apt.ID, &model.UpdateAppointmentRequest{
		Status: &status,
	})
	assert.True(t, apperrors.IsCode(err, apperrors.ErrBadRequest))
}

func TestUpdateRejectsRescheduleOfClosedAppointment(t *testing.T) {
	f := newFixture(t)
	apt := f.book(t, slot)

	cancelled := model.AppointmentStatusCancelled
	_, err := f.svc.Update(context.Background(), f.admin, apt.ID, &model.UpdateAppointmentRequest{
		Status: &cancelled,
	})
	require.NoError(t, err)

	newStart := slot.Add(2 * time.Hour)
	_, err = f.svc.Update(context.Background(), f.admin, apt.ID, &model.UpdateAppointmentRequest{
		StartTime: &newStart,
	})
	assert.True(t, apperrors.IsCode(err, apperrors.ErrBadRequest))
}

func TestRescheduleExcludesSelfFromConflictScan(t *testing.T) {
	f := newFixture(t)
	apt := f.book(t, slot)

	// Shifting within its own original window must not self-conflict.
	newStart := slot.Add(10 * time.Minute)
	updated, err := f.svc.Update(context.Background(), f.admin, apt.ID, &model.UpdateAppointmentRequest{
		StartTime: &newStart,
	})
	require.NoError(t, err)
	assert.Equal(t, newStart, updated.StartTime)
}

func TestRescheduleIntoTakenSlotConflicts(t *testing.T) {
	f := newFixture(t)
	f.book(t, slot)
	apt := f.book(t, slot.Add(time.Hour))

	newStart := slot.Add(15 * time.Minute)
	_, err := f.svc.Update(context.Background(), f.admin, apt.ID, &model.UpdateAppointmentRequest{
		StartTime: &newStart,
	})
	assert.True(t, apperrors.IsCode(err, apperrors.ErrConflict))
}

func TestDurationImmutableOnUpdate(t *testing.T) {
	f := newFixture(t)
	apt := f.book(t, slot)

	notes := "follow-up"
	updated, err := f.svc.Update(context.Background(), f.admin, apt.ID, &model.UpdateAppointmentRequest{
		Notes: &notes,
	})
	require.NoError(t, err)
	assert.Equal(t, 30, updated.Duration)
}

func TestCheckAvailability(t *testing.T) {
	f := newFixture(t)

	available, err := f.svc.CheckAvailability(context.Background(), f.admin, f.serviceID, slot)
	require.NoError(t, err)
	assert.True(t, available)

	f.book(t, slot)

	available, err = f.svc.CheckAvailability(context.Background(), f.admin, f.serviceID, slot)
	require.NoError(t, err)
	assert.False(t, available)

	// Back-to-back with the booked slot stays free.
	available, err = f.svc.CheckAvailability(context.Background(), f.admin, f.serviceID,
		slot.Add(30*time.Minute))
	require.NoError(t, err)
	assert.True(t, available)

	_, err = f.svc.CheckAvailability(context.Background(), f.admin, uuid.New(), slot)
	assert.True(t, apperrors.IsCode(err, apperrors.ErrNotFound))
}
