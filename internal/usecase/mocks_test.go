package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/auditra/auditra/internal/domain"
	"github.com/auditra/auditra/internal/ports"
)

// In-memory fakes for the stateful collaborators

type fakeAuditRepo struct {
	audits map[string]*domain.Audit
}

func newFakeAuditRepo(audits ...*domain.Audit) *fakeAuditRepo {
	repo := &fakeAuditRepo{audits: make(map[string]*domain.Audit)}
	for _, a := range audits {
		repo.audits[a.ID] = a
	}
	return repo
}

func (r *fakeAuditRepo) Create(ctx context.Context, audit *domain.Audit) error {
	r.audits[audit.ID] = audit
	return nil
}

func (r *fakeAuditRepo) FindByID(ctx context.Context, id string) (*domain.Audit, error) {
	audit, ok := r.audits[id]
	if !ok {
		return nil, domain.ErrAuditNotFound
	}
	return audit, nil
}

func (r *fakeAuditRepo) Update(ctx context.Context, audit *domain.Audit) error {
	if _, ok := r.audits[audit.ID]; !ok {
		return domain.ErrAuditNotFound
	}
	r.audits[audit.ID] = audit
	return nil
}

func (r *fakeAuditRepo) ListByAuditorPeriodUnit(ctx context.Context, auditorID string, period domain.Period, unitID string) ([]*domain.Audit, error) {
	var out []*domain.Audit
	for _, a := range r.audits {
		if a.AuditorID == auditorID && a.UnitID == unitID && a.Period() == period {
			out = append(out, a)
		}
	}
	// stable order, mirroring the SQL ORDER BY
	for i := 0; i < len(out); i++ {
		for j := i + 1; j < len(out); j++ {
			if out[j].AuditDate.Before(out[i].AuditDate) ||
				(out[j].AuditDate.Equal(out[i].AuditDate) && out[j].ID < out[i].ID) {
				out[i], out[j] = out[j], out[i]
			}
		}
	}
	return out, nil
}

func (r *fakeAuditRepo) Delete(ctx context.Context, id string) error {
	if _, ok := r.audits[id]; !ok {
		return domain.ErrAuditNotFound
	}
	delete(r.audits, id)
	return nil
}

type fakeEvaluationRepo struct {
	evals map[string]*domain.Evaluation
}

func newFakeEvaluationRepo() *fakeEvaluationRepo {
	return &fakeEvaluationRepo{evals: make(map[string]*domain.Evaluation)}
}

func evalKey(auditorID string, period domain.Period, unitID string) string {
	return fmt.Sprintf("%s|%s|%s", auditorID, period, unitID)
}

func (r *fakeEvaluationRepo) Create(ctx context.Context, eval *domain.Evaluation) error {
	r.evals[evalKey(eval.AuditorID, eval.Period, eval.UnitID)] = eval
	return nil
}

func (r *fakeEvaluationRepo) Update(ctx context.Context, eval *domain.Evaluation) error {
	key := evalKey(eval.AuditorID, eval.Period, eval.UnitID)
	if _, ok := r.evals[key]; !ok {
		return domain.ErrEvaluationNotFound
	}
	r.evals[key] = eval
	return nil
}

func (r *fakeEvaluationRepo) FindByKey(ctx context.Context, auditorID string, period domain.Period, unitID string) (*domain.Evaluation, error) {
	eval, ok := r.evals[evalKey(auditorID, period, unitID)]
	if !ok {
		return nil, domain.ErrEvaluationNotFound
	}
	return eval, nil
}

type fakeSurveyRepo struct {
	responses map[string]*domain.SurveyResponse
}

func newFakeSurveyRepo() *fakeSurveyRepo {
	return &fakeSurveyRepo{responses: make(map[string]*domain.SurveyResponse)}
}

func surveyKey(auditorName string, respondedAt time.Time, respondentName string) string {
	return fmt.Sprintf("%s|%d|%s", auditorName, respondedAt.UnixNano(), respondentName)
}

func (r *fakeSurveyRepo) Create(ctx context.Context, response *domain.SurveyResponse) error {
	r.responses[surveyKey(response.AuditorName, response.RespondedAt, response.RespondentName)] = response
	return nil
}

func (r *fakeSurveyRepo) Update(ctx context.Context, response *domain.SurveyResponse) error {
	r.responses[surveyKey(response.AuditorName, response.RespondedAt, response.RespondentName)] = response
	return nil
}

func (r *fakeSurveyRepo) FindByKey(ctx context.Context, auditorName string, respondedAt time.Time, respondentName string) (*domain.SurveyResponse, error) {
	response, ok := r.responses[surveyKey(auditorName, respondedAt, respondentName)]
	if !ok {
		return nil, domain.ErrSurveyNotFound
	}
	return response, nil
}

func (r *fakeSurveyRepo) ListByAuditorPeriod(ctx context.Context, auditorID string, period domain.Period) ([]*domain.SurveyResponse, error) {
	var out []*domain.SurveyResponse
	for _, resp := range r.responses {
		if resp.AuditorID != nil && *resp.AuditorID == auditorID && resp.Period == period {
			out = append(out, resp)
		}
	}
	return out, nil
}

// fakeObjectStore serves object metadata from a map keyed bucket/path
type fakeObjectStore struct {
	objects map[string]*ports.ObjectInfo
	errors  map[string]error
}

func newFakeObjectStore() *fakeObjectStore {
	return &fakeObjectStore{
		objects: make(map[string]*ports.ObjectInfo),
		errors:  make(map[string]error),
	}
}

func (s *fakeObjectStore) put(bucket, path string, modifiedAt time.Time) {
	s.objects[bucket+"/"+path] = &ports.ObjectInfo{
		Bucket:         bucket,
		Path:           path,
		SizeBytes:      1024,
		LastModifiedAt: modifiedAt,
	}
}

func (s *fakeObjectStore) Stat(ctx context.Context, bucket, path string) (*ports.ObjectInfo, error) {
	if err, ok := s.errors[bucket+"/"+path]; ok {
		return nil, err
	}
	return s.objects[bucket+"/"+path], nil
}

// Testify mocks for the call-assertion collaborators

type MockDirectory struct {
	mock.Mock
}

func (m *MockDirectory) ListAuditors(ctx context.Context) ([]ports.AuditorRecord, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]ports.AuditorRecord), args.Error(1)
}

func (m *MockDirectory) ListUnits(ctx context.Context) ([]ports.UnitRecord, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]ports.UnitRecord), args.Error(1)
}

type MockRecomputer struct {
	mock.Mock
}

func (m *MockRecomputer) RecomputeFinalScore(ctx context.Context, evaluationID string) error {
	args := m.Called(ctx, evaluationID)
	return args.Error(0)
}
