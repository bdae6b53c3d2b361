package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/fadilmartias/career-compass/internal/model"
	"github.com/fadilmartias/career-compass/internal/service"
	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
	"gorm.io/gorm"
)

type stubAssessmentRepo struct {
	store      map[string]*model.Assessment
	updateFail bool
}

func newStubAssessmentRepo() *stubAssessmentRepo {
	return &stubAssessmentRepo{store: map[string]*model.Assessment{}}
}

func (r *stubAssessmentRepo) CreateAssessment(a *model.Assessment) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	r.store[a.ID.String()] = a
	return nil
}

func (r *stubAssessmentRepo) UpdateAssessment(a *model.Assessment) error {
	if r.updateFail {
		return errors.New("update failed")
	}
	r.store[a.ID.String()] = a
	return nil
}

func (r *stubAssessmentRepo) FindAssessmentByID(id string) (*model.Assessment, error) {
	a, ok := r.store[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return a, nil
}

func (r *stubAssessmentRepo) ClaimForProcessing(id string) (*model.Assessment, error) {
	a, ok := r.store[id]
	if !ok || !model.CanProcess(a.Status) {
		return nil, gorm.ErrRecordNotFound
	}
	a.Status = model.StatusProcessing
	return a, nil
}

func (r *stubAssessmentRepo) ListAssessmentsByUser(userID string) ([]model.Assessment, error) {
	var out []model.Assessment
	for _, a := range r.store {
		if a.UserID.String() == userID {
			out = append(out, *a)
		}
	}
	return out, nil
}

type stubProfileRepo struct {
	profiles []model.CareerProfile
	searched bool
}

func (r *stubProfileRepo) SearchProfiles(embedding pgvector.Vector, topK int) ([]model.CareerProfile, error) {
	r.searched = true
	if topK < len(r.profiles) {
		return r.profiles[:topK], nil
	}
	return r.profiles, nil
}

func (r *stubProfileRepo) GetProfiles() ([]model.CareerProfile, error) {
	return r.profiles, nil
}

func (r *stubProfileRepo) UpdateProfile(p *model.CareerProfile) error { return nil }

type stubGemini struct {
	content    string
	contentErr error
	embedErr   error
}

func (g *stubGemini) GenerateEmbedding(ctx context.Context, text string) ([]float32, error) {
	if g.embedErr != nil {
		return nil, g.embedErr
	}
	return []float32{0.1, 0.2, 0.3}, nil
}

func (g *stubGemini) GenerateContent(ctx context.Context, modelName, prompt string) (string, error) {
	if g.contentErr != nil {
		return "", g.contentErr
	}
	return g.content, nil
}

type stubOpenRouter struct {
	result *service.ScoreResult
	err    error
}

func (o *stubOpenRouter) Score(prompt string) (*service.ScoreResult, error) {
	return o.result, o.err
}

func seedAssessment(repo *stubAssessmentRepo, userID uuid.UUID, tier, status string) *model.Assessment {
	a := &model.Assessment{
		ID:        uuid.New(),
		UserID:    userID,
		Tier:      tier,
		Status:    status,
		Responses: `{"q1":"I build backend services in golang and sql"}`,
		ResumeText: "Software engineer with cloud infrastructure and data " +
			"analysis experience, led a small team.",
	}
	repo.store[a.ID.String()] = a
	return a
}

func TestCreateRejectsUnknownTier(t *testing.T) {
	uc := NewAssessmentUsecase(newStubAssessmentRepo(), &stubProfileRepo{}, nil, nil, nil, nil)
	if _, err := uc.Create(uuid.New(), "platinum", "{}"); err == nil {
		t.Fatal("expected error for unknown tier")
	}
}

func TestProcessOwnershipAndClaim(t *testing.T) {
	repo := newStubAssessmentRepo()
	owner := uuid.New()
	a := seedAssessment(repo, owner, model.TierBasic, model.StatusPending)

	uc := NewAssessmentUsecase(repo, &stubProfileRepo{}, nil, nil, nil, nil)

	if _, err := uc.Process(a.ID.String(), uuid.New()); !errors.Is(err, ErrNotOwner) {
		t.Fatalf("expected ErrNotOwner, got %v", err)
	}

	claimed, err := uc.Process(a.ID.String(), owner)
	if err != nil {
		t.Fatalf("process: %v", err)
	}
	if claimed.Status != model.StatusProcessing {
		t.Fatalf("status = %q, want processing", claimed.Status)
	}

	// A second claim while processing must lose.
	if _, err := uc.Process(a.ID.String(), owner); !errors.Is(err, ErrNotProcessable) {
		t.Fatalf("expected ErrNotProcessable, got %v", err)
	}
}

func TestScoreUsesGeminiResult(t *testing.T) {
	repo := newStubAssessmentRepo()
	owner := uuid.New()
	a := seedAssessment(repo, owner, model.TierStandard, model.StatusProcessing)

	gemini := &stubGemini{content: "```json\n{\"match_rate\":0.82,\"feedback\":\"solid\",\"overall_summary\":\"good fit\",\"breakdown\":{\"technical\":0.9}}\n```"}
	uc := NewAssessmentUsecase(repo, &stubProfileRepo{}, nil, gemini, &stubOpenRouter{err: errors.New("unused")}, nil)

	uc.score(a)

	got := repo.store[a.ID.String()]
	if got.Status != model.StatusCompleted {
		t.Fatalf("status = %q, want completed", got.Status)
	}
	if got.MatchRate != 0.82 {
		t.Fatalf("match rate = %v, want 0.82", got.MatchRate)
	}
	if got.ScoreSource != model.ScoreSourceAI {
		t.Fatalf("score source = %q, want ai", got.ScoreSource)
	}
}

func TestScoreFallsBackToOpenRouter(t *testing.T) {
	repo := newStubAssessmentRepo()
	a := seedAssessment(repo, uuid.New(), model.TierStandard, model.StatusProcessing)

	gemini := &stubGemini{contentErr: errors.New("quota exceeded")}
	openRouter := &stubOpenRouter{result: &service.ScoreResult{
		MatchRate: 0.65, Feedback: "ok", OverallSummary: "average", Breakdown: `{"technical":0.6}`,
	}}
	uc := NewAssessmentUsecase(repo, &stubProfileRepo{}, nil, gemini, openRouter, nil)

	uc.score(a)

	got := repo.store[a.ID.String()]
	if got.Status != model.StatusCompleted || got.MatchRate != 0.65 {
		t.Fatalf("got status %q match %v", got.Status, got.MatchRate)
	}
	if got.ScoreSource != model.ScoreSourceAI {
		t.Fatalf("score source = %q, want ai", got.ScoreSource)
	}
}

func TestScoreFallsBackToHeuristic(t *testing.T) {
	repo := newStubAssessmentRepo()
	a := seedAssessment(repo, uuid.New(), model.TierBasic, model.StatusProcessing)

	gemini := &stubGemini{contentErr: errors.New("down")}
	openRouter := &stubOpenRouter{err: errors.New("also down")}
	uc := NewAssessmentUsecase(repo, &stubProfileRepo{}, nil, gemini, openRouter, nil)

	uc.score(a)

	got := repo.store[a.ID.String()]
	if got.Status != model.StatusCompleted {
		t.Fatalf("status = %q, want completed", got.Status)
	}
	if got.ScoreSource != model.ScoreSourceFallback {
		t.Fatalf("score source = %q, want fallback", got.ScoreSource)
	}
	if got.MatchRate <= 0 {
		t.Fatalf("heuristic match rate = %v, want > 0", got.MatchRate)
	}
}

func TestScoreServiceErrorWhenNothingToScore(t *testing.T) {
	repo := newStubAssessmentRepo()
	a := seedAssessment(repo, uuid.New(), model.TierBasic, model.StatusProcessing)
	a.Responses = ""
	a.ResumeText = ""

	gemini := &stubGemini{contentErr: errors.New("down")}
	openRouter := &stubOpenRouter{err: errors.New("down")}
	uc := NewAssessmentUsecase(repo, &stubProfileRepo{}, nil, gemini, openRouter, nil)

	uc.score(a)

	if got := repo.store[a.ID.String()]; got.Status != model.StatusServiceError {
		t.Fatalf("status = %q, want service_error", got.Status)
	}
}

func TestRecommendationsTierGate(t *testing.T) {
	repo := newStubAssessmentRepo()
	owner := uuid.New()
	basic := seedAssessment(repo, owner, model.TierBasic, model.StatusCompleted)

	profiles := &stubProfileRepo{profiles: []model.CareerProfile{{Title: "Data Engineer"}}}
	uc := NewAssessmentUsecase(repo, profiles, nil, &stubGemini{}, nil, nil)

	if _, err := uc.Recommendations(basic.ID.String(), owner); !errors.Is(err, ErrTierLocked) {
		t.Fatalf("expected ErrTierLocked, got %v", err)
	}

	premium := seedAssessment(repo, owner, model.TierPremium, model.StatusPending)
	if _, err := uc.Recommendations(premium.ID.String(), owner); !errors.Is(err, ErrNotCompleted) {
		t.Fatalf("expected ErrNotCompleted, got %v", err)
	}

	premium.Status = model.StatusCompleted
	got, err := uc.Recommendations(premium.ID.String(), owner)
	if err != nil {
		t.Fatalf("recommendations: %v", err)
	}
	if len(got) != 1 || !profiles.searched {
		t.Fatalf("expected 1 profile from search, got %d", len(got))
	}
}

func TestGetEnforcesOwnershipUnlessStaff(t *testing.T) {
	repo := newStubAssessmentRepo()
	owner := uuid.New()
	a := seedAssessment(repo, owner, model.TierBasic, model.StatusPending)

	uc := NewAssessmentUsecase(repo, &stubProfileRepo{}, nil, nil, nil, nil)

	if _, err := uc.Get(a.ID.String(), uuid.New(), false); !errors.Is(err, ErrNotOwner) {
		t.Fatalf("expected ErrNotOwner, got %v", err)
	}
	if _, err := uc.Get(a.ID.String(), uuid.New(), true); err != nil {
		t.Fatalf("staff read failed: %v", err)
	}
}

func TestParseScoreJSON(t *testing.T) {
	if parseScoreJSON("not json at all") != nil {
		t.Fatal("expected nil for garbage")
	}
	if parseScoreJSON(`{"feedback":"missing match rate"}`) != nil {
		t.Fatal("expected nil when match_rate is absent")
	}
	res := parseScoreJSON("```json\n{\"match_rate\":0.5,\"breakdown\":{\"technical\":1}}\n```")
	if res == nil || res.MatchRate != 0.5 {
		t.Fatalf("got %+v", res)
	}
	if res.Breakdown != `{"technical":1}` {
		t.Fatalf("breakdown = %q", res.Breakdown)
	}
}
