package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/fadilmartias/career-compass/internal/logger"
	"github.com/fadilmartias/career-compass/internal/metrics"
	"github.com/fadilmartias/career-compass/internal/model"
	"github.com/fadilmartias/career-compass/internal/service"
	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
	"github.com/rs/zerolog"
	"github.com/tidwall/gjson"
)

var (
	ErrNotOwner       = errors.New("assessment does not belong to this user")
	ErrNotProcessable = errors.New("assessment is not in a processable state")
	ErrTierLocked     = errors.New("recommendations require the premium tier")
	ErrNotCompleted   = errors.New("assessment has not completed yet")
)

type AssessmentRepo interface {
	CreateAssessment(a *model.Assessment) error
	UpdateAssessment(a *model.Assessment) error
	FindAssessmentByID(id string) (*model.Assessment, error)
	ClaimForProcessing(id string) (*model.Assessment, error)
	ListAssessmentsByUser(userID string) ([]model.Assessment, error)
}

type CareerProfileRepo interface {
	SearchProfiles(embedding pgvector.Vector, topK int) ([]model.CareerProfile, error)
	GetProfiles() ([]model.CareerProfile, error)
	UpdateProfile(p *model.CareerProfile) error
}

type AssessmentUserRepo interface {
	FindUserByID(id string) (*model.User, error)
}

type AssessmentUsecase struct {
	repo        AssessmentRepo
	profileRepo CareerProfileRepo
	userRepo    AssessmentUserRepo
	gemini      service.GeminiServiceInterface
	openRouter  service.OpenRouterServiceInterface
	heuristic   *service.HeuristicScorer
	mail        service.MailServiceInterface
}

func NewAssessmentUsecase(
	repo AssessmentRepo,
	profileRepo CareerProfileRepo,
	userRepo AssessmentUserRepo,
	gemini service.GeminiServiceInterface,
	openRouter service.OpenRouterServiceInterface,
	mail service.MailServiceInterface,
) *AssessmentUsecase {
	return &AssessmentUsecase{
		repo:        repo,
		profileRepo: profileRepo,
		userRepo:    userRepo,
		gemini:      gemini,
		openRouter:  openRouter,
		heuristic:   service.NewHeuristicScorer(),
		mail:        mail,
	}
}

func (uc *AssessmentUsecase) Create(userID uuid.UUID, tier, responses string) (*model.Assessment, error) {
	if _, err := model.TierPrice(tier); err != nil {
		return nil, err
	}

	a := &model.Assessment{
		UserID:    userID,
		Tier:      tier,
		Status:    model.StatusPending,
		Responses: responses,
		Breakdown: "{}",
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	if err := uc.repo.CreateAssessment(a); err != nil {
		return nil, err
	}
	return a, nil
}

func (uc *AssessmentUsecase) AttachResume(id string, userID uuid.UUID, resumeText string) error {
	a, err := uc.repo.FindAssessmentByID(id)
	if err != nil {
		return err
	}
	if a.UserID != userID {
		return ErrNotOwner
	}
	a.ResumeText = resumeText
	a.UpdatedAt = time.Now()
	return uc.repo.UpdateAssessment(a)
}

// Process claims the assessment for scoring and runs the pipeline in the
// background. Only pending, failed and service_error assessments can be
// claimed; a concurrent claim loses and gets ErrNotProcessable.
func (uc *AssessmentUsecase) Process(id string, userID uuid.UUID) (*model.Assessment, error) {
	existing, err := uc.repo.FindAssessmentByID(id)
	if err != nil {
		return nil, err
	}
	if existing.UserID != userID {
		return nil, ErrNotOwner
	}

	a, err := uc.repo.ClaimForProcessing(id)
	if err != nil {
		return nil, ErrNotProcessable
	}

	go uc.score(a)

	return a, nil
}

// score runs the scorer chain: Gemini, then OpenRouter, then the keyword
// heuristic. Terminal status and metrics are recorded on every path.
func (uc *AssessmentUsecase) score(a *model.Assessment) {
	ctx := context.Background()
	log := logger.Get().With().Str("assessment_id", a.ID.String()).Logger()
	prompt := buildScoringPrompt(a)

	result, source := uc.runScorerChain(ctx, prompt, a, log)
	if result == nil {
		a.Status = model.StatusServiceError
		a.UpdatedAt = time.Now()
		if err := uc.repo.UpdateAssessment(a); err != nil {
			log.Error().Err(err).Msg("failed to persist service_error status")
		}
		metrics.AssessmentsProcessedTotal.WithLabelValues(model.StatusServiceError, a.Tier).Inc()
		return
	}

	a.MatchRate = result.MatchRate
	a.Feedback = result.Feedback
	a.OverallSummary = result.OverallSummary
	a.Breakdown = result.Breakdown
	a.ScoreSource = source
	a.Status = model.StatusCompleted
	a.UpdatedAt = time.Now()

	if err := uc.repo.UpdateAssessment(a); err != nil {
		log.Error().Err(err).Msg("failed to persist scoring result")
		a.Status = model.StatusFailed
		_ = uc.repo.UpdateAssessment(a)
		metrics.AssessmentsProcessedTotal.WithLabelValues(model.StatusFailed, a.Tier).Inc()
		return
	}

	metrics.AssessmentsProcessedTotal.WithLabelValues(model.StatusCompleted, a.Tier).Inc()
	log.Info().Str("source", source).Float64("match_rate", a.MatchRate).Msg("assessment scored")

	if uc.mail != nil && uc.userRepo != nil {
		if user, err := uc.userRepo.FindUserByID(a.UserID.String()); err == nil {
			go uc.mail.SendResultReady(user.Email, user.Name, a.ID.String())
		}
	}
}

func (uc *AssessmentUsecase) runScorerChain(ctx context.Context, prompt string, a *model.Assessment, log zerolog.Logger) (*service.ScoreResult, string) {
	if uc.gemini != nil {
		text, err := uc.gemini.GenerateContent(ctx, "gemini-2.5-flash", prompt)
		if err == nil {
			if result := parseScoreJSON(text); result != nil {
				metrics.ScorerResultsTotal.WithLabelValues("gemini").Inc()
				return result, model.ScoreSourceAI
			}
			log.Warn().Msg("Gemini returned unparseable JSON, falling back")
		} else {
			log.Warn().Err(err).Msg("Gemini scoring failed, falling back")
		}
	}

	if uc.openRouter != nil {
		result, err := uc.openRouter.Score(prompt)
		if err == nil {
			metrics.ScorerResultsTotal.WithLabelValues("openrouter").Inc()
			return result, model.ScoreSourceAI
		}
		log.Warn().Err(err).Msg("OpenRouter scoring failed, falling back to heuristic")
	}

	result, err := uc.heuristic.Score(a.ResumeText, a.Responses)
	if err != nil {
		log.Error().Err(err).Msg("heuristic scorer has no input")
		return nil, ""
	}
	metrics.ScorerResultsTotal.WithLabelValues("heuristic").Inc()
	return result, model.ScoreSourceFallback
}

func (uc *AssessmentUsecase) Get(id string, userID uuid.UUID, isStaff bool) (*model.Assessment, error) {
	a, err := uc.repo.FindAssessmentByID(id)
	if err != nil {
		return nil, err
	}
	if !isStaff && a.UserID != userID {
		return nil, ErrNotOwner
	}
	return a, nil
}

func (uc *AssessmentUsecase) ListMine(userID uuid.UUID) ([]model.Assessment, error) {
	return uc.repo.ListAssessmentsByUser(userID.String())
}

// Recommendations embeds the candidate's material and returns the closest
// career profiles by vector distance. Premium tier only.
func (uc *AssessmentUsecase) Recommendations(id string, userID uuid.UUID) ([]model.CareerProfile, error) {
	a, err := uc.Get(id, userID, false)
	if err != nil {
		return nil, err
	}
	if a.Tier != model.TierPremium {
		return nil, ErrTierLocked
	}
	if a.Status != model.StatusCompleted {
		return nil, ErrNotCompleted
	}

	emb, err := uc.gemini.GenerateEmbedding(context.Background(), a.ResumeText+"\n"+a.Responses)
	if err != nil {
		return nil, fmt.Errorf("embedding failed: %w", err)
	}

	return uc.profileRepo.SearchProfiles(pgvector.NewVector(emb), 5)
}

// RebuildProfileEmbeddings refreshes the stored embedding of every career
// profile. Run after editing profile descriptions.
func (uc *AssessmentUsecase) RebuildProfileEmbeddings(ctx context.Context) error {
	profiles, err := uc.profileRepo.GetProfiles()
	if err != nil {
		return err
	}
	for i := range profiles {
		emb, err := uc.gemini.GenerateEmbedding(ctx, profiles[i].Title+"\n"+profiles[i].Description)
		if err != nil {
			return fmt.Errorf("embedding for %q failed: %w", profiles[i].Title, err)
		}
		profiles[i].Embedding = pgvector.NewVector(emb)
		profiles[i].UpdatedAt = time.Now()
		if err := uc.profileRepo.UpdateProfile(&profiles[i]); err != nil {
			return err
		}
	}
	return nil
}

// parseScoreJSON extracts score fields from an LLM completion. Returns nil
// when the completion does not contain the expected JSON.
func parseScoreJSON(text string) *service.ScoreResult {
	text = service.CleanJSON(text)
	if !gjson.Valid(text) {
		return nil
	}
	matchRate := gjson.Get(text, "match_rate")
	if !matchRate.Exists() {
		return nil
	}
	return &service.ScoreResult{
		MatchRate:      matchRate.Float(),
		Feedback:       gjson.Get(text, "feedback").String(),
		OverallSummary: gjson.Get(text, "overall_summary").String(),
		Breakdown:      gjson.Get(text, "breakdown").Raw,
	}
}

func buildScoringPrompt(a *model.Assessment) string {
	return fmt.Sprintf(`
You are an experienced career counselor. Analyze the following questionnaire
responses and resume and score the candidate's career readiness.

Return your answer STRICTLY in JSON format with this schema:
{
	"match_rate": <float with 2 decimal places, range 0-1>,
	"feedback": "<actionable feedback for the candidate>",
	"overall_summary": "<summary of overall impression, strengths, and areas to improve>",
	"breakdown": {
		"technical": <float 0-1>,
		"communication": <float 0-1>,
		"leadership": <float 0-1>,
		"analytical": <float 0-1>
	}
}

Questionnaire responses:
%s

Resume:
%s
`, a.Responses, a.ResumeText)
}
