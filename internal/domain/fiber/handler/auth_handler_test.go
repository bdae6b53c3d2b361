package handler

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/fadilmartias/career-compass/internal/model"
	"github.com/fadilmartias/career-compass/internal/usecase"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type memoryUserRepo struct {
	byEmail map[string]*model.User
}

func (r *memoryUserRepo) CreateUser(u *model.User) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	r.byEmail[u.Email] = u
	return nil
}

func (r *memoryUserRepo) FindUserByEmail(email string) (*model.User, error) {
	u, ok := r.byEmail[email]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return u, nil
}

func (r *memoryUserRepo) FindUserByReferralCode(code string) (*model.User, error) {
	for _, u := range r.byEmail {
		if u.ReferralCode == code {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

type memoryReferralRepo struct{}

func (r *memoryReferralRepo) CreateReferral(ref *model.Referral) error { return nil }

func newAuthApp(t *testing.T) *fiber.App {
	t.Setenv("JWT_SECRET", "test-secret")

	users := &memoryUserRepo{byEmail: map[string]*model.User{}}
	uc := usecase.NewAuthUsecase(users, &memoryReferralRepo{}, nil)

	app := fiber.New()
	NewAuthHandler(uc).RegisterRoutes(app)
	return app
}

func postJSON(t *testing.T, app *fiber.App, path string, payload any) *envelope {
	t.Helper()
	body, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	req := httptest.NewRequest("POST", path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request: %v", err)
	}

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	env.status = resp.StatusCode
	return &env
}

type envelope struct {
	status  int
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Details json.RawMessage `json:"details"`
	Data    json.RawMessage `json:"data"`
}

func TestRegisterEndpoint(t *testing.T) {
	app := newAuthApp(t)

	env := postJSON(t, app, "/api/auth/register", fiber.Map{
		"name":     "Ana",
		"email":    "ana@example.com",
		"password": "secret-password",
	})
	if env.status != fiber.StatusCreated {
		t.Fatalf("status = %d, want 201", env.status)
	}
	if !env.Success {
		t.Fatalf("success = false: %s", env.Message)
	}

	var user struct {
		Email string `json:"email"`
	}
	if err := json.Unmarshal(env.Data, &user); err != nil {
		t.Fatalf("decode user: %v", err)
	}
	if user.Email != "ana@example.com" {
		t.Fatalf("email = %q", user.Email)
	}

	// Duplicate email conflicts.
	env = postJSON(t, app, "/api/auth/register", fiber.Map{
		"name":     "Ana Again",
		"email":    "ana@example.com",
		"password": "secret-password",
	})
	if env.status != fiber.StatusConflict {
		t.Fatalf("duplicate status = %d, want 409", env.status)
	}
}

func TestRegisterValidation(t *testing.T) {
	app := newAuthApp(t)

	env := postJSON(t, app, "/api/auth/register", fiber.Map{
		"name":     "Ana",
		"email":    "not-an-email",
		"password": "short",
	})
	if env.status != fiber.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422", env.status)
	}
	if env.Success {
		t.Fatal("expected success=false")
	}

	var details map[string]string
	if err := json.Unmarshal(env.Details, &details); err != nil {
		t.Fatalf("decode details: %v", err)
	}
	if _, ok := details["email"]; !ok {
		t.Fatalf("details missing email error: %v", details)
	}
	if _, ok := details["password"]; !ok {
		t.Fatalf("details missing password error: %v", details)
	}
}

func TestLoginEndpoint(t *testing.T) {
	app := newAuthApp(t)

	postJSON(t, app, "/api/auth/register", fiber.Map{
		"name":     "Ana",
		"email":    "ana@example.com",
		"password": "secret-password",
	})

	env := postJSON(t, app, "/api/auth/login", fiber.Map{
		"email":    "ana@example.com",
		"password": "secret-password",
	})
	if env.status != fiber.StatusOK {
		t.Fatalf("status = %d, want 200: %s", env.status, env.Message)
	}

	var data struct {
		Token string `json:"token"`
	}
	if err := json.Unmarshal(env.Data, &data); err != nil {
		t.Fatalf("decode data: %v", err)
	}
	if data.Token == "" {
		t.Fatal("empty token")
	}

	env = postJSON(t, app, "/api/auth/login", fiber.Map{
		"email":    "ana@example.com",
		"password": "wrong-password",
	})
	if env.status != fiber.StatusUnauthorized {
		t.Fatalf("bad password status = %d, want 401", env.status)
	}
}
