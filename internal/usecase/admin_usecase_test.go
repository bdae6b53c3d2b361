package usecase

import (
	"bytes"
	"context"
	"encoding/csv"
	"strings"
	"testing"
	"time"

	"github.com/fadilmartias/career-compass/internal/model"
	"github.com/fadilmartias/career-compass/internal/repository"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type stubAdminUsers struct {
	users map[string]*model.User
}

func newStubAdminUsers() *stubAdminUsers {
	return &stubAdminUsers{users: map[string]*model.User{}}
}

func (r *stubAdminUsers) FindUserByID(id string) (*model.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return u, nil
}

func (r *stubAdminUsers) UpdateUser(u *model.User) error {
	r.users[u.ID.String()] = u
	return nil
}

func (r *stubAdminUsers) ListUsers(search string, page, pageSize int) ([]model.User, int64, error) {
	var out []model.User
	for _, u := range r.users {
		out = append(out, *u)
	}
	return out, int64(len(out)), nil
}

func (r *stubAdminUsers) GetUsers() ([]model.User, error) {
	var out []model.User
	for _, u := range r.users {
		out = append(out, *u)
	}
	return out, nil
}

type stubAdminPayments struct {
	payments []model.Payment
}

func (r *stubAdminPayments) ListPayments(status string, page, pageSize int) ([]model.Payment, int64, error) {
	return r.payments, int64(len(r.payments)), nil
}

func (r *stubAdminPayments) GetPayments() ([]model.Payment, error) {
	return r.payments, nil
}

type stubAnalytics struct{}

func (s *stubAnalytics) CountAssessmentsByStatus() ([]repository.StatusCount, error) {
	return []repository.StatusCount{{Status: model.StatusCompleted, Count: 7}}, nil
}

func (s *stubAnalytics) RevenueByTier(from, to time.Time) ([]repository.TierRevenue, error) {
	return []repository.TierRevenue{{Tier: model.TierPremium, Revenue: 19800}}, nil
}

func (s *stubAnalytics) SignupsPerDay(from, to time.Time) ([]repository.DailySignups, error) {
	return []repository.DailySignups{{Day: from, Count: 3}}, nil
}

func (s *stubAnalytics) CountUsers() (int64, error) { return 42, nil }

func TestBuildPagination(t *testing.T) {
	cases := []struct {
		name       string
		page       int
		pageSize   int
		totalItems int64
		totalPages int64
		from, to   int
		hasMore    bool
	}{
		{"first of many", 1, 10, 25, 3, 1, 10, true},
		{"last partial page", 3, 10, 25, 3, 21, 25, false},
		{"past the end", 5, 10, 25, 3, 0, 0, false},
		{"empty", 1, 10, 0, 0, 0, 0, false},
		{"defaults applied", 0, 0, 5, 1, 1, 5, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p := BuildPagination(tc.page, tc.pageSize, tc.totalItems)
			if p.TotalPages != tc.totalPages {
				t.Errorf("total pages = %d, want %d", p.TotalPages, tc.totalPages)
			}
			if p.From != tc.from || p.To != tc.to {
				t.Errorf("from/to = %d/%d, want %d/%d", p.From, p.To, tc.from, tc.to)
			}
			if p.HasMore != tc.hasMore {
				t.Errorf("has more = %v, want %v", p.HasMore, tc.hasMore)
			}
		})
	}
}

func TestUpdateRolesGrantsReferralCodeToNewAffiliate(t *testing.T) {
	users := newStubAdminUsers()
	u := &model.User{ID: uuid.New(), Name: "Ana", Email: "ana@example.com", Active: true}
	users.users[u.ID.String()] = u

	uc := NewAdminUsecase(users, nil, nil, nil, nil)

	yes := true
	updated, err := uc.UpdateRoles(u.ID.String(), nil, nil, &yes, nil)
	if err != nil {
		t.Fatalf("update roles: %v", err)
	}
	if !updated.IsAffiliate {
		t.Fatal("affiliate flag not set")
	}
	if updated.ReferralCode == "" {
		t.Fatal("new affiliate did not get a referral code")
	}

	// A second grant must keep the existing code.
	code := updated.ReferralCode
	updated, err = uc.UpdateRoles(u.ID.String(), nil, nil, &yes, nil)
	if err != nil {
		t.Fatalf("second update: %v", err)
	}
	if updated.ReferralCode != code {
		t.Fatal("referral code changed on re-grant")
	}

	no := false
	updated, err = uc.UpdateRoles(u.ID.String(), nil, nil, nil, &no)
	if err != nil {
		t.Fatalf("deactivate: %v", err)
	}
	if updated.Active {
		t.Fatal("active flag not cleared")
	}
}

func TestExportUsersCSV(t *testing.T) {
	users := newStubAdminUsers()
	u := &model.User{
		ID:        uuid.New(),
		Name:      "Ana",
		Email:     "ana@example.com",
		IsClerk:   true,
		Active:    true,
		CreatedAt: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
	}
	users.users[u.ID.String()] = u

	uc := NewAdminUsecase(users, nil, nil, nil, nil)
	out, err := uc.ExportUsersCSV()
	if err != nil {
		t.Fatalf("export: %v", err)
	}

	records, err := csv.NewReader(bytes.NewReader(out)).ReadAll()
	if err != nil {
		t.Fatalf("parse csv: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("record count = %d, want header + 1 row", len(records))
	}
	if records[0][0] != "id" || records[0][7] != "created_at" {
		t.Fatalf("unexpected header: %v", records[0])
	}
	row := records[1]
	if row[1] != "Ana" || row[2] != "ana@example.com" || row[4] != "true" {
		t.Fatalf("unexpected row: %v", row)
	}
	if row[7] != "2026-03-01T12:00:00Z" {
		t.Fatalf("created_at = %q, want RFC3339", row[7])
	}
}

func TestExportPaymentsCSVFormatsAmounts(t *testing.T) {
	paidAt := time.Date(2026, 4, 2, 9, 30, 0, 0, time.UTC)
	payments := &stubAdminPayments{payments: []model.Payment{
		{
			ID:           uuid.New(),
			UserID:       uuid.New(),
			AssessmentID: uuid.New(),
			Tier:         model.TierStandard,
			Amount:       4900,
			Status:       model.PaymentPaid,
			Method:       "transfer",
			PaidAt:       &paidAt,
		},
		{
			ID:           uuid.New(),
			UserID:       uuid.New(),
			AssessmentID: uuid.New(),
			Tier:         model.TierBasic,
			Amount:       2900,
			Status:       model.PaymentPending,
			Method:       "dummy",
		},
	}}

	uc := NewAdminUsecase(newStubAdminUsers(), nil, payments, nil, nil)
	out, err := uc.ExportPaymentsCSV()
	if err != nil {
		t.Fatalf("export: %v", err)
	}

	records, err := csv.NewReader(bytes.NewReader(out)).ReadAll()
	if err != nil {
		t.Fatalf("parse csv: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("record count = %d, want header + 2 rows", len(records))
	}
	if records[1][4] != "49.00" {
		t.Fatalf("amount = %q, want 49.00", records[1][4])
	}
	if records[1][7] != "2026-04-02T09:30:00Z" {
		t.Fatalf("paid_at = %q", records[1][7])
	}
	if records[2][7] != "" {
		t.Fatalf("pending payment paid_at = %q, want empty", records[2][7])
	}
}

func TestAnalyticsAggregatesWithoutCache(t *testing.T) {
	uc := NewAdminUsecase(newStubAdminUsers(), nil, nil, &stubAnalytics{}, nil)

	from := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 1, 0)
	summary, err := uc.Analytics(context.Background(), from, to)
	if err != nil {
		t.Fatalf("analytics: %v", err)
	}
	if summary.TotalUsers != 42 {
		t.Fatalf("total users = %d, want 42", summary.TotalUsers)
	}
	if len(summary.AssessmentCounts) != 1 || summary.AssessmentCounts[0].Count != 7 {
		t.Fatalf("assessment counts = %+v", summary.AssessmentCounts)
	}
	if len(summary.RevenueByTier) != 1 || summary.RevenueByTier[0].Revenue != 19800 {
		t.Fatalf("revenue = %+v", summary.RevenueByTier)
	}
	if !strings.EqualFold(summary.RevenueByTier[0].Tier, model.TierPremium) {
		t.Fatalf("tier = %q", summary.RevenueByTier[0].Tier)
	}
}
