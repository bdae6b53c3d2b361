package usecase

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"strconv"
	"time"

	"github.com/fadilmartias/career-compass/internal/model"
	"github.com/fadilmartias/career-compass/internal/repository"
	"github.com/fadilmartias/career-compass/internal/response"
	"github.com/fadilmartias/career-compass/internal/service"
)

type AdminUserRepo interface {
	FindUserByID(id string) (*model.User, error)
	UpdateUser(user *model.User) error
	ListUsers(search string, page, pageSize int) ([]model.User, int64, error)
	GetUsers() ([]model.User, error)
}

type AdminAssessmentRepo interface {
	ListAssessments(status string, page, pageSize int) ([]model.Assessment, int64, error)
}

type AdminPaymentRepo interface {
	ListPayments(status string, page, pageSize int) ([]model.Payment, int64, error)
	GetPayments() ([]model.Payment, error)
}

type AdminAnalyticsRepo interface {
	CountAssessmentsByStatus() ([]repository.StatusCount, error)
	RevenueByTier(from, to time.Time) ([]repository.TierRevenue, error)
	SignupsPerDay(from, to time.Time) ([]repository.DailySignups, error)
	CountUsers() (int64, error)
}

type AdminUsecase struct {
	userRepo       AdminUserRepo
	assessmentRepo AdminAssessmentRepo
	paymentRepo    AdminPaymentRepo
	analyticsRepo  AdminAnalyticsRepo
	cache          *service.AnalyticsCache
}

func NewAdminUsecase(
	userRepo AdminUserRepo,
	assessmentRepo AdminAssessmentRepo,
	paymentRepo AdminPaymentRepo,
	analyticsRepo AdminAnalyticsRepo,
	cache *service.AnalyticsCache,
) *AdminUsecase {
	return &AdminUsecase{
		userRepo:       userRepo,
		assessmentRepo: assessmentRepo,
		paymentRepo:    paymentRepo,
		analyticsRepo:  analyticsRepo,
		cache:          cache,
	}
}

// BuildPagination computes the pagination envelope for a page of items.
func BuildPagination(page, pageSize int, totalItems int64) *response.Pagination {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 10
	}

	totalPages := totalItems / int64(pageSize)
	if totalItems%int64(pageSize) != 0 {
		totalPages++
	}

	from := (page-1)*pageSize + 1
	to := page * pageSize
	if int64(to) > totalItems {
		to = int(totalItems)
	}
	if int64(from) > totalItems {
		from, to = 0, 0
	}

	return &response.Pagination{
		Page:       page,
		PageSize:   pageSize,
		TotalPages: totalPages,
		TotalItems: totalItems,
		HasMore:    int64(page) < totalPages,
		From:       from,
		To:         to,
	}
}

func (uc *AdminUsecase) ListUsers(search string, page, pageSize int) ([]model.User, *response.Pagination, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 10
	}
	users, total, err := uc.userRepo.ListUsers(search, page, pageSize)
	if err != nil {
		return nil, nil, err
	}
	return users, BuildPagination(page, pageSize, total), nil
}

// UpdateRoles applies role/active flag changes. Granting the affiliate role
// assigns a referral code if the user has none yet.
func (uc *AdminUsecase) UpdateRoles(userID string, isAdmin, isClerk, isAffiliate, active *bool) (*model.User, error) {
	user, err := uc.userRepo.FindUserByID(userID)
	if err != nil {
		return nil, err
	}

	if isAdmin != nil {
		user.IsAdmin = *isAdmin
	}
	if isClerk != nil {
		user.IsClerk = *isClerk
	}
	if isAffiliate != nil {
		user.IsAffiliate = *isAffiliate
		if *isAffiliate && user.ReferralCode == "" {
			user.ReferralCode = GenerateReferralCode()
		}
	}
	if active != nil {
		user.Active = *active
	}
	user.UpdatedAt = time.Now()

	if err := uc.userRepo.UpdateUser(user); err != nil {
		return nil, err
	}
	return user, nil
}

func (uc *AdminUsecase) ListAssessments(status string, page, pageSize int) ([]model.Assessment, *response.Pagination, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 10
	}
	items, total, err := uc.assessmentRepo.ListAssessments(status, page, pageSize)
	if err != nil {
		return nil, nil, err
	}
	return items, BuildPagination(page, pageSize, total), nil
}

func (uc *AdminUsecase) ListPayments(status string, page, pageSize int) ([]model.Payment, *response.Pagination, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 10
	}
	items, total, err := uc.paymentRepo.ListPayments(status, page, pageSize)
	if err != nil {
		return nil, nil, err
	}
	return items, BuildPagination(page, pageSize, total), nil
}

// AnalyticsSummary is the admin dashboard aggregate payload.
type AnalyticsSummary struct {
	TotalUsers       int64                     `json:"total_users"`
	AssessmentCounts []repository.StatusCount  `json:"assessment_counts"`
	RevenueByTier    []repository.TierRevenue  `json:"revenue_by_tier"`
	SignupsPerDay    []repository.DailySignups `json:"signups_per_day"`
	From             time.Time                 `json:"from"`
	To               time.Time                 `json:"to"`
}

// Analytics aggregates dashboard numbers for [from, to), memoized in Redis.
func (uc *AdminUsecase) Analytics(ctx context.Context, from, to time.Time) (*AnalyticsSummary, error) {
	cacheKey := fmt.Sprintf("summary:%d:%d", from.Unix(), to.Unix())

	var cached AnalyticsSummary
	if uc.cache.Get(ctx, cacheKey, &cached) {
		return &cached, nil
	}

	totalUsers, err := uc.analyticsRepo.CountUsers()
	if err != nil {
		return nil, err
	}
	counts, err := uc.analyticsRepo.CountAssessmentsByStatus()
	if err != nil {
		return nil, err
	}
	revenue, err := uc.analyticsRepo.RevenueByTier(from, to)
	if err != nil {
		return nil, err
	}
	signups, err := uc.analyticsRepo.SignupsPerDay(from, to)
	if err != nil {
		return nil, err
	}

	summary := &AnalyticsSummary{
		TotalUsers:       totalUsers,
		AssessmentCounts: counts,
		RevenueByTier:    revenue,
		SignupsPerDay:    signups,
		From:             from,
		To:               to,
	}
	uc.cache.Set(ctx, cacheKey, summary)
	return summary, nil
}

// ExportUsersCSV renders all users as CSV for the admin export endpoint.
func (uc *AdminUsecase) ExportUsersCSV() ([]byte, error) {
	users, err := uc.userRepo.GetUsers()
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	_ = w.Write([]string{"id", "name", "email", "is_admin", "is_clerk", "is_affiliate", "active", "created_at"})
	for _, u := range users {
		_ = w.Write([]string{
			u.ID.String(),
			u.Name,
			u.Email,
			strconv.FormatBool(u.IsAdmin),
			strconv.FormatBool(u.IsClerk),
			strconv.FormatBool(u.IsAffiliate),
			strconv.FormatBool(u.Active),
			u.CreatedAt.UTC().Format(time.RFC3339),
		})
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}

// ExportPaymentsCSV renders all payments as CSV. Amounts are emitted in
// whole currency units with two decimals.
func (uc *AdminUsecase) ExportPaymentsCSV() ([]byte, error) {
	payments, err := uc.paymentRepo.GetPayments()
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	_ = w.Write([]string{"id", "user_id", "assessment_id", "tier", "amount", "status", "method", "paid_at"})
	for _, p := range payments {
		paidAt := ""
		if p.PaidAt != nil {
			paidAt = p.PaidAt.UTC().Format(time.RFC3339)
		}
		_ = w.Write([]string{
			p.ID.String(),
			p.UserID.String(),
			p.AssessmentID.String(),
			p.Tier,
			fmt.Sprintf("%.2f", float64(p.Amount)/100),
			p.Status,
			p.Method,
			paidAt,
		})
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}
