package usecase

import (
	"crypto/rand"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/fadilmartias/career-compass/internal/config"
	"github.com/fadilmartias/career-compass/internal/logger"
	"github.com/fadilmartias/career-compass/internal/model"
	"github.com/fadilmartias/career-compass/internal/service"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrAccountDisabled    = errors.New("account is disabled")
)

type AuthUserRepo interface {
	CreateUser(user *model.User) error
	FindUserByEmail(email string) (*model.User, error)
	FindUserByReferralCode(code string) (*model.User, error)
}

type AuthReferralRepo interface {
	CreateReferral(ref *model.Referral) error
}

type AuthUsecase struct {
	userRepo     AuthUserRepo
	referralRepo AuthReferralRepo
	mail         service.MailServiceInterface
}

func NewAuthUsecase(userRepo AuthUserRepo, referralRepo AuthReferralRepo, mail service.MailServiceInterface) *AuthUsecase {
	return &AuthUsecase{userRepo: userRepo, referralRepo: referralRepo, mail: mail}
}

// Register creates the account and, when a valid affiliate referral code is
// supplied, books a pending referral for that affiliate. An unknown code is
// ignored rather than rejected.
func (uc *AuthUsecase) Register(name, email, password, referralCode string) (*model.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	if _, err := uc.userRepo.FindUserByEmail(email); err == nil {
		return nil, ErrEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &model.User{
		Name:      name,
		Email:     email,
		Password:  string(hash),
		Active:    true,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}

	var affiliate *model.User
	if referralCode != "" {
		affiliate, err = uc.userRepo.FindUserByReferralCode(referralCode)
		if err != nil || !affiliate.IsAffiliate {
			log := logger.Get()
			log.Warn().Str("code", referralCode).Msg("ignoring unknown referral code")
			affiliate = nil
		} else {
			user.ReferredBy = referralCode
		}
	}

	if err := uc.userRepo.CreateUser(user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrEmailTaken
		}
		return nil, err
	}

	if affiliate != nil {
		ref := &model.Referral{
			AffiliateID: affiliate.ID,
			ReferredID:  user.ID,
			Status:      model.ReferralPending,
			CreatedAt:   time.Now(),
			UpdatedAt:   time.Now(),
		}
		if err := uc.referralRepo.CreateReferral(ref); err != nil {
			log := logger.Get()
			log.Error().Err(err).Str("affiliate_id", affiliate.ID.String()).Msg("failed to record referral")
		}
	}

	if uc.mail != nil {
		go uc.mail.SendWelcome(user.Email, user.Name)
	}

	return user, nil
}

func (uc *AuthUsecase) Login(email, password string) (string, *model.User, error) {
	user, err := uc.userRepo.FindUserByEmail(strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		return "", nil, ErrInvalidCredentials
	}
	if !user.Active {
		return "", nil, ErrAccountDisabled
	}
	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)) != nil {
		return "", nil, ErrInvalidCredentials
	}

	token, err := GenerateToken(user)
	if err != nil {
		return "", nil, err
	}
	return token, user, nil
}

// GenerateToken signs an HS256 JWT carrying the user's id, email and role
// flags.
func GenerateToken(user *model.User) (string, error) {
	cfg := config.LoadJWTConfig()
	claims := jwt.MapClaims{
		"sub":          user.ID.String(),
		"email":        user.Email,
		"is_admin":     user.IsAdmin,
		"is_clerk":     user.IsClerk,
		"is_affiliate": user.IsAffiliate,
		"exp":          time.Now().Add(cfg.TokenTTL).Unix(),
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString([]byte(cfg.Secret))
}

// GenerateReferralCode returns a short random code in the format CC-XXXXXXXX.
func GenerateReferralCode() string {
	b := make([]byte, 4)
	if _, err := rand.Read(b); err != nil {
		return fmt.Sprintf("CC-%08X", time.Now().UnixNano()&0xFFFFFFFF)
	}
	return fmt.Sprintf("CC-%08X", b)
}
