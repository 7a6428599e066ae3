package service

import (
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"regexp"
	"strings"
	"time"

	"github.com/ManvithReddyyy/vinnu-app/internal/config"
	"github.com/ManvithReddyyy/vinnu-app/internal/model"
	"github.com/ManvithReddyyy/vinnu-app/internal/repository"
	"github.com/ManvithReddyyy/vinnu-app/internal/util"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var usernamePattern = regexp.MustCompile(`^[a-zA-Z0-9_]{3,30}$`)

type AuthService struct {
	userRepo *repository.UserRepository
	mailer   Mailer
	cfg      *config.Config
}

func NewAuthService(userRepo *repository.UserRepository, mailer Mailer, cfg *config.Config) *AuthService {
	return &AuthService{userRepo: userRepo, mailer: mailer, cfg: cfg}
}

type RegisterInput struct {
	FirstName string `json:"firstName" binding:"required,max=50"`
	LastName  string `json:"lastName" binding:"required,max=50"`
	Username  string `json:"username" binding:"required"`
	Email     string `json:"email" binding:"required,email"`
	Password  string `json:"password" binding:"required,min=8,max=72"`
}

// Register creates an unverified account and mails a one-time code. The
// account cannot log in until the code is confirmed.
func (s *AuthService) Register(input *RegisterInput) (*model.User, error) {
	username := strings.ToLower(strings.TrimSpace(input.Username))
	email := strings.ToLower(strings.TrimSpace(input.Email))

	if !usernamePattern.MatchString(username) {
		return nil, util.ErrInvalidUsername
	}

	if _, err := s.userRepo.FindByUsername(username); err == nil {
		return nil, util.ErrUsernameTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	if _, err := s.userRepo.FindByEmail(email); err == nil {
		return nil, util.ErrEmailRegistered
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	otp, err := generateOTP()
	if err != nil {
		return nil, err
	}
	expiry := time.Now().Add(10 * time.Minute)

	user := &model.User{
		FirstName:       strings.TrimSpace(input.FirstName),
		LastName:        strings.TrimSpace(input.LastName),
		Username:        username,
		Email:           email,
		Password:        string(hashed),
		Role:            model.RoleUser,
		VerificationOTP: otp,
		OTPExpiry:       &expiry,
	}

	if err := s.userRepo.Create(user); err != nil {
		return nil, err
	}

	s.sendOTPMail(user, otp)
	return user, nil
}

// VerifyOTP confirms the emailed code and marks the account verified.
func (s *AuthService) VerifyOTP(email, otp string) error {
	user, err := s.userRepo.FindByEmail(strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return util.ErrUserNotFound
		}
		return err
	}

	if user.IsVerified {
		return nil
	}
	if user.VerificationOTP == "" || user.VerificationOTP != otp {
		return util.ErrInvalidOTP
	}
	if user.OTPExpiry == nil || time.Now().After(*user.OTPExpiry) {
		return util.ErrInvalidOTP
	}

	return s.userRepo.UpdateFields(user.ID, map[string]interface{}{
		"is_verified":      true,
		"verification_otp": "",
		"otp_expiry":       nil,
	})
}

// ResendOTP rotates the code for a still-unverified account.
func (s *AuthService) ResendOTP(email string) error {
	user, err := s.userRepo.FindByEmail(strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return util.ErrUserNotFound
		}
		return err
	}
	if user.IsVerified {
		return nil
	}

	otp, err := generateOTP()
	if err != nil {
		return err
	}
	expiry := time.Now().Add(10 * time.Minute)

	if err := s.userRepo.UpdateFields(user.ID, map[string]interface{}{
		"verification_otp": otp,
		"otp_expiry":       expiry,
	}); err != nil {
		return err
	}

	s.sendOTPMail(user, otp)
	return nil
}

type LoginInput struct {
	Login    string `json:"login" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Login accepts a username or an email address as the login identifier.
func (s *AuthService) Login(input *LoginInput) (string, *model.User, error) {
	user, err := s.userRepo.FindByLogin(strings.ToLower(strings.TrimSpace(input.Login)))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", nil, util.ErrInvalidCredentials
		}
		return "", nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(input.Password)); err != nil {
		return "", nil, util.ErrInvalidCredentials
	}
	if !user.IsVerified {
		return "", nil, util.ErrNotVerified
	}
	if user.IsBanned {
		// Return the user too so the handler can surface the ban reason.
		return "", user, util.ErrBanned
	}

	if err := s.userRepo.UpdateLastSeen(user.ID); err != nil {
		return "", nil, err
	}

	token, err := util.GenerateJWT(user, s.cfg.JWT.Secret, s.cfg.JWT.ExpireTime)
	if err != nil {
		return "", nil, err
	}
	return token, user, nil
}

func (s *AuthService) GetCurrentUser(userID uint) (*model.User, error) {
	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

func (s *AuthService) sendOTPMail(user *model.User, otp string) {
	subject := "Your Vinnu verification code"
	text := fmt.Sprintf("Hi %s,\n\nYour verification code is %s. It expires in 10 minutes.\n", user.FirstName, otp)
	html := fmt.Sprintf(
		`<p>Hi %s,</p><p>Your verification code is <strong style="font-size:1.4em;letter-spacing:3px">%s</strong>.</p><p>It expires in 10 minutes.</p>`,
		user.FirstName, otp)
	sendAsync(s.mailer, user.Email, subject, html, text)
}

// generateOTP returns six random decimal digits from a CSPRNG.
func generateOTP() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}
