package service

import (
	"context"
	"crypto/subtle"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"college-erp/config"
	"college-erp/internal/dto"
	"college-erp/internal/model"
	"college-erp/internal/repository"
	"college-erp/pkg/events"
	"college-erp/pkg/jwt"
	applogger "college-erp/pkg/logger"
	"college-erp/pkg/mailer"
)

var (
	ErrInvalidCredentials  = errors.New("invalid email or password")
	ErrUserNotFound        = errors.New("user not found")
	ErrEmailExists         = errors.New("email already registered")
	ErrInvalidRole         = errors.New("role cannot self-register")
	ErrEmailDomainMismatch = errors.New("email does not belong to the college domain")
	ErrCollegeRequired     = errors.New("college is required")
	ErrCollegeMismatch     = errors.New("account is not registered under this college")
	ErrEmailNotVerified    = errors.New("email not verified, a new code has been sent")
	ErrAlreadyVerified     = errors.New("email already verified")
	ErrInvalidOTP          = errors.New("invalid or expired code")
)

const defaultBrandName = "College ERP"

// TokenBlacklist revokes access tokens by JTI.
type TokenBlacklist interface {
	BlacklistToken(ctx context.Context, jti string, ttl time.Duration) error
}

// AuthService registration, login and account recovery
type AuthService interface {
	ListColleges(ctx context.Context) ([]dto.CollegeBrief, error)
	Register(ctx context.Context, req *dto.RegisterRequest) (*dto.RegisterResponse, error)
	VerifyEmail(ctx context.Context, req *dto.VerifyEmailRequest) error
	ResendOTP(ctx context.Context, req *dto.EmailRequest) (*dto.OTPResponse, error)
	Login(ctx context.Context, req *dto.LoginRequest) (*dto.LoginResponse, error)
	Logout(ctx context.Context, jti string, expiresAt time.Time) error
	ForgotPassword(ctx context.Context, req *dto.EmailRequest) (*dto.OTPResponse, error)
	ResetPassword(ctx context.Context, req *dto.ResetPasswordRequest) error
	GetCurrentUser(ctx context.Context, userID string) (*dto.UserResponse, error)
}

type authService struct {
	cfg       *config.Config
	repo      *repository.Repository
	jwtMgr    *jwt.Manager
	otp       OTPStore
	blacklist TokenBlacklist
	mail      mailer.Mailer
	events    events.Publisher
	logger    *zap.Logger
}

// NewAuthService creates an AuthService. blacklist may be nil.
func NewAuthService(
	cfg *config.Config,
	repo *repository.Repository,
	jwtMgr *jwt.Manager,
	otp OTPStore,
	blacklist TokenBlacklist,
	mail mailer.Mailer,
	pub events.Publisher,
	logger *zap.Logger,
) AuthService {
	return &authService{
		cfg:       cfg,
		repo:      repo,
		jwtMgr:    jwtMgr,
		otp:       otp,
		blacklist: blacklist,
		mail:      mail,
		events:    pub,
		logger:    logger,
	}
}

func (s *authService) ListColleges(ctx context.Context) ([]dto.CollegeBrief, error) {
	colleges, err := s.repo.College.List(ctx)
	if err != nil {
		s.logger.Error("list colleges failed", zap.Error(err))
		return nil, err
	}
	list := make([]dto.CollegeBrief, 0, len(colleges))
	for _, c := range colleges {
		list = append(list, dto.CollegeBrief{ID: c.ID, Name: c.Name, Logo: c.Logo})
	}
	return list, nil
}

// ────── Register ──────

func (s *authService) Register(ctx context.Context, req *dto.RegisterRequest) (*dto.RegisterResponse, error) {
	email := normalizeEmail(req.Email)

	role := strings.TrimSpace(req.Role)
	if role == "" {
		role = model.RoleStudent
	}
	if !model.IsRegistrableRole(role) {
		return nil, ErrInvalidRole
	}

	college, err := s.repo.College.GetByID(ctx, req.CollegeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCollegeNotFound
		}
		s.logger.Error("load college failed", zap.String("college_id", req.CollegeID), zap.Error(err))
		return nil, err
	}
	if !emailMatchesDomain(email, college.Domain) {
		return nil, ErrEmailDomainMismatch
	}

	if _, err := s.repo.User.GetByEmail(ctx, email); err == nil {
		return nil, ErrEmailExists
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		s.logger.Error("lookup email failed", zap.Error(err))
		return nil, err
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		name = email[:strings.Index(email, "@")]
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		s.logger.Error("hash password failed", zap.Error(err))
		return nil, err
	}

	user := &model.User{
		CollegeID:    &college.ID,
		Role:         role,
		Name:         name,
		Email:        email,
		PasswordHash: string(hash),
		Verified:     false,
	}
	if err := s.repo.User.Create(ctx, user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrEmailExists
		}
		s.logger.Error("create user failed", applogger.Email(email), zap.Error(err))
		return nil, err
	}

	code, err := s.issueOTP(ctx, OTPVerify, user)
	if err != nil {
		return nil, err
	}

	s.publish(ctx, events.UserRegistered, college.ID, map[string]string{
		"user_id": user.ID,
		"email":   user.Email,
		"role":    user.Role,
	})

	resp := &dto.RegisterResponse{
		ID:    user.ID,
		Name:  user.Name,
		Email: user.Email,
		Role:  user.Role,
	}
	if s.cfg.Auth.ExposeOTP {
		resp.OTP = code
	}
	return resp, nil
}

// ────── OTP ──────

// issueOTP stores a fresh code and mails it. Delivery failures are logged
// only; the code stays valid and can be resent.
func (s *authService) issueOTP(ctx context.Context, purpose string, user *model.User) (string, error) {
	code, err := NewOTP()
	if err != nil {
		s.logger.Error("generate otp failed", zap.Error(err))
		return "", err
	}
	if err := s.otp.SaveOTP(ctx, purpose, user.Email, code, s.cfg.Auth.OTPTTL); err != nil {
		s.logger.Error("store otp failed", applogger.Email(user.Email), zap.Error(err))
		return "", err
	}

	subject := "Verify your email"
	if purpose == OTPReset {
		subject = "Reset your password"
	}
	if err := s.mail.Send(ctx, mailer.Message{
		ToName:  user.Name,
		ToEmail: user.Email,
		Subject: subject,
		Text:    "Your one-time code is " + code + ". It expires in " + s.cfg.Auth.OTPTTL.String() + ".",
	}); err != nil {
		s.logger.Warn("send otp mail failed", applogger.Email(user.Email), zap.Error(err))
	}
	return code, nil
}

func (s *authService) checkOTP(ctx context.Context, purpose, email, code string) error {
	stored, err := s.otp.GetOTP(ctx, purpose, email)
	if err != nil {
		s.logger.Error("read otp failed", applogger.Email(email), zap.Error(err))
		return err
	}
	if stored == "" {
		return ErrInvalidOTP
	}
	if subtle.ConstantTimeCompare([]byte(stored), []byte(code)) != 1 {
		failures, err := s.otp.RecordOTPFailure(ctx, purpose, email, s.cfg.Auth.OTPTTL)
		if err != nil {
			s.logger.Error("record otp failure failed", applogger.Email(email), zap.Error(err))
			return err
		}
		if failures >= MaxOTPAttempts {
			if err := s.otp.DeleteOTP(ctx, purpose, email); err != nil {
				s.logger.Error("burn otp failed", applogger.Email(email), zap.Error(err))
				return err
			}
			s.logger.Warn("otp burned after repeated failures", applogger.Email(email), zap.String("purpose", purpose))
		}
		return ErrInvalidOTP
	}
	if err := s.otp.DeleteOTP(ctx, purpose, email); err != nil {
		s.logger.Warn("delete otp failed", applogger.Email(email), zap.Error(err))
	}
	return nil
}

func (s *authService) userByEmail(ctx context.Context, email string) (*model.User, error) {
	user, err := s.repo.User.GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		s.logger.Error("lookup user failed", zap.Error(err))
		return nil, err
	}
	return user, nil
}

func (s *authService) VerifyEmail(ctx context.Context, req *dto.VerifyEmailRequest) error {
	user, err := s.userByEmail(ctx, req.Email)
	if err != nil {
		return err
	}
	if user.Verified {
		return nil
	}
	if err := s.checkOTP(ctx, OTPVerify, user.Email, req.OTP); err != nil {
		return err
	}
	if err := s.repo.User.UpdateFields(ctx, user.ID, map[string]interface{}{"verified": true}); err != nil {
		s.logger.Error("mark verified failed", zap.String("user_id", user.ID), zap.Error(err))
		return err
	}
	return nil
}

func (s *authService) ResendOTP(ctx context.Context, req *dto.EmailRequest) (*dto.OTPResponse, error) {
	user, err := s.userByEmail(ctx, req.Email)
	if err != nil {
		return nil, err
	}
	if user.Verified {
		return nil, ErrAlreadyVerified
	}
	code, err := s.issueOTP(ctx, OTPVerify, user)
	if err != nil {
		return nil, err
	}
	return s.otpResponse(user.Email, code), nil
}

func (s *authService) otpResponse(email, code string) *dto.OTPResponse {
	resp := &dto.OTPResponse{Email: email}
	if s.cfg.Auth.ExposeOTP {
		resp.OTP = code
	}
	return resp
}

// ────── Login / Logout ──────

func (s *authService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.LoginResponse, error) {
	user, err := s.repo.User.GetByEmail(ctx, normalizeEmail(req.Email))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		s.logger.Error("lookup user failed", zap.Error(err))
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	if user.Role != model.RoleSuperAdmin {
		if req.CollegeID == "" {
			return nil, ErrCollegeRequired
		}
		if user.CollegeIDValue() != req.CollegeID {
			return nil, ErrCollegeMismatch
		}
		if !user.Verified {
			if _, err := s.issueOTP(ctx, OTPVerify, user); err != nil {
				return nil, err
			}
			return nil, ErrEmailNotVerified
		}
	}

	token, err := s.jwtMgr.GenerateAccessToken(user.ID, user.Role, user.CollegeIDValue())
	if err != nil {
		s.logger.Error("sign access token failed", zap.Error(err))
		return nil, err
	}

	branding := dto.Branding{Name: defaultBrandName}
	if user.College != nil {
		branding = dto.Branding{Name: user.College.Name, Logo: user.College.Logo}
	}

	return &dto.LoginResponse{
		AccessToken: token,
		ExpiresIn:   int(s.jwtMgr.AccessTokenTTL().Seconds()),
		User:        toUserResponse(user),
		Branding:    branding,
	}, nil
}

func (s *authService) Logout(ctx context.Context, jti string, expiresAt time.Time) error {
	if s.blacklist == nil {
		s.logger.Warn("token blacklist unavailable, logout is client-side only", zap.String("jti", jti))
		return nil
	}
	if err := s.blacklist.BlacklistToken(ctx, jti, time.Until(expiresAt)); err != nil {
		s.logger.Error("blacklist token failed", zap.String("jti", jti), zap.Error(err))
		return err
	}
	return nil
}

// ────── Password reset ──────

func (s *authService) ForgotPassword(ctx context.Context, req *dto.EmailRequest) (*dto.OTPResponse, error) {
	user, err := s.userByEmail(ctx, req.Email)
	if err != nil {
		return nil, err
	}
	code, err := s.issueOTP(ctx, OTPReset, user)
	if err != nil {
		return nil, err
	}
	return s.otpResponse(user.Email, code), nil
}

func (s *authService) ResetPassword(ctx context.Context, req *dto.ResetPasswordRequest) error {
	user, err := s.userByEmail(ctx, req.Email)
	if err != nil {
		return err
	}
	if err := s.checkOTP(ctx, OTPReset, user.Email, req.OTP); err != nil {
		return err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		s.logger.Error("hash password failed", zap.Error(err))
		return err
	}
	if err := s.repo.User.UpdateFields(ctx, user.ID, map[string]interface{}{"password_hash": string(hash)}); err != nil {
		s.logger.Error("update password failed", zap.String("user_id", user.ID), zap.Error(err))
		return err
	}
	return nil
}

func (s *authService) GetCurrentUser(ctx context.Context, userID string) (*dto.UserResponse, error) {
	user, err := s.repo.User.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		s.logger.Error("load user failed", zap.String("user_id", userID), zap.Error(err))
		return nil, err
	}
	resp := toUserResponse(user)
	return &resp, nil
}

func (s *authService) publish(ctx context.Context, eventType, collegeID string, payload interface{}) {
	if err := s.events.Publish(ctx, eventType, collegeID, payload); err != nil {
		s.logger.Warn("publish event failed", zap.String("type", eventType), zap.Error(err))
	}
}

func toUserResponse(u *model.User) dto.UserResponse {
	return dto.UserResponse{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		Role:      u.Role,
		Verified:  u.Verified,
		CollegeID: u.CollegeIDValue(),
		Program:   u.Program,
		Branch:    u.Branch,
		Year:      u.Year,
		Photo:     u.Photo,
		CreatedAt: formatTime(u.CreatedAt),
	}
}
