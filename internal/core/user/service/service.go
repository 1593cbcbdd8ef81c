package userapp

import (
	"context"
	"strings"
	"time"

	"prolearn/internal/apperr"
	userEntity "prolearn/internal/core/user"
	userPort "prolearn/internal/ports/user"

	"github.com/dgrijalva/jwt-go"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const (
	tokenIssuer = "prolearn"
	tokenTTL    = 24 * time.Hour
)

// Claims محتوای توکن؛ Subject شناسه کاربر است
type Claims struct {
	Username string `json:"username"`
	jwt.StandardClaims
}

type RegisterInput struct {
	Username string `json:"username" validate:"required,min=3,max=64"`
	Email    string `json:"email" validate:"required,email,max=255"`
	Password string `json:"password" validate:"required,min=6,max=72"`
	Bio      string `json:"bio" validate:"max=1000"`
}

// UserService سرویس مدیریت کاربران
type UserService struct {
	UserRepository userPort.UserRepository
	jwtKey         []byte
	validate       *validator.Validate
	logger         *zap.Logger
	now            func() time.Time
}

func NewUserService(repo userPort.UserRepository, jwtKey []byte, logger *zap.Logger) *UserService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UserService{
		UserRepository: repo,
		jwtKey:         jwtKey,
		validate:       validator.New(),
		logger:         logger,
		now:            time.Now,
	}
}

// LoginUser ورود کاربر و صدور توکن JWT
func (s *UserService) LoginUser(ctx context.Context, username, password string) (*userPort.LoginResponse, error) {
	u, err := s.UserRepository.FindByUsername(ctx, username)
	if err != nil {
		if apperr.Is(err, apperr.KindNotFound) {
			return nil, apperr.Unauthenticated("invalid credentials")
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password)); err != nil {
		s.logger.Info("invalid password", zap.String("username", username))
		return nil, apperr.Unauthenticated("invalid credentials")
	}

	expiresAt := s.now().Add(tokenTTL)
	token, err := s.generateJWT(u, expiresAt)
	if err != nil {
		return nil, apperr.New(apperr.KindInternal, "could not generate token", err)
	}

	return &userPort.LoginResponse{
		Token:     token,
		ExpiresAt: expiresAt.Unix(),
		Username:  u.Username,
	}, nil
}

func (s *UserService) generateJWT(u *userEntity.User, expiresAt time.Time) (string, error) {
	claims := &Claims{
		Username: u.Username,
		StandardClaims: jwt.StandardClaims{
			Subject:   u.ID.String(),
			Issuer:    tokenIssuer,
			IssuedAt:  s.now().Unix(),
			ExpiresAt: expiresAt.Unix(),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.jwtKey)
}

// ParseToken توکن را اعتبارسنجی و claims را برمی‌گرداند
func ParseToken(tokenString string, key []byte) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, apperr.Unauthenticated("unexpected signing method %v", t.Header["alg"])
		}
		return key, nil
	})
	if err != nil || !token.Valid {
		return nil, apperr.Unauthenticated("invalid token")
	}
	if claims.Subject == "" || claims.Username == "" {
		return nil, apperr.Unauthenticated("invalid token claims")
	}
	return claims, nil
}

// RegisterUser ثبت‌نام کاربر جدید
func (s *UserService) RegisterUser(ctx context.Context, in RegisterInput) (*userPort.UserDTO, error) {
	in.Username = strings.TrimSpace(in.Username)
	in.Email = strings.TrimSpace(strings.ToLower(in.Email))
	if err := s.validate.Struct(in); err != nil {
		return nil, apperr.New(apperr.KindValidation, "invalid registration", err)
	}

	existing, err := s.UserRepository.FindByUsernameOrEmail(ctx, in.Username, in.Email)
	if err == nil && existing != nil {
		return nil, apperr.Conflict("username or email already taken")
	}
	if err != nil && !apperr.Is(err, apperr.KindNotFound) {
		return nil, err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, apperr.New(apperr.KindInternal, "hash password", err)
	}

	u, err := s.UserRepository.Create(ctx, &userEntity.User{
		Username: in.Username,
		Email:    in.Email,
		Password: string(hashed),
		Bio:      in.Bio,
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info("✅ user registered", zap.String("username", u.Username))
	return ToUserDTO(u), nil
}

// GetByUsername پیدا کردن کاربر با نام کاربری
func (s *UserService) GetByUsername(ctx context.Context, username string) (*userPort.UserDTO, error) {
	u, err := s.UserRepository.FindByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	return ToUserDTO(u), nil
}

func ToUserDTO(u *userEntity.User) *userPort.UserDTO {
	return &userPort.UserDTO{
		ID:             u.ID.String(),
		Username:       u.Username,
		Email:          u.Email,
		ProfilePicture: u.ProfilePicture,
		Bio:            u.Bio,
	}
}
