package services

import (
  "context"
  "fmt"
  "strings"
  "time"

  "github.com/golang-jwt/jwt/v5"
  "github.com/google/uuid"
  "golang.org/x/crypto/bcrypt"
  "gorm.io/gorm"

  "github.com/smartasset-org/smartasset-backend/internal/apperrors"
  "github.com/smartasset-org/smartasset-backend/internal/logger"
  "github.com/smartasset-org/smartasset-backend/internal/repos"
  "github.com/smartasset-org/smartasset-backend/internal/requestdata"
  "github.com/smartasset-org/smartasset-backend/internal/types"
)

type TokenPair struct {
  AccessToken  string `json:"access_token"`
  RefreshToken string `json:"refresh_token"`
}

type AuthService interface {
  Register(ctx context.Context, email, password, firstName, lastName string) (*types.User, error)
  Login(ctx context.Context, email, password string) (*TokenPair, error)
  Refresh(ctx context.Context, refreshToken string) (*TokenPair, error)
  Logout(ctx context.Context) error
  SetContextFromToken(ctx context.Context, tokenString string) (context.Context, error)
}

type authService struct {
  db              *gorm.DB
  log             *logger.Logger
  userRepo        repos.UserRepo
  userTokenRepo   repos.UserTokenRepo
  jwtSecretKey    []byte
  accessTokenTTL  time.Duration
  refreshTokenTTL time.Duration
}

func NewAuthService(
  db *gorm.DB,
  log *logger.Logger,
  userRepo repos.UserRepo,
  userTokenRepo repos.UserTokenRepo,
  jwtSecretKey string,
  accessTokenTTL time.Duration,
  refreshTokenTTL time.Duration,
) AuthService {
  return &authService{
    db:              db,
    log:             log.With("service", "AuthService"),
    userRepo:        userRepo,
    userTokenRepo:   userTokenRepo,
    jwtSecretKey:    []byte(jwtSecretKey),
    accessTokenTTL:  accessTokenTTL,
    refreshTokenTTL: refreshTokenTTL,
  }
}

func (asv *authService) Register(ctx context.Context, email, password, firstName, lastName string) (*types.User, error) {
  email = strings.ToLower(strings.TrimSpace(email))
  if email == "" || password == "" {
    return nil, fmt.Errorf("email and password are required")
  }
  if _, err := asv.userRepo.GetByEmail(ctx, nil, email); err == nil {
    return nil, fmt.Errorf("email already registered")
  }
  hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
  if err != nil {
    asv.log.Error("failed to hash password", "error", err)
    return nil, err
  }
  user := &types.User{
    Email:        email,
    PasswordHash: string(hash),
    FirstName:    firstName,
    LastName:     lastName,
  }
  return asv.userRepo.Create(ctx, nil, user)
}

func (asv *authService) Login(ctx context.Context, email, password string) (*TokenPair, error) {
  email = strings.ToLower(strings.TrimSpace(email))
  user, err := asv.userRepo.GetByEmail(ctx, nil, email)
  if err != nil {
    return nil, fmt.Errorf("invalid email or password")
  }
  if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
    return nil, fmt.Errorf("invalid email or password")
  }
  return asv.issueTokens(ctx, user)
}

func (asv *authService) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
  stored, err := asv.userTokenRepo.GetByRefreshToken(ctx, nil, refreshToken)
  if err != nil {
    return nil, fmt.Errorf("invalid refresh token")
  }
  if time.Now().After(stored.ExpiresAt) {
    return nil, fmt.Errorf("refresh token expired")
  }
  user, err := asv.userRepo.GetByID(ctx, nil, stored.UserID)
  if err != nil {
    return nil, apperrors.ErrUserNotFound
  }
  if err := asv.userTokenRepo.DeleteByUserID(ctx, nil, user.ID); err != nil {
    return nil, err
  }
  return asv.issueTokens(ctx, user)
}

func (asv *authService) Logout(ctx context.Context) error {
  rd := requestdata.GetRequestData(ctx)
  if rd == nil || rd.UserID == uuid.Nil {
    return fmt.Errorf("request data is not set in context")
  }
  return asv.userTokenRepo.DeleteByUserID(ctx, nil, rd.UserID)
}

func (asv *authService) issueTokens(ctx context.Context, user *types.User) (*TokenPair, error) {
  now := time.Now()
  claims := jwt.MapClaims{
    "user_id": user.ID.String(),
    "email":   user.Email,
    "iat":     now.Unix(),
    "exp":     now.Add(asv.accessTokenTTL).Unix(),
  }
  access, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(asv.jwtSecretKey)
  if err != nil {
    asv.log.Error("failed to sign access token", "error", err)
    return nil, err
  }

  refresh := uuid.NewString()
  _, err = asv.userTokenRepo.Create(ctx, nil, &types.UserToken{
    UserID:       user.ID,
    RefreshToken: refresh,
    ExpiresAt:    now.Add(asv.refreshTokenTTL),
  })
  if err != nil {
    return nil, err
  }
  return &TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

func (asv *authService) SetContextFromToken(ctx context.Context, tokenString string) (context.Context, error) {
  token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
    if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
      return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
    }
    return asv.jwtSecretKey, nil
  })
  if err != nil || !token.Valid {
    return ctx, fmt.Errorf("invalid or expired token")
  }
  claims, ok := token.Claims.(jwt.MapClaims)
  if !ok {
    return ctx, fmt.Errorf("invalid token claims")
  }
  userIDStr, _ := claims["user_id"].(string)
  userID, err := uuid.Parse(userIDStr)
  if err != nil {
    return ctx, fmt.Errorf("invalid user id in token")
  }
  email, _ := claims["email"].(string)

  rd := &requestdata.RequestData{
    TokenString: tokenString,
    UserID:      userID,
    Email:       email,
  }
  return requestdata.WithRequestData(ctx, rd), nil
}
