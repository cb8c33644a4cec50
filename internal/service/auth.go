package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"laundry-service-api/internal/apperror"
	"laundry-service-api/internal/model"
	"laundry-service-api/internal/repository"
)

type AuthService interface {
	Login(ctx context.Context, email, password string) (string, *model.User, error)
	ParseToken(token string) (Actor, error)
}

type authServiceImpl struct {
	userRepo repository.UserRepository
	secret   []byte
	tokenTTL time.Duration
}

func NewAuthService(userRepo repository.UserRepository, secret string, tokenTTL time.Duration) AuthService {
	return &authServiceImpl{
		userRepo: userRepo,
		secret:   []byte(secret),
		tokenTTL: tokenTTL,
	}
}

func (s *authServiceImpl) Login(ctx context.Context, email, password string) (string, *model.User, error) {
	user, err := s.userRepo.FindUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return "", nil, apperror.ErrUnauthorized
		}
		return "", nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", nil, apperror.ErrUnauthorized
	}

	now := time.Now()
	claims := jwt.MapClaims{
		"sub":  user.ID,
		"role": string(user.Role),
		"iat":  now.Unix(),
		"exp":  now.Add(s.tokenTTL).Unix(),
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", nil, fmt.Errorf("sign token: %w", err)
	}

	return token, user, nil
}

func (s *authServiceImpl) ParseToken(tokenString string) (Actor, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil || !token.Valid {
		return Actor{}, apperror.ErrUnauthorized
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return Actor{}, apperror.ErrUnauthorized
	}

	sub, _ := claims["sub"].(string)
	roleStr, _ := claims["role"].(string)
	role := model.Role(roleStr)
	if sub == "" || !role.Valid() {
		return Actor{}, apperror.ErrUnauthorized
	}

	return Actor{UserID: sub, Role: role}, nil
}
