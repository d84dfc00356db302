package app

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"resumescout/internal/model"
	"resumescout/internal/pkg/jwtutil"
	"resumescout/internal/repository"
)

var (
	ErrInvalidInput      = errors.New("invalid input")
	ErrUsernameExists    = errors.New("username already exists")
	ErrEmailExists       = errors.New("email already exists")
	ErrInvalidCredential = errors.New("invalid username or password")
)

type AuthService struct {
	recruiterRepo *repository.RecruiterRepository
	jwtSecret     string
	jwtExpiration time.Duration
}

type RegisterInput struct {
	Username string
	Email    string
	Password string
}

type LoginInput struct {
	Username string
	Password string
}

type AuthResult struct {
	Token     string
	Recruiter *model.Recruiter
}

func NewAuthService(recruiterRepo *repository.RecruiterRepository, jwtSecret string, jwtExpiration time.Duration) *AuthService {
	return &AuthService{
		recruiterRepo: recruiterRepo,
		jwtSecret:     jwtSecret,
		jwtExpiration: jwtExpiration,
	}
}

func (s *AuthService) Register(input RegisterInput) (*AuthResult, error) {
	username := strings.TrimSpace(input.Username)
	email := strings.TrimSpace(strings.ToLower(input.Email))
	password := strings.TrimSpace(input.Password)

	if username == "" || email == "" || password == "" || len(password) < 8 {
		return nil, ErrInvalidInput
	}

	existingByName, err := s.recruiterRepo.GetByUsername(username)
	if err != nil {
		return nil, err
	}
	if existingByName != nil {
		return nil, ErrUsernameExists
	}

	existingByEmail, err := s.recruiterRepo.GetByEmail(email)
	if err != nil {
		return nil, err
	}
	if existingByEmail != nil {
		return nil, ErrEmailExists
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password failed: %w", err)
	}

	recruiter := &model.Recruiter{
		Username:     username,
		Email:        email,
		PasswordHash: string(hash),
	}
	if err := s.recruiterRepo.Create(recruiter); err != nil {
		return nil, err
	}

	token, err := jwtutil.GenerateToken(s.jwtSecret, s.jwtExpiration, recruiter.ID, recruiter.Username)
	if err != nil {
		return nil, err
	}
	return &AuthResult{Token: token, Recruiter: recruiter}, nil
}

func (s *AuthService) Login(input LoginInput) (*AuthResult, error) {
	username := strings.TrimSpace(input.Username)
	password := strings.TrimSpace(input.Password)
	if username == "" || password == "" {
		return nil, ErrInvalidInput
	}

	recruiter, err := s.recruiterRepo.GetByUsername(username)
	if err != nil {
		return nil, err
	}
	if recruiter == nil {
		return nil, ErrInvalidCredential
	}

	if err := bcrypt.CompareHashAndPassword([]byte(recruiter.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredential
	}

	token, err := jwtutil.GenerateToken(s.jwtSecret, s.jwtExpiration, recruiter.ID, recruiter.Username)
	if err != nil {
		return nil, err
	}
	return &AuthResult{Token: token, Recruiter: recruiter}, nil
}

func (s *AuthService) GetRecruiterByID(id uint) (*model.Recruiter, error) {
	if id == 0 {
		return nil, ErrInvalidInput
	}
	return s.recruiterRepo.GetByID(id)
}
