package usecases

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"promatch.backend/internal/domain/entities"
	domainerrors "promatch.backend/internal/domain/errors"
	"promatch.backend/internal/domain/gateways"
	"promatch.backend/internal/domain/repositories"
	"promatch.backend/pkg/crypto"
	"promatch.backend/pkg/jwt"
)

// AuthUsecase handles signup, login and onboarding
type AuthUsecase struct {
	userRepo        repositories.UserRepository
	refRepo         repositories.ReferenceRepository
	paymentAccounts repositories.PaymentAccountRepository
	uow             repositories.UnitOfWork
	chat            gateways.ChatService
	events          gateways.EventPublisher
	jwtService      *jwt.JWTService
	validate        *validator.Validate
	now             func() time.Time
}

// NewAuthUsecase creates a new auth usecase
func NewAuthUsecase(
	userRepo repositories.UserRepository,
	refRepo repositories.ReferenceRepository,
	paymentAccounts repositories.PaymentAccountRepository,
	uow repositories.UnitOfWork,
	chat gateways.ChatService,
	events gateways.EventPublisher,
	jwtService *jwt.JWTService,
) *AuthUsecase {
	return &AuthUsecase{
		userRepo:        userRepo,
		refRepo:         refRepo,
		paymentAccounts: paymentAccounts,
		uow:             uow,
		chat:            chat,
		events:          events,
		jwtService:      jwtService,
		validate:        newValidator(),
		now:             time.Now,
	}
}

// Signup registers a new user and signs them in
func (u *AuthUsecase) Signup(ctx context.Context, input *entities.SignupInput) (*entities.AuthResponse, error) {
	input.FullName = strings.TrimSpace(input.FullName)
	input.Email = strings.ToLower(strings.TrimSpace(input.Email))

	if err := u.validate.Struct(input); err != nil {
		if failedTag(err, "email") == "email" {
			return nil, domainerrors.Validation("Invalid email format")
		}
		return nil, domainerrors.MissingFields(invalidFields(err)...)
	}
	if len(input.Password) < entities.MinPasswordLength {
		return nil, domainerrors.ErrWeakCredential
	}

	_, err := u.userRepo.GetByEmail(ctx, input.Email)
	if err == nil {
		return nil, errDuplicateEmail(domainerrors.ErrAlreadyExists)
	}
	if !errors.Is(err, domainerrors.ErrNotFound) {
		return nil, err
	}

	passwordHash, err := crypto.HashPassword(input.Password)
	if err != nil {
		return nil, err
	}

	user := &entities.User{
		Email:        input.Email,
		FullName:     input.FullName,
		PasswordHash: passwordHash,
	}
	if err := u.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, domainerrors.ErrAlreadyExists) {
			return nil, errDuplicateEmail(err)
		}
		return nil, err
	}

	mirrorIdentity(ctx, u.chat, user)
	return u.issue(user)
}

func errDuplicateEmail(err error) error {
	return domainerrors.NewAppError(http.StatusConflict, domainerrors.CodeDuplicateIdentity, "Email already exists, please use a different one", err)
}

// Login authenticates a user and returns tokens
func (u *AuthUsecase) Login(ctx context.Context, input *entities.LoginInput) (*entities.AuthResponse, error) {
	user, err := u.userRepo.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(input.Email)))
	if err != nil {
		if errors.Is(err, domainerrors.ErrNotFound) {
			return nil, domainerrors.ErrInvalidCredentials
		}
		return nil, err
	}

	if !crypto.CheckPassword(input.Password, user.PasswordHash) {
		return nil, domainerrors.ErrInvalidCredentials
	}
	return u.issue(user)
}

// RefreshToken generates new tokens from a refresh token
func (u *AuthUsecase) RefreshToken(ctx context.Context, refreshToken string) (*entities.AuthResponse, error) {
	claims, err := u.jwtService.ValidateToken(refreshToken, jwt.TokenTypeRefresh)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domainerrors.ErrUnauthorized, err)
	}

	// the user may have been deleted since the token was issued
	user, err := u.userRepo.GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, domainerrors.ErrNotFound) {
			return nil, domainerrors.ErrUnauthorized
		}
		return nil, err
	}
	return u.issue(user)
}

func (u *AuthUsecase) issue(user *entities.User) (*entities.AuthResponse, error) {
	pair, err := u.jwtService.GenerateTokenPair(user.ID, user.Email)
	if err != nil {
		return nil, err
	}
	return &entities.AuthResponse{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		ExpiresAt:    pair.ExpiresAt,
		User:         user,
	}, nil
}

// Me returns the user's own profile with the payment account status
func (u *AuthUsecase) Me(ctx context.Context, userID uuid.UUID) (*entities.Profile, error) {
	user, err := u.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	account, err := u.paymentAccounts.GetByUserID(ctx, userID)
	if err != nil && !errors.Is(err, domainerrors.ErrNotFound) {
		return nil, err
	}
	return &entities.Profile{User: user, PaymentAccount: account.StatusAt(u.now())}, nil
}

type teacherProfile struct {
	FullName  string      `json:"fullName" binding:"required"`
	Avatar    string      `json:"avatar" binding:"required"`
	Bio       string      `json:"bio" binding:"required"`
	Languages []uuid.UUID `json:"languages" binding:"required,min=1"`
	Subjects  []uuid.UUID `json:"subjects" binding:"required,min=1"`
	Location  *uuid.UUID  `json:"location" binding:"required"`
	Price     *float64    `json:"price" binding:"required,gt=0"`
}

type studentProfile struct {
	FullName  string      `json:"fullName" binding:"required"`
	Avatar    string      `json:"avatar" binding:"required"`
	Languages []uuid.UUID `json:"languages" binding:"required,min=1"`
	Subjects  []uuid.UUID `json:"subjects" binding:"required,min=1"`
	Location  *uuid.UUID  `json:"location" binding:"required"`
}

func (u *AuthUsecase) validateProfile(input *entities.OnboardInput) error {
	var err error
	switch input.Role {
	case entities.RoleTeacher:
		err = u.validate.Struct(teacherProfile{
			FullName:  input.FullName,
			Avatar:    input.Avatar,
			Bio:       input.Bio,
			Languages: input.Languages,
			Subjects:  input.Subjects,
			Location:  input.Location,
			Price:     input.Price,
		})
	case entities.RoleStudent:
		err = u.validate.Struct(studentProfile{
			FullName:  input.FullName,
			Avatar:    input.Avatar,
			Languages: input.Languages,
			Subjects:  input.Subjects,
			Location:  input.Location,
		})
	case "":
		return domainerrors.MissingFields("role")
	default:
		return domainerrors.Validation("role must be Profesor or Alumno")
	}
	if err != nil {
		if fields := invalidFields(err); len(fields) > 0 {
			return domainerrors.MissingFields(fields...)
		}
		return err
	}
	return nil
}

// Onboard assigns the role and profile fields and marks the user onboarded
func (u *AuthUsecase) Onboard(ctx context.Context, userID uuid.UUID, input *entities.OnboardInput) (*entities.User, error) {
	input.FullName = strings.TrimSpace(input.FullName)
	input.Avatar = strings.TrimSpace(input.Avatar)
	input.Bio = strings.TrimSpace(input.Bio)
	if err := u.validateProfile(input); err != nil {
		return nil, err
	}

	user, err := u.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	role, err := u.refRepo.GetByName(ctx, entities.ReferenceRole, string(input.Role))
	if err != nil {
		if errors.Is(err, domainerrors.ErrNotFound) {
			return nil, domainerrors.ErrRoleNotConfigured
		}
		return nil, err
	}

	languages := uniqueIDs(input.Languages)
	subjects := uniqueIDs(input.Subjects)
	if err := u.checkReferences(ctx, entities.ReferenceLanguage, languages); err != nil {
		return nil, err
	}
	if err := u.checkReferences(ctx, entities.ReferenceSubject, subjects); err != nil {
		return nil, err
	}
	if err := u.checkReferences(ctx, entities.ReferenceLocation, []uuid.UUID{*input.Location}); err != nil {
		return nil, err
	}

	user.FullName = input.FullName
	user.Avatar = input.Avatar
	user.Role = role
	user.Location = &entities.Location{ID: *input.Location}
	user.Languages = make([]entities.Language, 0, len(languages))
	for _, id := range languages {
		user.Languages = append(user.Languages, entities.Language{ID: id})
	}
	user.Subjects = make([]entities.Subject, 0, len(subjects))
	for _, id := range subjects {
		user.Subjects = append(user.Subjects, entities.Subject{ID: id})
	}
	user.Bio = input.Bio
	user.Price = 0
	if input.Role == entities.RoleTeacher {
		user.Price = *input.Price
	}
	user.IsOnboarded = true

	err = u.uow.Do(ctx, func(txCtx context.Context) error {
		return u.userRepo.UpdateProfile(txCtx, user)
	})
	if err != nil {
		return nil, err
	}

	updated, err := u.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	mirrorIdentity(ctx, u.chat, updated)
	publishEvent(ctx, u.events, gateways.EventUserOnboarded, UserEvent{UserID: updated.ID, Role: input.Role})
	return updated, nil
}

func (u *AuthUsecase) checkReferences(ctx context.Context, kind entities.ReferenceKind, ids []uuid.UUID) error {
	count, err := u.refRepo.CountByIDs(ctx, kind, ids)
	if err != nil {
		return err
	}
	if count != int64(len(ids)) {
		return domainerrors.Validation(fmt.Sprintf("unknown %s", kind))
	}
	return nil
}
