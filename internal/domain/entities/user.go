package entities

import (
	"time"

	"github.com/google/uuid"
)

// RoleName is the name of one of the two fixed marketplace roles
type RoleName string

const (
	RoleTeacher RoleName = "Profesor"
	RoleStudent RoleName = "Alumno"
)

// Valid reports whether the name is one of the known roles
func (r RoleName) Valid() bool {
	return r == RoleTeacher || r == RoleStudent
}

// MinPasswordLength is the minimum length accepted for a credential
const MinPasswordLength = 6

// User represents a user entity
type User struct {
	ID             uuid.UUID       `json:"id"`
	Email          string          `json:"email"`
	FullName       string          `json:"fullName"`
	PasswordHash   string          `json:"-"`
	Role           *Role           `json:"role,omitempty"`
	Avatar         string          `json:"avatar"`
	Bio            string          `json:"bio"`
	Languages      []Language      `json:"languages"`
	Subjects       []Subject       `json:"subjects"`
	Location       *Location       `json:"location,omitempty"`
	Price          float64         `json:"price"`
	IsOnboarded    bool            `json:"isOnboarded"`
	PaymentAccount *PaymentAccount `json:"-"`
	CreatedAt      time.Time       `json:"createdAt"`
	UpdatedAt      time.Time       `json:"updatedAt"`
}

// HasRole reports whether the user holds the given role
func (u *User) HasRole(name RoleName) bool {
	return u != nil && u.Role != nil && u.Role.Name == string(name)
}

// IsTeacher reports whether the user is a Profesor
func (u *User) IsTeacher() bool { return u.HasRole(RoleTeacher) }

// IsStudent reports whether the user is an Alumno
func (u *User) IsStudent() bool { return u.HasRole(RoleStudent) }

// LanguageIDs returns the ids of the user's languages
func (u *User) LanguageIDs() []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(u.Languages))
	for _, l := range u.Languages {
		ids = append(ids, l.ID)
	}
	return ids
}

// SubjectIDs returns the ids of the user's subjects
func (u *User) SubjectIDs() []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(u.Subjects))
	for _, s := range u.Subjects {
		ids = append(ids, s.ID)
	}
	return ids
}

// Summary projects the display-safe fields
func (u *User) Summary() UserSummary {
	return UserSummary{ID: u.ID, FullName: u.FullName, Avatar: u.Avatar}
}

// UserSummary is the public projection of a user shown to other users
type UserSummary struct {
	ID       uuid.UUID `json:"id"`
	FullName string    `json:"fullName"`
	Avatar   string    `json:"avatar"`
}

// SignupInput represents input for creating a user
type SignupInput struct {
	FullName string `json:"fullName" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// LoginInput represents input for user login
type LoginInput struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// OnboardInput carries the profile fields sent at onboarding.
// Which of them are required depends on Role.
type OnboardInput struct {
	Role      RoleName    `json:"role"`
	FullName  string      `json:"fullName"`
	Avatar    string      `json:"avatar"`
	Bio       string      `json:"bio"`
	Languages []uuid.UUID `json:"languages"`
	Subjects  []uuid.UUID `json:"subjects"`
	Location  *uuid.UUID  `json:"location"`
	Price     *float64    `json:"price"`
}

// AuthResponse represents authentication response
type AuthResponse struct {
	AccessToken  string    `json:"accessToken"`
	RefreshToken string    `json:"refreshToken"`
	ExpiresAt    time.Time `json:"expiresAt"`
	User         *User     `json:"user"`
}

// Profile is the authenticated user's own view, including payment account status
type Profile struct {
	*User
	PaymentAccount PaymentAccountStatus `json:"paymentAccount"`
}
