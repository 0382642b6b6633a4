package repositories

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"promatch.backend/internal/domain/entities"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s_%d?mode=memory&cache=shared", t.Name(), time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	require.NoError(t, err, "open sqlite")
	return db
}

func mustExec(t *testing.T, db *gorm.DB, q string, args ...interface{}) {
	t.Helper()
	require.NoError(t, db.Exec(q, args...).Error, "exec failed: query=%s", q)
}

func createReferenceTables(t *testing.T, db *gorm.DB) {
	for _, kind := range entities.ReferenceKinds {
		mustExec(t, db, `CREATE TABLE `+string(kind)+` (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL UNIQUE,
			created_at DATETIME
		);`)
	}
}

func createUserTables(t *testing.T, db *gorm.DB) {
	mustExec(t, db, `CREATE TABLE users (
		id TEXT PRIMARY KEY,
		email TEXT NOT NULL UNIQUE,
		full_name TEXT NOT NULL,
		password_hash TEXT NOT NULL,
		role_id TEXT,
		location_id TEXT,
		avatar TEXT,
		bio TEXT,
		price REAL NOT NULL DEFAULT 0,
		is_onboarded BOOLEAN NOT NULL DEFAULT 0,
		created_at DATETIME,
		updated_at DATETIME
	);`)
	mustExec(t, db, `CREATE TABLE user_languages (
		user_id TEXT NOT NULL,
		language_id TEXT NOT NULL,
		PRIMARY KEY (user_id, language_id)
	);`)
	mustExec(t, db, `CREATE TABLE user_subjects (
		user_id TEXT NOT NULL,
		subject_id TEXT NOT NULL,
		PRIMARY KEY (user_id, subject_id)
	);`)
	mustExec(t, db, `CREATE TABLE user_connections (
		user_id TEXT NOT NULL,
		connection_id TEXT NOT NULL,
		created_at DATETIME,
		PRIMARY KEY (user_id, connection_id)
	);`)
}

func createPaymentTables(t *testing.T, db *gorm.DB) {
	mustExec(t, db, `CREATE TABLE payments (
		id TEXT PRIMARY KEY,
		sender_id TEXT,
		receiver_id TEXT,
		amount REAL NOT NULL,
		status TEXT NOT NULL,
		external_payment_id TEXT UNIQUE,
		created_at DATETIME
	);`)
	mustExec(t, db, `CREATE TABLE payment_accounts (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL UNIQUE,
		access_token TEXT,
		refresh_token TEXT,
		expires_at DATETIME,
		seller_id TEXT,
		is_connected BOOLEAN NOT NULL DEFAULT 0,
		created_at DATETIME,
		updated_at DATETIME
	);`)
}

func createVirtualClassTables(t *testing.T, db *gorm.DB) {
	mustExec(t, db, `CREATE TABLE virtual_classes (
		id TEXT PRIMARY KEY,
		channel_id TEXT NOT NULL,
		created_at DATETIME
	);`)
	mustExec(t, db, `CREATE TABLE virtual_class_participants (
		virtual_class_id TEXT NOT NULL,
		user_id TEXT NOT NULL,
		position INTEGER NOT NULL,
		PRIMARY KEY (virtual_class_id, user_id)
	);`)
}

func createAllTables(t *testing.T, db *gorm.DB) {
	createReferenceTables(t, db)
	createUserTables(t, db)
	createPaymentTables(t, db)
	createVirtualClassTables(t, db)
}

func seedReference(t *testing.T, db *gorm.DB, kind entities.ReferenceKind, name string) entities.ReferenceItem {
	t.Helper()
	item := entities.ReferenceItem{ID: uuid.New(), Name: name}
	mustExec(t, db, "INSERT INTO "+string(kind)+" (id, name, created_at) VALUES (?, ?, ?)", item.ID, item.Name, time.Now())
	return item
}

type testUserOpts struct {
	role      *entities.Role
	location  *entities.Location
	languages []entities.Language
	subjects  []entities.Subject
	bio       string
	price     float64
	onboarded bool
}

// seedUser creates a user through the repository, then applies the profile
func seedUser(t *testing.T, db *gorm.DB, email string, opts testUserOpts) *entities.User {
	t.Helper()
	ctx := context.Background()
	repo := NewUserRepository(db)
	now := time.Now()
	u := &entities.User{
		ID:           uuid.Must(uuid.NewV7()),
		Email:        email,
		FullName:     "User " + email,
		PasswordHash: "hash",
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	require.NoError(t, repo.Create(ctx, u))

	u.Role = opts.role
	u.Location = opts.location
	u.Languages = opts.languages
	u.Subjects = opts.subjects
	u.Bio = opts.bio
	u.Price = opts.price
	u.IsOnboarded = opts.onboarded
	u.Avatar = "https://img/" + email
	require.NoError(t, repo.UpdateProfile(ctx, u))
	return u
}
