package services

import (
	"testing"

	"github.com/AndyyVasquez/nutweb-sub000/models"
	"github.com/AndyyVasquez/nutweb-sub000/utils"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func nutritionistRows(t *testing.T, password, status string, sessionToken interface{}) *sqlmock.Rows {
	t.Helper()
	hash, err := utils.HashPassword(password)
	require.NoError(t, err)
	return sqlmock.NewRows([]string{"id", "email", "password", "verification_status", "session_token"}).
		AddRow(1, "nut@example.com", hash, status, sessionToken)
}

func TestLoginSuccess(t *testing.T) {
	db, mock := newMockDB(t)
	svc := NewAuthService(db)

	mock.ExpectQuery(`SELECT (.+) FROM "nutritionists"`).
		WillReturnRows(nutritionistRows(t, "secret", models.VerificationApproved, nil))
	mock.ExpectExec(`UPDATE "nutritionists" SET`).
		WillReturnResult(sqlmock.NewResult(0, 1))

	result, err := svc.Login("nut@example.com", "secret")
	require.NoError(t, err)
	assert.NotEmpty(t, result.Token)
	assert.Equal(t, models.RoleNutritionist, result.Role)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestLoginSessionAlreadyActive(t *testing.T) {
	db, mock := newMockDB(t)
	svc := NewAuthService(db)

	mock.ExpectQuery(`SELECT (.+) FROM "nutritionists"`).
		WillReturnRows(nutritionistRows(t, "secret", models.VerificationApproved, "live-token"))

	_, err := svc.Login("nut@example.com", "secret")
	assert.ErrorIs(t, err, ErrSessionActive)
	// no UPDATE may have run: the existing session must not be overwritten
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestLoginRaceLosesConditionalWrite(t *testing.T) {
	db, mock := newMockDB(t)
	svc := NewAuthService(db)

	// the read sees no session, but another login wins the conditional write
	mock.ExpectQuery(`SELECT (.+) FROM "nutritionists"`).
		WillReturnRows(nutritionistRows(t, "secret", models.VerificationApproved, nil))
	mock.ExpectExec(`UPDATE "nutritionists" SET`).
		WillReturnResult(sqlmock.NewResult(0, 0))

	_, err := svc.Login("nut@example.com", "secret")
	assert.ErrorIs(t, err, ErrSessionActive)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestLoginPendingVerification(t *testing.T) {
	db, mock := newMockDB(t)
	svc := NewAuthService(db)

	mock.ExpectQuery(`SELECT (.+) FROM "nutritionists"`).
		WillReturnRows(nutritionistRows(t, "secret", models.VerificationPending, nil))

	_, err := svc.Login("nut@example.com", "secret")
	assert.ErrorIs(t, err, ErrNotApproved)
}

func TestLoginDeniedIsTerminal(t *testing.T) {
	db, mock := newMockDB(t)
	svc := NewAuthService(db)

	mock.ExpectQuery(`SELECT (.+) FROM "nutritionists"`).
		WillReturnRows(nutritionistRows(t, "secret", models.VerificationDenied, nil))

	_, err := svc.Login("nut@example.com", "secret")
	assert.ErrorIs(t, err, ErrAccessDenied)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestLoginWrongPassword(t *testing.T) {
	db, mock := newMockDB(t)
	svc := NewAuthService(db)

	mock.ExpectQuery(`SELECT (.+) FROM "nutritionists"`).
		WillReturnRows(nutritionistRows(t, "secret", models.VerificationApproved, nil))

	_, err := svc.Login("nut@example.com", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestLoginUnknownEmailSameError(t *testing.T) {
	db, mock := newMockDB(t)
	svc := NewAuthService(db)

	mock.ExpectQuery(`SELECT (.+) FROM "nutritionists"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectQuery(`SELECT (.+) FROM "admins"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := svc.Login("nobody@example.com", "whatever")
	// identical to the wrong-password error: callers learn nothing
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestValidate(t *testing.T) {
	stored := "session-token"

	cases := []struct {
		name      string
		rows      *sqlmock.Rows
		presented string
		want      error
	}{
		{
			name: "match",
			rows: sqlmock.NewRows([]string{"id", "session_token"}).AddRow(1, stored),

			presented: stored,
			want:      nil,
		},
		{
			name:      "mismatch",
			rows:      sqlmock.NewRows([]string{"id", "session_token"}).AddRow(1, stored),
			presented: "other",
			want:      ErrTokenMismatch,
		},
		{
			name:      "no active session",
			rows:      sqlmock.NewRows([]string{"id", "session_token"}).AddRow(1, nil),
			presented: stored,
			want:      ErrNoSession,
		},
		{
			name:      "unknown account",
			rows:      sqlmock.NewRows([]string{"id", "session_token"}),
			presented: stored,
			want:      ErrNotFound,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			db, mock := newMockDB(t)
			svc := NewAuthService(db)

			mock.ExpectQuery(`SELECT (.+) FROM "clients"`).WillReturnRows(tc.rows)

			err := svc.Validate(1, tc.presented, models.RoleClient)
			if tc.want == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tc.want)
			}
		})
	}
}

func TestValidateUnknownRole(t *testing.T) {
	db, _ := newMockDB(t)
	svc := NewAuthService(db)

	err := svc.Validate(1, "tok", "superuser")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestLogout(t *testing.T) {
	db, mock := newMockDB(t)
	svc := NewAuthService(db)

	mock.ExpectQuery(`SELECT count\(\*\) FROM "clients"`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectExec(`UPDATE "clients" SET`).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, svc.Logout(1, models.RoleClient))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestLogoutUnknownAccount(t *testing.T) {
	db, mock := newMockDB(t)
	svc := NewAuthService(db)

	mock.ExpectQuery(`SELECT count\(\*\) FROM "clients"`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))

	assert.ErrorIs(t, svc.Logout(99, models.RoleClient), ErrNotFound)
}

func TestReviewNutritionistTerminalDenied(t *testing.T) {
	db, mock := newMockDB(t)
	svc := NewAuthService(db)
	svc.notifyDecision = func(string, bool) error { return nil }

	mock.ExpectQuery(`SELECT (.+) FROM "nutritionists"`).
		WillReturnRows(nutritionistRows(t, "secret", models.VerificationDenied, nil))
	mock.ExpectExec(`UPDATE "nutritionists" SET`).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := svc.ReviewNutritionist(1, true)
	assert.ErrorIs(t, err, ErrAlreadyDecided)
}

func TestReviewNutritionistApproves(t *testing.T) {
	db, mock := newMockDB(t)
	svc := NewAuthService(db)

	var mailedTo string
	var mailedApproved bool
	svc.notifyDecision = func(to string, approved bool) error {
		mailedTo = to
		mailedApproved = approved
		return nil
	}

	mock.ExpectQuery(`SELECT (.+) FROM "nutritionists"`).
		WillReturnRows(nutritionistRows(t, "secret", models.VerificationPending, nil))
	mock.ExpectExec(`UPDATE "nutritionists" SET`).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, svc.ReviewNutritionist(1, true))
	assert.Equal(t, "nut@example.com", mailedTo)
	assert.True(t, mailedApproved)
}
