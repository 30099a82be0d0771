package services

import (
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/AndyyVasquez/nutweb-sub000/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatToken(t *testing.T) {
	now := time.Unix(1700000000, 0)
	token := FormatToken(12, "premium", now)

	stamp := strings.ToUpper(strconv.FormatInt(now.Unix(), 36))
	want := "SUBPRE12" + stamp
	assert.True(t, strings.HasPrefix(token, want), "token %q should start with %q", token, want)
	assert.Len(t, token, len(want)+4)

	suffix := token[len(want):]
	for _, r := range suffix {
		assert.Contains(t, "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789", string(r))
	}
}

func TestFormatTokenUnknownPlanFallsBack(t *testing.T) {
	token := FormatToken(3, "mystery", time.Unix(1700000000, 0))
	assert.True(t, strings.HasPrefix(token, "SUBGEN3"))
}

func TestIssueCreatesToken(t *testing.T) {
	db, mock := newMockDB(t)
	svc := NewSubscriptionService(db)

	mock.ExpectQuery(`SELECT (.+) FROM "subscription_tokens"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectQuery(`INSERT INTO "subscription_tokens"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))

	token, err := svc.Issue(3, "premium", 42)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(token.Token, "SUBPRE3"))
	assert.Equal(t, models.TokenActive, token.Status)
	assert.WithinDuration(t, time.Now().Add(7*24*time.Hour), token.ExpiresAt, time.Minute)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestIssueIsIdempotentPerPayment(t *testing.T) {
	db, mock := newMockDB(t)
	svc := NewSubscriptionService(db)

	mock.ExpectQuery(`SELECT (.+) FROM "subscription_tokens"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "token", "client_id", "payment_order_id", "status"}).
			AddRow(5, "SUBPRE3EXIST", 3, 42, models.TokenActive))

	token, err := svc.Issue(3, "premium", 42)
	require.NoError(t, err)
	assert.Equal(t, "SUBPRE3EXIST", token.Token)
	// no INSERT: the existing token is reused
	require.NoError(t, mock.ExpectationsWereMet())
}

func activeTokenRows(plan string) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "token", "client_id", "payment_order_id", "plan_type", "status", "expires_at"}).
		AddRow(5, "SUBPRE3ABCD", 3, 42, plan, models.TokenActive, time.Now().Add(24*time.Hour))
}

func TestRedeemGrantsAccess(t *testing.T) {
	db, mock := newMockDB(t)
	svc := NewSubscriptionService(db)

	mock.ExpectQuery(`SELECT (.+) FROM "subscription_tokens"`).
		WillReturnRows(activeTokenRows("premium"))
	mock.ExpectExec(`UPDATE "subscription_tokens" SET`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`UPDATE "clients" SET`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(`SELECT (.+) FROM "clients"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "email", "has_access"}).
			AddRow(3, "c@example.com", true))

	client, err := svc.Redeem("SUBPRE3ABCD", 3)
	require.NoError(t, err)
	assert.True(t, client.HasAccess)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRedeemSecondTimeFails(t *testing.T) {
	db, mock := newMockDB(t)
	svc := NewSubscriptionService(db)

	// the row still exists but the conditional update no longer matches
	mock.ExpectQuery(`SELECT (.+) FROM "subscription_tokens"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "token", "client_id", "status"}).
			AddRow(5, "SUBPRE3ABCD", 3, models.TokenUsed))
	mock.ExpectExec(`UPDATE "subscription_tokens" SET`).
		WillReturnResult(sqlmock.NewResult(0, 0))

	_, err := svc.Redeem("SUBPRE3ABCD", 3)
	assert.ErrorIs(t, err, ErrTokenInvalid)
	// and no access-grant write happened
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRedeemExpiredLooksLikeUnknown(t *testing.T) {
	db, mock := newMockDB(t)
	svc := NewSubscriptionService(db)

	mock.ExpectQuery(`SELECT (.+) FROM "subscription_tokens"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "token", "client_id", "status", "expires_at"}).
			AddRow(5, "SUBPRE3ABCD", 3, models.TokenActive, time.Now().Add(-time.Hour)))
	mock.ExpectExec(`UPDATE "subscription_tokens" SET`).
		WillReturnResult(sqlmock.NewResult(0, 0))

	_, expiredErr := svc.Redeem("SUBPRE3ABCD", 3)

	mock.ExpectQuery(`SELECT (.+) FROM "subscription_tokens"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, unknownErr := svc.Redeem("SUBNOPE", 3)

	assert.ErrorIs(t, expiredErr, ErrTokenInvalid)
	assert.ErrorIs(t, unknownErr, ErrTokenInvalid)
	assert.Equal(t, expiredErr, unknownErr)
}

func TestRedeemFailsClosedWhenGrantFails(t *testing.T) {
	db, mock := newMockDB(t)
	svc := NewSubscriptionService(db)

	mock.ExpectQuery(`SELECT (.+) FROM "subscription_tokens"`).
		WillReturnRows(activeTokenRows("basic"))
	mock.ExpectExec(`UPDATE "subscription_tokens" SET`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`UPDATE "clients" SET`).
		WillReturnError(assert.AnError)

	_, err := svc.Redeem("SUBPRE3ABCD", 3)
	assert.ErrorIs(t, err, ErrPersistence)
	// no compensating write: the token stays used
	require.NoError(t, mock.ExpectationsWereMet())
}
