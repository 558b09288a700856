package repository

import (
	"testing"
	"time"

	"github.com/lfsdirectory/lfsdirectory-backend/internal/app/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupClaimTest(t *testing.T) (*gorm.DB, ClaimRepository) {
	conn := setupTestDB(t)
	return conn, NewClaimRepository(conn)
}

func seedClaim(t *testing.T, repo ClaimRepository, storeID uint, token string) *model.StoreClaim {
	t.Helper()
	claim := &model.StoreClaim{
		StoreID:           storeID,
		ClaimantName:      "Dana Owner",
		ClaimantEmail:     "dana@example.com",
		ClaimantRole:      model.ClaimantRoleOwner,
		VerificationToken: token,
	}
	require.NoError(t, repo.Create(claim))
	return claim
}

func TestClaimRepository_Create(t *testing.T) {
	conn, repo := setupClaimTest(t)
	store := seedStore(t, conn, nil)

	claim := seedClaim(t, repo, store.ID, "token-a")
	assert.NotZero(t, claim.ID)

	found, err := repo.FindByID(claim.ID)
	require.NoError(t, err)
	assert.Equal(t, model.ClaimStatusPending, found.Status)
	assert.False(t, found.EmailVerified)
	assert.Equal(t, store.Name, found.Store.Name)

	dup := &model.StoreClaim{StoreID: store.ID, ClaimantName: "X", ClaimantEmail: "x@y.co", VerificationToken: "token-a"}
	assert.Error(t, repo.Create(dup))
}

func TestClaimRepository_MarkEmailVerified(t *testing.T) {
	conn, repo := setupClaimTest(t)
	store := seedStore(t, conn, nil)
	seedClaim(t, repo, store.ID, "verify-me")

	tests := []struct {
		name  string
		token string
		want  bool
	}{
		{name: "first use", token: "verify-me", want: true},
		{name: "already used", token: "verify-me", want: false},
		{name: "unknown token", token: "nope", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ok, err := repo.MarkEmailVerified(tt.token)
			require.NoError(t, err)
			assert.Equal(t, tt.want, ok)
		})
	}
}

func TestClaimRepository_Approve(t *testing.T) {
	conn, repo := setupClaimTest(t)
	store := seedStore(t, conn, nil)
	claim := seedClaim(t, repo, store.ID, "approve-token")
	at := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	approved, err := repo.Approve(claim.ID, at)
	require.NoError(t, err)
	assert.Equal(t, model.ClaimStatusApproved, approved.Status)
	require.NotNil(t, approved.ReviewedAt)

	var reloaded model.Store
	require.NoError(t, conn.First(&reloaded, store.ID).Error)
	assert.True(t, reloaded.IsClaimed)
	require.NotNil(t, reloaded.ClaimedAt)

	_, err = repo.Approve(claim.ID, at)
	assert.ErrorIs(t, err, ErrNotPending)

	_, err = repo.Reject(claim.ID, at)
	assert.ErrorIs(t, err, ErrNotPending)

	_, err = repo.Approve(9999, at)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestClaimRepository_RejectLeavesStoreUnclaimed(t *testing.T) {
	conn, repo := setupClaimTest(t)
	store := seedStore(t, conn, nil)
	claim := seedClaim(t, repo, store.ID, "reject-token")

	rejected, err := repo.Reject(claim.ID, time.Now().UTC())
	require.NoError(t, err)
	assert.Equal(t, model.ClaimStatusRejected, rejected.Status)

	var reloaded model.Store
	require.NoError(t, conn.First(&reloaded, store.ID).Error)
	assert.False(t, reloaded.IsClaimed)

	pending, err := repo.ListByStatus(model.ClaimStatusPending)
	require.NoError(t, err)
	assert.Empty(t, pending)

	n, err := repo.CountByStatus(model.ClaimStatusRejected)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}
