package alerts

import (
	"bytes"
	"errors"
	"testing"
	"time"

	"backend/internal/crypto"
	"backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeAlertRepo struct {
	alerts       map[string]*models.SafetyAlert
	listed       []*models.SafetyAlert
	listedFilter models.AlertFilter
	acked        []string
	resolved     []string
	ackResult    bool
	err          error
}

func newFakeAlertRepo(alerts ...*models.SafetyAlert) *fakeAlertRepo {
	m := make(map[string]*models.SafetyAlert)
	for _, a := range alerts {
		m[a.ID] = a
	}
	return &fakeAlertRepo{alerts: m, ackResult: true}
}

func (f *fakeAlertRepo) CreateAlert(alert *models.SafetyAlert) error {
	f.alerts[alert.ID] = alert
	return nil
}

func (f *fakeAlertRepo) GetAlertByID(id string) (*models.SafetyAlert, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.alerts[id], nil
}

func (f *fakeAlertRepo) ListAlertsByUser(userID string, filter models.AlertFilter, limit int) ([]*models.SafetyAlert, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.listedFilter = filter
	return f.listed, nil
}

func (f *fakeAlertRepo) ListAlertsSince(userID string, since time.Time) ([]*models.SafetyAlert, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.listed, nil
}

func (f *fakeAlertRepo) AcknowledgeAlert(id string, at time.Time) (bool, error) {
	f.acked = append(f.acked, id)
	return f.ackResult, nil
}

func (f *fakeAlertRepo) ResolveAlert(id string, at time.Time) (bool, error) {
	f.resolved = append(f.resolved, id)
	return true, nil
}

type fakeGuardianRepo struct {
	approved map[string]bool
	err      error
}

func (f *fakeGuardianRepo) GetApprovedLinks(string) ([]models.GuardianLink, error) { return nil, nil }

func (f *fakeGuardianRepo) IsApprovedGuardian(guardianID, childID string) (bool, error) {
	if f.err != nil {
		return false, f.err
	}
	return f.approved[guardianID+":"+childID], nil
}

func newTestService(t *testing.T, repo *fakeAlertRepo, guardians *fakeGuardianRepo) (*Service, *crypto.ContentCipher) {
	t.Helper()
	cipher, err := crypto.NewContentCipher(bytes.Repeat([]byte{3}, 32))
	require.NoError(t, err)
	return NewService(repo, guardians, cipher, zap.NewNop()), cipher
}

func TestList_NormalizesFilter(t *testing.T) {
	tests := []struct {
		name     string
		filter   models.AlertFilter
		expected models.AlertFilter
	}{
		{name: "active passes through", filter: models.FilterActive, expected: models.FilterActive},
		{name: "resolved passes through", filter: models.FilterResolved, expected: models.FilterResolved},
		{name: "empty becomes all", filter: "", expected: models.FilterAll},
		{name: "garbage becomes all", filter: "exploded", expected: models.FilterAll},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := newFakeAlertRepo()
			svc, _ := newTestService(t, repo, &fakeGuardianRepo{})

			_, err := svc.List("user-1", tt.filter)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, repo.listedFilter)
		})
	}
}

func TestList_DecryptsDetectedContent(t *testing.T) {
	repo := newFakeAlertRepo()
	svc, cipher := newTestService(t, repo, &fakeGuardianRepo{})

	encrypted, err := cipher.EncryptContent("the flagged message")
	require.NoError(t, err)
	repo.listed = []*models.SafetyAlert{{ID: "a1", UserID: "user-1", DetectedContent: &encrypted}}

	list, err := svc.List("user-1", models.FilterAll)
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.NotNil(t, list[0].DetectedContent)
	assert.Equal(t, "the flagged message", *list[0].DetectedContent)
}

func TestList_UndecryptableContentOmitted(t *testing.T) {
	repo := newFakeAlertRepo()
	svc, _ := newTestService(t, repo, &fakeGuardianRepo{})

	garbage := "bm90IHJlYWwgY2lwaGVydGV4dA=="
	repo.listed = []*models.SafetyAlert{{ID: "a1", UserID: "user-1", DetectedContent: &garbage}}

	list, err := svc.List("user-1", models.FilterAll)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Nil(t, list[0].DetectedContent)
}

func TestGet_Authorization(t *testing.T) {
	alert := &models.SafetyAlert{ID: "a1", UserID: "child-1", Status: models.AlertStatusActive}

	tests := []struct {
		name     string
		viewerID string
		approved map[string]bool
		guardErr error
		wantErr  error
	}{
		{name: "owner reads own alert", viewerID: "child-1"},
		{name: "approved guardian reads", viewerID: "parent-1", approved: map[string]bool{"parent-1:child-1": true}},
		{name: "stranger denied", viewerID: "stranger", wantErr: ErrNotAuthorized},
		{name: "guardian check failure denies", viewerID: "parent-1", guardErr: errors.New("db down"), wantErr: ErrNotAuthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := newFakeAlertRepo(alert)
			svc, _ := newTestService(t, repo, &fakeGuardianRepo{approved: tt.approved, err: tt.guardErr})

			got, err := svc.Get("a1", tt.viewerID)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "a1", got.ID)
		})
	}
}

func TestGet_NotFound(t *testing.T) {
	svc, _ := newTestService(t, newFakeAlertRepo(), &fakeGuardianRepo{})

	_, err := svc.Get("missing", "user-1")
	assert.ErrorIs(t, err, ErrAlertNotFound)
}

func TestAcknowledge(t *testing.T) {
	t.Run("acknowledges active alert", func(t *testing.T) {
		repo := newFakeAlertRepo(&models.SafetyAlert{ID: "a1", UserID: "u1", Status: models.AlertStatusActive})
		svc, _ := newTestService(t, repo, &fakeGuardianRepo{})

		require.NoError(t, svc.Acknowledge("a1", "u1"))
		assert.Equal(t, []string{"a1"}, repo.acked)
	})

	t.Run("acknowledges escalated alert", func(t *testing.T) {
		repo := newFakeAlertRepo(&models.SafetyAlert{ID: "a1", UserID: "u1", Status: models.AlertStatusEscalated})
		svc, _ := newTestService(t, repo, &fakeGuardianRepo{})

		require.NoError(t, svc.Acknowledge("a1", "u1"))
	})

	t.Run("resolved is terminal", func(t *testing.T) {
		repo := newFakeAlertRepo(&models.SafetyAlert{ID: "a1", UserID: "u1", Status: models.AlertStatusResolved})
		svc, _ := newTestService(t, repo, &fakeGuardianRepo{})

		assert.ErrorIs(t, svc.Acknowledge("a1", "u1"), ErrAlertResolved)
		assert.Empty(t, repo.acked)
	})

	t.Run("raced resolve surfaces as resolved", func(t *testing.T) {
		repo := newFakeAlertRepo(&models.SafetyAlert{ID: "a1", UserID: "u1", Status: models.AlertStatusActive})
		repo.ackResult = false
		svc, _ := newTestService(t, repo, &fakeGuardianRepo{})

		assert.ErrorIs(t, svc.Acknowledge("a1", "u1"), ErrAlertResolved)
	})

	t.Run("stranger denied", func(t *testing.T) {
		repo := newFakeAlertRepo(&models.SafetyAlert{ID: "a1", UserID: "u1", Status: models.AlertStatusActive})
		svc, _ := newTestService(t, repo, &fakeGuardianRepo{})

		assert.ErrorIs(t, svc.Acknowledge("a1", "stranger"), ErrNotAuthorized)
	})
}

func TestResolve(t *testing.T) {
	t.Run("resolves active alert", func(t *testing.T) {
		repo := newFakeAlertRepo(&models.SafetyAlert{ID: "a1", UserID: "u1", Status: models.AlertStatusActive})
		svc, _ := newTestService(t, repo, &fakeGuardianRepo{})

		require.NoError(t, svc.Resolve("a1", "u1"))
		assert.Equal(t, []string{"a1"}, repo.resolved)
	})

	t.Run("resolving resolved alert is a no-op", func(t *testing.T) {
		repo := newFakeAlertRepo(&models.SafetyAlert{ID: "a1", UserID: "u1", Status: models.AlertStatusResolved})
		svc, _ := newTestService(t, repo, &fakeGuardianRepo{})

		require.NoError(t, svc.Resolve("a1", "u1"))
		assert.Empty(t, repo.resolved)
	})

	t.Run("guardian may resolve", func(t *testing.T) {
		repo := newFakeAlertRepo(&models.SafetyAlert{ID: "a1", UserID: "child-1", Status: models.AlertStatusActive})
		svc, _ := newTestService(t, repo, &fakeGuardianRepo{approved: map[string]bool{"parent-1:child-1": true}})

		require.NoError(t, svc.Resolve("a1", "parent-1"))
	})
}
