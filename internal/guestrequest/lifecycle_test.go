package guestrequest

import (
	"errors"
	"testing"
	"time"

	"github.com/nova-maldives/the-hub/backend/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeStore struct {
	nextID    int64
	createErr error
	updateErr error
	updates   []domain.GuestRequest
}

func (s *fakeStore) CreateGuestRequest(req *domain.GuestRequest) error {
	if s.createErr != nil {
		return s.createErr
	}
	s.nextID++
	req.ID = s.nextID
	return nil
}

func (s *fakeStore) UpdateGuestRequest(req *domain.GuestRequest) error {
	if s.updateErr != nil {
		return s.updateErr
	}
	s.updates = append(s.updates, *req)
	return nil
}

func TestCanTransition(t *testing.T) {
	allowed := [][2]domain.RequestStatus{
		{domain.RequestStatusPending, domain.RequestStatusInProgress},
		{domain.RequestStatusPending, domain.RequestStatusCompleted},
		{domain.RequestStatusPending, domain.RequestStatusCancelled},
		{domain.RequestStatusInProgress, domain.RequestStatusCompleted},
		{domain.RequestStatusInProgress, domain.RequestStatusCancelled},
	}
	for _, e := range allowed {
		assert.True(t, CanTransition(e[0], e[1]), "%s -> %s", e[0], e[1])
	}

	denied := [][2]domain.RequestStatus{
		{domain.RequestStatusInProgress, domain.RequestStatusPending},
		{domain.RequestStatusCompleted, domain.RequestStatusInProgress},
		{domain.RequestStatusCompleted, domain.RequestStatusCancelled},
		{domain.RequestStatusCancelled, domain.RequestStatusPending},
		{domain.RequestStatusPending, domain.RequestStatusPending},
		{"Unknown", domain.RequestStatusCompleted},
	}
	for _, e := range denied {
		assert.False(t, CanTransition(e[0], e[1]), "%s -> %s", e[0], e[1])
	}
}

func TestLifecycle(t *testing.T) {
	store := &fakeStore{}
	now := time.Date(2024, time.June, 1, 10, 0, 0, 0, time.UTC)
	svc := NewService(store, func() time.Time { return now })

	req, err := svc.Create(NewRequest{
		RoomNumber:  "204",
		GuestName:   "Mr. Smith",
		Category:    "Housekeeping",
		Description: "Extra towels",
		Priority:    domain.RequestPriorityHigh,
	}, "Aishath")
	require.NoError(t, err)
	assert.Equal(t, int64(1), req.ID)
	assert.Equal(t, domain.RequestStatusPending, req.Status)
	assert.Equal(t, now, req.CreatedAt)
	assert.Equal(t, now, req.UpdatedAt)
	assert.Equal(t, "Aishath", req.LoggedBy)

	now = now.Add(time.Hour)
	require.True(t, CanTransition(req.Status, domain.RequestStatusInProgress))
	inProgress, err := svc.Transition(req, domain.RequestStatusInProgress, "Assigned to housekeeping", "Ibrahim")
	require.NoError(t, err)
	assert.Equal(t, domain.RequestStatusInProgress, inProgress.Status)
	assert.Equal(t, "Assigned to housekeeping", inProgress.Remarks)
	assert.Equal(t, "Ibrahim", inProgress.UpdatedBy)
	assert.Equal(t, now, inProgress.UpdatedAt)
	assert.Equal(t, req.CreatedAt, inProgress.CreatedAt)

	require.True(t, CanTransition(inProgress.Status, domain.RequestStatusCompleted))
	completed, err := svc.Transition(inProgress, domain.RequestStatusCompleted, "", "Mariyam")
	require.NoError(t, err)
	assert.Equal(t, domain.RequestStatusCompleted, completed.Status)
	// 没有新备注时保留原备注
	assert.Equal(t, "Assigned to housekeeping", completed.Remarks)
	assert.Equal(t, "Mariyam", completed.UpdatedBy)

	// 终态之后不存在合法的变更
	for _, to := range []domain.RequestStatus{domain.RequestStatusPending, domain.RequestStatusInProgress, domain.RequestStatusCancelled} {
		assert.False(t, CanTransition(completed.Status, to))
	}
	assert.Len(t, store.updates, 2)
}

func TestCreate_Defaults(t *testing.T) {
	svc := NewService(&fakeStore{}, nil)

	req, err := svc.Create(NewRequest{RoomNumber: "12", GuestName: "Ms. Lee", Description: "Late checkout"}, "GSA")
	require.NoError(t, err)
	assert.Equal(t, DefaultCategory, req.Category)
	assert.Equal(t, domain.RequestPriorityMedium, req.Priority)
}

func TestTransition_StoreErrorLeavesRequest(t *testing.T) {
	store := &fakeStore{updateErr: errors.New("conn reset")}
	svc := NewService(store, nil)
	req := &domain.GuestRequest{ID: 7, Status: domain.RequestStatusPending}

	next, err := svc.Transition(req, domain.RequestStatusCancelled, "guest left", "FOM")
	assert.Nil(t, next)
	assert.Error(t, err)
	assert.Equal(t, domain.RequestStatusPending, req.Status)
	assert.Empty(t, req.Remarks)
}

func TestAssign(t *testing.T) {
	store := &fakeStore{}
	svc := NewService(store, nil)
	userID := int64(5)

	next, err := svc.Assign(&domain.GuestRequest{ID: 3, Status: domain.RequestStatusPending}, &userID, "FOM")
	require.NoError(t, err)
	require.NotNil(t, next.AssignedTo)
	assert.Equal(t, userID, *next.AssignedTo)
	assert.Equal(t, domain.RequestStatusPending, next.Status)
}

func TestSummarize(t *testing.T) {
	reqs := []*domain.GuestRequest{
		{Status: domain.RequestStatusPending, Priority: domain.RequestPriorityHigh},
		{Status: domain.RequestStatusPending, Priority: domain.RequestPriorityLow},
		{Status: domain.RequestStatusInProgress, Priority: domain.RequestPriorityHigh},
		{Status: domain.RequestStatusCompleted, Priority: domain.RequestPriorityHigh},
		{Status: domain.RequestStatusCancelled, Priority: domain.RequestPriorityMedium},
	}

	assert.Equal(t, Summary{Pending: 2, InProgress: 1, Completed: 1, Cancelled: 1, HighPriority: 2}, Summarize(reqs))
}

func TestUpdate_SingleWrite(t *testing.T) {
	store := &fakeStore{}
	now := time.Date(2024, time.June, 1, 10, 0, 0, 0, time.UTC)
	svc := NewService(store, func() time.Time { return now })
	userID := int64(3)
	to := domain.RequestStatusInProgress

	next, err := svc.Update(&domain.GuestRequest{ID: 7, Status: domain.RequestStatusPending, Remarks: "old"},
		Change{Status: &to, Remarks: "On the way", Assign: true, AssignedTo: &userID}, "Ibrahim")
	require.NoError(t, err)

	require.Len(t, store.updates, 1)
	written := store.updates[0]
	assert.Equal(t, domain.RequestStatusInProgress, written.Status)
	assert.Equal(t, "On the way", written.Remarks)
	require.NotNil(t, written.AssignedTo)
	assert.Equal(t, userID, *written.AssignedTo)
	assert.Equal(t, "Ibrahim", written.UpdatedBy)
	assert.Equal(t, now, written.UpdatedAt)
	assert.Equal(t, written, *next)
}

func TestUpdate_KeepsUnchangedFields(t *testing.T) {
	store := &fakeStore{}
	svc := NewService(store, nil)
	userID := int64(4)

	next, err := svc.Update(&domain.GuestRequest{ID: 7, Status: domain.RequestStatusPending, Remarks: "old", AssignedTo: &userID}, Change{}, "")
	require.NoError(t, err)
	assert.Equal(t, domain.RequestStatusPending, next.Status)
	assert.Equal(t, "old", next.Remarks)
	assert.Equal(t, &userID, next.AssignedTo)
}
