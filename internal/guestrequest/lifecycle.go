package guestrequest

import (
	"fmt"
	"slices"
	"time"

	"github.com/nova-maldives/the-hub/backend/internal/domain"
)

const DefaultCategory = "Other"

// Categories 是前台界面提供的请求类别
var Categories = []string{"Housekeeping", "Maintenance", "Amenities", "F&B", "Transportation", DefaultCategory}

var transitions = map[domain.RequestStatus][]domain.RequestStatus{
	domain.RequestStatusPending:    {domain.RequestStatusInProgress, domain.RequestStatusCompleted, domain.RequestStatusCancelled},
	domain.RequestStatusInProgress: {domain.RequestStatusCompleted, domain.RequestStatusCancelled},
}

// CanTransition 判断状态变更是否沿着允许的方向进行，Completed 和 Cancelled 是终态
func CanTransition(from, to domain.RequestStatus) bool {
	return slices.Contains(transitions[from], to)
}

type Store interface {
	CreateGuestRequest(req *domain.GuestRequest) error
	UpdateGuestRequest(req *domain.GuestRequest) error
}

type NewRequest struct {
	RoomNumber  string
	GuestName   string
	Category    string
	Description string
	Priority    domain.RequestPriority
	AssignedTo  *int64
}

type Service struct {
	store Store
	now   func() time.Time
}

func NewService(store Store, now func() time.Time) *Service {
	if now == nil {
		now = time.Now
	}
	return &Service{
		store: store,
		now:   now,
	}
}

// Create 新建请求，状态固定为 Pending，ID 由存储生成
func (s *Service) Create(fields NewRequest, loggedBy string) (*domain.GuestRequest, error) {
	now := s.now()
	req := &domain.GuestRequest{
		RoomNumber:  fields.RoomNumber,
		GuestName:   fields.GuestName,
		Category:    fields.Category,
		Description: fields.Description,
		Status:      domain.RequestStatusPending,
		Priority:    fields.Priority,
		CreatedAt:   now,
		UpdatedAt:   now,
		AssignedTo:  fields.AssignedTo,
		LoggedBy:    loggedBy,
	}
	if req.Category == "" {
		req.Category = DefaultCategory
	}
	if req.Priority == "" {
		req.Priority = domain.RequestPriorityMedium
	}

	if err := s.store.CreateGuestRequest(req); err != nil {
		return nil, fmt.Errorf("create guest request: %w", err)
	}

	return req, nil
}

// Change 是一次更新要修改的字段，Status 为 nil 时保持原状态，Assign 为 false 时不修改负责人
type Change struct {
	Status     *domain.RequestStatus
	Remarks    string
	Assign     bool
	AssignedTo *int64
}

// Update 把状态、备注、负责人和操作人合并到同一份副本中，只写入一次存储。
// 这里不检查状态变更是否合法，调用方需要在写入前调用 CanTransition。
func (s *Service) Update(req *domain.GuestRequest, change Change, updatedBy string) (*domain.GuestRequest, error) {
	next := *req
	if change.Status != nil {
		next.Status = *change.Status
	}
	if change.Remarks != "" {
		next.Remarks = change.Remarks
	}
	if change.Assign {
		next.AssignedTo = change.AssignedTo
	}
	if updatedBy != "" {
		next.UpdatedBy = updatedBy
	}
	next.UpdatedAt = s.now()

	if err := s.store.UpdateGuestRequest(&next); err != nil {
		return nil, fmt.Errorf("update guest request: %w", err)
	}

	return &next, nil
}

func (s *Service) Transition(req *domain.GuestRequest, to domain.RequestStatus, remarks, updatedBy string) (*domain.GuestRequest, error) {
	return s.Update(req, Change{Status: &to, Remarks: remarks}, updatedBy)
}

// Assign 修改负责人，userID 为 nil 时取消分配
func (s *Service) Assign(req *domain.GuestRequest, userID *int64, updatedBy string) (*domain.GuestRequest, error) {
	return s.Update(req, Change{Assign: true, AssignedTo: userID}, updatedBy)
}
