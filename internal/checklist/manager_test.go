package checklist

import (
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/nova-maldives/the-hub/backend/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeShiftStore struct {
	records   map[string]*domain.ShiftRecord
	getErr    error
	upsertErr error
	reopenErr error

	upserts []*domain.ShiftRecord
	reopens int
}

func newFakeShiftStore() *fakeShiftStore {
	return &fakeShiftStore{records: map[string]*domain.ShiftRecord{}}
}

func (s *fakeShiftStore) GetShiftRecord(date, shiftType string) (*domain.ShiftRecord, error) {
	if s.getErr != nil {
		return nil, s.getErr
	}
	record, ok := s.records[date+"|"+shiftType]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return record, nil
}

func (s *fakeShiftStore) UpsertShiftRecord(record *domain.ShiftRecord) error {
	if s.upsertErr != nil {
		return s.upsertErr
	}
	s.upserts = append(s.upserts, record)
	s.records[record.Date+"|"+record.ShiftType] = record
	return nil
}

func (s *fakeShiftStore) ReopenShiftRecord(date, shiftType string) error {
	s.reopens++
	if s.reopenErr != nil {
		return s.reopenErr
	}
	record, ok := s.records[date+"|"+shiftType]
	if !ok || record.Status != domain.ShiftStatusSubmitted {
		return sql.ErrNoRows
	}
	record.Status = domain.ShiftStatusDraft
	return nil
}

func (s *fakeShiftStore) GetSubmittedShiftTypes(date string) ([]string, error) {
	if s.getErr != nil {
		return nil, s.getErr
	}
	types := []string{}
	for _, r := range s.records {
		if r.Date == date && r.Status == domain.ShiftStatusSubmitted {
			types = append(types, r.ShiftType)
		}
	}
	return types, nil
}

var (
	gsa     = &domain.User{ID: 2, Name: "Aishath Rasheed", Role: domain.RoleGSA}
	manager = &domain.User{ID: 1, Name: "Ibrahim Nasir", Role: domain.RoleFrontOfficeManager}
)

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func TestLoadOrInit_FreshInstall(t *testing.T) {
	store := newFakeShiftStore()
	m := NewManager(store, fixedClock(at(1, 9, 0)))
	templates := []domain.TaskTemplate{{ID: 1, Label: "Check Float", Category: "Ops", ShiftType: "ALL"}}

	shift := m.LoadOrInit("Morning Shift (07:00-16:00)", gsa, templates, nil)

	require.Len(t, shift.Tasks, 1)
	assert.Equal(t, "Check Float", shift.Tasks[0].Label)
	assert.Equal(t, domain.ShiftStatusDraft, shift.Status)
	assert.Equal(t, DefaultOccupancy, shift.Occupancy)
	assert.Equal(t, "2024-06-01", shift.Date)
	assert.Equal(t, gsa.Name, shift.AgentName)
	assert.Contains(t, shift.ID, "s-")
}

func TestLoadOrInit_OccupancyFromTable(t *testing.T) {
	m := NewManager(newFakeShiftStore(), fixedClock(at(1, 9, 0)))
	occupancy := []domain.DailyOccupancy{
		{Date: "2024-05-31", Percentage: 40},
		{Date: "2024-06-01", Percentage: 92},
	}

	shift := m.LoadOrInit("Morning", gsa, nil, occupancy)
	assert.Equal(t, 92, shift.Occupancy)

	// 凌晨仍然属于前一个营业日
	m = NewManager(newFakeShiftStore(), fixedClock(at(1, 3, 0)))
	shift = m.LoadOrInit("Night", gsa, nil, occupancy)
	assert.Equal(t, 40, shift.Occupancy)
	assert.Equal(t, "2024-05-31", shift.Date)
}

func TestLoadOrInit_EmptyShiftTypeFallsBackToMorning(t *testing.T) {
	m := NewManager(newFakeShiftStore(), fixedClock(at(1, 9, 0)))
	shift := m.LoadOrInit("", gsa, nil, nil)
	assert.Equal(t, MorningShift.Label(), shift.Type)
}

func TestLoadOrInit_MergesSavedTasks(t *testing.T) {
	store := newFakeShiftStore()
	store.records["2024-06-01|Morning"] = &domain.ShiftRecord{
		Date:      "2024-06-01",
		ShiftType: "Morning",
		AgentName: "Mohamed Ali",
		Tasks: []domain.Task{
			{ID: "t-1-1", Label: "Saved A", Category: "Ops", IsCompleted: true},
			{ID: "t-1-2", Label: "Saved B", Category: "Ops"},
		},
		Notes:  "VIP in 101",
		Status: domain.ShiftStatusSubmitted,
	}
	templates := make([]domain.TaskTemplate, 5)
	for i := range templates {
		templates[i] = domain.TaskTemplate{ID: int64(i + 1), Label: "Generated", Category: "Ops", ShiftType: "ALL"}
	}
	m := NewManager(store, fixedClock(at(1, 9, 0)))

	shift := m.LoadOrInit("Morning", gsa, templates, nil)

	require.Len(t, shift.Tasks, 2)
	assert.Equal(t, "Saved A", shift.Tasks[0].Label)
	assert.True(t, shift.Tasks[0].IsCompleted)
	assert.Equal(t, "VIP in 101", shift.Notes)
	assert.Equal(t, "Mohamed Ali", shift.AgentName)
	assert.Equal(t, domain.ShiftStatusSubmitted, shift.Status)
}

func TestLoadOrInit_EmptySavedTasksKeepsTemplates(t *testing.T) {
	store := newFakeShiftStore()
	store.records["2024-06-01|Morning"] = &domain.ShiftRecord{
		Date:      "2024-06-01",
		ShiftType: "Morning",
		Tasks:     []domain.Task{},
		Notes:     "nothing saved",
		Status:    "draft",
	}
	templates := []domain.TaskTemplate{{ID: 1, Label: "Check Float", Category: "Ops", ShiftType: "ALL"}}
	m := NewManager(store, fixedClock(at(1, 9, 0)))

	shift := m.LoadOrInit("Morning", gsa, templates, nil)

	require.Len(t, shift.Tasks, 1)
	assert.Equal(t, "Check Float", shift.Tasks[0].Label)
	assert.Equal(t, "nothing saved", shift.Notes)
	// 记录里的 agentName 为空时保留当前用户
	assert.Equal(t, gsa.Name, shift.AgentName)
	assert.Equal(t, domain.ShiftStatusDraft, shift.Status)
}

func TestLoadOrInit_UnknownStatusIsDraft(t *testing.T) {
	store := newFakeShiftStore()
	store.records["2024-06-01|Morning"] = &domain.ShiftRecord{Date: "2024-06-01", ShiftType: "Morning", Status: "completed"}
	m := NewManager(store, fixedClock(at(1, 9, 0)))

	shift := m.LoadOrInit("Morning", gsa, nil, nil)
	assert.Equal(t, domain.ShiftStatusDraft, shift.Status)
}

func TestLoadOrInit_ReadErrorDegrades(t *testing.T) {
	store := newFakeShiftStore()
	store.getErr = errors.New("connection refused")
	templates := []domain.TaskTemplate{{ID: 1, Label: "Check Float", Category: "Ops", ShiftType: "ALL"}}
	m := NewManager(store, fixedClock(at(1, 9, 0)))

	shift := m.LoadOrInit("Morning", gsa, templates, nil)

	require.Len(t, shift.Tasks, 1)
	assert.Equal(t, domain.ShiftStatusDraft, shift.Status)
}

func TestLoadOrInit_Idempotent(t *testing.T) {
	store := newFakeShiftStore()
	store.records["2024-06-01|Afternoon"] = &domain.ShiftRecord{
		Date:      "2024-06-01",
		ShiftType: "Afternoon",
		Tasks:     []domain.Task{{ID: "t-1-1", Label: "Saved", Category: "Ops", IsCompleted: true}},
		Notes:     "n",
		Status:    domain.ShiftStatusDraft,
	}
	templates := []domain.TaskTemplate{{ID: 1, Label: "Check Float", Category: "Ops", ShiftType: "ALL"}}
	m := NewManager(store, fixedClock(at(1, 15, 0)))

	for _, shiftType := range []string{"Afternoon", "Night"} {
		first := m.LoadOrInit(shiftType, gsa, templates, nil)
		second := m.LoadOrInit(shiftType, gsa, templates, nil)
		if diff := cmp.Diff(first, second, cmpopts.IgnoreFields(domain.ShiftData{}, "ID")); diff != "" {
			t.Errorf("LoadOrInit(%q) mismatch (-first +second):\n%s", shiftType, diff)
		}
	}
}

func TestToggleTask_RoundTrip(t *testing.T) {
	shift := &domain.ShiftData{
		Status: domain.ShiftStatusDraft,
		Tasks:  []domain.Task{{ID: "a"}, {ID: "b", IsCompleted: true}},
	}

	once := ToggleTask(shift, "a")
	assert.True(t, once.Tasks[0].IsCompleted)
	assert.True(t, once.Tasks[1].IsCompleted)
	// 原对象不受影响
	assert.False(t, shift.Tasks[0].IsCompleted)

	twice := ToggleTask(once, "a")
	assert.Equal(t, shift.Tasks, twice.Tasks)
}

func TestToggleTask_NoOp(t *testing.T) {
	submitted := &domain.ShiftData{
		Status: domain.ShiftStatusSubmitted,
		Tasks:  []domain.Task{{ID: "a"}},
	}
	assert.Same(t, submitted, ToggleTask(submitted, "a"))
	assert.False(t, ToggleTask(ToggleTask(submitted, "a"), "a").Tasks[0].IsCompleted)

	draft := &domain.ShiftData{Status: domain.ShiftStatusDraft, Tasks: []domain.Task{{ID: "a"}}}
	assert.Same(t, draft, ToggleTask(draft, "missing"))
}

func TestUpdateNotes_IgnoresStatus(t *testing.T) {
	shift := &domain.ShiftData{Status: domain.ShiftStatusSubmitted, Notes: "old"}
	next := UpdateNotes(shift, "new")
	assert.Equal(t, "new", next.Notes)
	assert.Equal(t, "old", shift.Notes)
}

func TestSubmit(t *testing.T) {
	store := newFakeShiftStore()
	now := at(1, 15, 30)
	m := NewManager(store, fixedClock(now))
	shift := m.LoadOrInit("Morning", gsa, []domain.TaskTemplate{{ID: 1, Label: "Check Float", ShiftType: "ALL"}}, nil)

	submitted, err := m.Submit(shift, gsa)
	require.NoError(t, err)
	assert.Equal(t, domain.ShiftStatusSubmitted, submitted.Status)
	assert.Equal(t, domain.ShiftStatusDraft, shift.Status)

	require.Len(t, store.upserts, 1)
	record := store.upserts[0]
	assert.Equal(t, domain.ShiftStatusSubmitted, record.Status)
	assert.Equal(t, now, record.SubmittedAt)
	assert.Equal(t, gsa.Name, record.AgentName)
	assert.Equal(t, "2024-06-01", record.Date)
	assert.Equal(t, "Morning", record.ShiftType)

	// 提交后任务不可再修改
	toggled := ToggleTask(submitted, submitted.Tasks[0].ID)
	assert.False(t, toggled.Tasks[0].IsCompleted)

	_, err = m.Submit(submitted, gsa)
	assert.ErrorIs(t, err, ErrShiftSubmitted)
	assert.Len(t, store.upserts, 1)
}

func TestSubmit_WriteErrorLeavesShift(t *testing.T) {
	store := newFakeShiftStore()
	store.upsertErr = errors.New("timeout")
	m := NewManager(store, fixedClock(at(1, 9, 0)))
	shift := &domain.ShiftData{Date: "2024-06-01", Type: "Morning", Status: domain.ShiftStatusDraft}

	next, err := m.Submit(shift, gsa)
	assert.Nil(t, next)
	var writeErr *WriteError
	require.ErrorAs(t, err, &writeErr)
	assert.Equal(t, domain.ShiftStatusDraft, shift.Status)
}

func TestSaveDraft(t *testing.T) {
	store := newFakeShiftStore()
	m := NewManager(store, fixedClock(at(1, 9, 0)))
	shift := &domain.ShiftData{Date: "2024-06-01", Type: "Morning", Status: domain.ShiftStatusDraft, Notes: "wip"}

	saved, err := m.SaveDraft(shift, gsa)
	require.NoError(t, err)
	assert.Equal(t, domain.ShiftStatusDraft, saved.Status)
	require.Len(t, store.upserts, 1)
	assert.Equal(t, domain.ShiftStatusDraft, store.upserts[0].Status)
	assert.Equal(t, "wip", store.upserts[0].Notes)

	_, err = m.SaveDraft(&domain.ShiftData{Status: domain.ShiftStatusSubmitted}, gsa)
	assert.ErrorIs(t, err, ErrShiftSubmitted)
}

func TestReopen(t *testing.T) {
	store := newFakeShiftStore()
	store.records["2024-06-01|Morning"] = &domain.ShiftRecord{Date: "2024-06-01", ShiftType: "Morning", Status: domain.ShiftStatusSubmitted}
	m := NewManager(store, fixedClock(at(1, 9, 0)))

	err := m.Reopen(gsa, "2024-06-01", "Morning")
	assert.ErrorIs(t, err, ErrNotManager)
	assert.Equal(t, 0, store.reopens)
	assert.Equal(t, domain.ShiftStatusSubmitted, store.records["2024-06-01|Morning"].Status)

	require.NoError(t, m.Reopen(manager, "2024-06-01", "Morning"))
	assert.Equal(t, domain.ShiftStatusDraft, store.records["2024-06-01|Morning"].Status)

	err = m.Reopen(manager, "2024-06-01", "Morning")
	assert.ErrorIs(t, err, ErrShiftNotSubmitted)

	asst := &domain.User{Name: "Asst", Role: domain.RoleAsstFOM}
	store.reopenErr = errors.New("deadlock")
	err = m.Reopen(asst, "2024-06-01", "Morning")
	var writeErr *WriteError
	assert.ErrorAs(t, err, &writeErr)
}

func TestApplyReopen(t *testing.T) {
	shift := &domain.ShiftData{Date: "2024-06-01", Type: "Morning", Status: domain.ShiftStatusSubmitted}

	assert.Same(t, shift, ApplyReopen(shift, "2024-06-01", "Night"))
	reopened := ApplyReopen(shift, "2024-06-01", "Morning")
	assert.Equal(t, domain.ShiftStatusDraft, reopened.Status)
	assert.Nil(t, ApplyReopen(nil, "2024-06-01", "Morning"))
}

func TestSubmittedShiftTypes(t *testing.T) {
	store := newFakeShiftStore()
	store.records["2024-06-01|Morning"] = &domain.ShiftRecord{Date: "2024-06-01", ShiftType: "Morning", Status: domain.ShiftStatusSubmitted}
	store.records["2024-06-01|Night"] = &domain.ShiftRecord{Date: "2024-06-01", ShiftType: "Night", Status: domain.ShiftStatusDraft}
	m := NewManager(store, fixedClock(at(1, 9, 0)))

	assert.Equal(t, []string{"Morning"}, m.SubmittedShiftTypes("2024-06-01"))

	store.getErr = errors.New("boom")
	assert.Empty(t, m.SubmittedShiftTypes("2024-06-01"))
}
