package guestrequest

import "github.com/nova-maldives/the-hub/backend/internal/domain"

type Summary struct {
	Pending      int `json:"pending"`
	InProgress   int `json:"inProgress"`
	Completed    int `json:"completed"`
	Cancelled    int `json:"cancelled"`
	HighPriority int `json:"highPriority"` // 尚未处理完的高优先级请求
}

func Summarize(reqs []*domain.GuestRequest) Summary {
	var s Summary
	for _, r := range reqs {
		switch r.Status {
		case domain.RequestStatusPending:
			s.Pending++
		case domain.RequestStatusInProgress:
			s.InProgress++
		case domain.RequestStatusCompleted:
			s.Completed++
		case domain.RequestStatusCancelled:
			s.Cancelled++
		}
		if r.Priority == domain.RequestPriorityHigh && (r.Status == domain.RequestStatusPending || r.Status == domain.RequestStatusInProgress) {
			s.HighPriority++
		}
	}
	return s
}
