package domain

import "time"

type ShiftStatus string

const (
	ShiftStatusDraft     ShiftStatus = "draft"
	ShiftStatusSubmitted ShiftStatus = "submitted"
)

// 适用于所有班次的模板
const ShiftTypeAll = "ALL"

type TaskTemplate struct {
	ID        int64  `json:"id"`
	Label     string `json:"label"`
	Category  string `json:"category"`
	ShiftType string `json:"shiftType"`
}

type TaskCategory struct {
	Name string `json:"name"`
}

type Task struct {
	ID          string `json:"id"`
	Label       string `json:"label"`
	Category    string `json:"category"`
	IsCompleted bool   `json:"isCompleted"`
}

// ShiftData 是某个用户当前正在处理的班次，(Date, Type) 唯一确定一条持久化记录
type ShiftData struct {
	ID        string      `json:"id"`
	Type      string      `json:"type"`
	Date      string      `json:"date"`
	Tasks     []Task      `json:"tasks"`
	Status    ShiftStatus `json:"status"`
	AgentName string      `json:"agentName"`
	Occupancy int         `json:"occupancy"`
	Notes     string      `json:"notes"`
}

// ShiftRecord 对应 completed_shifts 表中的一行
type ShiftRecord struct {
	ID          int64       `json:"id"`
	Date        string      `json:"date"`
	ShiftType   string      `json:"shiftType"`
	AgentName   string      `json:"agentName"`
	Tasks       []Task      `json:"tasks"`
	Notes       string      `json:"notes"`
	Status      ShiftStatus `json:"status"`
	SubmittedAt time.Time   `json:"submittedAt"`
}

type ShiftAssignment struct {
	ID        int64  `json:"id"`
	Date      string `json:"date"`
	ShiftType string `json:"shiftType"`
	UserID    int64  `json:"userId"`
}
