package checklist

import (
	"math"
	"time"

	"github.com/nova-maldives/the-hub/backend/internal/domain"
)

const (
	ProgressNotStarted = "Not Started"
	ProgressInProgress = "In Progress"
	ProgressCompleted  = "Completed"
)

type ForecastDay struct {
	Date       string `json:"date"`
	Day        string `json:"day"`
	Percentage int    `json:"percentage"`
}

func CompletedCount(tasks []domain.Task) int {
	done := 0
	for _, t := range tasks {
		if t.IsCompleted {
			done++
		}
	}
	return done
}

func CompletionPercent(tasks []domain.Task) int {
	if len(tasks) == 0 {
		return 0
	}
	return int(math.Round(float64(CompletedCount(tasks)) * 100 / float64(len(tasks))))
}

func ProgressStatus(tasks []domain.Task) string {
	percent := CompletionPercent(tasks)
	switch {
	case percent == 100 && len(tasks) > 0:
		return ProgressCompleted
	case percent > 0:
		return ProgressInProgress
	default:
		return ProgressNotStarted
	}
}

// WeeklyForecast 返回从 start 开始连续 7 天的入住率，没有记录的日期为 0
func WeeklyForecast(records []domain.DailyOccupancy, start time.Time) []ForecastDay {
	byDate := make(map[string]int, len(records))
	for _, r := range records {
		byDate[r.Date] = r.Percentage
	}

	forecast := make([]ForecastDay, 7)
	for i := range forecast {
		day := start.AddDate(0, 0, i)
		date := day.Format(time.DateOnly)
		forecast[i] = ForecastDay{
			Date:       date,
			Day:        day.Format("Mon"),
			Percentage: byDate[date],
		}
	}
	return forecast
}

func AverageOccupancy(forecast []ForecastDay) int {
	if len(forecast) == 0 {
		return 0
	}
	sum := 0
	for _, d := range forecast {
		sum += d.Percentage
	}
	return int(math.Round(float64(sum) / float64(len(forecast))))
}

// WeekStart 返回 t 所在周的周一零点
func WeekStart(t time.Time) time.Time {
	offset := (int(t.Weekday()) + 6) % 7
	y, m, d := t.AddDate(0, 0, -offset).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

func ClampPercentage(p int) int {
	return min(max(p, 0), 100)
}
