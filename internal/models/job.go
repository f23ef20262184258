package models

import (
	"time"

	"github.com/google/uuid"
)

// VideoJob is one completed processing request: the source URL plus the
// transcript and summary produced for it. Jobs are only persisted on success.
type VideoJob struct {
	JobID      uuid.UUID `json:"job_id" db:"job_id" validate:"omitempty"`
	UserID     uuid.UUID `json:"user_id" db:"user_id" validate:"omitempty"`
	VideoURL   string    `json:"video_url" db:"video_url" validate:"required,lte=2048"`
	VideoTitle string    `json:"video_title" db:"video_title" validate:"lte=255"`
	Transcript string    `json:"transcript" db:"transcript"`
	Summary    string    `json:"summary" db:"summary"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
}

type JobList struct {
	Jobs       []*VideoJob `json:"jobs"`
	TotalCount int         `json:"total_count"`
	Page       int         `json:"page"`
	PageSize   int         `json:"page_size"`
	HasMore    bool        `json:"has_more"`
}

type ProcessInput struct {
	VideoURL string `json:"video_url" validate:"required"`
}

type ProcessResult struct {
	VideoTitle string `json:"video_title"`
	Transcript string `json:"transcript"`
	Summary    string `json:"summary"`
}

type Stats struct {
	TotalUsers          int `json:"total_users" db:"total_users"`
	TotalJobs           int `json:"total_jobs" db:"total_jobs"`
	JobsToday           int `json:"jobs_today" db:"jobs_today"`
	UserJobs            int `json:"user_jobs" db:"user_jobs"`
	AvgTranscriptLength int `json:"avg_transcript_length" db:"avg_transcript_length"`
	AvgSummaryLength    int `json:"avg_summary_length" db:"avg_summary_length"`
}

type UserActivity struct {
	UserID      uuid.UUID  `json:"user_id" db:"user_id"`
	Username    string     `json:"username" db:"username"`
	Email       string     `json:"email" db:"email"`
	CreatedAt   time.Time  `json:"created_at" db:"created_at"`
	JobCount    int        `json:"job_count" db:"job_count"`
	LastJobDate *time.Time `json:"last_job_date" db:"last_job_date"`
}

type JobOverview struct {
	JobID            uuid.UUID `json:"job_id" db:"job_id"`
	VideoTitle       string    `json:"video_title" db:"video_title"`
	VideoURL         string    `json:"video_url" db:"video_url"`
	Username         string    `json:"username" db:"username"`
	CreatedAt        time.Time `json:"created_at" db:"created_at"`
	TranscriptLength int       `json:"transcript_length" db:"transcript_length"`
	SummaryLength    int       `json:"summary_length" db:"summary_length"`
}

type DailyCount struct {
	Date  time.Time `json:"date" db:"date"`
	Count int       `json:"count" db:"count"`
}

type DetailedStats struct {
	Users      []*UserActivity `json:"users"`
	RecentJobs []*JobOverview  `json:"recent_jobs"`
	Totals     *Stats          `json:"totals"`
	DailyStats []*DailyCount   `json:"daily_stats"`
}
