package domain

import (
	"bytes"
	"encoding/json"
	"strings"
)

type ApplicationStatus string

const (
	ApplicationStatusPending  ApplicationStatus = "pending"
	ApplicationStatusAccepted ApplicationStatus = "accepted"
	ApplicationStatusRejected ApplicationStatus = "rejected"
)

// Statuses lists the statuses a recruiter can move an application to, in button order.
var Statuses = []ApplicationStatus{
	ApplicationStatusAccepted,
	ApplicationStatusRejected,
	ApplicationStatusPending,
}

// Label returns the badge text for the status ("pending" -> "Pending").
func (s ApplicationStatus) Label() string {
	if s == "" {
		return ""
	}
	return strings.ToUpper(string(s[:1])) + string(s[1:])
}

// JobRef is the job snapshot the backend populates into an application.
type JobRef struct {
	Title          string `json:"title,omitempty"`
	JobType        string `json:"jobType,omitempty"`
	EmploymentType string `json:"employmentType,omitempty"`
}

// UnmarshalJSON tolerates an unpopulated reference (a bare id string or null).
func (j *JobRef) UnmarshalJSON(data []byte) error {
	if !isObject(data) {
		*j = JobRef{}
		return nil
	}
	type plain JobRef
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*j = JobRef(p)
	return nil
}

// ApplicantRef is the applicant snapshot the backend populates into an application.
type ApplicantRef struct {
	Skills []string `json:"skills,omitempty"`
}

// UnmarshalJSON tolerates an unpopulated reference and a skills field that is not a list.
func (a *ApplicantRef) UnmarshalJSON(data []byte) error {
	*a = ApplicantRef{}
	if !isObject(data) {
		return nil
	}
	var raw struct {
		Skills json.RawMessage `json:"skills"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	var skills []string
	if err := json.Unmarshal(raw.Skills, &skills); err == nil {
		a.Skills = skills
	}
	return nil
}

type Application struct {
	ID           string            `json:"_id"`
	Status       ApplicationStatus `json:"status"`
	FullName     string            `json:"fullName"`
	Email        string            `json:"email"`
	ResumeURL    string            `json:"resume,omitempty"`
	PortfolioURL string            `json:"portfolioLink,omitempty"`
	GithubURL    string            `json:"githubLink,omitempty"`
	Message      string            `json:"message,omitempty"`
	Job          JobRef            `json:"jobId"`
	Applicant    ApplicantRef      `json:"userId"`
}

// UnmarshalJSON accepts "id" when the backend does not send "_id".
func (a *Application) UnmarshalJSON(data []byte) error {
	type plain Application
	var p struct {
		plain
		AltID string `json:"id"`
	}
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*a = Application(p.plain)
	if a.ID == "" {
		a.ID = p.AltID
	}
	return nil
}

// JobTitle returns the job title or "Unknown Job".
func (a Application) JobTitle() string {
	if a.Job.Title == "" {
		return "Unknown Job"
	}
	return a.Job.Title
}

// SkillsPreview returns at most the first three skills and the number left over.
func (a Application) SkillsPreview() (shown []string, more int) {
	skills := a.Applicant.Skills
	if len(skills) <= 3 {
		return skills, 0
	}
	return skills[:3], len(skills) - 3
}

// Humanize renders enum-like values for display: "full-time" -> "Full time".
// Empty input renders "N/A".
func Humanize(value string) string {
	if value == "" {
		return "N/A"
	}
	return strings.ToUpper(value[:1]) + strings.ReplaceAll(value[1:], "-", " ")
}

// OrNA returns value, or "N/A" when it is empty.
func OrNA(value string) string {
	if value == "" {
		return "N/A"
	}
	return value
}

func isObject(data []byte) bool {
	trimmed := bytes.TrimSpace(data)
	return len(trimmed) > 0 && trimmed[0] == '{'
}
