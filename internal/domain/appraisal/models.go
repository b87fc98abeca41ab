package appraisal

import "time"

type RatingScale struct {
	Type   string   `json:"type"`
	Min    float64  `json:"min"`
	Max    float64  `json:"max"`
	Step   float64  `json:"step"`
	Labels []string `json:"labels,omitempty"`
}

type Criterion struct {
	Key      string  `json:"key"`
	Title    string  `json:"title"`
	Details  string  `json:"details,omitempty"`
	Weight   int     `json:"weight"`
	MaxScore float64 `json:"maxScore"`
	Required bool    `json:"required"`
}

type Template struct {
	ID                      string      `json:"id"`
	Name                    string      `json:"name"`
	TemplateType            string      `json:"templateType"`
	RatingScale             RatingScale `json:"ratingScale"`
	Criteria                []Criterion `json:"criteria"`
	IsActive                bool        `json:"isActive"`
	ApplicableDepartmentIDs []string    `json:"applicableDepartmentIds,omitempty"`
	ApplicablePositionIDs   []string    `json:"applicablePositionIds,omitempty"`
	CreatedAt               time.Time   `json:"createdAt"`
}

type TemplateAssignment struct {
	TemplateID    string   `json:"templateId"`
	DepartmentIDs []string `json:"departmentIds"`
}

type Cycle struct {
	ID                  string               `json:"id"`
	Name                string               `json:"name"`
	CycleType           string               `json:"cycleType"`
	StartDate           time.Time            `json:"startDate"`
	EndDate             time.Time            `json:"endDate"`
	ManagerDueDate      *time.Time           `json:"managerDueDate,omitempty"`
	EmployeeAckDueDate  *time.Time           `json:"employeeAcknowledgementDueDate,omitempty"`
	TemplateAssignments []TemplateAssignment `json:"templateAssignments"`
	Status              string               `json:"status"`
	CreatedAt           time.Time            `json:"createdAt"`
}

type Assignment struct {
	ID                string     `json:"id"`
	CycleID           string     `json:"cycleId"`
	TemplateID        string     `json:"templateId"`
	EmployeeProfileID string     `json:"employeeProfileId"`
	ManagerProfileID  string     `json:"managerProfileId"`
	DepartmentID      string     `json:"departmentId"`
	Status            string     `json:"status"`
	AssignedAt        time.Time  `json:"assignedAt"`
	DueDate           *time.Time `json:"dueDate,omitempty"`
	SubmittedAt       *time.Time `json:"submittedAt,omitempty"`
	LatestAppraisalID string     `json:"latestAppraisalId,omitempty"`
}

type Rating struct {
	Key         string  `json:"key"`
	Title       string  `json:"title"`
	RatingValue float64 `json:"ratingValue"`
	Weight      int     `json:"weight"`
	MaxScore    float64 `json:"maxScore"`
}

type Record struct {
	ID                 string     `json:"id"`
	AssignmentID       string     `json:"assignmentId"`
	Ratings            []Rating   `json:"ratings"`
	TotalScore         float64    `json:"totalScore"`
	OverallRatingLabel string     `json:"overallRatingLabel,omitempty"`
	ManagerSummary     string     `json:"managerSummary,omitempty"`
	HRPublishedAt      *time.Time `json:"hrPublishedAt,omitempty"`
	CreatedAt          time.Time  `json:"createdAt"`
}

type Dispute struct {
	ID                 string    `json:"id"`
	AppraisalID        string    `json:"appraisalId"`
	AssignmentID       string    `json:"assignmentId"`
	CycleID            string    `json:"cycleId"`
	RaisedByEmployeeID string    `json:"raisedByEmployeeId"`
	Reason             string    `json:"reason"`
	Details            string    `json:"details,omitempty"`
	DisputedRatingKey  string    `json:"disputedRatingKey,omitempty"`
	Status             string    `json:"status"`
	CreatedAt          time.Time `json:"createdAt"`
}

// Score is the output of the scoring engine for one rating set.
type Score struct {
	TotalScore         float64 `json:"totalScore"`
	OverallRatingLabel string  `json:"overallRatingLabel,omitempty"`
}

type CycleSummary struct {
	CycleID          string  `json:"cycleId"`
	TotalAssignments int     `json:"totalAssignments"`
	NotStarted       int     `json:"notStarted"`
	InProgress       int     `json:"inProgress"`
	Submitted        int     `json:"submitted"`
	Published        int     `json:"published"`
	Acknowledged     int     `json:"acknowledged"`
	CompletionRate   float64 `json:"completionRate"`
	AverageScore     float64 `json:"averageScore"`
}
