package appraisal

const (
	TemplateTypeAnnual       = "annual"
	TemplateTypeSemiAnnual   = "semi_annual"
	TemplateTypeProbationary = "probationary"
	TemplateTypeProject      = "project"
	TemplateTypeAdHoc        = "ad_hoc"

	ScaleThreePoint = "three_point"
	ScaleFivePoint  = "five_point"
	ScaleTenPoint   = "ten_point"

	CycleStatusPlanned  = "planned"
	CycleStatusActive   = "active"
	CycleStatusClosed   = "closed"
	CycleStatusArchived = "archived"

	AssignmentStatusNotStarted   = "not_started"
	AssignmentStatusInProgress   = "in_progress"
	AssignmentStatusSubmitted    = "submitted"
	AssignmentStatusPublished    = "published"
	AssignmentStatusAcknowledged = "acknowledged"

	DisputeStatusOpen     = "open"
	DisputeStatusResolved = "resolved"
)

// EventX values name the lifecycle transitions of an assignment.
const (
	EventAssigned          = "assigned"
	EventStart             = "start"
	EventSubmit            = "submit"
	EventPublish           = "publish"
	EventReturnForRevision = "return_for_revision"
	EventAcknowledge       = "acknowledge"
	EventDisputed          = "disputed"
)

var templateTypes = []string{
	TemplateTypeAnnual,
	TemplateTypeSemiAnnual,
	TemplateTypeProbationary,
	TemplateTypeProject,
	TemplateTypeAdHoc,
}

var scaleTypes = []string{
	ScaleThreePoint,
	ScaleFivePoint,
	ScaleTenPoint,
}
