package domain

// DomainError represents a domain-specific error
type DomainError struct {
	Message string
}

func (e *DomainError) Error() string {
	return e.Message
}

func NewDomainError(message string) *DomainError {
	return &DomainError{Message: message}
}

// Custom errors
var (
	ErrAuditNotFound      = NewDomainError("audit not found")
	ErrEvaluationNotFound = NewDomainError("evaluation not found")
	ErrSurveyNotFound     = NewDomainError("survey response not found")
	ErrReportIncomplete   = NewDomainError("audit report fields must be filled before validation")
	ErrRubricIncomplete   = NewDomainError("all rubric criteria must be scored")
	ErrUnknownArtifact    = NewDomainError("unknown artifact type")
)
