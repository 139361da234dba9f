package hermes

// Subjects.
const (
	SubjectAnalysisRequested = "realmbti.analysis.requested"
	SubjectAnalysisCompleted = "realmbti.analysis.completed"
	SubjectAnalysisFailed    = "realmbti.analysis.failed"

	SubjectServiceRegistered = "realmbti.service.registered"
)

// AnalysisRequested asks for one analysis over the embedded chat logs.
type AnalysisRequested struct {
	RequestID string          `json:"request_id"`
	UserName  string          `json:"user_name"`
	Files     []RequestedFile `json:"files"`
}

type RequestedFile struct {
	Name string `json:"name"`
	Text string `json:"text"`
}

// AnalysisCompleted summarizes a finished analysis. It never carries chat text.
type AnalysisCompleted struct {
	RequestID       string         `json:"request_id,omitempty"`
	AnalysisID      string         `json:"analysis_id"`
	Type            string         `json:"type"`
	Scores          map[string]int `json:"scores"`
	Persona         string         `json:"persona"`
	ConfidenceScore int            `json:"confidence_score"`
	ConfidenceLevel string         `json:"confidence_level"`
	FileCount       int            `json:"file_count"`
	Timestamp       string         `json:"timestamp"`
}

// AnalysisFailed reports a rejected or failed request. InputError is true
// when the request itself was at fault.
type AnalysisFailed struct {
	RequestID  string `json:"request_id"`
	Error      string `json:"error"`
	InputError bool   `json:"input_error"`
}
