package models

// AnalysisResult is the structured report returned by the analysis engine
type AnalysisResult struct {
	OverallScore       float64  `json:"pontuacao_geral"`
	ExperienceYears    float64  `json:"experiencia_anos"`
	SeniorityLevel     string   `json:"nivel_senioridade"`
	JobMatch           *float64 `json:"compatibilidade_vaga,omitempty"`
	Strengths          []string `json:"pontos_fortes"`
	TechnicalSkills    []string `json:"skills_tecnicas"`
	Summary            string   `json:"resumo"`
	InterviewQuestions []string `json:"perguntas_entrevista"`
	Recommendation     string   `json:"recomendacao"`
	ProcessingTime     *float64 `json:"processing_time,omitempty"`
}

// AnalysisSummary is one entry of a user's analysis history
type AnalysisSummary struct {
	ID             int64     `json:"id"`
	Filename       string    `json:"filename"`
	Score          float64   `json:"score"`
	SeniorityLevel string    `json:"seniority_level"`
	Recommendation string    `json:"recommendation"`
	CreatedAt      Timestamp `json:"created_at"`
}

// ScoreBand buckets a history score the way the dashboard colours it
func (a AnalysisSummary) ScoreBand() string {
	switch {
	case a.Score >= 85:
		return "high"
	case a.Score >= 75:
		return "medium"
	default:
		return "low"
	}
}

// AnalysisSubmission is the payload of one POST /analyze call
type AnalysisSubmission struct {
	File           *SelectedFile
	JobDescription string
	UserID         *int64
}

// WorkflowStatus represents where the analysis workflow currently is
type WorkflowStatus string

const (
	WorkflowIdle       WorkflowStatus = "idle"
	WorkflowValidating WorkflowStatus = "validating"
	WorkflowRejected   WorkflowStatus = "rejected"
	WorkflowReady      WorkflowStatus = "ready"
	WorkflowSubmitting WorkflowStatus = "submitting"
	WorkflowSucceeded  WorkflowStatus = "succeeded"
	WorkflowFailed     WorkflowStatus = "failed"
)
