package learning

// AskResult answers a free-form syllabus question. The question and answer
// fields mirror Stage/Content for older callers.
type AskResult struct {
	StageResult
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// LabResult is a lab stage payload for one experiment.
type LabResult struct {
	StageResult
	Experiment string `json:"experiment"`
}

type DeepResearchResult struct {
	Stage          Stage    `json:"stage"`
	Topic          string   `json:"topic"`
	Content        string   `json:"content"`
	Iterations     int      `json:"iterations"`
	SourcesUsed    int      `json:"sources_used"`
	SubQueries     []string `json:"sub_queries"`
	ReasoningTrace []string `json:"reasoning_trace"`
}

type Paper struct {
	Title     string   `json:"title"`
	Abstract  string   `json:"abstract"`
	Authors   []string `json:"authors"`
	Year      int      `json:"year,omitempty"`
	Published string   `json:"published,omitempty"`
	Citations int      `json:"citations"`
	URL       string   `json:"url"`
	Source    string   `json:"source"`
}

const (
	SourceArxiv           = "arXiv"
	SourceSemanticScholar = "Semantic Scholar"
)

type ResearchSources struct {
	Syllabus        bool `json:"syllabus"`
	Arxiv           int  `json:"arxiv"`
	SemanticScholar int  `json:"semantic_scholar"`
}

type ResearchResult struct {
	Stage              Stage           `json:"stage"`
	Topic              string          `json:"topic"`
	Explanation        string          `json:"explanation"`
	Papers             []Paper         `json:"papers"`
	ResearchDirections string          `json:"research_directions"`
	ReasoningTrace     []string        `json:"reasoning_trace"`
	Sources            ResearchSources `json:"sources"`
}

type PapersResult struct {
	Stage  Stage   `json:"stage"`
	Query  string  `json:"query"`
	Papers []Paper `json:"papers"`
	Total  int     `json:"total"`
}

type SummaryResult struct {
	Stage          Stage  `json:"stage"`
	Topic          string `json:"topic"`
	Content        string `json:"content"`
	PapersAnalyzed int    `json:"papers_analyzed"`
}

type ProjectIdea struct {
	ID           int      `json:"id"`
	Title        string   `json:"title"`
	Description  string   `json:"description"`
	SubjectsUsed []string `json:"subjects_used"`
	Difficulty   string   `json:"difficulty"`
	Innovation   string   `json:"innovation"`
}

// ProjectIdeasResult carries structured Projects when the model produced
// valid JSON and raw Content otherwise.
type ProjectIdeasResult struct {
	Stage            Stage         `json:"stage"`
	Projects         []ProjectIdea `json:"projects,omitempty"`
	Content          string        `json:"content,omitempty"`
	SubjectsAnalyzed []string      `json:"subjects_analyzed"`
	ReasoningTrace   []string      `json:"reasoning_trace"`
}

type ProjectDetailsResult struct {
	Stage          Stage    `json:"stage"`
	ProjectTitle   string   `json:"project_title"`
	Content        string   `json:"content"`
	ReasoningTrace []string `json:"reasoning_trace"`
}

// TechResult covers the four tech-stack operations; only the field matching
// Stage is populated.
type TechResult struct {
	Stage           Stage               `json:"stage"`
	ProjectType     string              `json:"project_type,omitempty"`
	Requirements    string              `json:"requirements,omitempty"`
	Recommendations string              `json:"recommendations,omitempty"`
	Template        map[string][]string `json:"template,omitempty"`
	Tech1           string              `json:"tech1,omitempty"`
	Tech2           string              `json:"tech2,omitempty"`
	Comparison      string              `json:"comparison,omitempty"`
	Concept         string              `json:"concept,omitempty"`
	Depth           string              `json:"depth,omitempty"`
	Explanation     string              `json:"explanation,omitempty"`
	Task            string              `json:"task,omitempty"`
	Technology      string              `json:"technology,omitempty"`
	Guidance        string              `json:"guidance,omitempty"`
	ReasoningTrace  []string            `json:"reasoning_trace"`
}

// Body returns the populated markdown field.
func (t TechResult) Body() string {
	switch t.Stage {
	case StageRecommend:
		return t.Recommendations
	case StageCompare:
		return t.Comparison
	case StageExplain:
		return t.Explanation
	case StageCodeGuide:
		return t.Guidance
	}
	return ""
}

type UploadResult struct {
	Message     string `json:"message,omitempty"`
	TotalChunks int    `json:"total_chunks,omitempty"`
	DocumentID  string `json:"document_id,omitempty"`
	Error       string `json:"error,omitempty"`
}

type SessionGrant struct {
	SessionID string `json:"session_id"`
	Token     string `json:"token"`
	ExpiresAt string `json:"expires_at"`
}
