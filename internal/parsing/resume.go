// Package parsing decomposes free-form resume text into a StructuredResume.
//
// Parsing is best effort. Each field is filled by one ordered pass; a pass that finds
// nothing leaves its field at the zero value and never stops the passes after it.
package parsing

// Confidence tags how an entry was produced.
type Confidence string

// Confidence levels.
const (
	// ConfidenceHigh marks entries backed by a dated role match.
	ConfidenceHigh Confidence = "high"
	// ConfidenceLow marks entries from the bare role-noun fallback.
	ConfidenceLow Confidence = "low"
)

// Source tags which pipeline produced a StructuredResume.
type Source string

// Sources.
const (
	SourceHeuristic Source = "heuristic"
	SourceOracle    Source = "oracle"
)

// StructuredResume is the parsed form of a resume. Strings are empty and lists are empty
// (never nil) when nothing was found.
type StructuredResume struct {
	FullName     string        `json:"full_name"`
	Email        string        `json:"email"`
	Phone        string        `json:"phone"`
	LinkedIn     string        `json:"linkedin"`
	Location     string        `json:"location"`
	JobTitle     string        `json:"job_title"`
	Summary      string        `json:"summary"`
	Skills       []string      `json:"skills"`
	Experiences  []Experience  `json:"experiences"`
	Educations   []Education   `json:"educations"`
	Achievements []Achievement `json:"achievements"`
	Projects     []Project     `json:"projects"`
	Source       Source        `json:"source"`
}

// Experience is one work history entry.
type Experience struct {
	Position    string     `json:"position"`
	Company     string     `json:"company"`
	StartDate   string     `json:"start_date"`
	EndDate     string     `json:"end_date"`
	Description string     `json:"description"`
	Confidence  Confidence `json:"confidence"`
}

// Education is one degree entry.
type Education struct {
	Degree    string `json:"degree"`
	School    string `json:"school"`
	Field     string `json:"field"`
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
	Grade     string `json:"grade"`
}

// Achievement is one award or accomplishment.
type Achievement struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// Project is one project entry.
type Project struct {
	Name         string   `json:"name"`
	Description  string   `json:"description"`
	Technologies []string `json:"technologies"`
}

// Empty returns a StructuredResume with every list initialized.
func Empty(source Source) *StructuredResume {
	r := &StructuredResume{Source: source}
	r.EnsureDefaults()
	return r
}

// EnsureDefaults replaces nil lists with empty ones, including project technology lists.
func (r *StructuredResume) EnsureDefaults() {
	if r.Skills == nil {
		r.Skills = []string{}
	}
	if r.Experiences == nil {
		r.Experiences = []Experience{}
	}
	if r.Educations == nil {
		r.Educations = []Education{}
	}
	if r.Achievements == nil {
		r.Achievements = []Achievement{}
	}
	if r.Projects == nil {
		r.Projects = []Project{}
	}
	for i := range r.Projects {
		if r.Projects[i].Technologies == nil {
			r.Projects[i].Technologies = []string{}
		}
	}
}
