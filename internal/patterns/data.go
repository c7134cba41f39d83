package patterns

// defaultIndustries holds the industry keyword tables. Terms are lowercase and matched as substrings.
var defaultIndustries = []Category{
	{
		Name: "technology",
		Terms: []string{
			"javascript", "typescript", "python", "java", "golang", "react", "node.js", "sql",
			"postgresql", "mongodb", "aws", "azure", "docker", "kubernetes", "api", "rest",
			"graphql", "microservices", "ci/cd", "devops", "linux", "machine learning",
			"data analysis", "cloud", "agile", "scrum", "html", "css", "terraform", "kafka",
		},
	},
	{
		Name: "marketing",
		Terms: []string{
			"seo", "sem", "content marketing", "social media", "google analytics", "campaign",
			"brand", "digital marketing", "email marketing", "crm", "market research",
			"conversion", "roi", "ppc", "copywriting", "lead generation",
		},
	},
	{
		Name: "finance",
		Terms: []string{
			"financial analysis", "budgeting", "forecasting", "excel", "accounting", "audit",
			"compliance", "risk management", "financial modeling", "gaap", "investment",
			"portfolio", "valuation", "reconciliation", "financial reporting",
		},
	},
	{
		Name: "healthcare",
		Terms: []string{
			"patient care", "hipaa", "clinical", "ehr", "emr", "medical", "healthcare",
			"nursing", "diagnosis", "treatment", "pharmacy", "patient safety", "cpr",
		},
	},
	{
		Name: "general",
		Terms: []string{
			"leadership", "communication", "teamwork", "problem solving", "project management",
			"collaboration", "analytical", "critical thinking", "time management",
			"stakeholder", "strategic planning", "mentoring", "cross-functional",
		},
	},
}

var defaultActionVerbs = []string{
	"achieved", "managed", "led", "developed", "created", "implemented", "designed",
	"improved", "increased", "decreased", "reduced", "launched", "built", "delivered",
	"coordinated", "established", "generated", "optimized", "streamlined", "spearheaded",
	"negotiated", "analyzed", "trained", "mentored", "organized", "executed",
	"collaborated", "initiated", "resolved", "supervised", "transformed", "automated",
	"architected", "expanded", "facilitated",
}

// defaultSections drives the section-presence check.
var defaultSections = []Section{
	{Name: "Contact Information", Synonyms: []string{"contact", "email", "phone"}},
	{Name: "Professional Summary", Synonyms: []string{"summary", "objective", "profile", "about me"}},
	{Name: "Work Experience", Synonyms: []string{"experience", "employment", "work history", "professional experience"}},
	{Name: "Education", Synonyms: []string{"education", "academic", "degree", "university"}},
	{Name: "Skills", Synonyms: []string{"skills", "competencies", "technical skills", "expertise"}},
}

// defaultHeaders are the line-level headers the structured parser uses to cut text into blocks.
// Every header of every kind also terminates the block before it.
var defaultHeaders = map[BlockKind][]string{
	BlockSummary:        {"professional summary", "career summary", "summary", "career objective", "objective", "profile", "about me"},
	BlockSkills:         {"technical skills", "core competencies", "key skills", "skills", "competencies", "expertise"},
	BlockExperience:     {"work experience", "professional experience", "employment history", "work history", "experience", "employment"},
	BlockEducation:      {"education", "academic background", "academics", "educational qualifications", "qualifications"},
	BlockAchievements:   {"achievements", "key achievements", "accomplishments", "awards", "honors", "awards and achievements"},
	BlockProjects:       {"projects", "personal projects", "key projects", "academic projects"},
	BlockCertifications: {"certifications", "certificates", "licenses"},
	BlockOther:          {"languages", "interests", "hobbies", "references", "volunteer", "volunteering", "publications"},
}

// defaultCapitalizedStopwords are capitalized function words never treated as ad-hoc keywords.
var defaultCapitalizedStopwords = []string{
	"the", "and", "for", "with", "from", "this", "that", "our", "your", "are", "was",
	"were", "has", "have", "had", "will", "but", "not", "all", "any", "can", "may",
	"its", "into", "over", "also", "who", "what", "when", "where", "which", "while",
}

// defaultSkillStopwords are dropped from split skill lists.
var defaultSkillStopwords = []string{
	"and", "or", "the", "of", "in", "with", "to", "a", "an", "etc", "others", "other",
	"skills", "technical skills",
}

var usStates = []string{
	"AL", "AK", "AZ", "AR", "CA", "CO", "CT", "DE", "FL", "GA", "HI", "ID", "IL", "IN",
	"IA", "KS", "KY", "LA", "ME", "MD", "MA", "MI", "MN", "MS", "MO", "MT", "NE", "NV",
	"NH", "NJ", "NM", "NY", "NC", "ND", "OH", "OK", "OR", "PA", "RI", "SC", "SD", "TN",
	"TX", "UT", "VT", "VA", "WA", "WV", "WI", "WY", "DC",
	"California", "New York", "Texas", "Florida", "Washington", "Illinois", "Massachusetts",
	"Georgia", "Colorado", "Oregon", "Virginia", "New Jersey", "Pennsylvania", "Ohio",
	"Michigan", "North Carolina", "Arizona",
}
