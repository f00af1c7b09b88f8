package store

import "time"

// Memory categories.
const (
	CategorySemantic   = "semantic"
	CategoryEpisodic   = "episodic"
	CategoryProcedural = "procedural"
	CategoryDecision   = "decision"
	CategoryPreference = "preference"
)

// Task status/priority enums.
const (
	TaskStatusTodo       = "todo"
	TaskStatusInProgress = "in_progress"
	TaskStatusBlocked    = "blocked"
	TaskStatusDone       = "done"
	TaskStatusCancelled  = "cancelled"

	PriorityLow      = "low"
	PriorityMedium   = "medium"
	PriorityHigh     = "high"
	PriorityCritical = "critical"
)

// Forge enums.
const (
	DifficultyBeginner     = "beginner"
	DifficultyIntermediate = "intermediate"
	DifficultyAdvanced     = "advanced"

	BloomRemember   = "remember"
	BloomUnderstand = "understand"
	BloomApply      = "apply"
	BloomAnalyze    = "analyze"

	OutcomeUnderstood = "understood"
	OutcomeReviewed   = "reviewed"
	OutcomeStruggled  = "struggled"
	OutcomeSkipped    = "skipped"

	ErrorSlip          = "slip"
	ErrorLapse         = "lapse"
	ErrorMistake       = "mistake"
	ErrorMisconception = "misconception"
)

// Application status enum.
const (
	AppDiscovered  = "discovered"
	AppPreparing   = "preparing"
	AppReady       = "ready"
	AppApplied     = "applied"
	AppInterviewing = "interviewing"
	AppOffered     = "offered"
	AppAccepted    = "accepted"
	AppRejected    = "rejected"
	AppWithdrawn   = "withdrawn"
)

// EmbeddingDims is the fixed vector width used across the store.
const EmbeddingDims = 384

// Memory is a single recallable note.
type Memory struct {
	ID           string
	Content      string
	Category     string
	Tags         []string
	Importance   float64
	CreatedAt    time.Time
	LastAccessed *time.Time
	AccessCount  int
	SessionID    string
}

// MemoryArchive is a retired memory kept for audit.
type MemoryArchive struct {
	Memory
	ArchivedAt    time.Time
	ArchiveReason string
}

// Task is a trackable unit of work, optionally queued.
type Task struct {
	ID            string
	Title         string
	Description   string
	Status        string
	Priority      string
	Project       string
	Tags          []string
	DueDate       *time.Time
	QueuePosition *int
}

// Session is a unit of work the user tracks explicitly (distinct from
// ClaudeSession, which is the hook-ingest activity record).
type Session struct {
	ID                string
	Title             string
	StartedAt         time.Time
	EndedAt           *time.Time
	Summary           string
	DecisionsMade     []string
	NextSteps         []string
	CheckpointSummary string
	CheckpointAt      *time.Time
}

// Knowledge is a longer-form reference entry.
type Knowledge struct {
	ID        string
	Title     string
	Content   string
	Category  string
	Tags      []string
	Source    string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// ForgeSubject groups objectives and concepts for one exam/skill track.
type ForgeSubject struct {
	ID        string
	Name      string
	PassScore float64
	Meta      map[string]string
}

// ForgeObjective is a weighted syllabus slot within a subject.
type ForgeObjective struct {
	ID         string
	SubjectID  string
	Code       string
	Title      string
	Domain     string
	ExamWeight float64
}

// ForgeConcept is an atomic study unit.
type ForgeConcept struct {
	ID           string
	Term         string
	Definition   string
	Category     string
	Difficulty   string
	BloomLevel   string
	MasteryLevel float64
	ReviewCount  int
	CorrectCount int
	LastReviewed *time.Time
	NextReview   *time.Time
	Tags         []string
	SubjectID    string
	ObjectiveIDs []string
}

// ForgeReview records a single study event against a concept.
type ForgeReview struct {
	ID         string
	ConceptID  string
	Outcome    string
	Confidence int
	WasCorrect *bool
	Notes      string
	SubjectID  string
	ReviewedAt time.Time
}

// ForgeStreak is a per-day study activity roll-up.
type ForgeStreak struct {
	Date             string
	ConceptsReviewed int
	ConceptsAdded    int
	TimeSpentSeconds int
}

// ForgeErrorPattern classifies an incorrect review.
type ForgeErrorPattern struct {
	ID        string
	ConceptID string
	ReviewID  string
	ErrorType string
	CreatedAt time.Time
}

// GraphEntity is a typed node in the knowledge graph.
type GraphEntity struct {
	ID          string
	Name        string
	EntityType  string
	Description string
	Aliases     []string
	MemoryIDs   []string
	Properties  map[string]any
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// GraphRelationship is a typed weighted edge in the knowledge graph.
type GraphRelationship struct {
	ID             string
	SourceEntityID string
	TargetEntityID string
	RelType        string
	Weight         float64
	EvidenceIDs    []string
	Properties     map[string]any
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// JobBoard is a monitored job listing source.
type JobBoard struct {
	ID          string
	Name        string
	URL         string
	BoardType   string
	Tags        []string
	Active      bool
	LastChecked *time.Time
	ContentHash string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// JobPosting is a single role scraped from a board.
type JobPosting struct {
	ID               string
	BoardID          string
	Title            string
	Company          string
	URL              string
	Description      string
	RequiredSkills   []string
	PreferredSkills  []string
	SalaryMin        *int
	SalaryMax        *int
	WorkMode         string
	Location         string
	CreatedAt        time.Time
}

// Application tracks the candidate's pursuit of a posting.
type Application struct {
	ID             string
	JobPostingID   string
	Status         string
	ResumePath     string
	CoverLetterPath string
	AppliedDate    *time.Time
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// InterviewPrep is a note attached to an application.
type InterviewPrep struct {
	ID            string
	ApplicationID string
	PrepType      string
	Content       string
	Tags          []string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// LifeDomain is a top-level bucket of effort/time.
type LifeDomain struct {
	ID            string
	Name          string
	Priority      int
	HoursPerWeek  float64
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// LifeGoal belongs to a domain.
type LifeGoal struct {
	ID         string
	DomainID   string
	Title      string
	Status     string
	Progress   float64
	TargetDate *time.Time
	UpdatedAt  time.Time
}

// LifeSubGoal belongs to a goal.
type LifeSubGoal struct {
	ID     string
	GoalID string
	Title  string
	Done   bool
}

// LifeGoalMetric is a numeric tracked value on a goal.
type LifeGoalMetric struct {
	ID     string
	GoalID string
	Name   string
	Value  float64
	Target float64
}

// ClaudeSession is the hook-ingest session row (C3).
type ClaudeSession struct {
	SessionID      string
	Cwd            string
	StartedAt      time.Time
	LastHeartbeat  time.Time
	Status         string
	Description    string
	ToolCount      int
	LastTool       string
	LastToolInput  string
}

// SessionActivityLogEntry is one hook-ingest activity row (C3).
type SessionActivityLogEntry struct {
	ID               int64
	SessionID        string
	EventType        string
	ToolName         string
	ToolInputSummary string
	Timestamp        time.Time
}

// DaemonState is the single-row daemon supervision record.
type DaemonState struct {
	PID           int
	StartedAt     time.Time
	LastHeartbeat time.Time
	Modules       []string
	Status        string
}

// DaemonLifecycleLogEntry records startup/shutdown events.
type DaemonLifecycleLogEntry struct {
	ID        int64
	Event     string
	Detail    string
	CreatedAt time.Time
}

// HeartbeatLogEntry records the outcome of one scheduled condition check.
type HeartbeatLogEntry struct {
	ID        int64
	CheckName string
	Triggered bool
	Message   string
	Notified  bool
	CheckedAt time.Time
}

// OnboardingState tracks progress through the intake questionnaire.
type OnboardingState struct {
	CurrentStep int
	TotalSteps  int
	Responses   map[string]string
	Completed   bool
	StartedAt   *time.Time
	CompletedAt *time.Time
}

// PersonalityConfig holds the freeform personality/tone knobs surfaced
// through the profile tool.
type PersonalityConfig struct {
	Config map[string]any
}

// TelegramBotState is the single-row long-poll offset tracker.
type TelegramBotState struct {
	LastUpdateID int64
	ChatID       string
}

// CramTopic is a short-lived exam-cram note, distinct from forge
// concepts.
type CramTopic struct {
	ID        string
	Title     string
	Notes     string
	CreatedAt time.Time
}

// NewsFeedSource is a polled RSS/Atom source.
type NewsFeedSource struct {
	ID        string
	Name      string
	URL       string
	Active    bool
	CreatedAt time.Time
}

// NewsFeedArticle is one fetched article from a source.
type NewsFeedArticle struct {
	ID          string
	SourceID    string
	Title       string
	URL         string
	PublishedAt *time.Time
	FetchedAt   time.Time
}

// SignalforgeArticle is a raw article awaiting clustering.
type SignalforgeArticle struct {
	ID        string
	Title     string
	Content   string
	ClusterID string
	CreatedAt time.Time
}

// SignalforgeCluster groups related articles.
type SignalforgeCluster struct {
	ID        string
	Label     string
	CreatedAt time.Time
}

// SignalforgeSynthesis is the generated summary for a cluster.
type SignalforgeSynthesis struct {
	ID        string
	ClusterID string
	Summary   string
	CreatedAt time.Time
}

// DiscoveredEvent is a calendar event surfaced from scanned content.
type DiscoveredEvent struct {
	ID        string
	Title     string
	StartsAt  *time.Time
	Source    string
	CreatedAt time.Time
}

// FileDeletionLogEntry is one filesystem delete observed by the
// watcher job (C10).
type FileDeletionLogEntry struct {
	ID        int64
	Path      string
	Filename  string
	EventType string
	PID       int
	Timestamp time.Time
}

// GitShadowSnapshot records a stash taken before a risky operation.
type GitShadowSnapshot struct {
	ID           int64
	RepoPath     string
	StashHash    string
	ChangedFiles []string
	CreatedAt    time.Time
}

// ConversationArchiveRun is one run of the conversation archival job.
type ConversationArchiveRun struct {
	ID             int64
	StartedAt      time.Time
	FinishedAt     *time.Time
	ArchivedCount  int
}

// ConversationArchiveSession marks one session transcript as already
// archived, the idempotency guard for the archive job.
type ConversationArchiveSession struct {
	SessionID    string
	ArchivedAt   time.Time
	MarkdownPath string
}

// TrashManifestEntry is one soft-deleted filesystem object.
type TrashManifestEntry struct {
	ID           string
	OriginalPath string
	TrashPath    string
	Category     string
	SizeBytes    int64
	SHA256       string
	IsDir        bool
	Reason       string
	Auto         bool
	CreatedAt    time.Time
	ExpiresAt    time.Time
}
