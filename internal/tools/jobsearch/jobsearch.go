// Package jobsearch wires the job board / application / interview prep
// tool surface onto internal/store/jobs_store.go.
package jobsearch

import (
	"context"
	"fmt"
	"strings"

	"jaybrain/internal/logging"
	"jaybrain/internal/store"
	"jaybrain/internal/tools"
)

var (
	st    *store.Store
	audit *logging.AuditLogger
)

// Init wires the package-level store and audit logger.
func Init(s *store.Store, a *logging.AuditLogger) {
	st = s
	audit = a
}

// JobBoardAddTool returns a tool that registers a board to poll.
func JobBoardAddTool() *tools.Tool {
	return &tools.Tool{
		Name:        "jobsearch_board_add",
		Description: "Register a job board for periodic polling",
		Category:    tools.CategoryJobs,
		Priority:    70,
		Execute:     executeBoardAdd,
		Schema: tools.ToolSchema{
			Required: []string{"name", "url"},
			Properties: map[string]tools.Property{
				"name":       {Type: "string", Description: "Board name"},
				"url":        {Type: "string", Description: "Board URL"},
				"board_type": {Type: "string", Description: "general, greenhouse, lever, etc.", Default: "general"},
				"tags":       {Type: "array", Description: "Tags", Items: &tools.PropertyItems{Type: "string"}},
			},
		},
	}
}

func executeBoardAdd(ctx context.Context, args map[string]any) (string, error) {
	name, _ := args["name"].(string)
	url, _ := args["url"].(string)
	if name == "" || url == "" {
		return "", fmt.Errorf("name and url are required")
	}
	boardType, _ := args["board_type"].(string)
	b, err := st.CreateJobBoard(store.JobBoard{Name: name, URL: url, BoardType: boardType, Tags: stringSlice(args["tags"])})
	if err != nil {
		return "", fmt.Errorf("jobsearch_board_add: %w", err)
	}
	if audit != nil {
		audit.Log(logging.AuditEvent{EventType: logging.AuditJobBoardCheck, Category: "jobs", Target: b.ID, Action: "registered", Success: true})
	}
	return fmt.Sprintf("Registered board %s (%s)", b.Name, b.ID), nil
}

// JobSearchTool returns a tool that keyword-searches scraped postings.
func JobSearchTool() *tools.Tool {
	return &tools.Tool{
		Name:        "jobsearch_search",
		Description: "Search scraped job postings by title or description keyword",
		Category:    tools.CategoryJobs,
		Priority:    75,
		Execute:     executeSearch,
		Schema: tools.ToolSchema{
			Required: []string{"query"},
			Properties: map[string]tools.Property{
				"query": {Type: "string", Description: "Keyword"},
				"limit": {Type: "integer", Description: "Max results, default 20", Default: 20},
			},
		},
	}
}

func executeSearch(ctx context.Context, args map[string]any) (string, error) {
	query, _ := args["query"].(string)
	if query == "" {
		return "", fmt.Errorf("query is required")
	}
	limit := intArg(args["limit"], 20)
	postings, err := st.SearchJobPostings(query, limit)
	if err != nil {
		return "", fmt.Errorf("jobsearch_search: %w", err)
	}
	if len(postings) == 0 {
		return "No postings found", nil
	}
	var b strings.Builder
	for _, p := range postings {
		fmt.Fprintf(&b, "[%s] %s at %s (%s)\n", p.ID, p.Title, p.Company, p.WorkMode)
	}
	return b.String(), nil
}

// ApplicationTrackTool returns a tool that creates or advances an
// application's status.
func ApplicationTrackTool() *tools.Tool {
	return &tools.Tool{
		Name:        "jobsearch_application_track",
		Description: "Create or advance an application's pipeline status",
		Category:    tools.CategoryJobs,
		Priority:    80,
		Execute:     executeApplicationTrack,
		Schema: tools.ToolSchema{
			Required: []string{"job_posting_id", "status"},
			Properties: map[string]tools.Property{
				"application_id":  {Type: "string", Description: "Existing application id; omit to create one"},
				"job_posting_id":  {Type: "string", Description: "The posting being pursued"},
				"status":          {Type: "string", Description: "discovered, preparing, ready, applied, interviewing, offered, accepted, rejected, or withdrawn"},
				"resume_path":     {Type: "string", Description: "Path to the resume used"},
				"cover_letter_path": {Type: "string", Description: "Path to the cover letter used"},
			},
		},
	}
}

func executeApplicationTrack(ctx context.Context, args map[string]any) (string, error) {
	status, _ := args["status"].(string)
	if status == "" {
		return "", fmt.Errorf("status is required")
	}

	if applicationID, ok := args["application_id"].(string); ok && applicationID != "" {
		if err := st.UpdateApplicationStatus(applicationID, status); err != nil {
			return "", fmt.Errorf("jobsearch_application_track: %w", err)
		}
		if audit != nil {
			audit.Log(logging.AuditEvent{EventType: logging.AuditApplicationUpdate, Category: "jobs", Target: applicationID, Action: status, Success: true})
		}
		return fmt.Sprintf("Application %s moved to %s", applicationID, status), nil
	}

	postingID, _ := args["job_posting_id"].(string)
	if postingID == "" {
		return "", fmt.Errorf("job_posting_id is required to create an application")
	}
	resumePath, _ := args["resume_path"].(string)
	coverLetterPath, _ := args["cover_letter_path"].(string)
	a, err := st.CreateApplication(store.Application{
		JobPostingID:    postingID,
		Status:          status,
		ResumePath:      resumePath,
		CoverLetterPath: coverLetterPath,
	})
	if err != nil {
		return "", fmt.Errorf("jobsearch_application_track: %w", err)
	}
	if audit != nil {
		audit.Log(logging.AuditEvent{EventType: logging.AuditApplicationUpdate, Category: "jobs", Target: a.ID, Action: "created", Success: true})
	}
	return fmt.Sprintf("Created application %s at status %s", a.ID, a.Status), nil
}

// InterviewPrepTool returns a tool that attaches a prep note to an
// application.
func InterviewPrepTool() *tools.Tool {
	return &tools.Tool{
		Name:        "jobsearch_interview_prep",
		Description: "Attach an interview prep note to an application and list prior notes",
		Category:    tools.CategoryJobs,
		Priority:    65,
		Execute:     executeInterviewPrep,
		Schema: tools.ToolSchema{
			Required: []string{"application_id", "content"},
			Properties: map[string]tools.Property{
				"application_id": {Type: "string", Description: "The application id"},
				"prep_type":      {Type: "string", Description: "general, technical, behavioral, or company_research", Default: "general"},
				"content":        {Type: "string", Description: "Prep note content"},
				"tags":           {Type: "array", Description: "Tags", Items: &tools.PropertyItems{Type: "string"}},
			},
		},
	}
}

func executeInterviewPrep(ctx context.Context, args map[string]any) (string, error) {
	applicationID, _ := args["application_id"].(string)
	content, _ := args["content"].(string)
	if applicationID == "" || content == "" {
		return "", fmt.Errorf("application_id and content are required")
	}
	prepType, _ := args["prep_type"].(string)

	if _, err := st.CreateInterviewPrep(store.InterviewPrep{
		ApplicationID: applicationID,
		PrepType:      prepType,
		Content:       content,
		Tags:          stringSlice(args["tags"]),
	}); err != nil {
		return "", fmt.Errorf("jobsearch_interview_prep: %w", err)
	}

	notes, err := st.InterviewPrepForApplication(applicationID)
	if err != nil {
		return "", fmt.Errorf("jobsearch_interview_prep: %w", err)
	}
	if audit != nil {
		audit.Log(logging.AuditEvent{EventType: logging.AuditInterviewPrepWrite, Category: "jobs", Target: applicationID, Success: true})
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Added note; %d prep notes on file:\n", len(notes))
	for _, n := range notes {
		fmt.Fprintf(&b, "  [%s] %s\n", n.PrepType, n.Content)
	}
	return b.String(), nil
}

func stringSlice(v any) []string {
	raw, ok := v.([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(raw))
	for _, r := range raw {
		if s, ok := r.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

func intArg(v any, def int) int {
	switch n := v.(type) {
	case int:
		return n
	case float64:
		return int(n)
	default:
		return def
	}
}
