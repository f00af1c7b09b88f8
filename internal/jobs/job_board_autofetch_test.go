package jobs

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"jaybrain/internal/store"
)

func TestJobBoardAutofetchDetectsContentChange(t *testing.T) {
	body := "initial listing page"
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(body))
	}))
	defer srv.Close()

	j := newTestJobs(t)
	if _, err := j.st.CreateJobBoard(store.JobBoard{Name: "Acme Careers", URL: srv.URL, Active: true}); err != nil {
		t.Fatalf("CreateJobBoard: %v", err)
	}

	triggered, err := j.JobBoardAutofetch()
	if err != nil {
		t.Fatalf("JobBoardAutofetch (first poll): %v", err)
	}
	if !triggered {
		t.Fatal("expected the first poll against an empty content hash to register as a change")
	}

	triggered, err = j.JobBoardAutofetch()
	if err != nil {
		t.Fatalf("JobBoardAutofetch (second poll): %v", err)
	}
	if triggered {
		t.Fatal("expected a second poll with unchanged content to report no change")
	}

	body = "listing page with a new posting"
	triggered, err = j.JobBoardAutofetch()
	if err != nil {
		t.Fatalf("JobBoardAutofetch (third poll): %v", err)
	}
	if !triggered {
		t.Fatal("expected changed content to register as a change")
	}
}
