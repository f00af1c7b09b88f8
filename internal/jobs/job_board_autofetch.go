package jobs

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"net/url"

	"jaybrain/internal/store"

	"github.com/sony/gobreaker"
)

// JobBoardAutofetch polls every active job board URL, and when its
// content hash has changed since the last check, records that the
// board moved (a human or a future scrape pass turns the new content
// into job_postings rows; this job only detects "something changed").
func (j *Jobs) JobBoardAutofetch() (bool, error) {
	boards, err := j.st.ListActiveJobBoards()
	if err != nil {
		return false, fmt.Errorf("job_board_autofetch: %w", err)
	}

	changed := 0
	var firstErr error
	for _, b := range boards {
		didChange, err := j.pollOneBoard(b)
		if err != nil {
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		if didChange {
			changed++
		}
	}
	return changed > 0, firstErr
}

func (j *Jobs) pollOneBoard(b store.JobBoard) (bool, error) {
	host := b.URL
	if u, err := url.Parse(b.URL); err == nil && u.Host != "" {
		host = u.Host
	}

	result, err := j.breakerFor(host).Execute(func() (interface{}, error) {
		return j.hashURL(b.URL)
	})
	if err != nil {
		if err == gobreaker.ErrOpenState {
			return false, nil
		}
		return false, fmt.Errorf("board %s: %w", b.Name, err)
	}

	hash := result.(string)
	if hash == b.ContentHash {
		_ = j.st.MarkJobBoardChecked(b.ID, hash)
		return false, nil
	}
	if err := j.st.MarkJobBoardChecked(b.ID, hash); err != nil {
		return false, err
	}
	return true, nil
}

func (j *Jobs) hashURL(rawURL string) (string, error) {
	resp, err := j.client.Get(rawURL)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	h := sha256.New()
	if _, err := io.Copy(h, resp.Body); err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}
