// Package modereport drives a reporting-warehouse report run to
// completion: submit, poll until a terminal state, then download the
// query result CSV.
package modereport

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"
)

// Terminal poll outcomes. Callers branch on these to decide whether a
// retry makes sense.
var (
	ErrRunFailed    = errors.New("report run failed")
	ErrRunCancelled = errors.New("report run cancelled")
	ErrPollTimeout  = errors.New("report run polling timed out")
)

type Client struct {
	baseURL  string
	account  string
	token    string
	secret   string
	reportID string
	queryID  string

	http         *http.Client
	pollInterval time.Duration
	pollTimeout  time.Duration
}

func NewClient(baseURL, account, token, secret, reportID, queryID string, httpClient *http.Client, pollInterval, pollTimeout time.Duration) *Client {
	return &Client{
		baseURL:      baseURL,
		account:      account,
		token:        token,
		secret:       secret,
		reportID:     reportID,
		queryID:      queryID,
		http:         httpClient,
		pollInterval: pollInterval,
		pollTimeout:  pollTimeout,
	}
}

type runResponse struct {
	Token string `json:"token"`
	State string `json:"state"`
}

// SubmitRun triggers a fresh report run and returns its run token.
func (c *Client) SubmitRun(ctx context.Context) (string, error) {
	url := fmt.Sprintf("%s/api/%s/reports/%s/runs", c.baseURL, c.account, c.reportID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, nil)
	if err != nil {
		return "", fmt.Errorf("creating run request: %w", err)
	}
	req.SetBasicAuth(c.token, c.secret)

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("submitting report run: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", fmt.Errorf("submitting report run: status %d: %s", resp.StatusCode, body)
	}

	var run runResponse
	if err := json.NewDecoder(resp.Body).Decode(&run); err != nil {
		return "", fmt.Errorf("parsing run response: %w", err)
	}
	if run.Token == "" {
		return "", fmt.Errorf("run response missing token")
	}
	log.Printf("mode run submitted report=%s token=%s", c.reportID, run.Token)
	return run.Token, nil
}

// PollRun waits for the run to reach a terminal state. It polls at the
// configured fixed interval and gives up after the configured timeout;
// transient fetch errors are logged and retried until then.
func (c *Client) PollRun(ctx context.Context, runToken string) error {
	deadline := time.Now().Add(c.pollTimeout)
	ticker := time.NewTicker(c.pollInterval)
	defer ticker.Stop()

	for {
		state, err := c.runState(ctx, runToken)
		if err != nil {
			log.Printf("mode poll error token=%s err=%v", runToken, err)
		} else {
			switch state {
			case "succeeded":
				return nil
			case "failed":
				return fmt.Errorf("run %s: %w", runToken, ErrRunFailed)
			case "cancelled":
				return fmt.Errorf("run %s: %w", runToken, ErrRunCancelled)
			default:
				log.Printf("mode poll token=%s state=%s", runToken, state)
			}
		}

		if time.Now().After(deadline) {
			return fmt.Errorf("run %s after %s: %w", runToken, c.pollTimeout, ErrPollTimeout)
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

func (c *Client) runState(ctx context.Context, runToken string) (string, error) {
	url := fmt.Sprintf("%s/api/%s/reports/%s/runs/%s", c.baseURL, c.account, c.reportID, runToken)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", err
	}
	req.SetBasicAuth(c.token, c.secret)

	resp, err := c.http.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("run state: status %d", resp.StatusCode)
	}
	var run runResponse
	if err := json.NewDecoder(resp.Body).Decode(&run); err != nil {
		return "", fmt.Errorf("parsing run state: %w", err)
	}
	return run.State, nil
}

// FetchResultCSV downloads the completed run's query result as raw CSV.
func (c *Client) FetchResultCSV(ctx context.Context, runToken string) ([]byte, error) {
	url := fmt.Sprintf("%s/api/%s/reports/%s/runs/%s/queries/%s/results/content.csv",
		c.baseURL, c.account, c.reportID, runToken, c.queryID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("creating result request: %w", err)
	}
	req.SetBasicAuth(c.token, c.secret)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching run result: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetching run result: status %d", resp.StatusCode)
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading run result: %w", err)
	}
	log.Printf("mode result fetched token=%s bytes=%d", runToken, len(data))
	return data, nil
}
