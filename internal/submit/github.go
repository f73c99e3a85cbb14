package submit

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	json "github.com/goccy/go-json"

	"astroview/internal/structures"
)

const githubAPIBaseURL = "https://api.github.com"

// IssueResult is the upstream handle of a created issue.
type IssueResult struct {
	URL    string
	Number int
}

type IssueClientInterface interface {
	// Enabled reports whether the automated dispatch path is available at
	// all; without a token the pipeline goes straight to the manual
	// fallback.
	Enabled() bool
	CreateIssue(ctx context.Context, title, body string, labels []string) (*IssueResult, error)
}

type GithubClient struct {
	baseURL string
	owner   string
	repo    string
	token   string
	client  *http.Client
}

func NewIssueClient(conf *structures.Config) IssueClientInterface {
	baseURL := conf.Github.BaseURL
	if baseURL == "" {
		baseURL = githubAPIBaseURL
	}
	return &GithubClient{
		baseURL: baseURL,
		owner:   conf.Github.Owner,
		repo:    conf.Github.Repo,
		token:   conf.Github.Token,
		client:  &http.Client{Timeout: 30 * time.Second},
	}
}

func (g *GithubClient) Enabled() bool {
	return g.token != ""
}

type issueRequest struct {
	Title  string   `json:"title"`
	Body   string   `json:"body"`
	Labels []string `json:"labels"`
}

type issueResponse struct {
	HTMLURL string `json:"html_url"`
	Number  int    `json:"number"`
	Message string `json:"message"`
}

func (g *GithubClient) CreateIssue(ctx context.Context, title, body string, labels []string) (*IssueResult, error) {
	payload, err := json.Marshal(issueRequest{Title: title, Body: body, Labels: labels})
	if err != nil {
		return nil, err
	}

	url := fmt.Sprintf("%s/repos/%s/%s/issues", g.baseURL, g.owner, g.repo)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "token "+g.token)
	req.Header.Set("Accept", "application/vnd.github.v3+json")
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", "astroview-submitter")

	resp, err := g.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var result issueResponse
	decodeErr := json.NewDecoder(io.LimitReader(resp.Body, 1<<20)).Decode(&result)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg := result.Message
		if msg == "" {
			msg = fmt.Sprintf("issue creation failed with status %d", resp.StatusCode)
		}
		return nil, fmt.Errorf("github: %s", msg)
	}
	if decodeErr != nil {
		return nil, fmt.Errorf("cannot decode issue response: %w", decodeErr)
	}

	return &IssueResult{URL: result.HTMLURL, Number: result.Number}, nil
}
