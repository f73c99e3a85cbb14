package submit

import (
	"context"
	"math"

	"github.com/gookit/validate"

	"astroview/internal/models"
	"astroview/internal/providers"
	"astroview/internal/structures"
)

type Kind string

const (
	KindCreate Kind = "create"
	KindUpdate Kind = "update"
)

// ValidationError is a user-input failure: it aborts the submission before
// any network call and names the violated rule.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// Result is what a submission produced: an upstream issue, or a manual
// fallback link when the automated path was unavailable or failed.
type Result struct {
	IssueURL    string `json:"issueUrl,omitempty"`
	IssueNumber int    `json:"issueNumber,omitempty"`
	Fallback    bool   `json:"fallback"`
	FallbackURL string `json:"fallbackUrl,omitempty"`
	Message     string `json:"message,omitempty"`
}

type PipelineInterface interface {
	SubmitNew(ctx context.Context, draft models.SiteRecord) (*Result, error)
	SubmitUpdate(ctx context.Context, original, updated models.SiteRecord, changes []models.FieldChange) (*Result, error)
}

type Pipeline struct {
	conf    *structures.Config
	logger  providers.Logger
	metrics providers.MetricsProviderInterface
	issues  IssueClientInterface
}

func NewPipeline(conf *structures.Config, logger providers.Logger, metrics providers.MetricsProviderInterface, issues IssueClientInterface) PipelineInterface {
	return &Pipeline{
		conf:    conf,
		logger:  logger,
		metrics: metrics,
		issues:  issues,
	}
}

// submissionDraft carries the rules a record must pass before dispatch.
// Create and update validate the same shape.
type submissionDraft struct {
	Name      string  `validate:"required" json:"name"`
	Latitude  float64 `validate:"min:-90|max:90" json:"latitude"`
	Longitude float64 `validate:"min:-180|max:180" json:"longitude"`
}

func validateRecord(rec models.SiteRecord) error {
	if math.IsNaN(rec.Latitude) || math.IsInf(rec.Latitude, 0) ||
		math.IsNaN(rec.Longitude) || math.IsInf(rec.Longitude, 0) {
		return &ValidationError{Message: "coordinates must be valid numbers"}
	}

	v := validate.Struct(&submissionDraft{
		Name:      rec.Name,
		Latitude:  rec.Latitude,
		Longitude: rec.Longitude,
	})
	if !v.Validate() {
		return &ValidationError{Message: v.Errors.One()}
	}
	return nil
}

// SubmitNew validates and normalizes a new-site draft and dispatches it as
// a create submission.
func (p *Pipeline) SubmitNew(ctx context.Context, draft models.SiteRecord) (*Result, error) {
	draft.Normalize()
	if err := validateRecord(draft); err != nil {
		p.metrics.IncSubmissionsTotal(string(KindCreate), "rejected")
		return nil, err
	}
	draft.RoundCoordinates()

	title, body := RenderCreateIssue(draft)
	return p.dispatch(ctx, KindCreate, title, body, LabelsCreate)
}

// SubmitUpdate dispatches an update-with-diff for an existing record.
func (p *Pipeline) SubmitUpdate(ctx context.Context, original, updated models.SiteRecord, changes []models.FieldChange) (*Result, error) {
	original.Normalize()
	updated.Normalize()
	if err := validateRecord(updated); err != nil {
		p.metrics.IncSubmissionsTotal(string(KindUpdate), "rejected")
		return nil, err
	}
	updated.RoundCoordinates()

	title, body := RenderUpdateIssue(original, updated, changes)
	return p.dispatch(ctx, KindUpdate, title, body, LabelsUpdate)
}

// dispatch sends the rendered issue upstream, or hands back the manual
// fallback link. The fallback carries the identical title and body, so a
// failed or unavailable automated path never loses the user's action.
func (p *Pipeline) dispatch(ctx context.Context, kind Kind, title, body string, labels []string) (*Result, error) {
	fallbackURL := BuildIssueLink(p.conf.Github.Owner, p.conf.Github.Repo, title, body, labels)

	if !p.issues.Enabled() {
		p.metrics.IncSubmissionsTotal(string(kind), "fallback")
		p.logger.Warnf(providers.TypePost, "No issue token configured, returning manual fallback link")
		return &Result{
			Fallback:    true,
			FallbackURL: fallbackURL,
			Message:     "automated submission unavailable, open the pre-filled issue link to finish manually",
		}, nil
	}

	issue, err := p.issues.CreateIssue(ctx, title, body, labels)
	if err != nil {
		p.metrics.IncSubmissionsTotal(string(kind), "error")
		p.logger.Errorf(providers.TypePost, "Issue dispatch failed (%s): %s", kind, err)
		return &Result{
			Fallback:    true,
			FallbackURL: fallbackURL,
			Message:     err.Error(),
		}, err
	}

	p.metrics.IncSubmissionsTotal(string(kind), "created")
	p.logger.Infof(providers.TypePost, "Created issue #%d (%s)", issue.Number, kind)
	return &Result{
		IssueURL:    issue.URL,
		IssueNumber: issue.Number,
		Message:     "submitted for review",
	}, nil
}
