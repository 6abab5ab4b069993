package distributor

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"tonearm/internal/ern"
	"tonearm/internal/ledger"
	"tonearm/internal/logging"
	"tonearm/internal/metadata"
	"tonearm/internal/packaging"
	"tonearm/internal/services"
	"tonearm/internal/transport"
)

// Period bounds an earnings query.
type Period struct {
	Start string
	End   string
}

// Earnings is a partner's reported revenue for one release and period.
type Earnings struct {
	DistributorID string
	ReleaseID     string
	Period        Period
	Streams       int64
	Downloads     int64
	GrossRevenue  float64
	Fee           float64
	NetRevenue    float64
	Currency      string
	LastUpdated   time.Time
}

// EarningsSource resolves earnings data ingested from sales reports.
type EarningsSource interface {
	Earnings(distributorID, releaseID string, period Period) (*Earnings, bool)
}

// ReleaseResult reports the outcome of a release operation.
type ReleaseResult struct {
	Success              bool
	Status               ledger.Status
	ReleaseID            string
	DistributorReleaseID string
	PackageDir           string
	Errors               []Issue
}

// Adapter is the contract every distribution partner integration satisfies.
type Adapter interface {
	ID() string
	Name() string
	PartyID() string
	Requirements() Requirements

	Connect(ctx context.Context, creds Credentials) error
	Disconnect() error
	IsConnected() bool

	CreateRelease(ctx context.Context, release *metadata.Release, assets *metadata.Assets) (*ReleaseResult, error)
	UpdateRelease(ctx context.Context, releaseID string, updated *metadata.Release) (*ReleaseResult, error)
	GetReleaseStatus(ctx context.Context, releaseID string) (ledger.Status, error)
	TakedownRelease(ctx context.Context, releaseID string) (*ReleaseResult, error)
	GetEarnings(ctx context.Context, releaseID string, period Period) (*Earnings, error)

	ValidateMetadata(release *metadata.Release) []Issue
	ValidateAssets(assets *metadata.Assets) []Issue
}

// Profile declares everything partner-specific about an adapter.
type Profile struct {
	ID               string
	Name             string
	PartyID          string
	ExternalIDPrefix string
	CredentialRule   string
	Requirements     Requirements
	Layout           packaging.Layout
}

// Deps are the pipeline collaborators an adapter submits releases through.
type Deps struct {
	Documents *ern.Service
	Packages  *packaging.Builder
	Ledger    *ledger.Store
	Transport transport.Transport
	Earnings  EarningsSource
	Logger    *slog.Logger
}

// Partner is the profile-driven adapter implementation shared by every
// integration.
type Partner struct {
	profile   Profile
	deps      Deps
	logger    *slog.Logger
	connected bool
	creds     Credentials
}

// NewPartner builds an adapter from a profile and pipeline collaborators.
func NewPartner(profile Profile, deps Deps) *Partner {
	logger := deps.Logger
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Partner{
		profile: profile,
		deps:    deps,
		logger:  logger.With(logging.String("distributor", profile.ID)),
	}
}

func (p *Partner) ID() string                 { return p.profile.ID }
func (p *Partner) Name() string               { return p.profile.Name }
func (p *Partner) PartyID() string            { return p.profile.PartyID }
func (p *Partner) Requirements() Requirements { return p.profile.Requirements }

// Connect validates credentials against the partner's rule and opens the
// session.
func (p *Partner) Connect(ctx context.Context, creds Credentials) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := checkCredentials(p.profile.CredentialRule, p.profile.Name, creds); err != nil {
		return services.Wrap(services.ErrConfiguration, p.profile.ID, "connect", err.Error(), nil)
	}
	p.creds = creds
	p.connected = true
	p.logger.Info("connected to distributor")
	return nil
}

// Disconnect drops the session and forgets in-memory credentials.
func (p *Partner) Disconnect() error {
	p.creds = Credentials{}
	p.connected = false
	return nil
}

// IsConnected reports session state.
func (p *Partner) IsConnected() bool {
	return p.connected
}

func (p *Partner) ensureConnected() error {
	if !p.connected {
		return services.Wrap(services.ErrNotConnected, p.profile.ID, "session",
			fmt.Sprintf("not connected to %s", p.profile.Name), nil)
	}
	return nil
}

// ValidateMetadata checks a release against this partner's requirements.
func (p *Partner) ValidateMetadata(release *metadata.Release) []Issue {
	return ValidateMetadata(release, p.profile.Requirements, p.profile.Name)
}

// ValidateAssets checks supplied media against this partner's requirements.
func (p *Partner) ValidateAssets(assets *metadata.Assets) []Issue {
	return ValidateAssets(assets, p.profile.Requirements)
}

// CreateRelease runs the submission pipeline: validate, build the release
// document, assemble the partner package, upload it, and record the
// deployment. Validation failures reject without touching the pipeline.
func (p *Partner) CreateRelease(ctx context.Context, release *metadata.Release, assets *metadata.Assets) (*ReleaseResult, error) {
	if err := p.ensureConnected(); err != nil {
		return nil, err
	}

	releaseID := packaging.FolderName(release)
	ctx = services.WithReleaseID(services.WithDistributor(ctx, p.profile.ID), releaseID)

	issues := append(p.ValidateMetadata(release), p.ValidateAssets(assets)...)
	if !Clean(issues) {
		p.recordDeployment(ctx, release, releaseID, ledger.StatusRejected, "", Messages(issues))
		return &ReleaseResult{
			Success:   false,
			Status:    ledger.StatusRejected,
			ReleaseID: releaseID,
			Errors:    issues,
		}, nil
	}

	document := p.deps.Documents.BuildMessage(release, assets, ern.Party{
		PartyID:   p.profile.PartyID,
		PartyName: p.profile.Name,
	})
	documentXML, err := p.deps.Documents.Serialize(document)
	if err != nil {
		return p.failRelease(ctx, release, releaseID, err)
	}

	built, err := p.deps.Packages.Build(ctx, release, assets, p.profile.Layout)
	if err != nil {
		return p.failRelease(ctx, release, releaseID, err)
	}
	if err := os.WriteFile(filepath.Join(built.Dir, "ern.xml"), documentXML, 0o644); err != nil {
		return p.failRelease(ctx, release, releaseID, services.Wrap(services.ErrTransport, p.profile.ID, "package", "failed to write release document", err))
	}

	if p.deps.Transport != nil {
		if err := p.uploadPackage(ctx, built.Dir, releaseID); err != nil {
			return p.failRelease(ctx, release, releaseID, err)
		}
	}

	externalID := fmt.Sprintf("%s-%s", p.profile.ExternalIDPrefix, uuid.NewString()[:8])
	p.recordDeployment(ctx, release, releaseID, ledger.StatusDelivered, externalID, nil)

	p.logger.With(services.ContextArgs(ctx)...).Info("release delivered",
		logging.String("external_id", externalID),
		logging.Bool("degraded", built.Degraded()))

	return &ReleaseResult{
		Success:              true,
		Status:               ledger.StatusDelivered,
		ReleaseID:            releaseID,
		DistributorReleaseID: externalID,
		PackageDir:           built.Dir,
	}, nil
}

// uploadPackage runs one transport session, disconnecting on every path.
func (p *Partner) uploadPackage(ctx context.Context, dir, remoteName string) error {
	if err := p.deps.Transport.Connect(ctx); err != nil {
		return err
	}
	defer func() {
		_ = p.deps.Transport.Disconnect()
	}()
	return p.deps.Transport.UploadDirectory(ctx, dir, remoteName)
}

func (p *Partner) failRelease(ctx context.Context, release *metadata.Release, releaseID string, err error) (*ReleaseResult, error) {
	status := services.FailureStatus(err)
	p.recordDeployment(ctx, release, releaseID, status, "", []string{err.Error()})
	p.logger.With(services.ContextArgs(ctx)...).Error("release submission failed",
		logging.Error(err))
	return &ReleaseResult{
		Success:   false,
		Status:    status,
		ReleaseID: releaseID,
		Errors:    []Issue{{Code: "SUBMISSION_FAILED", Message: err.Error(), Severity: SeverityError}},
	}, err
}

// recordDeployment upserts the ledger row for this release and partner.
func (p *Partner) recordDeployment(ctx context.Context, release *metadata.Release, releaseID string, status ledger.Status, externalID string, errs []string) {
	if p.deps.Ledger == nil {
		return
	}
	existing, err := p.deps.Ledger.Get(ctx, releaseID, p.profile.ID)
	if err != nil {
		p.logger.Error("ledger lookup failed", logging.Error(err))
		return
	}
	if existing == nil {
		_, err = p.deps.Ledger.Create(ctx, &ledger.Deployment{
			ReleaseID:     releaseID,
			UserID:        release.UserID,
			OrgID:         release.OrgID,
			DistributorID: p.profile.ID,
			Status:        status,
			ExternalID:    externalID,
			Errors:        errs,
		})
	} else {
		existing.Status = status
		if externalID != "" {
			existing.ExternalID = externalID
		}
		existing.Errors = append(existing.Errors, errs...)
		err = p.deps.Ledger.Update(ctx, existing)
	}
	if err != nil {
		p.logger.Error("ledger write failed", logging.Error(err))
	}
}

// UpdateRelease resubmits amended metadata for an already-submitted release
// and moves its deployment back to processing.
func (p *Partner) UpdateRelease(ctx context.Context, releaseID string, updated *metadata.Release) (*ReleaseResult, error) {
	if err := p.ensureConnected(); err != nil {
		return nil, err
	}
	deployment, err := p.requireDeployment(ctx, releaseID)
	if err != nil {
		return nil, err
	}

	issues := p.ValidateMetadata(updated)
	if !Clean(issues) {
		return &ReleaseResult{
			Success:   false,
			Status:    deployment.Status,
			ReleaseID: releaseID,
			Errors:    issues,
		}, nil
	}

	deployment.Status = ledger.StatusProcessing
	if err := p.deps.Ledger.Update(ctx, deployment); err != nil {
		return nil, err
	}
	return &ReleaseResult{
		Success:              true,
		Status:               ledger.StatusProcessing,
		ReleaseID:            releaseID,
		DistributorReleaseID: deployment.ExternalID,
	}, nil
}

// GetReleaseStatus polls the partner-visible status. Delivered deployments
// whose review window has elapsed report live; the poll is recorded on the
// ledger row.
func (p *Partner) GetReleaseStatus(ctx context.Context, releaseID string) (ledger.Status, error) {
	if err := p.ensureConnected(); err != nil {
		return "", err
	}
	deployment, err := p.requireDeployment(ctx, releaseID)
	if err != nil {
		return "", err
	}

	status := deployment.Status
	if status == ledger.StatusDelivered {
		review := time.Duration(p.profile.Requirements.Timing.ReviewTimeDays) * 24 * time.Hour
		if time.Since(deployment.SubmittedAt) >= review {
			status = ledger.StatusLive
		}
	}
	if err := p.deps.Ledger.MarkChecked(ctx, deployment.ID, status); err != nil {
		return "", err
	}
	return status, nil
}

// TakedownRelease requests removal of a delivered release.
func (p *Partner) TakedownRelease(ctx context.Context, releaseID string) (*ReleaseResult, error) {
	if err := p.ensureConnected(); err != nil {
		return nil, err
	}
	deployment, err := p.requireDeployment(ctx, releaseID)
	if err != nil {
		return nil, err
	}

	deployment.Status = ledger.StatusTakedownRequested
	if err := p.deps.Ledger.Update(ctx, deployment); err != nil {
		return nil, err
	}
	p.logger.Info("takedown requested", logging.String("release_id", releaseID))
	return &ReleaseResult{
		Success:              true,
		Status:               ledger.StatusTakedownRequested,
		ReleaseID:            releaseID,
		DistributorReleaseID: deployment.ExternalID,
	}, nil
}

// GetEarnings returns ingested earnings for the release, or a zeroed report
// when no sales data has arrived for the period.
func (p *Partner) GetEarnings(ctx context.Context, releaseID string, period Period) (*Earnings, error) {
	if err := p.ensureConnected(); err != nil {
		return nil, err
	}
	if p.deps.Earnings != nil {
		if earnings, ok := p.deps.Earnings.Earnings(p.profile.ID, releaseID, period); ok {
			return earnings, nil
		}
	}
	return &Earnings{
		DistributorID: p.profile.ID,
		ReleaseID:     releaseID,
		Period:        period,
		Currency:      "USD",
		LastUpdated:   time.Now().UTC(),
	}, nil
}

func (p *Partner) requireDeployment(ctx context.Context, releaseID string) (*ledger.Deployment, error) {
	deployment, err := p.deps.Ledger.Get(ctx, releaseID, p.profile.ID)
	if err != nil {
		return nil, err
	}
	if deployment == nil {
		return nil, services.Wrap(services.ErrNotFound, p.profile.ID, "lookup",
			fmt.Sprintf("release %s was never submitted to %s", releaseID, p.profile.Name), nil)
	}
	return deployment, nil
}
