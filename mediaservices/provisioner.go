package mediaservices

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/runtime"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/to"
	"github.com/Azure/azure-sdk-for-go/sdk/resourcemanager/mediaservices/armmediaservices/v3"
)

// ErrInvalidRequest marks a request rejected before any remote call.
var ErrInvalidRequest = errors.New("invalid transform request")

// ErrNotFound is returned by Describe when no Transform has the given name.
var ErrNotFound = errors.New("transform not found")

// RemoteAPIError wraps a management API failure with the upstream error
// code and HTTP status when the SDK exposes them.
type RemoteAPIError struct {
	Op     string
	Code   string
	Status int
	Err    error
}

func (e *RemoteAPIError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("%s: %s (%s)", e.Op, e.Err, e.Code)
	}
	return fmt.Sprintf("%s: %s", e.Op, e.Err)
}

func (e *RemoteAPIError) Unwrap() error { return e.Err }

func newRemoteAPIError(op string, err error) *RemoteAPIError {
	remote := &RemoteAPIError{Op: op, Err: err}
	var respErr *azcore.ResponseError
	if errors.As(err, &respErr) {
		remote.Code = respErr.ErrorCode
		remote.Status = respErr.StatusCode
	}
	return remote
}

// TransformRequest describes the Transform to provision.
type TransformRequest struct {
	Name           string
	EncoderPreset  *EncoderPresetSpec
	AnalyzerPreset *AnalyzerPresetSpec
}

// EncoderPresetSpec selects a built-in encoder preset by catalog name.
type EncoderPresetSpec struct {
	PresetName string
}

// AnalyzerPresetSpec configures an audio/video analysis output.
type AnalyzerPresetSpec struct {
	AudioInsightsOnly bool
	AudioLanguage     string
}

// TransformResult carries the identifier of the provisioned Transform.
// Created records whether this call issued the remote create.
type TransformResult struct {
	TransformID string
	Created     bool
}

// TransformSummary is the read-only view served by the inspection endpoints.
type TransformSummary struct {
	TransformID  string     `json:"transformId"`
	Name         string     `json:"name"`
	Created      *time.Time `json:"created,omitempty"`
	LastModified *time.Time `json:"lastModified,omitempty"`
	Outputs      int        `json:"outputs"`
}

// TransformsAPI is the slice of the Transforms client the provisioner uses.
// Satisfied by *armmediaservices.TransformsClient.
type TransformsAPI interface {
	Get(ctx context.Context, resourceGroupName string, accountName string, transformName string, options *armmediaservices.TransformsClientGetOptions) (armmediaservices.TransformsClientGetResponse, error)
	CreateOrUpdate(ctx context.Context, resourceGroupName string, accountName string, transformName string, parameters armmediaservices.Transform, options *armmediaservices.TransformsClientCreateOrUpdateOptions) (armmediaservices.TransformsClientCreateOrUpdateResponse, error)
	NewListPager(resourceGroupName string, accountName string, options *armmediaservices.TransformsClientListOptions) *runtime.Pager[armmediaservices.TransformsClientListResponse]
}

// Provisioner resolves transform requests against one media account scope.
type Provisioner struct {
	api           TransformsAPI
	resourceGroup string
	accountName   string
}

func NewProvisioner(api TransformsAPI, resourceGroup, accountName string) *Provisioner {
	return &Provisioner{
		api:           api,
		resourceGroup: resourceGroup,
		accountName:   accountName,
	}
}

// ResourceGroup returns the configured resource group.
func (p *Provisioner) ResourceGroup() string { return p.resourceGroup }

// Account returns the configured media account name.
func (p *Provisioner) Account() string { return p.accountName }

// Provision returns the identifier of the Transform named in req, creating
// it when it does not exist. Exactly one remote read and at most one remote
// write per call; an existing Transform is returned as-is, never recreated.
func (p *Provisioner) Provision(ctx context.Context, req TransformRequest) (*TransformResult, error) {
	if err := req.validate(); err != nil {
		return nil, err
	}

	existing, err := p.api.Get(ctx, p.resourceGroup, p.accountName, req.Name, nil)
	if err == nil {
		return &TransformResult{TransformID: resourceID(existing.Transform)}, nil
	}
	if !isNotFound(err) {
		return nil, newRemoteAPIError(fmt.Sprintf("get transform %s", req.Name), err)
	}

	created, err := p.api.CreateOrUpdate(ctx, p.resourceGroup, p.accountName, req.Name, armmediaservices.Transform{
		Properties: &armmediaservices.TransformProperties{
			Outputs: req.outputs(),
		},
	}, nil)
	if err != nil {
		return nil, newRemoteAPIError(fmt.Sprintf("create transform %s", req.Name), err)
	}

	return &TransformResult{TransformID: resourceID(created.Transform), Created: true}, nil
}

// Describe returns a summary of one remote Transform.
func (p *Provisioner) Describe(ctx context.Context, name string) (*TransformSummary, error) {
	if name == "" {
		return nil, fmt.Errorf("%w: transform name is required", ErrInvalidRequest)
	}

	resp, err := p.api.Get(ctx, p.resourceGroup, p.accountName, name, nil)
	if err != nil {
		if isNotFound(err) {
			return nil, ErrNotFound
		}
		return nil, newRemoteAPIError(fmt.Sprintf("get transform %s", name), err)
	}

	summary := summarize(resp.Transform)
	return &summary, nil
}

// List returns summaries of every Transform in the configured scope, in the
// order the remote service reports them.
func (p *Provisioner) List(ctx context.Context) ([]TransformSummary, error) {
	summaries := []TransformSummary{}
	pager := p.api.NewListPager(p.resourceGroup, p.accountName, nil)
	for pager.More() {
		page, err := pager.NextPage(ctx)
		if err != nil {
			return nil, newRemoteAPIError("list transforms", err)
		}
		for _, t := range page.Value {
			if t == nil {
				continue
			}
			summaries = append(summaries, summarize(*t))
		}
	}
	return summaries, nil
}

func (r TransformRequest) validate() error {
	if r.Name == "" {
		return fmt.Errorf("%w: transformName is required", ErrInvalidRequest)
	}
	if r.EncoderPreset == nil && r.AnalyzerPreset == nil {
		return fmt.Errorf("%w: at least one of builtInStandardEncoderPreset or videoAnalyzerPreset is required", ErrInvalidRequest)
	}
	return nil
}

// outputs builds one TransformOutput per present preset block, encoder
// first. Each block is guarded by its own presence.
func (r TransformRequest) outputs() []*armmediaservices.TransformOutput {
	var outputs []*armmediaservices.TransformOutput

	if r.EncoderPreset != nil {
		outputs = append(outputs, &armmediaservices.TransformOutput{
			Preset: &armmediaservices.BuiltInStandardEncoderPreset{
				PresetName: to.Ptr(ResolveEncoderPreset(r.EncoderPreset.PresetName)),
			},
		})
	}

	if r.AnalyzerPreset != nil {
		language := r.AnalyzerPreset.AudioLanguage
		if language == "" {
			language = DefaultAudioLanguage
		}
		outputs = append(outputs, &armmediaservices.TransformOutput{
			Preset: &armmediaservices.VideoAnalyzerPreset{
				AudioLanguage:     to.Ptr(language),
				InsightsToExtract: to.Ptr(insightsFor(r.AnalyzerPreset.AudioInsightsOnly)),
			},
		})
	}

	return outputs
}

func summarize(t armmediaservices.Transform) TransformSummary {
	summary := TransformSummary{TransformID: resourceID(t)}
	if t.Name != nil {
		summary.Name = *t.Name
	}
	if t.Properties != nil {
		summary.Created = t.Properties.Created
		summary.LastModified = t.Properties.LastModified
		summary.Outputs = len(t.Properties.Outputs)
	}
	return summary
}

func resourceID(t armmediaservices.Transform) string {
	if t.ID == nil {
		return ""
	}
	return *t.ID
}

func isNotFound(err error) bool {
	var respErr *azcore.ResponseError
	return errors.As(err, &respErr) && respErr.StatusCode == http.StatusNotFound
}
