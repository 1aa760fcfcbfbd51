package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"media-transform-api/mediaservices"
	"media-transform-api/utils"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/runtime"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/to"
	"github.com/Azure/azure-sdk-for-go/sdk/resourcemanager/mediaservices/armmediaservices/v3"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func tl(t *testing.T) *zap.Logger {
	cfg := zap.NewProductionConfig()
	l, err := cfg.Build()
	if err != nil {
		t.Fatalf("logger: %v", err)
	}
	return l
}

// fakeTransformsAPI plays back canned remote behavior for the HTTP tests.
type fakeTransformsAPI struct {
	existing  map[string]armmediaservices.Transform
	createErr error

	createCalls int
}

func (f *fakeTransformsAPI) Get(ctx context.Context, rg, account, name string, opts *armmediaservices.TransformsClientGetOptions) (armmediaservices.TransformsClientGetResponse, error) {
	if t, ok := f.existing[name]; ok {
		return armmediaservices.TransformsClientGetResponse{Transform: t}, nil
	}
	return armmediaservices.TransformsClientGetResponse{}, &azcore.ResponseError{
		StatusCode: http.StatusNotFound,
		ErrorCode:  "NotFound",
	}
}

func (f *fakeTransformsAPI) CreateOrUpdate(ctx context.Context, rg, account, name string, parameters armmediaservices.Transform, opts *armmediaservices.TransformsClientCreateOrUpdateOptions) (armmediaservices.TransformsClientCreateOrUpdateResponse, error) {
	f.createCalls++
	if f.createErr != nil {
		return armmediaservices.TransformsClientCreateOrUpdateResponse{}, f.createErr
	}
	created := parameters
	created.ID = to.Ptr("/transforms/" + name)
	created.Name = to.Ptr(name)
	return armmediaservices.TransformsClientCreateOrUpdateResponse{Transform: created}, nil
}

func (f *fakeTransformsAPI) NewListPager(rg, account string, opts *armmediaservices.TransformsClientListOptions) *runtime.Pager[armmediaservices.TransformsClientListResponse] {
	values := make([]*armmediaservices.Transform, 0, len(f.existing))
	for name := range f.existing {
		t := f.existing[name]
		values = append(values, &t)
	}
	done := false
	return runtime.NewPager(runtime.PagingHandler[armmediaservices.TransformsClientListResponse]{
		More: func(armmediaservices.TransformsClientListResponse) bool {
			return !done
		},
		Fetcher: func(ctx context.Context, _ *armmediaservices.TransformsClientListResponse) (armmediaservices.TransformsClientListResponse, error) {
			done = true
			return armmediaservices.TransformsClientListResponse{
				TransformCollection: armmediaservices.TransformCollection{Value: values},
			}, nil
		},
	})
}

func newTestRouter(t *testing.T, f *fakeTransformsAPI) *gin.Engine {
	gin.SetMode(gin.TestMode)
	l := tl(t)
	p := mediaservices.NewProvisioner(f, "test-rg", "testaccount")
	r := gin.New()
	r.POST("/transforms", HandleCreateOrGetTransform(l, p))
	r.GET("/transforms", HandleListTransforms(l, p))
	r.GET("/transforms/:transform", HandleGetTransform(l, p))
	return r
}

func postTransform(t *testing.T, r *gin.Engine, payload map[string]interface{}) *httptest.ResponseRecorder {
	b, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/transforms", bytes.NewReader(b))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	return w
}

func errorBody(t *testing.T, w *httptest.ResponseRecorder) string {
	var body map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("response body: %v", err)
	}
	return body["error"]
}

func TestCreateTransformMissingName(t *testing.T) {
	r := newTestRouter(t, &fakeTransformsAPI{})

	w := postTransform(t, r, map[string]interface{}{
		"builtInStandardEncoderPreset": map[string]interface{}{"presetName": "AdaptiveStreaming"},
	})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status: got %d, want 400", w.Code)
	}
	if !strings.Contains(errorBody(t, w), "transformName") {
		t.Fatalf("error should mention transformName: %s", w.Body.String())
	}
}

func TestCreateTransformMissingPresets(t *testing.T) {
	r := newTestRouter(t, &fakeTransformsAPI{})

	w := postTransform(t, r, map[string]interface{}{"transformName": "encode-default"})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status: got %d, want 400", w.Code)
	}
	if !strings.Contains(errorBody(t, w), "Preset") {
		t.Fatalf("error should mention the preset blocks: %s", w.Body.String())
	}
}

func TestCreateTransformReturnsExisting(t *testing.T) {
	f := &fakeTransformsAPI{existing: map[string]armmediaservices.Transform{
		"encode-default": {
			ID:   to.Ptr("/transforms/encode-default"),
			Name: to.Ptr("encode-default"),
		},
	}}
	r := newTestRouter(t, f)
	reusedBefore := utils.TransformsReusedTotal.Value()

	w := postTransform(t, r, map[string]interface{}{
		"transformName":                "encode-default",
		"builtInStandardEncoderPreset": map[string]interface{}{"presetName": "AdaptiveStreaming"},
	})
	if w.Code != http.StatusOK {
		t.Fatalf("status: got %d, want 200", w.Code)
	}
	var resp CreateTransformResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("response body: %v", err)
	}
	if resp.TransformID != "/transforms/encode-default" {
		t.Fatalf("unexpected id: %s", resp.TransformID)
	}
	if f.createCalls != 0 {
		t.Fatalf("create should not be called, got %d", f.createCalls)
	}
	if got := utils.TransformsReusedTotal.Value(); got != reusedBefore+1 {
		t.Fatalf("reused counter: got %d, want %d", got, reusedBefore+1)
	}
}

func TestCreateTransformCreatesWhenAbsent(t *testing.T) {
	f := &fakeTransformsAPI{}
	r := newTestRouter(t, f)
	createdBefore := utils.TransformsCreatedTotal.Value()

	w := postTransform(t, r, map[string]interface{}{
		"transformName":                "encode-720p",
		"builtInStandardEncoderPreset": map[string]interface{}{"presetName": "H264MultipleBitrate720p"},
	})
	if w.Code != http.StatusOK {
		t.Fatalf("status: got %d, want 200", w.Code)
	}
	var resp CreateTransformResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("response body: %v", err)
	}
	if resp.TransformID != "/transforms/encode-720p" {
		t.Fatalf("unexpected id: %s", resp.TransformID)
	}
	if f.createCalls != 1 {
		t.Fatalf("create calls: got %d, want 1", f.createCalls)
	}
	if got := utils.TransformsCreatedTotal.Value(); got != createdBefore+1 {
		t.Fatalf("created counter: got %d, want %d", got, createdBefore+1)
	}
}

func TestCreateTransformRemoteFailure(t *testing.T) {
	f := &fakeTransformsAPI{createErr: &azcore.ResponseError{
		StatusCode: http.StatusConflict,
		ErrorCode:  "TransformQuotaExceeded",
	}}
	r := newTestRouter(t, f)
	failuresBefore := utils.TransformFailuresTotal.Value()

	w := postTransform(t, r, map[string]interface{}{
		"transformName":                "encode-default",
		"builtInStandardEncoderPreset": map[string]interface{}{"presetName": "AdaptiveStreaming"},
	})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status: got %d, want 400", w.Code)
	}
	msg := errorBody(t, w)
	if !strings.HasPrefix(msg, "AMS API call error: ") {
		t.Fatalf("error should carry the AMS prefix: %s", msg)
	}
	if !strings.Contains(msg, "TransformQuotaExceeded") {
		t.Fatalf("error should carry the upstream code: %s", msg)
	}
	if strings.Contains(w.Body.String(), "transformId") {
		t.Fatalf("no identifier expected on failure: %s", w.Body.String())
	}
	if got := utils.TransformFailuresTotal.Value(); got != failuresBefore+1 {
		t.Fatalf("failures counter: got %d, want %d", got, failuresBefore+1)
	}
}

func TestCreateTransformMalformedBody(t *testing.T) {
	r := newTestRouter(t, &fakeTransformsAPI{})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/transforms", strings.NewReader("{not json"))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status: got %d, want 400", w.Code)
	}
}

func TestGetTransform(t *testing.T) {
	f := &fakeTransformsAPI{existing: map[string]armmediaservices.Transform{
		"analyze-audio": {
			ID:   to.Ptr("/transforms/analyze-audio"),
			Name: to.Ptr("analyze-audio"),
			Properties: &armmediaservices.TransformProperties{
				Outputs: []*armmediaservices.TransformOutput{{
					Preset: &armmediaservices.VideoAnalyzerPreset{},
				}},
			},
		},
	}}
	r := newTestRouter(t, f)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/transforms/analyze-audio", nil)
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("status: got %d, want 200", w.Code)
	}
	var summary mediaservices.TransformSummary
	if err := json.Unmarshal(w.Body.Bytes(), &summary); err != nil {
		t.Fatalf("response body: %v", err)
	}
	if summary.Name != "analyze-audio" || summary.Outputs != 1 {
		t.Fatalf("unexpected summary: %+v", summary)
	}
}

func TestGetTransformNotFound(t *testing.T) {
	r := newTestRouter(t, &fakeTransformsAPI{})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/transforms/missing", nil)
	r.ServeHTTP(w, req)
	if w.Code != http.StatusNotFound {
		t.Fatalf("status: got %d, want 404", w.Code)
	}
	if !strings.Contains(errorBody(t, w), "not found") {
		t.Fatalf("unexpected body: %s", w.Body.String())
	}
}

func TestListTransforms(t *testing.T) {
	f := &fakeTransformsAPI{existing: map[string]armmediaservices.Transform{
		"encode-default": {
			ID:   to.Ptr("/transforms/encode-default"),
			Name: to.Ptr("encode-default"),
		},
	}}
	r := newTestRouter(t, f)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/transforms", nil)
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("status: got %d, want 200", w.Code)
	}
	var summaries []mediaservices.TransformSummary
	if err := json.Unmarshal(w.Body.Bytes(), &summaries); err != nil {
		t.Fatalf("response body: %v", err)
	}
	if len(summaries) != 1 || summaries[0].Name != "encode-default" {
		t.Fatalf("unexpected summaries: %+v", summaries)
	}
}
