package media

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"github.com/feastlyhq/feastly-backend/pkg/config"
	pkgerrors "github.com/feastlyhq/feastly-backend/pkg/errors"
)

const defaultUploadBase = "https://api.cloudinary.com/v1_1"

type httpDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Service uploads images to the media host via its unsigned upload endpoint.
type Service interface {
	Upload(ctx context.Context, input UploadInput) (*UploadResult, error)
}

type service struct {
	client       httpDoer
	baseURL      string
	cloudName    string
	uploadPreset string
	maxBytes     int64
}

// ServiceParams groups the dependencies for NewService. BaseURL is override
// for tests; empty means the public media API.
type ServiceParams struct {
	Client  httpDoer
	Media   config.MediaConfig
	BaseURL string
}

// NewService builds a media upload service.
func NewService(params ServiceParams) (Service, error) {
	if params.Media.CloudName == "" {
		return nil, fmt.Errorf("media cloud name required")
	}
	if params.Media.UploadPreset == "" {
		return nil, fmt.Errorf("media upload preset required")
	}
	maxMB := params.Media.MaxUploadMB
	if maxMB <= 0 {
		maxMB = 10
	}
	client := params.Client
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	baseURL := strings.TrimSuffix(params.BaseURL, "/")
	if baseURL == "" {
		baseURL = defaultUploadBase
	}
	return &service{
		client:       client,
		baseURL:      baseURL,
		cloudName:    params.Media.CloudName,
		uploadPreset: params.Media.UploadPreset,
		maxBytes:     int64(maxMB) * 1024 * 1024,
	}, nil
}

// UploadInput is one file read out of a multipart request.
type UploadInput struct {
	FileName string
	MimeType string
	Data     []byte
}

// UploadResult is the hosted image descriptor returned to clients.
type UploadResult struct {
	URL      string `json:"url"`
	PublicID string `json:"public_id"`
	Width    int    `json:"width"`
	Height   int    `json:"height"`
	Format   string `json:"format"`
	Bytes    int64  `json:"bytes"`
}

type uploadResponse struct {
	SecureURL string `json:"secure_url"`
	URL       string `json:"url"`
	PublicID  string `json:"public_id"`
	Width     int    `json:"width"`
	Height    int    `json:"height"`
	Format    string `json:"format"`
	Bytes     int64  `json:"bytes"`
}

// Upload validates the file locally and forwards it to the media host. Type
// and size violations are rejected before any network call.
func (s *service) Upload(ctx context.Context, input UploadInput) (*UploadResult, error) {
	mimeType := strings.ToLower(strings.TrimSpace(input.MimeType))
	if !strings.HasPrefix(mimeType, "image/") {
		return nil, pkgerrors.New(pkgerrors.CodeUploadRejected, "only image uploads are allowed")
	}
	if len(input.Data) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeUploadRejected, "uploaded file is empty")
	}
	if int64(len(input.Data)) > s.maxBytes {
		return nil, pkgerrors.New(pkgerrors.CodeUploadRejected,
			fmt.Sprintf("file exceeds the %d MB upload limit", s.maxBytes/(1024*1024)))
	}

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	fileName := strings.TrimSpace(input.FileName)
	if fileName == "" {
		fileName = "upload"
	}
	part, err := writer.CreateFormFile("file", fileName)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "build upload form")
	}
	if _, err := part.Write(input.Data); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "build upload form")
	}
	if err := writer.WriteField("upload_preset", s.uploadPreset); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "build upload form")
	}
	if err := writer.Close(); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "build upload form")
	}

	endpoint := fmt.Sprintf("%s/%s/image/upload", s.baseURL, s.cloudName)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, body)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "build upload request")
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "media host unreachable")
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "read media host response")
	}
	if resp.StatusCode != http.StatusOK {
		return nil, pkgerrors.New(pkgerrors.CodeDependency,
			fmt.Sprintf("media host rejected the upload with status %d", resp.StatusCode))
	}

	var parsed uploadResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decode media host response")
	}
	url := parsed.SecureURL
	if url == "" {
		url = parsed.URL
	}
	if url == "" {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "media host response missing url")
	}
	return &UploadResult{
		URL:      url,
		PublicID: parsed.PublicID,
		Width:    parsed.Width,
		Height:   parsed.Height,
		Format:   parsed.Format,
		Bytes:    parsed.Bytes,
	}, nil
}
