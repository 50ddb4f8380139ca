package adapters

import (
	"context"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"pip2sysdep/internal/core"
	"pip2sysdep/internal/ports"
	"pip2sysdep/internal/shared"
	"pip2sysdep/internal/types"
)

// DefaultMappingBaseURL serves the mapping documents maintained upstream.
const DefaultMappingBaseURL = "https://raw.githubusercontent.com/autiwire/pip2sysdep/main/data"

const maxMappingDocumentBytes = 8 << 20

// MappingRemoteAdapter fetches {baseURL}/{distro}-{version}.toml. Every
// failure, including a document that does not parse, is reported as a
// missing mapping document.
type MappingRemoteAdapter struct {
	BaseURL string
	Client  *http.Client

	cfg httpRetryConfig
}

func NewMappingRemoteAdapter(baseURL string, timeout time.Duration, retries int) MappingRemoteAdapter {
	if strings.TrimSpace(baseURL) == "" {
		baseURL = DefaultMappingBaseURL
	}
	cfg := normalizeHTTPConfig(timeout, retries, 0)
	return MappingRemoteAdapter{
		BaseURL: strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		Client:  &http.Client{Timeout: cfg.timeout},
		cfg:     cfg,
	}
}

// URL returns the address the document for key is fetched from.
func (a MappingRemoteAdapter) URL(key types.DistroKey) string {
	return a.BaseURL + "/" + key.String() + ".toml"
}

func (a MappingRemoteAdapter) LoadMapping(ctx context.Context, key types.DistroKey) (*types.MappingDocument, error) {
	url := a.URL(key)
	client := a.Client
	if client == nil {
		client = &http.Client{Timeout: defaultHTTPTimeout}
	}
	cfg := a.cfg
	if cfg.retries <= 0 {
		cfg = normalizeHTTPConfig(0, 0, 0)
	}

	resp, err := doRequest(ctx, client, url, cfg)
	if err != nil {
		return nil, core.NotFoundError(url, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, core.NotFoundError(url, shared.HTTPStatusError(resp.StatusCode, url))
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, maxMappingDocumentBytes))
	if err != nil {
		return nil, core.NotFoundError(url, err)
	}
	doc, err := DecodeMappingDocument(data, types.DocumentFormatTOML, url)
	if err != nil {
		return nil, core.NotFoundError(url, err)
	}
	log.Ctx(ctx).Debug().Str("url", url).Int("packages", len(doc.Packages)).Msg("remote mapping document loaded")
	return doc, nil
}

var _ ports.MappingSourcePort = MappingRemoteAdapter{}
