package verification

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/trebuchet-org/stlm-deploy/internal/domain/models"
	"github.com/trebuchet-org/stlm-deploy/internal/usecase"
)

const (
	// DefaultPollInterval is the delay between verification status checks
	DefaultPollInterval = 5 * time.Second
	// DefaultMaxPolls bounds how long a pending verification is followed
	DefaultMaxPolls = 24

	codeFormatStandardJSON = "solidity-standard-json-input"
)

// EtherscanVerifier submits hardhat build-info input to an Etherscan-compatible API
type EtherscanVerifier struct {
	httpClient   *http.Client
	pollInterval time.Duration
	maxPolls     int
	log          *slog.Logger
}

// Option configures the verifier
type Option func(*EtherscanVerifier)

// WithHTTPClient sets the HTTP client
func WithHTTPClient(c *http.Client) Option {
	return func(v *EtherscanVerifier) {
		v.httpClient = c
	}
}

// WithPolling sets the status polling cadence
func WithPolling(interval time.Duration, maxPolls int) Option {
	return func(v *EtherscanVerifier) {
		v.pollInterval = interval
		v.maxPolls = maxPolls
	}
}

// NewEtherscanVerifier creates a verifier
func NewEtherscanVerifier(log *slog.Logger, opts ...Option) *EtherscanVerifier {
	v := &EtherscanVerifier{
		httpClient:   &http.Client{Timeout: 30 * time.Second},
		pollInterval: DefaultPollInterval,
		maxPolls:     DefaultMaxPolls,
		log:          log,
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// apiResponse is the envelope every Etherscan endpoint returns
type apiResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	Result  string `json:"result"`
}

// Verify submits the deployment for verification and follows it until the
// explorer reports a final status.
func (v *EtherscanVerifier) Verify(ctx context.Context, req usecase.VerificationRequest) (*models.VerificationInfo, error) {
	if req.Network == nil || req.Network.EtherscanAPI == "" {
		return nil, fmt.Errorf("network has no etherscan API configured")
	}
	if req.BuildInfo == nil || len(req.BuildInfo.Input) == 0 {
		return nil, fmt.Errorf("build-info for %s has no compiler input", req.Factory.Name)
	}

	form := url.Values{}
	form.Set("apikey", req.APIKey)
	form.Set("module", "contract")
	form.Set("action", "verifysourcecode")
	form.Set("contractaddress", req.Deployment.Address)
	form.Set("sourceCode", string(req.BuildInfo.Input))
	form.Set("codeformat", codeFormatStandardJSON)
	form.Set("contractname", req.Factory.FullyQualifiedName())
	form.Set("compilerversion", "v"+req.BuildInfo.SolcLongVersion)
	// Etherscan's parameter name is misspelled
	form.Set("constructorArguements", strings.TrimPrefix(req.Deployment.ConstructorArgs, "0x"))

	resp, err := v.post(ctx, req.Network.EtherscanAPI, form)
	if err != nil {
		return nil, err
	}

	info := &models.VerificationInfo{EtherscanURL: explorerURL(req)}
	if resp.Status != "1" {
		if strings.Contains(strings.ToLower(resp.Result), "already verified") {
			now := time.Now().UTC()
			info.Status = models.VerificationStatusVerified
			info.VerifiedAt = &now
			return info, nil
		}
		return nil, fmt.Errorf("etherscan rejected verification: %s", resp.Result)
	}

	info.GUID = resp.Result
	info.Status = models.VerificationStatusPending
	v.log.Debug("verification submitted", "contract", req.Factory.Name, "guid", info.GUID)

	return v.poll(ctx, req, info)
}

func (v *EtherscanVerifier) poll(ctx context.Context, req usecase.VerificationRequest, info *models.VerificationInfo) (*models.VerificationInfo, error) {
	ticker := time.NewTicker(v.pollInterval)
	defer ticker.Stop()

	for i := 0; i < v.maxPolls; i++ {
		select {
		case <-ctx.Done():
			return info, ctx.Err()
		case <-ticker.C:
		}

		query := url.Values{}
		query.Set("apikey", req.APIKey)
		query.Set("module", "contract")
		query.Set("action", "checkverifystatus")
		query.Set("guid", info.GUID)

		resp, err := v.get(ctx, req.Network.EtherscanAPI, query)
		if err != nil {
			return info, err
		}

		result := strings.ToLower(resp.Result)
		switch {
		case strings.Contains(result, "pending"):
			continue
		case resp.Status == "1" || strings.Contains(result, "already verified"):
			now := time.Now().UTC()
			info.Status = models.VerificationStatusVerified
			info.VerifiedAt = &now
			return info, nil
		default:
			info.Status = models.VerificationStatusFailed
			info.Reason = resp.Result
			return info, nil
		}
	}

	return info, fmt.Errorf("verification %s still pending after %d checks", info.GUID, v.maxPolls)
}

func (v *EtherscanVerifier) post(ctx context.Context, endpoint string, form url.Values) (*apiResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return v.do(req)
}

func (v *EtherscanVerifier) get(ctx context.Context, endpoint string, query url.Values) (*apiResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint+"?"+query.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	return v.do(req)
}

func (v *EtherscanVerifier) do(req *http.Request) (*apiResponse, error) {
	req.Header.Set("Accept", "application/json")

	resp, err := v.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("etherscan request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("etherscan returned HTTP %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var out apiResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, fmt.Errorf("failed to parse etherscan response: %w", err)
	}
	return &out, nil
}

func explorerURL(req usecase.VerificationRequest) string {
	if req.Network.ExplorerURL == "" {
		return ""
	}
	return fmt.Sprintf("%s/address/%s#code", strings.TrimSuffix(req.Network.ExplorerURL, "/"), req.Deployment.Address)
}

var _ usecase.ContractVerifier = (*EtherscanVerifier)(nil)
