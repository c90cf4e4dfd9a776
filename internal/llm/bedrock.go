package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awshttp "github.com/aws/aws-sdk-go-v2/aws/transport/http"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	smithyhttp "github.com/aws/smithy-go/transport/http"
)

// Sampling parameters are fixed for every call.
const (
	TopP        = 0.9
	Temperature = 0.1

	// DefaultModelID is the Llama 3.1 70B instruct model on Bedrock.
	DefaultModelID = "meta.llama3-1-70b-instruct-v1:0"
)

const (
	// DialTimeout is the connection timeout.
	DialTimeout = 10 * time.Second
	// TLSHandshakeTimeout is the TLS negotiation timeout.
	TLSHandshakeTimeout = 10 * time.Second

	contentTypeJSON = "application/json"
)

// InvokeModelAPI is the part of the Bedrock runtime client used by BedrockClient.
type InvokeModelAPI interface {
	InvokeModel(ctx context.Context, params *bedrockruntime.InvokeModelInput, optFns ...func(*bedrockruntime.Options)) (*bedrockruntime.InvokeModelOutput, error)
}

// BedrockConfig configures a BedrockClient.
type BedrockConfig struct {
	// AWS supplies region and the credential chain, usually from config.LoadDefaultConfig.
	AWS aws.Config
	// Endpoint overrides the regional runtime endpoint, e.g. a compatible gateway.
	Endpoint string
	// ModelID is the model identifier placed in the invoke path.
	ModelID string
	// APIKey, when set, is sent as a bearer token and SigV4 signing is skipped.
	APIKey string
	// Timeout bounds the whole call. Zero means no client-side limit.
	Timeout time.Duration
	// Formatter wraps prompts for the model family. Defaults to Llama3Formatter.
	Formatter Formatter
	// HTTPClient overrides the transport.
	HTTPClient *http.Client
	// API replaces the runtime client entirely; the AWS, Endpoint, APIKey and
	// HTTPClient fields are then ignored.
	API    InvokeModelAPI
	Logger *slog.Logger
}

// invokeRequest is the Meta Llama request body accepted by InvokeModel.
type invokeRequest struct {
	Prompt      string  `json:"prompt"`
	MaxGenLen   int     `json:"max_gen_len"`
	TopP        float64 `json:"top_p"`
	Temperature float64 `json:"temperature"`
}

type invokeResponse struct {
	Generation *string `json:"generation"`
	StopReason string  `json:"stop_reason,omitempty"`
}

// BedrockClient calls InvokeModel on the Bedrock runtime.
// Each Invoke makes exactly one attempt.
type BedrockClient struct {
	api       InvokeModelAPI
	modelID   string
	formatter Formatter
	logger    *slog.Logger
}

// NewBedrockClient validates cfg and returns a client.
func NewBedrockClient(cfg BedrockConfig) (*BedrockClient, error) {
	modelID := cfg.ModelID
	if modelID == "" {
		modelID = DefaultModelID
	}

	formatter := cfg.Formatter
	if formatter == nil {
		formatter = Llama3Formatter{}
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	api := cfg.API
	if api == nil {
		runtime, err := newRuntimeClient(cfg)
		if err != nil {
			return nil, err
		}
		api = runtime
	}

	return &BedrockClient{
		api:       api,
		modelID:   modelID,
		formatter: formatter,
		logger:    logger.With("component", "llm.bedrock"),
	}, nil
}

func newRuntimeClient(cfg BedrockConfig) (*bedrockruntime.Client, error) {
	var endpoint string
	if cfg.Endpoint != "" {
		base, err := url.Parse(strings.TrimRight(cfg.Endpoint, "/"))
		if err != nil || base.Scheme == "" || base.Host == "" {
			return nil, fmt.Errorf("invalid model endpoint %q", cfg.Endpoint)
		}
		endpoint = base.String()
	}
	if cfg.AWS.Region == "" {
		return nil, errors.New("model client requires an AWS region")
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = newHTTPClient(cfg.Timeout)
	}

	return bedrockruntime.NewFromConfig(cfg.AWS, func(o *bedrockruntime.Options) {
		o.HTTPClient = httpClient
		o.Retryer = aws.NopRetryer{}
		o.RetryMaxAttempts = 0
		if endpoint != "" {
			o.BaseEndpoint = aws.String(endpoint)
		}
		if cfg.APIKey != "" {
			o.Credentials = aws.AnonymousCredentials{}
			o.APIOptions = append(o.APIOptions, smithyhttp.SetHeaderValue("Authorization", "Bearer "+cfg.APIKey))
		}
	}), nil
}

// newHTTPClient bounds connection setup but leaves the overall call open
// unless timeout is set: generation of long outputs has no natural upper bound.
func newHTTPClient(timeout time.Duration) *http.Client {
	return &http.Client{
		Timeout: timeout,
		Transport: &http.Transport{
			Proxy: http.ProxyFromEnvironment,
			DialContext: (&net.Dialer{
				Timeout:   DialTimeout,
				KeepAlive: 30 * time.Second,
			}).DialContext,
			TLSHandshakeTimeout: TLSHandshakeTimeout,
			MaxIdleConns:        100,
			MaxIdleConnsPerHost: 10,
			IdleConnTimeout:     90 * time.Second,
		},
	}
}

// ModelID returns the model identifier used for every call.
func (c *BedrockClient) ModelID() string {
	return c.modelID
}

// Invoke implements Client.
func (c *BedrockClient) Invoke(ctx context.Context, system, user string, maxLength int) (string, error) {
	body, err := json.Marshal(invokeRequest{
		Prompt:      c.formatter.Format(system, user),
		MaxGenLen:   maxLength,
		TopP:        TopP,
		Temperature: Temperature,
	})
	if err != nil {
		return "", generationError("encode request", err)
	}

	start := time.Now()
	resp, err := c.api.InvokeModel(ctx, &bedrockruntime.InvokeModelInput{
		ModelId:     aws.String(c.modelID),
		Body:        body,
		ContentType: aws.String(contentTypeJSON),
		Accept:      aws.String(contentTypeJSON),
	})
	if err != nil {
		var respErr *awshttp.ResponseError
		if errors.As(err, &respErr) {
			c.logger.Warn("model invocation rejected",
				slog.String("model_id", c.modelID),
				slog.Int("status_code", respErr.HTTPStatusCode()),
				slog.String("request_id", respErr.ServiceRequestID()),
			)
		}
		return "", generationError("invoke model", err)
	}

	var out invokeResponse
	if err := json.Unmarshal(resp.Body, &out); err != nil {
		return "", generationError("decode response", err)
	}
	if out.Generation == nil {
		return "", generationError("decode response", errors.New("response has no generation field"))
	}
	if strings.TrimSpace(*out.Generation) == "" {
		return "", generationError("decode response", errors.New("model returned empty generation"))
	}

	c.logger.Debug("model invoked",
		slog.String("model_id", c.modelID),
		slog.Int("max_gen_len", maxLength),
		slog.String("stop_reason", out.StopReason),
		slog.Float64("duration_ms", float64(time.Since(start).Microseconds())/1000),
	)

	return *out.Generation, nil
}
