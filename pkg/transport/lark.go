package transport

import (
	"context"
	"encoding/json"
	"net/http"

	lark "github.com/larksuite/oapi-sdk-go/v3"
	larkcore "github.com/larksuite/oapi-sdk-go/v3/core"

	"github.com/kart-io/feishukit/pkg/cache"
	"github.com/kart-io/feishukit/pkg/config"
	"github.com/kart-io/feishukit/pkg/errors"
	"github.com/kart-io/feishukit/pkg/logger"
)

// LarkRequester sends requests through the official Lark SDK, which owns
// tenant token acquisition, refresh and multipart encoding.
type LarkRequester struct {
	client *lark.Client
	logger logger.Logger
	cache  *cache.RedisCache
}

var _ Requester = (*LarkRequester)(nil)

// NewLarkRequester builds an SDK client from cfg. When cfg selects the redis
// token cache, the connection is established here and released by Close.
func NewLarkRequester(ctx context.Context, cfg *config.Config) (*LarkRequester, error) {
	log := cfg.GetLogger()

	opts := []lark.ClientOptionFunc{
		lark.WithOpenBaseUrl(cfg.BaseURL),
		lark.WithReqTimeout(cfg.Timeout),
		lark.WithLogger(logger.ForLark(log)),
		lark.WithLogLevel(logger.LarkLevel(cfg.Level())),
	}

	var tokenCache *cache.RedisCache
	if cfg.UsesRedisTokenCache() {
		rc, err := cache.NewRedisCache(ctx, cfg.TokenCache, log)
		if err != nil {
			return nil, errors.Wrap(err, errors.ErrInvalidConfig, "token cache")
		}
		tokenCache = rc
		opts = append(opts, lark.WithTokenCache(rc))
	}

	r := NewLarkRequesterWithClient(lark.NewClient(cfg.AppID, cfg.AppSecret, opts...), log)
	r.cache = tokenCache
	return r, nil
}

// NewLarkRequesterWithClient wraps an already configured SDK client.
func NewLarkRequesterWithClient(client *lark.Client, log logger.Logger) *LarkRequester {
	if log == nil {
		log = logger.Discard
	}
	return &LarkRequester{client: client, logger: log}
}

// Request performs one exchange with a tenant access token.
func (r *LarkRequester) Request(ctx context.Context, req *Request) (*Envelope, error) {
	apiReq := &larkcore.ApiReq{
		HttpMethod:                req.Method,
		ApiPath:                   APIPrefix + req.Path,
		Body:                      larkBody(req.Body),
		QueryParams:               larkcore.QueryParams(req.Params),
		PathParams:                larkcore.PathParams{},
		SupportedAccessTokenTypes: []larkcore.AccessTokenType{larkcore.AccessTokenTypeTenant},
	}
	if apiReq.QueryParams == nil {
		apiReq.QueryParams = larkcore.QueryParams{}
	}

	var opts []larkcore.RequestOptionFunc
	if len(req.Headers) > 0 {
		header := make(http.Header, len(req.Headers))
		for k, v := range req.Headers {
			header.Set(k, v)
		}
		opts = append(opts, larkcore.WithHeaders(header))
	}

	r.logger.Debug("Feishu API request", "operation", req.Operation, "method", req.Method, "path", req.Path)

	resp, err := r.client.Do(ctx, apiReq, opts...)
	if err != nil {
		r.logger.Debug("Feishu API transport error", "path", req.Path, "error", err)
		return nil, errors.Wrapf(err, errors.ErrTransport, "%s %s", req.Method, req.Path).
			WithOperation(req.Operation).WithPath(req.Path)
	}

	var env Envelope
	if err := json.Unmarshal(resp.RawBody, &env); err != nil {
		r.logger.Error("Feishu API returned non-JSON body", "path", req.Path, "statusCode", resp.StatusCode)
		return nil, errors.Wrapf(err, errors.ErrMalformedEnvelope, "%s %s: status %d", req.Method, req.Path, resp.StatusCode).
			WithOperation(req.Operation).WithPath(req.Path)
	}

	r.logger.Debug("Feishu API response", "operation", req.Operation, "statusCode", resp.StatusCode, "code", env.Code)
	return &env, nil
}

// Close releases the token cache connection, if any.
func (r *LarkRequester) Close() error {
	if r.cache != nil {
		return r.cache.Close()
	}
	return nil
}

func larkBody(body any) any {
	form, ok := body.(*Form)
	if !ok {
		return body
	}
	fd := larkcore.NewFormdata()
	for _, f := range form.Fields {
		fd.AddField(f.Name, f.Value)
	}
	for _, f := range form.Files {
		fd.AddFile(f.Name, f.Reader)
	}
	return fd
}
