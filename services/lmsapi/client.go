// Package lmsapi talks to the LMS REST backend.
//
// Every controller of the core packages depends on a narrow Backend interface;
// Client implements all of them.
package lmsapi

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/pkg/errors"

	"github.com/trezcool/masomo-portal/core"
	"github.com/trezcool/masomo-portal/core/auth"
	"github.com/trezcool/masomo-portal/core/cart"
	"github.com/trezcool/masomo-portal/core/certificate"
	"github.com/trezcool/masomo-portal/core/course"
	"github.com/trezcool/masomo-portal/core/dashboard"
	"github.com/trezcool/masomo-portal/core/instructor"
	"github.com/trezcool/masomo-portal/core/profile"
)

// keys of an error body holding a plain message, by priority
var messageKeys = []string{"detail", "message", "error"}

// TokenSource yields the current access token, "" when logged out.
type TokenSource interface {
	AccessToken() string
}

type Client struct {
	http          *resty.Client
	tokens        TokenSource
	timeout       time.Duration
	uploadTimeout time.Duration
}

var (
	_ auth.Backend        = (*Client)(nil)
	_ cart.Backend        = (*Client)(nil)
	_ course.Backend      = (*Client)(nil)
	_ dashboard.Backend   = (*Client)(nil)
	_ profile.Backend     = (*Client)(nil)
	_ instructor.Backend  = (*Client)(nil)
	_ certificate.Backend = (*Client)(nil)
)

func New(conf *core.Config, tokens TokenSource, logger core.Logger) *Client {
	c := &Client{
		tokens:        tokens,
		timeout:       conf.API.Timeout,
		uploadTimeout: conf.API.UploadTimeout,
	}
	c.http = resty.New().
		SetBaseURL(conf.API.BaseURL).
		SetHeader("Accept", "application/json").
		SetDebug(conf.Debug && !conf.TestMode).
		OnBeforeRequest(c.authenticate)
	if logger != nil {
		c.http.SetLogger(restyLogger{logger})
	}
	return c
}

func (c *Client) authenticate(_ *resty.Client, req *resty.Request) error {
	if c.tokens == nil || req.Header.Get("Authorization") != "" {
		return nil
	}
	if token := c.tokens.AccessToken(); token != "" {
		req.SetHeader("Authorization", "Bearer "+token)
	}
	return nil
}

func (c *Client) request(ctx context.Context) *resty.Request {
	return c.http.R().SetContext(ctx)
}

// do executes req and decodes a successful JSON answer into out (when not nil).
// The request is bounded by the client timeout unless ctx already carries a deadline.
func (c *Client) do(req *resty.Request, method, path string, out interface{}) error {
	ctx := req.Context()
	if _, ok := ctx.Deadline(); !ok && c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
		req.SetContext(ctx)
	}

	resp, err := req.Execute(method, path)
	if err != nil {
		return errors.Wrapf(err, "%s %s", method, path)
	}
	if resp.IsError() {
		return parseError(resp.StatusCode(), resp.Body())
	}
	if out == nil || len(resp.Body()) == 0 {
		return nil
	}
	if err := json.Unmarshal(resp.Body(), out); err != nil {
		return errors.Wrapf(err, "decoding %s %s", method, path)
	}
	return nil
}

// parseError turns an error body into a *core.APIError.
// {"field": ["msg", ...]} bodies become field errors, {"detail": "msg"} bodies the message.
func parseError(status int, body []byte) error {
	var fields map[string]interface{}
	if err := json.Unmarshal(body, &fields); err != nil {
		return core.NewAPIError(status, "")
	}

	var msg string
	for _, key := range messageKeys {
		if v, ok := fields[key]; ok {
			if msg == "" {
				msg = flatten(v)
			}
			delete(fields, key)
		}
	}

	flds := make([]core.FieldError, 0, len(fields))
	for name, v := range fields {
		if text := flatten(v); text != "" {
			flds = append(flds, core.FieldError{Field: name, Error: text})
		}
	}
	return core.NewAPIError(status, msg, flds...)
}

func flatten(v interface{}) string {
	switch v := v.(type) {
	case nil:
		return ""
	case string:
		return v
	case []interface{}:
		parts := make([]string, 0, len(v))
		for _, item := range v {
			if s := flatten(item); s != "" {
				parts = append(parts, s)
			}
		}
		return strings.Join(parts, " ")
	case map[string]interface{}:
		keys := make([]string, 0, len(v))
		for k := range v {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		parts := make([]string, 0, len(v))
		for _, k := range keys {
			if s := flatten(v[k]); s != "" {
				parts = append(parts, k+": "+s)
			}
		}
		return strings.Join(parts, "; ")
	default:
		return fmt.Sprint(v)
	}
}

// restyLogger routes resty's own logs to the app logger.
type restyLogger struct {
	core.Logger
}

func (l restyLogger) Errorf(format string, v ...interface{}) {
	l.Error(strings.TrimSpace(fmt.Sprintf(format, v...)))
}

func (l restyLogger) Warnf(format string, v ...interface{}) {
	l.Warn(strings.TrimSpace(fmt.Sprintf(format, v...)))
}

func (l restyLogger) Debugf(format string, v ...interface{}) {
	l.Debug(strings.TrimSpace(fmt.Sprintf(format, v...)))
}
