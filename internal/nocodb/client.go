package nocodb

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"go.uber.org/zap"

	"prospectsheet/internal/model"
	"prospectsheet/internal/util"
	"prospectsheet/internal/util/logx"
)

const (
	defaultPageSize = 500
	defaultMaxPages = 20
	maxLoggedBody   = 2048
)

var reTable = regexp.MustCompile(`tables/([^/]+)/records`)

// Client talks to one NocoDB table through the v2 records API.
type Client struct {
	baseURL  string
	token    string
	pageSize int
	maxPages int
	http     *http.Client
	log      *zap.Logger
}

type Options struct {
	BaseURL  string
	Token    string
	PageSize int
	// MaxPages bounds List; a table longer than MaxPages*PageSize is an error.
	MaxPages int
	Timeout  time.Duration
	// HTTPClient overrides the default client (tests).
	HTTPClient *http.Client
	Logger     *zap.Logger
}

func NewClient(opt Options) *Client {
	c := &Client{baseURL: strings.TrimSpace(opt.BaseURL), token: opt.Token, pageSize: opt.PageSize, maxPages: opt.MaxPages, http: opt.HTTPClient, log: opt.Logger}
	if c.pageSize <= 0 {
		c.pageSize = defaultPageSize
	}
	if c.maxPages <= 0 {
		c.maxPages = defaultMaxPages
	}
	if c.http == nil {
		timeout := opt.Timeout
		if timeout <= 0 {
			timeout = 20 * time.Second
		}
		c.http = &http.Client{Timeout: timeout}
	}
	if c.log == nil {
		c.log = logx.L()
	}
	return c
}

// TableID extracts the table identifier embedded in the base URL.
func (c *Client) TableID() (string, bool) {
	m := reTable.FindStringSubmatch(c.baseURL)
	if m == nil {
		return "", false
	}
	return m[1], true
}

func (c *Client) recordsURL() (*url.URL, error) {
	tableID, ok := c.TableID()
	if !ok {
		return nil, &ValidationGap{Missing: "table id"}
	}
	u, err := url.Parse(c.baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	u.Path = "/api/v2/tables/" + tableID + "/records"
	u.RawQuery = ""
	return u, nil
}

type listResponse struct {
	List     []model.Record `json:"list"`
	PageInfo struct {
		IsLastPage *bool `json:"isLastPage"`
	} `json:"pageInfo"`
}

// List fetches the table rows, following pageInfo until the last page.
func (c *Client) List(ctx context.Context) ([]model.Record, error) {
	u, err := c.recordsURL()
	if err != nil {
		return nil, err
	}
	var out []model.Record
	for page := 0; ; page++ {
		if page == c.maxPages {
			c.log.Warn("nocodb list truncated", zap.Int("pages", page), zap.Int("rows", len(out)))
			return nil, &RemoteReadError{Err: fmt.Errorf("%w (%d rows read)", ErrPageLimit, len(out))}
		}
		q := url.Values{}
		q.Set("limit", strconv.Itoa(c.pageSize))
		if page > 0 {
			q.Set("offset", strconv.Itoa(page*c.pageSize))
		}
		u.RawQuery = q.Encode()
		status, body, err := c.do(ctx, http.MethodGet, u.String(), nil)
		if err != nil {
			return nil, &RemoteReadError{Err: err}
		}
		if status < 200 || status >= 300 {
			return nil, &RemoteReadError{Status: status}
		}
		recs, last, err := decodeList(body)
		if err != nil {
			return nil, &RemoteReadError{Err: err}
		}
		out = append(out, recs...)
		if last || len(recs) < c.pageSize {
			return out, nil
		}
	}
}

func decodeList(body []byte) ([]model.Record, bool, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var recs []model.Record
		if err := decodeJSON(trimmed, &recs); err != nil {
			return nil, false, err
		}
		return recs, true, nil
	}
	var lr listResponse
	if err := decodeJSON(trimmed, &lr); err != nil {
		return nil, false, err
	}
	last := lr.PageInfo.IsLastPage == nil || *lr.PageInfo.IsLastPage
	return lr.List, last, nil
}

// Create inserts one record and returns the stored record. The API answers
// with either an object or a one-element array.
func (c *Client) Create(ctx context.Context, p model.Payload) (model.Record, error) {
	u, err := c.recordsURL()
	if err != nil {
		return nil, err
	}
	status, body, err := c.do(ctx, http.MethodPost, u.String(), p)
	if err != nil {
		return nil, fmt.Errorf("create: %w", err)
	}
	if status < 200 || status >= 300 {
		return nil, &RemoteWriteError{Op: "create", Status: status, Body: string(body)}
	}
	return firstRecord(body), nil
}

// Update patches the fields in p on the record with the given numeric id.
func (c *Client) Update(ctx context.Context, recordID string, p model.Payload) (model.Record, error) {
	u, err := c.recordsURL()
	if err != nil {
		return nil, err
	}
	id, err := strconv.ParseInt(strings.TrimSpace(recordID), 10, 64)
	if err != nil {
		return nil, &ValidationGap{Missing: "record id"}
	}
	item := map[string]any{}
	for k, v := range p {
		item[k] = v
	}
	item["id"] = id
	status, body, err := c.do(ctx, http.MethodPatch, u.String(), []map[string]any{item})
	if err != nil {
		return nil, fmt.Errorf("update: %w", err)
	}
	if status < 200 || status >= 300 {
		return nil, &RemoteWriteError{Op: "update", Status: status, Body: string(body)}
	}
	return firstRecord(body), nil
}

// firstRecord tolerates empty or malformed success bodies.
func firstRecord(body []byte) model.Record {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return model.Record{}
	}
	if trimmed[0] == '[' {
		var recs []model.Record
		if err := decodeJSON(trimmed, &recs); err != nil || len(recs) == 0 {
			return model.Record{}
		}
		return recs[0]
	}
	var rec model.Record
	if err := decodeJSON(trimmed, &rec); err != nil || rec == nil {
		return model.Record{}
	}
	return rec
}

func decodeJSON(b []byte, out any) error {
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.UseNumber()
	if err := dec.Decode(out); err != nil {
		return fmt.Errorf("json decode error: %w", err)
	}
	return nil
}

func (c *Client) do(ctx context.Context, method, urlStr string, payload any) (int, []byte, error) {
	var body io.Reader
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			return 0, nil, err
		}
		body = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, urlStr, body)
	if err != nil {
		return 0, nil, err
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("xc-token", c.token)

	start := time.Now()
	resp, err := c.http.Do(req)
	fields := []zap.Field{
		zap.String("method", method),
		zap.String("url", urlStr),
		zap.String("token", util.RedactToken(c.token)),
	}
	if err != nil {
		c.log.Warn("nocodb request failed", append(fields, zap.Duration("latency", time.Since(start)), zap.Error(err))...)
		return 0, nil, err
	}
	defer resp.Body.Close()
	data, err := io.ReadAll(io.LimitReader(resp.Body, 25<<20))
	fields = append(fields,
		zap.Int("status", resp.StatusCode),
		zap.Duration("latency", time.Since(start)),
		zap.String("body", truncate(util.RedactPII(string(data)), maxLoggedBody)),
	)
	if err != nil {
		c.log.Warn("nocodb response unreadable", append(fields, zap.Error(err))...)
		return resp.StatusCode, nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.log.Warn("nocodb request rejected", fields...)
	} else {
		c.log.Info("nocodb request", fields...)
	}
	return resp.StatusCode, data, nil
}

// truncate cuts s to n runes.
func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n]) + "…"
}

// IsValidationGap reports whether err is a local precondition failure.
func IsValidationGap(err error) bool {
	var vg *ValidationGap
	return errors.As(err, &vg)
}
