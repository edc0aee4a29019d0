// Package simpledb is a client for the Amazon SimpleDB HTTP API (and
// compatible stores): signed form-POST requests, XML responses,
// NextToken pagination, and a retry schedule for transport timeouts.
//
// The client keeps one request in flight at a time. Calls return
// *RemoteError when the service rejects a request and *TransportError
// when the retry schedule is exhausted.
package simpledb

import (
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/edirooss/sdbsession/internal/status"
)

const serviceVersion = "2009-04-15"

// Config carries the connection settings for a Client.
type Config struct {
	// Endpoint is the service host, e.g. "sdb.amazonaws.com". May carry
	// a scheme to override Insecure (used against local emulators).
	Endpoint  string
	AccessKey string
	SecretKey string
	// Insecure switches to plain HTTP. Default is HTTPS.
	Insecure bool
	// Timeout bounds each request attempt.
	Timeout time.Duration
	// RetryDelays is the sleep schedule between attempts after a
	// transport timeout. len(RetryDelays)+1 attempts are made in total.
	RetryDelays []time.Duration
}

// Client is a SimpleDB connection. Safe for concurrent use; requests
// are serialized onto one in-flight call at a time.
type Client struct {
	log  *zap.Logger
	cfg  Config
	base string // request URL
	host string // signing host

	mu   sync.Mutex // one in-flight request
	http *http.Client

	now func() time.Time
}

// NewClient validates cfg and builds a Client.
func NewClient(log *zap.Logger, cfg Config) (*Client, error) {
	if cfg.AccessKey == "" || cfg.SecretKey == "" {
		return nil, errors.New("simpledb: access key and secret key are required")
	}
	if cfg.Endpoint == "" {
		cfg.Endpoint = "sdb.amazonaws.com"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	if log == nil {
		log = zap.NewNop()
	}

	scheme := "https"
	host := cfg.Endpoint
	if strings.Contains(cfg.Endpoint, "://") {
		u, err := url.Parse(cfg.Endpoint)
		if err != nil {
			return nil, fmt.Errorf("simpledb: parse endpoint: %w", err)
		}
		scheme, host = u.Scheme, u.Host
	} else if cfg.Insecure {
		scheme = "http"
	}

	return &Client{
		log:  log.Named("simpledb"),
		cfg:  cfg,
		base: scheme + "://" + host + "/",
		host: host,
		http: &http.Client{Timeout: cfg.Timeout},
		now:  time.Now,
	}, nil
}

// responseMetadata is the trailer every successful response carries.
type responseMetadata struct {
	RequestID string `xml:"RequestId"`
	BoxUsage  string `xml:"BoxUsage"`
}

// errorDoc is the service's error envelope.
type errorDoc struct {
	Errors []struct {
		Code     string `xml:"Code"`
		Message  string `xml:"Message"`
		BoxUsage string `xml:"BoxUsage"`
	} `xml:"Errors>Error"`
	RequestID string `xml:"RequestID"`
}

// do signs and posts params, retrying transport timeouts per the
// configured delay schedule, and returns the raw XML body of a
// successful response.
func (c *Client) do(ctx context.Context, params url.Values) ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	delays := append([]time.Duration{0}, c.cfg.RetryDelays...)

	var lastErr error
	for attempt, delay := range delays {
		if delay > 0 {
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}

		body, err := c.post(ctx, params)
		if err == nil {
			return body, nil
		}
		var remote *RemoteError
		if errors.As(err, &remote) {
			return nil, err
		}
		if !isTimeout(err) {
			return nil, fmt.Errorf("simpledb: request: %w", err)
		}

		status.TransportTimeouts.Add(1)
		lastErr = err
		c.log.Warn("request attempt timed out",
			zap.Int("attempt", attempt+1),
			zap.Int("max_attempts", len(delays)),
			zap.Error(err),
		)
	}

	return nil, &TransportError{Attempts: len(delays), Err: lastErr}
}

// post performs one signed request attempt and maps service errors.
func (c *Client) post(ctx context.Context, params url.Values) ([]byte, error) {
	signed := url.Values{}
	for k, vs := range params {
		signed[k] = vs
	}
	signed.Set("Version", serviceVersion)
	sign(signed, c.host, c.cfg.AccessKey, c.cfg.SecretKey, c.now())

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.base, strings.NewReader(signed.Encode()))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded; charset=utf-8")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	var errdoc errorDoc
	if xml.Unmarshal(body, &errdoc) == nil && len(errdoc.Errors) > 0 {
		first := errdoc.Errors[0]
		return nil, &RemoteError{Code: first.Code, Message: first.Message, Status: resp.StatusCode}
	}
	if resp.StatusCode != http.StatusOK {
		return nil, &RemoteError{Code: http.StatusText(resp.StatusCode), Message: string(body), Status: resp.StatusCode}
	}

	var meta struct {
		Metadata responseMetadata `xml:"ResponseMetadata"`
	}
	if xml.Unmarshal(body, &meta) == nil {
		recordBoxUsage(meta.Metadata.BoxUsage)
	}

	return body, nil
}

// recordBoxUsage folds a response's BoxUsage into the status counters.
func recordBoxUsage(s string) {
	if s == "" {
		return
	}
	if usage, err := strconv.ParseFloat(s, 64); err == nil {
		status.AddBoxUsage(usage)
	}
}

// isTimeout reports whether err is a transport timeout worth retrying.
func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr interface{ Timeout() bool }
	return errors.As(err, &netErr) && netErr.Timeout()
}
