package tradeportapi

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/tradeport/tradeport-go/pkg/apierrors"
)

// Response wraps the standard http.Response with the body already read and
// closed.
type Response struct {
	*http.Response

	// Body overrides the composited Body field.
	Body []byte
}

// newResponse reads the response body and closes it.
func newResponse(r *http.Response) (*Response, error) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		return nil, err
	}

	err = r.Body.Close()
	return &Response{Response: r, Body: body}, err
}

// String converts the response body to string. Empty string if error.
func (r *Response) String() string {
	return string(r.Body)
}

// IsJSON reports whether the response declares a JSON content type.
func (r *Response) IsJSON() bool {
	ct := r.Header.Get("Content-Type")
	return strings.Contains(ct, "application/json") || strings.Contains(ct, "text/json")
}

func (r *Response) DecodeJSON(o interface{}) error {
	return json.Unmarshal(r.Body, o)
}

// RequestID returns the upstream request identifier, if the server sent one.
func (r *Response) RequestID() string {
	return r.Header.Get("x-request-id")
}

// apiErrorResponse is the upstream error envelope.
type apiErrorResponse struct {
	Error struct {
		Code    int               `json:"code"`
		Message string            `json:"message"`
		Fields  map[string]string `json:"fields"`
	} `json:"error"`
}

// sendRequest dispatches the request and normalizes the outcome: transport
// failures become NetworkError with credentials scrubbed, non-2xx statuses
// map onto the typed taxonomy, and everything else returns the wrapped
// response.
func (c *RestClient) sendRequest(req *http.Request) (*Response, error) {
	started := time.Now()

	resp, err := c.HttpClient.Do(req)
	if err != nil {
		observeRequest(req, 0, time.Since(started))
		return nil, &apierrors.NetworkError{Message: c.scrubCredentials(err.Error())}
	}

	response, err := newResponse(resp)
	if err != nil {
		observeRequest(req, resp.StatusCode, time.Since(started))
		return nil, &apierrors.NetworkError{Message: c.scrubCredentials(err.Error())}
	}

	observeRequest(req, response.StatusCode, time.Since(started))

	if c.debug {
		log.Debugf("%s %s -> %d (%d bytes, %s)",
			req.Method, req.URL.Path, response.StatusCode, len(response.Body), time.Since(started))
	}

	if isError(response) {
		return response, c.classifyError(response)
	}

	return response, nil
}

// isError checks the response status code to see if a response is an error.
func isError(response *Response) bool {
	c := response.StatusCode
	return c < 200 || c >= 400
}

// classifyError maps a non-2xx response onto the typed error taxonomy.
func (c *RestClient) classifyError(resp *Response) error {
	apiErr := parseAPIError(resp)

	switch resp.StatusCode {
	case http.StatusUnauthorized, http.StatusForbidden:
		return &apierrors.AuthenticationError{
			StatusCode: resp.StatusCode,
			Message:    apiErr.Error.Message,
		}

	case http.StatusTooManyRequests:
		return &apierrors.RateLimitError{
			Message:    fmt.Sprintf("server rejected request with status %d", resp.StatusCode),
			RetryAfter: parseRetryAfter(resp.Header.Get("Retry-After")),
		}

	case http.StatusBadRequest:
		msg := apiErr.Error.Message
		if msg == "" {
			msg = "bad request"
		}
		return &apierrors.ValidationError{
			Message:     msg,
			FieldErrors: apiErr.Error.Fields,
		}
	}

	return &apierrors.APIError{
		StatusCode: resp.StatusCode,
		Message:    apiErr.Error.Message,
		Body:       resp.String(),
	}
}

func parseAPIError(resp *Response) (apiErr apiErrorResponse) {
	if resp.IsJSON() {
		// best effort; an unparseable body just leaves the message empty
		_ = resp.DecodeJSON(&apiErr)
	}
	return apiErr
}

// parseRetryAfter handles both forms of the Retry-After header: delay
// seconds and an HTTP date. Returns 0 when the header is absent or unusable.
func parseRetryAfter(value string) time.Duration {
	if value == "" {
		return 0
	}

	if seconds, err := strconv.Atoi(value); err == nil {
		if seconds < 0 {
			return 0
		}
		return time.Duration(seconds) * time.Second
	}

	if at, err := http.ParseTime(value); err == nil {
		if d := time.Until(at); d > 0 {
			return d
		}
	}

	return 0
}

// decodeResponse decodes a successful response by content type: JSON into v,
// anything else is an error for typed endpoints.
func decodeResponse(resp *Response, v interface{}) error {
	if v == nil {
		return nil
	}

	if !resp.IsJSON() {
		return errors.Errorf("unexpected response content type %q", resp.Header.Get("Content-Type"))
	}

	if err := resp.DecodeJSON(v); err != nil {
		return errors.Wrapf(err, "failed to decode json response: %d %s", resp.StatusCode, resp.String())
	}
	return nil
}
