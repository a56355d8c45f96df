package viya

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"viya-model-manager/internal/core/domain"
)

// APIError is a failed SAS Viya REST call. SAS services return a JSON error
// document with a message and optional details.
type APIError struct {
	Method     string   `json:"-"`
	URL        string   `json:"-"`
	StatusCode int      `json:"httpStatusCode"`
	Status     string   `json:"-"`
	ErrorCode  int      `json:"errorCode"`
	Message    string   `json:"message"`
	Details    []string `json:"details"`
	Remedy     string   `json:"remediation"`

	// kind is the domain error this failure corresponds to, if any.
	kind error
}

func (e *APIError) Error() string {
	s := fmt.Sprintf("%s %s: %s", e.Method, e.URL, e.Status)
	if e.Message != "" {
		s += ": " + e.Message
	}
	if len(e.Details) > 0 {
		s += ": " + strings.Join(e.Details, "; ")
	}
	return s
}

func (e *APIError) Unwrap() error { return e.kind }

func newAPIError(method, url string, resp *http.Response, body []byte) *APIError {
	e := &APIError{}
	if json.Unmarshal(body, e) != nil {
		// Not a SAS error document.
		e.Message = strings.TrimSpace(string(body))
		if len(e.Message) > 256 {
			e.Message = e.Message[:256]
		}
	}
	e.Method = method
	e.URL = url
	e.StatusCode = resp.StatusCode
	e.Status = resp.Status
	switch resp.StatusCode {
	case http.StatusUnauthorized, http.StatusForbidden:
		e.kind = domain.ErrUnauthorized
	case http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
		e.kind = domain.ErrViyaUnavailable
	}
	return e
}

// notFoundAs makes a 404 response match sentinel with errors.Is.
func notFoundAs(err, sentinel error) error {
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound {
		apiErr.kind = sentinel
	}
	return err
}

// IsNotFound reports whether err is a 404 from SAS Viya.
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound
}
