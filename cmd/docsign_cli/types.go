package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
)

// Response is the envelope of every JSON reply of the daemon.
type Response struct {
	ErrorMessage string          `json:"error_message,omitempty"`
	Result       json.RawMessage `json:"result"`
}

func endpoint(host, path string, query url.Values) string {
	u := fmt.Sprintf("http://%s/%s", strings.TrimPrefix(host, "http://"), path)
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	return u
}

func sessionQuery(sessionID string) url.Values {
	return url.Values{"sessionID": []string{sessionID}}
}

func readResponse(resp *http.Response) (*Response, error) {
	defer resp.Body.Close()
	responseBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read body: %w", err)
	}

	var response Response
	if err = json.Unmarshal(responseBody, &response); err != nil {
		return nil, fmt.Errorf("failed to unmarshal response: %w", err)
	}
	if response.ErrorMessage != "" {
		return nil, fmt.Errorf("%s (status %d)", response.ErrorMessage, resp.StatusCode)
	}
	return &response, nil
}

func getRequest(host, path string, query url.Values, out interface{}) error {
	resp, err := http.Get(endpoint(host, path, query))
	if err != nil {
		return fmt.Errorf("failed to make HTTP request to %s: %w", path, err)
	}
	response, err := readResponse(resp)
	if err != nil {
		return err
	}
	if out == nil {
		return nil
	}
	return json.Unmarshal(response.Result, out)
}

func postRequest(host, path string, payload interface{}, out interface{}) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}
	resp, err := http.Post(endpoint(host, path, nil), "application/json", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to make HTTP request to %s: %w", path, err)
	}
	response, err := readResponse(resp)
	if err != nil {
		return err
	}
	if out == nil {
		return nil
	}
	return json.Unmarshal(response.Result, out)
}

// getBlob returns the raw body of a successful reply, errors are still
// JSON encoded.
func getBlob(host, path string, query url.Values) ([]byte, error) {
	resp, err := http.Get(endpoint(host, path, query))
	if err != nil {
		return nil, fmt.Errorf("failed to make HTTP request to %s: %w", path, err)
	}
	if resp.StatusCode != http.StatusOK {
		_, err = readResponse(resp)
		if err == nil {
			err = fmt.Errorf("unexpected status %d", resp.StatusCode)
		}
		return nil, err
	}
	defer resp.Body.Close()
	return io.ReadAll(resp.Body)
}
