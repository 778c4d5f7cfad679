package clients

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/spacesedan/sentiscope/internal/apperr"
	"github.com/spacesedan/sentiscope/internal/metrics"
)

// do executes req once. Any error from the transport is a TransportError;
// the caller owns resp.Body on success.
func do(client *http.Client, req *http.Request, dependency string) (*http.Response, error) {
	req.Header.Set("User-Agent", USER_AGENT)
	resp, err := client.Do(req)
	if err != nil {
		metrics.ObserveOutbound(dependency, metrics.OutcomeTransport)
		slog.Error("[HTTPClient] Request could not be sent",
			slog.String("dependency", dependency),
			slog.String("url", req.URL.Redacted()),
			slog.String("error", err.Error()))
		return nil, apperr.Transport(fmt.Sprintf("could not reach %s service", dependency), err)
	}
	return resp, nil
}

// upstreamError builds an UpstreamError from a non-2xx response, preferring
// the message in the error body over fallback.
func upstreamError(resp *http.Response, dependency, fallback string) *apperr.Error {
	metrics.ObserveOutbound(dependency, metrics.OutcomeUpstream)
	body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	msg := errorBodyMessage(body)
	if msg == "" {
		msg = fallback
	}
	slog.Warn("[HTTPClient] Upstream returned an error status",
		slog.String("dependency", dependency),
		slog.Int("status", resp.StatusCode),
		slog.String("message", msg),
		getPreview(body))
	return apperr.Upstream(resp.StatusCode, msg)
}

// errorBodyMessage understands {"error":"..."}, {"error":{"message":"..."}}
// and {"message":"..."}.
func errorBodyMessage(body []byte) string {
	var payload map[string]any
	if err := json.Unmarshal(body, &payload); err != nil {
		return ""
	}
	switch v := payload["error"].(type) {
	case string:
		if s := strings.TrimSpace(v); s != "" {
			return s
		}
	case map[string]any:
		if s, ok := v["message"].(string); ok && strings.TrimSpace(s) != "" {
			return strings.TrimSpace(s)
		}
	}
	if s, ok := payload["message"].(string); ok {
		return strings.TrimSpace(s)
	}
	return ""
}

func readBody(resp *http.Response, dependency string) ([]byte, error) {
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		metrics.ObserveOutbound(dependency, metrics.OutcomeTransport)
		return nil, apperr.Transport(fmt.Sprintf("failed to read %s response", dependency), err)
	}
	return body, nil
}

func isSuccess(status int) bool {
	return status >= 200 && status < 300
}

func getPreview(respBody []byte) slog.Attr {
	raw := string(respBody)
	if len(raw) > 50 {
		raw = raw[:50]
	}
	return slog.String("raw_response", raw)
}
