package remote

import "fmt"

// NetworkError reports a failed call to an external service. StatusCode is 0
// when no HTTP response was received.
type NetworkError struct {
	Service    string         `json:"service"`
	StatusCode int            `json:"status_code,omitempty"`
	Code       string         `json:"code,omitempty"`
	Message    string         `json:"message,omitempty"`
	Raw        map[string]any `json:"-"`
	Err        error          `json:"-"`
}

func (e *NetworkError) Error() string {
	if e == nil {
		return "network error"
	}
	if e.StatusCode == 0 {
		return fmt.Sprintf("%s unreachable: %v", e.Service, e.Err)
	}
	if e.Message != "" {
		if e.Code != "" {
			return fmt.Sprintf("%s error: status=%d code=%s message=%s", e.Service, e.StatusCode, e.Code, e.Message)
		}
		return fmt.Sprintf("%s error: status=%d message=%s", e.Service, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("%s error: status=%d", e.Service, e.StatusCode)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// Unreachable reports whether the request never got a response.
func (e *NetworkError) Unreachable() bool { return e.StatusCode == 0 }

// ClientSide reports a 4xx rejection; resending the same request will not help.
func (e *NetworkError) ClientSide() bool { return e.StatusCode >= 400 && e.StatusCode < 500 }

// parseErrorBody fills Message and Code from the common error body shapes:
// {"error": "msg"}, {"message": "msg"} and {"error": {"message", "code"}}.
func (e *NetworkError) parseErrorBody(raw map[string]any) {
	e.Raw = raw
	switch v := raw["error"].(type) {
	case string:
		e.Message = v
		return
	case map[string]any:
		if msg, ok := v["message"].(string); ok {
			e.Message = msg
		}
		if code, ok := v["code"].(string); ok {
			e.Code = code
		}
		return
	}
	if msg, ok := raw["message"].(string); ok {
		e.Message = msg
	}
	if code, ok := raw["code"].(string); ok {
		e.Code = code
	}
}
