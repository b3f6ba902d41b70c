package remote

import "fmt"

// CreateRequest provisions a sandbox.
type CreateRequest struct {
	ID       string `json:"id"`
	Template string `json:"template"`
}

// ExecuteRequest runs code in a sandbox.
type ExecuteRequest struct {
	Code     string `json:"code"`
	Language string `json:"language"`
}

// Execution is what one run produced.
type Execution struct {
	Stdout  []string        `json:"stdout"`
	Stderr  []string        `json:"stderr"`
	Results []Result        `json:"results,omitempty"`
	Error   *ExecutionError `json:"error,omitempty"`
}

// Result is a rich value displayed by the code, such as a rendered plot.
// Image data is base64 encoded.
type Result struct {
	Text string `json:"text,omitempty"`
	PNG  string `json:"png,omitempty"`
	JPEG string `json:"jpeg,omitempty"`
}

// ExecutionError is an exception raised by the executed code.
type ExecutionError struct {
	Name      string `json:"name"`
	Value     string `json:"value"`
	Traceback string `json:"traceback"`
}

// String formats the error as "<Name>: <Value>\n<Traceback>".
func (e *ExecutionError) String() string {
	return fmt.Sprintf("%s: %s\n%s", e.Name, e.Value, e.Traceback)
}
