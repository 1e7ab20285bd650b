package output

import (
	"encoding/json"
	"io"
	"os"
)

// Response represents a standard JSON response
type Response struct {
	SchemaVersion string      `json:"schema_version"`
	Success       bool        `json:"success"`
	Data          interface{} `json:"data,omitempty"`
	Error         string      `json:"error,omitempty"`
}

// Success wraps a successful response with data
func Success(data interface{}) Response {
	return Response{
		SchemaVersion: "v1",
		Success:       true,
		Data:          data,
	}
}

// Error wraps an error in a response
func Error(err error) Response {
	return Response{
		SchemaVersion: "v1",
		Success:       false,
		Error:         err.Error(),
	}
}

// Config controls where and how Print writes.
type Config struct {
	Writer io.Writer
	Pretty bool
}

// PrintWith encodes v as JSON according to cfg.
func PrintWith(cfg Config, v interface{}) error {
	w := cfg.Writer
	if w == nil {
		w = os.Stdout
	}
	enc := json.NewEncoder(w)
	if cfg.Pretty {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(v)
}

// Print prints a value as JSON to stdout.
// Default is compact JSON; set ERRTRACKER_PRETTY_JSON=1 for humans.
func Print(v interface{}) error {
	pretty := os.Getenv("ERRTRACKER_PRETTY_JSON") == "1" || os.Getenv("ERRTRACKER_PRETTY_JSON") == "true"
	return PrintWith(Config{Pretty: pretty}, v)
}

// PrintSuccess prints a success response
func PrintSuccess(data interface{}) error {
	return Print(Success(data))
}

// PrintError prints an error response
func PrintError(err error) error {
	return Print(Error(err))
}
