package importer

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors returned by the run service.
var (
	// ErrNoRows means the input contained no importable rows after header
	// and blank-row filtering.
	ErrNoRows = errors.New("no importable rows in file")

	// ErrRunNotFound means the run id is unknown or already cleaned up.
	ErrRunNotFound = errors.New("import run not found")

	// ErrTooManyRuns means the concurrent run limit was reached.
	ErrTooManyRuns = errors.New("too many imports in progress")
)

// UserMessage is the user-facing rendering of an error, with a stable
// code operators can quote to support.
type UserMessage struct {
	Message string // what happened
	Action  string // what to do about it
	Code    string // support reference
}

type errorPattern struct {
	pattern string
	msg     UserMessage
}

// errorPatterns maps technical error text (case-insensitive) to user
// messages. Matching uses strings.Contains and the first hit wins, so
// specific patterns come before general ones.
//
// Codes are grouped by category:
//
//	FILE001-FILE099  file handling and parsing
//	RUN001-RUN099    run lifecycle
//	CAT001-CAT099    catalog service communication
//	RATE001          request throttling
//	ERR000           fallback
var errorPatterns = []errorPattern{
	{
		pattern: "no importable rows",
		msg: UserMessage{
			Message: "The file contains no product rows",
			Action:  "Check that the sheet has data below the header row",
			Code:    "FILE001",
		},
	},
	{
		pattern: "file too large",
		msg: UserMessage{
			Message: "File exceeds the maximum size limit",
			Action:  "Split the file into smaller chunks",
			Code:    "FILE002",
		},
	},
	{
		pattern: "invalid csv",
		msg: UserMessage{
			Message: "File is not a valid CSV",
			Action:  "Ensure the file is comma-separated with consistent columns",
			Code:    "FILE003",
		},
	},
	{
		pattern: "no file provided",
		msg: UserMessage{
			Message: "No file was selected",
			Action:  "Please select a file to import",
			Code:    "FILE004",
		},
	},
	{
		pattern: "run not found",
		msg: UserMessage{
			Message: "Import run not found",
			Action:  "The run may have expired. Please start a new import",
			Code:    "RUN001",
		},
	},
	{
		pattern: "too many imports",
		msg: UserMessage{
			Message: "System is busy processing other imports",
			Action:  "Please wait a moment and try again",
			Code:    "RUN002",
		},
	},
	{
		pattern: "context canceled",
		msg: UserMessage{
			Message: "The import was cancelled",
			Action:  "Start a new import when ready",
			Code:    "RUN003",
		},
	},
	{
		pattern: "context deadline exceeded",
		msg: UserMessage{
			Message: "The import timed out",
			Action:  "Try a smaller file or check your connection",
			Code:    "RUN004",
		},
	},
	{
		pattern: "connection refused",
		msg: UserMessage{
			Message: "Unable to reach the catalog service",
			Action:  "Please try again in a few moments",
			Code:    "CAT001",
		},
	},
	{
		pattern: "connection reset",
		msg: UserMessage{
			Message: "The catalog service connection was interrupted",
			Action:  "Please try again",
			Code:    "CAT002",
		},
	},
	{
		pattern: "rate limit",
		msg: UserMessage{
			Message: "Too many requests",
			Action:  "Please wait a moment before trying again",
			Code:    "RATE001",
		},
	},
}

// defaultMessage is the ERR000 fallback. Logs carry the original error.
var defaultMessage = UserMessage{
	Message: "An unexpected error occurred",
	Action:  "Please try again or contact support",
	Code:    "ERR000",
}

// MapError converts a technical error to its user-facing message. Unknown
// errors map to ERR000.
func MapError(err error) UserMessage {
	if err == nil {
		return UserMessage{}
	}

	errStr := strings.ToLower(err.Error())
	for _, ep := range errorPatterns {
		if strings.Contains(errStr, ep.pattern) {
			return ep.msg
		}
	}
	return defaultMessage
}

// FormatUserError renders an error as "Message (Code: XXX). Action".
func FormatUserError(err error) string {
	msg := MapError(err)
	if msg.Message == "" {
		return ""
	}
	return fmt.Sprintf("%s (Code: %s). %s", msg.Message, msg.Code, msg.Action)
}
