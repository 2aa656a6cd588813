package ai

import "errors"

// ErrGateway indicates the AI gateway returned a non-success status or was
// unreachable.
var ErrGateway = errors.New("ai gateway request failed")

// ErrNotConfigured indicates no API key was provided for the gateway.
var ErrNotConfigured = errors.New("ai service not configured")

// ErrUnparsableReply indicates the gateway reply contained no parsable JSON
// object. There is no repair or re-prompt attempt.
var ErrUnparsableReply = errors.New("failed to parse ai response")
