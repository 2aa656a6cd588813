package inspection

import "errors"

// ErrInvalidURL indicates the primary listing URL failed validation (missing,
// non-http(s), or a private/reserved network target).
var ErrInvalidURL = errors.New("invalid or blocked URL, only public HTTP(S) URLs are allowed")

// ErrManualInputRequired indicates automatic image discovery produced nothing
// and the caller supplied no usable image URLs. The client should prompt for
// manual image URLs.
var ErrManualInputRequired = errors.New("unable to extract images automatically")

// ErrNoFetchableImages indicates image URLs were known but none could be
// downloaded, typically anti-bot protection on the image host.
var ErrNoFetchableImages = errors.New("could not fetch any images, they may be protected")

// ErrNotFound indicates the requested inspection does not exist in either
// partition visible to the caller.
var ErrNotFound = errors.New("inspection not found")
