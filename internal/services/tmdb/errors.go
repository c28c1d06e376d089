package tmdb

import (
	"errors"
	"fmt"
)

// ErrorKind classifies a failed fetch
type ErrorKind int

const (
	// KindGeneric covers everything that is neither transport nor decode,
	// e.g. non-2xx responses or a request that could not be built
	KindGeneric ErrorKind = iota
	// KindTransport means the HTTP round trip itself failed
	KindTransport
	// KindDecode means the body could not be parsed into MovieDto at all
	KindDecode
)

func (k ErrorKind) String() string {
	switch k {
	case KindTransport:
		return "transport"
	case KindDecode:
		return "decode"
	default:
		return "generic"
	}
}

// FetchError is returned by every Client fetch method on failure
type FetchError struct {
	Kind     ErrorKind
	Endpoint string
	Err      error
}

func (e *FetchError) Error() string {
	if e == nil {
		return "tmdb fetch error"
	}
	return fmt.Sprintf("tmdb %s request failed (%s): %v", e.Endpoint, e.Kind, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// StatusError reports a non-2xx response from TMDb
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("API returned status %d", e.StatusCode)
	}
	return fmt.Sprintf("API returned status %d: %s", e.StatusCode, e.Body)
}

// KindOf returns the kind of a fetch error, KindGeneric for anything else
func KindOf(err error) ErrorKind {
	var fe *FetchError
	if errors.As(err, &fe) {
		return fe.Kind
	}
	return KindGeneric
}

// IsTransport reports whether err is a transport failure
func IsTransport(err error) bool {
	return err != nil && KindOf(err) == KindTransport
}

// IsDecode reports whether err is a payload decode failure
func IsDecode(err error) bool {
	return err != nil && KindOf(err) == KindDecode
}
