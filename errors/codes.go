package errors

// Transfer failure codes. They follow libcurl's numbering, negated so they
// can never be mistaken for an HTTP status.
const (
	CodeUnsupportedProtocol    = -1
	CodeFailedInit             = -2
	CodeURLMalformat           = -3
	CodeCouldntResolveHost     = -6
	CodeCouldntConnect         = -7
	CodeOperationTimedOut      = -28
	CodeSSLConnectError        = -35
	CodeAbortedByCallback      = -42
	CodeTooManyRedirects       = -47
	CodeGotNothing             = -52
	CodeSendError              = -55
	CodeRecvError              = -56
	CodePeerFailedVerification = -60
	CodeUnknown                = -1000
	CodeNotInitialized         = -2000
	CodeDisabled               = -2001
)

var codeText = map[int]string{
	CodeUnsupportedProtocol:    "unsupported protocol",
	CodeFailedInit:             "failed initialization",
	CodeURLMalformat:           "URL using bad/illegal format or missing URL",
	CodeCouldntResolveHost:     "couldn't resolve host name",
	CodeCouldntConnect:         "couldn't connect to server",
	CodeOperationTimedOut:      "timeout was reached",
	CodeSSLConnectError:        "SSL connect error",
	CodeAbortedByCallback:      "operation was aborted",
	CodeTooManyRedirects:       "number of redirects hit maximum amount",
	CodeGotNothing:             "server returned nothing (no headers, no data)",
	CodeSendError:              "failed sending data to the peer",
	CodeRecvError:              "failure when receiving data from the peer",
	CodePeerFailedVerification: "SSL peer certificate or SSH remote key was not OK",
	CodeUnknown:                "unknown error",
	CodeNotInitialized:         "transport not initialized",
	CodeDisabled:               "transport disabled",
}

// CodeText returns the description of a failure code, or "" when unknown.
func CodeText(code int) string {
	return codeText[code]
}

// Transfer builds a transfer failure with the standard description of code.
func Transfer(code int, cause error) *Error {
	text, ok := codeText[code]
	if !ok {
		text = codeText[CodeUnknown]
	}
	return New(code, text).WithCause(cause)
}

// IsHTTPStatus reports whether code lies in the HTTP status range 100..599.
func IsHTTPStatus(code int) bool {
	return code >= 100 && code <= 599
}
