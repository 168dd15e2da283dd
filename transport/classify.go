package transport

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"io"
	"net"
	"net/url"
	"os"
	"strings"

	"github.com/kochabx/restclient/errors"
)

// ErrTooManyRedirects is returned by redirect policies once the limit is hit.
var ErrTooManyRedirects = errors.Sentinel("stopped after too many redirects")

// ValidateURL checks that raw names an http or https resource.
func ValidateURL(raw string) *errors.Error {
	if raw == "" {
		return errors.Transfer(errors.CodeURLMalformat, errors.Sentinel("empty URL"))
	}
	u, err := url.Parse(raw)
	if err != nil {
		return errors.Transfer(errors.CodeURLMalformat, err)
	}
	switch strings.ToLower(u.Scheme) {
	case "http", "https":
	case "":
		return errors.Transfer(errors.CodeURLMalformat, errors.Sentinel("missing scheme in "+raw))
	default:
		return errors.Transfer(errors.CodeUnsupportedProtocol, errors.Sentinel("scheme "+u.Scheme+" not supported"))
	}
	if u.Host == "" {
		return errors.Transfer(errors.CodeURLMalformat, errors.Sentinel("missing host in "+raw))
	}
	return nil
}

// Classify maps a transfer error to a coded error. Errors that already carry
// a code are returned as-is.
func Classify(err error) *errors.Error {
	if err == nil {
		return nil
	}
	var ce *errors.Error
	if errors.As(err, &ce) {
		return ce
	}
	return errors.Transfer(classify(err), err)
}

func classify(err error) int {
	switch {
	case errors.Is(err, ErrTooManyRedirects):
		return errors.CodeTooManyRedirects
	case errors.Is(err, context.Canceled):
		return errors.CodeAbortedByCallback
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, os.ErrDeadlineExceeded):
		return errors.CodeOperationTimedOut
	}

	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		if dnsErr.IsTimeout {
			return errors.CodeOperationTimedOut
		}
		return errors.CodeCouldntResolveHost
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return errors.CodeOperationTimedOut
	}

	if isVerificationError(err) {
		return errors.CodePeerFailedVerification
	}
	var recordErr tls.RecordHeaderError
	if errors.As(err, &recordErr) {
		return errors.CodeSSLConnectError
	}

	var opErr *net.OpError
	if errors.As(err, &opErr) {
		switch opErr.Op {
		case "dial":
			return errors.CodeCouldntConnect
		case "read":
			return errors.CodeRecvError
		case "write":
			return errors.CodeSendError
		}
	}

	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return errors.CodeGotNothing
	}

	// net/http reports these without a typed error.
	msg := err.Error()
	switch {
	case strings.Contains(msg, "unsupported protocol scheme"):
		return errors.CodeUnsupportedProtocol
	case strings.Contains(msg, "server gave HTTP response to HTTPS client"),
		strings.Contains(msg, "tls: "):
		return errors.CodeSSLConnectError
	case strings.Contains(msg, "no Host in request URL"),
		strings.Contains(msg, "invalid URL"):
		return errors.CodeURLMalformat
	}
	return errors.CodeUnknown
}

func isVerificationError(err error) bool {
	var verifyErr *tls.CertificateVerificationError
	var authorityErr x509.UnknownAuthorityError
	var hostnameErr x509.HostnameError
	var invalidErr x509.CertificateInvalidError
	return errors.As(err, &verifyErr) ||
		errors.As(err, &authorityErr) ||
		errors.As(err, &hostnameErr) ||
		errors.As(err, &invalidErr)
}
