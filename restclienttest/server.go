// Package restclienttest provides HTTP servers for exercising the client in
// tests.
package restclienttest

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
)

// Response headers set by the echo route.
const (
	HeaderEchoMethod      = "X-Echo-Method"
	HeaderEchoContentType = "X-Echo-Content-Type"
	HeaderEchoLength      = "X-Echo-Length"
)

// Cookie set by /cookies/set.
const (
	CookieName  = "session"
	CookieValue = "abc"
)

// Server is a test server with a fixed set of routes:
//
//	GET  /ok                plain-text "ok"
//	ANY  /status/:code      replies with code and its status text
//	ANY  /echo              echoes method, content type and body; ?status= overrides 200
//	GET  /headers           request headers as JSON
//	GET  /redirect/:n       redirects via /redirect/n-1 .. /redirect/0 to /ok (n+1 hops)
//	GET  /cookies/set       sets cookie session=abc
//	GET  /cookies           echoes the request Cookie header
//	GET  /slow              replies after ?delay= (default 1s) unless the client goes away
//	GET  /hangup            closes the connection without replying
type Server struct {
	*httptest.Server
	Engine *gin.Engine
}

// NewServer starts a plain HTTP server. Callers must Close it.
func NewServer() *Server {
	engine := newEngine()
	return &Server{Server: httptest.NewServer(engine), Engine: engine}
}

// NewTLSServer starts an HTTPS server with a self-signed certificate.
func NewTLSServer() *Server {
	engine := newEngine()
	return &Server{Server: httptest.NewTLSServer(engine), Engine: engine}
}

// URLFor joins the server address and path.
func (s *Server) URLFor(path string) string {
	return s.URL + path
}

func newEngine() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()

	r.GET("/ok", func(c *gin.Context) {
		c.Data(http.StatusOK, "text/plain", []byte("ok"))
	})
	r.Any("/status/:code", handleStatus)
	r.Any("/echo", handleEcho)
	r.GET("/headers", func(c *gin.Context) {
		c.JSON(http.StatusOK, c.Request.Header)
	})
	r.GET("/redirect/:n", handleRedirect)
	r.GET("/cookies/set", func(c *gin.Context) {
		c.SetCookie(CookieName, CookieValue, 3600, "/", "", false, true)
		c.Data(http.StatusOK, "text/plain", []byte("set"))
	})
	r.GET("/cookies", func(c *gin.Context) {
		c.Data(http.StatusOK, "text/plain", []byte(c.GetHeader("Cookie")))
	})
	r.GET("/slow", handleSlow)
	r.GET("/hangup", handleHangup)

	return r
}

func handleStatus(c *gin.Context) {
	code, err := strconv.Atoi(c.Param("code"))
	if err != nil || code < 200 || code > 599 {
		c.Data(http.StatusBadRequest, "text/plain", []byte("bad status"))
		return
	}
	c.Data(code, "text/plain", []byte(http.StatusText(code)))
}

func handleEcho(c *gin.Context) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.Status(http.StatusBadRequest)
		return
	}

	status := http.StatusOK
	if s := c.Query("status"); s != "" {
		if parsed, err := strconv.Atoi(s); err == nil {
			status = parsed
		}
	}

	contentType := c.ContentType()
	c.Header(HeaderEchoMethod, c.Request.Method)
	c.Header(HeaderEchoContentType, contentType)
	c.Header(HeaderEchoLength, strconv.Itoa(len(body)))
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	c.Data(status, contentType, body)
}

func handleRedirect(c *gin.Context) {
	n, err := strconv.Atoi(c.Param("n"))
	if err != nil || n < 0 {
		c.Status(http.StatusBadRequest)
		return
	}
	if n == 0 {
		c.Redirect(http.StatusFound, "/ok")
		return
	}
	c.Redirect(http.StatusFound, "/redirect/"+strconv.Itoa(n-1))
}

func handleSlow(c *gin.Context) {
	delay := time.Second
	if d, err := time.ParseDuration(c.Query("delay")); err == nil {
		delay = d
	}

	select {
	case <-time.After(delay):
		c.Data(http.StatusOK, "text/plain", []byte("ok"))
	case <-c.Request.Context().Done():
	}
}

func handleHangup(c *gin.Context) {
	conn, _, err := c.Writer.Hijack()
	if err != nil {
		c.Status(http.StatusInternalServerError)
		return
	}
	conn.Close()
}
