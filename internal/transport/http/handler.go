package http

import (
	"bytes"
	"encoding/json"
	"net/http"
	"strings"

	gateapp "github.com/shopsphere/authgate/internal/app/gate"
	"github.com/shopsphere/authgate/internal/domain/gate"
	"github.com/shopsphere/authgate/internal/domain/routes"
	"github.com/shopsphere/authgate/pkg/tracer"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"
)

const (
	authorizationHeader   = "Authorization"
	forwardedURIHeader    = "X-Forwarded-Uri"
	forwardedMethodHeader = "X-Forwarded-Method"
)

// rejectionBody is the fixed 401 contract: callers may rely on the shape,
// the detail text is diagnostic only.
type rejectionBody struct {
	Error  string `json:"error"`
	Detail string `json:"detail"`
}

// Handler serves the ForwardAuth check endpoint.
type Handler struct {
	gateService gateapp.Service
	public      *routes.Matcher
}

func NewHandler(gateService gateapp.Service, public *routes.Matcher) *Handler {
	return &Handler{
		gateService: gateService,
		public:      public,
	}
}

// Check is the per-request authentication gate a fronting proxy delegates
// to. Allowed requests answer 200 with the identity headers for the proxy
// to copy onto the upstream request; everything else answers 401 with the
// fixed JSON body.
func (h *Handler) Check(c *gin.Context) {
	ctx, span := tracer.Start(c.Request.Context(), "transport.http.Check")
	defer span.End()

	path := c.GetHeader(forwardedURIHeader)
	if path == "" {
		path = c.Request.URL.Path
	}
	method := c.GetHeader(forwardedMethodHeader)
	if method == "" {
		method = c.Request.Method
	}

	if h.public != nil && h.public.Match(stripQuery(path), method) {
		span.SetAttributes(attribute.Bool("gate.public_route", true))
		c.Status(http.StatusOK)
		return
	}

	verdict := h.gateService.Authenticate(ctx, c.GetHeader(authorizationHeader))
	if !verdict.Allow {
		writeRejection(c, verdict)
		return
	}

	for key, value := range verdict.Headers {
		c.Header(key, value)
	}
	c.Status(http.StatusOK)
}

func writeRejection(c *gin.Context, verdict *gate.Verdict) {
	c.Abort()
	// Encode by hand: the detail text contains angle brackets, which gin's
	// default JSON renderer would HTML-escape on the wire, and the body
	// contract is exact bytes with no trailing newline.
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(rejectionBody{
		Error:  "Unauthorized",
		Detail: verdict.Reason,
	}); err != nil {
		c.Status(verdict.Status)
		return
	}
	c.Data(verdict.Status, "application/json; charset=utf-8", bytes.TrimSuffix(buf.Bytes(), []byte("\n")))
}

func stripQuery(uri string) string {
	if i := strings.IndexByte(uri, '?'); i >= 0 {
		return uri[:i]
	}
	return uri
}
