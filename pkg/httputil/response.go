package httputil

import (
	"encoding/json"

	"github.com/valyala/fasthttp"
)

// Response is the JSON envelope used by every API endpoint
type Response struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// ErrorMapper translates an error into an HTTP status and message
type ErrorMapper interface {
	MapErrorToHTTP(err error) (int, string)
}

// WriteResponse writes a successful JSON response
func WriteResponse(ctx *fasthttp.RequestCtx, data interface{}) {
	WriteResponseWithStatus(ctx, data, fasthttp.StatusOK)
}

// WriteResponseWithStatus writes a successful JSON response with custom status
func WriteResponseWithStatus(ctx *fasthttp.RequestCtx, data interface{}, status int) {
	writeJSON(ctx, Response{Success: true, Data: data}, status)
}

// WriteErrorResponse writes an error JSON response
func WriteErrorResponse(ctx *fasthttp.RequestCtx, message string, status int) {
	writeJSON(ctx, Response{Success: false, Error: message}, status)
}

// WriteMappedError writes err using the status chosen by mapper
func WriteMappedError(ctx *fasthttp.RequestCtx, mapper ErrorMapper, err error) {
	status, message := mapper.MapErrorToHTTP(err)
	WriteErrorResponse(ctx, message, status)
}

// WriteHealthResponse writes a health check response
func WriteHealthResponse(ctx *fasthttp.RequestCtx, data interface{}, healthy bool) {
	status := fasthttp.StatusOK
	if !healthy {
		status = fasthttp.StatusServiceUnavailable
	}
	writeJSON(ctx, data, status)
}

// WriteBinary writes raw bytes with the given content type
func WriteBinary(ctx *fasthttp.RequestCtx, contentType string, body []byte) {
	ctx.SetContentType(contentType)
	ctx.SetStatusCode(fasthttp.StatusOK)
	ctx.SetBody(body)
}

func writeJSON(ctx *fasthttp.RequestCtx, data interface{}, status int) {
	ctx.SetContentType("application/json")
	ctx.SetStatusCode(status)

	body, err := json.Marshal(data)
	if err != nil {
		ctx.SetStatusCode(fasthttp.StatusInternalServerError)
		ctx.SetBody([]byte(`{"success":false,"error":"failed to marshal response"}`))
		return
	}

	ctx.SetBody(body)
}
