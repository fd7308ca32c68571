package http

import (
	"io"
	"net/http"

	"github.com/abdul-hamid-achik/diplomat/packages/handler"
)

// readResponse drains httpResp into the classifier input. The status line
// is kept apart from the headers.
func readResponse(httpResp *http.Response, info handler.Info, call string) (handler.Raw, error) {
	defer httpResp.Body.Close()

	body, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return handler.Raw{}, err
	}

	headers := make(map[string]string, len(httpResp.Header))
	for k := range httpResp.Header {
		headers[k] = httpResp.Header.Get(k)
	}

	info.ContentType = httpResp.Header.Get("Content-Type")
	info.ContentLength = httpResp.ContentLength
	if info.ContentLength < 0 {
		info.ContentLength = int64(len(body))
	}

	return handler.Raw{
		Body:       string(body),
		Proto:      httpResp.Proto + " " + httpResp.Status,
		Headers:    headers,
		StatusCode: httpResp.StatusCode,
		Info:       info,
		Call:       call,
	}, nil
}

// transportFailure describes a request that never produced a response.
func transportFailure(err error, info handler.Info, call string) handler.Raw {
	info.Err = err
	return handler.Raw{
		Body:    err.Error(),
		Headers: map[string]string{},
		Info:    info,
		Call:    call,
	}
}
