// Copyright 2024 The Chartfold Authors.
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"bytes"
	"encoding/base64"
	"errors"
	"net/http"
	"unicode/utf8"

	"github.com/aws/aws-lambda-go/events"
)

const defaultStatusCode = -1

// ProxyResponseWriter implements http.ResponseWriter and collects the
// written response into an ALB target group response.
type ProxyResponseWriter struct {
	headers http.Header
	body    bytes.Buffer
	status  int
}

func NewProxyResponseWriter() *ProxyResponseWriter {
	return &ProxyResponseWriter{
		headers: make(http.Header),
		status:  defaultStatusCode,
	}
}

func (r *ProxyResponseWriter) Header() http.Header {
	return r.headers
}

func (r *ProxyResponseWriter) Write(body []byte) (int, error) {
	if r.status == defaultStatusCode {
		r.status = http.StatusOK
	}

	return r.body.Write(body)
}

func (r *ProxyResponseWriter) WriteHeader(status int) {
	r.status = status
}

func (r *ProxyResponseWriter) GetProxyResponse() (events.ALBTargetGroupResponse, error) {
	if r.status == defaultStatusCode {
		return events.ALBTargetGroupResponse{}, errors.New("Status code not set on response")
	}

	respBody := r.body.Bytes()

	headers := make(map[string]string)
	for headerKey, headerValue := range r.headers {
		headers[headerKey] = headerValue[0]
	}

	if _, ok := headers["Content-Type"]; !ok {
		headers["Content-Type"] = http.DetectContentType(respBody)
	}

	isBase64 := !utf8.Valid(respBody)
	body := string(respBody)
	if isBase64 {
		body = base64.StdEncoding.EncodeToString(respBody)
	}

	return events.ALBTargetGroupResponse{
		StatusCode:        r.status,
		StatusDescription: http.StatusText(r.status),
		Headers:           headers,
		Body:              body,
		IsBase64Encoded:   isBase64,
	}, nil
}
