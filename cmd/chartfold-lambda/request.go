// Copyright 2024 The Chartfold Authors.
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"bytes"
	"encoding/base64"
	"net/http"
	"net/url"
	"os"
	"strings"

	"github.com/aws/aws-lambda-go/events"
)

// hostEnv overrides the synthetic origin prepended to each event's path.
// The value must include a protocol, e.g. https://render.example.com
const hostEnv = "CHARTFOLD_API_HOST"

const defaultOrigin = "https://chartfold-render-api.invalid"

// requestFromALBEvent rebuilds the http.Request an ALB target group event
// describes, so the render mux can serve it unchanged.
func requestFromALBEvent(event events.ALBTargetGroupRequest) (*http.Request, error) {
	body := []byte(event.Body)
	if event.IsBase64Encoded {
		decoded, err := base64.StdEncoding.DecodeString(event.Body)
		if err != nil {
			return nil, err
		}
		body = decoded
	}

	path := event.Path
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	origin := defaultOrigin
	if custom, found := os.LookupEnv(hostEnv); found {
		origin = custom
	}

	reqURL := origin + path
	if len(event.MultiValueQueryStringParameters) > 0 {
		query := url.Values{}
		for name, vals := range event.MultiValueQueryStringParameters {
			for _, val := range vals {
				query.Add(name, val)
			}
		}
		reqURL += "?" + query.Encode()
	}

	req, err := http.NewRequest(strings.ToUpper(event.HTTPMethod), reqURL, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}

	for name, val := range event.Headers {
		req.Header.Add(name, val)
	}
	for name, vals := range event.MultiValueHeaders {
		for _, val := range vals {
			req.Header.Add(name, val)
		}
	}
	return req, nil
}
