package main

import (
	"fmt"

	"github.com/go-resty/resty/v2"
)

// newClient builds a resty client against the configured API, attaching the
// session token when one is set.
func newClient() *resty.Client {
	c := resty.New().SetBaseURL(apiFlag)
	if tokenFlag != "" {
		c.SetHeader("Authorization", "Bearer "+tokenFlag)
	}
	return c
}

// do executes the prepared request and returns the body, treating any
// non-2xx status as an error.
func do(req *resty.Request, method, path string) ([]byte, error) {
	resp, err := req.Execute(method, path)
	if err != nil {
		return nil, err
	}
	if resp.IsError() {
		return nil, fmt.Errorf("%s %s: status %d: %s", method, path, resp.StatusCode(), resp.String())
	}
	return resp.Body(), nil
}
