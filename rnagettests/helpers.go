package rnagettests

import (
	"encoding/json"

	"gopkg.in/launchdarkly/go-sdk-common.v2/ldvalue"

	"github.com/ga4gh/rnaget-compliance-suite/client"
	"github.com/ga4gh/rnaget-compliance-suite/registry"
)

// nonexistentID is deliberately not a real object id on any server.
// Negative tests request it and assert the specific 404 failure mode.
const nonexistentID = "nonexistentid9999999999999999"

// getExpectingStatus issues a GET and fails the case unless the
// response arrives with the expected status code. A transport failure
// is a failing case too, never an aborted run.
func getExpectingStatus(t *registry.T, c *registry.Case, path string, query map[string]string, wantStatus int) (*client.Response, bool) {
	resp, err := t.Client.Get(path, query, c.Logger())
	if err != nil {
		c.Fail("request to %s did not complete: %s", path, err)
		return nil, false
	}
	if resp.StatusCode != wantStatus {
		c.Fail("expected status %d from %s, got %d", wantStatus, path, resp.StatusCode)
		return resp, false
	}
	return resp, true
}

// parseValue decodes the response body as JSON of the given type.
func parseValue(c *registry.Case, resp *client.Response, wantType ldvalue.ValueType) (ldvalue.Value, bool) {
	var v ldvalue.Value
	if err := json.Unmarshal(resp.Body, &v); err != nil {
		c.Fail("response body is not valid JSON: %s", err)
		return ldvalue.Null(), false
	}
	if v.Type() != wantType {
		c.Fail("expected response body to be a JSON %s, got %s", wantType, v.Type())
		return v, false
	}
	return v, true
}

// checkStringField verifies that a JSON object carries a non-empty
// string property.
func checkStringField(c *registry.Case, v ldvalue.Value, field string) bool {
	fv := v.GetByKey(field)
	if fv.Type() != ldvalue.StringType {
		c.Fail("expected object property %q to be a string, got %s", field, fv.Type())
		return false
	}
	if fv.StringValue() == "" {
		c.Fail("object property %q is empty", field)
		return false
	}
	c.Logf("property %q = %q", field, fv.StringValue())
	return true
}

// skipUnlessResponse marks the case skipped when a previous case in the
// same test did not yield a successful response to validate.
func skipUnlessResponse(c *registry.Case, resp *client.Response) bool {
	if resp == nil {
		c.Skip("no successful response available to validate")
		return false
	}
	return true
}
