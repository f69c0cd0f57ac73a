package cmd

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"

	"flowline/internal/cli/client"
	"flowline/internal/common"
)

// call sends a JSON request, checks the response envelope and decodes its
// data payload into out (which may be nil).
func call(method, path string, reqBody any, out any) error {
	var body *bytes.Buffer
	if reqBody != nil {
		jsonData, err := json.Marshal(reqBody)
		if err != nil {
			return fmt.Errorf("serialize request: %w", err)
		}
		body = bytes.NewBuffer(jsonData)
	} else {
		body = &bytes.Buffer{}
	}

	resp, err := client.SendRequest(method, path, body)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	raw, err := client.ReadResponseBody(resp)
	if err != nil {
		return err
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("request failed: %s", string(raw))
	}

	var envelope common.Response
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return fmt.Errorf("deserialize response: %w", err)
	}
	if envelope.Code != common.SuccessCode {
		return fmt.Errorf("%s", envelope.Message)
	}
	if out == nil || envelope.Data == nil {
		return nil
	}

	data, err := json.Marshal(envelope.Data)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, out)
}
