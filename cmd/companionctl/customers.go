package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
)

func runCreateCustomer(apiURL, name string, aliases []string, out io.Writer) error {
	if name == "" {
		return fmt.Errorf("name cannot be empty")
	}
	payload := map[string]interface{}{
		"name":    name,
		"aliases": aliases,
	}
	body, _ := json.Marshal(payload)
	resp, err := http.Post(apiURL+"/api/customers", "application/json", bytes.NewReader(body))
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode != http.StatusCreated {
		data, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("http %d: %s", resp.StatusCode, string(data))
	}
	_, err = io.Copy(out, resp.Body)
	return err
}

func runListCustomers(apiURL, name string, out io.Writer) error {
	u := apiURL + "/api/customers"
	if name != "" {
		u += "?name=" + url.QueryEscape(name)
	}
	resp, err := http.Get(u)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode != http.StatusOK {
		data, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("http %d: %s", resp.StatusCode, string(data))
	}
	_, err = io.Copy(out, resp.Body)
	return err
}

func runDeleteCustomer(apiURL, customerID string, out io.Writer) error {
	req, err := http.NewRequest(http.MethodDelete, apiURL+"/api/customers/"+customerID, nil)
	if err != nil {
		return err
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode != http.StatusNoContent {
		data, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("http %d: %s", resp.StatusCode, string(data))
	}
	fmt.Fprintln(out, "deleted")
	return nil
}
