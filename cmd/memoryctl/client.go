package main

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/go-resty/resty/v2"
)

func newClient(baseURL string) *resty.Client {
	return resty.New().
		SetBaseURL(baseURL).
		SetHeader("Content-Type", "application/json").
		SetTimeout(30 * time.Second)
}

func checkStatus(resp *resty.Response) error {
	if resp.StatusCode() >= 200 && resp.StatusCode() < 300 {
		return nil
	}
	return fmt.Errorf("service returned %s: %s", resp.Status(), resp.String())
}

func printJSON(out io.Writer, v interface{}) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func runClassify(api, user, message string, save bool, out io.Writer) error {
	var result map[string]interface{}
	resp, err := newClient(api).R().
		SetBody(map[string]interface{}{"message": message, "save": save}).
		SetResult(&result).
		Post(fmt.Sprintf("/api/users/%s/classify", user))
	if err != nil {
		return err
	}
	if err := checkStatus(resp); err != nil {
		return err
	}
	return printJSON(out, result)
}

func runRetrieve(api, user, message string, out io.Writer) error {
	var result map[string]interface{}
	resp, err := newClient(api).R().
		SetBody(map[string]interface{}{"message": message}).
		SetResult(&result).
		Post(fmt.Sprintf("/api/users/%s/retrieve", user))
	if err != nil {
		return err
	}
	if err := checkStatus(resp); err != nil {
		return err
	}
	return printJSON(out, result)
}

func runSearch(api, user, memoryType string, tags []string, minRelevance float64, notExpired bool, limit int, out io.Writer) error {
	criteria := map[string]interface{}{}
	if memoryType != "" {
		criteria["types"] = []string{memoryType}
	}
	if len(tags) > 0 {
		criteria["tags"] = tags
	}
	if minRelevance > 0 {
		criteria["minRelevance"] = minRelevance
	}
	if notExpired {
		criteria["notExpired"] = true
	}
	if limit > 0 {
		criteria["limit"] = limit
	}

	var result map[string]interface{}
	resp, err := newClient(api).R().
		SetBody(criteria).
		SetResult(&result).
		Post(fmt.Sprintf("/api/users/%s/memories/search", user))
	if err != nil {
		return err
	}
	if err := checkStatus(resp); err != nil {
		return err
	}
	return printJSON(out, result)
}

func runStats(api, user string, out io.Writer) error {
	var result map[string]interface{}
	resp, err := newClient(api).R().
		SetResult(&result).
		Get(fmt.Sprintf("/api/users/%s/stats", user))
	if err != nil {
		return err
	}
	if err := checkStatus(resp); err != nil {
		return err
	}
	return printJSON(out, result)
}

func runCleanup(api, user string, days int, out io.Writer) error {
	var result map[string]interface{}
	req := newClient(api).R().SetResult(&result)
	if days > 0 {
		req.SetBody(map[string]interface{}{"retentionDays": days})
	}
	resp, err := req.Post(fmt.Sprintf("/api/users/%s/cleanup", user))
	if err != nil {
		return err
	}
	if err := checkStatus(resp); err != nil {
		return err
	}
	return printJSON(out, result)
}
