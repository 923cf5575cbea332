package client

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/presskeep/presskeep/pkg/types"
)

// ListAbilities fetches the abilities registered on the server.
// category may be empty to list all categories.
func (c *Client) ListAbilities(category string) ([]*types.Ability, error) {
	u, _ := c.constructAPIEndpoint("/abilities")
	if category != "" {
		u += "?category=" + url.QueryEscape(category)
	}

	req, err := c.newRequest(http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request to %s: %w", u, err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request to %s: %w", u, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, c.parseErrorResponse(resp)
	}

	var abilities []*types.Ability
	if err := json.NewDecoder(resp.Body).Decode(&abilities); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	return abilities, nil
}

// GetAbility fetches a single ability, including its input schema.
func (c *Client) GetAbility(name string) (*types.Ability, error) {
	u, _ := c.constructAPIEndpoint("/ability")
	u += "?name=" + url.QueryEscape(name)

	req, err := c.newRequest(http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request to %s: %w", u, err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request to %s: %w", u, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, c.parseErrorResponse(resp)
	}

	var a types.Ability
	if err := json.NewDecoder(resp.Body).Decode(&a); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	return &a, nil
}

// InvokeAbility invokes an ability on the server and returns the result
// envelope. A failed invocation is not an error at this level: the envelope's
// "success" field carries the outcome.
func (c *Client) InvokeAbility(name string, input map[string]any) (map[string]any, error) {
	u, _ := c.constructAPIEndpoint("/abilities/invoke")

	body, err := json.Marshal(types.InvokeAbilityRequest{Name: name, Input: input})
	if err != nil {
		return nil, err
	}

	req, err := c.newRequest(http.MethodPost, u, bytes.NewBuffer(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request to %s: %w", u, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request to %s: %w", u, err)
	}
	defer resp.Body.Close()

	var envelope map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	if _, ok := envelope["success"]; !ok {
		return nil, fmt.Errorf("server returned status %d without a result envelope", resp.StatusCode)
	}
	return envelope, nil
}

// ListCategories fetches the registered ability categories.
func (c *Client) ListCategories() ([]*types.Category, error) {
	u, _ := c.constructAPIEndpoint("/categories")

	req, err := c.newRequest(http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request to %s: %w", u, err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request to %s: %w", u, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, c.parseErrorResponse(resp)
	}

	var categories []*types.Category
	if err := json.NewDecoder(resp.Body).Decode(&categories); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	return categories, nil
}
