package derivative

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

func (c *Client) getJSON(ctx context.Context, accessToken, endpoint string, out any, operation string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("create %s request: %w", operation, err)
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("derivative %s request: %w", operation, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return &HTTPStatusError{
			Operation:  operation,
			StatusCode: resp.StatusCode,
			Status:     resp.Status,
			Body:       strings.TrimSpace(string(body)),
		}
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s response: %w", operation, err)
	}
	return nil
}

type manifestResponse struct {
	Status      string               `json:"status"`
	Derivatives []manifestDerivative `json:"derivatives"`
}

type manifestDerivative struct {
	OutputType string          `json:"outputType"`
	Status     string          `json:"status"`
	Children   []manifestChild `json:"children"`
}

type manifestChild struct {
	GUID string `json:"guid"`
	Type string `json:"type"`
	Role string `json:"role"`
}

type propertiesResponse struct {
	Data struct {
		Collection []propertyObject `json:"collection"`
	} `json:"data"`
}

type propertyObject struct {
	ObjectID   int                       `json:"objectid"`
	Name       string                    `json:"name"`
	Properties map[string]map[string]any `json:"properties"`
}
