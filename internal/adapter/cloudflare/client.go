package cloudflare

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/chiwei-platform/serverless-engine/internal/domain"
	"github.com/chiwei-platform/serverless-engine/internal/port"
)

var _ port.EdgeCache = (*Client)(nil)

const defaultBaseURL = "https://api.cloudflare.com/client/v4"

// Client 通过 Cloudflare HTTP API 清除边缘缓存并查询流量指标。
type Client struct {
	baseURL    string
	apiToken   string
	zoneID     string
	httpClient *http.Client
}

func NewClient(baseURL, apiToken, zoneID string) *Client {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &Client{
		baseURL:  strings.TrimRight(baseURL, "/"),
		apiToken: apiToken,
		zoneID:   zoneID,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// PurgeHosts 按主机名清除缓存。调用方只关心 2xx 与否。
func (c *Client) PurgeHosts(ctx context.Context, hosts []string) error {
	if len(hosts) == 0 {
		return nil
	}
	body, err := json.Marshal(map[string][]string{"hosts": hosts})
	if err != nil {
		return fmt.Errorf("cloudflare: encode purge body: %w", err)
	}

	reqURL := fmt.Sprintf("%s/zones/%s/purge_cache", c.baseURL, c.zoneID)
	resp, err := c.post(ctx, reqURL, body)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("cloudflare: purge returned status %d", resp.StatusCode)
	}

	var result apiResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return fmt.Errorf("cloudflare: decode purge response: %w", err)
	}
	if !result.Success {
		return fmt.Errorf("cloudflare: purge not successful: %s", result.firstError())
	}
	return nil
}

// QueryTraffic 通过 GraphQL analytics 查询指定主机名的聚合指标。
func (c *Client) QueryTraffic(ctx context.Context, host string, since, until time.Time) (*domain.TrafficStats, error) {
	payload := graphqlRequest{
		Query: trafficQuery,
		Variables: map[string]interface{}{
			"zoneTag": c.zoneID,
			"host":    host,
			"since":   since.UTC().Format(time.RFC3339),
			"until":   until.UTC().Format(time.RFC3339),
		},
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("cloudflare: encode graphql body: %w", err)
	}

	resp, err := c.post(ctx, c.baseURL+"/graphql", body)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("cloudflare: graphql returned status %d", resp.StatusCode)
	}

	var result graphqlResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("cloudflare: decode graphql response: %w", err)
	}
	if len(result.Errors) > 0 {
		return nil, fmt.Errorf("cloudflare: graphql error: %s", result.Errors[0].Message)
	}

	stats := &domain.TrafficStats{Host: host, Since: since, Until: until}
	for _, zone := range result.Data.Viewer.Zones {
		for _, g := range zone.Groups {
			stats.Requests += g.Count
			stats.Bytes += g.Sum.EdgeResponseBytes
			// 分位数不做跨组合并，保留最后一组的值
			stats.TTFBMsP50 = g.Quantiles.TTFBMsP50
			stats.TTFBMsP95 = g.Quantiles.TTFBMsP95
			stats.TTFBMsP99 = g.Quantiles.TTFBMsP99
		}
	}
	return stats, nil
}

func (c *Client) post(ctx context.Context, url string, body []byte) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("cloudflare: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("cloudflare: request failed: %w", err)
	}
	return resp, nil
}

const trafficQuery = `query ($zoneTag: String!, $host: String!, $since: Time!, $until: Time!) {
  viewer {
    zones(filter: {zoneTag: $zoneTag}) {
      httpRequestsAdaptiveGroups(
        filter: {clientRequestHTTPHost: $host, datetime_geq: $since, datetime_lt: $until}
        limit: 100
      ) {
        count
        sum { edgeResponseBytes }
        quantiles {
          edgeTimeToFirstByteMsP50
          edgeTimeToFirstByteMsP95
          edgeTimeToFirstByteMsP99
        }
      }
    }
  }
}`

// Cloudflare API 响应结构（只建模需要的字段）。

type apiResponse struct {
	Success bool       `json:"success"`
	Errors  []apiError `json:"errors"`
}

type apiError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (r apiResponse) firstError() string {
	if len(r.Errors) == 0 {
		return "unknown error"
	}
	return r.Errors[0].Message
}

type graphqlRequest struct {
	Query     string                 `json:"query"`
	Variables map[string]interface{} `json:"variables"`
}

type graphqlResponse struct {
	Data struct {
		Viewer struct {
			Zones []struct {
				Groups []trafficGroup `json:"httpRequestsAdaptiveGroups"`
			} `json:"zones"`
		} `json:"viewer"`
	} `json:"data"`
	Errors []apiError `json:"errors"`
}

type trafficGroup struct {
	Count int64 `json:"count"`
	Sum   struct {
		EdgeResponseBytes int64 `json:"edgeResponseBytes"`
	} `json:"sum"`
	Quantiles struct {
		TTFBMsP50 float64 `json:"edgeTimeToFirstByteMsP50"`
		TTFBMsP95 float64 `json:"edgeTimeToFirstByteMsP95"`
		TTFBMsP99 float64 `json:"edgeTimeToFirstByteMsP99"`
	} `json:"quantiles"`
}
