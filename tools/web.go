package tools

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"regexp"
	"strings"
	"time"

	"github.com/tidwall/gjson"

	"github.com/7ozzam/cohere-toolkit-with-openai/models"
)

// BraveAPIKeyEnvVar holds the Brave Search subscription token.
const BraveAPIKeyEnvVar = "BRAVE_API_KEY"

const braveSearchURL = "https://api.search.brave.com/res/v1/web/search"

// maxFetchBytes caps fetched page size at 5 MiB.
const maxFetchBytes = 5 * 1024 * 1024

// WebSearchTool returns the managed web_search tool backed by the
// Brave Search API. It is only useful when BRAVE_API_KEY is set.
func WebSearchTool() Definition {
	return Definition{
		Tool: models.Tool{
			Name:        "web_search",
			Description: "Search the web. Returns titles, URLs, and snippets for the query.",
			ParameterDefinitions: map[string]models.ToolParameterDefinition{
				"query": {
					Type:        "str",
					Description: "Search query string",
					Required:    true,
				},
			},
		},
		Category: CategoryOther,
		Executor: &webSearchExecutor{
			client: &http.Client{Timeout: 15 * time.Second},
		},
	}
}

type webSearchExecutor struct {
	client *http.Client
}

func (e *webSearchExecutor) Call(ctx context.Context, parameters map[string]interface{}, tctx *models.Context) ([]models.Document, error) {
	query := stringParam(parameters, "query")
	if query == "" {
		return []models.Document{}, nil
	}

	apiKey := os.Getenv(BraveAPIKeyEnvVar)
	if apiKey == "" {
		return nil, fmt.Errorf("%s environment variable not set", BraveAPIKeyEnvVar)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, braveSearchURL, nil)
	if err != nil {
		return nil, fmt.Errorf("error creating request: %w", err)
	}
	q := req.URL.Query()
	q.Add("q", query)
	req.URL.RawQuery = q.Encode()
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Subscription-Token", apiKey)

	resp, err := e.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("error sending request to search API: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("error reading response body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("search API request failed with status %d: %s", resp.StatusCode, string(body))
	}

	return parseSearchResults(body), nil
}

// parseSearchResults collects the web and news sections of a search
// response into documents.
func parseSearchResults(body []byte) []models.Document {
	docs := []models.Document{}
	for _, section := range []string{"web.results", "news.results"} {
		gjson.GetBytes(body, section).ForEach(func(_, result gjson.Result) bool {
			docs = append(docs, models.Document{
				Title: stripStrongTags(result.Get("title").String()),
				URL:   result.Get("url").String(),
				Text:  stripStrongTags(result.Get("description").String()),
			})
			return true
		})
	}
	return docs
}

// stripStrongTags removes the highlight markup the search API wraps
// around matched terms.
func stripStrongTags(s string) string {
	s = strings.ReplaceAll(s, "<strong>", "")
	s = strings.ReplaceAll(s, "</strong>", "")
	return s
}

// WebFetchTool returns the managed web_fetch tool, which downloads a
// page and hands its readable text to the model.
func WebFetchTool() Definition {
	return Definition{
		Tool: models.Tool{
			Name:        "web_fetch",
			Description: "Fetch a URL and return its readable text content.",
			ParameterDefinitions: map[string]models.ToolParameterDefinition{
				"url": {
					Type:        "str",
					Description: "HTTP or HTTPS URL to fetch",
					Required:    true,
				},
			},
		},
		Category: CategoryOther,
		Executor: &webFetchExecutor{
			client: &http.Client{Timeout: 30 * time.Second},
		},
	}
}

type webFetchExecutor struct {
	client *http.Client
}

func (e *webFetchExecutor) Call(ctx context.Context, parameters map[string]interface{}, tctx *models.Context) ([]models.Document, error) {
	rawURL := stringParam(parameters, "url")
	if rawURL == "" {
		return []models.Document{}, nil
	}
	parsed, err := url.Parse(rawURL)
	if err != nil || (parsed.Scheme != "http" && parsed.Scheme != "https") {
		return nil, fmt.Errorf("url must be http or https")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("error creating request: %w", err)
	}
	req.Header.Set("Accept", "text/html,application/xhtml+xml,text/plain")

	resp, err := e.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching %s: %w", rawURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP %d fetching %s", resp.StatusCode, rawURL)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxFetchBytes))
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}

	return []models.Document{
		{
			Title: rawURL,
			URL:   rawURL,
			Text:  htmlToText(string(body)),
		},
	}, nil
}

var (
	reScript   = regexp.MustCompile(`(?is)<script[^>]*>.*?</script>`)
	reStyle    = regexp.MustCompile(`(?is)<style[^>]*>.*?</style>`)
	reTag      = regexp.MustCompile(`<[^>]+>`)
	reSpaces   = regexp.MustCompile(`[ \t]+`)
	reNewlines = regexp.MustCompile(`\n{3,}`)
)

// htmlToText strips tags and collapses whitespace so the model sees
// plain readable text.
func htmlToText(html string) string {
	html = reScript.ReplaceAllString(html, "")
	html = reStyle.ReplaceAllString(html, "")
	text := reTag.ReplaceAllString(html, "")

	for entity, replacement := range map[string]string{
		"&amp;": "&", "&lt;": "<", "&gt;": ">",
		"&quot;": `"`, "&#39;": "'", "&nbsp;": " ",
	} {
		text = strings.ReplaceAll(text, entity, replacement)
	}

	text = reSpaces.ReplaceAllString(text, " ")
	text = reNewlines.ReplaceAllString(text, "\n\n")
	return strings.TrimSpace(text)
}
