package headhunter

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
)

const (
	apiURL    = "https://api.hh.ru"
	userAgent = "spigell/resume-agent (spigelly@gmail.com)"
	// Max value for search per page.
	perPage = 100

	areasSuggestPath = "/suggests/areas"
)

type Client struct {
	token      string
	logger     *zap.Logger
	HTTPClient *http.Client
	UserAgent  string
	APIURL     string
}

// New creates a HeadHunter API client. Vacancy search works without a token.
func New(logger *zap.Logger, token string) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Client{
		token:  strings.TrimSpace(token),
		APIURL: apiURL,
		HTTPClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		logger:    logger,
		UserAgent: userAgent,
	}
}

// Search returns at most limit vacancies matching params. A limit of zero
// fetches every page.
func (c *Client) Search(ctx context.Context, params *SearchParams, limit int) (*Vacancies, error) {
	return c.search(ctx, params, limit)
}

type areaSuggestion struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

// AreaID resolves a free-form location name to a HeadHunter area id.
// It returns 0 when nothing matches.
func (c *Client) AreaID(ctx context.Context, name string) (int, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return 0, nil
	}

	var response struct {
		Items []areaSuggestion `json:"items"`
	}

	q := url.Values{}
	q.Set("text", name)
	if err := c.getJSON(ctx, fmt.Sprintf("%s%s", c.APIURL, areasSuggestPath), q, &response); err != nil {
		return 0, fmt.Errorf("suggest areas: %w", err)
	}

	if len(response.Items) == 0 {
		return 0, nil
	}

	id, err := strconv.Atoi(response.Items[0].ID)
	if err != nil {
		return 0, fmt.Errorf("parse area id %q: %w", response.Items[0].ID, err)
	}

	c.logger.Debug("resolved area", zap.String("location", name), zap.String("area", response.Items[0].Text), zap.Int("id", id))

	return id, nil
}
