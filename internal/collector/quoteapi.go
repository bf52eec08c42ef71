package collector

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"time"

	"BreakoutSentinel/internal/model"
)

// QuoteAPIFetcher implements Fetcher against a self-hosted quote REST API.
type QuoteAPIFetcher struct {
	BaseURL string
	APIKey  string
	Client  *http.Client
}

// NewQuoteAPIFetcher creates a new fetcher with optional proxy support.
func NewQuoteAPIFetcher(baseURL, apiKey, proxyURL string) *QuoteAPIFetcher {
	transport := &http.Transport{}
	if proxyURL != "" {
		if u, err := url.Parse(proxyURL); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	return &QuoteAPIFetcher{
		BaseURL: baseURL,
		APIKey:  apiKey,
		Client: &http.Client{
			Timeout:   30 * time.Second,
			Transport: transport,
		},
	}
}

func (f *QuoteAPIFetcher) Name() string { return "quote" }

// quoteBar is the expected JSON shape from the quote API.
type quoteBar struct {
	Timestamp    int64   `json:"timestamp"`
	Open         float64 `json:"open"`
	High         float64 `json:"high"`
	Low          float64 `json:"low"`
	Close        float64 `json:"close"`
	PrevClose    float64 `json:"prev_close"`
	Volume       float64 `json:"volume"`
	Amount       float64 `json:"amount"`
	TurnoverRate float64 `json:"turnover_rate"`
	Suspended    bool    `json:"suspended"`
	IsST         bool    `json:"is_st"`
}

func (f *QuoteAPIFetcher) ListSymbols() ([]model.StockInfo, error) {
	endpoint := fmt.Sprintf("%s/api/v1/stocks", f.BaseURL)
	body, err := f.get(endpoint)
	if err != nil {
		return nil, fmt.Errorf("list symbols: %w", err)
	}
	var raw []struct {
		Code string `json:"code"`
		Name string `json:"name"`
	}
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("decode symbols: %w", err)
	}
	symbols := make([]model.StockInfo, len(raw))
	for i, r := range raw {
		symbols[i] = model.StockInfo{Code: r.Code, Name: r.Name}
	}
	return symbols, nil
}

func (f *QuoteAPIFetcher) FetchDailyBars(symbol string, days int) ([]model.PriceBar, error) {
	endpoint := fmt.Sprintf("%s/api/v1/bars/daily?symbol=%s&limit=%d",
		f.BaseURL, url.QueryEscape(symbol), days)
	body, err := f.get(endpoint)
	if err != nil {
		return nil, fmt.Errorf("fetch bars: %w", err)
	}
	var qBars []quoteBar
	if err := json.Unmarshal(body, &qBars); err != nil {
		return nil, fmt.Errorf("decode bars: %w", err)
	}
	bars := make([]model.PriceBar, len(qBars))
	for i, qb := range qBars {
		bars[i] = model.PriceBar{
			Time:             time.Unix(qb.Timestamp, 0),
			Open:             qb.Open,
			High:             qb.High,
			Low:              qb.Low,
			Close:            qb.Close,
			PrevClose:        qb.PrevClose,
			Volume:           qb.Volume,
			Amount:           qb.Amount,
			TurnoverRate:     qb.TurnoverRate,
			Suspended:        qb.Suspended,
			SpecialTreatment: qb.IsST,
		}
	}
	// Ensure chronological order
	sort.Slice(bars, func(i, j int) bool { return bars[i].Time.Before(bars[j].Time) })
	return bars, nil
}

func (f *QuoteAPIFetcher) get(endpoint string) ([]byte, error) {
	req, err := http.NewRequest("GET", endpoint, nil)
	if err != nil {
		return nil, err
	}
	if f.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+f.APIKey)
	}
	resp, err := f.Client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("status %d, body: %s", resp.StatusCode, string(body))
	}
	return body, nil
}
