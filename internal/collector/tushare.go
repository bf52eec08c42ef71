package collector

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"time"

	"BreakoutSentinel/internal/model"
)

// TushareFetcher implements Fetcher against the tushare.pro HTTP API.
type TushareFetcher struct {
	BaseURL string
	Token   string
	Client  *http.Client
}

// NewTushareFetcher creates a tushare fetcher with optional proxy support.
func NewTushareFetcher(baseURL, token, proxyURL string) *TushareFetcher {
	if baseURL == "" {
		baseURL = "https://api.tushare.pro"
	}
	transport := &http.Transport{}
	if proxyURL != "" {
		if u, err := url.Parse(proxyURL); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	return &TushareFetcher{
		BaseURL: baseURL,
		Token:   token,
		Client: &http.Client{
			Timeout:   30 * time.Second,
			Transport: transport,
		},
	}
}

func (f *TushareFetcher) Name() string { return "tushare" }

// tushareResponse is the generic envelope every tushare API call returns.
type tushareResponse struct {
	Code int    `json:"code"`
	Msg  string `json:"msg"`
	Data struct {
		Fields []string          `json:"fields"`
		Items  [][]json.RawMessage `json:"items"`
	} `json:"data"`
}

func (f *TushareFetcher) call(apiName string, params map[string]string, fields string) (*tushareResponse, error) {
	payload := map[string]interface{}{
		"api_name": apiName,
		"token":    f.Token,
		"params":   params,
		"fields":   fields,
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}
	resp, err := f.Client.Post(f.BaseURL, "application/json", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("tushare %s: %w", apiName, err)
	}
	defer resp.Body.Close()
	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("tushare %s read body: %w", apiName, err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("tushare %s: status %d, body: %s", apiName, resp.StatusCode, string(respBody))
	}
	var tr tushareResponse
	if err := json.Unmarshal(respBody, &tr); err != nil {
		return nil, fmt.Errorf("tushare %s decode: %w", apiName, err)
	}
	if tr.Code != 0 {
		return nil, fmt.Errorf("tushare %s api error: %s", apiName, tr.Msg)
	}
	return &tr, nil
}

// fieldIndex maps field names to item column positions.
func fieldIndex(fields []string) map[string]int {
	idx := make(map[string]int, len(fields))
	for i, f := range fields {
		idx[f] = i
	}
	return idx
}

func itemString(item []json.RawMessage, i int) string {
	if i < 0 || i >= len(item) {
		return ""
	}
	var s string
	if err := json.Unmarshal(item[i], &s); err != nil {
		return ""
	}
	return s
}

func itemFloat(item []json.RawMessage, i int) float64 {
	if i < 0 || i >= len(item) {
		return 0
	}
	var v float64
	if err := json.Unmarshal(item[i], &v); err != nil {
		return 0
	}
	return v
}

func (f *TushareFetcher) ListSymbols() ([]model.StockInfo, error) {
	tr, err := f.call("stock_basic", map[string]string{"list_status": "L"}, "ts_code,name")
	if err != nil {
		return nil, err
	}
	idx := fieldIndex(tr.Data.Fields)
	code, name := idx["ts_code"], idx["name"]
	symbols := make([]model.StockInfo, 0, len(tr.Data.Items))
	for _, item := range tr.Data.Items {
		symbols = append(symbols, model.StockInfo{
			Code: itemString(item, code),
			Name: itemString(item, name),
		})
	}
	return symbols, nil
}

func (f *TushareFetcher) FetchDailyBars(symbol string, days int) ([]model.PriceBar, error) {
	end := time.Now()
	// Calendar days to cover the requested trading days, with slack for
	// weekends and holidays.
	start := end.AddDate(0, 0, -(days*7/5 + 20))
	tr, err := f.call("daily", map[string]string{
		"ts_code":    symbol,
		"start_date": start.Format("20060102"),
		"end_date":   end.Format("20060102"),
	}, "trade_date,open,high,low,close,pre_close,vol,amount")
	if err != nil {
		return nil, err
	}

	idx := fieldIndex(tr.Data.Fields)
	bars := make([]model.PriceBar, 0, len(tr.Data.Items))
	for _, item := range tr.Data.Items {
		t, err := time.Parse("20060102", itemString(item, idx["trade_date"]))
		if err != nil {
			continue
		}
		bars = append(bars, model.PriceBar{
			Time:      t,
			Open:      itemFloat(item, idx["open"]),
			High:      itemFloat(item, idx["high"]),
			Low:       itemFloat(item, idx["low"]),
			Close:     itemFloat(item, idx["close"]),
			PrevClose: itemFloat(item, idx["pre_close"]),
			// tushare reports volume in lots and amount in thousand CNY.
			Volume: itemFloat(item, idx["vol"]) * 100,
			Amount: itemFloat(item, idx["amount"]) * 1000,
		})
	}
	// tushare returns newest first.
	sort.Slice(bars, func(i, j int) bool { return bars[i].Time.Before(bars[j].Time) })
	if len(bars) > days {
		bars = bars[len(bars)-days:]
	}
	return bars, nil
}
