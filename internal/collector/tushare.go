package collector

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"ChanSentinel/internal/model"
)

// TushareFetcher implements Fetcher against the Tushare Pro JSON-RPC style
// API: a single POST endpoint with api_name/token/params, answering with a
// fields list and row-major items.
type TushareFetcher struct {
	BaseURL string
	Token   string
	Client  *http.Client
}

// NewTushareFetcher creates a fetcher with optional proxy support.
func NewTushareFetcher(baseURL, token, proxyURL string) *TushareFetcher {
	transport := &http.Transport{}
	if proxyURL != "" {
		if u, err := url.Parse(proxyURL); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	if baseURL == "" {
		baseURL = "http://api.tushare.pro"
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

// tsCode maps a bare A-share symbol to its exchange-qualified code.
func tsCode(symbol string) string {
	if strings.HasPrefix(symbol, "6") {
		return symbol + ".SH"
	}
	return symbol + ".SZ"
}

type tushareRequest struct {
	APIName string            `json:"api_name"`
	Token   string            `json:"token"`
	Params  map[string]string `json:"params"`
	Fields  string            `json:"fields"`
}

type tushareResponse struct {
	Code int    `json:"code"`
	Msg  string `json:"msg"`
	Data struct {
		Fields []string          `json:"fields"`
		Raw    []json.RawMessage `json:"items"`
	} `json:"data"`
}

// FetchDailyBars retrieves up to `days` recent daily bars, ascending by
// date. Returns an empty slice when the provider has no rows.
func (f *TushareFetcher) FetchDailyBars(symbol string, days int) ([]model.Bar, error) {
	end := time.Now()
	// Fetch twice the calendar span to cover non-trading days.
	start := end.AddDate(0, 0, -days*2)

	reqBody := tushareRequest{
		APIName: "daily",
		Token:   f.Token,
		Params: map[string]string{
			"ts_code":    tsCode(symbol),
			"start_date": start.Format("20060102"),
			"end_date":   end.Format("20060102"),
		},
		Fields: "trade_date,open,high,low,close,vol,pct_chg",
	}
	payload, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	resp, err := f.Client.Post(f.BaseURL, "application/json", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("fetch daily bars: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("fetch daily bars: status %d, body: %s", resp.StatusCode, string(body))
	}

	var tr tushareResponse
	if err := json.NewDecoder(resp.Body).Decode(&tr); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	if tr.Code != 0 {
		return nil, fmt.Errorf("tushare API error: code %d, msg: %s", tr.Code, tr.Msg)
	}

	idx := fieldIndex(tr.Data.Fields)
	bars := make([]model.Bar, 0, len(tr.Data.Raw))
	for _, raw := range tr.Data.Raw {
		var row []json.RawMessage
		if err := json.Unmarshal(raw, &row); err != nil {
			return nil, fmt.Errorf("decode row: %w", err)
		}
		bar, err := decodeBar(row, idx)
		if err != nil {
			return nil, err
		}
		bars = append(bars, bar)
	}

	sort.Slice(bars, func(i, j int) bool { return bars[i].Date.Before(bars[j].Date) })
	if len(bars) > days {
		bars = bars[len(bars)-days:]
	}
	return bars, nil
}

// fieldIndex maps field names to their column positions in the row data.
func fieldIndex(fields []string) map[string]int {
	idx := make(map[string]int, len(fields))
	for i, name := range fields {
		idx[name] = i
	}
	return idx
}

func decodeBar(row []json.RawMessage, idx map[string]int) (model.Bar, error) {
	getNum := func(name string) (float64, error) {
		i, ok := idx[name]
		if !ok || i >= len(row) {
			return 0, fmt.Errorf("provider row missing field %q", name)
		}
		var v float64
		if err := json.Unmarshal(row[i], &v); err != nil {
			return 0, fmt.Errorf("field %q: %w", name, err)
		}
		return v, nil
	}

	i, ok := idx["trade_date"]
	if !ok || i >= len(row) {
		return model.Bar{}, fmt.Errorf("provider row missing field %q", "trade_date")
	}
	var dateStr string
	if err := json.Unmarshal(row[i], &dateStr); err != nil {
		return model.Bar{}, fmt.Errorf("field trade_date: %w", err)
	}
	date, err := time.Parse("20060102", dateStr)
	if err != nil {
		return model.Bar{}, fmt.Errorf("parse trade_date %q: %w", dateStr, err)
	}

	var bar model.Bar
	bar.Date = date
	if bar.Open, err = getNum("open"); err != nil {
		return bar, err
	}
	if bar.High, err = getNum("high"); err != nil {
		return bar, err
	}
	if bar.Low, err = getNum("low"); err != nil {
		return bar, err
	}
	if bar.Close, err = getNum("close"); err != nil {
		return bar, err
	}
	if bar.Volume, err = getNum("vol"); err != nil {
		return bar, err
	}
	if bar.PctChange, err = getNum("pct_chg"); err != nil {
		return bar, err
	}
	return bar, nil
}
