package collector

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"ChanSentinel/internal/model"
)

// EastMoneyFetcher implements Fetcher using the EastMoney public kline API.
// Used as the fallback source when no Tushare token is configured.
type EastMoneyFetcher struct {
	Client *http.Client
}

// NewEastMoneyFetcher creates a fetcher with optional proxy support.
func NewEastMoneyFetcher(proxyURL string) *EastMoneyFetcher {
	transport := &http.Transport{}
	if proxyURL != "" {
		if u, err := url.Parse(proxyURL); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	return &EastMoneyFetcher{
		Client: &http.Client{
			Timeout:   30 * time.Second,
			Transport: transport,
		},
	}
}

func (f *EastMoneyFetcher) Name() string { return "eastmoney" }

// secid maps a bare symbol to EastMoney's market-qualified id.
func secid(symbol string) string {
	if strings.HasPrefix(symbol, "6") {
		return "1." + symbol
	}
	return "0." + symbol
}

// emChart is the response structure from the EastMoney kline API. Each kline
// is a comma-separated string: date,open,close,high,low,volume,...
type emChart struct {
	Data struct {
		Klines []string `json:"klines"`
	} `json:"data"`
}

func (f *EastMoneyFetcher) FetchDailyBars(symbol string, days int) ([]model.Bar, error) {
	endpoint := fmt.Sprintf(
		"https://push2his.eastmoney.com/api/qt/stock/kline/get?secid=%s&klt=101&fqt=1&lmt=%d&end=20500101&fields1=f1,f2,f3&fields2=f51,f52,f53,f54,f55,f56,f59",
		secid(symbol), days)

	resp, err := f.Client.Get(endpoint)
	if err != nil {
		return nil, fmt.Errorf("fetch klines: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch klines: status %d", resp.StatusCode)
	}

	var chart emChart
	if err := json.NewDecoder(resp.Body).Decode(&chart); err != nil {
		return nil, fmt.Errorf("decode klines: %w", err)
	}

	bars := make([]model.Bar, 0, len(chart.Data.Klines))
	for _, line := range chart.Data.Klines {
		bar, err := parseKline(line)
		if err != nil {
			return nil, err
		}
		bars = append(bars, bar)
	}
	return bars, nil
}

// parseKline decodes one comma-separated kline row:
// date,open,close,high,low,volume,pct_chg.
func parseKline(line string) (model.Bar, error) {
	parts := strings.Split(line, ",")
	if len(parts) < 7 {
		return model.Bar{}, fmt.Errorf("malformed kline row: %q", line)
	}
	date, err := time.Parse("2006-01-02", parts[0])
	if err != nil {
		return model.Bar{}, fmt.Errorf("parse kline date %q: %w", parts[0], err)
	}
	nums := make([]float64, 6)
	for i := 1; i < 7; i++ {
		v, err := strconv.ParseFloat(parts[i], 64)
		if err != nil {
			return model.Bar{}, fmt.Errorf("parse kline field %d in %q: %w", i, line, err)
		}
		nums[i-1] = v
	}
	return model.Bar{
		Date:      date,
		Open:      nums[0],
		Close:     nums[1],
		High:      nums[2],
		Low:       nums[3],
		Volume:    nums[4],
		PctChange: nums[5],
	}, nil
}
