package collector

import (
	"encoding/json"
	"testing"
)

func TestSymbolMapping(t *testing.T) {
	if got := tsCode("600519"); got != "600519.SH" {
		t.Errorf("tsCode(600519) = %q, want 600519.SH", got)
	}
	if got := tsCode("300750"); got != "300750.SZ" {
		t.Errorf("tsCode(300750) = %q, want 300750.SZ", got)
	}
	if got := secid("600519"); got != "1.600519" {
		t.Errorf("secid(600519) = %q, want 1.600519", got)
	}
	if got := secid("002594"); got != "0.002594" {
		t.Errorf("secid(002594) = %q, want 0.002594", got)
	}
}

func TestParseKline(t *testing.T) {
	bar, err := parseKline("2026-03-02,10.0,10.5,10.8,9.9,123456,2.34")
	if err != nil {
		t.Fatalf("parseKline: %v", err)
	}
	if bar.Date.Format("2006-01-02") != "2026-03-02" {
		t.Errorf("date = %v", bar.Date)
	}
	if bar.Open != 10.0 || bar.Close != 10.5 || bar.High != 10.8 || bar.Low != 9.9 {
		t.Errorf("prices = %+v", bar)
	}
	if bar.Volume != 123456 || bar.PctChange != 2.34 {
		t.Errorf("volume/pct = %+v", bar)
	}

	for _, line := range []string{
		"",
		"2026-03-02,10.0,10.5",
		"not-a-date,10.0,10.5,10.8,9.9,123456,2.34",
		"2026-03-02,ten,10.5,10.8,9.9,123456,2.34",
	} {
		if _, err := parseKline(line); err == nil {
			t.Errorf("parseKline(%q) succeeded, want error", line)
		}
	}
}

func TestDecodeBar(t *testing.T) {
	idx := fieldIndex([]string{"trade_date", "open", "high", "low", "close", "vol", "pct_chg"})
	row := make([]json.RawMessage, 0, 7)
	for _, v := range []string{`"20260302"`, "10.0", "10.8", "9.9", "10.5", "123456", "2.34"} {
		row = append(row, json.RawMessage(v))
	}

	bar, err := decodeBar(row, idx)
	if err != nil {
		t.Fatalf("decodeBar: %v", err)
	}
	if bar.High != 10.8 || bar.Close != 10.5 || bar.Volume != 123456 {
		t.Errorf("bar = %+v", bar)
	}

	if _, err := decodeBar(row[:3], idx); err == nil {
		t.Error("short row succeeded, want error")
	}
}

func TestStaticSectorLookup(t *testing.T) {
	lookup := NewStaticSectorLookup(
		map[string][]string{"600519": {"食品饮料", "白酒"}},
		map[string]float64{"食品饮料": 1.2, "白酒": 3.5},
	)

	info, err := lookup.Lookup("600519")
	if err != nil {
		t.Fatalf("Lookup: %v", err)
	}
	if !info.Found {
		t.Fatal("expected membership")
	}
	if info.Main != "白酒" || info.FlowPct != 3.5 {
		t.Errorf("main/flow = %q/%.1f, want 白酒/3.5", info.Main, info.FlowPct)
	}

	info, err = lookup.Lookup("999999")
	if err != nil {
		t.Fatalf("Lookup unknown: %v", err)
	}
	if info.Found {
		t.Error("unknown symbol reported as found")
	}
}

func TestGenerateBars(t *testing.T) {
	bars := GenerateBars(100, 30)
	if len(bars) != 30 {
		t.Fatalf("len = %d, want 30", len(bars))
	}
	for i := 1; i < len(bars); i++ {
		if !bars[i-1].Date.Before(bars[i].Date) {
			t.Fatalf("dates not ascending at %d", i)
		}
		if bars[i].Low > bars[i].High {
			t.Fatalf("inverted bar at %d", i)
		}
	}
}
