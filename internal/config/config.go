package config

import (
	"fmt"
	"os"
	"sort"
	"strconv"

	"gopkg.in/yaml.v3"

	"ChanSentinel/internal/chanlun"
	"ChanSentinel/internal/model"
)

// StockPool is a curated group of instruments scanned together.
type StockPool struct {
	Codes       []string `yaml:"codes"`
	Names       []string `yaml:"names"`
	Description string   `yaml:"description"`
}

// SectorGroup maps a market theme to its member sectors.
type SectorGroup struct {
	Sectors     []string `yaml:"sectors"`
	Weight      float64  `yaml:"weight"`
	Description string   `yaml:"description"`
}

// Config holds all application configuration.
type Config struct {
	Telegram struct {
		BotToken string `yaml:"bot_token"`
		ChatID   string `yaml:"chat_id"`
	} `yaml:"telegram"`
	DataSource struct {
		BaseURL    string  `yaml:"base_url"`
		Token      string  `yaml:"token"`
		Days       int     `yaml:"days"`
		RatePerSec float64 `yaml:"rate_per_sec"`
	} `yaml:"data_source"`
	Schedule struct {
		DailyCron string `yaml:"daily_cron"`
	} `yaml:"schedule"`
	Scanner struct {
		Workers int `yaml:"workers"`
	} `yaml:"scanner"`
	Database struct {
		SQLitePath  string `yaml:"sqlite_path"`
		KeepBatches int    `yaml:"keep_batches"`
	} `yaml:"database"`
	Watchlist struct {
		File string `yaml:"file"`
	} `yaml:"watchlist"`
	Sectors struct {
		Membership map[string][]string `yaml:"membership"`
		Flows      map[string]float64  `yaml:"flows"`
	} `yaml:"sectors"`
	Pools        map[string]StockPool   `yaml:"pools"`
	SectorGroups map[string]SectorGroup `yaml:"sector_groups"`
	Score        *chanlun.ScorePolicy   `yaml:"score"`
	Proxy        string                 `yaml:"proxy"`
	RunOnStart   bool                   `yaml:"run_on_start"`
}

// Load reads config from a YAML file, then applies environment variable overrides.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	// Environment variable overrides
	if v := os.Getenv("TELEGRAM_BOT_TOKEN"); v != "" {
		cfg.Telegram.BotToken = v
	}
	if v := os.Getenv("TELEGRAM_CHAT_ID"); v != "" {
		cfg.Telegram.ChatID = v
	}
	if v := os.Getenv("TUSHARE_TOKEN"); v != "" {
		cfg.DataSource.Token = v
	}
	if v := os.Getenv("DATA_BASE_URL"); v != "" {
		cfg.DataSource.BaseURL = v
	}
	if v := os.Getenv("HTTPS_PROXY"); v != "" {
		cfg.Proxy = v
	}
	if v := os.Getenv("CRON_DAILY"); v != "" {
		cfg.Schedule.DailyCron = v
	}
	if v := os.Getenv("SQLITE_PATH"); v != "" {
		cfg.Database.SQLitePath = v
	}
	if v := os.Getenv("SCAN_WORKERS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Scanner.Workers = n
		}
	}
	if v := os.Getenv("RUN_ON_START"); v == "1" || v == "true" {
		cfg.RunOnStart = true
	}

	// Defaults
	if cfg.Schedule.DailyCron == "" {
		// After A-share close on trading days.
		cfg.Schedule.DailyCron = "0 30 15 * * 1-5"
	}
	if cfg.DataSource.Days == 0 {
		cfg.DataSource.Days = 90
	}
	if cfg.DataSource.RatePerSec == 0 {
		cfg.DataSource.RatePerSec = 2
	}
	if cfg.Scanner.Workers == 0 {
		cfg.Scanner.Workers = 4
	}
	if cfg.Database.SQLitePath == "" {
		cfg.Database.SQLitePath = "data/chan_sentinel.db"
	}
	if cfg.Database.KeepBatches == 0 {
		cfg.Database.KeepBatches = 20
	}
	if cfg.Watchlist.File == "" {
		cfg.Watchlist.File = "data/watchlist.json"
	}
	if len(cfg.Pools) == 0 {
		cfg.Pools = DefaultPools()
	}
	if len(cfg.SectorGroups) == 0 {
		cfg.SectorGroups = DefaultSectorGroups()
	}
	if cfg.Score == nil {
		cfg.Score = chanlun.DefaultScorePolicy()
	}

	return cfg, nil
}

// Validate checks that all required fields are consistent.
func (c *Config) Validate() error {
	if c.DataSource.Days < 20 {
		return fmt.Errorf("data_source.days must be at least 20, got %d", c.DataSource.Days)
	}
	if c.Scanner.Workers < 1 {
		return fmt.Errorf("scanner.workers must be positive")
	}
	if (c.Telegram.BotToken == "") != (c.Telegram.ChatID == "") {
		return fmt.Errorf("telegram.bot_token and telegram.chat_id must be set together")
	}
	for name, pool := range c.Pools {
		if len(pool.Codes) == 0 {
			return fmt.Errorf("pool %q has no codes", name)
		}
		if len(pool.Names) != 0 && len(pool.Names) != len(pool.Codes) {
			return fmt.Errorf("pool %q: names/codes length mismatch", name)
		}
	}
	return nil
}

// DefaultPools returns the built-in curated stock pools.
func DefaultPools() map[string]StockPool {
	return map[string]StockPool{
		"科技硬核": {
			Codes:       []string{"603501", "688012", "300308", "300339", "603986"},
			Names:       []string{"韦尔股份", "中微公司", "中际旭创", "润和软件", "兆易创新"},
			Description: "半导体龙头+AI算力+国产替代",
		},
		"新质生产力": {
			Codes:       []string{"300750", "601012", "002466", "002812", "600438"},
			Names:       []string{"宁德时代", "隆基绿能", "天齐锂业", "恩捷股份", "通威股份"},
			Description: "新能源+储能+锂电材料",
		},
		"自主可控/军工": {
			Codes:       []string{"600893", "002179", "600760", "000063", "600150"},
			Names:       []string{"航发动力", "中航光电", "中航沈飞", "中兴通讯", "中国船舶"},
			Description: "军工龙头+通信设备+高端装备",
		},
		"核心资产/消费": {
			Codes:       []string{"600519", "000858", "600030", "601318", "600276"},
			Names:       []string{"贵州茅台", "五粮液", "中信证券", "中国平安", "恒瑞医药"},
			Description: "白酒+券商+保险+医药龙头",
		},
		"周期反转/资源": {
			Codes:       []string{"601899", "603993", "600547", "601600", "000426"},
			Names:       []string{"紫金矿业", "洛阳钼业", "山东黄金", "中国铝业", "兴业银锡"},
			Description: "有色龙头+贵金属+战略资源",
		},
	}
}

// DefaultSectorGroups returns the built-in theme groupings.
func DefaultSectorGroups() map[string]SectorGroup {
	return map[string]SectorGroup{
		"科技成长": {
			Sectors:     []string{"半导体", "计算机应用", "国防军工", "通信设备", "电子", "计算机", "传媒"},
			Weight:      1.2,
			Description: "AI应用、国产替代、科技自主",
		},
		"周期复苏": {
			Sectors:     []string{"有色金属", "基础化工", "石油石化", "钢铁", "煤炭", "建筑材料"},
			Weight:      1.0,
			Description: "大宗商品、基建复苏、产能出清",
		},
		"核心资产": {
			Sectors:     []string{"食品饮料", "非银金融", "生物医药", "家用电器", "医药生物", "银行"},
			Weight:      1.1,
			Description: "消费复苏、高股息、防御配置",
		},
		"新质生产力": {
			Sectors:     []string{"电力设备", "机械设备", "汽车零部件", "轻工制造", "汽车", "环保"},
			Weight:      1.15,
			Description: "新能源、智能制造、绿色转型",
		},
		"未来产业": {
			Sectors:     []string{"商业航天", "低空经济", "人形机器人", "固态电池", "脑机接口", "量子通信", "可控核聚变"},
			Weight:      1.3,
			Description: "2026高增长赛道、主题投资",
		},
	}
}

// ThemeOf resolves the theme group containing a sector. Groups are walked
// in sorted name order so a sector listed in two groups resolves stably.
func (c *Config) ThemeOf(sector string) (string, float64) {
	names := make([]string, 0, len(c.SectorGroups))
	for name := range c.SectorGroups {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		for _, s := range c.SectorGroups[name].Sectors {
			if s == sector {
				return name, c.SectorGroups[name].Weight
			}
		}
	}
	return "", 0
}

// Instruments flattens all pools into a deduplicated instrument list.
// Pools are walked in sorted name order so scan batches are stable.
func (c *Config) Instruments() []model.Instrument {
	names := make([]string, 0, len(c.Pools))
	for name := range c.Pools {
		names = append(names, name)
	}
	sort.Strings(names)

	seen := make(map[string]bool)
	var out []model.Instrument
	for _, name := range names {
		pool := c.Pools[name]
		for i, code := range pool.Codes {
			if seen[code] {
				continue
			}
			seen[code] = true
			display := code
			if i < len(pool.Names) {
				display = pool.Names[i]
			}
			out = append(out, model.Instrument{Code: code, Name: display})
		}
	}
	return out
}
