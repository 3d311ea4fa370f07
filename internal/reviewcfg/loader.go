package reviewcfg

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"os"

	"gopkg.in/yaml.v3"
)

// Load reads and validates a YAML parameter file.
// KnownFields(true): 拼错的字段直接报错，不静默忽略。
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil {
		return nil, err
	}

	applyDefaults(&cfg)

	if err := Validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Default returns the built-in parameter set used when no YAML file exists.
func Default() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	return cfg
}

func applyDefaults(cfg *Config) {
	if cfg.Meta.ConfigID == "" {
		cfg.Meta.ConfigID = "fupan-default"
	}
	if cfg.Meta.Version == "" {
		cfg.Meta.Version = "1.0"
	}
	if cfg.Screen.LimitThreshold == 0 {
		cfg.Screen.LimitThreshold = 9.8
	}
	if cfg.Screen.MaxStreakWindow == 0 {
		cfg.Screen.MaxStreakWindow = 10
	}
	if cfg.Screen.MinHistoryBars == 0 {
		cfg.Screen.MinHistoryBars = 5
	}
	if cfg.History.LookbackDays == 0 {
		cfg.History.LookbackDays = 30
	}
	if cfg.Sector.StrengthThreshold == 0 {
		cfg.Sector.StrengthThreshold = 3
	}
	if cfg.Sector.MinGroupSize == 0 {
		cfg.Sector.MinGroupSize = 2
	}
	if cfg.Scoring.Sum() == 0 {
		cfg.Scoring = Scoring{
			StreakWeight:     0.35,
			LimitTimeWeight:  0.25,
			SealAmountWeight: 0.20,
			FloatCapWeight:   0.20,
		}
	}
	if len(cfg.Commentary.Roles) == 0 {
		cfg.Commentary.Roles = []string{"龙头", "中军", "补涨"}
	}
	if cfg.Report.TopThemes == 0 {
		cfg.Report.TopThemes = 3
	}
	if cfg.Report.TopStocks == 0 {
		cfg.Report.TopStocks = 5
	}
}

// Hash generates a SHA256 hash of the Config via canonical JSON.
// 用 struct 而不是 map，字段顺序固定，哈希可复现。
func Hash(cfg *Config) (string, error) {
	jsonBytes, err := json.Marshal(cfg)
	if err != nil {
		return "", err
	}

	sum := sha256.Sum256(jsonBytes)
	return hex.EncodeToString(sum[:]), nil
}
