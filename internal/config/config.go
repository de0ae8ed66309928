package config

import "time"

// Config holds all application configuration.
type Config struct {
	Sources   []Source  `mapstructure:"sources"`
	Collector Collector `mapstructure:"collector"`
	Cache     Cache     `mapstructure:"cache"`
	Search    Search    `mapstructure:"search"`
	MCP       MCP       `mapstructure:"mcp"`
}

// Source defines one documentation source. Kind selects how the llms URL is
// interpreted: "full" sources publish a single combined markdown file,
// "seed" sources publish an llms.txt index whose links are fetched
// individually.
type Source struct {
	Key     string `mapstructure:"key"`
	Name    string `mapstructure:"name"`
	LLMSURL string `mapstructure:"llms_url"`
	Kind    string `mapstructure:"kind"`
}

// Collector holds document fetching configuration.
type Collector struct {
	Timeout          time.Duration `mapstructure:"timeout"`
	Concurrency      int           `mapstructure:"concurrency"`
	UserAgent        string        `mapstructure:"user_agent"`
	TryMarkdownFirst bool          `mapstructure:"try_markdown_first"`
}

// Cache holds local cache configuration. An empty Dir means
// ~/.toss-docs-mcp, resolved at runtime.
type Cache struct {
	Dir string `mapstructure:"dir"`
}

// Search holds search configuration.
type Search struct {
	MaxResults int `mapstructure:"max_results"`
}

// MCP holds MCP server configuration.
type MCP struct {
	Name    string `mapstructure:"name"`
	Version string `mapstructure:"version"`
}

// Source kinds.
const (
	KindFull = "full"
	KindSeed = "seed"
)

// Defaults returns a Config with sensible default values. The source set is
// fixed: the three Toss developer documentation origins.
func Defaults() Config {
	return Config{
		Sources: []Source{
			{
				Key:     "apps_in_toss",
				Name:    "앱인토스",
				LLMSURL: "https://developers-apps-in-toss.toss.im/llms.txt",
				Kind:    KindSeed, // llms.txt is an index; linked pages are fetched one by one
			},
			{
				Key:     "tds_react_native",
				Name:    "TDS React Native",
				LLMSURL: "https://tossmini-docs.toss.im/tds-react-native/llms-full.txt",
				Kind:    KindFull, // one combined markdown file
			},
			{
				Key:     "tds_mobile",
				Name:    "TDS Mobile",
				LLMSURL: "https://tossmini-docs.toss.im/tds-mobile/llms-full.txt",
				Kind:    KindFull,
			},
		},
		Collector: Collector{
			Timeout:          30 * time.Second,
			Concurrency:      8,
			UserAgent:        "toss-docs-mcp/1.0",
			TryMarkdownFirst: true, // probe markdown variants of HTML pages first
		},
		Cache: Cache{
			Dir: "",
		},
		Search: Search{
			MaxResults: 10,
		},
		MCP: MCP{
			Name:    "toss-docs",
			Version: "1.0.0",
		},
	}
}

// SourceKeys returns the configured source keys in declaration order.
func (c Config) SourceKeys() []string {
	keys := make([]string, 0, len(c.Sources))
	for _, s := range c.Sources {
		keys = append(keys, s.Key)
	}
	return keys
}

// SourceByKey returns the source with the given key, if configured.
func (c Config) SourceByKey(key string) (Source, bool) {
	for _, s := range c.Sources {
		if s.Key == key {
			return s, true
		}
	}
	return Source{}, false
}
