package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"

	"prospectsheet/internal/util"
)

type Theme string

const (
	ThemeDark  Theme = "dark"
	ThemeLight Theme = "light"
)

type Config struct {
	BaseURL    string
	ViewID     string
	Token      string
	WebhookURL string
	PageSize   int
	MaxPages   int
	TimeoutSec int
	// Interval paces webhook calls. Fixed at 5s for operators; only tests
	// and local runs against nocomock shorten it.
	Interval   time.Duration
	Theme      Theme
	AuditPath  string
}

// Load reads .env files (missing files are ignored) and the environment.
// PROSPECT_* variables win over the VITE_NOCODB_* names of older deployments.
func Load(envFiles ...string) *Config {
	_ = godotenv.Load(envFiles...)
	return &Config{
		BaseURL:    getenvFirst("PROSPECT_NOCODB_BASE_URL", "VITE_NOCODB_BASE_URL"),
		ViewID:     getenvFirst("PROSPECT_NOCODB_VIEW_ID", "VITE_NOCODB_VIEW_ID"),
		Token:      getenvFirst("PROSPECT_NOCODB_TOKEN", "VITE_NOCODB_TOKEN"),
		WebhookURL: getenvFirst("PROSPECT_WEBHOOK_URL"),
		PageSize:   getenvDefaultInt("PROSPECT_PAGE_SIZE", 500),
		MaxPages:   getenvDefaultInt("PROSPECT_MAX_PAGES", 20),
		TimeoutSec: getenvDefaultInt("PROSPECT_TIMEOUT_SEC", 20),
		Interval:   getenvDefaultDuration("PROSPECT_DISPATCH_INTERVAL", 5*time.Second),
		Theme:      Theme(getenvDefault("PROSPECT_THEME", string(ThemeDark))),
		AuditPath:  getenvDefault("PROSPECT_AUDIT_PATH", defaultAuditPath()),
	}
}

// BindFlags registers flags that override the loaded values.
func (c *Config) BindFlags(fs *pflag.FlagSet) {
	fs.StringVar(&c.BaseURL, "base-url", c.BaseURL, "NocoDB records URL (.../api/v2/tables/{table}/records)")
	fs.StringVar(&c.ViewID, "view-id", c.ViewID, "NocoDB view id")
	fs.StringVar(&c.Token, "token", c.Token, "NocoDB xc-token")
	fs.StringVar(&c.WebhookURL, "webhook-url", c.WebhookURL, "automation webhook for manual start")
	fs.IntVar(&c.PageSize, "page-size", c.PageSize, "records per list request")
	fs.IntVar(&c.MaxPages, "max-pages", c.MaxPages, "list requests allowed per load before it fails")
	fs.IntVar(&c.TimeoutSec, "timeout-sec", c.TimeoutSec, "HTTP request timeout in seconds")
	fs.DurationVar(&c.Interval, "dispatch-interval", c.Interval, "wait before each webhook call")
	_ = fs.MarkHidden("dispatch-interval")
	fs.StringVar((*string)(&c.Theme), "theme", string(c.Theme), "theme: dark|light")
	fs.StringVar(&c.AuditPath, "audit-path", c.AuditPath, "audit journal path (empty disables)")
}

// Validate checks what the remote table needs. The webhook is only required
// by commands that dispatch.
func (c *Config) Validate(needWebhook bool) error {
	var errs []error
	if strings.TrimSpace(c.BaseURL) == "" {
		errs = append(errs, errors.New("base url is required (PROSPECT_NOCODB_BASE_URL)"))
	} else if !strings.Contains(c.BaseURL, "/tables/") {
		errs = append(errs, fmt.Errorf("base url %q has no table id", c.BaseURL))
	}
	if strings.TrimSpace(c.Token) == "" {
		errs = append(errs, errors.New("token is required (PROSPECT_NOCODB_TOKEN)"))
	}
	if needWebhook && strings.TrimSpace(c.WebhookURL) == "" {
		errs = append(errs, errors.New("webhook url is required (PROSPECT_WEBHOOK_URL)"))
	}
	if c.Theme != ThemeDark && c.Theme != ThemeLight {
		errs = append(errs, fmt.Errorf("unknown theme %q", c.Theme))
	}
	if c.PageSize <= 0 {
		c.PageSize = 500
	}
	if c.MaxPages <= 0 {
		c.MaxPages = 20
	}
	if c.TimeoutSec <= 0 {
		c.TimeoutSec = 20
	}
	return errors.Join(errs...)
}

func (c *Config) Timeout() time.Duration { return time.Duration(c.TimeoutSec) * time.Second }

func (c *Config) String() string {
	return fmt.Sprintf("base=%s view=%s token=%s webhook=%s page=%d theme=%s",
		c.BaseURL, c.ViewID, util.RedactToken(c.Token), c.WebhookURL, c.PageSize, c.Theme)
}

func defaultAuditPath() string {
	dir, err := os.UserCacheDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "prospectsheet", "audit.ndjson")
}

func getenvFirst(keys ...string) string {
	for _, k := range keys {
		if v := strings.TrimSpace(os.Getenv(k)); v != "" {
			return v
		}
	}
	return ""
}

func getenvDefault(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

func getenvDefaultInt(k string, d int) int {
	if v := os.Getenv(k); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return d
}

func getenvDefaultDuration(k string, d time.Duration) time.Duration {
	if v := os.Getenv(k); v != "" {
		if dur, err := time.ParseDuration(v); err == nil {
			return dur
		}
	}
	return d
}
