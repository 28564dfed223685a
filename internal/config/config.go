package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/AlfredBerg/rod-skills/internal/skills"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const EnvPrefix = "ROD_SKILLS"

// Selector addresses elements on the target site. Expressions starting
// with "xpath:" are XPath, everything else is CSS.
type Selectors struct {
	ListContainer string `mapstructure:"list_container"`
	ListItem      string `mapstructure:"list_item"`
	JobIDAttr     string `mapstructure:"job_id_attr"`
	NextPage      string `mapstructure:"next_page"`
	ModalButton   string `mapstructure:"modal_button"`
	ModalContent  string `mapstructure:"modal_content"`
	ModalItem     string `mapstructure:"modal_item"`
	SkillText     string `mapstructure:"skill_text"`

	Username    string `mapstructure:"username"`
	Password    string `mapstructure:"password"`
	LoginSubmit string `mapstructure:"login_submit"`
}

type Site struct {
	BaseURL  string `mapstructure:"base_url"`
	LoginURL string `mapstructure:"login_url"`
	// JobURL is a fmt pattern receiving the job ID.
	JobURL         string   `mapstructure:"job_url"`
	SearchDomain   string   `mapstructure:"search_domain"`
	RequiredParams []string `mapstructure:"required_params"`
	Checkpoint     string   `mapstructure:"checkpoint"`
}

type Credentials struct {
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
}

type Paths struct {
	Cookies  string `mapstructure:"cookies"`
	Runs     string `mapstructure:"runs"`
	Exports  string `mapstructure:"exports"`
	Database string `mapstructure:"database"`
}

type Browser struct {
	Headless       bool          `mapstructure:"headless"`
	Timeout        time.Duration `mapstructure:"timeout"`
	Settle         time.Duration `mapstructure:"settle"`
	CheckpointWait time.Duration `mapstructure:"checkpoint_wait"`
}

type Config struct {
	SearchURL   string      `mapstructure:"search_url"`
	Site        Site        `mapstructure:"site"`
	Credentials Credentials `mapstructure:"credentials"`
	Paths       Paths       `mapstructure:"paths"`
	Browser     Browser     `mapstructure:"browser"`
	Selectors   Selectors   `mapstructure:"selectors"`
	Stopwords   []string    `mapstructure:"stopwords"`
}

var errInvalidConfig = errors.New("invalid configuration")

// SetDefaults registers the default values on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("search_url", "https://www.linkedin.com/jobs/search/?geoId=92000000&keywords=golang%20developer")

	v.SetDefault("site.base_url", "https://www.linkedin.com")
	v.SetDefault("site.login_url", "https://www.linkedin.com/login")
	v.SetDefault("site.job_url", "https://www.linkedin.com/jobs/view/%s")
	v.SetDefault("site.search_domain", "linkedin.com")
	v.SetDefault("site.required_params", []string{"geoId", "keywords"})
	v.SetDefault("site.checkpoint", "checkpoint/challenge")

	v.SetDefault("paths.cookies", "cookies.json")
	v.SetDefault("paths.runs", "extracted")
	v.SetDefault("paths.exports", "exported")
	v.SetDefault("paths.database", "skills.db")

	v.SetDefault("browser.headless", false)
	v.SetDefault("browser.timeout", 10*time.Second)
	v.SetDefault("browser.settle", time.Second)
	v.SetDefault("browser.checkpoint_wait", 20*time.Second)

	v.SetDefault("selectors.list_container", "ul.scaffold-layout__list-container")
	v.SetDefault("selectors.list_item", "ul.scaffold-layout__list-container li")
	v.SetDefault("selectors.job_id_attr", "data-occludable-job-id")
	v.SetDefault("selectors.next_page", "button.jobs-search-pagination__button--next")
	v.SetDefault("selectors.modal_button", "xpath://span[@class='artdeco-button__text' and text()='Show qualification details']")
	v.SetDefault("selectors.modal_content", "xpath://div[contains(@class, 'job-details-skill-match-modal__content')]")
	v.SetDefault("selectors.modal_item", "xpath://div[contains(@class, 'job-details-skill-match-modal__content')]//li")
	v.SetDefault("selectors.skill_text", "xpath:./div[2]")
	v.SetDefault("selectors.username", "#username")
	v.SetDefault("selectors.password", "#password")
	v.SetDefault("selectors.login_submit", "button[type='submit']")

	v.SetDefault("stopwords", []string{})
}

// BindEnv loads a .env file, if any, and makes every key overridable
// through ROD_SKILLS_* environment variables.
func BindEnv(v *viper.Viper) {
	_ = godotenv.Load()

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
}

// Load decodes and validates the configuration held by v.
func Load(v *viper.Viper) (*Config, error) {
	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("decoding configuration: %w", err)
	}

	var problems []string
	if cfg.Browser.Timeout <= 0 {
		problems = append(problems, "browser.timeout must be positive")
	}
	if !strings.Contains(cfg.Site.JobURL, "%s") {
		problems = append(problems, "site.job_url must contain %s")
	}
	if cfg.Paths.Runs == "" {
		problems = append(problems, "paths.runs is required")
	}
	if cfg.Paths.Exports == "" {
		problems = append(problems, "paths.exports is required")
	}
	if len(problems) > 0 {
		return nil, fmt.Errorf("%w: %s", errInvalidConfig, strings.Join(problems, ", "))
	}

	return cfg, nil
}

func (c *Config) StopwordSet() skills.Stopwords {
	return skills.NewStopwords(c.Stopwords...)
}

func (c *Config) JobURL(jobID string) string {
	return fmt.Sprintf(c.Site.JobURL, jobID)
}
