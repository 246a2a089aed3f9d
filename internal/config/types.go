package config

// AppConfig holds runtime startup configuration loaded from YAML.
type AppConfig struct {
	Port           int            `yaml:"port"`
	DSN            string         `yaml:"dsn"` // MySQL DSN
	RedisURL       string         `yaml:"redis_url"`
	Env            string         `yaml:"env"` // "development" | "production"
	AllowedOrigins []string       `yaml:"allowed_origins"`
	JWTSecret      string         `yaml:"jwt_secret"`
	SiteName       string         `yaml:"site_name"`
	WebURL         string         `yaml:"web_url"`
	Uploads        UploadsConfig  `yaml:"uploads"`
	Mail           MailConfig     `yaml:"mail"`
	RateLimit      RateLimitConfig `yaml:"rate_limit"`
}

// UploadsConfig controls the local-disk upload store.
type UploadsConfig struct {
	Dir       string `yaml:"dir"`
	MaxSizeMB int    `yaml:"max_size_mb"`
}

// MailConfig holds SMTP settings for outbound mail.
type MailConfig struct {
	Enable  bool   `yaml:"enable"`
	Host    string `yaml:"host"`
	Port    int    `yaml:"port"`
	User    string `yaml:"user"`
	Pass    string `yaml:"pass"`
	From    string `yaml:"from"`
	ReplyTo string `yaml:"reply_to"`
	Inbox   string `yaml:"inbox"` // where contact-form mail is delivered
}

// RateLimitConfig controls the per-IP public rate limiter.
type RateLimitConfig struct {
	Max    int `yaml:"max"`
	Window int `yaml:"window_seconds"`
}
