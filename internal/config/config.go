package config

type Config struct {
	Environment Environment
	Log         Log
	HTTP        HTTPServer
	BaseURL     string `env:"BASE_URL"`
	DatabaseURL string `env:"DATABASE_URL"`

	Auth    Auth    `envPrefix:"AUTH_"`
	Points  Points  `envPrefix:"POINTS_"`
	Storage Storage `envPrefix:"STORAGE_"`
	Notify  Notify  `envPrefix:"NOTIFY_"`
}

type Auth struct {
	JWTSecret string `env:"JWT_SECRET"`
}

type Points struct {
	// Fallback WP value in soles when business_settings has no row yet.
	DefaultPointValue string `env:"DEFAULT_POINT_VALUE" envDefault:"0.10"`
}

type Storage struct {
	// Root directory holding the product-image, payment-qr and
	// payment-proof buckets.
	Dir string `env:"DIR" envDefault:"./storage"`
}

type Notify struct {
	// Webhook hit on new contact messages. Empty disables it.
	WebhookURL string `env:"WEBHOOK_URL"`
}

type Environment struct {
	Name string `env:"ENVIRONMENT" envDefault:"development"`
}

type Log struct {
	Level  string `env:"LOG_LEVEL" envDefault:"info"`
	Format string `env:"LOG_FORMAT" envDefault:"json"`
}

type HTTPServer struct {
	Host string `env:"HTTP_HOST" envDefault:"0.0.0.0"`
	Port string `env:"HTTP_PORT" envDefault:"8080"`
}
