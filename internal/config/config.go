package config

type Config struct {
	Environment Environment
	Log         Log
	HTTP        HTTPServer
	BaseURL     string `env:"BASE_URL"`
	DatabaseURL string `env:"DATABASE_URL"`

	Auth  Auth  `envPrefix:"AUTH_"`
	VNPay VNPay `envPrefix:"VNPAY_"`
	MoMo  MoMo  `envPrefix:"MOMO_"`
	App   App   `envPrefix:"APP_"`
}

type VNPay struct {
	TmnCode    string `env:"TMN_CODE"`
	HashSecret string `env:"HASH_SECRET"`
	PayURL     string `env:"PAY_URL"`
	ReturnURL  string `env:"RETURN_URL"`
}

type MoMo struct {
	PartnerCode string `env:"PARTNER_CODE"`
	AccessKey   string `env:"ACCESS_KEY"`
	SecretKey   string `env:"SECRET_KEY"`
	APIEndpoint string `env:"API_ENDPOINT"`
	NotifyURL   string `env:"NOTIFY_URL"`
	RedirectURL string `env:"REDIRECT_URL"`
}

type App struct {
	// deep link the browser-return channel always redirects to
	DeepLink string `env:"DEEP_LINK" envDefault:"bartendercommunity://payment/callback"`
}

type Auth struct {
	JWTSecret string `env:"JWT_SECRET"`
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
