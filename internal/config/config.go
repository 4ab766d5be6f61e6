package config

import "time"

type Config struct {
	Environment Environment
	Log         Log
	HTTP        HTTPServer
	Database    Database

	Auth       Auth
	Razorpay   Razorpay   `envPrefix:"RAZORPAY_"`
	Cloudinary Cloudinary `envPrefix:"CLOUDINARY_"`
	Redis      Redis      `envPrefix:"REDIS_"`
	Rabbit     Rabbit     `envPrefix:"RABBIT_"`
}

type Environment struct {
	Name string `env:"ENVIRONMENT" envDefault:"development"`
}

func (e Environment) IsProduction() bool {
	return e.Name == "production"
}

type Log struct {
	Level  string `env:"LOG_LEVEL" envDefault:"info"`
	Format string `env:"LOG_FORMAT" envDefault:"json"`
	File   string `env:"LOG_FILE"`
}

type HTTPServer struct {
	Host           string   `env:"HTTP_HOST" envDefault:"0.0.0.0"`
	Port           string   `env:"HTTP_PORT" envDefault:"8080"`
	AllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" envSeparator:"," envDefault:"http://localhost:5173,http://localhost:5174"`
}

func (h HTTPServer) Address() string {
	return h.Host + ":" + h.Port
}

type Database struct {
	Driver string `env:"DATABASE_DRIVER" envDefault:"mysql"` // mysql | postgres | sqlite
	URL    string `env:"DATABASE_URL"`
}

// Auth holds the signing secret and the admin credentials. The secret is not
// required at boot; requests that need it fail with a server error instead.
type Auth struct {
	JWTSecret     string        `env:"JWT_SECRET"`
	TokenTTL      time.Duration `env:"JWT_TTL" envDefault:"24h"`
	AdminEmail    string        `env:"ADMIN_EMAIL"`
	AdminPassword string        `env:"ADMIN_PASSWORD"`
}

type Razorpay struct {
	BaseApiURL string        `env:"BASE_API_URL" envDefault:"https://api.razorpay.com"`
	KeyID      string        `env:"KEY_ID"`
	KeySecret  string        `env:"KEY_SECRET"`
	Timeout    time.Duration `env:"TIMEOUT" envDefault:"10s"`
	MaxRetries int           `env:"MAX_RETRIES" envDefault:"1"`
}

type Cloudinary struct {
	BaseApiURL string        `env:"BASE_API_URL" envDefault:"https://api.cloudinary.com"`
	CloudName  string        `env:"CLOUD_NAME"`
	APIKey     string        `env:"API_KEY"`
	APISecret  string        `env:"API_SECRET"`
	Folder     string        `env:"FOLDER" envDefault:"products"`
	Timeout    time.Duration `env:"TIMEOUT" envDefault:"30s"`
	MaxRetries int           `env:"MAX_RETRIES" envDefault:"1"`
}

type Redis struct {
	Addr       string        `env:"ADDR"`
	ProductTTL time.Duration `env:"PRODUCT_TTL" envDefault:"5m"`
}

type Rabbit struct {
	URL      string `env:"URL"`
	Exchange string `env:"EXCHANGE" envDefault:"storefront.events"`
}
