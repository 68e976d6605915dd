package config

import (
	"fmt"
	"os"
	"strings"
)

type Config struct {
	Port             string
	SupabaseURL      string
	SupabaseAnonKey  string
	SupabaseJWTKey   string
	StorageBucket    string
	ImageStore       string
	CloudinaryName   string
	CloudinaryKey    string
	CloudinarySecret string
	MongoDBURI       string
	MongoDBPassword  string
	FrontendURL      string
	AllowedOrigins   []string
	Environment      string
	LogLevel         string
}

func LoadConfig() (*Config, error) {
	cfg := &Config{
		Port:             getEnvWithDefault("PORT", "8080"),
		SupabaseURL:      os.Getenv("SUPABASE_URL"),
		SupabaseAnonKey:  os.Getenv("SUPABASE_URL_ANON_KEY"),
		SupabaseJWTKey:   os.Getenv("SUPABASE_JWT_SECRET"),
		StorageBucket:    getEnvWithDefault("SUPABASE_STORAGE_BUCKET", "trip-images"),
		ImageStore:       strings.ToLower(getEnvWithDefault("IMAGE_STORE", "supabase")),
		CloudinaryName:   os.Getenv("CLOUDINARY_CLOUD_NAME"),
		CloudinaryKey:    os.Getenv("CLOUDINARY_API_KEY"),
		CloudinarySecret: os.Getenv("CLOUDINARY_API_SECRET"),
		MongoDBURI:       os.Getenv("MONGODB_URI"),
		MongoDBPassword:  os.Getenv("MONGODB_PASSWORD"),
		FrontendURL:      getEnvWithDefault("FRONTEND_URL", "http://localhost:3000"),
		AllowedOrigins:   splitList(getEnvWithDefault("CORS_ALLOWED_ORIGINS", "http://localhost:3000")),
		Environment:      getEnvWithDefault("ENVIRONMENT", "development"),
		LogLevel:         getEnvWithDefault("LOG_LEVEL", "info"),
	}

	// Validate required fields
	if cfg.SupabaseURL == "" {
		return nil, fmt.Errorf("SUPABASE_URL is required")
	}
	if cfg.SupabaseAnonKey == "" {
		return nil, fmt.Errorf("SUPABASE_URL_ANON_KEY is required")
	}
	switch cfg.ImageStore {
	case "supabase":
	case "cloudinary":
		if cfg.CloudinaryName == "" || cfg.CloudinaryKey == "" || cfg.CloudinarySecret == "" {
			return nil, fmt.Errorf("CLOUDINARY_CLOUD_NAME, CLOUDINARY_API_KEY and CLOUDINARY_API_SECRET are required when IMAGE_STORE=cloudinary")
		}
	default:
		return nil, fmt.Errorf("unknown IMAGE_STORE %q", cfg.ImageStore)
	}
	// Mongo is optional; view tracking and saved trips are disabled without it.
	if cfg.MongoDBURI != "" && strings.Contains(cfg.MongoDBURI, "<password>") && cfg.MongoDBPassword == "" {
		return nil, fmt.Errorf("MONGODB_PASSWORD is required when MONGODB_URI has a <password> placeholder")
	}

	return cfg, nil
}

func getEnvWithDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

func (c *Config) CloudinaryEnabled() bool {
	return c.ImageStore == "cloudinary"
}

func (c *Config) MongoEnabled() bool {
	return c.MongoDBURI != ""
}
