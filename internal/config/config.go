package config

import (
	"os"
	"strconv"
	"strings"
)

// Storage backends selectable with STORAGEBACKEND.
const (
	StorageMemory    = "memory"
	StorageFirestore = "firestore"
)

const defaultGitHubRepo = "StantonManagement/Defogger2"

type Config struct {
	Port           string
	Environment    string
	LogLevel       string
	StorageBackend string
	ProjectID      string
	AuthEnabled    bool
	AllowedOrigins []string
	SeedFile       string

	RedisAddr     string
	RedisPassword string

	GitHubToken       string
	GitHubTokenSecret string
	GitHubRepo        string

	OneDriveClientID     string
	OneDriveClientSecret string
	OneDriveTenantID     string
	OneDriveRedirectURI  string
	OneDriveFolderPath   string
}

func New() *Config {
	return &Config{
		Port:           getEnv("PORT", "8080"),
		Environment:    getEnv("ENVIRONMENT", "development"),
		LogLevel:       os.Getenv("LOGLEVEL"),
		StorageBackend: getStorageBackend(os.Getenv("STORAGEBACKEND")),
		ProjectID:      os.Getenv("PROJECTID"),
		AuthEnabled:    getBool("AUTHENABLED"),
		AllowedOrigins: getList("ALLOWEDORIGINS"),
		SeedFile:       os.Getenv("SEEDFILE"),

		RedisAddr:     os.Getenv("REDISADDR"),
		RedisPassword: os.Getenv("REDISPASSWORD"),

		GitHubToken:       os.Getenv("GITHUBTOKEN"),
		GitHubTokenSecret: os.Getenv("GITHUBTOKENSECRET"),
		GitHubRepo:        getEnv("GITHUBREPO", defaultGitHubRepo),

		OneDriveClientID:     os.Getenv("ONEDRIVECLIENTID"),
		OneDriveClientSecret: os.Getenv("ONEDRIVECLIENTSECRET"),
		OneDriveTenantID:     getEnv("ONEDRIVETENANTID", "common"),
		OneDriveRedirectURI:  getEnv("ONEDRIVEREDIRECTURI", "http://localhost:8080/auth/callback"),
		OneDriveFolderPath:   getEnv("ONEDRIVEFOLDERPATH", "/"),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getBool(key string) bool {
	b, _ := strconv.ParseBool(os.Getenv(key))
	return b
}

func getList(key string) []string {
	var out []string
	for _, v := range strings.Split(os.Getenv(key), ",") {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

func getStorageBackend(v string) string {
	switch strings.ToLower(v) {
	case StorageFirestore:
		return StorageFirestore
	default: // "memory"
		return StorageMemory
	}
}
