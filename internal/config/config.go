package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"taromini/internal/lang"
)

type Config struct {
	// TaroAPIURL is the base URL of the tarot backend.
	TaroAPIURL string
	// StorageBackend: "vk" or "local".
	StorageBackend string
	VKToken        string
	DBPath         string
	AppLang        lang.Language
	// LogMode: "dev" or "prod".
	LogMode     string
	HTTPTimeout time.Duration
}

func Load() (*Config, error) {
	get := func(key string) string { return os.Getenv(key) }

	apiURL := get("TARO_API_URL")
	if apiURL == "" {
		apiURL = "https://taro-d8jd.onrender.com"
	}

	backend := strings.ToLower(strings.TrimSpace(get("STORAGE_BACKEND")))
	if backend == "" {
		backend = "local"
	}
	if backend != "vk" && backend != "local" {
		return nil, fmt.Errorf("invalid STORAGE_BACKEND %q (want vk or local)", backend)
	}

	vkToken := get("VK_TOKEN")
	if backend == "vk" && vkToken == "" {
		return nil, fmt.Errorf("VK_TOKEN is required when STORAGE_BACKEND=vk")
	}

	dbPath := get("DB_PATH")
	if dbPath == "" {
		dbPath = "taromini.db"
	}

	appLang := lang.Default()
	if v := get("APP_LANG"); v != "" {
		appLang = lang.Language(strings.ToLower(v))
		if !lang.Valid(appLang) {
			return nil, fmt.Errorf("invalid APP_LANG %q", v)
		}
	}

	logMode := get("LOG_MODE")
	if logMode == "" {
		logMode = "prod"
	}

	timeout := 30 * time.Second
	if v := get("HTTP_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return nil, fmt.Errorf("invalid HTTP_TIMEOUT %q: %w", v, err)
		}
		timeout = d
	}

	return &Config{
		TaroAPIURL:     apiURL,
		StorageBackend: backend,
		VKToken:        vkToken,
		DBPath:         dbPath,
		AppLang:        appLang,
		LogMode:        logMode,
		HTTPTimeout:    timeout,
	}, nil
}
