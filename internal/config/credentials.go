// File: internal/config/credentials.go
// ============================================
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"

	"order-levels-bot/pkg/types"
)

// LoadDotEnv loads variables from the given .env files without overriding
// variables already set in the process. A missing file is not an error.
func LoadDotEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if _, err := os.Stat(f); err != nil {
			continue
		}
		if err := godotenv.Load(f); err != nil {
			return fmt.Errorf("failed to load %s: %w", f, err)
		}
	}
	return nil
}

// ResolveCredentials reads the bot token and chat id from the variables
// named in cfg.Notify. getenv defaults to os.Getenv.
func ResolveCredentials(cfg *types.Config, getenv func(string) string) (types.Credentials, error) {
	if getenv == nil {
		getenv = os.Getenv
	}

	creds := types.Credentials{
		BotToken: strings.TrimSpace(getenv(cfg.Notify.TokenEnv)),
		ChatID:   strings.TrimSpace(getenv(cfg.Notify.ChatIDEnv)),
	}

	var missing []string
	if creds.BotToken == "" {
		missing = append(missing, cfg.Notify.TokenEnv)
	}
	if creds.ChatID == "" {
		missing = append(missing, cfg.Notify.ChatIDEnv)
	}
	if len(missing) > 0 {
		return types.Credentials{}, fmt.Errorf("missing credentials: %s not set", strings.Join(missing, ", "))
	}
	return creds, nil
}
