package config

import (
	"os"
	"strings"

	"github.com/cockroachdb/errors"
)

type Config struct {
	SpreadsheetID            string
	GoogleServiceAccountJSON string

	HTTPAddr string
	LogLevel string

	// Distinta export: template file and destination folder on Drive.
	// Required only when the export is used.
	DistintaTemplateFileID string
	DistintaFolderID       string

	// Club identity used by the distinta header and the payments message.
	TeamName        string
	ExcludedSurname string

	// Optional Telegram announcer for the payments message.
	TelegramToken  string
	TelegramChatID string
}

func FromEnv() (Config, error) {
	var c Config
	c.SpreadsheetID = strings.TrimSpace(os.Getenv("SPREADSHEET_ID"))
	c.GoogleServiceAccountJSON = strings.TrimSpace(os.Getenv("GOOGLE_SERVICE_ACCOUNT_JSON"))

	c.HTTPAddr = strings.TrimSpace(os.Getenv("HTTP_ADDR"))
	if c.HTTPAddr == "" {
		c.HTTPAddr = ":8080"
	}
	c.LogLevel = strings.TrimSpace(os.Getenv("LOG_LEVEL"))
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}

	c.DistintaTemplateFileID = strings.TrimSpace(os.Getenv("DISTINTA_TEMPLATE_FILE_ID"))
	c.DistintaFolderID = strings.TrimSpace(os.Getenv("DISTINTA_FOLDER_ID"))

	c.TeamName = strings.TrimSpace(os.Getenv("TEAM_NAME"))
	if c.TeamName == "" {
		c.TeamName = "DOCTORI"
	}
	c.ExcludedSurname = strings.TrimSpace(os.Getenv("EXCLUDED_SURNAME"))
	if c.ExcludedSurname == "" {
		c.ExcludedSurname = "guidi"
	}

	c.TelegramToken = strings.TrimSpace(os.Getenv("TELEGRAM_BOT_TOKEN"))
	c.TelegramChatID = strings.TrimSpace(os.Getenv("TELEGRAM_CHAT_ID"))

	if c.SpreadsheetID == "" {
		return c, errors.New("SPREADSHEET_ID is empty")
	}
	if c.GoogleServiceAccountJSON == "" {
		return c, errors.New("GOOGLE_SERVICE_ACCOUNT_JSON is empty")
	}
	return c, nil
}
