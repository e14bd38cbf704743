package http

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/shoppi/core/internal/i18n"
	"github.com/shoppi/core/internal/infrastructure/logger"
)

// ManifestHandler serves the installable web-app manifest, localized by
// the persisted locale cookie.
type ManifestHandler struct {
	defaultLocale i18n.Locale
	logger        *logger.Logger
}

// NewManifestHandler creates a new manifest handler
func NewManifestHandler(defaultLocale i18n.Locale, logger *logger.Logger) *ManifestHandler {
	return &ManifestHandler{
		defaultLocale: defaultLocale,
		logger:        logger,
	}
}

type manifestIcon struct {
	Src     string `json:"src"`
	Sizes   string `json:"sizes"`
	Type    string `json:"type"`
	Purpose string `json:"purpose"`
}

type manifest struct {
	Name            string         `json:"name"`
	ShortName       string         `json:"short_name"`
	Description     string         `json:"description"`
	StartURL        string         `json:"start_url"`
	Display         string         `json:"display"`
	BackgroundColor string         `json:"background_color"`
	ThemeColor      string         `json:"theme_color"`
	Orientation     string         `json:"orientation"`
	Icons           []manifestIcon `json:"icons"`
}

// GetManifest returns the manifest with the app name and description in
// the locale carried by the NEXT_LOCALE cookie.
func (h *ManifestHandler) GetManifest(c echo.Context) error {
	locale := h.defaultLocale
	if cookie, err := c.Cookie(i18n.CookieName); err == nil {
		locale = i18n.Parse(cookie.Value)
	}
	dict := i18n.For(locale)

	body := manifest{
		Name:            dict.AppName,
		ShortName:       dict.AppName,
		Description:     dict.AppDescription,
		StartURL:        "/",
		Display:         "standalone",
		BackgroundColor: "#ffffff",
		ThemeColor:      "#317EFB",
		Orientation:     "portrait",
		Icons: []manifestIcon{
			{Src: "/icons/icon-192x192.png", Sizes: "192x192", Type: "image/png", Purpose: "any maskable"},
			{Src: "/icons/icon-512x512.png", Sizes: "512x512", Type: "image/png", Purpose: "any maskable"},
		},
	}

	c.Response().Header().Set(echo.HeaderContentType, "application/manifest+json")
	c.Response().Header().Set("Cache-Control", "no-store")
	return c.JSON(http.StatusOK, body)
}
