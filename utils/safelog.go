// utils/safelog.go
// ============================================================================
// SAFE LOGGING - masks guest contact data in production
// ============================================================================
// Guests never consent to their email or phone number showing up in log
// aggregation. Every log line that mentions a guest goes through these helpers.
// ============================================================================

package utils

import (
	"context"
	"log/slog"
	"os"
	"regexp"
	"strings"
	"time"

	"github.com/lmittmann/tint"
)

// ============================================================================
// CONFIGURATION
// ============================================================================

// IsProduction switches masking on. Set once at startup by InitLogger.
var IsProduction = false

// InitLogger installs the process-wide slog logger.
func InitLogger(level string, production bool) {
	IsProduction = production

	slog.SetDefault(slog.New(
		tint.NewHandler(os.Stderr, &tint.Options{
			Level:      ParseLogLevel(level),
			AddSource:  !production,
			TimeFormat: time.Kitchen,
			NoColor:    production,
		}),
	))
}

func ParseLogLevel(level string) slog.Level {
	switch strings.ToUpper(level) {
	case "DEBUG":
		return slog.LevelDebug
	case "WARN", "WARNING":
		return slog.LevelWarn
	case "ERROR":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// ============================================================================
// MASKING PATTERNS
// ============================================================================

var (
	emailRegex = regexp.MustCompile(`[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}`)
	phoneRegex = regexp.MustCompile(`\+?\d[\d\s.()-]{6,}\d`)
	uuidRegex  = regexp.MustCompile(`[0-9a-fA-F]{8}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{12}`)
)

// ============================================================================
// MASKING FUNCTIONS
// ============================================================================

// MaskString masks emails, phone numbers and UUIDs inside free text.
func MaskString(input string) string {
	if !IsProduction {
		return input
	}

	result := emailRegex.ReplaceAllString(input, "***@***.***")
	result = uuidRegex.ReplaceAllStringFunc(result, MaskID)
	result = phoneRegex.ReplaceAllString(result, "***")
	return result
}

// MaskID keeps the first 8 characters of an identifier.
func MaskID(id string) string {
	if !IsProduction {
		return id
	}
	if len(id) <= 8 {
		return "***"
	}
	return id[:8] + "..."
}

func MaskEmail(email string) string {
	if !IsProduction || email == "" {
		return email
	}
	return "***@***.***"
}

// MaskPhone keeps the last two digits.
func MaskPhone(phone string) string {
	if !IsProduction || phone == "" {
		return phone
	}
	if len(phone) <= 2 {
		return "***"
	}
	return "***" + phone[len(phone)-2:]
}

// ============================================================================
// DOMAIN LOG HELPERS
// ============================================================================

// LogRSVP records an RSVP outcome without exposing guest contact data.
func LogRSVP(action, invitationID, guestID, email, phone string, status string) {
	slog.Info("[RSVP] "+action,
		"invitation", MaskID(invitationID),
		"guest", MaskID(guestID),
		"email", MaskEmail(email),
		"phone", MaskPhone(phone),
		"status", status,
	)
}

// LogAuthAction records an authentication attempt.
func LogAuthAction(action string, email string, success bool) {
	level := slog.LevelInfo
	if !success {
		level = slog.LevelWarn
	}
	slog.Log(context.Background(), level, "[Auth] "+action, "email", MaskEmail(email), "success", success)
}

// GetEnvMode returns the current environment label.
func GetEnvMode() string {
	if IsProduction {
		return "production"
	}
	return "development"
}
