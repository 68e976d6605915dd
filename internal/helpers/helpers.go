package helpers

import (
	"context"
	"path"
	"regexp"
	"strconv"
	"strings"
)

const (
	TripsFolder = "trips"
)

type ctxKey string

const accessTokenKey ctxKey = "access_token"

// WithAccessToken attaches the caller's Supabase access token so repositories
// can issue requests under the user's row-level-security context.
func WithAccessToken(ctx context.Context, token string) context.Context {
	if token == "" {
		return ctx
	}
	return context.WithValue(ctx, accessTokenKey, token)
}

func AccessTokenFrom(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	token, _ := ctx.Value(accessTokenKey).(string)
	return token
}

// StringTrim strips whitespace and any surrounding quotes.
func StringTrim(s string) string {
	s = strings.TrimSpace(s)
	return strings.Trim(s, "\"'")
}

func ParseID(raw string) (int64, error) {
	return strconv.ParseInt(StringTrim(raw), 10, 64)
}

// TripImageFolder is the storage prefix holding every image of a trip.
func TripImageFolder(tripKey string) string {
	return path.Join(TripsFolder, StringTrim(tripKey))
}

var (
	lowerRe   = regexp.MustCompile(`[a-z]`)
	upperRe   = regexp.MustCompile(`[A-Z]`)
	numberRe  = regexp.MustCompile(`\d`)
	specialRe = regexp.MustCompile(`[@$!%*?&]`)
)

func IsPasswordStrong(password string) bool {
	if len(password) < 8 {
		return false
	}
	return lowerRe.MatchString(password) &&
		upperRe.MatchString(password) &&
		numberRe.MatchString(password) &&
		specialRe.MatchString(password)
}

// CompactStrings drops empty entries while keeping order.
func CompactStrings(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if strings.TrimSpace(s) == "" {
			continue
		}
		out = append(out, s)
	}
	return out
}
