package auth

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"regexp"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/serviyapp/serviyapp-api/store"
)

const (
	handleMinLen = 3
	handleMaxLen = 20

	// lookups made with a numeric suffix before falling back to a uuid fragment
	handleAttempts    = 5
	handleSuffixRange = 10000
	handleFallbackLen = 8
	handleFiller      = "provider"
)

var nonAlphanumeric = regexp.MustCompile(`[^a-zA-Z0-9]+`)

// baseHandle derives a lower-case alphanumeric handle of 3..20 characters
// from a display name, falling back to the email local part
func baseHandle(displayName, email string) string {
	handle := strings.ToLower(nonAlphanumeric.ReplaceAllString(displayName, ""))
	if handle == "" {
		handle = strings.ToLower(nonAlphanumeric.ReplaceAllString(localPart(email), ""))
	}
	if len(handle) < handleMinLen {
		handle += handleFiller
	}
	if len(handle) > handleMaxLen {
		handle = handle[:handleMaxLen]
	}
	return handle
}

// withSuffix appends suffix, trimming base so the result fits handleMaxLen
func withSuffix(base, suffix string) string {
	if room := handleMaxLen - len(suffix); len(base) > room {
		base = base[:room]
	}
	return base + suffix
}

func localPart(email string) string {
	if at := strings.IndexByte(email, '@'); at >= 0 {
		return email[:at]
	}
	return email
}

func randomSuffix() int {
	n, err := rand.Int(rand.Reader, big.NewInt(handleSuffixRange))
	if err != nil {
		return 0
	}
	return int(n.Int64())
}

// handleAllocator finds a handle no provider owns yet
type handleAllocator struct {
	providers ProviderStore
	suffix    func() int
}

func (a *handleAllocator) allocate(ctx context.Context, base string) (string, error) {
	candidate := base
	for attempt := 0; attempt < handleAttempts; attempt++ {
		taken, err := a.taken(ctx, candidate)
		if err != nil {
			return "", err
		}
		if !taken {
			return candidate, nil
		}
		candidate = withSuffix(base, strconv.Itoa(a.suffix()))
	}

	fragment := strings.ReplaceAll(uuid.NewString(), "-", "")[:handleFallbackLen]
	candidate = withSuffix(base, fragment)
	taken, err := a.taken(ctx, candidate)
	if err != nil {
		return "", err
	}
	if taken {
		return "", ErrHandleCollision
	}
	return candidate, nil
}

func (a *handleAllocator) taken(ctx context.Context, handle string) (bool, error) {
	_, err := a.providers.FindByHandle(ctx, handle)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, store.ErrNotFound):
		return false, nil
	default:
		return false, fmt.Errorf("failed to check handle: %w", err)
	}
}
