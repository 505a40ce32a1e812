package narrative

import (
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// GenerateID returns prefix-<base36 unix millis>-<8 random hex chars>.
// Unique enough for a single local store; not a security token.
func GenerateID(prefix string) string {
	return generateID(prefix, time.Now())
}

func generateID(prefix string, now time.Time) string {
	ts := strconv.FormatInt(now.UnixMilli(), 36)
	rnd := strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
	if prefix == "" {
		return ts + "-" + rnd
	}
	return prefix + "-" + ts + "-" + rnd
}
