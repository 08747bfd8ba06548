package testutil

import (
	"os"
	"regexp"
	"sync"
	"testing"

	"github.com/joho/godotenv"
)

var loadEnvOnce sync.Once

func maskSecret(s string) string {
	re := regexp.MustCompile(`\b(\w{4})\w+\b`)
	s = re.ReplaceAllString(s, "$1******")
	return s
}

// IntegrationTestConfigured reports whether the <prefix>_API_KEY_ID and
// <prefix>_API_SECRET_SEED env vars are set and TEST_<prefix>=1 opted the
// integration tests in. A .env.local file is honored when present.
func IntegrationTestConfigured(t *testing.T, prefix string) (keyID, seed string, ok bool) {
	loadEnvOnce.Do(func() {
		_ = godotenv.Load(".env.local")
	})

	var hasKey, hasSeed bool
	keyID, hasKey = os.LookupEnv(prefix + "_API_KEY_ID")
	seed, hasSeed = os.LookupEnv(prefix + "_API_SECRET_SEED")
	ok = hasKey && hasSeed && os.Getenv("TEST_"+prefix) == "1"
	if ok {
		t.Logf(prefix+" api integration test enabled, key id = %s, seed = %s", maskSecret(keyID), maskSecret(seed))
	}

	return keyID, seed, ok
}
