package auth

import (
	"encoding/base64"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/tradeport/tradeport-go/pkg/apierrors"
)

// DefaultTimestampWindow bounds replay exposure for signed requests. The
// upstream rejects timestamps older than this.
const DefaultTimestampWindow = 30 * time.Second

// base64Pattern is checked before decoding so that a bad secret produces a
// clear message instead of the decoder's positional error, which could leak
// part of the input.
var base64Pattern = regexp.MustCompile(`^[A-Za-z0-9+/]*={0,2}$`)

var whitespaceReplacer = strings.NewReplacer(" ", "", "\t", "", "\n", "", "\r", "")

// DecodeBase64 decodes standard base64 text. Whitespace is stripped first.
// Input containing characters outside the base64 alphabet fails without the
// input being echoed.
func DecodeBase64(s string) ([]byte, error) {
	s = whitespaceReplacer.Replace(s)
	if !base64Pattern.MatchString(s) {
		return nil, &apierrors.SignatureError{Message: "input contains characters outside the base64 alphabet"}
	}

	b, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return nil, &apierrors.SignatureError{Message: "malformed base64 input", Err: err}
	}
	return b, nil
}

// EncodeBase64 encodes raw bytes as standard base64. Empty input yields an
// empty string.
func EncodeBase64(b []byte) string {
	return base64.StdEncoding.EncodeToString(b)
}

// BuildSignaturePayload builds the exact string signed for an authenticated
// request:
//
//	apiKey + timestamp + path + METHOD + body
//
// concatenated with no separators. The field order and the absence of
// delimiters are part of the wire contract with the upstream server. The path
// always starts with a slash; the method is uppercased; body is the raw wire
// body, empty for bodyless requests.
func BuildSignaturePayload(apiKey string, timestamp int64, path, method, body string) string {
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return apiKey + strconv.FormatInt(timestamp, 10) + path + strings.ToUpper(method) + body
}

// IsTimestampFresh reports whether a unix-seconds timestamp is within maxAge
// of now. Future timestamps are invalid.
func IsTimestampFresh(timestamp int64, maxAge time.Duration) bool {
	return isTimestampFreshAt(timestamp, maxAge, time.Now())
}

func isTimestampFreshAt(timestamp int64, maxAge time.Duration, now time.Time) bool {
	age := now.Unix() - timestamp
	return age >= 0 && age <= int64(maxAge/time.Second)
}
