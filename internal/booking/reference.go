package booking

import (
	"fmt"
	"math/rand"
	"strconv"
	"time"
)

const referenceSuffixLen = 7

// GenerateReference builds a booking reference of the form
// <prefix>-<unix-millis>-<base36 suffix>. It identifies the submission
// attempt; true idempotency is the X-Idempotency-Key header on the POST.
func GenerateReference(prefix string) string {
	suffix := strconv.FormatUint(rand.Uint64(), 36)
	if len(suffix) > referenceSuffixLen {
		suffix = suffix[:referenceSuffixLen]
	}
	for len(suffix) < referenceSuffixLen {
		suffix = "0" + suffix
	}
	return fmt.Sprintf("%s-%d-%s", prefix, time.Now().UnixMilli(), suffix)
}
