package format

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// DefaultInvoiceNumberTemplate yields numbers like INV-20250701-000042.
const DefaultInvoiceNumberTemplate = "INV-{YYYY}{MM}{DD}-{SEQ6}"

var paddedSeqToken = regexp.MustCompile(`\{SEQ(\d+)\}`)

// FormatInvoiceNumber expands a number template against the issue date and a
// positive sequence. Date tokens are {YYYY}, {YY}, {MM}, {DD}; {SEQ} inserts
// the bare sequence and {SEQn} zero-pads it to n digits. A template with
// tokens left unresolved is an error, never a half-expanded number.
func FormatInvoiceNumber(template string, issuedAt time.Time, seq int64) (string, error) {
	if template == "" {
		return "", errors.New("invoice number template is empty")
	}
	if seq <= 0 {
		return "", fmt.Errorf("invalid invoice sequence: %d", seq)
	}

	replacer := strings.NewReplacer(
		"{YYYY}", issuedAt.Format("2006"),
		"{YY}", issuedAt.Format("06"),
		"{MM}", issuedAt.Format("01"),
		"{DD}", issuedAt.Format("02"),
		"{SEQ}", strconv.FormatInt(seq, 10),
	)
	out := replacer.Replace(template)

	out = paddedSeqToken.ReplaceAllStringFunc(out, func(token string) string {
		width, err := strconv.Atoi(paddedSeqToken.FindStringSubmatch(token)[1])
		if err != nil || width <= 0 {
			return token
		}
		return fmt.Sprintf("%0*d", width, seq)
	})

	if strings.ContainsAny(out, "{}") {
		return "", fmt.Errorf("unresolved token in invoice number template: %s", out)
	}
	return out, nil
}
