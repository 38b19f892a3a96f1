// Package merchant resolves cleaned transaction descriptions to merchant
// names and categories. User-defined mappings always win over the built-in
// catalogue; when nothing matches, a best-effort name is synthesized from
// the description itself.
package merchant

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/log"

	"github.com/ledgerkeep/ingest/pkg/models"
)

// Resolution is the outcome of resolving one description.
type Resolution struct {
	MerchantName      string
	CategoryID        string
	SubcategoryID     string
	AccountID         string
	SuggestedCategory string
	Pattern           string
	Matched           bool
}

// Resolver matches descriptions against a priority-ordered mapping table.
// The catalogue is injected so tests and deployments can swap it out.
type Resolver struct {
	catalogue []models.KnownMerchant
	logger    *log.Logger
}

// New creates a Resolver over the given catalogue.
func New(catalogue []models.KnownMerchant, logger *log.Logger) *Resolver {
	return &Resolver{
		catalogue: catalogue,
		logger:    logger,
	}
}

// Resolve matches the description against, in priority order: the user's
// mappings, then catalogue entries whose pattern is absent from the user
// table. Matching is case-insensitive substring containment, first found.
// Patterns are expected to be specific enough that order between multiple
// matches does not matter; no specificity tie-break is computed.
func (r *Resolver) Resolve(description string, mappings []models.MerchantMapping) Resolution {
	normalized := strings.ToLower(strings.Join(strings.Fields(description), " "))

	userPatterns := make(map[string]bool, len(mappings))
	for _, m := range mappings {
		pattern := strings.ToLower(strings.TrimSpace(m.Pattern))
		if pattern == "" {
			continue
		}
		userPatterns[pattern] = true
		if strings.Contains(normalized, pattern) {
			return Resolution{
				MerchantName:  m.DisplayName,
				CategoryID:    m.CategoryID,
				SubcategoryID: m.SubcategoryID,
				AccountID:     m.AccountID,
				Pattern:       m.Pattern,
				Matched:       true,
			}
		}
	}

	for _, k := range r.catalogue {
		pattern := strings.ToLower(strings.TrimSpace(k.Pattern))
		if pattern == "" || userPatterns[pattern] {
			continue
		}
		if strings.Contains(normalized, pattern) {
			return Resolution{
				MerchantName:      k.DisplayName,
				SuggestedCategory: k.SuggestedCategory,
				Pattern:           k.Pattern,
				Matched:           true,
			}
		}
	}

	return Resolution{
		MerchantName: CleanDescription(description),
		Matched:      false,
	}
}

const maxSynthesizedNameLen = 50

var (
	cardMaskRe  = regexp.MustCompile(`\b\d*[xX*]{2,}\d*\b`)
	timeStampRe = regexp.MustCompile(`\b\d{1,2}:\d{2}(?::\d{2})?\b`)
	noiseWordRe = regexp.MustCompile(`(?i)\b(?:POS|PURCHASE|CARD|DEBIT|CREDIT|ATM|TRANSFER)\b`)
)

// CleanDescription strips known noise tokens (card-number masks, terminal
// keywords, time-of-day stamps) from a description and truncates it, to
// synthesize a readable merchant name when no pattern matched.
func CleanDescription(description string) string {
	s := cardMaskRe.ReplaceAllString(description, " ")
	s = timeStampRe.ReplaceAllString(s, " ")
	s = noiseWordRe.ReplaceAllString(s, " ")
	s = strings.Join(strings.Fields(s), " ")

	if len(s) > maxSynthesizedNameLen {
		cut := maxSynthesizedNameLen
		for cut > 0 && !utf8.RuneStart(s[cut]) {
			cut--
		}
		s = strings.TrimSpace(s[:cut])
	}
	return s
}
