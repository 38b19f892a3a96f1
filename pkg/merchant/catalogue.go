package merchant

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/ledgerkeep/ingest/pkg/models"
)

// DefaultCatalogue returns the built-in known-merchant list. Patterns are
// matched as case-insensitive substrings of normalized descriptions. The
// catalogue is a low-priority fallback: user mappings always shadow it.
func DefaultCatalogue() []models.KnownMerchant {
	return []models.KnownMerchant{
		{Pattern: "spinneys", DisplayName: "Spinneys", SuggestedCategory: "Groceries"},
		{Pattern: "carrefour", DisplayName: "Carrefour", SuggestedCategory: "Groceries"},
		{Pattern: "aldi", DisplayName: "Aldi", SuggestedCategory: "Groceries"},
		{Pattern: "lidl", DisplayName: "Lidl", SuggestedCategory: "Groceries"},
		{Pattern: "starbucks", DisplayName: "Starbucks", SuggestedCategory: "Coffee & Cafes"},
		{Pattern: "costa", DisplayName: "Costa Coffee", SuggestedCategory: "Coffee & Cafes"},
		{Pattern: "mcdonald", DisplayName: "McDonald's", SuggestedCategory: "Dining Out"},
		{Pattern: "kfc", DisplayName: "KFC", SuggestedCategory: "Dining Out"},
		{Pattern: "burger king", DisplayName: "Burger King", SuggestedCategory: "Dining Out"},
		{Pattern: "uber eats", DisplayName: "Uber Eats", SuggestedCategory: "Dining Out"},
		{Pattern: "uber", DisplayName: "Uber", SuggestedCategory: "Transport"},
		{Pattern: "careem", DisplayName: "Careem", SuggestedCategory: "Transport"},
		{Pattern: "bolt", DisplayName: "Bolt", SuggestedCategory: "Transport"},
		{Pattern: "shell", DisplayName: "Shell", SuggestedCategory: "Fuel"},
		{Pattern: "total", DisplayName: "TotalEnergies", SuggestedCategory: "Fuel"},
		{Pattern: "amazon", DisplayName: "Amazon", SuggestedCategory: "Shopping"},
		{Pattern: "aliexpress", DisplayName: "AliExpress", SuggestedCategory: "Shopping"},
		{Pattern: "ikea", DisplayName: "IKEA", SuggestedCategory: "Home"},
		{Pattern: "zara", DisplayName: "Zara", SuggestedCategory: "Clothing"},
		{Pattern: "h&m", DisplayName: "H&M", SuggestedCategory: "Clothing"},
		{Pattern: "netflix", DisplayName: "Netflix", SuggestedCategory: "Subscriptions"},
		{Pattern: "spotify", DisplayName: "Spotify", SuggestedCategory: "Subscriptions"},
		{Pattern: "apple.com", DisplayName: "Apple", SuggestedCategory: "Subscriptions"},
		{Pattern: "google", DisplayName: "Google", SuggestedCategory: "Subscriptions"},
		{Pattern: "pharmacy", DisplayName: "Pharmacy", SuggestedCategory: "Health"},
	}
}

// catalogueFile is the YAML shape of a catalogue override file.
type catalogueFile struct {
	Merchants []models.KnownMerchant `yaml:"merchants"`
}

// LoadCatalogue reads a catalogue override from a YAML file.
func LoadCatalogue(path string) ([]models.KnownMerchant, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalogue file %s: %w", path, err)
	}

	var file catalogueFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse catalogue file %s: %w", path, err)
	}
	if len(file.Merchants) == 0 {
		return nil, fmt.Errorf("catalogue file %s has no merchants", path)
	}
	return file.Merchants, nil
}
