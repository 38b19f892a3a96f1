package models

// MerchantMapping is a user-curated rule that maps a description pattern to a
// merchant name and optional category/account. Matching is case-insensitive
// substring containment, never equality. Pattern is unique per user.
type MerchantMapping struct {
	Pattern       string `json:"pattern" yaml:"pattern"`
	DisplayName   string `json:"display_name" yaml:"display_name"`
	CategoryID    string `json:"category_id,omitempty" yaml:"category_id,omitempty"`
	SubcategoryID string `json:"subcategory_id,omitempty" yaml:"subcategory_id,omitempty"`
	AccountID     string `json:"account_id,omitempty" yaml:"account_id,omitempty"`
	UseCount      int    `json:"use_count" yaml:"use_count"`
}

// KnownMerchant is an entry in the built-in catalogue. Lower priority than
// any user mapping, read-only, and carries only a category label (the user's
// category tree is not known to the catalogue).
type KnownMerchant struct {
	Pattern           string `yaml:"pattern"`
	DisplayName       string `yaml:"display_name"`
	SuggestedCategory string `yaml:"suggested_category,omitempty"`
}
