// Package nlu implements the rule-based half of the routing layer: entity
// extraction and intent classification over fixed keyword tables. Everything
// here is pure and stateless; the tables are data so they can be tested and
// extended without touching control flow.
package nlu

import (
	"regexp"
	"strings"
)

// orderIDPattern matches an order identifier: the literal ORD followed by at
// least three digits, case-insensitive.
var orderIDPattern = regexp.MustCompile(`(?i)ORD\d{3,}`)

// ExtractOrderID returns the first order identifier found in text, uppercased.
// The second return value is false when text is blank or carries no order id.
func ExtractOrderID(text string) (string, bool) {
	if strings.TrimSpace(text) == "" {
		return "", false
	}
	m := orderIDPattern.FindString(text)
	if m == "" {
		return "", false
	}
	return strings.ToUpper(m), true
}

// productRule maps keyword variants to a canonical product name. A variant is
// a conjunction of literal keywords that must all be present in the
// lower-cased input; the first rule with a satisfied variant wins.
type productRule struct {
	name     string
	variants [][]string
}

var productRules = []productRule{
	{
		name: "iPhone 15 Pro",
		variants: [][]string{
			{"iphone 15 pro"},
			{"iphone", "15"},
			{"苹果15"},
		},
	},
	{
		name: "MacBook Air M2",
		variants: [][]string{
			{"macbook air m2"},
			{"macbook", "m2"},
			{"macbook air"},
		},
	},
	{
		name: "AirPods Pro",
		variants: [][]string{
			{"airpods pro"},
			{"airpods"},
		},
	},
}

// ExtractProductName resolves a known product mentioned in text to its
// canonical name. Matching is literal keyword containment only; there is no
// fuzzy matching.
func ExtractProductName(text string) (string, bool) {
	lower := strings.ToLower(text)
	if strings.TrimSpace(lower) == "" {
		return "", false
	}
	for _, rule := range productRules {
		for _, variant := range rule.variants {
			if containsAll(lower, variant) {
				return rule.name, true
			}
		}
	}
	return "", false
}

func containsAll(s string, keywords []string) bool {
	for _, kw := range keywords {
		if !strings.Contains(s, kw) {
			return false
		}
	}
	return true
}
