// Package gst classifies posted vouchers into statutory report categories
// and aggregates them for GST returns. Classification is lexical: account
// names identify tax lines and tax components, classification groups
// identify revenue and party rows. The token tables are configuration, not
// code, so other regimes can rebind them.
package gst

import (
	"strings"

	"github.com/ledgerbook-erp/ledgerbook/internal/ledger"
)

// Component is a tax tier bucket.
type Component string

const (
	ComponentCGST Component = "CGST"
	ComponentSGST Component = "SGST"
	ComponentIGST Component = "IGST"
	ComponentCess Component = "Cess"
)

// ComponentRule maps an account-name token to a component. Rules are
// checked in order; the first matching token wins.
type ComponentRule struct {
	Token     string
	Component Component
}

// Rules parameterize the categorizer.
type Rules struct {
	// TaxTokens mark an account as a tax line when its name contains any
	// of them, case-insensitively.
	TaxTokens []string
	// ComponentRules bucket a tax line into a component. Unmatched tax
	// lines fall back to DefaultComponent.
	ComponentRules   []ComponentRule
	DefaultComponent Component
	// RevenueGroups are the classification groups whose rows count toward
	// taxable value.
	RevenueGroups map[string]bool
	// PartyGroups identify the debtor/creditor row used for category
	// assignment.
	PartyGroups map[string]bool
	// B2CLThreshold is the invoice value above which a cross-state
	// unregistered sale becomes B2CL.
	B2CLThreshold float64
}

// DefaultRules returns the GST rule set.
func DefaultRules() Rules {
	return Rules{
		TaxTokens: []string{"gst", "tax", "duty", "cess", "vat"},
		ComponentRules: []ComponentRule{
			{Token: "cess", Component: ComponentCess},
			{Token: "integrated", Component: ComponentIGST},
			{Token: "igst", Component: ComponentIGST},
			{Token: "central", Component: ComponentCGST},
			{Token: "cgst", Component: ComponentCGST},
			{Token: "state", Component: ComponentSGST},
			{Token: "sgst", Component: ComponentSGST},
		},
		DefaultComponent: ComponentCGST,
		RevenueGroups: map[string]bool{
			ledger.GroupSalesAccounts:    true,
			ledger.GroupPurchaseAccounts: true,
		},
		PartyGroups: map[string]bool{
			ledger.GroupSundryDebtors:   true,
			ledger.GroupSundryCreditors: true,
		},
		B2CLThreshold: 250000,
	}
}

// IsTaxLine reports whether the account name denotes a tax ledger.
func (r Rules) IsTaxLine(accountName string) bool {
	name := strings.ToLower(accountName)
	for _, token := range r.TaxTokens {
		if strings.Contains(name, token) {
			return true
		}
	}
	return false
}

// ComponentFor buckets a tax account name into its component.
func (r Rules) ComponentFor(accountName string) Component {
	name := strings.ToLower(accountName)
	for _, rule := range r.ComponentRules {
		if strings.Contains(name, rule.Token) {
			return rule.Component
		}
	}
	return r.DefaultComponent
}
