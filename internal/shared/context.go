package shared

import "context"

type companyContextKey struct{}

// ContextWithCompany stores the company scope in context.
func ContextWithCompany(ctx context.Context, company string) context.Context {
	return context.WithValue(ctx, companyContextKey{}, company)
}

// CompanyFromContext extracts the company scope from context.
// An empty string means the default (unscoped) company.
func CompanyFromContext(ctx context.Context) string {
	company, _ := ctx.Value(companyContextKey{}).(string)
	return company
}
