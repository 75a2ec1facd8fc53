package llm

import "context"

type purposeKey struct{}

// PurposeChallengeGen labels requests made by the challenge pack generator.
const PurposeChallengeGen = "challenge-gen"

// repairSuffix marks a retry that sends a rejected response back for
// correction, so `galacticode llm stats` counts repairs separately.
const repairSuffix = "/repair"

// WithPurpose labels every request made with ctx.
func WithPurpose(ctx context.Context, purpose string) context.Context {
	return context.WithValue(ctx, purposeKey{}, purpose)
}

// PurposeFrom returns the label set by WithPurpose, or "unknown".
func PurposeFrom(ctx context.Context) string {
	if v, ok := ctx.Value(purposeKey{}).(string); ok && v != "" {
		return v
	}
	return "unknown"
}

func withRepair(ctx context.Context) context.Context {
	return WithPurpose(ctx, PurposeFrom(ctx)+repairSuffix)
}
