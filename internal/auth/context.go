package auth

import "context"

// contextKey is a custom type for context keys to avoid collisions.
type contextKey string

// subjectContextKey is the context key for the verified token subject.
const subjectContextKey contextKey = "auth_subject"

// ContextWithSubject adds the verified token subject to the context.
func ContextWithSubject(ctx context.Context, subject string) context.Context {
	return context.WithValue(ctx, subjectContextKey, subject)
}

// SubjectFromContext returns the verified subject, or "" when the request is unauthenticated.
func SubjectFromContext(ctx context.Context) string {
	subject, _ := ctx.Value(subjectContextKey).(string)
	return subject
}
