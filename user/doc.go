// Package user is a small in-memory user resource served over Gin. Its
// handlers report every failure through c.Error so that the error boundary
// renders it as an envelope.
package user
