// Package errors defines the application error kinds raised by handlers and
// services. Each AppError carries a machine code, an envelope title and the
// HTTP status the error boundary responds with.
package errors
