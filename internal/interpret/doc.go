// Package interpret defines the boundary for turning fitted models into
// plain-language readings. The Interpreter interface abstracts the language
// model integration so the rest of the application never couples to a
// specific provider.
package interpret
