// Package parser recognizes the textual alarm request grammar used by the
// interactive console and replay scripts.
package parser
