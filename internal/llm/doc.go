// Package llm provides text generation clients for the hosted model providers
// used by the advisor. Each provider speaks its own JSON API over net/http;
// errors are classified so callers can tell credential problems from
// transient failures.
package llm
