// Package repository provides the record adapter: a generic repository built
// on Bun that exposes add, read, paginated read, update, and delete primitives
// over arbitrary record types. Every operation commits before it returns.
package repository
