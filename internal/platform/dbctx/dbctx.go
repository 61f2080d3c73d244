package dbctx

import (
	"context"

	"gorm.io/gorm"
)

// Context bundles a request context with an optional GORM transaction.
type Context struct {
	Ctx context.Context
	Tx  *gorm.DB
}

// Of returns a Context without a transaction.
func Of(ctx context.Context) Context {
	return Context{Ctx: ctx}
}

// DB picks the transaction when one is open, falling back to base, and binds
// the request context.
func (c Context) DB(base *gorm.DB) *gorm.DB {
	t := c.Tx
	if t == nil {
		t = base
	}
	if c.Ctx != nil {
		t = t.WithContext(c.Ctx)
	}
	return t
}
