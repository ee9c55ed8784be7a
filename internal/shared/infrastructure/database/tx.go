package database

import (
	"context"
	"errors"
)

// ErrNoTransaction is returned when Commit or Rollback finds no transaction
// in the context.
var ErrNoTransaction = errors.New("no transaction in context")

type txKey struct{}

// txScope is the transaction bound to a context. Only the outermost Begin
// owns the transaction and may end it.
type txScope struct {
	tx    Transaction
	owner bool
}

func scopeFrom(ctx context.Context) (txScope, bool) {
	scope, ok := ctx.Value(txKey{}).(txScope)
	return scope, ok && scope.tx != nil
}

// TxFromContext returns the transaction bound to ctx, or nil.
func TxFromContext(ctx context.Context) Transaction {
	if scope, ok := scopeFrom(ctx); ok {
		return scope.tx
	}
	return nil
}

// ExecutorFromContext returns the bound transaction when there is one and
// conn otherwise. Repositories call it on every statement.
func ExecutorFromContext(ctx context.Context, conn Connection) Executor {
	if tx := TxFromContext(ctx); tx != nil {
		return tx
	}
	return conn
}

// UnitOfWork implements application.UnitOfWork on top of a Connection.
// Nested Begin calls join the outer transaction.
type UnitOfWork struct {
	conn Connection
}

// NewUnitOfWork creates a UnitOfWork for conn.
func NewUnitOfWork(conn Connection) *UnitOfWork {
	return &UnitOfWork{conn: conn}
}

// Begin binds a transaction to the returned context.
func (u *UnitOfWork) Begin(ctx context.Context) (context.Context, error) {
	if scope, ok := scopeFrom(ctx); ok {
		return context.WithValue(ctx, txKey{}, txScope{tx: scope.tx}), nil
	}

	tx, err := u.conn.BeginTx(ctx)
	if err != nil {
		return nil, err
	}
	return context.WithValue(ctx, txKey{}, txScope{tx: tx, owner: true}), nil
}

// Commit commits when ctx owns the transaction. Joined scopes are no-ops.
func (u *UnitOfWork) Commit(ctx context.Context) error {
	return u.end(ctx, Transaction.Commit)
}

// Rollback rolls back when ctx owns the transaction. Joined scopes are no-ops.
func (u *UnitOfWork) Rollback(ctx context.Context) error {
	return u.end(ctx, Transaction.Rollback)
}

func (u *UnitOfWork) end(ctx context.Context, fn func(Transaction, context.Context) error) error {
	scope, ok := scopeFrom(ctx)
	if !ok {
		return ErrNoTransaction
	}
	if !scope.owner {
		return nil
	}
	return fn(scope.tx, ctx)
}

// InTx runs fn against the transaction bound to ctx, or against a fresh
// transaction on conn that is committed when fn succeeds.
func InTx(ctx context.Context, conn Connection, fn func(Executor) error) error {
	if tx := TxFromContext(ctx); tx != nil {
		return fn(tx)
	}

	tx, err := conn.BeginTx(ctx)
	if err != nil {
		return err
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback(ctx)
		return err
	}
	return tx.Commit(ctx)
}
