// Package txn runs a group of writes inside a MongoDB transaction when the
// deployment supports one, and runs them in order without a transaction when
// it does not (standalone servers, some test setups).
//
// Callers must therefore pass a function whose steps are safe to repeat: on a
// standalone server a step that failed midway is retried from the top on the
// next attempt, not rolled back.
package txn

import (
	"context"
	"errors"
	"strings"

	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Run executes fn inside a transaction on db's client. If the server rejects
// sessions or transactions, fn is executed directly with ctx.
func Run(ctx context.Context, db *mongo.Database, log *zap.Logger, fn func(ctx context.Context) error) error {
	sess, err := db.Client().StartSession()
	if err != nil {
		if IsNotSupported(err) {
			logFallback(log, err)
			return fn(ctx)
		}
		return err
	}
	defer sess.EndSession(ctx)

	_, err = sess.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		return nil, fn(sc)
	})
	if err != nil && IsNotSupported(err) {
		logFallback(log, err)
		return fn(ctx)
	}
	return err
}

func logFallback(log *zap.Logger, err error) {
	if log == nil {
		return
	}
	log.Debug("transactions unavailable; running steps without one", zap.Error(err))
}

// IsNotSupported reports whether err means the server cannot run
// transactions (as opposed to a transaction that ran and failed).
func IsNotSupported(err error) bool {
	if err == nil {
		return false
	}

	var ce mongo.CommandError
	if errors.As(err, &ce) {
		switch ce.Code {
		case 20, // IllegalOperation
			51,  // standalone: transaction numbers need a replica set
			263: // OperationNotSupportedInTransaction
			return true
		}
	}

	msg := strings.ToLower(err.Error())
	has := func(a, b string) bool { return strings.Contains(msg, a) && strings.Contains(msg, b) }
	switch {
	case has("transaction", "replica set"),
		has("session", "not supported"),
		has("transaction", "session"),
		has("illegal", "operation"):
		return true
	}
	return false
}
