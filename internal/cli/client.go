package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/hankerbiao/Registration-System/internal/console/mutation"
	"github.com/hankerbiao/Registration-System/internal/console/notify"
	"github.com/hankerbiao/Registration-System/internal/console/query"
	"github.com/hankerbiao/Registration-System/internal/console/session"
	"github.com/hankerbiao/Registration-System/internal/console/validate"
)

// errReported marks an error whose message was already shown
var errReported = errors.New("error already reported")

type reportedError struct {
	err error
}

func (e *reportedError) Error() string        { return e.err.Error() }
func (e *reportedError) Unwrap() error        { return e.err }
func (e *reportedError) Is(target error) bool { return target == errReported }

func reported(err error) error {
	return &reportedError{err: err}
}

// errorHandler shows request failures through the configured output
func errorHandler() *notify.ErrorHandler {
	return notify.NewErrorHandler(out)
}

// requireLogin fails before any request when no token is held
func requireLogin() error {
	if errors.Is(sess.Guard(), session.ErrLoginRequired) {
		return fmt.Errorf("not logged in: run 'regctl login' first")
	}
	return nil
}

// invalid prints field errors; nothing is sent to the server
func invalid(errs validate.Errors) error {
	out.FieldErrors(errs)
	return reported(errors.New("invalid input"))
}

// fetch runs a read and shows its failure the same way as a mutation's
func fetch[T any](ctx context.Context, fn func(context.Context) (T, error)) (T, error) {
	v, err := fn(ctx)
	if err != nil {
		errorHandler().Handle(err)
		return v, reported(err)
	}
	return v, nil
}

// gateway wraps fn for the session cache. success is shown when fn
// succeeds and keys are marked stale either way.
func gateway[In, Out any](fn func(context.Context, In) (Out, error), success string, keys ...query.Key) *mutation.Gateway[In, Out] {
	g := mutation.New(fn, sess.Cache(), keys...)
	g.OnSuccess = func(Out) {
		if success != "" {
			out.Notify(notify.Success(success))
		}
	}
	g.OnError = errorHandler().Handle
	return g
}

func run[In, Out any](ctx context.Context, g *mutation.Gateway[In, Out], in In) (Out, error) {
	res, err := g.Mutate(ctx, in)
	if err != nil {
		return res, reported(err)
	}
	return res, nil
}

// mutate sends a write through a default gateway
func mutate[In, Out any](ctx context.Context, fn func(context.Context, In) (Out, error), in In, success string, keys ...query.Key) (Out, error) {
	return run(ctx, gateway(fn, success, keys...), in)
}
