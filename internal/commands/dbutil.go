package commands

import (
	"errors"
	"log/slog"

	"github.com/sycobuny/errtracker/internal/app"
	"github.com/sycobuny/errtracker/internal/collector"
)

type printedError struct {
	err error
}

func (e printedError) Error() string {
	// Intentionally hide the original error: the JSON error response is the output.
	return "error already printed"
}

func openStore() (*collector.Store, func(), error) {
	dbPath, err := app.GetDBPath()
	if err != nil {
		return nil, nil, err
	}

	db, err := collector.OpenDB(dbPath)
	if err != nil {
		return nil, nil, err
	}

	return collector.NewStore(db), func() { _ = db.Close() }, nil
}

func withStore(fn func(store *collector.Store) error) error {
	store, closeStore, err := openStore()
	if err != nil {
		return cmdErr(err)
	}
	defer closeStore()

	if err := fn(store); err != nil {
		return cmdErr(err)
	}
	return nil
}

func cmdErr(err error) error {
	if err == nil {
		return nil
	}
	attrs := []any{"error", err.Error()}
	type slogAttrError interface {
		SlogAttrs() []any
	}
	var detailed slogAttrError
	if errors.As(err, &detailed) {
		attrs = append(attrs, detailed.SlogAttrs()...)
	}
	slog.Error("command error", attrs...)
	return printedError{err: err}
}
