package main

import (
	"errors"
	"fmt"

	"github.com/goccy/go-json"

	"github.com/jonathon-love/jamovi-compiler/pkg/compiler"
)

// diagnostic is the machine-readable form of a failure.
type diagnostic struct {
	File    string `json:"file"`
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

func newDiagnostic(err error) diagnostic {
	var ce *compiler.Error
	if errors.As(err, &ce) {
		return diagnostic{File: ce.File, Kind: ce.Kind.String(), Message: ce.Message}
	}
	return diagnostic{Kind: "error", Message: err.Error()}
}

func report(env *environment, err error) {
	if !env.json {
		fmt.Fprintln(env.stderr, err)
		return
	}
	data, marshalErr := json.Marshal(newDiagnostic(err))
	if marshalErr != nil {
		fmt.Fprintln(env.stderr, err)
		return
	}
	fmt.Fprintln(env.stderr, string(data))
}
