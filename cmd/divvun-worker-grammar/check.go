package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/divvun/divvun-worker-grammar/internal/bundle"
	"github.com/divvun/divvun-worker-grammar/internal/checker"
	derrors "github.com/divvun/divvun-worker-grammar/internal/errors"
	"github.com/divvun/divvun-worker-grammar/internal/server/responses"
)

// runCheck loads the bundle, checks one text and prints the findings. The
// process exits 2 through the error adapter on invalid usage; a clean run that
// found grammar errors exits 1 so scripts can branch on the result.
func runCheck() error {
	enc, err := checker.ParseEncoding(CLI.Check.Encoding)
	if err != nil {
		return derrors.ValidationFailed("encoding", err.Error())
	}

	b, err := bundle.Load(CLI.Check.Bundle)
	if err != nil {
		return derrors.BundleLoadError(CLI.Check.Bundle, err)
	}

	text := CLI.Check.Text
	if text == "" {
		data, rerr := io.ReadAll(os.Stdin)
		if rerr != nil {
			return derrors.ValidationFailed("text", fmt.Sprintf("reading stdin: %v", rerr))
		}
		text = string(data)
	}
	text = strings.TrimSpace(text)

	locales := CLI.Check.Locale
	if len(locales) == 0 {
		locales = []string{b.Language()}
	}

	pipeline := checker.New(b, checker.Options{
		Locales:  locales,
		Encoding: enc,
		Ignore:   CLI.Check.Ignore,
	})
	result, err := pipeline.Check(context.Background(), text)
	if err != nil {
		return derrors.PipelineError(err)
	}

	if CLI.Check.JSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(responses.ProcessResponse{Text: result.Text, Errs: result.Errs}); err != nil {
			return derrors.InternalError("encoding result", err)
		}
	} else {
		printFindings(result)
	}

	if len(result.Errs) > 0 && !CLI.Check.ExitZero {
		os.Exit(1)
	}
	return nil
}

func printFindings(result checker.Result) {
	if len(result.Errs) == 0 {
		fmt.Println("No errors found.")
		return
	}
	fmt.Printf("%d error(s) found:\n", len(result.Errs))
	for _, e := range result.Errs {
		fmt.Printf("  [%d-%d] %s (%s): %q\n", e.Beg, e.End, e.Title, e.Code, e.Form)
		if e.Description != "" {
			fmt.Printf("      %s\n", e.Description)
		}
		if len(e.Suggestions) > 0 {
			fmt.Printf("      suggestions: %s\n", strings.Join(e.Suggestions, ", "))
		}
	}
}
