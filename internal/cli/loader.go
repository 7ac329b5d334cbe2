package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/hapticlab/tacton/internal/compile"
	"github.com/hapticlab/tacton/internal/haptic"
	"github.com/hapticlab/tacton/internal/patterns"
	"github.com/hapticlab/tacton/internal/store"
)

// sourceFlags are the compile inputs shared by compile, preview and play.
type sourceFlags struct {
	Intensity  float64
	FreqCode   int
	Database   string
	LayoutName string
}

// compiled bundles everything produced from one pattern file.
type compiled struct {
	Doc    *patterns.Document
	Layout *haptic.Layout
	Params haptic.GlobalParams
	Result compile.Result
}

// compilePattern loads a pattern file, resolves its layout and compiles it
// to an event stream.
func compilePattern(path string, flags sourceFlags) (*compiled, error) {
	doc, errs := patterns.Load(path)
	if len(errs) > 0 {
		return nil, WrapExitError(ExitFailure, fmt.Sprintf("pattern file %s is invalid", path), joinErrors(errs))
	}

	params := doc.MergeParams(haptic.GlobalParams{
		Intensity:     flags.Intensity,
		FrequencyCode: flags.FreqCode,
	})

	layout, err := resolveLayout(doc, flags)
	if err != nil {
		return nil, err
	}

	comp, err := compile.New(layout, params)
	if err != nil {
		return nil, WrapExitError(ExitFailure, "invalid compile configuration", err)
	}

	src, err := doc.BuildSource(params)
	if err != nil {
		return nil, WrapExitError(ExitFailure, "invalid pattern definition", err)
	}

	res, err := comp.Compile(src)
	if err != nil {
		return nil, WrapExitError(ExitFailure, "compile failed", err)
	}

	slog.Debug("pattern compiled",
		"file", path,
		"events", len(res.Events),
		"rendered", res.Rendered,
		"truncated", res.Truncated,
		"conflicts", len(res.Conflicts))

	return &compiled{Doc: doc, Layout: layout, Params: params, Result: res}, nil
}

// resolveLayout prefers the document's own layout section, falling back to
// a saved layout from the library database.
func resolveLayout(doc *patterns.Document, flags sourceFlags) (*haptic.Layout, error) {
	if doc.HasLayout() {
		layout, err := doc.BuildLayout()
		if err != nil {
			return nil, WrapExitError(ExitFailure, "invalid layout in pattern file", err)
		}
		return layout, nil
	}

	if flags.Database == "" || flags.LayoutName == "" {
		return nil, NewExitError(ExitCommandError,
			"pattern file has no layout section; pass --db and --layout to use a saved layout")
	}

	st, err := store.Open(flags.Database)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "failed to open pattern library", err)
	}
	defer st.Close()

	layout, err := st.GetLayout(context.Background(), flags.LayoutName)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, fmt.Sprintf("saved layout %q", flags.LayoutName), err)
	}
	return layout, nil
}

// joinErrors folds a collect-all error list into one error, one message
// per line.
func joinErrors(errs []error) error {
	if len(errs) == 1 {
		return errs[0]
	}
	msgs := make([]string, 0, len(errs))
	for _, e := range errs {
		msgs = append(msgs, e.Error())
	}
	return errors.New(strings.Join(msgs, "\n"))
}
