package dock

import (
	"context"
	"io"

	"github.com/muesli/termenv"

	"github.com/bcomc/bcom/internal/errors"
	"github.com/bcomc/bcom/internal/logger"
)

// Toolkit is what the shell needs before it can build an emulator.
type Toolkit struct {
	Profile termenv.Profile
	Fitter  Fitter // nil when the fit helper did not load
}

// ToolkitOptions configures NewToolkitLoader. Core is required; Fit is
// optional and a failure to load it only disables fitting.
type ToolkitOptions struct {
	Core   func(ctx context.Context) (termenv.Profile, error)
	Fit    func(ctx context.Context) (Fitter, error)
	Logger logger.Logger
}

// DetectProfile returns a core loader reading the color profile of w from
// the environment.
func DetectProfile(w io.Writer) func(ctx context.Context) (termenv.Profile, error) {
	return func(ctx context.Context) (termenv.Profile, error) {
		if err := ctx.Err(); err != nil {
			return termenv.Ascii, err
		}
		return termenv.NewOutput(w).EnvColorProfile(), nil
	}
}

// DefaultFit returns the built-in cell fitter.
func DefaultFit(context.Context) (Fitter, error) {
	return CellFitter{}, nil
}

// NewToolkitLoader returns a one-shot loader for the terminal toolkit.
func NewToolkitLoader(opts ToolkitOptions) *Loader[Toolkit] {
	log := opts.Logger
	if log == nil {
		log = logger.Noop()
	}

	return NewLoader(func(ctx context.Context) (Toolkit, error) {
		if opts.Core == nil {
			return Toolkit{}, errors.New(errors.ErrTerminal, "no terminal toolkit configured", "")
		}
		profile, err := opts.Core(ctx)
		if err != nil {
			return Toolkit{}, errors.WrapWithCode(err, errors.ErrTerminal,
				"couldn't load the terminal toolkit",
				"Switch to the shell tab again to retry")
		}

		tk := Toolkit{Profile: profile}
		if opts.Fit != nil {
			f, err := opts.Fit(ctx)
			if err != nil {
				log.Debug("fit helper unavailable, continuing without it: %v", err)
			} else {
				tk.Fitter = f
			}
		}
		return tk, nil
	})
}

// Fitter maps a container size in cells to an emulator grid.
type Fitter interface {
	Fit(width, height int) (cols, rows int)
}

// Smallest grid a fitter will produce.
const (
	MinCols = 2
	MinRows = 1
)

// CellFitter fills the container minus padding.
type CellFitter struct {
	PadX int
	PadY int
}

func (f CellFitter) Fit(width, height int) (int, int) {
	cols := width - f.PadX
	rows := height - f.PadY
	if cols < MinCols {
		cols = MinCols
	}
	if rows < MinRows {
		rows = MinRows
	}
	return cols, rows
}
