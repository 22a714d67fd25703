package main

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/hashicorp/go-multierror"
	"github.com/olekukonko/tablewriter"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/urfave/cli/v2"

	"github.com/zephyrtronium/symcalc"
	"github.com/zephyrtronium/symcalc/fn"
)

// runner holds state shared between subcommands.
type runner struct {
	log zerolog.Logger
}

func (r *runner) setup(c *cli.Context) error {
	lvl := zerolog.WarnLevel
	if c.Bool("verbose") {
		lvl = zerolog.DebugLevel
	}
	out := zerolog.ConsoleWriter{Out: c.App.ErrWriter, NoColor: true}
	r.log = zerolog.New(out).Level(lvl).With().Timestamp().Logger()
	return nil
}

func (r *runner) eval(c *cli.Context) error {
	opts := []symcalc.ParseOption{symcalc.MaxDepth(c.Int("max-depth")), symcalc.Logger(r.log)}
	if c.Bool("nofold") {
		opts = append(opts, symcalc.NoFold())
	}
	args, err := given(c.StringSlice("given"), opts)
	if err != nil {
		return err
	}
	srcs := c.Args().Slice()
	if len(srcs) == 0 {
		srcs, err = lines(c.App.Reader)
		if err != nil {
			return errors.Wrap(err, "reading stdin")
		}
	}
	verb := c.String("fmt") + "\n"
	var errs *multierror.Error
	for _, src := range srcs {
		a, err := symcalc.Parse(src, opts...)
		if err != nil {
			err = errors.Wrapf(err, "parsing %q", src)
			fmt.Fprintln(c.App.Writer, err)
			errs = multierror.Append(errs, err)
			continue
		}
		if c.Bool("echo") {
			fmt.Fprintf(c.App.Writer, "%v : ", a)
		}
		v, err := a.Eval(args)
		if err != nil {
			err = errors.Wrapf(err, "evaluating %q", src)
			fmt.Fprintln(c.App.Writer, err)
			errs = multierror.Append(errs, err)
			continue
		}
		r.log.Debug().Str("expr", src).Strs("vars", a.Vars()).Float64("result", v).Msg("evaluated")
		fmt.Fprintf(c.App.Writer, verb, v)
	}
	return errs.ErrorOrNil()
}

func (r *runner) tokens(c *cli.Context) error {
	if c.NArg() == 0 {
		return errors.New("tokens: no expression given")
	}
	src := strings.Join(c.Args().Slice(), " ")
	toks, err := symcalc.Tokenize(src)
	if err != nil {
		return errors.Wrapf(err, "scanning %q", src)
	}
	tw := tablewriter.NewWriter(c.App.Writer)
	tw.SetHeader([]string{"Pos", "Kind", "Text"})
	for _, tok := range toks {
		tw.Append([]string{strconv.Itoa(tok.Pos), tok.Kind.String(), tok.Text})
	}
	tw.Render()
	return nil
}

func (r *runner) fn(c *cli.Context) error {
	f, err := function(c.Args().Slice())
	if err != nil {
		return err
	}
	args, err := given(c.StringSlice("given"), []symcalc.ParseOption{symcalc.Logger(r.log)})
	if err != nil {
		return err
	}
	v, err := f.Apply(args)
	if err != nil {
		fmt.Fprintf(c.App.Writer, "%v undefined: %v\n", f, err)
		return errors.Wrapf(err, "applying %v", f)
	}
	fmt.Fprintf(c.App.Writer, "%v = "+c.String("fmt")+"\n", f, v)
	return nil
}

// given parses name=value definitions. Every value must be a constant
// expression.
func given(defs []string, opts []symcalc.ParseOption) (fn.Args, error) {
	args := make(fn.Args, len(defs))
	var errs *multierror.Error
	for _, d := range defs {
		name, val, ok := strings.Cut(d, "=")
		if !ok {
			errs = multierror.Append(errs, errors.Errorf(`variable definitions must be "name=value", not %q`, d))
			continue
		}
		name = strings.TrimSpace(name)
		a, err := symcalc.Parse(val, opts...)
		if err != nil {
			errs = multierror.Append(errs, errors.Wrapf(err, "setting %s", name))
			continue
		}
		v, ok := a.Const()
		if !ok {
			errs = multierror.Append(errs, errors.Errorf("setting %s: value %q uses variables %v", name, val, a.Vars()))
			continue
		}
		args[name] = v
	}
	return args, errs.ErrorOrNil()
}

// lines reads the non-blank lines of r.
func lines(r io.Reader) ([]string, error) {
	var s []string
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		if strings.TrimSpace(sc.Text()) != "" {
			s = append(s, sc.Text())
		}
	}
	return s, sc.Err()
}

// function builds a single node from a kind name and its operands.
func function(words []string) (fn.Function, error) {
	if len(words) == 0 {
		return nil, errors.New("fn: no function kind given")
	}
	kind, ops := words[0], words[1:]
	switch kind {
	case "add", "mul", "div", "coef", "exp", "log", "root":
	default:
		return nil, errors.Errorf("fn: unknown function kind %q", kind)
	}
	switch kind {
	case "add", "mul":
		if len(ops) == 0 {
			return nil, errors.Errorf("fn %s: need at least one operand", kind)
		}
	default:
		if len(ops) != 2 {
			return nil, errors.Errorf("fn %s: need exactly two operands, have %d", kind, len(ops))
		}
	}
	fs := make([]fn.Function, len(ops))
	for i, op := range ops {
		f, err := operand(op)
		if err != nil {
			return nil, errors.Wrapf(err, "fn %s", kind)
		}
		fs[i] = f
	}
	switch kind {
	case "add":
		return fn.NewAdd(fs...), nil
	case "mul":
		return fn.NewMul(fs...), nil
	case "div":
		return fn.NewDiv(fs[0], fs[1]), nil
	case "coef":
		k, ok := fs[0].(fn.Const)
		if !ok {
			return nil, errors.Errorf("fn coef: coefficient must be a number, not %q", ops[0])
		}
		return fn.NewCoef(float64(k), fs[1]), nil
	case "exp":
		return fn.NewExp(fs[0], fs[1]), nil
	case "log":
		return fn.NewLog(fs[0], fs[1]), nil
	default:
		return fn.NewRoot(fs[0], fs[1]), nil
	}
}

// operand interprets a number literal as a constant and an identifier as a
// variable.
func operand(s string) (fn.Function, error) {
	toks, err := symcalc.Tokenize(s)
	if err != nil {
		return nil, err
	}
	if len(toks) == 2 {
		switch toks[0].Kind {
		case symcalc.TokenNumber:
			return fn.Const(toks[0].Num), nil
		case symcalc.TokenIdent:
			return fn.Var(toks[0].Text), nil
		}
	}
	if len(toks) == 3 && toks[0].Kind == symcalc.TokenMinus && toks[1].Kind == symcalc.TokenNumber {
		return fn.Const(-toks[1].Num), nil
	}
	return nil, errors.Errorf("operand %q is not a number or a variable name", s)
}
