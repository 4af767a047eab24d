package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/alecthomas/kong"
	"github.com/spf13/afero"

	"github.com/mcncl/json2raml/internal/config"
	"github.com/mcncl/json2raml/internal/converter"
	"github.com/mcncl/json2raml/internal/errors"
	"github.com/mcncl/json2raml/internal/output"
	"github.com/mcncl/json2raml/internal/parser"
	"github.com/mcncl/json2raml/internal/watcher"
)

// CLI defines the command-line interface
var CLI struct {
	Input         string `help:"Path to input JSON or JSON Schema file. If not specified, reads from stdin." short:"i" type:"path"`
	Output        string `help:"Path to output RAML file. If not specified, writes to stdout." short:"o" type:"path"`
	OutDir        string `help:"Directory to write the RAML file into, named after the input file." short:"O" type:"path"`
	Config        string `help:"Path to a config file. Defaults to the nearest .json2raml.yml." short:"c" type:"path"`
	Example       bool   `help:"Append the source JSON to the output as an example." short:"e"`
	AllowComments bool   `help:"Accept // and /* */ comments and trailing commas in the input." short:"C"`
	Detection     string `help:"How JSON Schema input is recognized: strict ($schema plus type or properties) or marker ($schema alone)."`
	Watch         bool   `help:"Convert again whenever the input file changes. Requires --input." short:"w"`
	Debug         bool   `help:"Enable debug logging." short:"d"`
	Version       bool   `help:"Show version information." short:"v"`
	Interactive   bool   `help:"Run in interactive mode, allowing direct JSON input with Ctrl+D to process." short:"I"`
}

// Context holds the runtime context
type Context struct {
	Debug  bool
	Config *config.Config
	Fs     afero.Fs
	Logger *log.Logger
}

// Version information
const (
	Version = "0.1.0"
)

func main() {
	cli := kong.Must(&CLI,
		kong.Name("json2raml"),
		kong.Description("A tool to convert JSON and JSON Schema to RAML 1.0 DataTypes"),
		kong.UsageOnError(),
	)

	// Check if no arguments provided and set interactive mode by default
	if len(os.Args) == 1 {
		CLI.Interactive = true
	}

	_, err := cli.Parse(os.Args[1:])
	if err != nil {
		// If there's an error parsing arguments, the usage will already be shown by kong.UsageOnError()
		os.Exit(1)
	}

	if CLI.Version {
		fmt.Printf("json2raml version %s\n", Version)
		return
	}

	ctx, err := newContext(afero.NewOsFs())
	if err == nil {
		err = run(ctx)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s\n", errors.UserFriendlyError(err))
		fmt.Fprintf(os.Stderr, "\nFor help, run: json2raml --help\n")
		os.Exit(1)
	}
}

// newContext loads configuration and applies CLI flags on top of it
func newContext(fsys afero.Fs) (*Context, error) {
	configPath := CLI.Config
	if configPath == "" {
		if wd, err := os.Getwd(); err == nil {
			configPath = config.FindConfigFile(fsys, wd)
		}
	}

	cfg, err := config.LoadConfigWithCLI(fsys, configPath, config.Overrides{
		IncludeSourceAsExample: CLI.Example,
		AllowComments:          CLI.AllowComments,
		Detection:              CLI.Detection,
		Debug:                  CLI.Debug,
	})
	if err != nil {
		return nil, errors.NewConfigError(err.Error(), err)
	}

	logger := newLogger(cfg.Dev.Debug)
	if configPath != "" {
		logger.Printf("using config %s", configPath)
	}

	return &Context{
		Debug:  cfg.Dev.Debug,
		Config: cfg,
		Fs:     fsys,
		Logger: logger,
	}, nil
}

// newLogger returns the stderr debug logger, silent unless debug is on
func newLogger(debug bool) *log.Logger {
	if !debug {
		return log.New(io.Discard, "", 0)
	}
	return log.New(os.Stderr, "json2raml: ", log.Ltime)
}

// run executes the main program logic
func run(ctx *Context) error {
	if ctx.Logger == nil {
		ctx.Logger = newLogger(ctx.Debug)
	}
	if ctx.Fs == nil {
		ctx.Fs = afero.NewOsFs()
	}
	if ctx.Config == nil {
		ctx.Config = config.NewConfig()
	}

	conv := converter.NewConverterWithConfig(ctx.Config)
	session := output.NewSession(openTarget(ctx))

	if CLI.Watch {
		return watch(ctx, conv, session)
	}

	text, err := readSource(ctx)
	if err != nil {
		return err
	}
	return convertAndShow(ctx, conv, session, text)
}

// convertAndShow converts text and hands the result to the session's target
func convertAndShow(ctx *Context, conv *converter.Converter, session *output.Session, text string) error {
	result, err := conv.Convert(text)
	if err != nil {
		return err
	}
	if result.Skipped {
		ctx.Logger.Printf("input is blank, nothing to convert")
		return nil
	}
	ctx.Logger.Printf("converted input as %s", result.Mode)

	target, err := session.Show(result.RAML)
	if err != nil {
		return err
	}
	if _, isFile := target.(*output.FileTarget); isFile {
		fmt.Fprintf(os.Stderr, "Generated RAML written to %s\n", target.Name())
	}
	return nil
}

// watch converts the input once, then again after every change to it
func watch(ctx *Context, conv *converter.Converter, session *output.Session) error {
	if CLI.Input == "" {
		return errors.NewInputError("watch mode needs an input file", errors.ErrNoInput)
	}

	w, err := watcher.New(CLI.Input, ctx.Config.Watch.Debounce, ctx.Logger)
	if err != nil {
		return err
	}
	defer w.Close()

	convertFile := func() {
		text, err := parser.ReadFile(ctx.Fs, CLI.Input)
		if err == nil {
			err = convertAndShow(ctx, conv, session, text)
		}
		if err != nil {
			// Keep watching; the next save may fix it
			fmt.Fprintf(os.Stderr, "%s\n", errors.UserFriendlyError(err))
		}
	}
	convertFile()

	sigCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fmt.Fprintf(os.Stderr, "Watching %s for changes (Ctrl+C to stop)\n", w.Path())
	return w.Run(sigCtx, convertFile)
}

// openTarget returns the function the session uses to open its target
func openTarget(ctx *Context) func() (output.Target, error) {
	return func() (output.Target, error) {
		switch {
		case CLI.Output != "":
			return output.NewFileTarget(ctx.Fs, CLI.Output), nil
		case CLI.OutDir != "":
			if CLI.Input == "" {
				return nil, errors.NewOutputError("--out-dir needs an input file to name the output after", errors.ErrInvalidFilePath)
			}
			name := output.FileName(CLI.Input, ctx.Config.Output.Extension, ctx.Config.Output.PascalCaseNames)
			return output.NewFileTarget(ctx.Fs, filepath.Join(CLI.OutDir, name)), nil
		default:
			return output.Stdout()
		}
	}
}

// readSource reads raw JSON text from file or stdin
func readSource(ctx *Context) (string, error) {
	if CLI.Input != "" {
		return parser.ReadFile(ctx.Fs, CLI.Input)
	}

	stdinInfo, err := os.Stdin.Stat()
	if err != nil {
		return "", errors.NewInputError("failed to access stdin", err)
	}

	// Interactive mode or piped input
	if (stdinInfo.Mode() & os.ModeCharDevice) != 0 {
		if CLI.Interactive {
			return readInteractiveInput()
		}
		return "", errors.NewInputError("no input provided", errors.ErrNoInput)
	}

	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return "", errors.NewInputError("failed to read from stdin", err)
	}
	return string(data), nil
}

// readInteractiveInput provides an interactive mode for users to paste JSON
// and signal completion with Ctrl+D (EOF)
func readInteractiveInput() (string, error) {
	fmt.Fprintln(os.Stderr, "json2raml Interactive Mode")
	fmt.Fprintln(os.Stderr, "Paste your JSON below and press Ctrl+D (or Ctrl+Z on Windows) when done:")

	reader := bufio.NewReader(os.Stdin)
	var jsonBuilder strings.Builder

	for {
		line, err := reader.ReadString('\n')
		jsonBuilder.WriteString(line)
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", errors.NewInputError("error reading input", err)
		}
	}

	fmt.Fprintln(os.Stderr, "\nProcessing JSON...")
	return jsonBuilder.String(), nil
}
