package main

import (
	"bufio"
	"encoding/csv"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"

	"github.com/tlamer/pyqif/internal/config"
	"github.com/tlamer/pyqif/internal/convert"
	"github.com/tlamer/pyqif/internal/logger"
	"github.com/tlamer/pyqif/internal/qif"
)

// Exit codes, one per error category, so scripting callers can tell
// configuration problems from data problems.
const (
	exitConfigFile = 1 // configuration file missing or unreadable
	exitConfig     = 2 // configuration invalid (type, date pattern, option)
	exitNoAccount  = 3 // account section or field mapping missing
	exitHeader     = 4 // declared column label absent from header row
	exitDate       = 5 // data row date does not match date_input
	exitIO         = 6 // input or output stream failure
)

type options struct {
	input  string
	output string
	config string
	debug  bool
}

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	fs := flag.NewFlagSet("pyqif", flag.ContinueOnError)
	var opts options
	fs.StringVar(&opts.input, "i", "", "")
	fs.StringVar(&opts.input, "input", "", "Path to the csv file.")
	fs.StringVar(&opts.output, "o", "", "")
	fs.StringVar(&opts.output, "output", "", "Path to the output file. Print to stdout if not specified.")
	fs.StringVar(&opts.config, "c", "~/.pyqifrc", "")
	fs.StringVar(&opts.config, "config", "~/.pyqifrc", "Path to the config file. The default is ~/.pyqifrc.")
	fs.BoolVar(&opts.debug, "d", false, "")
	fs.BoolVar(&opts.debug, "debug", false, "Print debug messages.")
	fs.Usage = printUsage
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return exitConfig
	}

	level := zerolog.WarnLevel
	if opts.debug {
		level = zerolog.DebugLevel
	}
	log := logger.New(level)

	account := fs.Arg(0)
	if account == "" || opts.input == "" {
		printUsage()
		return exitConfig
	}

	cfgPath := expandPath(opts.config)
	cfgFile, err := os.Open(cfgPath)
	if err != nil {
		log.Error().Str("path", cfgPath).Err(err).Msg("Provide an existing configuration file")
		return exitConfigFile
	}
	cfg, err := config.Load(cfgFile, account)
	cfgFile.Close()
	if err != nil {
		log.Error().Err(err).Msg("Invalid configuration")
		return configExitCode(err)
	}
	log.Debug().
		Str("type", cfg.Type).
		Str("encoding", cfg.Encoding).
		Strs("fields", cfg.Items.Codes()).
		Msg("Account configuration loaded")

	in, err := os.Open(expandPath(opts.input))
	if err != nil {
		log.Error().Err(err).Msg("Cannot open input file")
		return exitIO
	}
	defer in.Close()

	decoded, err := decodeReader(in, cfg.Encoding)
	if err != nil {
		log.Error().Err(err).Msg("Invalid encoding in configuration")
		return exitConfig
	}

	rows := csv.NewReader(decoded)
	rows.Comma = cfg.Delimiter
	rows.FieldsPerRecord = -1

	var (
		sink     io.Writer = os.Stdout
		outFile  *os.File
		buffered *bufio.Writer
	)
	if opts.output != "" {
		outFile, err = os.Create(expandPath(opts.output))
		if err != nil {
			log.Error().Err(err).Msg("Cannot create output file")
			return exitIO
		}
		buffered = bufio.NewWriter(outFile)
		sink = buffered
	}

	if err := convert.New(cfg, log).Run(rows, sink); err != nil {
		if outFile != nil {
			outFile.Close()
		}
		log.Error().Err(err).Msg("Conversion failed")
		return runExitCode(err)
	}

	if buffered != nil {
		if err := finishOutput(buffered, outFile); err != nil {
			log.Error().Err(err).Msg("Cannot finish output file")
			return exitIO
		}
	}

	return 0
}

// finishOutput flushes the buffered tail of the converted stream and closes
// the output file. A failure here means the file is truncated, so it must
// reach the caller instead of dying in a deferred call.
func finishOutput(buffered *bufio.Writer, f *os.File) error {
	if err := buffered.Flush(); err != nil {
		f.Close()
		return fmt.Errorf("flushing output: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("closing output: %w", err)
	}
	return nil
}

func printUsage() {
	fmt.Fprintln(os.Stderr, "Convert csv transaction exports to qif format.")
	fmt.Fprintln(os.Stderr, "\nUsage:")
	fmt.Fprintln(os.Stderr, "  pyqif [flags] <account>")
	fmt.Fprintln(os.Stderr, "\nFlags:")
	fmt.Fprintln(os.Stderr, "  -i, -input PATH    Path to the csv file (required).")
	fmt.Fprintln(os.Stderr, "  -o, -output PATH   Path to the output file. Print to stdout if not specified.")
	fmt.Fprintln(os.Stderr, "  -c, -config PATH   Path to the config file. The default is ~/.pyqifrc.")
	fmt.Fprintln(os.Stderr, "  -d, -debug         Print debug messages.")
}

// expandPath resolves a leading ~ against the user's home directory.
func expandPath(path string) string {
	if path == "~" {
		if home, err := os.UserHomeDir(); err == nil {
			return home
		}
	}
	if len(path) > 1 && path[0] == '~' && path[1] == '/' {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, path[2:])
		}
	}
	return path
}

// configExitCode maps configuration load failures to their exit codes.
func configExitCode(err error) int {
	var (
		notFound *config.SectionNotFoundError
		noItems  *config.MissingItemsError
	)
	if errors.As(err, &notFound) || errors.As(err, &noItems) {
		return exitNoAccount
	}
	return exitConfig
}

// runExitCode maps conversion failures to their exit codes.
func runExitCode(err error) int {
	var headerErr *convert.HeaderResolutionError
	if errors.As(err, &headerErr) {
		return exitHeader
	}
	var dateErr *qif.DateParseError
	if errors.As(err, &dateErr) {
		return exitDate
	}
	return exitIO
}
