// Package main provides an operator CLI for decoding MRZ text offline, with
// the same engine the gateway uses. Nothing is stored or audited.
package main

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"mrzgate/pkg/mrz"
)

const dateLayout = "2006-01-02"

// Exit codes.
const (
	exitOK       = 0
	exitRejected = 1
	exitUsage    = 2
)

type documentOutput struct {
	Format         string `json:"format"`
	DocumentType   string `json:"document_type"`
	IssuingState   string `json:"issuing_state"`
	DocumentNumber string `json:"document_number"`
	OptionalData1  string `json:"optional_data_1,omitempty"`
	OptionalData2  string `json:"optional_data_2,omitempty"`
	BirthDate      string `json:"birth_date"`
	Gender         string `json:"gender,omitempty"`
	ExpirationDate string `json:"expiration_date,omitempty"`
	Nationality    string `json:"nationality,omitempty"`
	Surname        string `json:"surname"`
	GivenNames     string `json:"given_names"`
}

type errorOutput struct {
	Error  string `json:"error"`
	Format string `json:"format,omitempty"`
	Field  string `json:"field,omitempty"`
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	if len(args) < 1 {
		printUsage(stderr)
		return exitUsage
	}

	switch args[0] {
	case "decode":
		return runDecode(args[1:], stdin, stdout, stderr)
	case "detect":
		return runDetect(args[1:], stdin, stdout, stderr)
	case "checkdigit":
		return runCheckDigit(args[1:], stdout, stderr)
	case "help", "-h", "--help":
		printUsage(stdout)
		return exitOK
	default:
		fmt.Fprintf(stderr, "Unknown command: %s\n\n", args[0])
		printUsage(stderr)
		return exitUsage
	}
}

func printUsage(w io.Writer) {
	fmt.Fprintln(w, `mrzdecode - Decode Machine Readable Zones offline

Usage:
  mrzdecode <command> [flags] [line...]

Commands:
  decode      Decode and validate an MRZ
  detect      Print the detected document format
  checkdigit  Print the check digit of a value

The MRZ is read from the arguments (one per line), from -file, or from
standard input.

Examples:
  mrzdecode decode -date 2025-06-15 \
    'P<UTOERIKSSON<<ANNA<MARIA<<<<<<<<<<<<<<<<<<<' \
    'L898902C36UTO7408122F1204159ZE184226B<<<<<10'

  mrzdecode decode -json -file passport.txt
  mrzdecode checkdigit L898902C3`)
}

func runDecode(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("decode", flag.ContinueOnError)
	fs.SetOutput(stderr)
	file := fs.String("file", "", "Read the MRZ from this file")
	date := fs.String("date", "", "Reference date YYYY-MM-DD for two-digit years (default today)")
	asJSON := fs.Bool("json", false, "Output as JSON")
	if err := fs.Parse(args); err != nil {
		return exitUsage
	}

	now := time.Now().UTC()
	if *date != "" {
		ref, err := time.Parse(dateLayout, *date)
		if err != nil {
			fmt.Fprintf(stderr, "Invalid -date %q: expected YYYY-MM-DD\n", *date)
			return exitUsage
		}
		now = ref
	}

	text, err := readInput(fs.Args(), *file, stdin)
	if err != nil {
		fmt.Fprintf(stderr, "Error reading input: %v\n", err)
		return exitUsage
	}

	doc, err := mrz.Parse(text, now)
	if err != nil {
		printRejection(err, *asJSON, stdout, stderr)
		return exitRejected
	}

	out := toOutput(doc)
	if *asJSON {
		printJSON(stdout, out)
		return exitOK
	}
	printDocument(stdout, out)
	return exitOK
}

func runDetect(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("detect", flag.ContinueOnError)
	fs.SetOutput(stderr)
	file := fs.String("file", "", "Read the MRZ from this file")
	if err := fs.Parse(args); err != nil {
		return exitUsage
	}

	text, err := readInput(fs.Args(), *file, stdin)
	if err != nil {
		fmt.Fprintf(stderr, "Error reading input: %v\n", err)
		return exitUsage
	}

	format, err := mrz.Detect(text)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return exitRejected
	}
	fmt.Fprintln(stdout, format)
	return exitOK
}

func runCheckDigit(args []string, stdout, stderr io.Writer) int {
	if len(args) != 1 {
		fmt.Fprintln(stderr, "Usage: mrzdecode checkdigit <value>")
		return exitUsage
	}
	digit, err := mrz.CheckDigit(strings.ToUpper(args[0]))
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitRejected
	}
	fmt.Fprintln(stdout, digit)
	return exitOK
}

// readInput joins positional lines, or reads the whole file or stdin.
func readInput(lines []string, file string, stdin io.Reader) (string, error) {
	switch {
	case len(lines) > 0 && file != "":
		return "", errors.New("pass either lines or -file, not both")
	case len(lines) > 0:
		return strings.Join(lines, "\n"), nil
	case file != "":
		b, err := os.ReadFile(file)
		if err != nil {
			return "", err
		}
		return string(b), nil
	default:
		b, err := io.ReadAll(stdin)
		if err != nil {
			return "", err
		}
		return string(b), nil
	}
}

func toOutput(doc *mrz.Document) documentOutput {
	out := documentOutput{
		Format:         doc.Format().String(),
		DocumentType:   doc.DocumentType(),
		IssuingState:   doc.IssuingState(),
		DocumentNumber: doc.DocumentNumber(),
		OptionalData1:  doc.OptionalData1(),
		OptionalData2:  doc.OptionalData2(),
		BirthDate:      doc.BirthDate().Format(dateLayout),
		Gender:         string(doc.Gender()),
		Nationality:    doc.Nationality(),
		Surname:        doc.Surname(),
		GivenNames:     doc.GivenNames(),
	}
	if expiry, ok := doc.ExpirationDate(); ok {
		out.ExpirationDate = expiry.Format(dateLayout)
	}
	return out
}

func printDocument(w io.Writer, out documentOutput) {
	row := func(label, value string) {
		if value != "" {
			fmt.Fprintf(w, "%-17s %s\n", label+":", value)
		}
	}
	row("Format", out.Format)
	row("Document Type", out.DocumentType)
	row("Issuing State", out.IssuingState)
	row("Document Number", out.DocumentNumber)
	row("Optional Data 1", out.OptionalData1)
	row("Optional Data 2", out.OptionalData2)
	row("Surname", out.Surname)
	row("Given Names", out.GivenNames)
	row("Birth Date", out.BirthDate)
	row("Gender", out.Gender)
	row("Nationality", out.Nationality)
	if out.ExpirationDate == "" {
		row("Expiration Date", "none")
	} else {
		row("Expiration Date", out.ExpirationDate)
	}
}

func printRejection(err error, asJSON bool, stdout, stderr io.Writer) {
	if !asJSON {
		fmt.Fprintf(stderr, "Rejected: %v\n", err)
		return
	}
	out := errorOutput{Error: err.Error()}
	var mErr *mrz.Error
	if errors.As(err, &mErr) {
		if mErr.Format != mrz.FormatUnknown {
			out.Format = mErr.Format.String()
		}
		out.Field = mErr.Field
	}
	printJSON(stdout, out)
}

func printJSON(w io.Writer, v any) {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(v)
}
