// Command apply fills the intake form from a JSON file, validates it, and
// submits it to a running gateway.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"time"

	"applygate/internal/applicant"
	"applygate/internal/applicant/form"
	"applygate/internal/applicant/validation"
	"applygate/internal/client"
	"applygate/internal/platform/logger"
	"applygate/pkg/platform/privacy"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("apply", flag.ContinueOnError)
	fs.SetOutput(stderr)
	gateways := fs.String("gateway", strings.Join(client.DefaultBaseURLs, ","), "comma separated gateway base URLs, tried in order")
	timeout := fs.Duration("timeout", 30*time.Second, "overall submission timeout")
	logLevel := fs.String("log-level", "warn", "log level")
	fs.Usage = func() {
		fmt.Fprintf(stderr, "usage: apply [flags] <applicant.json | ->\n")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() != 1 {
		fs.Usage()
		return 2
	}

	values, err := readFields(fs.Arg(0), stdin)
	if err != nil {
		fmt.Fprintf(stderr, "read applicant: %v\n", err)
		return 1
	}

	log := logger.New(stderr, *logLevel, "text")
	f := form.New(validation.New(), log, privacy.DefaultMasker())
	for name, value := range values {
		f.Set(name, value)
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	c := client.New(strings.Split(*gateways, ","), client.WithLogger(log))
	var result *client.Result
	err = f.Submit(ctx, func(ctx context.Context, rec applicant.Record) error {
		var err error
		result, err = c.Apply(ctx, rec)
		return err
	})

	switch {
	case errors.Is(err, form.ErrSubmissionBlocked):
		printErrors(stderr, f.Errors())
		return 1
	case err != nil:
		_ = client.Render(stdout, client.FailureCard(err))
		return 1
	}
	_ = client.Render(stdout, client.CardFor(result.Outcome))
	return 0
}

func readFields(path string, stdin io.Reader) (map[string]string, error) {
	var r io.Reader = stdin
	if path != "-" {
		file, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer file.Close()
		r = file
	}
	var values map[string]string
	if err := json.NewDecoder(r).Decode(&values); err != nil {
		return nil, err
	}
	return values, nil
}

func printErrors(w io.Writer, errs map[string]string) {
	names := make([]string, 0, len(errs))
	for name := range errs {
		names = append(names, name)
	}
	sort.Strings(names)
	fmt.Fprintln(w, "application not submitted:")
	for _, name := range names {
		fmt.Fprintf(w, "  %s: %s\n", name, errs[name])
	}
}
