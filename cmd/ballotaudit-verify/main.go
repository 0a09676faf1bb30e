// Command ballotaudit-verify checks a spoiled ballot artifact offline.
// Exit status is 0 when the Ballot ID matches, 2 when it does not and 1 on failure
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"

	"ballotaudit/internal/adapters/crypto/reference"
	"ballotaudit/internal/core/render"
	"ballotaudit/internal/core/verify"
	"ballotaudit/internal/core/version"
	"ballotaudit/internal/platform/logger"
)

const name = "ballotaudit-verify"

type report struct {
	verify.Outcome
	Messages map[string][]string `json:"messages,omitempty"`
	Withheld bool                `json:"contests_withheld,omitempty"`
}

func main() {
	var (
		file           string
		claimed        string
		sample         bool
		lang           string
		showUnverified bool
		showVersion    bool
	)
	flag.StringVar(&file, "file", "", "path to the auditable ballot json (- for stdin)")
	flag.StringVar(&claimed, "id", "", "Ballot ID shown to the voter")
	flag.BoolVar(&sample, "sample", false, "print a sample auditable ballot and its Ballot ID, then exit")
	flag.StringVar(&lang, "lang", "en", "language for diagnostic messages")
	flag.BoolVar(&showUnverified, "show-unverified", false, "print contests even when the Ballot ID does not match")
	flag.BoolVar(&showVersion, "version", false, "print build info and exit")
	flag.Parse()

	if showVersion {
		fmt.Println(version.Info(name).String())
		return
	}
	if sample {
		raw, id := verify.SampleArtifact()
		fmt.Fprintf(os.Stderr, "ballot id: %s\n", id)
		os.Stdout.Write(append(raw, '\n'))
		return
	}

	logger.Init(logger.Options{Service: name, Level: "warn", Writer: os.Stderr})
	code, err := run(context.Background(), file, claimed, lang, showUnverified, os.Stdout)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	os.Exit(code)
}

func run(ctx context.Context, file, claimed, lang string, showUnverified bool, out io.Writer) (int, error) {
	if file == "" || claimed == "" {
		return 1, fmt.Errorf("-file and -id are required")
	}
	raw, err := readInput(file)
	if err != nil {
		return 1, err
	}

	eng := verify.New(reference.New(), verify.WithLogger(logger.Get()))
	o, err := eng.Verify(ctx, raw, claimed)
	if err != nil {
		return 1, err
	}

	r, err := render.New()
	if err != nil {
		return 1, err
	}
	rep := report{Outcome: o}
	if !o.BallotIDMatches && !showUnverified {
		rep.Contests = nil
		rep.Withheld = true
	}
	for _, c := range rep.Contests {
		if msgs := r.RenderAll(lang, c); len(msgs) > 0 {
			if rep.Messages == nil {
				rep.Messages = map[string][]string{}
			}
			rep.Messages[c.ContestID] = msgs
		}
	}

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	if err := enc.Encode(rep); err != nil {
		return 1, err
	}
	if !o.BallotIDMatches {
		return 2, nil
	}
	return 0, nil
}

func readInput(file string) ([]byte, error) {
	if file == "-" {
		return io.ReadAll(os.Stdin)
	}
	raw, err := os.ReadFile(file)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", file, err)
	}
	return raw, nil
}
