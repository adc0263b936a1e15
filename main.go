package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/cerfical/daylog/internal/config"
	"github.com/cerfical/daylog/internal/daylog"
	"github.com/cerfical/daylog/internal/log"
)

func main() {
	config := config.Load(os.Args)
	log := log.New(log.WithLevel(config.Log.Level))

	writer := daylog.New(
		daylog.WithDir(config.Dir),
		daylog.WithLogger(log),
	)
	writer.Init(config.Prefix)

	if len(config.Args) > 0 {
		writer.Log(strings.Join(config.Args, " "), config.Severity)
		return
	}

	if err := run(os.Stdin, writer, config.Severity); err != nil {
		log.Fatal("Failed to read standard input", "error", err)
	}
}

// run logs each line of in as a separate entry.
// Lines are not limited in length.
func run(in io.Reader, w *daylog.Writer, sev daylog.Severity) error {
	r := bufio.NewReader(in)
	for {
		line, err := r.ReadString('\n')
		if line != "" {
			line = strings.TrimSuffix(line, "\n")
			w.Log(strings.TrimSuffix(line, "\r"), sev)
		}

		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return fmt.Errorf("read line: %w", err)
		}
	}
}
