package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/pflag"

	"github.com/dkinsey/spc"
	"github.com/dkinsey/spc/pkg/eventbus"
)

func main() {
	opts, err := spc.ParseCommandLine()
	if err != nil {
		if !errors.Is(err, pflag.ErrHelp) {
			fmt.Printf("Could not parse configuration: %s\n\nUse spc --help for options\n", err)
		}
		os.Exit(1)
	}

	bus := eventbus.New()
	opts = append(opts, spc.WithBus(bus))

	cfg, errs := spc.NewConfig(opts...)
	if len(errs) > 0 {
		fmt.Println("Error in config:")
		for _, e := range errs {
			fmt.Println(e)
		}
		os.Exit(1)
	}

	if cfg.Verbose {
		ch, done := bus.Subscribe()
		go func() {
			for ev := range ch {
				fmt.Fprintf(os.Stderr, "%s: %+v\n", ev.Type, ev.Data)
			}
			close(done)
		}()
	}

	var rows [][]float64
	if err := json.NewDecoder(os.Stdin).Decode(&rows); err != nil {
		fmt.Println("Could not read measurement rows:", err)
		os.Exit(1)
	}

	result, err := spc.Analyze(rows, cfg)
	if err != nil {
		fmt.Println("Analysis error:", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := bus.Shutdown(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(result); err != nil {
		fmt.Println("Could not encode result:", err)
		os.Exit(1)
	}

	os.Exit(0)
}
