package spc

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/go-yaml/yaml"
	"github.com/spf13/pflag"

	"github.com/dkinsey/spc/pkg/limits"
)

type options struct {
	options []ConfigOption
	err     error
}

// ParseCommandLine configures an analysis from command line flags or from a
// YAML configuration file passed with the -c flag.  Returns a slice of
// functional options that can be applied with NewConfig.
func ParseCommandLine() ([]ConfigOption, error) {
	pf := createFlagSet()
	return parse(os.Args[1:], pf)
}

func parse(args []string, pf *pflag.FlagSet) ([]ConfigOption, error) {
	options := options{}
	if err := pf.ParseAll(args, parseFlag(&options)); err != nil {
		return options.options, err
	}
	return options.options, options.err
}

func createFlagSet() *pflag.FlagSet {
	pf := pflag.NewFlagSet("spc", pflag.ContinueOnError)
	pf.Usage = func() {
		fmt.Printf("Usage of spc:\nspc --usl <limit> --lsl <limit> <options> < rows.json\n")
		fmt.Printf("\n%s", pf.FlagUsagesWrapped(10))
	}

	pf.StringP("config", "c", "", "Use yaml configuration file")
	pf.Float64("usl", 0, "Upper specification limit (required)")
	pf.Float64("lsl", 0, "Lower specification limit (required)")
	pf.Float64("target", 0, "Optional process target value")
	pf.Int("subgroup-size", 5, "Subgroup size for x-bar/R charts, 2-25")
	pf.String("chart", "xbar-r", "Chart pair: xbar-r or i-mr")
	pf.String("rules", "", "Comma-separated rule ids to enable, 1-8.  Default enables all.")
	pf.BoolP("verbose", "v", false, "Print diagnostic events to stderr")

	return pf
}

func parseFlag(o *options) func(*pflag.Flag, string) error {
	return func(flag *pflag.Flag, value string) error {
		switch flag.Name {
		case "config":
			opts, err := parseFromFile(value)
			if err != nil {
				o.err = err
				return err
			}
			o.options = append(o.options, opts...)
		default:
			option, err := handleOption(flag.Name, value)
			if err != nil {
				o.err = err
				return err
			}
			o.options = append(o.options, option)
		}
		return nil
	}
}

func handleOption(name string, value string) (ConfigOption, error) {
	switch name {
	case "usl":
		v, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return nil, fmt.Errorf("could not parse usl: %s", value)
		}
		return USL(v), nil
	case "lsl":
		v, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return nil, fmt.Errorf("could not parse lsl: %s", value)
		}
		return LSL(v), nil
	case "target":
		v, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return nil, fmt.Errorf("could not parse target: %s", value)
		}
		return Target(v), nil
	case "subgroup-size":
		n, err := strconv.Atoi(value)
		if err != nil {
			return nil, fmt.Errorf("could not convert subgroup-size to integer")
		}
		return SubgroupSize(n), nil
	case "chart":
		return Chart(limits.ChartType(value)), nil
	case "rules":
		ids, err := parseRuleList(value)
		if err != nil {
			return nil, err
		}
		return Rules(ids...), nil
	case "verbose":
		return Verbose(), nil
	default:
		return nil, fmt.Errorf("unknown option: %s", name)
	}
}

func parseRuleList(value string) ([]int, error) {
	var ids []int
	for _, part := range strings.Split(value, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := strconv.Atoi(part)
		if err != nil {
			return nil, fmt.Errorf("could not parse rule id: %s", part)
		}
		ids = append(ids, id)
	}
	if len(ids) == 0 {
		return nil, fmt.Errorf("rules list is empty")
	}
	return ids, nil
}

func parseFromFile(fpath string) ([]ConfigOption, error) {
	var options []ConfigOption
	data, err := os.ReadFile(fpath)
	if err != nil {
		return options, err
	}

	cfg := make(map[string]interface{})
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return options, err
	}
	for k, v := range cfg {
		switch val := v.(type) {
		case string:
			opt, err := handleOption(k, val)
			if err != nil {
				return options, err
			}
			options = append(options, opt)
		case int:
			opt, err := handleOption(k, strconv.Itoa(val))
			if err != nil {
				return options, err
			}
			options = append(options, opt)
		case float64:
			opt, err := handleOption(k, strconv.FormatFloat(val, 'g', -1, 64))
			if err != nil {
				return options, err
			}
			options = append(options, opt)
		// handles the case of a list of rule ids
		case []interface{}:
			if k != "rules" {
				return options, fmt.Errorf("unknown list option: %s", k)
			}
			var ids []int
			for _, item := range val {
				id, ok := item.(int)
				if !ok {
					return options, fmt.Errorf("could not parse rule id in config file: %v", item)
				}
				ids = append(ids, id)
			}
			options = append(options, Rules(ids...))
		default:
			return options, fmt.Errorf("could not process config key %s, unknown type", k)
		}
	}
	return options, nil
}
