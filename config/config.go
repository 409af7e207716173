package config

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/omniscale/osmdoc/log"
)

// Config is the content of the optional -config JSON file. Command line
// options take precedence.
type Config struct {
	Connection string `json:"connection"`
	Collection string `json:"collection"`
	RulesFile  string `json:"rules"`
	Pretty     bool   `json:"pretty"`
}

type Base struct {
	ConfigFile  string
	Connection  string
	Collection  string
	RulesFile   string
	Httpprofile string
	Quiet       bool
}

type Shape struct {
	Base
	Input   string
	Output  string
	Pretty  bool
	NoWrite bool
}

type Load struct {
	Base
	Input string
}

func addBaseFlags(opts *Base, flags *flag.FlagSet) {
	flags.StringVar(&opts.ConfigFile, "config", "", "config (json)")
	flags.StringVar(&opts.Connection, "connection", "", "database connection (postgres://..., mongodb://...)")
	flags.StringVar(&opts.Collection, "collection", "", "target collection")
	flags.StringVar(&opts.Httpprofile, "httpprofile", "", "bind address for profile and metrics server")
	flags.BoolVar(&opts.Quiet, "quiet", false, "quiet log output")
}

func (o *Base) readConfig() (*Config, error) {
	conf := &Config{}
	if o.ConfigFile == "" {
		return conf, nil
	}
	f, err := os.Open(o.ConfigFile)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	decoder := json.NewDecoder(f)
	if err := decoder.Decode(conf); err != nil {
		return nil, fmt.Errorf("parsing %s: %v", o.ConfigFile, err)
	}
	return conf, nil
}

func (o *Base) updateFromConfig(conf *Config) {
	if o.Connection == "" {
		o.Connection = conf.Connection
	}
	if o.Collection == "" {
		o.Collection = conf.Collection
	}
	if o.RulesFile == "" {
		o.RulesFile = conf.RulesFile
	}
}

func (o *Base) check() []error {
	errs := []error{}
	if o.Connection != "" && o.Collection == "" {
		errs = append(errs, errors.New("missing collection for connection"))
	}
	if o.Connection == "" && o.Collection != "" {
		errs = append(errs, errors.New("missing connection for collection"))
	}
	return errs
}

func parseShape(args []string) (Shape, *flag.FlagSet, []error) {
	opts := Shape{}
	flags := flag.NewFlagSet("shape", flag.ContinueOnError)
	addBaseFlags(&opts.Base, flags)
	flags.StringVar(&opts.RulesFile, "rules", "", "shaping rules (yaml)")
	flags.StringVar(&opts.Output, "output", "", "JSON lines output (default <input>.json)")
	flags.BoolVar(&opts.Pretty, "pretty", false, "indent JSON output")
	flags.BoolVar(&opts.NoWrite, "nowrite", false, "do not write JSON output")

	if err := flags.Parse(args); err != nil {
		return opts, flags, []error{err}
	}
	conf, err := opts.readConfig()
	if err != nil {
		return opts, flags, []error{err}
	}
	opts.updateFromConfig(conf)
	if !opts.Pretty {
		opts.Pretty = conf.Pretty
	}

	errs := opts.check()
	if flags.NArg() != 1 {
		errs = append(errs, errors.New("expected a single input file"))
	} else {
		opts.Input = flags.Arg(0)
	}
	if opts.NoWrite && opts.Output != "" {
		errs = append(errs, errors.New("-nowrite not compatible with -output"))
	}
	return opts, flags, errs
}

func parseLoad(args []string) (Load, *flag.FlagSet, []error) {
	opts := Load{}
	flags := flag.NewFlagSet("load", flag.ContinueOnError)
	addBaseFlags(&opts.Base, flags)

	if err := flags.Parse(args); err != nil {
		return opts, flags, []error{err}
	}
	conf, err := opts.readConfig()
	if err != nil {
		return opts, flags, []error{err}
	}
	opts.updateFromConfig(conf)

	errs := opts.check()
	if opts.Connection == "" {
		errs = append(errs, errors.New("missing connection"))
	}
	if flags.NArg() != 1 {
		errs = append(errs, errors.New("expected a single JSON lines file"))
	} else {
		opts.Input = flags.Arg(0)
	}
	return opts, flags, errs
}

func ParseShape(args []string) Shape {
	opts, flags, errs := parseShape(args)
	if len(errs) != 0 {
		reportErrors(errs)
		usage(flags, "[args] input.osm|input.osm.pbf|input.osc.gz")
	}
	log.SetQuiet(opts.Quiet)
	return opts
}

func ParseLoad(args []string) Load {
	opts, flags, errs := parseLoad(args)
	if len(errs) != 0 {
		reportErrors(errs)
		usage(flags, "[args] records.json")
	}
	log.SetQuiet(opts.Quiet)
	return opts
}

func usage(flags *flag.FlagSet, args string) {
	fmt.Fprintf(os.Stderr, "Usage: %s %s %s\n\n", os.Args[0], flags.Name(), args)
	flags.SetOutput(os.Stderr)
	flags.PrintDefaults()
	os.Exit(2)
}

func reportErrors(errs []error) {
	fmt.Fprintln(os.Stderr, "errors in config/options:")
	for _, err := range errs {
		fmt.Fprintf(os.Stderr, "\t%s\n", err)
	}
}
