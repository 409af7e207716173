package main

import (
	"context"
	"fmt"
	golog "log"
	"os"

	"github.com/omniscale/osmdoc"
	"github.com/omniscale/osmdoc/config"
	"github.com/omniscale/osmdoc/database"
	_ "github.com/omniscale/osmdoc/database/mongo"
	_ "github.com/omniscale/osmdoc/database/postgres"
	"github.com/omniscale/osmdoc/log"
	"github.com/omniscale/osmdoc/mapping"
	"github.com/omniscale/osmdoc/reader"
	"github.com/omniscale/osmdoc/shape"
	"github.com/omniscale/osmdoc/stats"
	"github.com/omniscale/osmdoc/writer"
)

func PrintCmds() {
	fmt.Fprintf(os.Stderr, "Usage: %s COMMAND [args]\n\n", os.Args[0])
	fmt.Println("Available commands:")
	fmt.Println("\tshape")
	fmt.Println("\tload")
	fmt.Println("\tversion")
}

func Main(usage func()) {
	golog.SetFlags(golog.LstdFlags | golog.Lshortfile)

	if len(os.Args) <= 1 {
		usage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "shape":
		opts := config.ParseShape(os.Args[2:])
		if opts.Httpprofile != "" {
			stats.StartHttpPProf(opts.Httpprofile)
		}
		if err := shapeFile(context.Background(), opts); err != nil {
			log.Fatal("[fatal] ", err)
		}
	case "load":
		opts := config.ParseLoad(os.Args[2:])
		if opts.Httpprofile != "" {
			stats.StartHttpPProf(opts.Httpprofile)
		}
		if err := loadFile(context.Background(), opts); err != nil {
			log.Fatal("[fatal] ", err)
		}
	case "version":
		fmt.Println(osmdoc.Version)
		os.Exit(0)
	default:
		usage()
		log.Fatalf("[fatal] invalid command: '%s'", os.Args[1])
	}
	os.Exit(0)
}

func shapeFile(ctx context.Context, opts config.Shape) error {
	rules := shape.DefaultRules()
	if opts.RulesFile != "" {
		var err error
		rules, err = mapping.FromFile(opts.RulesFile)
		if err != nil {
			return err
		}
	}

	readOpts := reader.Options{
		Shaper: shape.New(rules),
		Output: opts.Output,
		Pretty: opts.Pretty,
	}
	if readOpts.Output == "" && !opts.NoWrite {
		readOpts.Output = writer.OutputName(opts.Input)
	}

	step := log.Step("Shaping " + opts.Input)
	var records []shape.Record
	var err error
	if opts.Connection != "" {
		records, _, err = reader.Read(ctx, opts.Input, readOpts)
	} else {
		_, err = reader.Process(ctx, opts.Input, readOpts, func(*shape.Record) error { return nil })
	}
	step()
	if err != nil {
		return err
	}
	if readOpts.Output != "" {
		log.Printf("[info] Records written to %s", readOpts.Output)
	}

	if opts.Connection == "" {
		return nil
	}
	return insert(ctx, opts.Base, records)
}

func loadFile(ctx context.Context, opts config.Load) error {
	records, err := database.Load(opts.Input)
	if err != nil {
		return err
	}
	return insert(ctx, opts.Base, records)
}

func insert(ctx context.Context, opts config.Base, records []shape.Record) error {
	coll, err := database.Open(database.Config{
		ConnectionParams: opts.Connection,
		Collection:       opts.Collection,
	})
	if err != nil {
		return err
	}
	defer coll.Close()

	step := log.Step("Inserting into " + opts.Collection)
	err = coll.Insert(ctx, records)
	step()
	if err != nil {
		return err
	}
	stats.RecordInsert(database.ConnectionType(opts.Connection), opts.Collection, len(records))
	return nil
}

func main() {
	Main(PrintCmds)
}
