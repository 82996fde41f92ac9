package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"math/rand/v2"
	"os"

	"github.com/NocTempre/acks-caravan/internal/config"
	"github.com/NocTempre/acks-caravan/internal/environment"
	"github.com/NocTempre/acks-caravan/internal/logistics"
)

// version, commit, date are injected at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

type options struct {
	planPath     string
	tunablesPath string
	tablesPath   string
	vessel       string
	driving      bool
	hexMiles     float64
	seed         int64
	asJSON       bool
	verbose      bool
	gm           bool
}

func main() {
	var (
		showVersion bool
		opts        options
	)

	flag.BoolVar(&showVersion, "version", false, "print version and exit")
	flag.StringVar(&opts.planPath, "plan", "", "party plan YAML (required)")
	flag.StringVar(&opts.tunablesPath, "tunables", "", "tunables YAML")
	flag.StringVar(&opts.tablesPath, "tables", "", "environment YAML merged over the builtin tables")
	flag.StringVar(&opts.vessel, "vessel", "", "vessel key to travel by")
	flag.BoolVar(&opts.driving, "driving", false, "treat the party as having a qualified driver")
	flag.Float64Var(&opts.hexMiles, "hex", 6, "hex width in miles")
	flag.Int64Var(&opts.seed, "seed", 0, "seed for encounter rolls (0 = random)")
	flag.BoolVar(&opts.asJSON, "json", false, "print the report as JSON")
	flag.BoolVar(&opts.verbose, "v", false, "log ledger and vehicle changes to stderr")
	flag.BoolVar(&opts.gm, "gm", false, "run as the game master, so gm-approval loans can be retrieved")
	flag.Parse()

	if showVersion {
		fmt.Printf("caravan %s (%s) %s\n", version, commit, date)
		return
	}
	if opts.planPath == "" {
		fmt.Fprintln(os.Stderr, "caravan: -plan is required")
		flag.Usage()
		os.Exit(2)
	}

	if err := run(context.Background(), opts, os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(ctx context.Context, opts options, stdout, stderr io.Writer) error {
	tunables, err := config.Load(opts.tunablesPath)
	if err != nil {
		return err
	}
	tables := environment.Builtin()
	if opts.tablesPath != "" {
		if tables, err = environment.Load(opts.tablesPath); err != nil {
			return err
		}
	}
	plan, err := readPlan(opts.planPath)
	if err != nil {
		return err
	}

	logger := log.New(io.Discard, "", 0)
	if opts.verbose {
		logger = log.New(stderr, "caravan: ", log.LstdFlags)
	}
	w := logistics.NewWorld(
		logistics.WithTunables(tunables),
		logistics.WithTables(tables),
		logistics.WithLogger(logger),
		logistics.WithPrivilege(logistics.PrivilegeFunc(func(context.Context) bool { return opts.gm })),
	)
	if err := plan.apply(ctx, w); err != nil {
		return err
	}

	var rng *rand.Rand
	if opts.seed != 0 {
		rng = environment.SeededRNG(opts.seed)
	}
	r, err := buildReport(ctx, w, plan.Party.ID, logistics.MovementOptions{
		VesselKey:   opts.vessel,
		Driving:     opts.driving,
		HexDistance: opts.hexMiles,
	}, rng)
	if err != nil {
		return err
	}
	if opts.asJSON {
		return r.writeJSON(stdout)
	}
	return r.writeText(stdout)
}
