// Command fpcalc prints the profile for a route and the flight state at one
// fraction of it.
//
//	fpcalc -from 47.4647,8.5492 -to 49.0097,2.5479 -f 0.4
//	fpcalc -distance 540nm
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"

	"aeroprofile/pkg/config"
	"aeroprofile/pkg/flight"
	"aeroprofile/pkg/geo"
	"aeroprofile/pkg/perf"
	"aeroprofile/pkg/profile"
)

type options struct {
	from, to   string
	distance   string
	fraction   float64
	configPath string
}

func main() {
	var o options
	flag.StringVar(&o.from, "from", "", "Departure as lat,lon")
	flag.StringVar(&o.to, "to", "", "Arrival as lat,lon")
	flag.StringVar(&o.distance, "distance", "", "Route length (e.g. 500km, 270nm); overrides the great-circle distance")
	flag.Float64Var(&o.fraction, "f", 0.5, "Fraction of the route flown, 0..1")
	flag.StringVar(&o.configPath, "config", "", "Optional config file for performance constants")
	flag.Parse()

	if err := run(context.Background(), o, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "fpcalc: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, o options, out io.Writer) error {
	constants := perf.Default()
	if o.configPath != "" {
		cfg, err := config.Load(o.configPath)
		if err != nil {
			return err
		}
		constants = cfg.Performance
	}
	calc := flight.NewCalculator(constants)

	var km float64
	if o.distance != "" {
		d, err := config.ParseDistance(o.distance)
		if err != nil {
			return err
		}
		km = d.Km()
	}

	if o.from == "" || o.to == "" {
		if km == 0 {
			return errors.New("either -from and -to or -distance is required")
		}
		p, err := calc.Profile(km)
		if err != nil {
			return err
		}
		printProfile(out, km, p)
		return nil
	}

	from, err := parsePoint(o.from)
	if err != nil {
		return err
	}
	to, err := parsePoint(o.to)
	if err != nil {
		return err
	}
	route := flight.Route{From: from, To: to, DistanceKm: km}

	p, err := calc.Profile(route.Length())
	if err != nil {
		return err
	}
	printProfile(out, route.Length(), p)

	snap, err := calc.Snapshot(ctx, route, o.fraction)
	if err != nil {
		return err
	}
	fmt.Fprintln(out)
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(snap)
}

func printProfile(out io.Writer, km float64, p profile.Profile) {
	fmt.Fprintf(out, "%s profile, %.1f km (%.1f NM), %.1f min, cruise FL%.0f at %.0f kt\n\n",
		p.Kind(), km, p.TotalDistance(), p.TotalTime(), p.CruiseAltitude()/100, p.CruiseSpeed())

	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "PHASE\tNM\tENTRY FT\tEXIT FT\t")
	for _, s := range profile.Segments(p) {
		fmt.Fprintf(tw, "%s\t%.2f\t%.0f\t%.0f\t\n", s.Phase, s.Length, s.EntryAlt, s.ExitAlt)
	}
	_ = tw.Flush()
}

func parsePoint(s string) (geo.Point, error) {
	lat, lon, ok := strings.Cut(s, ",")
	if !ok {
		return geo.Point{}, fmt.Errorf("point %q: want lat,lon", s)
	}
	la, err := strconv.ParseFloat(strings.TrimSpace(lat), 64)
	if err != nil {
		return geo.Point{}, fmt.Errorf("point %q: %w", s, err)
	}
	lo, err := strconv.ParseFloat(strings.TrimSpace(lon), 64)
	if err != nil {
		return geo.Point{}, fmt.Errorf("point %q: %w", s, err)
	}
	return geo.Point{Lat: la, Lon: lo}, nil
}
