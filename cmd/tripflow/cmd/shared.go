package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/goccy/go-yaml"

	"github.com/chauffeurhq/tripflow/internal/config"
	"github.com/chauffeurhq/tripflow/pkg/errors"
	"github.com/chauffeurhq/tripflow/pkg/extract"
	"github.com/chauffeurhq/tripflow/pkg/geo"
	"github.com/chauffeurhq/tripflow/pkg/geocode"
	"github.com/chauffeurhq/tripflow/pkg/logging"
	"github.com/chauffeurhq/tripflow/pkg/reconcile"
	"github.com/chauffeurhq/tripflow/pkg/trip"
)

// loadTrip reads a trip from a YAML or JSON file.
func loadTrip(path string) (*trip.Trip, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.WrapIO("read", path, err)
	}

	var t trip.Trip
	if strings.EqualFold(filepath.Ext(path), ".json") {
		if err := json.Unmarshal(data, &t); err != nil {
			return nil, errors.WrapParse("json", path, err)
		}
		return &t, nil
	}
	if err := yaml.Unmarshal(data, &t); err != nil {
		return nil, errors.WrapParse("yaml", path, err)
	}
	return &t, nil
}

// loadUpdate reads an extracted update from a JSON file.
func loadUpdate(path string) (*trip.ExtractedUpdate, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.WrapIO("read", path, err)
	}
	update, err := extract.Decode(data)
	if err != nil {
		return nil, errors.WrapParse("json", path, err)
	}
	return update, nil
}

// loadRegion resolves the configured operating region.
func loadRegion() (*geo.Region, error) {
	var (
		regions []geo.Region
		err     error
	)
	if path := config.RegionsFile(); path != "" {
		regions, err = geo.LoadRegions(path)
	} else {
		regions, err = geo.DefaultRegions()
	}
	if err != nil {
		return nil, err
	}

	region, err := geo.FindRegion(regions, config.Region())
	if err != nil {
		return nil, fmt.Errorf("unknown region %q: %w", config.Region(), err)
	}
	return region, nil
}

// buildEngine assembles a reconciliation engine from configuration.
func buildEngine() (*reconcile.Engine, error) {
	region, err := loadRegion()
	if err != nil {
		return nil, err
	}

	opts := []reconcile.Option{
		reconcile.WithRegion(region),
		reconcile.WithLogger(logging.Default()),
	}
	if url := config.GeocodeBaseURL(); url != "" {
		opts = append(opts, reconcile.WithGeocoder(
			geocode.NewClient(url, geocode.WithAPIKey(config.GeocodeAPIKey()))))
	}
	if n := config.RepairWorkers(); n > 0 {
		opts = append(opts, reconcile.WithRepairWorkers(n))
	}
	return reconcile.New(opts...)
}

// printJSON writes v to stdout as indented JSON.
func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
